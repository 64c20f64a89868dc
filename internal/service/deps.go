package service

import (
	"context"
	"time"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/solver"
)

// Storage interfaces are declared here, at the consumer site, so the
// scheduling logic depends on behaviour rather than on the concrete
// sqlx repositories.

// TeacherStore persists the teacher roster of the active upload cycle.
type TeacherStore interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	List(ctx context.Context) ([]models.Teacher, error)
	FindByName(ctx context.Context, name string) (*models.Teacher, error)
	DeleteAll(ctx context.Context) error
}

// StudentGroupStore persists student groups.
type StudentGroupStore interface {
	Create(ctx context.Context, group *models.StudentGroup) error
	List(ctx context.Context) ([]models.StudentGroup, error)
	FindByName(ctx context.Context, name string) (*models.StudentGroup, error)
	DeleteAll(ctx context.Context) error
}

// CourseStore persists courses.
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	List(ctx context.Context) ([]models.Course, error)
	FindByName(ctx context.Context, name string) (*models.Course, error)
	DeleteAll(ctx context.Context) error
}

// AvailabilityStore persists teacher availability windows.
type AvailabilityStore interface {
	Create(ctx context.Context, record *models.AvailabilityRecord) error
	List(ctx context.Context) ([]models.AvailabilityRecord, error)
	DeleteAll(ctx context.Context) error
}

// ClassStore persists validated placements.
type ClassStore interface {
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	List(ctx context.Context) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	ListEnriched(ctx context.Context) ([]models.EnrichedClass, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// Cache is the read-cache boundary for enriched schedule payloads.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// SolverAPI is the external solver boundary.
type SolverAPI interface {
	Submit(ctx context.Context, timetable models.Timetable) (string, error)
	Status(ctx context.Context, jobID string) (*solver.StatusResponse, error)
	Solution(ctx context.Context, jobID string) (*models.Solution, error)
}
