package service

import (
	"context"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// EntityService exposes read access to the scheduling entities derived
// from the latest upload.
type EntityService struct {
	teachers       TeacherStore
	groups         StudentGroupStore
	courses        CourseStore
	availabilities AvailabilityStore
}

// NewEntityService builds an entity read service.
func NewEntityService(teachers TeacherStore, groups StudentGroupStore, courses CourseStore, availabilities AvailabilityStore) *EntityService {
	return &EntityService{teachers: teachers, groups: groups, courses: courses, availabilities: availabilities}
}

// Teachers lists the current roster.
func (s *EntityService) Teachers(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers.List(ctx)
}

// StudentGroups lists the current groups.
func (s *EntityService) StudentGroups(ctx context.Context) ([]models.StudentGroup, error) {
	return s.groups.List(ctx)
}

// Courses lists the current courses.
func (s *EntityService) Courses(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

// Availabilities lists the declared teacher availability windows.
func (s *EntityService) Availabilities(ctx context.Context) ([]models.AvailabilityRecord, error) {
	return s.availabilities.List(ctx)
}
