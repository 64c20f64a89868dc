package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// AvailabilityRepository provides database access for teacher
// availability windows.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new instance of AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create inserts an availability window.
func (r *AvailabilityRepository) Create(ctx context.Context, record *models.AvailabilityRecord) error {
	const query = `INSERT INTO availabilities (id, teacher, day, start_time, end_time, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.db.ExecContext(ctx, query, record.ID, record.Teacher, record.Day, record.StartTime, record.EndTime, record.CreatedAt); err != nil {
		return fmt.Errorf("create availability: %w", err)
	}
	return nil
}

// List returns all availability windows ordered by teacher, day, start.
func (r *AvailabilityRepository) List(ctx context.Context) ([]models.AvailabilityRecord, error) {
	const query = `SELECT id, teacher, day, start_time, end_time, created_at FROM availabilities ORDER BY teacher, day, start_time`
	records := make([]models.AvailabilityRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list availabilities: %w", err)
	}
	return records, nil
}

// ListByTeacher returns the windows declared for one teacher name.
func (r *AvailabilityRepository) ListByTeacher(ctx context.Context, teacher string) ([]models.AvailabilityRecord, error) {
	const query = `SELECT id, teacher, day, start_time, end_time, created_at FROM availabilities WHERE teacher = $1 ORDER BY day, start_time`
	records := make([]models.AvailabilityRecord, 0)
	if err := r.db.SelectContext(ctx, &records, query, teacher); err != nil {
		return nil, fmt.Errorf("list availabilities by teacher: %w", err)
	}
	return records, nil
}

// DeleteAll removes every availability window.
func (r *AvailabilityRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM availabilities`); err != nil {
		return fmt.Errorf("delete all availabilities: %w", err)
	}
	return nil
}
