package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// StudentGroupRepository provides database access for student groups.
type StudentGroupRepository struct {
	db *sqlx.DB
}

// NewStudentGroupRepository creates a new instance of StudentGroupRepository.
func NewStudentGroupRepository(db *sqlx.DB) *StudentGroupRepository {
	return &StudentGroupRepository{db: db}
}

// Create inserts a student group.
func (r *StudentGroupRepository) Create(ctx context.Context, group *models.StudentGroup) error {
	const query = `INSERT INTO student_groups (id, name, created_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, group.ID, group.Name, group.CreatedAt); err != nil {
		return fmt.Errorf("create student group: %w", err)
	}
	return nil
}

// List returns all student groups ordered by name.
func (r *StudentGroupRepository) List(ctx context.Context) ([]models.StudentGroup, error) {
	const query = `SELECT id, name, created_at FROM student_groups ORDER BY name`
	groups := make([]models.StudentGroup, 0)
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list student groups: %w", err)
	}
	return groups, nil
}

// FindByName returns the group with the given display name.
func (r *StudentGroupRepository) FindByName(ctx context.Context, name string) (*models.StudentGroup, error) {
	const query = `SELECT id, name, created_at FROM student_groups WHERE name = $1 LIMIT 1`
	var group models.StudentGroup
	if err := r.db.GetContext(ctx, &group, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student group by name: %w", err)
	}
	return &group, nil
}

// DeleteAll removes every student group.
func (r *StudentGroupRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM student_groups`); err != nil {
		return fmt.Errorf("delete all student groups: %w", err)
	}
	return nil
}
