package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// ClassRepository provides database access for persisted placements.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository creates a new instance of ClassRepository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

const classColumns = `id, course_id, teacher_id, student_group_id, day, start_time, end_time, has_conflict, meeting_link, created_at`

// Create inserts a class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	const query = `INSERT INTO classes (id, course_id, teacher_id, student_group_id, day, start_time, end_time, has_conflict, meeting_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query,
		class.ID, class.CourseID, class.TeacherID, class.StudentGroupID,
		class.Day, class.StartTime, class.EndTime, class.HasConflict,
		class.MeetingLink, class.CreatedAt); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update rewrites every mutable field of a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	const query = `UPDATE classes SET course_id = $2, teacher_id = $3, student_group_id = $4, day = $5,
		start_time = $6, end_time = $7, has_conflict = $8, meeting_link = $9 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query,
		class.ID, class.CourseID, class.TeacherID, class.StudentGroupID,
		class.Day, class.StartTime, class.EndTime, class.HasConflict, class.MeetingLink)
	if err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all classes in stable creation order.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes ORDER BY created_at, id`
	classes := make([]models.Class, 0)
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by identifier.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE id = $1 LIMIT 1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class by id: %w", err)
	}
	return &class, nil
}

// ListEnriched joins classes with course, teacher and group names.
func (r *ClassRepository) ListEnriched(ctx context.Context) ([]models.EnrichedClass, error) {
	const query = `SELECT c.id, co.name AS course_name, co.code AS course_code,
			t.name AS teacher_name, g.name AS student_group,
			c.day, c.start_time, c.end_time, c.has_conflict, c.meeting_link,
			c.course_id, c.teacher_id, c.student_group_id
		FROM classes c
		JOIN courses co ON co.id = c.course_id
		JOIN teachers t ON t.id = c.teacher_id
		JOIN student_groups g ON g.id = c.student_group_id
		ORDER BY c.created_at, c.id`
	classes := make([]models.EnrichedClass, 0)
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list enriched classes: %w", err)
	}
	return classes, nil
}

// Delete removes one class.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAll removes every class.
func (r *ClassRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes`); err != nil {
		return fmt.Errorf("delete all classes: %w", err)
	}
	return nil
}
