package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

func newClassRepoMock(t *testing.T) (*ClassRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewClassRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestClassRepositoryCreate(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	now := time.Now().UTC()
	link := "https://meet.example/r1"
	class := &models.Class{
		ID: "c1", CourseID: "co1", TeacherID: "t1", StudentGroupID: "g1",
		Day: "Monday", StartTime: "09:00", EndTime: "10:00",
		HasConflict: false, MeetingLink: &link, CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO classes`)).
		WithArgs("c1", "co1", "t1", "g1", "Monday", "09:00", "10:00", false, &link, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), class)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryUpdateNotFound(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE classes SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Class{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryList(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "course_id", "teacher_id", "student_group_id",
		"day", "start_time", "end_time", "has_conflict", "meeting_link", "created_at",
	}).
		AddRow("c1", "co1", "t1", "g1", "Monday", "09:00", "10:00", false, nil, now).
		AddRow("c2", "co2", "t2", "g1", "Tuesday", "10:00", "11:00", true, nil, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id, teacher_id, student_group_id, day, start_time, end_time, has_conflict, meeting_link, created_at FROM classes ORDER BY created_at, id`)).
		WillReturnRows(rows)

	classes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "c1", classes[0].ID)
	assert.True(t, classes[1].HasConflict)
	assert.Nil(t, classes[0].MeetingLink)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassRepositoryListEmpty(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, course_id`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "course_id", "teacher_id", "student_group_id",
			"day", "start_time", "end_time", "has_conflict", "meeting_link", "created_at",
		}))

	classes, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, classes)
	assert.Empty(t, classes)
}

func TestClassRepositoryFindByID(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM classes WHERE id = $1 LIMIT 1`)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "course_id", "teacher_id", "student_group_id",
			"day", "start_time", "end_time", "has_conflict", "meeting_link", "created_at",
		}).AddRow("c1", "co1", "t1", "g1", "Monday", "09:00", "10:00", false, nil, now))

	class, err := repo.FindByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "Monday", class.Day)
}

func TestClassRepositoryFindByIDNotFound(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM classes WHERE id = $1 LIMIT 1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClassRepositoryListEnriched(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	rows := sqlmock.NewRows([]string{
		"id", "course_name", "course_code", "teacher_name", "student_group",
		"day", "start_time", "end_time", "has_conflict", "meeting_link",
		"course_id", "teacher_id", "student_group_id",
	}).AddRow("c1", "Math", "MATH", "Turing", "G1", "Monday", "09:00", "10:00", false, nil, "co1", "t1", "g1")

	mock.ExpectQuery(regexp.QuoteMeta(`JOIN courses co ON co.id = c.course_id`)).
		WillReturnRows(rows)

	enriched, err := repo.ListEnriched(context.Background())
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, "Math", enriched[0].CourseName)
	assert.Equal(t, "Turing", enriched[0].TeacherName)
}

func TestClassRepositoryDelete(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM classes WHERE id = $1`)).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "c1"))

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM classes WHERE id = $1`)).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
}

func TestClassRepositoryDeleteAll(t *testing.T) {
	repo, mock := newClassRepoMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM classes`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteAll(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
