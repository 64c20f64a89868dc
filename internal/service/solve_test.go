package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/solver"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/config"
)

type stubTeacherStore struct {
	byName  map[string]*models.Teacher
	findErr error
}

func (s *stubTeacherStore) Create(ctx context.Context, teacher *models.Teacher) error { return nil }
func (s *stubTeacherStore) List(ctx context.Context) ([]models.Teacher, error)        { return nil, nil }
func (s *stubTeacherStore) DeleteAll(ctx context.Context) error                       { return nil }
func (s *stubTeacherStore) FindByName(ctx context.Context, name string) (*models.Teacher, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	if t, ok := s.byName[name]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

type stubGroupStore struct{ byName map[string]*models.StudentGroup }

func (s *stubGroupStore) Create(ctx context.Context, group *models.StudentGroup) error { return nil }
func (s *stubGroupStore) List(ctx context.Context) ([]models.StudentGroup, error)      { return nil, nil }
func (s *stubGroupStore) DeleteAll(ctx context.Context) error                          { return nil }
func (s *stubGroupStore) FindByName(ctx context.Context, name string) (*models.StudentGroup, error) {
	if g, ok := s.byName[name]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

type stubCourseStore struct{ byName map[string]*models.Course }

func (s *stubCourseStore) Create(ctx context.Context, course *models.Course) error { return nil }
func (s *stubCourseStore) List(ctx context.Context) ([]models.Course, error)       { return nil, nil }
func (s *stubCourseStore) DeleteAll(ctx context.Context) error                     { return nil }
func (s *stubCourseStore) FindByName(ctx context.Context, name string) (*models.Course, error) {
	if c, ok := s.byName[name]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type stubAvailabilityStore struct{}

func (s *stubAvailabilityStore) Create(ctx context.Context, record *models.AvailabilityRecord) error {
	return nil
}
func (s *stubAvailabilityStore) List(ctx context.Context) ([]models.AvailabilityRecord, error) {
	return nil, nil
}
func (s *stubAvailabilityStore) DeleteAll(ctx context.Context) error { return nil }

type memClassStore struct {
	mu      sync.Mutex
	created []models.Class
	wipes   int
}

func (s *memClassStore) Create(ctx context.Context, class *models.Class) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, *class)
	return nil
}
func (s *memClassStore) Update(ctx context.Context, class *models.Class) error { return nil }
func (s *memClassStore) List(ctx context.Context) ([]models.Class, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Class, len(s.created))
	copy(out, s.created)
	return out, nil
}
func (s *memClassStore) FindByID(ctx context.Context, id string) (*models.Class, error) {
	return nil, sql.ErrNoRows
}
func (s *memClassStore) ListEnriched(ctx context.Context) ([]models.EnrichedClass, error) {
	return nil, nil
}
func (s *memClassStore) Delete(ctx context.Context, id string) error { return nil }
func (s *memClassStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = nil
	s.wipes++
	return nil
}

func (s *memClassStore) snapshot() []models.Class {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Class, len(s.created))
	copy(out, s.created)
	return out
}

type fakeSolverAPI struct {
	mu          sync.Mutex
	submitID    string
	submitErr   error
	statuses    []string
	statusErr   error
	solution    *models.Solution
	solutionErr error
	polls       int
}

func (f *fakeSolverAPI) Submit(ctx context.Context, timetable models.Timetable) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitID, nil
}

func (f *fakeSolverAPI) Status(ctx context.Context, jobID string) (*solver.StatusResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	status := solver.StatusNotSolving
	if len(f.statuses) > 0 {
		status = f.statuses[0]
		if len(f.statuses) > 1 {
			f.statuses = f.statuses[1:]
		}
	}
	f.polls++
	return &solver.StatusResponse{SolverStatus: status}, nil
}

func (f *fakeSolverAPI) Solution(ctx context.Context, jobID string) (*models.Solution, error) {
	if f.solutionErr != nil {
		return nil, f.solutionErr
	}
	return f.solution, nil
}

type solveFixture struct {
	svc     *SolveService
	classes *memClassStore
	api     *fakeSolverAPI
}

func newSolveFixture(t *testing.T, cfg config.SolverConfig, api *fakeSolverAPI) *solveFixture {
	t.Helper()
	classes := &memClassStore{}
	svc := NewSolveService(
		cfg,
		api,
		NewGreedyScheduler(nil),
		nil,
		classes,
		&stubTeacherStore{byName: map[string]*models.Teacher{
			"Turing": {ID: "t1", Name: "Turing"},
			"Curie":  {ID: "t2", Name: "Curie"},
		}},
		&stubGroupStore{byName: map[string]*models.StudentGroup{
			"G1": {ID: "g1", Name: "G1"},
			"G2": {ID: "g2", Name: "G2"},
		}},
		&stubCourseStore{byName: map[string]*models.Course{
			"Math":    {ID: "c1", Name: "Math", Code: "MATH"},
			"Physics": {ID: "c2", Name: "Physics", Code: "PHYSICS"},
		}},
		&stubAvailabilityStore{},
		nil,
		nil,
	)
	return &solveFixture{svc: svc, classes: classes, api: api}
}

func baseTimetable() models.Timetable {
	return models.Timetable{
		Timeslots: []models.Timeslot{
			slot(models.Monday, "09:00", "10:00"),
			slot(models.Monday, "13:00", "14:00"),
		},
		Rooms: []models.Room{
			{ID: "R1", Name: "R1", Link: "https://meet.example/r1"},
			{ID: "R2", Name: "R2"},
		},
	}
}

func TestPersistSolutionSkipsOutsideAvailability(t *testing.T) {
	fx := newSolveFixture(t, config.SolverConfig{}, &fakeSolverAPI{})

	timetable := baseTimetable()
	timetable.TeacherAvailabilities = []models.TeacherAvailability{
		{ID: "1", Teacher: "Turing", DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "12:00"},
	}
	solution := &models.Solution{Lessons: []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "MONDAY_13:00", Room: "R1"},
	}}

	report, err := fx.svc.persistSolution(context.Background(), timetable, solution)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, SkipOutsideAvailability, report.Reasons["1"])
	assert.Empty(t, fx.classes.snapshot())
}

func TestPersistSolutionFirstLessonWins(t *testing.T) {
	fx := newSolveFixture(t, config.SolverConfig{}, &fakeSolverAPI{})

	solution := &models.Solution{Lessons: []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R1"},
		{ID: "2", Subject: "Physics", Teacher: "Turing", StudentGroup: "G2", Timeslot: "MONDAY_09:00", Room: "R2"},
		{ID: "3", Subject: "Physics", Teacher: "Curie", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R2"},
	}}

	report, err := fx.svc.persistSolution(context.Background(), baseTimetable(), solution)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, SkipTeacherDoubleBooked, report.Reasons["2"])
	assert.Equal(t, SkipGroupOverlap, report.Reasons["3"])

	created := fx.classes.snapshot()
	require.Len(t, created, 1)
	assert.Equal(t, "t1", created[0].TeacherID)
	assert.Equal(t, "Monday", created[0].Day)
	require.NotNil(t, created[0].MeetingLink)
	assert.Equal(t, "https://meet.example/r1", *created[0].MeetingLink)
}

func TestPersistSolutionRoomRules(t *testing.T) {
	fx := newSolveFixture(t, config.SolverConfig{}, &fakeSolverAPI{})

	solution := &models.Solution{Lessons: []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R1"},
		{ID: "2", Subject: "Physics", Teacher: "Curie", StudentGroup: "G2", Timeslot: "MONDAY_09:00", Room: "R1"},
		{ID: "3", Subject: "Physics", Teacher: "Curie", StudentGroup: "G2", Timeslot: "MONDAY_13:00"},
	}}

	report, err := fx.svc.persistSolution(context.Background(), baseTimetable(), solution)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, SkipRoomOverlap, report.Reasons["2"])
	assert.Equal(t, SkipNoRoomAssigned, report.Reasons["3"])
}

func TestPersistSolutionMissingEntities(t *testing.T) {
	fx := newSolveFixture(t, config.SolverConfig{}, &fakeSolverAPI{})

	solution := &models.Solution{Lessons: []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Nobody", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R1"},
		{ID: "2", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "SATURDAY_09:00", Room: "R1"},
		{ID: "3", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
	}}

	report, err := fx.svc.persistSolution(context.Background(), baseTimetable(), solution)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Created)
	assert.Equal(t, SkipMissingEntity, report.Reasons["1"])
	assert.Equal(t, SkipMissingEntity, report.Reasons["2"])
	assert.Equal(t, SkipNoTimeslot, report.Reasons["3"])
}

func TestPersistSolutionAbortsOnLookupFailure(t *testing.T) {
	// A transient repository failure must fail the whole pass, not get
	// recorded as a skipped lesson.
	classes := &memClassStore{}
	svc := NewSolveService(
		config.SolverConfig{},
		&fakeSolverAPI{},
		NewGreedyScheduler(nil),
		nil,
		classes,
		&stubTeacherStore{findErr: errors.New("connection reset")},
		&stubGroupStore{},
		&stubCourseStore{},
		&stubAvailabilityStore{},
		nil,
		nil,
	)

	solution := &models.Solution{Lessons: []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R1"},
	}}

	_, err := svc.persistSolution(context.Background(), baseTimetable(), solution)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), "lesson 1")
	assert.Empty(t, classes.snapshot())
}

func TestPersistSolutionReplacesPreviousSchedule(t *testing.T) {
	fx := newSolveFixture(t, config.SolverConfig{}, &fakeSolverAPI{})
	require.NoError(t, fx.classes.Create(context.Background(), &models.Class{ID: "stale"}))

	solution := &models.Solution{Lessons: []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R1"},
	}}

	report, err := fx.svc.persistSolution(context.Background(), baseTimetable(), solution)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, fx.classes.wipes)
	created := fx.classes.snapshot()
	require.Len(t, created, 1)
	assert.NotEqual(t, "stale", created[0].ID)
}

func TestStartSolveGreedyFallback(t *testing.T) {
	api := &fakeSolverAPI{submitErr: errors.New("connection refused")}
	fx := newSolveFixture(t, config.SolverConfig{GreedyFallback: true}, api)

	timetable := baseTimetable()
	timetable.Lessons = []models.Lesson{
		{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
	}

	jobID, err := fx.svc.StartSolve(context.Background(), timetable)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(jobID, localJobPrefix), "fallback jobs carry the local prefix, got %q", jobID)

	status, err := fx.svc.Status(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobSolved, status.State)

	result, err := fx.svc.Result(jobID)
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.Equal(t, 1, result.Report.Created)

	// Local jobs answer Solution from memory without touching the solver.
	solution, err := fx.svc.Solution(context.Background(), jobID)
	require.NoError(t, err)
	require.Len(t, solution.Lessons, 1)
	assert.NotEmpty(t, solution.Lessons[0].Timeslot)
}

func TestStartSolveFallbackDisabled(t *testing.T) {
	api := &fakeSolverAPI{submitErr: errors.New("connection refused")}
	fx := newSolveFixture(t, config.SolverConfig{GreedyFallback: false}, api)

	_, err := fx.svc.StartSolve(context.Background(), baseTimetable())
	require.Error(t, err)
	assert.Empty(t, fx.classes.snapshot())
}

func TestSolvePollingLifecycle(t *testing.T) {
	api := &fakeSolverAPI{
		submitID: "job-1",
		statuses: []string{solver.StatusSolving, solver.StatusNotSolving},
		solution: &models.Solution{Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1", Timeslot: "MONDAY_09:00", Room: "R1"},
		}},
	}
	fx := newSolveFixture(t, config.SolverConfig{
		PollInterval:    2 * time.Millisecond,
		MaxPollAttempts: 50,
	}, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx.svc.Start(ctx)
	defer fx.svc.Stop()

	jobID, err := fx.svc.StartSolve(ctx, baseTimetable())
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)

	require.Eventually(t, func() bool {
		status, err := fx.svc.Status(jobID)
		return err == nil && status.State == JobSolved
	}, 2*time.Second, 5*time.Millisecond, "job should reach SOLVED")

	result, err := fx.svc.Result(jobID)
	require.NoError(t, err)
	require.NotNil(t, result.Report)
	assert.Equal(t, 1, result.Report.Created)
	assert.Len(t, fx.classes.snapshot(), 1)
}

func TestSolvePollingGivesUpAfterBudget(t *testing.T) {
	api := &fakeSolverAPI{
		submitID: "job-2",
		statuses: []string{solver.StatusSolving},
	}
	fx := newSolveFixture(t, config.SolverConfig{
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 3,
	}, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx.svc.Start(ctx)
	defer fx.svc.Stop()

	jobID, err := fx.svc.StartSolve(ctx, baseTimetable())
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err := fx.svc.Status(jobID)
		return err == nil && status.State == JobFailed
	}, 2*time.Second, 5*time.Millisecond, "job should fail once the poll budget is spent")

	status, err := fx.svc.Status(jobID)
	require.NoError(t, err)
	assert.Contains(t, status.Error, "still solving")
}

func TestSolveStatusUnknownJob(t *testing.T) {
	fx := newSolveFixture(t, config.SolverConfig{}, &fakeSolverAPI{})

	_, err := fx.svc.Status("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown solve job")

	_, err = fx.svc.Result("nope")
	require.Error(t, err)
}
