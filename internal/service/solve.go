package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/solver"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/config"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/jobs"
)

// Solve job states.
const (
	JobSubmitted = "SUBMITTED"
	JobPolling   = "POLLING"
	JobSolved    = "SOLVED"
	JobFailed    = "FAILED"
)

// Persistence skip reasons.
const (
	SkipMissingEntity       = "missing entity"
	SkipOutsideAvailability = "outside availability"
	SkipTeacherDoubleBooked = "teacher double-booked"
	SkipGroupOverlap        = "group overlap"
	SkipRoomOverlap         = "room overlap"
	SkipNoRoomAssigned      = "no room assigned"
	SkipNoTimeslot          = "no timeslot assigned"
)

const localJobPrefix = "local-"

type solveJob struct {
	id           string
	state        string
	solverStatus string
	timetable    models.Timetable
	solution     *models.Solution
	report       *dto.PersistReport
	errMessage   string
}

// SolveService drives a solver job through SUBMITTED → POLLING →
// SOLVED | FAILED and commits the resulting solution through the
// persistence filter. One active timetable at a time; a new solve
// replaces the previous schedule entirely.
type SolveService struct {
	cfg     config.SolverConfig
	solver  SolverAPI
	greedy  *GreedyScheduler
	metrics *MetricsService
	logger  *zap.Logger

	classes        ClassStore
	teachers       TeacherStore
	groups         StudentGroupStore
	courses        CourseStore
	availabilities AvailabilityStore
	cache          Cache

	queue *jobs.Queue

	mu      sync.Mutex
	jobsMap map[string]*solveJob
}

// NewSolveService wires the solve orchestrator.
func NewSolveService(
	cfg config.SolverConfig,
	solverClient SolverAPI,
	greedy *GreedyScheduler,
	metrics *MetricsService,
	classes ClassStore,
	teachers TeacherStore,
	groups StudentGroupStore,
	courses CourseStore,
	availabilities AvailabilityStore,
	cache Cache,
	logger *zap.Logger,
) *SolveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SolveService{
		cfg:            cfg,
		solver:         solverClient,
		greedy:         greedy,
		metrics:        metrics,
		logger:         logger,
		classes:        classes,
		teachers:       teachers,
		groups:         groups,
		courses:        courses,
		availabilities: availabilities,
		cache:          cache,
		jobsMap:        make(map[string]*solveJob),
	}
	s.queue = jobs.New("solver-poll", s.handlePollTask, jobs.Config{
		Workers:    cfg.PollWorkers,
		MaxRetries: 1,
		RetryDelay: cfg.PollInterval,
		Logger:     logger,
	})
	return s
}

// Start launches the background polling workers.
func (s *SolveService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the polling workers.
func (s *SolveService) Stop() {
	s.queue.Stop()
}

// StartSolve submits the timetable to the external solver and returns
// a job id to poll. When the solver cannot accept the submission and
// the greedy fallback is enabled, the schedule is computed locally and
// persisted synchronously under a "local-" job id.
func (s *SolveService) StartSolve(ctx context.Context, timetable models.Timetable) (string, error) {
	jobID, err := s.solver.Submit(ctx, timetable)
	if err != nil {
		if !s.cfg.GreedyFallback {
			return "", err
		}
		s.logger.Warn("solver submission failed, falling back to greedy scheduling", zap.Error(err))
		return s.solveLocally(ctx, timetable)
	}

	job := &solveJob{id: jobID, state: JobSubmitted, timetable: timetable}
	s.mu.Lock()
	s.jobsMap[jobID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Task{ID: jobID, Kind: "poll", Payload: jobID}); err != nil {
		s.setFailed(jobID, fmt.Sprintf("failed to schedule polling: %v", err))
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to schedule solver polling")
	}
	return jobID, nil
}

func (s *SolveService) solveLocally(ctx context.Context, timetable models.Timetable) (string, error) {
	jobID := localJobPrefix + uuid.NewString()
	job := &solveJob{id: jobID, state: JobPolling, timetable: timetable}
	s.mu.Lock()
	s.jobsMap[jobID] = job
	s.mu.Unlock()

	solution := s.greedy.Schedule(timetable)
	s.mu.Lock()
	job.solution = &solution
	s.mu.Unlock()

	report, err := s.persistSolution(ctx, timetable, &solution)
	if err != nil {
		s.setFailed(jobID, err.Error())
		return jobID, nil
	}
	s.setSolved(jobID, report)
	return jobID, nil
}

// Solution returns the solved timetable for a job. Local greedy jobs
// are answered from memory; everything else is fetched from the solver.
func (s *SolveService) Solution(ctx context.Context, jobID string) (*models.Solution, error) {
	if strings.HasPrefix(jobID, localJobPrefix) {
		job := s.getJob(jobID)
		if job == nil || job.solution == nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown solve job %q", jobID))
		}
		return job.solution, nil
	}
	return s.solver.Solution(ctx, jobID)
}

// handlePollTask runs the whole polling loop for one job: tick at the
// configured interval until the solver reports a terminal status, the
// poll budget runs out, a request fails, or the context is cancelled.
// Exactly one loop runs per job.
func (s *SolveService) handlePollTask(ctx context.Context, task jobs.Task) error {
	jobID, _ := task.Payload.(string)
	if jobID == "" {
		return nil
	}
	s.setState(jobID, JobPolling, "")

	ticker := time.NewTicker(s.pollInterval())
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			s.setFailed(jobID, "polling cancelled")
			return nil
		case <-ticker.C:
		}

		attempts++
		if s.metrics != nil {
			s.metrics.RecordSolverPoll()
		}
		status, err := s.solver.Status(ctx, jobID)
		if err != nil {
			s.setFailed(jobID, fmt.Sprintf("status poll failed: %v", err))
			return nil
		}
		s.setState(jobID, JobPolling, status.SolverStatus)

		if status.SolverStatus != solver.StatusSolving {
			s.finishJob(ctx, jobID)
			return nil
		}
		if s.cfg.MaxPollAttempts > 0 && attempts >= s.cfg.MaxPollAttempts {
			s.setFailed(jobID, fmt.Sprintf("solver still solving after %d polls", attempts))
			return nil
		}
	}
}

func (s *SolveService) finishJob(ctx context.Context, jobID string) {
	job := s.getJob(jobID)
	if job == nil {
		return
	}
	solution, err := s.solver.Solution(ctx, jobID)
	if err != nil {
		s.setFailed(jobID, fmt.Sprintf("failed to fetch solution: %v", err))
		return
	}
	s.mu.Lock()
	job.solution = solution
	s.mu.Unlock()

	report, err := s.persistSolution(ctx, job.timetable, solution)
	if err != nil {
		s.setFailed(jobID, err.Error())
		return
	}
	s.setSolved(jobID, report)
}

// Status reports the state machine position of a job.
func (s *SolveService) Status(jobID string) (*dto.SolveStatusResponse, error) {
	job := s.getJob(jobID)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown solve job %q", jobID))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dto.SolveStatusResponse{
		JobID:        job.id,
		State:        job.state,
		SolverStatus: job.solverStatus,
		Error:        job.errMessage,
	}, nil
}

// Result returns the terminal outcome of a job, including the
// persistence report when solved.
func (s *SolveService) Result(jobID string) (*dto.SolveResultResponse, error) {
	job := s.getJob(jobID)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown solve job %q", jobID))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &dto.SolveResultResponse{
		JobID:   job.id,
		State:   job.state,
		Report:  job.report,
		Message: job.errMessage,
	}, nil
}

// persistSolution wipes the existing classes and commits only the
// lessons whose final placement satisfies every hard constraint,
// recording a reason for each rejection. Iteration order decides which
// of two mutually conflicting lessons wins: the first processed keeps
// its slot.
func (s *SolveService) persistSolution(ctx context.Context, timetable models.Timetable, solution *models.Solution) (*dto.PersistReport, error) {
	if err := s.classes.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("clear classes before persisting: %w", err)
	}

	slots := timetable.TimeslotByID()
	for _, slot := range solution.Timeslots {
		slots[slot.ID] = slot
	}
	rooms := timetable.RoomByID()
	windowsByTeacher := make(map[string][]models.TeacherAvailability)
	for _, window := range timetable.TeacherAvailabilities {
		windowsByTeacher[window.Teacher] = append(windowsByTeacher[window.Teacher], window)
	}

	teacherSpans := make(map[string][]interval)
	groupSpans := make(map[string][]interval)
	roomBusy := make(map[string]bool)

	report := &dto.PersistReport{Reasons: make(map[string]string)}
	now := time.Now().UTC()

	for _, lesson := range solution.Lessons {
		reason, class, err := s.validateLesson(ctx, lesson, slots, rooms, windowsByTeacher, teacherSpans, groupSpans, roomBusy, now)
		if err != nil {
			return nil, fmt.Errorf("look up entities for lesson %s: %w", lesson.ID, err)
		}
		if reason != "" {
			report.Skipped++
			report.Reasons[lesson.ID] = reason
			if s.metrics != nil {
				s.metrics.RecordSkipped(reason)
			}
			continue
		}
		if err := s.classes.Create(ctx, class); err != nil {
			return nil, fmt.Errorf("persist class for lesson %s: %w", lesson.ID, err)
		}
		slot := slots[lesson.Timeslot]
		span := interval{day: slot.DayOfWeek, start: models.MinuteOfDay(slot.StartTime), end: models.MinuteOfDay(slot.EndTime)}
		teacherSpans[class.TeacherID] = append(teacherSpans[class.TeacherID], span)
		groupSpans[class.StudentGroupID] = append(groupSpans[class.StudentGroupID], span)
		roomBusy[roomOccupancyKey(slot, lesson.Room)] = true
		report.Created++
	}

	if s.metrics != nil {
		s.metrics.RecordPersisted(report.Created)
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "classes:*"); err != nil {
			s.logger.Warn("failed to invalidate class cache after solve", zap.Error(err))
		}
	}
	s.logger.Sugar().Infow("solution persisted", "created", report.Created, "skipped", report.Skipped)
	return report, nil
}

func (s *SolveService) validateLesson(
	ctx context.Context,
	lesson models.Lesson,
	slots map[string]models.Timeslot,
	rooms map[string]models.Room,
	windowsByTeacher map[string][]models.TeacherAvailability,
	teacherSpans, groupSpans map[string][]interval,
	roomBusy map[string]bool,
	now time.Time,
) (string, *models.Class, error) {
	if lesson.Timeslot == "" {
		return SkipNoTimeslot, nil, nil
	}
	slot, ok := slots[lesson.Timeslot]
	if !ok {
		return SkipMissingEntity, nil, nil
	}

	// A lookup miss skips the lesson; an infrastructure failure aborts
	// the whole pass rather than mislabeling every lesson as skipped.
	teacher, err := s.teachers.FindByName(ctx, lesson.Teacher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SkipMissingEntity, nil, nil
		}
		return "", nil, err
	}
	course, err := s.courses.FindByName(ctx, lesson.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SkipMissingEntity, nil, nil
		}
		return "", nil, err
	}
	group, err := s.groups.FindByName(ctx, lesson.StudentGroup)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SkipMissingEntity, nil, nil
		}
		return "", nil, err
	}

	// Availability containment only binds when the teacher declared at
	// least one window for that day.
	if dayWindows := windowsOnDay(windowsByTeacher[lesson.Teacher], slot.DayOfWeek); len(dayWindows) > 0 {
		if !windowCovers(dayWindows, slot.DayOfWeek, slot.StartTime, slot.EndTime) {
			return SkipOutsideAvailability, nil, nil
		}
	}

	span := interval{day: slot.DayOfWeek, start: models.MinuteOfDay(slot.StartTime), end: models.MinuteOfDay(slot.EndTime)}
	if overlapsAny(span, teacherSpans[teacher.ID]) {
		return SkipTeacherDoubleBooked, nil, nil
	}
	if overlapsAny(span, groupSpans[group.ID]) {
		return SkipGroupOverlap, nil, nil
	}

	if lesson.Room == "" {
		return SkipNoRoomAssigned, nil, nil
	}
	if roomBusy[roomOccupancyKey(slot, lesson.Room)] {
		return SkipRoomOverlap, nil, nil
	}

	// Rooms, not lessons, own meeting links.
	var meetingLink *string
	if room, ok := rooms[lesson.Room]; ok && room.Link != "" {
		link := room.Link
		meetingLink = &link
	}

	return "", &models.Class{
		ID:             uuid.NewString(),
		CourseID:       course.ID,
		TeacherID:      teacher.ID,
		StudentGroupID: group.ID,
		Day:            slot.DayOfWeek.Display(),
		StartTime:      slot.StartTime,
		EndTime:        slot.EndTime,
		HasConflict:    false,
		MeetingLink:    meetingLink,
		CreatedAt:      now,
	}, nil
}

func (s *SolveService) pollInterval() time.Duration {
	if s.cfg.PollInterval > 0 {
		return s.cfg.PollInterval
	}
	return time.Second
}

func (s *SolveService) getJob(jobID string) *solveJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobsMap[jobID]
}

func (s *SolveService) setState(jobID, state, solverStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsMap[jobID]; ok {
		job.state = state
		if solverStatus != "" {
			job.solverStatus = solverStatus
		}
	}
}

func (s *SolveService) setFailed(jobID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsMap[jobID]; ok {
		job.state = JobFailed
		job.errMessage = message
	}
}

func (s *SolveService) setSolved(jobID string, report *dto.PersistReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobsMap[jobID]; ok {
		job.state = JobSolved
		job.report = report
	}
}

func windowsOnDay(windows []models.TeacherAvailability, day models.DayOfWeek) []models.TeacherAvailability {
	matched := make([]models.TeacherAvailability, 0, len(windows))
	for _, window := range windows {
		if window.DayOfWeek == day {
			matched = append(matched, window)
		}
	}
	return matched
}

func roomOccupancyKey(slot models.Timeslot, roomID string) string {
	return strings.Join([]string{string(slot.DayOfWeek), slot.StartTime, slot.EndTime, roomID}, "|")
}
