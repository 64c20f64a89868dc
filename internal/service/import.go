package service

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/workbook"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/config"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
)

// WorkbookArchive stores raw uploaded workbooks for later inspection.
type WorkbookArchive interface {
	Save(filename string, data []byte) (string, error)
}

// ImportService runs the upload pipeline: normalize the workbook,
// build the validation report, replace every scheduling entity, then
// kick off a solve. Latest upload wins; there is no merge.
type ImportService struct {
	cfg     config.UploadsConfig
	solve   *SolveService
	metrics *MetricsService
	archive WorkbookArchive
	logger  *zap.Logger

	classes        ClassStore
	teachers       TeacherStore
	groups         StudentGroupStore
	courses        CourseStore
	availabilities AvailabilityStore
	cache          Cache
}

// NewImportService wires the upload pipeline.
func NewImportService(
	cfg config.UploadsConfig,
	solve *SolveService,
	metrics *MetricsService,
	archive WorkbookArchive,
	classes ClassStore,
	teachers TeacherStore,
	groups StudentGroupStore,
	courses CourseStore,
	availabilities AvailabilityStore,
	cache Cache,
	logger *zap.Logger,
) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		cfg:            cfg,
		solve:          solve,
		metrics:        metrics,
		archive:        archive,
		classes:        classes,
		teachers:       teachers,
		groups:         groups,
		courses:        courses,
		availabilities: availabilities,
		cache:          cache,
		logger:         logger,
	}
}

var courseCodeSeparator = regexp.MustCompile(`\s+`)

// Upload processes one workbook end to end and returns the accepted
// summary plus the non-blocking validation report and the solve job id.
func (s *ImportService) Upload(ctx context.Context, filename string, data []byte) (*dto.UploadResponse, error) {
	if s.cfg.MaxFileSizeBytes > 0 && int64(len(data)) > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("workbook exceeds the %d byte upload limit", s.cfg.MaxFileSizeBytes))
	}

	parsed, err := workbook.Parse(bytes.NewReader(data))
	if err != nil {
		// Parse failures are client-side workbook defects: surface the
		// full diagnostic (missing sheet, found headers, bad day token)
		// instead of a generic internal error.
		return nil, appErrors.Clone(appErrors.ErrStructural, err.Error())
	}

	validation := buildValidation(parsed)

	if s.archive != nil {
		name := fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102T150405"), filename)
		if _, err := s.archive.Save(name, data); err != nil {
			s.logger.Warn("failed to archive uploaded workbook", zap.Error(err))
		}
	}

	// Pre-validation conflicts never block: proceed to solve and let
	// the persistence filter keep only valid placements.
	if err := s.ClearAll(ctx); err != nil {
		return nil, err
	}
	if err := s.populate(ctx, parsed); err != nil {
		return nil, err
	}

	jobID, err := s.solve.StartSolve(ctx, solveTimetable(parsed.Timetable))
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordUpload()
	}
	s.logger.Sugar().Infow("workbook accepted",
		"filename", filename,
		"lessons", len(parsed.Timetable.Lessons),
		"timeslots", len(parsed.Timetable.Timeslots),
		"jobId", jobID)

	return &dto.UploadResponse{
		JobID: jobID,
		Summary: dto.UploadSummary{
			Timeslots:      len(parsed.Timetable.Timeslots),
			Rooms:          len(parsed.Timetable.Rooms),
			Lessons:        len(parsed.Timetable.Lessons),
			Teachers:       len(parsed.Teachers),
			StudentGroups:  len(parsed.StudentGroups),
			Courses:        len(parsed.Courses),
			Availabilities: len(parsed.Timetable.TeacherAvailabilities),
		},
		Validation: validation,
	}, nil
}

// ClearAll wipes every scheduling entity, restoring the pre-upload
// blank state.
func (s *ImportService) ClearAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"classes", s.classes.DeleteAll},
		{"availabilities", s.availabilities.DeleteAll},
		{"teachers", s.teachers.DeleteAll},
		{"student groups", s.groups.DeleteAll},
		{"courses", s.courses.DeleteAll},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("clear %s: %w", step.name, err)
		}
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "classes:*"); err != nil {
			s.logger.Warn("failed to invalidate class cache after clear", zap.Error(err))
		}
	}
	return nil
}

func (s *ImportService) populate(ctx context.Context, parsed *workbook.ParseResult) error {
	now := time.Now().UTC()
	for _, name := range parsed.Teachers {
		if err := s.teachers.Create(ctx, &models.Teacher{ID: uuid.NewString(), Name: name, CreatedAt: now}); err != nil {
			return fmt.Errorf("persist teacher %q: %w", name, err)
		}
	}
	for _, name := range parsed.StudentGroups {
		if err := s.groups.Create(ctx, &models.StudentGroup{ID: uuid.NewString(), Name: name, CreatedAt: now}); err != nil {
			return fmt.Errorf("persist student group %q: %w", name, err)
		}
	}
	for _, name := range parsed.Courses {
		course := &models.Course{
			ID:        uuid.NewString(),
			Name:      name,
			Code:      strings.ToUpper(courseCodeSeparator.ReplaceAllString(name, "_")),
			Duration:  1,
			CreatedAt: now,
		}
		if err := s.courses.Create(ctx, course); err != nil {
			return fmt.Errorf("persist course %q: %w", name, err)
		}
	}
	for _, window := range parsed.Timetable.TeacherAvailabilities {
		record := &models.AvailabilityRecord{
			ID:        uuid.NewString(),
			Teacher:   window.Teacher,
			Day:       window.DayOfWeek.Display(),
			StartTime: window.StartTime,
			EndTime:   window.EndTime,
			CreatedAt: now,
		}
		if err := s.availabilities.Create(ctx, record); err != nil {
			return fmt.Errorf("persist availability for %q: %w", window.Teacher, err)
		}
	}
	return nil
}

const (
	gridFirstHour = 8
	gridLastHour  = 17
)

// solveTimetable substitutes the default hourly 08:00-17:00 grid when
// the uploaded slots don't cover a full day, clamping availability
// windows to the same range so the solver sees a consistent model.
func solveTimetable(timetable models.Timetable) models.Timetable {
	hasMorningSlot := false
	for _, slot := range timetable.Timeslots {
		if models.MinuteOfDay(slot.StartTime) == gridFirstHour*60 {
			hasMorningSlot = true
			break
		}
	}
	if hasMorningSlot && len(timetable.Timeslots) >= gridLastHour-gridFirstHour {
		return timetable
	}

	timetable.Timeslots = defaultTimeslots()
	timetable.TeacherAvailabilities = clampAvailabilities(timetable.TeacherAvailabilities)
	return timetable
}

func defaultTimeslots() []models.Timeslot {
	slots := make([]models.Timeslot, 0, len(models.WeekDays)*(gridLastHour-gridFirstHour))
	for _, day := range models.WeekDays {
		for hour := gridFirstHour; hour < gridLastHour; hour++ {
			start := models.FormatMinutes(hour * 60)
			slots = append(slots, models.Timeslot{
				ID:        models.TimeslotID(day, start),
				DayOfWeek: day,
				StartTime: start,
				EndTime:   models.FormatMinutes((hour + 1) * 60),
			})
		}
	}
	return slots
}

func clampAvailabilities(windows []models.TeacherAvailability) []models.TeacherAvailability {
	clamped := make([]models.TeacherAvailability, len(windows))
	copy(clamped, windows)
	for i := range clamped {
		if models.MinuteOfDay(clamped[i].StartTime) < gridFirstHour*60 {
			clamped[i].StartTime = models.FormatMinutes(gridFirstHour * 60)
		}
		if models.MinuteOfDay(clamped[i].EndTime) > gridLastHour*60 {
			clamped[i].EndTime = models.FormatMinutes(gridLastHour * 60)
		}
	}
	return clamped
}

// buildValidation reports, without blocking the upload, which teachers
// cannot be scheduled at all and where declared demand exceeds the
// compatible slot supply.
func buildValidation(parsed *workbook.ParseResult) dto.UploadValidation {
	validation := dto.UploadValidation{
		Warnings:    append([]string(nil), parsed.Warnings...),
		Conflicts:   make([]dto.UploadConflict, 0),
		Suggestions: make(map[string][]dto.WindowSlot),
	}

	windowsByTeacher := make(map[string][]models.TeacherAvailability)
	for _, window := range parsed.Timetable.TeacherAvailabilities {
		windowsByTeacher[window.Teacher] = append(windowsByTeacher[window.Teacher], window)
	}

	allowedByTeacher := make(map[string][]models.Timeslot)
	for teacher, windows := range windowsByTeacher {
		allowed := make([]models.Timeslot, 0)
		for _, slot := range parsed.Timetable.Timeslots {
			if windowCovers(windows, slot.DayOfWeek, slot.StartTime, slot.EndTime) {
				allowed = append(allowed, slot)
			}
		}
		sort.SliceStable(allowed, func(i, j int) bool {
			if di, dj := allowed[i].DayOfWeek.Order(), allowed[j].DayOfWeek.Order(); di != dj {
				return di < dj
			}
			return allowed[i].StartTime < allowed[j].StartTime
		})
		allowedByTeacher[teacher] = allowed

		capped := allowed
		if len(capped) > 5 {
			capped = capped[:5]
		}
		slots := make([]dto.WindowSlot, 0, len(capped))
		for _, slot := range capped {
			slots = append(slots, dto.WindowSlot{DayOfWeek: string(slot.DayOfWeek), StartTime: slot.StartTime, EndTime: slot.EndTime})
		}
		validation.Suggestions[teacher] = slots
	}

	demand := make(map[string]int)
	for _, lesson := range parsed.Timetable.Lessons {
		demand[lesson.Teacher]++
	}
	for _, teacher := range parsed.Teachers {
		count := demand[teacher]
		allowed := allowedByTeacher[teacher]
		if len(windowsByTeacher[teacher]) == 0 {
			validation.Warnings = append(validation.Warnings,
				fmt.Sprintf("Teacher %s has 0 available slots defined", teacher))
		}
		if _, declared := windowsByTeacher[teacher]; declared && len(allowed) < count {
			validation.Warnings = append(validation.Warnings,
				fmt.Sprintf("Required hours (%d) exceed available timeslots (%d) for %s", count, len(allowed), teacher))
		}
	}

	for _, lesson := range parsed.Timetable.Lessons {
		windows, declared := windowsByTeacher[lesson.Teacher]
		if !declared || len(allowedByTeacher[lesson.Teacher]) > 0 {
			continue
		}
		hints := make([]dto.WindowSlot, 0, 3)
		for _, window := range windows {
			if len(hints) == 3 {
				break
			}
			hints = append(hints, dto.WindowSlot{DayOfWeek: string(window.DayOfWeek), StartTime: window.StartTime, EndTime: window.EndTime})
		}
		validation.Conflicts = append(validation.Conflicts, dto.UploadConflict{
			LessonID:    lesson.ID,
			Teacher:     lesson.Teacher,
			Reason:      fmt.Sprintf("No available timeslots for %s", lesson.Teacher),
			Suggestions: hints,
		})
	}

	return validation
}
