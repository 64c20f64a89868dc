package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/config"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/export"
)

const enrichedCacheKey = "classes:enriched"

// ClassService manages persisted placements: listing, manual edits
// with synchronous conflict re-validation, suggestions and export.
type ClassService struct {
	cfg     config.CacheConfig
	classes ClassStore
	cache   Cache
	metrics *MetricsService
	logger  *zap.Logger

	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewClassService builds a class service.
func NewClassService(cfg config.CacheConfig, classes ClassStore, cache Cache, metrics *MetricsService, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{
		cfg:     cfg,
		classes: classes,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
	}
}

// List returns all classes.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	return s.classes.List(ctx)
}

// Get returns one class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, err
	}
	return class, nil
}

// ListEnriched returns classes joined with display names, served from
// the read cache when enabled.
func (s *ClassService) ListEnriched(ctx context.Context) ([]models.EnrichedClass, error) {
	if s.cacheEnabled() {
		var cached []models.EnrichedClass
		if err := s.cache.Get(ctx, enrichedCacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.RecordCacheLookup(true)
			}
			return cached, nil
		}
		if s.metrics != nil {
			s.metrics.RecordCacheLookup(false)
		}
	}

	enriched, err := s.classes.ListEnriched(ctx)
	if err != nil {
		return nil, err
	}
	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, enrichedCacheKey, enriched, s.cfg.TTL); err != nil {
			s.logger.Warn("failed to cache enriched classes", zap.Error(err))
		}
	}
	return enriched, nil
}

// CheckConflicts runs the conflict detector for a candidate placement
// without persisting anything.
func (s *ClassService) CheckConflicts(ctx context.Context, req dto.CheckConflictRequest) (*dto.ConflictCheck, error) {
	existing, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	check := DetectConflicts(Candidate{
		ID:             req.ExcludeClassID,
		TeacherID:      req.TeacherID,
		StudentGroupID: req.StudentGroupID,
		Day:            req.Day,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}, existing)
	return &check, nil
}

// Suggestions returns ranked candidate slots for a teacher/group pair.
func (s *ClassService) Suggestions(ctx context.Context, query dto.SuggestionQuery) ([]dto.SuggestedSlot, error) {
	existing, err := s.classes.List(ctx)
	if err != nil {
		return nil, err
	}
	return GenerateSuggestions(query.TeacherID, query.StudentGroupID, existing, query.ExcludeClassID), nil
}

// Create adds a class manually. Conflicting placements are persisted
// with the hasConflict flag raised rather than rejected; the planner
// decides whether to keep them.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, *dto.ConflictCheck, error) {
	if err := validateTimes(req.StartTime, req.EndTime); err != nil {
		return nil, nil, err
	}
	existing, err := s.classes.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	check := DetectConflicts(Candidate{
		TeacherID:      req.TeacherID,
		StudentGroupID: req.StudentGroupID,
		Day:            req.Day,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}, existing)

	class := &models.Class{
		ID:             uuid.NewString(),
		CourseID:       req.CourseID,
		TeacherID:      req.TeacherID,
		StudentGroupID: req.StudentGroupID,
		Day:            req.Day,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		HasConflict:    check.HasConflict,
		MeetingLink:    req.MeetingLink,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, nil, err
	}
	s.invalidate(ctx)
	return class, &check, nil
}

// Patch merges the provided fields into an existing class, re-runs the
// conflict detector on the merged placement and persists the updated
// conflict flag. The conflict info accompanies the saved record.
func (s *ClassService) Patch(ctx context.Context, id string, req dto.PatchClassRequest) (*models.Class, *dto.ConflictCheck, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	applyString(&class.CourseID, req.CourseID)
	applyString(&class.TeacherID, req.TeacherID)
	applyString(&class.StudentGroupID, req.StudentGroupID)
	applyString(&class.Day, req.Day)
	applyString(&class.StartTime, req.StartTime)
	applyString(&class.EndTime, req.EndTime)
	if req.MeetingLink != nil {
		class.MeetingLink = req.MeetingLink
	}
	if err := validateTimes(class.StartTime, class.EndTime); err != nil {
		return nil, nil, err
	}

	existing, err := s.classes.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	check := DetectConflicts(Candidate{
		ID:             class.ID,
		TeacherID:      class.TeacherID,
		StudentGroupID: class.StudentGroupID,
		Day:            class.Day,
		StartTime:      class.StartTime,
		EndTime:        class.EndTime,
	}, existing)
	class.HasConflict = check.HasConflict

	if err := s.classes.Update(ctx, class); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, nil, err
	}
	s.invalidate(ctx)
	return class, &check, nil
}

// Delete removes one class.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := s.classes.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return err
	}
	s.invalidate(ctx)
	return nil
}

var exportHeaders = []string{"Course Name", "Course Code", "Teacher Name", "Student Group", "Day", "Start Time", "End Time", "Has Conflict"}

// ExportCSV renders the enriched schedule as CSV. Zero classes yield
// exactly the header line.
func (s *ClassService) ExportCSV(ctx context.Context) ([]byte, error) {
	dataset, err := s.exportDataset(ctx)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(*dataset)
}

// ExportPDF renders the enriched schedule as a tabular PDF.
func (s *ClassService) ExportPDF(ctx context.Context) ([]byte, error) {
	dataset, err := s.exportDataset(ctx)
	if err != nil {
		return nil, err
	}
	return s.pdf.Render(*dataset, "Weekly Class Schedule")
}

func (s *ClassService) exportDataset(ctx context.Context) (*export.Dataset, error) {
	enriched, err := s.ListEnriched(ctx)
	if err != nil {
		return nil, err
	}
	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]export.Row, 0, len(enriched))}
	for _, class := range enriched {
		dataset.Rows = append(dataset.Rows, export.Row{
			Conflict: class.HasConflict,
			Cells: map[string]string{
				"Course Name":   class.CourseName,
				"Course Code":   class.CourseCode,
				"Teacher Name":  class.TeacherName,
				"Student Group": class.StudentGroup,
				"Day":           class.Day,
				"Start Time":    class.StartTime,
				"End Time":      class.EndTime,
				"Has Conflict":  strconv.FormatBool(class.HasConflict),
			},
		})
	}
	return &dataset, nil
}

func (s *ClassService) cacheEnabled() bool {
	return s.cfg.Enabled && s.cache != nil
}

func (s *ClassService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "classes:*"); err != nil {
		s.logger.Warn("failed to invalidate class cache", zap.Error(err))
	}
}

func validateTimes(start, end string) error {
	startMin, endMin := models.MinuteOfDay(start), models.MinuteOfDay(end)
	if startMin < 0 || endMin < 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("times must be HH:MM, got %q-%q", start, end))
	}
	if startMin >= endMin {
		return appErrors.Clone(appErrors.ErrValidation, "startTime must be before endTime")
	}
	return nil
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
