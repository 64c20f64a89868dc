// Package service contains the scheduling core: conflict detection,
// the greedy engine, the upload/solve pipeline and class management.
package service

import (
	"fmt"
	"sort"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/dto"
	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// Candidate is a placement to validate against the persisted schedule.
// ID is empty for new placements and set when editing an existing class
// so it is excluded from comparison against itself.
type Candidate struct {
	ID             string
	TeacherID      string
	StudentGroupID string
	Day            string
	StartTime      string
	EndTime        string
}

// HasTimeOverlap reports whether two half-open [start, end) intervals
// on the same day overlap. Exact adjacency is not an overlap.
func HasTimeOverlap(day1, start1, end1, day2, start2, end2 string) bool {
	if day1 != day2 {
		return false
	}
	s1, e1 := models.MinuteOfDay(start1), models.MinuteOfDay(end1)
	s2, e2 := models.MinuteOfDay(start2), models.MinuteOfDay(end2)
	if s1 < 0 || e1 < 0 || s2 < 0 || e2 < 0 {
		return false
	}
	return s1 < e2 && s2 < e1
}

// DetectConflicts checks a candidate against existing placements for
// teacher and student-group double-bookings. Both conflict types can
// fire for a single overlapping pair. Pure function.
func DetectConflicts(candidate Candidate, existing []models.Class) dto.ConflictCheck {
	result := dto.ConflictCheck{Conflicts: make([]dto.Conflict, 0)}
	for _, class := range existing {
		if candidate.ID != "" && candidate.ID == class.ID {
			continue
		}
		if !HasTimeOverlap(candidate.Day, candidate.StartTime, candidate.EndTime, class.Day, class.StartTime, class.EndTime) {
			continue
		}
		if candidate.TeacherID == class.TeacherID {
			result.Conflicts = append(result.Conflicts, dto.Conflict{
				Type:               "teacher",
				Message:            fmt.Sprintf("teacher is already booked %s %s-%s", class.Day, class.StartTime, class.EndTime),
				ConflictingClassID: class.ID,
			})
		}
		if candidate.StudentGroupID == class.StudentGroupID {
			result.Conflicts = append(result.Conflicts, dto.Conflict{
				Type:               "studentGroup",
				Message:            fmt.Sprintf("student group is already booked %s %s-%s", class.Day, class.StartTime, class.EndTime),
				ConflictingClassID: class.ID,
			})
		}
	}
	result.HasConflict = len(result.Conflicts) > 0
	return result
}

const (
	suggestionFirstHour = 8
	suggestionSlotCount = 10
	suggestionLimit     = 10
)

// GenerateSuggestions enumerates the fixed 5-day hourly grid starting
// 08:00, conflict-checks each slot for the teacher/group pair and
// returns at most ten, available slots first, then day, then time.
// The grid is a UI affordance independent of the uploaded slot set.
func GenerateSuggestions(teacherID, studentGroupID string, existing []models.Class, excludeID string) []dto.SuggestedSlot {
	suggestions := make([]dto.SuggestedSlot, 0, len(models.WeekDays)*suggestionSlotCount)
	for _, day := range models.WeekDays {
		for hour := suggestionFirstHour; hour < suggestionFirstHour+suggestionSlotCount; hour++ {
			start := models.FormatMinutes(hour * 60)
			end := models.FormatMinutes((hour + 1) * 60)
			check := DetectConflicts(Candidate{
				ID:             excludeID,
				TeacherID:      teacherID,
				StudentGroupID: studentGroupID,
				Day:            day.Display(),
				StartTime:      start,
				EndTime:        end,
			}, existing)
			suggestions = append(suggestions, dto.SuggestedSlot{
				Day:       day.Display(),
				StartTime: start,
				EndTime:   end,
				Available: !check.HasConflict,
				Conflicts: check.Conflicts,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Available != b.Available {
			return a.Available
		}
		if da, db := models.DayOrderOf(a.Day), models.DayOrderOf(b.Day); da != db {
			return da < db
		}
		return a.StartTime < b.StartTime
	})

	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}
	return suggestions
}
