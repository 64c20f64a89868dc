package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// GreedyScheduler assigns lessons to timeslots and rooms in a single
// deterministic pass with no backtracking. It is used as the local
// fallback when the external solver cannot accept a submission, and as
// the reference implementation of the hard constraints.
type GreedyScheduler struct {
	logger *zap.Logger
}

// NewGreedyScheduler builds a greedy scheduler.
func NewGreedyScheduler(logger *zap.Logger) *GreedyScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GreedyScheduler{logger: logger}
}

type interval struct {
	day   models.DayOfWeek
	start int
	end   int
}

type greedyState struct {
	windows       map[string][]models.TeacherAvailability
	teacherInSlot map[string]map[string]bool
	groupInSlot   map[string]map[string]bool
	roomInSlot    map[string]map[string]bool
	teacherSpans  map[string][]interval
	groupSpans    map[string][]interval
	teacherLoad   map[string]map[models.DayOfWeek]int
}

func newGreedyState(timetable models.Timetable) *greedyState {
	state := &greedyState{
		windows:       make(map[string][]models.TeacherAvailability),
		teacherInSlot: make(map[string]map[string]bool),
		groupInSlot:   make(map[string]map[string]bool),
		roomInSlot:    make(map[string]map[string]bool),
		teacherSpans:  make(map[string][]interval),
		groupSpans:    make(map[string][]interval),
		teacherLoad:   make(map[string]map[models.DayOfWeek]int),
	}
	for _, window := range timetable.TeacherAvailabilities {
		state.windows[window.Teacher] = append(state.windows[window.Teacher], window)
	}
	return state
}

// Schedule places every lesson it can, leaving the rest unassigned.
// It never fails; capacity exhaustion shows up purely as unassigned
// lessons. Input order is the documented tie-break: earlier lessons
// win contested capacity.
func (s *GreedyScheduler) Schedule(timetable models.Timetable) models.Solution {
	state := newGreedyState(timetable)

	lessons := make([]models.Lesson, len(timetable.Lessons))
	copy(lessons, timetable.Lessons)

	assigned := 0
	for i := range lessons {
		if s.place(&lessons[i], timetable, state) {
			assigned++
		}
	}
	s.logger.Sugar().Infow("greedy schedule complete",
		"lessons", len(lessons), "assigned", assigned, "unassigned", len(lessons)-assigned)

	return models.Solution{Timeslots: timetable.Timeslots, Lessons: lessons}
}

func (s *GreedyScheduler) place(lesson *models.Lesson, timetable models.Timetable, state *greedyState) bool {
	candidates := state.allowedSlots(lesson.Teacher, timetable.Timeslots)

	// Spread a teacher's lessons across days: fewest-loaded day first,
	// earlier start breaks ties. Load reflects placements made earlier
	// in this same pass.
	load := state.teacherLoad[lesson.Teacher]
	sort.SliceStable(candidates, func(i, j int) bool {
		li, lj := load[candidates[i].DayOfWeek], load[candidates[j].DayOfWeek]
		if li != lj {
			return li < lj
		}
		return models.MinuteOfDay(candidates[i].StartTime) < models.MinuteOfDay(candidates[j].StartTime)
	})

	for _, slot := range candidates {
		if state.teacherInSlot[slot.ID][lesson.Teacher] || state.groupInSlot[slot.ID][lesson.StudentGroup] {
			continue
		}
		// Distinct slot ids can still collide on the clock, so overlap
		// is checked on the actual interval as well.
		span := interval{day: slot.DayOfWeek, start: models.MinuteOfDay(slot.StartTime), end: models.MinuteOfDay(slot.EndTime)}
		if overlapsAny(span, state.teacherSpans[lesson.Teacher]) || overlapsAny(span, state.groupSpans[lesson.StudentGroup]) {
			continue
		}
		room, ok := state.freeRoom(slot.ID, timetable.Rooms)
		if !ok {
			continue
		}

		lesson.Timeslot = slot.ID
		lesson.Room = room.ID
		state.commit(lesson, slot, room, span)
		return true
	}
	return false
}

// allowedSlots filters the grid by the teacher's availability windows.
// A slot qualifies when some window on the same day fully covers it; a
// teacher with no windows at all may take any slot.
func (state *greedyState) allowedSlots(teacher string, slots []models.Timeslot) []models.Timeslot {
	windows := state.windows[teacher]
	if len(windows) == 0 {
		allowed := make([]models.Timeslot, len(slots))
		copy(allowed, slots)
		return allowed
	}
	allowed := make([]models.Timeslot, 0, len(slots))
	for _, slot := range slots {
		if windowCovers(windows, slot.DayOfWeek, slot.StartTime, slot.EndTime) {
			allowed = append(allowed, slot)
		}
	}
	return allowed
}

func (state *greedyState) freeRoom(slotID string, rooms []models.Room) (models.Room, bool) {
	occupied := state.roomInSlot[slotID]
	for _, room := range rooms {
		if !occupied[room.ID] {
			return room, true
		}
	}
	return models.Room{}, false
}

func (state *greedyState) commit(lesson *models.Lesson, slot models.Timeslot, room models.Room, span interval) {
	markSlot(state.teacherInSlot, slot.ID, lesson.Teacher)
	markSlot(state.groupInSlot, slot.ID, lesson.StudentGroup)
	markSlot(state.roomInSlot, slot.ID, room.ID)
	state.teacherSpans[lesson.Teacher] = append(state.teacherSpans[lesson.Teacher], span)
	state.groupSpans[lesson.StudentGroup] = append(state.groupSpans[lesson.StudentGroup], span)
	if state.teacherLoad[lesson.Teacher] == nil {
		state.teacherLoad[lesson.Teacher] = make(map[models.DayOfWeek]int)
	}
	state.teacherLoad[lesson.Teacher][slot.DayOfWeek]++
}

func markSlot(set map[string]map[string]bool, slotID, member string) {
	if set[slotID] == nil {
		set[slotID] = make(map[string]bool)
	}
	set[slotID][member] = true
}

// windowCovers reports whether some window on the slot's day fully
// contains the slot interval.
func windowCovers(windows []models.TeacherAvailability, day models.DayOfWeek, start, end string) bool {
	slotStart, slotEnd := models.MinuteOfDay(start), models.MinuteOfDay(end)
	if slotStart < 0 || slotEnd < 0 {
		return false
	}
	for _, window := range windows {
		if window.DayOfWeek != day {
			continue
		}
		winStart, winEnd := models.MinuteOfDay(window.StartTime), models.MinuteOfDay(window.EndTime)
		if winStart < 0 || winEnd < 0 {
			continue
		}
		if slotStart >= winStart && slotEnd <= winEnd {
			return true
		}
	}
	return false
}

func overlapsAny(span interval, spans []interval) bool {
	for _, other := range spans {
		if span.day == other.day && span.start < other.end && other.start < span.end {
			return true
		}
	}
	return false
}
