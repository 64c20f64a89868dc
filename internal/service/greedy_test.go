package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

func slot(day models.DayOfWeek, start, end string) models.Timeslot {
	return models.Timeslot{ID: models.TimeslotID(day, start), DayOfWeek: day, StartTime: start, EndTime: end}
}

func TestGreedyAssignsAllWhenCapacitySuffices(t *testing.T) {
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{
			slot(models.Monday, "08:00", "09:00"),
			slot(models.Monday, "09:00", "10:00"),
		},
		Rooms: []models.Room{{ID: "R1", Name: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "2", Subject: "Physics", Teacher: "Curie", StudentGroup: "G2"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	require.Len(t, solution.Lessons, 2)
	for _, l := range solution.Lessons {
		assert.NotEmpty(t, l.Timeslot, "lesson %s should be placed", l.ID)
		assert.Equal(t, "R1", l.Room)
	}
	// One room means the two lessons take distinct slots.
	assert.NotEqual(t, solution.Lessons[0].Timeslot, solution.Lessons[1].Timeslot)
}

func TestGreedyLeavesOverflowUnassigned(t *testing.T) {
	// Two lessons for the same teacher, one slot and one room: the
	// earlier lesson wins, the other stays unassigned.
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{slot(models.Monday, "08:00", "09:00")},
		Rooms:     []models.Room{{ID: "R1", Name: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "2", Subject: "Logic", Teacher: "Turing", StudentGroup: "G1"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	require.Len(t, solution.Lessons, 2)
	assert.Equal(t, "MONDAY_08:00", solution.Lessons[0].Timeslot)
	assert.Equal(t, "R1", solution.Lessons[0].Room)
	assert.Empty(t, solution.Lessons[1].Timeslot)
	assert.Empty(t, solution.Lessons[1].Room)
}

func TestGreedyNeverDoubleBooks(t *testing.T) {
	days := []models.DayOfWeek{models.Monday, models.Tuesday}
	var slots []models.Timeslot
	for _, d := range days {
		slots = append(slots,
			slot(d, "08:00", "09:00"),
			slot(d, "09:00", "10:00"),
			slot(d, "10:00", "11:00"),
		)
	}
	timetable := models.Timetable{
		Timeslots: slots,
		Rooms:     []models.Room{{ID: "R1"}, {ID: "R2"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "2", Subject: "Physics", Teacher: "Turing", StudentGroup: "G2"},
			{ID: "3", Subject: "Chemistry", Teacher: "Curie", StudentGroup: "G1"},
			{ID: "4", Subject: "Biology", Teacher: "Curie", StudentGroup: "G2"},
			{ID: "5", Subject: "History", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "6", Subject: "Art", Teacher: "Curie", StudentGroup: "G2"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	teacherSeen := make(map[string]bool)
	groupSeen := make(map[string]bool)
	roomSeen := make(map[string]bool)
	for _, l := range solution.Lessons {
		if l.Timeslot == "" {
			continue
		}
		tk := l.Teacher + "|" + l.Timeslot
		gk := l.StudentGroup + "|" + l.Timeslot
		rk := l.Room + "|" + l.Timeslot
		assert.False(t, teacherSeen[tk], "teacher double-booked in %s", l.Timeslot)
		assert.False(t, groupSeen[gk], "group double-booked in %s", l.Timeslot)
		assert.False(t, roomSeen[rk], "room double-booked in %s", l.Timeslot)
		teacherSeen[tk], groupSeen[gk], roomSeen[rk] = true, true, true
	}
}

func TestGreedyRespectsAvailabilityWindows(t *testing.T) {
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{
			slot(models.Monday, "08:00", "09:00"),
			slot(models.Tuesday, "10:00", "11:00"),
		},
		Rooms: []models.Room{{ID: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
		},
		TeacherAvailabilities: []models.TeacherAvailability{
			{ID: "1", Teacher: "Turing", DayOfWeek: models.Tuesday, StartTime: "09:00", EndTime: "12:00"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	assert.Equal(t, "TUESDAY_10:00", solution.Lessons[0].Timeslot)
}

func TestGreedyPartialWindowDoesNotQualify(t *testing.T) {
	// The window ends mid-slot; full containment is required.
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{slot(models.Monday, "09:00", "10:00")},
		Rooms:     []models.Room{{ID: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
		},
		TeacherAvailabilities: []models.TeacherAvailability{
			{ID: "1", Teacher: "Turing", DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "09:30"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	assert.Empty(t, solution.Lessons[0].Timeslot)
}

func TestGreedyNoWindowsMeansUnrestricted(t *testing.T) {
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{slot(models.Friday, "15:00", "16:00")},
		Rooms:     []models.Room{{ID: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Unrestricted", StudentGroup: "G1"},
		},
		TeacherAvailabilities: []models.TeacherAvailability{
			{ID: "1", Teacher: "Somebody Else", DayOfWeek: models.Monday, StartTime: "08:00", EndTime: "12:00"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	assert.Equal(t, "FRIDAY_15:00", solution.Lessons[0].Timeslot)
}

func TestGreedySpreadsTeacherAcrossDays(t *testing.T) {
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{
			slot(models.Monday, "08:00", "09:00"),
			slot(models.Monday, "09:00", "10:00"),
			slot(models.Tuesday, "08:00", "09:00"),
		},
		Rooms: []models.Room{{ID: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "2", Subject: "Logic", Teacher: "Turing", StudentGroup: "G2"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	days := map[string]bool{}
	for _, l := range solution.Lessons {
		require.NotEmpty(t, l.Timeslot)
		days[l.Timeslot[:3]] = true
	}
	// The second lesson lands on the empty Tuesday rather than stacking
	// up Monday.
	assert.Len(t, days, 2)
}

func TestGreedyOverlappingSlotIntervals(t *testing.T) {
	// Distinct slot ids whose clock intervals overlap must not both be
	// given to the same teacher.
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{
			slot(models.Monday, "09:00", "10:00"),
			slot(models.Monday, "09:30", "10:30"),
		},
		Rooms: []models.Room{{ID: "R1"}, {ID: "R2"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "2", Subject: "Logic", Teacher: "Turing", StudentGroup: "G2"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	placed := 0
	for _, l := range solution.Lessons {
		if l.Timeslot != "" {
			placed++
		}
	}
	assert.Equal(t, 1, placed)
}

func TestGreedyRoomExhaustion(t *testing.T) {
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{slot(models.Monday, "08:00", "09:00")},
		Rooms:     []models.Room{{ID: "R1"}},
		Lessons: []models.Lesson{
			{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"},
			{ID: "2", Subject: "Physics", Teacher: "Curie", StudentGroup: "G2"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	assert.NotEmpty(t, solution.Lessons[0].Timeslot)
	assert.Empty(t, solution.Lessons[1].Timeslot, "single room cannot host two lessons in one slot")
}

func TestGreedyInputOrderWinsContestedCapacity(t *testing.T) {
	timetable := models.Timetable{
		Timeslots: []models.Timeslot{slot(models.Wednesday, "11:00", "12:00")},
		Rooms:     []models.Room{{ID: "R1"}},
		Lessons: []models.Lesson{
			{ID: "second-in-alphabet", Subject: "B", Teacher: "T1", StudentGroup: "G1"},
			{ID: "a-first-in-alphabet", Subject: "A", Teacher: "T1", StudentGroup: "G1"},
		},
	}

	solution := NewGreedyScheduler(nil).Schedule(timetable)

	assert.NotEmpty(t, solution.Lessons[0].Timeslot)
	assert.Empty(t, solution.Lessons[1].Timeslot)
}
