// Package models holds the canonical timetable representation shared
// by the normalizer, the scheduling engine, the solver client and the
// persistence layer.
package models

import (
	"fmt"
	"strings"
)

// DayOfWeek is one of the five canonical weekday keys.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
)

// WeekDays lists the canonical days in week order.
var WeekDays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}

// Order returns the day index Monday=0..Friday=4, or -1 for anything else.
func (d DayOfWeek) Order() int {
	for i, day := range WeekDays {
		if day == d {
			return i
		}
	}
	return -1
}

// Display renders the day in title case ("Monday"), the form persisted
// on classes and availability records.
func (d DayOfWeek) Display() string {
	s := string(d)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// DayFromDisplay maps a display-form day name back to its canonical key.
func DayFromDisplay(name string) (DayOfWeek, bool) {
	upper := DayOfWeek(strings.ToUpper(strings.TrimSpace(name)))
	if upper.Order() >= 0 {
		return upper, true
	}
	return "", false
}

// DayOrderOf returns the week index for a display-form day name,
// placing unknown names last.
func DayOrderOf(name string) int {
	if day, ok := DayFromDisplay(name); ok {
		return day.Order()
	}
	return len(WeekDays)
}

// TimeslotID derives the deterministic slot identifier, so two slots
// with the same day and start collapse to one.
func TimeslotID(day DayOfWeek, start string) string {
	return fmt.Sprintf("%s_%s", day, start)
}

// Timeslot is a fixed day+time interval in the canonical grid.
type Timeslot struct {
	ID        string    `json:"id"`
	DayOfWeek DayOfWeek `json:"dayOfWeek"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
}

// Room is a named location lessons can be assigned to. Rooms, not
// lessons, own meeting links.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Link string `json:"link,omitempty"`
}

// Lesson is an unplaced (subject, teacher, student group) triple.
// Timeslot and Room hold slot/room ids once assigned; empty means
// unassigned.
type Lesson struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	Teacher      string `json:"teacher"`
	StudentGroup string `json:"studentGroup"`
	MeetingLink  string `json:"meetingLink,omitempty"`
	Timeslot     string `json:"timeslot"`
	Room         string `json:"room"`
}

// TeacherAvailability is a contiguous window in which a teacher may be
// scheduled. A teacher with no windows at all is unrestricted.
type TeacherAvailability struct {
	ID        string    `json:"id"`
	Teacher   string    `json:"teacher"`
	DayOfWeek DayOfWeek `json:"dayOfWeek"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
}

// Timetable is the canonical model submitted to the solver and owned
// by a single upload cycle.
type Timetable struct {
	Timeslots             []Timeslot            `json:"timeslots"`
	Rooms                 []Room                `json:"rooms"`
	Lessons               []Lesson              `json:"lessons"`
	TeacherAvailabilities []TeacherAvailability `json:"teacherAvailabilities"`
}

// Solution is the solver's (or the greedy engine's) answer: the same
// lessons, now with timeslot and room populated where placeable.
type Solution struct {
	Timeslots []Timeslot `json:"timeslots"`
	Lessons   []Lesson   `json:"lessons"`
}

// TimeslotByID indexes the timetable's slots for solution validation.
func (t Timetable) TimeslotByID() map[string]Timeslot {
	index := make(map[string]Timeslot, len(t.Timeslots))
	for _, slot := range t.Timeslots {
		index[slot.ID] = slot
	}
	return index
}

// RoomByID indexes the timetable's rooms.
func (t Timetable) RoomByID() map[string]Room {
	index := make(map[string]Room, len(t.Rooms))
	for _, room := range t.Rooms {
		index[room.ID] = room
	}
	return index
}
