// Package workbook normalizes heterogeneous spreadsheet uploads into
// the canonical timetable model. Sheet and column names are matched by
// alias, case-insensitively and ignoring non-alphanumeric characters,
// so exports from different tools land on the same model.
package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

// ParseResult carries the canonical model plus the entity name sets
// derived from the Lessons sheet and any non-fatal row warnings.
type ParseResult struct {
	Timetable     models.Timetable
	Teachers      []string
	StudentGroups []string
	Courses       []string
	Warnings      []string
}

// StructuralError reports a missing mandatory sheet or column together
// with the headers that were actually found, to aid diagnosis.
type StructuralError struct {
	Sheet    string
	Expected string
	Found    []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("workbook format error: missing %s sheet, ensure columns %s exist (found headers: %s)",
		e.Sheet, e.Expected, strings.Join(e.Found, ", "))
}

var (
	dayAliases     = []string{"dayofweek", "day"}
	startAliases   = []string{"starttime", "start", "from", "preferredstart"}
	endAliases     = []string{"endtime", "end", "to", "preferredend"}
	roomAliases    = []string{"name", "roomname", "nameofroom", "room"}
	linkAliases    = []string{"link", "meetinglink"}
	idAliases      = []string{"id", "lessonid"}
	subjectAliases = []string{"subject", "course", "subjectname"}
	teacherAliases = []string{"teacher", "teachername"}
	groupAliases   = []string{"studentgroup", "group"}
)

type sheetData struct {
	name    string
	headers []string
	rows    []map[string]string
}

func (s *sheetData) has(aliases ...string) bool {
	for _, h := range s.headers {
		key := normalizeKey(h)
		for _, a := range aliases {
			if key == a {
				return true
			}
		}
	}
	return false
}

// value returns the first non-empty cell matching any of the aliases.
func value(row map[string]string, aliases ...string) string {
	for _, a := range aliases {
		if v, ok := row[a]; ok && v != "" {
			return v
		}
	}
	return ""
}

func normalizeKey(key string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(key) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse reads an xlsx workbook and produces the canonical timetable
// model. Missing Timeslots/Rooms/Lessons sheets are structural errors;
// a missing TeacherAvailability sheet yields an empty list. Individual
// defective rows are skipped with a warning; an unrecognized
// day-of-week aborts the import.
func Parse(r io.Reader) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets, err := loadSheets(f)
	if err != nil {
		return nil, err
	}

	// A teacher column marks an availability sheet, which carries the
	// same day/start/end trio as timeslots.
	timeslotSheet := findSheet(sheets, func(s *sheetData) bool {
		return s.has(dayAliases...) && s.has(startAliases...) && s.has(endAliases...) && !s.has(teacherAliases...)
	})
	roomSheet := findSheet(sheets, func(s *sheetData) bool {
		return s.has(roomAliases...)
	})
	lessonSheet := findSheet(sheets, func(s *sheetData) bool {
		return s.has(idAliases...) && s.has(subjectAliases...) && s.has(teacherAliases...) && s.has(groupAliases...)
	})
	availabilitySheet := findSheet(sheets, func(s *sheetData) bool {
		return s.has(teacherAliases...) && s.has(dayAliases...) && s.has(startAliases...) && s.has(endAliases...)
	})

	if lessonSheet == nil {
		return nil, &StructuralError{Sheet: "Lessons", Expected: "Id, Subject, Teacher, StudentGroup", Found: allHeaders(sheets)}
	}
	if roomSheet == nil {
		return nil, &StructuralError{Sheet: "Rooms", Expected: "Name", Found: allHeaders(sheets)}
	}
	if timeslotSheet == nil {
		return nil, &StructuralError{Sheet: "Timeslots", Expected: "DayOfWeek, StartTime, EndTime", Found: allHeaders(sheets)}
	}

	result := &ParseResult{}

	if err := parseTimeslots(timeslotSheet, result); err != nil {
		return nil, err
	}
	parseRooms(roomSheet, result)
	parseLessons(lessonSheet, result)
	if availabilitySheet != nil && availabilitySheet != timeslotSheet {
		if err := parseAvailabilities(availabilitySheet, result); err != nil {
			return nil, err
		}
	}

	deriveEntities(result)
	synthesizeSlots(result)
	coverageCheck(result)

	return result, nil
}

func loadSheets(f *excelize.File) ([]*sheetData, error) {
	var sheets []*sheetData
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		if len(rows) == 0 {
			continue
		}
		data := &sheetData{name: name, headers: rows[0]}
		for _, raw := range rows[1:] {
			row := make(map[string]string, len(data.headers))
			empty := true
			for i, h := range data.headers {
				var cell string
				if i < len(raw) {
					cell = strings.TrimSpace(raw[i])
				}
				if cell != "" {
					empty = false
				}
				row[normalizeKey(h)] = cell
			}
			if empty {
				continue
			}
			data.rows = append(data.rows, row)
		}
		sheets = append(sheets, data)
	}
	return sheets, nil
}

func findSheet(sheets []*sheetData, match func(*sheetData) bool) *sheetData {
	for _, s := range sheets {
		if match(s) {
			return s
		}
	}
	return nil
}

func allHeaders(sheets []*sheetData) []string {
	var headers []string
	for _, s := range sheets {
		for _, h := range s.headers {
			if strings.TrimSpace(h) != "" {
				headers = append(headers, fmt.Sprintf("%s.%s", s.name, strings.TrimSpace(h)))
			}
		}
	}
	return headers
}

func parseTimeslots(sheet *sheetData, result *ParseResult) error {
	seen := make(map[string]bool)
	for _, row := range sheet.rows {
		day, err := NormalizeDay(value(row, dayAliases...))
		if err != nil {
			return err
		}
		start := NormalizeTime(value(row, startAliases...))
		end := NormalizeTime(value(row, endAliases...))
		id := models.TimeslotID(day, start)
		if seen[id] {
			continue
		}
		seen[id] = true
		result.Timetable.Timeslots = append(result.Timetable.Timeslots, models.Timeslot{
			ID:        id,
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
		})
	}
	return nil
}

func parseRooms(sheet *sheetData, result *ParseResult) {
	for _, row := range sheet.rows {
		name := value(row, roomAliases...)
		if name == "" {
			result.Warnings = append(result.Warnings, "skipping room row without a name")
			continue
		}
		result.Timetable.Rooms = append(result.Timetable.Rooms, models.Room{
			ID:   name,
			Name: name,
			Link: value(row, linkAliases...),
		})
	}
}

func parseLessons(sheet *sheetData, result *ParseResult) {
	for _, row := range sheet.rows {
		lesson := models.Lesson{
			ID:           value(row, idAliases...),
			Subject:      value(row, subjectAliases...),
			Teacher:      value(row, teacherAliases...),
			StudentGroup: value(row, groupAliases...),
			MeetingLink:  value(row, linkAliases...),
		}
		if lesson.ID == "" || lesson.Subject == "" || lesson.Teacher == "" || lesson.StudentGroup == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping lesson row missing id/subject/teacher/studentGroup (id=%q teacher=%q)", lesson.ID, lesson.Teacher))
			continue
		}
		result.Timetable.Lessons = append(result.Timetable.Lessons, lesson)
	}
}

func parseAvailabilities(sheet *sheetData, result *ParseResult) error {
	for i, row := range sheet.rows {
		teacher := value(row, teacherAliases...)
		dayRaw := value(row, dayAliases...)
		start := NormalizeTime(value(row, startAliases...))
		end := NormalizeTime(value(row, endAliases...))
		if teacher == "" || dayRaw == "" || start == "" || end == "" {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("skipping availability row %d missing teacher/day/start/end", i+1))
			continue
		}
		day, err := NormalizeDay(dayRaw)
		if err != nil {
			return err
		}
		result.Timetable.TeacherAvailabilities = append(result.Timetable.TeacherAvailabilities, models.TeacherAvailability{
			ID:        strconv.Itoa(i + 1),
			Teacher:   teacher,
			DayOfWeek: day,
			StartTime: start,
			EndTime:   end,
		})
	}
	return nil
}

func deriveEntities(result *ParseResult) {
	teacherSeen := make(map[string]bool)
	groupSeen := make(map[string]bool)
	courseSeen := make(map[string]bool)
	for _, l := range result.Timetable.Lessons {
		if !teacherSeen[l.Teacher] {
			teacherSeen[l.Teacher] = true
			result.Teachers = append(result.Teachers, l.Teacher)
		}
		if !groupSeen[l.StudentGroup] {
			groupSeen[l.StudentGroup] = true
			result.StudentGroups = append(result.StudentGroups, l.StudentGroup)
		}
		if !courseSeen[l.Subject] {
			courseSeen[l.Subject] = true
			result.Courses = append(result.Courses, l.Subject)
		}
	}
}

// synthesizeSlots guarantees that every availability window has at
// least one timeslot starting at the window's start, so the engine
// never reasons about windows that fall outside the slot grid. The
// synthetic slot is one hour long, clamped to the window's own end.
func synthesizeSlots(result *ParseResult) {
	existing := make(map[string]bool, len(result.Timetable.Timeslots))
	for _, ts := range result.Timetable.Timeslots {
		existing[ts.ID] = true
	}
	for _, a := range result.Timetable.TeacherAvailabilities {
		id := models.TimeslotID(a.DayOfWeek, a.StartTime)
		if existing[id] {
			continue
		}
		existing[id] = true
		end := models.AddMinutes(a.StartTime, 60)
		if models.MinuteOfDay(a.EndTime) >= 0 && models.MinuteOfDay(a.EndTime) < models.MinuteOfDay(end) {
			end = a.EndTime
		}
		result.Timetable.Timeslots = append(result.Timetable.Timeslots, models.Timeslot{
			ID:        id,
			DayOfWeek: a.DayOfWeek,
			StartTime: a.StartTime,
			EndTime:   end,
		})
	}
}

// coverageCheck records teachers that appear in Lessons but declare no
// availability. No declared availability means unrestricted, so this is
// informational only.
func coverageCheck(result *ParseResult) {
	declared := make(map[string]bool)
	for _, a := range result.Timetable.TeacherAvailabilities {
		declared[strings.ToUpper(a.Teacher)] = true
	}
	var missing []string
	for _, t := range result.Teachers {
		if !declared[strings.ToUpper(t)] {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d teacher(s) without declared availability (treated as unrestricted): %s",
				len(missing), strings.Join(missing, ", ")))
	}
}
