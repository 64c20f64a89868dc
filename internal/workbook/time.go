package workbook

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

var (
	reClockSeconds = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})$`)
	reClockMeridem = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(am|pm)$`)
	reHourMeridiem = regexp.MustCompile(`(?i)^(\d{1,2})\s*(am|pm)$`)
	reEmbeddedTime = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})(?::\d{2})?\s*(am|pm)?`)
	reDottedClock  = regexp.MustCompile(`^(\d{1,2})[.:](\d{2})$`)
)

// NormalizeTime coerces the many shapes a spreadsheet time cell can
// take into zero-padded 24-hour "HH:MM": fractional-day serials,
// "HH:MM:SS", "HH:MM", "H.MM" and 12-hour clock with or without
// minutes. Unparseable cells pass through unchanged so a single bad
// value degrades to an unscheduled lesson instead of failing the
// import.
func NormalizeTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// Time-typed cells surface as a fraction of a day.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		frac := serial
		if frac >= 1 {
			frac -= float64(int(frac))
		}
		if frac < 0 {
			return raw
		}
		total := int(frac*24*60 + 0.5)
		return models.FormatMinutes(total % (24 * 60))
	}

	if m := reClockSeconds.FindStringSubmatch(raw); m != nil {
		return pad(m[1], m[2])
	}
	if m := reClockMeridem.FindStringSubmatch(raw); m != nil {
		return meridiemTime(m[1], m[2], m[3])
	}
	if m := reHourMeridiem.FindStringSubmatch(raw); m != nil {
		return meridiemTime(m[1], "00", m[2])
	}
	if m := reEmbeddedTime.FindStringSubmatch(raw); m != nil {
		return meridiemTime(m[1], m[2], m[3])
	}
	if m := reDottedClock.FindStringSubmatch(raw); m != nil {
		return pad(m[1], m[2])
	}

	return raw
}

func meridiemTime(hourStr, minStr, meridiem string) string {
	hours, _ := strconv.Atoi(hourStr)
	minutes, _ := strconv.Atoi(minStr)
	switch strings.ToUpper(meridiem) {
	case "PM":
		if hours < 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}
	return models.FormatMinutes(hours*60 + minutes)
}

func pad(hourStr, minStr string) string {
	hours, _ := strconv.Atoi(hourStr)
	minutes, _ := strconv.Atoi(minStr)
	return models.FormatMinutes(hours*60 + minutes)
}

var dayPrefixes = map[string]models.DayOfWeek{
	"MON": models.Monday,
	"TUE": models.Tuesday,
	"WED": models.Wednesday,
	"THU": models.Thursday,
	"FRI": models.Friday,
}

// NormalizeDay maps a day cell ("Mon", "MONDAY", "tuesday", ...) to the
// canonical key by case-insensitive prefix match. An unrecognized value
// is an error: a slot with a corrupt day would silently break every
// downstream uniqueness and overlap check, so the import must stop.
func NormalizeDay(raw string) (models.DayOfWeek, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if len(v) >= 3 {
		if day, ok := dayPrefixes[v[:3]]; ok {
			return day, nil
		}
	}
	return "", fmt.Errorf("invalid DayOfWeek %q", raw)
}
