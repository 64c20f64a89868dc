package workbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
)

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"twelve hour with minutes", "2:30 PM", "14:30"},
		{"bare hour meridiem", "9 AM", "09:00"},
		{"noon", "12 PM", "12:00"},
		{"midnight", "12:00 AM", "00:00"},
		{"twenty four hour", "14:30", "14:30"},
		{"unpadded", "9:05", "09:05"},
		{"with seconds", "08:15:00", "08:15"},
		{"dotted clock", "9.30", "09:30"},
		{"fractional day serial", "0.354166666666667", "08:30"},
		{"serial with date part", "45123.5", "12:00"},
		{"embedded meridiem", " 10:00:00 am ", "10:00"},
		{"empty", "", ""},
		{"unparseable passes through", "sometime", "sometime"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeTime(tc.in))
		})
	}
}

func TestNormalizeDay(t *testing.T) {
	for raw, want := range map[string]models.DayOfWeek{
		"Mon":       models.Monday,
		"MONDAY":    models.Monday,
		"tuesday":   models.Tuesday,
		" Wed ":     models.Wednesday,
		"THURSDAY":  models.Thursday,
		"fri":       models.Friday,
		"Friday":    models.Friday,
		"WEDNESDAY": models.Wednesday,
	} {
		day, err := NormalizeDay(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, day, raw)
	}

	for _, raw := range []string{"", "Funday", "Sat", "Sunday", "M"} {
		_, err := NormalizeDay(raw)
		assert.Error(t, err, raw)
	}
}
