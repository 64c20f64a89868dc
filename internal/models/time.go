package models

import (
	"fmt"
	"strconv"
	"strings"
)

// MinuteOfDay converts a zero-padded or bare "H:MM"/"HH:MM" string to
// minutes since midnight. Unparseable values return -1 so comparisons
// against them never match.
func MinuteOfDay(t string) int {
	parts := strings.SplitN(strings.TrimSpace(t), ":", 2)
	if len(parts) != 2 {
		return -1
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return -1
	}
	if h < 0 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// FormatMinutes renders minutes since midnight as zero-padded "HH:MM".
func FormatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// AddMinutes shifts a "HH:MM" time by the given number of minutes.
// An unparseable input is returned unchanged.
func AddMinutes(t string, minutes int) string {
	total := MinuteOfDay(t)
	if total < 0 {
		return t
	}
	return FormatMinutes(total + minutes)
}
