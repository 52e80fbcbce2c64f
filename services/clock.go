package services

import (
	"fmt"
	"strconv"
	"strings"
)

// weekDays in schedule order, lowercase as stored.
var weekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// NormalizeDay lowercases and validates a weekday name.
func NormalizeDay(day string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(day))
	for _, wd := range weekDays {
		if d == wd {
			return d, nil
		}
	}
	return "", fmt.Errorf("invalid day: %q", day)
}

// DayIndex returns the position of a normalized day inside the week, monday first.
func DayIndex(day string) int {
	for i, wd := range weekDays {
		if day == wd {
			return i
		}
	}
	return -1
}

// NormalizeClock parses a wall-clock value and returns it as zero-padded "HH:MM".
// Accepted inputs: "8:30", "08:30", "08:30:00". Zero-padding keeps lexical
// comparison of two clock values equivalent to chronological comparison.
func NormalizeClock(value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", fmt.Errorf("empty time value")
	}

	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", fmt.Errorf("invalid time format: %q", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", value)
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(parts[2]); err != nil || sec < 0 || sec > 59 {
			return "", fmt.Errorf("invalid second in %q", value)
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// RangesOverlap reports whether two half-open clock ranges [aStart, aEnd) and
// [bStart, bEnd) intersect. Exactly-adjacent ranges (aEnd == bStart) do not
// overlap, so back-to-back periods are allowed. Inputs must be normalized
// "HH:MM" strings.
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return !(aEnd <= bStart || bEnd <= aStart)
}
