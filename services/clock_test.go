package services

import "testing"

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already normalized",
			input:    "08:30",
			expected: "08:30",
		},
		{
			name:     "missing leading zero",
			input:    "8:30",
			expected: "08:30",
		},
		{
			name:     "with seconds",
			input:    "08:30:00",
			expected: "08:30",
		},
		{
			name:     "late evening",
			input:    "23:59",
			expected: "23:59",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeClock(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestNormalizeClockInvalid(t *testing.T) {
	inputs := []string{"", "25:00", "12:60", "noon", "12", "12:", "1230"}
	for _, input := range inputs {
		if _, err := NormalizeClock(input); err == nil {
			t.Fatalf("expected error for input %q", input)
		}
	}
}

func TestNormalizeDay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercase",
			input:    "monday",
			expected: "monday",
		},
		{
			name:     "mixed case",
			input:    "Friday",
			expected: "friday",
		},
		{
			name:     "surrounding whitespace",
			input:    "  sunday ",
			expected: "sunday",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeDay(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}

	if _, err := NormalizeDay("funday"); err == nil {
		t.Fatalf("expected error for unknown day")
	}
}

func TestDayIndex(t *testing.T) {
	if DayIndex("monday") != 0 {
		t.Fatalf("expected monday index 0, got %d", DayIndex("monday"))
	}
	if DayIndex("sunday") != 6 {
		t.Fatalf("expected sunday index 6, got %d", DayIndex("sunday"))
	}
	if DayIndex("unknown") != -1 {
		t.Fatalf("expected -1 for unknown day, got %d", DayIndex("unknown"))
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name     string
		aStart   string
		aEnd     string
		bStart   string
		bEnd     string
		expected bool
	}{
		{
			name:     "identical ranges",
			aStart:   "09:00",
			aEnd:     "10:00",
			bStart:   "09:00",
			bEnd:     "10:00",
			expected: true,
		},
		{
			name:     "partial overlap",
			aStart:   "09:00",
			aEnd:     "10:00",
			bStart:   "09:30",
			bEnd:     "10:30",
			expected: true,
		},
		{
			name:     "contained range",
			aStart:   "08:00",
			aEnd:     "12:00",
			bStart:   "09:00",
			bEnd:     "10:00",
			expected: true,
		},
		{
			name:     "back to back is not a conflict",
			aStart:   "09:00",
			aEnd:     "10:00",
			bStart:   "10:00",
			bEnd:     "11:00",
			expected: false,
		},
		{
			name:     "back to back reversed",
			aStart:   "10:00",
			aEnd:     "11:00",
			bStart:   "09:00",
			bEnd:     "10:00",
			expected: false,
		},
		{
			name:     "disjoint ranges",
			aStart:   "08:00",
			aEnd:     "09:00",
			bStart:   "13:00",
			bEnd:     "14:00",
			expected: false,
		},
		{
			name:     "one minute overlap",
			aStart:   "09:00",
			aEnd:     "10:01",
			bStart:   "10:00",
			bEnd:     "11:00",
			expected: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := RangesOverlap(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			if got != tc.expected {
				t.Fatalf("expected overlap=%v for [%s,%s) vs [%s,%s), got %v",
					tc.expected, tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got)
			}
			// Overlap is symmetric
			if RangesOverlap(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd) != got {
				t.Fatalf("overlap check is not symmetric for [%s,%s) vs [%s,%s)",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			}
		})
	}
}
