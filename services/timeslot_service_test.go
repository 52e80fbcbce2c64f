package services

import (
	"testing"

	"classtrack_go/models"
)

func TestIsValidTimeslotType(t *testing.T) {
	valid := []string{"period", "break", "assembly"}
	for _, v := range valid {
		if !IsValidTimeslotType(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}

	invalid := []string{"", "lunch", "PERIOD", "class"}
	for _, v := range invalid {
		if IsValidTimeslotType(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestValidateClockRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{
			name:  "valid range",
			start: "09:00",
			end:   "10:00",
		},
		{
			name:    "zero length range",
			start:   "09:00",
			end:     "09:00",
			wantErr: true,
		},
		{
			name:    "reversed range",
			start:   "10:00",
			end:     "09:00",
			wantErr: true,
		},
		{
			name:  "one minute range",
			start: "09:00",
			end:   "09:01",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateClockRange(tc.start, tc.end)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for [%s,%s)", tc.start, tc.end)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildSlotsForTimeslot(t *testing.T) {
	ts := models.Timeslot{
		BaseModel: models.BaseModel{ID: 7},
		ClassID:   1,
		Day:       "tuesday",
		StartTime: "08:30",
		EndTime:   "09:30",
		Type:      "period",
	}
	schedules := []models.Schedule{
		{BaseModel: models.BaseModel{ID: 3}},
		{BaseModel: models.BaseModel{ID: 9}},
	}

	slots := BuildSlotsForTimeslot(ts, schedules)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for i, slot := range slots {
		if slot.ScheduleID != schedules[i].ID {
			t.Fatalf("slot %d bound to schedule %d, expected %d", i, slot.ScheduleID, schedules[i].ID)
		}
		if slot.TimeslotID != ts.ID {
			t.Fatalf("slot %d bound to timeslot %d, expected %d", i, slot.TimeslotID, ts.ID)
		}
		if slot.Day != "tuesday" || slot.Type != "period" {
			t.Fatalf("slot %d did not inherit day/type: %+v", i, slot)
		}
		if slot.TeacherID != nil || slot.SubjectID != nil || slot.RoomID != nil {
			t.Fatalf("slot %d should start unassigned: %+v", i, slot)
		}
		if slot.HasConflict {
			t.Fatalf("slot %d should start without conflict", i)
		}
	}
}

func TestBuildSlotsForTimeslotNoSchedules(t *testing.T) {
	ts := models.Timeslot{BaseModel: models.BaseModel{ID: 1}, Day: "monday"}
	slots := BuildSlotsForTimeslot(ts, nil)
	if len(slots) != 0 {
		t.Fatalf("expected no slots without schedules, got %d", len(slots))
	}
}

func TestFindOverlappingSlots(t *testing.T) {
	slots := []models.ScheduleSlot{
		{
			ID:       1,
			Timeslot: models.Timeslot{BaseModel: models.BaseModel{ID: 10}, StartTime: "08:00", EndTime: "09:00"},
		},
		{
			ID:       2,
			Timeslot: models.Timeslot{BaseModel: models.BaseModel{ID: 11}, StartTime: "09:00", EndTime: "10:00"},
		},
		{
			ID:       3,
			Timeslot: models.Timeslot{BaseModel: models.BaseModel{ID: 12}, StartTime: "10:30", EndTime: "11:30"},
		},
		{
			// Timeslot failed to load, must be skipped
			ID:       4,
			Timeslot: models.Timeslot{},
		},
	}

	overlapping := FindOverlappingSlots(slots, "08:30", "09:30")
	if len(overlapping) != 2 {
		t.Fatalf("expected 2 overlapping slots, got %d", len(overlapping))
	}
	if overlapping[0].ID != 1 || overlapping[1].ID != 2 {
		t.Fatalf("unexpected overlapping slot IDs: %d, %d", overlapping[0].ID, overlapping[1].ID)
	}

	// Back-to-back with slot 2 only
	overlapping = FindOverlappingSlots(slots, "10:00", "10:30")
	if len(overlapping) != 0 {
		t.Fatalf("expected back-to-back range to have no overlaps, got %d", len(overlapping))
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 5 || d.Day() != 1 {
		t.Fatalf("unexpected parsed date: %v", d)
	}

	invalid := []string{"", "01/05/2026", "2026-13-01", "yesterday"}
	for _, v := range invalid {
		if _, err := ParseDate(v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}
