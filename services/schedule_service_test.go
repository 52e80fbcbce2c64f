package services

import (
	"testing"
	"time"

	"classtrack_go/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateScheduleDates(t *testing.T) {
	tests := []struct {
		name          string
		startDate     time.Time
		effectiveFrom time.Time
		endDate       time.Time
		wantErr       bool
	}{
		{
			name:          "valid ordering",
			startDate:     date(2026, 5, 1),
			effectiveFrom: date(2026, 5, 15),
			endDate:       date(2026, 10, 31),
		},
		{
			name:          "effective equals boundaries",
			startDate:     date(2026, 5, 1),
			effectiveFrom: date(2026, 5, 1),
			endDate:       date(2026, 5, 1),
		},
		{
			name:          "end before start",
			startDate:     date(2026, 5, 1),
			effectiveFrom: date(2026, 5, 1),
			endDate:       date(2026, 4, 30),
			wantErr:       true,
		},
		{
			name:          "effective before start",
			startDate:     date(2026, 5, 1),
			effectiveFrom: date(2026, 4, 30),
			endDate:       date(2026, 10, 31),
			wantErr:       true,
		},
		{
			name:          "effective after end",
			startDate:     date(2026, 5, 1),
			effectiveFrom: date(2026, 11, 1),
			endDate:       date(2026, 10, 31),
			wantErr:       true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateScheduleDates(tc.startDate, tc.effectiveFrom, tc.endDate)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestBuildSlotsForSchedule(t *testing.T) {
	schedule := models.Schedule{BaseModel: models.BaseModel{ID: 5}, ClassID: 2}
	timeslots := []models.Timeslot{
		{BaseModel: models.BaseModel{ID: 1}, Day: "monday", Type: "period"},
		{BaseModel: models.BaseModel{ID: 2}, Day: "monday", Type: "break"},
		{BaseModel: models.BaseModel{ID: 3}, Day: "friday", Type: "assembly"},
	}

	slots := BuildSlotsForSchedule(schedule, timeslots)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	for i, slot := range slots {
		if slot.ScheduleID != schedule.ID {
			t.Fatalf("slot %d bound to schedule %d, expected %d", i, slot.ScheduleID, schedule.ID)
		}
		if slot.TimeslotID != timeslots[i].ID {
			t.Fatalf("slot %d bound to timeslot %d, expected %d", i, slot.TimeslotID, timeslots[i].ID)
		}
		if slot.Day != timeslots[i].Day || slot.Type != timeslots[i].Type {
			t.Fatalf("slot %d did not inherit day/type: %+v", i, slot)
		}
		if slot.TeacherID != nil || slot.HasConflict {
			t.Fatalf("slot %d should start unassigned and conflict-free", i)
		}
	}
}

func TestCanActivate(t *testing.T) {
	if err := CanActivate(nil); err == nil {
		t.Fatalf("expected error for schedule without slots")
	}

	clean := []models.ScheduleSlot{
		{ID: 1},
		{ID: 2},
	}
	if err := CanActivate(clean); err != nil {
		t.Fatalf("unexpected error for clean slots: %v", err)
	}

	conflicted := []models.ScheduleSlot{
		{ID: 1},
		{ID: 2, HasConflict: true},
	}
	if err := CanActivate(conflicted); err == nil {
		t.Fatalf("expected error for slots with unresolved conflicts")
	}
}
