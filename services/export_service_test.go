package services

import (
	"testing"

	"classtrack_go/models"
)

func TestSlotLabel(t *testing.T) {
	tests := []struct {
		name     string
		slot     models.ScheduleSlot
		expected string
	}{
		{
			name: "subject teacher and room",
			slot: models.ScheduleSlot{
				Timeslot: models.Timeslot{Type: "period"},
				Subject:  &models.Subject{Name: "Mathematics"},
				Teacher:  &models.Teacher{FirstName: "Alice", Nickname: "Alice"},
				Room:     &models.Room{Name: "Room 101"},
			},
			expected: "Mathematics\nAlice\nRoom 101",
		},
		{
			name: "unassigned period",
			slot: models.ScheduleSlot{
				Timeslot: models.Timeslot{Type: "period"},
			},
			expected: "",
		},
		{
			name: "break slot shows its type",
			slot: models.ScheduleSlot{
				Timeslot: models.Timeslot{Type: "break"},
				Subject:  &models.Subject{Name: "Mathematics"},
			},
			expected: "break",
		},
		{
			name: "teacher without nickname uses first name",
			slot: models.ScheduleSlot{
				Timeslot: models.Timeslot{Type: "period"},
				Teacher:  &models.Teacher{FirstName: "Ben"},
			},
			expected: "Ben",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := SlotLabel(tc.slot)
			if got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestBuildScheduleGrid(t *testing.T) {
	slots := []models.ScheduleSlot{
		{
			Day: "monday",
			Timeslot: models.Timeslot{
				BaseModel: models.BaseModel{ID: 1},
				StartTime: "09:00", EndTime: "10:00", Type: "period",
			},
			Subject: &models.Subject{Name: "Science"},
		},
		{
			Day: "tuesday",
			Timeslot: models.Timeslot{
				BaseModel: models.BaseModel{ID: 2},
				StartTime: "09:00", EndTime: "10:00", Type: "period",
			},
			Subject: &models.Subject{Name: "English"},
		},
		{
			Day: "monday",
			Timeslot: models.Timeslot{
				BaseModel: models.BaseModel{ID: 3},
				StartTime: "08:00", EndTime: "09:00", Type: "period",
			},
			Subject: &models.Subject{Name: "Mathematics"},
		},
		{
			// Missing timeslot must be skipped
			Day:      "friday",
			Timeslot: models.Timeslot{},
		},
	}

	grid := BuildScheduleGrid(slots)
	if len(grid) != 2 {
		t.Fatalf("expected 2 grid rows, got %d", len(grid))
	}

	if grid[0].StartTime != "08:00" || grid[1].StartTime != "09:00" {
		t.Fatalf("rows not ordered chronologically: %s then %s", grid[0].StartTime, grid[1].StartTime)
	}

	if grid[0].Cells["monday"] != "Mathematics" {
		t.Fatalf("expected Mathematics in monday 08:00 cell, got %q", grid[0].Cells["monday"])
	}
	if grid[1].Cells["monday"] != "Science" || grid[1].Cells["tuesday"] != "English" {
		t.Fatalf("unexpected 09:00 row cells: %+v", grid[1].Cells)
	}
	if _, ok := grid[1].Cells["friday"]; ok {
		t.Fatalf("slot without a loaded timeslot should not appear in the grid")
	}
}

func TestBuildScheduleGridEmpty(t *testing.T) {
	grid := BuildScheduleGrid(nil)
	if len(grid) != 0 {
		t.Fatalf("expected empty grid, got %d rows", len(grid))
	}
}
