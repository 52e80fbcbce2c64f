package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"classtrack_go/database"
	"classtrack_go/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService renders a schedule's slots into a weekly timetable workbook.
type ExportService struct {
	db *gorm.DB
}

func NewExportService() *ExportService {
	return &ExportService{db: database.DB}
}

// GridRow is one time band of the weekly grid. Cells are keyed by day name
// and hold the rendered label for that day's slot, empty when unassigned.
type GridRow struct {
	StartTime string
	EndTime   string
	Type      string
	Cells     map[string]string
}

// SlotLabel renders the text shown in a grid cell for one slot.
func SlotLabel(slot models.ScheduleSlot) string {
	if slot.Timeslot.Type != "" && slot.Timeslot.Type != "period" {
		return slot.Timeslot.Type
	}

	label := ""
	if slot.Subject != nil {
		label = slot.Subject.Name
	}
	if slot.Teacher != nil {
		name := slot.Teacher.FirstName
		if slot.Teacher.Nickname != "" {
			name = slot.Teacher.Nickname
		}
		if label != "" {
			label += "\n" + name
		} else {
			label = name
		}
	}
	if slot.Room != nil {
		if label != "" {
			label += "\n" + slot.Room.Name
		} else {
			label = slot.Room.Name
		}
	}
	return label
}

// BuildScheduleGrid groups slots into rows keyed by their time range, ordered
// chronologically. Slots sharing a range land in the same row under their day
// column.
func BuildScheduleGrid(slots []models.ScheduleSlot) []GridRow {
	rows := make(map[string]*GridRow)
	for _, slot := range slots {
		if slot.Timeslot.ID == 0 {
			continue
		}
		key := slot.Timeslot.StartTime + "-" + slot.Timeslot.EndTime
		row, ok := rows[key]
		if !ok {
			row = &GridRow{
				StartTime: slot.Timeslot.StartTime,
				EndTime:   slot.Timeslot.EndTime,
				Type:      slot.Timeslot.Type,
				Cells:     make(map[string]string),
			}
			rows[key] = row
		}
		row.Cells[slot.Day] = SlotLabel(slot)
	}

	out := make([]GridRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].EndTime < out[j].EndTime
	})
	return out
}

// ExportSchedule writes the schedule grid into an xlsx workbook and returns
// the buffer together with a generated file name.
func (es *ExportService) ExportSchedule(scheduleID uint) (*bytes.Buffer, string, error) {
	var schedule models.Schedule
	if err := es.db.Preload("Class").
		Preload("Slots.Timeslot").
		Preload("Slots.Subject").
		Preload("Slots.Teacher").
		Preload("Slots.Room").
		First(&schedule, scheduleID).Error; err != nil {
		return nil, "", translateDBError(err, "schedule")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Timetable"
	f.SetSheetName("Sheet1", sheet)

	title := schedule.Name
	if schedule.Class.Name != "" {
		title = schedule.Class.Name + " " + schedule.Class.Section + " - " + schedule.Name
	}
	f.SetCellValue(sheet, "A1", title)
	f.SetCellValue(sheet, "A2", "Academic year: "+schedule.AcademicYear)
	if err := f.MergeCell(sheet, "A1", "H1"); err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, "Failed to build export")
	}

	headerRow := 4
	f.SetCellValue(sheet, cellRef(0, headerRow), "Time")
	for i, day := range weekDays {
		f.SetCellValue(sheet, cellRef(i+1, headerRow), titleCase(day))
	}

	grid := BuildScheduleGrid(schedule.Slots)
	for i, row := range grid {
		rowIdx := headerRow + 1 + i
		f.SetCellValue(sheet, cellRef(0, rowIdx), row.StartTime+" - "+row.EndTime)
		for j, day := range weekDays {
			if label, ok := row.Cells[day]; ok {
				f.SetCellValue(sheet, cellRef(j+1, rowIdx), label)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 16); err == nil {
		_ = f.SetColWidth(sheet, "B", "H", 22)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		_ = f.SetCellStyle(sheet, cellRef(0, headerRow), cellRef(len(weekDays), headerRow), headerStyle)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, "Failed to build export")
	}

	fileName := fmt.Sprintf("schedule_%d_%s.xlsx", schedule.ID, uuid.New().String()[:8])
	return buf, fileName, nil
}

func cellRef(col, row int) string {
	name, _ := excelize.ColumnNumberToName(col + 1)
	return fmt.Sprintf("%s%d", name, row)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
