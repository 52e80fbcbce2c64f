package services

import (
	"errors"
	"fmt"
	"time"

	"classtrack_go/database"
	"classtrack_go/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TimeslotService owns the timeslot store and the slot fan-out that keeps
// every active schedule of a class in step with its timeslot grid.
type TimeslotService struct {
	db *gorm.DB
}

func NewTimeslotService() *TimeslotService {
	return &TimeslotService{db: database.DB}
}

// CreateTimeslotInput is the request body for creating a timeslot
type CreateTimeslotInput struct {
	ClassID   uint   `json:"class_id" validate:"required"`
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Type      string `json:"type"`
}

// UpdateTimeslotInput is the request body for updating a timeslot
type UpdateTimeslotInput struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Type      string `json:"type"`
}

// validTimeslotTypes mirrors the enum on the timeslots table
var validTimeslotTypes = []string{"period", "break", "assembly"}

// IsValidTimeslotType checks if a timeslot type is valid
func IsValidTimeslotType(t string) bool {
	for _, vt := range validTimeslotTypes {
		if t == vt {
			return true
		}
	}
	return false
}

// ValidateClockRange enforces start < end on normalized "HH:MM" values.
func ValidateClockRange(start, end string) error {
	if start >= end {
		return fmt.Errorf("start_time %s must be before end_time %s", start, end)
	}
	return nil
}

// checkForOverlappingTimeslots intentionally permits overlapping timeslots for
// the same class and day: a class may run parallel periods, breaks and club
// activities in the same range. Only the teacher-level conflict check gates
// double-booking, and the unique index rejects exact duplicate ranges.
func (s *TimeslotService) checkForOverlappingTimeslots(classID uint, day, start, end string) error {
	return nil
}

// BuildSlotsForTimeslot produces one unassigned ScheduleSlot per schedule for
// a freshly created timeslot.
func BuildSlotsForTimeslot(ts models.Timeslot, schedules []models.Schedule) []models.ScheduleSlot {
	slots := make([]models.ScheduleSlot, 0, len(schedules))
	for _, sch := range schedules {
		slots = append(slots, models.ScheduleSlot{
			ScheduleID: sch.ID,
			TimeslotID: ts.ID,
			Day:        ts.Day,
			Type:       ts.Type,
		})
	}
	return slots
}

// Create validates and stores a timeslot, then fans matching schedule slots
// out into every active schedule of the class inside one transaction.
func (s *TimeslotService) Create(in CreateTimeslotInput) (*models.Timeslot, error) {
	day, err := NormalizeDay(in.Day)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	start, err := NormalizeClock(in.StartTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	end, err := NormalizeClock(in.EndTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := ValidateClockRange(start, end); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	slotType := in.Type
	if slotType == "" {
		slotType = "period"
	}
	if !IsValidTimeslotType(slotType) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid type. Must be: period, break, or assembly")
	}

	var class models.Class
	if err := s.db.First(&class, in.ClassID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Class not found")
	}

	if err := s.checkForOverlappingTimeslots(in.ClassID, day, start, end); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	timeslot := models.Timeslot{
		ClassID:   in.ClassID,
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Type:      slotType,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&timeslot).Error; err != nil {
			return err
		}

		var activeSchedules []models.Schedule
		if err := tx.Where("class_id = ? AND status = ?", in.ClassID, "active").
			Find(&activeSchedules).Error; err != nil {
			return err
		}

		if slots := BuildSlotsForTimeslot(timeslot, activeSchedules); len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateDBError(err, "timeslot")
	}

	return &timeslot, nil
}

// Get returns a timeslot by ID
func (s *TimeslotService) Get(id uint) (*models.Timeslot, error) {
	var timeslot models.Timeslot
	if err := s.db.Preload("Class").First(&timeslot, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Timeslot not found")
	}
	return &timeslot, nil
}

// ListByClass returns all live timeslots of a class ordered by day and start time
func (s *TimeslotService) ListByClass(classID uint) ([]models.Timeslot, error) {
	var class models.Class
	if err := s.db.First(&class, classID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Class not found")
	}

	var timeslots []models.Timeslot
	if err := s.db.Where("class_id = ?", classID).
		Order("field(day,'monday','tuesday','wednesday','thursday','friday','saturday','sunday'), start_time").
		Find(&timeslots).Error; err != nil {
		return nil, translateDBError(err, "timeslots")
	}
	return timeslots, nil
}

// Update modifies a timeslot. A day change is rejected while any schedule slot
// still references the timeslot, so existing assignments are never silently
// moved to another day. A time change re-evaluates the conflict flag of every
// dependent slot that has a teacher assigned.
func (s *TimeslotService) Update(id uint, in UpdateTimeslotInput) (*models.Timeslot, error) {
	var timeslot models.Timeslot
	if err := s.db.First(&timeslot, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Timeslot not found")
	}

	day := timeslot.Day
	if in.Day != "" {
		d, err := NormalizeDay(in.Day)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		day = d
	}

	start := timeslot.StartTime
	if in.StartTime != "" {
		v, err := NormalizeClock(in.StartTime)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		start = v
	}

	end := timeslot.EndTime
	if in.EndTime != "" {
		v, err := NormalizeClock(in.EndTime)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		end = v
	}

	if err := ValidateClockRange(start, end); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	slotType := timeslot.Type
	if in.Type != "" {
		if !IsValidTimeslotType(in.Type) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid type. Must be: period, break, or assembly")
		}
		slotType = in.Type
	}

	dayChanged := day != timeslot.Day
	timeChanged := start != timeslot.StartTime || end != timeslot.EndTime

	var slotCount int64
	if err := s.db.Model(&models.ScheduleSlot{}).
		Where("timeslot_id = ?", timeslot.ID).
		Count(&slotCount).Error; err != nil {
		return nil, translateDBError(err, "schedule slots")
	}

	if dayChanged && slotCount > 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Cannot change the day of a timeslot that is referenced by schedule slots")
	}

	if dayChanged || timeChanged {
		if err := s.checkForOverlappingTimeslots(timeslot.ClassID, day, start, end); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		timeslot.Day = day
		timeslot.StartTime = start
		timeslot.EndTime = end
		timeslot.Type = slotType
		if err := tx.Save(&timeslot).Error; err != nil {
			return err
		}

		if slotCount > 0 {
			// Keep the derived columns in step with the timeslot
			if err := tx.Model(&models.ScheduleSlot{}).
				Where("timeslot_id = ?", timeslot.ID).
				Updates(map[string]interface{}{"day": timeslot.Day, "type": timeslot.Type}).Error; err != nil {
				return err
			}
		}

		if timeChanged {
			if err := refreshSlotConflicts(tx, timeslot); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateDBError(err, "timeslot")
	}

	return &timeslot, nil
}

// refreshSlotConflicts re-runs the teacher conflict check for every dependent
// slot with a teacher assigned, against the timeslot's new range.
func refreshSlotConflicts(tx *gorm.DB, timeslot models.Timeslot) error {
	var slots []models.ScheduleSlot
	if err := tx.Where("timeslot_id = ? AND teacher_id IS NOT NULL", timeslot.ID).
		Find(&slots).Error; err != nil {
		return err
	}

	for _, slot := range slots {
		hasConflict, err := teacherRangeConflicts(tx, *slot.TeacherID, timeslot.Day,
			timeslot.StartTime, timeslot.EndTime, slot.ID)
		if err != nil {
			return err
		}
		if hasConflict != slot.HasConflict {
			if err := tx.Model(&models.ScheduleSlot{}).
				Where("id = ?", slot.ID).
				Update("has_conflict", hasConflict).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete soft-deletes a timeslot and hard-deletes every schedule slot derived
// from it. Returns the number of schedule slots removed.
func (s *TimeslotService) Delete(id uint, deletedBy uint) (int64, error) {
	var timeslot models.Timeslot
	if err := s.db.First(&timeslot, id).Error; err != nil {
		return 0, fiber.NewError(fiber.StatusNotFound, "Timeslot not found")
	}

	var deletedSlots int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("timeslot_id = ?", timeslot.ID).Delete(&models.ScheduleSlot{})
		if result.Error != nil {
			return result.Error
		}
		deletedSlots = result.RowsAffected

		if err := tx.Model(&models.Timeslot{}).
			Where("id = ?", timeslot.ID).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&timeslot).Error
	})
	if err != nil {
		return 0, translateDBError(err, "timeslot")
	}

	return deletedSlots, nil
}

// teacherRangeConflicts reports whether the teacher already holds a slot that
// overlaps the given half-open range on the given day, across all schedules
// that are not soft-deleted. excludeSlotID skips the slot being edited.
func teacherRangeConflicts(tx *gorm.DB, teacherID uint, day, start, end string, excludeSlotID uint) (bool, error) {
	slots, err := candidateTeacherSlots(tx, teacherID, day, excludeSlotID)
	if err != nil {
		return false, err
	}
	return len(FindOverlappingSlots(slots, start, end)) > 0, nil
}

// candidateTeacherSlots loads every live slot held by a teacher on a day,
// with timeslot ranges attached.
func candidateTeacherSlots(tx *gorm.DB, teacherID uint, day string, excludeSlotID uint) ([]models.ScheduleSlot, error) {
	query := tx.
		Joins("JOIN schedules ON schedules.id = schedule_slots.schedule_id AND schedules.deleted_at IS NULL").
		Where("schedule_slots.teacher_id = ? AND schedule_slots.day = ?", teacherID, day).
		Preload("Timeslot").
		Preload("Schedule")
	if excludeSlotID != 0 {
		query = query.Where("schedule_slots.id != ?", excludeSlotID)
	}

	var slots []models.ScheduleSlot
	if err := query.Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// FindOverlappingSlots filters slots whose timeslot range strictly overlaps
// the half-open [start, end) range. Slots whose timeslot failed to load are
// skipped rather than treated as conflicts.
func FindOverlappingSlots(slots []models.ScheduleSlot, start, end string) []models.ScheduleSlot {
	var overlapping []models.ScheduleSlot
	for _, slot := range slots {
		if slot.Timeslot.ID == 0 {
			continue
		}
		if RangesOverlap(slot.Timeslot.StartTime, slot.Timeslot.EndTime, start, end) {
			overlapping = append(overlapping, slot)
		}
	}
	return overlapping
}

// ParseDate parses a "YYYY-MM-DD" value for schedule date fields.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, expected YYYY-MM-DD")
	}
	return t, nil
}
