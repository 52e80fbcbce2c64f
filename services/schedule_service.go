package services

import (
	"fmt"
	"time"

	"classtrack_go/database"
	"classtrack_go/models"
	"classtrack_go/services/notifications"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ScheduleService owns the schedule and schedule-slot stores, the teacher
// conflict checker and the activation state machine.
type ScheduleService struct {
	db    *gorm.DB
	notif *notifications.Service
}

func NewScheduleService() *ScheduleService {
	return &ScheduleService{
		db:    database.DB,
		notif: notifications.NewService(),
	}
}

// CreateScheduleInput is the request body for creating a schedule
type CreateScheduleInput struct {
	ClassID       uint   `json:"class_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	AcademicYear  string `json:"academic_year" validate:"required"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	EffectiveFrom string `json:"effective_from" validate:"required"`
}

// UpdateScheduleInput is the request body for updating a schedule
type UpdateScheduleInput struct {
	Name          string `json:"name"`
	AcademicYear  string `json:"academic_year"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	EffectiveFrom string `json:"effective_from"`
}

// SlotInput is the request body for creating or updating a schedule slot
type SlotInput struct {
	TimeslotID uint  `json:"timeslot_id"`
	SubjectID  *uint `json:"subject_id"`
	TeacherID  *uint `json:"teacher_id"`
	RoomID     *uint `json:"room_id"`
}

// ScheduleFilter describes query params for listing schedules
type ScheduleFilter struct {
	ClassID uint
	Status  string
	Page    int
	Limit   int
}

// ConflictCheckResult is the response of the teacher conflict checker
type ConflictCheckResult struct {
	HasConflict      bool                  `json:"has_conflict"`
	ConflictingSlots []models.ScheduleSlot `json:"conflicting_slots,omitempty"`
}

// ValidateScheduleDates enforces start_date <= effective_from <= end_date.
func ValidateScheduleDates(startDate, effectiveFrom, endDate time.Time) error {
	if endDate.Before(startDate) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	if effectiveFrom.Before(startDate) {
		return fmt.Errorf("effective_from must not be before start_date")
	}
	if effectiveFrom.After(endDate) {
		return fmt.Errorf("effective_from must not be after end_date")
	}
	return nil
}

// BuildSlotsForSchedule produces one unassigned ScheduleSlot per live timeslot
// for a freshly created schedule.
func BuildSlotsForSchedule(schedule models.Schedule, timeslots []models.Timeslot) []models.ScheduleSlot {
	slots := make([]models.ScheduleSlot, 0, len(timeslots))
	for _, ts := range timeslots {
		slots = append(slots, models.ScheduleSlot{
			ScheduleID: schedule.ID,
			TimeslotID: ts.ID,
			Day:        ts.Day,
			Type:       ts.Type,
		})
	}
	return slots
}

// CanActivate checks the activation preconditions: at least one slot and no
// unresolved conflicts.
func CanActivate(slots []models.ScheduleSlot) error {
	if len(slots) == 0 {
		return fmt.Errorf("schedule has no slots to activate")
	}
	for _, slot := range slots {
		if slot.HasConflict {
			return fmt.Errorf("schedule has unresolved teacher conflicts")
		}
	}
	return nil
}

// Create validates and stores a schedule, then derives one schedule slot from
// every live timeslot of the class inside one transaction. New schedules
// always start inactive.
func (s *ScheduleService) Create(in CreateScheduleInput) (*models.Schedule, error) {
	var class models.Class
	if err := s.db.First(&class, in.ClassID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Class not found")
	}

	startDate, err := ParseDate(in.StartDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "start_date: "+err.Error())
	}
	endDate, err := ParseDate(in.EndDate)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "end_date: "+err.Error())
	}
	effectiveFrom, err := ParseDate(in.EffectiveFrom)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "effective_from: "+err.Error())
	}
	if err := ValidateScheduleDates(startDate, effectiveFrom, endDate); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	schedule := models.Schedule{
		ClassID:       in.ClassID,
		Name:          in.Name,
		AcademicYear:  in.AcademicYear,
		StartDate:     startDate,
		EndDate:       endDate,
		EffectiveFrom: effectiveFrom,
		Status:        "inactive",
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&schedule).Error; err != nil {
			return err
		}

		var timeslots []models.Timeslot
		if err := tx.Where("class_id = ?", in.ClassID).Find(&timeslots).Error; err != nil {
			return err
		}

		if slots := BuildSlotsForSchedule(schedule, timeslots); len(slots) > 0 {
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateDBError(err, "schedule")
	}

	return &schedule, nil
}

// List returns schedules matching the filter with pagination
func (s *ScheduleService) List(filter ScheduleFilter) ([]models.Schedule, int64, error) {
	query := s.db.Model(&models.Schedule{})
	if filter.ClassID != 0 {
		query = query.Where("class_id = ?", filter.ClassID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	query.Count(&total)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var schedules []models.Schedule
	if err := query.Preload("Class").
		Offset((page - 1) * limit).Limit(limit).
		Order("created_at DESC").
		Find(&schedules).Error; err != nil {
		return nil, 0, translateDBError(err, "schedules")
	}
	return schedules, total, nil
}

// Get returns a schedule with its slots and their assignments
func (s *ScheduleService) Get(id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.Preload("Class").
		Preload("Slots.Timeslot").
		Preload("Slots.Subject").
		Preload("Slots.Teacher").
		Preload("Slots.Room").
		First(&schedule, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}
	return &schedule, nil
}

// Update modifies schedule metadata with date-order revalidation
func (s *ScheduleService) Update(id uint, in UpdateScheduleInput) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.First(&schedule, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}

	startDate := schedule.StartDate
	if in.StartDate != "" {
		v, err := ParseDate(in.StartDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "start_date: "+err.Error())
		}
		startDate = v
	}
	endDate := schedule.EndDate
	if in.EndDate != "" {
		v, err := ParseDate(in.EndDate)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "end_date: "+err.Error())
		}
		endDate = v
	}
	effectiveFrom := schedule.EffectiveFrom
	if in.EffectiveFrom != "" {
		v, err := ParseDate(in.EffectiveFrom)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "effective_from: "+err.Error())
		}
		effectiveFrom = v
	}
	if err := ValidateScheduleDates(startDate, effectiveFrom, endDate); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	schedule.StartDate = startDate
	schedule.EndDate = endDate
	schedule.EffectiveFrom = effectiveFrom
	if in.Name != "" {
		schedule.Name = in.Name
	}
	if in.AcademicYear != "" {
		schedule.AcademicYear = in.AcademicYear
	}

	if err := s.db.Save(&schedule).Error; err != nil {
		return nil, translateDBError(err, "schedule")
	}
	return &schedule, nil
}

// Delete soft-deletes an inactive schedule and hard-deletes its slots.
// Active schedules cannot be deleted; deactivate them first.
func (s *ScheduleService) Delete(id uint, deletedBy uint) error {
	var schedule models.Schedule
	if err := s.db.First(&schedule, id).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}

	if schedule.Status == "active" {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot delete an active schedule")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", schedule.ID).
			Delete(&models.ScheduleSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Schedule{}).
			Where("id = ?", schedule.ID).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Delete(&schedule).Error
	})
	return translateDBError(err, "schedule")
}

// Activate flips a schedule to active after checking the preconditions, and
// deactivates every other schedule of the same class in the same transaction.
// Racing activations for the same class are serialized by the row updates;
// the last committed transaction wins and the earlier one ends up inactive.
func (s *ScheduleService) Activate(id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := s.db.First(&schedule, id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}

	var slots []models.ScheduleSlot
	if err := s.db.Where("schedule_id = ?", schedule.ID).Find(&slots).Error; err != nil {
		return nil, translateDBError(err, "schedule slots")
	}
	if err := CanActivate(slots); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Schedule{}).
			Where("class_id = ? AND id != ? AND status = ?", schedule.ClassID, schedule.ID, "active").
			Update("status", "inactive").Error; err != nil {
			return err
		}
		return tx.Model(&models.Schedule{}).
			Where("id = ?", schedule.ID).
			Update("status", "active").Error
	})
	if err != nil {
		return nil, translateDBError(err, "schedule")
	}
	schedule.Status = "active"

	s.notifyScheduleActivated(schedule, slots)

	return &schedule, nil
}

// ListSlots returns all slots of a schedule with their assignments
func (s *ScheduleService) ListSlots(scheduleID uint) ([]models.ScheduleSlot, error) {
	var schedule models.Schedule
	if err := s.db.First(&schedule, scheduleID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}

	var slots []models.ScheduleSlot
	if err := s.db.Where("schedule_id = ?", scheduleID).
		Preload("Timeslot").
		Preload("Subject").
		Preload("Teacher").
		Preload("Room").
		Find(&slots).Error; err != nil {
		return nil, translateDBError(err, "schedule slots")
	}
	return slots, nil
}

// CreateSlot binds a timeslot into a schedule with optional assignments. The
// slot's day always mirrors the timeslot's day. A teacher assignment runs the
// conflict checker and persists the result on the new slot.
func (s *ScheduleService) CreateSlot(scheduleID uint, in SlotInput) (*models.ScheduleSlot, error) {
	var schedule models.Schedule
	if err := s.db.First(&schedule, scheduleID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule not found")
	}

	var timeslot models.Timeslot
	if err := s.db.First(&timeslot, in.TimeslotID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Timeslot not found")
	}
	if timeslot.ClassID != schedule.ClassID {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Timeslot belongs to a different class than the schedule")
	}

	if err := s.validateSlotReferences(in); err != nil {
		return nil, err
	}

	slot := models.ScheduleSlot{
		ScheduleID: schedule.ID,
		TimeslotID: timeslot.ID,
		Day:        timeslot.Day,
		Type:       timeslot.Type,
		SubjectID:  in.SubjectID,
		TeacherID:  in.TeacherID,
		RoomID:     in.RoomID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if slot.TeacherID != nil {
			hasConflict, err := teacherRangeConflicts(tx, *slot.TeacherID, timeslot.Day,
				timeslot.StartTime, timeslot.EndTime, 0)
			if err != nil {
				return err
			}
			slot.HasConflict = hasConflict
		}
		return tx.Create(&slot).Error
	})
	if err != nil {
		return nil, translateDBError(err, "schedule slot")
	}

	if slot.HasConflict {
		s.notifySlotConflict(slot, timeslot)
	}

	return &slot, nil
}

// UpdateSlot edits a slot's subject/teacher/room assignment. A teacher
// assignment re-runs the conflict check against the slot's timeslot range,
// excluding the slot itself.
func (s *ScheduleService) UpdateSlot(slotID uint, in SlotInput) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	if err := s.db.Preload("Timeslot").First(&slot, slotID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Schedule slot not found")
	}

	if in.TimeslotID != 0 && in.TimeslotID != slot.TimeslotID {
		return nil, fiber.NewError(fiber.StatusBadRequest,
			"Cannot rebind a slot to another timeslot; delete and recreate it instead")
	}

	if err := s.validateSlotReferences(in); err != nil {
		return nil, err
	}

	slot.SubjectID = in.SubjectID
	slot.TeacherID = in.TeacherID
	slot.RoomID = in.RoomID

	err := s.db.Transaction(func(tx *gorm.DB) error {
		slot.HasConflict = false
		if slot.TeacherID != nil {
			hasConflict, err := teacherRangeConflicts(tx, *slot.TeacherID, slot.Timeslot.Day,
				slot.Timeslot.StartTime, slot.Timeslot.EndTime, slot.ID)
			if err != nil {
				return err
			}
			slot.HasConflict = hasConflict
		}
		return tx.Save(&slot).Error
	})
	if err != nil {
		return nil, translateDBError(err, "schedule slot")
	}

	if slot.HasConflict {
		s.notifySlotConflict(slot, slot.Timeslot)
	}

	return &slot, nil
}

// DeleteSlot removes a slot for real (slots carry no tombstone)
func (s *ScheduleService) DeleteSlot(slotID uint) error {
	var slot models.ScheduleSlot
	if err := s.db.First(&slot, slotID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Schedule slot not found")
	}
	if err := s.db.Delete(&slot).Error; err != nil {
		return translateDBError(err, "schedule slot")
	}
	return nil
}

// CheckTeacherConflict is the pure read behind /check-teacher-conflict: given
// a teacher, a day and a half-open clock range it returns every overlapping
// slot the teacher already holds, across all live schedules. It never writes;
// callers persist the flag on the slot they are editing.
func (s *ScheduleService) CheckTeacherConflict(teacherID uint, day, startTime, endTime string, excludeSlotID uint) (*ConflictCheckResult, error) {
	var teacher models.Teacher
	if err := s.db.First(&teacher, teacherID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Teacher not found")
	}

	normalizedDay, err := NormalizeDay(day)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	start, err := NormalizeClock(startTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	end, err := NormalizeClock(endTime)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := ValidateClockRange(start, end); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	candidates, err := candidateTeacherSlots(s.db, teacherID, normalizedDay, excludeSlotID)
	if err != nil {
		return nil, translateDBError(err, "schedule slots")
	}

	overlapping := FindOverlappingSlots(candidates, start, end)
	return &ConflictCheckResult{
		HasConflict:      len(overlapping) > 0,
		ConflictingSlots: overlapping,
	}, nil
}

// validateSlotReferences checks that every assigned subject/teacher/room exists
func (s *ScheduleService) validateSlotReferences(in SlotInput) error {
	if in.SubjectID != nil {
		var subject models.Subject
		if err := s.db.First(&subject, *in.SubjectID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Subject not found")
		}
	}
	if in.TeacherID != nil {
		var teacher models.Teacher
		if err := s.db.First(&teacher, *in.TeacherID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
		}
	}
	if in.RoomID != nil {
		var room models.Room
		if err := s.db.First(&room, *in.RoomID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Room not found")
		}
	}
	return nil
}

// notifySlotConflict warns the assigned teacher's user about a double-booking
func (s *ScheduleService) notifySlotConflict(slot models.ScheduleSlot, timeslot models.Timeslot) {
	if slot.TeacherID == nil {
		return
	}

	var teacher models.Teacher
	if err := s.db.First(&teacher, *slot.TeacherID).Error; err != nil || teacher.UserID == nil {
		return
	}

	payload := notifications.Payload{
		Title: "Scheduling conflict",
		Message: fmt.Sprintf("You are double-booked on %s %s-%s",
			timeslot.Day, timeslot.StartTime, timeslot.EndTime),
		Type: "warning",
		Data: map[string]interface{}{
			"schedule_id": slot.ScheduleID,
			"slot_id":     slot.ID,
		},
	}
	if err := s.notif.EnqueueOrCreate([]uint{*teacher.UserID}, payload); err != nil {
		// Notification failure never blocks the scheduling operation
		return
	}
}

// notifyScheduleActivated tells every assigned teacher that the timetable is live
func (s *ScheduleService) notifyScheduleActivated(schedule models.Schedule, slots []models.ScheduleSlot) {
	seen := make(map[uint]struct{})
	var userIDs []uint
	for _, slot := range slots {
		if slot.TeacherID == nil {
			continue
		}
		var teacher models.Teacher
		if err := s.db.First(&teacher, *slot.TeacherID).Error; err != nil || teacher.UserID == nil {
			continue
		}
		if _, dup := seen[*teacher.UserID]; dup {
			continue
		}
		seen[*teacher.UserID] = struct{}{}
		userIDs = append(userIDs, *teacher.UserID)
	}
	if len(userIDs) == 0 {
		return
	}

	payload := notifications.Payload{
		Title:   "Schedule activated",
		Message: fmt.Sprintf("The timetable '%s' is now active", schedule.Name),
		Type:    "success",
		Data: map[string]interface{}{
			"schedule_id": schedule.ID,
			"class_id":    schedule.ClassID,
		},
	}
	if err := s.notif.EnqueueOrCreate(userIDs, payload); err != nil {
		return
	}
}
