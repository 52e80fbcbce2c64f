package controllers

import (
	"strconv"

	"classtrack_go/middleware"
	"classtrack_go/services"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ScheduleController struct {
	service *services.ScheduleService
	export  *services.ExportService
}

func NewScheduleController() *ScheduleController {
	return &ScheduleController{
		service: services.NewScheduleService(),
		export:  services.NewExportService(),
	}
}

// CreateSchedule creates a schedule and derives a slot from every timeslot of
// the class
func (sc *ScheduleController) CreateSchedule(c *fiber.Ctx) error {
	var in services.CreateScheduleInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	schedule, err := sc.service.Create(in)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "schedules", schedule.ID, schedule)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Schedule created successfully",
		"schedule": schedule,
	})
}

// GetSchedules lists schedules with optional class/status filters
func (sc *ScheduleController) GetSchedules(c *fiber.Ctx) error {
	page, limit := paginationParams(c)

	var classID uint
	if v := c.Query("class_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid class_id",
			})
		}
		classID = uint(parsed)
	}

	schedules, total, err := sc.service.List(services.ScheduleFilter{
		ClassID: classID,
		Status:  c.Query("status"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"schedules": schedules,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetSchedule returns a schedule with its slots
func (sc *ScheduleController) GetSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	schedule, err := sc.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"schedule": schedule,
	})
}

// UpdateSchedule updates schedule metadata
func (sc *ScheduleController) UpdateSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in services.UpdateScheduleInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	schedule, err := sc.service.Update(id, in)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "schedules", schedule.ID, in)

	return c.JSON(fiber.Map{
		"message":  "Schedule updated successfully",
		"schedule": schedule,
	})
}

// DeleteSchedule soft-deletes an inactive schedule and removes its slots
func (sc *ScheduleController) DeleteSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := sc.service.Delete(id, user.ID); err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "schedules", id, nil)

	return c.JSON(fiber.Map{
		"message": "Schedule deleted successfully",
	})
}

// ActivateSchedule flips a schedule to active and deactivates every other
// schedule of the same class
func (sc *ScheduleController) ActivateSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	schedule, err := sc.service.Activate(id)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "schedules", schedule.ID, fiber.Map{
		"action": "activate",
	})

	return c.JSON(fiber.Map{
		"message":  "Schedule activated successfully",
		"schedule": schedule,
	})
}

// GetScheduleSlots lists the slots of a schedule
func (sc *ScheduleController) GetScheduleSlots(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	slots, err := sc.service.ListSlots(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"slots": slots,
		"total": len(slots),
	})
}

// CreateScheduleSlot binds a timeslot into a schedule with optional assignments
func (sc *ScheduleController) CreateScheduleSlot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in services.SlotInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if in.TimeslotID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "timeslot_id is required",
		})
	}

	slot, err := sc.service.CreateSlot(id, in)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "schedule-slots", slot.ID, slot)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Schedule slot created successfully",
		"slot":    slot,
	})
}

// UpdateScheduleSlot edits a slot's subject/teacher/room assignment
func (sc *ScheduleController) UpdateScheduleSlot(c *fiber.Ctx) error {
	slotID, err := parseIDParam(c, "slot_id")
	if err != nil {
		return respondError(c, err)
	}

	var in services.SlotInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	slot, err := sc.service.UpdateSlot(slotID, in)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "schedule-slots", slot.ID, in)

	return c.JSON(fiber.Map{
		"message": "Schedule slot updated successfully",
		"slot":    slot,
	})
}

// DeleteScheduleSlot removes a slot
func (sc *ScheduleController) DeleteScheduleSlot(c *fiber.Ctx) error {
	slotID, err := parseIDParam(c, "slot_id")
	if err != nil {
		return respondError(c, err)
	}

	if err := sc.service.DeleteSlot(slotID); err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "schedule-slots", slotID, nil)

	return c.JSON(fiber.Map{
		"message": "Schedule slot deleted successfully",
	})
}

// CheckTeacherConflict runs the conflict checker for a teacher, day and time
// range without persisting anything
func (sc *ScheduleController) CheckTeacherConflict(c *fiber.Ctx) error {
	teacherID, err := strconv.ParseUint(c.Query("teacher_id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid teacher_id",
		})
	}

	day := c.Query("day")
	startTime := c.Query("start_time")
	endTime := c.Query("end_time")
	if day == "" || startTime == "" || endTime == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "day, start_time and end_time are required",
		})
	}

	var excludeSlotID uint
	if v := c.Query("exclude_slot_id"); v != "" {
		parsed, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid exclude_slot_id",
			})
		}
		excludeSlotID = uint(parsed)
	}

	result, err := sc.service.CheckTeacherConflict(uint(teacherID), day, startTime, endTime, excludeSlotID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}

// ExportSchedule renders the schedule's slot grid to an Excel workbook
func (sc *ScheduleController) ExportSchedule(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	buf, fileName, err := sc.export.ExportSchedule(id)
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return c.Send(buf.Bytes())
}
