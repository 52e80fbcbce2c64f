package controllers

import (
	"classtrack_go/middleware"
	"classtrack_go/services"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type TimeslotController struct {
	service *services.TimeslotService
}

func NewTimeslotController() *TimeslotController {
	return &TimeslotController{service: services.NewTimeslotService()}
}

// CreateTimeslot creates a timeslot and fans matching slots out into every
// active schedule of the class
func (tc *TimeslotController) CreateTimeslot(c *fiber.Ctx) error {
	var in services.CreateTimeslotInput
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

	timeslot, err := tc.service.Create(in)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "timeslots", timeslot.ID, timeslot)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Timeslot created successfully",
		"timeslot": timeslot,
	})
}

// GetTimeslot returns a specific timeslot by ID
func (tc *TimeslotController) GetTimeslot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	timeslot, err := tc.service.Get(id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"timeslot": timeslot,
	})
}

// UpdateTimeslot updates an existing timeslot
func (tc *TimeslotController) UpdateTimeslot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var in services.UpdateTimeslotInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	timeslot, err := tc.service.Update(id, in)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "timeslots", timeslot.ID, in)

	return c.JSON(fiber.Map{
		"message":  "Timeslot updated successfully",
		"timeslot": timeslot,
	})
}

// DeleteTimeslot soft-deletes a timeslot and removes its schedule slots,
// reporting how many slots went with it
func (tc *TimeslotController) DeleteTimeslot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	deletedSlots, err := tc.service.Delete(id, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	middleware.LogActivity(c, "DELETE", "timeslots", id, fiber.Map{
		"deleted_schedule_slots": deletedSlots,
	})

	return c.JSON(fiber.Map{
		"message":                "Timeslot deleted successfully",
		"deleted_schedule_slots": deletedSlots,
	})
}

// GetClassTimeslots lists the live timeslots of a class
func (tc *TimeslotController) GetClassTimeslots(c *fiber.Ctx) error {
	classID, err := parseIDParam(c, "class_id")
	if err != nil {
		return respondError(c, err)
	}

	timeslots, err := tc.service.ListByClass(classID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"timeslots": timeslots,
		"total":     len(timeslots),
	})
}
