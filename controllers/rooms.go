package controllers

import (
	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type RoomController struct{}

// CreateRoomRequest is the room creation body
type CreateRoomRequest struct {
	SchoolID uint   `json:"school_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// GetRooms returns rooms with pagination
func (rc *RoomController) GetRooms(c *fiber.Ctx) error {
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	var rooms []models.Room
	var total int64

	query := database.DB.Model(&models.Room{})

	if schoolID := c.Query("school_id"); schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if minCapacity := c.Query("min_capacity"); minCapacity != "" {
		query = query.Where("capacity >= ?", minCapacity)
	}

	query.Count(&total)

	if err := query.Order("name").Offset(offset).Limit(limit).Find(&rooms).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch rooms",
		})
	}

	return c.JSON(fiber.Map{
		"rooms": rooms,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetRoom returns a room by ID
func (rc *RoomController) GetRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var room models.Room
	if err := database.DB.First(&room, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	return c.JSON(fiber.Map{
		"room": room,
	})
}

// CreateRoom creates a room
func (rc *RoomController) CreateRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	room := models.Room{
		SchoolID: req.SchoolID,
		Name:     req.Name,
		Capacity: req.Capacity,
		Status:   "available",
	}

	if err := database.DB.Create(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create room",
		})
	}

	middleware.LogActivity(c, "CREATE", "rooms", room.ID, room)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Room created successfully",
		"room":    room,
	})
}

// UpdateRoom updates a room
func (rc *RoomController) UpdateRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var room models.Room
	if err := database.DB.First(&room, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var updateData struct {
		Name     string `json:"name"`
		Capacity int    `json:"capacity"`
		Status   string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&room).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update room",
		})
	}

	middleware.LogActivity(c, "UPDATE", "rooms", room.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom soft-deletes a room not referenced by live slots
func (rc *RoomController) DeleteRoom(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var room models.Room
	if err := database.DB.First(&room, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Room not found",
		})
	}

	var slotCount int64
	database.DB.Model(&models.ScheduleSlot{}).
		Joins("JOIN schedules ON schedules.id = schedule_slots.schedule_id AND schedules.deleted_at IS NULL").
		Where("schedule_slots.room_id = ?", id).
		Count(&slotCount)
	if slotCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot delete a room assigned to schedule slots",
		})
	}

	if err := database.DB.Delete(&room).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete room",
		})
	}

	middleware.LogActivity(c, "DELETE", "rooms", room.ID, fiber.Map{
		"name": room.Name,
	})

	return c.JSON(fiber.Map{
		"message": "Room deleted successfully",
	})
}
