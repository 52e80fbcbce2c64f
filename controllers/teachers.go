package controllers

import (
	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type TeacherController struct{}

// CreateTeacherRequest is the teacher creation body
type CreateTeacherRequest struct {
	SchoolID   uint   `json:"school_id" validate:"required"`
	UserID     *uint  `json:"user_id"`
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Nickname   string `json:"nickname" validate:"max=100"`
	Department string `json:"department" validate:"max=100"`
	Phone      string `json:"phone" validate:"max=20"`
}

// GetTeachers returns teachers with pagination and filters
func (tc *TeacherController) GetTeachers(c *fiber.Ctx) error {
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	var teachers []models.Teacher
	var total int64

	query := database.DB.Model(&models.Teacher{})

	if schoolID := c.Query("school_id"); schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}
	if department := c.Query("department"); department != "" {
		query = query.Where("department = ?", department)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Preload("User").
		Order("last_name, first_name").
		Offset(offset).Limit(limit).Find(&teachers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teachers",
		})
	}

	return c.JSON(fiber.Map{
		"teachers": teachers,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetTeacher returns a teacher by ID
func (tc *TeacherController) GetTeacher(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var teacher models.Teacher
	if err := database.DB.Preload("User").First(&teacher, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	return c.JSON(fiber.Map{
		"teacher": teacher,
	})
}

// GetTeacherSlots returns the teacher's assigned slots across live schedules
func (tc *TeacherController) GetTeacherSlots(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	var slots []models.ScheduleSlot
	if err := database.DB.
		Joins("JOIN schedules ON schedules.id = schedule_slots.schedule_id AND schedules.deleted_at IS NULL").
		Where("schedule_slots.teacher_id = ?", id).
		Preload("Timeslot").
		Preload("Schedule").
		Preload("Subject").
		Find(&slots).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch teacher slots",
		})
	}

	return c.JSON(fiber.Map{
		"teacher": teacher,
		"slots":   slots,
		"total":   len(slots),
	})
}

// CreateTeacher creates a teacher record
func (tc *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var req CreateTeacherRequest
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

	if req.UserID != nil {
		var user models.User
		if err := database.DB.First(&user, *req.UserID).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
	}

	teacher := models.Teacher{
		SchoolID:   req.SchoolID,
		UserID:     req.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Nickname:   req.Nickname,
		Department: req.Department,
		Phone:      req.Phone,
		Active:     true,
	}

	if err := database.DB.Create(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create teacher",
		})
	}

	middleware.LogActivity(c, "CREATE", "teachers", teacher.ID, teacher)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Teacher created successfully",
		"teacher": teacher,
	})
}

// UpdateTeacher updates a teacher record
func (tc *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	var updateData struct {
		FirstName  string `json:"first_name"`
		LastName   string `json:"last_name"`
		Nickname   string `json:"nickname"`
		Department string `json:"department"`
		Phone      string `json:"phone"`
		Active     *bool  `json:"active"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&teacher).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update teacher",
		})
	}

	middleware.LogActivity(c, "UPDATE", "teachers", teacher.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Teacher updated successfully",
		"teacher": teacher,
	})
}

// DeleteTeacher soft-deletes a teacher not referenced by live slots
func (tc *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var teacher models.Teacher
	if err := database.DB.First(&teacher, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Teacher not found",
		})
	}

	var slotCount int64
	database.DB.Model(&models.ScheduleSlot{}).
		Joins("JOIN schedules ON schedules.id = schedule_slots.schedule_id AND schedules.deleted_at IS NULL").
		Where("schedule_slots.teacher_id = ?", id).
		Count(&slotCount)
	if slotCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot delete a teacher assigned to schedule slots",
		})
	}

	if err := database.DB.Delete(&teacher).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete teacher",
		})
	}

	middleware.LogActivity(c, "DELETE", "teachers", teacher.ID, fiber.Map{
		"name": teacher.FirstName + " " + teacher.LastName,
	})

	return c.JSON(fiber.Map{
		"message": "Teacher deleted successfully",
	})
}
