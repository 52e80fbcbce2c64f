package controllers

import (
	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type SubjectController struct{}

// CreateSubjectRequest is the subject creation body
type CreateSubjectRequest struct {
	SchoolID uint   `json:"school_id" validate:"required"`
	Name     string `json:"name" validate:"required,max=255"`
	Code     string `json:"code" validate:"required,max=50"`
}

// GetSubjects returns subjects with pagination
func (sc *SubjectController) GetSubjects(c *fiber.Ctx) error {
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	var subjects []models.Subject
	var total int64

	query := database.DB.Model(&models.Subject{})

	if schoolID := c.Query("school_id"); schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	query.Count(&total)

	if err := query.Order("code").Offset(offset).Limit(limit).Find(&subjects).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch subjects",
		})
	}

	return c.JSON(fiber.Map{
		"subjects": subjects,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetSubject returns a subject by ID
func (sc *SubjectController) GetSubject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var subject models.Subject
	if err := database.DB.First(&subject, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subject not found",
		})
	}

	return c.JSON(fiber.Map{
		"subject": subject,
	})
}

// CreateSubject creates a subject
func (sc *SubjectController) CreateSubject(c *fiber.Ctx) error {
	var req CreateSubjectRequest
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

	subject := models.Subject{
		SchoolID: req.SchoolID,
		Name:     req.Name,
		Code:     req.Code,
		Active:   true,
	}

	if err := database.DB.Create(&subject).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Subject code already exists for this school",
		})
	}

	middleware.LogActivity(c, "CREATE", "subjects", subject.ID, subject)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Subject created successfully",
		"subject": subject,
	})
}

// UpdateSubject updates a subject
func (sc *SubjectController) UpdateSubject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var subject models.Subject
	if err := database.DB.First(&subject, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subject not found",
		})
	}

	var updateData struct {
		Name   string `json:"name"`
		Code   string `json:"code"`
		Active *bool  `json:"active"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&subject).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update subject",
		})
	}

	middleware.LogActivity(c, "UPDATE", "subjects", subject.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Subject updated successfully",
		"subject": subject,
	})
}

// DeleteSubject soft-deletes a subject not referenced by live slots
func (sc *SubjectController) DeleteSubject(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var subject models.Subject
	if err := database.DB.First(&subject, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subject not found",
		})
	}

	var slotCount int64
	database.DB.Model(&models.ScheduleSlot{}).
		Joins("JOIN schedules ON schedules.id = schedule_slots.schedule_id AND schedules.deleted_at IS NULL").
		Where("schedule_slots.subject_id = ?", id).
		Count(&slotCount)
	if slotCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot delete a subject assigned to schedule slots",
		})
	}

	if err := database.DB.Delete(&subject).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete subject",
		})
	}

	middleware.LogActivity(c, "DELETE", "subjects", subject.ID, fiber.Map{
		"code": subject.Code,
	})

	return c.JSON(fiber.Map{
		"message": "Subject deleted successfully",
	})
}
