package controllers

import (
	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type ClassController struct{}

// CreateClassRequest is the class creation body
type CreateClassRequest struct {
	SchoolID          uint   `json:"school_id" validate:"required"`
	Name              string `json:"name" validate:"required,max=100"`
	GradeLevel        string `json:"grade_level" validate:"required,max=50"`
	Section           string `json:"section" validate:"required,max=50"`
	AcademicYear      string `json:"academic_year" validate:"required,max=20"`
	Capacity          int    `json:"capacity"`
	HomeroomTeacherID *uint  `json:"homeroom_teacher_id"`
}

// GetClasses returns classes with pagination and filters
func (cc *ClassController) GetClasses(c *fiber.Ctx) error {
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	var classes []models.Class
	var total int64

	query := database.DB.Model(&models.Class{})

	if schoolID := c.Query("school_id"); schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}
	if gradeLevel := c.Query("grade_level"); gradeLevel != "" {
		query = query.Where("grade_level = ?", gradeLevel)
	}
	if academicYear := c.Query("academic_year"); academicYear != "" {
		query = query.Where("academic_year = ?", academicYear)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	query.Count(&total)

	if err := query.Preload("HomeroomTeacher").
		Order("grade_level, name, section").
		Offset(offset).Limit(limit).Find(&classes).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch classes",
		})
	}

	return c.JSON(fiber.Map{
		"classes": classes,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetClass returns a class with its homeroom teacher and timeslots
func (cc *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.Preload("HomeroomTeacher").Preload("Timeslots").
		First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	return c.JSON(fiber.Map{
		"class": class,
	})
}

// GetClassRoster returns the students enrolled in a class
func (cc *ClassController) GetClassRoster(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var students []models.Student
	if err := database.DB.
		Where("class_id = ? AND status = ?", id, "enrolled").
		Order("last_name, first_name").
		Find(&students).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch roster",
		})
	}

	return c.JSON(fiber.Map{
		"class":    class,
		"students": students,
		"total":    len(students),
	})
}

// CreateClass creates a class
func (cc *ClassController) CreateClass(c *fiber.Ctx) error {
	var req CreateClassRequest
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

	class := models.Class{
		SchoolID:          req.SchoolID,
		Name:              req.Name,
		GradeLevel:        req.GradeLevel,
		Section:           req.Section,
		AcademicYear:      req.AcademicYear,
		Capacity:          req.Capacity,
		HomeroomTeacherID: req.HomeroomTeacherID,
		Status:            "active",
	}
	if class.Capacity <= 0 {
		class.Capacity = 40
	}

	if err := database.DB.Create(&class).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Class with the same name, section and academic year already exists",
		})
	}

	middleware.LogActivity(c, "CREATE", "classes", class.ID, class)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class created successfully",
		"class":   class,
	})
}

// UpdateClass updates class metadata
func (cc *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var updateData struct {
		Name              string `json:"name"`
		GradeLevel        string `json:"grade_level"`
		Section           string `json:"section"`
		AcademicYear      string `json:"academic_year"`
		Capacity          int    `json:"capacity"`
		HomeroomTeacherID *uint  `json:"homeroom_teacher_id"`
		Status            string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := database.DB.Model(&class).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update class",
		})
	}

	middleware.LogActivity(c, "UPDATE", "classes", class.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "Class updated successfully",
		"class":   class,
	})
}

// DeleteClass soft-deletes a class
func (cc *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var class models.Class
	if err := database.DB.First(&class, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Class not found",
		})
	}

	var scheduleCount int64
	database.DB.Model(&models.Schedule{}).
		Where("class_id = ? AND status = ?", id, "active").
		Count(&scheduleCount)
	if scheduleCount > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot delete a class with an active schedule",
		})
	}

	if err := database.DB.Delete(&class).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete class",
		})
	}

	middleware.LogActivity(c, "DELETE", "classes", class.ID, fiber.Map{
		"name": class.Name,
	})

	return c.JSON(fiber.Map{
		"message": "Class deleted successfully",
	})
}
