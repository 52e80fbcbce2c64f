package controllers

import (
	"strings"

	"classtrack_go/database"
	"classtrack_go/middleware"
	"classtrack_go/models"
	"classtrack_go/utils"

	"github.com/gofiber/fiber/v2"
)

type UserController struct{}

// GetUsers returns users filtered by role, school and status
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	page, limit := paginationParams(c)
	offset := (page - 1) * limit

	var users []models.User
	var total int64

	query := database.DB.Model(&models.User{})

	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if schoolID := c.Query("school_id"); schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}
	status := c.Query("status", "active")
	query = query.Where("status = ?", status)

	query.Count(&total)

	if err := query.Preload("School").Preload("Teacher").Preload("Student").
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	return c.JSON(fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetUser returns a specific user by ID
func (uc *UserController) GetUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.Preload("School").Preload("Teacher").Preload("Student").
		First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(fiber.Map{
		"user": user,
	})
}

// UpdateUser updates an existing user
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var updateData struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Role     string `json:"role"`
		SchoolID uint   `json:"school_id"`
		Status   string `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.Role != "" && !utils.IsValidRole(updateData.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}
	if updateData.Status != "" && !utils.IsValidUserStatus(updateData.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	if err := database.DB.Model(&user).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user",
		})
	}

	database.DB.Preload("School").First(&user, user.ID)

	middleware.LogActivity(c, "UPDATE", "users", user.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    user,
	})
}

// DeleteUser soft-deletes a user
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	if err := database.DB.Delete(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user",
		})
	}

	middleware.LogActivity(c, "DELETE", "users", user.ID, fiber.Map{
		"username": user.Username,
	})

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// PersonResult is one row returned by the person search
type PersonResult struct {
	Kind      string `json:"kind"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Detail    string `json:"detail,omitempty"`
	UserID    *uint  `json:"user_id,omitempty"`
	ClassID   *uint  `json:"class_id,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

// SearchPeople searches users, teachers and students by name fragment
func (uc *UserController) SearchPeople(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q is required",
		})
	}
	if len(q) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q must be at least 2 characters",
		})
	}

	claims, err := middleware.GetCurrentClaims(c)
	if err != nil {
		return respondError(c, err)
	}

	pattern := "%" + q + "%"
	results := make([]PersonResult, 0)

	var users []models.User
	database.DB.
		Where("school_id = ?", claims.SchoolID).
		Where("username LIKE ? OR email LIKE ?", pattern, pattern).
		Limit(20).Find(&users)
	for _, u := range users {
		id := u.ID
		results = append(results, PersonResult{
			Kind:   "user",
			ID:     u.ID,
			Name:   u.Username,
			Detail: u.Role,
			UserID: &id,
		})
	}

	var teachers []models.Teacher
	database.DB.
		Where("school_id = ?", claims.SchoolID).
		Where("first_name LIKE ? OR last_name LIKE ? OR nickname LIKE ?", pattern, pattern, pattern).
		Limit(20).Find(&teachers)
	for _, t := range teachers {
		results = append(results, PersonResult{
			Kind:   "teacher",
			ID:     t.ID,
			Name:   strings.TrimSpace(t.FirstName + " " + t.LastName),
			Detail: t.Department,
			UserID: t.UserID,
		})
	}

	var students []models.Student
	database.DB.Preload("Class").
		Where("school_id = ?", claims.SchoolID).
		Where("first_name LIKE ? OR last_name LIKE ?", pattern, pattern).
		Limit(20).Find(&students)
	for _, s := range students {
		result := PersonResult{
			Kind:    "student",
			ID:      s.ID,
			Name:    strings.TrimSpace(s.FirstName + " " + s.LastName),
			Detail:  s.Status,
			UserID:  s.UserID,
			ClassID: s.ClassID,
		}
		if s.Class != nil {
			result.ClassName = s.Class.Name + " " + s.Class.Section
		}
		results = append(results, result)
	}

	return c.JSON(fiber.Map{
		"results": results,
		"total":   len(results),
	})
}
