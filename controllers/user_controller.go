package controllers

import (
	"strconv"
	"strings"
	"time"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserController контролер для керування профілями користувачів
type UserController struct {
	db  *gorm.DB
	hub *services.Hub
}

// NewUserController створює новий екземпляр UserController
func NewUserController(db *gorm.DB, hub *services.Hub) *UserController {
	return &UserController{db: db, hub: hub}
}

// UpdateUserRequest структура запиту оновлення профілю адміністратором
type UpdateUserRequest struct {
	DisplayName       *string `json:"display_name"`
	Role              *string `json:"role"`
	AssignedUnitID    *uint   `json:"assigned_unit_id"`
	AssignedSectionID *uint   `json:"assigned_section_id"`
	IsActive          *bool   `json:"is_active"`
}

// ResetPasswordRequest структура запиту скидання пароля адміністратором
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UpdateProfileRequest структура запиту оновлення власного профілю
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// GetUsers повертає список усіх користувачів (лише адміністратор)
func (uc *UserController) GetUsers(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	var users []models.User
	if err := uc.db.Order("created_at asc").Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": "Помилка при отриманні користувачів",
		})
	}

	return c.JSON(fiber.Map{
		"error": false,
		"users": users,
	})
}

// UpdateUser оновлює роль, призначення або ім'я користувача
// (лише адміністратор)
func (uc *UserController) UpdateUser(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID користувача",
		})
	}

	var user models.User
	if err := uc.db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Користувача не знайдено",
		})
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			return c.Status(400).JSON(fiber.Map{
				"error":   true,
				"message": "Невідома роль",
			})
		}
		updates["role"] = *req.Role
	}
	if req.AssignedUnitID != nil {
		updates["assigned_unit_id"] = *req.AssignedUnitID
	}
	if req.AssignedSectionID != nil {
		updates["assigned_section_id"] = *req.AssignedSectionID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Немає даних для оновлення",
		})
	}

	if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionUsers, 0, 0, "updated", user.ID, user)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Профіль оновлено",
		"user":    user,
	})
}

// DeleteUser видаляє профіль користувача (лише адміністратор)
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	admin, err := requireAdmin(c, uc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID користувача",
		})
	}

	if uint(userID) == admin.ID {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Не можна видалити власний акаунт",
		})
	}

	var user models.User
	if err := uc.db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Користувача не знайдено",
		})
	}

	if err := uc.db.Delete(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionUsers, 0, 0, "deleted", user.ID, nil)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Користувача видалено",
	})
}

// ResetPassword видає користувачеві тимчасовий пароль і піднімає
// прапорець обов'язкової зміни (лише адміністратор)
func (uc *UserController) ResetPassword(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID користувача",
		})
	}

	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil || len(req.NewPassword) < 6 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Тимчасовий пароль має містити щонайменше 6 символів",
		})
	}

	var user models.User
	if err := uc.db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Користувача не знайдено",
		})
	}

	updates := map[string]interface{}{
		"temp_password":        req.NewPassword,
		"must_change_password": true,
		"password_set_at":      time.Now(),
	}
	if err := uc.db.Model(&user).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Тимчасовий пароль встановлено",
	})
}

// UpdateProfile оновлює власне відображуване ім'я
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c, uc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	if err := uc.db.Model(user).Update("display_name", strings.TrimSpace(req.DisplayName)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Профіль оновлено",
		"user":    user,
	})
}

// validRole перевіряє значення ролі
func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleUnitStorekeeper, models.RoleSectionStorekeeper, models.RoleUnassigned:
		return true
	}
	return false
}
