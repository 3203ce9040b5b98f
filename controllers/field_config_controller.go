package controllers

import (
	"errors"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FieldConfigController контролер спільної конфігурації полів
type FieldConfigController struct {
	db  *gorm.DB
	hub *services.Hub
}

// NewFieldConfigController створює новий екземпляр FieldConfigController
func NewFieldConfigController(db *gorm.DB, hub *services.Hub) *FieldConfigController {
	return &FieldConfigController{db: db, hub: hub}
}

// SaveFieldsRequest структура запиту повної заміни набору полів
type SaveFieldsRequest struct {
	Fields []models.FieldDefinition `json:"fields" validate:"required"`
}

// MoveFieldRequest структура запиту переміщення поля
type MoveFieldRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// GetFields повертає конфігурацію полів. Для неадміністраторів
// базові поля комірника примусово увімкнені, щоб випадково прихована
// конфігурація не зробила таблицю непридатною.
func (fc *FieldConfigController) GetFields(c *fiber.Ctx) error {
	user, err := currentUser(c, fc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	config, err := services.LoadFieldConfig(fc.db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	fields := services.EnsureEssentialFields(services.SortedFields(config.Fields), user.IsAdmin())

	return c.JSON(fiber.Map{
		"error":        false,
		"fields":       fields,
		"last_updated": config.LastUpdated,
		"updated_by":   config.UpdatedBy,
	})
}

// SaveFields зберігає повний набір полів (лише адміністратор)
func (fc *FieldConfigController) SaveFields(c *fiber.Ctx) error {
	admin, err := requireAdmin(c, fc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	var req SaveFieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	if err := services.SaveFieldConfig(fc.db, req.Fields, admin.Email); err != nil {
		status := 500
		if errors.Is(err, services.ErrInvalidFieldSet) {
			status = 400
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	fc.hub.NotifyChange(services.CollectionFieldConfig, 0, 0, "updated", 1, req.Fields)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Конфігурацію полів збережено",
	})
}

// ResetFields повертає конфігурацію до базових налаштувань
// (лише адміністратор)
func (fc *FieldConfigController) ResetFields(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, fc.db); err != nil {
		return errorJSON(c, err)
	}

	defaults := models.DefaultFields()
	if err := services.SaveFieldConfig(fc.db, defaults, "admin_reset"); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	fc.hub.NotifyChange(services.CollectionFieldConfig, 0, 0, "updated", 1, defaults)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Конфігурацію полів скинуто",
		"fields":  defaults,
	})
}

// MoveField переміщує поле на одну позицію вгору або вниз
// (лише адміністратор)
func (fc *FieldConfigController) MoveField(c *fiber.Ctx) error {
	admin, err := requireAdmin(c, fc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	var req MoveFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	config, err := services.LoadFieldConfig(fc.db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	moved, err := services.MoveField(config.Fields, c.Params("fieldId"), req.Direction)
	if err != nil {
		status := 400
		if errors.Is(err, services.ErrFieldNotFound) {
			status = 404
		}
		return c.Status(status).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	if err := services.SaveFieldConfig(fc.db, moved, admin.Email); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	fc.hub.NotifyChange(services.CollectionFieldConfig, 0, 0, "updated", 1, moved)

	return c.JSON(fiber.Map{
		"error":  false,
		"fields": moved,
	})
}

// DeleteField видаляє поле з конфігурації (лише адміністратор).
// Якщо записи містять дані поля, без підтвердження повертається 409
// з кількістю задіяних записів; з confirm=true значення обнуляються
// та визначення видаляється в одній транзакції.
func (fc *FieldConfigController) DeleteField(c *fiber.Ctx) error {
	admin, err := requireAdmin(c, fc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	fieldID := c.Params("fieldId")
	confirmed := c.Query("confirm") == "true"

	affected, err := services.DeleteField(fc.db, fieldID, admin.Email, confirmed)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNeedConfirm):
			return c.Status(409).JSON(fiber.Map{
				"error":            true,
				"message":          "Поле використовується в записах, потрібне підтвердження",
				"affected_items":   affected,
				"confirm_required": true,
			})
		case errors.Is(err, services.ErrFieldNotFound):
			return c.Status(404).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		case errors.Is(err, services.ErrFieldProtected):
			return c.Status(400).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		}
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	fc.hub.NotifyChange(services.CollectionFieldConfig, 0, 0, "updated", 1, nil)

	return c.JSON(fiber.Map{
		"error":          false,
		"message":        "Поле видалено",
		"affected_items": affected,
	})
}
