package controllers

import (
	"strconv"
	"strings"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UnitController контролер для керування підрозділами та відділами
type UnitController struct {
	db  *gorm.DB
	hub *services.Hub
}

// NewUnitController створює новий екземпляр UnitController
func NewUnitController(db *gorm.DB, hub *services.Hub) *UnitController {
	return &UnitController{db: db, hub: hub}
}

// NameRequest структура запиту з єдиним полем назви
type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateSectionRequest структура запиту створення відділу
type CreateSectionRequest struct {
	UnitID uint   `json:"unit_id" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

// GetUnits повертає підрозділи в межах області доступу користувача
func (uc *UnitController) GetUnits(c *fiber.Ctx) error {
	user, err := currentUser(c, uc.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	var units []models.Unit
	if err := services.ScopeUnits(uc.db, scope).Find(&units).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": "Помилка при отриманні підрозділів",
		})
	}

	return c.JSON(fiber.Map{
		"error": false,
		"scope": scope,
		"units": units,
	})
}

// CreateUnit створює підрозділ (лише адміністратор)
func (uc *UnitController) CreateUnit(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	var req NameRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Назва підрозділу обов'язкова",
		})
	}

	unit := models.Unit{Name: strings.TrimSpace(req.Name)}
	if err := uc.db.Create(&unit).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionUnits, unit.ID, 0, "created", unit.ID, unit)

	return c.Status(201).JSON(fiber.Map{
		"error": false,
		"unit":  unit,
	})
}

// UpdateUnit перейменовує підрозділ (лише адміністратор)
func (uc *UnitController) UpdateUnit(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	unitID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID підрозділу",
		})
	}

	var unit models.Unit
	if err := uc.db.First(&unit, unitID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Підрозділ не знайдено",
		})
	}

	var req NameRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Назва підрозділу обов'язкова",
		})
	}

	if err := uc.db.Model(&unit).Update("name", strings.TrimSpace(req.Name)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionUnits, unit.ID, 0, "updated", unit.ID, unit)

	return c.JSON(fiber.Map{
		"error": false,
		"unit":  unit,
	})
}

// DeleteUnit видаляє підрозділ (лише адміністратор). Каскадного
// видалення немає: відділи та записи підрозділу залишаються в базі.
func (uc *UnitController) DeleteUnit(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	unitID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID підрозділу",
		})
	}

	var unit models.Unit
	if err := uc.db.First(&unit, unitID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Підрозділ не знайдено",
		})
	}

	if err := uc.db.Delete(&unit).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionUnits, unit.ID, 0, "deleted", unit.ID, nil)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Підрозділ видалено",
	})
}

// GetSections повертає відділи в межах області доступу, з
// необов'язковим звуженням за підрозділом
func (uc *UnitController) GetSections(c *fiber.Ctx) error {
	user, err := currentUser(c, uc.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	q := services.ScopeSections(uc.db, scope)
	if unitID, err := strconv.ParseUint(c.Query("unit_id"), 10, 32); err == nil && unitID > 0 {
		q = q.Where("unit_id = ?", unitID)
	}

	var sections []models.Section
	if err := q.Find(&sections).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": "Помилка при отриманні відділів",
		})
	}

	return c.JSON(fiber.Map{
		"error":    false,
		"sections": sections,
	})
}

// CreateSection створює відділ у підрозділі (лише адміністратор)
func (uc *UnitController) CreateSection(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	var req CreateSectionRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" || req.UnitID == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Потрібні підрозділ та назва відділу",
		})
	}

	// Відділ завжди посилається на існуючий підрозділ
	var unit models.Unit
	if err := uc.db.First(&unit, req.UnitID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Підрозділ не знайдено",
		})
	}

	section := models.Section{UnitID: req.UnitID, Name: strings.TrimSpace(req.Name)}
	if err := uc.db.Create(&section).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionSections, section.UnitID, section.ID, "created", section.ID, section)

	return c.Status(201).JSON(fiber.Map{
		"error":   false,
		"section": section,
	})
}

// UpdateSection перейменовує відділ (лише адміністратор)
func (uc *UnitController) UpdateSection(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	sectionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID відділу",
		})
	}

	var section models.Section
	if err := uc.db.First(&section, sectionID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Відділ не знайдено",
		})
	}

	var req NameRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Назва відділу обов'язкова",
		})
	}

	if err := uc.db.Model(&section).Update("name", strings.TrimSpace(req.Name)).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionSections, section.UnitID, section.ID, "updated", section.ID, section)

	return c.JSON(fiber.Map{
		"error":   false,
		"section": section,
	})
}

// DeleteSection видаляє відділ (лише адміністратор); записи відділу
// не видаляються
func (uc *UnitController) DeleteSection(c *fiber.Ctx) error {
	if _, err := requireAdmin(c, uc.db); err != nil {
		return errorJSON(c, err)
	}

	sectionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID відділу",
		})
	}

	var section models.Section
	if err := uc.db.First(&section, sectionID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Відділ не знайдено",
		})
	}

	if err := uc.db.Delete(&section).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	uc.hub.NotifyChange(services.CollectionSections, section.UnitID, section.ID, "deleted", section.ID, nil)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Відділ видалено",
	})
}
