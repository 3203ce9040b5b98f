package controllers

import (
	"strconv"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ItemController контролер для обліку матеріальних засобів
type ItemController struct {
	db  *gorm.DB
	hub *services.Hub
}

// NewItemController створює новий екземпляр ItemController
func NewItemController(db *gorm.DB, hub *services.Hub) *ItemController {
	return &ItemController{db: db, hub: hub}
}

// ItemRequest структура запиту створення або повного редагування запису
type ItemRequest struct {
	Name           string                 `json:"name" validate:"required"`
	UnitID         uint                   `json:"unit_id" validate:"required"`
	SectionID      uint                   `json:"section_id"`
	CurrentBalance *float64               `json:"current_balance"`
	UnitOfMeasure  string                 `json:"unit_of_measure"`
	Attributes     map[string]interface{} `json:"attributes"`
}

// CellEditRequest структура запиту редагування однієї комірки
type CellEditRequest struct {
	FieldID string      `json:"field_id" validate:"required"`
	Value   interface{} `json:"value"`
}

// GetItems повертає записи в межах області доступу з необов'язковим
// звуженням за підрозділом/відділом. Звуження поза областю доступу
// дає порожній список, як і в початковій поведінці підписок.
func (ic *ItemController) GetItems(c *fiber.Ctx) error {
	user, err := currentUser(c, ic.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	unitID, _ := strconv.ParseUint(c.Query("unit_id"), 10, 32)
	sectionID, _ := strconv.ParseUint(c.Query("section_id"), 10, 32)

	if scope.Kind == services.ScopeUnit && unitID != 0 && uint(unitID) != scope.UnitID {
		return c.JSON(fiber.Map{"error": false, "items": []models.Item{}})
	}
	if scope.Kind == services.ScopeSection && sectionID != 0 && uint(sectionID) != scope.SectionID {
		return c.JSON(fiber.Map{"error": false, "items": []models.Item{}})
	}

	q := services.ScopeItems(ic.db, scope)
	if unitID != 0 {
		q = q.Where("unit_id = ?", unitID)
	}
	if sectionID != 0 {
		q = q.Where("section_id = ?", sectionID)
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": "Помилка при отриманні записів",
		})
	}

	return c.JSON(fiber.Map{
		"error": false,
		"items": items,
	})
}

// GetItem повертає один запис, якщо його покриває область доступу
func (ic *ItemController) GetItem(c *fiber.Ctx) error {
	user, err := currentUser(c, ic.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID запису",
		})
	}

	var item models.Item
	if err := ic.db.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Запис не знайдено",
		})
	}

	if !services.CoversEntity(scope, item.UnitID, item.SectionID) {
		return c.Status(403).JSON(fiber.Map{
			"error":   true,
			"message": "Немає доступу до цього запису",
		})
	}

	return c.JSON(fiber.Map{
		"error": false,
		"item":  item,
	})
}

// CreateItem створює запис. Право на запис перевіряється до звернення
// до бази: актор має покривати цільовий підрозділ/відділ.
func (ic *ItemController) CreateItem(c *fiber.Ctx) error {
	user, err := currentUser(c, ic.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	if req.UnitID == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Запис має належати підрозділу",
		})
	}

	if !services.CanMutate(scope, req.UnitID, req.SectionID) {
		return c.Status(403).JSON(fiber.Map{
			"error":   true,
			"message": "Немає права створювати записи в цьому підрозділі чи відділі",
		})
	}

	// Відділ має належати вказаному підрозділу
	if req.SectionID != 0 {
		var section models.Section
		if err := ic.db.First(&section, req.SectionID).Error; err != nil || section.UnitID != req.UnitID {
			return c.Status(400).JSON(fiber.Map{
				"error":   true,
				"message": "Відділ не належить вказаному підрозділу",
			})
		}
	}

	config, err := services.LoadFieldConfig(ic.db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	item := models.Item{
		Name:          req.Name,
		UnitID:        req.UnitID,
		SectionID:     req.SectionID,
		UnitOfMeasure: req.UnitOfMeasure,
		Attributes:    req.Attributes,
	}
	// Кількість за замовчуванням нульова
	if req.CurrentBalance != nil {
		item.CurrentBalance = *req.CurrentBalance
	}

	if err := services.ValidateItem(config.Fields, &item); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	if err := ic.db.Create(&item).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	ic.hub.NotifyChange(services.CollectionItems, item.UnitID, item.SectionID, "created", item.ID, item)

	return c.Status(201).JSON(fiber.Map{
		"error": false,
		"item":  item,
	})
}

// UpdateItem повністю редагує запис через структуровану форму
func (ic *ItemController) UpdateItem(c *fiber.Ctx) error {
	user, err := currentUser(c, ic.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID запису",
		})
	}

	var item models.Item
	if err := ic.db.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Запис не знайдено",
		})
	}

	if !services.CanMutate(scope, item.UnitID, item.SectionID) {
		return c.Status(403).JSON(fiber.Map{
			"error":   true,
			"message": "Немає права редагувати цей запис",
		})
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	// Переміщення запису теж вимагає права на цільове розташування
	if req.UnitID != 0 && (req.UnitID != item.UnitID || req.SectionID != item.SectionID) {
		if !services.CanMutate(scope, req.UnitID, req.SectionID) {
			return c.Status(403).JSON(fiber.Map{
				"error":   true,
				"message": "Немає права переміщувати запис у цей підрозділ чи відділ",
			})
		}
		item.UnitID = req.UnitID
		item.SectionID = req.SectionID
	}

	item.Name = req.Name
	item.UnitOfMeasure = req.UnitOfMeasure
	if req.CurrentBalance != nil {
		item.CurrentBalance = *req.CurrentBalance
	}
	if req.Attributes != nil {
		item.Attributes = req.Attributes
	}

	config, err := services.LoadFieldConfig(ic.db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	if err := services.ValidateItem(config.Fields, &item); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	// Останній запис перемагає; виявлення конфліктів немає
	if err := ic.db.Save(&item).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	ic.hub.NotifyChange(services.CollectionItems, item.UnitID, item.SectionID, "updated", item.ID, item)

	return c.JSON(fiber.Map{
		"error": false,
		"item":  item,
	})
}

// EditCell редагує одне поле запису (редагування на місці). Змінюється
// лише вказане поле; у разі помилки збереження клієнт отримує текст
// помилки і попередній стан запису для відкату.
func (ic *ItemController) EditCell(c *fiber.Ctx) error {
	user, err := currentUser(c, ic.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID запису",
		})
	}

	var item models.Item
	if err := ic.db.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Запис не знайдено",
		})
	}

	if !services.CanMutate(scope, item.UnitID, item.SectionID) {
		return c.Status(403).JSON(fiber.Map{
			"error":   true,
			"message": "Немає права редагувати цей запис",
		})
	}

	var req CellEditRequest
	if err := c.BodyParser(&req); err != nil || req.FieldID == "" {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	config, err := services.LoadFieldConfig(ic.db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	// Знімок до редагування — повертається клієнту при відмові збереження
	snapshot := item

	if err := services.SetItemValue(config.Fields, &item, req.FieldID, req.Value); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"item":    snapshot,
		})
	}

	if err := ic.saveField(&item, req.FieldID); err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"item":    snapshot,
		})
	}

	ic.hub.NotifyChange(services.CollectionItems, item.UnitID, item.SectionID, "updated", item.ID, item)

	return c.JSON(fiber.Map{
		"error": false,
		"item":  item,
	})
}

// saveField зберігає лише змінене поле запису
func (ic *ItemController) saveField(item *models.Item, fieldID string) error {
	q := ic.db.Model(&models.Item{}).Where("id = ?", item.ID)
	switch fieldID {
	case models.FieldName:
		return q.Update("name", item.Name).Error
	case models.FieldCurrentBalance:
		return q.Update("current_balance", item.CurrentBalance).Error
	case models.FieldUnitOfMeasure:
		return q.Update("unit_of_measure", item.UnitOfMeasure).Error
	}
	return q.Update("attributes", item.Attributes).Error
}

// DeleteItem видаляє запис без м'якого видалення і без відкату
func (ic *ItemController) DeleteItem(c *fiber.Ctx) error {
	user, err := currentUser(c, ic.db)
	if err != nil {
		return errorJSON(c, err)
	}
	scope := services.UserScope(user)

	itemID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний ID запису",
		})
	}

	var item models.Item
	if err := ic.db.First(&item, itemID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{
			"error":   true,
			"message": "Запис не знайдено",
		})
	}

	if !services.CanMutate(scope, item.UnitID, item.SectionID) {
		return c.Status(403).JSON(fiber.Map{
			"error":   true,
			"message": "Немає права видаляти цей запис",
		})
	}

	if err := ic.db.Delete(&item).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	ic.hub.NotifyChange(services.CollectionItems, item.UnitID, item.SectionID, "deleted", item.ID, nil)

	return c.JSON(fiber.Map{
		"error":   false,
		"message": "Запис видалено",
	})
}
