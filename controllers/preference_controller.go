package controllers

import (
	"errors"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PreferenceController контролер особистих налаштувань таблиці
type PreferenceController struct {
	db *gorm.DB
}

// NewPreferenceController створює новий екземпляр PreferenceController
func NewPreferenceController(db *gorm.DB) *PreferenceController {
	return &PreferenceController{db: db}
}

// PreferenceRequest структура запиту збереження налаштувань таблиці
type PreferenceRequest struct {
	HiddenColumns map[string]bool `json:"hidden_columns"`
	RowHeight     int             `json:"row_height"`
	SortField     string          `json:"sort_field"`
	SortDir       string          `json:"sort_dir"`
}

// GetPreferences повертає налаштування таблиці користувача; за
// відсутності збереженого стану — задокументовані типові значення
func (pc *PreferenceController) GetPreferences(c *fiber.Ctx) error {
	user, err := currentUser(c, pc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	var pref models.TablePreference
	err = pc.db.Where("user_id = ?", user.ID).First(&pref).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(500).JSON(fiber.Map{
				"error":   true,
				"message": "Помилка при отриманні налаштувань",
			})
		}
		pref = models.TablePreference{UserID: user.ID}
	}
	// Зіпсовані або відсутні значення повертаються до типових
	pref.Normalize()

	return c.JSON(fiber.Map{
		"error":      false,
		"preference": pref,
	})
}

// SavePreferences зберігає налаштування таблиці. Спроба приховати всі
// стовпці відхиляється, а збережений стан лишається незмінним; стовпці
// порядкового номера і найменування приховати неможливо.
func (pc *PreferenceController) SavePreferences(c *fiber.Ctx) error {
	user, err := currentUser(c, pc.db)
	if err != nil {
		return errorJSON(c, err)
	}

	var req PreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат даних",
		})
	}

	config, err := services.LoadFieldConfig(pc.db)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	hidden := req.HiddenColumns
	if hidden == nil {
		hidden = map[string]bool{}
	}

	// Має залишитися хоча б один видимий стовпець, не рахуючи стовпця дій
	visible := 0
	for _, f := range services.EnabledFields(config.Fields) {
		if !hidden[f.ID] {
			visible++
		}
	}
	if visible == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error":   true,
			"message": "Не можна приховати всі стовпці. Повинен залишитися хоча б один видимий стовпець.",
		})
	}

	// Захищені стовпці непомітно прибираються з мапи приховування
	delete(hidden, models.FieldAutoNumber)
	delete(hidden, models.FieldName)

	pref := models.TablePreference{
		UserID:        user.ID,
		HiddenColumns: hidden,
		RowHeight:     req.RowHeight,
		SortField:     req.SortField,
		SortDir:       req.SortDir,
	}
	// Порядковий номер і стовпець дій не сортуються
	if pref.SortField == models.FieldAutoNumber || pref.SortField == "actions" {
		pref.SortField = ""
		pref.SortDir = ""
	}
	pref.Normalize()

	var existing models.TablePreference
	err = pc.db.Where("user_id = ?", user.ID).First(&existing).Error
	if err == nil {
		pref.ID = existing.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	if err := pc.db.Save(&pref).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"error":      false,
		"message":    "Налаштування збережено",
		"preference": pref,
	})
}
