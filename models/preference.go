package models

import (
	"time"

	"gorm.io/gorm"
)

// Типова висота рядка таблиці
const DefaultRowHeight = 52

// TablePreference зберігає налаштування таблиці окремого користувача:
// приховані стовпці, висоту рядка і специфікацію сортування. Кожне
// значення має задокументований типовий стан, до якого повертаємось
// при відсутніх або зіпсованих даних.
type TablePreference struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	HiddenColumns map[string]bool `json:"hidden_columns" gorm:"serializer:json"`
	RowHeight     int             `json:"row_height" gorm:"default:52"`
	SortField     string          `json:"sort_field" gorm:"default:''"`
	SortDir       string          `json:"sort_dir" gorm:"default:''"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Normalize повертає налаштування до типових значень там, де збережений
// стан відсутній або не має сенсу.
func (p *TablePreference) Normalize() {
	if p.HiddenColumns == nil {
		p.HiddenColumns = map[string]bool{}
	}
	if p.RowHeight <= 0 {
		p.RowHeight = DefaultRowHeight
	}
	if p.SortDir != "asc" && p.SortDir != "desc" {
		p.SortField = ""
		p.SortDir = ""
	}
	if p.SortField == "" {
		p.SortDir = ""
	}
}

// BeforeSave хук для оновлення часу зміни
func (p *TablePreference) BeforeSave(tx *gorm.DB) error {
	p.UpdatedAt = time.Now()
	return nil
}
