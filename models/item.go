package models

import (
	"time"

	"gorm.io/gorm"
)

// Item представляє матеріальний засіб, що обліковується в підрозділі
// або відділі. Фіксована частина запису — ідентифікатор, найменування
// та прив'язка до підрозділу/відділу; решта атрибутів лежить у відкритій
// мапі Attributes, ключі якої визначає конфігурація полів.
type Item struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:255;index"`
	// Прив'язка: або безпосередньо до підрозділу (SectionID = 0),
	// або до відділу всередині підрозділу
	UnitID    uint `json:"unit_id" gorm:"not null;index"`
	SectionID uint `json:"section_id" gorm:"default:0;index"`
	// Базові облікові поля
	CurrentBalance float64 `json:"current_balance" gorm:"default:0"`
	UnitOfMeasure  string  `json:"unit_of_measure" gorm:"default:''"`
	// Динамічні атрибути, ключовані ідентифікаторами полів конфігурації
	Attributes map[string]interface{} `json:"attributes" gorm:"serializer:json"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// Value повертає значення поля за його ідентифікатором: базові поля
// читаються зі структури, решта — з мапи атрибутів.
func (i *Item) Value(fieldID string) interface{} {
	switch fieldID {
	case FieldName:
		return i.Name
	case FieldCurrentBalance:
		return i.CurrentBalance
	case FieldUnitOfMeasure:
		return i.UnitOfMeasure
	}
	if i.Attributes == nil {
		return nil
	}
	return i.Attributes[fieldID]
}

// BeforeCreate хук для встановлення часу створення
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для оновлення часу зміни
func (i *Item) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return nil
}
