package models

import (
	"time"

	"gorm.io/gorm"
)

// Unit представляє підрозділ — організаційну одиницю верхнього рівня
type Unit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section представляє відділ, вкладений рівно в один підрозділ.
// Видалення підрозділу не каскадується на відділи: осиротілі записи
// залишаються в базі і доступні адміністратору.
type Section struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UnitID    uint      `json:"unit_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Зв'язки
	Unit *Unit `json:"unit,omitempty" gorm:"foreignKey:UnitID"`
}

// BeforeCreate хук для встановлення часу створення
func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для оновлення часу зміни
func (u *Unit) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeCreate хук для встановлення часу створення
func (s *Section) BeforeCreate(tx *gorm.DB) error {
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для оновлення часу зміни
func (s *Section) BeforeUpdate(tx *gorm.DB) error {
	s.UpdatedAt = time.Now()
	return nil
}
