package models

import (
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Ролі користувачів у системі обліку
const (
	RoleAdmin              = "admin"
	RoleUnitStorekeeper    = "unitStorekeeper"
	RoleSectionStorekeeper = "sectionStorekeeper"
	// Порожня роль означає, що адміністратор ще не призначив доступ
	RoleUnassigned = ""
)

// User представляє профіль користувача в системі
type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" gorm:"not null"` // Хеш пароля не віддаємо в JSON
	DisplayName  string `json:"display_name" gorm:"default:''"`
	// Роль та призначення, якими керує адміністратор
	Role              string `json:"role" gorm:"default:''"`
	AssignedUnitID    uint   `json:"assigned_unit_id" gorm:"default:0"`
	AssignedSectionID uint   `json:"assigned_section_id" gorm:"default:0"`
	// OAuth-провайдер для федеративного входу
	OAuthProvider string `json:"oauth_provider" gorm:"column:oauth_provider;default:''"`
	OAuthID       string `json:"oauth_id" gorm:"column:oauth_id;default:''"`
	// Тимчасовий пароль, виданий адміністратором
	TempPassword       string    `json:"-" gorm:"default:''"`
	MustChangePassword bool      `json:"must_change_password" gorm:"default:false"`
	PasswordSetAt      time.Time `json:"password_set_at"`
	IsActive           bool      `json:"is_active" gorm:"default:true"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// IsAdmin перевіряє, чи є користувач адміністратором
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// InitDB ініціалізує підключення до бази даних
func InitDB() (*gorm.DB, error) {
	// Перевіряємо змінну оточення для вибору бази даних
	databaseURL := os.Getenv("DATABASE_URL")

	if databaseURL != "" {
		// Використовуємо PostgreSQL для продакшену
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// Використовуємо SQLite для розробки
	db, err := gorm.Open(sqlite.Open("sklad.db"), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// BeforeCreate хук для встановлення часу створення
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

// BeforeUpdate хук для оновлення часу зміни
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
