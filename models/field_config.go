package models

import (
	"time"

	"gorm.io/gorm"
)

// Типи полів конфігурації
const (
	FieldTypeAuto     = "auto"
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeDate     = "date"
	FieldTypeSelect   = "select"
	FieldTypeTextarea = "textarea"
	FieldTypeBoolean  = "boolean"
)

// Ідентифікатори вбудованих полів
const (
	FieldAutoNumber     = "autoNumber"
	FieldName           = "name"
	FieldCurrentBalance = "currentBalance"
	FieldUnitOfMeasure  = "unitOfMeasure"
)

// FieldDefinition описує одне налаштовуване поле запису: тип,
// видимість у таблиці, обов'язковість у формі та порядок відображення.
type FieldDefinition struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Enabled  bool     `json:"enabled"`
	Required bool     `json:"required"`
	Editable bool     `json:"editable"`
	Options  []string `json:"options,omitempty"`
	Width    int      `json:"width"`
	Order    int      `json:"order"`
	Custom   bool     `json:"custom,omitempty"`
}

// FieldConfig — єдиний спільний документ конфігурації полів.
// Зберігається один рядок (ID = 1), який повністю замінюється
// при кожному збереженні; останній запис перемагає.
type FieldConfig struct {
	ID          uint              `json:"id" gorm:"primaryKey"`
	Fields      []FieldDefinition `json:"fields" gorm:"serializer:json"`
	LastUpdated time.Time         `json:"last_updated"`
	UpdatedBy   string            `json:"updated_by" gorm:"default:''"`
}

// Типові одиниці виміру для поля unitOfMeasure
var CommonUnits = []string{"шт", "кг", "л", "упак", "компл"}

// DefaultFields повертає базовий набір полів, яким засівається
// конфігурація при першому запуску.
func DefaultFields() []FieldDefinition {
	return []FieldDefinition{
		{ID: FieldAutoNumber, Name: "Порядковий №", Type: FieldTypeAuto, Enabled: true, Required: true, Editable: false, Width: 120, Order: 0},
		{ID: FieldName, Name: "Найменування", Type: FieldTypeText, Enabled: true, Required: true, Editable: true, Width: 200, Order: 1},
		{ID: FieldCurrentBalance, Name: "Кількість", Type: FieldTypeNumber, Enabled: true, Required: false, Editable: true, Width: 120, Order: 2},
		{ID: FieldUnitOfMeasure, Name: "Од. виміру", Type: FieldTypeSelect, Enabled: true, Required: true, Editable: true, Options: append([]string{}, CommonUnits...), Width: 100, Order: 3},

		// Додаткові поля, які адміністратор може увімкнути
		{ID: "factoryNumber", Name: "Заводський номер", Type: FieldTypeText, Enabled: false, Required: false, Editable: true, Width: 150, Order: 4},
		{ID: "invNumber", Name: "Інвентарний номер", Type: FieldTypeText, Enabled: false, Required: false, Editable: true, Width: 150, Order: 5},
		{ID: "description", Name: "Додаткова інформація", Type: FieldTypeTextarea, Enabled: false, Required: false, Editable: true, Width: 200, Order: 6},
	}
}

// IsBuiltIn перевіряє, чи належить ідентифікатор до базових полів,
// що зберігаються в колонках таблиці записів.
func IsBuiltIn(fieldID string) bool {
	switch fieldID {
	case FieldAutoNumber, FieldName, FieldCurrentBalance, FieldUnitOfMeasure:
		return true
	}
	return false
}

// BeforeSave хук для оновлення позначки часу конфігурації
func (fc *FieldConfig) BeforeSave(tx *gorm.DB) error {
	fc.LastUpdated = time.Now()
	return nil
}
