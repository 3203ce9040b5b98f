package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"sklad-backend/models"

	"gorm.io/gorm"
)

// Помилки конфігурації полів
var (
	ErrFieldNotFound   = errors.New("поле не знайдено")
	ErrFieldProtected  = errors.New("базове поле не можна видалити")
	ErrFieldPinned     = errors.New("поле не можна перемістити")
	ErrNeedConfirm     = errors.New("видалення поля потребує підтвердження")
	ErrInvalidFieldSet = errors.New("невірна конфігурація полів")
)

// LoadFieldConfig завантажує спільну конфігурацію полів; за відсутності
// збереженого документа засіває його базовим набором.
func LoadFieldConfig(db *gorm.DB) (*models.FieldConfig, error) {
	var config models.FieldConfig
	err := db.First(&config, 1).Error
	if err == nil {
		return &config, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Перше звернення — створюємо документ з базовими налаштуваннями
	config = models.FieldConfig{
		ID:        1,
		Fields:    models.DefaultFields(),
		UpdatedBy: "system",
	}
	if err := db.Create(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// SortedFields повертає копію набору полів, відсортовану за порядком
// відображення.
func SortedFields(fields []models.FieldDefinition) []models.FieldDefinition {
	sorted := append([]models.FieldDefinition{}, fields...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// EnabledFields повертає увімкнені поля у порядку відображення
func EnabledFields(fields []models.FieldDefinition) []models.FieldDefinition {
	enabled := []models.FieldDefinition{}
	for _, f := range SortedFields(fields) {
		if f.Enabled {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

// EnsureEssentialFields для неадміністраторів примусово вмикає поля,
// без яких комірник не може працювати: найменування, кількість та
// одиницю виміру. Адміністратор бачить конфігурацію без змін.
func EnsureEssentialFields(fields []models.FieldDefinition, isAdmin bool) []models.FieldDefinition {
	if isAdmin {
		return fields
	}
	ensured := append([]models.FieldDefinition{}, fields...)
	for i := range ensured {
		switch ensured[i].ID {
		case models.FieldName, models.FieldCurrentBalance, models.FieldUnitOfMeasure:
			ensured[i].Enabled = true
		}
	}
	return ensured
}

// ValidateFieldSet перевіряє повний набір полів перед збереженням:
// унікальні ідентифікатори, присутні та увімкнені захищені поля,
// порядковий номер завжди логічно перший.
func ValidateFieldSet(fields []models.FieldDefinition) error {
	if len(fields) == 0 {
		return fmt.Errorf("%w: набір полів порожній", ErrInvalidFieldSet)
	}

	seen := map[string]bool{}
	enabledCount := 0
	for _, f := range fields {
		if f.ID == "" {
			return fmt.Errorf("%w: поле без ідентифікатора", ErrInvalidFieldSet)
		}
		if seen[f.ID] {
			return fmt.Errorf("%w: дубльований ідентифікатор %q", ErrInvalidFieldSet, f.ID)
		}
		seen[f.ID] = true
		if f.Enabled {
			enabledCount++
		}
	}
	if enabledCount == 0 {
		return fmt.Errorf("%w: має залишитися хоча б одне видиме поле", ErrInvalidFieldSet)
	}

	sorted := SortedFields(fields)
	if !seen[models.FieldAutoNumber] || !seen[models.FieldName] {
		return fmt.Errorf("%w: відсутнє захищене поле", ErrInvalidFieldSet)
	}
	for _, f := range fields {
		if (f.ID == models.FieldAutoNumber || f.ID == models.FieldName) && !f.Enabled {
			return fmt.Errorf("%w: поле %q не можна вимкнути", ErrInvalidFieldSet, f.ID)
		}
	}
	// Порядковий номер завжди логічно перший
	if sorted[0].ID != models.FieldAutoNumber {
		return fmt.Errorf("%w: поле %q має бути першим", ErrInvalidFieldSet, models.FieldAutoNumber)
	}
	if len(sorted) > 1 && sorted[1].ID != models.FieldName {
		return fmt.Errorf("%w: поле %q не можна перемістити нижче інших", ErrInvalidFieldSet, models.FieldName)
	}

	return nil
}

// SaveFieldConfig зберігає повний набір полів як єдиний документ.
// Перевірку ролі виконує контролер; тут лише валідація та запис.
func SaveFieldConfig(db *gorm.DB, fields []models.FieldDefinition, updatedBy string) error {
	if err := ValidateFieldSet(fields); err != nil {
		return err
	}

	config, err := LoadFieldConfig(db)
	if err != nil {
		return err
	}
	config.Fields = fields
	config.UpdatedBy = updatedBy
	return db.Save(config).Error
}

// MoveField переміщує поле на одну позицію вгору або вниз. Порядковий
// номер виключено з послідовності переміщення, а найменування закріплено
// першим серед рухомих полів — вище нього нічого стати не може.
func MoveField(fields []models.FieldDefinition, fieldID, direction string) ([]models.FieldDefinition, error) {
	if fieldID == models.FieldAutoNumber || fieldID == models.FieldName {
		return nil, ErrFieldPinned
	}

	sorted := SortedFields(fields)

	// Рухома послідовність — всі поля, крім порядкового номера
	movable := []models.FieldDefinition{}
	for _, f := range sorted {
		if f.ID != models.FieldAutoNumber {
			movable = append(movable, f)
		}
	}

	index := -1
	for i, f := range movable {
		if f.ID == fieldID {
			index = i
		}
	}
	if index == -1 {
		return nil, ErrFieldNotFound
	}

	var target int
	switch direction {
	case "up":
		target = index - 1
	case "down":
		target = index + 1
	default:
		return nil, fmt.Errorf("%w: невідомий напрямок %q", ErrInvalidFieldSet, direction)
	}
	if target < 0 || target >= len(movable) {
		return nil, ErrFieldPinned
	}
	if movable[target].ID == models.FieldName {
		return nil, ErrFieldPinned
	}

	movable[index], movable[target] = movable[target], movable[index]

	// Перенумеровуємо: порядковий номер лишається нульовим
	result := []models.FieldDefinition{}
	for _, f := range sorted {
		if f.ID == models.FieldAutoNumber {
			f.Order = 0
			result = append(result, f)
		}
	}
	for i, f := range movable {
		f.Order = i + 1
		result = append(result, f)
	}

	return result, nil
}

// FieldUsage повертає записи, що мають непорожнє значення вказаного поля
func FieldUsage(db *gorm.DB, fieldID string) ([]models.Item, error) {
	var items []models.Item
	if err := db.Find(&items).Error; err != nil {
		return nil, err
	}

	used := []models.Item{}
	for _, item := range items {
		if item.Attributes == nil {
			continue
		}
		v, ok := item.Attributes[fieldID]
		if !ok || v == nil {
			continue
		}
		if strings.TrimSpace(valueString(v)) == "" {
			continue
		}
		used = append(used, item)
	}
	return used, nil
}

// DeleteField видаляє поле з конфігурації. Якщо записи містять дані
// цього поля і підтвердження не надано, повертається ErrNeedConfirm
// разом з кількістю задіяних записів. З підтвердженням обнулення значень
// та видалення визначення виконуються в одній транзакції: якщо масове
// обнулення зривається, визначення поля залишається на місці.
func DeleteField(db *gorm.DB, fieldID, updatedBy string, confirmed bool) (int, error) {
	if models.IsBuiltIn(fieldID) {
		return 0, ErrFieldProtected
	}

	config, err := LoadFieldConfig(db)
	if err != nil {
		return 0, err
	}

	found := false
	remaining := []models.FieldDefinition{}
	for _, f := range config.Fields {
		if f.ID == fieldID {
			found = true
			continue
		}
		remaining = append(remaining, f)
	}
	if !found {
		return 0, ErrFieldNotFound
	}

	affected, err := FieldUsage(db, fieldID)
	if err != nil {
		return 0, err
	}
	if len(affected) > 0 && !confirmed {
		return len(affected), ErrNeedConfirm
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, item := range affected {
			delete(item.Attributes, fieldID)
			if err := tx.Model(&models.Item{}).Where("id = ?", item.ID).
				Update("attributes", item.Attributes).Error; err != nil {
				return err
			}
		}

		config.Fields = remaining
		config.UpdatedBy = updatedBy
		return tx.Save(config).Error
	})
	if err != nil {
		return 0, err
	}

	return len(affected), nil
}

// SetItemValue застосовує значення одного поля до запису з приведенням
// типу: числа коерцюються, текст обрізається. Порядковий номер та
// нередаговані поля змінювати не можна.
func SetItemValue(fields []models.FieldDefinition, item *models.Item, fieldID string, value interface{}) error {
	var field *models.FieldDefinition
	for i := range fields {
		if fields[i].ID == fieldID {
			field = &fields[i]
		}
	}
	if field == nil {
		return ErrFieldNotFound
	}
	if field.ID == models.FieldAutoNumber || !field.Editable {
		return fmt.Errorf("поле %q недоступне для редагування", field.Name)
	}

	coerced, err := coerceValue(field, value)
	if err != nil {
		return err
	}

	if field.Enabled && field.Required && isEmptyValue(coerced) {
		return fmt.Errorf("поле %q є обов'язковим", field.Name)
	}

	switch field.ID {
	case models.FieldName:
		item.Name = valueString(coerced)
	case models.FieldCurrentBalance:
		n, _ := toNumber(coerced)
		item.CurrentBalance = n
	case models.FieldUnitOfMeasure:
		item.UnitOfMeasure = valueString(coerced)
	default:
		if item.Attributes == nil {
			item.Attributes = map[string]interface{}{}
		}
		if coerced == nil {
			delete(item.Attributes, field.ID)
		} else {
			item.Attributes[field.ID] = coerced
		}
	}
	return nil
}

// ValidateItem перевіряє запис перед збереженням: кожне увімкнене
// обов'язкове поле має містити непорожнє значення, атрибути поза
// конфігурацією відхиляються.
func ValidateItem(fields []models.FieldDefinition, item *models.Item) error {
	known := map[string]bool{}
	for _, f := range fields {
		known[f.ID] = true
	}
	for key := range item.Attributes {
		if !known[key] {
			return fmt.Errorf("невідоме поле %q", key)
		}
	}

	item.Name = strings.TrimSpace(item.Name)
	item.UnitOfMeasure = strings.TrimSpace(item.UnitOfMeasure)

	for _, f := range fields {
		if f.ID == models.FieldAutoNumber {
			continue
		}

		// Приведення типів динамічних атрибутів
		if !models.IsBuiltIn(f.ID) && item.Attributes != nil {
			if raw, ok := item.Attributes[f.ID]; ok && raw != nil {
				coerced, err := coerceValue(&f, raw)
				if err != nil {
					return err
				}
				item.Attributes[f.ID] = coerced
			}
		}

		if f.Enabled && f.Required && isEmptyValue(item.Value(f.ID)) {
			return fmt.Errorf("поле %q є обов'язковим", f.Name)
		}
	}
	return nil
}

// coerceValue приводить сире значення до типу поля
func coerceValue(field *models.FieldDefinition, value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	switch field.Type {
	case models.FieldTypeNumber:
		if n, ok := toNumber(value); ok {
			return n, nil
		}
		s := strings.TrimSpace(valueString(value))
		if s == "" {
			return nil, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("поле %q має бути числом", field.Name)
		}
		return n, nil
	default:
		return strings.TrimSpace(valueString(value)), nil
	}
}

// isEmptyValue перевіряє, чи вважається значення порожнім для валідації
func isEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
