package main

import (
	"testing"
	"time"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 8, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "матеріальні_засоби_2024-03-08.xlsx", services.ExportFileName(now))
}

func TestExportRows(t *testing.T) {
	fields := append(models.DefaultFields(),
		models.FieldDefinition{ID: "price", Name: "Ціна", Type: models.FieldTypeNumber, Enabled: true, Editable: true, Width: 120, Order: 7},
		models.FieldDefinition{ID: "issueDate", Name: "Дата видачі", Type: models.FieldTypeDate, Enabled: true, Editable: true, Width: 120, Order: 8},
	)

	rows := []services.DisplayRow{
		{IsHeader: true, HeaderTitle: "Перший склад (підрозділ)", HeaderIcon: services.HeaderIconUnit},
		{ID: 1, AutoNumber: 1, Values: map[string]interface{}{
			models.FieldName:           "Болт",
			models.FieldCurrentBalance: 12.5,
			models.FieldUnitOfMeasure:  "кг",
			"price":                    1234.5,
			"issueDate":                "2024-03-08",
		}},
	}

	file, err := services.ExportRows(rows, fields)
	assert.NoError(t, err)

	sheet := file.GetSheetName(0)
	assert.Equal(t, "Матеріальні засоби", sheet)

	// Рядок заголовків без порядкового номера
	a1, _ := file.GetCellValue(sheet, "A1")
	b1, _ := file.GetCellValue(sheet, "B1")
	assert.Equal(t, "Найменування", a1)
	assert.Equal(t, "Кількість", b1)

	// Заголовок групи — підпис у першій комірці
	a2, _ := file.GetCellValue(sheet, "A2")
	assert.Equal(t, "Перший склад (підрозділ)", a2)
	b2, _ := file.GetCellValue(sheet, "B2")
	assert.Empty(t, b2)

	// Рядок даних
	a3, _ := file.GetCellValue(sheet, "A3")
	assert.Equal(t, "Болт", a3)
	c3, _ := file.GetCellValue(sheet, "C3")
	assert.Equal(t, "кг", c3)

	// Грошове поле виводиться з двома знаками після коми
	d3, _ := file.GetCellValue(sheet, "D3")
	assert.Equal(t, "1234.50", d3)

	// Дата у локалізованому форматі
	e3, _ := file.GetCellValue(sheet, "E3")
	assert.Equal(t, "08.03.2024", e3)
}

func TestExportSkipsDisabledFields(t *testing.T) {
	fields := models.DefaultFields() // factoryNumber вимкнено

	rows := []services.DisplayRow{
		{ID: 1, AutoNumber: 1, Values: map[string]interface{}{
			models.FieldName: "Гайка",
			"factoryNumber":  "ЗН-1",
		}},
	}

	file, err := services.ExportRows(rows, fields)
	assert.NoError(t, err)

	sheet := file.GetSheetName(0)
	// Стовпці: найменування, кількість, од. виміру — вимкнених полів немає
	d1, _ := file.GetCellValue(sheet, "D1")
	assert.Empty(t, d1)

	cols, _ := file.GetCols(sheet)
	assert.Len(t, cols, 3)
}

func TestExportEndpoint(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	unit, _ := createTestStructure(db)
	createTestItem(db, "Болт", unit.ID, 0, 5, nil)

	resp := jsonRequest(app, "GET", "/inventory/export", authToken(admin), nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment; filename*=UTF-8''")

	// Користувач без ролі не має що експортувати
	nobody := createTestUser(db, "nobody@test.com", models.RoleUnassigned, 0, 0)
	resp = jsonRequest(app, "GET", "/inventory/export", authToken(nobody), nil)
	assert.Equal(t, 403, resp.StatusCode)
}
