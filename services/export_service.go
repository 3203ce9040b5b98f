package services

import (
	"fmt"
	"time"

	"sklad-backend/models"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Назва аркуша книги обліку
const exportSheetName = "Матеріальні засоби"

// Поля з грошовими значеннями, що виводяться з двома знаками після коми
var priceFieldIDs = map[string]bool{
	"price":          true,
	"wearingPrice":   true,
	"priceByBalance": true,
}

// ExportFileName повертає ім'я файлу експорту з поточною датою
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("матеріальні_засоби_%s.xlsx", now.Format("2006-01-02"))
}

// ExportRows формує книгу xlsx з відфільтрованої та відсортованої
// послідовності рядків: один рядок заголовків зі назвами полів (без
// порядкового номера), рядки груп як підпис у першій комірці, рядки
// даних зі значеннями за типами полів.
func ExportRows(rows []DisplayRow, fields []models.FieldDefinition) (*excelize.File, error) {
	exportFields := []models.FieldDefinition{}
	for _, f := range EnabledFields(fields) {
		if f.ID == models.FieldAutoNumber {
			continue
		}
		exportFields = append(exportFields, f)
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	if err := file.SetSheetName(sheet, exportSheetName); err != nil {
		return nil, err
	}

	// Рядок заголовків стовпців
	header := make([]interface{}, len(exportFields))
	for i, f := range exportFields {
		header[i] = f.Name
	}
	if err := setRow(file, 1, header); err != nil {
		return nil, err
	}

	// Рядки даних
	rowNum := 2
	for _, row := range rows {
		if row.IsHeader {
			label := row.HeaderTitle
			if label == "" {
				label = "Розділ"
			}
			cells := make([]interface{}, len(exportFields))
			cells[0] = label
			if err := setRow(file, rowNum, cells); err != nil {
				return nil, err
			}
			rowNum++
			continue
		}

		cells := make([]interface{}, len(exportFields))
		for i, f := range exportFields {
			cells[i] = exportValue(&f, row.Values[f.ID])
		}
		if err := setRow(file, rowNum, cells); err != nil {
			return nil, err
		}
		rowNum++
	}

	// Ширина стовпців за підказками конфігурації
	for i, f := range exportFields {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := 15.0
		if f.Width > 0 {
			width = float64(f.Width) / 7
			if width < 10 {
				width = 10
			}
		}
		if err := file.SetColWidth(exportSheetName, col, col, width); err != nil {
			return nil, err
		}
	}

	return file, nil
}

// setRow записує значення одного рядка аркуша
func setRow(file *excelize.File, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return file.SetSheetRow(exportSheetName, cell, &cells)
}

// exportValue форматує значення комірки за типом поля: грошові поля —
// два знаки після коми, дати — локалізований формат дд.мм.рррр.
func exportValue(field *models.FieldDefinition, value interface{}) interface{} {
	if value == nil {
		return ""
	}

	switch field.Type {
	case models.FieldTypeNumber:
		n, ok := toNumber(value)
		if !ok {
			return valueString(value)
		}
		if priceFieldIDs[field.ID] {
			return decimal.NewFromFloat(n).StringFixed(2)
		}
		return n
	case models.FieldTypeDate:
		if t, ok := parseDate(valueString(value)); ok {
			return t.Format("02.01.2006")
		}
		return valueString(value)
	}
	return valueString(value)
}

// parseDate розбирає збережене значення дати у поширених форматах
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02.01.2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
