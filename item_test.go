package main

import (
	"fmt"
	"testing"

	"sklad-backend/models"
	"sklad-backend/services"

	"github.com/stretchr/testify/assert"
)

func TestCreateItem(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unit, section := createTestStructure(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	token := authToken(admin)

	// Успішне створення з нульовою кількістю за замовчуванням
	resp := jsonRequest(app, "POST", "/items/", token, map[string]interface{}{
		"name":            "Ключ гайковий",
		"unit_id":         unit.ID,
		"section_id":      section.ID,
		"unit_of_measure": "шт",
	})
	assert.Equal(t, 201, resp.StatusCode)

	body := decodeBody(resp)
	item := body["item"].(map[string]interface{})
	assert.Equal(t, float64(0), item["current_balance"])

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{
			name: "Без підрозділу",
			payload: map[string]interface{}{
				"name":            "Без підрозділу",
				"unit_of_measure": "шт",
			},
		},
		{
			name: "Порожнє найменування",
			payload: map[string]interface{}{
				"name":            "   ",
				"unit_id":         unit.ID,
				"unit_of_measure": "шт",
			},
		},
		{
			name: "Порожня одиниця виміру",
			payload: map[string]interface{}{
				"name":    "Без одиниці",
				"unit_id": unit.ID,
			},
		},
		{
			name: "Невідомий атрибут",
			payload: map[string]interface{}{
				"name":            "Із зайвим полем",
				"unit_id":         unit.ID,
				"unit_of_measure": "шт",
				"attributes":      map[string]interface{}{"ghost": "значення"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := jsonRequest(app, "POST", "/items/", token, tt.payload)
			assert.Equal(t, 400, resp.StatusCode)
		})
	}
}

func TestCreateItemSectionMustBelongToUnit(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unit, _ := createTestStructure(db)
	other := &models.Unit{Name: "Другий склад"}
	db.Create(other)
	foreignSection := &models.Section{UnitID: other.ID, Name: "Чужий відділ"}
	db.Create(foreignSection)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)

	resp := jsonRequest(app, "POST", "/items/", authToken(admin), map[string]interface{}{
		"name":            "Невідповідність",
		"unit_id":         unit.ID,
		"section_id":      foreignSection.ID,
		"unit_of_measure": "шт",
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestGetItemsScoped(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unitA, sectionA := createTestStructure(db)
	unitB := &models.Unit{Name: "Другий склад"}
	db.Create(unitB)

	createTestItem(db, "Запис А", unitA.ID, 0, 1, nil)
	createTestItem(db, "Запис відділу", unitA.ID, sectionA.ID, 2, nil)
	createTestItem(db, "Запис Б", unitB.ID, 0, 3, nil)

	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, unitA.ID, 0)
	token := authToken(keeper)

	resp := jsonRequest(app, "GET", "/items/", token, nil)
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(resp)
	assert.Len(t, body["items"], 2)

	// Звуження за своїм відділом працює
	resp = jsonRequest(app, "GET", fmt.Sprintf("/items/?section_id=%d", sectionA.ID), token, nil)
	body = decodeBody(resp)
	assert.Len(t, body["items"], 1)

	// Звуження поза областю доступу дає порожній список, а не помилку
	resp = jsonRequest(app, "GET", fmt.Sprintf("/items/?unit_id=%d", unitB.ID), token, nil)
	assert.Equal(t, 200, resp.StatusCode)
	body = decodeBody(resp)
	assert.Len(t, body["items"], 0)
}

func TestGetItemOutsideScope(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unitA, _ := createTestStructure(db)
	unitB := &models.Unit{Name: "Другий склад"}
	db.Create(unitB)
	foreign := createTestItem(db, "Чужий запис", unitB.ID, 0, 1, nil)

	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, unitA.ID, 0)

	resp := jsonRequest(app, "GET", fmt.Sprintf("/items/%d", foreign.ID), authToken(keeper), nil)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestUpdateItem(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unit, section := createTestStructure(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	item := createTestItem(db, "Стара назва", unit.ID, 0, 5, nil)

	resp := jsonRequest(app, "PUT", fmt.Sprintf("/items/%d", item.ID), authToken(admin), map[string]interface{}{
		"name":            "Нова назва",
		"unit_id":         unit.ID,
		"section_id":      section.ID,
		"current_balance": 8,
		"unit_of_measure": "кг",
	})
	assert.Equal(t, 200, resp.StatusCode)

	var fresh models.Item
	db.First(&fresh, item.ID)
	assert.Equal(t, "Нова назва", fresh.Name)
	assert.Equal(t, section.ID, fresh.SectionID)
	assert.Equal(t, float64(8), fresh.CurrentBalance)
	assert.Equal(t, "кг", fresh.UnitOfMeasure)
}

func TestUpdateItemMoveRequiresTargetRights(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unitA, _ := createTestStructure(db)
	unitB := &models.Unit{Name: "Другий склад"}
	db.Create(unitB)

	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, unitA.ID, 0)
	item := createTestItem(db, "Переміщуваний", unitA.ID, 0, 1, nil)

	// Переміщення у чужий підрозділ заборонене
	resp := jsonRequest(app, "PUT", fmt.Sprintf("/items/%d", item.ID), authToken(keeper), map[string]interface{}{
		"name":            "Переміщуваний",
		"unit_id":         unitB.ID,
		"unit_of_measure": "шт",
	})
	assert.Equal(t, 403, resp.StatusCode)

	var fresh models.Item
	db.First(&fresh, item.ID)
	assert.Equal(t, unitA.ID, fresh.UnitID)
}

func TestEditCell(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unit, _ := createTestStructure(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	token := authToken(admin)

	extended := append(models.DefaultFields(), customField("serialCode", "Серійний код", 7))
	assert.NoError(t, services.SaveFieldConfig(db, extended, "test"))

	item := createTestItem(db, "Редагований", unit.ID, 0, 5, nil)

	// Числове поле коерцюється з рядка
	resp := jsonRequest(app, "PATCH", fmt.Sprintf("/items/%d", item.ID), token, map[string]interface{}{
		"field_id": models.FieldCurrentBalance,
		"value":    "12.5",
	})
	assert.Equal(t, 200, resp.StatusCode)

	var fresh models.Item
	db.First(&fresh, item.ID)
	assert.Equal(t, 12.5, fresh.CurrentBalance)
	// Інші поля не змінилися
	assert.Equal(t, "Редагований", fresh.Name)

	// Динамічний атрибут зберігається у загальній мапі
	resp = jsonRequest(app, "PATCH", fmt.Sprintf("/items/%d", item.ID), token, map[string]interface{}{
		"field_id": "serialCode",
		"value":    "  А-77  ",
	})
	assert.Equal(t, 200, resp.StatusCode)

	fresh = models.Item{}
	db.First(&fresh, item.ID)
	assert.Equal(t, "А-77", fresh.Attributes["serialCode"])

	// Порядковий номер недоступний для редагування
	resp = jsonRequest(app, "PATCH", fmt.Sprintf("/items/%d", item.ID), token, map[string]interface{}{
		"field_id": models.FieldAutoNumber,
		"value":    99,
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Нечислове значення числового поля відхиляється, попередній стан у відповіді
	resp = jsonRequest(app, "PATCH", fmt.Sprintf("/items/%d", item.ID), token, map[string]interface{}{
		"field_id": models.FieldCurrentBalance,
		"value":    "не число",
	})
	assert.Equal(t, 400, resp.StatusCode)
	body := decodeBody(resp)
	snapshot := body["item"].(map[string]interface{})
	assert.Equal(t, 12.5, snapshot["current_balance"])

	// Обов'язкове поле не можна очистити
	resp = jsonRequest(app, "PATCH", fmt.Sprintf("/items/%d", item.ID), token, map[string]interface{}{
		"field_id": models.FieldName,
		"value":    "   ",
	})
	assert.Equal(t, 400, resp.StatusCode)
}

func TestDeleteItem(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unitA, _ := createTestStructure(db)
	unitB := &models.Unit{Name: "Другий склад"}
	db.Create(unitB)

	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, unitA.ID, 0)
	own := createTestItem(db, "Свій", unitA.ID, 0, 1, nil)
	foreign := createTestItem(db, "Чужий", unitB.ID, 0, 1, nil)

	// Чужий запис видалити не можна
	resp := jsonRequest(app, "DELETE", fmt.Sprintf("/items/%d", foreign.ID), authToken(keeper), nil)
	assert.Equal(t, 403, resp.StatusCode)

	// Свій — можна, запис зникає остаточно
	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/items/%d", own.ID), authToken(keeper), nil)
	assert.Equal(t, 200, resp.StatusCode)

	var count int64
	db.Model(&models.Item{}).Where("id = ?", own.ID).Count(&count)
	assert.Zero(t, count)

	// Повторне видалення повертає 404
	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/items/%d", own.ID), authToken(keeper), nil)
	assert.Equal(t, 404, resp.StatusCode)
}
