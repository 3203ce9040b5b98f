package main

import (
	"fmt"
	"testing"

	"sklad-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestUnitCRUDAdminOnly(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, 1, 0)

	// Комірник не може створювати підрозділи
	resp := jsonRequest(app, "POST", "/units/", authToken(keeper), map[string]interface{}{
		"name": "Несанкціонований",
	})
	assert.Equal(t, 403, resp.StatusCode)

	// Адміністратор створює підрозділ, назва обрізається
	resp = jsonRequest(app, "POST", "/units/", authToken(admin), map[string]interface{}{
		"name": "  Центральний склад  ",
	})
	assert.Equal(t, 201, resp.StatusCode)
	unit := decodeBody(resp)["unit"].(map[string]interface{})
	assert.Equal(t, "Центральний склад", unit["name"])
	unitID := uint(unit["id"].(float64))

	// Порожня назва відхиляється
	resp = jsonRequest(app, "POST", "/units/", authToken(admin), map[string]interface{}{
		"name": "   ",
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Перейменування
	resp = jsonRequest(app, "PUT", fmt.Sprintf("/units/%d", unitID), authToken(admin), map[string]interface{}{
		"name": "Новий склад",
	})
	assert.Equal(t, 200, resp.StatusCode)

	var fresh models.Unit
	db.First(&fresh, unitID)
	assert.Equal(t, "Новий склад", fresh.Name)

	// Комірник не може видаляти
	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/units/%d", unitID), authToken(keeper), nil)
	assert.Equal(t, 403, resp.StatusCode)

	// Адміністратор видаляє
	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/units/%d", unitID), authToken(admin), nil)
	assert.Equal(t, 200, resp.StatusCode)

	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/units/%d", unitID), authToken(admin), nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestSectionCRUD(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	token := authToken(admin)
	unit, _ := createTestStructure(db)

	// Відділ має посилатися на існуючий підрозділ
	resp := jsonRequest(app, "POST", "/sections/", token, map[string]interface{}{
		"unit_id": 999,
		"name":    "Безпритульний",
	})
	assert.Equal(t, 404, resp.StatusCode)

	// Без підрозділу відхиляється
	resp = jsonRequest(app, "POST", "/sections/", token, map[string]interface{}{
		"name": "Без підрозділу",
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Успішне створення
	resp = jsonRequest(app, "POST", "/sections/", token, map[string]interface{}{
		"unit_id": unit.ID,
		"name":    "Новий відділ",
	})
	assert.Equal(t, 201, resp.StatusCode)
	section := decodeBody(resp)["section"].(map[string]interface{})
	sectionID := uint(section["id"].(float64))

	// Перейменування
	resp = jsonRequest(app, "PUT", fmt.Sprintf("/sections/%d", sectionID), token, map[string]interface{}{
		"name": "Перейменований відділ",
	})
	assert.Equal(t, 200, resp.StatusCode)

	// Видалення
	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/sections/%d", sectionID), token, nil)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestDeleteUnitKeepsChildren(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	unit, section := createTestStructure(db)
	item := createTestItem(db, "Сирота", unit.ID, section.ID, 1, nil)

	resp := jsonRequest(app, "DELETE", fmt.Sprintf("/units/%d", unit.ID), authToken(admin), nil)
	assert.Equal(t, 200, resp.StatusCode)

	// Каскадного видалення немає: відділ і запис лишаються в базі
	var sectionCount, itemCount int64
	db.Model(&models.Section{}).Where("id = ?", section.ID).Count(&sectionCount)
	db.Model(&models.Item{}).Where("id = ?", item.ID).Count(&itemCount)
	assert.Equal(t, int64(1), sectionCount)
	assert.Equal(t, int64(1), itemCount)
}

func TestGetUnitsScoped(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unitA, sectionA := createTestStructure(db)
	unitB := &models.Unit{Name: "Другий склад"}
	db.Create(unitB)
	db.Create(&models.Section{UnitID: unitB.ID, Name: "Відділ Б"})

	keeper := createTestUser(db, "keeper@test.com", models.RoleSectionStorekeeper, 0, sectionA.ID)
	token := authToken(keeper)

	// Комірник відділу бачить лише батьківський підрозділ
	resp := jsonRequest(app, "GET", "/units/", token, nil)
	assert.Equal(t, 200, resp.StatusCode)
	body := decodeBody(resp)
	units := body["units"].([]interface{})
	assert.Len(t, units, 1)
	assert.Equal(t, float64(unitA.ID), units[0].(map[string]interface{})["id"])

	// І лише свій відділ
	resp = jsonRequest(app, "GET", "/sections/", token, nil)
	body = decodeBody(resp)
	assert.Len(t, body["sections"], 1)
}
