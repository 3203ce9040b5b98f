package main

import (
	"fmt"
	"testing"

	"sklad-backend/models"

	"github.com/stretchr/testify/assert"
)

// viewRows дістає рядки таблиці з відповіді
func viewRows(body map[string]interface{}) []map[string]interface{} {
	raw := body["rows"].([]interface{})
	rows := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		rows[i] = r.(map[string]interface{})
	}
	return rows
}

func TestGetView(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	unit, section := createTestStructure(db)

	createTestItem(db, "Болт", unit.ID, 0, 5, nil)
	createTestItem(db, "Гайка", unit.ID, 0, 12, nil)
	createTestItem(db, "Гвинт", unit.ID, section.ID, 3, nil)

	resp := jsonRequest(app, "GET", "/inventory/view", authToken(admin), nil)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	assert.Equal(t, float64(3), body["total_items"])
	assert.Equal(t, float64(3), body["filtered_items"])

	rows := viewRows(body)
	// Заголовок підрозділу, два прямі записи, заголовок відділу, запис відділу
	assert.Len(t, rows, 5)
	assert.Equal(t, true, rows[0]["is_header"])
	assert.Equal(t, "Перший склад (підрозділ)", rows[0]["header_title"])
	assert.Equal(t, true, rows[3]["is_header"])
	assert.Equal(t, "Відділ зберігання (відділ)", rows[3]["header_title"])

	// Порядкові номери наскрізні через групи
	assert.Equal(t, float64(1), rows[1]["auto_number"])
	assert.Equal(t, float64(2), rows[2]["auto_number"])
	assert.Equal(t, float64(3), rows[4]["auto_number"])
}

func TestGetViewSortAndFilter(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	token := authToken(admin)
	unit, _ := createTestStructure(db)

	createTestItem(db, "Болт", unit.ID, 0, 5, nil)
	createTestItem(db, "Гайка", unit.ID, 0, 12, nil)
	createTestItem(db, "Гвинт", unit.ID, 0, 3, nil)

	// Сортування за кількістю
	resp := jsonRequest(app, "GET", "/inventory/view?sort_field=currentBalance&sort_dir=asc", token, nil)
	rows := viewRows(decodeBody(resp))
	values := rows[1]["values"].(map[string]interface{})
	assert.Equal(t, "Гвинт", values[models.FieldName])

	// Фільтр із перерахунком номерів
	resp = jsonRequest(app, "GET", "/inventory/view?search=бо", token, nil)
	body := decodeBody(resp)
	assert.Equal(t, float64(3), body["total_items"])
	assert.Equal(t, float64(1), body["filtered_items"])

	rows = viewRows(body)
	assert.Len(t, rows, 2)
	values = rows[1]["values"].(map[string]interface{})
	assert.Equal(t, "Болт", values[models.FieldName])
	assert.Equal(t, float64(1), rows[1]["auto_number"])
}

func TestGetViewScopeNone(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	// Користувач без ролі отримує явну відмову, а не порожню таблицю
	user := createTestUser(db, "nobody@test.com", models.RoleUnassigned, 0, 0)
	resp := jsonRequest(app, "GET", "/inventory/view", authToken(user), nil)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestGetViewNarrowingOutsideScope(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unitA, _ := createTestStructure(db)
	unitB := &models.Unit{Name: "Другий склад"}
	db.Create(unitB)

	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, unitA.ID, 0)

	resp := jsonRequest(app, "GET", fmt.Sprintf("/inventory/view?unit_id=%d", unitB.ID), authToken(keeper), nil)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestGetViewScopedToSection(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	unit, section := createTestStructure(db)

	createTestItem(db, "Прямий запис", unit.ID, 0, 1, nil)
	createTestItem(db, "Запис відділу", unit.ID, section.ID, 2, nil)

	keeper := createTestUser(db, "keeper@test.com", models.RoleSectionStorekeeper, 0, section.ID)

	resp := jsonRequest(app, "GET", "/inventory/view", authToken(keeper), nil)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(resp)
	assert.Equal(t, float64(1), body["total_items"])

	// Видно лише записи відділу
	for _, row := range viewRows(body) {
		if row["is_header"] == true {
			continue
		}
		values := row["values"].(map[string]interface{})
		assert.Equal(t, "Запис відділу", values[models.FieldName])
	}
}

func TestGetViewHidesDisabledFields(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	createTestStructure(db)

	resp := jsonRequest(app, "GET", "/inventory/view", authToken(admin), nil)
	body := decodeBody(resp)

	// У відповіді лише увімкнені поля
	fields := body["fields"].([]interface{})
	for _, f := range fields {
		def := f.(map[string]interface{})
		assert.NotEqual(t, "factoryNumber", def["id"])
		assert.NotEqual(t, false, def["enabled"])
	}
}
