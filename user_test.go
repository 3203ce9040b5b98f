package main

import (
	"fmt"
	"testing"

	"sklad-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestGetUsersAdminOnly(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	keeper := createTestUser(db, "keeper@test.com", models.RoleUnitStorekeeper, 1, 0)

	resp := jsonRequest(app, "GET", "/users/", authToken(keeper), nil)
	assert.Equal(t, 403, resp.StatusCode)

	resp = jsonRequest(app, "GET", "/users/", authToken(admin), nil)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, decodeBody(resp)["users"], 2)
}

func TestUpdateUserRoleAssignment(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	user := createTestUser(db, "user@test.com", models.RoleUnassigned, 0, 0)
	unit, _ := createTestStructure(db)

	// Призначення ролі та підрозділу
	resp := jsonRequest(app, "PUT", fmt.Sprintf("/users/%d", user.ID), authToken(admin), map[string]interface{}{
		"role":             models.RoleUnitStorekeeper,
		"assigned_unit_id": unit.ID,
	})
	assert.Equal(t, 200, resp.StatusCode)

	var fresh models.User
	db.First(&fresh, user.ID)
	assert.Equal(t, models.RoleUnitStorekeeper, fresh.Role)
	assert.Equal(t, unit.ID, fresh.AssignedUnitID)

	// Невідома роль відхиляється
	resp = jsonRequest(app, "PUT", fmt.Sprintf("/users/%d", user.ID), authToken(admin), map[string]interface{}{
		"role": "superuser",
	})
	assert.Equal(t, 400, resp.StatusCode)

	// Порожнє тіло — немає чого оновлювати
	resp = jsonRequest(app, "PUT", fmt.Sprintf("/users/%d", user.ID), authToken(admin), map[string]interface{}{})
	assert.Equal(t, 400, resp.StatusCode)

	// Неадміністратор не може змінювати ролі
	resp = jsonRequest(app, "PUT", fmt.Sprintf("/users/%d", admin.ID), authToken(&fresh), map[string]interface{}{
		"role": models.RoleAdmin,
	})
	assert.Equal(t, 403, resp.StatusCode)
}

func TestRoleChangeTakesEffectImmediately(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	user := createTestUser(db, "user@test.com", models.RoleUnassigned, 0, 0)
	unit, _ := createTestStructure(db)
	createTestItem(db, "Запис", unit.ID, 0, 1, nil)

	// Токен видано ще до призначення ролі
	token := authToken(user)

	resp := jsonRequest(app, "GET", "/inventory/view", token, nil)
	assert.Equal(t, 403, resp.StatusCode)

	// Роль читається з бази на кожен запит, тому старий токен
	// отримує доступ одразу після призначення
	resp = jsonRequest(app, "PUT", fmt.Sprintf("/users/%d", user.ID), authToken(admin), map[string]interface{}{
		"role":             models.RoleUnitStorekeeper,
		"assigned_unit_id": unit.ID,
	})
	assert.Equal(t, 200, resp.StatusCode)

	resp = jsonRequest(app, "GET", "/inventory/view", token, nil)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestDeleteUser(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	user := createTestUser(db, "user@test.com", models.RoleUnassigned, 0, 0)

	// Власний акаунт видалити не можна
	resp := jsonRequest(app, "DELETE", fmt.Sprintf("/users/%d", admin.ID), authToken(admin), nil)
	assert.Equal(t, 400, resp.StatusCode)

	resp = jsonRequest(app, "DELETE", fmt.Sprintf("/users/%d", user.ID), authToken(admin), nil)
	assert.Equal(t, 200, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count)
	assert.Zero(t, count)
}

func TestResetPassword(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)

	admin := createTestUser(db, "admin@test.com", models.RoleAdmin, 0, 0)
	user := createTestUser(db, "user@test.com", models.RoleUnitStorekeeper, 1, 0)

	// Закороткий тимчасовий пароль
	resp := jsonRequest(app, "POST", fmt.Sprintf("/users/%d/reset-password", user.ID), authToken(admin), map[string]interface{}{
		"new_password": "123",
	})
	assert.Equal(t, 400, resp.StatusCode)

	resp = jsonRequest(app, "POST", fmt.Sprintf("/users/%d/reset-password", user.ID), authToken(admin), map[string]interface{}{
		"new_password": "tymchasovyi1",
	})
	assert.Equal(t, 200, resp.StatusCode)

	var fresh models.User
	db.First(&fresh, user.ID)
	assert.Equal(t, "tymchasovyi1", fresh.TempPassword)
	assert.True(t, fresh.MustChangePassword)

	// Користувач може увійти за тимчасовим паролем
	resp = jsonRequest(app, "POST", "/auth/login", "", map[string]interface{}{
		"email":    "user@test.com",
		"password": "tymchasovyi1",
	})
	assert.Equal(t, 200, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB()
	app := setupTestApp(db)
	user := createTestUser(db, "user@test.com", models.RoleUnitStorekeeper, 1, 0)

	resp := jsonRequest(app, "PUT", "/users/profile", authToken(user), map[string]interface{}{
		"display_name": "  Нове ім'я  ",
	})
	assert.Equal(t, 200, resp.StatusCode)

	var fresh models.User
	db.First(&fresh, user.ID)
	assert.Equal(t, "Нове ім'я", fresh.DisplayName)
}
