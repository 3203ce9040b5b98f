package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"sklad-backend/controllers"
	"sklad-backend/models"
	"sklad-backend/routes"
	"sklad-backend/services"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB створює тестову базу даних у пам'яті
func setupTestDB() *gorm.DB {
	db, _ := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	db.AutoMigrate(&models.User{}, &models.Unit{}, &models.Section{}, &models.Item{}, &models.FieldConfig{}, &models.TablePreference{})
	return db
}

// setupTestApp збирає застосунок з усіма маршрутами поверх тестової бази
func setupTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Хаб без запущеного циклу: розсилка по порожній мапі клієнтів
	hub := services.NewHub(db)

	routes.SetupAuthRoutes(app, controllers.NewAuthController(db))
	routes.SetupUserRoutes(app, controllers.NewUserController(db, hub))
	routes.SetupUnitRoutes(app, controllers.NewUnitController(db, hub))
	routes.SetupItemRoutes(app, controllers.NewItemController(db, hub))
	routes.SetupFieldConfigRoutes(app, controllers.NewFieldConfigController(db, hub))
	routes.SetupViewRoutes(app, controllers.NewViewController(db))
	routes.SetupPreferenceRoutes(app, controllers.NewPreferenceController(db))

	return app
}

// createTestUser створює користувача з вказаною роллю та призначенням
func createTestUser(db *gorm.DB, email, role string, unitID, sectionID uint) *models.User {
	hash, _ := utils.HashPassword("password123")
	user := &models.User{
		Email:             email,
		PasswordHash:      hash,
		DisplayName:       "Тестовий користувач",
		Role:              role,
		AssignedUnitID:    unitID,
		AssignedSectionID: sectionID,
		IsActive:          true,
	}
	db.Create(user)
	return user
}

// authToken повертає JWT токен для користувача
func authToken(user *models.User) string {
	token, _ := utils.GenerateJWT(user.ID, user.Email, user.Role)
	return token
}

// jsonRequest виконує запит із JSON тілом і токеном авторизації
func jsonRequest(app *fiber.App, method, target, token string, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, _ := app.Test(req, -1)
	return resp
}

// decodeBody розбирає JSON відповідь у мапу
func decodeBody(resp *http.Response) map[string]interface{} {
	var body map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&body)
	return body
}

// createTestStructure створює підрозділ, відділ і повертає їх
func createTestStructure(db *gorm.DB) (*models.Unit, *models.Section) {
	unit := &models.Unit{Name: "Перший склад"}
	db.Create(unit)
	section := &models.Section{UnitID: unit.ID, Name: "Відділ зберігання"}
	db.Create(section)
	return unit, section
}

// createTestItem створює запис із вказаними значеннями
func createTestItem(db *gorm.DB, name string, unitID, sectionID uint, balance float64, attrs map[string]interface{}) *models.Item {
	item := &models.Item{
		Name:           name,
		UnitID:         unitID,
		SectionID:      sectionID,
		CurrentBalance: balance,
		UnitOfMeasure:  "шт",
		Attributes:     attrs,
	}
	db.Create(item)
	return item
}
