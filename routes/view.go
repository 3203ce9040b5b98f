package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupViewRoutes налаштовує маршрути зведеної таблиці обліку
func SetupViewRoutes(app *fiber.App, viewController *controllers.ViewController) {
	inventory := app.Group("/inventory", utils.AuthMiddleware)

	// GET /inventory/view - рядки таблиці з сортуванням і фільтрацією
	inventory.Get("/view", viewController.GetView)

	// GET /inventory/export - експорт поточної таблиці у книгу xlsx
	inventory.Get("/export", viewController.Export)
}
