package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupPreferenceRoutes налаштовує маршрути налаштувань таблиці
func SetupPreferenceRoutes(app *fiber.App, preferenceController *controllers.PreferenceController) {
	prefs := app.Group("/preferences", utils.AuthMiddleware)

	// GET /preferences/table - налаштування таблиці користувача
	prefs.Get("/table", preferenceController.GetPreferences)

	// PUT /preferences/table - зберегти налаштування таблиці
	prefs.Put("/table", preferenceController.SavePreferences)
}
