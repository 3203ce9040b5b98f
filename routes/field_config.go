package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupFieldConfigRoutes налаштовує маршрути конфігурації полів
func SetupFieldConfigRoutes(app *fiber.App, fieldConfigController *controllers.FieldConfigController) {
	config := app.Group("/field-config", utils.AuthMiddleware)

	// GET /field-config - поточна конфігурація полів
	config.Get("/", fieldConfigController.GetFields)

	// PUT /field-config - повна заміна набору полів (лише адміністратор)
	config.Put("/", fieldConfigController.SaveFields)

	// POST /field-config/reset - скидання до базових налаштувань (лише адміністратор)
	config.Post("/reset", fieldConfigController.ResetFields)

	// PATCH /field-config/fields/:fieldId/move - перемістити поле (лише адміністратор)
	config.Patch("/fields/:fieldId/move", fieldConfigController.MoveField)

	// DELETE /field-config/fields/:fieldId - видалити поле (лише адміністратор)
	config.Delete("/fields/:fieldId", fieldConfigController.DeleteField)
}
