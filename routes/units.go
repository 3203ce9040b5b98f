package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupUnitRoutes налаштовує маршрути підрозділів та відділів
func SetupUnitRoutes(app *fiber.App, unitController *controllers.UnitController) {
	units := app.Group("/units", utils.AuthMiddleware)

	// GET /units - підрозділи в межах області доступу
	units.Get("/", unitController.GetUnits)

	// POST /units - створити підрозділ (лише адміністратор)
	units.Post("/", unitController.CreateUnit)

	// PUT /units/:id - перейменувати підрозділ (лише адміністратор)
	units.Put("/:id", unitController.UpdateUnit)

	// DELETE /units/:id - видалити підрозділ (лише адміністратор)
	units.Delete("/:id", unitController.DeleteUnit)

	sections := app.Group("/sections", utils.AuthMiddleware)

	// GET /sections - відділи в межах області доступу
	sections.Get("/", unitController.GetSections)

	// POST /sections - створити відділ (лише адміністратор)
	sections.Post("/", unitController.CreateSection)

	// PUT /sections/:id - перейменувати відділ (лише адміністратор)
	sections.Put("/:id", unitController.UpdateSection)

	// DELETE /sections/:id - видалити відділ (лише адміністратор)
	sections.Delete("/:id", unitController.DeleteSection)
}
