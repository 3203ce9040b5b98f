package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupItemRoutes налаштовує маршрути записів обліку
func SetupItemRoutes(app *fiber.App, itemController *controllers.ItemController) {
	items := app.Group("/items", utils.AuthMiddleware)

	// GET /items - записи в межах області доступу
	items.Get("/", itemController.GetItems)

	// POST /items - створити запис
	items.Post("/", itemController.CreateItem)

	// GET /items/:id - один запис
	items.Get("/:id", itemController.GetItem)

	// PUT /items/:id - повне редагування через форму
	items.Put("/:id", itemController.UpdateItem)

	// PATCH /items/:id - редагування однієї комірки
	items.Patch("/:id", itemController.EditCell)

	// DELETE /items/:id - видалити запис
	items.Delete("/:id", itemController.DeleteItem)
}
