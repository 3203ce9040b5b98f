package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes налаштовує маршрути керування користувачами
func SetupUserRoutes(app *fiber.App, userController *controllers.UserController) {
	users := app.Group("/users", utils.AuthMiddleware)

	// GET /users - список користувачів (лише адміністратор)
	users.Get("/", userController.GetUsers)

	// PUT /users/profile - оновити власне ім'я
	users.Put("/profile", userController.UpdateProfile)

	// PUT /users/:id - оновити роль/призначення (лише адміністратор)
	users.Put("/:id", userController.UpdateUser)

	// DELETE /users/:id - видалити профіль (лише адміністратор)
	users.Delete("/:id", userController.DeleteUser)

	// POST /users/:id/reset-password - видати тимчасовий пароль (лише адміністратор)
	users.Post("/:id/reset-password", userController.ResetPassword)
}
