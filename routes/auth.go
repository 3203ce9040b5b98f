package routes

import (
	"sklad-backend/controllers"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes налаштовує маршрути аутентифікації
func SetupAuthRoutes(app *fiber.App, authController *controllers.AuthController) {
	auth := app.Group("/auth")

	// POST /auth/register - реєстрація користувача
	auth.Post("/register", authController.Register)

	// POST /auth/login - вхід користувача
	auth.Post("/login", authController.Login)

	// POST /auth/oauth/google - федеративний вхід
	auth.Post("/oauth/google", authController.OAuth)

	// POST /auth/recover - відновлення пароля
	auth.Post("/recover", authController.Recover)

	// POST /auth/change-password - зміна власного пароля (потребує авторизації)
	auth.Post("/change-password", utils.AuthMiddleware, authController.ChangePassword)

	// GET /auth/me - профіль і область доступу (потребує авторизації)
	auth.Get("/me", utils.AuthMiddleware, authController.Me)
}
