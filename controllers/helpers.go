package controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sklad-backend/models"
)

// currentUser читає профіль авторизованого користувача з бази.
// Роль перечитується на кожен запит, щоб зміни призначення
// адміністратором діяли одразу, а не після перевипуску токена.
func currentUser(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	userID, ok := c.Locals("user_id").(uint)
	if !ok {
		return nil, fiber.NewError(401, "Необхідна авторизація")
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil, fiber.NewError(401, "Користувача не знайдено")
	}
	if !user.IsActive {
		return nil, fiber.NewError(401, "Акаунт заблоковано")
	}
	return &user, nil
}

// requireAdmin повертає профіль користувача, якщо він адміністратор
func requireAdmin(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	user, err := currentUser(c, db)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fiber.NewError(403, "Доступ дозволено лише адміністратору")
	}
	return user, nil
}

// errorJSON відповідає стандартним payload помилки
func errorJSON(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
