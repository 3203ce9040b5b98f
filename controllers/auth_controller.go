package controllers

import (
	"regexp"
	"strings"
	"time"

	"sklad-backend/models"
	"sklad-backend/services"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthController контролер для аутентифікації
type AuthController struct {
	DB *gorm.DB
}

// NewAuthController створює новий екземпляр AuthController
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// RegisterRequest структура запиту реєстрації
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	DisplayName     string `json:"display_name"`
}

// LoginRequest структура запиту входу
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RecoverRequest структура запиту відновлення пароля
type RecoverRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// OAuthRequest структура запиту OAuth
type OAuthRequest struct {
	Token    string `json:"token" validate:"required"`
	Provider string `json:"provider" validate:"required,oneof=google"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	OAuthID  string `json:"oauth_id" validate:"required"`
}

// ChangePasswordRequest структура запиту зміни пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// AuthResponse структура відповіді аутентифікації
type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// Register обробляє реєстрацію користувача. Профіль створюється з
// порожньою роллю: доступ до даних з'явиться після призначення
// адміністратором.
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req RegisterRequest

	// Парсимо JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Невірний формат даних",
		})
	}

	// Валідація
	if err := ac.validateRegisterRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Перевіряємо, чи існує користувач
	var existingUser models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(req.Email)).First(&existingUser).Error; err == nil {
		return c.Status(409).JSON(AuthResponse{
			Success: false,
			Message: "Користувач з таким email вже існує",
		})
	}

	// Хешуємо пароль
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Помилка при створенні користувача",
		})
	}

	// Створюємо користувача
	user := models.User{
		Email:         strings.ToLower(req.Email),
		PasswordHash:  hashedPassword,
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Role:          models.RoleUnassigned,
		IsActive:      true,
		PasswordSetAt: time.Now(),
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Помилка при створенні користувача",
		})
	}

	// Генеруємо JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Помилка при створенні токена",
		})
	}

	return c.Status(201).JSON(AuthResponse{
		Success: true,
		Message: "Користувача успішно зареєстровано",
		Token:   token,
		User:    &user,
	})
}

// Login обробляє вхід користувача. Приймається або постійний пароль,
// або тимчасовий, виданий адміністратором — у другому випадку прапорець
// обов'язкової зміни пароля лишається піднятим.
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req LoginRequest

	// Парсимо JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Невірний формат даних",
		})
	}

	// Валідація
	if err := ac.validateLoginRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Шукаємо користувача
	var user models.User
	if err := ac.DB.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Невірний email або пароль",
		})
	}

	// Перевіряємо пароль: основний або тимчасовий
	passwordOK := utils.CheckPasswordHash(req.Password, user.PasswordHash)
	if !passwordOK && user.TempPassword != "" && req.Password == user.TempPassword {
		passwordOK = true
	}
	if !passwordOK {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Невірний email або пароль",
		})
	}

	// Перевіряємо активність користувача
	if !user.IsActive {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Акаунт заблоковано",
		})
	}

	// Генеруємо JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Помилка при створенні токена",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Message: "Успішний вхід у систему",
		Token:   token,
		User:    &user,
	})
}

// OAuth обробляє федеративний вхід. Профіль створюється автоматично
// при першій авторизації, з порожньою роллю.
func (ac *AuthController) OAuth(c *fiber.Ctx) error {
	var req OAuthRequest

	// Парсимо JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Невірний формат даних",
		})
	}

	// Валідація
	if err := ac.validateOAuthRequest(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	// Шукаємо користувача за OAuth ID
	var user models.User
	err := ac.DB.Where("oauth_provider = ? AND oauth_id = ?", req.Provider, req.OAuthID).First(&user).Error

	if err != nil {
		// Користувача не знайдено, створюємо нового
		user = models.User{
			Email:         strings.ToLower(req.Email),
			DisplayName:   strings.TrimSpace(req.Name),
			OAuthProvider: req.Provider,
			OAuthID:       req.OAuthID,
			Role:          models.RoleUnassigned,
			IsActive:      true,
			PasswordHash:  "-", // Вхід лише через провайдера
		}

		if err := ac.DB.Create(&user).Error; err != nil {
			return c.Status(500).JSON(AuthResponse{
				Success: false,
				Message: "Помилка при створенні користувача",
			})
		}
	}

	// Генеруємо JWT токен
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Помилка при створенні токена",
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Message: "Успішна авторизація через " + req.Provider,
		Token:   token,
		User:    &user,
	})
}

// Recover обробляє запит на відновлення пароля
func (ac *AuthController) Recover(c *fiber.Ctx) error {
	var req RecoverRequest

	// Парсимо JSON
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Невірний формат даних",
		})
	}

	// Валідація email
	if !ac.isValidEmail(req.Email) {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Невірний формат email",
		})
	}

	// Однакова відповідь незалежно від існування користувача (безпека)
	return c.JSON(AuthResponse{
		Success: true,
		Message: "Якщо користувач з таким email існує, йому надіслано листа з інструкціями",
	})
}

// ChangePassword змінює пароль авторизованого користувача і знімає
// прапорець обов'язкової зміни.
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	user, err := currentUser(c, ac.DB)
	if err != nil {
		return errorJSON(c, err)
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Невірний формат даних",
		})
	}

	if len(req.NewPassword) < 6 {
		return c.Status(400).JSON(AuthResponse{
			Success: false,
			Message: "Пароль має містити щонайменше 6 символів",
		})
	}

	// Поточним паролем може бути і тимчасовий
	currentOK := utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash)
	if !currentOK && user.TempPassword != "" && req.CurrentPassword == user.TempPassword {
		currentOK = true
	}
	if !currentOK {
		return c.Status(401).JSON(AuthResponse{
			Success: false,
			Message: "Невірний поточний пароль",
		})
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: "Помилка при зміні пароля",
		})
	}

	updates := map[string]interface{}{
		"password_hash":        hashedPassword,
		"temp_password":        "",
		"must_change_password": false,
		"password_set_at":      time.Now(),
	}
	if err := ac.DB.Model(user).Updates(updates).Error; err != nil {
		return c.Status(500).JSON(AuthResponse{
			Success: false,
			Message: err.Error(),
		})
	}

	return c.JSON(AuthResponse{
		Success: true,
		Message: "Пароль успішно змінено",
	})
}

// Me повертає профіль авторизованого користувача разом з його
// областю доступу.
func (ac *AuthController) Me(c *fiber.Ctx) error {
	user, err := currentUser(c, ac.DB)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"error": false,
		"user":  user,
		"scope": services.UserScope(user),
	})
}

// Допоміжні методи валідації

func (ac *AuthController) validateRegisterRequest(req *RegisterRequest) error {
	if !ac.isValidEmail(req.Email) {
		return fiber.NewError(400, "Невірний формат email")
	}
	if len(req.Password) < 6 {
		return fiber.NewError(400, "Пароль має містити щонайменше 6 символів")
	}
	if req.Password != req.ConfirmPassword {
		return fiber.NewError(400, "Паролі не збігаються")
	}
	return nil
}

func (ac *AuthController) validateLoginRequest(req *LoginRequest) error {
	if !ac.isValidEmail(req.Email) {
		return fiber.NewError(400, "Невірний формат email")
	}
	if req.Password == "" {
		return fiber.NewError(400, "Пароль обов'язковий")
	}
	return nil
}

func (ac *AuthController) validateOAuthRequest(req *OAuthRequest) error {
	if req.Token == "" {
		return fiber.NewError(400, "OAuth токен обов'язковий")
	}
	if req.Provider != "google" {
		return fiber.NewError(400, "Непідтримуваний OAuth провайдер")
	}
	if !ac.isValidEmail(req.Email) {
		return fiber.NewError(400, "Невірний формат email")
	}
	if req.OAuthID == "" {
		return fiber.NewError(400, "OAuth ID обов'язковий")
	}
	return nil
}

func (ac *AuthController) isValidEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}
