package main

import (
	"log"
	"os"
	"time"

	"sklad-backend/controllers"
	"sklad-backend/models"
	"sklad-backend/routes"
	"sklad-backend/services"
	"sklad-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Завантаження .env, якщо файл присутній
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Ініціалізація бази даних
	db, err := models.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Автоміграція
	db.AutoMigrate(&models.User{}, &models.Unit{}, &models.Section{}, &models.Item{}, &models.FieldConfig{}, &models.TablePreference{})

	// Засівання базової конфігурації полів
	initDefaultFieldConfig(db)

	// Засівання першого адміністратора
	initDefaultAdmin(db)

	// Створення Fiber застосунку
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"code":    code,
			})
		},
	})

	// Middleware
	app.Use(logger.New())

	// Налаштування CORS
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000,http://127.0.0.1:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Ініціалізація WebSocket хаба
	hub := services.NewHub(db)
	go hub.Run()

	// Ініціалізація контролерів
	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db, hub)
	unitController := controllers.NewUnitController(db, hub)
	itemController := controllers.NewItemController(db, hub)
	fieldConfigController := controllers.NewFieldConfigController(db, hub)
	viewController := controllers.NewViewController(db)
	preferenceController := controllers.NewPreferenceController(db)

	// Налаштування маршрутів
	routes.SetupAuthRoutes(app, authController)
	routes.SetupUserRoutes(app, userController)
	routes.SetupUnitRoutes(app, unitController)
	routes.SetupItemRoutes(app, itemController)
	routes.SetupFieldConfigRoutes(app, fieldConfigController)
	routes.SetupViewRoutes(app, viewController)
	routes.SetupPreferenceRoutes(app, preferenceController)

	// WebSocket маршрут живих підписок
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.HandleWebSocket(c)
	}))

	// Загальний health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"message":   "Sklad Backend is running",
			"timestamp": time.Now().Unix(),
		})
	})

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// initDefaultFieldConfig створює документ конфігурації полів з базовим
// набором, якщо його ще немає
func initDefaultFieldConfig(db *gorm.DB) {
	if _, err := services.LoadFieldConfig(db); err != nil {
		log.Printf("Failed to seed field configuration: %v", err)
	}
}

// initDefaultAdmin створює першого адміністратора з облікових даних
// оточення, якщо в базі ще немає жодного адміністратора
func initDefaultAdmin(db *gorm.DB) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("No admin account found and ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}

	admin := models.User{
		Email:         email,
		PasswordHash:  hash,
		DisplayName:   "Адміністратор",
		Role:          models.RoleAdmin,
		IsActive:      true,
		PasswordSetAt: time.Now(),
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", email)
}
