package utils

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Claims представляє структуру JWT токена
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SecretKey повертає секретний ключ підпису токенів
func SecretKey() string {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		secretKey = "sklad-secret-key-change-in-production"
	}
	return secretKey
}

// GenerateJWT створює JWT токен для користувача
func GenerateJWT(userID uint, email, role string) (string, error) {
	// Створюємо claims
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // Токен дійсний 24 години
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	// Створюємо токен
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Підписуємо токен
	tokenString, err := token.SignedString([]byte(SecretKey()))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateJWT перевіряє і парсить JWT токен
func ValidateJWT(tokenString string) (*Claims, error) {
	// Парсимо токен
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Перевіряємо метод підпису
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(SecretKey()), nil
	}, jwt.WithLeeway(5*time.Minute))

	if err != nil {
		return nil, err
	}

	// Перевіряємо валідність токена
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenMalformed
}

// AuthMiddleware middleware для перевірки JWT токена
func AuthMiddleware(c *fiber.Ctx) error {
	// Отримуємо токен із заголовка Authorization
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{
			"error":   true,
			"message": "Необхідна авторизація",
		})
	}

	// Перевіряємо формат Bearer token
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return c.Status(401).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний формат заголовка авторизації",
		})
	}

	tokenString := tokenParts[1]

	// Валідуємо токен
	claims, err := ValidateJWT(tokenString)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"error":   true,
			"message": "Невірний токен",
		})
	}

	// Зберігаємо інформацію про користувача в контексті.
	// Роль у claims може застаріти після зміни адміністратором,
	// тому контролери перечитують профіль із бази.
	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)

	return c.Next()
}
