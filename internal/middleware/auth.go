package middleware

import (
	"fmt"
	"strings"
	"time"

	"roadmapper/internal/config"
	"roadmapper/internal/repository"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// UseToken memvalidasi bearer token lalu me-resolve akun dari database.
// Akun selalu dibaca ulang per request (tanpa cache), jadi akun yang
// sudah dihapus langsung ditolak walau tokennya masih berlaku.
func UseToken(c *fiber.Ctx) error {
	tokenString := extractToken(c)
	if tokenString == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Please log in first"})
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return config.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token claims"})
	}
	exp, ok := claims["exp"].(float64)
	if !ok || int64(exp) < time.Now().Unix() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token expired"})
	}
	// Token reset password tidak boleh dipakai sebagai token sesi
	if purpose, _ := claims["purpose"].(string); purpose != "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid user ID in token"})
	}

	// Token yang sudah di-logout masuk denylist Redis sampai kedaluwarsa
	if config.RedisClient != nil {
		if _, err := config.RedisClient.Get(config.Ctx, "deny:"+tokenString).Result(); err == nil {
			logger.SecurityLogger.Warn("Denylisted token used", zap.Int("user_id", int(userID)))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token revoked"})
		}
	}

	user, err := repository.GetUserByID(config.DB, int(userID))
	if err != nil {
		logger.SecurityLogger.Warn("Token for unknown account", zap.Int("user_id", int(userID)))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Please log in first"})
	}

	c.Locals("userID", user.ID)
	c.Locals("username", user.Username)
	c.Locals("token", tokenString)
	c.Locals("tokenExp", int64(exp))
	return c.Next()
}

// extractToken membaca token dari header Authorization, atau dari query
// string ?token= untuk koneksi WebSocket (browser tidak bisa set header
// saat upgrade).
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
