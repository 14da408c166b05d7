package handlers

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"roadmapper/internal/config"
	"roadmapper/internal/repository"
	"roadmapper/pkg/crypto"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// issueToken membuat JWT HS256. purpose kosong = token sesi biasa,
// purpose "reset" = token sekali-jalan untuk alur lupa password.
func issueToken(userID int, ttl time.Duration, purpose string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	if purpose != "" {
		claims["purpose"] = purpose
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.SecretKey)
}

// Home: redirect ke dashboard jika token valid, selain itu ke login.
func Home(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				return config.SecretKey, nil
			})
			if err == nil && token.Valid {
				return c.Redirect("/dashboard", fiber.StatusFound)
			}
		}
	}
	return c.Redirect("/login", fiber.StatusFound)
}

// Auth handlers
func Register(c *fiber.Ctx) error {
	// struct RegisterRequest menerima inputan dari user
	type RegisterRequest struct {
		Username       string `json:"username" validate:"required,min=3"`
		Password       string `json:"password" validate:"required,min=6"`
		SecretQuestion string `json:"secret_q" validate:"required"`
		SecretAnswer   string `json:"secret_a" validate:"required"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	req.Username = strings.TrimSpace(req.Username)
	req.SecretQuestion = strings.TrimSpace(req.SecretQuestion)
	req.SecretAnswer = strings.TrimSpace(req.SecretAnswer)

	// Validasi dengan validator: username >=3, password >=6,
	// pertanyaan dan jawaban rahasia tidak boleh kosong
	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during register", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Hash password dengan bcrypt default cost
	hashedPassword, err := crypto.HashSecret(req.Password)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}

	// Jawaban rahasia di-lowercase dulu supaya pencocokan saat reset
	// tidak case-sensitive, lalu di-hash seperti password
	hashedAnswer, err := crypto.HashSecret(strings.ToLower(req.SecretAnswer))
	if err != nil {
		logger.ErrorLogger.Error("Error hashing secret answer", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing secret answer",
			"success": false,
			"status":  500,
		})
	}

	userID, err := repository.CreateUser(config.DB, req.Username, hashedPassword, req.SecretQuestion, hashedAnswer)
	if err != nil {
		// Username sudah ada -> 409, selain itu 500
		if errors.Is(err, repository.ErrDuplicateUsername) {
			logger.SecurityLogger.Warn("Duplicate username", zap.String("username", req.Username))
			return c.Status(409).JSON(fiber.Map{
				"message": "Username already taken",
				"success": false,
				"status":  409,
			})
		}
		logger.ErrorLogger.Error("Error creating user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating user",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("User registered successfully", zap.Int("userID", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Account created successfully! You can now log in.",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id": userID,
		},
	})
}

func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		logger.AuditLogger.Warn("Validation error during login", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Username tidak ada dan password salah sengaja dibuat tidak bisa
	// dibedakan dari luar: dua-duanya 401 "Invalid credentials"
	user, err := repository.GetUserByUsername(config.DB, strings.TrimSpace(req.Username))
	if err != nil {
		logger.SecurityLogger.Warn("User not found", zap.String("username", req.Username))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	if !crypto.CheckSecret(user.Password, req.Password) {
		logger.SecurityLogger.Warn("Invalid password", zap.String("username", req.Username))
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid credentials",
			"success": false,
			"status":  401,
		})
	}

	tokenString, err := issueToken(user.ID, time.Hour, "")
	if err != nil {
		logger.ErrorLogger.Error("Error generating token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating token",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Welcome back, " + user.Username + "!",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"user_id":  user.ID,
			"username": user.Username,
			"token":    tokenString,
		},
	})
}

// Forgot memulai alur reset: cari akun, kembalikan pertanyaan rahasia
// plus token reset berumur pendek (stateless, tidak ada state di server).
func Forgot(c *fiber.Ctx) error {
	type ForgotRequest struct {
		Username string `json:"username" validate:"required"`
	}

	var req ForgotRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in forgot", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	user, err := repository.GetUserByUsername(config.DB, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Username not found",
				"success": false,
				"status":  404,
			})
		}
		logger.ErrorLogger.Error("Error fetching user", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching user",
			"success": false,
			"status":  500,
		})
	}

	resetToken, err := issueToken(user.ID, 10*time.Minute, "reset")
	if err != nil {
		logger.ErrorLogger.Error("Error generating reset token", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error generating reset token",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Password reset started", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Answer your secret question to reset the password",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"secret_question": user.SecretQuestion,
			"reset_token":     resetToken,
		},
	})
}

// Reset menyelesaikan alur lupa password. Jawaban salah atau password
// baru terlalu pendek mengembalikan pertanyaan yang sama supaya client
// bisa menampilkan ulang form-nya.
func Reset(c *fiber.Ctx) error {
	type ResetRequest struct {
		ResetToken  string `json:"reset_token" validate:"required"`
		Answer      string `json:"answer" validate:"required"`
		NewPassword string `json:"new_password" validate:"required"`
	}

	var req ResetRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in reset", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Validation error",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	token, err := jwt.Parse(req.ResetToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return config.SecretKey, nil
	})
	if err != nil || !token.Valid {
		return c.Status(401).JSON(fiber.Map{
			"message": "Reset session expired, please start over",
			"success": false,
			"status":  401,
		})
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != "reset" {
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid reset token",
			"success": false,
			"status":  401,
		})
	}
	userIDf, ok := claims["user_id"].(float64)
	if !ok {
		return c.Status(401).JSON(fiber.Map{
			"message": "Invalid reset token",
			"success": false,
			"status":  401,
		})
	}

	user, err := repository.GetUserByID(config.DB, int(userIDf))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{
			"message": "Username not found",
			"success": false,
			"status":  404,
		})
	}

	if len(req.NewPassword) < 6 {
		return c.Status(400).JSON(fiber.Map{
			"message": "Password must be at least 6 characters long",
			"success": false,
			"status":  400,
			"data": fiber.Map{
				"secret_question": user.SecretQuestion,
			},
		})
	}

	// Jawaban dicocokkan case-insensitive terhadap hash yang tersimpan
	if !crypto.CheckSecret(user.SecretAnswer, strings.ToLower(strings.TrimSpace(req.Answer))) {
		logger.SecurityLogger.Warn("Incorrect secret answer", zap.Int("user_id", user.ID))
		return c.Status(401).JSON(fiber.Map{
			"message": "Incorrect answer",
			"success": false,
			"status":  401,
			"data": fiber.Map{
				"secret_question": user.SecretQuestion,
			},
		})
	}

	hashedPassword, err := crypto.HashSecret(req.NewPassword)
	if err != nil {
		logger.ErrorLogger.Error("Error hashing password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error hashing password",
			"success": false,
			"status":  500,
		})
	}
	if err := repository.UpdatePassword(config.DB, user.ID, hashedPassword); err != nil {
		logger.ErrorLogger.Error("Error updating password", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating password",
			"success": false,
			"status":  500,
		})
	}

	logger.AuditLogger.Info("Password reset successful", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"message": "Password reset successful. Please log in.",
		"success": true,
		"status":  200,
	})
}

// Logout memasukkan token sesi ke denylist Redis sampai kedaluwarsa.
// Tanpa Redis, logout cukup membuang token di sisi client.
func Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	if config.RedisClient != nil {
		tokenString := c.Locals("token").(string)
		exp := c.Locals("tokenExp").(int64)
		ttl := time.Until(time.Unix(exp, 0))
		if ttl > 0 {
			if err := config.RedisClient.Set(config.Ctx, "deny:"+tokenString, "1", ttl).Err(); err != nil {
				logger.ErrorLogger.Error("Error denylisting token", zap.Error(err))
				return c.Status(500).JSON(fiber.Map{
					"message": "Error logging out",
					"success": false,
					"status":  500,
				})
			}
		}
	}

	logger.AuditLogger.Info("Logout", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "You have been logged out successfully",
		"success": true,
		"status":  200,
	})
}
