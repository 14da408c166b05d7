package main

import (
	"time"

	"roadmapper/configs"
	v1 "roadmapper/internal/api/v1"
	"roadmapper/internal/config"
	"roadmapper/internal/middleware"
	"roadmapper/internal/repository"
	"roadmapper/internal/themes"
	myws "roadmapper/internal/websocket"
	"roadmapper/pkg/database"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()
	config.SecretKey = []byte(cfg.SecretKey)

	// Inisialisasi database: SQLite di mode debug, PostgreSQL di production
	db, driver := database.ConnectDB(cfg)
	config.DB = db
	defer config.DB.Close()
	repository.SetDriver(driver)

	logger.SystemLogger.Info("Database Connected", zap.String("driver", driver))

	// Buat tabel jika belum ada
	repository.CreateTableIfNotExists(config.DB)

	// Redis untuk denylist token logout (opsional)
	config.RedisClient = database.ConnectRedis(cfg)
	if config.RedisClient != nil {
		defer config.RedisClient.Close()
	}

	app := fiber.New(fiber.Config{
		// Error yang lolos sampai sini jadi 500 bertema
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			logger.ErrorLogger.Error("Unhandled error", zap.Error(err))
			return c.Status(code).JSON(fiber.Map{
				"message":     "Something went wrong on our end",
				"success":     false,
				"status":      code,
				"background":  themes.RandomBackground(),
				"support_url": cfg.SupportURL,
			})
		},
	})

	// Middleware
	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// Hub WebSocket untuk push event perubahan task
	go myws.Default.Run()

	// Daftarkan route
	v1.RegisterRoutes(app)

	// 404 bertema untuk path yang tidak dikenal
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).JSON(fiber.Map{
			"message":    "Page not found",
			"success":    false,
			"status":     404,
			"background": themes.RandomBackground(),
			"home_url":   cfg.BrandURL,
		})
	})

	logger.SystemLogger.Info("Application ready", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
