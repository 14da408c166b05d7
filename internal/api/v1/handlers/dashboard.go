package handlers

import (
	"roadmapper/internal/config"
	"roadmapper/internal/repository"
	"roadmapper/internal/themes"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Dashboard mengembalikan roadmap + task milik akun beserta agregat
// total/selesai dan gradien background acak untuk tema halaman.
func Dashboard(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)
	username := c.Locals("username").(string)

	categories, err := repository.ListCategories(config.DB, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching categories", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching roadmaps",
			"success": false,
			"status":  500,
		})
	}

	tasks, err := repository.ListTasks(config.DB, userID)
	if err != nil {
		logger.ErrorLogger.Error("Error fetching tasks", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error fetching tasks",
			"success": false,
			"status":  500,
		})
	}

	completed := 0
	for _, task := range tasks {
		if task.Done {
			completed++
		}
	}

	logger.AuditLogger.Info("Dashboard fetched", zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Dashboard fetched successfully",
		"success": true,
		"status":  200,
		"data": fiber.Map{
			"username":        username,
			"background":      themes.RandomBackground(),
			"total_tasks":     len(tasks),
			"completed_tasks": completed,
			"categories":      categories,
			"tasks":           tasks,
		},
	})
}
