package handlers

import (
	"errors"

	"roadmapper/internal/config"
	"roadmapper/internal/repository"
	myws "roadmapper/internal/websocket"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Roadmap (category) handlers

func AddCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type CategoryRequest struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}

	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in add category", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Roadmap name cannot be empty",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	// Warna kosong diisi default oleh repository
	categoryID, err := repository.CreateCategory(config.DB, userID, req.Name, req.Description, req.Color)
	if err != nil {
		logger.ErrorLogger.Error("Error creating category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating roadmap",
			"success": false,
			"status":  500,
		})
	}

	myws.Publish(userID, myws.Event{Event: "roadmap_added", ID: categoryID})
	logger.AuditLogger.Info("Category created", zap.Int("category_id", categoryID), zap.Int("user_id", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Roadmap added successfully!",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id": categoryID,
		},
	})
}

func DeleteCategory(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	categoryID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid category ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid roadmap ID",
			"success": false,
			"status":  400,
		})
	}

	// Otorisasi eksplisit: 404 jika tidak ada, 403 jika bukan miliknya
	if err := repository.AuthorizeCategory(config.DB, categoryID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(404).JSON(fiber.Map{
				"message": "Roadmap not found",
				"success": false,
				"status":  404,
			})
		}
		if errors.Is(err, repository.ErrForbidden) {
			logger.SecurityLogger.Warn("Cross-account category delete blocked",
				zap.Int("user_id", userID), zap.Int("category_id", categoryID))
			return c.Status(403).JSON(fiber.Map{
				"message": "Forbidden",
				"success": false,
				"status":  403,
			})
		}
		logger.ErrorLogger.Error("Error authorizing category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting roadmap",
			"success": false,
			"status":  500,
		})
	}

	// Task di dalam roadmap dilepas, tidak ikut terhapus
	if err := repository.DeleteCategory(config.DB, categoryID); err != nil {
		logger.ErrorLogger.Error("Error deleting category", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting roadmap",
			"success": false,
			"status":  500,
		})
	}

	myws.Publish(userID, myws.Event{Event: "roadmap_deleted", ID: categoryID})
	logger.AuditLogger.Info("Category deleted", zap.Int("category_id", categoryID), zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Roadmap deleted successfully!",
		"success": true,
		"status":  200,
	})
}
