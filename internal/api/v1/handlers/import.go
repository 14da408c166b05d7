package handlers

import (
	"fmt"
	"strings"

	"roadmapper/internal/config"
	"roadmapper/internal/importer"
	"roadmapper/internal/repository"
	myws "roadmapper/internal/websocket"
	"roadmapper/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BulkImport menerima teks bebas, mem-parse-nya jadi roadmap+task, lalu
// menyimpan semuanya dalam satu transaksi. Teks kosong atau teks yang
// tidak menghasilkan grup sama sekali ditolak sebagai input tidak valid.
func BulkImport(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type BulkImportRequest struct {
		BulkText string `json:"bulk_text"`
	}

	var req BulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in bulk import", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if strings.TrimSpace(req.BulkText) == "" {
		return c.Status(400).JSON(fiber.Map{
			"message": "Please enter some content to import",
			"success": false,
			"status":  400,
		})
	}

	groups := importer.Parse(req.BulkText)
	if len(groups) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"message": "Nothing to import, check the text format",
			"success": false,
			"status":  400,
		})
	}

	tasksImported, roadmaps, err := repository.BulkImport(config.DB, userID, groups)
	if err != nil {
		// Transaksi sudah di-rollback: tidak ada import setengah jadi
		logger.ErrorLogger.Error("Error importing data", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error importing data",
			"success": false,
			"status":  500,
		})
	}

	myws.Publish(userID, myws.Event{Event: "bulk_imported", ID: roadmaps})
	logger.AuditLogger.Info("Bulk import completed",
		zap.Int("user_id", userID), zap.Int("tasks", tasksImported), zap.Int("roadmaps", roadmaps))
	return c.Status(201).JSON(fiber.Map{
		"message": fmt.Sprintf("Successfully imported %d tasks across %d roadmaps!", tasksImported, roadmaps),
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"tasks":    tasksImported,
			"roadmaps": roadmaps,
		},
	})
}
