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

// Task handlers

// checkCategoryOwnership memastikan category_id (jika diisi) benar-benar
// milik akun pemanggil. Kategori orang lain atau kategori yang tidak ada
// sama-sama ditolak sebagai input tidak valid. Mengembalikan handled=true
// jika response error sudah ditulis.
func checkCategoryOwnership(c *fiber.Ctx, userID int, categoryID *int) (bool, error) {
	if categoryID == nil {
		return false, nil
	}
	err := repository.AuthorizeCategory(config.DB, *categoryID, userID)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrForbidden) {
		logger.SecurityLogger.Warn("Task references foreign or missing category",
			zap.Int("user_id", userID), zap.Int("category_id", *categoryID))
		return true, c.Status(400).JSON(fiber.Map{
			"message": "Invalid roadmap",
			"success": false,
			"status":  400,
		})
	}
	logger.ErrorLogger.Error("Error checking category ownership", zap.Error(err))
	return true, c.Status(500).JSON(fiber.Map{
		"message": "Error checking roadmap",
		"success": false,
		"status":  500,
	})
}

func AddTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	type TaskRequest struct {
		Title      string `json:"title" validate:"required"`
		Notes      string `json:"notes"`
		CategoryID *int   `json:"category_id"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in add task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Task title cannot be empty",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if handled, resp := checkCategoryOwnership(c, userID, req.CategoryID); handled {
		return resp
	}

	taskID, err := repository.CreateTask(config.DB, userID, req.Title, req.Notes, req.CategoryID)
	if err != nil {
		logger.ErrorLogger.Error("Error creating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error creating task",
			"success": false,
			"status":  500,
		})
	}

	myws.Publish(userID, myws.Event{Event: "task_added", ID: taskID})
	logger.AuditLogger.Info("Task created", zap.Int("task_id", taskID), zap.Int("user_id", userID))
	return c.Status(201).JSON(fiber.Map{
		"message": "Task added successfully!",
		"success": true,
		"status":  201,
		"data": fiber.Map{
			"id": taskID,
		},
	})
}

// authorizeTask menjalankan load-then-compare dan menulis response error
// yang sesuai. Mengembalikan handled=true jika response sudah ditulis
// dan handler harus berhenti.
func authorizeTask(c *fiber.Ctx, taskID, userID int) (bool, error) {
	err := repository.AuthorizeTask(config.DB, taskID, userID)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return true, c.Status(404).JSON(fiber.Map{
			"message": "Task not found",
			"success": false,
			"status":  404,
		})
	}
	if errors.Is(err, repository.ErrForbidden) {
		logger.SecurityLogger.Warn("Cross-account task access blocked",
			zap.Int("user_id", userID), zap.Int("task_id", taskID))
		return true, c.Status(403).JSON(fiber.Map{
			"message": "Forbidden",
			"success": false,
			"status":  403,
		})
	}
	logger.ErrorLogger.Error("Error authorizing task", zap.Error(err))
	return true, c.Status(500).JSON(fiber.Map{
		"message": "Error fetching task",
		"success": false,
		"status":  500,
	})
}

func EditTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	type EditTaskRequest struct {
		Title      string `json:"title" validate:"required"`
		Notes      string `json:"notes"`
		CategoryID *int   `json:"category_id"`
	}

	var req EditTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in edit task", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}

	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Task title cannot be empty",
			"errors":  err.Error(),
			"success": false,
			"status":  400,
		})
	}

	if handled, resp := authorizeTask(c, taskID, userID); handled {
		return resp
	}
	if handled, resp := checkCategoryOwnership(c, userID, req.CategoryID); handled {
		return resp
	}

	if err := repository.UpdateTask(config.DB, taskID, req.Title, req.Notes, req.CategoryID); err != nil {
		logger.ErrorLogger.Error("Error updating task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	myws.Publish(userID, myws.Event{Event: "task_updated", ID: taskID})
	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID), zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Task updated successfully!",
		"success": true,
		"status":  200,
	})
}

// setDone dipakai MarkDone dan UnsetDone; body JSON {"id": <taskID>}.
func setDone(c *fiber.Ctx, done bool) error {
	userID := c.Locals("userID").(int)

	type DoneRequest struct {
		ID int `json:"id" validate:"required"`
	}

	var req DoneRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in mark done", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Bad request",
			"success": false,
			"status":  400,
		})
	}
	if err := config.Validate.Struct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	if handled, resp := authorizeTask(c, req.ID, userID); handled {
		return resp
	}

	// done=true selalu menyegarkan done_at ke waktu sekarang, termasuk
	// saat task sudah selesai (idempoten hanya pada kolom done)
	if err := repository.SetTaskDone(config.DB, req.ID, done); err != nil {
		logger.ErrorLogger.Error("Error updating task done flag", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error updating task",
			"success": false,
			"status":  500,
		})
	}

	event := "task_done"
	if !done {
		event = "task_undone"
	}
	myws.Publish(userID, myws.Event{Event: event, ID: req.ID})
	logger.AuditLogger.Info("Task done flag updated",
		zap.Int("task_id", req.ID), zap.Int("user_id", userID), zap.Bool("done", done))
	return c.JSON(fiber.Map{"ok": true})
}

func MarkDone(c *fiber.Ctx) error {
	return setDone(c, true)
}

func UnsetDone(c *fiber.Ctx) error {
	return setDone(c, false)
}

func DeleteTask(c *fiber.Ctx) error {
	userID := c.Locals("userID").(int)

	taskID, err := c.ParamsInt("id")
	if err != nil {
		logger.ErrorLogger.Error("Invalid task ID", zap.Error(err))
		return c.Status(400).JSON(fiber.Map{
			"message": "Invalid task ID",
			"success": false,
			"status":  400,
		})
	}

	if handled, resp := authorizeTask(c, taskID, userID); handled {
		return resp
	}

	if err := repository.DeleteTask(config.DB, taskID); err != nil {
		logger.ErrorLogger.Error("Error deleting task", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{
			"message": "Error deleting task",
			"success": false,
			"status":  500,
		})
	}

	myws.Publish(userID, myws.Event{Event: "task_deleted", ID: taskID})
	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID), zap.Int("user_id", userID))
	return c.JSON(fiber.Map{
		"message": "Task deleted successfully!",
		"success": true,
		"status":  200,
	})
}
