// Package api serves the local JSON API that UI shells drive the core
// through.
package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/core"
	"github.com/julianstephens/dailyboost/internal/logger"
)

type Handler struct {
	app *core.App
}

func NewHandler(app *core.App) *Handler {
	return &Handler{app: app}
}

// NewServer builds the fiber app with every route registered.
func NewServer(app *core.App) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               constants.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	server.Use(recover.New())
	server.Use(requestLogger)
	RegisterRoutes(server, NewHandler(app))
	return server
}

func requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	logger.Debug("HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		status = fe.Code
	}
	if status >= fiber.StatusInternalServerError {
		logger.Error("Request failed", "path", c.Path(), "error", err)
		return apiError(c, status, "internal error")
	}
	return apiError(c, status, err.Error())
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "version": constants.Version})
}
