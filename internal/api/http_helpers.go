package api

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/julianstephens/dailyboost/internal/errors"
	"github.com/julianstephens/dailyboost/internal/logger"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondError maps validation failures to 400 and everything else to 500.
func respondError(c *fiber.Ctx, err error) error {
	if apperrors.IsValidation(err) {
		return apiError(c, fiber.StatusBadRequest, err.Error())
	}
	logger.Error("Request failed", "path", c.Path(), "error", err)
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func notFound(c *fiber.Ctx, what string) error {
	return apiError(c, fiber.StatusNotFound, what+" not found")
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return errors.New("empty body")
	}
	return c.BodyParser(out)
}

func param(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}
