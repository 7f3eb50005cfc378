package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/dailyboost/internal/models"
)

func (handler *Handler) GetMoods(c *fiber.Ctx) error {
	return c.JSON(handler.app.ListMoods())
}

func (handler *Handler) CreateMood(c *fiber.Ctx) error {
	input := moodInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	entry, err := handler.app.AddMood(input.Emoji, input.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) DeleteMood(c *fiber.Ctx) error {
	removed, err := handler.app.DeleteMood(param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return notFound(c, "mood")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) GetMoodWeek(c *fiber.Ctx) error {
	avg := handler.app.Moods.AverageLast7()
	face := ""
	if avg != nil {
		face = models.EmojiForScore(*avg)
	}
	return c.JSON(fiber.Map{
		"days":    handler.app.Moods.Week(),
		"average": avg,
		"face":    face,
	})
}
