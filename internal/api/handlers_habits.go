package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/dailyboost/internal/models"
)

func (handler *Handler) GetToday(c *fiber.Ctx) error {
	today, err := handler.app.Snapshot()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(today)
}

func (handler *Handler) GetHabits(c *fiber.Ctx) error {
	if _, err := handler.app.ResetIfNewDay(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(handler.app.ListHabits())
}

func (handler *Handler) GetHabit(c *fiber.Ctx) error {
	if _, err := handler.app.ResetIfNewDay(); err != nil {
		return respondError(c, err)
	}
	habit, ok := handler.app.Habits.Habit(param(c, "id"))
	if !ok {
		return notFound(c, "habit")
	}
	return c.JSON(habit)
}

func (handler *Handler) CreateHabit(c *fiber.Ctx) error {
	input := habitInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	spec := models.HabitSpec{Type: models.HabitCount, Goal: 1, IsActive: true}
	if err := applyHabitInput(&spec, input); err != nil {
		return respondError(c, err)
	}
	habit, err := handler.app.AddHabit(spec)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(habit)
}

func (handler *Handler) UpdateHabit(c *fiber.Ctx) error {
	id := param(c, "id")
	existing, ok := handler.app.Habits.Habit(id)
	if !ok {
		return notFound(c, "habit")
	}

	input := habitInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	spec := models.HabitSpec{
		Title:    existing.Title,
		Type:     existing.Type,
		Goal:     existing.GoalPerDay,
		IsActive: existing.IsActive,
	}
	if err := applyHabitInput(&spec, input); err != nil {
		return respondError(c, err)
	}

	updated, err := handler.app.EditHabit(id, spec)
	if err != nil {
		return respondError(c, err)
	}
	if !updated {
		return notFound(c, "habit")
	}
	habit, _ := handler.app.Habits.Habit(id)
	return c.JSON(habit)
}

func applyHabitInput(spec *models.HabitSpec, input habitInput) error {
	if input.Title != nil {
		spec.Title = *input.Title
	}
	if input.Type != nil {
		t, err := models.ParseHabitType(*input.Type)
		if err != nil {
			return err
		}
		spec.Type = t
	}
	if input.GoalPerDay != nil {
		spec.Goal = *input.GoalPerDay
	}
	if input.IsActive != nil {
		spec.IsActive = *input.IsActive
	}
	return nil
}

func (handler *Handler) DeleteHabit(c *fiber.Ctx) error {
	removed, err := handler.app.DeleteHabit(param(c, "id"))
	if err != nil {
		return respondError(c, err)
	}
	if !removed {
		return notFound(c, "habit")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (handler *Handler) IncrementHabit(c *fiber.Ctx) error {
	input := incrementInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}
	delta := 1
	if input.Delta != nil {
		delta = *input.Delta
	}

	id := param(c, "id")
	if err := handler.app.IncrementCount(id, delta); err != nil {
		return respondError(c, err)
	}
	return handler.respondHabit(c, id)
}

func (handler *Handler) SetHabitDone(c *fiber.Ctx) error {
	input := doneInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	id := param(c, "id")
	if err := handler.app.SetYesNoDone(id, input.Done); err != nil {
		return respondError(c, err)
	}
	return handler.respondHabit(c, id)
}

// respondHabit returns the habit after a progress change. Changes that did
// not apply to the habit's type leave it as it was.
func (handler *Handler) respondHabit(c *fiber.Ctx, id string) error {
	habit, ok := handler.app.Habits.Habit(id)
	if !ok {
		return notFound(c, "habit")
	}
	return c.JSON(habit)
}
