package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/dailyboost/internal/hydration"
)

func (handler *Handler) GetHydration(c *fiber.Ctx) error {
	status, err := handler.app.HydrationStatus()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (handler *Handler) Drink(c *fiber.Ctx) error {
	status, err := handler.app.Drink()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(status)
}

func (handler *Handler) UpdateHydrationSettings(c *fiber.Ctx) error {
	input := hydrationSettingsInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	for _, v := range []*int{input.GoalMl, input.DrinkMl} {
		if v != nil && (*v < 1 || *v > hydration.MaxAmountMl) {
			return respondError(c, hydration.ErrInvalidAmount)
		}
	}

	if input.GoalMl != nil {
		if err := handler.app.Water.SetGoalMl(*input.GoalMl); err != nil {
			return respondError(c, err)
		}
	}
	if input.DrinkMl != nil {
		if err := handler.app.Water.SetDrinkMl(*input.DrinkMl); err != nil {
			return respondError(c, err)
		}
	}
	return handler.GetHydration(c)
}
