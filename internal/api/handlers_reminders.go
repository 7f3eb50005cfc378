package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/dailyboost/internal/reminder"
)

func (handler *Handler) reminderResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"state": handler.app.ReminderState(),
		"label": handler.app.NextReminderLabel(),
	})
}

func (handler *Handler) GetReminders(c *fiber.Ctx) error {
	return handler.reminderResponse(c)
}

// UpdateReminders toggles reminders and changes the interval. Sending only
// an interval updates it without changing whether reminders are on.
func (handler *Handler) UpdateReminders(c *fiber.Ctx) error {
	input := reminderInput{}
	if err := parseBody(c, &input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	var err error
	switch {
	case input.Enabled != nil && *input.Enabled:
		interval := handler.app.ReminderState().IntervalMinutes
		if input.IntervalMinutes != nil {
			interval = *input.IntervalMinutes
		}
		err = handler.app.EnableReminders(interval)
	case input.Enabled != nil:
		if input.IntervalMinutes != nil {
			err = reminder.ValidateInterval(*input.IntervalMinutes)
		}
		if err == nil {
			err = handler.app.DisableReminders()
		}
		if err == nil && input.IntervalMinutes != nil {
			err = handler.app.UpdateReminderInterval(*input.IntervalMinutes)
		}
	case input.IntervalMinutes != nil:
		err = handler.app.UpdateReminderInterval(*input.IntervalMinutes)
	default:
		return apiError(c, fiber.StatusBadRequest, "nothing to update")
	}
	if err != nil {
		return respondError(c, err)
	}
	return handler.reminderResponse(c)
}

func (handler *Handler) RecoverReminders(c *fiber.Ctx) error {
	registered, err := handler.app.EnsureReminderScheduleRecovered()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"registered": registered,
		"state":      handler.app.ReminderState(),
		"label":      handler.app.NextReminderLabel(),
	})
}
