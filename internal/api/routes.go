package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")
	api.Get("/today", handler.GetToday)

	habits := api.Group("/habits")
	habits.Get("", handler.GetHabits)
	habits.Post("", handler.CreateHabit)
	habits.Get("/:id", handler.GetHabit)
	habits.Patch("/:id", handler.UpdateHabit)
	habits.Delete("/:id", handler.DeleteHabit)
	habits.Post("/:id/increment", handler.IncrementHabit)
	habits.Post("/:id/done", handler.SetHabitDone)

	moods := api.Group("/moods")
	moods.Get("", handler.GetMoods)
	moods.Post("", handler.CreateMood)
	moods.Get("/week", handler.GetMoodWeek)
	moods.Delete("/:id", handler.DeleteMood)

	reminders := api.Group("/reminders")
	reminders.Get("", handler.GetReminders)
	reminders.Put("", handler.UpdateReminders)
	reminders.Post("/recover", handler.RecoverReminders)

	hydration := api.Group("/hydration")
	hydration.Get("", handler.GetHydration)
	hydration.Post("/drink", handler.Drink)
	hydration.Put("/settings", handler.UpdateHydrationSettings)

	accounts := api.Group("/accounts")
	accounts.Get("", handler.GetAccounts)
	accounts.Get("/current", handler.GetCurrentAccount)
	accounts.Post("/register", handler.Register)
	accounts.Post("/login", handler.Login)
	accounts.Post("/logout", handler.Logout)
	accounts.Post("/switch", handler.SwitchAccount)
	accounts.Delete("/:email", handler.RemoveAccount)
}
