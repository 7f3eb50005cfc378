package constants

import "time"

// Persisted keys. Composite values are JSON encoded.
const (
	KeyHabits        = "habits_json"
	KeyMoods         = "moods_json"
	KeyLastOpenDate  = "last_open_date"
	KeyStreak        = "streak_days"
	KeyUsers         = "users_json"
	KeyActiveAccount = "active_email"
	KeyLoggedIn      = "is_logged_in"

	KeyReminderEnabled  = "hydration_enabled"
	KeyReminderInterval = "hydration_interval_minutes"
	KeyReminderNextDue  = "hydration_next_epoch_ms"

	KeyHydrationTotal    = "hydration_total_today"
	KeyHydrationGoal     = "hydration_goal_ml"
	KeyHydrationDrink    = "hydration_drink_ml"
	KeyHydrationLastDate = "hydration_last_date"
)

const (
	// ReminderTaskName is the logical name the reminder job is registered under.
	ReminderTaskName = "hydration_periodic"
	// ReminderSyncTaskName re-reads the stored schedule so a long-running
	// process follows changes made by other processes.
	ReminderSyncTaskName = "hydration_sync"
	ReminderSyncInterval = 15 * time.Second

	DefaultReminderIntervalMin = 120
	MinReminderIntervalMin     = 1
	MaxReminderIntervalMin     = 24 * 60

	DefaultHydrationGoalMl  = 2500
	DefaultHydrationDrinkMl = 300

	ReminderTitle       = "Time to drink water 💧"
	ReminderBody        = "Small sips add up. Grab a glass now."
	ReminderDestination = "home"
)
