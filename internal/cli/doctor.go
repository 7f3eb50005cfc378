package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailyboost/internal/core"
	"github.com/julianstephens/dailyboost/internal/keyring"
	"github.com/julianstephens/dailyboost/internal/kv"
)

var keyringAvailable = keyring.IsAvailable

type checkResult int

const (
	checkOK checkResult = iota
	checkWarn
	checkFail
	checkSkip
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, res checkResult, detail string) {
		switch res {
		case checkOK:
			ctx.printf("%s %s: OK\n", okStyle.Render("✓"), name)
		case checkWarn:
			ctx.printf("%s %s: WARNING\n", warnStyle.Render("⚠"), name)
		case checkFail:
			ctx.printf("%s %s: FAIL\n", failStyle.Render("✗"), name)
			hasError = true
		case checkSkip:
			ctx.printf("%s %s: SKIPPED\n", dimStyle.Render("⊘"), name)
		}
		if detail != "" {
			ctx.printf("   %s\n", detail)
		}
	}

	app, err := ctx.App()
	if err != nil {
		report("Storage reachable", checkFail, err.Error())
		ctx.println()
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	if err := checkStorage(app); err != nil {
		report("Storage reachable", checkFail, err.Error())
	} else {
		report("Storage reachable", checkOK, fmt.Sprintf("%s backend in %s", ctx.Config.Backend, ctx.Config.DataDir))
	}

	res, detail := checkSchema(app)
	report("Schema version", res, detail)

	res, detail = checkBackups(app)
	report("Backups present", res, detail)

	res, detail = checkData(app)
	report("Data readable", res, detail)

	res, detail = checkReminder(app)
	report("Reminder schedule", res, detail)

	res, detail = checkNotifier(app)
	report("Notifications", res, detail)

	if keyringAvailable() {
		report("OS keyring", checkOK, "")
	} else {
		report("OS keyring", checkWarn, "unavailable, the active account is kept in the data store")
	}

	res, detail = checkClock(app)
	report("Clock/timezone", res, detail)

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkStorage(app *core.App) error {
	if b, ok := app.Store.Backend().(*kv.SQLiteBackend); ok {
		var result int
		if err := b.DB().QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
		return nil
	}
	if _, err := app.Store.Keys(); err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	return nil
}

func checkSchema(app *core.App) (checkResult, string) {
	b, ok := app.Store.Backend().(*kv.SQLiteBackend)
	if !ok {
		return checkSkip, "no schema for this backend"
	}
	current, latest, err := b.SchemaVersion()
	if err != nil {
		return checkFail, err.Error()
	}
	switch {
	case current > latest:
		return checkFail, fmt.Sprintf("database schema version (%d) is newer than supported version (%d)", current, latest)
	case current < latest:
		return checkFail, fmt.Sprintf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return checkOK, fmt.Sprintf("version %d", current)
}

func checkBackups(app *core.App) (checkResult, string) {
	mgr, err := app.Backups()
	if errors.Is(err, core.ErrNoBackups) {
		return checkSkip, "backups need the sqlite backend"
	}
	if err != nil {
		return checkWarn, err.Error()
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return checkWarn, fmt.Sprintf("failed to list backups: %v", err)
	}
	if len(backups) == 0 {
		return checkWarn, "no backups found - consider creating one with 'dailyboost backup create'"
	}
	return checkOK, fmt.Sprintf("%d backups, newest %s", len(backups), backups[0].Timestamp.Format("2006-01-02 15:04"))
}

func checkData(app *core.App) (checkResult, string) {
	habits := app.ListHabits()
	seen := make(map[string]bool, len(habits))
	for _, h := range habits {
		if seen[h.ID] {
			return checkFail, fmt.Sprintf("duplicate habit ID found: %s", h.ID)
		}
		seen[h.ID] = true
	}
	last := app.Habits.LastRolloverDate()
	if last == "" {
		last = "never"
	}
	return checkOK, fmt.Sprintf("%d habits, %d mood entries, streak %d, last rollover %s",
		len(habits), len(app.ListMoods()), app.Habits.CurrentStreak(), last)
}

func checkReminder(app *core.App) (checkResult, string) {
	st := app.ReminderState()
	if !st.Enabled {
		return checkOK, "reminders are off"
	}
	if st.NextDueEpochMillis == 0 {
		return checkWarn, "enabled without a next reminder; run 'dailyboost reminder recover'"
	}
	if late := time.Since(st.NextDue()); late > st.Interval() {
		return checkWarn, fmt.Sprintf("last reminder is overdue by %s; is 'dailyboost serve' running?", late.Round(time.Minute))
	}
	return checkOK, app.NextReminderLabel()
}

func checkNotifier(app *core.App) (checkResult, string) {
	if p, ok := app.Notifier.(interface{ Probe() error }); ok {
		if err := p.Probe(); err != nil {
			return checkWarn, err.Error()
		}
		return checkOK, "tray app reachable"
	}
	if !app.Notifier.Permitted() {
		return checkWarn, "notifications are disabled in the config"
	}
	return checkOK, app.Config.Notifier
}

func checkClock(app *core.App) (checkResult, string) {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return checkFail, fmt.Sprintf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return checkOK, fmt.Sprintf("today is %s in %s", app.Habits.Today(), app.Location())
}
