package cli

import (
	"fmt"

	"github.com/julianstephens/dailyboost/internal/constants"
)

// Reminders fire inside 'dailyboost serve'. A running server re-reads the
// stored schedule every sync interval.
func reminderNote() string {
	return fmt.Sprintf("Reminders fire while 'dailyboost serve' runs; a running server applies changes within %s.",
		constants.ReminderSyncInterval)
}

type ReminderEnableCmd struct {
	Interval int `help:"Minutes between reminders (1-1440)." default:"120"`
}

func (c *ReminderEnableCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.EnableReminders(c.Interval); err != nil {
		return err
	}
	ctx.printf("Reminders on. %s\n", app.NextReminderLabel())
	ctx.println(dimStyle.Render(reminderNote()))
	return nil
}

type ReminderDisableCmd struct{}

func (c *ReminderDisableCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.DisableReminders(); err != nil {
		return err
	}
	ctx.println("Reminders off.")
	ctx.println(dimStyle.Render(reminderNote()))
	return nil
}

type ReminderIntervalCmd struct {
	Minutes int `arg:"" help:"Minutes between reminders (1-1440)."`
}

func (c *ReminderIntervalCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if err := app.UpdateReminderInterval(c.Minutes); err != nil {
		return err
	}
	if app.ReminderState().Enabled {
		ctx.printf("Interval updated. %s\n", app.NextReminderLabel())
		ctx.println(dimStyle.Render(reminderNote()))
	} else {
		ctx.printf("Interval saved; reminders are off.\n")
	}
	return nil
}

type ReminderStatusCmd struct{}

func (c *ReminderStatusCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	st := app.ReminderState()

	tbl := newTable()
	tbl.AddRow("Enabled:", check(st.Enabled))
	tbl.AddRow("Schedule:", app.NextReminderLabel())
	tbl.AddRow("Task:", constants.ReminderTaskName)
	tbl.AddRow("Notifier:", ctx.Config.Notifier)
	ctx.println(tbl)
	return nil
}

// ReminderRecoverCmd repairs the stored schedule after a reboot, filling a
// missing next-due estimate, and re-registers the job in this process. A
// running server follows the repaired state on its next sync. It is safe to
// run any number of times.
type ReminderRecoverCmd struct{}

func (c *ReminderRecoverCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	registered, err := app.EnsureReminderScheduleRecovered()
	if err != nil {
		return err
	}
	switch {
	case !app.ReminderState().Enabled:
		ctx.println("Reminders are off, nothing to recover.")
	case registered:
		ctx.printf("Reminder schedule restored. %s\n", app.NextReminderLabel())
	default:
		ctx.printf("Reminder schedule already active. %s\n", app.NextReminderLabel())
	}
	return nil
}
