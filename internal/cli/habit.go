package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailyboost/internal/models"
)

type HabitAddCmd struct {
	Title    string `arg:"" help:"Habit title."`
	Type     string `help:"Habit type (COUNT or YES_NO)." default:"COUNT"`
	Goal     int    `help:"Daily goal for COUNT habits." default:"1"`
	Inactive bool   `help:"Create the habit paused."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	typ, err := models.ParseHabitType(c.Type)
	if err != nil {
		return err
	}
	app, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := app.AddHabit(models.HabitSpec{
		Title:    c.Title,
		Type:     typ,
		Goal:     c.Goal,
		IsActive: !c.Inactive,
	})
	if err != nil {
		return err
	}
	ctx.printf("Added habit: %s (%s)\n", h.Title, shortID(h.ID))
	return nil
}

type HabitListCmd struct {
	ActiveOnly bool `help:"Show only active habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if _, err := app.ResetIfNewDay(); err != nil {
		return err
	}

	habits := app.ListHabits()
	if len(habits) == 0 {
		ctx.println("No habits found")
		return nil
	}

	tbl := newTable()
	tbl.AddRow("ID", "TITLE", "TYPE", "TODAY", "STATUS")
	for _, h := range habits {
		if c.ActiveOnly && !h.IsActive {
			continue
		}
		status := "active"
		if !h.IsActive {
			status = "paused"
		}
		tbl.AddRow(shortID(h.ID), h.Title, string(h.Type), progressText(h), status)
	}
	ctx.println(tbl)
	return nil
}

func progressText(h models.Habit) string {
	if h.Type == models.HabitYesNo {
		return check(h.Done())
	}
	return fmt.Sprintf("%d/%d", h.ProgressToday, h.Goal())
}

type HabitEditCmd struct {
	Habit    string `arg:"" help:"Habit id, id prefix or title."`
	Title    string `help:"New title."`
	Type     string `help:"New type (COUNT or YES_NO)."`
	Goal     int    `help:"New daily goal."`
	Pause    bool   `help:"Stop counting the habit toward the day." xor:"active"`
	Activate bool   `help:"Count the habit toward the day again." xor:"active"`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := resolveHabit(app.ListHabits(), c.Habit)
	if err != nil {
		return err
	}

	spec := models.HabitSpec{
		Title:    h.Title,
		Type:     h.Type,
		Goal:     h.GoalPerDay,
		IsActive: h.IsActive,
	}
	if strings.TrimSpace(c.Title) != "" {
		spec.Title = c.Title
	}
	if c.Type != "" {
		if spec.Type, err = models.ParseHabitType(c.Type); err != nil {
			return err
		}
	}
	if c.Goal != 0 {
		spec.Goal = c.Goal
	}
	if c.Pause {
		spec.IsActive = false
	}
	if c.Activate {
		spec.IsActive = true
	}

	if _, err := app.EditHabit(h.ID, spec); err != nil {
		return err
	}
	ctx.printf("Updated habit: %s\n", spec.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := resolveHabit(app.ListHabits(), c.Habit)
	if err != nil {
		return err
	}
	if _, err := app.DeleteHabit(h.ID); err != nil {
		return err
	}
	ctx.printf("Deleted habit: %s\n", h.Title)
	return nil
}

type HabitIncCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	By    int    `help:"Amount to add; negative values undo." default:"1"`
}

func (c *HabitIncCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := resolveHabit(app.ListHabits(), c.Habit)
	if err != nil {
		return err
	}
	if h.Type != models.HabitCount {
		return fmt.Errorf("%s is a YES_NO habit, use 'habit done'", h.Title)
	}
	if err := app.IncrementCount(h.ID, c.By); err != nil {
		return err
	}
	h, _ = app.Habits.Habit(h.ID)
	ctx.printf("%s: %s\n", h.Title, progressText(h))
	return nil
}

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
	Undo  bool   `help:"Mark as not done."`
}

func (c *HabitDoneCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := resolveHabit(app.ListHabits(), c.Habit)
	if err != nil {
		return err
	}
	if h.Type != models.HabitYesNo {
		return fmt.Errorf("%s is a COUNT habit, use 'habit inc'", h.Title)
	}
	if err := app.SetYesNoDone(h.ID, !c.Undo); err != nil {
		return err
	}
	h, _ = app.Habits.Habit(h.ID)
	ctx.printf("%s: %s\n", h.Title, progressText(h))
	return nil
}
