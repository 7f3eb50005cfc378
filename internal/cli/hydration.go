package cli

import (
	"github.com/julianstephens/dailyboost/internal/hydration"
	"github.com/julianstephens/dailyboost/internal/models"
)

type HydrationDrinkCmd struct {
	Ml int `arg:"" optional:"" help:"Amount in ml; defaults to the configured drink size."`
}

func (c *HydrationDrinkCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	var s models.HydrationStatus
	if c.Ml > 0 {
		s, err = app.Water.Add(c.Ml)
	} else {
		s, err = app.Drink()
	}
	if err != nil {
		return err
	}
	printHydration(ctx, s)
	return nil
}

type HydrationStatusCmd struct{}

func (c *HydrationStatusCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	s, err := app.HydrationStatus()
	if err != nil {
		return err
	}
	printHydration(ctx, s)
	return nil
}

type HydrationGoalCmd struct {
	Goal  int `help:"Daily goal in ml."`
	Drink int `help:"Size of one drink in ml."`
}

func (c *HydrationGoalCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	for _, v := range []int{c.Goal, c.Drink} {
		if v != 0 && (v < 1 || v > hydration.MaxAmountMl) {
			return hydration.ErrInvalidAmount
		}
	}
	if c.Goal != 0 {
		if err := app.Water.SetGoalMl(c.Goal); err != nil {
			return err
		}
	}
	if c.Drink != 0 {
		if err := app.Water.SetDrinkMl(c.Drink); err != nil {
			return err
		}
	}
	ctx.printf("Goal %d ml, one drink %d ml\n", app.Water.GoalMl(), app.Water.DrinkMl())
	return nil
}

func printHydration(ctx *Context, s models.HydrationStatus) {
	ctx.printf("%s %3d%%  %d/%d ml\n", progressBar(s.Percent), s.Percent, s.TotalMl, s.GoalMl)
}
