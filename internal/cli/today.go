package cli

import "fmt"

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	t, err := app.Snapshot()
	if err != nil {
		return err
	}

	ctx.println(titleStyle.Render("Today · " + t.Date))
	ctx.printf("Habits    %s %3d%%  (%d/%d done)\n", progressBar(t.Percent), t.Percent, t.Done, t.Total)
	ctx.printf("Water     %s %3d%%  (%d/%d ml)\n", progressBar(t.Hydration.Percent), t.Hydration.Percent,
		t.Hydration.TotalMl, t.Hydration.GoalMl)
	ctx.printf("Streak    %s\n", streakText(t.Streak))
	if t.MoodAvg != nil {
		ctx.printf("Mood      %s  %.1f avg over 7 days\n", t.MoodFace, *t.MoodAvg)
	} else {
		ctx.printf("Mood      %s\n", dimStyle.Render("no entries this week"))
	}
	if st := app.ReminderState(); st.Enabled {
		ctx.printf("Reminder  %s\n", t.NextRemind)
	} else {
		ctx.printf("Reminder  %s\n", dimStyle.Render("off"))
	}

	if len(t.Habits) > 0 {
		ctx.println()
		tbl := newTable()
		for _, h := range t.Habits {
			if !h.IsActive {
				continue
			}
			tbl.AddRow(check(h.Done()), h.Title, progressText(h))
		}
		ctx.println(tbl)
	}
	return nil
}

func streakText(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}
