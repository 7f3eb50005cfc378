package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/dailyboost/internal/models"
)

type MoodAddCmd struct {
	Emoji string `arg:"" optional:"" help:"Mood emoji, or a score from 1 to 5."`
	Note  string `short:"n" help:"Optional note."`
}

func (c *MoodAddCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	emoji := strings.TrimSpace(c.Emoji)
	if len(emoji) == 1 && emoji[0] >= '1' && emoji[0] <= '5' {
		emoji = models.MoodFaces[emoji[0]-'1']
	}
	e, err := app.AddMood(emoji, c.Note)
	if err != nil {
		return err
	}
	ctx.printf("Logged %s at %s\n", e.Emoji, e.Time().In(app.Location()).Format("15:04"))
	return nil
}

type MoodListCmd struct {
	Limit int `help:"Show at most this many entries (0 for all)." default:"20"`
}

func (c *MoodListCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	entries := app.ListMoods()
	if len(entries) == 0 {
		ctx.println("No mood entries")
		return nil
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}

	tbl := newTable()
	tbl.AddRow("ID", "WHEN", "MOOD", "NOTE")
	for _, e := range entries {
		note := ""
		if e.Note != nil {
			note = *e.Note
		}
		tbl.AddRow(shortID(e.ID), e.Time().In(app.Location()).Format("2006-01-02 15:04"), e.Emoji, note)
	}
	ctx.println(tbl)
	return nil
}

type MoodDeleteCmd struct {
	ID string `arg:"" help:"Entry id or id prefix."`
}

func (c *MoodDeleteCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	e, err := resolveMood(app.ListMoods(), c.ID)
	if err != nil {
		return err
	}
	if _, err := app.DeleteMood(e.ID); err != nil {
		return err
	}
	ctx.printf("Deleted mood entry %s\n", shortID(e.ID))
	return nil
}

type MoodWeekCmd struct{}

func (c *MoodWeekCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}

	tbl := newTable()
	for _, d := range app.Moods.Week() {
		face := dimStyle.Render("-")
		avg := ""
		if d.Count > 0 {
			face = models.EmojiForScore(d.Average)
			avg = fmt.Sprintf("%.1f", d.Average)
		}
		tbl.AddRow(d.Weekday, d.Date, face, avg)
	}
	ctx.println(tbl)

	if avg := app.Moods.AverageLast7(); avg != nil {
		ctx.printf("\n7-day average: %.1f %s\n", *avg, models.EmojiForScore(*avg))
	}
	return nil
}
