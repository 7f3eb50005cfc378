package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/dailyboost/internal/config"
	"github.com/julianstephens/dailyboost/internal/core"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/models"
)

// Context is handed to every command. The App is opened on first use so
// commands such as init run without touching storage.
type Context struct {
	Config     config.Config
	ConfigPath string
	Out        io.Writer
	Options    []core.Option

	app *core.App
}

func (c *Context) App() (*core.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	app, err := core.Open(c.Config, c.Options...)
	if err != nil {
		return nil, err
	}
	c.app = app
	return app, nil
}

// Close releases the App if one was opened.
func (c *Context) Close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// shortID is the id prefix shown in tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// resolveHabit finds a habit by full id, unique id prefix or exact title.
func resolveHabit(habits []models.Habit, ref string) (models.Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Habit{}, fmt.Errorf("habit reference is empty")
	}

	var matches []models.Habit
	for _, h := range habits {
		if h.ID == ref {
			return h, nil
		}
		if strings.HasPrefix(h.ID, ref) || strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("no habit matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		logger.Debug("Ambiguous habit reference", "ref", ref, "matches", len(matches))
		return models.Habit{}, fmt.Errorf("%q matches %d habits, use a longer id", ref, len(matches))
	}
}

// resolveMood finds a mood entry by full id or unique id prefix.
func resolveMood(entries []models.MoodEntry, ref string) (models.MoodEntry, error) {
	ref = strings.TrimSpace(ref)
	var matches []models.MoodEntry
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
		if ref != "" && strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return models.MoodEntry{}, fmt.Errorf("no mood entry matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.MoodEntry{}, fmt.Errorf("%q matches %d entries, use a longer id", ref, len(matches))
	}
}
