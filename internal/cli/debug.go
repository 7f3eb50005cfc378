package cli

import (
	"encoding/json"
	"fmt"
	"sort"
)

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	output := map[string]string{
		"backend":  ctx.Config.Backend,
		"data_dir": ctx.Config.DataDir,
		"path":     app.DatabasePath(),
		"config":   ctx.Config.File,
	}
	return printJSON(ctx, output)
}

// DebugDumpCmd prints every stored key. Values holding JSON are embedded
// as JSON, the rest as strings.
type DebugDumpCmd struct {
	Key []string `arg:"" optional:"" help:"Keys to dump; all when omitted."`
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	keys := cmd.Key
	if len(keys) == 0 {
		if keys, err = app.Store.Keys(); err != nil {
			return fmt.Errorf("failed to list keys: %w", err)
		}
	}
	sort.Strings(keys)

	output := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		if !app.Store.Contains(k) {
			continue
		}
		raw := app.Store.GetString(k, "")
		if json.Valid([]byte(raw)) && len(raw) > 0 && (raw[0] == '[' || raw[0] == '{') {
			output[k] = json.RawMessage(raw)
		} else {
			output[k] = raw
		}
	}
	return printJSON(ctx, output)
}

type DebugDumpHabitCmd struct {
	Habit string `arg:"" help:"Habit id, id prefix or title."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	h, err := resolveHabit(app.ListHabits(), cmd.Habit)
	if err != nil {
		return err
	}
	return printJSON(ctx, h)
}

func printJSON(ctx *Context, v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.println(string(jsonBytes))
	return nil
}
