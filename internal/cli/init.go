package cli

import (
	"errors"
	"os"

	"github.com/spf13/viper"

	"github.com/julianstephens/dailyboost/internal/config"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	path, err := config.WriteDefault(ctx.ConfigPath)
	var exists viper.ConfigFileAlreadyExistsError
	switch {
	case errors.As(err, &exists):
		ctx.printf("Config already exists, leaving it alone\n")
	case err != nil:
		return err
	default:
		ctx.printf("Wrote default config to: %s\n", path)
	}

	if err := os.MkdirAll(ctx.Config.DataDir, 0o700); err != nil {
		return err
	}
	app, err := ctx.App()
	if err != nil {
		return err
	}
	if _, err := app.ResetIfNewDay(); err != nil {
		return err
	}
	ctx.printf("Initialized %s storage in: %s\n", ctx.Config.Backend, ctx.Config.DataDir)
	return nil
}
