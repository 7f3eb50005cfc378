package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/dailyboost/internal/api"
	"github.com/julianstephens/dailyboost/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd runs the reminder job and the local JSON API until interrupted.
type ServeCmd struct {
	Listen string `help:"Address for the JSON API; overrides the config file."`
}

func (c *ServeCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	listen := c.Listen
	if listen == "" {
		listen = ctx.Config.Listen
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if _, err := app.ResetIfNewDay(); err != nil {
		return err
	}
	if err := app.Start(sigCtx); err != nil {
		return err
	}

	server := api.NewServer(app)
	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}()

	logger.Info("Serving", "listen", listen, "backend", ctx.Config.Backend, "data_dir", ctx.Config.DataDir)
	ctx.printf("dailyboost listening on http://%s\n", listen)
	if app.ReminderState().Enabled {
		ctx.printf("Reminders: %s\n", app.NextReminderLabel())
	}
	if err := server.Listen(listen); err != nil {
		return err
	}
	return nil
}
