package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/dailyboost/internal/cli"
	"github.com/julianstephens/dailyboost/internal/config"
	"github.com/julianstephens/dailyboost/internal/constants"
	apperrors "github.com/julianstephens/dailyboost/internal/errors"
	"github.com/julianstephens/dailyboost/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Config file path." type:"path"`
	DataDir  string `help:"Data directory; overrides the config file." type:"path"`
	Backend  string `help:"Storage backend (sqlite, diskv or memory)."`
	Timezone string `help:"IANA timezone that defines a day."`
	Notifier string `help:"Notifier (tray, console or none)."`
	Debug    bool   `help:"Enable debug logging."`

	Init   cli.InitCmd   `cmd:"" help:"Write a default config and initialize storage."`
	Today  cli.TodayCmd  `cmd:"" help:"Show today's progress." default:"1"`
	Serve  cli.ServeCmd  `cmd:"" help:"Run reminders and the local JSON API."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
	Habit  struct {
		Add    cli.HabitAddCmd    `cmd:"" help:"Add a new habit."`
		List   cli.HabitListCmd   `cmd:"" help:"List all habits."`
		Edit   cli.HabitEditCmd   `cmd:"" help:"Edit an existing habit."`
		Delete cli.HabitDeleteCmd `cmd:"" help:"Delete a habit."`
		Inc    cli.HabitIncCmd    `cmd:"" help:"Add progress to a COUNT habit."`
		Done   cli.HabitDoneCmd   `cmd:"" help:"Mark a YES_NO habit done."`
	} `cmd:"" help:"Manage habits."`
	Mood struct {
		Add    cli.MoodAddCmd    `cmd:"" help:"Log a mood."`
		List   cli.MoodListCmd   `cmd:"" help:"List mood entries, newest first."`
		Delete cli.MoodDeleteCmd `cmd:"" help:"Delete a mood entry."`
		Week   cli.MoodWeekCmd   `cmd:"" help:"Show the last seven days."`
	} `cmd:"" help:"Track mood."`
	Water struct {
		Drink  cli.HydrationDrinkCmd  `cmd:"" help:"Record a drink."`
		Status cli.HydrationStatusCmd `cmd:"" help:"Show today's intake."`
		Goal   cli.HydrationGoalCmd   `cmd:"" help:"Set the daily goal and drink size."`
	} `cmd:"" help:"Track water intake."`
	Reminder struct {
		Enable   cli.ReminderEnableCmd   `cmd:"" help:"Turn hydration reminders on."`
		Disable  cli.ReminderDisableCmd  `cmd:"" help:"Turn hydration reminders off."`
		Interval cli.ReminderIntervalCmd `cmd:"" help:"Change the reminder interval."`
		Status   cli.ReminderStatusCmd   `cmd:"" help:"Show the reminder schedule."`
		Recover  cli.ReminderRecoverCmd  `cmd:"" help:"Restore the reminder job after a reboot."`
	} `cmd:"" help:"Manage hydration reminders."`
	Account struct {
		Register cli.AccountRegisterCmd `cmd:"" help:"Create or update an account."`
		Login    cli.AccountLoginCmd    `cmd:"" help:"Sign in."`
		List     cli.AccountListCmd     `cmd:"" help:"List accounts."`
		Switch   cli.AccountSwitchCmd   `cmd:"" help:"Make another account active."`
		Remove   cli.AccountRemoveCmd   `cmd:"" help:"Remove an account."`
		Logout   cli.AccountLogoutCmd   `cmd:"" help:"Sign out."`
		Clear    cli.AccountClearCmd    `cmd:"" help:"Remove every account."`
	} `cmd:"" help:"Manage local accounts."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage sqlite backups."`
	Inspect struct {
		DBPath    cli.DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show storage paths."`
		Dump      cli.DebugDumpCmd      `cmd:"" help:"Dump stored keys as JSON."`
		DumpHabit cli.DebugDumpHabitCmd `cmd:"" name:"dump-habit" help:"Dump one habit as JSON."`
	} `cmd:"" name:"debug" help:"Inspect stored data."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Daily habits, mood and hydration reminders"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	applyFlags(&cfg)
	if err := cfg.Normalize(); err != nil {
		apperrors.Fatal(err)
	}

	logCfg := logger.Config{
		Debug:   cfg.Debug,
		DataDir: cfg.DataDir,
		Stderr:  ctx.Command() == "serve",
	}
	if err := logger.Init(logCfg); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	appCtx := &cli.Context{
		Config:     cfg,
		ConfigPath: CLI.Config,
		Out:        os.Stdout,
	}
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	if err != nil {
		apperrors.Fatal(err)
	}
}

func applyFlags(cfg *config.Config) {
	if CLI.DataDir != "" {
		cfg.DataDir = CLI.DataDir
	}
	if CLI.Backend != "" {
		cfg.Backend = CLI.Backend
	}
	if CLI.Timezone != "" {
		cfg.Timezone = CLI.Timezone
	}
	if CLI.Notifier != "" {
		cfg.Notifier = CLI.Notifier
	}
	if CLI.Debug {
		cfg.Debug = true
	}
}
