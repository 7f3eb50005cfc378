// Package core wires storage, tracking and reminders into the App facade
// the CLI and the HTTP API are built on.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/dailyboost/internal/auth"
	"github.com/julianstephens/dailyboost/internal/backup"
	"github.com/julianstephens/dailyboost/internal/config"
	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/hydration"
	"github.com/julianstephens/dailyboost/internal/jobrunner"
	"github.com/julianstephens/dailyboost/internal/keyring"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/models"
	"github.com/julianstephens/dailyboost/internal/mood"
	"github.com/julianstephens/dailyboost/internal/notifier"
	"github.com/julianstephens/dailyboost/internal/reminder"
	"github.com/julianstephens/dailyboost/internal/tracker"
	"github.com/julianstephens/dailyboost/internal/utils"
)

// ErrNoBackups is returned by Backups for backends without a database file.
var ErrNoBackups = errors.New("backups are only supported with the sqlite backend")

type App struct {
	Config    config.Config
	Store     *kv.Store
	Habits    *tracker.Tracker
	Moods     *mood.Journal
	Water     *hydration.Log
	Accounts  *auth.Service
	Reminders *reminder.Scheduler
	Runner    *jobrunner.Runner
	Notifier  reminder.Notifier

	loc *time.Location
}

type options struct {
	clock    utils.Clock
	store    *kv.Store
	notifier reminder.Notifier
	active   auth.ActiveStore
	runner   *jobrunner.Runner
	authOpts []auth.Option
}

type Option func(*options)

// WithClock pins the wall clock for every component.
func WithClock(c utils.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithStore uses an already opened store instead of opening the configured
// backend.
func WithStore(s *kv.Store) Option {
	return func(o *options) { o.store = s }
}

func WithNotifier(n reminder.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithActiveStore replaces the OS keyring as the signed-in account holder.
func WithActiveStore(a auth.ActiveStore) Option {
	return func(o *options) { o.active = a }
}

func WithRunner(r *jobrunner.Runner) Option {
	return func(o *options) { o.runner = r }
}

func WithAuthOptions(opts ...auth.Option) Option {
	return func(o *options) { o.authOpts = append(o.authOpts, opts...) }
}

// Open builds the App for cfg. The caller must Close it.
func Open(cfg config.Config, opts ...Option) (*App, error) {
	o := options{clock: utils.SystemClock}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		store, err = kv.Open(cfg.Backend, cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.Backend, err)
		}
	}

	n := o.notifier
	if n == nil {
		n = NewNotifier(cfg)
	}
	active := o.active
	if active == nil {
		active = keyring.ActiveAccount()
	}
	runner := o.runner
	if runner == nil {
		runner = jobrunner.New()
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Habits:   tracker.New(store, tracker.WithClock(o.clock), tracker.WithLocation(loc)),
		Moods:    mood.New(store, o.clock, loc),
		Water:    hydration.New(store, o.clock, loc),
		Accounts: auth.New(store, active, o.authOpts...),
		Runner:   runner,
		Notifier: n,
		loc:      loc,
	}
	a.Reminders = reminder.NewScheduler(reminder.NewStateStore(store), runner, n,
		reminder.WithClock(o.clock), reminder.WithLocation(loc))
	runner.Handle(constants.ReminderTaskName, a.Reminders.Job())
	runner.Handle(constants.ReminderSyncTaskName, a.syncReminders)
	return a, nil
}

// NewNotifier picks the notifier named in cfg.
func NewNotifier(cfg config.Config) reminder.Notifier {
	switch cfg.Notifier {
	case constants.NotifierConsole:
		return notifier.Console{W: os.Stdout}
	case constants.NotifierNone:
		return notifier.Disabled{}
	default:
		return notifier.NewTray(notifier.Config{AppIdentifier: cfg.TrayApp})
	}
}

// Start runs the job runner until ctx ends, restores the reminder job and
// keeps it in step with schedule changes made by other processes.
func (a *App) Start(ctx context.Context) error {
	a.Runner.Start(ctx)
	if _, err := a.EnsureReminderScheduleRecovered(); err != nil {
		return err
	}
	if _, err := a.Runner.RegisterPeriodic(constants.ReminderSyncTaskName, constants.ReminderSyncInterval, jobrunner.KeepIfExists); err != nil {
		return fmt.Errorf("failed to register reminder sync: %w", err)
	}
	return nil
}

func (a *App) syncReminders(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.Reminders.Reconcile()
	return err
}

// Close stops background jobs and closes the store.
func (a *App) Close() error {
	a.Runner.Stop()
	return a.Store.Close()
}

func (a *App) Location() *time.Location {
	return a.loc
}

// ResetIfNewDay runs the daily rollover and resets the hydration total.
// Callers run it before reading any aggregate.
func (a *App) ResetIfNewDay() (tracker.Rollover, error) {
	r, err := a.Habits.ResetIfNewDay()
	if err != nil {
		return r, err
	}
	if err := a.Water.EnsureNewDayReset(); err != nil {
		return r, err
	}
	return r, nil
}

func (a *App) ListHabits() []models.Habit {
	return a.Habits.ListHabits()
}

func (a *App) AddHabit(spec models.HabitSpec) (models.Habit, error) {
	return a.Habits.AddHabit(spec)
}

func (a *App) EditHabit(id string, spec models.HabitSpec) (bool, error) {
	return a.Habits.EditHabit(id, spec)
}

func (a *App) DeleteHabit(id string) (bool, error) {
	return a.Habits.DeleteHabit(id)
}

// IncrementCount adds delta to a COUNT habit's progress after rolling the
// day over, so progress always lands on the current day.
func (a *App) IncrementCount(id string, delta int) error {
	if _, err := a.ResetIfNewDay(); err != nil {
		return err
	}
	return a.Habits.IncrementCount(id, delta)
}

func (a *App) SetYesNoDone(id string, done bool) error {
	if _, err := a.ResetIfNewDay(); err != nil {
		return err
	}
	return a.Habits.SetYesNoDone(id, done)
}

func (a *App) TodayPercent() (int, error) {
	if _, err := a.ResetIfNewDay(); err != nil {
		return 0, err
	}
	return a.Habits.TodayPercent(), nil
}

func (a *App) TodayCounts() (done, total int, err error) {
	if _, err := a.ResetIfNewDay(); err != nil {
		return 0, 0, err
	}
	done, total = a.Habits.TodayCounts()
	return done, total, nil
}

func (a *App) CurrentStreak() (int, error) {
	if _, err := a.ResetIfNewDay(); err != nil {
		return 0, err
	}
	return a.Habits.CurrentStreak(), nil
}

// Today is everything the home screen shows.
type Today struct {
	Date       string                 `json:"date"`
	Percent    int                    `json:"percent"`
	Done       int                    `json:"done"`
	Total      int                    `json:"total"`
	Streak     int                    `json:"streak"`
	Habits     []models.Habit         `json:"habits"`
	Hydration  models.HydrationStatus `json:"hydration"`
	MoodAvg    *float64               `json:"moodAverage7d"`
	MoodFace   string                 `json:"moodFace,omitempty"`
	NextRemind string                 `json:"nextReminder"`
}

// Snapshot rolls the day over and gathers Today.
func (a *App) Snapshot() (Today, error) {
	if _, err := a.ResetIfNewDay(); err != nil {
		return Today{}, err
	}
	s := tracker.Summarize(a.Habits.ListHabits())
	t := Today{
		Date:       a.Habits.Today(),
		Percent:    s.Percent,
		Done:       s.Done,
		Total:      s.Total,
		Streak:     a.Habits.CurrentStreak(),
		Habits:     a.Habits.ListHabits(),
		Hydration:  a.Water.Status(),
		MoodAvg:    a.Moods.AverageLast7(),
		NextRemind: a.Reminders.NextLabel(),
	}
	if t.MoodAvg != nil {
		t.MoodFace = models.EmojiForScore(*t.MoodAvg)
	}
	return t, nil
}

func (a *App) AddMood(emoji, note string) (models.MoodEntry, error) {
	return a.Moods.Add(emoji, note)
}

func (a *App) ListMoods() []models.MoodEntry {
	return a.Moods.ListAll()
}

func (a *App) DeleteMood(id string) (bool, error) {
	return a.Moods.Delete(id)
}

func (a *App) EnableReminders(intervalMinutes int) error {
	return a.Reminders.Enable(intervalMinutes)
}

func (a *App) DisableReminders() error {
	return a.Reminders.Disable()
}

func (a *App) UpdateReminderInterval(intervalMinutes int) error {
	return a.Reminders.UpdateInterval(intervalMinutes)
}

// EnsureReminderScheduleRecovered re-registers the reminder job after a
// restart when reminders are enabled. It never replaces a live job.
func (a *App) EnsureReminderScheduleRecovered() (bool, error) {
	registered, err := a.Reminders.EnsureScheduled()
	if err != nil {
		logger.Error("Failed to recover reminder schedule", "error", err)
		return false, err
	}
	return registered, nil
}

func (a *App) NextReminderLabel() string {
	return a.Reminders.NextLabel()
}

func (a *App) ReminderState() reminder.State {
	return a.Reminders.State()
}

func (a *App) Drink() (models.HydrationStatus, error) {
	return a.Water.Drink()
}

func (a *App) HydrationStatus() (models.HydrationStatus, error) {
	if err := a.Water.EnsureNewDayReset(); err != nil {
		return models.HydrationStatus{}, err
	}
	return a.Water.Status(), nil
}

// DatabasePath is the sqlite file, or "" for other backends.
func (a *App) DatabasePath() string {
	if b, ok := a.Store.Backend().(*kv.SQLiteBackend); ok {
		return b.Path()
	}
	if a.Config.Backend == constants.BackendSQLite {
		return filepath.Join(a.Config.DataDir, constants.SQLiteFileName)
	}
	return ""
}

// Backups returns the backup manager for the sqlite database.
func (a *App) Backups() (*backup.Manager, error) {
	path := a.DatabasePath()
	if path == "" {
		return nil, ErrNoBackups
	}
	return backup.NewManager(path), nil
}
