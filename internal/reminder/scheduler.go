// Package reminder keeps the hydration reminder schedule and reconciles it
// with a periodic job runner.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/jobrunner"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/utils"
)

// JobRunner registers and cancels periodic jobs by name.
type JobRunner interface {
	RegisterPeriodic(name string, interval time.Duration, policy jobrunner.Policy) (bool, error)
	Cancel(name string) error
	// Registered returns the interval name is scheduled at in this runner.
	Registered(name string) (time.Duration, bool)
}

// Notifier posts a user-visible reminder.
type Notifier interface {
	// Permitted reports whether notifications can currently be shown.
	Permitted() bool
	Trigger(title, body, tapDestination string) error
}

// OnReminderDue decides what a job-runner invocation does. A disabled
// schedule does nothing; otherwise the reminder fires once and the next-due
// estimate moves to now + interval.
func OnReminderDue(now time.Time, st State) (fire bool, next State) {
	if !st.Enabled {
		return false, st
	}
	st.NextDueEpochMillis = now.Add(st.Interval()).UnixMilli()
	return true, st
}

// NextLabel summarises st for display, e.g. "Next at 14:30 • Every 2 hours".
func NextLabel(st State, loc *time.Location) string {
	every := everyLabel(st.IntervalMinutes)
	if st.NextDueEpochMillis <= 0 {
		return every
	}
	return fmt.Sprintf("Next at %s • %s", utils.ClockTime(st.NextDue(), loc), every)
}

func everyLabel(minutes int) string {
	if minutes > 0 && minutes%60 == 0 {
		h := minutes / 60
		if h == 1 {
			return "Every 1 hour"
		}
		return fmt.Sprintf("Every %d hours", h)
	}
	if minutes == 1 {
		return "Every 1 minute"
	}
	return fmt.Sprintf("Every %d minutes", minutes)
}

// Scheduler reconciles the stored State with a JobRunner under the
// hydration_periodic task name.
type Scheduler struct {
	state    *StateStore
	runner   JobRunner
	notifier Notifier
	clock    utils.Clock
	loc      *time.Location
}

type Option func(*Scheduler)

func WithClock(c utils.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewScheduler(state *StateStore, runner JobRunner, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		state:    state,
		runner:   runner,
		notifier: notifier,
		clock:    utils.SystemClock,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the stored schedule.
func (s *Scheduler) State() State {
	return s.state.Load()
}

// Enable turns reminders on at interval minutes, replacing any existing
// registration, and sets the next-due estimate one interval from now.
func (s *Scheduler) Enable(interval int) error {
	if err := ValidateInterval(interval); err != nil {
		return err
	}
	unlock := s.state.Lock()
	defer unlock()
	return s.enableLocked(interval)
}

func (s *Scheduler) enableLocked(interval int) error {
	st := State{
		Enabled:            true,
		IntervalMinutes:    interval,
		NextDueEpochMillis: s.clock().Add(time.Duration(interval) * time.Minute).UnixMilli(),
	}
	if err := s.state.Save(st); err != nil {
		return err
	}
	if _, err := s.runner.RegisterPeriodic(constants.ReminderTaskName, st.Interval(), jobrunner.Replace); err != nil {
		return fmt.Errorf("failed to register reminder job: %w", err)
	}
	logger.Info("Reminders enabled", "interval_minutes", interval)
	return nil
}

// Disable turns reminders off, clears the estimate and cancels the job.
// The stored state is written first so it stays consistent if the runner
// fails.
func (s *Scheduler) Disable() error {
	unlock := s.state.Lock()
	defer unlock()
	cur := s.state.Load()
	if err := s.state.Save(State{IntervalMinutes: cur.IntervalMinutes}); err != nil {
		return err
	}
	if err := s.runner.Cancel(constants.ReminderTaskName); err != nil {
		return fmt.Errorf("failed to cancel reminder job: %w", err)
	}
	logger.Info("Reminders disabled")
	return nil
}

// UpdateInterval stores a new interval and, when reminders are on,
// re-registers the job at it.
func (s *Scheduler) UpdateInterval(interval int) error {
	if err := ValidateInterval(interval); err != nil {
		return err
	}
	unlock := s.state.Lock()
	defer unlock()
	if err := s.state.SetInterval(interval); err != nil {
		return err
	}
	if !s.state.Load().Enabled {
		return nil
	}
	return s.enableLocked(interval)
}

// EnsureScheduled restores the job after a restart without disturbing one
// that is still registered. It reports whether a registration was made.
func (s *Scheduler) EnsureScheduled() (bool, error) {
	unlock := s.state.Lock()
	defer unlock()
	st := s.state.Load()
	if !st.Enabled {
		return false, nil
	}
	registered, err := s.runner.RegisterPeriodic(constants.ReminderTaskName, st.Interval(), jobrunner.KeepIfExists)
	if err != nil {
		return false, fmt.Errorf("failed to register reminder job: %w", err)
	}
	if st.NextDueEpochMillis == 0 {
		if err := s.state.SetNextDue(s.clock().Add(st.Interval()).UnixMilli()); err != nil {
			return registered, err
		}
	}
	if registered {
		logger.Info("Reminder job recovered", "interval_minutes", st.IntervalMinutes)
	}
	return registered, nil
}

// Reconcile aligns this process's runner with the stored schedule, which
// another process may have changed. A missing or stale registration is
// replaced, and a registration for a disabled schedule is cancelled. It
// reports whether the registration changed.
func (s *Scheduler) Reconcile() (bool, error) {
	unlock := s.state.Lock()
	defer unlock()
	st := s.state.Load()
	current, ok := s.runner.Registered(constants.ReminderTaskName)

	if !st.Enabled {
		if st.NextDueEpochMillis != 0 {
			if err := s.state.ClearNextDue(); err != nil {
				return false, err
			}
		}
		if !ok {
			return false, nil
		}
		if err := s.runner.Cancel(constants.ReminderTaskName); err != nil {
			return false, fmt.Errorf("failed to cancel reminder job: %w", err)
		}
		logger.Info("Reminder job cancelled to match stored schedule")
		return true, nil
	}

	changed := false
	if !ok || current != st.Interval() {
		if _, err := s.runner.RegisterPeriodic(constants.ReminderTaskName, st.Interval(), jobrunner.Replace); err != nil {
			return false, fmt.Errorf("failed to register reminder job: %w", err)
		}
		changed = true
		logger.Info("Reminder job updated to match stored schedule", "interval_minutes", st.IntervalMinutes)
	}
	if st.NextDueEpochMillis == 0 {
		if err := s.state.SetNextDue(s.clock().Add(st.Interval()).UnixMilli()); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// HandleDue is the job-runner callback. It reports whether a reminder was
// fired. Without notification permission the trigger is skipped but the
// estimate still advances.
func (s *Scheduler) HandleDue(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	unlock := s.state.Lock()
	defer unlock()

	fire, next := OnReminderDue(s.clock(), s.state.Load())
	if !fire {
		return false, nil
	}
	fired := false
	if s.notifier == nil || !s.notifier.Permitted() {
		logger.Warn("Notifications unavailable, skipping reminder")
	} else if err := s.notifier.Trigger(constants.ReminderTitle, constants.ReminderBody, constants.ReminderDestination); err != nil {
		logger.Warn("Failed to show reminder", "error", err)
	} else {
		fired = true
	}
	if err := s.state.SetNextDue(next.NextDueEpochMillis); err != nil {
		return fired, err
	}
	return fired, nil
}

// Job adapts HandleDue to the job runner.
func (s *Scheduler) Job() jobrunner.Job {
	return func(ctx context.Context) error {
		_, err := s.HandleDue(ctx)
		return err
	}
}

// NextLabel formats the stored schedule.
func (s *Scheduler) NextLabel() string {
	return NextLabel(s.state.Load(), s.loc)
}
