// Package tracker owns the habit collection, today's progress and the
// day streak.
package tracker

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/models"
	"github.com/julianstephens/dailyboost/internal/records"
	"github.com/julianstephens/dailyboost/internal/utils"
)

type Tracker struct {
	kv     *kv.Store
	habits *records.Store[models.Habit]
	clock  utils.Clock
	loc    *time.Location
}

type Option func(*Tracker)

// WithClock replaces the wall clock.
func WithClock(c utils.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLocation sets the timezone that defines a calendar day.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func New(store *kv.Store, opts ...Option) *Tracker {
	t := &Tracker{
		kv:    store,
		clock: utils.SystemClock,
		loc:   time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.habits = records.New(store, constants.KeyHabits, DecodeHabit(t.clock))
	return t
}

// DecodeHabit substitutes defaults for missing fields. A habit without an id
// gets a fresh one, which sticks once the collection is next saved.
func DecodeHabit(clock utils.Clock) records.DecodeFunc[models.Habit] {
	return func(f records.Fields) (models.Habit, bool) {
		h := models.Habit{
			ID:            f.String("id", ""),
			Title:         f.String("title", ""),
			Type:          models.HabitCount,
			GoalPerDay:    f.Int("goalPerDay", 1),
			ProgressToday: f.Int("progressToday", 0),
			IsActive:      f.Bool("isActive", true),
			CreatedAt:     f.Int64("createdAt", clock().UnixMilli()),
		}
		if h.ID == "" {
			h.ID = uuid.New().String()
		}
		if typ, err := models.ParseHabitType(f.String("type", "")); err == nil {
			h.Type = typ
		}
		if h.GoalPerDay < 1 {
			h.GoalPerDay = 1
		}
		if h.Type == models.HabitYesNo {
			h.GoalPerDay = 1
		}
		h.ClampProgress()
		return h, true
	}
}

// ListHabits returns every habit in insertion order.
func (t *Tracker) ListHabits() []models.Habit {
	return t.habits.LoadAll()
}

// Habit looks up a single habit.
func (t *Tracker) Habit(id string) (models.Habit, bool) {
	return t.habits.Find(id)
}

// AddHabit validates spec and appends a new habit with zero progress.
func (t *Tracker) AddHabit(spec models.HabitSpec) (models.Habit, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return models.Habit{}, err
	}
	h := models.Habit{
		ID:        uuid.New().String(),
		CreatedAt: t.clock().UnixMilli(),
	}
	spec.Apply(&h)
	if err := t.habits.Add(h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit: %w", err)
	}
	logger.Debug("Habit added", "id", h.ID, "title", h.Title)
	return h, nil
}

// EditHabit applies spec to the habit with id, clamping progress to the new
// goal. It reports false for an unknown id.
func (t *Tracker) EditHabit(id string, spec models.HabitSpec) (bool, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return false, err
	}
	found := false
	err = t.habits.Mutate(func(habits []models.Habit) ([]models.Habit, bool) {
		for i := range habits {
			if habits[i].ID == id {
				spec.Apply(&habits[i])
				found = true
				break
			}
		}
		return habits, found
	})
	if err != nil {
		return false, fmt.Errorf("failed to edit habit: %w", err)
	}
	return found, nil
}

// DeleteHabit removes a habit. Unknown ids are ignored.
func (t *Tracker) DeleteHabit(id string) (bool, error) {
	ok, err := t.habits.DeleteByID(id)
	if err != nil {
		return false, fmt.Errorf("failed to delete habit: %w", err)
	}
	return ok, nil
}

// IncrementCount adds delta (which may be negative) to a COUNT habit,
// keeping progress within [0, goal]. Unknown ids and YES_NO habits are
// ignored.
func (t *Tracker) IncrementCount(id string, delta int) error {
	return t.setProgress(id, models.HabitCount, func(h models.Habit) int {
		return h.ProgressToday + delta
	})
}

// SetYesNoDone marks a YES_NO habit done or not done for today.
func (t *Tracker) SetYesNoDone(id string, done bool) error {
	return t.setProgress(id, models.HabitYesNo, func(models.Habit) int {
		if done {
			return 1
		}
		return 0
	})
}

func (t *Tracker) setProgress(id string, typ models.HabitType, next func(models.Habit) int) error {
	err := t.habits.Mutate(func(habits []models.Habit) ([]models.Habit, bool) {
		for i := range habits {
			h := &habits[i]
			if h.ID != id {
				continue
			}
			if h.Type != typ {
				return habits, false
			}
			before := h.ProgressToday
			h.ProgressToday = next(*h)
			h.ClampProgress()
			return habits, h.ProgressToday != before
		}
		return habits, false
	})
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

// Today returns the current calendar date in the tracker's timezone.
func (t *Tracker) Today() string {
	return utils.DateIn(t.clock(), t.loc)
}

// TodayPercent is the mean completion of active habits, 0-100 rounded down.
func (t *Tracker) TodayPercent() int {
	return Summarize(t.habits.LoadAll()).Percent
}

// TodayCounts returns (active habits at goal, active habits).
func (t *Tracker) TodayCounts() (done, total int) {
	s := Summarize(t.habits.LoadAll())
	return s.Done, s.Total
}

// CurrentStreak returns the number of consecutive completed days up to
// the last rollover.
func (t *Tracker) CurrentStreak() int {
	return t.kv.GetInt(constants.KeyStreak, 0)
}

// LastRolloverDate returns the date of the last rollover, or "" if none.
func (t *Tracker) LastRolloverDate() string {
	return t.kv.GetString(constants.KeyLastOpenDate, "")
}
