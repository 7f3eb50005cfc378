// Package hydration keeps today's water intake total.
package hydration

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyboost/internal/constants"
	apperrors "github.com/julianstephens/dailyboost/internal/errors"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/models"
	"github.com/julianstephens/dailyboost/internal/utils"
)

// MaxAmountMl bounds goals and drink sizes.
const MaxAmountMl = 20000

var ErrInvalidAmount = apperrors.Invalid("amount", "must be between 1 and %d ml", MaxAmountMl)

type Log struct {
	kv    *kv.Store
	clock utils.Clock
	loc   *time.Location
}

func New(store *kv.Store, clock utils.Clock, loc *time.Location) *Log {
	if clock == nil {
		clock = utils.SystemClock
	}
	if loc == nil {
		loc = time.Local
	}
	return &Log{kv: store, clock: clock, loc: loc}
}

func validAmount(ml int) error {
	if ml < 1 || ml > MaxAmountMl {
		return ErrInvalidAmount
	}
	return nil
}

func (l *Log) lock() func() {
	return l.kv.Lock(constants.KeyHydrationTotal, constants.KeyHydrationLastDate)
}

// EnsureNewDayReset zeroes the total when the calendar date has changed.
func (l *Log) EnsureNewDayReset() error {
	unlock := l.lock()
	defer unlock()
	_, err := l.resetLocked()
	return err
}

func (l *Log) resetLocked() (string, error) {
	today := utils.DateIn(l.clock(), l.loc)
	if l.kv.GetString(constants.KeyHydrationLastDate, "") == today {
		return today, nil
	}
	err := l.kv.SetMany(map[string]string{
		constants.KeyHydrationLastDate: today,
		constants.KeyHydrationTotal:    kv.Int(0),
	})
	if err != nil {
		return "", fmt.Errorf("failed to reset hydration total: %w", err)
	}
	logger.Debug("Hydration total reset", "date", today)
	return today, nil
}

// Drink adds one drink of the configured size.
func (l *Log) Drink() (models.HydrationStatus, error) {
	return l.Add(l.DrinkMl())
}

// Add records ml of water for today.
func (l *Log) Add(ml int) (models.HydrationStatus, error) {
	if err := validAmount(ml); err != nil {
		return models.HydrationStatus{}, err
	}
	unlock := l.lock()
	defer unlock()
	if _, err := l.resetLocked(); err != nil {
		return models.HydrationStatus{}, err
	}
	total := l.kv.GetInt(constants.KeyHydrationTotal, 0) + ml
	if err := l.kv.SetInt(constants.KeyHydrationTotal, total); err != nil {
		return models.HydrationStatus{}, fmt.Errorf("failed to record drink: %w", err)
	}
	return l.status(), nil
}

// Status reports today's intake. A total left over from an earlier day
// reads as 0 without being rewritten.
func (l *Log) Status() models.HydrationStatus {
	return l.status()
}

func (l *Log) status() models.HydrationStatus {
	s := models.HydrationStatus{
		Date:    utils.DateIn(l.clock(), l.loc),
		GoalMl:  l.GoalMl(),
		DrinkMl: l.DrinkMl(),
	}
	if l.kv.GetString(constants.KeyHydrationLastDate, "") == s.Date {
		s.TotalMl = l.kv.GetInt(constants.KeyHydrationTotal, 0)
	}
	s.Percent = s.TotalMl * 100 / s.GoalMl
	if s.Percent > 100 {
		s.Percent = 100
	}
	return s
}

func (l *Log) GoalMl() int {
	if v := l.kv.GetInt(constants.KeyHydrationGoal, constants.DefaultHydrationGoalMl); v >= 1 {
		return v
	}
	return constants.DefaultHydrationGoalMl
}

func (l *Log) DrinkMl() int {
	if v := l.kv.GetInt(constants.KeyHydrationDrink, constants.DefaultHydrationDrinkMl); v >= 1 {
		return v
	}
	return constants.DefaultHydrationDrinkMl
}

func (l *Log) SetGoalMl(ml int) error {
	if err := validAmount(ml); err != nil {
		return err
	}
	return l.kv.SetInt(constants.KeyHydrationGoal, ml)
}

func (l *Log) SetDrinkMl(ml int) error {
	if err := validAmount(ml); err != nil {
		return err
	}
	return l.kv.SetInt(constants.KeyHydrationDrink, ml)
}
