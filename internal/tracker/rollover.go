package tracker

import (
	"fmt"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/models"
)

// Summary aggregates today's progress over active habits.
type Summary struct {
	Done    int `json:"done"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Summarize computes the aggregates for habits. Inactive habits are ignored.
func Summarize(habits []models.Habit) Summary {
	var s Summary
	var ratios float64
	for _, h := range habits {
		if !h.IsActive {
			continue
		}
		s.Total++
		if h.Done() {
			s.Done++
		}
		ratios += h.Ratio()
	}
	if s.Total == 0 {
		return s
	}
	// The epsilon keeps e.g. three thirds from flooring to 99.
	s.Percent = int(ratios/float64(s.Total)*100 + 1e-9)
	return s
}

// Complete reports whether at least one habit is active and every active
// habit reached its goal.
func Complete(habits []models.Habit) bool {
	active := false
	for _, h := range habits {
		if !h.IsActive {
			continue
		}
		active = true
		if !h.Done() {
			return false
		}
	}
	return active
}

// Rollover describes the outcome of ResetIfNewDay.
type Rollover struct {
	Date         string `json:"date"`
	PreviousDate string `json:"previousDate,omitempty"`
	Rolled       bool   `json:"rolled"`
	Completed    bool   `json:"completed"`
	Streak       int    `json:"streak"`
}

// ResetIfNewDay closes out the previous day when the calendar date has
// changed since the last call: the streak grows by one if every active
// habit reached its goal and resets to 0 otherwise, and all progress is
// zeroed. The habits, streak and date are written together.
//
// Several skipped days collapse into one transition; the progress still
// stored is judged as "yesterday" whatever its actual age.
func (t *Tracker) ResetIfNewDay() (Rollover, error) {
	unlock := t.kv.Lock(constants.KeyHabits, constants.KeyStreak, constants.KeyLastOpenDate)
	defer unlock()

	today := t.Today()
	last := t.kv.GetString(constants.KeyLastOpenDate, "")
	if last == today {
		return Rollover{Date: today, PreviousDate: last, Streak: t.CurrentStreak()}, nil
	}

	habits := t.habits.Read()
	complete := Complete(habits)
	streak := 0
	if complete {
		streak = t.CurrentStreak() + 1
	}
	for i := range habits {
		habits[i].ProgressToday = 0
	}

	raw, err := t.habits.Encode(habits)
	if err != nil {
		return Rollover{}, err
	}
	err = t.kv.SetMany(map[string]string{
		constants.KeyHabits:       raw,
		constants.KeyStreak:       kv.Int(streak),
		constants.KeyLastOpenDate: today,
	})
	if err != nil {
		return Rollover{}, fmt.Errorf("failed to persist rollover: %w", err)
	}

	logger.Info("Day rolled over", "from", last, "to", today, "complete", complete, "streak", streak)
	return Rollover{
		Date:         today,
		PreviousDate: last,
		Rolled:       true,
		Completed:    complete,
		Streak:       streak,
	}, nil
}
