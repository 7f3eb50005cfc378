package models

import (
	"strings"
	"time"

	apperrors "github.com/julianstephens/dailyboost/internal/errors"
)

// HabitType selects how progress is recorded for a habit
type HabitType string

const (
	HabitCount HabitType = "COUNT"
	HabitYesNo HabitType = "YES_NO"
)

var (
	ErrEmptyTitle       = apperrors.Invalid("title", "must not be empty")
	ErrInvalidGoal      = apperrors.Invalid("goal", "must be at least 1")
	ErrInvalidHabitType = apperrors.Invalid("type", "must be COUNT or YES_NO")
)

// ParseHabitType accepts the persisted names and a few spellings used on the
// command line ("count", "yes-no", "yesno").
func ParseHabitType(s string) (HabitType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COUNT":
		return HabitCount, nil
	case "YES_NO", "YES-NO", "YESNO", "BOOL":
		return HabitYesNo, nil
	}
	return "", ErrInvalidHabitType
}

// Habit is a daily practice tracked against a per-day goal.
// ProgressToday always stays within [0, GoalPerDay].
type Habit struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Type          HabitType `json:"type"`
	GoalPerDay    int       `json:"goalPerDay"`
	ProgressToday int       `json:"progressToday"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     int64     `json:"createdAt"` // epoch millis
}

func (h Habit) RecordID() string { return h.ID }

// Goal is GoalPerDay floored at 1, so a corrupt goal can never divide by zero.
func (h Habit) Goal() int {
	if h.GoalPerDay < 1 {
		return 1
	}
	return h.GoalPerDay
}

// Done reports whether today's goal has been reached.
func (h Habit) Done() bool {
	return h.ProgressToday >= h.Goal()
}

// Ratio is today's progress as a fraction of the goal, in [0, 1].
func (h Habit) Ratio() float64 {
	return float64(clamp(h.ProgressToday, 0, h.Goal())) / float64(h.Goal())
}

// ClampProgress pulls ProgressToday back into [0, Goal()].
func (h *Habit) ClampProgress() {
	h.ProgressToday = clamp(h.ProgressToday, 0, h.Goal())
}

// Created returns CreatedAt as a time.Time.
func (h Habit) Created() time.Time {
	return time.UnixMilli(h.CreatedAt)
}

// HabitSpec is the user-editable part of a habit.
type HabitSpec struct {
	Title    string
	Type     HabitType
	Goal     int
	IsActive bool
}

// Normalize trims the title, forces YES_NO goals to 1 and validates the rest.
func (s HabitSpec) Normalize() (HabitSpec, error) {
	s.Title = strings.TrimSpace(s.Title)
	if s.Title == "" {
		return s, ErrEmptyTitle
	}
	switch s.Type {
	case HabitCount:
		if s.Goal < 1 {
			return s, ErrInvalidGoal
		}
	case HabitYesNo:
		s.Goal = 1
	default:
		return s, ErrInvalidHabitType
	}
	return s, nil
}

// Apply copies spec onto h and clamps progress to the possibly lowered goal.
func (s HabitSpec) Apply(h *Habit) {
	h.Title = s.Title
	h.Type = s.Type
	h.GoalPerDay = s.Goal
	h.IsActive = s.IsActive
	h.ClampProgress()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
