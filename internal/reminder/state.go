package reminder

import (
	"fmt"
	"time"

	"github.com/julianstephens/dailyboost/internal/constants"
	apperrors "github.com/julianstephens/dailyboost/internal/errors"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
)

var ErrInvalidInterval = apperrors.Invalid("interval", "must be between %d and %d minutes",
	constants.MinReminderIntervalMin, constants.MaxReminderIntervalMin)

// ValidateInterval rejects intervals outside 1..1440 minutes.
func ValidateInterval(minutes int) error {
	if minutes < constants.MinReminderIntervalMin || minutes > constants.MaxReminderIntervalMin {
		return ErrInvalidInterval
	}
	return nil
}

// State is the persisted reminder preference. NextDueEpochMillis is 0
// whenever the schedule is disabled or no estimate exists yet.
type State struct {
	Enabled            bool  `json:"enabled"`
	IntervalMinutes    int   `json:"intervalMinutes"`
	NextDueEpochMillis int64 `json:"nextDueEpochMillis"`
}

func (s State) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

// NextDue returns the next-due estimate, or the zero time if unset.
func (s State) NextDue() time.Time {
	if s.NextDueEpochMillis <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.NextDueEpochMillis)
}

// StateStore reads and writes State in the kv store.
type StateStore struct {
	kv *kv.Store
}

func NewStateStore(store *kv.Store) *StateStore {
	return &StateStore{kv: store}
}

// Lock serialises read-modify-write sequences over the reminder keys.
func (s *StateStore) Lock() func() {
	return s.kv.Lock(constants.KeyReminderEnabled, constants.KeyReminderInterval, constants.KeyReminderNextDue)
}

// Load returns the stored state. A stored interval outside the valid range
// is replaced by the default.
func (s *StateStore) Load() State {
	st := State{
		Enabled:            s.kv.GetBool(constants.KeyReminderEnabled, false),
		IntervalMinutes:    s.kv.GetInt(constants.KeyReminderInterval, constants.DefaultReminderIntervalMin),
		NextDueEpochMillis: s.kv.GetInt64(constants.KeyReminderNextDue, 0),
	}
	if ValidateInterval(st.IntervalMinutes) != nil {
		logger.Warn("Ignoring out-of-range reminder interval", "minutes", st.IntervalMinutes)
		st.IntervalMinutes = constants.DefaultReminderIntervalMin
	}
	if st.NextDueEpochMillis < 0 {
		st.NextDueEpochMillis = 0
	}
	return st
}

// Save writes every field of st at once. A zero next-due removes the key.
func (s *StateStore) Save(st State) error {
	err := s.kv.SetMany(map[string]string{
		constants.KeyReminderEnabled:  kv.Bool(st.Enabled),
		constants.KeyReminderInterval: kv.Int(st.IntervalMinutes),
	})
	if err != nil {
		return fmt.Errorf("failed to save reminder state: %w", err)
	}
	if st.NextDueEpochMillis > 0 {
		return s.SetNextDue(st.NextDueEpochMillis)
	}
	return s.ClearNextDue()
}

func (s *StateStore) SetEnabled(enabled bool) error {
	if err := s.kv.SetBool(constants.KeyReminderEnabled, enabled); err != nil {
		return fmt.Errorf("failed to save reminder flag: %w", err)
	}
	return nil
}

func (s *StateStore) SetInterval(minutes int) error {
	if err := ValidateInterval(minutes); err != nil {
		return err
	}
	if err := s.kv.SetInt(constants.KeyReminderInterval, minutes); err != nil {
		return fmt.Errorf("failed to save reminder interval: %w", err)
	}
	return nil
}

func (s *StateStore) SetNextDue(epochMillis int64) error {
	if err := s.kv.SetInt64(constants.KeyReminderNextDue, epochMillis); err != nil {
		return fmt.Errorf("failed to save next reminder: %w", err)
	}
	return nil
}

func (s *StateStore) ClearNextDue() error {
	if err := s.kv.Remove(constants.KeyReminderNextDue); err != nil {
		return fmt.Errorf("failed to clear next reminder: %w", err)
	}
	return nil
}
