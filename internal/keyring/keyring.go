package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dailyboost/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Store holds one secret in the OS keyring under Service/User.
type Store struct {
	Service string
	User    string
}

// ActiveAccount is where the signed-in account email is kept.
func ActiveAccount() Store {
	return Store{Service: constants.AppName, User: constants.DefaultKeyringUser}
}

// Get retrieves the stored value. Returns ErrNotFound if nothing is stored.
func (s Store) Get() (string, error) {
	v, err := keyring.Get(s.Service, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return v, nil
}

// Set stores value, replacing any previous one.
func (s Store) Set(value string) error {
	if value == "" {
		return errors.New("keyring value cannot be empty")
	}
	if err := keyring.Set(s.Service, s.User, value); err != nil {
		return fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return nil
}

// Delete removes the stored value.
func (s Store) Delete() error {
	err := keyring.Delete(s.Service, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is available on the current system.
// This is a best-effort check and may not catch all failure scenarios.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	// ErrNotFound means the keyring answered.
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
