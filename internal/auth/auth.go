// Package auth keeps local accounts. It is deliberately trivial: accounts
// only select whose data is shown and never leave the machine.
package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dailyboost/internal/constants"
	apperrors "github.com/julianstephens/dailyboost/internal/errors"
	"github.com/julianstephens/dailyboost/internal/keyring"
	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
	"github.com/julianstephens/dailyboost/internal/models"
	"github.com/julianstephens/dailyboost/internal/records"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

var (
	ErrInvalidEmail     = apperrors.Invalid("email", "not a valid address")
	ErrEmptyName        = apperrors.Invalid("name", "must not be empty")
	ErrShortPassword    = apperrors.Invalid("password", "must be at least %d characters", MinPasswordLength)
	ErrNoAccount        = errors.New("no account for this email")
	ErrWrongCredentials = errors.New("invalid email or password")
)

// ActiveStore remembers which account is signed in.
type ActiveStore interface {
	Get() (string, error)
	Set(value string) error
	Delete() error
}

type Service struct {
	kv     *kv.Store
	users  *records.Store[models.User]
	active ActiveStore
	cost   int
}

type Option func(*Service)

// WithCost sets the bcrypt cost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// New builds the service. active may be nil, in which case the signed-in
// email lives only in the kv store.
func New(store *kv.Store, active ActiveStore, opts ...Option) *Service {
	s := &Service{
		kv:     store,
		users:  records.New(store, constants.KeyUsers, decodeUser),
		active: active,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func decodeUser(f records.Fields) (models.User, bool) {
	u := models.User{
		FullName:     f.String("fullName", ""),
		Email:        NormalizeEmail(f.String("email", "")),
		PasswordHash: f.String("passwordHash", ""),
	}
	return u, u.Email != ""
}

// NormalizeEmail lower-cases and trims raw and returns "" if it is not an
// address.
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ""
	}
	return email
}

// Register creates an account, or updates the one with the same email, and
// signs it in. It reports whether a new account was created.
func (s *Service) Register(fullName, email, password string) (bool, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return false, ErrEmptyName
	}
	email = NormalizeEmail(email)
	if email == "" {
		return false, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return false, ErrShortPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{FullName: fullName, Email: email, PasswordHash: string(hash)}
	created := true
	err = s.users.Mutate(func(users []models.User) ([]models.User, bool) {
		for i := range users {
			if users[i].Email == email {
				users[i] = user
				created = false
				return users, true
			}
		}
		return append(users, user), true
	})
	if err != nil {
		return false, fmt.Errorf("failed to save account: %w", err)
	}
	if err := s.signIn(email, true); err != nil {
		return created, err
	}
	logger.Info("Account registered", "email", email, "created", created)
	return created, nil
}

// SignIn checks the password and makes the account active. remember
// controls whether the session survives as "logged in".
func (s *Service) SignIn(email, password string, remember bool) (models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return models.User{}, ErrInvalidEmail
	}
	user, ok := s.users.Find(email)
	if !ok {
		return models.User{}, ErrNoAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrWrongCredentials
	}
	if err := s.signIn(email, remember); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) signIn(email string, loggedIn bool) error {
	if err := s.setActive(email); err != nil {
		return err
	}
	return s.kv.SetBool(constants.KeyLoggedIn, loggedIn)
}

// Users lists accounts in registration order.
func (s *Service) Users() []models.User {
	return s.users.LoadAll()
}

// User looks up an account by email.
func (s *Service) User(email string) (models.User, bool) {
	return s.users.Find(NormalizeEmail(email))
}

// Current returns the active account.
func (s *Service) Current() (models.User, bool) {
	email := s.activeEmail()
	if email == "" {
		return models.User{}, false
	}
	return s.users.Find(email)
}

// Switch makes an existing account active and logged in.
func (s *Service) Switch(email string) (bool, error) {
	email = NormalizeEmail(email)
	if _, ok := s.users.Find(email); !ok {
		return false, nil
	}
	return true, s.signIn(email, true)
}

// Remove deletes an account. If it was active, the first remaining account
// becomes active.
func (s *Service) Remove(email string) (bool, error) {
	email = NormalizeEmail(email)
	removed, err := s.users.DeleteByID(email)
	if err != nil || !removed {
		return removed, err
	}
	if s.activeEmail() != email {
		return true, nil
	}
	if rest := s.users.LoadAll(); len(rest) > 0 {
		return true, s.setActive(rest[0].Email)
	}
	return true, s.clearActive()
}

// IsLoggedIn reports whether an active account should be treated as signed in.
func (s *Service) IsLoggedIn() bool {
	return s.kv.GetBool(constants.KeyLoggedIn, false) && s.activeEmail() != ""
}

// Logout keeps the active account but marks it signed out.
func (s *Service) Logout() error {
	return s.kv.SetBool(constants.KeyLoggedIn, false)
}

// ClearAll removes every account and the session.
func (s *Service) ClearAll() error {
	for _, key := range []string{constants.KeyUsers, constants.KeyLoggedIn} {
		if err := s.kv.Remove(key); err != nil {
			return fmt.Errorf("failed to clear accounts: %w", err)
		}
	}
	return s.clearActive()
}

func (s *Service) activeEmail() string {
	if s.active != nil {
		v, err := s.active.Get()
		if err == nil {
			return v
		}
		if !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring unavailable, using stored active account", "error", err)
		}
	}
	return s.kv.GetString(constants.KeyActiveAccount, "")
}

func (s *Service) setActive(email string) error {
	if err := s.kv.SetString(constants.KeyActiveAccount, email); err != nil {
		return fmt.Errorf("failed to save active account: %w", err)
	}
	if s.active != nil {
		if err := s.active.Set(email); err != nil {
			logger.Warn("Could not store active account in keyring", "error", err)
		}
	}
	return nil
}

func (s *Service) clearActive() error {
	if err := s.kv.Remove(constants.KeyActiveAccount); err != nil {
		return fmt.Errorf("failed to clear active account: %w", err)
	}
	if s.active != nil {
		if err := s.active.Delete(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("Could not clear keyring", "error", err)
		}
	}
	return nil
}
