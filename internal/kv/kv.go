// Package kv is the persistent key-value layer every other component reads
// and writes through. Values are strings; composite values are JSON encoded
// by the caller.
package kv

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/julianstephens/dailyboost/internal/logger"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("kv: store is closed")

// Backend is a durable mapping from string keys to string values.
// Writes are durable once the call returns.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	// SetMany writes every pair. Backends that support it do so atomically.
	SetMany(values map[string]string) error
	Delete(key string) error
	Keys() ([]string, error)
	Close() error
}

// Store offers typed accessors with caller-supplied defaults over a Backend.
// Read failures and unparseable values degrade to the default and are logged;
// they are never returned to the caller.
type Store struct {
	backend Backend
	locks   *Locker
}

// New wraps backend. The Store owns the backend and closes it on Close.
func New(backend Backend) *Store {
	return &Store{backend: backend, locks: NewLocker()}
}

// Backend exposes the underlying backend, for diagnostics and backups.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close flushes and releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Lock acquires the in-process mutex of every key and returns the release
// function. Keys are locked in sorted order so overlapping callers cannot
// deadlock. Locks are not reentrant.
func (s *Store) Lock(keys ...string) func() {
	return s.locks.Lock(keys...)
}

func (s *Store) raw(key string) (string, bool) {
	v, ok, err := s.backend.Get(key)
	if err != nil {
		logger.Warn("kv read failed, using default", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

// Contains reports whether key holds a value.
func (s *Store) Contains(key string) bool {
	_, ok := s.raw(key)
	return ok
}

func (s *Store) GetString(key, def string) string {
	if v, ok := s.raw(key); ok {
		return v
	}
	return def
}

func (s *Store) SetString(key, value string) error {
	if err := s.backend.Set(key, value); err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

func (s *Store) GetInt(key string, def int) int {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("kv value is not an int, using default", "key", key, "value", v)
		return def
	}
	return n
}

func (s *Store) SetInt(key string, v int) error {
	return s.SetString(key, Int(v))
}

func (s *Store) GetInt64(key string, def int64) int64 {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Warn("kv value is not an int64, using default", "key", key, "value", v)
		return def
	}
	return n
}

func (s *Store) SetInt64(key string, v int64) error {
	return s.SetString(key, Int64(v))
}

func (s *Store) GetBool(key string, def bool) bool {
	v, ok := s.raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("kv value is not a bool, using default", "key", key, "value", v)
		return def
	}
	return b
}

func (s *Store) SetBool(key string, v bool) error {
	return s.SetString(key, Bool(v))
}

// SetMany writes several keys in one backend call.
func (s *Store) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := s.backend.SetMany(values); err != nil {
		return fmt.Errorf("kv: set %d keys: %w", len(values), err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	if err := s.backend.Delete(key); err != nil {
		return fmt.Errorf("kv: remove %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key in sorted order.
func (s *Store) Keys() ([]string, error) {
	keys, err := s.backend.Keys()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Int encodes v the way GetInt decodes it.
func Int(v int) string { return strconv.Itoa(v) }

// Int64 encodes v the way GetInt64 decodes it.
func Int64(v int64) string { return strconv.FormatInt(v, 10) }

// Bool encodes v the way GetBool decodes it.
func Bool(v bool) string { return strconv.FormatBool(v) }

// Locker hands out one mutex per key.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

func (l *Locker) Lock(keys ...string) func() {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			sorted = append(sorted, k)
		}
	}
	sort.Strings(sorted)

	l.mu.Lock()
	mus := make([]*sync.Mutex, len(sorted))
	for i, k := range sorted {
		m, ok := l.locks[k]
		if !ok {
			m = &sync.Mutex{}
			l.locks[k] = m
		}
		mus[i] = m
	}
	l.mu.Unlock()

	for _, m := range mus {
		m.Lock()
	}
	return func() {
		for i := len(mus) - 1; i >= 0; i-- {
			mus[i].Unlock()
		}
	}
}
