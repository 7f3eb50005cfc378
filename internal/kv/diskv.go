package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvBackend stores one file per key under a base directory.
//
// The read cache is disabled: the CLI and a running serve process share the
// directory, and a cached value in one process would hide writes made by the
// other. Every write goes through a temp file and a rename, so a single key is
// never observed half written. SetMany is not atomic across keys.
type DiskvBackend struct {
	mu       sync.RWMutex
	d        *diskv.Diskv
	basePath string
	closed   bool
}

// NewDiskv opens (creating if needed) a diskv store rooted at basePath.
func NewDiskv(basePath string) (*DiskvBackend, error) {
	if basePath == "" {
		return nil, errors.New("kv: diskv base path required")
	}
	tempDir := filepath.Join(filepath.Dir(basePath), "."+filepath.Base(basePath)+"-tmp")
	for _, dir := range []string{basePath, tempDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("kv: ensure %s: %w", dir, err)
		}
	}

	return &DiskvBackend{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      tempDir,
			CacheSizeMax: 0,
			PathPerm:     0o700,
			FilePerm:     0o600,
		}),
		basePath: basePath,
	}, nil
}

// BasePath returns the directory holding the key files.
func (b *DiskvBackend) BasePath() string {
	return b.basePath
}

func validDiskvKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("kv: invalid key %q", key)
	}
	return nil
}

func (b *DiskvBackend) Get(key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return "", false, ErrClosed
	}
	if err := validDiskvKey(key); err != nil {
		return "", false, err
	}
	if !b.d.Has(key) {
		return "", false, nil
	}
	val, err := b.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(val), true, nil
}

func (b *DiskvBackend) Set(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeLocked(key, value)
}

func (b *DiskvBackend) writeLocked(key, value string) error {
	if b.closed {
		return ErrClosed
	}
	if err := validDiskvKey(key); err != nil {
		return err
	}
	return b.d.Write(key, []byte(value))
}

func (b *DiskvBackend) SetMany(values map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := b.writeLocked(k, values[k]); err != nil {
			return fmt.Errorf("write %s: %w", k, err)
		}
	}
	return nil
}

func (b *DiskvBackend) Delete(key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if err := validDiskvKey(key); err != nil {
		return err
	}
	if !b.d.Has(key) {
		return nil
	}
	if err := b.d.Erase(key); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (b *DiskvBackend) Keys() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}
	cancel := make(chan struct{})
	defer close(cancel)

	var keys []string
	for key := range b.d.Keys(cancel) {
		keys = append(keys, key)
	}
	return keys, nil
}

func (b *DiskvBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
