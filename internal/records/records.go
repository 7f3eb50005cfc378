// Package records keeps typed collections as JSON arrays under a single kv key.
//
// Every mutation is a whole-collection read-modify-write guarded by the
// store's per-key lock. Reads never fail: an absent key is an empty
// collection and an unparseable one is logged and treated as empty.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/dailyboost/internal/kv"
	"github.com/julianstephens/dailyboost/internal/logger"
)

// Record is anything that can be addressed by a stable id.
type Record interface {
	RecordID() string
}

// DecodeFunc builds a record from one decoded JSON object. Returning false
// drops the element.
type DecodeFunc[T Record] func(f Fields) (T, bool)

// Store is a collection of T persisted under one key.
type Store[T Record] struct {
	kv     *kv.Store
	key    string
	decode DecodeFunc[T]
}

func New[T Record](store *kv.Store, key string, decode DecodeFunc[T]) *Store[T] {
	return &Store[T]{kv: store, key: key, decode: decode}
}

func (s *Store[T]) Key() string {
	return s.key
}

// LoadAll returns the whole collection in stored order.
func (s *Store[T]) LoadAll() []T {
	unlock := s.kv.Lock(s.key)
	defer unlock()
	return s.Read()
}

// Read loads the collection without taking the key lock. Callers that
// already hold it (see kv.Store.Lock) use this instead of LoadAll.
func (s *Store[T]) Read() []T {
	return s.Decode(s.kv.GetString(s.key, ""))
}

// Decode parses a stored collection, skipping elements that are not objects
// or that the decoder rejects.
func (s *Store[T]) Decode(raw string) []T {
	if raw == "" {
		return []T{}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		logger.Warn("Discarding unparseable collection", "key", s.key, "error", err)
		return []T{}
	}
	items := make([]T, 0, len(elems))
	for i, elem := range elems {
		f, err := parseFields(elem)
		if err != nil {
			logger.Warn("Skipping malformed record", "key", s.key, "index", i, "error", err)
			continue
		}
		item, ok := s.decode(f)
		if !ok {
			logger.Warn("Skipping rejected record", "key", s.key, "index", i)
			continue
		}
		items = append(items, item)
	}
	return items
}

// Encode serialises items the way Decode expects them.
func (s *Store[T]) Encode(items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", s.key, err)
	}
	return string(b), nil
}

// SaveAll replaces the whole collection.
func (s *Store[T]) SaveAll(items []T) error {
	unlock := s.kv.Lock(s.key)
	defer unlock()
	return s.write(items)
}

func (s *Store[T]) write(items []T) error {
	raw, err := s.Encode(items)
	if err != nil {
		return err
	}
	if err := s.kv.SetString(s.key, raw); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

// Mutate runs fn over the current collection under the key lock and saves
// the result when fn reports a change.
func (s *Store[T]) Mutate(fn func(items []T) ([]T, bool)) error {
	unlock := s.kv.Lock(s.key)
	defer unlock()
	items, changed := fn(s.Read())
	if !changed {
		return nil
	}
	return s.write(items)
}

// Add appends item.
func (s *Store[T]) Add(item T) error {
	return s.Mutate(func(items []T) ([]T, bool) {
		return append(items, item), true
	})
}

// Update replaces the record with item's id. A missing id is a no-op and
// reports false.
func (s *Store[T]) Update(item T) (bool, error) {
	found := false
	err := s.Mutate(func(items []T) ([]T, bool) {
		for i := range items {
			if items[i].RecordID() == item.RecordID() {
				items[i] = item
				found = true
				break
			}
		}
		return items, found
	})
	return found, err
}

// DeleteByID removes every record with id and reports whether any existed.
func (s *Store[T]) DeleteByID(id string) (bool, error) {
	removed := false
	err := s.Mutate(func(items []T) ([]T, bool) {
		kept := items[:0]
		for _, item := range items {
			if item.RecordID() == id {
				removed = true
				continue
			}
			kept = append(kept, item)
		}
		return kept, removed
	})
	return removed, err
}

// Find returns the record with id.
func (s *Store[T]) Find(id string) (T, bool) {
	for _, item := range s.LoadAll() {
		if item.RecordID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func parseFields(elem json.RawMessage) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()
	var f Fields
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("null element")
	}
	return f, nil
}
