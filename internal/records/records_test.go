package records

import (
	"sync"
	"testing"

	"github.com/julianstephens/dailyboost/internal/kv"
)

type note struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

func (n note) RecordID() string { return n.ID }

func decodeNote(f Fields) (note, bool) {
	id := f.String("id", "")
	if id == "" {
		return note{}, false
	}
	return note{ID: id, Text: f.String("text", "untitled"), Count: f.Int("count", 1)}, true
}

func newStore(t *testing.T) (*kv.Store, *Store[note]) {
	t.Helper()
	store := kv.New(kv.NewMemory())
	t.Cleanup(func() { store.Close() })
	return store, New(store, "notes_json", decodeNote)
}

func TestLoadAllAbsentKey(t *testing.T) {
	_, s := newStore(t)
	if got := s.LoadAll(); len(got) != 0 || got == nil {
		t.Errorf("LoadAll() = %#v, want empty non-nil slice", got)
	}
}

func TestDecodeTolerance(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []note
	}{
		{name: "unparseable", raw: "{not json", want: nil},
		{name: "not an array", raw: `{"id":"a"}`, want: nil},
		{name: "empty array", raw: "[]", want: nil},
		{
			name: "non-object elements skipped",
			raw:  `[1, "x", null, {"id":"a","text":"hi","count":2}]`,
			want: []note{{ID: "a", Text: "hi", Count: 2}},
		},
		{
			name: "defaults applied",
			raw:  `[{"id":"a"}]`,
			want: []note{{ID: "a", Text: "untitled", Count: 1}},
		},
		{
			name: "numeric strings accepted",
			raw:  `[{"id":"a","count":"7"}]`,
			want: []note{{ID: "a", Text: "untitled", Count: 7}},
		},
		{
			name: "decoder rejection skipped",
			raw:  `[{"text":"no id"},{"id":"b"}]`,
			want: []note{{ID: "b", Text: "untitled", Count: 1}},
		},
	}
	_, s := newStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Decode(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("Decode() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Decode()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCRUD(t *testing.T) {
	store, s := newStore(t)

	if err := s.Add(note{ID: "a", Text: "first", Count: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(note{ID: "b", Text: "second", Count: 2}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ok, err := s.Update(note{ID: "a", Text: "edited", Count: 5})
	if err != nil || !ok {
		t.Fatalf("Update(a) = %v, %v", ok, err)
	}
	if got, _ := s.Find("a"); got.Text != "edited" || got.Count != 5 {
		t.Errorf("Find(a) = %+v after update", got)
	}

	before := store.GetString("notes_json", "")
	ok, err = s.Update(note{ID: "missing"})
	if err != nil || ok {
		t.Errorf("Update(missing) = %v, %v; want false, nil", ok, err)
	}
	if after := store.GetString("notes_json", ""); after != before {
		t.Errorf("Update(missing) rewrote the collection: %s -> %s", before, after)
	}

	ok, err = s.DeleteByID("missing")
	if err != nil || ok {
		t.Errorf("DeleteByID(missing) = %v, %v; want false, nil", ok, err)
	}
	ok, err = s.DeleteByID("a")
	if err != nil || !ok {
		t.Fatalf("DeleteByID(a) = %v, %v", ok, err)
	}

	all := s.LoadAll()
	if len(all) != 1 || all[0].ID != "b" {
		t.Errorf("LoadAll() = %+v, want only b", all)
	}
	if _, found := s.Find("a"); found {
		t.Error("Find(a) found a deleted record")
	}
}

func TestSaveAllEmptyWritesArray(t *testing.T) {
	store, s := newStore(t)
	if err := s.SaveAll(nil); err != nil {
		t.Fatalf("SaveAll(nil) error = %v", err)
	}
	if got := store.GetString("notes_json", ""); got != "[]" {
		t.Errorf("stored = %q, want []", got)
	}
}

func TestConcurrentAddsAreNotLost(t *testing.T) {
	_, s := newStore(t)
	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Add(note{ID: string(rune('A' + i)), Count: i}); err != nil {
				t.Errorf("Add() error = %v", err)
			}
		}(i)
	}
	wg.Wait()
	if got := len(s.LoadAll()); got != n {
		t.Errorf("LoadAll() has %d records, want %d", got, n)
	}
}

func TestFields(t *testing.T) {
	f := Fields{
		"s":     "text",
		"n":     float64(3),
		"ns":    "42",
		"b":     true,
		"bs":    "false",
		"null":  nil,
		"wrong": []any{1},
	}
	if got := f.String("s", "d"); got != "text" {
		t.Errorf("String(s) = %q", got)
	}
	if got := f.String("wrong", "d"); got != "d" {
		t.Errorf("String(wrong) = %q, want default", got)
	}
	if got := f.Int("n", 0); got != 3 {
		t.Errorf("Int(n) = %d", got)
	}
	if got := f.Int("ns", 0); got != 42 {
		t.Errorf("Int(ns) = %d", got)
	}
	if got := f.Int("missing", 9); got != 9 {
		t.Errorf("Int(missing) = %d, want 9", got)
	}
	if !f.Bool("b", false) || f.Bool("bs", true) || !f.Bool("null", true) {
		t.Error("Bool() did not honour values and defaults")
	}
	if f.Has("null") || !f.Has("s") {
		t.Error("Has() mismatch")
	}
	if f.OptString("null") != nil || *f.OptString("s") != "text" {
		t.Error("OptString() mismatch")
	}
}
