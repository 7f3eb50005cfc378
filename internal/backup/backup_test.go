package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/kv"
)

func setupTestDB(t *testing.T, values map[string]string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), constants.SQLiteFileName)

	b, err := kv.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := b.SetMany(values); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("failed to close test database: %v", err)
	}
	return dbPath
}

func readKey(t *testing.T, dbPath, key string) (string, bool) {
	t.Helper()
	b, err := kv.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer b.Close()

	v, ok, err := b.Get(key)
	if err != nil {
		t.Fatalf("failed to read %s: %v", key, err)
	}
	return v, ok
}

func steppingClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(time.Minute)
		return t
	}
}

func TestCreateBackup(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{constants.KeyStreak: "4"})

	mgr := NewManager(dbPath)
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup failed: %v", err)
	}

	if _, err := os.Stat(backupPath); err != nil {
		t.Fatalf("backup file was not created: %s", backupPath)
	}
	if filepath.Dir(backupPath) != mgr.Dir() {
		t.Errorf("backup written to %s, want dir %s", backupPath, mgr.Dir())
	}
	name := filepath.Base(backupPath)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		t.Errorf("unexpected backup name %q", name)
	}

	if v, ok := readKey(t, backupPath, constants.KeyStreak); !ok || v != "4" {
		t.Errorf("backup streak = %q (present %v), want 4", v, ok)
	}
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.CreateBackup(); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestCreateBackupSameSecond(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{"k": "v"})
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	first, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("first backup: %v", err)
	}
	second, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("second backup: %v", err)
	}
	if first == second {
		t.Fatalf("backups share a path: %s", first)
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("got %d backups, want 2", len(backups))
	}
}

func TestListBackups(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{"k": "v"})
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(steppingClock(start)))

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups on empty dir: %v", err)
	}
	if len(backups) != 0 {
		t.Fatalf("expected no backups, got %d", len(backups))
	}

	for i := 0; i < 3; i++ {
		if _, err := mgr.CreateBackup(); err != nil {
			t.Fatalf("CreateBackup %d: %v", i, err)
		}
	}
	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(mgr.Dir(), "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	backups, err = mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("got %d backups, want 3", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Errorf("backups not sorted newest first: %v then %v", backups[i-1].Timestamp, backups[i].Timestamp)
		}
	}
	if !backups[0].Timestamp.Equal(start.Add(2 * time.Minute)) {
		t.Errorf("newest timestamp = %v, want %v", backups[0].Timestamp, start.Add(2*time.Minute))
	}
	if backups[0].Size == 0 {
		t.Error("backup size is zero")
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{"k": "v"})
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithRetention(2), WithClock(steppingClock(start)))

	var last string
	for i := 0; i < 4; i++ {
		p, err := mgr.CreateBackup()
		if err != nil {
			t.Fatalf("CreateBackup %d: %v", i, err)
		}
		last = p
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("got %d backups after rotation, want 2", len(backups))
	}
	if backups[0].Path != last {
		t.Errorf("newest backup = %s, want %s", backups[0].Path, last)
	}
}

func TestRestoreBackup(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{constants.KeyStreak: "1"})
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.Local)
	mgr := NewManager(dbPath, WithClock(steppingClock(start)))

	backupPath, err := mgr.CreateBackup()
	if err != nil {
		t.Fatalf("CreateBackup: %v", err)
	}

	b, err := kv.OpenSQLite(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Set(constants.KeyStreak, "9"); err != nil {
		t.Fatal(err)
	}
	b.Close()

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		t.Fatalf("RestoreBackup: %v", err)
	}
	if safety == "" {
		t.Fatal("expected a safety backup of the replaced database")
	}

	if v, _ := readKey(t, dbPath, constants.KeyStreak); v != "1" {
		t.Errorf("restored streak = %q, want 1", v)
	}
	if v, _ := readKey(t, safety, constants.KeyStreak); v != "9" {
		t.Errorf("safety backup streak = %q, want 9", v)
	}
}

func TestRestoreBackupErrors(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{"k": "v"})
	mgr := NewManager(dbPath)

	t.Run("missing file", func(t *testing.T) {
		if _, err := mgr.RestoreBackup(filepath.Join(t.TempDir(), "nope.db")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("not a database", func(t *testing.T) {
		bogus := filepath.Join(t.TempDir(), "bogus.db")
		if err := os.WriteFile(bogus, []byte("definitely not sqlite"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := mgr.RestoreBackup(bogus); err == nil {
			t.Fatal("expected error for corrupt backup")
		}
		if v, ok := readKey(t, dbPath, "k"); !ok || v != "v" {
			t.Errorf("database changed after failed restore: %q", v)
		}
	})
}

func TestFind(t *testing.T) {
	dbPath := setupTestDB(t, map[string]string{"k": "v"})
	mgr := NewManager(dbPath)
	p, err := mgr.CreateBackup()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		arg     string
		wantErr bool
	}{
		{"by name", filepath.Base(p), false},
		{"by path", p, false},
		{"unknown", "dailyboost-19990101-000000.db", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mgr.Find(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Find(%q) err = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if !tt.wantErr && got != p && got != filepath.Join(mgr.Dir(), filepath.Base(p)) {
				t.Errorf("Find(%q) = %s", tt.arg, got)
			}
		})
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"dailyboost-20260301-090000.db", true},
		{"dailyboost-20260301-090000-2.db", true},
		{"dailyboost-20260301-090000-x.db", false},
		{"other-20260301-090000.db", false},
		{"dailyboost-20260301.db", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := parseName(tt.name); ok != tt.ok {
				t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			}
		})
	}
}
