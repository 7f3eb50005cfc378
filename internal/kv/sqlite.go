package kv

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/dailyboost/internal/migration"
	"github.com/julianstephens/dailyboost/migrations"
)

// SQLiteBackend keeps the mapping in a single kv table. SetMany runs in one
// transaction.
type SQLiteBackend struct {
	path string
	db   *sql.DB
}

// OpenSQLite opens the database at path, creating it and applying pending
// migrations as needed.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// busy_timeout lets the CLI and a running serve process share the file.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	b := &SQLiteBackend{path: path, db: db}
	if _, err := b.migrator().Apply(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) migrator() *migration.Runner {
	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embedded directory is fixed at build time.
		panic(fmt.Sprintf("kv: sqlite migrations missing: %v", err))
	}
	return migration.NewRunner(b.db, sub)
}

// Path returns the database file path.
func (b *SQLiteBackend) Path() string {
	return b.path
}

// DB returns the underlying connection pool, nil after Close.
func (b *SQLiteBackend) DB() *sql.DB {
	return b.db
}

// SchemaVersion reports the applied and the latest known schema versions.
func (b *SQLiteBackend) SchemaVersion() (current, latest int, err error) {
	if b.db == nil {
		return 0, 0, ErrClosed
	}
	r := b.migrator()
	if current, err = r.CurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = r.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (b *SQLiteBackend) Get(key string) (string, bool, error) {
	if b.db == nil {
		return "", false, ErrClosed
	}
	var value string
	err := b.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

const upsertKV = `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

func (b *SQLiteBackend) Set(key, value string) error {
	if b.db == nil {
		return ErrClosed
	}
	_, err := b.db.Exec(upsertKV, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (b *SQLiteBackend) SetMany(values map[string]string) error {
	if b.db == nil {
		return ErrClosed
	}
	tx, err := b.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertKV)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for k, v := range values {
		if _, err := stmt.Exec(k, v, now); err != nil {
			return fmt.Errorf("write %s: %w", k, err)
		}
	}
	return tx.Commit()
}

func (b *SQLiteBackend) Delete(key string) error {
	if b.db == nil {
		return ErrClosed
	}
	_, err := b.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

func (b *SQLiteBackend) Keys() ([]string, error) {
	if b.db == nil {
		return nil, ErrClosed
	}
	rows, err := b.db.Query("SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
