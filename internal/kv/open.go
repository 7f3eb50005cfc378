package kv

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/dailyboost/internal/constants"
)

// Open builds the Store for the named backend with its files under dataDir.
func Open(backend, dataDir string) (*Store, error) {
	switch backend {
	case constants.BackendSQLite, "":
		b, err := OpenSQLite(filepath.Join(dataDir, constants.SQLiteFileName))
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case constants.BackendDiskv:
		b, err := NewDiskv(filepath.Join(dataDir, constants.DiskvDirName))
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case constants.BackendMemory:
		return New(NewMemory()), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %s, %s or %s)",
			backend, constants.BackendSQLite, constants.BackendDiskv, constants.BackendMemory)
	}
}
