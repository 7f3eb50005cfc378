package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/dailyboost/internal/constants"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != constants.BackendSQLite || cfg.Listen != constants.DefaultListen || cfg.Notifier != constants.NotifierTray {
		t.Errorf("Load() = %+v", cfg)
	}
	if strings.HasPrefix(cfg.DataDir, "~") {
		t.Errorf("DataDir not expanded: %q", cfg.DataDir)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want empty", cfg.File)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "backend: diskv\ndata_dir: " + filepath.Join(dir, "data") + "\ntimezone: UTC\nlisten: 127.0.0.1:9999\nnotifier: console\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != constants.BackendDiskv || cfg.Timezone != "UTC" || cfg.Listen != "127.0.0.1:9999" || cfg.Notifier != "console" {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.DataDir != filepath.Join(dir, "data") || cfg.File != path {
		t.Errorf("DataDir = %q, File = %q", cfg.DataDir, cfg.File)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DAILYBOOST_BACKEND", "memory")
	t.Setenv("DAILYBOOST_DEBUG", "true")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != constants.BackendMemory || !cfg.Debug {
		t.Errorf("Load() = %+v, want env overrides", cfg)
	}
}

func TestNormalizeRejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "backend", cfg: Config{Backend: "postgres"}, want: "backend"},
		{name: "notifier", cfg: Config{Notifier: "sms"}, want: "notifier"},
		{name: "timezone", cfg: Config{Timezone: "Mars/Olympus"}, want: "timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Normalize()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Normalize() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	written, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if written != path {
		t.Errorf("WriteDefault() = %q, want %q", written, path)
	}
	if _, err := WriteDefault(path); err == nil {
		t.Error("WriteDefault() overwrote an existing file")
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written defaults error = %v", err)
	}
	if cfg.Backend != constants.DefaultBackend {
		t.Errorf("Backend = %q", cfg.Backend)
	}
}
