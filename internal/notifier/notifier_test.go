package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailyboost/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func withConfigDir(t *testing.T, dir string) {
	t.Helper()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
}

func withProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	withConfigDir(t, tempDir)
	n := NewTray(Config{})

	want := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := n.configDir()
	if err != nil || dir != want {
		t.Fatalf("configDir() = %q, %v; want %q", dir, err, want)
	}

	if err := os.MkdirAll(want, 0o755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/dailyboost/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := n.configDir(); dir != customDir {
		t.Errorf("configDir() with settings = %q, want %q", dir, customDir)
	}

	if err := os.WriteFile(filepath.Join(want, "settings.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, _ := n.configDir(); dir != want {
		t.Errorf("configDir() with broken settings = %q, want %q", dir, want)
	}
}

func TestFindTrayProcess(t *testing.T) {
	tests := []struct {
		name       string
		lockfile   *string
		executable string
		wantErr    string
	}{
		{name: "missing lockfile", executable: "dailyboost-tray", wantErr: "not running"},
		{name: "two part lockfile", lockfile: ptr("8080|12345"), wantErr: "malformed"},
		{name: "garbage", lockfile: ptr("invalid"), wantErr: "malformed"},
		{name: "empty secret", lockfile: ptr("8080|12345|"), wantErr: "secret"},
		{name: "empty port", lockfile: ptr("|12345|s3cret"), wantErr: "port"},
		{name: "port out of range", lockfile: ptr("99999|12345|s3cret"), wantErr: "range"},
		{name: "bad pid", lockfile: ptr("8080|abc|s3cret"), wantErr: "process ID"},
		{name: "process gone", lockfile: ptr("8080|12345|s3cret"), executable: "", wantErr: "not running"},
		{name: "wrong executable", lockfile: ptr("8080|12345|s3cret"), executable: "other-app", wantErr: "is not"},
		{name: "ok", lockfile: ptr("8080|12345|s3cret\n"), executable: "dailyboost-tray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), constants.NotifierLockfileName)
			if tt.lockfile != nil {
				if err := os.WriteFile(path, []byte(*tt.lockfile), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			withProcess(t, tt.executable)

			port, secret, err := NewTray(Config{}).findTrayProcess(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("findTrayProcess() error = %v, want mention of %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("findTrayProcess() error = %v", err)
			}
			if port != "8080" || secret != "s3cret" {
				t.Errorf("findTrayProcess() = %q, %q", port, secret)
			}
		})
	}
}

func TestTrigger(t *testing.T) {
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Dailyboost-Secret") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if got.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	port := server.URL[strings.LastIndex(server.URL, ":")+1:]

	configDir := t.TempDir()
	withConfigDir(t, configDir)
	withProcess(t, "dailyboost-tray")
	lockDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := filepath.Join(lockDir, constants.NotifierLockfileName)
	if err := os.WriteFile(lock, []byte(port+"|4242|s3cret"), 0o644); err != nil {
		t.Fatal(err)
	}

	n := NewTray(Config{})
	if !n.Permitted() {
		t.Fatalf("Permitted() = false: %v", n.Probe())
	}
	if err := n.Trigger(constants.ReminderTitle, constants.ReminderBody, constants.ReminderDestination); err != nil {
		t.Fatalf("Trigger() error = %v", err)
	}
	if got.Title != constants.ReminderTitle || got.Destination != constants.ReminderDestination || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload = %+v", got)
	}
	if err := n.Trigger("t", "fail", ""); err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("Trigger() on server error = %v", err)
	}

	if err := os.WriteFile(lock, []byte(port+"|4242|wrong"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := n.Trigger("t", "b", ""); err == nil {
		t.Error("Trigger() with wrong secret succeeded")
	}

	os.Remove(lock)
	if n.Permitted() {
		t.Error("Permitted() = true without a lockfile")
	}
}

func TestConsoleAndDisabled(t *testing.T) {
	var buf bytes.Buffer
	c := Console{W: &buf}
	if !c.Permitted() {
		t.Error("Console.Permitted() = false")
	}
	if err := c.Trigger("Title", "Body", "home"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Title: Body") {
		t.Errorf("console output = %q", buf.String())
	}

	var d Disabled
	if d.Permitted() || d.Trigger("a", "b", "c") == nil {
		t.Error("Disabled notifier delivered")
	}
}

func ptr(s string) *string { return &s }
