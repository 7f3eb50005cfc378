package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// Config locates the tray application.
type Config struct {
	// AppIdentifier names the tray's directory under the user config dir.
	AppIdentifier    string
	LockfileName     string
	ExecutablePrefix string
	Timeout          time.Duration
}

func (c Config) withDefaults() Config {
	if c.AppIdentifier == "" {
		c.AppIdentifier = constants.TrayAppIdentifier
	}
	if c.LockfileName == "" {
		c.LockfileName = constants.NotifierLockfileName
	}
	if c.ExecutablePrefix == "" {
		c.ExecutablePrefix = constants.TrayExecutablePrefix
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.NotifyTimeout
	}
	return c
}

// Tray posts reminders to the desktop tray application over its local
// webhook. The tray writes "port|pid|secret" to a lockfile while running.
type Tray struct {
	cfg    Config
	client *http.Client
}

type WebhookPayload struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	Destination string `json:"destination,omitempty"`
	DurationMs  uint32 `json:"duration_ms"`
}

func NewTray(cfg Config) *Tray {
	cfg = cfg.withDefaults()
	return &Tray{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Permitted reports whether a live tray process is available.
func (n *Tray) Permitted() bool {
	return n.Probe() == nil
}

// Probe explains why notifications cannot be delivered, or returns nil.
func (n *Tray) Probe() error {
	_, _, err := n.endpoint()
	return err
}

func (n *Tray) Trigger(title, body, tapDestination string) error {
	port, secret, err := n.endpoint()
	if err != nil {
		return err
	}
	payload := WebhookPayload{
		Title:       title,
		Text:        body,
		Destination: tapDestination,
		DurationMs:  constants.NotificationDurationMs,
	}
	if err := n.send(port, secret, payload); err != nil {
		return err
	}
	logger.Debug("Reminder delivered to tray", "port", port)
	return nil
}

func (n *Tray) endpoint() (string, string, error) {
	dir, err := n.configDir()
	if err != nil {
		return "", "", err
	}
	return n.findTrayProcess(filepath.Join(dir, n.cfg.LockfileName))
}

// configDir returns the directory holding the tray lockfile. The tray may
// override it with settings.lockfile_dir in its settings.json.
func (n *Tray) configDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, n.cfg.AppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Warn("Ignoring unreadable tray settings", "error", err)
		return trayConfigDir, nil
	}
	if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
		return *dir, nil
	}
	return trayConfigDir, nil
}

func (n *Tray) findTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", errors.New("tray app is not running")
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", errors.New("tray process not running")
	}
	if !strings.HasPrefix(process.Executable(), n.cfg.ExecutablePrefix) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, n.cfg.ExecutablePrefix, process.Executable())
	}

	return port, secret, nil
}

func (n *Tray) send(port, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Dailyboost-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

// Console prints reminders to a writer. It is always permitted.
type Console struct {
	W io.Writer
}

func (c Console) Permitted() bool { return true }

func (c Console) Trigger(title, body, tapDestination string) error {
	w := c.W
	if w == nil {
		w = os.Stdout
	}
	_, err := fmt.Fprintf(w, "[%s] %s: %s\n", time.Now().Format(constants.TimeFormat), title, body)
	return err
}

// Disabled never delivers anything.
type Disabled struct{}

func (Disabled) Permitted() bool { return false }

func (Disabled) Trigger(string, string, string) error {
	return errors.New("notifications are disabled")
}
