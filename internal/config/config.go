// Package config loads settings from the config file and DAILYBOOST_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/utils"
)

// Keys in the config file.
const (
	KeyDataDir  = "data_dir"
	KeyBackend  = "backend"
	KeyTimezone = "timezone"
	KeyDebug    = "debug"
	KeyListen   = "listen"
	KeyNotifier = "notifier"
	KeyTrayApp  = "tray_app"
)

type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	Backend  string `mapstructure:"backend"`
	Timezone string `mapstructure:"timezone"`
	Debug    bool   `mapstructure:"debug"`
	Listen   string `mapstructure:"listen"`
	Notifier string `mapstructure:"notifier"`
	TrayApp  string `mapstructure:"tray_app"`

	// File is the config file that was read, or "" if none was found.
	File string `mapstructure:"-"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyDataDir, constants.DefaultDataDir)
	v.SetDefault(KeyBackend, constants.DefaultBackend)
	v.SetDefault(KeyTimezone, constants.DefaultTimezone)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyListen, constants.DefaultListen)
	v.SetDefault(KeyNotifier, constants.DefaultNotifier)
	v.SetDefault(KeyTrayApp, constants.TrayAppIdentifier)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads path, or config.yaml in the default config dir when path is
// empty. A missing file is not an error.
func Load(path string) (Config, error) {
	v := newViper()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return Config{}, fmt.Errorf("invalid config path %q: %w", path, err)
		}
		if _, err := os.Stat(expanded); err == nil {
			v.SetConfigFile(expanded)
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to stat config file: %w", err)
		}
	} else {
		dir, err := homedir.Expand(constants.DefaultConfigDir)
		if err != nil {
			return Config{}, fmt.Errorf("failed to resolve config dir: %w", err)
		}
		v.SetConfigName(constants.DefaultConfigName)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.Normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Normalize expands paths and validates enumerations.
func (c *Config) Normalize() error {
	if c.DataDir == "" {
		c.DataDir = constants.DefaultDataDir
	}
	dir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return fmt.Errorf("invalid data dir %q: %w", c.DataDir, err)
	}
	c.DataDir = filepath.Clean(dir)

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "":
		c.Backend = constants.DefaultBackend
	case constants.BackendSQLite, constants.BackendDiskv, constants.BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want sqlite, diskv or memory)", c.Backend)
	}

	c.Notifier = strings.ToLower(strings.TrimSpace(c.Notifier))
	switch c.Notifier {
	case "":
		c.Notifier = constants.DefaultNotifier
	case constants.NotifierTray, constants.NotifierConsole, constants.NotifierNone:
	default:
		return fmt.Errorf("unknown notifier %q (want tray, console or none)", c.Notifier)
	}

	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid timezone %q", c.Timezone)
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// WriteDefault writes a config file holding the defaults to path. It
// refuses to overwrite an existing file.
func WriteDefault(path string) (string, error) {
	if path == "" {
		path = filepath.Join(constants.DefaultConfigDir, constants.DefaultConfigName+".yaml")
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o700); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := newViper().SafeWriteConfigAs(expanded); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return expanded, nil
}
