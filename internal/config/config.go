package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/scienceol/keepawake/internal/power"
	"gopkg.in/yaml.v3"
)

// ErrNothingEnabled is returned by Validate when no sleep mode is selected.
var ErrNothingEnabled = errors.New("nothing to keep awake (enable --display, --idle or --sleep)")

type Config struct {
	power.Options `yaml:",inline"`

	LogLevel  string `yaml:"log_level"`
	UpdateURL string `yaml:"update_url"`

	// Path is the config file that was read, empty if none.
	Path string `yaml:"-"`

	flags Flags
}

// Flags carries command-line values. Nil pointers mean "not given".
type Flags struct {
	ConfigPath string
	Display    *bool
	Idle       *bool
	Sleep      *bool
	Reason     *string
	AppName    *string
	LogLevel   *string
}

// Load resolves configuration from flags > env > config file.
func Load(f Flags) (*Config, error) {
	cfg := &Config{flags: f}

	// 1. Load config file as base
	path := f.ConfigPath
	if path == "" {
		path = configFilePath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case f.ConfigPath != "" || !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config: %w", err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		cfg.Path = abs
	}

	// 2. Environment variables override config file
	for _, b := range []struct {
		env string
		dst *bool
	}{
		{"KEEPAWAKE_DISPLAY", &cfg.Display},
		{"KEEPAWAKE_IDLE", &cfg.Idle},
		{"KEEPAWAKE_SLEEP", &cfg.Sleep},
	} {
		if v := os.Getenv(b.env); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", b.env, err)
			}
			*b.dst = parsed
		}
	}
	if v := os.Getenv("KEEPAWAKE_REASON"); v != "" {
		cfg.Reason = v
	}
	if v := os.Getenv("KEEPAWAKE_APP_NAME"); v != "" {
		cfg.AppName = v
	}
	if v := os.Getenv("KEEPAWAKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("KEEPAWAKE_UPDATE_URL"); v != "" {
		cfg.UpdateURL = v
	}

	// 3. CLI flags override everything
	if f.Display != nil {
		cfg.Display = *f.Display
	}
	if f.Idle != nil {
		cfg.Idle = *f.Idle
	}
	if f.Sleep != nil {
		cfg.Sleep = *f.Sleep
	}
	if f.Reason != nil {
		cfg.Reason = *f.Reason
	}
	if f.AppName != nil {
		cfg.AppName = *f.AppName
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// Reload resolves the configuration again with the same flags.
func (c *Config) Reload() (*Config, error) {
	f := c.flags
	if f.ConfigPath == "" {
		f.ConfigPath = c.Path
	}
	next, err := Load(f)
	if err != nil {
		return nil, err
	}
	next.flags = c.flags
	return next, nil
}

// Validate checks that at least one sleep mode is selected.
func (c *Config) Validate() error {
	if !c.Display && !c.Idle && !c.Sleep {
		return ErrNothingEnabled
	}
	return nil
}

// DefaultPath returns ~/.keepawake/config.yaml, or "" if the home directory
// is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".keepawake", "config.yaml")
}

func configFilePath() string {
	p := DefaultPath()
	if p == "" {
		return ""
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
