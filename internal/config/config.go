// Package config locates the timaru directories and loads runtime settings
// from defaults, config.toml and TIMARU_* environment variables, in that
// order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sandeepkv93/timaru/internal/storage"
)

const (
	AppName  = "timaru"
	FileName = "config.toml"
)

var ErrEnvironmentMissing = errors.New("config: neither XDG_CONFIG_HOME nor HOME is set")

type RuntimeConfig struct {
	ConfigDir         string `toml:"-"`
	DBDir             string `toml:"db_dir"`
	IndexPath         string `toml:"index_path"`
	LogLevel          string `toml:"log_level"`
	LogFormat         string `toml:"log_format"`
	FocusWorkMinutes  int    `toml:"focus_work_minutes"`
	FocusBreakMinutes int    `toml:"focus_break_minutes"`
	SchedulerBuffer   int    `toml:"scheduler_buffer"`
	CacheSize         int    `toml:"cache_size"`
	ReminderLead      int    `toml:"reminder_lead_minutes"`
	Timezone          string `toml:"timezone"`
}

// Dir returns $XDG_CONFIG_HOME/timaru, falling back to $HOME/.config/timaru.
func Dir() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	if home := strings.TrimSpace(os.Getenv("HOME")); home != "" {
		return filepath.Join(home, ".config", AppName), nil
	}
	return "", ErrEnvironmentMissing
}

func DefaultRuntimeConfig(configDir string) RuntimeConfig {
	return RuntimeConfig{
		ConfigDir:         configDir,
		DBDir:             filepath.Join(configDir, "db"),
		IndexPath:         filepath.Join(configDir, "index.db"),
		LogLevel:          "warn",
		LogFormat:         "text",
		FocusWorkMinutes:  25,
		FocusBreakMinutes: 5,
		SchedulerBuffer:   64,
		CacheSize:         64,
		ReminderLead:      5,
	}
}

// Load resolves the config directory and layers config.toml and the
// environment over the defaults.
func Load() (RuntimeConfig, error) {
	dir, err := Dir()
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg, err := LoadFile(DefaultRuntimeConfig(dir), filepath.Join(dir, FileName))
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile decodes path over base. A missing file leaves base unchanged.
func LoadFile(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return base, fmt.Errorf("config: loading %s: %w", path, err)
	}
	cfg.DBDir = expandHome(cfg.DBDir)
	cfg.IndexPath = expandHome(cfg.IndexPath)
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TIMARU_DB_DIR"); ok {
		cfg.DBDir = expandHome(v)
	}
	if v, ok := getEnvString("TIMARU_INDEX_PATH"); ok {
		cfg.IndexPath = expandHome(v)
	}
	if v, ok := getEnvString("TIMARU_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := getEnvString("TIMARU_LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := getEnvInt("TIMARU_FOCUS_WORK_MINUTES"); ok && v > 0 {
		cfg.FocusWorkMinutes = v
	}
	if v, ok := getEnvInt("TIMARU_FOCUS_BREAK_MINUTES"); ok && v > 0 {
		cfg.FocusBreakMinutes = v
	}
	if v, ok := getEnvInt("TIMARU_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v, ok := getEnvInt("TIMARU_CACHE_SIZE"); ok && v > 0 {
		cfg.CacheSize = v
	}
	if v, ok := getEnvInt("TIMARU_REMINDER_LEAD_MINUTES"); ok && v >= 0 {
		cfg.ReminderLead = v
	}
	if v, ok := getEnvString("TIMARU_TIMEZONE"); ok {
		cfg.Timezone = v
	}
	return cfg
}

func (c RuntimeConfig) Validate() error {
	if c.DBDir == "" {
		return errors.New("config: db_dir must not be empty")
	}
	if c.FocusWorkMinutes <= 0 || c.FocusBreakMinutes <= 0 {
		return fmt.Errorf("config: focus minutes must be positive, got %d/%d", c.FocusWorkMinutes, c.FocusBreakMinutes)
	}
	if c.SchedulerBuffer <= 0 || c.CacheSize <= 0 {
		return fmt.Errorf("config: scheduler_buffer and cache_size must be positive")
	}
	if c.ReminderLead < 0 {
		return fmt.Errorf("config: reminder_lead_minutes must not be negative, got %d", c.ReminderLead)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured zone, or time.Local when unset.
func (c RuntimeConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Setup creates the config directory, the schedule database directory and
// the index parent directory.
func Setup(cfg RuntimeConfig) error {
	dirs := []string{cfg.ConfigDir, cfg.DBDir}
	if cfg.IndexPath != "" {
		dirs = append(dirs, filepath.Dir(cfg.IndexPath))
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := storage.EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home := os.Getenv("HOME")
	if home == "" {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
