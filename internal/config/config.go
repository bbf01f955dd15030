package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fakeyudi/pomodouroboros/internal/pom"
)

// Config holds all configurable pomodouroboros settings. Durations are Go
// duration strings ("25m"); clock times are "15:04".
type Config struct {
	PomodoroLength  string  `json:"pomodoro_length" yaml:"pomodoro_length"`
	BreakLength     string  `json:"break_length" yaml:"break_length"`
	LongBreakLength string  `json:"long_break_length" yaml:"long_break_length"`
	LongBreakEvery  *int    `json:"long_break_every,omitempty" yaml:"long_break_every,omitempty"` // 0 disables long breaks
	DayStart        string  `json:"day_start" yaml:"day_start"`
	DayEnd          string  `json:"day_end" yaml:"day_end"`
	IntentionWindow float64 `json:"intention_window" yaml:"intention_window"` // fraction of a pomodoro
	BonusLength     string  `json:"bonus_length" yaml:"bonus_length"`
	TickInterval    string  `json:"tick_interval" yaml:"tick_interval"`
	DefaultFormat   string  `json:"default_format" yaml:"default_format"` // "markdown" | "json"
	OutputDir       string  `json:"output_dir" yaml:"output_dir"`
	MySQLDSN        string  `json:"mysql_dsn" yaml:"mysql_dsn"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	every := 4
	return Config{
		PomodoroLength:  "25m",
		BreakLength:     "5m",
		LongBreakLength: "15m",
		LongBreakEvery:  &every,
		DayStart:        "09:00",
		DayEnd:          "17:00",
		IntentionWindow: 1.0 / 3.0,
		BonusLength:     "25m",
		TickInterval:    "100ms",
		DefaultFormat:   "markdown",
		OutputDir:       ".",
	}
}

// LoadGlobal reads ~/.config/pomodouroboros/config.json, config.yaml or
// config.yml, whichever exists first. Returns defaults if none is present.
func LoadGlobal() (*Config, error) {
	dir, err := GlobalDir()
	if err != nil {
		return nil, err
	}
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		cfg, err := loadFile(filepath.Join(dir, name))
		if err != nil || cfg != nil {
			return cfg, err
		}
	}
	d := Defaults()
	return &d, nil
}

// GlobalDir returns the directory holding the global config file.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pomodouroboros"), nil
}

// LoadProject reads .pomrc (JSON) or .pomrc.yaml in the current working
// directory. Returns nil (no error) if neither exists.
func LoadProject() (*Config, error) {
	for _, name := range []string{".pomrc", ".pomrc.yaml"} {
		cfg, err := loadFile(name)
		if err != nil || cfg != nil {
			return cfg, err
		}
	}
	return nil, nil
}

// loadFile reads and parses the config file at path, as YAML when its
// extension says so and as JSON otherwise. Returns nil when the file is absent.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	overlay(&result, global)
	overlay(&result, project)
	return result
}

// overlay copies every non-empty field of src over dst.
func overlay(dst, src *Config) {
	if src == nil {
		return
	}
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&dst.PomodoroLength, src.PomodoroLength)
	setString(&dst.BreakLength, src.BreakLength)
	setString(&dst.LongBreakLength, src.LongBreakLength)
	setString(&dst.DayStart, src.DayStart)
	setString(&dst.DayEnd, src.DayEnd)
	setString(&dst.BonusLength, src.BonusLength)
	setString(&dst.TickInterval, src.TickInterval)
	setString(&dst.DefaultFormat, src.DefaultFormat)
	setString(&dst.OutputDir, src.OutputDir)
	setString(&dst.MySQLDSN, src.MySQLDSN)
	if src.LongBreakEvery != nil {
		every := *src.LongBreakEvery
		dst.LongBreakEvery = &every
	}
	if src.IntentionWindow != 0 {
		dst.IntentionWindow = src.IntentionWindow
	}
}

// ApplyEnv overrides settings from the environment: POM_MYSQL_DSN.
func (c *Config) ApplyEnv() {
	if dsn := os.Getenv("POM_MYSQL_DSN"); dsn != "" {
		c.MySQLDSN = dsn
	}
}

// TestMode reports whether POM_TEST_MODE is set, which selects a compressed
// schedule and a separate data directory.
func TestMode() bool {
	return os.Getenv("POM_TEST_MODE") != ""
}

// Schedule parses the day layout settings.
func (c Config) Schedule() (pom.Schedule, error) {
	var s pom.Schedule
	var err error
	if s.PomodoroLength, err = parseDuration("pomodoro_length", c.PomodoroLength); err != nil {
		return s, err
	}
	if s.BreakLength, err = parseDuration("break_length", c.BreakLength); err != nil {
		return s, err
	}
	if s.LongBreakLength, err = parseDuration("long_break_length", c.LongBreakLength); err != nil {
		return s, err
	}
	if s.DayStart, err = parseClock("day_start", c.DayStart); err != nil {
		return s, err
	}
	if s.DayEnd, err = parseClock("day_end", c.DayEnd); err != nil {
		return s, err
	}
	if c.LongBreakEvery != nil {
		s.LongBreakEvery = *c.LongBreakEvery
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid schedule: %w", err)
	}
	return s, nil
}

// Policy parses the intention and bonus settings.
func (c Config) Policy() (pom.Policy, error) {
	bonus, err := parseDuration("bonus_length", c.BonusLength)
	if err != nil {
		return pom.Policy{}, err
	}
	p := pom.Policy{IntentionWindow: c.IntentionWindow, BonusLength: bonus}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("invalid policy: %w", err)
	}
	return p, nil
}

// Tick returns how often the runner advances the day.
func (c Config) Tick() (time.Duration, error) {
	d, err := parseDuration("tick_interval", c.TickInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("tick_interval must be positive, got %s", d)
	}
	return d, nil
}

func parseDuration(key, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// parseClock turns "15:04" into an offset from midnight.
func parseClock(key, v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("%s: expected HH:MM, got %q", key, v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
