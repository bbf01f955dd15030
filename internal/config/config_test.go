package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Feature: pomodouroboros, Property 10: Config merge precedence
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.:-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasPomodoroLength") {
			cfg.PomodoroLength = nonEmptyString.Draw(t, "pomodoroLength")
		}
		if rapid.Bool().Draw(t, "hasDayStart") {
			cfg.DayStart = nonEmptyString.Draw(t, "dayStart")
		}
		if rapid.Bool().Draw(t, "hasOutputDir") {
			cfg.OutputDir = nonEmptyString.Draw(t, "outputDir")
		}
		if rapid.Bool().Draw(t, "hasDSN") {
			cfg.MySQLDSN = nonEmptyString.Draw(t, "dsn")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "PomodoroLength",
			global.PomodoroLength, project.PomodoroLength, defaults.PomodoroLength,
			merged.PomodoroLength)
		checkStringField(t, "DayStart",
			global.DayStart, project.DayStart, defaults.DayStart,
			merged.DayStart)
		checkStringField(t, "OutputDir",
			global.OutputDir, project.OutputDir, defaults.OutputDir,
			merged.OutputDir)
		checkStringField(t, "MySQLDSN",
			global.MySQLDSN, project.MySQLDSN, defaults.MySQLDSN,
			merged.MySQLDSN)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set — expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set — expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set — expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestMergeLongBreakEveryZeroOverrides(t *testing.T) {
	zero := 0
	merged := Merge(nil, &Config{LongBreakEvery: &zero})
	if merged.LongBreakEvery == nil || *merged.LongBreakEvery != 0 {
		t.Errorf("LongBreakEvery: want 0, got %v", merged.LongBreakEvery)
	}
}

func TestDefaultsParse(t *testing.T) {
	d := Defaults()
	s, err := d.Schedule()
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if s.DayStart != 9*time.Hour || s.DayEnd != 17*time.Hour {
		t.Errorf("day bounds: got %s-%s", s.DayStart, s.DayEnd)
	}
	if s.PomodoroLength != 25*time.Minute || s.LongBreakEvery != 4 {
		t.Errorf("schedule: got %+v", s)
	}
	if _, err := d.Policy(); err != nil {
		t.Errorf("Policy: %v", err)
	}
	if tick, err := d.Tick(); err != nil || tick != 100*time.Millisecond {
		t.Errorf("Tick: got %s, %v", tick, err)
	}
}

func TestScheduleRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"bad duration", func(c *Config) { c.PomodoroLength = "soon" }},
		{"bad clock", func(c *Config) { c.DayStart = "9am" }},
		{"inverted day", func(c *Config) { c.DayStart, c.DayEnd = "17:00", "09:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Defaults()
			tt.edit(&c)
			if _, err := c.Schedule(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPolicyRejectsWindowOutOfRange(t *testing.T) {
	c := Defaults()
	c.IntentionWindow = 2
	if _, err := c.Policy(); err == nil {
		t.Error("expected an error for intention_window > 1")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("POM_MYSQL_DSN", "user:pass@tcp(db:3306)/pom")
	c := Defaults()
	c.ApplyEnv()
	if c.MySQLDSN != "user:pass@tcp(db:3306)/pom" {
		t.Errorf("MySQLDSN: got %q", c.MySQLDSN)
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if cfg.PomodoroLength != Defaults().PomodoroLength {
		t.Errorf("PomodoroLength: want %q, got %q", Defaults().PomodoroLength, cfg.PomodoroLength)
	}
}

func TestLoadGlobalYAML(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	dir := filepath.Join(tmp, ".config", "pomodouroboros")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	yamlDoc := "pomodoro_length: 50m\nlong_break_every: 2\nintention_window: 0.5\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.PomodoroLength != "50m" || cfg.IntentionWindow != 0.5 {
		t.Errorf("got %+v", cfg)
	}
	if cfg.LongBreakEvery == nil || *cfg.LongBreakEvery != 2 {
		t.Errorf("LongBreakEvery: got %v", cfg.LongBreakEvery)
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	tmp := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmp); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfgDir := filepath.Join(tmp, ".config", "pomodouroboros")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte("{invalid json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}
