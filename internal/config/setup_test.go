package config

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunSetupKeepsDefaultsOnEmptyAnswers(t *testing.T) {
	var out bytes.Buffer
	got, err := RunSetup(strings.NewReader(strings.Repeat("\n", 8)), &out, Defaults())
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if got.DayStart != "09:00" || got.PomodoroLength != "25m" || *got.LongBreakEvery != 4 {
		t.Errorf("got %+v", got)
	}
	if !strings.Contains(out.String(), "Day starts at (HH:MM) [09:00]: ") {
		t.Errorf("prompt missing default, got %q", out.String())
	}
}

func TestRunSetupAnswers(t *testing.T) {
	answers := "08:30\n16:00\n50m\n10m\n30m\njson\nreports\n0\n"
	got, err := RunSetup(strings.NewReader(answers), &bytes.Buffer{}, Defaults())
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if got.DayStart != "08:30" || got.DayEnd != "16:00" || got.PomodoroLength != "50m" ||
		got.DefaultFormat != "json" || got.OutputDir != "reports" || *got.LongBreakEvery != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestRunSetupEndOfInputUsesDefaults(t *testing.T) {
	got, err := RunSetup(strings.NewReader("10:00"), &bytes.Buffer{}, Defaults())
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if got.DayStart != "10:00" || got.DayEnd != "17:00" {
		t.Errorf("got %+v", got)
	}
}

func TestRunSetupRejectsInvalidAnswers(t *testing.T) {
	for name, answers := range map[string]string{
		"bad clock":  "9am\n",
		"bad format": "\n\n\n\n\nhtml\n\n\n",
		"bad every":  "\n\n\n\n\n\n\nsome\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := RunSetup(strings.NewReader(answers), &bytes.Buffer{}, Defaults()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSaveGlobalRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c := Defaults()
	c.PomodoroLength = "45m"
	path, err := SaveGlobal(c)
	if err != nil {
		t.Fatalf("SaveGlobal: %v", err)
	}
	if !strings.HasSuffix(path, "config.yaml") {
		t.Errorf("path = %s", path)
	}
	got, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if got.PomodoroLength != "45m" || got.DayStart != "09:00" {
		t.Errorf("got %+v", got)
	}
}
