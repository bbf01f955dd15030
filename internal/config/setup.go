package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RunSetup asks for the main settings on w, reading answers from r. Each
// prompt defaults to the value in existing; the answers are validated before
// they are returned.
func RunSetup(r io.Reader, w io.Writer, existing Config) (Config, error) {
	br := bufio.NewReader(r)
	ask := func(prompt, defaultVal string) (string, error) {
		if defaultVal != "" {
			fmt.Fprintf(w, "%s [%s]: ", prompt, defaultVal)
		} else {
			fmt.Fprintf(w, "%s: ", prompt)
		}
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return defaultVal, nil
		}
		return line, nil
	}

	c := existing
	var err error
	for _, q := range []struct {
		prompt string
		dst    *string
	}{
		{"Day starts at (HH:MM)", &c.DayStart},
		{"Day ends at (HH:MM)", &c.DayEnd},
		{"Pomodoro length", &c.PomodoroLength},
		{"Break length", &c.BreakLength},
		{"Long break length", &c.LongBreakLength},
		{"Report format (markdown/json)", &c.DefaultFormat},
		{"Report output directory", &c.OutputDir},
	} {
		if *q.dst, err = ask(q.prompt, *q.dst); err != nil {
			return c, err
		}
	}

	every := 0
	if c.LongBreakEvery != nil {
		every = *c.LongBreakEvery
	}
	ans, err := ask("Long break every N breaks (0 for never)", strconv.Itoa(every))
	if err != nil {
		return c, err
	}
	if every, err = strconv.Atoi(ans); err != nil {
		return c, fmt.Errorf("long break frequency: %w", err)
	}
	c.LongBreakEvery = &every

	if c.DefaultFormat != "markdown" && c.DefaultFormat != "json" {
		return c, fmt.Errorf("report format must be markdown or json, got %q", c.DefaultFormat)
	}
	if _, err := c.Schedule(); err != nil {
		return c, err
	}
	return c, nil
}

// SaveGlobal writes c to config.yaml in GlobalDir and returns the path.
func SaveGlobal(c Config) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "config.yaml")
	return path, os.WriteFile(path, data, 0o644)
}
