package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Renderer serializes a Summary to bytes.
type Renderer interface {
	Render(s *Summary) ([]byte, error)
}

// ForFormat returns the renderer for "json" or "markdown" and the file
// extension it produces.
func ForFormat(format string) (Renderer, string, error) {
	switch format {
	case "json":
		return &JSONRenderer{}, ".json", nil
	case "markdown", "md", "":
		return &MarkdownRenderer{}, ".md", nil
	}
	return nil, "", fmt.Errorf("unknown format %q (want markdown or json)", format)
}

// JSONRenderer renders a Summary as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(s *Summary) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// MarkdownRenderer renders a Summary as human-readable Markdown.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(s *Summary) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Pomodoros — %s\n\n", s.Date)

	// ## Summary
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Status: %s\n", s.Counts.Label())
	fmt.Fprintf(&sb, "- Successful: %d\n", s.Counts.Successful)
	fmt.Fprintf(&sb, "- Failed: %d\n", s.Counts.Failed)
	fmt.Fprintf(&sb, "- Awaiting evaluation: %d\n", s.Counts.UnEvaluated)
	fmt.Fprintf(&sb, "- Still to come: %d\n", s.Counts.Pending)
	sb.WriteString("\n")

	// ## Pomodoros
	sb.WriteString("## Pomodoros\n\n")
	if len(s.Pomodoros) == 0 {
		sb.WriteString("_No pomodoros planned._\n")
	} else {
		sb.WriteString("| Time | Intention | Verdict |\n")
		sb.WriteString("|------|-----------|---------|\n")
		for _, p := range s.Pomodoros {
			span := p.Start.Format("15:04") + "-" + p.End.Format("15:04")
			if p.Bonus {
				span += " (bonus)"
			}
			intention := p.Intention
			if intention == "" {
				intention = "_none_"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", span, escapeCell(intention), p.Verdict)
		}
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// escapeCell keeps user text from breaking the table layout.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
