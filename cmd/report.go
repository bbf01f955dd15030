package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/pomodouroboros/internal/report"
)

var (
	reportDate   string
	reportFormat string
	reportSave   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize the pomodoros of a day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, _, err := loadDate(reportDate)
		if err != nil {
			return err
		}
		summary := report.Build(day)

		// Select renderer based on --format flag or config DefaultFormat.
		format := reportFormat
		if format == "" {
			format = cfg.DefaultFormat
		}
		renderer, ext, err := report.ForFormat(format)
		if err != nil {
			return err
		}
		data, err := renderer.Render(summary)
		if err != nil {
			return fmt.Errorf("render report: %w", err)
		}

		if reportSave {
			outputDir := cfg.OutputDir
			if outputDir == "" {
				outputDir = "."
			}
			outputPath := filepath.Join(outputDir, "pomodoros-"+summary.Date+ext)
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("write output file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", outputPath)
			return nil
		}

		if ext == ".md" && term.IsTerminal(os.Stdout.Fd()) {
			data = []byte(renderMarkdown(string(data)))
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// renderMarkdown styles md for the terminal, falling back to the raw text.
func renderMarkdown(md string) string {
	width := 80
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		width = w
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(rendered, "\n ") + "\n"
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "day to report, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "", "output format: markdown or json (overrides config)")
	reportCmd.Flags().BoolVar(&reportSave, "save", false, "write the report to output_dir instead of stdout")
	rootCmd.AddCommand(reportCmd)
}
