package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/cbroglie/mustache"
	"github.com/neilberkman/breatheless/internal/core/config"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	exportOutput    string
	exportClipboard bool
	exportType      string
	exportAfter     string
	exportBefore    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to CSV",
	Long: `Export sessions as a CSV file in the current format.

By default writes to the current directory using the export_filename
template from config (default breathing-sessions-{{date}}.csv).
Use --output - to write to stdout.

Examples:
  breatheless export
  breatheless export --type mcp --after 2026-01-01 -o mcp.csv
  breatheless export --after "last week" --clipboard`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path, or - for stdout")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy the CSV to the clipboard instead of writing a file")
	exportCmd.Flags().StringVar(&exportType, "type", "", "Only export one exercise type")
	exportCmd.Flags().StringVar(&exportAfter, "after", "", "Only sessions on or after this date")
	exportCmd.Flags().StringVar(&exportBefore, "before", "", "Only sessions before this date")
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter(exportType, "", exportAfter, exportBefore)
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.ListSessions(filter)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if exportClipboard {
		if err := clipboard.WriteAll(csvio.Serialize(sessions)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Copied %d session(s) to clipboard\n", len(sessions))
		return nil
	}

	if exportOutput == "-" {
		if err := csvio.WriteTo(out, sessions); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
		_, _ = fmt.Fprintln(out)
		return nil
	}

	outputPath := exportOutput
	if outputPath == "" {
		name, err := exportFilename(cfg.ExportFilename, time.Now(), zone, len(sessions))
		if err != nil {
			return err
		}
		outputPath = name
	}
	if !filepath.IsAbs(outputPath) {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputPath = filepath.Join(cwd, outputPath)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := csvio.WriteTo(f, sessions); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Exported %d session(s) to %s\n", len(sessions), outputPath)
	return nil
}

// exportFilename renders the filename template. Available keys: date, time,
// timezone, count.
func exportFilename(tmpl string, now time.Time, z localtime.Zone, count int) (string, error) {
	if tmpl == "" {
		tmpl = config.DefaultExportFilename
	}
	local := localtime.ToLocal(now, z)
	data := map[string]string{
		"date":     local.Date,
		"time":     strings.ReplaceAll(local.Time, ":", ""),
		"timezone": z.Name,
		"count":    strconv.Itoa(count),
	}
	name, err := mustache.Render(tmpl, data)
	if err != nil {
		return "", fmt.Errorf("failed to render export filename: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("export filename template %q rendered empty", tmpl)
	}
	return filepath.Clean(name), nil
}

// buildFilter turns flag values into a db filter; dates accept natural
// language
func buildFilter(typ, on, after, before string) (db.Filter, error) {
	var f db.Filter
	if typ != "" {
		t, ok := models.LookupExerciseType(typ)
		if !ok {
			return f, fmt.Errorf("unknown exercise type %q", typ)
		}
		f.Type = t
	}

	p := newSearchParser()
	if on != "" {
		d, err := p.ParseDate(on)
		if err != nil {
			return f, fmt.Errorf("invalid date: %w", err)
		}
		f.After = p.StartOfDay(d)
		f.Before = f.After.AddDate(0, 0, 1)
	}
	if after != "" {
		d, err := p.ParseDate(after)
		if err != nil {
			return f, fmt.Errorf("invalid --after: %w", err)
		}
		f.After = p.StartOfDay(d)
	}
	if before != "" {
		d, err := p.ParseDate(before)
		if err != nil {
			return f, fmt.Errorf("invalid --before: %w", err)
		}
		f.Before = p.StartOfDay(d)
	}
	return f, nil
}
