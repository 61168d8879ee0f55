package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/neilberkman/breatheless/internal/core/importer"
	"github.com/spf13/cobra"
)

var (
	importDryRun bool
	importForce  bool
	importStrict bool
)

var importCmd = &cobra.Command{
	Use:   "import <file|dir>",
	Short: "Import sessions from CSV",
	Long: `Import sessions from a CSV export, or every *.csv file below a directory.

Rows that cannot be read are skipped and reported; the rest are stored.
Files already imported are skipped unless --force is given.

Examples:
  breatheless import breathing-sessions-2026-01-08.csv
  breatheless import ~/Downloads/exports --dry-run
  breatheless import old.csv --strict`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate without writing")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Import even if the file was imported before (rows are added again)")
	importCmd.Flags().BoolVar(&importStrict, "strict", false, "Reject a file if any row is skipped")
}

func runImport(cmd *cobra.Command, args []string) error {
	source := args[0]
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", source, err)
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	imp := importer.New(database, newParser())
	opts := importer.Options{Force: importForce, DryRun: importDryRun, Strict: importStrict}
	out := cmd.OutOrStdout()

	var reports []*importer.Report
	if info.IsDir() {
		files, err := importer.FindCSVFiles(source)
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}
		if len(files) == 0 {
			_, _ = fmt.Fprintln(out, "No CSV files found")
			return nil
		}
		progress := importer.NewProgressReporter(cmd.ErrOrStderr(), len(files))
		reports = imp.ImportFiles(files, opts, progress)
	} else {
		rep, err := imp.ImportFile(source, opts)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		reports = append(reports, rep)
	}

	rejected := 0
	for _, rep := range reports {
		printReport(out, rep)
		if !rep.AlreadyImported && !rep.Valid {
			rejected++
		}
	}
	if rejected > 0 {
		return fmt.Errorf("%d of %d file(s) rejected", rejected, len(reports))
	}
	return nil
}

// printReport shows counts followed by the aggregated errors
func printReport(w io.Writer, rep *importer.Report) {
	_, _ = fmt.Fprintf(w, "%s\n", rep.File)
	switch {
	case rep.AlreadyImported:
		_, _ = fmt.Fprintln(w, "  Already imported (use --force to import again)")
		return
	case !rep.Valid:
		_, _ = fmt.Fprintln(w, "  Rejected")
	case rep.DryRun:
		_, _ = fmt.Fprintf(w, "  Valid: %d session(s), %d row(s) skipped (%s)\n", rep.Sessions, rep.Skipped, rep.Schema.Name)
	default:
		_, _ = fmt.Fprintf(w, "  Imported: %d session(s), %d row(s) skipped\n", rep.Imported, rep.Skipped)
	}

	for _, msg := range rep.Errors {
		_, _ = fmt.Fprintf(w, "  - %s\n", msg)
	}
}
