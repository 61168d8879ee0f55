package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/neilberkman/breatheless/internal/core/daemon"
	"github.com/neilberkman/breatheless/internal/core/importer"
	"github.com/spf13/cobra"
)

var (
	watchStrict bool
	watchSettle time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Import CSV exports as they are saved",
	Long: `Watch a directory (default ~/Downloads) and import every CSV export
written into it. Files already imported are skipped. Stop with Ctrl-C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchStrict, "strict", false, "Reject a file if any row is skipped")
	watchCmd.Flags().DurationVar(&watchSettle, "settle", daemon.DefaultSettle, "Wait this long after the last write before importing")
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := defaultDownloadsDir()
	if len(args) > 0 {
		dir = args[0]
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	w, err := daemon.New(importer.New(database, newParser()), dir, importer.Options{Strict: watchStrict})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	w.SetSettle(watchSettle)

	out := cmd.OutOrStdout()
	w.OnReport = func(rep *importer.Report) {
		if !rep.AlreadyImported {
			printReport(out, rep)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, _ = fmt.Fprintf(out, "Watching %s for CSV exports (Ctrl-C to stop)\n", dir)
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watcher failed: %w", err)
	}

	st := w.Stats()
	_, _ = fmt.Fprintf(out, "Imported %d session(s) from %d file(s)\n", st.Sessions, st.FilesImported)
	return nil
}

func defaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}
