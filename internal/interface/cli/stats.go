package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/neilberkman/breatheless/internal/core/stats"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and database statistics",
	Long: `Display per-exercise progress (median and 90th percentile control pause,
best maximum pause) along with database counts and storage info.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	st, err := database.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read statistics: %w", err)
	}
	all, err := database.GetAllSessions()
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Database Statistics")
	_, _ = fmt.Fprintln(out, "===================")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Total Sessions:    %d\n", st.TotalSessions)
	for _, t := range models.ExerciseTypes {
		if n := st.ByType[t]; n > 0 {
			_, _ = fmt.Fprintf(out, "  %-16s %d\n", t+":", n)
		}
	}
	_, _ = fmt.Fprintf(out, "Files Imported:    %d\n", st.Imports)

	if st.TotalSessions > 0 {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintf(out, "Oldest Session:    %s (%s)\n",
			st.OldestSession.In(zone.Location).Format("Jan 2, 2006 3:04 PM"), humanize.Time(st.OldestSession))
		_, _ = fmt.Fprintf(out, "Newest Session:    %s (%s)\n",
			st.NewestSession.In(zone.Location).Format("Jan 2, 2006 3:04 PM"), humanize.Time(st.NewestSession))
	}

	for _, sum := range stats.Summarize(all) {
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintf(out, "%s (%s)\n", sum.Type, humanize.Comma(int64(sum.Count))+" sessions")
		_, _ = fmt.Fprintf(out, "  Median CP:       %s\n", secondsLabel(sum.MedianCP))
		_, _ = fmt.Fprintf(out, "  90th pct CP:     %s\n", secondsLabel(sum.P90CP))
		if sum.BestMaxPause > 0 {
			_, _ = fmt.Fprintf(out, "  Best MP:         %s\n", secondsLabel(sum.BestMaxPause))
		}
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "Database Location: %s\n", database.Path())
	_, _ = fmt.Fprintf(out, "Database Size:     %s\n", humanize.Bytes(uint64(st.SizeBytes)))
	return nil
}
