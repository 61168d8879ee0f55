package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	listLimit int
	listType  string
	listDate  string
)

var listCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List recorded sessions",
	Long: `List sessions newest first.

A query may combine type:, date:, after: and before: filters with words
matched against notes. Dates accept natural language; use dashes for spaces.

Examples:
  breatheless list
  breatheless list --limit 10 --type mcp
  breatheless list --date yesterday
  breatheless list after:2-weeks-ago tired`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of sessions to display")
	listCmd.Flags().StringVar(&listType, "type", "", "Filter by exercise type (classical, diminished, mcp)")
	listCmd.Flags().StringVar(&listDate, "date", "", "Only sessions on this local day")
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter(listType, listDate, "", "")
	if err != nil {
		return err
	}
	if len(args) > 0 {
		q, err := newSearchParser().Parse(strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("invalid query: %w", err)
		}
		qf := q.DBFilter()
		if filter.Type == "" {
			filter.Type = qf.Type
		}
		if filter.After.IsZero() {
			filter.After, filter.Before = qf.After, qf.Before
		}
		filter.NoteContains = qf.NoteContains
	}
	filter.Limit = listLimit
	filter.NewestFirst = true

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	sessions, err := database.ListSessions(filter)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		_, _ = fmt.Fprintln(out, "No sessions found. Run 'breatheless import <file>' or 'breatheless record'.")
		return nil
	}

	_, _ = fmt.Fprintf(out, "Showing %d session(s) in %s\n", len(sessions), zone.Name)
	_, _ = fmt.Fprintln(out, sessionTable(sessions, cfg.PulseTracker, time.Now()))
	return nil
}
