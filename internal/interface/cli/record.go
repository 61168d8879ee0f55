package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/neilberkman/breatheless/internal/core/exercises"
	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/spf13/cobra"
)

var (
	recordNote string
	recordAt   string
)

var recordCmd = &cobra.Command{
	Use:   "record <type> <seconds...>",
	Short: "Record a completed exercise",
	Long: `Record the measurements from an exercise, in the order the exercise
logs them. Run 'breatheless exercises' to see each order.

Recording an mcp replaces any morning control pause already recorded
for the same day.

Examples:
  breatheless record mcp 24
  breatheless record classical 68 22 30 40 55 28 64 --note "after run"
  breatheless record diminished 70 20 25 66 24 --at "yesterday 7pm"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRecord,
}

func init() {
	rootCmd.AddCommand(recordCmd)
	recordCmd.Flags().StringVar(&recordNote, "note", "", "Free-text note")
	recordCmd.Flags().StringVar(&recordAt, "at", "", "When the exercise was done (default now)")
}

func runRecord(cmd *cobra.Command, args []string) error {
	t, ok := models.LookupExerciseType(args[0])
	if !ok {
		return fmt.Errorf("unknown exercise type %q", args[0])
	}
	ex, err := exercises.NewRegistry().Get(t)
	if err != nil {
		return err
	}

	values, err := parseMeasurements(args[1:], len(ex.LoggedStages()))
	if err != nil {
		return err
	}

	at := time.Now()
	if recordAt != "" {
		if at, err = newSearchParser().ParseDate(recordAt); err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
	}

	s := buildSession(ex, values, at, zone, recordNote)

	database, err := openDB()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	out := cmd.OutOrStdout()
	if t == models.MCP {
		replaced, err := database.SaveMCP(s, zone.Location)
		if err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		if replaced {
			_, _ = fmt.Fprintln(out, "Replaced today's morning control pause")
		}
	} else if err := database.SaveOrUpdateSession(s); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Recorded %s on %s at %s\n", ex.Name, s.LocalDate, s.LocalTime)
	for i, stage := range ex.LoggedStages() {
		_, _ = fmt.Fprintf(out, "  %-24s %s\n", stage.Name, seconds(at0(values, i)))
	}
	return nil
}

// buildSession maps logged values through the exercise and stamps the local
// date and time in z
func buildSession(ex exercises.Exercise, values []float64, at time.Time, z localtime.Zone, note string) models.Session {
	s := ex.MapLog(values, at.UTC())
	local := localtime.ToLocal(at, z)
	s.LocalDate, s.LocalTime, s.Timezone = local.Date, local.Time, local.Timezone
	s.Note = strings.TrimSpace(note)
	return s
}

func parseMeasurements(args []string, want int) ([]float64, error) {
	if len(args) > want {
		return nil, fmt.Errorf("expected at most %d measurement(s), got %d", want, len(args))
	}
	values := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid measurement %q: want seconds", a)
		}
		values = append(values, v)
	}
	return values, nil
}

func at0(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}
