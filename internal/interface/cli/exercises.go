package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/neilberkman/breatheless/internal/core/exercises"
	"github.com/spf13/cobra"
)

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Describe the available exercises",
	Args:  cobra.NoArgs,
	RunE:  runExercises,
}

func init() {
	rootCmd.AddCommand(exercisesCmd)
}

func runExercises(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	faint := lipgloss.NewStyle().Foreground(lipgloss.Color("246"))

	for _, ex := range exercises.NewRegistry().All() {
		_, _ = fmt.Fprintf(out, "%s %s\n", title.Render(ex.Name), faint.Render("("+string(ex.Type)+")"))
		_, _ = fmt.Fprintf(out, "  %s\n", ex.Description)
		if d := ex.TotalDuration(); d > 0 {
			_, _ = fmt.Fprintf(out, "  Timed stages: %s\n", d)
		}

		n := 0
		for _, stage := range ex.Layout {
			marker := " "
			if stage.Logged {
				n++
				marker = fmt.Sprintf("%d", n)
			}
			line := fmt.Sprintf("  %s %s", marker, stage.Name)
			if stage.Duration > 0 {
				line += faint.Render(fmt.Sprintf(" %s", stage.Duration))
			}
			_, _ = fmt.Fprintln(out, line)
		}
		_, _ = fmt.Fprintln(out)
	}
	_, _ = fmt.Fprintln(out, "Numbered stages are the measurements 'breatheless record' takes, in order.")
	return nil
}
