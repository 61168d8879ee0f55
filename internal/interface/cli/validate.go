package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a CSV file without importing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	res := newParser().ValidateAndParse(string(data))
	out := cmd.OutOrStdout()

	if res.IsValid {
		_, _ = fmt.Fprintf(out, "Valid %s file: %d session(s), %d row(s) skipped\n",
			res.Schema.Name, len(res.Sessions), res.SkippedRows)
	} else {
		_, _ = fmt.Fprintln(out, "Invalid file")
	}
	for _, msg := range res.Errors {
		_, _ = fmt.Fprintf(out, "  - %s\n", msg)
	}

	if !res.IsValid {
		return fmt.Errorf("%s is not a valid session export", args[0])
	}
	return nil
}
