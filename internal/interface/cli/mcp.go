package cli

import (
	"fmt"

	"github.com/neilberkman/breatheless/cmd/breatheless/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start MCP server for assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio that lets an
assistant list, export, validate and import your breathing sessions.

Example client config:
  {
    "mcpServers": {
      "breatheless": {
        "command": "breatheless",
        "args": ["serve-mcp"]
      }
    }
  }
`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	opts := mcp.Options{
		DBPath:      cfg.DBPath,
		Zone:        zone,
		AllowLegacy: cfg.AllowLegacyImport,
	}
	if err := mcp.StartServer(opts); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}
