package cli

import (
	"fmt"
	"os"

	"github.com/neilberkman/breatheless/internal/core/config"
	"github.com/neilberkman/breatheless/internal/core/csvio"
	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/neilberkman/breatheless/internal/core/logging"
	"github.com/neilberkman/breatheless/internal/core/search"
	"github.com/spf13/cobra"
)

var (
	dbPath      string
	configPath  string
	tzName      string
	logLevel    string
	versionInfo string

	// Resolved in PersistentPreRunE
	cfg  *config.Config
	zone localtime.Zone
)

// SetVersion sets the version information from build-time ldflags
func SetVersion(version, commit, date string) {
	versionInfo = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.Version = versionInfo
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "breatheless",
	Short: "Buteyko breathing session tracker",
	Long: `breatheless - record, browse, import and export breathing exercise sessions

Sessions live in a local SQLite database and move in and out as CSV files
shared with the breatheless web app.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to the browser if no subcommand specified
		return browseCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default ~/.config/breatheless/sessions.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/breatheless/config.toml)")
	rootCmd.PersistentFlags().StringVar(&tzName, "tz", "", "Timezone for local dates (default from config, then system)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// loadSettings layers flags over config file and environment
func loadSettings(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		loaded.DBPath = dbPath
	}
	if tzName != "" {
		loaded.Timezone = tzName
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}

	if err := logging.Setup(loaded.LogLevel, loaded.LogFormat); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	z, err := loaded.Zone()
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	cfg, zone = loaded, z
	return nil
}

func openDB() (*db.DB, error) {
	database, err := db.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

func newParser() *csvio.Parser {
	return csvio.NewParser(
		csvio.WithZone(zone),
		csvio.WithLegacy(cfg.AllowLegacyImport),
	)
}

func newSearchParser() *search.Parser {
	return search.NewParser(zone.Location)
}
