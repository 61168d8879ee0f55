package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/pkg/errors"
)

// DefaultExportFilename is rendered with mustache; {{date}} is today's local date
const DefaultExportFilename = "breathing-sessions-{{date}}.csv"

// Config holds user settings. Values come from defaults, then the TOML
// file, then BREATHELESS_* environment variables; CLI flags win last.
type Config struct {
	DBPath         string `toml:"db_path" env:"BREATHELESS_DB"`
	Timezone       string `toml:"timezone" env:"BREATHELESS_TZ"`
	ExportFilename string `toml:"export_filename" env:"BREATHELESS_EXPORT_FILENAME"`
	// PulseTracker shows pulse columns in listings
	PulseTracker      bool   `toml:"pulse_tracker" env:"BREATHELESS_PULSE_TRACKER"`
	LogLevel          string `toml:"log_level" env:"BREATHELESS_LOG_LEVEL"`
	LogFormat         string `toml:"log_format" env:"BREATHELESS_LOG_FORMAT"`
	AllowLegacyImport bool   `toml:"allow_legacy_import" env:"BREATHELESS_ALLOW_LEGACY_IMPORT"`
}

// Dir is ~/.config/breatheless
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, ".config", "breatheless"), nil
}

// Default returns the built-in settings
func Default() *Config {
	cfg := &Config{
		ExportFilename:    DefaultExportFilename,
		LogLevel:          "warn",
		LogFormat:         "text",
		AllowLegacyImport: true,
	}
	if dir, err := Dir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "sessions.db")
	}
	return cfg
}

// Load reads config from path, or ~/.config/breatheless/config.toml when
// path is empty. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if dir, err := Dir(); err == nil {
			path = filepath.Join(dir, "config.toml")
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}

	cfg.DBPath = expandHome(cfg.DBPath)
	return cfg, nil
}

// Zone resolves the configured timezone, falling back to the system zone
func (c *Config) Zone() (localtime.Zone, error) {
	if strings.TrimSpace(c.Timezone) == "" {
		return localtime.SystemZone(), nil
	}
	return localtime.LoadZone(c.Timezone)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
