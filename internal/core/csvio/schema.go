package csvio

import "strings"

// columns maps record fields to positions in a row; -1 means the layout has no such column
type columns struct {
	utc, localDate, localTime, timezone, exerciseType int
	pulse1, pulse2                                    int
	controlPause1, controlPause2                      int
	maxPause1, maxPause2, maxPause3                   int
	note                                              int
}

// Schema is one fixed CSV column layout. Older layouts stay importable.
type Schema struct {
	Version int
	Name    string
	Columns []string

	cols columns
	// localFormats is set for the oldest layout, whose Date/Time columns
	// were written in whatever format the exporting browser used
	localFormats bool
}

var (
	// SchemaCurrent is the layout written by Serialize
	SchemaCurrent = Schema{
		Version: 4,
		Name:    "current",
		Columns: []string{
			"UTC", "LocalDate", "LocalTime", "Timezone", "Exercise Type",
			"Pulse 1", "Pulse 2",
			"Control Pause 1", "Control Pause 2",
			"Max Pause 1", "Max Pause 2", "Max Pause 3",
			"Note",
		},
		cols: columns{
			utc: 0, localDate: 1, localTime: 2, timezone: 3, exerciseType: 4,
			pulse1: 5, pulse2: 6,
			controlPause1: 7, controlPause2: 8,
			maxPause1: 9, maxPause2: 10, maxPause3: 11,
			note: 12,
		},
	}

	// SchemaV3 added Exercise Type and dropped Personal Best
	SchemaV3 = Schema{
		Version: 3,
		Name:    "datetime+exercise-type",
		Columns: []string{
			"DateTime", "Exercise Type",
			"Control Pause 1", "Max Pause 1", "Max Pause 2", "Max Pause 3", "Control Pause 2",
			"Note", "Pulse 1", "Pulse 2",
		},
		cols: columns{
			utc: 0, localDate: -1, localTime: -1, timezone: -1, exerciseType: 1,
			controlPause1: 2, maxPause1: 3, maxPause2: 4, maxPause3: 5, controlPause2: 6,
			note: 7, pulse1: 8, pulse2: 9,
		},
	}

	// SchemaV2 merged Date and Time into one ISO DateTime column
	SchemaV2 = Schema{
		Version: 2,
		Name:    "datetime+personal-best",
		Columns: []string{
			"DateTime",
			"Control Pause 1", "Max Pause 1", "Max Pause 2", "Max Pause 3", "Control Pause 2",
			"Note", "Personal Best MP3", "Pulse 1", "Pulse 2",
		},
		cols: columns{
			utc: 0, localDate: -1, localTime: -1, timezone: -1, exerciseType: -1,
			controlPause1: 1, maxPause1: 2, maxPause2: 3, maxPause3: 4, controlPause2: 5,
			note: 6, pulse1: 8, pulse2: 9,
		},
	}

	// SchemaV1 is the original export with separate local Date and Time columns
	SchemaV1 = Schema{
		Version: 1,
		Name:    "date+time+personal-best",
		Columns: []string{
			"Date", "Time",
			"Control Pause 1", "Max Pause 1", "Max Pause 2", "Max Pause 3", "Control Pause 2",
			"Note", "Personal Best MP3", "Pulse 1", "Pulse 2",
		},
		cols: columns{
			utc: -1, localDate: 0, localTime: 1, timezone: -1, exerciseType: -1,
			controlPause1: 2, maxPause1: 3, maxPause2: 4, maxPause3: 5, controlPause2: 6,
			note: 7, pulse1: 9, pulse2: 10,
		},
		localFormats: true,
	}
)

// Schemas lists every accepted layout in detection priority order. When two
// layouts share a width the newer one wins.
var Schemas = []Schema{SchemaCurrent, SchemaV3, SchemaV2, SchemaV1}

// Width is the number of columns in the layout
func (s Schema) Width() int {
	return len(s.Columns)
}

// IsLegacy reports whether s is an older layout than the one Serialize writes
func (s Schema) IsLegacy() bool {
	return s.Version != SchemaCurrent.Version
}

// Matches reports whether headers is exactly this layout's column sequence.
// Each header is trimmed; names are case-sensitive.
func (s Schema) Matches(headers []string) bool {
	if len(headers) != len(s.Columns) || len(headers) == 0 {
		return false
	}
	for i, h := range headers {
		if strings.TrimSpace(h) != s.Columns[i] {
			return false
		}
	}
	return true
}

// ExpectedHeaders returns a copy of the current header row
func ExpectedHeaders() []string {
	return append([]string(nil), SchemaCurrent.Columns...)
}

// ValidateHeaders reports whether headers is exactly the current layout
func ValidateHeaders(headers []string) bool {
	return SchemaCurrent.Matches(headers)
}

// DetectSchema finds the layout whose header row is exactly headers
func DetectSchema(headers []string) (Schema, bool) {
	for _, s := range Schemas {
		if s.Matches(headers) {
			return s, true
		}
	}
	return Schema{}, false
}

// schemaForWidth picks a layout from a data row's column count alone
func schemaForWidth(n int, legacy bool) (Schema, bool) {
	for _, s := range Schemas {
		if s.IsLegacy() && !legacy {
			continue
		}
		if s.Width() == n {
			return s, true
		}
	}
	return Schema{}, false
}
