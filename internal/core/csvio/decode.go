package csvio

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/neilberkman/breatheless/internal/core/localtime"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/pkg/errors"
)

// ErrorKind separates rows that have the wrong shape from rows whose values
// cannot be interpreted
type ErrorKind int

const (
	Structural ErrorKind = iota + 1
	Semantic
)

func (k ErrorKind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Semantic:
		return "semantic"
	}
	return "unknown"
}

// RowError describes why one data row was skipped. Row is the 1-based line
// number, so the header is row 1 and the first data row is row 2.
type RowError struct {
	Row  int
	Kind ErrorKind
	Msg  string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Msg)
}

func structural(rowIndex int, format string, args ...any) *RowError {
	return &RowError{Row: rowIndex + 1, Kind: Structural, Msg: fmt.Sprintf(format, args...)}
}

func semantic(rowIndex int, format string, args ...any) *RowError {
	return &RowError{Row: rowIndex + 1, Kind: Semantic, Msg: fmt.Sprintf(format, args...)}
}

// Parser decodes rows into sessions. It is not safe for concurrent use
// unless its IDGenerator is.
type Parser struct {
	zones  *localtime.Reconciler
	ids    IDGenerator
	legacy bool
}

// Option configures a Parser
type Option func(*Parser)

// WithZone sets the zone used for rows without a Timezone column or value
func WithZone(z localtime.Zone) Option {
	return func(p *Parser) {
		p.zones = localtime.NewReconciler(z)
	}
}

// WithReconciler shares an existing reconciler
func WithReconciler(r *localtime.Reconciler) Option {
	return func(p *Parser) {
		if r != nil {
			p.zones = r
		}
	}
}

// WithIDs replaces the id generator
func WithIDs(g IDGenerator) Option {
	return func(p *Parser) {
		if g != nil {
			p.ids = g
		}
	}
}

// WithLegacy controls whether older layouts are accepted. Default true.
func WithLegacy(allow bool) Option {
	return func(p *Parser) {
		p.legacy = allow
	}
}

// NewParser creates a parser using the machine's zone and a fresh
// SequenceIDs generator unless overridden
func NewParser(opts ...Option) *Parser {
	p := &Parser{legacy: true}
	for _, opt := range opts {
		opt(p)
	}
	if p.zones == nil {
		p.zones = localtime.NewReconciler(localtime.SystemZone())
	}
	if p.ids == nil {
		p.ids = NewSequenceIDs()
	}
	return p
}

// Zone is the default zone applied to rows that name none
func (p *Parser) Zone() localtime.Zone {
	return p.zones.Default
}

// DecodeRow decodes a data row choosing the layout from its column count.
// rowIndex is the 0-based position in the file including the header.
func (p *Parser) DecodeRow(row []string, rowIndex int) (models.Session, error) {
	schema, ok := schemaForWidth(len(row), p.legacy)
	if !ok {
		return models.Session{}, structural(rowIndex, "Expected %d columns, got %d",
			SchemaCurrent.Width(), len(row))
	}
	return p.DecodeRowAs(row, rowIndex, schema)
}

// DecodeRowAs decodes a data row known to be in the given layout
func (p *Parser) DecodeRowAs(row []string, rowIndex int, schema Schema) (models.Session, error) {
	if len(row) != schema.Width() || schema.Width() == 0 {
		return models.Session{}, structural(rowIndex, "Expected %d columns, got %d",
			schema.Width(), len(row))
	}

	c := schema.cols
	field := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		instant time.Time
		local   localtime.Local
	)
	utc := field(c.utc)
	localDate, localClock := field(c.localDate), field(c.localTime)
	tz := field(c.timezone)

	switch {
	case utc != "":
		t, ok := parseInstant(utc)
		if !ok {
			return models.Session{}, semantic(rowIndex, "Invalid UTC datetime %q", utc)
		}
		l, err := p.zones.Derive(t, tz)
		if err != nil {
			// The instant stands; an unknown label falls back to the default zone
			l, err = p.zones.Derive(t, "")
			if err != nil {
				return models.Session{}, semantic(rowIndex, "Unknown timezone %q", tz)
			}
		}
		instant, local = t, l

	case localDate != "" && localClock != "":
		date, clock := localDate, localClock
		if schema.localFormats {
			var ok bool
			if date, clock, ok = normalizeLegacyLocal(localDate, localClock); !ok {
				return models.Session{}, semantic(rowIndex, "Invalid local date/time %q",
					localDate+" "+localClock)
			}
		}
		t, l, err := p.zones.Instant(date, clock, tz)
		if err != nil {
			if errors.Is(err, localtime.ErrUnknownZone) {
				return models.Session{}, semantic(rowIndex, "Unknown timezone %q", tz)
			}
			return models.Session{}, semantic(rowIndex, "Invalid local date/time %q",
				localDate+" "+localClock)
		}
		instant, local = t, l

	default:
		return models.Session{}, semantic(rowIndex, "Missing both UTC and LocalDate/LocalTime")
	}

	return models.Session{
		ID:            p.ids.NewID(instant),
		Date:          instant,
		LocalDate:     local.Date,
		LocalTime:     local.Time,
		Timezone:      local.Timezone,
		ExerciseType:  models.ParseExerciseType(field(c.exerciseType)),
		ControlPause1: parseNumber(field(c.controlPause1)),
		ControlPause2: parseNumber(field(c.controlPause2)),
		MaxPause1:     parseNumber(field(c.maxPause1)),
		MaxPause2:     parseNumber(field(c.maxPause2)),
		MaxPause3:     parseNumber(field(c.maxPause3)),
		Pulse1:        parseNumber(field(c.pulse1)),
		Pulse2:        parseNumber(field(c.pulse2)),
		Note:          field(c.note),
	}, nil
}

// Values without an offset are read as UTC
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseInstant(s string) (time.Time, bool) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

var (
	// day-first before month-first: the oldest exports came from en-NZ browsers
	legacyDateLayouts  = []string{"2006-1-2", "2/1/2006", "1/2/2006", "2006/1/2"}
	legacyClockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04:05 PM", "3:04PM"}
)

func normalizeLegacyLocal(date, clock string) (string, string, bool) {
	var (
		day, tod time.Time
		err      error
	)
	for _, layout := range legacyDateLayouts {
		if day, err = time.Parse(layout, date); err == nil {
			break
		}
	}
	if err != nil {
		return "", "", false
	}

	clock = strings.ToUpper(clock)
	for _, layout := range legacyClockLayouts {
		if tod, err = time.Parse(layout, clock); err == nil {
			break
		}
	}
	if err != nil {
		return "", "", false
	}

	return day.Format(localtime.DateLayout), tod.Format("15:04:05"), true
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// parseNumber reads the longest leading decimal number in s; anything
// unparseable is 0
func parseNumber(s string) float64 {
	m := numberPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
