package csvio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/pkg/errors"
)

// UTCLayout is the UTC column format, millisecond precision with a Z suffix
const UTCLayout = "2006-01-02T15:04:05.000Z"

// Escape quotes value when it contains a comma, quote or newline
func Escape(value string) string {
	if !strings.ContainsAny(value, ",\"\n") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// FormatNumber renders v in the shortest form that parses back to v
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fields returns the unescaped values of s in current column order
func Fields(s models.Session) []string {
	utc := ""
	if !s.Date.IsZero() {
		utc = s.Date.UTC().Format(UTCLayout)
	}
	return []string{
		utc,
		s.LocalDate,
		s.LocalTime,
		s.Timezone,
		string(s.ExerciseType),
		FormatNumber(s.Pulse1),
		FormatNumber(s.Pulse2),
		FormatNumber(s.ControlPause1),
		FormatNumber(s.ControlPause2),
		FormatNumber(s.MaxPause1),
		FormatNumber(s.MaxPause2),
		FormatNumber(s.MaxPause3),
		s.Note,
	}
}

// Line renders one session as an escaped CSV line without a terminator
func Line(s models.Session) string {
	return joinEscaped(Fields(s))
}

// HeaderLine is the current header row
func HeaderLine() string {
	return joinEscaped(SchemaCurrent.Columns)
}

// Serialize renders the header and one line per session, joined by "\n"
// with no trailing newline
func Serialize(sessions []models.Session) string {
	var b strings.Builder
	b.WriteString(HeaderLine())
	for _, s := range sessions {
		b.WriteByte('\n')
		b.WriteString(Line(s))
	}
	return b.String()
}

// WriteTo streams the same bytes Serialize would return
func WriteTo(w io.Writer, sessions []models.Session) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(HeaderLine()); err != nil {
		return errors.Wrap(err, "write header")
	}
	for i, s := range sessions {
		if _, err := bw.WriteString("\n" + Line(s)); err != nil {
			return errors.Wrapf(err, "write session %d", i+1)
		}
	}
	return errors.Wrap(bw.Flush(), "flush csv")
}

func joinEscaped(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = Escape(v)
	}
	return strings.Join(escaped, ",")
}
