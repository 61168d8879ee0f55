// Package search turns short filter queries such as
// "type:mcp after:3-days-ago felt" into session filters.
package search

import (
	"strings"
	"time"

	"github.com/neilberkman/breatheless/internal/core/db"
	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/pkg/errors"
)

// Filters represents parsed filters from a query
type Filters struct {
	Text       string // Remaining words, matched against notes
	Type       models.ExerciseType
	AfterDate  time.Time // Inclusive
	BeforeDate time.Time // Exclusive
}

// ErrBadFilter is returned for a filter whose value cannot be understood
var ErrBadFilter = errors.New("bad filter")

// Parser resolves dates against a clock and zone
type Parser struct {
	w   *when.Parser
	loc *time.Location
	now func() time.Time
}

// NewParser creates a parser for dates in loc
func NewParser(loc *time.Location) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if loc == nil {
		loc = time.Local
	}
	return &Parser{w: w, loc: loc, now: time.Now}
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
}

// ParseDate reads a fixed date layout or natural language such as
// "yesterday" or "3 days ago". Dashes and underscores may stand in for
// spaces so the value fits in one query token.
func (p *Parser) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Wrap(ErrBadFilter, "empty date")
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, s, p.loc); err == nil {
			return t, nil
		}
	}

	phrase := strings.NewReplacer("-", " ", "_", " ").Replace(s)
	result, err := p.w.Parse(phrase, p.now().In(p.loc))
	if err == nil && result != nil {
		return result.Time.In(p.loc), nil
	}
	return time.Time{}, errors.Wrapf(ErrBadFilter, "unrecognised date %q", s)
}

// StartOfDay truncates t to local midnight
func (p *Parser) StartOfDay(t time.Time) time.Time {
	t = t.In(p.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
}

// Parse extracts filters from a query string
// Supports:
//   - type:<classical|diminished|mcp>
//   - date:yesterday, date:2026-01-08 - the whole local day
//   - after:3-days-ago, before:2026-01-01 - explicit day boundaries
func (p *Parser) Parse(query string) (Filters, error) {
	var (
		f     Filters
		words []string
	)

	for _, token := range strings.Fields(query) {
		key, value, ok := strings.Cut(token, ":")
		if !ok {
			words = append(words, token)
			continue
		}

		switch strings.ToLower(key) {
		case "type":
			t, known := models.LookupExerciseType(value)
			if !known {
				return f, errors.Wrapf(ErrBadFilter, "unknown exercise type %q", value)
			}
			f.Type = t
		case "date", "on":
			d, err := p.ParseDate(value)
			if err != nil {
				return f, err
			}
			f.AfterDate = p.StartOfDay(d)
			f.BeforeDate = f.AfterDate.AddDate(0, 0, 1)
		case "after", "since":
			d, err := p.ParseDate(value)
			if err != nil {
				return f, err
			}
			f.AfterDate = p.StartOfDay(d)
		case "before", "until":
			d, err := p.ParseDate(value)
			if err != nil {
				return f, err
			}
			f.BeforeDate = p.StartOfDay(d)
		default:
			// Not a filter, keep it as text
			words = append(words, token)
		}
	}

	f.Text = strings.Join(words, " ")
	return f, nil
}

// DBFilter converts f for db.ListSessions
func (f Filters) DBFilter() db.Filter {
	return db.Filter{
		Type:         f.Type,
		After:        f.AfterDate,
		Before:       f.BeforeDate,
		NoteContains: f.Text,
	}
}

// Sessions runs query against the database, newest first
func Sessions(database *db.DB, p *Parser, query string, limit int) ([]models.Session, error) {
	f, err := p.Parse(query)
	if err != nil {
		return nil, err
	}
	filter := f.DBFilter()
	filter.Limit = limit
	filter.NewestFirst = true
	return database.ListSessions(filter)
}
