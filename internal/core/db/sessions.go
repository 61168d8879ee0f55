package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/pkg/errors"
)

const sessionColumns = `id, date, local_date, local_time, timezone, exercise_type,
	control_pause_1, control_pause_2, max_pause_1, max_pause_2, max_pause_3,
	pulse_1, pulse_2, note`

const upsertSession = `
	INSERT INTO sessions (` + sessionColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		date = excluded.date,
		local_date = excluded.local_date,
		local_time = excluded.local_time,
		timezone = excluded.timezone,
		exercise_type = excluded.exercise_type,
		control_pause_1 = excluded.control_pause_1,
		control_pause_2 = excluded.control_pause_2,
		max_pause_1 = excluded.max_pause_1,
		max_pause_2 = excluded.max_pause_2,
		max_pause_3 = excluded.max_pause_3,
		pulse_1 = excluded.pulse_1,
		pulse_2 = excluded.pulse_2,
		note = excluded.note,
		updated_at = CURRENT_TIMESTAMP
`

// ImportResult reports a bulk upsert
type ImportResult struct {
	Imported int
	Errors   []string
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func sessionArgs(s models.Session) []interface{} {
	return []interface{}{
		s.ID,
		formatDate(s.Date),
		s.LocalDate,
		s.LocalTime,
		s.Timezone,
		string(s.ExerciseType),
		s.ControlPause1,
		s.ControlPause2,
		s.MaxPause1,
		s.MaxPause2,
		s.MaxPause3,
		s.Pulse1,
		s.Pulse2,
		s.Note,
	}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func putSession(e execer, query string, s models.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := e.Exec(query, sessionArgs(s)...)
	return err
}

// ImportSessions upserts sessions in one transaction. A session that fails
// validation or the write is reported in Errors and the rest still commit.
func (db *DB) ImportSessions(sessions []models.Session) (ImportResult, error) {
	res := ImportResult{Errors: []string{}}
	if len(sessions) == 0 {
		return res, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return res, errors.Wrap(err, "begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, s := range sessions {
		if err := putSession(tx, upsertSession, s); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Failed to import session %d: %v", i+1, err))
			continue
		}
		res.Imported++
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{Errors: res.Errors}, errors.Wrap(err, "commit import")
	}
	return res, nil
}

// SaveSession inserts s and fails if its id is already stored
func (db *DB) SaveSession(s models.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	return errors.Wrapf(putSession(db.conn, query, s), "save session %s", s.ID)
}

// SaveOrUpdateSession inserts s or replaces the stored session with its id
func (db *DB) SaveOrUpdateSession(s models.Session) error {
	return errors.Wrapf(putSession(db.conn, upsertSession, s), "save session %s", s.ID)
}

// DeleteSession removes a session by id
func (db *DB) DeleteSession(id string) error {
	res, err := db.conn.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete session %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrNotFound, "session %s", id)
	}
	return nil
}

// GetSession loads one session by id
func (db *DB) GetSession(id string) (models.Session, error) {
	row := db.conn.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return models.Session{}, errors.Wrapf(ErrNotFound, "session %s", id)
	}
	return s, err
}

// GetAllSessions returns every session, oldest first
func (db *DB) GetAllSessions() ([]models.Session, error) {
	return db.ListSessions(Filter{})
}

// GetSessionsByDate returns the sessions whose instant falls on the calendar
// day of day as seen in loc
func (db *DB) GetSessionsByDate(day time.Time, loc *time.Location) ([]models.Session, error) {
	start, end := dayBounds(day, loc)
	return db.ListSessions(Filter{After: start, Before: end})
}

// GetTodaysMCP returns the morning control pause recorded on now's local
// day, or ErrNotFound
func (db *DB) GetTodaysMCP(now time.Time, loc *time.Location) (models.Session, error) {
	start, end := dayBounds(now, loc)
	sessions, err := db.ListSessions(Filter{Type: models.MCP, After: start, Before: end, Limit: 1})
	if err != nil {
		return models.Session{}, err
	}
	if len(sessions) == 0 {
		return models.Session{}, errors.Wrap(ErrNotFound, "no morning control pause today")
	}
	return sessions[0], nil
}

// SaveMCP stores a morning control pause, replacing the one already recorded
// on the same local day. The earlier session keeps its id and instant.
func (db *DB) SaveMCP(s models.Session, loc *time.Location) (replaced bool, err error) {
	existing, err := db.GetTodaysMCP(s.Date, loc)
	switch {
	case err == nil:
		s.ID = existing.ID
		s.Date = existing.Date
		s.LocalDate, s.LocalTime, s.Timezone = existing.LocalDate, existing.LocalTime, existing.Timezone
		replaced = true
	case !errors.Is(err, ErrNotFound):
		return false, err
	}
	return replaced, db.SaveOrUpdateSession(s)
}

func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// Filter narrows ListSessions. After is inclusive and Before exclusive.
type Filter struct {
	Type   models.ExerciseType
	After  time.Time
	Before time.Time
	Limit  int
	// NoteContains matches notes case-insensitively
	NoteContains string
	// NewestFirst reverses the default oldest-first order
	NewestFirst bool
}

// ListSessions returns the sessions matching f
func (db *DB) ListSessions(f Filter) ([]models.Session, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Type != "" {
		where = append(where, "exercise_type = ?")
		args = append(args, string(f.Type))
	}
	if !f.After.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, formatDate(f.After))
	}
	if !f.Before.IsZero() {
		where = append(where, "date < ?")
		args = append(args, formatDate(f.Before))
	}

	if f.NoteContains != "" {
		where = append(where, "note LIKE ? ESCAPE '\\'")
		args = append(args, "%"+likeEscaper.Replace(f.NoteContains)+"%")
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if f.NewestFirst {
		query += " ORDER BY date DESC, id DESC"
	} else {
		query += " ORDER BY date ASC, id ASC"
	}
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query sessions")
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, errors.Wrap(rows.Err(), "iterate sessions")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row scanner) (models.Session, error) {
	var (
		s            models.Session
		date, exType string
	)
	err := row.Scan(
		&s.ID,
		&date,
		&s.LocalDate,
		&s.LocalTime,
		&s.Timezone,
		&exType,
		&s.ControlPause1,
		&s.ControlPause2,
		&s.MaxPause1,
		&s.MaxPause2,
		&s.MaxPause3,
		&s.Pulse1,
		&s.Pulse2,
		&s.Note,
	)
	if err == sql.ErrNoRows {
		return s, err
	}
	if err != nil {
		return s, errors.Wrap(err, "scan session")
	}

	s.Date, err = parseDate(date)
	if err != nil {
		return s, errors.Wrapf(err, "session %s", s.ID)
	}
	s.ExerciseType = models.ParseExerciseType(exType)
	return s, nil
}

var storedDateFormats = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

// parseDate also accepts formats written by older versions
func parseDate(v string) (time.Time, error) {
	for _, format := range storedDateFormats {
		if t, err := time.Parse(format, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognised stored date %q", v)
}
