package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// ImportStatus is the outcome recorded for an imported file
type ImportStatus string

const (
	ImportSuccess ImportStatus = "success"
	ImportPartial ImportStatus = "partial"
	ImportFailed  ImportStatus = "failed"
)

// ImportLogEntry is one row of import_log
type ImportLogEntry struct {
	FilePath         string
	FileHash         string
	ImportedAt       time.Time
	SessionsImported int
	RowsSkipped      int
	Status           ImportStatus
	ErrorMessage     string
}

// RecordImport appends an entry to the import log
func (db *DB) RecordImport(e ImportLogEntry) error {
	_, err := db.conn.Exec(`
		INSERT INTO import_log (file_path, file_hash, sessions_imported, rows_skipped, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.FilePath, e.FileHash, e.SessionsImported, e.RowsSkipped, string(e.Status), e.ErrorMessage)
	return errors.Wrapf(err, "record import of %s", e.FilePath)
}

// WasImported reports whether a file with this hash was imported without
// failing
func (db *DB) WasImported(hash string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM import_log WHERE file_hash = ? AND status != 'failed')
	`, hash).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "check import log")
	}
	return exists, nil
}

// RecentImports lists the newest import log entries first
func (db *DB) RecentImports(limit int) ([]ImportLogEntry, error) {
	rows, err := db.conn.Query(`
		SELECT file_path, file_hash, imported_at, COALESCE(sessions_imported, 0),
			COALESCE(rows_skipped, 0), status, COALESCE(error_message, '')
		FROM import_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query import log")
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var (
			e          ImportLogEntry
			importedAt sql.NullString
			status     string
		)
		if err := rows.Scan(&e.FilePath, &e.FileHash, &importedAt, &e.SessionsImported,
			&e.RowsSkipped, &status, &e.ErrorMessage); err != nil {
			return nil, errors.Wrap(err, "scan import log")
		}
		e.Status = ImportStatus(status)
		if importedAt.Valid {
			e.ImportedAt, _ = parseDate(importedAt.String)
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "iterate import log")
}
