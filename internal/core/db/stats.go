package db

import (
	"database/sql"
	"time"

	"github.com/neilberkman/breatheless/internal/core/models"
	"github.com/pkg/errors"
)

// Stats represents database statistics
type Stats struct {
	TotalSessions int
	ByType        map[models.ExerciseType]int
	OldestSession time.Time
	NewestSession time.Time
	Imports       int
	SizeBytes     int64
}

// GetStats returns counts, the recorded date range and the file size
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{ByType: make(map[models.ExerciseType]int)}

	err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions)
	if err != nil {
		return nil, errors.Wrap(err, "count sessions")
	}

	rows, err := db.Query("SELECT exercise_type, COUNT(*) FROM sessions GROUP BY exercise_type")
	if err != nil {
		return nil, errors.Wrap(err, "count by type")
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t string
			n int
		)
		if err := rows.Scan(&t, &n); err != nil {
			return nil, errors.Wrap(err, "scan type count")
		}
		stats.ByType[models.ParseExerciseType(t)] += n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate type counts")
	}

	// Date range (only if we have sessions)
	if stats.TotalSessions > 0 {
		var oldest, newest sql.NullString
		err = db.QueryRow("SELECT MIN(date), MAX(date) FROM sessions").Scan(&oldest, &newest)
		if err != nil {
			return nil, errors.Wrap(err, "date range")
		}
		if oldest.Valid {
			stats.OldestSession, _ = parseDate(oldest.String)
		}
		if newest.Valid {
			stats.NewestSession, _ = parseDate(newest.String)
		}
	}

	err = db.QueryRow("SELECT COUNT(*) FROM import_log WHERE status != 'failed'").Scan(&stats.Imports)
	if err != nil {
		return nil, errors.Wrap(err, "count imports")
	}

	err = db.QueryRow(`
		SELECT page_count * page_size
		FROM pragma_page_count(), pragma_page_size()
	`).Scan(&stats.SizeBytes)
	if err != nil {
		return nil, errors.Wrap(err, "database size")
	}

	return stats, nil
}
