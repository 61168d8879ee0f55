package db

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// runMigrations applies database migrations for existing databases
func (db *DB) runMigrations() error {
	// Migration 1: first stores kept the instant in start_time
	if err := db.migration001RenameStartTime(); err != nil {
		return errors.Wrap(err, "migration 001")
	}

	// Migration 2: local wall-clock columns
	if err := db.migration002AddLocalColumns(); err != nil {
		return errors.Wrap(err, "migration 002")
	}

	// Migration 3: note and exercise type
	if err := db.migration003AddNoteAndType(); err != nil {
		return errors.Wrap(err, "migration 003")
	}

	// Migration 4: skipped row count on the import log
	if err := db.addColumnIfMissing("import_log", "rows_skipped", "INTEGER DEFAULT 0"); err != nil {
		return errors.Wrap(err, "migration 004")
	}

	_, err := db.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
		CREATE INDEX IF NOT EXISTS idx_sessions_type_date ON sessions(exercise_type, date);
	`)
	return errors.Wrap(err, "create indexes")
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info(?)
		WHERE name = ?
	`, table, column).Scan(&n)
	if err != nil {
		return false, errors.Wrapf(err, "inspect %s.%s", table, column)
	}
	return n > 0, nil
}

// addColumnIfMissing is a no-op when the column exists.
// table, column and decl are constants supplied by this package.
func (db *DB) addColumnIfMissing(table, column, decl string) error {
	ok, err := db.hasColumn(table, column)
	if err != nil || ok {
		return err
	}

	logrus.WithFields(logrus.Fields{"table": table, "column": column}).Info("adding column")
	if _, err := db.conn.Exec("ALTER TABLE " + table + " ADD COLUMN " + column + " " + decl); err != nil {
		return errors.Wrapf(err, "add %s.%s", table, column)
	}
	return nil
}

// migration001RenameStartTime moves start_time to date when a store predates
// the date column
func (db *DB) migration001RenameStartTime() error {
	hasStart, err := db.hasColumn("sessions", "start_time")
	if err != nil || !hasStart {
		return err
	}
	hasDate, err := db.hasColumn("sessions", "date")
	if err != nil {
		return err
	}

	if !hasDate {
		_, err = db.conn.Exec(`ALTER TABLE sessions RENAME COLUMN start_time TO date`)
		return errors.Wrap(err, "rename start_time")
	}

	// Both exist: fill gaps from the old column and leave it in place
	_, err = db.conn.Exec(`UPDATE sessions SET date = start_time WHERE date IS NULL OR date = ''`)
	return errors.Wrap(err, "copy start_time")
}

func (db *DB) migration002AddLocalColumns() error {
	for _, col := range []string{"local_date", "local_time", "timezone"} {
		if err := db.addColumnIfMissing("sessions", col, "TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
	}
	// ALTER TABLE cannot add a CURRENT_TIMESTAMP default
	for _, col := range []string{"created_at", "updated_at"} {
		if err := db.addColumnIfMissing("sessions", col, "DATETIME"); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) migration003AddNoteAndType() error {
	if err := db.addColumnIfMissing("sessions", "note", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return err
	}
	if err := db.addColumnIfMissing("sessions", "exercise_type", "TEXT NOT NULL DEFAULT 'classical'"); err != nil {
		return err
	}

	_, err := db.conn.Exec(`
		UPDATE sessions SET exercise_type = 'classical'
		WHERE exercise_type IS NULL OR exercise_type NOT IN ('classical', 'diminished', 'mcp')
	`)
	return errors.Wrap(err, "backfill exercise_type")
}
