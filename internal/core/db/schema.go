package db

// dateLayout stores instants as sortable UTC text with millisecond precision
const dateLayout = "2006-01-02T15:04:05.000Z"

func (db *DB) initSchema() error {
	schema := `
	-- One row per completed exercise
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		local_date TEXT NOT NULL DEFAULT '',
		local_time TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT '',
		exercise_type TEXT NOT NULL DEFAULT 'classical',
		control_pause_1 REAL NOT NULL DEFAULT 0,
		control_pause_2 REAL NOT NULL DEFAULT 0,
		max_pause_1 REAL NOT NULL DEFAULT 0,
		max_pause_2 REAL NOT NULL DEFAULT 0,
		max_pause_3 REAL NOT NULL DEFAULT 0,
		pulse_1 REAL NOT NULL DEFAULT 0,
		pulse_2 REAL NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Import log table
	CREATE TABLE IF NOT EXISTS import_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_path TEXT NOT NULL,
		file_hash TEXT NOT NULL,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		sessions_imported INTEGER,
		rows_skipped INTEGER DEFAULT 0,
		status TEXT CHECK(status IN ('success', 'partial', 'failed')),
		error_message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_import_log_file_hash ON import_log(file_hash);
	`

	_, err := db.conn.Exec(schema)
	return err
}
