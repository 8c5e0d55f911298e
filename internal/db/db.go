package db

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database file with a shared connection pool.
// Connections are checked out per statement and returned by database/sql;
// handlers never open their own connections.
func Connect(path string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(time.Hour)

	// SQLite tuning: WAL keeps readers from blocking the writer, busy_timeout
	// makes concurrent writers queue instead of failing with SQLITE_BUSY.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}
