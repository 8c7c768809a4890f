package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens a SQLite database file and verifies the connection by
// running a trivial query against sqlite_master.
func Open(path string) (*sql.DB, error) {
	// _busy_timeout keeps concurrent writers from surfacing SQLITE_BUSY
	// immediately | _loc=UTC keeps times consistent
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_loc=UTC", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Validate with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	var name sql.NullString
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' LIMIT 1").Scan(&name)
	if err != nil && err != sql.ErrNoRows {
		db.Close()
		return nil, fmt.Errorf("failed to open or validate SQLite DB at %s: %w", path, err)
	}
	return db, nil
}

// TableExists reports whether a table with the given name exists.
func TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int64
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
