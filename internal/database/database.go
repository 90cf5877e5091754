package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DSN builds a modernc sqlite data source name with the connection pragmas applied.
// Pragmas travel in the DSN so every pooled connection gets them, not just the first.
func DSN(dbPath string) string {
	pragmas := []string{
		"foreign_keys(1)",
		"busy_timeout(5000)",
	}
	if dbPath != MemoryPath {
		pragmas = append(pragmas, "journal_mode(WAL)")
	} else {
		pragmas = append(pragmas, "journal_mode(MEMORY)")
	}

	q := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		q = append(q, "_pragma="+url.QueryEscape(p))
	}

	return "file:" + dbPath + "?" + strings.Join(q, "&")
}

// Open opens a connection to the SQLite database.
// An in-memory database is pinned to a single connection, otherwise each
// pooled connection would see its own empty database.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dbPath == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// HealthCheck performs a simple health check on the database
func HealthCheck(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}
