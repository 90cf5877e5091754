package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"

	// Fixed-width so timestamps sort lexically in SQL.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(dateLayout, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// ParseDate parses a calendar day in "2006-01-02" format only. Times and
// offsets are rejected so the day a caller wrote is the day stored.
func ParseDate(str string) (time.Time, error) {
	d, err := time.Parse(dateLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return d, nil
}

// FormatDate renders the calendar day of t in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// FormatTimestamp renders t in UTC with a fixed-width layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
