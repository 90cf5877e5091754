package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// SnapshotRepository provides data access for the portfolio_snapshot table.
// A snapshot is unique per (account, snapshot date).
type SnapshotRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewSnapshotRepository creates a new SnapshotRepository with the provided database connection.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// WithTx returns a new SnapshotRepository scoped to the provided transaction.
func (r *SnapshotRepository) WithTx(tx *sql.Tx) *SnapshotRepository {
	return &SnapshotRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *SnapshotRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const snapshotColumns = `id, account_id, snapshot_date, total_value, cash_balance, total_invested,
		total_gain, day_change, created_at`

func scanSnapshot(row interface{ Scan(dest ...any) error }) (model.PortfolioSnapshot, error) {
	var s model.PortfolioSnapshot
	var dateStr, createdAtStr string

	err := row.Scan(
		&s.ID,
		&s.AccountID,
		&dateStr,
		&s.TotalValue,
		&s.CashBalance,
		&s.TotalInvested,
		&s.TotalGain,
		&s.DayChange,
		&createdAtStr,
	)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	if s.SnapshotDate, err = ParseTime(dateStr); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to parse snapshot_date: %w", err)
	}
	if s.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to parse snapshot created_at: %w", err)
	}

	return s, nil
}

// InsertSnapshot stores a snapshot.
// Returns ErrSnapshotAlreadyExists if the account already has a snapshot for that date.
func (r *SnapshotRepository) InsertSnapshot(ctx context.Context, s *model.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshot (` + snapshotColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, snapshot_date) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		s.ID,
		s.AccountID,
		FormatDate(s.SnapshotDate),
		s.TotalValue,
		s.CashBalance,
		s.TotalInvested,
		s.TotalGain,
		s.DayChange,
		FormatTimestamp(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrSnapshotAlreadyExists
	}

	return nil
}

// SnapshotExists reports whether the account has a snapshot for the date.
func (r *SnapshotRepository) SnapshotExists(ctx context.Context, accountID string, date time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM portfolio_snapshot WHERE account_id = ? AND snapshot_date = ?)`

	var exists bool
	if err := r.getQuerier().QueryRowContext(ctx, query, accountID, FormatDate(date)).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check snapshot: %w", err)
	}

	return exists, nil
}

// GetSnapshot retrieves the snapshot of an account for a date.
// Returns ErrSnapshotNotFound if none exists.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, accountID string, date time.Time) (model.PortfolioSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM portfolio_snapshot WHERE account_id = ? AND snapshot_date = ?`

	s, err := scanSnapshot(r.getQuerier().QueryRowContext(ctx, query, accountID, FormatDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PortfolioSnapshot{}, apperrors.ErrSnapshotNotFound
		}
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return s, nil
}

// GetLatestSnapshot returns the account's most recent snapshot.
// The boolean is false when the account has none.
func (r *SnapshotRepository) GetLatestSnapshot(ctx context.Context, accountID string) (model.PortfolioSnapshot, bool, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM portfolio_snapshot
		WHERE account_id = ?
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	s, err := scanSnapshot(r.getQuerier().QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PortfolioSnapshot{}, false, nil
		}
		return model.PortfolioSnapshot{}, false, fmt.Errorf("failed to query previous snapshot: %w", err)
	}

	return s, true, nil
}

// GetSnapshots returns the snapshots of an account between startDate and endDate inclusive,
// oldest first. A zero startDate or endDate leaves that side of the range open.
func (r *SnapshotRepository) GetSnapshots(ctx context.Context, accountID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM portfolio_snapshot WHERE account_id = ?`
	args := []any{accountID}

	if !startDate.IsZero() {
		query += ` AND snapshot_date >= ?`
		args = append(args, FormatDate(startDate))
	}
	if !endDate.IsZero() {
		query += ` AND snapshot_date <= ?`
		args = append(args, FormatDate(endDate))
	}
	query += ` ORDER BY snapshot_date ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}
