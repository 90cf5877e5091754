package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `id, account_id, stock_id, quantity, average_cost_basis, total_cost_basis,
		realized_gain, first_purchased_at, updated_at`

func scanHolding(row interface{ Scan(dest ...any) error }) (model.Holding, error) {
	var h model.Holding
	var firstStr, updatedStr string

	err := row.Scan(
		&h.ID,
		&h.AccountID,
		&h.StockID,
		&h.Quantity,
		&h.AverageCostBasis,
		&h.TotalCostBasis,
		&h.RealizedGain,
		&firstStr,
		&updatedStr,
	)
	if err != nil {
		return model.Holding{}, err
	}

	if h.FirstPurchasedAt, err = ParseTime(firstStr); err != nil {
		return model.Holding{}, fmt.Errorf("failed to parse first_purchased_at: %w", err)
	}
	if h.UpdatedAt, err = ParseTime(updatedStr); err != nil {
		return model.Holding{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return h, nil
}

// GetHolding retrieves the holding for an (account, stock) pair.
// Returns ErrHoldingNotFound if the account has never held the stock.
func (r *HoldingRepository) GetHolding(ctx context.Context, accountID, stockID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE account_id = ? AND stock_id = ?`

	h, err := scanHolding(r.getQuerier().QueryRowContext(ctx, query, accountID, stockID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Holding{}, apperrors.ErrHoldingNotFound
		}
		return model.Holding{}, fmt.Errorf("failed to query holding: %w", err)
	}

	return h, nil
}

// GetHoldingsByAccount returns every holding of an account, closed positions included.
func (r *HoldingRepository) GetHoldingsByAccount(ctx context.Context, accountID string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE account_id = ? ORDER BY first_purchased_at ASC, id ASC`
	return r.queryHoldings(ctx, query, accountID)
}

// GetOpenHoldingsByStock returns the holdings of a stock whose quantity is above zero.
func (r *HoldingRepository) GetOpenHoldingsByStock(ctx context.Context, stockID string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE stock_id = ? ORDER BY account_id ASC`

	all, err := r.queryHoldings(ctx, query, stockID)
	if err != nil {
		return nil, err
	}

	open := make([]model.Holding, 0, len(all))
	for _, h := range all {
		if h.IsOpen() {
			open = append(open, h)
		}
	}
	return open, nil
}

func (r *HoldingRepository) queryHoldings(ctx context.Context, query string, args ...any) ([]model.Holding, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// UpsertHolding inserts the holding or, when the (account, stock) pair exists,
// overwrites its quantity and cost figures. The row ID and first purchase time
// of an existing holding are kept.
func (r *HoldingRepository) UpsertHolding(ctx context.Context, h *model.Holding) error {
	query := `
		INSERT INTO holding (` + holdingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, stock_id) DO UPDATE SET
			quantity = excluded.quantity,
			average_cost_basis = excluded.average_cost_basis,
			total_cost_basis = excluded.total_cost_basis,
			realized_gain = excluded.realized_gain,
			updated_at = excluded.updated_at
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.AccountID,
		h.StockID,
		h.Quantity,
		h.AverageCostBasis,
		h.TotalCostBasis,
		h.RealizedGain,
		FormatTimestamp(h.FirstPurchasedAt),
		FormatTimestamp(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	return nil
}
