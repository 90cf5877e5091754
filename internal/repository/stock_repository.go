package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// StockRepository provides data access methods for the stock table.
type StockRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a new StockRepository scoped to the provided transaction.
func (r *StockRepository) WithTx(tx *sql.Tx) *StockRepository {
	return &StockRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *StockRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetStock retrieves a single stock by its ID.
// Returns ErrStockNotFound if no stock with the given ID exists.
func (r *StockRepository) GetStock(ctx context.Context, stockID string) (model.Stock, error) {
	if stockID == "" {
		return model.Stock{}, apperrors.ErrInvalidStockID
	}

	query := `
		SELECT id, ticker, company_name, last_price
		FROM stock
		WHERE id = ?
	`

	var s model.Stock
	err := r.getQuerier().QueryRowContext(ctx, query, stockID).Scan(&s.ID, &s.Ticker, &s.CompanyName, &s.LastPrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Stock{}, apperrors.ErrStockNotFound
		}
		return model.Stock{}, fmt.Errorf("failed to query stock: %w", err)
	}

	return s, nil
}

// GetStocks retrieves the given stocks keyed by ID. Unknown IDs are absent from the result.
func (r *StockRepository) GetStocks(ctx context.Context, stockIDs []string) (map[string]model.Stock, error) {
	stocks := make(map[string]model.Stock, len(stockIDs))
	if len(stockIDs) == 0 {
		return stocks, nil
	}

	placeholders := make([]string, len(stockIDs))
	args := make([]any, len(stockIDs))
	for i, id := range stockIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	//nolint:gosec // G202: only placeholders are concatenated, values are bound
	query := `
		SELECT id, ticker, company_name, last_price
		FROM stock
		WHERE id IN (` + strings.Join(placeholders, ",") + `)
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.ID, &s.Ticker, &s.CompanyName, &s.LastPrice); err != nil {
			return nil, fmt.Errorf("failed to scan stock: %w", err)
		}
		stocks[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stocks: %w", err)
	}

	return stocks, nil
}

// UpdateLastPrice records the latest known market value of a stock.
func (r *StockRepository) UpdateLastPrice(ctx context.Context, stockID string, price decimal.Decimal) error {
	query := `UPDATE stock SET last_price = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, price, stockID)
	if err != nil {
		return fmt.Errorf("failed to update stock price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrStockNotFound
	}

	return nil
}
