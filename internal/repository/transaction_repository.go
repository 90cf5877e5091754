package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// TransactionRepository provides append and read access to the transaction table.
// Rows are never updated or deleted.
type TransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a new TransactionRepository scoped to the provided transaction.
func (r *TransactionRepository) WithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertTransaction appends a transaction record.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, account_id, stock_id, type, quantity, price, commission, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.AccountID,
		t.StockID,
		string(t.Type),
		t.Quantity,
		t.Price,
		t.Commission,
		FormatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransactionsByAccount returns the transactions of an account in the order they were applied.
func (r *TransactionRepository) GetTransactionsByAccount(ctx context.Context, accountID string) ([]model.TransactionResponse, error) {
	query := `
		SELECT t.id, t.account_id, t.stock_id, t.type, t.quantity, t.price, t.commission, t.created_at, s.ticker
		FROM "transaction" t
		JOIN stock s ON s.id = t.stock_id
		WHERE t.account_id = ?
		ORDER BY t.created_at ASC, t.rowid ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.TransactionResponse{}
	for rows.Next() {
		var t model.TransactionResponse
		var typeStr, createdAtStr string

		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&t.StockID,
			&typeStr,
			&t.Quantity,
			&t.Price,
			&t.Commission,
			&createdAtStr,
			&t.Ticker,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t.Type, err = model.ParseTransactionType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction type: %w", err)
		}

		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction created_at: %w", err)
		}

		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}
