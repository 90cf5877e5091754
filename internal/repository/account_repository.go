package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a new AccountRepository scoped to the provided transaction.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetAccount retrieves a single account by its ID.
// Returns ErrAccountNotFound if no account with the given ID exists.
func (r *AccountRepository) GetAccount(ctx context.Context, accountID string) (model.Account, error) {
	if accountID == "" {
		return model.Account{}, apperrors.ErrInvalidAccountID
	}

	query := `
		SELECT id, user_id, name, cash_balance, created_at
		FROM account
		WHERE id = ?
	`

	var a model.Account
	var createdAtStr string
	err := r.getQuerier().QueryRowContext(ctx, query, accountID).Scan(
		&a.ID,
		&a.UserID,
		&a.Name,
		&a.CashBalance,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, apperrors.ErrAccountNotFound
		}
		return model.Account{}, fmt.Errorf("failed to query account: %w", err)
	}

	a.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to parse account created_at: %w", err)
	}

	return a, nil
}

// GetAccounts returns every account ordered by creation time.
func (r *AccountRepository) GetAccounts(ctx context.Context) ([]model.Account, error) {
	query := `
		SELECT id, user_id, name, cash_balance, created_at
		FROM account
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		var a model.Account
		var createdAtStr string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.CashBalance, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		a.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse account created_at: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// UpdateCashBalance overwrites the cash balance of an account.
// Returns ErrAccountNotFound if no account with the given ID exists.
func (r *AccountRepository) UpdateCashBalance(ctx context.Context, accountID string, cash decimal.Decimal) error {
	query := `UPDATE account SET cash_balance = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, cash, accountID)
	if err != nil {
		return fmt.Errorf("failed to update cash balance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}
