package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// DividendRepository provides data access for declared dividends and the payments made from them.
type DividendRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// WithTx returns a new DividendRepository scoped to the provided transaction.
func (r *DividendRepository) WithTx(tx *sql.Tx) *DividendRepository {
	return &DividendRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *DividendRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// InsertDividend stores a dividend declaration.
// Returns ErrDuplicateDividend if the stock already has a dividend on the same pay date.
func (r *DividendRepository) InsertDividend(ctx context.Context, d *model.Dividend) error {
	query := `
		INSERT INTO dividend (id, stock_id, amount_per_share, pay_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(stock_id, pay_date) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		d.ID,
		d.StockID,
		d.AmountPerShare,
		FormatDate(d.PayDate),
		FormatTimestamp(d.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert dividend: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrDuplicateDividend
	}

	return nil
}

// GetDividend retrieves a dividend by its ID.
// Returns ErrDividendNotFound if no dividend with the given ID exists.
func (r *DividendRepository) GetDividend(ctx context.Context, dividendID string) (model.Dividend, error) {
	query := `
		SELECT id, stock_id, amount_per_share, pay_date, created_at
		FROM dividend
		WHERE id = ?
	`

	var d model.Dividend
	var payDateStr, createdAtStr string
	err := r.getQuerier().QueryRowContext(ctx, query, dividendID).Scan(
		&d.ID,
		&d.StockID,
		&d.AmountPerShare,
		&payDateStr,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Dividend{}, apperrors.ErrDividendNotFound
		}
		return model.Dividend{}, fmt.Errorf("failed to query dividend: %w", err)
	}

	if d.PayDate, err = ParseTime(payDateStr); err != nil {
		return model.Dividend{}, fmt.Errorf("failed to parse pay_date: %w", err)
	}
	if d.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Dividend{}, fmt.Errorf("failed to parse dividend created_at: %w", err)
	}

	return d, nil
}

// InsertPayment records a payment unless the (dividend, account) pair already has one.
// Reports whether a new row was written.
func (r *DividendRepository) InsertPayment(ctx context.Context, p *model.DividendPayment) (bool, error) {
	query := `
		INSERT INTO dividend_payment (id, dividend_id, account_id, stock_id, shares, total_amount, status, payment_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(dividend_id, account_id) DO NOTHING
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.DividendID,
		p.AccountID,
		p.StockID,
		p.Shares,
		p.TotalAmount,
		string(p.Status),
		FormatDate(p.PaymentDate),
		FormatTimestamp(p.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert dividend payment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// GetPaymentsByDividend returns every payment made from a dividend.
func (r *DividendRepository) GetPaymentsByDividend(ctx context.Context, dividendID string) ([]model.DividendPayment, error) {
	return r.queryPayments(ctx, `WHERE dividend_id = ? ORDER BY account_id ASC`, dividendID)
}

// GetPaymentsByAccount returns every payment an account has received, oldest first.
func (r *DividendRepository) GetPaymentsByAccount(ctx context.Context, accountID string) ([]model.DividendPayment, error) {
	return r.queryPayments(ctx, `WHERE account_id = ? ORDER BY payment_date ASC, created_at ASC`, accountID)
}

func (r *DividendRepository) queryPayments(ctx context.Context, where string, args ...any) ([]model.DividendPayment, error) {
	query := `
		SELECT id, dividend_id, account_id, stock_id, shares, total_amount, status, payment_date, created_at
		FROM dividend_payment
	` + where

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend payments: %w", err)
	}
	defer rows.Close()

	payments := []model.DividendPayment{}
	for rows.Next() {
		var p model.DividendPayment
		var status, paymentDateStr, createdAtStr string

		err := rows.Scan(
			&p.ID,
			&p.DividendID,
			&p.AccountID,
			&p.StockID,
			&p.Shares,
			&p.TotalAmount,
			&status,
			&paymentDateStr,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend payment: %w", err)
		}

		p.Status = model.PaymentStatus(status)
		if p.PaymentDate, err = ParseTime(paymentDateStr); err != nil {
			return nil, fmt.Errorf("failed to parse payment_date: %w", err)
		}
		if p.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to parse payment created_at: %w", err)
		}

		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend payments: %w", err)
	}

	return payments, nil
}
