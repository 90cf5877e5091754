package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	// Simple creation with defaults
//	account := testutil.NewAccount().Build(t, db)
//
//	// Customized account
//	account := testutil.NewAccount().
//	    WithName("Retirement").
//	    WithCash("100000").
//	    Build(t, db)
type AccountBuilder struct {
	ID          string
	UserID      string
	Name        string
	CashBalance decimal.Decimal
	CreatedAt   time.Time
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:          MakeID(),
		UserID:      MakeID(),
		Name:        MakeAccountName("Test Account"),
		CashBalance: decimal.NewFromInt(10000),
		CreatedAt:   time.Now().UTC(),
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// WithCash sets the opening cash balance.
func (b *AccountBuilder) WithCash(amount string) *AccountBuilder {
	b.CashBalance = D(amount)
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	query := `
		INSERT INTO account (id, user_id, name, cash_balance, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Name, b.CashBalance, repository.FormatTimestamp(b.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}

	return model.Account{
		ID:          b.ID,
		UserID:      b.UserID,
		Name:        b.Name,
		CashBalance: b.CashBalance,
		CreatedAt:   b.CreatedAt,
	}
}

// StockBuilder provides a fluent interface for creating test stocks.
//
// Example usage:
//
//	stock := testutil.NewStock().WithTicker("AAPL").WithPrice("150").Build(t, db)
type StockBuilder struct {
	ID          string
	Ticker      string
	CompanyName string
	LastPrice   decimal.NullDecimal
}

// NewStock creates a StockBuilder with a unique ticker and no known price.
func NewStock() *StockBuilder {
	return &StockBuilder{
		ID:          MakeID(),
		Ticker:      MakeTicker("TST"),
		CompanyName: MakeCompanyName("Test Corp"),
	}
}

// WithID sets a custom ID.
func (b *StockBuilder) WithID(id string) *StockBuilder {
	b.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *StockBuilder) WithTicker(ticker string) *StockBuilder {
	b.Ticker = ticker
	return b
}

// WithPrice sets the last known price.
func (b *StockBuilder) WithPrice(price string) *StockBuilder {
	b.LastPrice = decimal.NewNullDecimal(D(price))
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) model.Stock {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO stock (id, ticker, company_name, last_price) VALUES (?, ?, ?, ?)`,
		b.ID, b.Ticker, b.CompanyName, b.LastPrice,
	)
	if err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}

	return model.Stock{
		ID:          b.ID,
		Ticker:      b.Ticker,
		CompanyName: b.CompanyName,
		LastPrice:   b.LastPrice,
	}
}

// HoldingBuilder creates a holding directly, bypassing the transaction processor.
// The total cost basis is derived from quantity and average cost.
//
// Example usage:
//
//	testutil.NewHolding(account.ID, stock.ID).WithQuantity("10").WithAverageCost("100").Build(t, db)
type HoldingBuilder struct {
	ID               string
	AccountID        string
	StockID          string
	Quantity         decimal.Decimal
	AverageCostBasis decimal.Decimal
	RealizedGain     decimal.Decimal
	FirstPurchasedAt time.Time
}

// NewHolding creates a HoldingBuilder for ten shares at 100.
func NewHolding(accountID, stockID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:               MakeID(),
		AccountID:        accountID,
		StockID:          stockID,
		Quantity:         decimal.NewFromInt(10),
		AverageCostBasis: decimal.NewFromInt(100),
		RealizedGain:     decimal.Zero,
		FirstPurchasedAt: time.Now().UTC(),
	}
}

// WithQuantity sets the share count.
func (b *HoldingBuilder) WithQuantity(q string) *HoldingBuilder {
	b.Quantity = D(q)
	return b
}

// WithAverageCost sets the average cost per share.
func (b *HoldingBuilder) WithAverageCost(avg string) *HoldingBuilder {
	b.AverageCostBasis = D(avg)
	return b
}

// WithRealizedGain sets the realized gain carried by the holding.
func (b *HoldingBuilder) WithRealizedGain(gain string) *HoldingBuilder {
	b.RealizedGain = D(gain)
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	h := model.Holding{
		ID:               b.ID,
		AccountID:        b.AccountID,
		StockID:          b.StockID,
		Quantity:         b.Quantity,
		AverageCostBasis: b.AverageCostBasis,
		TotalCostBasis:   ledger.Cost(b.Quantity, b.AverageCostBasis),
		RealizedGain:     b.RealizedGain,
		FirstPurchasedAt: b.FirstPurchasedAt,
		UpdatedAt:        b.FirstPurchasedAt,
	}

	query := `
		INSERT INTO holding (id, account_id, stock_id, quantity, average_cost_basis,
			total_cost_basis, realized_gain, first_purchased_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		h.ID, h.AccountID, h.StockID, h.Quantity, h.AverageCostBasis,
		h.TotalCostBasis, h.RealizedGain,
		repository.FormatTimestamp(h.FirstPurchasedAt), repository.FormatTimestamp(h.UpdatedAt),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return h
}

// DividendBuilder provides a fluent interface for declaring test dividends.
type DividendBuilder struct {
	ID             string
	StockID        string
	AmountPerShare decimal.Decimal
	PayDate        time.Time
}

// NewDividend creates a DividendBuilder paying 0.50 per share today.
func NewDividend(stockID string) *DividendBuilder {
	now := time.Now().UTC()
	return &DividendBuilder{
		ID:             MakeID(),
		StockID:        stockID,
		AmountPerShare: D("0.50"),
		PayDate:        time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// WithAmountPerShare sets the per-share amount.
func (b *DividendBuilder) WithAmountPerShare(amount string) *DividendBuilder {
	b.AmountPerShare = D(amount)
	return b
}

// WithPayDate sets the pay date.
func (b *DividendBuilder) WithPayDate(date time.Time) *DividendBuilder {
	b.PayDate = date
	return b
}

// Build creates the dividend in the database and returns it.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.Dividend {
	t.Helper()

	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO dividend (id, stock_id, amount_per_share, pay_date, created_at) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.StockID, b.AmountPerShare, repository.FormatDate(b.PayDate), repository.FormatTimestamp(now),
	)
	if err != nil {
		t.Fatalf("Failed to create test dividend: %v", err)
	}

	return model.Dividend{
		ID:             b.ID,
		StockID:        b.StockID,
		AmountPerShare: b.AmountPerShare,
		PayDate:        b.PayDate,
		CreatedAt:      now,
	}
}

// SnapshotBuilder creates a stored snapshot, typically to seed history
// before generating the next one.
type SnapshotBuilder struct {
	ID         string
	AccountID  string
	Date       time.Time
	TotalValue decimal.Decimal
	Cash       decimal.Decimal
}

// NewSnapshot creates a SnapshotBuilder for yesterday with a total value of 10000.
func NewSnapshot(accountID string) *SnapshotBuilder {
	return &SnapshotBuilder{
		ID:         MakeID(),
		AccountID:  accountID,
		Date:       time.Now().UTC().AddDate(0, 0, -1),
		TotalValue: decimal.NewFromInt(10000),
		Cash:       decimal.NewFromInt(10000),
	}
}

// WithDate sets the snapshot day.
func (b *SnapshotBuilder) WithDate(date time.Time) *SnapshotBuilder {
	b.Date = date
	return b
}

// WithTotalValue sets the recorded total value.
func (b *SnapshotBuilder) WithTotalValue(v string) *SnapshotBuilder {
	b.TotalValue = D(v)
	return b
}

// Build creates the snapshot in the database and returns it.
func (b *SnapshotBuilder) Build(t *testing.T, db *sql.DB) model.PortfolioSnapshot {
	t.Helper()

	s := model.PortfolioSnapshot{
		ID:            b.ID,
		AccountID:     b.AccountID,
		SnapshotDate:  b.Date,
		TotalValue:    b.TotalValue,
		CashBalance:   b.Cash,
		TotalInvested: decimal.Zero,
		TotalGain:     decimal.Zero,
		DayChange:     decimal.Zero,
		CreatedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO portfolio_snapshot (id, account_id, snapshot_date, total_value, cash_balance,
			total_invested, total_gain, day_change, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		s.ID, s.AccountID, repository.FormatDate(s.SnapshotDate), s.TotalValue, s.CashBalance,
		s.TotalInvested, s.TotalGain, s.DayChange, repository.FormatTimestamp(s.CreatedAt),
	)
	if err != nil {
		t.Fatalf("Failed to create test snapshot: %v", err)
	}

	return s
}
