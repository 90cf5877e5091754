package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is the valuation of an account on one calendar day.
type PortfolioSnapshot struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"accountId"`
	SnapshotDate  time.Time       `json:"snapshotDate"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	CashBalance   decimal.Decimal `json:"cashBalance"`
	TotalInvested decimal.Decimal `json:"totalInvested"`
	TotalGain     decimal.Decimal `json:"totalGain"`
	DayChange     decimal.Decimal `json:"dayChange"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SnapshotBatchResult tallies a run over every account.
// Skipped counts accounts that already had a snapshot for the date.
type SnapshotBatchResult struct {
	Date      string `json:"date"`
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Total     int    `json:"total"`
}
