package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the position an account carries in one stock.
// There is at most one holding per (account, stock). A holding whose quantity
// has fallen to zero is kept so its realized gain history survives.
type Holding struct {
	ID               string          `json:"id"`
	AccountID        string          `json:"accountId"`
	StockID          string          `json:"stockId"`
	Quantity         decimal.Decimal `json:"quantity"`
	AverageCostBasis decimal.Decimal `json:"averageCostBasis"`
	TotalCostBasis   decimal.Decimal `json:"totalCostBasis"`
	RealizedGain     decimal.Decimal `json:"realizedGain"`
	FirstPurchasedAt time.Time       `json:"firstPurchasedAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// IsOpen reports whether the holding currently carries shares.
func (h Holding) IsOpen() bool {
	return h.Quantity.IsPositive()
}
