package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is an investment account holding cash and stock positions.
// CashBalance is never persisted below zero.
type Account struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Name        string          `json:"name"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Stock is a tradable instrument. LastPrice is the last known market value
// and is empty until a price has been recorded.
type Stock struct {
	ID          string              `json:"id"`
	Ticker      string              `json:"ticker"`
	CompanyName string              `json:"companyName"`
	LastPrice   decimal.NullDecimal `json:"lastPrice"`
}
