package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of trade directions.
type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// ParseTransactionType maps case-insensitive input onto a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionTypeBuy:
		return TransactionTypeBuy, nil
	case TransactionTypeSell:
		return TransactionTypeSell, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

func (t TransactionType) String() string {
	return string(t)
}

// Transaction is an immutable record of an applied trade.
type Transaction struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"accountId"`
	StockID    string          `json:"stockId"`
	Type       TransactionType `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// TransactionResponse is a transaction enriched with the stock ticker for listings.
type TransactionResponse struct {
	Transaction
	Ticker string `json:"ticker"`
}
