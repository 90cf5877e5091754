package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest is the body of a buy or sell request.
// Quantity and price accept JSON numbers or decimal strings.
type CreateTransactionRequest struct {
	AccountID string          `json:"accountId"`
	StockID   string          `json:"stockId"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}
