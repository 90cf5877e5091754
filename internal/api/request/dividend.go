package request

import "github.com/shopspring/decimal"

// CreateDividendRequest represents the request body for declaring a dividend.
// All fields are required.
type CreateDividendRequest struct {
	StockID        string          `json:"stockId"`
	AmountPerShare decimal.Decimal `json:"amountPerShare"`
	PayDate        string          `json:"payDate"`
}
