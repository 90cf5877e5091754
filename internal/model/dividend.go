package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of a dividend payment.
type PaymentStatus string

// PaymentStatusPaid is the only status the distribution engine writes.
const PaymentStatusPaid PaymentStatus = "PAID"

// Dividend is a per-share distribution declared for a stock on a pay date.
type Dividend struct {
	ID             string          `json:"id"`
	StockID        string          `json:"stockId"`
	AmountPerShare decimal.Decimal `json:"amountPerShare"`
	PayDate        time.Time       `json:"payDate"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// DividendPayment records what one account received from one dividend.
// At most one payment exists per (dividend, account).
type DividendPayment struct {
	ID          string          `json:"id"`
	DividendID  string          `json:"dividendId"`
	AccountID   string          `json:"accountId"`
	StockID     string          `json:"stockId"`
	Shares      decimal.Decimal `json:"shares"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      PaymentStatus   `json:"status"`
	PaymentDate time.Time       `json:"paymentDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}
