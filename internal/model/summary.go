package model

import "github.com/shopspring/decimal"

// AccountSummary is the valuation of an account at current prices.
type AccountSummary struct {
	AccountID      string           `json:"accountId"`
	Name           string           `json:"name"`
	CashBalance    decimal.Decimal  `json:"cashBalance"`
	HoldingsValue  decimal.Decimal  `json:"holdingsValue"`
	TotalValue     decimal.Decimal  `json:"totalValue"`
	TotalCostBasis decimal.Decimal  `json:"totalCostBasis"`
	UnrealizedGain decimal.Decimal  `json:"unrealizedGain"`
	RealizedGain   decimal.Decimal  `json:"realizedGain"`
	TotalDividends decimal.Decimal  `json:"totalDividends"`
	Holdings       []HoldingSummary `json:"holdings"`
}

// HoldingSummary is one open position inside an AccountSummary.
type HoldingSummary struct {
	StockID          string          `json:"stockId"`
	Ticker           string          `json:"ticker"`
	CompanyName      string          `json:"companyName"`
	Quantity         decimal.Decimal `json:"quantity"`
	AverageCostBasis decimal.Decimal `json:"averageCostBasis"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	CurrentValue     decimal.Decimal `json:"currentValue"`
	TotalCostBasis   decimal.Decimal `json:"totalCostBasis"`
	UnrealizedGain   decimal.Decimal `json:"unrealizedGain"`
	RealizedGain     decimal.Decimal `json:"realizedGain"`
	PercentReturn    decimal.Decimal `json:"percentReturn"`
	AllocationWeight decimal.Decimal `json:"allocationWeight"`
}
