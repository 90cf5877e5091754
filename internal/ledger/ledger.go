// Package ledger holds the pure arithmetic behind holdings and account valuation.
// Nothing here touches storage; prices are always passed in by the caller.
//
// Products are exact. Only divisions round: the average cost to CostBasisScale
// and percentages to CurrencyScale. Money is for presentation.
package ledger

import (
	"github.com/shopspring/decimal"
)

const (
	// CurrencyScale is the number of decimal places kept for money amounts.
	CurrencyScale int32 = 2

	// CostBasisScale is the number of decimal places kept for average cost per share.
	CostBasisScale int32 = 6

	// QuantityScale is the maximum number of decimal places accepted for share counts.
	QuantityScale int32 = 8
)

var hundred = decimal.NewFromInt(100)

// Money rounds an amount half-up to CurrencyScale for display.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyScale)
}

// Position is the arithmetic state of a holding.
type Position struct {
	Quantity         decimal.Decimal
	AverageCostBasis decimal.Decimal
	TotalCostBasis   decimal.Decimal
	RealizedGain     decimal.Decimal
}

// Cost is the exact cash amount of trading quantity shares at price.
func Cost(quantity, price decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price)
}

// ApplyBuy returns the position after buying quantity shares at price.
// The total cost basis grows by exactly the cost paid; the average is that total
// over the new quantity. An empty position (quantity zero) is re-established at
// price; realized gain carries over.
func ApplyBuy(p Position, quantity, price decimal.Decimal) Position {
	cost := Cost(quantity, price)

	if !p.Quantity.IsPositive() {
		return Position{
			Quantity:         quantity,
			AverageCostBasis: price.Round(CostBasisScale),
			TotalCostBasis:   cost,
			RealizedGain:     p.RealizedGain,
		}
	}

	newQty := p.Quantity.Add(quantity)
	newTotal := p.TotalCostBasis.Add(cost)

	return Position{
		Quantity:         newQty,
		AverageCostBasis: newTotal.DivRound(newQty, CostBasisScale),
		TotalCostBasis:   newTotal,
		RealizedGain:     p.RealizedGain,
	}
}

// ApplySell returns the position after selling quantity shares at price.
// The caller guarantees quantity does not exceed p.Quantity. Average cost is unchanged.
func ApplySell(p Position, quantity, price decimal.Decimal) Position {
	gain := quantity.Mul(price.Sub(p.AverageCostBasis))
	newQty := p.Quantity.Sub(quantity)

	return Position{
		Quantity:         newQty,
		AverageCostBasis: p.AverageCostBasis,
		TotalCostBasis:   newQty.Mul(p.AverageCostBasis),
		RealizedGain:     p.RealizedGain.Add(gain),
	}
}

// CurrentValue is quantity × price.
func CurrentValue(quantity, price decimal.Decimal) decimal.Decimal {
	return quantity.Mul(price)
}

// UnrealizedGain is the current value less the total cost basis.
func UnrealizedGain(p Position, price decimal.Decimal) decimal.Decimal {
	return CurrentValue(p.Quantity, price).Sub(p.TotalCostBasis)
}

// PercentReturn is the unrealized gain as a percentage of cost basis, zero for an empty basis.
func PercentReturn(p Position, price decimal.Decimal) decimal.Decimal {
	if !p.TotalCostBasis.IsPositive() {
		return decimal.Zero
	}
	return UnrealizedGain(p, price).Mul(hundred).DivRound(p.TotalCostBasis, CurrencyScale)
}

// Priced pairs a position with the price used to value it.
type Priced struct {
	Position Position
	Price    decimal.Decimal
}

// TotalHoldingsValue sums the current value of every position.
func TotalHoldingsValue(items []Priced) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(CurrentValue(it.Position.Quantity, it.Price))
	}
	return total
}

// TotalPortfolioValue is the holdings value plus cash.
func TotalPortfolioValue(items []Priced, cash decimal.Decimal) decimal.Decimal {
	return TotalHoldingsValue(items).Add(cash)
}

// TotalCostBasis sums the cost basis of every position.
func TotalCostBasis(positions []Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.TotalCostBasis)
	}
	return total
}

// TotalRealizedGain sums realized gain across positions, closed ones included.
func TotalRealizedGain(positions []Position) decimal.Decimal {
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.RealizedGain)
	}
	return total
}

// AllocationWeight is value as a percentage of total, zero when total is not positive.
func AllocationWeight(value, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return value.Mul(hundred).DivRound(total, CurrencyScale)
}

// DividendAmount is what a holder of shares receives at amountPerShare.
func DividendAmount(shares, amountPerShare decimal.Decimal) decimal.Decimal {
	return shares.Mul(amountPerShare)
}

// CostBasisConsistent reports whether total ≈ quantity × average within rounding tolerance.
// The tolerance covers half a cent plus the CostBasisScale rounding of the average,
// for positions carried over from stored, rounded figures.
func CostBasisConsistent(p Position) bool {
	expected := p.Quantity.Mul(p.AverageCostBasis)
	tolerance := decimal.New(5, -3).Add(p.Quantity.Mul(decimal.New(5, -(CostBasisScale + 1))))
	return p.TotalCostBasis.Sub(expected).Abs().LessThanOrEqual(tolerance)
}
