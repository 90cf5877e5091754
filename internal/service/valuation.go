package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/market"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
)

// valuedHolding is a holding with the price it was valued at.
type valuedHolding struct {
	holding model.Holding
	price   decimal.Decimal
}

func (v valuedHolding) position() ledger.Position {
	return positionOf(v.holding)
}

// valuation is an account priced at one moment.
type valuation struct {
	cash          decimal.Decimal
	holdingsValue decimal.Decimal
	totalValue    decimal.Decimal
	costBasis     decimal.Decimal
	realizedGain  decimal.Decimal
	holdings      []valuedHolding
}

func (v valuation) unrealizedGain() decimal.Decimal {
	return v.holdingsValue.Sub(v.costBasis)
}

// portfolioValuer prices the holdings of an account through a PriceLookup.
type portfolioValuer struct {
	holdingRepo *repository.HoldingRepository
	prices      market.PriceLookup
}

func positionOf(h model.Holding) ledger.Position {
	return ledger.Position{
		Quantity:         h.Quantity,
		AverageCostBasis: h.AverageCostBasis,
		TotalCostBasis:   h.TotalCostBasis,
		RealizedGain:     h.RealizedGain,
	}
}

// price resolves the valuation price of an open holding. A stock with no known
// price is valued at the holding's average cost.
func (p *portfolioValuer) price(ctx context.Context, h model.Holding) (decimal.Decimal, error) {
	price, err := p.prices.GetCurrentPrice(ctx, h.StockID)
	if err == nil {
		return price, nil
	}
	if errors.Is(err, apperrors.ErrPriceUnavailable) {
		log.Debug().Str("stock_id", h.StockID).Msg("no market price, valuing at average cost")
		return h.AverageCostBasis, nil
	}
	return decimal.Zero, fmt.Errorf("failed to price stock %s: %w", h.StockID, err)
}

// value prices every holding of the account. Closed holdings keep their realized
// gain in the totals but are not priced.
func (p *portfolioValuer) value(ctx context.Context, account model.Account) (valuation, error) {
	holdings, err := p.holdingRepo.GetHoldingsByAccount(ctx, account.ID)
	if err != nil {
		return valuation{}, err
	}

	valued := make([]valuedHolding, 0, len(holdings))
	priced := make([]ledger.Priced, 0, len(holdings))
	positions := make([]ledger.Position, 0, len(holdings))

	for _, h := range holdings {
		positions = append(positions, positionOf(h))
		if !h.IsOpen() {
			continue
		}

		price, err := p.price(ctx, h)
		if err != nil {
			return valuation{}, err
		}

		valued = append(valued, valuedHolding{holding: h, price: price})
		priced = append(priced, ledger.Priced{Position: positionOf(h), Price: price})
	}

	holdingsValue := ledger.TotalHoldingsValue(priced)

	return valuation{
		cash:          account.CashBalance,
		holdingsValue: holdingsValue,
		totalValue:    ledger.TotalPortfolioValue(priced, account.CashBalance),
		costBasis:     ledger.TotalCostBasis(positions),
		realizedGain:  ledger.TotalRealizedGain(positions),
		holdings:      valued,
	}, nil
}
