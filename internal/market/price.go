// Package market resolves current stock prices for valuation.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/yahoo"
)

// priceScale bounds the decimal places kept from a quoted price.
const priceScale = 4

// PriceLookup returns the current market price of a stock.
// Implementations return an error wrapping apperrors.ErrPriceUnavailable when no price is known.
type PriceLookup interface {
	GetCurrentPrice(ctx context.Context, stockID string) (decimal.Decimal, error)
}

// StockStore is the stock persistence a lookup needs.
type StockStore interface {
	GetStock(ctx context.Context, stockID string) (model.Stock, error)
	UpdateLastPrice(ctx context.Context, stockID string, price decimal.Decimal) error
}

// StoredPriceLookup answers with the last known price recorded on the stock.
type StoredPriceLookup struct {
	stocks StockStore
}

// NewStoredPriceLookup creates a StoredPriceLookup.
func NewStoredPriceLookup(stocks StockStore) *StoredPriceLookup {
	return &StoredPriceLookup{stocks: stocks}
}

// GetCurrentPrice returns the stock's last known price.
func (l *StoredPriceLookup) GetCurrentPrice(ctx context.Context, stockID string) (decimal.Decimal, error) {
	stock, err := l.stocks.GetStock(ctx, stockID)
	if err != nil {
		return decimal.Zero, err
	}
	return storedPrice(stock)
}

func storedPrice(stock model.Stock) (decimal.Decimal, error) {
	if !stock.LastPrice.Valid {
		return decimal.Zero, fmt.Errorf("%w: %s has no recorded price", apperrors.ErrPriceUnavailable, stock.Ticker)
	}
	return stock.LastPrice.Decimal, nil
}

// YahooPriceLookup quotes the latest close from Yahoo Finance within a call budget.
// When the budget is spent or the quote fails it answers with the stored price.
// Successful quotes are written back as the stock's last known price.
type YahooPriceLookup struct {
	stocks  StockStore
	client  yahoo.Client
	limiter *RateLimiter
}

// NewYahooPriceLookup creates a YahooPriceLookup.
func NewYahooPriceLookup(stocks StockStore, client yahoo.Client, limiter *RateLimiter) *YahooPriceLookup {
	return &YahooPriceLookup{
		stocks:  stocks,
		client:  client,
		limiter: limiter,
	}
}

// GetCurrentPrice returns a fresh quote when the budget allows, otherwise the stored price.
func (l *YahooPriceLookup) GetCurrentPrice(ctx context.Context, stockID string) (decimal.Decimal, error) {
	stock, err := l.stocks.GetStock(ctx, stockID)
	if err != nil {
		return decimal.Zero, err
	}

	if !l.limiter.Allow() {
		log.Debug().Str("ticker", stock.Ticker).Msg("price quote skipped: rate limit reached")
		return storedPrice(stock)
	}

	point, err := l.client.LatestClose(ctx, stock.Ticker)
	if err != nil {
		log.Warn().Err(err).Str("ticker", stock.Ticker).Msg("price quote failed, using stored price")
		return storedPrice(stock)
	}

	price := decimal.NewFromFloat(point.Close).Round(priceScale)
	if !price.IsPositive() {
		return storedPrice(stock)
	}

	if err := l.stocks.UpdateLastPrice(ctx, stockID, price); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Str("ticker", stock.Ticker).Msg("failed to record quoted price")
	}

	return price, nil
}
