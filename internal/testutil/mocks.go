package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/notify"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/yahoo"
)

// RecordingSink keeps every published event. Setting Err makes Publish fail
// after recording.
type RecordingSink struct {
	mu     sync.Mutex
	events []notify.Event
	Err    error
}

func (s *RecordingSink) Publish(_ context.Context, event notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.Err
}

// Events returns a copy of the events published so far.
func (s *RecordingSink) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Event(nil), s.events...)
}

// MockPriceLookup returns fixed prices per stock ID. Unknown stocks report
// ErrPriceUnavailable.
type MockPriceLookup struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
}

func NewMockPriceLookup() *MockPriceLookup {
	return &MockPriceLookup{prices: make(map[string]decimal.Decimal)}
}

// Set fixes the price of a stock.
func (m *MockPriceLookup) Set(stockID, price string) *MockPriceLookup {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[stockID] = D(price)
	return m
}

func (m *MockPriceLookup) GetCurrentPrice(_ context.Context, stockID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.prices[stockID]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrPriceUnavailable, stockID)
	}
	return p, nil
}

// MockYahooClient is a yahoo.Client returning canned closes by symbol.
// It counts calls so tests can assert on rate limiting and caching.
type MockYahooClient struct {
	mu     sync.Mutex
	closes map[string]yahoo.PricePoint
	Err    error
	calls  int
}

// NewMockYahooClient creates a mock with no known symbols.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{closes: make(map[string]yahoo.PricePoint)}
}

// WithClose registers the latest close for symbol.
func (m *MockYahooClient) WithClose(symbol string, price float64) *MockYahooClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes[symbol] = yahoo.PricePoint{Close: price}
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockYahooClient) WithError(err error) *MockYahooClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
	return m
}

func (m *MockYahooClient) LatestClose(_ context.Context, symbol string) (yahoo.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return yahoo.PricePoint{}, m.Err
	}
	p, ok := m.closes[symbol]
	if !ok {
		return yahoo.PricePoint{}, yahoo.ErrNoPriceData
	}
	return p, nil
}

// Calls reports how many lookups reached the mock.
func (m *MockYahooClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
