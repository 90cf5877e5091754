// Package notify publishes portfolio change events to a best-effort sink.
// Publishing never fails the operation that produced the event.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// EventType names what happened to the account.
type EventType string

const (
	EventPortfolioUpdated EventType = "PORTFOLIO_UPDATED"
	EventDividendPaid     EventType = "DIVIDEND_PAID"
)

// Event is the payload broadcast for an account.
type Event struct {
	Type         EventType       `json:"type"`
	AccountID    string          `json:"accountId"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	Change       decimal.Decimal `json:"change"`
	Amount       decimal.Decimal `json:"amount"`
	Reference    string          `json:"reference,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Sink delivers a single event.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Notifier hands events to a Sink on background goroutines, each bounded by a timeout.
// Failures are logged and dropped.
type Notifier struct {
	sink    Sink
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotifier creates a Notifier. A non-positive timeout defaults to five seconds.
func NewNotifier(sink Sink, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Notifier{
		sink:    sink,
		timeout: timeout,
	}
}

// Notify publishes the event asynchronously and returns immediately.
func (n *Notifier) Notify(event Event) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		if err := n.sink.Publish(ctx, event); err != nil {
			log.Warn().
				Err(err).
				Str("account_id", event.AccountID).
				Str("event", string(event.Type)).
				Msg("failed to publish notification")
		}
	}()
}

// Wait blocks until every in-flight publish has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
