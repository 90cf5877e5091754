package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/market"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/notify"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/service"
)

// NewTestNotifier returns a Notifier backed by a RecordingSink.
// Pending deliveries are drained before the test's other cleanups run.
func NewTestNotifier(t *testing.T) (*notify.Notifier, *RecordingSink) {
	t.Helper()

	sink := &RecordingSink{}
	n := notify.NewNotifier(sink, time.Second)
	t.Cleanup(n.Wait)
	return n, sink
}

// NewTestPriceLookup values stocks at their stored last price.
func NewTestPriceLookup(db *sql.DB) market.PriceLookup {
	return market.NewStoredPriceLookup(repository.NewStockRepository(db))
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	n, _ := NewTestNotifier(t)
	return NewTestTransactionServiceWith(t, db, NewTestPriceLookup(db), n)
}

// NewTestTransactionServiceWith builds a TransactionService around the given
// price lookup and notifier.
func NewTestTransactionServiceWith(t *testing.T, db *sql.DB, prices market.PriceLookup, n *notify.Notifier) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewAccountRepository(db),
		repository.NewStockRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTransactionRepository(db),
		prices,
		n,
	)
}

func NewTestDividendService(t *testing.T, db *sql.DB) *service.DividendService {
	t.Helper()

	n, _ := NewTestNotifier(t)
	return NewTestDividendServiceWith(t, db, n)
}

func NewTestDividendServiceWith(t *testing.T, db *sql.DB, n *notify.Notifier) *service.DividendService {
	t.Helper()

	return service.NewDividendService(
		db,
		repository.NewDividendRepository(db),
		repository.NewStockRepository(db),
		repository.NewHoldingRepository(db),
		n,
	)
}

func NewTestSnapshotService(t *testing.T, db *sql.DB) *service.SnapshotService {
	t.Helper()

	return NewTestSnapshotServiceWith(t, db, NewTestPriceLookup(db))
}

func NewTestSnapshotServiceWith(t *testing.T, db *sql.DB, prices market.PriceLookup) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		repository.NewAccountRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewSnapshotRepository(db),
		prices,
		4,
	)
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return NewTestAccountServiceWith(t, db, NewTestPriceLookup(db))
}

func NewTestAccountServiceWith(t *testing.T, db *sql.DB, prices market.PriceLookup) *service.AccountService {
	t.Helper()

	return service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewStockRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewDividendRepository(db),
		prices,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// D parses a decimal literal and panics on malformed input.
//
// Example usage:
//
//	price := testutil.D("150.25")
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker generates a unique stock ticker for testing.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("AAPL")
//	// Returns: "AAPL1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeAccountName generates a unique account name for testing.
//
// Example usage:
//
//	name := testutil.MakeAccountName("Brokerage")
//	// Returns: "Brokerage ABC123"
func MakeAccountName(base string) string {
	if base == "" {
		base = "Account"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeCompanyName generates a unique company name for testing.
func MakeCompanyName(base string) string {
	if base == "" {
		base = "Company"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
