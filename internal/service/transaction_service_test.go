package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/notify"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/testutil"
)

func buy(accountID, stockID, qty, price string) request.CreateTransactionRequest {
	return request.CreateTransactionRequest{
		AccountID: accountID,
		StockID:   stockID,
		Type:      "BUY",
		Quantity:  testutil.D(qty),
		Price:     testutil.D(price),
	}
}

func sell(accountID, stockID, qty, price string) request.CreateTransactionRequest {
	req := buy(accountID, stockID, qty, price)
	req.Type = "SELL"
	return req
}

func assertDecimal(t *testing.T, name string, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(testutil.D(want)) {
		t.Errorf("Expected %s %s, got %s", name, want, got)
	}
}

func cashOf(t *testing.T, accountID string, repo *repository.AccountRepository) decimal.Decimal {
	t.Helper()
	account, err := repo.GetAccount(context.Background(), accountID)
	if err != nil {
		t.Fatalf("GetAccount() returned unexpected error: %v", err)
	}
	return account.CashBalance
}

// TestTransactionService_ProcessTransaction tests buys and sells end to end.
//
// WHY: The processor is the only writer of cash balances and holdings. A buy
// followed by a partial sell must conserve cash, keep the average cost, and book
// the realized gain on the sold shares.
func TestTransactionService_ProcessTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("buy then partial sell", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)
		accounts := repository.NewAccountRepository(db)
		holdings := repository.NewHoldingRepository(db)

		account := testutil.NewAccount().WithCash("100000").Build(t, db)
		stock := testutil.NewStock().WithPrice("150").Build(t, db)

		tx, err := svc.ProcessTransaction(ctx, buy(account.ID, stock.ID, "100", "150"))
		if err != nil {
			t.Fatalf("ProcessTransaction() BUY returned unexpected error: %v", err)
		}
		if tx.Type != model.TransactionTypeBuy {
			t.Errorf("Expected BUY transaction, got %s", tx.Type)
		}
		if !tx.Commission.IsZero() {
			t.Errorf("Expected zero commission, got %s", tx.Commission)
		}
		assertDecimal(t, "cash", "85000", cashOf(t, account.ID, accounts))

		if _, err := svc.ProcessTransaction(ctx, sell(account.ID, stock.ID, "50", "160")); err != nil {
			t.Fatalf("ProcessTransaction() SELL returned unexpected error: %v", err)
		}
		assertDecimal(t, "cash", "93000", cashOf(t, account.ID, accounts))

		h, err := holdings.GetHolding(ctx, account.ID, stock.ID)
		if err != nil {
			t.Fatalf("GetHolding() returned unexpected error: %v", err)
		}
		assertDecimal(t, "quantity", "50", h.Quantity)
		assertDecimal(t, "average cost", "150", h.AverageCostBasis)
		assertDecimal(t, "total cost", "7500", h.TotalCostBasis)
		assertDecimal(t, "realized gain", "500", h.RealizedGain)

		txs, err := svc.GetTransactions(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetTransactions() returned unexpected error: %v", err)
		}
		if len(txs) != 2 {
			t.Fatalf("Expected 2 transactions, got %d", len(txs))
		}
		if txs[0].Type != model.TransactionTypeBuy || txs[1].Type != model.TransactionTypeSell {
			t.Errorf("Expected BUY then SELL, got %s then %s", txs[0].Type, txs[1].Type)
		}
		if txs[0].Ticker != stock.Ticker {
			t.Errorf("Expected ticker %s, got %s", stock.Ticker, txs[0].Ticker)
		}
	})

	t.Run("second buy averages the cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		account := testutil.NewAccount().WithCash("100000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		for _, req := range []request.CreateTransactionRequest{
			buy(account.ID, stock.ID, "100", "140"),
			buy(account.ID, stock.ID, "50", "160"),
		} {
			if _, err := svc.ProcessTransaction(ctx, req); err != nil {
				t.Fatalf("ProcessTransaction() returned unexpected error: %v", err)
			}
		}

		h, err := repository.NewHoldingRepository(db).GetHolding(ctx, account.ID, stock.ID)
		if err != nil {
			t.Fatalf("GetHolding() returned unexpected error: %v", err)
		}
		assertDecimal(t, "quantity", "150", h.Quantity)
		assertDecimal(t, "average cost", "146.666667", h.AverageCostBasis)
		assertDecimal(t, "total cost", "22000", h.TotalCostBasis)
	})

	t.Run("rebuy after closing resets average and keeps realized gain", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		account := testutil.NewAccount().WithCash("10000").Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		for _, req := range []request.CreateTransactionRequest{
			buy(account.ID, stock.ID, "10", "100"),
			sell(account.ID, stock.ID, "10", "120"),
			buy(account.ID, stock.ID, "5", "90"),
		} {
			if _, err := svc.ProcessTransaction(ctx, req); err != nil {
				t.Fatalf("ProcessTransaction() returned unexpected error: %v", err)
			}
		}

		h, err := repository.NewHoldingRepository(db).GetHolding(ctx, account.ID, stock.ID)
		if err != nil {
			t.Fatalf("GetHolding() returned unexpected error: %v", err)
		}
		assertDecimal(t, "quantity", "5", h.Quantity)
		assertDecimal(t, "average cost", "90", h.AverageCostBasis)
		assertDecimal(t, "realized gain", "200", h.RealizedGain)
	})

	t.Run("type is case insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		account := testutil.NewAccount().Build(t, db)
		stock := testutil.NewStock().Build(t, db)

		req := buy(account.ID, stock.ID, "1", "10")
		req.Type = "buy"
		if _, err := svc.ProcessTransaction(ctx, req); err != nil {
			t.Fatalf("ProcessTransaction() returned unexpected error: %v", err)
		}
	})
}

// TestTransactionService_ProcessTransaction_Rejections tests every rejection path.
//
// WHY: A rejected request must leave the account, its holdings and the
// transaction log exactly as they were.
func TestTransactionService_ProcessTransaction_Rejections(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	account := testutil.NewAccount().WithCash("1000").Build(t, db)
	held := testutil.NewStock().Build(t, db)
	other := testutil.NewStock().Build(t, db)
	testutil.NewHolding(account.ID, held.ID).WithQuantity("10").WithAverageCost("50").Build(t, db)

	tests := []struct {
		name string
		req  request.CreateTransactionRequest
		want error
	}{
		{"insufficient funds", buy(account.ID, held.ID, "10", "150"), apperrors.ErrInsufficientFunds},
		{"insufficient shares", sell(account.ID, held.ID, "11", "50"), apperrors.ErrInsufficientShares},
		{"sell without holding", sell(account.ID, other.ID, "1", "50"), apperrors.ErrHoldingNotFound},
		{"unknown account", buy(testutil.MakeID(), held.ID, "1", "1"), apperrors.ErrAccountNotFound},
		{"unknown stock", buy(account.ID, testutil.MakeID(), "1", "1"), apperrors.ErrStockNotFound},
		{"zero quantity", buy(account.ID, held.ID, "0", "1"), apperrors.ErrNonPositiveAmount},
		{"negative price", buy(account.ID, held.ID, "1", "-1"), apperrors.ErrNonPositiveAmount},
		{"unknown type", func() request.CreateTransactionRequest {
			r := buy(account.ID, held.ID, "1", "1")
			r.Type = "HOLD"
			return r
		}(), apperrors.ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessTransaction(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	assertDecimal(t, "cash", "1000", cashOf(t, account.ID, repository.NewAccountRepository(db)))

	h, err := repository.NewHoldingRepository(db).GetHolding(ctx, account.ID, held.ID)
	if err != nil {
		t.Fatalf("GetHolding() returned unexpected error: %v", err)
	}
	assertDecimal(t, "quantity", "10", h.Quantity)

	if n := testutil.CountRows(t, db, `"transaction"`); n != 0 {
		t.Errorf("Expected no transactions, got %d", n)
	}
	if n := testutil.CountRows(t, db, "holding"); n != 1 {
		t.Errorf("Expected 1 holding, got %d", n)
	}
}

// TestTransactionService_SubCentTrades tests trades whose amount is below one cent.
//
// WHY: Fractional shares at low prices cost fractions of a cent. Rounding each
// trade to cents would hand out shares for free and create cash on the way out.
func TestTransactionService_SubCentTrades(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)
	accounts := repository.NewAccountRepository(db)
	holdings := repository.NewHoldingRepository(db)

	account := testutil.NewAccount().WithCash("10").Build(t, db)
	stock := testutil.NewStock().WithPrice("1").Build(t, db)

	for i := range 250 {
		if _, err := svc.ProcessTransaction(ctx, buy(account.ID, stock.ID, "0.004", "1")); err != nil {
			t.Fatalf("Buy %d returned unexpected error: %v", i, err)
		}
	}

	assertDecimal(t, "cash", "9", cashOf(t, account.ID, accounts))
	h, err := holdings.GetHolding(ctx, account.ID, stock.ID)
	if err != nil {
		t.Fatalf("GetHolding() returned unexpected error: %v", err)
	}
	assertDecimal(t, "quantity", "1", h.Quantity)
	assertDecimal(t, "average cost", "1", h.AverageCostBasis)
	assertDecimal(t, "total cost", "1", h.TotalCostBasis)

	if _, err := svc.ProcessTransaction(ctx, sell(account.ID, stock.ID, "1", "1")); err != nil {
		t.Fatalf("ProcessTransaction() SELL returned unexpected error: %v", err)
	}

	assertDecimal(t, "cash", "10", cashOf(t, account.ID, accounts))
	h, err = holdings.GetHolding(ctx, account.ID, stock.ID)
	if err != nil {
		t.Fatalf("GetHolding() returned unexpected error: %v", err)
	}
	assertDecimal(t, "realized gain", "0", h.RealizedGain)
}

// TestTransactionService_ConcurrentBuys tests same-account serialization.
//
// WHY: Two buys racing on one account must never both pass the funds check
// against the same balance.
func TestTransactionService_ConcurrentBuys(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)

	account := testutil.NewAccount().WithCash("1050").Build(t, db)
	stock := testutil.NewStock().Build(t, db)

	const workers = 20
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ProcessTransaction(ctx, buy(account.ID, stock.ID, "1", "100"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				rejected++
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 10 || rejected != 10 {
		t.Errorf("Expected 10 accepted and 10 rejected, got %d and %d", ok, rejected)
	}
	assertDecimal(t, "cash", "50", cashOf(t, account.ID, repository.NewAccountRepository(db)))

	h, err := repository.NewHoldingRepository(db).GetHolding(ctx, account.ID, stock.ID)
	if err != nil {
		t.Fatalf("GetHolding() returned unexpected error: %v", err)
	}
	assertDecimal(t, "quantity", "10", h.Quantity)
	assertDecimal(t, "total cost", "1000", h.TotalCostBasis)
}

// TestTransactionService_Notifications tests the event published after a trade.
//
// WHY: Subscribers rely on the change being measured against the value before
// the trade, at market prices rather than cost.
func TestTransactionService_Notifications(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	n, sink := testutil.NewTestNotifier(t)
	prices := testutil.NewMockPriceLookup()
	svc := testutil.NewTestTransactionServiceWith(t, db, prices, n)

	account := testutil.NewAccount().WithCash("10000").Build(t, db)
	stock := testutil.NewStock().Build(t, db)
	prices.Set(stock.ID, "120")

	if _, err := svc.ProcessTransaction(ctx, buy(account.ID, stock.ID, "10", "100")); err != nil {
		t.Fatalf("ProcessTransaction() returned unexpected error: %v", err)
	}
	n.Wait()

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Type != notify.EventPortfolioUpdated || e.AccountID != account.ID {
		t.Errorf("Unexpected event %+v", e)
	}
	// 9000 cash plus 10 shares at 120.
	assertDecimal(t, "current value", "10200", e.CurrentValue)
	assertDecimal(t, "change", "200", e.Change)
}

// TestTransactionService_NotificationFailure tests that a failing sink is harmless.
//
// WHY: Delivery is best effort; a committed trade must be reported as a success.
func TestTransactionService_NotificationFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	n, sink := testutil.NewTestNotifier(t)
	sink.Err = errors.New("broker down")
	svc := testutil.NewTestTransactionServiceWith(t, db, testutil.NewTestPriceLookup(db), n)

	account := testutil.NewAccount().Build(t, db)
	stock := testutil.NewStock().Build(t, db)

	if _, err := svc.ProcessTransaction(context.Background(), buy(account.ID, stock.ID, "1", "10")); err != nil {
		t.Fatalf("ProcessTransaction() returned unexpected error: %v", err)
	}
	n.Wait()

	if len(sink.Events()) != 1 {
		t.Errorf("Expected the event to be attempted once, got %d", len(sink.Events()))
	}
}

// TestTransactionService_DatabaseErrors tests error handling.
//
// WHY: The service must surface database failures as errors, not panics.
func TestTransactionService_DatabaseErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTransactionService(t, db)
	db.Close()

	if _, err := svc.ProcessTransaction(context.Background(), buy(testutil.MakeID(), testutil.MakeID(), "1", "1")); err == nil {
		t.Error("Expected error when database is closed, got nil")
	}
	if txs, err := svc.GetTransactions(context.Background(), testutil.MakeID()); err == nil || txs != nil {
		t.Errorf("Expected error and nil transactions, got %v, %v", txs, err)
	}
}
