package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/testutil"
)

// brokenPrices fails for one stock with an error that is not ErrPriceUnavailable.
type brokenPrices struct {
	*testutil.MockPriceLookup
	broken string
}

func (b brokenPrices) GetCurrentPrice(ctx context.Context, stockID string) (decimal.Decimal, error) {
	if stockID == b.broken {
		return decimal.Zero, errors.New("quote service unavailable")
	}
	return b.MockPriceLookup.GetCurrentPrice(ctx, stockID)
}

var snapshotDay = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

// TestSnapshotService_GenerateSnapshot tests a single account snapshot.
//
// WHY: Snapshots are the account's value history. Each day may only be recorded
// once, and the day change must be taken from the previous recorded day.
func TestSnapshotService_GenerateSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("values cash and holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)

		account := testutil.NewAccount().WithCash("5000").Build(t, db)
		stock := testutil.NewStock().WithPrice("120").Build(t, db)
		testutil.NewHolding(account.ID, stock.ID).WithQuantity("10").WithAverageCost("100").WithRealizedGain("30").Build(t, db)

		s, err := svc.GenerateSnapshot(ctx, account.ID, snapshotDay.Add(15*time.Hour))
		if err != nil {
			t.Fatalf("GenerateSnapshot() returned unexpected error: %v", err)
		}
		if !s.SnapshotDate.Equal(snapshotDay) {
			t.Errorf("Expected snapshot date %v, got %v", snapshotDay, s.SnapshotDate)
		}
		assertDecimal(t, "total value", "6200", s.TotalValue)
		assertDecimal(t, "cash", "5000", s.CashBalance)
		assertDecimal(t, "total invested", "1000", s.TotalInvested)
		assertDecimal(t, "total gain", "5200", s.TotalGain)
		assertDecimal(t, "day change", "0", s.DayChange)

		_, err = svc.GenerateSnapshot(ctx, account.ID, snapshotDay)
		if !errors.Is(err, apperrors.ErrSnapshotAlreadyExists) {
			t.Errorf("Expected ErrSnapshotAlreadyExists, got %v", err)
		}
	})

	t.Run("day change against the previous snapshot", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)

		account := testutil.NewAccount().WithCash("6250").Build(t, db)
		testutil.NewSnapshot(account.ID).WithDate(snapshotDay.AddDate(0, 0, -3)).WithTotalValue("6000").Build(t, db)
		testutil.NewSnapshot(account.ID).WithDate(snapshotDay.AddDate(0, 0, -1)).WithTotalValue("6100").Build(t, db)

		s, err := svc.GenerateSnapshot(ctx, account.ID, snapshotDay)
		if err != nil {
			t.Fatalf("GenerateSnapshot() returned unexpected error: %v", err)
		}
		assertDecimal(t, "day change", "150", s.DayChange)
	})

	t.Run("holding without a price is valued at cost", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)

		account := testutil.NewAccount().WithCash("0").Build(t, db)
		stock := testutil.NewStock().Build(t, db)
		testutil.NewHolding(account.ID, stock.ID).WithQuantity("4").WithAverageCost("25").Build(t, db)

		s, err := svc.GenerateSnapshot(ctx, account.ID, snapshotDay)
		if err != nil {
			t.Fatalf("GenerateSnapshot() returned unexpected error: %v", err)
		}
		assertDecimal(t, "total value", "100", s.TotalValue)
		assertDecimal(t, "total gain", "0", s.TotalGain)
	})

	t.Run("future date rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)
		account := testutil.NewAccount().Build(t, db)

		_, err := svc.GenerateSnapshot(ctx, account.ID, svc.Today().AddDate(0, 0, 1))
		if !errors.Is(err, apperrors.ErrSnapshotDateNotAllowed) {
			t.Errorf("Expected ErrSnapshotDateNotAllowed, got %v", err)
		}
		if n := testutil.CountRows(t, db, "portfolio_snapshot"); n != 0 {
			t.Errorf("Expected no snapshots, got %d", n)
		}

		if _, err := svc.GenerateForToday(ctx, account.ID); err != nil {
			t.Errorf("GenerateForToday() returned unexpected error: %v", err)
		}
	})

	t.Run("date before the latest snapshot rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)
		account := testutil.NewAccount().Build(t, db)
		testutil.NewSnapshot(account.ID).WithDate(snapshotDay).Build(t, db)

		_, err := svc.GenerateSnapshot(ctx, account.ID, snapshotDay.AddDate(0, 0, -1))
		if !errors.Is(err, apperrors.ErrSnapshotDateNotAllowed) {
			t.Errorf("Expected ErrSnapshotDateNotAllowed, got %v", err)
		}
		if n := testutil.CountRows(t, db, "portfolio_snapshot"); n != 1 {
			t.Errorf("Expected 1 snapshot, got %d", n)
		}
	})

	t.Run("unknown account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)

		_, err := svc.GenerateSnapshot(ctx, testutil.MakeID(), snapshotDay)
		if !errors.Is(err, apperrors.ErrAccountNotFound) {
			t.Errorf("Expected ErrAccountNotFound, got %v", err)
		}
	})
}

// TestSnapshotService_ConcurrentGenerate tests racing snapshots of one day.
//
// WHY: The scheduler, the batch endpoint and the CLI can all snapshot the same
// account at once. Exactly one row may be recorded for the day and every other
// caller must be told it already exists.
func TestSnapshotService_ConcurrentGenerate(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupFileTestDB(t)
	svc := testutil.NewTestSnapshotService(t, db)
	account := testutil.NewAccount().WithCash("1000").Build(t, db)
	today := svc.Today()

	const workers = 16
	var (
		wg            sync.WaitGroup
		mu            sync.Mutex
		ok, duplicate int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GenerateSnapshot(ctx, account.ID, today)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, apperrors.ErrSnapshotAlreadyExists):
				duplicate++
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if ok != 1 || duplicate != workers-1 {
		t.Errorf("Expected 1 created and %d duplicates, got %d and %d", workers-1, ok, duplicate)
	}
	if n := testutil.CountRows(t, db, "portfolio_snapshot"); n != 1 {
		t.Errorf("Expected 1 snapshot row, got %d", n)
	}
}

// TestSnapshotService_GenerateForAllAccounts tests the batch run.
//
// WHY: The daily job must snapshot every account it can. One account failing
// must not stop the rest, and accounts already recorded today are not failures.
func TestSnapshotService_GenerateForAllAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("counts succeeded, skipped and failed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		good := testutil.NewStock().Build(t, db)
		bad := testutil.NewStock().Build(t, db)
		prices := brokenPrices{MockPriceLookup: testutil.NewMockPriceLookup().Set(good.ID, "10"), broken: bad.ID}
		svc := testutil.NewTestSnapshotServiceWith(t, db, prices)

		for range 3 {
			a := testutil.NewAccount().Build(t, db)
			testutil.NewHolding(a.ID, good.ID).Build(t, db)
		}
		done := testutil.NewAccount().Build(t, db)
		testutil.NewSnapshot(done.ID).WithDate(snapshotDay).Build(t, db)
		failing := testutil.NewAccount().Build(t, db)
		testutil.NewHolding(failing.ID, bad.ID).Build(t, db)

		result, err := svc.GenerateForAllAccountsOn(ctx, snapshotDay)
		if err != nil {
			t.Fatalf("GenerateForAllAccountsOn() returned unexpected error: %v", err)
		}
		if result.Succeeded != 3 || result.Skipped != 1 || result.Failed != 1 || result.Total != 5 {
			t.Errorf("Unexpected result %+v", result)
		}
		if result.Date != "2024-03-15" {
			t.Errorf("Expected date 2024-03-15, got %s", result.Date)
		}
		if n := testutil.CountRows(t, db, "portfolio_snapshot"); n != 4 {
			t.Errorf("Expected 4 snapshots, got %d", n)
		}
	})

	t.Run("second run skips everything", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)
		testutil.NewAccount().Build(t, db)
		testutil.NewAccount().Build(t, db)

		if _, err := svc.GenerateForAllAccounts(ctx); err != nil {
			t.Fatalf("GenerateForAllAccounts() returned unexpected error: %v", err)
		}
		result, err := svc.GenerateForAllAccounts(ctx)
		if err != nil {
			t.Fatalf("GenerateForAllAccounts() returned unexpected error: %v", err)
		}
		if result.Succeeded != 0 || result.Skipped != 2 || result.Total != 2 {
			t.Errorf("Unexpected result %+v", result)
		}
	})

	t.Run("no accounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSnapshotService(t, db)

		result, err := svc.GenerateForAllAccounts(ctx)
		if err != nil {
			t.Fatalf("GenerateForAllAccounts() returned unexpected error: %v", err)
		}
		if result.Total != 0 {
			t.Errorf("Expected empty batch, got %+v", result)
		}
	})
}

func TestSnapshotService_GetSnapshots(t *testing.T) {
	ctx := context.Background()

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSnapshotService(t, db)
	account := testutil.NewAccount().Build(t, db)
	for i := range 5 {
		testutil.NewSnapshot(account.ID).WithDate(snapshotDay.AddDate(0, 0, -i)).Build(t, db)
	}

	all, err := svc.GetSnapshots(ctx, account.ID, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetSnapshots() returned unexpected error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("Expected 5 snapshots, got %d", len(all))
	}
	if !all[0].SnapshotDate.Before(all[4].SnapshotDate) {
		t.Error("Expected snapshots oldest first")
	}

	ranged, err := svc.GetSnapshots(ctx, account.ID, snapshotDay.AddDate(0, 0, -2), snapshotDay.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("GetSnapshots() returned unexpected error: %v", err)
	}
	if len(ranged) != 2 {
		t.Errorf("Expected 2 snapshots in range, got %d", len(ranged))
	}

	if _, err := svc.GetSnapshots(ctx, testutil.MakeID(), time.Time{}, time.Time{}); !errors.Is(err, apperrors.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestSnapshotService_GetSnapshot(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestSnapshotService(t, db)
	account := testutil.NewAccount().Build(t, db)
	testutil.NewSnapshot(account.ID).WithDate(snapshotDay).WithTotalValue("4321").Build(t, db)

	s, err := svc.GetSnapshot(ctx, account.ID, snapshotDay.Add(18*time.Hour))
	if err != nil {
		t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
	}
	assertDecimal(t, "total value", "4321", s.TotalValue)

	if _, err := svc.GetSnapshot(ctx, account.ID, snapshotDay.AddDate(0, 0, 1)); !errors.Is(err, apperrors.ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}
