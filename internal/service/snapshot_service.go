package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/market"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
)

// SnapshotService records one valuation per account per calendar day.
type SnapshotService struct {
	accountRepo  *repository.AccountRepository
	snapshotRepo *repository.SnapshotRepository
	valuer       *portfolioValuer
	workers      int
	now          func() time.Time
}

// NewSnapshotService creates a SnapshotService. workers bounds how many
// accounts a batch run values at once.
func NewSnapshotService(
	accountRepo *repository.AccountRepository,
	holdingRepo *repository.HoldingRepository,
	snapshotRepo *repository.SnapshotRepository,
	prices market.PriceLookup,
	workers int,
) *SnapshotService {
	if workers < 1 {
		workers = 1
	}
	return &SnapshotService{
		accountRepo:  accountRepo,
		snapshotRepo: snapshotRepo,
		valuer:       &portfolioValuer{holdingRepo: holdingRepo, prices: prices},
		workers:      workers,
		now:          time.Now,
	}
}

// Today returns the current UTC calendar day.
func (s *SnapshotService) Today() time.Time {
	return startOfDay(s.now())
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GenerateForToday snapshots the account for the current UTC day.
func (s *SnapshotService) GenerateForToday(ctx context.Context, accountID string) (model.PortfolioSnapshot, error) {
	return s.GenerateSnapshot(ctx, accountID, s.Today())
}

// GenerateSnapshot values the account and stores the result for date.
// Returns ErrAccountNotFound for an unknown account and ErrSnapshotAlreadyExists
// when the account already has a snapshot for that day. The valuation is always
// current, so a day after today or before the account's latest snapshot is
// rejected with ErrSnapshotDateNotAllowed.
//
// TotalGain is the total value less the cost basis of open holdings. DayChange
// is measured against the most recent earlier snapshot and is zero when there is none.
func (s *SnapshotService) GenerateSnapshot(ctx context.Context, accountID string, date time.Time) (model.PortfolioSnapshot, error) {
	day := startOfDay(date)

	account, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	exists, err := s.snapshotRepo.SnapshotExists(ctx, accountID, day)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}
	if exists {
		return model.PortfolioSnapshot{}, apperrors.ErrSnapshotAlreadyExists
	}

	if day.After(s.Today()) {
		return model.PortfolioSnapshot{}, fmt.Errorf("%w: %s is in the future", apperrors.ErrSnapshotDateNotAllowed, repository.FormatDate(day))
	}

	previous, hasPrevious, err := s.snapshotRepo.GetLatestSnapshot(ctx, accountID)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}
	if hasPrevious && previous.SnapshotDate.After(day) {
		return model.PortfolioSnapshot{}, fmt.Errorf("%w: latest snapshot is %s",
			apperrors.ErrSnapshotDateNotAllowed, repository.FormatDate(previous.SnapshotDate))
	}

	v, err := s.valuer.value(ctx, account)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	dayChange := decimal.Zero
	if hasPrevious {
		dayChange = v.totalValue.Sub(previous.TotalValue)
	}

	snapshot := model.PortfolioSnapshot{
		ID:            uuid.New().String(),
		AccountID:     accountID,
		SnapshotDate:  day,
		TotalValue:    v.totalValue,
		CashBalance:   v.cash,
		TotalInvested: v.costBasis,
		TotalGain:     v.totalValue.Sub(v.costBasis),
		DayChange:     dayChange,
		CreatedAt:     s.now().UTC(),
	}

	// A concurrent caller may have inserted since the existence check; the
	// unique constraint decides.
	if err := s.snapshotRepo.InsertSnapshot(ctx, &snapshot); err != nil {
		return model.PortfolioSnapshot{}, err
	}

	return snapshot, nil
}

// GenerateForAllAccounts snapshots every account for the current UTC day.
// A failure on one account never stops the others. Accounts that already have
// today's snapshot are counted as skipped, not failed.
func (s *SnapshotService) GenerateForAllAccounts(ctx context.Context) (model.SnapshotBatchResult, error) {
	return s.GenerateForAllAccountsOn(ctx, s.Today())
}

// GenerateForAllAccountsOn is GenerateForAllAccounts for an explicit day.
func (s *SnapshotService) GenerateForAllAccountsOn(ctx context.Context, date time.Time) (model.SnapshotBatchResult, error) {
	day := startOfDay(date)
	start := time.Now()

	accounts, err := s.accountRepo.GetAccounts(ctx)
	if err != nil {
		return model.SnapshotBatchResult{}, err
	}

	var succeeded, skipped, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, account := range accounts {
		g.Go(func() error {
			_, err := s.GenerateSnapshot(ctx, account.ID, day)
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, apperrors.ErrSnapshotAlreadyExists):
				skipped.Add(1)
				log.Debug().Str("account_id", account.ID).Msg("snapshot already exists, skipping")
			default:
				failed.Add(1)
				log.Error().Err(err).Str("account_id", account.ID).Msg("failed to generate snapshot")
			}
			return nil
		})
	}
	_ = g.Wait()

	result := model.SnapshotBatchResult{
		Date:      repository.FormatDate(day),
		Succeeded: int(succeeded.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
		Total:     len(accounts),
	}

	log.Info().
		Str("date", result.Date).
		Int("succeeded", result.Succeeded).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("total", result.Total).
		Dur("duration", time.Since(start)).
		Msg("snapshot batch complete")

	return result, nil
}

// GetSnapshots returns an account's snapshots within an optional date range, oldest first.
func (s *SnapshotService) GetSnapshots(ctx context.Context, accountID string, startDate, endDate time.Time) ([]model.PortfolioSnapshot, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.snapshotRepo.GetSnapshots(ctx, accountID, startDate, endDate)
}

// GetSnapshot returns the account's snapshot for the UTC day of date.
// Returns ErrSnapshotNotFound when that day was never recorded.
func (s *SnapshotService) GetSnapshot(ctx context.Context, accountID string, date time.Time) (model.PortfolioSnapshot, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return model.PortfolioSnapshot{}, err
	}
	return s.snapshotRepo.GetSnapshot(ctx, accountID, startOfDay(date))
}
