package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/notify"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
)

// DividendService declares dividends and distributes them to holders.
// Payments are records only; account cash balances are not credited.
type DividendService struct {
	db           *sql.DB
	dividendRepo *repository.DividendRepository
	stockRepo    *repository.StockRepository
	holdingRepo  *repository.HoldingRepository
	notifier     *notify.Notifier
	now          func() time.Time
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	db *sql.DB,
	dividendRepo *repository.DividendRepository,
	stockRepo *repository.StockRepository,
	holdingRepo *repository.HoldingRepository,
	notifier *notify.Notifier,
) *DividendService {
	return &DividendService{
		db:           db,
		dividendRepo: dividendRepo,
		stockRepo:    stockRepo,
		holdingRepo:  holdingRepo,
		notifier:     notifier,
		now:          time.Now,
	}
}

// DeclareDividend records a per-share dividend for a stock. The pay date must
// be a plain YYYY-MM-DD day; timestamps are rejected with ErrInvalidDate.
// Returns ErrStockNotFound for an unknown stock and ErrDuplicateDividend when the
// stock already has a dividend on the pay date.
func (s *DividendService) DeclareDividend(ctx context.Context, req request.CreateDividendRequest) (*model.Dividend, error) {
	if !req.AmountPerShare.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}

	payDate, err := repository.ParseDate(req.PayDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidDate, req.PayDate)
	}

	if _, err := s.stockRepo.GetStock(ctx, req.StockID); err != nil {
		return nil, err
	}

	dividend := &model.Dividend{
		ID:             uuid.New().String(),
		StockID:        req.StockID,
		AmountPerShare: req.AmountPerShare,
		PayDate:        payDate,
		CreatedAt:      s.now().UTC(),
	}

	if err := s.dividendRepo.InsertDividend(ctx, dividend); err != nil {
		return nil, err
	}

	return dividend, nil
}

// DistributeDividend creates one PAID payment for every account holding the
// dividend's stock with a quantity above zero. Accounts that were already paid
// for this dividend are skipped, so repeating the call is harmless.
//
// Returns the payments created by this call; a repeat returns an empty slice.
// Returns ErrDividendNotFound for an unknown dividend.
func (s *DividendService) DistributeDividend(ctx context.Context, dividendID string) ([]model.DividendPayment, error) {
	dividend, err := s.dividendRepo.GetDividend(ctx, dividendID)
	if err != nil {
		return nil, err
	}

	holders, err := s.holdingRepo.GetOpenHoldingsByStock(ctx, dividend.StockID)
	if err != nil {
		return nil, err
	}

	created := []model.DividendPayment{}
	if len(holders) == 0 {
		return created, nil
	}

	txCtx := context.WithoutCancel(ctx)
	tx, err := s.db.BeginTx(txCtx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	dividendRepo := s.dividendRepo.WithTx(tx)
	now := s.now().UTC()

	for _, h := range holders {
		payment := model.DividendPayment{
			ID:          uuid.New().String(),
			DividendID:  dividend.ID,
			AccountID:   h.AccountID,
			StockID:     dividend.StockID,
			Shares:      h.Quantity,
			TotalAmount: ledger.DividendAmount(h.Quantity, dividend.AmountPerShare),
			Status:      model.PaymentStatusPaid,
			PaymentDate: dividend.PayDate,
			CreatedAt:   now,
		}

		inserted, err := dividendRepo.InsertPayment(txCtx, &payment)
		if err != nil {
			return nil, err
		}
		if inserted {
			created = append(created, payment)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit dividend payments: %w", err)
	}

	log.Info().
		Str("dividend_id", dividend.ID).
		Int("holders", len(holders)).
		Int("created", len(created)).
		Msg("dividend distributed")

	for _, p := range created {
		s.notifier.Notify(notify.Event{
			Type:         notify.EventDividendPaid,
			AccountID:    p.AccountID,
			CurrentValue: decimal.Zero,
			Change:       decimal.Zero,
			Amount:       p.TotalAmount,
			Reference:    dividend.ID,
			Timestamp:    now,
		})
	}

	return created, nil
}

// GetPayments returns every payment made from a dividend.
func (s *DividendService) GetPayments(ctx context.Context, dividendID string) ([]model.DividendPayment, error) {
	if _, err := s.dividendRepo.GetDividend(ctx, dividendID); err != nil {
		return nil, err
	}
	return s.dividendRepo.GetPaymentsByDividend(ctx, dividendID)
}

// GetAccountPayments returns every dividend payment an account has received.
func (s *DividendService) GetAccountPayments(ctx context.Context, accountID string) ([]model.DividendPayment, error) {
	return s.dividendRepo.GetPaymentsByAccount(ctx, accountID)
}
