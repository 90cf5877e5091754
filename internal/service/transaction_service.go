package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/request"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/market"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/notify"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
)

// TransactionService applies buys and sells to accounts.
//
// Requests for the same account are serialized in process; each one updates the
// cash balance, the holding and the transaction log inside a single database
// transaction. Requests for different accounts run in parallel.
type TransactionService struct {
	db              *sql.DB
	accountRepo     *repository.AccountRepository
	stockRepo       *repository.StockRepository
	holdingRepo     *repository.HoldingRepository
	transactionRepo *repository.TransactionRepository
	valuer          *portfolioValuer
	notifier        *notify.Notifier
	locks           *accountLocker
	now             func() time.Time
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	db *sql.DB,
	accountRepo *repository.AccountRepository,
	stockRepo *repository.StockRepository,
	holdingRepo *repository.HoldingRepository,
	transactionRepo *repository.TransactionRepository,
	prices market.PriceLookup,
	notifier *notify.Notifier,
) *TransactionService {
	return &TransactionService{
		db:              db,
		accountRepo:     accountRepo,
		stockRepo:       stockRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		valuer:          &portfolioValuer{holdingRepo: holdingRepo, prices: prices},
		notifier:        notifier,
		locks:           newAccountLocker(),
		now:             time.Now,
	}
}

// ProcessTransaction validates and applies a BUY or SELL, then publishes the
// account's new value.
//
// Errors:
//   - ErrInvalidTransactionType, ErrNonPositiveAmount for malformed input
//   - ErrAccountNotFound, ErrStockNotFound for unknown references
//   - ErrInsufficientFunds when a buy costs more than the cash balance
//   - ErrHoldingNotFound when selling a stock the account never held
//   - ErrInsufficientShares when selling more than the holding carries
//
// On any error nothing is persisted.
func (s *TransactionService) ProcessTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	txType, err := model.ParseTransactionType(req.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidTransactionType, req.Type)
	}
	if !req.Quantity.IsPositive() || !req.Price.IsPositive() {
		return nil, apperrors.ErrNonPositiveAmount
	}

	unlock := s.locks.Lock(req.AccountID)
	defer unlock()

	account, err := s.accountRepo.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if _, err := s.stockRepo.GetStock(ctx, req.StockID); err != nil {
		return nil, err
	}

	before, err := s.valuer.value(ctx, account)
	if err != nil {
		return nil, err
	}

	transaction, err := s.apply(context.WithoutCancel(ctx), req.AccountID, req.StockID, txType, req.Quantity, req.Price)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("account_id", transaction.AccountID).
		Str("stock_id", transaction.StockID).
		Str("type", transaction.Type.String()).
		Str("quantity", transaction.Quantity.String()).
		Str("price", transaction.Price.String()).
		Msg("transaction processed")

	s.publishValueChange(ctx, req.AccountID, before.totalValue)

	return transaction, nil
}

// apply runs the mutation inside one database transaction.
func (s *TransactionService) apply(
	ctx context.Context,
	accountID, stockID string,
	txType model.TransactionType,
	quantity, price decimal.Decimal,
) (*model.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	accountRepo := s.accountRepo.WithTx(tx)
	holdingRepo := s.holdingRepo.WithTx(tx)

	account, err := accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	holding, err := holdingRepo.GetHolding(ctx, accountID, stockID)
	hasHolding := err == nil
	if err != nil && !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	position := positionOf(holding)
	cash := account.CashBalance
	amount := ledger.Cost(quantity, price)

	switch txType {
	case model.TransactionTypeBuy:
		if cash.LessThan(amount) {
			return nil, apperrors.ErrInsufficientFunds
		}
		position = ledger.ApplyBuy(position, quantity, price)
		cash = cash.Sub(amount)

		if !hasHolding {
			holding = model.Holding{
				ID:               uuid.New().String(),
				AccountID:        accountID,
				StockID:          stockID,
				FirstPurchasedAt: now,
			}
		}

	case model.TransactionTypeSell:
		if !hasHolding {
			return nil, apperrors.ErrHoldingNotFound
		}
		if quantity.GreaterThan(holding.Quantity) {
			return nil, apperrors.ErrInsufficientShares
		}
		position = ledger.ApplySell(position, quantity, price)
		cash = cash.Add(amount)

	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidTransactionType, txType)
	}

	holding.Quantity = position.Quantity
	holding.AverageCostBasis = position.AverageCostBasis
	holding.TotalCostBasis = position.TotalCostBasis
	holding.RealizedGain = position.RealizedGain
	holding.UpdatedAt = now

	if err := accountRepo.UpdateCashBalance(ctx, accountID, cash); err != nil {
		return nil, err
	}
	if err := holdingRepo.UpsertHolding(ctx, &holding); err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:         uuid.New().String(),
		AccountID:  accountID,
		StockID:    stockID,
		Type:       txType,
		Quantity:   quantity,
		Price:      price,
		Commission: decimal.Zero,
		CreatedAt:  now,
	}
	if err := s.transactionRepo.WithTx(tx).InsertTransaction(ctx, transaction); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return transaction, nil
}

// publishValueChange values the account after a mutation and emits the change.
// Failures here are logged; the mutation has already committed.
func (s *TransactionService) publishValueChange(ctx context.Context, accountID string, previous decimal.Decimal) {
	account, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		log.Warn().Err(err).Str("account_id", accountID).Msg("failed to reload account for notification")
		return
	}

	after, err := s.valuer.value(ctx, account)
	if err != nil {
		log.Warn().Err(err).Str("account_id", accountID).Msg("failed to value account for notification")
		return
	}

	s.notifier.Notify(notify.Event{
		Type:         notify.EventPortfolioUpdated,
		AccountID:    accountID,
		CurrentValue: after.totalValue,
		Change:       after.totalValue.Sub(previous),
		Amount:       decimal.Zero,
		Timestamp:    s.now().UTC(),
	})
}

// GetTransactions returns the transactions of an account in the order they were applied.
func (s *TransactionService) GetTransactions(ctx context.Context, accountID string) ([]model.TransactionResponse, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetTransactionsByAccount(ctx, accountID)
}
