package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/ledger"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/market"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
)

// AccountService builds read models over an account's holdings.
type AccountService struct {
	accountRepo  *repository.AccountRepository
	stockRepo    *repository.StockRepository
	holdingRepo  *repository.HoldingRepository
	dividendRepo *repository.DividendRepository
	valuer       *portfolioValuer
}

// NewAccountService creates a new AccountService with the provided dependencies.
func NewAccountService(
	accountRepo *repository.AccountRepository,
	stockRepo *repository.StockRepository,
	holdingRepo *repository.HoldingRepository,
	dividendRepo *repository.DividendRepository,
	prices market.PriceLookup,
) *AccountService {
	return &AccountService{
		accountRepo:  accountRepo,
		stockRepo:    stockRepo,
		holdingRepo:  holdingRepo,
		dividendRepo: dividendRepo,
		valuer:       &portfolioValuer{holdingRepo: holdingRepo, prices: prices},
	}
}

// GetHoldings returns every holding of an account, closed positions included.
func (s *AccountService) GetHoldings(ctx context.Context, accountID string) ([]model.Holding, error) {
	if _, err := s.accountRepo.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	return s.holdingRepo.GetHoldingsByAccount(ctx, accountID)
}

// GetAccountSummary values the account at current prices and breaks the value
// down per open holding. Allocation weights are shares of the holdings value.
func (s *AccountService) GetAccountSummary(ctx context.Context, accountID string) (model.AccountSummary, error) {
	account, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return model.AccountSummary{}, err
	}

	v, err := s.valuer.value(ctx, account)
	if err != nil {
		return model.AccountSummary{}, err
	}

	stockIDs := make([]string, 0, len(v.holdings))
	for _, vh := range v.holdings {
		stockIDs = append(stockIDs, vh.holding.StockID)
	}
	stocks, err := s.stockRepo.GetStocks(ctx, stockIDs)
	if err != nil {
		return model.AccountSummary{}, err
	}

	payments, err := s.dividendRepo.GetPaymentsByAccount(ctx, accountID)
	if err != nil {
		return model.AccountSummary{}, err
	}
	dividends := decimal.Zero
	for _, p := range payments {
		dividends = dividends.Add(p.TotalAmount)
	}

	rows := make([]model.HoldingSummary, 0, len(v.holdings))
	for _, vh := range v.holdings {
		pos := vh.position()
		value := ledger.CurrentValue(pos.Quantity, vh.price)
		stock := stocks[vh.holding.StockID]

		rows = append(rows, model.HoldingSummary{
			StockID:          vh.holding.StockID,
			Ticker:           stock.Ticker,
			CompanyName:      stock.CompanyName,
			Quantity:         pos.Quantity,
			AverageCostBasis: ledger.Money(pos.AverageCostBasis),
			CurrentPrice:     vh.price,
			CurrentValue:     value,
			TotalCostBasis:   pos.TotalCostBasis,
			UnrealizedGain:   ledger.UnrealizedGain(pos, vh.price),
			RealizedGain:     pos.RealizedGain,
			PercentReturn:    ledger.PercentReturn(pos, vh.price),
			AllocationWeight: ledger.AllocationWeight(value, v.holdingsValue),
		})
	}

	return model.AccountSummary{
		AccountID:      account.ID,
		Name:           account.Name,
		CashBalance:    v.cash,
		HoldingsValue:  v.holdingsValue,
		TotalValue:     v.totalValue,
		TotalCostBasis: v.costBasis,
		UnrealizedGain: v.unrealizedGain(),
		RealizedGain:   v.realizedGain,
		TotalDividends: dividends,
		Holdings:       rows,
	}, nil
}
