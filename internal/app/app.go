// Package app wires configuration into repositories, services and their collaborators.
// Both the HTTP server and the operator CLI start from here.
package app

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/config"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/database"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/market"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/notify"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/repository"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/service"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/yahoo"
)

// App owns the database handle, the notifier and every service built on them.
type App struct {
	DB       *sql.DB
	Notifier *notify.Notifier
	Services api.Services

	redis *notify.RedisSink
}

// Options controls optional startup steps.
type Options struct {
	// Migrate applies pending schema migrations before building services.
	Migrate bool
}

// New opens the database and builds the service graph from cfg.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if opts.Migrate {
		applied, err := database.Migrate(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		if len(applied) > 0 {
			log.Info().Ints64("versions", applied).Msg("applied migrations")
		}
	}

	a := &App{DB: db}

	sink, err := a.newSink(ctx, cfg.Notify)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.Notifier = notify.NewNotifier(sink, cfg.Notify.Timeout)

	accountRepo := repository.NewAccountRepository(db)
	stockRepo := repository.NewStockRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	dividendRepo := repository.NewDividendRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	prices := newPriceLookup(cfg.Market, stockRepo)

	a.Services = api.Services{
		System:      service.NewSystemService(db),
		Transaction: service.NewTransactionService(db, accountRepo, stockRepo, holdingRepo, transactionRepo, prices, a.Notifier),
		Dividend:    service.NewDividendService(db, dividendRepo, stockRepo, holdingRepo, a.Notifier),
		Snapshot:    service.NewSnapshotService(accountRepo, holdingRepo, snapshotRepo, prices, cfg.Snapshot.Workers),
		Account:     service.NewAccountService(accountRepo, stockRepo, holdingRepo, dividendRepo, prices),
	}

	return a, nil
}

// newSink selects Redis when a URL is configured and the log sink otherwise.
// An unreachable Redis is reported but not fatal; delivery is best effort.
func (a *App) newSink(ctx context.Context, cfg config.NotifyConfig) (notify.Sink, error) {
	if cfg.RedisURL == "" {
		log.Info().Msg("no REDIS_URL configured, notifications go to the log")
		return notify.LogSink{}, nil
	}

	sink, err := notify.NewRedisSinkFromURL(cfg.RedisURL, cfg.ChannelPrefix)
	if err != nil {
		return nil, err
	}
	a.redis = sink

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sink.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, notifications may be dropped")
	} else {
		log.Info().Str("prefix", cfg.ChannelPrefix).Msg("publishing notifications to redis")
	}

	return sink, nil
}

func newPriceLookup(cfg config.MarketConfig, stocks *repository.StockRepository) market.PriceLookup {
	if cfg.PriceSource == "yahoo" {
		log.Info().Int("calls_per_minute", cfg.CallsPerMinute).Msg("pricing from yahoo finance")
		return market.NewYahooPriceLookup(stocks, yahoo.NewFinanceClient(), market.NewRateLimiter(cfg.CallsPerMinute, nil))
	}
	return market.NewStoredPriceLookup(stocks)
}

// Close waits for pending notifications, then releases Redis and the database.
func (a *App) Close() error {
	a.Notifier.Wait()

	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	errs = append(errs, a.DB.Close())
	return errors.Join(errs...)
}
