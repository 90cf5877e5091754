// Package scheduler runs the daily snapshot batch on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/model"
)

// SnapshotRunner generates snapshots for every account.
type SnapshotRunner interface {
	GenerateForAllAccounts(ctx context.Context) (model.SnapshotBatchResult, error)
}

// Scheduler triggers a SnapshotRunner on a standard five-field cron expression,
// evaluated in UTC. A run that is still going when the next one is due causes
// the next one to be skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner SnapshotRunner
	entry  cron.EntryID
	ctx    context.Context
	cancel context.CancelFunc
}

// New parses spec and registers the snapshot job. Nothing runs until Start.
func New(spec string, runner SnapshotRunner) (*Scheduler, error) {
	logger := cronLogger{log.Logger.With().Str("component", "scheduler").Logger()}

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron:   c,
		runner: runner,
		ctx:    ctx,
		cancel: cancel,
	}

	id, err := c.AddFunc(spec, s.run)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", spec, err)
	}
	s.entry = id

	return s, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Time("next_run", s.Next()).Msg("snapshot scheduler started")
}

// Stop prevents further runs, cancels the one in flight, and waits for it to
// return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the time of the next scheduled run, zero before Start.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entry).Next
}

// RunNow runs the batch immediately, outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) (model.SnapshotBatchResult, error) {
	return s.runner.GenerateForAllAccounts(ctx)
}

func (s *Scheduler) run() {
	result, err := s.runner.GenerateForAllAccounts(s.ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled snapshot run failed")
		return
	}
	log.Info().
		Str("date", result.Date).
		Int("succeeded", result.Succeeded).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("scheduled snapshot run finished")
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
