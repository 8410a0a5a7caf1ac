// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// TokenPurger deletes expired session records.
type TokenPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	purger  TokenPurger
	logger  *slog.Logger
	timeout time.Duration
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(purger TokenPurger, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	return &Scheduler{
		cron:    c,
		purger:  purger,
		logger:  logger,
		timeout: time.Minute,
	}
}

// Start registers the token cleanup job and starts the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.PurgeExpiredTokens); err != nil {
		s.logger.Error("failed to schedule token cleanup job", "error", err, "schedule", schedule)
		return err
	}
	s.logger.Info("scheduled token cleanup job", "schedule", schedule)
	s.cron.Start()
	return nil
}

// PurgeExpiredTokens is the token cleanup job body.
func (s *Scheduler) PurgeExpiredTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.logger.Error("token cleanup failed", "error", err)
		return
	}
	s.logger.Info("token cleanup finished", "deleted", n)
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
