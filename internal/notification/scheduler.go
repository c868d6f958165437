package notification

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type Sweeper interface {
	Sweep(ctx context.Context) (SweepResult, error)
}

// Scheduler runs the sweep on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron    *cron.Cron
	sweeper Sweeper
	spec    string
	logger  *slog.Logger
}

func NewScheduler(sweeper Sweeper, spec string, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLogger),
			cron.SkipIfStillRunning(cronLogger),
		)),
		sweeper: sweeper,
		spec:    spec,
		logger:  logger,
	}
}

// Start registers the sweep and starts the cron loop in the background.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("notification scheduler started", "schedule", s.spec)
	return nil
}

func (s *Scheduler) RunOnce(ctx context.Context) {
	result, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.logger.Error("scheduled notification sweep failed", "error", err)
		return
	}
	s.logger.Info("scheduled notification sweep", "low_stock", result.LowStock, "expiring", result.Expiring)
}

// Stop waits for a running sweep to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.logger.Info("notification scheduler stopped")
}
