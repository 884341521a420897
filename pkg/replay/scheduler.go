package replay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule sweeps the failure records hourly.
const DefaultSchedule = "@hourly"

// Scheduler runs recall sweeps on a cron schedule.
type Scheduler struct {
	cron     *cron.Cron
	recaller *Recaller
	logger   *slog.Logger
}

func NewScheduler(schedule string, recaller *Recaller, logger *slog.Logger) (*Scheduler, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}

	s := &Scheduler{
		cron:     cron.New(),
		recaller: recaller,
		logger:   logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid recall schedule %q: %w", schedule, err)
	}

	return s, nil
}

func (s *Scheduler) sweep() {
	if _, err := s.recaller.RecallAll(context.Background()); err != nil {
		s.logger.Error("Recall sweep aborted", "error", err)
	}
}

// Start begins running sweeps on schedule.
func (s *Scheduler) Start() {
	s.logger.Info("Recall scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Recall scheduler stopped")
}
