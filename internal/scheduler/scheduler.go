// Package scheduler wires up the cron job that periodically sweeps
// RUSHING experts against open public requests. The sweep is idempotent,
// so overlapping with live request handling or a manual trigger only
// costs duplicate existence checks, never duplicate pairings.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/expertlink/matching-service/internal/service"
	"github.com/expertlink/matching-service/pkg/logger/sl"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron     *cron.Cron
	log      *slog.Logger
	matching service.MatchingService
	spec     string // cron spec, e.g. "@every 5m"
}

// New creates a Scheduler firing every interval.
func New(log *slog.Logger, matching service.MatchingService, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		log:      log,
		matching: matching,
		spec:     fmt.Sprintf("@every %s", interval),
	}
}

// Start registers the sweep job and starts the scheduler. One sweep runs
// immediately so a restart doesn't leave the rushing queue waiting for
// the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info("sweep scheduler started", slog.String("spec", s.spec))

	go s.runSweep(ctx)

	return nil
}

// Stop shuts the scheduler down and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("sweep scheduler stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	created, err := s.matching.AutoMatchRushing(ctx, "")
	if err != nil {
		s.log.Error("rushing sweep failed", sl.Err(err))
		return
	}

	if len(created) > 0 {
		s.log.Info("rushing sweep created matches", slog.Int("created", len(created)))
	}
}
