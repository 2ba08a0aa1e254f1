// Package jobs runs the periodic housekeeping of the API process.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

type Scheduler struct {
	cron *cron.Cron
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DiscardLogger))),
	}
}

// AddSweep schedules sw on a cron schedule (seconds field included, or
// descriptors such as "@every 1m").
func (s *Scheduler) AddSweep(name, schedule string, sw Sweeper) error {
	_, err := s.cron.AddFunc(schedule, func() {
		runSweep(name, sw)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	return nil
}

func runSweep(name string, sw Sweeper) {
	if n := sw.Sweep(); n > 0 {
		zap.L().Info("sweep finished", zap.String("job", name), zap.Int("removed", n))
	}
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	zap.L().Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
