package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agentboard/agentboard/internal/repository"
)

// Sweeper periodically removes finished executions older than the
// configured retention window.
type Sweeper struct {
	executions repository.ExecutionRepository
	maxAge     time.Duration
	cron       *cron.Cron
}

// NewSweeper creates a sweeper running on the cron schedule. An empty
// schedule or non-positive maxAge disables it.
func NewSweeper(executions repository.ExecutionRepository, schedule string, maxAge time.Duration) (*Sweeper, error) {
	s := &Sweeper{executions: executions, maxAge: maxAge}
	if schedule == "" || maxAge <= 0 {
		return s, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.Sweep(context.Background()) }); err != nil {
		return nil, err
	}
	s.cron = c
	return s, nil
}

// Start begins the background schedule, if one is configured.
func (s *Sweeper) Start() {
	if s.cron != nil {
		s.cron.Start()
		slog.Info("retention sweeper started", "max_age", s.maxAge)
	}
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

// Sweep removes old finished executions once and returns the count.
func (s *Sweeper) Sweep(ctx context.Context) int {
	if s.maxAge <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-s.maxAge)
	n, err := s.executions.DeleteBefore(ctx, cutoff)
	if err != nil {
		slog.Warn("retention sweep failed", "err", err)
		return 0
	}
	if n > 0 {
		slog.Info("retention sweep removed executions", "count", n)
	}
	return n
}
