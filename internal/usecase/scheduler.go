package usecase

import (
	"context"
	"log/slog"
	"time"

	"NewsDesk/internal/ports"
)

// Scheduler wires the interval driver with the publisher use case.
type Scheduler struct {
	driver    ports.Scheduler
	publisher *Publisher
	logger    *slog.Logger
}

// NewScheduler returns a helper to start/stop the publication poller.
func NewScheduler(driver ports.Scheduler, publisher *Publisher, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, publisher: publisher, logger: logger}
}

// Start registers the publisher with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.publisher == nil {
		return nil
	}

	job := func(ctx context.Context, now time.Time) {
		if _, err := s.publisher.PublishDue(ctx, now); err != nil && ctx.Err() == nil {
			if s.logger != nil {
				s.logger.Error("poll failed", "error", err)
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop waits for the in-flight iteration and tears down the driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
