// Package scheduler drives the recurring materialization sweep on a fixed interval.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/recurrence"
	"github.com/carson-networks/ledger-server/internal/service"
)

type materializer interface {
	MaterializeDue(ctx context.Context, asOf time.Time) (*service.SweepResult, error)
}

// Sweeper materializes every due recurring occurrence once at start and then
// on every tick. Sweeps never overlap.
type Sweeper struct {
	recurring materializer
	interval  time.Duration
	clock     service.Clock
	logger    *logrus.Logger
}

func NewSweeper(recurring materializer, interval time.Duration, clock service.Clock, logger *logrus.Logger) *Sweeper {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Sweeper{recurring: recurring, interval: interval, clock: clock, logger: logger}
}

// Run sweeps until ctx is done. It returns nil on cancellation.
func (s *Sweeper) Run(ctx context.Context) error {
	s.logger.WithField("interval", s.interval.String()).Info("Sweeper.Run.started")
	defer s.logger.Info("Sweeper.Run.stopped")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.SweepOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce materializes occurrences due up to today's calendar date.
func (s *Sweeper) SweepOnce(ctx context.Context) *service.SweepResult {
	asOf := recurrence.Day(s.clock())
	log := s.logger.WithField("asOf", asOf.Format(time.DateOnly))

	start := time.Now()
	result, err := s.recurring.MaterializeDue(ctx, asOf)
	log = log.WithField("durationMs", time.Since(start).Milliseconds())
	if result != nil {
		log = log.WithFields(logrus.Fields{
			"templates": result.Templates,
			"created":   result.Created,
			"skipped":   result.Skipped,
			"failed":    result.Failed,
		})
		for _, failure := range result.Errors {
			log.WithError(failure).Warn("Sweeper.SweepOnce.templateFailed")
		}
	}
	if err != nil {
		log.WithError(err).Error("Sweeper.SweepOnce.Error")
		return result
	}

	log.Info("Sweeper.SweepOnce.Complete")
	return result
}
