package scheduler

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"

	"github.com/go-co-op/gocron"
)

// BatchRefresher refreshes a set of flight prices; nil ids means every
// scheduled flight.
type BatchRefresher interface {
	BatchRefresh(ctx context.Context, flightIDs []int64) ([]entity.RefreshOutcome, error)
}

// RefreshScheduler periodically reprices every scheduled flight
type RefreshScheduler struct {
	refresher BatchRefresher
	interval  time.Duration
	logger    logger.Logger
}

// NewRefreshScheduler creates a scheduler running every interval
func NewRefreshScheduler(refresher BatchRefresher, interval time.Duration, logger logger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		refresher: refresher,
		interval:  interval,
		logger:    logger.With("component", "refresh_scheduler"),
	}
}

// Run blocks until ctx is cancelled. A run still in flight when the
// previous one is due is not overlapped.
func (s *RefreshScheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return &entity.ValidationError{Field: "interval", Reason: "must be positive"}
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	s.logger.Info("Starting price refresh scheduler", "interval", s.interval.String())

	_, err := scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule price refresh: %w", err)
	}

	scheduler.StartAsync()
	<-ctx.Done()
	scheduler.Stop()

	s.logger.Info("Price refresh scheduler stopped")
	return nil
}

func (s *RefreshScheduler) runOnce(ctx context.Context) {
	started := time.Now()
	outcomes, err := s.refresher.BatchRefresh(ctx, nil)
	if err != nil {
		s.logger.Error("Scheduled price refresh failed", "error", err)
		return
	}

	updated, failed := summarizeOutcomes(outcomes)
	s.logger.Info("Scheduled price refresh finished",
		"updated", updated,
		"failed", failed,
		"duration", time.Since(started).String(),
	)
}

func summarizeOutcomes(outcomes []entity.RefreshOutcome) (updated, failed int) {
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			continue
		}
		updated++
	}
	return updated, failed
}
