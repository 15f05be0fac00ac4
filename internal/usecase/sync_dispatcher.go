package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"
)

// Change event results as counted in metrics
const (
	ResultApplied = "applied"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
	ResultDropped = "dropped"
)

// SyncDispatcher applies decoded change events through the registered
// handlers. Failures are logged and counted; they never reach end users.
type SyncDispatcher struct {
	router  EventRouter
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewSyncDispatcher creates a new sync dispatcher
func NewSyncDispatcher(router EventRouter, m *metrics.Metrics, logger logger.Logger) *SyncDispatcher {
	return &SyncDispatcher{
		router:  router,
		metrics: m,
		logger:  logger.With("component", "sync_dispatcher"),
	}
}

// Dispatch applies one change event. The returned error is informational;
// callers keep consuming events regardless.
func (d *SyncDispatcher) Dispatch(ctx context.Context, evt entity.ChangeEvent) error {
	label := entityLabel(evt)

	handler := d.router.GetHandler(evt.EntityType)
	if handler == nil {
		d.logger.Debug("No handler found for change event",
			"table", evt.Table,
			"operation", evt.Operation,
			"recordID", evt.RecordID)
		d.metrics.ChangeEvents.WithLabelValues(label, ResultSkipped).Inc()
		return nil
	}

	start := time.Now()
	err := handler.Handle(ctx, evt)
	d.metrics.SyncDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

	if err != nil {
		if isMissingSource(err) {
			d.logger.Debug("Source row missing, skipping",
				"entity", label,
				"operation", evt.Operation,
				"recordID", evt.RecordID)
			d.metrics.ChangeEvents.WithLabelValues(label, ResultSkipped).Inc()
			return nil
		}

		d.logger.Error("Handler failed to apply change event",
			"entity", label,
			"operation", evt.Operation,
			"recordID", evt.RecordID,
			"error", err)
		d.metrics.ChangeEvents.WithLabelValues(label, ResultFailed).Inc()
		return fmt.Errorf("sync %s %d: %w", label, evt.RecordID, err)
	}

	d.logger.Debug("Change event applied",
		"entity", label,
		"operation", evt.Operation,
		"recordID", evt.RecordID)
	d.metrics.ChangeEvents.WithLabelValues(label, ResultApplied).Inc()
	return nil
}

func entityLabel(evt entity.ChangeEvent) string {
	if evt.EntityType == "" {
		return "untracked"
	}
	return string(evt.EntityType)
}
