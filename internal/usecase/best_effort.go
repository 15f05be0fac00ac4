package usecase

import (
	"context"

	"flightsync-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// bestEffort applies document-store writes whose failure must not fail the
// caller. The primary-store write that preceded it is never rolled back, so a
// failure here leaves the two stores apart until the next event or
// reconciliation. Failures are logged and counted; the bool tells the caller
// whether the write landed.
type bestEffort struct {
	logger   logger.Logger
	failures *prometheus.CounterVec
}

func (b bestEffort) Do(ctx context.Context, operation string, write func(ctx context.Context) error, keysAndValues ...interface{}) bool {
	if err := write(ctx); err != nil {
		kv := append([]interface{}{"operation", operation, "error", err}, keysAndValues...)
		b.logger.Warn("Document store write failed, continuing", kv...)
		b.failures.WithLabelValues(operation).Inc()
		return false
	}
	return true
}
