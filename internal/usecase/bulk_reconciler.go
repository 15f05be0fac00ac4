package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	reconcileKindPrice  = "price"
	reconcileKindReview = "review"
)

// BulkReconciler rebuilds document-store state from the relational store,
// bypassing the change-notification path. Review documents converge on
// repeated runs; price histories gain one bulk snapshot per flight per run.
type BulkReconciler struct {
	flightRepo  repository.FlightPriceRepository
	historyRepo repository.PriceHistoryRepository
	reviewRepo  repository.ReviewDocumentRepository
	workers     int
	metrics     *metrics.Metrics
	logger      logger.Logger
	now         func() time.Time
}

// NewBulkReconciler creates a new bulk reconciler
func NewBulkReconciler(
	flightRepo repository.FlightPriceRepository,
	historyRepo repository.PriceHistoryRepository,
	reviewRepo repository.ReviewDocumentRepository,
	workers int,
	m *metrics.Metrics,
	logger logger.Logger,
) *BulkReconciler {
	if workers < 1 {
		workers = 1
	}
	return &BulkReconciler{
		flightRepo:  flightRepo,
		historyRepo: historyRepo,
		reviewRepo:  reviewRepo,
		workers:     workers,
		metrics:     m,
		logger:      logger.With("component", "bulk_reconciler"),
		now:         time.Now,
	}
}

// SyncAll appends a bulk snapshot for every price row and replaces every
// review document. Per-row failures are counted in the report; only a failure
// to list the source rows aborts the run.
func (r *BulkReconciler) SyncAll(ctx context.Context) (*entity.ReconcileReport, error) {
	report := &entity.ReconcileReport{
		RunID:     uuid.New(),
		StartedAt: r.now(),
	}
	log := r.logger.With("runID", report.RunID.String())
	log.Info("Starting bulk reconciliation")

	prices, err := r.flightRepo.ListFlightPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	report.PricesSynced, report.PriceErrors = r.forEach(ctx, reconcileKindPrice, len(prices), func(ctx context.Context, i int) error {
		fp := prices[i]
		snapshot := buildPriceSnapshot(fp, entity.SourceBulkSync, r.now())
		_, err := r.historyRepo.AppendSnapshot(ctx, historyHeader(fp), snapshot)
		if err != nil {
			log.Error("Failed to sync price", "flightID", fp.Flight.ID, "error", err)
		}
		return err
	})

	reviews, err := r.flightRepo.ListReviewDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	report.ReviewsSynced, report.ReviewErrors = r.forEach(ctx, reconcileKindReview, len(reviews), func(ctx context.Context, i int) error {
		review := reviews[i]
		err := r.reviewRepo.Replace(ctx, buildReviewDocument(review, r.now()))
		if err != nil {
			log.Error("Failed to sync review", "reviewID", review.ReviewID, "error", err)
		}
		return err
	})

	report.FinishedAt = r.now()
	log.Info("Bulk reconciliation finished",
		"pricesSynced", report.PricesSynced,
		"priceErrors", report.PriceErrors,
		"reviewsSynced", report.ReviewsSynced,
		"reviewErrors", report.ReviewErrors)

	return report, nil
}

// forEach runs sync for n items on the worker pool and counts outcomes
func (r *BulkReconciler) forEach(ctx context.Context, kind string, n int, sync func(ctx context.Context, i int) error) (synced, failed int) {
	errs := make([]error, n)

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			errs[i] = sync(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			failed++
			r.metrics.ReconcileItems.WithLabelValues(kind, ResultFailed).Inc()
			continue
		}
		synced++
		r.metrics.ReconcileItems.WithLabelValues(kind, ResultApplied).Inc()
	}
	return synced, failed
}
