package usecase

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

const defaultDemandLookupTimeout = 2 * time.Second

// PricingEngineConfig tunes the refresh path
type PricingEngineConfig struct {
	DemandLookupTimeout time.Duration
	HistoryWindow       time.Duration
	Workers             int
}

// PricingEngine recomputes flight prices and writes them back to the
// relational store. Concurrent refreshes of the same flight are not
// serialized; the last UPDATE wins.
type PricingEngine struct {
	flightRepo  repository.FlightPriceRepository
	historyRepo repository.PriceHistoryRepository
	calculator  *SurgeCalculator
	config      PricingEngineConfig
	metrics     *metrics.Metrics
	logger      logger.Logger
	secondary   bestEffort
	now         func() time.Time
}

// NewPricingEngine creates a new pricing engine
func NewPricingEngine(
	flightRepo repository.FlightPriceRepository,
	historyRepo repository.PriceHistoryRepository,
	calculator *SurgeCalculator,
	config PricingEngineConfig,
	m *metrics.Metrics,
	logger logger.Logger,
) *PricingEngine {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.DemandLookupTimeout <= 0 {
		config.DemandLookupTimeout = defaultDemandLookupTimeout
	}
	log := logger.With("component", "pricing_engine")
	return &PricingEngine{
		flightRepo:  flightRepo,
		historyRepo: historyRepo,
		calculator:  calculator,
		config:      config,
		metrics:     m,
		logger:      log,
		secondary:   bestEffort{logger: log, failures: m.SecondaryWriteFailures},
		now:         time.Now,
	}
}

// RefreshPrice recomputes one flight's surge, persists the new price and
// appends a snapshot to the flight's history.
func (e *PricingEngine) RefreshPrice(ctx context.Context, flightID int64) (*entity.RefreshResult, error) {
	if flightID <= 0 {
		return nil, &entity.ValidationError{Field: "flight_id", Reason: "must be positive"}
	}

	result, err := e.refresh(ctx, flightID)
	if err != nil {
		e.metrics.PriceRefreshFailures.Inc()
		return nil, err
	}
	e.metrics.PricesRefreshed.Inc()
	e.metrics.SurgeMultiplier.Observe(result.NewSurge.InexactFloat64())
	return result, nil
}

func (e *PricingEngine) refresh(ctx context.Context, flightID int64) (*entity.RefreshResult, error) {
	fp, err := e.flightRepo.GetFlightPrice(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("load flight %d: %w", flightID, err)
	}

	now := e.now()
	demand := e.historicalDemand(ctx, flightID, now)
	surge, breakdown := e.calculator.ComputeSurge(fp, now, demand)
	newPrice := fp.Price.BasePrice.Mul(surge).Round(2)

	if err := e.flightRepo.UpdatePrice(ctx, flightID, surge, newPrice, now); err != nil {
		return nil, fmt.Errorf("update price for flight %d: %w", flightID, err)
	}

	result := &entity.RefreshResult{
		FlightID:   flightID,
		FlightCode: fp.Flight.Code,
		OldPrice:   fp.Price.CurrentPrice,
		NewPrice:   newPrice,
		OldSurge:   fp.Price.SurgeMultiplier,
		NewSurge:   surge,
		Breakdown:  breakdown,
	}

	updated := *fp
	updated.Price.CurrentPrice = newPrice
	updated.Price.SurgeMultiplier = surge
	updated.Price.LastUpdated = now
	snapshot := buildPriceSnapshot(&updated, entity.SourcePricingEngine, now)
	snapshot.Breakdown = &breakdown.Factors

	e.secondary.Do(ctx, "append_price_snapshot", func(ctx context.Context) error {
		_, err := e.historyRepo.AppendSnapshot(ctx, historyHeader(fp), snapshot)
		return err
	}, "flightID", flightID)

	e.logger.Info("Price refreshed",
		"flightID", flightID,
		"flightCode", fp.Flight.Code,
		"oldSurge", fp.Price.SurgeMultiplier.String(),
		"newSurge", surge.String(),
		"newPrice", newPrice.String())

	return result, nil
}

// historicalDemand is the average occupancy of recent snapshots. Lookup
// failures leave the factor out rather than failing the refresh.
func (e *PricingEngine) historicalDemand(ctx context.Context, flightID int64, now time.Time) *float64 {
	lookupCtx, cancel := context.WithTimeout(ctx, e.config.DemandLookupTimeout)
	defer cancel()

	demand, err := e.historyRepo.AverageOccupancy(lookupCtx, flightID, now.Add(-e.config.HistoryWindow))
	if err != nil {
		e.logger.Warn("Historical demand lookup failed, factor omitted", "flightID", flightID, "error", err)
		return nil
	}
	return demand
}

// BatchRefresh refreshes the given flights, or every scheduled flight when
// flightIDs is nil. A non-nil empty list refreshes nothing. Each flight gets
// its own outcome slot in input order;
// a failing flight never aborts the batch. The returned error is only set
// when the scheduled flights could not be listed.
func (e *PricingEngine) BatchRefresh(ctx context.Context, flightIDs []int64) ([]entity.RefreshOutcome, error) {
	if flightIDs == nil {
		ids, err := e.flightRepo.ListScheduledFlightIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list scheduled flights: %w", err)
		}
		flightIDs = ids
	}

	outcomes := make([]entity.RefreshOutcome, len(flightIDs))

	var g errgroup.Group
	g.SetLimit(e.config.Workers)
	for i, id := range flightIDs {
		g.Go(func() error {
			result, err := e.RefreshPrice(ctx, id)
			outcomes[i] = entity.RefreshOutcome{FlightID: id, Result: result, Err: err}
			if err != nil {
				e.logger.Error("Batch refresh failed for flight", "flightID", id, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info("Batch refresh finished", "count", len(outcomes))
	return outcomes, nil
}

// PriceHistory returns the flight's snapshots from the last days, newest first
func (e *PricingEngine) PriceHistory(ctx context.Context, flightID int64, days int) ([]entity.PriceSnapshot, error) {
	if flightID <= 0 {
		return nil, &entity.ValidationError{Field: "flight_id", Reason: "must be positive"}
	}
	if days <= 0 {
		return nil, &entity.ValidationError{Field: "days", Reason: "must be positive"}
	}
	since := e.now().AddDate(0, 0, -days)
	snapshots, err := e.historyRepo.ListSnapshots(ctx, flightID, since)
	if err != nil {
		return nil, fmt.Errorf("list snapshots for flight %d: %w", flightID, err)
	}
	return snapshots, nil
}
