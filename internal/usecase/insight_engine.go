package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/metrics"
	"flightsync-service/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	insightConfidence  = 0.75
	neutralFactor      = 1.0
	promoDaysThreshold = 7
	lastMinuteDays     = 1
)

var (
	lowOccupancy     = dec("0.5")
	highOccupancy    = dec("0.8")
	discountFactor   = dec("0.95")
	premiumFactor    = dec("1.10")
	demandHeadroom   = dec("0.1")
	sellOutScale     = dec("1.2")
	promoOccupancy   = dec("0.3")
	surgeUpOccupancy = dec("0.85")
)

// InsightEngineConfig tunes insight generation
type InsightEngineConfig struct {
	TTL           time.Duration
	HistoryWindow time.Duration
}

// InsightEngine derives predictions and recommendations for a flight and
// stores them as an expiring document.
type InsightEngine struct {
	flightRepo  repository.FlightPriceRepository
	historyRepo repository.PriceHistoryRepository
	insightRepo repository.InsightRepository
	cache       repository.InsightCache
	config      InsightEngineConfig
	metrics     *metrics.Metrics
	logger      logger.Logger
	secondary   bestEffort
	now         func() time.Time
}

// NewInsightEngine creates a new insight engine. cache may be nil.
func NewInsightEngine(
	flightRepo repository.FlightPriceRepository,
	historyRepo repository.PriceHistoryRepository,
	insightRepo repository.InsightRepository,
	cache repository.InsightCache,
	config InsightEngineConfig,
	m *metrics.Metrics,
	logger logger.Logger,
) *InsightEngine {
	log := logger.With("component", "insight_engine")
	return &InsightEngine{
		flightRepo:  flightRepo,
		historyRepo: historyRepo,
		insightRepo: insightRepo,
		cache:       cache,
		config:      config,
		metrics:     m,
		logger:      log,
		secondary:   bestEffort{logger: log, failures: m.SecondaryWriteFailures},
		now:         time.Now,
	}
}

// GenerateInsights builds a fresh insight for the flight and replaces the
// stored one. Persistence is best-effort; the insight is returned either way.
func (e *InsightEngine) GenerateInsights(ctx context.Context, flightID int64) (*entity.Insight, error) {
	if flightID <= 0 {
		return nil, &entity.ValidationError{Field: "flight_id", Reason: "must be positive"}
	}

	fp, err := e.flightRepo.GetFlightPrice(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("load flight %d: %w", flightID, err)
	}

	now := e.now()
	insight := buildInsight(fp, e.history(ctx, flightID, now), now, e.config.TTL)

	e.secondary.Do(ctx, "replace_insight", func(ctx context.Context) error {
		return e.insightRepo.Replace(ctx, insight)
	}, "flightID", flightID)

	if e.cache != nil {
		cached := e.secondary.Do(ctx, "cache_insight", func(ctx context.Context) error {
			return e.cache.Set(ctx, insight)
		}, "flightID", flightID)
		// a stale entry would shadow the replaced document until it expires
		if !cached {
			e.secondary.Do(ctx, "invalidate_insight", func(ctx context.Context) error {
				return e.cache.Delete(ctx, flightID)
			}, "flightID", flightID)
		}
	}

	e.metrics.InsightsGenerated.Inc()
	e.logger.Info("Insight generated",
		"flightID", flightID,
		"recommendations", len(insight.Recommendations),
		"optimalPrice", insight.Predictions.OptimalPrice)

	return insight, nil
}

// LatestInsight returns the stored insight for the flight, preferring the
// cache. It fails with entity.ErrInsightExpired once the insight is stale.
func (e *InsightEngine) LatestInsight(ctx context.Context, flightID int64) (*entity.Insight, error) {
	if flightID <= 0 {
		return nil, &entity.ValidationError{Field: "flight_id", Reason: "must be positive"}
	}

	insight := e.cached(ctx, flightID)
	if insight == nil {
		stored, err := e.insightRepo.FindByFlightID(ctx, flightID)
		if err != nil {
			return nil, fmt.Errorf("load insight for flight %d: %w", flightID, err)
		}
		insight = stored
	}

	if insight.IsExpired(e.now()) {
		return nil, fmt.Errorf("insight for flight %d generated at %s: %w",
			flightID, insight.GeneratedAt.Format(time.RFC3339), entity.ErrInsightExpired)
	}
	return insight, nil
}

func (e *InsightEngine) cached(ctx context.Context, flightID int64) *entity.Insight {
	if e.cache == nil {
		return nil
	}
	insight, err := e.cache.Get(ctx, flightID)
	if err != nil {
		if !errors.Is(err, entity.ErrNotFound) {
			e.logger.Warn("Insight cache read failed", "flightID", flightID, "error", err)
		}
		return nil
	}
	return insight
}

// history aggregates recent snapshots, falling back to an unknown summary
func (e *InsightEngine) history(ctx context.Context, flightID int64, now time.Time) entity.PriceHistorySummary {
	summary, err := e.historyRepo.Summarize(ctx, flightID, now.Add(-e.config.HistoryWindow))
	if err != nil {
		e.logger.Warn("History aggregation failed, using unknown history", "flightID", flightID, "error", err)
		return entity.UnknownHistory()
	}
	if summary == nil || summary.DataPoints == 0 {
		return entity.UnknownHistory()
	}
	out := *summary
	out.PriceTrend = "stable"
	out.DemandTrend = "stable"
	return out
}

func buildInsight(fp *entity.FlightPrice, history entity.PriceHistorySummary, now time.Time, ttl time.Duration) *entity.Insight {
	occupancy := fp.Flight.OccupancyRate()
	days := utils.DaysUntil(fp.Flight.DepartureTime, now)

	return &entity.Insight{
		FlightID:   fp.Flight.ID,
		FlightCode: fp.Flight.Code,
		Route: entity.Route{
			Origin:      fp.Flight.Origin,
			Destination: fp.Flight.Destination,
		},
		Predictions: predict(fp, occupancy),
		MarketFactors: entity.MarketFactors{
			DaysToDeparture:   days,
			CurrentOccupancy:  occupancy.Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64(),
			SeasonalityFactor: neutralFactor,
			DayOfWeekFactor:   neutralFactor,
		},
		HistoricalAnalysis: history,
		Recommendations:    recommend(occupancy, days, fp.Flight.AvailableSeats),
		ModelVersion:       entity.InsightModelVersion,
		GeneratedAt:        now,
		ExpiresAt:          now.Add(ttl),
	}
}

func predict(fp *entity.FlightPrice, occupancy decimal.Decimal) entity.Predictions {
	optimal := fp.Price.CurrentPrice
	switch {
	case occupancy.LessThan(lowOccupancy):
		optimal = optimal.Mul(discountFactor)
	case occupancy.GreaterThan(highOccupancy):
		optimal = optimal.Mul(premiumFactor)
	}
	optimal = optimal.Round(2)

	recommendedSurge := decimal.Zero
	if fp.Price.BasePrice.IsPositive() {
		recommendedSurge = optimal.Div(fp.Price.BasePrice).Round(2)
	}

	one := decimal.NewFromInt(1)
	demandShare := decimal.Min(occupancy.Add(demandHeadroom), one)
	sellOut := decimal.Min(occupancy.Mul(sellOutScale), one)

	return entity.Predictions{
		OptimalPrice:       optimal.InexactFloat64(),
		ExpectedDemand:     int(decimal.NewFromInt(int64(fp.Flight.TotalSeats)).Mul(demandShare).IntPart()),
		RecommendedSurge:   recommendedSurge.InexactFloat64(),
		ConfidenceScore:    insightConfidence,
		SellOutProbability: sellOut.Round(2).InexactFloat64(),
	}
}

// recommend applies each rule independently; zero to three entries
func recommend(occupancy decimal.Decimal, days, availableSeats int) []entity.Recommendation {
	recs := make([]entity.Recommendation, 0, 3)

	if occupancy.LessThan(promoOccupancy) && days < promoDaysThreshold {
		recs = append(recs, entity.Recommendation{
			Action:         "Apply promotional discount",
			Reason:         "Low occupancy with departure approaching",
			ExpectedImpact: "+15-20% bookings",
			Priority:       entity.PriorityHigh,
		})
	}

	if occupancy.GreaterThan(surgeUpOccupancy) {
		recs = append(recs, entity.Recommendation{
			Action:         "Increase surge multiplier",
			Reason:         "High demand, limited seats",
			ExpectedImpact: "+10-15% revenue per seat",
			Priority:       entity.PriorityHigh,
		})
	}

	if days <= lastMinuteDays && availableSeats > 0 {
		recs = append(recs, entity.Recommendation{
			Action:         "Last-minute deal or premium pricing",
			Reason:         "Same-day/next-day departure",
			ExpectedImpact: "Maximize remaining inventory value",
			Priority:       entity.PriorityMedium,
		})
	}

	return recs
}
