package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingFactors are the per-call inputs to the surge computation.
// They are never persisted; only the breakdown derived from them is.
type PricingFactors struct {
	OccupancyRate    decimal.Decimal
	DaysToDeparture  int
	HourOfDay        int
	DayOfWeek        int // Monday = 0
	IsHoliday        bool
	IsPeakSeason     bool
	HistoricalDemand *float64
}

// FactorMultipliers holds each sub-multiplier rounded to 3 decimals
type FactorMultipliers struct {
	Occupancy       float64 `json:"occupancy" bson:"occupancy"`
	DepartureTiming float64 `json:"departure_timing" bson:"departure_timing"`
	TimeOfDay       float64 `json:"time_of_day" bson:"time_of_day"`
	DayOfWeek       float64 `json:"day_of_week" bson:"day_of_week"`
	Seasonal        float64 `json:"seasonal" bson:"seasonal"`
}

// SurgeBreakdown explains how a multiplier was reached
type SurgeBreakdown struct {
	OccupancyRate    float64           `json:"occupancy_rate"`
	DaysToDeparture  int               `json:"days_to_departure"`
	HistoricalDemand *float64          `json:"historical_demand,omitempty"`
	Factors          FactorMultipliers `json:"factors"`
	WeightedRaw      float64           `json:"weighted_raw"`
	FinalMultiplier  float64           `json:"final_multiplier"`
	CalculatedAt     time.Time         `json:"calculated_at"`
}

// RefreshResult is what a single price refresh reports back
type RefreshResult struct {
	FlightID   int64           `json:"flight_id"`
	FlightCode string          `json:"flight_code"`
	OldPrice   decimal.Decimal `json:"old_price"`
	NewPrice   decimal.Decimal `json:"new_price"`
	OldSurge   decimal.Decimal `json:"old_surge"`
	NewSurge   decimal.Decimal `json:"new_surge"`
	Breakdown  SurgeBreakdown  `json:"breakdown"`
}

// RefreshOutcome is one slot of a batch refresh: a result or the error that
// stopped this flight. A failed slot never aborts the batch.
type RefreshOutcome struct {
	FlightID int64
	Result   *RefreshResult
	Err      error
}
