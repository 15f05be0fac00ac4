package entity

import "time"

// InsightModelVersion is stamped on every generated insight
const InsightModelVersion = "1.0.0"

// Recommendation priorities
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
)

// Insight is a derived, expiring pricing document for one flight.
// Each generation fully replaces the previous one.
type Insight struct {
	FlightID           int64               `json:"flight_id" bson:"flight_id"`
	FlightCode         string              `json:"flight_code" bson:"flight_code"`
	Route              Route               `json:"route" bson:"route"`
	Predictions        Predictions         `json:"predictions" bson:"predictions"`
	MarketFactors      MarketFactors       `json:"market_factors" bson:"market_factors"`
	HistoricalAnalysis PriceHistorySummary `json:"historical_analysis" bson:"historical_analysis"`
	Recommendations    []Recommendation    `json:"recommendations" bson:"recommendations"`
	ModelVersion       string              `json:"model_version" bson:"model_version"`
	GeneratedAt        time.Time           `json:"generated_at" bson:"generated_at"`
	ExpiresAt          time.Time           `json:"expires_at" bson:"expires_at"`
}

// IsExpired reports whether the insight is stale at the given instant
func (i *Insight) IsExpired(at time.Time) bool {
	return at.After(i.ExpiresAt)
}

type Predictions struct {
	OptimalPrice       float64 `json:"optimal_price" bson:"optimal_price"`
	ExpectedDemand     int     `json:"expected_demand" bson:"expected_demand"`
	RecommendedSurge   float64 `json:"recommended_surge" bson:"recommended_surge"`
	ConfidenceScore    float64 `json:"confidence_score" bson:"confidence_score"`
	SellOutProbability float64 `json:"sell_out_probability" bson:"sell_out_probability"`
}

type MarketFactors struct {
	DaysToDeparture   int     `json:"days_to_departure" bson:"days_to_departure"`
	CurrentOccupancy  float64 `json:"current_occupancy" bson:"current_occupancy"`
	SeasonalityFactor float64 `json:"seasonality_factor" bson:"seasonality_factor"`
	DayOfWeekFactor   float64 `json:"day_of_week_factor" bson:"day_of_week_factor"`
}

type Recommendation struct {
	Action         string `json:"action" bson:"action"`
	Reason         string `json:"reason" bson:"reason"`
	ExpectedImpact string `json:"expected_impact" bson:"expected_impact"`
	Priority       string `json:"priority" bson:"priority"`
}
