package usecase

import (
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/utils"

	"github.com/shopspring/decimal"
)

// occupancyTier maps occupancy rates up to and including upTo onto a multiplier
type occupancyTier struct {
	upTo       decimal.Decimal
	multiplier decimal.Decimal
}

// departureTier maps departures at most maxDays away onto a multiplier
type departureTier struct {
	maxDays    int
	multiplier decimal.Decimal
}

// hourBand covers departure hours in [from, to)
type hourBand struct {
	from, to   int
	multiplier decimal.Decimal
}

type monthDay struct {
	month time.Month
	day   int
}

// factorWeights are the weights of the arithmetic mean. They must sum to 1.
type factorWeights struct {
	Occupancy decimal.Decimal
	Departure decimal.Decimal
	TimeOfDay decimal.Decimal
	DayOfWeek decimal.Decimal
	Seasonal  decimal.Decimal
}

// Sum returns the total weight
func (w factorWeights) Sum() decimal.Decimal {
	return w.Occupancy.Add(w.Departure).Add(w.TimeOfDay).Add(w.DayOfWeek).Add(w.Seasonal)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Tables are ordered ascending by threshold and searched first-match.
var (
	occupancyTiers = []occupancyTier{
		{upTo: dec("0.30"), multiplier: dec("0.85")},
		{upTo: dec("0.50"), multiplier: dec("1.00")},
		{upTo: dec("0.70"), multiplier: dec("1.25")},
		{upTo: dec("0.85"), multiplier: dec("1.50")},
		{upTo: dec("0.95"), multiplier: dec("2.00")},
		{upTo: dec("1.00"), multiplier: dec("2.50")},
	}
	occupancyCeiling = dec("2.50")

	departureTiers = []departureTier{
		{maxDays: 0, multiplier: dec("2.50")},
		{maxDays: 1, multiplier: dec("2.00")},
		{maxDays: 3, multiplier: dec("1.75")},
		{maxDays: 7, multiplier: dec("1.50")},
		{maxDays: 14, multiplier: dec("1.25")},
		{maxDays: 30, multiplier: dec("1.00")},
		{maxDays: 60, multiplier: dec("0.90")},
		{maxDays: 90, multiplier: dec("0.85")},
	}
	departureFloor = dec("0.85")

	hourBands = []hourBand{
		{from: 0, to: 6, multiplier: dec("0.85")},
		{from: 6, to: 9, multiplier: dec("1.20")},
		{from: 9, to: 12, multiplier: dec("1.10")},
		{from: 12, to: 14, multiplier: dec("1.00")},
		{from: 14, to: 17, multiplier: dec("1.05")},
		{from: 17, to: 21, multiplier: dec("1.25")},
		{from: 21, to: 24, multiplier: dec("0.95")},
	}

	// Monday first
	weekdayMultipliers = [7]decimal.Decimal{
		dec("1.15"), dec("1.05"), dec("1.00"), dec("1.10"), dec("1.25"), dec("1.20"), dec("1.30"),
	}

	holidayMultiplier    = dec("1.35")
	peakSeasonMultiplier = dec("1.20")

	holidays = []monthDay{
		{time.January, 26},
		{time.August, 15},
		{time.October, 2},
		{time.November, 14},
		{time.December, 25},
	}
	peakMonths = map[time.Month]bool{
		time.January:  true,
		time.April:    true,
		time.May:      true,
		time.October:  true,
		time.December: true,
	}

	surgeWeights = factorWeights{
		Occupancy: dec("0.40"),
		Departure: dec("0.30"),
		TimeOfDay: dec("0.10"),
		DayOfWeek: dec("0.10"),
		Seasonal:  dec("0.10"),
	}

	neutralMultiplier = decimal.NewFromInt(1)
)

// SurgeCalculator computes bounded surge multipliers. It holds no store
// handles and is safe for concurrent use.
type SurgeCalculator struct {
	min decimal.Decimal
	max decimal.Decimal
}

// NewSurgeCalculator creates a calculator clamping to [min, max]
func NewSurgeCalculator(min, max float64) (*SurgeCalculator, error) {
	if min <= 0 {
		return nil, &entity.ValidationError{Field: "min_multiplier", Reason: "must be positive"}
	}
	if min > max {
		return nil, &entity.ValidationError{Field: "max_multiplier", Reason: "must not be below min_multiplier"}
	}
	return &SurgeCalculator{
		min: decimal.NewFromFloat(min),
		max: decimal.NewFromFloat(max),
	}, nil
}

// Bounds returns the configured clamp range
func (c *SurgeCalculator) Bounds() (decimal.Decimal, decimal.Decimal) {
	return c.min, c.max
}

// FactorsFor derives the pricing inputs for a flight at the given instant
func FactorsFor(flight *entity.Flight, now time.Time, historicalDemand *float64) entity.PricingFactors {
	dep := flight.DepartureTime
	return entity.PricingFactors{
		OccupancyRate:    flight.OccupancyRate(),
		DaysToDeparture:  utils.DaysUntil(dep, now),
		HourOfDay:        dep.Hour(),
		DayOfWeek:        utils.WeekdayIndex(dep.Weekday()),
		IsHoliday:        isHoliday(dep),
		IsPeakSeason:     peakMonths[dep.Month()],
		HistoricalDemand: historicalDemand,
	}
}

// ComputeSurge returns the multiplier for a flight/price row, rounded to two
// decimals, and the breakdown that explains it.
func (c *SurgeCalculator) ComputeSurge(fp *entity.FlightPrice, now time.Time, historicalDemand *float64) (decimal.Decimal, entity.SurgeBreakdown) {
	return c.Combine(FactorsFor(&fp.Flight, now, historicalDemand), now)
}

// Combine weights the five sub-multipliers and clamps the result
func (c *SurgeCalculator) Combine(f entity.PricingFactors, now time.Time) (decimal.Decimal, entity.SurgeBreakdown) {
	occupancy := occupancyMultiplier(f.OccupancyRate)
	departure := departureMultiplier(f.DaysToDeparture)
	timeOfDay := timeOfDayMultiplier(f.HourOfDay)
	dayOfWeek := dayOfWeekMultiplier(f.DayOfWeek)
	seasonal := seasonalMultiplier(f.IsHoliday, f.IsPeakSeason)

	weighted := surgeWeights.Occupancy.Mul(occupancy).
		Add(surgeWeights.Departure.Mul(departure)).
		Add(surgeWeights.TimeOfDay.Mul(timeOfDay)).
		Add(surgeWeights.DayOfWeek.Mul(dayOfWeek)).
		Add(surgeWeights.Seasonal.Mul(seasonal))

	final := decimal.Min(c.max, decimal.Max(c.min, weighted)).Round(2)

	breakdown := entity.SurgeBreakdown{
		OccupancyRate:    f.OccupancyRate.Round(4).InexactFloat64(),
		DaysToDeparture:  f.DaysToDeparture,
		HistoricalDemand: f.HistoricalDemand,
		Factors: entity.FactorMultipliers{
			Occupancy:       occupancy.Round(3).InexactFloat64(),
			DepartureTiming: departure.Round(3).InexactFloat64(),
			TimeOfDay:       timeOfDay.Round(3).InexactFloat64(),
			DayOfWeek:       dayOfWeek.Round(3).InexactFloat64(),
			Seasonal:        seasonal.Round(3).InexactFloat64(),
		},
		WeightedRaw:     weighted.Round(3).InexactFloat64(),
		FinalMultiplier: final.InexactFloat64(),
		CalculatedAt:    now,
	}

	return final, breakdown
}

func occupancyMultiplier(rate decimal.Decimal) decimal.Decimal {
	for _, tier := range occupancyTiers {
		if rate.LessThanOrEqual(tier.upTo) {
			return tier.multiplier
		}
	}
	return occupancyCeiling
}

func departureMultiplier(days int) decimal.Decimal {
	for _, tier := range departureTiers {
		if days <= tier.maxDays {
			return tier.multiplier
		}
	}
	return departureFloor
}

func timeOfDayMultiplier(hour int) decimal.Decimal {
	for _, band := range hourBands {
		if hour >= band.from && hour < band.to {
			return band.multiplier
		}
	}
	return neutralMultiplier
}

func dayOfWeekMultiplier(day int) decimal.Decimal {
	if day < 0 || day >= len(weekdayMultipliers) {
		return neutralMultiplier
	}
	return weekdayMultipliers[day]
}

func seasonalMultiplier(holiday, peak bool) decimal.Decimal {
	m := neutralMultiplier
	if holiday {
		m = m.Mul(holidayMultiplier)
	}
	if peak {
		m = m.Mul(peakSeasonMultiplier)
	}
	return m
}

// isHoliday compares month and day only, so the list applies every year
func isHoliday(t time.Time) bool {
	for _, h := range holidays {
		if t.Month() == h.month && t.Day() == h.day {
			return true
		}
	}
	return false
}
