package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Price is the current price row of a flight (1:1).
// CurrentPrice = BasePrice * SurgeMultiplier.
type Price struct {
	ID              int64
	FlightID        int64
	BasePrice       decimal.Decimal
	CurrentPrice    decimal.Decimal
	SurgeMultiplier decimal.Decimal
	LastUpdated     time.Time
}

// FlightPrice is the flight+price join the pricing and sync paths read.
type FlightPrice struct {
	Flight Flight
	Price  Price
}
