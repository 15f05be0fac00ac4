package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlightStatus is the lifecycle status of a flight
type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightBoarding  FlightStatus = "BOARDING"
	FlightDeparted  FlightStatus = "DEPARTED"
	FlightArrived   FlightStatus = "ARRIVED"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightDelayed   FlightStatus = "DELAYED"
)

// Flight is the sellable inventory unit. It is owned by the relational store
// and only read here.
type Flight struct {
	ID             int64
	Code           string
	Origin         string
	Destination    string
	DepartureTime  time.Time
	TotalSeats     int
	AvailableSeats int
	Status         FlightStatus
}

// OccupancyRate returns the sold fraction of capacity as an exact decimal.
// Flights without capacity are reported as empty.
func (f *Flight) OccupancyRate() decimal.Decimal {
	if f.TotalSeats <= 0 {
		return decimal.Zero
	}
	sold := decimal.NewFromInt(int64(f.TotalSeats - f.AvailableSeats))
	return sold.Div(decimal.NewFromInt(int64(f.TotalSeats)))
}

// Route is the origin/destination pair embedded in documents
type Route struct {
	Origin      string `json:"origin" bson:"origin"`
	Destination string `json:"destination" bson:"destination"`
}
