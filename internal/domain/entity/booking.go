package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingDetail is the booking+flight+customer join read by the sync path
type BookingDetail struct {
	BookingID     int64
	CustomerID    int64
	CustomerEmail string
	FlightID      int64
	FlightCode    string
	Route         Route
	SeatsBooked   int
	TotalCost     decimal.Decimal
	BookingClass  string
	Status        string
}

// BehaviorActivity is one entry of a customer session's activity list
type BehaviorActivity struct {
	Action    string          `bson:"action"`
	Timestamp time.Time       `bson:"timestamp"`
	Details   BookingActivity `bson:"details"`
}

// BookingActivity carries the booking fields copied into an activity
type BookingActivity struct {
	BookingID    int64   `bson:"booking_id"`
	FlightID     int64   `bson:"flight_id"`
	FlightCode   string  `bson:"flight_code"`
	Origin       string  `bson:"origin"`
	Destination  string  `bson:"destination"`
	SeatsBooked  int     `bson:"seats_booked"`
	TotalCost    float64 `bson:"total_cost"`
	BookingClass string  `bson:"booking_class"`
}

// ActionCompletedBooking marks a booking activity
const ActionCompletedBooking = "completed_booking"
