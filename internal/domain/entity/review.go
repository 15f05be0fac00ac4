package entity

import "time"

// ReviewDetail is the review+flight+customer join read by the sync path
type ReviewDetail struct {
	ReviewID      int64
	FlightID      int64
	FlightCode    string
	Route         Route
	CustomerID    int64
	CustomerName  string
	BookingID     int64
	Rating        int
	Title         string
	Comment       string
	MealRating    *int
	ServiceRating *int
	ComfortRating *int
	HelpfulCount  int
	Status        string
	ReviewDate    time.Time
}

// ReviewDocument is the denormalized review keyed by (customer, booking).
// It is always written as a full replace.
type ReviewDocument struct {
	FlightID        int64           `bson:"flight_id"`
	CustomerID      int64           `bson:"customer_id"`
	BookingID       int64           `bson:"booking_id"`
	Rating          int             `bson:"rating"`
	Review          ReviewText      `bson:"review"`
	CategoryRatings CategoryRatings `bson:"category_ratings"`
	FlightDetails   FlightDetails   `bson:"flight_details"`
	HelpfulVotes    int             `bson:"helpful_votes"`
	Status          string          `bson:"status"`
	CreatedAt       time.Time       `bson:"created_at"`
	UpdatedAt       time.Time       `bson:"updated_at"`
}

type ReviewText struct {
	Title   string `bson:"title"`
	Comment string `bson:"comment"`
}

type CategoryRatings struct {
	Meal    *int `bson:"meal"`
	Service *int `bson:"service"`
	Comfort *int `bson:"comfort"`
}

type FlightDetails struct {
	FlightCode string `bson:"flight_code"`
	Route      string `bson:"route"`
}
