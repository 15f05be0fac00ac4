package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// Flights GORM model for database mapping
type Flights struct {
	FlightID       int64     `gorm:"column:flight_id;primaryKey"`
	FlightCode     string    `gorm:"column:flight_code"`
	Origin         string    `gorm:"column:origin"`
	Destination    string    `gorm:"column:destination"`
	DepTime        time.Time `gorm:"column:dep_time"`
	TotalSeats     int       `gorm:"column:total_seats"`
	AvailableSeats int       `gorm:"column:available_seats"`
	Status         string    `gorm:"column:status;index"`
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

// Prices GORM model, one row per flight
type Prices struct {
	PriceID         int64           `gorm:"column:price_id;primaryKey"`
	FlightID        int64           `gorm:"column:flight_id;uniqueIndex"`
	BasePrice       decimal.Decimal `gorm:"column:base_price;type:numeric(10,2)"`
	CurrentPrice    decimal.Decimal `gorm:"column:current_price;type:numeric(10,2)"`
	SurgeMultiplier decimal.Decimal `gorm:"column:surge_multiplier;type:numeric(4,2)"`
	LastUpdated     time.Time       `gorm:"column:last_updated"`
}

func (Prices) TableName() string {
	return "prices"
}

// Customers GORM model
type Customers struct {
	CustID int64  `gorm:"column:cust_id;primaryKey"`
	Fname  string `gorm:"column:fname"`
	Lname  string `gorm:"column:lname"`
	Email  string `gorm:"column:email"`
}

func (Customers) TableName() string {
	return "customers"
}

// Bookings GORM model
type Bookings struct {
	BookingID     int64           `gorm:"column:booking_id;primaryKey"`
	CustID        int64           `gorm:"column:cust_id"`
	FlightID      int64           `gorm:"column:flight_id"`
	SeatsBooked   int             `gorm:"column:seats_booked"`
	TotalCost     decimal.Decimal `gorm:"column:total_cost;type:numeric(10,2)"`
	BookingClass  string          `gorm:"column:booking_class"`
	BookingStatus string          `gorm:"column:booking_status"`
}

func (Bookings) TableName() string {
	return "bookings"
}

// Reviews GORM model
type Reviews struct {
	ReviewID      int64     `gorm:"column:review_id;primaryKey"`
	FlightID      int64     `gorm:"column:flight_id"`
	CustID        int64     `gorm:"column:cust_id"`
	BookingID     int64     `gorm:"column:booking_id"`
	Rating        int       `gorm:"column:rating"`
	Title         string    `gorm:"column:title"`
	Comment       string    `gorm:"column:comment"`
	MealRating    *int      `gorm:"column:meal_rating"`
	ServiceRating *int      `gorm:"column:service_rating"`
	ComfortRating *int      `gorm:"column:comfort_rating"`
	HelpfulCount  int       `gorm:"column:helpful_count"`
	Status        string    `gorm:"column:status"`
	ReviewDate    time.Time `gorm:"column:review_date"`
}

func (Reviews) TableName() string {
	return "reviews"
}
