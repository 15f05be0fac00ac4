package repository

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const flightPriceColumns = "flights.flight_id, flights.flight_code, flights.origin, flights.destination, " +
	"flights.dep_time, flights.total_seats, flights.available_seats, flights.status, " +
	"prices.price_id, prices.base_price, prices.current_price, prices.surge_multiplier, prices.last_updated"

const reviewColumns = "reviews.review_id, reviews.flight_id, flights.flight_code, flights.origin, flights.destination, " +
	"reviews.cust_id, customers.fname, customers.lname, reviews.booking_id, reviews.rating, reviews.title, " +
	"reviews.comment, reviews.meal_rating, reviews.service_rating, reviews.comfort_rating, " +
	"reviews.helpful_count, reviews.status, reviews.review_date"

// GormFlightPriceRepository implements FlightPriceRepository over the
// relational store
type GormFlightPriceRepository struct {
	db *gorm.DB
}

// NewGormFlightPriceRepository creates a new GORM flight/price repository
func NewGormFlightPriceRepository(db *gorm.DB) repository.FlightPriceRepository {
	return &GormFlightPriceRepository{
		db: db,
	}
}

type flightPriceRow struct {
	FlightID        int64
	FlightCode      string
	Origin          string
	Destination     string
	DepTime         time.Time
	TotalSeats      int
	AvailableSeats  int
	Status          string
	PriceID         int64
	BasePrice       decimal.Decimal
	CurrentPrice    decimal.Decimal
	SurgeMultiplier decimal.Decimal
	LastUpdated     time.Time
}

func (row flightPriceRow) toEntity() *entity.FlightPrice {
	return &entity.FlightPrice{
		Flight: entity.Flight{
			ID:             row.FlightID,
			Code:           row.FlightCode,
			Origin:         row.Origin,
			Destination:    row.Destination,
			DepartureTime:  row.DepTime,
			TotalSeats:     row.TotalSeats,
			AvailableSeats: row.AvailableSeats,
			Status:         entity.FlightStatus(row.Status),
		},
		Price: entity.Price{
			ID:              row.PriceID,
			FlightID:        row.FlightID,
			BasePrice:       row.BasePrice,
			CurrentPrice:    row.CurrentPrice,
			SurgeMultiplier: row.SurgeMultiplier,
			LastUpdated:     row.LastUpdated,
		},
	}
}

type bookingRow struct {
	BookingID     int64
	CustID        int64
	Email         string
	FlightID      int64
	FlightCode    string
	Origin        string
	Destination   string
	SeatsBooked   int
	TotalCost     decimal.Decimal
	BookingClass  string
	BookingStatus string
}

type reviewRow struct {
	ReviewID      int64
	FlightID      int64
	FlightCode    string
	Origin        string
	Destination   string
	CustID        int64
	Fname         string
	Lname         string
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

func (row reviewRow) toEntity() *entity.ReviewDetail {
	return &entity.ReviewDetail{
		ReviewID:      row.ReviewID,
		FlightID:      row.FlightID,
		FlightCode:    row.FlightCode,
		Route:         entity.Route{Origin: row.Origin, Destination: row.Destination},
		CustomerID:    row.CustID,
		CustomerName:  row.Fname + " " + row.Lname,
		BookingID:     row.BookingID,
		Rating:        row.Rating,
		Title:         row.Title,
		Comment:       row.Comment,
		MealRating:    row.MealRating,
		ServiceRating: row.ServiceRating,
		ComfortRating: row.ComfortRating,
		HelpfulCount:  row.HelpfulCount,
		Status:        row.Status,
		ReviewDate:    row.ReviewDate,
	}
}

func (r *GormFlightPriceRepository) flightPrices(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&Flights{}).
		Select(flightPriceColumns).
		Joins("JOIN prices ON prices.flight_id = flights.flight_id")
}

func (r *GormFlightPriceRepository) findFlightPrice(ctx context.Context, where string, id int64) (*entity.FlightPrice, error) {
	var row flightPriceRow
	result := r.flightPrices(ctx).Where(where, id).Limit(1).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, entity.ErrNotFound
	}
	return row.toEntity(), nil
}

// GetFlightPrice reads the flight+price join by flight id
func (r *GormFlightPriceRepository) GetFlightPrice(ctx context.Context, flightID int64) (*entity.FlightPrice, error) {
	return r.findFlightPrice(ctx, "flights.flight_id = ?", flightID)
}

// GetFlightPriceByPriceID reads the flight+price join by price id
func (r *GormFlightPriceRepository) GetFlightPriceByPriceID(ctx context.Context, priceID int64) (*entity.FlightPrice, error) {
	return r.findFlightPrice(ctx, "prices.price_id = ?", priceID)
}

// ListFlightPrices reads every flight that has a price row
func (r *GormFlightPriceRepository) ListFlightPrices(ctx context.Context) ([]*entity.FlightPrice, error) {
	var rows []flightPriceRow
	if err := r.flightPrices(ctx).Order("prices.price_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	prices := make([]*entity.FlightPrice, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, row.toEntity())
	}
	return prices, nil
}

// ListScheduledFlightIDs returns the ids of flights still open for sale
func (r *GormFlightPriceRepository) ListScheduledFlightIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&Flights{}).
		Where("status = ?", string(entity.FlightScheduled)).
		Order("flight_id").
		Pluck("flight_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdatePrice writes the new surge and price for a flight
func (r *GormFlightPriceRepository) UpdatePrice(ctx context.Context, flightID int64, surge, currentPrice decimal.Decimal, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&Prices{}).
		Where("flight_id = ?", flightID).
		Updates(map[string]interface{}{
			"surge_multiplier": surge,
			"current_price":    currentPrice,
			"last_updated":     updatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update price: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// GetBookingDetail reads the booking+flight+customer join
func (r *GormFlightPriceRepository) GetBookingDetail(ctx context.Context, bookingID int64) (*entity.BookingDetail, error) {
	var row bookingRow
	result := r.db.WithContext(ctx).Model(&Bookings{}).
		Select("bookings.booking_id, bookings.cust_id, customers.email, bookings.flight_id, " +
			"flights.flight_code, flights.origin, flights.destination, bookings.seats_booked, " +
			"bookings.total_cost, bookings.booking_class, bookings.booking_status").
		Joins("JOIN flights ON flights.flight_id = bookings.flight_id").
		Joins("JOIN customers ON customers.cust_id = bookings.cust_id").
		Where("bookings.booking_id = ?", bookingID).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, entity.ErrNotFound
	}

	return &entity.BookingDetail{
		BookingID:     row.BookingID,
		CustomerID:    row.CustID,
		CustomerEmail: row.Email,
		FlightID:      row.FlightID,
		FlightCode:    row.FlightCode,
		Route:         entity.Route{Origin: row.Origin, Destination: row.Destination},
		SeatsBooked:   row.SeatsBooked,
		TotalCost:     row.TotalCost,
		BookingClass:  row.BookingClass,
		Status:        row.BookingStatus,
	}, nil
}

func (r *GormFlightPriceRepository) reviews(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&Reviews{}).
		Select(reviewColumns).
		Joins("JOIN flights ON flights.flight_id = reviews.flight_id").
		Joins("JOIN customers ON customers.cust_id = reviews.cust_id")
}

// GetReviewDetail reads the review+flight+customer join
func (r *GormFlightPriceRepository) GetReviewDetail(ctx context.Context, reviewID int64) (*entity.ReviewDetail, error) {
	var row reviewRow
	result := r.reviews(ctx).Where("reviews.review_id = ?", reviewID).Limit(1).Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, entity.ErrNotFound
	}
	return row.toEntity(), nil
}

// ListReviewDetails reads every review with its flight and customer
func (r *GormFlightPriceRepository) ListReviewDetails(ctx context.Context) ([]*entity.ReviewDetail, error) {
	var rows []reviewRow
	if err := r.reviews(ctx).Order("reviews.review_id").Scan(&rows).Error; err != nil {
		return nil, err
	}

	details := make([]*entity.ReviewDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toEntity())
	}
	return details, nil
}
