package repository

import (
	"context"
	"time"

	"flightsync-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// FlightPriceRepository is the relational store holding flights, prices,
// bookings and reviews. Missing rows are reported as entity.ErrNotFound.
type FlightPriceRepository interface {
	GetFlightPrice(ctx context.Context, flightID int64) (*entity.FlightPrice, error)
	GetFlightPriceByPriceID(ctx context.Context, priceID int64) (*entity.FlightPrice, error)
	ListFlightPrices(ctx context.Context) ([]*entity.FlightPrice, error)
	ListScheduledFlightIDs(ctx context.Context) ([]int64, error)
	UpdatePrice(ctx context.Context, flightID int64, surge, currentPrice decimal.Decimal, updatedAt time.Time) error
	GetBookingDetail(ctx context.Context, bookingID int64) (*entity.BookingDetail, error)
	GetReviewDetail(ctx context.Context, reviewID int64) (*entity.ReviewDetail, error)
	ListReviewDetails(ctx context.Context) ([]*entity.ReviewDetail, error)
}
