package usecase

import (
	"fmt"
	"strings"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/utils"
)

func historyHeader(fp *entity.FlightPrice) entity.PriceHistoryHeader {
	return entity.PriceHistoryHeader{
		FlightID:   fp.Flight.ID,
		FlightCode: fp.Flight.Code,
		Route: entity.Route{
			Origin:      fp.Flight.Origin,
			Destination: fp.Flight.Destination,
		},
	}
}

// buildPriceSnapshot captures the row's current price and seat state
func buildPriceSnapshot(fp *entity.FlightPrice, source string, at time.Time) entity.PriceSnapshot {
	return entity.PriceSnapshot{
		Timestamp:       at,
		BasePrice:       fp.Price.BasePrice.InexactFloat64(),
		CurrentPrice:    fp.Price.CurrentPrice.InexactFloat64(),
		SurgeMultiplier: fp.Price.SurgeMultiplier.InexactFloat64(),
		AvailableSeats:  fp.Flight.AvailableSeats,
		TotalSeats:      fp.Flight.TotalSeats,
		OccupancyRate:   fp.Flight.OccupancyRate().Round(4).InexactFloat64(),
		TriggeredBy:     source,
	}
}

// priceEventKey identifies one version of a price row
func priceEventKey(p entity.Price) string {
	return fmt.Sprintf("price:%d:%d", p.ID, p.LastUpdated.UnixNano())
}

func bookingSessionID(customerID int64, at time.Time) string {
	return fmt.Sprintf("sys_%d_%s", customerID, at.Format(utils.SESSION_DATE_LAYOUT))
}

func buildBookingActivity(b *entity.BookingDetail, at time.Time) entity.BehaviorActivity {
	return entity.BehaviorActivity{
		Action:    entity.ActionCompletedBooking,
		Timestamp: at,
		Details: entity.BookingActivity{
			BookingID:    b.BookingID,
			FlightID:     b.FlightID,
			FlightCode:   b.FlightCode,
			Origin:       b.Route.Origin,
			Destination:  b.Route.Destination,
			SeatsBooked:  b.SeatsBooked,
			TotalCost:    b.TotalCost.InexactFloat64(),
			BookingClass: b.BookingClass,
		},
	}
}

func buildReviewDocument(r *entity.ReviewDetail, at time.Time) entity.ReviewDocument {
	return entity.ReviewDocument{
		FlightID:   r.FlightID,
		CustomerID: r.CustomerID,
		BookingID:  r.BookingID,
		Rating:     r.Rating,
		Review: entity.ReviewText{
			Title:   r.Title,
			Comment: r.Comment,
		},
		CategoryRatings: entity.CategoryRatings{
			Meal:    r.MealRating,
			Service: r.ServiceRating,
			Comfort: r.ComfortRating,
		},
		FlightDetails: entity.FlightDetails{
			FlightCode: r.FlightCode,
			Route:      fmt.Sprintf("%s → %s", r.Route.Origin, r.Route.Destination),
		},
		HelpfulVotes: r.HelpfulCount,
		Status:       strings.ToLower(r.Status),
		CreatedAt:    r.ReviewDate,
		UpdatedAt:    at,
	}
}
