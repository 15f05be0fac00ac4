package mocks

import (
	"context"
	"time"

	"flightsync-service/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockFlightPriceRepository is a mock implementation of FlightPriceRepository
type MockFlightPriceRepository struct {
	mock.Mock
}

func (m *MockFlightPriceRepository) GetFlightPrice(ctx context.Context, flightID int64) (*entity.FlightPrice, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FlightPrice), args.Error(1)
}

func (m *MockFlightPriceRepository) GetFlightPriceByPriceID(ctx context.Context, priceID int64) (*entity.FlightPrice, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FlightPrice), args.Error(1)
}

func (m *MockFlightPriceRepository) ListFlightPrices(ctx context.Context) ([]*entity.FlightPrice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FlightPrice), args.Error(1)
}

func (m *MockFlightPriceRepository) ListScheduledFlightIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockFlightPriceRepository) UpdatePrice(ctx context.Context, flightID int64, surge, currentPrice decimal.Decimal, updatedAt time.Time) error {
	args := m.Called(ctx, flightID, surge, currentPrice, updatedAt)
	return args.Error(0)
}

func (m *MockFlightPriceRepository) GetBookingDetail(ctx context.Context, bookingID int64) (*entity.BookingDetail, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.BookingDetail), args.Error(1)
}

func (m *MockFlightPriceRepository) GetReviewDetail(ctx context.Context, reviewID int64) (*entity.ReviewDetail, error) {
	args := m.Called(ctx, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ReviewDetail), args.Error(1)
}

func (m *MockFlightPriceRepository) ListReviewDetails(ctx context.Context) ([]*entity.ReviewDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ReviewDetail), args.Error(1)
}

// MockPriceHistoryRepository is a mock implementation of PriceHistoryRepository
type MockPriceHistoryRepository struct {
	mock.Mock
}

func (m *MockPriceHistoryRepository) AppendSnapshot(ctx context.Context, header entity.PriceHistoryHeader, snapshot entity.PriceSnapshot) (bool, error) {
	args := m.Called(ctx, header, snapshot)
	return args.Bool(0), args.Error(1)
}

func (m *MockPriceHistoryRepository) Summarize(ctx context.Context, flightID int64, since time.Time) (*entity.PriceHistorySummary, error) {
	args := m.Called(ctx, flightID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PriceHistorySummary), args.Error(1)
}

func (m *MockPriceHistoryRepository) AverageOccupancy(ctx context.Context, flightID int64, since time.Time) (*float64, error) {
	args := m.Called(ctx, flightID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockPriceHistoryRepository) ListSnapshots(ctx context.Context, flightID int64, since time.Time) ([]entity.PriceSnapshot, error) {
	args := m.Called(ctx, flightID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PriceSnapshot), args.Error(1)
}

// MockCustomerBehaviorRepository is a mock implementation of CustomerBehaviorRepository
type MockCustomerBehaviorRepository struct {
	mock.Mock
}

func (m *MockCustomerBehaviorRepository) RecordBooking(ctx context.Context, customerID int64, sessionID string, activity entity.BehaviorActivity, at time.Time) error {
	args := m.Called(ctx, customerID, sessionID, activity, at)
	return args.Error(0)
}

func (m *MockCustomerBehaviorRepository) ClearAbandonedCart(ctx context.Context, customerID, flightID int64) error {
	args := m.Called(ctx, customerID, flightID)
	return args.Error(0)
}

// MockReviewDocumentRepository is a mock implementation of ReviewDocumentRepository
type MockReviewDocumentRepository struct {
	mock.Mock
}

func (m *MockReviewDocumentRepository) Replace(ctx context.Context, doc entity.ReviewDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// MockInsightRepository is a mock implementation of InsightRepository
type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) Replace(ctx context.Context, insight *entity.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightRepository) FindByFlightID(ctx context.Context, flightID int64) (*entity.Insight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Insight), args.Error(1)
}

// MockInsightCache is a mock implementation of InsightCache
type MockInsightCache struct {
	mock.Mock
}

func (m *MockInsightCache) Get(ctx context.Context, flightID int64) (*entity.Insight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Insight), args.Error(1)
}

func (m *MockInsightCache) Set(ctx context.Context, insight *entity.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightCache) Delete(ctx context.Context, flightID int64) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}
