package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository/mocks"
	"flightsync-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var syncNow = time.Date(2026, 3, 8, 14, 30, 0, 0, time.UTC)

type listRouter []SyncHandler

func (r *listRouter) Register(h SyncHandler) { *r = append(*r, h) }

func (r *listRouter) GetHandler(t entity.EntityType) SyncHandler {
	for _, h := range *r {
		if h.CanHandle(t) {
			return h
		}
	}
	return nil
}

func priceEvent(priceID int64) entity.ChangeEvent {
	return entity.ChangeEvent{
		EntityType: entity.EntityPrice,
		Table:      "prices",
		Operation:  entity.OperationUpdate,
		RecordID:   priceID,
		EmittedAt:  syncNow,
	}
}

func TestPriceSyncHandler_AppendsSnapshot(t *testing.T) {
	flights := new(mocks.MockFlightPriceRepository)
	history := new(mocks.MockPriceHistoryRepository)
	h := NewPriceSyncHandler(flights, history, logger.NewNop())
	h.now = func() time.Time { return syncNow }
	ctx := context.Background()

	fp := flightPriceWithID(1)
	fp.Price.LastUpdated = syncNow.Add(-time.Minute)
	flights.On("GetFlightPriceByPriceID", ctx, int64(101)).Return(fp, nil)
	history.On("AppendSnapshot", ctx, entity.PriceHistoryHeader{
		FlightID:   1,
		FlightCode: "FS101",
		Route:      entity.Route{Origin: "DEL", Destination: "BOM"},
	}, entity.PriceSnapshot{
		Timestamp:       syncNow,
		BasePrice:       5000,
		CurrentPrice:    5000,
		SurgeMultiplier: 1,
		AvailableSeats:  20,
		TotalSeats:      200,
		OccupancyRate:   0.9,
		TriggeredBy:     entity.SourceDatabaseTrigger,
		EventKey:        priceEventKey(fp.Price),
	}).Return(true, nil)

	require.NoError(t, h.Handle(ctx, priceEvent(101)))
	history.AssertExpectations(t)
}

func TestPriceSyncHandler_RedeliveredEventIsDeduplicated(t *testing.T) {
	flights := new(mocks.MockFlightPriceRepository)
	history := new(mocks.MockPriceHistoryRepository)
	h := NewPriceSyncHandler(flights, history, logger.NewNop())
	ctx := context.Background()

	fp := flightPriceWithID(1)
	fp.Price.LastUpdated = syncNow
	flights.On("GetFlightPriceByPriceID", ctx, int64(101)).Return(fp, nil)

	var keys []string
	record := func(args mock.Arguments) {
		keys = append(keys, args.Get(2).(entity.PriceSnapshot).EventKey)
	}
	history.On("AppendSnapshot", ctx, mock.Anything, mock.Anything).Return(true, nil).Once().Run(record)
	history.On("AppendSnapshot", ctx, mock.Anything, mock.Anything).Return(false, nil).Once().Run(record)

	require.NoError(t, h.Handle(ctx, priceEvent(101)))
	require.NoError(t, h.Handle(ctx, priceEvent(101)))

	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, "price:101:"+strconv.FormatInt(syncNow.UnixNano(), 10), keys[0])
	history.AssertExpectations(t)
}

func TestPriceEventKey_ChangesWithRowVersion(t *testing.T) {
	p := entity.Price{ID: 7, LastUpdated: syncNow}
	later := p
	later.LastUpdated = syncNow.Add(time.Second)

	assert.NotEqual(t, priceEventKey(p), priceEventKey(later))
}

func TestBookingSyncHandler(t *testing.T) {
	flights := new(mocks.MockFlightPriceRepository)
	behavior := new(mocks.MockCustomerBehaviorRepository)
	h := NewBookingSyncHandler(flights, behavior, logger.NewNop())
	h.now = func() time.Time { return syncNow }
	ctx := context.Background()

	flights.On("GetBookingDetail", ctx, int64(55)).Return(&entity.BookingDetail{
		BookingID:    55,
		CustomerID:   9,
		FlightID:     1,
		FlightCode:   "FS101",
		Route:        entity.Route{Origin: "DEL", Destination: "BOM"},
		SeatsBooked:  2,
		TotalCost:    decimal.RequireFromString("16500.00"),
		BookingClass: "ECONOMY",
		Status:       "CONFIRMED",
	}, nil)
	behavior.On("RecordBooking", ctx, int64(9), "sys_9_20260308", entity.BehaviorActivity{
		Action:    entity.ActionCompletedBooking,
		Timestamp: syncNow,
		Details: entity.BookingActivity{
			BookingID:    55,
			FlightID:     1,
			FlightCode:   "FS101",
			Origin:       "DEL",
			Destination:  "BOM",
			SeatsBooked:  2,
			TotalCost:    16500,
			BookingClass: "ECONOMY",
		},
	}, syncNow).Return(nil)
	behavior.On("ClearAbandonedCart", ctx, int64(9), int64(1)).Return(nil)

	err := h.Handle(ctx, entity.ChangeEvent{EntityType: entity.EntityBooking, Table: "bookings", Operation: entity.OperationInsert, RecordID: 55})

	require.NoError(t, err)
	behavior.AssertExpectations(t)
}

func TestBookingSyncHandler_RecordFailureSkipsCartCleanup(t *testing.T) {
	flights := new(mocks.MockFlightPriceRepository)
	behavior := new(mocks.MockCustomerBehaviorRepository)
	h := NewBookingSyncHandler(flights, behavior, logger.NewNop())
	ctx := context.Background()

	flights.On("GetBookingDetail", ctx, int64(55)).Return(&entity.BookingDetail{BookingID: 55, CustomerID: 9, FlightID: 1}, nil)
	behavior.On("RecordBooking", ctx, int64(9), mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timeout"))

	err := h.Handle(ctx, entity.ChangeEvent{EntityType: entity.EntityBooking, RecordID: 55})

	assert.Error(t, err)
	behavior.AssertNotCalled(t, "ClearAbandonedCart", mock.Anything, mock.Anything, mock.Anything)
}

func sampleReview() *entity.ReviewDetail {
	meal := 4
	return &entity.ReviewDetail{
		ReviewID:     3,
		FlightID:     1,
		FlightCode:   "FS101",
		Route:        entity.Route{Origin: "DEL", Destination: "BOM"},
		CustomerID:   9,
		CustomerName: "A. Traveller",
		BookingID:    55,
		Rating:       5,
		Title:        "Smooth",
		Comment:      "On time and friendly crew",
		MealRating:   &meal,
		HelpfulCount: 2,
		Status:       "PUBLISHED",
		ReviewDate:   syncNow.Add(-48 * time.Hour),
	}
}

func TestReviewSyncHandler_ReplaceIsKeyedAndRepeatable(t *testing.T) {
	flights := new(mocks.MockFlightPriceRepository)
	reviews := new(mocks.MockReviewDocumentRepository)
	h := NewReviewSyncHandler(flights, reviews, logger.NewNop())
	h.now = func() time.Time { return syncNow }
	ctx := context.Background()

	flights.On("GetReviewDetail", ctx, int64(3)).Return(sampleReview(), nil)

	var docs []entity.ReviewDocument
	reviews.On("Replace", ctx, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		docs = append(docs, args.Get(1).(entity.ReviewDocument))
	})

	evt := entity.ChangeEvent{EntityType: entity.EntityReview, Table: "reviews", Operation: entity.OperationUpdate, RecordID: 3}
	require.NoError(t, h.Handle(ctx, evt))
	require.NoError(t, h.Handle(ctx, evt))

	require.Len(t, docs, 2)
	assert.Equal(t, docs[0], docs[1])

	doc := docs[0]
	assert.Equal(t, int64(9), doc.CustomerID)
	assert.Equal(t, int64(55), doc.BookingID)
	assert.Equal(t, "published", doc.Status)
	assert.Equal(t, "DEL → BOM", doc.FlightDetails.Route)
	assert.Equal(t, "Smooth", doc.Review.Title)
	require.NotNil(t, doc.CategoryRatings.Meal)
	assert.Equal(t, 4, *doc.CategoryRatings.Meal)
	assert.Nil(t, doc.CategoryRatings.Service)
	assert.Equal(t, syncNow.Add(-48*time.Hour), doc.CreatedAt)
	assert.Equal(t, syncNow, doc.UpdatedAt)
}

type dispatcherFixture struct {
	flights    *mocks.MockFlightPriceRepository
	history    *mocks.MockPriceHistoryRepository
	reviews    *mocks.MockReviewDocumentRepository
	dispatcher *SyncDispatcher
}

func newDispatcherFixture() (*dispatcherFixture, *SyncDispatcher) {
	f := &dispatcherFixture{
		flights: new(mocks.MockFlightPriceRepository),
		history: new(mocks.MockPriceHistoryRepository),
		reviews: new(mocks.MockReviewDocumentRepository),
	}
	router := &listRouter{}
	router.Register(NewPriceSyncHandler(f.flights, f.history, logger.NewNop()))
	router.Register(NewReviewSyncHandler(f.flights, f.reviews, logger.NewNop()))
	f.dispatcher = NewSyncDispatcher(router, newTestMetrics(), logger.NewNop())
	return f, f.dispatcher
}

func TestSyncDispatcher_RoutesByEntity(t *testing.T) {
	f, d := newDispatcherFixture()
	ctx := context.Background()

	f.flights.On("GetReviewDetail", ctx, int64(3)).Return(sampleReview(), nil)
	f.reviews.On("Replace", ctx, mock.Anything).Return(nil)

	err := d.Dispatch(ctx, entity.ChangeEvent{EntityType: entity.EntityReview, Table: "reviews", RecordID: 3})

	require.NoError(t, err)
	f.reviews.AssertExpectations(t)
	f.history.AssertNotCalled(t, "AppendSnapshot", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.ChangeEvents.WithLabelValues("review", ResultApplied)))
}

func TestSyncDispatcher_NoHandlerIsSkipped(t *testing.T) {
	_, d := newDispatcherFixture()

	// bookings have no registered handler in this fixture
	err := d.Dispatch(context.Background(), entity.ChangeEvent{EntityType: entity.EntityBooking, Table: "bookings", RecordID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.ChangeEvents.WithLabelValues("booking", ResultSkipped)))
}

func TestSyncDispatcher_UntrackedTableIsSkipped(t *testing.T) {
	_, d := newDispatcherFixture()

	err := d.Dispatch(context.Background(), entity.ChangeEvent{Table: "payments", RecordID: 1})

	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.ChangeEvents.WithLabelValues("untracked", ResultSkipped)))
}

func TestSyncDispatcher_MissingSourceRowIsSkipped(t *testing.T) {
	f, d := newDispatcherFixture()
	ctx := context.Background()

	f.flights.On("GetFlightPriceByPriceID", ctx, int64(404)).Return(nil, entity.ErrNotFound)

	evt := priceEvent(404)
	evt.Operation = entity.OperationDelete
	err := d.Dispatch(ctx, evt)

	assert.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.ChangeEvents.WithLabelValues("price", ResultSkipped)))
}

func TestSyncDispatcher_HandlerFailure(t *testing.T) {
	f, d := newDispatcherFixture()
	ctx := context.Background()

	f.flights.On("GetFlightPriceByPriceID", ctx, int64(101)).Return(flightPriceWithID(1), nil)
	f.history.On("AppendSnapshot", ctx, mock.Anything, mock.Anything).Return(false, errors.New("no primary"))

	err := d.Dispatch(ctx, priceEvent(101))

	assert.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.ChangeEvents.WithLabelValues("price", ResultFailed)))
}
