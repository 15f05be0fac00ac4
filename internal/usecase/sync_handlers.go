package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
)

// PriceSyncHandler appends a snapshot to the flight's price history for every
// price row change. Each snapshot carries the row version as its event key,
// so a redelivered notification does not append twice.
type PriceSyncHandler struct {
	flightRepo  repository.FlightPriceRepository
	historyRepo repository.PriceHistoryRepository
	logger      logger.Logger
	now         func() time.Time
}

// NewPriceSyncHandler creates a new price sync handler
func NewPriceSyncHandler(
	flightRepo repository.FlightPriceRepository,
	historyRepo repository.PriceHistoryRepository,
	logger logger.Logger,
) *PriceSyncHandler {
	return &PriceSyncHandler{
		flightRepo:  flightRepo,
		historyRepo: historyRepo,
		logger:      logger.With("handler", "price"),
		now:         time.Now,
	}
}

func (h *PriceSyncHandler) CanHandle(entityType entity.EntityType) bool {
	return entityType == entity.EntityPrice
}

func (h *PriceSyncHandler) Handle(ctx context.Context, evt entity.ChangeEvent) error {
	fp, err := h.flightRepo.GetFlightPriceByPriceID(ctx, evt.RecordID)
	if err != nil {
		return fmt.Errorf("load price %d: %w", evt.RecordID, err)
	}

	snapshot := buildPriceSnapshot(fp, entity.SourceDatabaseTrigger, h.now())
	snapshot.EventKey = priceEventKey(fp.Price)

	applied, err := h.historyRepo.AppendSnapshot(ctx, historyHeader(fp), snapshot)
	if err != nil {
		return fmt.Errorf("append snapshot for flight %d: %w", fp.Flight.ID, err)
	}
	if !applied {
		h.logger.Debug("Snapshot already applied", "flightID", fp.Flight.ID, "eventKey", snapshot.EventKey)
	}
	return nil
}

// BookingSyncHandler records a completed booking in the customer's daily
// session and clears any abandoned cart for the same flight.
type BookingSyncHandler struct {
	flightRepo   repository.FlightPriceRepository
	behaviorRepo repository.CustomerBehaviorRepository
	logger       logger.Logger
	now          func() time.Time
}

// NewBookingSyncHandler creates a new booking sync handler
func NewBookingSyncHandler(
	flightRepo repository.FlightPriceRepository,
	behaviorRepo repository.CustomerBehaviorRepository,
	logger logger.Logger,
) *BookingSyncHandler {
	return &BookingSyncHandler{
		flightRepo:   flightRepo,
		behaviorRepo: behaviorRepo,
		logger:       logger.With("handler", "booking"),
		now:          time.Now,
	}
}

func (h *BookingSyncHandler) CanHandle(entityType entity.EntityType) bool {
	return entityType == entity.EntityBooking
}

func (h *BookingSyncHandler) Handle(ctx context.Context, evt entity.ChangeEvent) error {
	booking, err := h.flightRepo.GetBookingDetail(ctx, evt.RecordID)
	if err != nil {
		return fmt.Errorf("load booking %d: %w", evt.RecordID, err)
	}

	now := h.now()
	sessionID := bookingSessionID(booking.CustomerID, now)
	if err := h.behaviorRepo.RecordBooking(ctx, booking.CustomerID, sessionID, buildBookingActivity(booking, now), now); err != nil {
		return fmt.Errorf("record booking %d: %w", booking.BookingID, err)
	}

	if err := h.behaviorRepo.ClearAbandonedCart(ctx, booking.CustomerID, booking.FlightID); err != nil {
		return fmt.Errorf("clear abandoned cart for customer %d: %w", booking.CustomerID, err)
	}
	return nil
}

// ReviewSyncHandler replaces the denormalized review document
type ReviewSyncHandler struct {
	flightRepo repository.FlightPriceRepository
	reviewRepo repository.ReviewDocumentRepository
	logger     logger.Logger
	now        func() time.Time
}

// NewReviewSyncHandler creates a new review sync handler
func NewReviewSyncHandler(
	flightRepo repository.FlightPriceRepository,
	reviewRepo repository.ReviewDocumentRepository,
	logger logger.Logger,
) *ReviewSyncHandler {
	return &ReviewSyncHandler{
		flightRepo: flightRepo,
		reviewRepo: reviewRepo,
		logger:     logger.With("handler", "review"),
		now:        time.Now,
	}
}

func (h *ReviewSyncHandler) CanHandle(entityType entity.EntityType) bool {
	return entityType == entity.EntityReview
}

func (h *ReviewSyncHandler) Handle(ctx context.Context, evt entity.ChangeEvent) error {
	review, err := h.flightRepo.GetReviewDetail(ctx, evt.RecordID)
	if err != nil {
		return fmt.Errorf("load review %d: %w", evt.RecordID, err)
	}

	if err := h.reviewRepo.Replace(ctx, buildReviewDocument(review, h.now())); err != nil {
		return fmt.Errorf("replace review document %d: %w", review.ReviewID, err)
	}
	return nil
}

// isMissingSource reports whether the changed row no longer exists, which is
// what a delete notification reads back.
func isMissingSource(err error) bool {
	return errors.Is(err, entity.ErrNotFound)
}
