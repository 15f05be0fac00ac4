package router

import (
	"context"
	"testing"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type stubHandler struct {
	owns entity.EntityType
}

func (h *stubHandler) CanHandle(t entity.EntityType) bool { return t == h.owns }

func (h *stubHandler) Handle(context.Context, entity.ChangeEvent) error { return nil }

var _ usecase.EventRouter = (*EventRouter)(nil)

func TestEventRouter_GetHandler(t *testing.T) {
	price := &stubHandler{owns: entity.EntityPrice}
	review := &stubHandler{owns: entity.EntityReview}

	r := NewEventRouter(logger.NewNop())
	r.Register(price)
	r.Register(review)

	assert.Same(t, price, r.GetHandler(entity.EntityPrice))
	assert.Same(t, review, r.GetHandler(entity.EntityReview))
	assert.Nil(t, r.GetHandler(entity.EntityBooking))
	assert.Nil(t, r.GetHandler(""))
}
