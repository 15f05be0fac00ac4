package router

import (
	"fmt"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/usecase"
	"flightsync-service/pkg/logger"
)

// EventRouter routes change events to the handler registered for their
// entity type. Handlers are consulted in registration order.
type EventRouter struct {
	handlers []usecase.SyncHandler
	logger   logger.Logger
}

// NewEventRouter creates a new event router
func NewEventRouter(logger logger.Logger) *EventRouter {
	return &EventRouter{
		handlers: make([]usecase.SyncHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler
func (r *EventRouter) Register(handler usecase.SyncHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered handler", "handler", fmt.Sprintf("%T", handler))
}

// GetHandler returns the first handler that owns entityType, or nil
func (r *EventRouter) GetHandler(entityType entity.EntityType) usecase.SyncHandler {
	if entityType == "" {
		return nil
	}
	for _, handler := range r.handlers {
		if handler.CanHandle(entityType) {
			return handler
		}
	}
	return nil
}
