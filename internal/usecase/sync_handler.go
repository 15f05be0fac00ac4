package usecase

import (
	"context"

	"flightsync-service/internal/domain/entity"
)

// SyncHandler applies one kind of change event to the document store
type SyncHandler interface {
	// CanHandle determines if this handler owns the given entity type
	CanHandle(entityType entity.EntityType) bool

	// Handle reads the changed row and writes its document form
	Handle(ctx context.Context, evt entity.ChangeEvent) error
}

// EventRouter routes change events to the handler for their entity type
type EventRouter interface {
	// Register registers a handler
	Register(handler SyncHandler)

	// GetHandler returns the handler for an entity type, or nil
	GetHandler(entityType entity.EntityType) SyncHandler
}
