package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReconcileReport summarizes one bulk reconciliation run
type ReconcileReport struct {
	RunID         uuid.UUID `json:"run_id"`
	PricesSynced  int       `json:"prices_synced"`
	PriceErrors   int       `json:"price_errors"`
	ReviewsSynced int       `json:"reviews_synced"`
	ReviewErrors  int       `json:"review_errors"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}
