package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/pkg/logger"

	"github.com/gorilla/mux"
)

const defaultHistoryDays = 30

// PricingService is the pricing side of the admin surface
type PricingService interface {
	RefreshPrice(ctx context.Context, flightID int64) (*entity.RefreshResult, error)
	BatchRefresh(ctx context.Context, flightIDs []int64) ([]entity.RefreshOutcome, error)
	PriceHistory(ctx context.Context, flightID int64, days int) ([]entity.PriceSnapshot, error)
}

// InsightService is the insight side of the admin surface
type InsightService interface {
	GenerateInsights(ctx context.Context, flightID int64) (*entity.Insight, error)
	LatestInsight(ctx context.Context, flightID int64) (*entity.Insight, error)
}

// Reconciler runs a bulk document-store rebuild
type Reconciler interface {
	SyncAll(ctx context.Context) (*entity.ReconcileReport, error)
}

// AdminHandler exposes the synchronous admin triggers over HTTP
type AdminHandler struct {
	pricing    PricingService
	insights   InsightService
	reconciler Reconciler
	logger     logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(pricing PricingService, insights InsightService, reconciler Reconciler, logger logger.Logger) *AdminHandler {
	return &AdminHandler{
		pricing:    pricing,
		insights:   insights,
		reconciler: reconciler,
		logger:     logger.With("component", "admin_api"),
	}
}

// Register mounts the admin routes on r
func (h *AdminHandler) Register(r *mux.Router) {
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.HandleFunc("/pricing/refresh/{id}", h.RefreshPrice).Methods(http.MethodPost)
	admin.HandleFunc("/pricing/refresh-all", h.RefreshAll).Methods(http.MethodPost)
	admin.HandleFunc("/pricing/insights/{id}", h.GenerateInsights).Methods(http.MethodGet)
	admin.HandleFunc("/pricing/insights/{id}/latest", h.LatestInsight).Methods(http.MethodGet)
	admin.HandleFunc("/pricing/history/{id}", h.PriceHistory).Methods(http.MethodGet)
	admin.HandleFunc("/sync/bulk", h.BulkSync).Methods(http.MethodPost)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors onto status codes
func (h *AdminHandler) respondServiceError(w http.ResponseWriter, err error) {
	var vErr *entity.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, entity.ErrNotFound):
		respondError(w, http.StatusNotFound, "Flight not found")
	case errors.Is(err, entity.ErrInsightExpired):
		respondError(w, http.StatusNotFound, "Insight expired")
	default:
		h.logger.Error("Admin request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}

func flightIDParam(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &entity.ValidationError{Field: "flight_id", Reason: fmt.Sprintf("%q is not a positive integer", raw)}
	}
	return id, nil
}

type refreshView struct {
	FlightID   int64                 `json:"flight_id"`
	FlightCode string                `json:"flight_code"`
	OldPrice   float64               `json:"old_price"`
	NewPrice   float64               `json:"new_price"`
	OldSurge   float64               `json:"old_surge"`
	NewSurge   float64               `json:"new_surge"`
	Breakdown  entity.SurgeBreakdown `json:"breakdown"`
}

func newRefreshView(r *entity.RefreshResult) refreshView {
	return refreshView{
		FlightID:   r.FlightID,
		FlightCode: r.FlightCode,
		OldPrice:   r.OldPrice.InexactFloat64(),
		NewPrice:   r.NewPrice.InexactFloat64(),
		OldSurge:   r.OldSurge.InexactFloat64(),
		NewSurge:   r.NewSurge.InexactFloat64(),
		Breakdown:  r.Breakdown,
	}
}

type outcomeView struct {
	FlightID int64        `json:"flight_id"`
	Result   *refreshView `json:"result,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// RefreshPrice handles POST /api/admin/pricing/refresh/{id}
func (h *AdminHandler) RefreshPrice(w http.ResponseWriter, r *http.Request) {
	id, err := flightIDParam(r)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	result, err := h.pricing.RefreshPrice(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newRefreshView(result))
}

type refreshAllRequest struct {
	FlightIDs *[]int64 `json:"flight_ids"`
}

// ids keeps an explicit empty list apart from an absent one
func (req refreshAllRequest) ids() []int64 {
	if req.FlightIDs == nil {
		return nil
	}
	if *req.FlightIDs == nil {
		return []int64{}
	}
	return *req.FlightIDs
}

// RefreshAll handles POST /api/admin/pricing/refresh-all. A body without
// flight_ids refreshes every scheduled flight; an empty list refreshes none.
func (h *AdminHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	var req refreshAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcomes, err := h.pricing.BatchRefresh(r.Context(), req.ids())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	views := make([]outcomeView, 0, len(outcomes))
	updated := 0
	for _, o := range outcomes {
		view := outcomeView{FlightID: o.FlightID}
		if o.Err != nil {
			view.Error = o.Err.Error()
		} else {
			rv := newRefreshView(o.Result)
			view.Result = &rv
			updated++
		}
		views = append(views, view)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Updated %d flights", updated),
		"updated": updated,
		"failed":  len(outcomes) - updated,
		"results": views,
	})
}

// GenerateInsights handles GET /api/admin/pricing/insights/{id}
func (h *AdminHandler) GenerateInsights(w http.ResponseWriter, r *http.Request) {
	id, err := flightIDParam(r)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	insight, err := h.insights.GenerateInsights(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// LatestInsight handles GET /api/admin/pricing/insights/{id}/latest
func (h *AdminHandler) LatestInsight(w http.ResponseWriter, r *http.Request) {
	id, err := flightIDParam(r)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	insight, err := h.insights.LatestInsight(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, insight)
}

// PriceHistory handles GET /api/admin/pricing/history/{id}?days=N
func (h *AdminHandler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	id, err := flightIDParam(r)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
	}

	snapshots, err := h.pricing.PriceHistory(r.Context(), id, days)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"flight_id": id,
		"days":      days,
		"snapshots": snapshots,
	})
}

// BulkSync handles POST /api/admin/sync/bulk
func (h *AdminHandler) BulkSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciler.SyncAll(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
