// Package handlers provides HTTP handlers for the filtered dashboard views.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

// ROASThresholdOptions are the suggested values for the threshold control,
// mirroring the options the dashboard has always offered.
var ROASThresholdOptions = []float64{0, 1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0}

// Handler handles filtered-view HTTP requests
type Handler struct {
	snap    *snapshot.Snapshot
	service *analysis.Service
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(snap *snapshot.Snapshot, service *analysis.Service, log zerolog.Logger) *Handler {
	return &Handler{
		snap:    snap,
		service: service,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// HandleOverview handles GET /api/views/overview
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	criteria, err := analysis.ParseCriteria(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.service.Apply(h.snap, criteria)
	h.writeJSON(w, http.StatusOK, view)
}

// HandleFilterDomain handles GET /api/filters/domain
func (h *Handler) HandleFilterDomain(w http.ResponseWriter, r *http.Request) {
	minSpend, maxSpend := analysis.SpendDomain(h.snap.Annual)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"min_spend":              minSpend,
		"max_spend":              maxSpend,
		"scenario_labels":        h.snap.ScenarioLabels(),
		"roas_threshold_options": ROASThresholdOptions,
	})
}

// HandleSnapshotMeta handles GET /api/snapshot/meta
func (h *Handler) HandleSnapshotMeta(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id":      h.snap.SessionID.String(),
		"data_timestamp":  h.snap.DataTimestamp.Format(time.RFC3339),
		"summary_metrics": h.snap.SummaryMetrics,
		"table_sizes": map[string]int{
			"annual_projections":   len(h.snap.Annual),
			"baseline_projections": len(h.snap.Baseline),
			"holiday_projections":  len(h.snap.Holiday),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
