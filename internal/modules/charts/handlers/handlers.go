// Package handlers provides HTTP handlers for chart series endpoints.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/modules/charts"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

// Handler handles chart HTTP requests
type Handler struct {
	snap        *snapshot.Snapshot
	analysisSvc *analysis.Service
	service     *charts.Service
	log         zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(snap *snapshot.Snapshot, analysisSvc *analysis.Service, service *charts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		snap:        snap,
		analysisSvc: analysisSvc,
		service:     service,
		log:         log.With().Str("handler", "charts").Logger(),
	}
}

// HandleOverviewSeries handles GET /api/charts/overview
func (h *Handler) HandleOverviewSeries(w http.ResponseWriter, r *http.Request) {
	criteria, err := analysis.ParseCriteria(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.analysisSvc.Apply(h.snap, criteria)
	series := h.service.Overview(view)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"criteria": view.Criteria,
		"series":   series,
		"empty":    view.Empty(),
	})
}

// HandleMarginalSeries handles GET /api/charts/marginal
func (h *Handler) HandleMarginalSeries(w http.ResponseWriter, r *http.Request) {
	criteria, err := analysis.ParseCriteria(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.analysisSvc.Apply(h.snap, criteria)
	points := h.service.MarginalCurve(view)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"criteria": view.Criteria,
		"points":   points,
		"empty":    view.Empty(),
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
