// Package handlers provides HTTP handlers for the marginal-returns and
// scenario-comparison views.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/modules/scenarios"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

// maxComparisonSlots caps how many spend levels one comparison request may
// ask for.
const maxComparisonSlots = 8

// Handler handles scenario analysis HTTP requests
type Handler struct {
	snap        *snapshot.Snapshot
	analysisSvc *analysis.Service
	service     *scenarios.Service
	log         zerolog.Logger
}

// NewHandler creates a new scenarios handler
func NewHandler(snap *snapshot.Snapshot, analysisSvc *analysis.Service, service *scenarios.Service, log zerolog.Logger) *Handler {
	return &Handler{
		snap:        snap,
		analysisSvc: analysisSvc,
		service:     service,
		log:         log.With().Str("handler", "scenarios").Logger(),
	}
}

// HandleMarginal handles GET /api/views/marginal
func (h *Handler) HandleMarginal(w http.ResponseWriter, r *http.Request) {
	criteria, err := analysis.ParseCriteria(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.analysisSvc.Apply(h.snap, criteria)
	thresholds := h.service.MarginalThresholds(view, nil)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"criteria":   view.Criteria,
		"marginal":   view.Marginal,
		"thresholds": thresholds,
		"empty":      view.Empty(),
	})
}

// HandleComparison handles GET /api/views/comparison
func (h *Handler) HandleComparison(w http.ResponseWriter, r *http.Request) {
	criteria, err := analysis.ParseCriteria(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	spends, err := parseSpends(r.URL.Query().Get("spends"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.analysisSvc.Apply(h.snap, criteria)
	entries := h.service.Compare(view, spends)

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"criteria":  view.Criteria,
		"scenarios": entries,
	})
}

// parseSpends parses the comma-separated spends parameter.
func parseSpends(raw string) ([]float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errInvalidSpends("spends parameter is required")
	}

	parts := strings.Split(raw, ",")
	if len(parts) > maxComparisonSlots {
		return nil, errInvalidSpends("too many spend levels requested")
	}

	spends := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, errInvalidSpends("invalid spend level " + strconv.Quote(part))
		}
		spends = append(spends, f)
	}
	if len(spends) == 0 {
		return nil, errInvalidSpends("spends parameter is required")
	}
	return spends, nil
}

type errInvalidSpends string

func (e errInvalidSpends) Error() string { return string(e) }

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
