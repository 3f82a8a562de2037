// Package handlers provides the HTTP handler for the CSV export trigger.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/irodotos/kpiboard/internal/modules/analysis"
	"github.com/irodotos/kpiboard/internal/modules/export"
	"github.com/irodotos/kpiboard/internal/snapshot"
)

// Handler handles export HTTP requests
type Handler struct {
	snap        *snapshot.Snapshot
	analysisSvc *analysis.Service
	now         func() time.Time
	log         zerolog.Logger
}

// NewHandler creates a new export handler
func NewHandler(snap *snapshot.Snapshot, analysisSvc *analysis.Service, log zerolog.Logger) *Handler {
	return &Handler{
		snap:        snap,
		analysisSvc: analysisSvc,
		now:         time.Now,
		log:         log.With().Str("handler", "export").Logger(),
	}
}

// HandleExportCSV handles GET /api/export/csv. The export is generated on
// demand from the current filtered view; an empty view still downloads a
// header-only file.
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	criteria, err := analysis.ParseCriteria(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.analysisSvc.Apply(h.snap, criteria)

	filename := export.Filename(h.now())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	w.WriteHeader(http.StatusOK)

	if err := export.WriteCSV(w, view); err != nil {
		// Headers are already gone, all we can do is log.
		h.log.Error().Err(err).Msg("Failed to write CSV export")
		return
	}

	h.log.Info().
		Int("rows", len(view.Rows)).
		Str("filename", filename).
		Msg("Served CSV export")
}
