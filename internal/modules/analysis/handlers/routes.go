package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all filtered-view routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/views/overview", h.HandleOverview)
	r.Get("/filters/domain", h.HandleFilterDomain)
	r.Get("/snapshot/meta", h.HandleSnapshotMeta)
}
