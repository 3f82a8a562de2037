package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all scenario analysis routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/views/marginal", h.HandleMarginal)
	r.Get("/views/comparison", h.HandleComparison)
}
