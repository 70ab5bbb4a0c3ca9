package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all evaluation and run routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/scenarios", func(r chi.Router) {
		r.Post("/evaluate", h.HandleEvaluate)
		r.Post("/sweep", h.HandleSweep)
	})
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
	})
}
