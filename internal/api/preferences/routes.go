package preferences

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers client preference routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/languages", h.ListLanguages)

	r.Route("/clients/{client_id}/preferences", func(r chi.Router) {
		r.Get("/", h.GetPreferences)
		r.Put("/", h.UpdatePreferences)
	})
}
