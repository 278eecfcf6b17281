package session

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers wizard session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/wizard-sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.ResetSession)
		r.Patch("/{id}/form", h.UpdateForm)
		r.Post("/{id}/next", h.Next)
		r.Post("/{id}/prev", h.Prev)
		r.Post("/{id}/submit", h.Submit)
		r.Get("/{id}/result", h.GetResult)
		r.Get("/{id}/result/pages/{index}", h.GetResultPage)
	})
}
