package wire

import (
	"heartcoach/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireVital(r chi.Router, vitalHandler *adaptor.VitalHandler) {
	r.Route("/vitals", func(r chi.Router) {
		r.Post("/", vitalHandler.Create)
		r.Get("/me", vitalHandler.ListMine)
		r.Get("/export", vitalHandler.Export)
		r.Put("/{id}", vitalHandler.Update)
		r.Delete("/{id}", vitalHandler.Delete)
	})
}
