package wire

import (
	"heartcoach/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWater(r chi.Router, waterHandler *adaptor.WaterHandler) {
	r.Route("/water", func(r chi.Router) {
		r.Post("/goal", waterHandler.SetGoal)
		r.Post("/intake", waterHandler.LogIntake)
		r.Get("/status", waterHandler.Status)
		r.Post("/reset", waterHandler.Reset)
	})
}
