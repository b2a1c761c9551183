package wire

import (
	"heartcoach/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMedicine(r chi.Router, medicineHandler *adaptor.MedicineHandler) {
	r.Route("/medicine", func(r chi.Router) {
		r.Post("/", medicineHandler.Create)
		r.Get("/", medicineHandler.ListToday) // with today's status per schedule

		r.Put("/schedule/{schedule_id}", medicineHandler.UpdateSchedule)

		r.Get("/{id}", medicineHandler.Get)
		r.Put("/{id}", medicineHandler.Update)
		r.Delete("/{id}", medicineHandler.Delete)
		r.Get("/{id}/schedule", medicineHandler.ListSchedules)
		r.Post("/{id}/status", medicineHandler.RecordStatus)
		r.Get("/{id}/intakes", medicineHandler.History)
	})
}
