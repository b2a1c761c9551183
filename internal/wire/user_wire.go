package wire

import (
	"heartcoach/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.Get("/user/me", userHandler.Me)
	r.Put("/user/profile", userHandler.UpdateProfile)
}
