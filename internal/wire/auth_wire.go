package wire

import (
	"heartcoach/internal/adaptor"
	"heartcoach/pkg/middleware"
	"heartcoach/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewRateLimiter(config.OTP.RequestsPerMin, config.OTP.RequestsBurst, log)

	r.Route("/auth", func(r chi.Router) {
		// OTP endpoints dispatch messages, throttle per client IP
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware())

			r.Post("/request-otp", authHandler.RequestOTP)
			r.Post("/resend-otp", authHandler.ResendOTP)
			r.Post("/verify-otp", authHandler.VerifyOTP)
		})

		r.Post("/signup", authHandler.Signup)
		r.Post("/token", authHandler.Token)
		r.Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
	})
}
