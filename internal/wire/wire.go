package wire

import (
	"net/http"

	"heartcoach/internal/adaptor"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/usecase"
	"heartcoach/pkg/middleware"
	"heartcoach/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes from the repositories and adapters.
func Wiring(
	repo *repository.Repository,
	deps usecase.Deps,
	health *adaptor.HealthHandler,
	metricsHandler http.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, health, logger)

	router := setupRouter(handler, deps, metricsHandler, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	deps usecase.Deps,
	metricsHandler http.Handler,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	if config.App.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.CORS())

	r.Route("/api/v1", func(r chi.Router) {
		wireAuth(r, handler.Auth, config, logger)

		// Everything below requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(config.JWT.Secret, logger))

			wireUser(r, handler.User)
			wireMedicine(r, handler.Medicine)
			wireVital(r, handler.Vital)
			wireWater(r, handler.Water)
		})
	})

	r.Get("/health", handler.Health.Live)
	r.Get("/ready", handler.Health.Ready)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	return r
}
