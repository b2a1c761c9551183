package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"heartcoach/internal/adaptor"
	"heartcoach/internal/data/repository"
	"heartcoach/internal/metrics"
	"heartcoach/internal/usecase"
	"heartcoach/internal/wire"
	"heartcoach/pkg/database"
	"heartcoach/pkg/events"
	"heartcoach/pkg/kvstore"
	"heartcoach/pkg/sender"
	"heartcoach/pkg/storage"
	"heartcoach/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("timezone", config.App.Timezone),
	)

	// Database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()
	logger.Info("Database connected successfully")

	checks := map[string]adaptor.Pinger{"database": db}

	// OTP secret store
	var store kvstore.Store
	if config.Redis.URL != "" {
		redisStore, err := kvstore.NewRedisStore(ctx, config.Redis.URL, logger)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		checks["redis"] = redisStore
		store = redisStore
	} else {
		logger.Warn("REDIS_URL not set, OTP secrets are kept in process memory and lost on restart")
		store = kvstore.NewMemoryStore()
	}
	defer store.Close()

	// Outbound adapters
	awsCfg, err := utils.LoadAWSConfig(ctx, config.AWS)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	email, err := sender.NewEmailFromConfig(config.Email, awsCfg, logger)
	if err != nil {
		return err
	}
	sms, err := sender.NewSMSFromConfig(config.SMS, awsCfg, logger)
	if err != nil {
		return err
	}
	publisher, err := events.NewFromConfig(config.Events, awsCfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	var uploader storage.Uploader
	if config.Storage.Bucket != "" {
		uploader = storage.NewS3Uploader(awsCfg, config.Storage.Bucket, config.Storage.Prefix, logger)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	app := wire.Wiring(
		repository.NewRepository(db, logger),
		usecase.Deps{
			Store:     store,
			Email:     email,
			SMS:       sms,
			Publisher: publisher,
			Uploader:  uploader,
			Metrics:   recorder,
			Now:       time.Now,
		},
		adaptor.NewHealthHandler(checks, logger),
		metrics.Handler(registry),
		config,
		logger,
	)

	return APIServer(ctx, app.Router, config.App.Port, logger)
}

// APIServer serves handler until ctx is cancelled, then drains in-flight requests.
func APIServer(ctx context.Context, handler http.Handler, port string, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}
