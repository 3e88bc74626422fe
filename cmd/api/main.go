package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/claimsight/revcycle-analytics/internal/adapters/cache"
	"github.com/claimsight/revcycle-analytics/internal/adapters/database"
	"github.com/claimsight/revcycle-analytics/internal/api/handlers"
	"github.com/claimsight/revcycle-analytics/internal/api/routes"
	"github.com/claimsight/revcycle-analytics/internal/application/services"
	"github.com/claimsight/revcycle-analytics/internal/domain/providers"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/clients/postgres"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/clients/redis"
	"github.com/claimsight/revcycle-analytics/internal/infrastructure/observability"
	"github.com/claimsight/revcycle-analytics/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Initialize Redis client. The service degrades to uncached report
	// generation when Redis is unavailable.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client; report caching disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		logger.Info().Msg("Redis client initialized")
	}

	// Initialize adapters
	claimAdapter := database.NewClaimAdapter(pgClient)
	paymentAdapter := database.NewPaymentAdapter(pgClient)
	denialAdapter := database.NewDenialAdapter(pgClient)
	encounterAdapter := database.NewEncounterAdapter(pgClient)
	payerAdapter := database.NewPayerAdapter(pgClient)

	// Initialize services
	analyticsService := services.NewAnalyticsService(
		claimAdapter,
		paymentAdapter,
		denialAdapter,
		encounterAdapter,
		payerAdapter,
		nil,
	)
	reportService := services.NewReportService(
		analyticsService,
		cacheProvider,
		metrics,
		cfg.Analytics.ReportCacheTTLSeconds,
	)

	// Initialize handlers and routes
	metricsHandler := handlers.NewMetricsHandler(analyticsService, reportService)
	router := routes.NewRouter(metricsHandler, metrics)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shut down")
	}

	logger.Info().Msg("server exited")
}
