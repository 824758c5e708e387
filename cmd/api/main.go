package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ototamirci/backend/internal/adapters/cache"
	"github.com/ototamirci/backend/internal/adapters/database"
	"github.com/ototamirci/backend/internal/adapters/identity"
	"github.com/ototamirci/backend/internal/api/handlers"
	"github.com/ototamirci/backend/internal/api/middleware"
	"github.com/ototamirci/backend/internal/api/response"
	"github.com/ototamirci/backend/internal/api/routes"
	"github.com/ototamirci/backend/internal/application/services"
	"github.com/ototamirci/backend/internal/domain/providers"
	"github.com/ototamirci/backend/internal/infrastructure/clients/postgres"
	"github.com/ototamirci/backend/internal/infrastructure/clients/redis"
	"github.com/ototamirci/backend/internal/infrastructure/observability"
	"github.com/ototamirci/backend/pkg/config"
)

// passwordCost is the bcrypt work factor for new password hashes
const passwordCost = 10

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	logger := observability.GetLogger()
	response.ExposeInternalErrors(cfg.Server.IsDevelopment())

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
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
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(ctx, &cfg.Database, logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis backs the shared rate-limit windows. Without it each instance
	// limits on its own.
	var counters providers.CounterStore
	var cachePinger handlers.Pinger
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, rate limiting per instance")
		} else {
			defer redisClient.Close()
			counters = cache.NewRedisCounterStore(redisClient)
			cachePinger = redisClient
		}
	}

	// Initialize adapters
	userAdapter := database.NewUserAdapter(pgClient)
	shopAdapter := database.NewShopAdapter(pgClient)
	reviewAdapter := database.NewReviewAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)

	tokens := identity.NewJWTProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.ExpiresIn)
	hasher := identity.NewBcryptHasher(passwordCost)

	// Initialize services
	authService := services.NewAuthService(userAdapter, shopAdapter, pgClient, tokens, hasher)
	shopService := services.NewShopService(shopAdapter, metrics)
	reviewService := services.NewReviewService(reviewAdapter, shopAdapter, pgClient, metrics)
	appointmentService := services.NewAppointmentService(
		appointmentAdapter,
		shopAdapter,
		cfg.Appointments.StrictTransitions,
		metrics,
	)

	// Initialize handlers
	router := routes.NewRouter(
		handlers.NewAuthHandler(authService),
		handlers.NewShopHandler(shopService),
		handlers.NewReviewHandler(reviewService),
		handlers.NewAppointmentHandler(appointmentService),
		handlers.NewHealthHandler(pgClient, cachePinger),
		tokens,
		middleware.NewRateLimiter(counters, metrics, cfg.Server.TrustProxy),
		cfg.RateLimit,
		cfg.Server.AllowedOrigins,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", serverAddr).
			Str("env", cfg.Server.Env).
			Bool("strict_transitions", cfg.Appointments.StrictTransitions).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
