package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/citasmed/consultorio-backend/internal/api/router"
	"github.com/citasmed/consultorio-backend/internal/assistant"
	"github.com/citasmed/consultorio-backend/internal/booking"
	"github.com/citasmed/consultorio-backend/internal/citas"
	appconfig "github.com/citasmed/consultorio-backend/internal/config"
	"github.com/citasmed/consultorio-backend/internal/gcal"
	"github.com/citasmed/consultorio-backend/internal/observability/metrics"
	"github.com/citasmed/consultorio-backend/internal/webchat"
	"github.com/citasmed/consultorio-backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting consultorio backend",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Appointment storage
	var repo citas.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		repo = citas.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, appointments stored in memory")
		repo = citas.NewInMemoryRepository()
	}

	// Chat transcripts
	var transcripts *webchat.TranscriptStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		transcripts = webchat.NewTranscriptStore(rdb, int64(cfg.TranscriptLimit))
	} else {
		logger.Warn("REDIS_ADDR not set, chat transcripts will not persist")
	}

	// Calendar mirroring
	var calendar *gcal.Client
	if cfg.CalendarEnabled() {
		c, err := gcal.NewClient(ctx, gcal.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RefreshToken: cfg.GoogleRefreshToken,
			CalendarID:   cfg.GoogleCalendarID,
		})
		if err != nil {
			logger.Warn("calendar mirroring disabled", "error", err)
		} else {
			calendar = c
		}
	}

	m := metrics.NewAssistantMetrics(nil)

	var eventCreator booking.EventCreator
	var eventRemover citas.EventRemover
	if calendar != nil {
		eventCreator = calendar
		eventRemover = calendar
	}

	bookingSvc := booking.NewService(repo, eventCreator, m, logger)
	responder := assistant.NewResponder(bookingSvc, logger, nil)
	webchatHandler := webchat.NewHandler(responder, bookingSvc, transcripts, m, cfg.TypingDelay, logger)
	citasHandler := citas.NewHandler(repo, eventRemover, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		CitasHandler:       citasHandler,
		WebchatHandler:     webchatHandler,
		MetricsHandler:     promhttp.Handler(),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRatePerSecond:  5,
		ChatBurst:          10,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
