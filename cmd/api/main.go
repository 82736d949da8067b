package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sehadigital/roomstatus/internal/api/handlers"
	"github.com/sehadigital/roomstatus/internal/api/routes"
	"github.com/sehadigital/roomstatus/internal/application/services"
	"github.com/sehadigital/roomstatus/internal/infrastructure/observability"
	"github.com/sehadigital/roomstatus/internal/sharepoint"
	"github.com/sehadigital/roomstatus/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger("room-status-api", os.Getenv("APP_ENV"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var metrics *observability.Metrics
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			metrics, err = observability.InitMetrics()
			if err != nil {
				log.Warn().Err(err).Msg("failed to initialize metrics")
			}
		}
	}

	// The list-store client only ever talks to the proxy; this process
	// holds no SharePoint credentials.
	store := sharepoint.NewClient(cfg.Client, cfg.SharePoint.Lists)

	wardSummaryService := services.NewWardSummaryService(store, cfg.Client.PollInterval, metrics)
	roomService := services.NewRoomService(store, cfg.Client.PollInterval, metrics)
	historyService := services.NewHistoryService(store)
	adminService := services.NewAdminService(store)

	// Keep a warm board snapshot so ward summaries survive store outages.
	go wardSummaryService.Run(ctx)

	wardHandler := handlers.NewWardHandler(wardSummaryService, adminService)
	roomHandler := handlers.NewRoomHandler(roomService, adminService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	router := routes.NewRouter(wardHandler, roomHandler, historyHandler, cfg.Proxy.AllowedOrigins, metrics)

	server := &http.Server{
		Addr:        getEnv("API_ADDR", "0.0.0.0:8080"),
		Handler:     router.SetupRoutes(),
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("api server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("api server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("api server shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("api server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
