package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventdesk/config"
	_ "eventdesk/docs"
	authadapter "eventdesk/internal/adapters/auth"
	"eventdesk/internal/adapters/syncgateway"
	httpdelivery "eventdesk/internal/delivery/http"
	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/repository/postgres"
	"eventdesk/internal/services"
)

const serviceTimeout = 10 * time.Second

// @title eventdesk API
// @version 1.0
// @description Internal admin backend for event records and cross-brand publishing.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	sponsorRepo := postgres.NewSponsorRepository(db)
	agendaRepo := postgres.NewAgendaItemRepository(db)

	registry := config.LoadBrandRegistry()
	connector := postgres.NewTargetConnector()
	submitter := syncgateway.NewHTTPSubmitter(cfg.SyncEndpointURL, &http.Client{Timeout: 30 * time.Second})

	eventService := services.NewEventService(eventRepo, speakerRepo, sponsorRepo, agendaRepo, logger, serviceTimeout)
	syncService := services.NewSyncService(registry, connector, logger, 30*time.Second)
	syncPackager := services.NewSyncPackager(eventRepo, speakerRepo, sponsorRepo, agendaRepo, submitter, logger, 30*time.Second)

	verifier := authadapter.NewJWTVerifier(cfg.JWTSecret)
	eventController := controllers.NewEventController(logger, eventService)
	syncController := controllers.NewSyncController(logger, syncService, syncPackager)

	mux := httpdelivery.NewRouter(eventController, syncController, verifier, logger)
	handler := middleware.RequestID(middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
