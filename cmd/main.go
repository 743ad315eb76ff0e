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

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-maintenance/internal/auth"
	"github.com/ukydev/fleet-maintenance/internal/config"
	"github.com/ukydev/fleet-maintenance/internal/db"
	"github.com/ukydev/fleet-maintenance/internal/forecast"
	"github.com/ukydev/fleet-maintenance/internal/handlers"
	"github.com/ukydev/fleet-maintenance/internal/ingest"
	"github.com/ukydev/fleet-maintenance/internal/maintenance"
	"github.com/ukydev/fleet-maintenance/internal/metrics"
	"github.com/ukydev/fleet-maintenance/internal/middleware"
)

// newLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func newLogger(level, format string) (*log.Logger, error) {
	logger := log.New()
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	if format == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// settingsThresholds re-reads the settings file on every call so edits made
// through the API or maintctl apply to the next forecast.
func settingsThresholds(path string, logger log.FieldLogger) func() forecast.Thresholds {
	return func() forecast.Thresholds {
		s, err := config.LoadSettings(path)
		if err != nil {
			logger.WithError(err).WithField("path", path).Warn("Falling back to default thresholds")
		}
		return s.ForecastThresholds()
	}
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	logger.Info("Connected to MongoDB successfully")

	database := client.Database(cfg.MongoDB)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.WithError(err).Warn("Failed to ensure indexes")
	}
	cancel()

	m := metrics.New()
	owners := &db.MongoOwnerCollection{Collection: database.Collection(db.OwnersCollection)}
	svc := maintenance.NewService(maintenance.Deps{
		Vehicles:    &db.MongoVehicleCollection{Collection: database.Collection(db.VehiclesCollection)},
		Readings:    &db.MongoReadingCollection{Collection: database.Collection(db.ReadingsCollection)},
		Services:    &db.MongoServiceCollection{Collection: database.Collection(db.ServicesCollection)},
		ServiceLogs: &db.MongoServiceLogCollection{Collection: database.Collection(db.ServiceLogsCollection)},
		Metrics:     m,
		Logger:      logger,
		Thresholds:  settingsThresholds(cfg.SettingsPath, logger),
	})

	if cfg.MQTTBroker != "" {
		sub := ingest.NewSubscriber(ingest.Config{
			Broker:   cfg.MQTTBroker,
			Topic:    cfg.MQTTTopic,
			ClientID: cfg.MQTTClientID,
		}, svc, m, logger)
		if err := sub.Start(); err != nil {
			logger.WithError(err).Error("MQTT ingest unavailable")
		} else {
			defer sub.Stop()
		}
	}

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)
	router := &handlers.Router{
		Auth:        handlers.NewAuthHandler(authService, owners, logger),
		Maintenance: handlers.NewMaintenanceHandler(svc, logger),
		Settings:    handlers.NewSettingsHandler(cfg.SettingsPath, logger),
		AuthMW:      middleware.NewAuthMiddleware(authService),
		RateLimit:   middleware.NewRateLimitMiddleware(),
		Metrics:     m,
		Logging:     middleware.RequestLogger(logger),
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
	}
}
