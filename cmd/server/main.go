package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"reelfinder/config"
	"reelfinder/handlers"
	"reelfinder/internal/events"
	"reelfinder/internal/identity"
	"reelfinder/services/aggregate"
	"reelfinder/services/catalog"
	"reelfinder/services/session"
	"reelfinder/utils"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("[main] load config: %v", err)
	}

	if settings.Logging.File != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   settings.Logging.File,
			MaxSize:    settings.Logging.MaxSizeMB,
			MaxBackups: settings.Logging.MaxBackups,
			MaxAge:     settings.Logging.MaxAgeDays,
		})
	}

	if settings.Catalog.APIKey == "" {
		log.Printf("[main] warning: no catalog api key configured, catalog requests will fail")
	}

	catalogClient := catalog.NewClient(
		settings.Catalog.BaseURL,
		settings.Catalog.APIKey,
		settings.Catalog.Timeout,
		settings.Catalog.RequestsPerSecond,
	)
	backendClient := aggregate.NewClient(settings.Backend.BaseURL, settings.Backend.Timeout)

	sessions := session.NewManager(func() *session.Controller {
		return session.NewController(catalogClient, backendClient, events.NewBus(), session.Options{
			DebounceInterval: settings.Session.DebounceInterval,
			PulseDuration:    settings.Session.PulseDuration,
		})
	})

	router := utils.NewRouter()
	handlers.NewSessionHandler(sessions, identity.NewResolver(settings.Auth.JWTSecret)).Register(router)

	srv := &http.Server{
		Addr:              settings.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", settings.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[main] server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
	sessions.Close()
}
