// Command cinemind runs the movie catalog API server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/events"
	"github.com/cinemind/cinemind/internal/logger"
	"github.com/cinemind/cinemind/internal/sentiment"
	"github.com/cinemind/cinemind/internal/server"
)

func main() {
	configPath := flag.String("config", "cinemind.yaml", "path to the yaml configuration file")
	flag.Parse()

	manager := config.NewManager()
	if err := manager.Load(*configPath); err != nil {
		logger.Get().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := manager.Get()

	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Named("main")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		log.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer := sentiment.Disabled()
	if cfg.Gemini.APIKey != "" {
		gemini, err := sentiment.NewGeminiAnalyzer(ctx, cfg.Gemini)
		if err != nil {
			log.Error("failed to initialize sentiment analyzer", "error", err)
			os.Exit(1)
		}
		analyzer = gemini
	} else {
		log.Warn("no gemini API key configured, sentiment analysis disabled")
	}

	bus, err := events.NewBus(db)
	if err != nil {
		log.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer bus.Close()
	bus.Publish(events.SystemStarted, "cinemind", nil)

	manager.AddWatcher(func(_, newConfig *config.Config) {
		logger.Configure(newConfig.Logging.Level, newConfig.Logging.Format)
		bus.Publish(events.ConfigReloaded, "cinemind", nil)
		log.Info("configuration reloaded")
	})
	go func() {
		if err := manager.Watch(ctx); err != nil {
			log.Warn("config watcher stopped", "error", err)
		}
	}()

	srv := server.New(cfg, db, analyzer, bus)
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	bus.Publish(events.SystemStopped, "cinemind", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
