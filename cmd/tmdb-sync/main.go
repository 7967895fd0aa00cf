// Command tmdb-sync imports movies from TMDB into the catalog database. With
// no arguments it syncs the current popular page; -movie imports one movie by
// TMDB id.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/events"
	"github.com/cinemind/cinemind/internal/logger"
	"github.com/cinemind/cinemind/internal/tmdb"
)

func main() {
	configPath := flag.String("config", "cinemind.yaml", "path to the yaml configuration file")
	movieID := flag.Int("movie", 0, "import a single movie by TMDB id")
	flag.Parse()

	manager := config.NewManager()
	if err := manager.Load(*configPath); err != nil {
		logger.Get().Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	cfg := manager.Get()

	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.Named("tmdb-sync")

	if cfg.TMDB.APIKey == "" {
		log.Error("TMDB_API_KEY is not configured")
		os.Exit(1)
	}

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

	bus, err := events.NewBus(db)
	if err != nil {
		log.Error("failed to initialize event bus", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	importer := tmdb.NewImporter(db, tmdb.NewClient(cfg.TMDB), cfg.TMDB)

	if *movieID > 0 {
		if err := importer.ImportMovie(ctx, *movieID); err != nil {
			log.Error("import failed", "tmdb_id", *movieID, "error", err)
			os.Exit(1)
		}
		bus.Publish(events.MovieImported, "tmdb-sync", map[string]interface{}{"tmdb_id": *movieID})
		return
	}

	bus.Publish(events.SyncStarted, "tmdb-sync", nil)
	if err := importer.SyncPopular(ctx); err != nil {
		bus.Publish(events.SyncFailed, "tmdb-sync", map[string]interface{}{"error": err.Error()})
		log.Error("popular sync failed", "error", err)
		os.Exit(1)
	}
	bus.Publish(events.SyncCompleted, "tmdb-sync", nil)
}
