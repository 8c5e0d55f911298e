package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/teelane/budget-manager/internal/config"
	"github.com/teelane/budget-manager/internal/db"
	"github.com/teelane/budget-manager/internal/repo"
	"github.com/teelane/budget-manager/internal/scheduler"
)

func main() {

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Structured logging
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))

	// Connect to database FIRST
	database, err := db.Connect(cfg.DBPath, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	slog.Info("connected to database", "path", cfg.DBPath)

	// Apply migrations
	if err := db.Run(cfg.DBPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Background orphan sweep
	if cfg.OrphanSweepCron != "" {
		c, err := scheduler.Run(repo.NewExpenseRepo(database), cfg.OrphanSweepCron)
		if err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer c.Stop()
		slog.Info("orphan sweep scheduled", "cron", cfg.OrphanSweepCron)
	}

	r := newRouter(database, cfg)

	// Start server LAST
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server (https)", "port", cfg.Port)
		err = http.ListenAndServeTLS(":"+cfg.Port, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "port", cfg.Port)
		err = http.ListenAndServe(":"+cfg.Port, r)
	}
	if err != nil {
		log.Fatal(err)
	}
}
