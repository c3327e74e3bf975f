// Command mockapi serves the food collection locally so the app can run
// without the hosted API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodwagen/internal/db"
	"foodwagen/internal/logging"
	"foodwagen/internal/mockapi"
)

func main() {
	// Load configuration from environment
	cfg, err := mockapi.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(log)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.Seed {
		for _, resource := range cfg.Resources {
			if resource != mockapi.FoodResource {
				continue
			}
			n, err := db.Seed(database, resource, mockapi.DefaultFoods)
			if err != nil {
				log.Error("failed to seed database", "resource", resource, "error", err)
				os.Exit(1)
			}
			if n > 0 {
				log.Info("seeded resource", "resource", resource, "count", n)
			}
		}
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      mockapi.NewServer(database, cfg.Resources, log).Router(),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("mockapi listening",
			"address", cfg.Addr(),
			"db", cfg.DBPath,
			"resources", cfg.Resources,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
