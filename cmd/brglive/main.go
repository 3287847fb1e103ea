package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ayoubalgboom-bot/brglive-website/config"
	"github.com/ayoubalgboom-bot/brglive-website/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	cfg.Print()

	deps, err := handlers.InitDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to initialize dependencies: %v", err)
	}

	server := &http.Server{
		Addr:    cfg.HTTP.Address + ":" + cfg.HTTP.Port,
		Handler: handlers.SetupRoutes(cfg, deps),
		// No WriteTimeout: relayed live streams stay open for hours and a
		// server-wide deadline would sever them mid-play.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		deps.Logger.Info("http server listening", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	deps.Logger.Info("shutdown signal received, shutting down gracefully", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		deps.Logger.Error("server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	deps.Logger.Info("server stopped", nil)
}
