package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/correcaminos/cuotas/internal/config"
	"github.com/correcaminos/cuotas/internal/database"
	"github.com/correcaminos/cuotas/internal/email"
	"github.com/correcaminos/cuotas/internal/logging"
	"github.com/correcaminos/cuotas/internal/receipt"
	"github.com/correcaminos/cuotas/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	godotenv.Load()

	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	receipts := receipt.NewService(cfg.S3, logger.With("component", "receipt"))
	if receipts.Enabled() {
		slog.Info("receipt storage enabled", "bucket", cfg.S3.Bucket)
	} else {
		slog.Info("receipt storage disabled, keeping receipts inline")
	}

	mail := email.NewClient(cfg.PostmarkToken, cfg.FromEmail)
	if mail.Configured() {
		slog.Info("settlement notices enabled", "from", cfg.FromEmail)
	}

	srv := server.New(db, receipts, mail, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Background cleanup goroutine
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					slog.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					slog.Info("cleaned up expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	go func() {
		slog.Info("cuotas starting", "addr", ":"+cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cleanupCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
