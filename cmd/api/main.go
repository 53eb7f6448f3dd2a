package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/melih/lighthouse-expose/internal/adapters/http"
	"github.com/melih/lighthouse-expose/internal/adapters/metrics"
	"github.com/melih/lighthouse-expose/internal/app"
	"github.com/melih/lighthouse-expose/internal/config"
	"github.com/melih/lighthouse-expose/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New("lighthouse-expose", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Initialize Adapters (Infrastructure)
	events := http.NewBroadcaster(log)
	recorder := metrics.NewRecorder(nil)
	sequencer, closeRuntime, err := app.NewSequencer(cfg, events, recorder, log)
	if err != nil {
		log.Error("failed to initialize runtime", "error", err)
		os.Exit(1)
	}
	defer closeRuntime()

	// 2. Initialize HTTP Handlers (Interface Adapters)
	// Sequences run under the process context so shutdown can stop them.
	sessionHandler := http.NewSessionHandler(ctx, sequencer, events, log)

	// 3. Setup Framework (Fiber)
	server := fiber.New(fiber.Config{DisableStartupMessage: true})

	// 4. Define Routes
	http.RegisterRoutes(server, sessionHandler)
	server.Get("/metrics", recorder.Handler())

	// 5. Start Server
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.ListenAddr, "runtime", cfg.Runtime)
		errCh <- server.Listen(cfg.ListenAddr)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			log.Error("server failed", "error", err)
		}
	}

	// 6. Let an in-flight sequence finish, then release the session's
	// container and tunnel before exiting
	sessionHandler.Drain()
	cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sequencer.Cleanup(cleanupCtx); err != nil {
		log.Warn("cleanup finished with errors", "error", err)
	}
	events.Close()
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
