package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Drain window for requests in flight when a shutdown signal arrives.
const shutdownGrace = 5 * time.Second

// GracefulShutdown blocks until SIGINT or SIGTERM, then drains the
// HTTP server and signals done. Run it in its own goroutine alongside
// ListenAndServe.
func GracefulShutdown(srv *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("Shutdown signal received, draining requests",
		zap.Duration("grace", shutdownGrace))

	// Re-arm the signals so a second Ctrl+C kills the process.
	stop()

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(drainCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server drained cleanly")
	}

	done <- true
}
