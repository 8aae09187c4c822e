package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/quicktranslate/internal/config"
	"github.com/heartmarshall/quicktranslate/internal/transport/middleware"
	"github.com/heartmarshall/quicktranslate/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, assembles the
// translation stack and serves HTTP until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	stack, err := NewStack(ctx, cfg, logger, Options{})
	if err != nil {
		return err
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer limiter.Stop()
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      NewHandler(cfg, logger, stack, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stack.Close(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// In-flight lookups are cancelled first so streaming responses finish promptly.
	stack.Service.CancelActive()
	shutdownErr := srv.Shutdown(shutdownCtx)
	stack.Close(shutdownCtx)
	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	logger.Info("shutdown complete")
	return nil
}

// NewHandler builds the HTTP routes. limiter may be nil to disable rate
// limiting; it only guards the /api routes.
func NewHandler(cfg *config.Config, logger *slog.Logger, stack *Stack, limiter *middleware.RateLimiter) http.Handler {
	health := rest.NewHealthHandler(Version, stack.Components)
	tr := rest.NewTranslateHandler(stack.Service, logger)

	var limit middleware.Middleware
	if limiter != nil {
		limit = limiter.Limit(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	}
	api := middleware.Chain(limit)

	mux := http.NewServeMux()
	mux.Handle("GET /api/v1/translate", api(http.HandlerFunc(tr.Translate)))
	mux.Handle("DELETE /api/v1/translate", api(http.HandlerFunc(tr.Cancel)))
	mux.Handle("GET /api/v1/history", api(http.HandlerFunc(tr.History)))

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	if stack.MetricsHandler != nil {
		mux.Handle("GET "+cfg.Metrics.Path, stack.MetricsHandler)
	}

	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	)(mux)
}
