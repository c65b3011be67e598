package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/stratlab/strategic-agent/internal/adapters/http"
	"github.com/stratlab/strategic-agent/internal/bootstrap"
	"github.com/stratlab/strategic-agent/internal/config"
	"github.com/stratlab/strategic-agent/internal/observability/logging"
	"github.com/stratlab/strategic-agent/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New("strategic-agent-api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	m := metrics.NewHTTPServerMetrics("strategic-agent-api")
	router := httpadapter.NewRouter(app.PipelineUC, app.AnalysisUC, app.Sessions, m, httpadapter.TrafficConfig{
		RateLimitRPS:          cfg.APIRateLimitRPS,
		RateLimitBurst:        cfg.APIRateLimitBurst,
		MaxConcurrentRequests: cfg.MaxConcurrentRequests,
	}).Handler()

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
