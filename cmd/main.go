package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/easonliu714/ShowNews/internal/adapters/enrich"
	"github.com/easonliu714/ShowNews/internal/adapters/fetch"
	"github.com/easonliu714/ShowNews/internal/adapters/http/api"
	"github.com/easonliu714/ShowNews/internal/adapters/notify"
	"github.com/easonliu714/ShowNews/internal/adapters/repository"
	app "github.com/easonliu714/ShowNews/internal/app"
	"github.com/easonliu714/ShowNews/internal/config"
	"github.com/easonliu714/ShowNews/pkg/logger"
	"github.com/easonliu714/ShowNews/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Minute
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	// Missing bot credentials are fatal; the service cannot notify
	// anyone without them.
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Reinitialize with the configured run log sink
	if cfg.RunLogPath != "" {
		if err := logger.Init(logger.WithRunLog(cfg.RunLogPath)); err != nil {
			os.Stderr.WriteString("failed to open run log: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	sender, err := notify.NewTelegramSender(cfg.BotToken, cfg.ChatID)
	if err != nil {
		loggerInstance.Error(ctx, "telegram authentication failed", logger.Error(err))
		os.Exit(1)
	}
	dispatcher := notify.NewDispatcher(sender,
		notify.WithLogger(loggerInstance),
		notify.WithMaxAttempts(cfg.SendRetries),
	)

	fetcher := fetch.New(
		fetch.WithTimeout(time.Duration(cfg.FetchTimeoutSeconds)*time.Second),
		fetch.WithMinBodyBytes(cfg.MinBodyBytes),
	)
	store := repository.NewJSONStore(
		repository.WithPath(cfg.StorePath),
		repository.WithLogger(loggerInstance),
	)
	failedLog := repository.NewFailedLog(repository.WithFailedPath(cfg.FailedPath))

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithFetcher(fetcher),
		app.WithEnricher(enrich.New(fetcher, enrich.WithLogger(loggerInstance))),
		app.WithDispatcher(dispatcher),
		app.WithStore(store),
		app.WithFailedLog(failedLog),
		app.WithPerPlatformCap(cfg.PerPlatformCap),
		app.WithPacing(time.Duration(cfg.SendPacingSeconds)*time.Second),
		app.WithCheckInterval(time.Duration(cfg.CheckIntervalMinutes)*time.Minute),
	)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register API routes with the service dependency.
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
