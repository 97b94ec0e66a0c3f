package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/portal/internal/adapters/cache"
	"github.com/okian/portal/internal/adapters/http/api"
	"github.com/okian/portal/internal/adapters/http/site"
	"github.com/okian/portal/internal/adapters/http/swagger"
	"github.com/okian/portal/internal/adapters/repository"
	app "github.com/okian/portal/internal/app"
	"github.com/okian/portal/internal/config"
	"github.com/okian/portal/pkg/logger"
	"github.com/okian/portal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	os.Exit(run())
}

func run() int {
	// Exposition uses the custom registry; keep the default one quiet.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(serviceOptions(cfg, loggerInstance)...)
	if err := svc.Start(ctx); err != nil {
		// A dataset that cannot be loaded at startup is fatal.
		loggerInstance.Error(ctx, "failed to start service", logger.String("dataset", cfg.DatasetPath), logger.Error(err))
		_, _ = os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return 1
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr), logger.String("dataset", cfg.DatasetPath))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	code := 0
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			code = 1
		}
	}
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
	return code
}

// serviceOptions maps configuration onto service options.
func serviceOptions(cfg *config.Config, l logger.Logger) []app.Option {
	opts := []app.Option{
		app.WithLogger(l),
		app.WithDatasetPath(cfg.DatasetPath),
		app.WithSeason(cfg.Season),
		app.WithLoadOptions(
			repository.WithDelimiter(cfg.Delimiter()),
			repository.WithSheet(cfg.DatasetSheet),
		),
		app.WithCacheSize(cfg.CacheSize),
		app.WithWatch(cfg.WatchDataset),
		app.WithDebounce(time.Duration(cfg.ReloadDebounceMS) * time.Millisecond),
	}
	if cfg.RedisAddr != "" {
		opts = append(opts,
			app.WithRedis(cfg.RedisAddr, time.Duration(cfg.RedisTTLSeconds)*time.Second),
			app.WithRedisOptions(
				cache.WithPassword(cfg.RedisPassword),
				cache.WithDB(cfg.RedisDB),
				cache.WithKeyPrefix(cfg.RedisPrefix),
			),
		)
	}
	return opts
}

// newMux mounts the docs, the JSON API and the dashboard on one mux.
func newMux(ctx context.Context, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
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
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
