package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"dividas/internal/cache"
	"dividas/internal/cli"
	"dividas/internal/core"
	apphttp "dividas/internal/http"
	applog "dividas/internal/log"
	"dividas/internal/ptax"
	"dividas/internal/rates"
	"dividas/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	// Choose the quotation cache backend (default: memory). Redis lets
	// replicas share lookups for the same reference date.
	var (
		quoteCache cache.Cache[core.RateQuote]
		cleanup    func()
	)
	switch cfg.CacheBackend {
	case "redis":
		redisCache, err := cache.NewRedisCache[core.RateQuote](cfg.RedisURL, "ptax", cfg.CacheTTL)
		if err != nil {
			logger.Error("Failed to initialize Redis cache", "error", err, "backend", cfg.CacheBackend)
			os.Exit(1)
		}
		quoteCache = redisCache
		cleanup = func() {
			if err := redisCache.Close(); err != nil {
				logger.Error("Redis close error", "error", err)
			}
		}
		logger.Info("Initialized Redis cache backend", "backend", cfg.CacheBackend)
	default:
		quoteCache = cache.NewMemoryCache[core.RateQuote](cfg.CacheTTL)
		logger.Info("Initialized memory cache backend", "backend", cfg.CacheBackend)
	}

	ptaxClient := ptax.NewClient(cfg.PTAXBaseURL,
		&http.Client{Timeout: cfg.PTAXTimeout},
		applog.Default(applog.ComponentPTAX))
	rateService := rates.NewService(ptaxClient, quoteCache,
		rates.RateField(cfg.RateField), cfg.IncludeSDR, nil)
	summaryService := services.NewSummaryService(rateService, nil)

	srv := apphttp.NewServer(":"+cfg.Port, summaryService, cfg.MaxUploadMB)

	// Configure server timeouts and limits. Write timeout is generous
	// because one upload can fan out into several PTAX lookups.
	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 2 * time.Minute
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if cleanup != nil {
			cleanup()
		}
	})

	logger.Info("Starting dividas server", "port", cfg.Port, "cache_backend", cfg.CacheBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
