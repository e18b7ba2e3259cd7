// Command labelize-server runs the HTTP front end for the labelize and
// compactify pipeline. Wiring (config, logging, server bootstrap) is
// explicitly out of scope for the core per spec.md §1; this is where it
// lives, grounded on the teacher's cmd/ entrypoint and api/telemetry.go
// bootstrap idiom.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	ginprometheus "github.com/zsais/go-gin-prometheus"

	"labelize/internal/config"
	"labelize/internal/fetch"
	"labelize/internal/httpapi"
	"labelize/internal/label"
	"labelize/internal/telemetry"
	"labelize/lib/cache"
	httpdriver "labelize/lib/http"
	"labelize/shared/logger"
)

const serviceName = "labelize-server"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", logger.Err(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, mp, err := telemetry.Init(ctx, serviceName, cfg.OtelEndpoint)
	if err != nil {
		logger.Warn("telemetry initialization failed, continuing without it", logger.Err(err))
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = tp.Shutdown(shutdownCtx)
			_ = mp.Shutdown(shutdownCtx)
		}()
	}

	var resultCache cache.Cache
	switch cfg.CacheProvider {
	case "redis":
		resultCache = cache.NewRedisCache(cfg.RedisURL)
	default:
		resultCache = cache.NewMemoryCache()
	}

	fetcher := fetch.New(cfg.Domain, resultCache, cfg.CacheTTL)
	resolver := label.NewResolver(fetcher)

	driver := httpdriver.NewGinDriver(cfg.DevMode)

	prom := ginprometheus.NewPrometheus("labelize")
	prom.Use(driver.Engine())

	server := httpapi.NewServer(resolver, cfg.DefaultLangs)
	if err := server.Register(driver); err != nil {
		logger.Fatal("failed to register routes", logger.Err(err))
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down labelize-server")
		_ = driver.Stop()
	}()

	logger.Info("starting labelize-server", logger.String("addr", cfg.Addr), logger.String("domain", cfg.Domain))
	if err := driver.Start(cfg.Addr); err != nil {
		logger.Fatal("labelize-server exited with error", logger.Err(err))
	}
}
