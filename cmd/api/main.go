package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dmarroquin/warehousewatch/internal/adapters/http"
	natsadapter "github.com/dmarroquin/warehousewatch/internal/adapters/nats"
	"github.com/dmarroquin/warehousewatch/internal/adapters/postgres"
	"github.com/dmarroquin/warehousewatch/internal/adapters/probe"
	"github.com/dmarroquin/warehousewatch/internal/adapters/valkey"
	"github.com/dmarroquin/warehousewatch/internal/core/ports"
	"github.com/dmarroquin/warehousewatch/internal/core/usecases"
	"github.com/dmarroquin/warehousewatch/internal/pkg/config"
	"github.com/dmarroquin/warehousewatch/internal/pkg/logging"
	"github.com/dmarroquin/warehousewatch/internal/pkg/metrics"
	"github.com/dmarroquin/warehousewatch/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("warehousewatch-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("warehousewatch-api", logLevel, os.Getenv("LOG_FORMAT"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Pool gauges for /metrics
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Cache. The service interface stays nil unless the client connected,
	// so a missing Valkey degrades to uncached reads instead of erroring.
	var cache ports.CacheService
	cacheClient, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, serving without cache", "error", err)
		cacheClient = nil
	} else {
		defer cacheClient.Close()
		cache = cacheClient
	}

	// NATS. Same rule: nil interface when the broker is down.
	var events ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, events disabled", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	warehouseRepo := postgres.NewWarehouseRepo(db)
	dataSourceRepo := postgres.NewDataSourceRepo(db)

	// Prober for catalog reachability checks
	prober := probe.New(time.Duration(cfg.Probe.TimeoutSeconds) * time.Second)

	// Use cases
	warehouseSvc := usecases.NewWarehouseService(warehouseRepo, cache, events)
	mappingSvc := usecases.NewMappingService()
	dataSourceSvc := usecases.NewDataSourceService(dataSourceRepo, prober, cache)

	deps := &http.Dependencies{
		Warehouses:  warehouseSvc,
		Mappings:    mappingSvc,
		DataSources: dataSourceSvc,
		NATS:        natsConn,
		DB:          db,
		Cache:       cacheClient,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "WarehouseWatch API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.warehousewatch.org",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
