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

	"github.com/aldasoro/geobridge/internal/adapters/http"
	natsadapter "github.com/aldasoro/geobridge/internal/adapters/nats"
	"github.com/aldasoro/geobridge/internal/adapters/valkey"
	"github.com/aldasoro/geobridge/internal/adapters/wms"
	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/core/ports"
	"github.com/aldasoro/geobridge/internal/core/usecases"
	"github.com/aldasoro/geobridge/internal/pkg/config"
	"github.com/aldasoro/geobridge/internal/pkg/logging"
	"github.com/aldasoro/geobridge/internal/pkg/metrics"
	"github.com/aldasoro/geobridge/internal/pkg/projection"
	"github.com/aldasoro/geobridge/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geobridge-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Cache
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS
	var events ports.EventPublisher
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		nc = nil
	} else {
		events = nc
		defer nc.Close()
	}

	// Projection registry: built-ins plus the project CRS.
	registry := projection.NewRegistry()
	if cfg.Projection.Ref != "" {
		if err := registry.Register(cfg.Projection.Ref, cfg.Projection.Proj4); err != nil {
			log.Fatalf("project CRS: %v", err)
		}
	}
	if cfg.Projection.LinearUnits {
		registry.UseLinearResolution()
	}

	// Phase 1: load the capabilities document.
	var caps *domain.Capabilities
	if cfg.WMS.URL != "" {
		client := wms.NewClient(cfg.WMS.URL,
			time.Duration(cfg.WMS.Timeout)*time.Second, cacheSvc, cfg.WMS.CacheTTL)
		caps, err = client.Fetch(ctx)
		if err != nil {
			// Startup must not fail on a missing document; transforms then
			// run with unvalidated axis order.
			slog.Warn("capabilities unavailable, axis order not validated", "error", err)
		}
	} else {
		slog.Warn("no wms.url configured, axis order not validated")
	}

	// Phase 2: reconcile before any transform is served.
	reconciler := usecases.NewReconcileService(registry, events)
	report := reconciler.Run(ctx, usecases.BuildReconcileInput(
		cfg.Projection.Ref, cfg.Projection.Proj4, caps))

	metrics.RegistryDefinitions.Set(float64(len(registry.Definitions())))

	deps := &http.Dependencies{
		Transforms:     usecases.NewTransformService(registry),
		Reconciliation: report,
		Capabilities:   caps,
		NATS:           nc,
		Cache:          cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024, // transforms carry tiny payloads
		AppName:      "geobridge API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "reconciliation", string(report.Outcome))
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
