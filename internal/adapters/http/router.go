package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/aldasoro/geobridge/internal/pkg/metrics"
)

// SetupRoutes registers all REST routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 240 requests per minute per IP; transform calls are
	// cheap but the map client can burst them.
	app.Use(limiter.New(limiter.Config{
		Max:        240,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1, 10s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/projections", timeout.NewWithContext(ListProjectionsHandler(deps), 10*time.Second))
	v1.Get("/projections/:code/resolution", timeout.NewWithContext(PointResolutionHandler(deps), 10*time.Second))
	v1.Get("/projections/:code", timeout.NewWithContext(GetProjectionHandler(deps), 10*time.Second))
	v1.Get("/transform/point", timeout.NewWithContext(TransformPointHandler(deps), 10*time.Second))
	v1.Post("/transform/extent", timeout.NewWithContext(TransformExtentHandler(deps), 10*time.Second))
	v1.Get("/capabilities", timeout.NewWithContext(CapabilitiesHandler(deps), 10*time.Second))
	v1.Get("/reconciliation", timeout.NewWithContext(ReconciliationHandler(deps), 10*time.Second))
}
