package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// requestID returns the ID assigned by the requestid middleware, or "".
func requestID(c *fiber.Ctx) string {
	rid, _ := c.Locals("requestid").(string)
	return rid
}

// RequestIDLogMiddleware seeds the user context with a logger carrying the
// request ID, so lines emitted inside a handler join up with the access log.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := requestID(c)
		if rid == "" {
			return c.Next()
		}
		log := slog.Default().With("request_id", rid)
		c.SetUserContext(context.WithValue(c.UserContext(), loggerKey, log))
		return c.Next()
	}
}

// LoggerFromCtx returns the request-scoped logger, or the default logger
// outside a request scope.
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
