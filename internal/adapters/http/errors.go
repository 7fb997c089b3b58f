package http

import "github.com/gofiber/fiber/v2"

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, unknown_crs, internal_error
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID. Server-side
// failures also go to the request-scoped log.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	if status >= 500 {
		LoggerFromCtx(c.UserContext()).Error("request failed", "code", code, "message", message)
	}
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errUnknownCRS returns a 400 error for transforms naming an unregistered
// code; this is a configuration bug on the caller's side, not a miss.
func errUnknownCRS(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "unknown_crs", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}
