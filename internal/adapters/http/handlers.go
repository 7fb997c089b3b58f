package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

// TransformPointResponse is the payload returned by the point transform.
type TransformPointResponse struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	From string  `json:"from"`
	To   string  `json:"to"`
}

// TransformPointHandler transforms a point between two CRS codes.
// Zero is a valid coordinate, so presence is checked before parsing.
func TransformPointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		x, err := queryFloat(c, "x")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		y, err := queryFloat(c, "y")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		from := c.Query("from")
		to := c.Query("to")
		if from == "" || to == "" {
			return errBadRequest(c, "from and to are required")
		}

		ox, oy, err := deps.Transforms.Point(x, y, from, to)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownCRS) {
				return errUnknownCRS(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(TransformPointResponse{X: ox, Y: oy, From: from, To: to})
	}
}

// TransformExtentRequest is the body accepted by the extent transform.
type TransformExtentRequest struct {
	Extent domain.Extent `json:"extent"`
	From   string        `json:"from"`
	To     string        `json:"to"`
}

// TransformExtentResponse is the payload returned by the extent transform.
type TransformExtentResponse struct {
	Extent domain.Extent `json:"extent"`
	From   string        `json:"from"`
	To     string        `json:"to"`
}

// TransformExtentHandler transforms a rectangular extent between two CRS codes.
func TransformExtentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TransformExtentRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body: "+err.Error())
		}
		if req.From == "" || req.To == "" {
			return errBadRequest(c, "from and to are required")
		}
		if !req.Extent.Finite() {
			return errBadRequest(c, "extent values must be finite")
		}

		out, err := deps.Transforms.Extent(req.Extent, req.From, req.To)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownCRS) {
				return errUnknownCRS(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		return c.JSON(TransformExtentResponse{Extent: out, From: req.From, To: req.To})
	}
}

// ListProjectionsHandler returns every registered CRS definition.
func ListProjectionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(deps.Transforms.Definitions())
	}
}

// GetProjectionHandler returns a single CRS definition.
func GetProjectionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if code == "" {
			return errBadRequest(c, "crs code is required")
		}
		def, ok := deps.Transforms.Definition(code)
		if !ok {
			return errNotFound(c, "projection not registered: "+code)
		}
		return c.JSON(def)
	}
}

// PointResolutionHandler returns the ground resolution at a point.
func PointResolutionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		x, err := queryFloat(c, "x")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		y, err := queryFloat(c, "y")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		res, err := queryFloat(c, "resolution")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		out, err := deps.Transforms.PointResolution(code, x, y, res)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownCRS) {
				return errUnknownCRS(c, err.Error())
			}
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{
			"code":       code,
			"resolution": out,
		})
	}
}

// CapabilitiesHandler returns the parsed capabilities summary loaded at startup.
func CapabilitiesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Capabilities == nil {
			return errNotFound(c, "no capabilities document loaded")
		}
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(deps.Capabilities)
	}
}

// ReconciliationHandler reports the startup reconciliation outcome.
func ReconciliationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Reconciliation == nil {
			return errNotFound(c, "reconciliation has not run")
		}
		return c.JSON(deps.Reconciliation)
	}
}

func queryFloat(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, errors.New(key + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(key + " must be a number")
	}
	return v, nil
}
