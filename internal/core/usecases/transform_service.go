package usecases

import (
	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/pkg/metrics"
	"github.com/aldasoro/geobridge/internal/pkg/projection"
)

// TransformService is the coordinate-transform façade: a thin pass-through
// over the current registry state. It must only be used after reconciliation
// has run; until then results for the project CRS are unspecified.
type TransformService struct {
	registry *projection.Registry
}

// NewTransformService creates a TransformService.
func NewTransformService(registry *projection.Registry) *TransformService {
	return &TransformService{registry: registry}
}

// Point transforms a point between two registered CRS codes.
func (s *TransformService) Point(x, y float64, src, dst string) (float64, float64, error) {
	ox, oy, err := s.registry.Transform(x, y, src, dst)
	if err != nil {
		metrics.TransformErrors.WithLabelValues("point").Inc()
		return 0, 0, err
	}
	metrics.Transforms.WithLabelValues("point").Inc()
	return ox, oy, nil
}

// Extent transforms a rectangular extent between two registered CRS codes.
func (s *TransformService) Extent(ext domain.Extent, src, dst string) (domain.Extent, error) {
	out, err := s.registry.TransformExtent(ext, src, dst)
	if err != nil {
		metrics.TransformErrors.WithLabelValues("extent").Inc()
		return domain.Extent{}, err
	}
	metrics.Transforms.WithLabelValues("extent").Inc()
	return out, nil
}

// PointResolution returns the ground resolution at a point for a CRS.
func (s *TransformService) PointResolution(code string, x, y, resolution float64) (float64, error) {
	return s.registry.PointResolution(code, x, y, resolution)
}

// Definitions lists every active CRS definition.
func (s *TransformService) Definitions() []domain.Definition {
	return s.registry.Definitions()
}

// Definition returns the active definition for a code.
func (s *TransformService) Definition(code string) (domain.Definition, bool) {
	return s.registry.Lookup(code)
}
