package projection

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"

	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/aldasoro/geobridge/internal/pkg/geospatial"
)

// ResolutionFunc computes the ground resolution at a point for a CRS, given
// the nominal map resolution in CRS units.
type ResolutionFunc func(code string, x, y, resolution float64) float64

// compiled pairs a definition with its transform functions to and from the
// geographic reference CRS.
type compiled struct {
	def     domain.Definition
	toGeo   wgs84.Func
	fromGeo wgs84.Func
}

// Registry is the process-wide table of CRS definitions and their compiled
// transformers.
//
// Ownership contract: the registry is populated and patched during startup
// (Register/Commit) before any reader runs; after startup it is read-only.
// That ordering is the synchronization mechanism, so no locking is done here.
type Registry struct {
	defs       map[string]*compiled
	codes      []string // registration order, for deterministic rebuilds
	resolution ResolutionFunc
}

// builtinDefs are registered by NewRegistry so the geographic reference CRS
// and web mercator are always available.
var builtinDefs = []domain.Definition{
	{Code: "EPSG:4326", Params: "+proj=longlat +datum=WGS84 +no_defs"},
	{Code: "CRS:84", Params: "+proj=longlat +datum=WGS84 +no_defs"},
	{Code: "EPSG:3857", Params: "+proj=webmerc +datum=WGS84 +units=m +no_defs"},
}

// NewRegistry creates a registry pre-populated with the built-in definitions.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]*compiled)}
	for _, d := range builtinDefs {
		if err := r.Register(d.Code, d.Params); err != nil {
			// Built-in parameter strings are constants; a failure here is a
			// programming error.
			panic(fmt.Sprintf("projection: built-in %s: %v", d.Code, err))
		}
	}
	return r
}

// Register parses params and stores a definition for code, overwriting any
// prior entry. Last write wins.
func (r *Registry) Register(code, params string) error {
	if code == "" {
		return fmt.Errorf("projection: empty CRS code")
	}
	c, err := compile(code, params)
	if err != nil {
		return err
	}
	if _, exists := r.defs[code]; !exists {
		r.codes = append(r.codes, code)
	}
	r.defs[code] = c
	return nil
}

// Lookup returns the active definition for code.
func (r *Registry) Lookup(code string) (domain.Definition, bool) {
	c, ok := r.defs[code]
	if !ok {
		return domain.Definition{}, false
	}
	return c.def, true
}

// Definitions returns every active definition in registration order.
func (r *Registry) Definitions() []domain.Definition {
	out := make([]domain.Definition, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.defs[code].def)
	}
	return out
}

// Commit atomically replaces the definition for code and rebuilds every
// compiled transformer from the definitions table. Derived objects cache
// axis orientation, so any register that changes an axis property must go
// through Commit.
func (r *Registry) Commit(code, params string) error {
	if err := r.Register(code, params); err != nil {
		return err
	}
	return r.rebuild()
}

// rebuild recompiles all definitions from their parameter strings, discarding
// every previously derived transformer.
func (r *Registry) rebuild() error {
	fresh := make(map[string]*compiled, len(r.codes))
	for _, code := range r.codes {
		c, err := compile(code, r.defs[code].def.Params)
		if err != nil {
			return fmt.Errorf("projection: rebuild %s: %w", code, err)
		}
		fresh[code] = c
	}
	r.defs = fresh
	return nil
}

func compile(code, params string) (*compiled, error) {
	crs, orientation, err := Parse(params)
	if err != nil {
		return nil, fmt.Errorf("projection: %s: %w", code, err)
	}
	lonlat := wgs84.WGS84().LonLat()
	return &compiled{
		def:     domain.Definition{Code: code, Params: params, Orientation: orientation},
		toGeo:   wgs84.Transform(crs, lonlat),
		fromGeo: wgs84.Transform(lonlat, crs),
	}, nil
}

// Transform converts a point from src to dst. Input and output coordinates
// follow each CRS's declared axis order.
func (r *Registry) Transform(x, y float64, src, dst string) (float64, float64, error) {
	from, ok := r.defs[src]
	if !ok {
		return 0, 0, fmt.Errorf("projection: %q: %w", src, domain.ErrUnknownCRS)
	}
	to, ok := r.defs[dst]
	if !ok {
		return 0, 0, fmt.Errorf("projection: %q: %w", dst, domain.ErrUnknownCRS)
	}

	if from.def.Reversed() {
		x, y = y, x
	}
	lon, lat, _ := from.toGeo(x, y, 0)
	ox, oy, _ := to.fromGeo(lon, lat, 0)
	if to.def.Reversed() {
		ox, oy = oy, ox
	}
	if !finite(ox) || !finite(oy) {
		return 0, 0, fmt.Errorf("projection: transform %s -> %s produced a non-finite result", src, dst)
	}
	return ox, oy, nil
}

// TransformExtent converts a rectangular extent from src to dst by
// transforming all four corners and taking the axis-aligned envelope.
func (r *Registry) TransformExtent(ext domain.Extent, src, dst string) (domain.Extent, error) {
	corners := [4][2]float64{
		{ext[0], ext[1]},
		{ext[0], ext[3]},
		{ext[2], ext[1]},
		{ext[2], ext[3]},
	}
	out := domain.Extent{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, c := range corners {
		x, y, err := r.Transform(c[0], c[1], src, dst)
		if err != nil {
			return domain.Extent{}, err
		}
		out[0] = math.Min(out[0], x)
		out[1] = math.Min(out[1], y)
		out[2] = math.Max(out[2], x)
		out[3] = math.Max(out[3], y)
	}
	return out, nil
}

// PointResolution returns the ground resolution in meters at a point, given
// the nominal resolution in CRS units. The default measures a geodesic
// east-west segment of one resolution unit centered on the point; a custom
// function set via SetResolutionFunc (or UseLinearResolution) replaces it.
func (r *Registry) PointResolution(code string, x, y, resolution float64) (float64, error) {
	if r.resolution != nil {
		return r.resolution(code, x, y, resolution), nil
	}
	lon1, lat1, err := r.Transform(x-resolution/2, y, code, domain.GeographicCRS)
	if err != nil {
		return 0, err
	}
	lon2, lat2, err := r.Transform(x+resolution/2, y, code, domain.GeographicCRS)
	if err != nil {
		return 0, err
	}
	return geospatial.Haversine(lat1, lon1, lat2, lon2), nil
}

// SetResolutionFunc replaces the point-resolution computation.
func (r *Registry) SetResolutionFunc(fn ResolutionFunc) {
	r.resolution = fn
}

// UseLinearResolution disables geodesic distance correction: displayed scale
// values are taken directly from the nominal resolution.
func (r *Registry) UseLinearResolution() {
	r.resolution = func(_ string, _, _, resolution float64) float64 {
		return resolution
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
