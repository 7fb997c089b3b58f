package projection

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/wroge/wgs84"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

// spheroid adapts ellipsoid constants to the transform engine.
type spheroid struct {
	a, fi float64
}

func (s spheroid) A() float64 {
	return s.a
}
func (s spheroid) Fi() float64 {
	return s.fi
}

// ellipsoids maps proj +ellps names to semi-major axis and inverse flattening.
var ellipsoids = map[string]spheroid{
	"WGS84":  {6378137, 298.257223563},
	"GRS80":  {6378137, 298.257222101},
	"bessel": {6377397.155, 299.1528128},
	"clrk66": {6378206.4, 294.978698214},
	"intl":   {6378388, 297},
	"krass":  {6378245, 298.3},
	"airy":   {6377563.396, 299.3249646},
}

// helmert is a 7-parameter datum shift (position vector convention):
// translations in metres, rotations in arc-seconds, scale in ppm. It
// implements wgs84.Transformation on geocentric coordinates; Forward maps
// the local datum to WGS84, which is the +towgs84 direction.
type helmert struct {
	tx, ty, tz, rx, ry, rz, ds float64
}

const asToRad = math.Pi / 648000

func (h helmert) Forward(x, y, z float64) (float64, float64, float64) {
	s := 1 + h.ds*1e-6
	rx, ry, rz := h.rx*asToRad, h.ry*asToRad, h.rz*asToRad
	return h.tx + s*(x-rz*y+ry*z),
		h.ty + s*(rz*x+y-rx*z),
		h.tz + s*(-ry*x+rx*y+z)
}

// Inverse reverses the rotation with the transposed matrix, the usual
// first-order reversal at arc-second magnitudes.
func (h helmert) Inverse(x0, y0, z0 float64) (float64, float64, float64) {
	s := 1 + h.ds*1e-6
	rx, ry, rz := h.rx*asToRad, h.ry*asToRad, h.rz*asToRad
	x, y, z := x0-h.tx, y0-h.ty, z0-h.tz
	return (x + rz*y - ry*z) / s,
		(-rz*x + y + rx*z) / s,
		(ry*x - rx*y + z) / s
}

// Parse compiles a proj-style parameter string into a coordinate reference
// system for the transform engine and reports the declared axis orientation
// (absent +axis token means unknown).
func Parse(params string) (wgs84.CoordinateReferenceSystem, domain.AxisOrientation, error) {
	fields, err := tokenize(params)
	if err != nil {
		return nil, domain.AxisUnknown, err
	}

	orientation := domain.AxisUnknown
	switch fields["axis"] {
	case "":
	case "enu":
		orientation = domain.AxisENU
	case "neu":
		orientation = domain.AxisNEU
	default:
		return nil, domain.AxisUnknown, fmt.Errorf("proj: unsupported axis order %q", fields["axis"])
	}

	d, err := datumOf(fields)
	if err != nil {
		return nil, domain.AxisUnknown, err
	}

	crs, err := projectionOf(d, fields)
	if err != nil {
		return nil, domain.AxisUnknown, err
	}
	return crs, orientation, nil
}

// Orientation extracts the axis orientation declared by a parameter string
// without compiling a transformer.
func Orientation(params string) domain.AxisOrientation {
	fields, err := tokenize(params)
	if err != nil {
		return domain.AxisUnknown
	}
	switch fields["axis"] {
	case "enu":
		return domain.AxisENU
	case "neu":
		return domain.AxisNEU
	default:
		return domain.AxisUnknown
	}
}

func tokenize(params string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, tok := range strings.Fields(params) {
		if !strings.HasPrefix(tok, "+") {
			return nil, fmt.Errorf("proj: malformed token %q", tok)
		}
		tok = strings.TrimPrefix(tok, "+")
		key, value, _ := strings.Cut(tok, "=")
		if key == "" {
			return nil, fmt.Errorf("proj: empty parameter name in %q", params)
		}
		fields[key] = value
	}
	if fields["proj"] == "" {
		return nil, fmt.Errorf("proj: missing +proj parameter")
	}
	return fields, nil
}

func datumOf(fields map[string]string) (wgs84.Datum, error) {
	sph := ellipsoids["WGS84"]
	switch {
	case fields["ellps"] != "":
		s, ok := ellipsoids[fields["ellps"]]
		if !ok {
			return wgs84.Datum{}, fmt.Errorf("proj: unknown ellipsoid %q", fields["ellps"])
		}
		sph = s
	case fields["datum"] != "":
		switch fields["datum"] {
		case "WGS84":
			sph = ellipsoids["WGS84"]
		case "NAD83":
			sph = ellipsoids["GRS80"]
		default:
			return wgs84.Datum{}, fmt.Errorf("proj: unknown datum %q", fields["datum"])
		}
	case fields["a"] != "":
		a, err := number(fields, "a", 0)
		if err != nil {
			return wgs84.Datum{}, err
		}
		switch {
		case fields["rf"] != "":
			rf, err := number(fields, "rf", 0)
			if err != nil {
				return wgs84.Datum{}, err
			}
			sph = spheroid{a: a, fi: rf}
		case fields["b"] != "":
			b, err := number(fields, "b", 0)
			if err != nil {
				return wgs84.Datum{}, err
			}
			if a == b {
				return wgs84.Datum{}, fmt.Errorf("proj: spherical +a=+b ellipsoids are not supported")
			}
			sph = spheroid{a: a, fi: a / (a - b)}
		default:
			return wgs84.Datum{}, fmt.Errorf("proj: +a requires +rf or +b")
		}
	}

	d := wgs84.Datum{Spheroid: sph}

	if tw := fields["towgs84"]; tw != "" {
		shift, err := parseTowgs84(tw)
		if err != nil {
			return wgs84.Datum{}, err
		}
		if shift != (helmert{}) {
			d.Transformation = shift
		}
	}
	return d, nil
}

func parseTowgs84(value string) (helmert, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 && len(parts) != 7 {
		return helmert{}, fmt.Errorf("proj: +towgs84 needs 3 or 7 values, got %d", len(parts))
	}
	vals := make([]float64, 7)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return helmert{}, fmt.Errorf("proj: invalid +towgs84 value %q", p)
		}
		vals[i] = v
	}
	return helmert{vals[0], vals[1], vals[2], vals[3], vals[4], vals[5], vals[6]}, nil
}

func projectionOf(d wgs84.Datum, fields map[string]string) (wgs84.CoordinateReferenceSystem, error) {
	if units := fields["units"]; units != "" && units != "m" {
		return nil, fmt.Errorf("proj: unsupported units %q", units)
	}

	switch fields["proj"] {
	case "longlat", "latlong", "lonlat", "latlon":
		return d.LonLat(), nil
	case "merc", "webmerc":
		return d.WebMercator(), nil
	case "tmerc":
		lon0, lat0, x0, y0, err := falseOrigin(fields)
		if err != nil {
			return nil, err
		}
		k, err := scaleFactor(fields)
		if err != nil {
			return nil, err
		}
		return d.TransverseMercator(lon0, lat0, k, x0, y0), nil
	case "utm":
		zone, err := number(fields, "zone", 0)
		if err != nil {
			return nil, err
		}
		if zone < 1 || zone > 60 || zone != math.Trunc(zone) {
			return nil, fmt.Errorf("proj: utm zone must be 1-60, got %v", fields["zone"])
		}
		y0 := 0.0
		if _, south := fields["south"]; south {
			y0 = 10000000
		}
		return d.TransverseMercator(zone*6-183, 0, 0.9996, 500000, y0), nil
	case "lcc":
		lon0, lat0, x0, y0, err := falseOrigin(fields)
		if err != nil {
			return nil, err
		}
		sp1, err := number(fields, "lat_1", lat0)
		if err != nil {
			return nil, err
		}
		sp2, err := number(fields, "lat_2", sp1)
		if err != nil {
			return nil, err
		}
		return d.LambertConformalConic2SP(lon0, lat0, sp1, sp2, x0, y0), nil
	default:
		return nil, fmt.Errorf("proj: unsupported projection %q", fields["proj"])
	}
}

func falseOrigin(fields map[string]string) (lon0, lat0, x0, y0 float64, err error) {
	if lon0, err = number(fields, "lon_0", 0); err != nil {
		return
	}
	if lat0, err = number(fields, "lat_0", 0); err != nil {
		return
	}
	if x0, err = number(fields, "x_0", 0); err != nil {
		return
	}
	y0, err = number(fields, "y_0", 0)
	return
}

func scaleFactor(fields map[string]string) (float64, error) {
	if fields["k_0"] != "" {
		return number(fields, "k_0", 1)
	}
	return number(fields, "k", 1)
}

func number(fields map[string]string, key string, def float64) (float64, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("proj: invalid +%s value %q", key, raw)
	}
	return v, nil
}
