package projection

import (
	"math"
	"testing"

	"github.com/aldasoro/geobridge/internal/core/domain"
	"github.com/wroge/wgs84"
)

func TestParse_Orientation(t *testing.T) {
	tests := []struct {
		params string
		want   domain.AxisOrientation
	}{
		{"+proj=longlat +datum=WGS84 +no_defs", domain.AxisUnknown},
		{"+proj=longlat +datum=WGS84 +axis=enu +no_defs", domain.AxisENU},
		{"+proj=longlat +datum=WGS84 +axis=neu +no_defs", domain.AxisNEU},
	}
	for _, tt := range tests {
		_, got, err := Parse(tt.params)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.params, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) orientation = %q, want %q", tt.params, got, tt.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params string
	}{
		{"missing proj", "+datum=WGS84 +no_defs"},
		{"bare token", "proj=longlat"},
		{"unknown projection", "+proj=sinu +datum=WGS84"},
		{"unknown ellipsoid", "+proj=tmerc +ellps=unobtanium"},
		{"unsupported axis", "+proj=longlat +datum=WGS84 +axis=wnu"},
		{"bad towgs84", "+proj=longlat +ellps=bessel +towgs84=1,2"},
		{"non-numeric lon_0", "+proj=tmerc +lon_0=east +ellps=WGS84"},
		{"utm zone out of range", "+proj=utm +zone=61 +datum=WGS84"},
		{"non-metric units", "+proj=tmerc +lon_0=0 +ellps=WGS84 +units=us-ft"},
	}
	for _, tt := range tests {
		if _, _, err := Parse(tt.params); err == nil {
			t.Errorf("%s: Parse(%q) succeeded, want error", tt.name, tt.params)
		}
	}
}

func TestOrientation_MalformedParams(t *testing.T) {
	if got := Orientation("not a proj string"); got != domain.AxisUnknown {
		t.Errorf("Orientation on garbage = %q, want unknown", got)
	}
}

// roundtrip projects a lon/lat point through crs and back, returning the
// maximum coordinate error in degrees.
func roundtrip(t *testing.T, params string, lon, lat float64) float64 {
	t.Helper()
	crs, _, err := Parse(params)
	if err != nil {
		t.Fatalf("Parse(%q): %v", params, err)
	}
	lonlat := wgs84.WGS84().LonLat()
	x, y, _ := wgs84.Transform(lonlat, crs)(lon, lat, 0)
	lon2, lat2, _ := wgs84.Transform(crs, lonlat)(x, y, 0)
	return math.Max(math.Abs(lon2-lon), math.Abs(lat2-lat))
}

func TestParse_Roundtrips(t *testing.T) {
	tests := []struct {
		name     string
		params   string
		lon, lat float64
		tol      float64
	}{
		{"transverse mercator", "+proj=tmerc +lat_0=38 +lon_0=127 +k=1 +x_0=200000 +y_0=600000 +ellps=GRS80 +units=m +no_defs", 127.1, 37.5, 1e-6},
		{"utm north", "+proj=utm +zone=31 +datum=WGS84 +units=m +no_defs", 3.2, 48.8, 1e-6},
		{"utm south", "+proj=utm +zone=33 +south +ellps=WGS84 +units=m +no_defs", 15.0, -33.9, 1e-6},
		{"lambert conformal conic", "+proj=lcc +lat_1=49 +lat_2=44 +lat_0=46.5 +lon_0=3 +x_0=700000 +y_0=6600000 +ellps=GRS80 +units=m +no_defs", 2.35, 48.85, 1e-6},
		// Datum-shifted roundtrips pass through the geocentric legs twice
		// and accumulate metre-level error; tolerate about 10 m.
		{"datum shift", "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 +units=m +no_defs", -0.12, 51.5, 1e-4},
	}
	for _, tt := range tests {
		if err := roundtrip(t, tt.params, tt.lon, tt.lat); err > tt.tol {
			t.Errorf("%s: roundtrip error %g degrees", tt.name, err)
		}
	}
}

func TestParse_TmercFalseOrigin(t *testing.T) {
	crs, _, err := Parse("+proj=tmerc +lat_0=38 +lon_0=127 +k=1 +x_0=200000 +y_0=600000 +ellps=GRS80 +units=m +no_defs")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	x, y, _ := wgs84.Transform(wgs84.WGS84().LonLat(), crs)(127, 38, 0)
	if math.Abs(x-200000) > 1e-3 || math.Abs(y-600000) > 1e-3 {
		t.Errorf("natural origin maps to (%f, %f), want false origin", x, y)
	}
}

func TestParse_LCCDefaultSecondParallel(t *testing.T) {
	one, _, err := Parse("+proj=lcc +lat_1=45 +lat_0=45 +lon_0=0 +ellps=WGS84 +units=m +no_defs")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	both, _, err := Parse("+proj=lcc +lat_1=45 +lat_2=45 +lat_0=45 +lon_0=0 +ellps=WGS84 +units=m +no_defs")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	lonlat := wgs84.WGS84().LonLat()
	x1, y1, _ := wgs84.Transform(lonlat, one)(4, 46, 0)
	x2, y2, _ := wgs84.Transform(lonlat, both)(4, 46, 0)
	if x1 != x2 || y1 != y2 {
		t.Errorf("single-parallel form diverges from explicit lat_2: (%f,%f) vs (%f,%f)", x1, y1, x2, y2)
	}
}

func TestParseTowgs84_ThreeParameter(t *testing.T) {
	shift, err := parseTowgs84("-146.414,507.337,680.507")
	if err != nil {
		t.Fatalf("parseTowgs84: %v", err)
	}
	if shift.tx != -146.414 || shift.rz != 0 || shift.ds != 0 {
		t.Errorf("unexpected shift %+v", shift)
	}
}

func TestHelmert_Involution(t *testing.T) {
	h := helmert{446.448, -125.157, 542.06, 0.15, 0.247, 0.842, -20.489}
	x, y, z := 3980000.0, -8000.0, 4970000.0
	x2, y2, z2 := h.Inverse(h.Forward(x, y, z))
	// The transposed rotation is the first-order inverse; sub-millimetre
	// residual at arc-second magnitudes.
	for _, d := range []float64{x2 - x, y2 - y, z2 - z} {
		if math.Abs(d) > 1e-3 {
			t.Fatalf("shift roundtrip error %g m", d)
		}
	}
}

func TestParse_CustomEllipsoid(t *testing.T) {
	if err := roundtrip(t, "+proj=longlat +a=6378137 +rf=298.257223563 +no_defs", 10, 50); err > 1e-9 {
		t.Errorf("+a/+rf roundtrip error %g", err)
	}
	if err := roundtrip(t, "+proj=longlat +a=6378160 +b=6356774.719 +no_defs", 10, 50); err > 1e-9 {
		t.Errorf("+a/+b roundtrip error %g", err)
	}
}
