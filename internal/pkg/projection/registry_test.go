package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

func TestNewRegistry_Builtins(t *testing.T) {
	reg := NewRegistry()
	for _, code := range []string{"EPSG:4326", "CRS:84", "EPSG:3857"} {
		if _, ok := reg.Lookup(code); !ok {
			t.Errorf("missing built-in %s", code)
		}
	}
}

func TestRegister_LastWriteWins(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("TEST:1", "+proj=longlat +datum=WGS84 +no_defs"); err != nil {
		t.Fatalf("register: %v", err)
	}
	before := len(reg.Definitions())
	if err := reg.Register("TEST:1", "+proj=webmerc +datum=WGS84 +units=m +no_defs"); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if got := len(reg.Definitions()); got != before {
		t.Errorf("re-registering grew the table: %d -> %d", before, got)
	}
	def, _ := reg.Lookup("TEST:1")
	if def.Params != "+proj=webmerc +datum=WGS84 +units=m +no_defs" {
		t.Errorf("lookup returned stale params %q", def.Params)
	}
}

func TestRegister_Invalid(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("TEST:BAD", "+proj=mystery"); err == nil {
		t.Error("expected error for unsupported projection")
	}
	if err := reg.Register("", "+proj=longlat +datum=WGS84"); err == nil {
		t.Error("expected error for empty code")
	}
	if _, ok := reg.Lookup("TEST:BAD"); ok {
		t.Error("failed registration must not be stored")
	}
}

func TestTransform_UnknownCRS(t *testing.T) {
	reg := NewRegistry()
	_, _, err := reg.Transform(0, 0, "EPSG:4326", "EPSG:99999")
	if !errors.Is(err, domain.ErrUnknownCRS) {
		t.Errorf("expected ErrUnknownCRS, got %v", err)
	}
	_, _, err = reg.Transform(0, 0, "EPSG:99999", "EPSG:4326")
	if !errors.Is(err, domain.ErrUnknownCRS) {
		t.Errorf("expected ErrUnknownCRS, got %v", err)
	}
}

func TestTransform_WebMercator(t *testing.T) {
	reg := NewRegistry()
	x, y, err := reg.Transform(180, 0, "EPSG:4326", "EPSG:3857")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if math.Abs(x-20037508.342789244) > 1 || math.Abs(y) > 1e-6 {
		t.Errorf("antimeridian maps to (%f, %f)", x, y)
	}

	lon, lat, err := reg.Transform(x, y, "EPSG:3857", "EPSG:4326")
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	// The engine normalizes the antimeridian, so either sign is valid.
	if math.Abs(math.Abs(lon)-180) > 1e-9 || math.Abs(lat) > 1e-9 {
		t.Errorf("roundtrip gave (%f, %f)", lon, lat)
	}
}

func TestTransform_ReversedAxisOrder(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("TEST:NEU", "+proj=longlat +datum=WGS84 +axis=neu +no_defs"); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Output in the reversed CRS is (lat, lon).
	a, b, err := reg.Transform(2, 48, "EPSG:4326", "TEST:NEU")
	if err != nil {
		t.Fatalf("forward: %v", err)
	}
	if math.Abs(a-48) > 1e-9 || math.Abs(b-2) > 1e-9 {
		t.Errorf("expected (48, 2), got (%f, %f)", a, b)
	}

	// Input from the reversed CRS is likewise (lat, lon).
	lon, lat, err := reg.Transform(48, 2, "TEST:NEU", "EPSG:4326")
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if math.Abs(lon-2) > 1e-9 || math.Abs(lat-48) > 1e-9 {
		t.Errorf("expected (2, 48), got (%f, %f)", lon, lat)
	}
}

func TestCommit_RebuildsTransformers(t *testing.T) {
	reg := NewRegistry()
	base := "+proj=longlat +datum=WGS84 +no_defs"
	if err := reg.Register("TEST:flip", base); err != nil {
		t.Fatalf("register: %v", err)
	}
	a, b, _ := reg.Transform(2, 48, "EPSG:4326", "TEST:flip")
	if math.Abs(a-2) > 1e-9 || math.Abs(b-48) > 1e-9 {
		t.Fatalf("pre-commit transform gave (%f, %f)", a, b)
	}

	if err := reg.Commit("TEST:flip", base+" +axis=neu"); err != nil {
		t.Fatalf("commit: %v", err)
	}
	def, _ := reg.Lookup("TEST:flip")
	if def.Orientation != domain.AxisNEU {
		t.Errorf("orientation after commit = %q", def.Orientation)
	}
	a, b, _ = reg.Transform(2, 48, "EPSG:4326", "TEST:flip")
	if math.Abs(a-48) > 1e-9 || math.Abs(b-2) > 1e-9 {
		t.Errorf("post-commit transform gave (%f, %f), want (48, 2)", a, b)
	}
}

func TestTransformExtent_Envelope(t *testing.T) {
	reg := NewRegistry()
	ext, err := reg.TransformExtent(domain.Extent{-5, 41, 10, 51}, "EPSG:4326", "EPSG:3857")
	if err != nil {
		t.Fatalf("transform extent: %v", err)
	}
	if ext[0] >= ext[2] || ext[1] >= ext[3] {
		t.Fatalf("degenerate envelope %v", ext)
	}
	if ext[0] >= 0 || ext[2] <= 0 {
		t.Errorf("envelope should straddle the prime meridian: %v", ext)
	}
}

func TestPointResolution_Geodesic(t *testing.T) {
	reg := NewRegistry()
	// At the equator a web mercator metre is close to a ground metre, up to
	// the spherical radius difference.
	res, err := reg.PointResolution("EPSG:3857", 0, 0, 100)
	if err != nil {
		t.Fatalf("point resolution: %v", err)
	}
	if math.Abs(res-100) > 1 {
		t.Errorf("equatorial resolution %f, want about 100", res)
	}

	// At 60 degrees north the same nominal resolution covers about half the
	// ground distance.
	_, y, _ := reg.Transform(0, 60, "EPSG:4326", "EPSG:3857")
	res, err = reg.PointResolution("EPSG:3857", 0, y, 100)
	if err != nil {
		t.Fatalf("point resolution: %v", err)
	}
	if math.Abs(res-50) > 2 {
		t.Errorf("resolution at 60N = %f, want about 50", res)
	}
}

func TestPointResolution_Linear(t *testing.T) {
	reg := NewRegistry()
	reg.UseLinearResolution()
	res, err := reg.PointResolution("EPSG:3857", 0, 8000000, 42)
	if err != nil {
		t.Fatalf("point resolution: %v", err)
	}
	if res != 42 {
		t.Errorf("linear resolution %f, want 42", res)
	}
}

func TestSetResolutionFunc(t *testing.T) {
	reg := NewRegistry()
	reg.SetResolutionFunc(func(code string, x, y, resolution float64) float64 {
		return resolution * 2
	})
	res, _ := reg.PointResolution("EPSG:4326", 0, 0, 10)
	if res != 20 {
		t.Errorf("custom resolution %f, want 20", res)
	}
}
