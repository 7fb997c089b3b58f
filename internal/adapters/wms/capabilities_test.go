package wms

import (
	"errors"
	"testing"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

const capabilities130 = `<?xml version="1.0" encoding="UTF-8"?>
<WMS_Capabilities version="1.3.0" xmlns="http://www.opengis.net/wms">
  <Service><Name>WMS</Name><Title>demo</Title></Service>
  <Capability>
    <Layer queryable="1">
      <Name>project</Name>
      <Title>Project map</Title>
      <CRS>EPSG:4326</CRS>
      <CRS>EPSG:3857</CRS>
      <CRS>EPSG:2154</CRS>
      <EX_GeographicBoundingBox>
        <westBoundLongitude>-5</westBoundLongitude>
        <eastBoundLongitude>10</eastBoundLongitude>
        <southBoundLatitude>41</southBoundLatitude>
        <northBoundLatitude>51</northBoundLatitude>
      </EX_GeographicBoundingBox>
      <BoundingBox CRS="EPSG:4326" minx="41" miny="-5" maxx="51" maxy="10"/>
      <BoundingBox CRS="EPSG:2154" minx="36000" miny="5980000" maxx="1130000" maxy="7160000"/>
    </Layer>
  </Capability>
</WMS_Capabilities>`

const capabilities111 = `<?xml version="1.0" encoding="UTF-8"?>
<WMT_MS_Capabilities version="1.1.1">
  <Service><Name>OGC:WMS</Name><Title>demo</Title></Service>
  <Capability>
    <Layer queryable="0">
      <Name>project</Name>
      <Title>Project map</Title>
      <SRS>EPSG:4326 EPSG:3857</SRS>
      <SRS>EPSG:2154</SRS>
      <LatLonBoundingBox minx="-5" miny="41" maxx="10" maxy="51"/>
      <BoundingBox SRS="EPSG:2154" minx="36000" miny="5980000" maxx="1130000" maxy="7160000"/>
    </Layer>
  </Capability>
</WMT_MS_Capabilities>`

func TestParseCapabilities_130(t *testing.T) {
	caps, err := ParseCapabilities([]byte(capabilities130))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if caps.Version != "1.3.0" {
		t.Errorf("version %q", caps.Version)
	}
	l := caps.Layer
	if l.Name != "project" || !l.Queryable {
		t.Errorf("layer %q queryable=%v", l.Name, l.Queryable)
	}
	if len(l.CRS) != 3 || l.CRS[2] != "EPSG:2154" {
		t.Errorf("crs list %v", l.CRS)
	}
	if l.GeographicExtent != (domain.Extent{-5, 41, 10, 51}) {
		t.Errorf("geographic extent %v", l.GeographicExtent)
	}
	if len(l.BoundingBoxes) != 2 {
		t.Fatalf("got %d boxes", len(l.BoundingBoxes))
	}
	boxes := l.BoxFor("EPSG:2154")
	if len(boxes) != 1 {
		t.Fatalf("got %d boxes for EPSG:2154", len(boxes))
	}
	if boxes[0].Extent != (domain.Extent{36000, 5980000, 1130000, 7160000}) {
		t.Errorf("box extent %v", boxes[0].Extent)
	}
}

func TestParseCapabilities_111(t *testing.T) {
	caps, err := ParseCapabilities([]byte(capabilities111))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if caps.Version != "1.1.1" {
		t.Errorf("version %q", caps.Version)
	}
	l := caps.Layer
	if l.Queryable {
		t.Error("queryable should be false")
	}
	// Space-separated SRS elements flatten into individual codes.
	if len(l.CRS) != 3 || l.CRS[0] != "EPSG:4326" || l.CRS[1] != "EPSG:3857" {
		t.Errorf("crs list %v", l.CRS)
	}
	if l.GeographicExtent != (domain.Extent{-5, 41, 10, 51}) {
		t.Errorf("geographic extent %v", l.GeographicExtent)
	}
	if len(l.BoundingBoxes) != 1 || l.BoundingBoxes[0].CRS != "EPSG:2154" {
		t.Errorf("boxes %v", l.BoundingBoxes)
	}
}

func TestParseCapabilities_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not xml", "{}"},
		{"no root layer", `<WMS_Capabilities version="1.3.0"><Capability/></WMS_Capabilities>`},
		{"no boxes", `<WMS_Capabilities version="1.3.0"><Capability><Layer><Name>p</Name>
			<EX_GeographicBoundingBox><westBoundLongitude>0</westBoundLongitude><eastBoundLongitude>1</eastBoundLongitude>
			<southBoundLatitude>0</southBoundLatitude><northBoundLatitude>1</northBoundLatitude></EX_GeographicBoundingBox>
			</Layer></Capability></WMS_Capabilities>`},
		{"no geographic extent", `<WMS_Capabilities version="1.3.0"><Capability><Layer><Name>p</Name>
			<BoundingBox CRS="EPSG:4326" minx="0" miny="0" maxx="1" maxy="1"/>
			</Layer></Capability></WMS_Capabilities>`},
		{"bad number", `<WMS_Capabilities version="1.3.0"><Capability><Layer><Name>p</Name>
			<EX_GeographicBoundingBox><westBoundLongitude>west</westBoundLongitude><eastBoundLongitude>1</eastBoundLongitude>
			<southBoundLatitude>0</southBoundLatitude><northBoundLatitude>1</northBoundLatitude></EX_GeographicBoundingBox>
			<BoundingBox CRS="EPSG:4326" minx="0" miny="0" maxx="1" maxy="1"/>
			</Layer></Capability></WMS_Capabilities>`},
	}
	for _, tt := range tests {
		_, err := ParseCapabilities([]byte(tt.payload))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		var perr *domain.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%s: error %v is not a ParseError", tt.name, err)
		}
	}
}
