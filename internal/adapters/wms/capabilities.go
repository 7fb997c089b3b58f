package wms

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/aldasoro/geobridge/internal/core/domain"
)

// Wire structs for the two capabilities dialects in the wild: WMS 1.3.0
// (CRS elements, EX_GeographicBoundingBox) and WMS 1.1.x (SRS elements,
// LatLonBoundingBox). Attribute values are kept as strings so malformed
// numbers surface as ParseError instead of a decoder error.

type capabilitiesDoc struct {
	XMLName    xml.Name
	Version    string `xml:"version,attr"`
	Capability struct {
		Layer *layerEl `xml:"Layer"`
	} `xml:"Capability"`
}

type layerEl struct {
	Queryable string       `xml:"queryable,attr"`
	Name      string       `xml:"Name"`
	Title     string       `xml:"Title"`
	CRS       []string     `xml:"CRS"`
	SRS       []string     `xml:"SRS"`
	GeoBox    *geoBoxEl    `xml:"EX_GeographicBoundingBox"`
	LatLonBox *latLonBoxEl `xml:"LatLonBoundingBox"`
	Boxes     []boxEl      `xml:"BoundingBox"`
}

type geoBoxEl struct {
	West  string `xml:"westBoundLongitude"`
	East  string `xml:"eastBoundLongitude"`
	South string `xml:"southBoundLatitude"`
	North string `xml:"northBoundLatitude"`
}

type latLonBoxEl struct {
	MinX string `xml:"minx,attr"`
	MinY string `xml:"miny,attr"`
	MaxX string `xml:"maxx,attr"`
	MaxY string `xml:"maxy,attr"`
}

type boxEl struct {
	CRS  string `xml:"CRS,attr"`
	SRS  string `xml:"SRS,attr"`
	MinX string `xml:"minx,attr"`
	MinY string `xml:"miny,attr"`
	MaxX string `xml:"maxx,attr"`
	MaxY string `xml:"maxy,attr"`
}

// ParseCapabilities parses a raw capabilities payload into the typed model.
// It is a pure parse with no side effects. A structurally malformed document
// (missing root layer, missing bounding boxes, missing geographic extent,
// malformed numbers) yields a domain.ParseError.
func ParseCapabilities(payload []byte) (*domain.Capabilities, error) {
	var doc capabilitiesDoc
	if err := xml.Unmarshal(payload, &doc); err != nil {
		return nil, domain.NewParseError("not a capabilities document: %v", err)
	}

	root := doc.Capability.Layer
	if root == nil {
		return nil, domain.NewParseError("missing root layer")
	}
	if len(root.Boxes) == 0 {
		return nil, domain.NewParseError("root layer has no bounding boxes")
	}

	layer := domain.Layer{
		Name:      root.Name,
		Title:     root.Title,
		Queryable: root.Queryable == "1" || strings.EqualFold(root.Queryable, "true"),
		CRS:       crsList(root),
	}

	geo, err := geographicExtent(root)
	if err != nil {
		return nil, err
	}
	layer.GeographicExtent = geo

	for _, b := range root.Boxes {
		crs := b.CRS
		if crs == "" {
			crs = b.SRS
		}
		ext, err := extentOf(b.MinX, b.MinY, b.MaxX, b.MaxY)
		if err != nil {
			return nil, err
		}
		layer.BoundingBoxes = append(layer.BoundingBoxes, domain.BoundingBox{
			CRS:    crs,
			Extent: ext,
		})
	}

	return &domain.Capabilities{Version: doc.Version, Layer: layer}, nil
}

// crsList merges the advertised CRS codes. WMS 1.1.x servers sometimes pack
// several codes into one space-separated SRS element.
func crsList(root *layerEl) []string {
	var codes []string
	codes = append(codes, root.CRS...)
	for _, srs := range root.SRS {
		codes = append(codes, strings.Fields(srs)...)
	}
	return codes
}

// geographicExtent returns the root layer's ground-truth extent in canonical
// lon/lat order, from whichever dialect element is present.
func geographicExtent(root *layerEl) (domain.Extent, error) {
	switch {
	case root.GeoBox != nil:
		return extentOf(root.GeoBox.West, root.GeoBox.South, root.GeoBox.East, root.GeoBox.North)
	case root.LatLonBox != nil:
		// LatLonBoundingBox attributes are lon/lat despite the element name.
		return extentOf(root.LatLonBox.MinX, root.LatLonBox.MinY, root.LatLonBox.MaxX, root.LatLonBox.MaxY)
	default:
		return domain.Extent{}, domain.NewParseError("root layer has no geographic bounding box")
	}
}

func extentOf(vals ...string) (domain.Extent, error) {
	var ext domain.Extent
	for i, raw := range vals {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return domain.Extent{}, domain.NewParseError("malformed extent value %q", raw)
		}
		ext[i] = v
	}
	return ext, nil
}
