package domain

// GeographicCRS is the fixed reference CRS with canonical lon/lat order.
// Capabilities documents declare their ground-truth extent in this CRS.
const GeographicCRS = "EPSG:4326"

// AxisOrientation describes the coordinate order of a CRS.
type AxisOrientation string

const (
	// AxisUnknown means the definition carries no explicit axis override.
	AxisUnknown AxisOrientation = ""
	// AxisENU is standard (east, north) order.
	AxisENU AxisOrientation = "enu"
	// AxisNEU is reversed (north, east) order.
	AxisNEU AxisOrientation = "neu"
)

// Definition is a registered coordinate reference system: an authority code
// plus the proj-style parameter string its transformer is compiled from.
type Definition struct {
	Code        string          `json:"code"`
	Params      string          `json:"params"`
	Orientation AxisOrientation `json:"orientation,omitempty"`
}

// Reversed reports whether coordinate pairs for this CRS are (north, east).
func (d Definition) Reversed() bool {
	return d.Orientation == AxisNEU
}
