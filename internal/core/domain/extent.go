package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// Extent is a rectangular extent [minA, minB, maxA, maxB].
// For geographic extents the order is canonical lon/lat:
// [west, south, east, north].
type Extent [4]float64

// Bound converts the extent to an orb bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{e[0], e[1]},
		Max: orb.Point{e[2], e[3]},
	}
}

// Intersects reports whether two axis-aligned extents overlap on both axes.
func (e Extent) Intersects(other Extent) bool {
	return e.Bound().Intersects(other.Bound())
}

// SwapAxes returns the extent with its coordinate pairs swapped,
// i.e. [minB, minA, maxB, maxA].
func (e Extent) SwapAxes() Extent {
	return Extent{e[1], e[0], e[3], e[2]}
}

// Finite reports whether all four values are finite numbers.
func (e Extent) Finite() bool {
	for _, v := range e {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// BoundingBox is a CRS-tagged extent advertised by a capabilities document.
// The semantic order of its four values (east/north vs north/east) depends on
// the axis orientation of CRS, which is unknown until reconciliation has run.
type BoundingBox struct {
	CRS    string `json:"crs"`
	Extent Extent `json:"extent"`
}
