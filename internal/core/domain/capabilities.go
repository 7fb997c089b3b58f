package domain

// Capabilities is the parsed server capabilities document for a project.
type Capabilities struct {
	Version string `json:"version"`
	Layer   Layer  `json:"layer"`
}

// Layer is the root layer of a capabilities document.
type Layer struct {
	Name             string        `json:"name"`
	Title            string        `json:"title,omitempty"`
	Queryable        bool          `json:"queryable"`
	CRS              []string      `json:"crs"`
	BoundingBoxes    []BoundingBox `json:"bounding_boxes"`
	GeographicExtent Extent        `json:"geographic_extent"`
}

// BoxFor returns the bounding boxes declared for the given CRS code,
// preserving document order.
func (l Layer) BoxFor(crs string) []BoundingBox {
	var boxes []BoundingBox
	for _, b := range l.BoundingBoxes {
		if b.CRS == crs {
			boxes = append(boxes, b)
		}
	}
	return boxes
}
