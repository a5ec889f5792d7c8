package pathfinder

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// polygonEntry wraps an obstacle for R-tree storage
type polygonEntry struct {
	index int
	bbox  rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (p *polygonEntry) Bounds() rtreego.Rect {
	return p.bbox
}

// SpatialIndex answers "which obstacles might a segment touch" queries
type SpatialIndex struct {
	tree     *rtreego.Rtree
	polygons []Polygon
}

// NewSpatialIndex creates a new spatial index over the board's obstacles
func NewSpatialIndex(polygons []Polygon) *SpatialIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for i, polygon := range polygons {
		bbox, err := boundToRect(polygon.Bound())
		if err != nil {
			continue
		}
		tree.Insert(&polygonEntry{index: i, bbox: bbox})
	}

	return &SpatialIndex{tree: tree, polygons: polygons}
}

// Candidates returns the obstacles whose bounding boxes intersect bound, in
// board order.
func (si *SpatialIndex) Candidates(bound orb.Bound) []Polygon {
	bbox, err := boundToRect(bound)
	if err != nil {
		return si.polygons
	}

	results := si.tree.SearchIntersect(bbox)
	hit := make([]bool, len(si.polygons))
	for _, item := range results {
		hit[item.(*polygonEntry).index] = true
	}

	polygons := make([]Polygon, 0, len(results))
	for i, ok := range hit {
		if ok {
			polygons = append(polygons, si.polygons[i])
		}
	}
	return polygons
}

// Len is the number of indexed obstacles
func (si *SpatialIndex) Len() int {
	return si.tree.Size()
}

// boundToRect converts an orb bound into an R-tree rectangle. rtreego rejects
// zero-length sides, so every box is padded by Epsilon.
func boundToRect(b orb.Bound) (rtreego.Rect, error) {
	b = b.Pad(Epsilon)
	return rtreego.NewRect(
		rtreego.Point{b.Min[0], b.Min[1]},
		[]float64{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1]},
	)
}
