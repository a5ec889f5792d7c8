package pathfinder

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Polygon is an obstacle on the board: an ordered ring of at least three
// vertices, edge i running from vertex i to vertex (i+1) mod n.
type Polygon struct {
	vertices []Point
	edges    []Segment
	bound    orb.Bound
}

// NewPolygon validates the ring and derives its edges. A trailing vertex equal
// to the first one is treated as an explicit ring closure and dropped.
func NewPolygon(vertices []Point) (Polygon, error) {
	vs := make([]Point, len(vertices))
	copy(vs, vertices)
	if len(vs) > 3 && vs[0] == vs[len(vs)-1] {
		vs = vs[:len(vs)-1]
	}

	if len(vs) < 3 {
		return Polygon{}, fmt.Errorf("%w: polygon has %d vertices, need at least 3", ErrInvalidBoard, len(vs))
	}

	n := len(vs)
	edges := make([]Segment, n)
	for i := 0; i < n; i++ {
		edges[i] = Segment{A: vs[i], B: vs[(i+1)%n]}
		if edges[i].A == edges[i].B {
			return Polygon{}, fmt.Errorf("%w: zero-length edge at vertex %d (%v)", ErrInvalidBoard, i, vs[i])
		}
	}

	ring := make(orb.Ring, 0, n)
	for _, v := range vs {
		ring = append(ring, v.Orb())
	}
	p := Polygon{vertices: vs, edges: edges, bound: ring.Bound()}

	// zero area relative to the size of the ring
	extent := p.bound.Max.X() - p.bound.Min.X() + p.bound.Max.Y() - p.bound.Min.Y()
	if math.Abs(p.Area()) <= Epsilon*extent*extent {
		return Polygon{}, fmt.Errorf("%w: polygon has zero area", ErrInvalidBoard)
	}
	if i, j, ok := p.selfIntersection(); ok {
		return Polygon{}, fmt.Errorf("%w: edges %d and %d intersect", ErrInvalidBoard, i, j)
	}

	return p, nil
}

// MustPolygon is NewPolygon for literal fixtures; it panics on invalid input.
func MustPolygon(vertices ...Point) Polygon {
	p, err := NewPolygon(vertices)
	if err != nil {
		panic(err)
	}
	return p
}

// selfIntersection looks for two edges that meet anywhere other than the
// vertex shared by neighbouring edges.
func (p Polygon) selfIntersection() (int, int, bool) {
	n := len(p.edges)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := ClassifySegments(p.edges[i], p.edges[j])
			adjacent := j == i+1 || (i == 0 && j == n-1)
			if adjacent {
				// Neighbours may only share their common vertex
				if c == Overlapping || c == Crossing {
					return i, j, true
				}
				continue
			}
			if c != Disjoint {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Vertices returns a copy of the vertex ring
func (p Polygon) Vertices() []Point {
	vs := make([]Point, len(p.vertices))
	copy(vs, p.vertices)
	return vs
}

// Edges returns the edges in traversal order
func (p Polygon) Edges() []Segment {
	return p.edges
}

// Bound is the polygon's bounding box
func (p Polygon) Bound() orb.Bound {
	return p.bound
}

// Area is the signed shoelace area: positive for counter-clockwise rings.
func (p Polygon) Area() float64 {
	var sum float64
	for _, e := range p.edges {
		sum += e.A.X*e.B.Y - e.B.X*e.A.Y
	}
	return sum / 2
}

func (p Polygon) IsClockwise() bool {
	return p.Area() < 0
}

// Centroid is the average of the vertices, used as a label anchor.
func (p Polygon) Centroid() Point {
	var c Point
	for _, v := range p.vertices {
		c.X += v.X
		c.Y += v.Y
	}
	n := float64(len(p.vertices))
	return Point{X: c.X / n, Y: c.Y / n}
}

// HasVertex reports whether v is exactly one of the polygon's vertices
func (p Polygon) HasVertex(v Point) bool {
	for _, w := range p.vertices {
		if w == v {
			return true
		}
	}
	return false
}

// Locate classifies point as outside, on the boundary of, or inside the polygon
func (p Polygon) Locate(point Point) Location {
	if !p.bound.Pad(Epsilon).Contains(point.Orb()) {
		return Outside
	}
	return PointInPolygon(point, p.vertices)
}

// Contains is true only for strictly interior points
func (p Polygon) Contains(point Point) bool {
	return p.Locate(point) == Inside
}

// Blocks reports whether s passes through the polygon's interior. Segments that
// only touch the boundary, run along an edge, or share an endpoint with a
// vertex do not block.
func (p Polygon) Blocks(s Segment) bool {
	if !p.bound.Pad(Epsilon).Intersects(s.Bound()) {
		return false
	}
	if s.A == s.B {
		return p.Contains(s.A)
	}

	for _, e := range p.edges {
		if ClassifySegments(s, e) == Crossing {
			return true
		}
	}

	// No proper crossings: the segment can only enter the interior between
	// two consecutive boundary contacts, which are its endpoints and the
	// vertices lying on it.
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	ts := []float64{0, 1}
	for _, v := range p.vertices {
		if PointOnSegment(v, s) {
			ts = append(ts, v.Sub(s.A).Dot(d)/lenSq)
		}
	}
	sort.Float64s(ts)

	for i := 1; i < len(ts); i++ {
		if ts[i]-ts[i-1] <= Epsilon {
			continue
		}
		mid := s.A.Lerp(s.B, (ts[i]+ts[i-1])/2)
		if p.Contains(mid) {
			return true
		}
	}
	return false
}
