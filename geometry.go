package pathfinder

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Epsilon is the tolerance shared by every geometric predicate in the package.
// Orientation and the zero-area check apply it relative to the lengths
// involved, so they behave the same at any coordinate scale. On-segment
// bounds, collinear overlap and bound padding apply it as an absolute length:
// features narrower than about 1e3*Epsilon (1e-6 units) are not supported.
// Vertex identity is still exact equality on Point.
const Epsilon = 1e-9

// Point is a location on the board
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vector is a displacement between two points
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add moves the point by v
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from other to p
func (p Point) Sub(other Point) Vector {
	return Vector{X: p.X - other.X, Y: p.Y - other.Y}
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	return planar.Distance(p.Orb(), other.Orb())
}

// Lerp returns the point at parameter t on the segment p->other
func (p Point) Lerp(other Point, t float64) Point {
	return Point{X: p.X + (other.X-p.X)*t, Y: p.Y + (other.Y-p.Y)*t}
}

// Orb converts the point for use with the orb geometry packages
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Cross is the z component of the 3D cross product
func (v Vector) Cross(other Vector) float64 {
	return v.X*other.Y - v.Y*other.X
}

func (v Vector) Dot(other Vector) float64 {
	return v.X*other.X + v.Y*other.Y
}

func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

func (v Vector) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Segment represents a line segment between two points
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

func (s Segment) Len() float64 {
	return s.A.Distance(s.B)
}

func (s Segment) Midpoint() Point {
	return s.A.Lerp(s.B, 0.5)
}

// Bound is the axis-aligned bounding box of the segment
func (s Segment) Bound() orb.Bound {
	return orb.MultiPoint{s.A.Orb(), s.B.Orb()}.Bound()
}

// Turn is the result of the orientation predicate
type Turn int

const (
	Collinear Turn = iota
	Clockwise
	CounterClockwise
)

func (t Turn) String() string {
	switch t {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counter-clockwise"
	default:
		return "collinear"
	}
}

// Orientation reports how the path a->b->c turns, using the sign of the cross
// product (b-a) x (c-a). The triple is collinear when the sine of the angle
// at a is within Epsilon.
func Orientation(a, b, c Point) Turn {
	ab, ac := b.Sub(a), c.Sub(a)
	cross := ab.Cross(ac)
	tolerance := Epsilon * ab.Len() * ac.Len()
	switch {
	case cross > tolerance:
		return CounterClockwise
	case cross < -tolerance:
		return Clockwise
	default:
		return Collinear
	}
}

// Contact classifies how two segments meet
type Contact int

const (
	// Disjoint segments share no point.
	Disjoint Contact = iota
	// Crossing segments meet at a single point interior to both.
	Crossing
	// Touching segments meet at a single point that is an endpoint of at
	// least one of them.
	Touching
	// Overlapping segments are collinear and share more than one point.
	Overlapping
)

func (c Contact) String() string {
	switch c {
	case Crossing:
		return "crossing"
	case Touching:
		return "touching"
	case Overlapping:
		return "overlapping"
	default:
		return "disjoint"
	}
}

// ClassifySegments determines how s1 and s2 meet. The result does not depend
// on argument order.
func ClassifySegments(s1, s2 Segment) Contact {
	if s1.A == s1.B {
		if PointOnSegment(s1.A, s2) {
			return Touching
		}
		return Disjoint
	}
	if s2.A == s2.B {
		if PointOnSegment(s2.A, s1) {
			return Touching
		}
		return Disjoint
	}

	d1 := Orientation(s2.A, s2.B, s1.A)
	d2 := Orientation(s2.A, s2.B, s1.B)
	d3 := Orientation(s1.A, s1.B, s2.A)
	d4 := Orientation(s1.A, s1.B, s2.B)

	if d1 == Collinear && d2 == Collinear && d3 == Collinear && d4 == Collinear {
		return classifyCollinear(s1, s2)
	}

	if d1 != Collinear && d2 != Collinear && d1 != d2 &&
		d3 != Collinear && d4 != Collinear && d3 != d4 {
		return Crossing
	}

	// Check for an endpoint lying on the other segment
	if (d1 == Collinear && PointOnSegment(s1.A, s2)) ||
		(d2 == Collinear && PointOnSegment(s1.B, s2)) ||
		(d3 == Collinear && PointOnSegment(s2.A, s1)) ||
		(d4 == Collinear && PointOnSegment(s2.B, s1)) {
		return Touching
	}

	return Disjoint
}

// classifyCollinear projects both segments onto the direction of s1 and
// measures the shared interval.
func classifyCollinear(s1, s2 Segment) Contact {
	dir := s1.B.Sub(s1.A)
	length := dir.Len()
	unit := dir.Scale(1 / length)

	t0 := s2.A.Sub(s1.A).Dot(unit)
	t1 := s2.B.Sub(s1.A).Dot(unit)
	lo, hi := math.Min(t0, t1), math.Max(t0, t1)

	overlap := math.Min(hi, length) - math.Max(lo, 0)
	switch {
	case overlap > Epsilon:
		return Overlapping
	case overlap >= -Epsilon:
		return Touching
	default:
		return Disjoint
	}
}

// SegmentsIntersect is the inclusive test: true when p1p2 and p3p4 share any
// point, including a single shared endpoint.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	return ClassifySegments(Segment{p1, p2}, Segment{p3, p4}) != Disjoint
}

// SegmentsCross is the blocking test: true only when the interiors of p1p2 and
// p3p4 cross at a single point. Touching at an endpoint or running along each
// other does not count.
func SegmentsCross(p1, p2, p3, p4 Point) bool {
	return ClassifySegments(Segment{p1, p2}, Segment{p3, p4}) == Crossing
}

// PointOnSegment checks if point q lies on segment s
func PointOnSegment(q Point, s Segment) bool {
	if Orientation(s.A, s.B, q) != Collinear {
		return false
	}
	return q.X <= math.Max(s.A.X, s.B.X)+Epsilon && q.X >= math.Min(s.A.X, s.B.X)-Epsilon &&
		q.Y <= math.Max(s.A.Y, s.B.Y)+Epsilon && q.Y >= math.Min(s.A.Y, s.B.Y)-Epsilon
}

// Location is the result of a point-in-polygon test
type Location int

const (
	Outside Location = iota
	Boundary
	Inside
)

func (l Location) String() string {
	switch l {
	case Boundary:
		return "boundary"
	case Inside:
		return "inside"
	default:
		return "outside"
	}
}

// PointInPolygon locates point relative to the closed ring of vertices. Points
// on an edge are Boundary; otherwise a horizontal ray to the right is cast and
// edge crossings are counted.
func PointInPolygon(point Point, vertices []Point) Location {
	n := len(vertices)
	if n < 3 {
		return Outside
	}

	for i := 0; i < n; i++ {
		if PointOnSegment(point, Segment{vertices[i], vertices[(i+1)%n]}) {
			return Boundary
		}
	}

	count := 0
	for i := 0; i < n; i++ {
		v1 := vertices[i]
		v2 := vertices[(i+1)%n]

		// Check if the ray from point to the right intersects the edge
		if (v1.Y > point.Y) != (v2.Y > point.Y) {
			slope := (point.X-v1.X)*(v2.Y-v1.Y) - (v2.X-v1.X)*(point.Y-v1.Y)
			if v2.Y > v1.Y {
				if slope < 0 {
					count++
				}
			} else {
				if slope > 0 {
					count++
				}
			}
		}
	}

	if count%2 == 1 {
		return Inside
	}
	return Outside
}
