package boardfile

import (
	"log"
	"math"

	"github.com/paulmach/orb"

	"pathfinder"
)

// PrepareOptions selects the clean-up passes run by Prepare
type PrepareOptions struct {
	// DropContained removes obstacles lying entirely inside another one.
	DropContained bool `json:"dropContained" yaml:"drop_contained"`
	// SimplifyEpsilon is the Douglas-Peucker tolerance; zero disables it.
	SimplifyEpsilon float64 `json:"simplifyEpsilon" yaml:"simplify_epsilon"`
}

// Prepare reduces the obstacle set before a board is built. Fewer vertices
// means fewer visibility checks; neither pass changes the free space except
// by at most SimplifyEpsilon along an obstacle boundary.
func Prepare(doc Document, opts PrepareOptions) Document {
	out := doc
	before := doc.VertexCount()

	if opts.SimplifyEpsilon > 0 {
		out.Obstacles = SimplifyRings(out.Obstacles, opts.SimplifyEpsilon)
	}
	if opts.DropContained {
		filtered := RemoveContained(out.Obstacles)
		log.Printf("obstacles after removing contained: %d (removed %d)\n",
			len(filtered), len(out.Obstacles)-len(filtered))
		out.Obstacles = filtered
	}

	log.Printf("obstacle vertices: %d -> %d\n", before, out.VertexCount())
	return out
}

// RemoveContained drops every ring that lies inside another ring. Of two
// identical rings the later one is kept.
func RemoveContained(rings [][]pathfinder.Point) [][]pathfinder.Point {
	if len(rings) <= 1 {
		return rings
	}

	bounds := make([]orb.Bound, len(rings))
	for i, r := range rings {
		bounds[i] = ringBound(r)
	}

	contained := make([]bool, len(rings))
	for i := range rings {
		if contained[i] {
			continue
		}
		for j := range rings {
			if i == j || contained[j] {
				continue
			}
			if isRingContainedIn(rings[i], bounds[i], rings[j], bounds[j]) {
				contained[i] = true
				break
			}
		}
	}

	result := make([][]pathfinder.Point, 0, len(rings))
	for i, r := range rings {
		if !contained[i] {
			result = append(result, r)
		}
	}
	return result
}

// isRingContainedIn reports whether ring a lies inside ring b, boundary
// contact allowed
func isRingContainedIn(a []pathfinder.Point, aBound orb.Bound, b []pathfinder.Point, bBound orb.Bound) bool {
	if len(a) == 0 || len(b) < 3 {
		return false
	}
	// Quick bounding box check first
	if !bBound.Contains(aBound.Min) || !bBound.Contains(aBound.Max) {
		return false
	}

	for _, v := range a {
		if pathfinder.PointInPolygon(v, b) == pathfinder.Outside {
			return false
		}
	}
	// every vertex inside is not enough for a concave container
	for i := range a {
		s := pathfinder.Segment{A: a[i], B: a[(i+1)%len(a)]}
		for j := range b {
			if pathfinder.SegmentsCross(s.A, s.B, b[j], b[(j+1)%len(b)]) {
				return false
			}
		}
		if pathfinder.PointInPolygon(s.Midpoint(), b) == pathfinder.Outside {
			return false
		}
	}
	return true
}

func ringBound(ring []pathfinder.Point) orb.Bound {
	r := make(orb.Ring, 0, len(ring))
	for _, v := range ring {
		r = append(r, v.Orb())
	}
	return r.Bound()
}

// SimplifyRings simplifies every ring, keeping the original wherever the
// simplified ring would no longer be a valid polygon
func SimplifyRings(rings [][]pathfinder.Point, epsilon float64) [][]pathfinder.Point {
	simplified := make([][]pathfinder.Point, len(rings))
	for i, r := range rings {
		s := SimplifyRing(r, epsilon)
		if _, err := pathfinder.NewPolygon(s); err != nil {
			s = r
		}
		simplified[i] = s
	}
	return simplified
}

// SimplifyRing reduces a closed ring with the Douglas-Peucker algorithm. The
// ring is returned unchanged when fewer than three vertices would remain.
func SimplifyRing(ring []pathfinder.Point, epsilon float64) []pathfinder.Point {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n <= 3 || epsilon <= 0 {
		return ring
	}
	open := ring[:n]

	// Split at the vertex farthest from the first so the two chains are
	// simplified independently and the anchor vertices survive.
	far, dmax := 0, -1.0
	for i, v := range open {
		if d := open[0].Distance(v); d > dmax {
			far, dmax = i, d
		}
	}

	closed := append(append(make([]pathfinder.Point, 0, n+1), open...), open[0])
	left := douglasPeucker(closed[:far+1], epsilon)
	right := douglasPeucker(closed[far:], epsilon)

	// Combine results, dropping the shared split vertex and the closing vertex
	simplified := make([]pathfinder.Point, 0, len(left)+len(right))
	simplified = append(simplified, left[:len(left)-1]...)
	simplified = append(simplified, right[:len(right)-1]...)
	if len(simplified) < 3 {
		return ring
	}
	return simplified
}

// douglasPeucker implements the Douglas-Peucker line simplification algorithm
func douglasPeucker(points []pathfinder.Point, epsilon float64) []pathfinder.Point {
	if len(points) <= 2 {
		return points
	}

	// Find the point with maximum distance from line between first and last
	dmax := 0.0
	index := 0
	end := len(points) - 1

	for i := 1; i < end; i++ {
		d := perpendicularDistance(points[i], points[0], points[end])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax > epsilon {
		left := douglasPeucker(points[0:index+1], epsilon)
		right := douglasPeucker(points[index:], epsilon)

		result := make([]pathfinder.Point, 0, len(left)+len(right)-1)
		result = append(result, left[:len(left)-1]...)
		result = append(result, right...)
		return result
	}

	// All points in between can be discarded
	return []pathfinder.Point{points[0], points[end]}
}

// perpendicularDistance is the distance from point to the line through
// lineStart and lineEnd
func perpendicularDistance(point, lineStart, lineEnd pathfinder.Point) float64 {
	d := lineEnd.Sub(lineStart)
	pv := point.Sub(lineStart)
	if mag := d.Len(); mag > 0 {
		return math.Abs(d.Cross(pv)) / mag
	}
	return pv.Len()
}
