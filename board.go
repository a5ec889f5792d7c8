package pathfinder

import (
	"fmt"
)

// Board is the plane searched by the engine: a width x height rectangle with
// polygonal obstacles, a start and a goal. A Board never changes after
// construction; moving an endpoint or an obstacle means building a new one.
type Board struct {
	width    float64
	height   float64
	polygons []Polygon
	start    Point
	goal     Point
	index    *SpatialIndex
}

// NewBoard validates the configuration and indexes the obstacles
func NewBoard(width, height float64, polygons []Polygon, start, goal Point) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %gx%g", ErrInvalidBoard, width, height)
	}

	for i, p := range polygons {
		if len(p.vertices) < 3 {
			return nil, fmt.Errorf("%w: polygon %d was not built with NewPolygon", ErrInvalidBoard, i)
		}
	}

	owned := make([]Polygon, len(polygons))
	copy(owned, polygons)

	b := &Board{
		width:    width,
		height:   height,
		polygons: owned,
		index:    NewSpatialIndex(owned),
	}
	if err := b.setEndpoints(start, goal); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) setEndpoints(start, goal Point) error {
	for _, ep := range []struct {
		name string
		p    Point
	}{{"start", start}, {"goal", goal}} {
		if !b.InBounds(ep.p) {
			return fmt.Errorf("%w: %s %v lies outside the %gx%g board", ErrInvalidBoard, ep.name, ep.p, b.width, b.height)
		}
		for i, poly := range b.polygons {
			if poly.Contains(ep.p) {
				return fmt.Errorf("%w: %s %v lies inside polygon %d", ErrInvalidBoard, ep.name, ep.p, i)
			}
		}
	}
	b.start = start
	b.goal = goal
	return nil
}

// WithEndpoints returns a new Board with the same obstacles and different
// start and goal points.
func (b *Board) WithEndpoints(start, goal Point) (*Board, error) {
	nb := &Board{
		width:    b.width,
		height:   b.height,
		polygons: b.polygons,
		index:    b.index,
	}
	if err := nb.setEndpoints(start, goal); err != nil {
		return nil, err
	}
	return nb, nil
}

func (b *Board) Width() float64  { return b.width }
func (b *Board) Height() float64 { return b.height }
func (b *Board) Start() Point    { return b.start }
func (b *Board) Goal() Point     { return b.goal }

// Polygons returns the obstacles in insertion order
func (b *Board) Polygons() []Polygon {
	return b.polygons
}

// ObstacleVertices returns every polygon vertex once, in insertion order
func (b *Board) ObstacleVertices() []Point {
	seen := make(map[Point]bool)
	var vertices []Point
	for _, p := range b.polygons {
		for _, v := range p.vertices {
			if !seen[v] {
				seen[v] = true
				vertices = append(vertices, v)
			}
		}
	}
	return vertices
}

// Vertices returns the nodes of the visibility graph: obstacle vertices
// followed by start and goal (unless they coincide with one already listed).
func (b *Board) Vertices() []Point {
	vertices := b.ObstacleVertices()
	seen := make(map[Point]bool, len(vertices)+2)
	for _, v := range vertices {
		seen[v] = true
	}
	for _, v := range []Point{b.start, b.goal} {
		if !seen[v] {
			seen[v] = true
			vertices = append(vertices, v)
		}
	}
	return vertices
}

// VertexCount is the total number of polygon vertices, duplicates included
func (b *Board) VertexCount() int {
	n := 0
	for _, p := range b.polygons {
		n += len(p.vertices)
	}
	return n
}

// VerticesPerPolygon returns the vertex count of each obstacle
func (b *Board) VerticesPerPolygon() []int {
	counts := make([]int, len(b.polygons))
	for i, p := range b.polygons {
		counts[i] = len(p.vertices)
	}
	return counts
}

// InBounds reports whether p lies on the board, edges included
func (b *Board) InBounds(p Point) bool {
	return p.X >= -Epsilon && p.X <= b.width+Epsilon &&
		p.Y >= -Epsilon && p.Y <= b.height+Epsilon
}

// ObstructedAt reports whether p is strictly inside some obstacle
func (b *Board) ObstructedAt(p Point) bool {
	for _, poly := range b.index.Candidates(Segment{p, p}.Bound()) {
		if poly.Contains(p) {
			return true
		}
	}
	return false
}

// IsBlocked reports whether the straight move from a to c passes through the
// interior of any obstacle
func (b *Board) IsBlocked(a, c Point) bool {
	seg := Segment{A: a, B: c}
	for _, poly := range b.index.Candidates(seg.Bound()) {
		if poly.Blocks(seg) {
			return true
		}
	}
	return false
}
