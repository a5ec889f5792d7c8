package pathfinder

import (
	"errors"
	"math"
)

// DynamicSearch runs A* directly in the plane. Nothing is precomputed: when a
// point is expanded its successors are generated on the spot from the
// obstacle vertices and the goal it can see, plus, with a positive grid
// spacing, the surrounding lattice points.
type DynamicSearch struct {
	board       *Board
	gridSpacing float64
	candidates  []Point
	core        astar
}

// NewDynamicSearch creates the strategy. gridSpacing <= 0 disables lattice
// successors.
func NewDynamicSearch(gridSpacing float64) *DynamicSearch {
	return &DynamicSearch{gridSpacing: gridSpacing}
}

func (s *DynamicSearch) Initialize(board *Board, heuristic Heuristic) error {
	if board == nil {
		return errors.New("dynamic search: nil board")
	}
	if heuristic == nil {
		return errors.New("dynamic search: nil heuristic")
	}
	s.board = board
	s.candidates = append(board.ObstacleVertices(), board.Goal())
	s.core.init(board.Start(), board.Goal(), heuristic, s.successors)
	return nil
}

func (s *DynamicSearch) Step() StepResult          { return s.core.step() }
func (s *DynamicSearch) CurrentPath() (Path, bool) { return s.core.currentPath() }
func (s *DynamicSearch) History() []SearchState    { return s.core.snapshots() }
func (s *DynamicSearch) Reset()                    { s.core.reset() }

func (s *DynamicSearch) searchCore() *astar { return &s.core }

// successors lists every point reachable from p in a straight unobstructed move
func (s *DynamicSearch) successors(p Point) []neighbor {
	var out []neighbor
	for _, c := range s.candidates {
		if c == p || s.board.IsBlocked(p, c) {
			continue
		}
		out = append(out, neighbor{Point: c, Cost: p.Distance(c)})
	}

	if s.gridSpacing <= 0 {
		return out
	}

	// Lattice points are computed from integer cell indices so the same
	// cell always yields the same Point.
	kx := math.Round(p.X / s.gridSpacing)
	ky := math.Round(p.Y / s.gridSpacing)
	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			q := Point{X: (kx + dx) * s.gridSpacing, Y: (ky + dy) * s.gridSpacing}
			if q == p || !s.board.InBounds(q) || s.board.IsBlocked(p, q) {
				continue
			}
			out = append(out, neighbor{Point: q, Cost: p.Distance(q)})
		}
	}
	return out
}
