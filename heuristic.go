package pathfinder

import (
	"fmt"
	"math"
	"strings"
)

// Heuristic returns the estimated cost from one point to another. Estimates
// are never negative.
type Heuristic func(from, to Point) float64

// HeuristicKind selects one of the built-in heuristics
type HeuristicKind int

const (
	// Euclidean is the straight-line distance. It is admissible and
	// consistent for free movement in the plane.
	Euclidean HeuristicKind = iota
	// Manhattan is the axis-aligned distance. It overestimates diagonal moves,
	// so with free 2D movement it is not admissible and the search may return
	// a longer path than the optimum.
	Manhattan
)

// HeuristicKinds lists every built-in heuristic
var HeuristicKinds = []HeuristicKind{Euclidean, Manhattan}

func (k HeuristicKind) String() string {
	switch k {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	default:
		return fmt.Sprintf("HeuristicKind(%d)", int(k))
	}
}

// Func returns the estimator for the kind
func (k HeuristicKind) Func() Heuristic {
	switch k {
	case Manhattan:
		return ManhattanDistance
	default:
		return EuclideanDistance
	}
}

func (k HeuristicKind) valid() bool {
	for _, known := range HeuristicKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseHeuristicKind accepts the names produced by String, case-insensitively
func ParseHeuristicKind(s string) (HeuristicKind, error) {
	for _, k := range HeuristicKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown heuristic %q", s)
}

func EuclideanDistance(from, to Point) float64 {
	return from.Distance(to)
}

func ManhattanDistance(from, to Point) float64 {
	return math.Abs(to.X-from.X) + math.Abs(to.Y-from.Y)
}
