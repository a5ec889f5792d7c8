package pathfinder

import "fmt"

// Status is the outcome of a single search step
type Status int

const (
	// Continue means the search expanded a node and has not finished.
	Continue Status = iota
	// Found means the goal was popped from OPEN; the path is final.
	Found
	// NoPath means OPEN ran empty before the goal was reached. It is a
	// normal terminal outcome, not an error.
	NoPath
)

func (s Status) String() string {
	switch s {
	case Continue:
		return "continue"
	case Found:
		return "found"
	case NoPath:
		return "no-path"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{Continue, Found, NoPath} {
		if string(text) == candidate.String() {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Terminal reports whether no further expansion will happen
func (s Status) Terminal() bool {
	return s != Continue
}

// Path is an ordered sequence of points from start to goal
type Path []Point

// Cost is the Euclidean length of the path
func (p Path) Cost() float64 {
	var cost float64
	for i := 1; i < len(p); i++ {
		cost += p[i-1].Distance(p[i])
	}
	return cost
}

// Segments returns consecutive legs of the path
func (p Path) Segments() []Segment {
	if len(p) < 2 {
		return nil
	}
	legs := make([]Segment, 0, len(p)-1)
	for i := 1; i < len(p); i++ {
		legs = append(legs, Segment{A: p[i-1], B: p[i]})
	}
	return legs
}

// StepResult is returned by every call to Step
type StepResult struct {
	Status Status  `json:"status"`
	Path   Path    `json:"path,omitempty"` // set when Status is Found
	Cost   float64 `json:"cost,omitempty"`
}

// SearchNode is a point under consideration with its A* bookkeeping
type SearchNode struct {
	Point     Point   `json:"point"`
	G         float64 `json:"g"` // cost from start
	H         float64 `json:"h"` // heuristic estimate to goal
	F         float64 `json:"f"` // G + H
	Parent    Point   `json:"parent"`
	HasParent bool    `json:"hasParent"`

	seq   int // insertion order into OPEN, for tie-breaking
	index int // position in the heap, -1 when not in OPEN
}

// SearchState is the snapshot recorded after one pop-and-expand cycle. A
// recorded snapshot is never modified.
type SearchState struct {
	Step    int          `json:"step"`
	Current Point        `json:"current"` // node popped in this step
	Open    []SearchNode `json:"open"`    // in priority order
	Closed  []SearchNode `json:"closed"`  // in closing order
	// Reopened lists CLOSED nodes moved back to OPEN during this step.
	Reopened []Point `json:"reopened,omitempty"`
	// Considered lists the moves examined while expanding Current.
	Considered []Segment `json:"considered,omitempty"`
	// BestPath is the path to Current: the best-known partial path, or the
	// final path when Status is Found.
	BestPath Path    `json:"bestPath"`
	Cost     float64 `json:"cost"`
	Status   Status  `json:"status"`
}

// Result converts the snapshot into the StepResult that produced it
func (s SearchState) Result() StepResult {
	if s.Status == Found {
		return StepResult{Status: Found, Path: s.BestPath.clone(), Cost: s.Cost}
	}
	return StepResult{Status: s.Status}
}

// clone copies every slice so the caller cannot reach recorded history
func (s SearchState) clone() SearchState {
	s.Open = cloneSlice(s.Open)
	s.Closed = cloneSlice(s.Closed)
	s.Reopened = cloneSlice(s.Reopened)
	s.Considered = cloneSlice(s.Considered)
	s.BestPath = s.BestPath.clone()
	return s
}

func (p Path) clone() Path {
	return cloneSlice(p)
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Strategy is a steppable shortest-path search over a Board. Both built-in
// strategies share the same A* core and differ only in how neighbours of a
// node are generated.
type Strategy interface {
	// Initialize binds the strategy to a board and heuristic and seeds OPEN
	// with the start point. Any previous run is discarded.
	Initialize(board *Board, heuristic Heuristic) error
	// Step performs exactly one pop-and-expand cycle. Once a terminal status
	// is reached further calls return it without changing any state.
	Step() StepResult
	// CurrentPath is the best-known path after the latest step.
	CurrentPath() (Path, bool)
	// History returns one snapshot per pop-and-expand cycle so far.
	History() []SearchState
	// Reset discards all search state and reseeds from the start point.
	Reset()
}
