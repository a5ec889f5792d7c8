package pathfinder

import "errors"

// GraphSearch runs A* over the visibility graph of the board, which is built
// once on Initialize.
type GraphSearch struct {
	board *Board
	graph *VisibilityGraph
	core  astar
}

func NewGraphSearch() *GraphSearch {
	return &GraphSearch{}
}

func (s *GraphSearch) Initialize(board *Board, heuristic Heuristic) error {
	if board == nil {
		return errors.New("graph search: nil board")
	}
	if heuristic == nil {
		return errors.New("graph search: nil heuristic")
	}
	// A new board invalidates the graph; the same board keeps it.
	if s.graph == nil || s.board != board {
		s.graph = BuildVisibilityGraph(board)
	}
	s.board = board
	s.core.init(board.Start(), board.Goal(), heuristic, s.successors)
	return nil
}

func (s *GraphSearch) Step() StepResult          { return s.core.step() }
func (s *GraphSearch) CurrentPath() (Path, bool) { return s.core.currentPath() }
func (s *GraphSearch) History() []SearchState    { return s.core.snapshots() }
func (s *GraphSearch) Reset()                    { s.core.reset() }

func (s *GraphSearch) searchCore() *astar { return &s.core }

// Graph is the visibility graph the search runs on, nil before Initialize
func (s *GraphSearch) Graph() *VisibilityGraph {
	return s.graph
}

func (s *GraphSearch) successors(p Point) []neighbor {
	edges := s.graph.Neighbors(p)
	out := make([]neighbor, 0, len(edges))
	for _, e := range edges {
		out = append(out, neighbor{Point: s.graph.Node(e.To), Cost: e.Cost})
	}
	return out
}
