package pathfinder

import (
	"container/heap"
	"sort"
)

// PriorityQueue implements heap.Interface for the OPEN set
type PriorityQueue []*SearchNode

func (pq PriorityQueue) Len() int { return len(pq) }

func (pq PriorityQueue) Less(i, j int) bool {
	return higherPriority(pq[i], pq[j])
}

func (pq PriorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *PriorityQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*SearchNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// higherPriority orders OPEN by lowest f, then lowest h, then earliest insertion
func higherPriority(a, b *SearchNode) bool {
	if a.F != b.F {
		return a.F < b.F
	}
	if a.H != b.H {
		return a.H < b.H
	}
	return a.seq < b.seq
}

// neighbor is a reachable point and the cost of moving there
type neighbor struct {
	Point Point
	Cost  float64
}

// astar is the stepping core shared by every strategy. It is parameterised by
// the neighbour generator; reopening and tie-breaking live here only.
type astar struct {
	start     Point
	goal      Point
	heuristic Heuristic
	neighbors func(Point) []neighbor

	open     PriorityQueue
	nodes    map[Point]*SearchNode
	closedAt map[Point]int // step at which the node was closed
	seq      int

	status  Status
	history []SearchState
}

func (a *astar) init(start, goal Point, heuristic Heuristic, neighbors func(Point) []neighbor) {
	a.start = start
	a.goal = goal
	a.heuristic = heuristic
	a.neighbors = neighbors
	a.reset()
}

// reset seeds OPEN with the start node and forgets everything else
func (a *astar) reset() {
	a.open = make(PriorityQueue, 0)
	heap.Init(&a.open)
	a.nodes = make(map[Point]*SearchNode)
	a.closedAt = make(map[Point]int)
	a.seq = 0
	a.status = Continue
	a.history = nil

	h := a.heuristic(a.start, a.goal)
	seed := &SearchNode{Point: a.start, G: 0, H: h, F: h, index: -1}
	a.nodes[a.start] = seed
	heap.Push(&a.open, seed)
}

func (a *astar) step() StepResult {
	if a.neighbors == nil {
		panic("pathfinder: Step called before Initialize")
	}
	if a.status.Terminal() {
		return a.terminalResult()
	}
	if a.open.Len() == 0 {
		a.status = NoPath
		return StepResult{Status: NoPath}
	}

	current := heap.Pop(&a.open).(*SearchNode)
	state := SearchState{
		Step:    len(a.history),
		Current: current.Point,
		Cost:    current.G,
	}

	// Check if we reached the goal
	if current.Point == a.goal {
		a.status = Found
		state.Status = Found
		state.BestPath = a.reconstructPath(current.Point)
		a.record(state)
		return a.terminalResult()
	}

	// Move to CLOSED; a strictly better path later reopens it
	a.closedAt[current.Point] = state.Step

	for _, nb := range a.neighbors(current.Point) {
		if nb.Point == current.Point {
			continue
		}
		state.Considered = append(state.Considered, Segment{A: current.Point, B: nb.Point})

		tentativeG := current.G + nb.Cost
		node, seen := a.nodes[nb.Point]
		if seen && tentativeG >= node.G {
			continue
		}
		if !seen {
			node = &SearchNode{Point: nb.Point, H: a.heuristic(nb.Point, a.goal), index: -1}
			a.nodes[nb.Point] = node
		}

		node.G = tentativeG
		node.F = node.G + node.H
		node.Parent = current.Point
		node.HasParent = true

		if _, closed := a.closedAt[nb.Point]; closed {
			delete(a.closedAt, nb.Point)
			state.Reopened = append(state.Reopened, nb.Point)
		}

		if node.index >= 0 {
			heap.Fix(&a.open, node.index)
		} else {
			a.seq++
			node.seq = a.seq
			heap.Push(&a.open, node)
		}
	}

	state.Status = Continue
	state.BestPath = a.reconstructPath(current.Point)
	a.record(state)
	return StepResult{Status: Continue}
}

func (a *astar) terminalResult() StepResult {
	if a.status != Found {
		return StepResult{Status: a.status}
	}
	return a.history[len(a.history)-1].Result()
}

// record copies OPEN and CLOSED into the snapshot and appends it to history
func (a *astar) record(state SearchState) {
	state.Open = make([]SearchNode, 0, a.open.Len())
	for _, n := range a.open {
		state.Open = append(state.Open, *n)
	}
	sort.Slice(state.Open, func(i, j int) bool {
		return higherPriority(&state.Open[i], &state.Open[j])
	})

	state.Closed = make([]SearchNode, 0, len(a.closedAt))
	for p := range a.closedAt {
		state.Closed = append(state.Closed, *a.nodes[p])
	}
	sort.Slice(state.Closed, func(i, j int) bool {
		si, sj := a.closedAt[state.Closed[i].Point], a.closedAt[state.Closed[j].Point]
		if si != sj {
			return si < sj
		}
		pi, pj := state.Closed[i].Point, state.Closed[j].Point
		if pi.X != pj.X {
			return pi.X < pj.X
		}
		return pi.Y < pj.Y
	})

	a.history = append(a.history, state)
}

// reconstructPath walks predecessor links back from p to the start
func (a *astar) reconstructPath(p Point) Path {
	path := Path{p}
	for node := a.nodes[p]; node.HasParent; node = a.nodes[node.Parent] {
		if len(path) > len(a.nodes) {
			panic("pathfinder: predecessor chain does not terminate")
		}
		path = append(path, node.Parent)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (a *astar) currentPath() (Path, bool) {
	if len(a.history) == 0 {
		return nil, false
	}
	return a.history[len(a.history)-1].BestPath.clone(), true
}

func (a *astar) snapshots() []SearchState {
	out := make([]SearchState, len(a.history))
	for i, state := range a.history {
		out[i] = state.clone()
	}
	return out
}

// snapshot returns a copy of the recorded state at index i
func (a *astar) snapshot(i int) SearchState {
	return a.history[i].clone()
}

// solve runs a fresh search with the same inputs to a terminal status and
// reports the result and the number of pops it took. The receiver's run is
// not touched.
func (a *astar) solve() (StepResult, int) {
	var scratch astar
	scratch.init(a.start, a.goal, a.heuristic, a.neighbors)
	for {
		res := scratch.step()
		if res.Status.Terminal() {
			return res, len(scratch.history)
		}
	}
}
