package pathfinder

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StrategyKind selects how the engine generates neighbours
type StrategyKind int

const (
	// DynamicStrategy searches the plane directly (DynamicSearch).
	DynamicStrategy StrategyKind = iota
	// GraphStrategy searches a precomputed visibility graph (GraphSearch).
	GraphStrategy
)

// StrategyKinds lists every built-in strategy
var StrategyKinds = []StrategyKind{DynamicStrategy, GraphStrategy}

func (k StrategyKind) String() string {
	switch k {
	case DynamicStrategy:
		return "dynamic"
	case GraphStrategy:
		return "graph"
	default:
		return fmt.Sprintf("StrategyKind(%d)", int(k))
	}
}

// ParseStrategyKind accepts the names produced by String, case-insensitively
func ParseStrategyKind(s string) (StrategyKind, error) {
	for _, k := range StrategyKinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// MaxLatticePoints caps the number of lattice points a grid spacing may lay
// over the board
const MaxLatticePoints = 1 << 20

// Options defines parameters for an engine
type Options struct {
	GridSpacing float64
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithGridSpacing adds lattice successors at the given spacing to the dynamic
// strategy. It has no effect on the graph strategy.
func WithGridSpacing(spacing float64) Option {
	return func(options *Options) { options.GridSpacing = spacing }
}

// Engine drives one search run for the presentation layer: it steps the
// strategy, keeps a cursor into the recorded history for scrubbing, and
// guards state with a single-writer/multi-reader lock so a renderer may read
// snapshots from another goroutine.
type Engine struct {
	mu sync.RWMutex

	id        string
	board     *Board
	kind      StrategyKind
	heuristic HeuristicKind
	options   Options
	strategy  Strategy
	core      *astar

	cursor int // index of the snapshot on display, -1 before the first step
	last   StepResult

	solution *solution // full run for the current heuristic, computed on demand
}

type solution struct {
	result StepResult
	steps  int
}

// coreStrategy is implemented by the built-in strategies
type coreStrategy interface {
	Strategy
	searchCore() *astar
}

// Configure validates the selection and returns an engine seeded at the
// board's start point.
func Configure(board *Board, kind StrategyKind, heuristic HeuristicKind, options ...Option) (*Engine, error) {
	if board == nil {
		return nil, fmt.Errorf("%w: nil board", ErrInvalidBoard)
	}

	if !heuristic.valid() {
		return nil, fmt.Errorf("unknown heuristic kind %d", int(heuristic))
	}

	engineOptions := Options{}
	for _, option := range options {
		option(&engineOptions)
	}
	if err := checkGridSpacing(board, engineOptions.GridSpacing); err != nil {
		return nil, err
	}

	var strategy coreStrategy
	switch kind {
	case DynamicStrategy:
		strategy = NewDynamicSearch(engineOptions.GridSpacing)
	case GraphStrategy:
		strategy = NewGraphSearch()
	default:
		return nil, fmt.Errorf("unknown strategy kind %d", int(kind))
	}

	e := &Engine{
		id:        uuid.NewString(),
		board:     board,
		kind:      kind,
		heuristic: heuristic,
		options:   engineOptions,
		strategy:  strategy,
		core:      strategy.searchCore(),
		cursor:    -1,
	}
	if err := strategy.Initialize(board, heuristic.Func()); err != nil {
		return nil, fmt.Errorf("initialize %s search: %w", kind, err)
	}

	log.Printf("engine %s: %s search, %s heuristic, %d obstacles\n",
		e.id, kind, heuristic, len(board.Polygons()))
	return e, nil
}

// checkGridSpacing rejects spacings that are negative, not finite, or so fine
// that the lattice would exceed MaxLatticePoints
func checkGridSpacing(board *Board, spacing float64) error {
	if spacing == 0 {
		return nil
	}
	if spacing < 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return fmt.Errorf("grid spacing must be a non-negative finite number, got %g", spacing)
	}
	points := (math.Floor(board.Width()/spacing) + 1) * (math.Floor(board.Height()/spacing) + 1)
	if points > MaxLatticePoints {
		return fmt.Errorf("grid spacing %g lays %.0f lattice points over a %gx%g board, limit is %d",
			spacing, points, board.Width(), board.Height(), MaxLatticePoints)
	}
	return nil
}

func (e *Engine) ID() string         { return e.id }
func (e *Engine) Board() *Board      { return e.board }
func (e *Engine) Kind() StrategyKind { return e.kind }

// HeuristicKind is the heuristic of the current run
func (e *Engine) HeuristicKind() HeuristicKind {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.heuristic
}

// Options are the options the engine was configured with
func (e *Engine) Options() Options {
	return e.options
}

// Graph returns the visibility graph of a graph-strategy engine, nil otherwise
func (e *Engine) Graph() *VisibilityGraph {
	if gs, ok := e.strategy.(*GraphSearch); ok {
		return gs.Graph()
	}
	return nil
}

// Step advances the cursor by one snapshot. When the cursor is at the head of
// history the strategy performs a new pop-and-expand cycle; after scrubbing
// back it replays the recorded snapshots instead.
func (e *Engine) Step() StepResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step()
}

func (e *Engine) step() StepResult {
	if e.cursor < len(e.core.history)-1 {
		e.cursor++
		return e.core.history[e.cursor].Result()
	}

	res := e.strategy.Step()
	e.cursor = len(e.core.history) - 1
	if res.Status.Terminal() && !e.last.Status.Terminal() {
		switch res.Status {
		case Found:
			log.Printf("engine %s: path found after %d steps, %d waypoints, cost %.2f\n",
				e.id, e.cursor+1, len(res.Path), res.Cost)
		case NoPath:
			log.Printf("engine %s: no path after %d steps\n", e.id, e.cursor+1)
		}
	}
	e.last = res
	e.last.Path = res.Path.clone()
	return res
}

// RunToCompletion steps until a terminal status is reached or ctx is done
func (e *Engine) RunToCompletion(ctx context.Context) (StepResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for {
		if err := ctx.Err(); err != nil {
			return StepResult{Status: Continue}, err
		}
		res := e.step()
		if res.Status.Terminal() {
			return res, nil
		}
	}
}

// Done reports whether the search is terminal and the cursor shows its last
// snapshot
func (e *Engine) Done() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last.Status.Terminal() && e.cursor == len(e.core.history)-1
}

// Result is the most recent result computed by the strategy
func (e *Engine) Result() StepResult {
	e.mu.RLock()
	defer e.mu.RUnlock()
	res := e.last
	res.Path = res.Path.clone()
	return res
}

// StepBack moves the cursor one snapshot towards the start of the run
func (e *Engine) StepBack() (SearchState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seek(e.cursor - 1)
}

// Seek moves the cursor to the snapshot at index
func (e *Engine) Seek(index int) (SearchState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seek(index)
}

func (e *Engine) seek(index int) (SearchState, error) {
	state, err := e.snapshot(index)
	if err != nil {
		return SearchState{}, err
	}
	e.cursor = index
	return state, nil
}

// Snapshot returns the snapshot at index without moving the cursor
func (e *Engine) Snapshot(index int) (SearchState, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot(index)
}

func (e *Engine) snapshot(index int) (SearchState, error) {
	n := len(e.core.history)
	if index < 0 || index >= n {
		return SearchState{}, fmt.Errorf("%w: index %d, history length %d", ErrOutOfHistoryRange, index, n)
	}
	return e.core.snapshot(index), nil
}

// Cursor is the index of the snapshot on display, -1 before the first step
func (e *Engine) Cursor() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cursor
}

// Current returns the snapshot under the cursor
func (e *Engine) Current() (SearchState, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.cursor < 0 {
		return SearchState{}, false
	}
	return e.core.snapshot(e.cursor), true
}

// History returns every recorded snapshot in step order
func (e *Engine) History() []SearchState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.strategy.History()
}

// HistoryLen is the number of recorded snapshots
func (e *Engine) HistoryLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.core.history)
}

// CurrentBestPath is the best-known path at the cursor
func (e *Engine) CurrentBestPath() (Path, bool) {
	state, ok := e.Current()
	if !ok || len(state.BestPath) == 0 {
		return nil, false
	}
	return state.BestPath, true
}

// Reset discards the run and reseeds the search from the start point
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategy.Reset()
	e.cursor = -1
	e.last = StepResult{}
}

// SetHeuristic switches the heuristic and restarts the run. A graph strategy
// keeps its visibility graph since the board is unchanged.
func (e *Engine) SetHeuristic(kind HeuristicKind) error {
	if !kind.valid() {
		return fmt.Errorf("unknown heuristic kind %d", int(kind))
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.strategy.Initialize(e.board, kind.Func()); err != nil {
		return fmt.Errorf("reinitialize %s search: %w", e.kind, err)
	}
	e.heuristic = kind
	e.cursor = -1
	e.last = StepResult{}
	e.solution = nil
	return nil
}

// Solution is the outcome of the whole run under the current heuristic: the
// final result and the total number of steps it takes. It is computed on a
// separate search the first time it is asked for, so the cursor and history
// are unaffected.
func (e *Engine) Solution() (StepResult, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.solution == nil {
		res, steps := e.core.solve()
		e.solution = &solution{result: res, steps: steps}
		log.Printf("engine %s: solution %s in %d steps\n", e.id, res.Status, steps)
	}
	return StepResult{
		Status: e.solution.result.Status,
		Path:   e.solution.result.Path.clone(),
		Cost:   e.solution.result.Cost,
	}, e.solution.steps
}
