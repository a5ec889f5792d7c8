package pathfinder

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure(t *testing.T) {
	board := squareBoard(t)

	e, err := Configure(board, GraphStrategy, Manhattan)
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID())
	assert.Same(t, board, e.Board())
	assert.Equal(t, GraphStrategy, e.Kind())
	assert.Equal(t, Manhattan, e.HeuristicKind())
	assert.NotNil(t, e.Graph())
	assert.Equal(t, -1, e.Cursor())

	other, err := Configure(board, DynamicStrategy, Euclidean, WithGridSpacing(2))
	require.NoError(t, err)
	assert.NotEqual(t, e.ID(), other.ID())
	assert.Nil(t, other.Graph())
	assert.Equal(t, 2.0, other.Options().GridSpacing)

	_, err = Configure(nil, DynamicStrategy, Euclidean)
	assert.ErrorIs(t, err, ErrInvalidBoard)

	_, err = Configure(board, StrategyKind(7), Euclidean)
	assert.Error(t, err)
	_, err = Configure(board, GraphStrategy, HeuristicKind(7))
	assert.Error(t, err)
	assert.Error(t, e.SetHeuristic(HeuristicKind(7)))
	assert.Equal(t, Manhattan, e.HeuristicKind())
}

func TestConfigureGridSpacing(t *testing.T) {
	board := squareBoard(t)

	tests := []struct {
		name    string
		spacing float64
		wantErr bool
	}{
		{"disabled", 0, false},
		{"coarse", 5, false},
		{"at the limit", 10.0 / 1023, false},
		{"negative", -1, true},
		{"not a number", math.NaN(), true},
		{"infinite", math.Inf(1), true},
		{"too fine", 1e-3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Configure(board, DynamicStrategy, Euclidean, WithGridSpacing(tt.spacing))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseStrategyKind(t *testing.T) {
	for _, k := range StrategyKinds {
		got, err := ParseStrategyKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	got, err := ParseStrategyKind("Graph")
	require.NoError(t, err)
	assert.Equal(t, GraphStrategy, got)

	_, err = ParseStrategyKind("dijkstra")
	assert.Error(t, err)
	assert.Equal(t, "StrategyKind(9)", StrategyKind(9).String())
}

func TestEngineBeforeFirstStep(t *testing.T) {
	e, err := Configure(squareBoard(t), DynamicStrategy, Euclidean)
	require.NoError(t, err)

	_, ok := e.Current()
	assert.False(t, ok)
	_, ok = e.CurrentBestPath()
	assert.False(t, ok)
	assert.Zero(t, e.HistoryLen())
	assert.False(t, e.Done())

	_, err = e.StepBack()
	assert.ErrorIs(t, err, ErrOutOfHistoryRange)
	_, err = e.Seek(0)
	assert.ErrorIs(t, err, ErrOutOfHistoryRange)
	assert.Equal(t, -1, e.Cursor())
}

func TestEngineStepAndScrub(t *testing.T) {
	board := squareBoard(t)
	e, err := Configure(board, GraphStrategy, Euclidean)
	require.NoError(t, err)

	first := e.Step()
	assert.Equal(t, Continue, first.Status)
	assert.Equal(t, 0, e.Cursor())
	path, ok := e.CurrentBestPath()
	require.True(t, ok)
	assert.Equal(t, Path{board.Start()}, path)

	res, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	require.Equal(t, Found, res.Status)
	assert.True(t, e.Done())
	assert.Equal(t, res, e.Result())

	n := e.HistoryLen()
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, n-1, e.Cursor())

	state, err := e.StepBack()
	require.NoError(t, err)
	assert.Equal(t, n-2, state.Step)
	assert.Equal(t, n-2, e.Cursor())
	assert.False(t, e.Done())

	// stepping forward after scrubbing replays history
	replayed := e.Step()
	assert.Equal(t, res, replayed)
	assert.Equal(t, n-1, e.Cursor())
	assert.Equal(t, n, e.HistoryLen())

	state, err = e.Seek(0)
	require.NoError(t, err)
	assert.Equal(t, board.Start(), state.Current)
	assert.Equal(t, Path{board.Start()}, state.BestPath)
	assert.Equal(t, Continue, e.Step().Status)
	assert.Equal(t, 1, e.Cursor())

	for _, bad := range []int{-1, n, n + 5} {
		_, err = e.Seek(bad)
		assert.ErrorIs(t, err, ErrOutOfHistoryRange, "index %d", bad)
		assert.Equal(t, 1, e.Cursor(), "cursor unchanged after seeking %d", bad)
	}

	last, err := e.Snapshot(n - 1)
	require.NoError(t, err)
	assert.Equal(t, Found, last.Status)
	assert.Equal(t, 1, e.Cursor(), "Snapshot does not move the cursor")

	_, err = e.Seek(0)
	require.NoError(t, err)
	_, err = e.StepBack()
	assert.ErrorIs(t, err, ErrOutOfHistoryRange)
	assert.Equal(t, 0, e.Cursor())
}

func TestEngineStepAfterFoundIsIdempotent(t *testing.T) {
	e, err := Configure(squareBoard(t), DynamicStrategy, Euclidean)
	require.NoError(t, err)

	res, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	n := e.HistoryLen()

	for i := 0; i < 3; i++ {
		assert.Equal(t, res, e.Step())
	}
	assert.Equal(t, n, e.HistoryLen())
	assert.Equal(t, n-1, e.Cursor())
}

func TestEngineNoPath(t *testing.T) {
	e, err := Configure(enclosedBoard(t), GraphStrategy, Euclidean)
	require.NoError(t, err)

	res, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, NoPath, res.Status)
	assert.Equal(t, 1, e.HistoryLen())
	assert.True(t, e.Done())
}

func TestEngineRunToCompletionHonoursContext(t *testing.T) {
	e, err := Configure(squareBoard(t), DynamicStrategy, Euclidean)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.RunToCompletion(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Continue, res.Status)
	assert.Zero(t, e.HistoryLen())
}

func TestEngineReset(t *testing.T) {
	e, err := Configure(squareBoard(t), DynamicStrategy, Euclidean)
	require.NoError(t, err)
	first, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)

	e.Reset()
	assert.Equal(t, -1, e.Cursor())
	assert.Zero(t, e.HistoryLen())
	assert.Equal(t, StepResult{}, e.Result())

	again, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestEngineSetHeuristic(t *testing.T) {
	e, err := Configure(squareBoard(t), GraphStrategy, Euclidean)
	require.NoError(t, err)
	graph := e.Graph()
	_, err = e.RunToCompletion(context.Background())
	require.NoError(t, err)

	require.NoError(t, e.SetHeuristic(Manhattan))
	assert.Equal(t, Manhattan, e.HeuristicKind())
	assert.Equal(t, -1, e.Cursor())
	assert.Zero(t, e.HistoryLen())
	assert.Same(t, graph, e.Graph(), "board unchanged, graph kept")

	res, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Found, res.Status)
}

func TestEngineConcurrentReaders(t *testing.T) {
	e, err := Configure(squareBoard(t), DynamicStrategy, Euclidean, WithGridSpacing(1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				if state, ok := e.Current(); ok {
					assert.NotEmpty(t, state.BestPath)
				}
				_ = e.History()
			}
		}()
	}

	for !e.Step().Status.Terminal() {
	}
	close(done)
	wg.Wait()

	assert.True(t, e.Done())
	assert.Equal(t, Found, e.Result().Status)
}

func TestEngineReturnsCopiesOfHistory(t *testing.T) {
	board := squareBoard(t)
	e, err := Configure(board, GraphStrategy, Euclidean)
	require.NoError(t, err)

	res, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	require.Equal(t, Found, res.Status)
	n := e.HistoryLen()

	res.Path[0] = pt(-99, -99)
	last, err := e.Snapshot(n - 1)
	require.NoError(t, err)
	assert.Equal(t, board.Start(), last.BestPath[0])
	assert.Equal(t, board.Start(), e.Step().Path[0])
	assert.Equal(t, board.Start(), e.Result().Path[0])

	path, ok := e.CurrentBestPath()
	require.True(t, ok)
	path[0] = pt(-99, -99)
	assert.Equal(t, board.Start(), e.Result().Path[0])

	first, err := e.Snapshot(0)
	require.NoError(t, err)
	require.NotEmpty(t, first.Open)
	_ = append(e.History()[0].Open[:0], SearchNode{Point: pt(7, 7)})
	first.Open[0].Point = pt(8, 8)
	first.BestPath[0] = pt(8, 8)

	again, err := e.Snapshot(0)
	require.NoError(t, err)
	assert.NotEqual(t, pt(7, 7), again.Open[0].Point)
	assert.NotEqual(t, pt(8, 8), again.Open[0].Point)
	assert.Equal(t, Path{board.Start()}, again.BestPath)
}

func TestEngineSolution(t *testing.T) {
	e, err := Configure(squareBoard(t), GraphStrategy, Euclidean)
	require.NoError(t, err)
	e.Step()

	solution, steps := e.Solution()
	require.Equal(t, Found, solution.Status)
	assert.InDelta(t, 2*math.Sqrt(52), solution.Cost, 1e-9)
	assert.Equal(t, 0, e.Cursor(), "cursor untouched")
	assert.Equal(t, 1, e.HistoryLen(), "history untouched")

	solution.Path[0] = pt(-99, -99)
	cached, _ := e.Solution()
	assert.Equal(t, pt(0, 0), cached.Path[0])

	res, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res, cached)
	assert.Equal(t, e.HistoryLen(), steps)

	require.NoError(t, e.SetHeuristic(Manhattan))
	manhattan, steps := e.Solution()
	assert.Equal(t, Found, manhattan.Status)
	res, err = e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res, manhattan)
	assert.Equal(t, e.HistoryLen(), steps)
}

func TestEngineSolutionWithoutPath(t *testing.T) {
	e, err := Configure(enclosedBoard(t), DynamicStrategy, Euclidean)
	require.NoError(t, err)

	res, steps := e.Solution()
	assert.Equal(t, NoPath, res.Status)
	assert.Nil(t, res.Path)
	assert.Equal(t, 1, steps)
	assert.Equal(t, -1, e.Cursor())
}
