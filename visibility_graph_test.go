package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareBoard(t *testing.T) *Board {
	t.Helper()
	board, err := NewBoard(10, 10, []Polygon{square(4, 4, 6, 6)}, pt(0, 0), pt(10, 10))
	require.NoError(t, err)
	return board
}

func TestBuildVisibilityGraph(t *testing.T) {
	graph := BuildVisibilityGraph(squareBoard(t))

	assert.Len(t, graph.Nodes(), 6)
	assert.Equal(t, 10, graph.EdgeCount())
	assert.Len(t, graph.Segments(), 10)

	// obstacle edges are traversable
	assert.True(t, graph.HasEdge(pt(4, 4), pt(6, 4)))
	assert.True(t, graph.HasEdge(pt(6, 6), pt(4, 6)))
	// diagonals cut through the interior
	assert.False(t, graph.HasEdge(pt(4, 4), pt(6, 6)))
	assert.False(t, graph.HasEdge(pt(6, 4), pt(4, 6)))
	assert.False(t, graph.HasEdge(pt(0, 0), pt(10, 10)))

	assert.True(t, graph.HasEdge(pt(0, 0), pt(6, 4)))
	assert.True(t, graph.HasEdge(pt(10, 10), pt(4, 6)))
	assert.Len(t, graph.Neighbors(pt(0, 0)), 3)

	assert.Equal(t, -1, graph.Index(pt(1, 1)))
	assert.Nil(t, graph.Neighbors(pt(1, 1)))
}

func TestVisibilityGraphIsSymmetric(t *testing.T) {
	board, err := NewBoard(20, 20,
		[]Polygon{square(2, 2, 6, 6), lShape(), MustPolygon(pt(10, 10), pt(16, 11), pt(12, 17))},
		pt(0, 19), pt(19, 0))
	require.NoError(t, err)
	graph := BuildVisibilityGraph(board)

	for i, p := range graph.Nodes() {
		for _, e := range graph.Neighbors(p) {
			q := graph.Node(e.To)
			assert.True(t, graph.HasEdge(q, p), "%v -> %v has no reverse edge", p, q)
			assert.InDelta(t, p.Distance(q), e.Cost, 1e-12)
			assert.NotEqual(t, i, e.To)
			assert.False(t, board.IsBlocked(p, q))
		}
	}
}

func TestVisibilityGraphOnEmptyBoard(t *testing.T) {
	board, err := NewBoard(10, 10, nil, pt(0, 0), pt(3, 4))
	require.NoError(t, err)
	graph := BuildVisibilityGraph(board)

	require.Equal(t, 1, graph.EdgeCount())
	assert.Equal(t, []Edge{{To: 1, Cost: 5}}, graph.Neighbors(pt(0, 0)))
	assert.Equal(t, []Edge{{To: 0, Cost: 5}}, graph.Neighbors(pt(3, 4)))
}
