package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardValidation(t *testing.T) {
	obstacles := []Polygon{square(4, 4, 6, 6)}

	tests := []struct {
		name        string
		w, h        float64
		start, goal Point
		wantErr     bool
	}{
		{"valid", 10, 10, pt(0, 0), pt(10, 10), false},
		{"start on obstacle boundary", 10, 10, pt(4, 5), pt(10, 10), false},
		{"goal on obstacle vertex", 10, 10, pt(0, 0), pt(6, 6), false},
		{"goal inside obstacle", 10, 10, pt(0, 0), pt(5, 5), true},
		{"start inside obstacle", 10, 10, pt(4.5, 4.5), pt(0, 0), true},
		{"start off the board", 10, 10, pt(-1, 0), pt(10, 10), true},
		{"goal off the board", 10, 10, pt(0, 0), pt(10, 11), true},
		{"zero width", 0, 10, pt(0, 0), pt(0, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBoard(tt.w, tt.h, obstacles, tt.start, tt.goal)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidBoard)
				assert.Nil(t, b)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.start, b.Start())
			assert.Equal(t, tt.goal, b.Goal())
		})
	}
}

func TestNewBoardRejectsUnvalidatedPolygon(t *testing.T) {
	_, err := NewBoard(10, 10, []Polygon{{}}, pt(0, 0), pt(1, 1))
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestBoardRejectsGoalEnclosedByObstacle(t *testing.T) {
	// A closed ring around the goal is a single polygon containing it.
	ring := MustPolygon(pt(10, 10), pt(30, 10), pt(30, 30), pt(10, 30))
	_, err := NewBoard(40, 40, []Polygon{ring}, pt(0, 0), pt(20, 20))
	assert.ErrorIs(t, err, ErrInvalidBoard)
}

func TestBoardVertices(t *testing.T) {
	a := MustPolygon(pt(1, 1), pt(3, 1), pt(3, 3))
	b := MustPolygon(pt(3, 3), pt(5, 3), pt(5, 5)) // shares (3,3) with a
	board, err := NewBoard(10, 10, []Polygon{a, b}, pt(0, 0), pt(5, 5))
	require.NoError(t, err)

	assert.Equal(t, []Point{pt(1, 1), pt(3, 1), pt(3, 3), pt(5, 3), pt(5, 5)}, board.ObstacleVertices())
	// goal coincides with a vertex and is not repeated
	assert.Equal(t, []Point{pt(1, 1), pt(3, 1), pt(3, 3), pt(5, 3), pt(5, 5), pt(0, 0)}, board.Vertices())
	assert.Equal(t, 6, board.VertexCount())
	assert.Equal(t, []int{3, 3}, board.VerticesPerPolygon())
}

func TestBoardIsBlocked(t *testing.T) {
	board, err := NewBoard(20, 10, []Polygon{square(4, 4, 6, 6), square(12, 0, 14, 8)}, pt(0, 0), pt(20, 0))
	require.NoError(t, err)

	assert.True(t, board.IsBlocked(pt(0, 5), pt(10, 5)))
	assert.True(t, board.IsBlocked(pt(10, 2), pt(20, 2)))
	assert.False(t, board.IsBlocked(pt(0, 0), pt(20, 0)), "runs along the second obstacle's base")
	assert.False(t, board.IsBlocked(pt(0, 9), pt(20, 9)))
	assert.False(t, board.IsBlocked(pt(7, 1), pt(7, 1)), "zero-length move in free space")

	assert.True(t, board.ObstructedAt(pt(13, 4)))
	assert.False(t, board.ObstructedAt(pt(12, 4)))
	assert.True(t, board.InBounds(pt(20, 10)))
	assert.False(t, board.InBounds(pt(20.1, 10)))
}

func TestBoardWithEndpoints(t *testing.T) {
	board, err := NewBoard(10, 10, []Polygon{square(4, 4, 6, 6)}, pt(0, 0), pt(10, 10))
	require.NoError(t, err)

	moved, err := board.WithEndpoints(pt(1, 1), pt(9, 1))
	require.NoError(t, err)
	assert.Equal(t, pt(1, 1), moved.Start())
	assert.Equal(t, pt(0, 0), board.Start(), "original is unchanged")
	assert.Len(t, moved.Polygons(), 1)

	_, err = board.WithEndpoints(pt(5, 5), pt(9, 1))
	assert.ErrorIs(t, err, ErrInvalidBoard)
}
