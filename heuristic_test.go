package pathfinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristics(t *testing.T) {
	from, to := pt(1, 1), pt(4, 5)

	assert.InDelta(t, 5.0, EuclideanDistance(from, to), 1e-12)
	assert.InDelta(t, 7.0, ManhattanDistance(from, to), 1e-12)
	assert.Equal(t, 0.0, EuclideanDistance(to, to))
	assert.Equal(t, 0.0, ManhattanDistance(to, to))

	// Manhattan overestimates a free diagonal move
	assert.Greater(t, ManhattanDistance(from, to), from.Distance(to))
	assert.InDelta(t, 7.0, Manhattan.Func()(from, to), 1e-12)
	assert.InDelta(t, 5.0, Euclidean.Func()(from, to), 1e-12)
}

func TestParseHeuristicKind(t *testing.T) {
	for _, k := range HeuristicKinds {
		got, err := ParseHeuristicKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseHeuristicKind("MANHATTAN")
	require.NoError(t, err)
	assert.Equal(t, Manhattan, got)

	_, err = ParseHeuristicKind("chebyshev")
	assert.Error(t, err)
}
