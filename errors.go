package pathfinder

import "errors"

var (
	// ErrInvalidBoard rejects a board configuration at construction: a
	// degenerate polygon, or a start/goal that is out of bounds or strictly
	// inside an obstacle.
	ErrInvalidBoard = errors.New("invalid board")

	// ErrOutOfHistoryRange is returned when a snapshot index falls outside
	// the recorded history. Engine state is left untouched.
	ErrOutOfHistoryRange = errors.New("snapshot index out of history range")
)
