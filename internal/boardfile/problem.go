package boardfile

import "pathfinder"

// ring builds a vertex ring from x, y pairs
func ring(xy ...float64) []pathfinder.Point {
	out := make([]pathfinder.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, pathfinder.Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

// ProblemBoard is the stock eight-obstacle problem used when no board file
// is given
func ProblemBoard() Document {
	return Document{
		Width:  400,
		Height: 700,
		Start:  pathfinder.Point{X: 90, Y: 690},
		Goal:   pathfinder.Point{X: 380, Y: 510},
		Obstacles: [][]pathfinder.Point{
			ring(220, 616, 220, 666, 251, 670, 272, 647),
			ring(341, 655, 359, 667, 374, 651, 366, 577),
			ring(311, 530, 311, 559, 339, 578, 361, 560, 361, 528, 336, 516),
			ring(105, 628, 151, 670, 180, 629, 156, 577, 113, 587),
			ring(118, 517, 245, 517, 245, 577, 118, 557),
			ring(280, 583, 333, 583, 333, 665, 280, 665),
			ring(252, 594, 290, 562, 264, 538),
			ring(198, 635, 217, 574, 182, 574),
		},
	}
}
