package pathfinder

import "log"

// BuildVisibilityGraph tests the segment between every unordered pair of board
// vertices (obstacle vertices, start and goal) and records an undirected edge
// weighted by Euclidean distance when no obstacle interior is crossed.
func BuildVisibilityGraph(board *Board) *VisibilityGraph {
	nodes := board.Vertices()
	graph := &VisibilityGraph{
		nodes: nodes,
		index: make(map[Point]int, len(nodes)),
		edges: make(map[int][]Edge, len(nodes)),
	}
	for i, p := range nodes {
		graph.index[p] = i
	}

	totalPossibleEdges := (len(nodes) * (len(nodes) - 1)) / 2
	log.Printf("visibility graph: %d nodes, checking %d candidate edges against %d polygons\n",
		len(nodes), totalPossibleEdges, len(board.Polygons()))

	edgesAdded := 0
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if board.IsBlocked(nodes[i], nodes[j]) {
				continue
			}
			distance := nodes[i].Distance(nodes[j])

			// Add bidirectional edge
			graph.edges[i] = append(graph.edges[i], Edge{To: j, Cost: distance})
			graph.edges[j] = append(graph.edges[j], Edge{To: i, Cost: distance})
			edgesAdded++
		}
	}

	log.Printf("visibility graph: %d edges added\n", edgesAdded)

	return graph
}
