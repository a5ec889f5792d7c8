package pathfinder

// VisibilityGraph connects every pair of mutually visible board vertices.
// It is built once per Board and read-only afterwards.
type VisibilityGraph struct {
	nodes []Point
	index map[Point]int
	edges map[int][]Edge
}

// Edge represents a connection between two nodes with a cost
type Edge struct {
	To   int     // Index of the destination node
	Cost float64 // Euclidean distance
}

// Nodes returns the graph's vertices in index order
func (g *VisibilityGraph) Nodes() []Point {
	return g.nodes
}

// Node returns the point with the given index
func (g *VisibilityGraph) Node(i int) Point {
	return g.nodes[i]
}

// Index returns the node index of p, or -1 when p is not a node
func (g *VisibilityGraph) Index(p Point) int {
	if i, ok := g.index[p]; ok {
		return i
	}
	return -1
}

// Neighbors returns the edges leaving p
func (g *VisibilityGraph) Neighbors(p Point) []Edge {
	i, ok := g.index[p]
	if !ok {
		return nil
	}
	return g.edges[i]
}

// HasEdge reports whether a and b see each other
func (g *VisibilityGraph) HasEdge(a, b Point) bool {
	j := g.Index(b)
	if j < 0 {
		return false
	}
	for _, e := range g.Neighbors(a) {
		if e.To == j {
			return true
		}
	}
	return false
}

// EdgeCount is the number of undirected edges
func (g *VisibilityGraph) EdgeCount() int {
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n / 2
}

// Segments returns each undirected edge once, for visualization
func (g *VisibilityGraph) Segments() []Segment {
	lines := make([]Segment, 0, g.EdgeCount())
	for i := range g.nodes {
		for _, e := range g.edges[i] {
			if i < e.To {
				lines = append(lines, Segment{A: g.nodes[i], B: g.nodes[e.To]})
			}
		}
	}
	return lines
}
