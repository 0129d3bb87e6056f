package graph

import (
	"fmt"

	"github.com/paulmach/orb"
)

var _ DynamicGraph = (*AdjacencyListGraph)(nil)

// Implementation for dynamic graphs
type AdjacencyListGraph struct {
	Nodes    []orb.Point // The nodes of the graph
	Edges    [][]Arc     // The Arcs of the graph. The first slice specifies to which the arc belongs
	arcCount int         // the number of arcs in the graph
}

func NewAdjacencyListGraph() *AdjacencyListGraph {
	return &AdjacencyListGraph{
		Nodes: make([]orb.Point, 0),
		Edges: make([][]Arc, 0),
	}
}

// Return the node for the given id
func (alg *AdjacencyListGraph) GetNode(id NodeId) orb.Point {
	if id < 0 || id >= alg.NodeCount() {
		panic(fmt.Sprintf("NodeId %d is not contained in the graph.", id))
	}
	return alg.Nodes[id]
}

// Return all nodes of the graph
func (alg *AdjacencyListGraph) GetNodes() []orb.Point {
	return alg.Nodes
}

// Get the arcs for the given node
func (alg *AdjacencyListGraph) GetArcsFrom(id NodeId) []Arc {
	if id < 0 || id >= alg.NodeCount() {
		panic(fmt.Sprintf("NodeId %d is not contained in the graph.", id))
	}
	return alg.Edges[id]
}

// Return the number of total nodes
func (alg *AdjacencyListGraph) NodeCount() int {
	return len(alg.Nodes)
}

// Return the number of total arcs
func (alg *AdjacencyListGraph) ArcCount() int {
	return alg.arcCount
}

// Return the graph in fmi format
func (alg *AdjacencyListGraph) AsString() string {
	return GraphAsString(alg)
}

// Add a node to the graph and return its id
func (alg *AdjacencyListGraph) AddNode(n orb.Point) NodeId {
	alg.Nodes = append(alg.Nodes, n)
	alg.Edges = append(alg.Edges, make([]Arc, 0))
	return len(alg.Nodes) - 1
}

// Add an arc to the graph, going from source to target with the given distance.
// Parallel arcs are merged, keeping the smaller distance.
// Returns whether the graph changed.
func (alg *AdjacencyListGraph) AddArc(from, to NodeId, distance int) bool {
	if from < 0 || to < 0 || from >= alg.NodeCount() || to >= alg.NodeCount() {
		panic(fmt.Sprintf("Arc out of range %v -> %v", from, to))
	}

	arcs := alg.Edges[from]
	for i := range arcs {
		arc := &arcs[i]
		if to == arc.To {
			if distance < arc.Distance {
				arc.Distance = distance
				return true
			}
			return false
		}
	}

	alg.Edges[from] = append(alg.Edges[from], MakeArc(to, distance))
	alg.arcCount++
	return true
}

// Remove the arc from -> to. Returns whether it existed.
func (alg *AdjacencyListGraph) RemoveArc(from, to NodeId) bool {
	arcs := alg.Edges[from]
	for i := range arcs {
		if arcs[i].To == to {
			alg.Edges[from] = append(arcs[:i], arcs[i+1:]...)
			alg.arcCount--
			return true
		}
	}
	return false
}
