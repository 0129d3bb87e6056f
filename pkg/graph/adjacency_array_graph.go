package graph

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Implementation for static graphs
type AdjacencyArrayGraph struct {
	Nodes   []orb.Point
	arcs    []Arc
	Offsets []int
}

// Create an AdjacencyArrayGraph from the given graph
func NewAdjacencyArrayFromGraph(g Graph) *AdjacencyArrayGraph {
	nodes := make([]orb.Point, 0, g.NodeCount())
	arcs := make([]Arc, 0, g.ArcCount())
	offsets := make([]int, g.NodeCount()+1)

	for i := 0; i < g.NodeCount(); i++ {
		// add node
		nodes = append(nodes, g.GetNode(i))

		// add all edges of node
		arcs = append(arcs, g.GetArcsFrom(i)...)

		// set stop-offset
		offsets[i+1] = len(arcs)
	}

	return &AdjacencyArrayGraph{Nodes: nodes, arcs: arcs, Offsets: offsets}
}

// Get the node for the given id
func (aag *AdjacencyArrayGraph) GetNode(id NodeId) orb.Point {
	if id < 0 || id >= aag.NodeCount() {
		panic(fmt.Sprintf("NodeId %d is not contained in the graph.", id))
	}
	return aag.Nodes[id]
}

// get all nodes of the graph
func (aag *AdjacencyArrayGraph) GetNodes() []orb.Point {
	return aag.Nodes
}

// Get the Arcs for the given node id
func (aag *AdjacencyArrayGraph) GetArcsFrom(id NodeId) []Arc {
	if id < 0 || id >= aag.NodeCount() {
		panic(fmt.Sprintf("NodeId %d is not contained in the graph.", id))
	}
	return aag.arcs[aag.Offsets[id]:aag.Offsets[id+1]]
}

// Returns the number of Nodes in the graph
func (aag *AdjacencyArrayGraph) NodeCount() int {
	return len(aag.Nodes)
}

// Returns the total number of arcs in the graph
func (aag *AdjacencyArrayGraph) ArcCount() int {
	return len(aag.arcs)
}

// Returns the graph in fmi format
func (aag *AdjacencyArrayGraph) AsString() string {
	return GraphAsString(aag)
}

// Mem reports the bytes held by the graph
func (aag *AdjacencyArrayGraph) Mem() uintptr {
	return uintptr(cap(aag.Nodes))*16 + uintptr(cap(aag.arcs))*16 + uintptr(cap(aag.Offsets))*8
}
