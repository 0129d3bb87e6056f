package graph

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

type NodeId = int

// Graph is a static, directed graph with located nodes
type Graph interface {
	GetNode(id NodeId) orb.Point
	GetNodes() []orb.Point
	GetArcsFrom(id NodeId) []Arc
	NodeCount() int
	ArcCount() int
	AsString() string
}

type DynamicGraph interface {
	Graph
	AddNode(n orb.Point) NodeId
	AddArc(from, to NodeId, distance int) bool
}

// Return the graph in fmi format
func GraphAsString(g Graph) string {
	var sb strings.Builder

	// write number of nodes and number of edges
	sb.WriteString(fmt.Sprintf("%v\n", g.NodeCount()))
	sb.WriteString(fmt.Sprintf("%v\n", g.ArcCount()))

	sb.WriteString("#Nodes\n")
	// list all nodes structured as "id lat lon"
	for i := 0; i < g.NodeCount(); i++ {
		node := g.GetNode(i)
		sb.WriteString(fmt.Sprintf("%v %v %v\n", i, node.Lat(), node.Lon()))
	}

	sb.WriteString("#Edges\n")
	// list all edges structured as "fromId targetId distance"
	for i := 0; i < g.NodeCount(); i++ {
		for _, arc := range g.GetArcsFrom(i) {
			sb.WriteString(fmt.Sprintf("%v %v %v\n", i, arc.Destination(), arc.Cost()))
		}
	}
	return sb.String()
}

// Transpose returns a graph with every arc reversed.
// Backward searches run on the transposed graph.
func Transpose(g Graph) *AdjacencyArrayGraph {
	t := NewAdjacencyListGraph()
	for _, p := range g.GetNodes() {
		t.AddNode(p)
	}
	for from := 0; from < g.NodeCount(); from++ {
		for _, arc := range g.GetArcsFrom(from) {
			t.AddArc(arc.To, from, arc.Distance)
		}
	}
	return NewAdjacencyArrayFromGraph(t)
}

// Symmetric reports whether every arc has a reverse arc of the same cost
func Symmetric(g Graph) bool {
	for from := 0; from < g.NodeCount(); from++ {
		for _, arc := range g.GetArcsFrom(from) {
			found := false
			for _, back := range g.GetArcsFrom(arc.To) {
				if back.To == from && back.Distance == arc.Distance {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
