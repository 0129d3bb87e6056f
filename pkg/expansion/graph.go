package expansion

import (
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/search"
)

// coordinates are reported in micro degrees
const xyScale = 1e6

// Graph expands the arcs of a static graph.
// Use graph.Transpose for the backward side of a bidirectional search.
type Graph struct {
	Base
	g graph.Graph
	// Ignore hides nodes from the search, e.g. the node under contraction in a witness search
	Ignore func(id pool.NodeID) bool
}

func NewGraph(g graph.Graph) *Graph {
	return &Graph{Base: NewBase(g.NodeCount()), g: g}
}

func (e *Graph) Graph() graph.Graph { return e.g }

func (e *Graph) Expand(current *pool.NodeState, pi *search.ProblemInstance) {
	e.reset()
	for _, arc := range e.g.GetArcsFrom(int(current.ID())) {
		id := pool.NodeID(arc.To)
		if e.Ignore != nil && e.Ignore(id) {
			continue
		}
		e.AddNeighbour(id, pool.Cost(arc.Distance))
	}
}

func (e *Graph) valid(id pool.NodeID) bool {
	return int(id) < e.g.NodeCount() && (e.Ignore == nil || !e.Ignore(id))
}

func (e *Graph) GenerateStartNode(pi *search.ProblemInstance) *pool.NodeState {
	if !e.valid(pi.Start) {
		return nil
	}
	return e.Generate(pi.Start)
}

func (e *Graph) GenerateTargetNode(pi *search.ProblemInstance) *pool.NodeState {
	if !e.valid(pi.Target) {
		return nil
	}
	return e.Generate(pi.Target)
}

func (e *Graph) IsTarget(n *pool.NodeState, pi *search.ProblemInstance) bool {
	return n.ID() == pi.Target
}

func (e *Graph) XY(id pool.NodeID) (int32, int32) {
	p := e.g.GetNode(int(id))
	return int32(p.Lon() * xyScale), int32(p.Lat() * xyScale)
}

func (e *Graph) Mem() uintptr {
	return unsafe.Sizeof(*e) - unsafe.Sizeof(e.Base) + e.Base.Mem()
}
