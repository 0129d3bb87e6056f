package expansion

import (
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/search"
)

// CH expands one side of a contraction hierarchy query.
// upward holds the arcs towards higher ranked nodes in search direction,
// incoming holds for every node the arcs from higher ranked nodes against search direction.
// For the forward side these are the up graph and the (transposed) down graph, the backward side swaps them.
type CH struct {
	Base
	upward   graph.Graph
	incoming graph.Graph
	stall    bool
	stalled  int
}

func NewCH(upward, incoming graph.Graph, stallOnDemand bool) *CH {
	return &CH{Base: NewBase(upward.NodeCount()), upward: upward, incoming: incoming, stall: stallOnDemand}
}

// Expand stages the upward arcs of current, unless a higher ranked node
// already reached by this search offers a cheaper path to current (stall-on-demand).
func (e *CH) Expand(current *pool.NodeState, pi *search.ProblemInstance) {
	e.reset()
	if e.stall && e.stallable(current) {
		e.stalled++
		return
	}
	for _, arc := range e.upward.GetArcsFrom(int(current.ID())) {
		e.AddNeighbour(pool.NodeID(arc.To), pool.Cost(arc.Distance))
	}
}

func (e *CH) stallable(current *pool.NodeState) bool {
	for _, arc := range e.incoming.GetArcsFrom(int(current.ID())) {
		higher := e.Get(pool.NodeID(arc.To))
		if higher != nil && higher.SearchID() == current.SearchID() && higher.G()+pool.Cost(arc.Distance) < current.G() {
			return true
		}
	}
	return false
}

// Stalled returns the number of stalled expansions since the last reset
func (e *CH) Stalled() int { return e.stalled }

func (e *CH) ResetStalled() { e.stalled = 0 }

func (e *CH) valid(id pool.NodeID) bool {
	return int(id) < e.upward.NodeCount()
}

func (e *CH) GenerateStartNode(pi *search.ProblemInstance) *pool.NodeState {
	if !e.valid(pi.Start) {
		return nil
	}
	return e.Generate(pi.Start)
}

func (e *CH) GenerateTargetNode(pi *search.ProblemInstance) *pool.NodeState {
	if !e.valid(pi.Target) {
		return nil
	}
	return e.Generate(pi.Target)
}

func (e *CH) IsTarget(n *pool.NodeState, pi *search.ProblemInstance) bool {
	return n.ID() == pi.Target
}

func (e *CH) XY(id pool.NodeID) (int32, int32) {
	p := e.upward.GetNode(int(id))
	return int32(p.Lon() * xyScale), int32(p.Lat() * xyScale)
}

func (e *CH) Mem() uintptr {
	return unsafe.Sizeof(*e) - unsafe.Sizeof(e.Base) + e.Base.Mem()
}
