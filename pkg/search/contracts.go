package search

import (
	"github.com/natevvv/bestfirst/pkg/pool"
)

// ExpansionPolicy knows the graph. It maps problem instances to nodes, stages
// the successors of a node and hands out node states from its pool.
//
// Usage inside a search:
//
//	e.Expand(current, pi)
//	for id, cost, ok := e.First(); ok; id, cost, ok = e.Next() {
//		n := e.Generate(id)
//		...
//	}
type ExpansionPolicy interface {
	// Expand stages the outgoing edges of current. Previously staged edges are dropped.
	Expand(current *pool.NodeState, pi *ProblemInstance)
	First() (pool.NodeID, pool.Cost, bool)
	Next() (pool.NodeID, pool.Cost, bool)

	// Generate returns the pool state for id, allocating it if necessary
	Generate(id pool.NodeID) *pool.NodeState
	// Get returns the pool state for id, or nil if it was never allocated
	Get(id pool.NodeID) *pool.NodeState

	// GenerateStartNode returns nil if the start of pi is not a valid location
	GenerateStartNode(pi *ProblemInstance) *pool.NodeState
	// GenerateTargetNode returns nil if the target of pi is not a valid location
	GenerateTargetNode(pi *ProblemInstance) *pool.NodeState
	IsTarget(n *pool.NodeState, pi *ProblemInstance) bool

	XY(id pool.NodeID) (x, y int32)
	Mem() uintptr
	Reclaim()
}

// Heuristic estimates the cost between two nodes.
// Optimal results require an admissible heuristic. Closed nodes are never
// reopened if it is consistent as well.
type Heuristic interface {
	H(from, to pool.NodeID) pool.Cost
	Mem() uintptr
}

// HeuristicValue is the in/out parameter of a BoundingHeuristic.
type HeuristicValue struct {
	From, To pool.NodeID

	LB pool.Cost // lower bound on the cost from From to To
	UB pool.Cost // upper bound, pool.CostMax if unknown
	// Feasible is set when UB is the cost of a concrete path
	Feasible bool

	// if set, the heuristic appends the nodes of the UB path (excluding From, including To)
	Path *[]pool.NodeID
}

// BoundingHeuristic additionally reports upper bounds and concrete path fragments.
// A search uses such a path as incumbent solution.
type BoundingHeuristic interface {
	Heuristic
	Bounds(hv *HeuristicValue)
}

// Listener observes a search. It must not change any node state.
// Start nodes are generated with a nil parent.
type Listener interface {
	GenerateNode(parent, child *pool.NodeState, edgeCost pool.Cost)
	ExpandNode(current *pool.NodeState)
	RelaxNode(n *pool.NodeState)
}

type NopListener struct{}

func (NopListener) GenerateNode(parent, child *pool.NodeState, edgeCost pool.Cost) {}
func (NopListener) ExpandNode(current *pool.NodeState)                             {}
func (NopListener) RelaxNode(n *pool.NodeState)                                    {}
