package pool

import (
	"fmt"
	"math"
)

type NodeID = uint32

// Cost of a path or edge
type Cost = float64

const (
	NoNode  NodeID = math.MaxUint32  // sentinel for "no parent" / "no target"
	CostMax Cost   = math.MaxFloat64 // sentinel for unreachable / unsolved
)

// NodeState holds the per-vertex bookkeeping of a search.
// Everything except the id and the search id is only valid if the search id
// equals the id of the currently running problem instance.
type NodeState struct {
	id        NodeID
	searchID  uint32
	g         Cost
	f         Cost
	ub        Cost
	parent    NodeID
	expanded  bool
	heapIndex int32
}

func makeNodeState(id NodeID) NodeState {
	return NodeState{id: id, g: CostMax, f: CostMax, ub: CostMax, parent: NoNode, heapIndex: -1}
}

// Init stamps the node for the given search and sets fresh cost values
func (n *NodeState) Init(searchID uint32, parent NodeID, g, f, ub Cost) {
	n.searchID = searchID
	n.parent = parent
	n.g = g
	n.f = f
	n.ub = ub
	n.expanded = false
}

// Relax lowers the g-value and shifts f accordingly
func (n *NodeState) Relax(g Cost, parent NodeID) {
	if debugChecks && g >= n.g {
		panic(fmt.Sprintf("relaxation of node %v does not improve cost (%v >= %v)", n.id, g, n.g))
	}
	n.f = (n.f - n.g) + g
	n.g = g
	n.parent = parent
}

func (n *NodeState) ID() NodeID           { return n.id }
func (n *NodeState) SearchID() uint32     { return n.searchID }
func (n *NodeState) G() Cost              { return n.g }
func (n *NodeState) F() Cost              { return n.f }
func (n *NodeState) UB() Cost             { return n.ub }
func (n *NodeState) Parent() NodeID       { return n.parent }
func (n *NodeState) Expanded() bool       { return n.expanded }
func (n *NodeState) HeapIndex() int32     { return n.heapIndex }
func (n *NodeState) SetExpanded(e bool)   { n.expanded = e }
func (n *NodeState) SetHeapIndex(i int32) { n.heapIndex = i }
func (n *NodeState) SetUB(ub Cost)        { n.ub = ub }

func (n *NodeState) String() string {
	return fmt.Sprintf("{id: %v, search: %v, g: %v, f: %v, parent: %v, expanded: %v}", n.id, n.searchID, n.g, n.f, n.parent, n.expanded)
}
