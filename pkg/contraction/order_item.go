package contraction

import (
	"fmt"

	"github.com/natevvv/bestfirst/pkg/graph"
)

// OrderItem is the contraction priority of a node. Implements queue.Priorizable.
type OrderItem struct {
	nodeId              graph.NodeId
	edgeDifference      int
	contractedNeighbors int
	index               int
}

func NewOrderItem(nodeId graph.NodeId) *OrderItem {
	return &OrderItem{nodeId: nodeId, index: -1}
}

func (o *OrderItem) NodeId() graph.NodeId { return o.nodeId }
func (o *OrderItem) Priority() int        { return o.edgeDifference + o.contractedNeighbors }
func (o *OrderItem) Index() int           { return o.index }
func (o *OrderItem) SetIndex(i int)       { o.index = i }
func (o *OrderItem) String() string {
	return fmt.Sprintf("%v: %v, %v\n", o.index, o.nodeId, o.Priority())
}

// apply takes the priority terms of a simulated contraction, honoring the order options
func (o *OrderItem) apply(r simulation, oo OrderOptions) {
	o.edgeDifference = 0
	o.contractedNeighbors = 0
	if oo.ConsiderEdgeDifference() {
		o.edgeDifference = len(r.shortcuts) - r.incidentArcs
	}
	if oo.ConsiderContractedNeighbors() {
		o.contractedNeighbors = r.contractedNeighbors
	}
}
