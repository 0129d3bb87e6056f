// Package expansion implements search.ExpansionPolicy for grids, static graphs and contraction hierarchies.
package expansion

import (
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/pool"
)

type neighbour struct {
	id   pool.NodeID
	cost pool.Cost
}

// Base owns the node pool and the staged successors of the last expansion.
// Concrete policies embed it and fill the stage in Expand.
type Base struct {
	pool       *pool.NodePool
	neighbours []neighbour
	cursor     int
}

func NewBase(numNodes int) Base {
	return Base{pool: pool.NewNodePool(numNodes), neighbours: make([]neighbour, 0, 8)}
}

// reset drops the staged successors of the previous expansion
func (b *Base) reset() {
	b.neighbours = b.neighbours[:0]
	b.cursor = 0
}

func (b *Base) AddNeighbour(id pool.NodeID, cost pool.Cost) {
	b.neighbours = append(b.neighbours, neighbour{id: id, cost: cost})
}

func (b *Base) First() (pool.NodeID, pool.Cost, bool) {
	b.cursor = 0
	return b.Next()
}

func (b *Base) Next() (pool.NodeID, pool.Cost, bool) {
	if b.cursor >= len(b.neighbours) {
		return pool.NoNode, 0, false
	}
	n := b.neighbours[b.cursor]
	b.cursor++
	return n.id, n.cost, true
}

func (b *Base) Generate(id pool.NodeID) *pool.NodeState { return b.pool.Generate(id) }
func (b *Base) Get(id pool.NodeID) *pool.NodeState      { return b.pool.Get(id) }
func (b *Base) Pool() *pool.NodePool                    { return b.pool }

func (b *Base) Mem() uintptr {
	return unsafe.Sizeof(*b) + b.pool.Mem() + uintptr(cap(b.neighbours))*unsafe.Sizeof(neighbour{})
}

// Reclaim drops the staged successors, pooled node states are kept
func (b *Base) Reclaim() {
	b.reset()
}
