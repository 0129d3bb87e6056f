package pool

import "unsafe"

const (
	log2BlockSize = 8
	BlockSize     = 1 << log2BlockSize
	blockMask     = BlockSize - 1
)

type block [BlockSize]NodeState

// NodePool owns the NodeState of every vertex a search ever touched.
// Memory is allocated in fixed blocks on first access of an id range.
// Blocks are never moved or freed, so a *NodeState stays valid for the lifetime of the pool.
type NodePool struct {
	blocks []*block
}

// Create a pool sized for numNodes ids. Larger ids are still accepted, the block directory grows on demand.
func NewNodePool(numNodes int) *NodePool {
	numBlocks := (numNodes >> log2BlockSize) + 1
	return &NodePool{blocks: make([]*block, numBlocks)}
}

// Generate returns the state for id, materializing its block if necessary
func (p *NodePool) Generate(id NodeID) *NodeState {
	blockID := int(id >> log2BlockSize)
	if blockID >= len(p.blocks) {
		grown := make([]*block, blockID+1+len(p.blocks)/2)
		copy(grown, p.blocks)
		p.blocks = grown
	}
	b := p.blocks[blockID]
	if b == nil {
		b = new(block)
		base := id &^ blockMask
		for i := range b {
			b[i] = makeNodeState(base + NodeID(i))
		}
		p.blocks[blockID] = b
	}
	return &b[id&blockMask]
}

// Get returns the state for id or nil if its block was never materialized
func (p *NodePool) Get(id NodeID) *NodeState {
	blockID := int(id >> log2BlockSize)
	if blockID >= len(p.blocks) || p.blocks[blockID] == nil {
		return nil
	}
	return &p.blocks[blockID][id&blockMask]
}

// Blocks returns the number of materialized blocks
func (p *NodePool) Blocks() int {
	count := 0
	for _, b := range p.blocks {
		if b != nil {
			count++
		}
	}
	return count
}

// Mem reports the bytes held by the pool
func (p *NodePool) Mem() uintptr {
	return unsafe.Sizeof(*p) +
		uintptr(cap(p.blocks))*unsafe.Sizeof((*block)(nil)) +
		uintptr(p.Blocks())*unsafe.Sizeof(block{})
}
