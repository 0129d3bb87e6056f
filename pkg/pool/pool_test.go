package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMaterializesBlock(t *testing.T) {
	p := NewNodePool(1000)
	assert.Nil(t, p.Get(5))
	assert.Equal(t, 0, p.Blocks())

	n := p.Generate(5)
	require.NotNil(t, n)
	assert.Equal(t, NodeID(5), n.ID())
	assert.Equal(t, uint32(0), n.SearchID(), "fresh nodes were never searched")
	assert.Equal(t, NoNode, n.Parent())
	assert.Equal(t, int32(-1), n.HeapIndex())
	assert.Equal(t, 1, p.Blocks())

	// neighbours in the same block do not allocate again
	assert.NotNil(t, p.Get(BlockSize-1))
	assert.Nil(t, p.Get(BlockSize))
	assert.Same(t, n, p.Get(5))
}

func TestGenerateBeyondInitialSize(t *testing.T) {
	p := NewNodePool(10)
	far := NodeID(50 * BlockSize)
	n := p.Generate(far)
	n.Init(3, 7, 1, 2, CostMax)

	near := p.Generate(1)
	assert.Equal(t, 2, p.Blocks())
	assert.Same(t, n, p.Get(far), "growing the directory must not move blocks")
	assert.Equal(t, NodeID(1), near.ID())
	assert.Equal(t, uint32(3), p.Get(far).SearchID())
}

func TestRelax(t *testing.T) {
	var n NodeState = makeNodeState(4)
	n.Init(1, NoNode, 10, 15, CostMax)
	n.Relax(6, 2)
	assert.Equal(t, 6.0, n.G())
	assert.Equal(t, 11.0, n.F(), "heuristic part of f is kept")
	assert.Equal(t, NodeID(2), n.Parent())
}

func TestMemGrowsWithTouchedBlocks(t *testing.T) {
	p := NewNodePool(100000)
	before := p.Mem()
	p.Generate(0)
	p.Generate(99999)
	assert.Greater(t, p.Mem(), before)
	assert.Equal(t, 2, p.Blocks())
}
