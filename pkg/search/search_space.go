package search

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/natevvv/bestfirst/pkg/pool"
)

// SearchSpace records every expanded node of a query.
// Call Reset before a query, it does not know when a new one starts.
type SearchSpace struct {
	Expanded  *roaring.Bitmap
	relaxed   int
	generated int
}

func NewSearchSpace() *SearchSpace {
	return &SearchSpace{Expanded: roaring.New()}
}

func (ss *SearchSpace) GenerateNode(parent, child *pool.NodeState, edgeCost pool.Cost) {
	ss.generated++
}

func (ss *SearchSpace) ExpandNode(current *pool.NodeState) {
	ss.Expanded.Add(current.ID())
}

func (ss *SearchSpace) RelaxNode(n *pool.NodeState) {
	ss.relaxed++
}

func (ss *SearchSpace) Reset() {
	ss.Expanded.Clear()
	ss.relaxed = 0
	ss.generated = 0
}

// Relaxations returns the number of successful relaxations since the last reset
func (ss *SearchSpace) Relaxations() int { return ss.relaxed }

// Generations returns the number of generated successors since the last reset
func (ss *SearchSpace) Generations() int { return ss.generated }

// Nodes returns the expanded node ids in ascending order
func (ss *SearchSpace) Nodes() []pool.NodeID {
	return ss.Expanded.ToArray()
}
