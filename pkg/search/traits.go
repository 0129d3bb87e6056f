package search

import (
	"math"

	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
)

// Traits define when a bidirectional search may stop.
// Implementations are zero-size types so the search is instantiated per variant.
type Traits interface {
	// Solvable is false if no further meeting point can be found
	Solvable(forwardOpen, backwardOpen int) bool
	// LowerBound on the cost of every solution not found yet. A nil top counts as exhausted.
	LowerBound(topForward, topBackward *pool.NodeState) pool.Cost
}

// BDijkstra is bidirectional Dijkstra bounded by the smaller top of both frontiers
type BDijkstra struct{}

func (BDijkstra) Solvable(f, b int) bool { return f > 0 && b > 0 }
func (BDijkstra) LowerBound(topF, topB *pool.NodeState) pool.Cost {
	return math.Min(g(topF), g(topB))
}

// BDijkstraSum is bidirectional Dijkstra bounded by the sum of both frontier tops
type BDijkstraSum struct{}

func (BDijkstraSum) Solvable(f, b int) bool { return f > 0 && b > 0 }
func (BDijkstraSum) LowerBound(topF, topB *pool.NodeState) pool.Cost {
	if topF == nil || topB == nil {
		return pool.CostMax
	}
	return topF.G() + topB.G()
}

// BHS is bidirectional heuristic search. Requires an admissible heuristic in both directions.
type BHS struct{}

func (BHS) Solvable(f, b int) bool { return f > 0 && b > 0 }
func (BHS) LowerBound(topF, topB *pool.NodeState) pool.Cost {
	if topF == nil || topB == nil {
		return pool.CostMax
	}
	return math.Max(topF.F(), topB.F())
}

// BCH is the query of a contraction hierarchy. Both searches only go upwards,
// so either side may keep running after the other is exhausted.
type BCH struct{}

func (BCH) Solvable(f, b int) bool { return f > 0 || b > 0 }
func (BCH) LowerBound(topF, topB *pool.NodeState) pool.Cost {
	return math.Min(g(topF), g(topB))
}

func g(n *pool.NodeState) pool.Cost {
	if n == nil {
		return pool.CostMax
	}
	return n.G()
}

func topF(ol *queue.OpenList) pool.Cost {
	if top := ol.Peek(); top != nil {
		return top.F()
	}
	return pool.CostMax
}
