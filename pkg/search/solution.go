package search

import (
	"fmt"
	"time"

	"github.com/natevvv/bestfirst/pkg/pool"
)

// Metrics of a single query
type Metrics struct {
	NodesExpanded  int
	NodesGenerated int
	NodesReopened  int
	NodesSurplus   int // size of the open list(s) at termination
	HeapOps        int
	Elapsed        time.Duration
	LB             pool.Cost // f-value of the last expanded node
	UB             pool.Cost // best upper bound reported by the heuristic
}

func (m *Metrics) Reset() {
	*m = Metrics{UB: pool.CostMax}
}

func (m Metrics) String() string {
	return fmt.Sprintf("expanded: %v, generated: %v, reopened: %v, surplus: %v, heap ops: %v, time: %v",
		m.NodesExpanded, m.NodesGenerated, m.NodesReopened, m.NodesSurplus, m.HeapOps, m.Elapsed)
}

// Solution of a query. An unsolved query has an empty path and cost pool.CostMax.
// Whether it was unreachable or cut off can be told from the metrics.
type Solution struct {
	Path    []pool.NodeID
	Cost    pool.Cost
	Metrics Metrics
}

func NewSolution() *Solution {
	s := &Solution{}
	s.Reset()
	return s
}

// Reset clears the solution but keeps the path buffer
func (s *Solution) Reset() {
	s.Path = s.Path[:0]
	s.Cost = pool.CostMax
	s.Metrics.Reset()
}

func (s *Solution) Solved() bool {
	return s.Cost < pool.CostMax
}

func (s *Solution) String() string {
	if !s.Solved() {
		return fmt.Sprintf("no solution (%v)", s.Metrics)
	}
	return fmt.Sprintf("cost %v, %v nodes (%v)", s.Cost, len(s.Path), s.Metrics)
}
