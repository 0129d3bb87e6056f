package contraction

import (
	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/heuristic"
	"github.com/natevvv/bestfirst/pkg/search"
)

// Query answers shortest path queries on a hierarchy with a bidirectional upward search.
type Query struct {
	h        *Hierarchy
	forward  *expansion.CH
	backward *expansion.CH
	engine   *search.Bidirectional[heuristic.Zero, *expansion.CH, search.BCH, *search.SearchSpace]
}

func NewQuery(h *Hierarchy, stallOnDemand bool, opts ...search.Option) *Query {
	q := &Query{
		h:        h,
		forward:  expansion.NewCH(h.Up, h.Down, stallOnDemand),
		backward: expansion.NewCH(h.Down, h.Up, stallOnDemand),
	}
	q.engine = search.NewBidirectionalWithListener(heuristic.Zero{}, q.forward, q.backward, search.BCH{}, search.NewSearchSpace(), opts...)
	return q
}

// GetPath solves pi and stores the unpacked path in sol
func (q *Query) GetPath(pi *search.ProblemInstance, sol *search.Solution) {
	q.engine.GetPath(pi, sol)
	if sol.Solved() {
		sol.Path = q.h.Unpack(sol.Path)
	}
}

func (q *Query) GetPathCost(pi *search.ProblemInstance, sol *search.Solution) {
	q.engine.GetPathCost(pi, sol)
}

// SearchSpace returns the nodes expanded by both sides since the last reset
func (q *Query) SearchSpace() *search.SearchSpace { return q.engine.Listener() }

// Stalled returns the number of stalled expansions of both sides since the last reset
func (q *Query) Stalled() int { return q.forward.Stalled() + q.backward.Stalled() }

func (q *Query) ResetStats() {
	q.forward.ResetStalled()
	q.backward.ResetStalled()
	q.engine.Listener().Reset()
}

func (q *Query) Hierarchy() *Hierarchy { return q.h }

func (q *Query) Engine() *search.Bidirectional[heuristic.Zero, *expansion.CH, search.BCH, *search.SearchSpace] {
	return q.engine
}

func (q *Query) Reclaim() { q.engine.Reclaim() }
