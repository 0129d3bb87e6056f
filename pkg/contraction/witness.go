package contraction

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/heuristic"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/search"
)

// Shortcut is an arc Source -> Target replacing the path Source -> Via -> Target
type Shortcut struct {
	Source graph.NodeId
	Target graph.NodeId
	Via    graph.NodeId
	Cost   int
}

// simulation is the outcome of a virtual contraction
type simulation struct {
	shortcuts           []Shortcut
	incidentArcs        int // arcs to uncontracted neighbours
	contractedNeighbors int
}

// witnessSearch runs the local searches deciding whether a shortcut is needed.
// Every worker owns one, they only share the read-only graphs.
type witnessSearch struct {
	ctx        *search.Context
	expander   *expansion.Graph
	engine     *search.Unidirectional[heuristic.Zero, *expansion.Graph, search.NopListener]
	sol        *search.Solution
	contracted *bitset.BitSet
	current    pool.NodeID
}

func newWitnessSearch(out graph.Graph, contracted *bitset.BitSet, maxSettledNodes int) *witnessSearch {
	w := &witnessSearch{
		ctx:        search.NewContext(),
		expander:   expansion.NewGraph(out),
		sol:        search.NewSolution(),
		contracted: contracted,
		current:    pool.NoNode,
	}
	w.expander.Ignore = func(id pool.NodeID) bool {
		return id == w.current || w.contracted.Test(uint(id))
	}
	w.engine = search.NewUnidirectional(heuristic.Zero{}, w.expander, queue.NewOpenList(64))
	w.engine.SetMaxExpansionsCutoff(maxSettledNodes)
	return w
}

// simulate computes the shortcuts needed when v gets contracted.
// out holds the arcs of the current overlay graph, in the same arcs reversed.
func (w *witnessSearch) simulate(v graph.NodeId, out, in graph.Graph) simulation {
	var r simulation
	outgoing := out.GetArcsFrom(v)
	incoming := in.GetArcsFrom(v)
	for _, arc := range outgoing {
		if w.contracted.Test(uint(arc.To)) {
			r.contractedNeighbors++
		} else {
			r.incidentArcs++
		}
	}

	w.current = pool.NodeID(v)
	for _, inArc := range incoming {
		source := inArc.To
		if w.contracted.Test(uint(source)) {
			r.contractedNeighbors++
			continue
		}
		r.incidentArcs++

		maxCost := -1
		for _, outArc := range outgoing {
			if outArc.To != source && !w.contracted.Test(uint(outArc.To)) && inArc.Distance+outArc.Distance > maxCost {
				maxCost = inArc.Distance + outArc.Distance
			}
		}
		if maxCost < 0 {
			continue
		}

		// one-to-many search from source without v, bounded by the most expensive path over v
		pi := w.ctx.NewInstance(pool.NodeID(source), pool.NoNode)
		w.engine.SetCostCutoff(pool.Cost(maxCost))
		w.engine.GetPathCost(pi, w.sol)

		for _, outArc := range outgoing {
			target := outArc.To
			if target == source || w.contracted.Test(uint(target)) {
				continue
			}
			cost := inArc.Distance + outArc.Distance
			if n := w.expander.Get(pool.NodeID(target)); n != nil && n.SearchID() == pi.InstanceID && n.G() <= pool.Cost(cost) {
				// witness found
				continue
			}
			r.shortcuts = append(r.shortcuts, Shortcut{Source: source, Target: target, Via: v, Cost: cost})
		}
	}
	w.current = pool.NoNode
	return r
}
