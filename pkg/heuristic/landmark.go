package heuristic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/search"
)

var ErrNoLandmarks = errors.New("heuristic: no landmarks")

// Landmark is the ALT heuristic: triangle inequality bounds from precomputed
// distances to and from a few landmark nodes. It is admissible and consistent.
type Landmark struct {
	landmarks []pool.NodeID
	from      [][]pool.Cost // from[i][v] = d(landmark i, v)
	to        [][]pool.Cost // to[i][v] = d(v, landmark i)
}

// NewLandmark selects count landmarks greedily (each one farthest from the ones before, starting at seed)
// and computes their distances. The backward distances run concurrently, one engine per landmark.
func NewLandmark(ctx context.Context, g graph.Graph, count int, seed pool.NodeID) (*Landmark, error) {
	if count <= 0 || g.NodeCount() == 0 {
		return nil, ErrNoLandmarks
	}
	if int(seed) >= g.NodeCount() {
		return nil, fmt.Errorf("%w: seed %v outside of graph", ErrNoLandmarks, seed)
	}

	l := &Landmark{}
	forward := newDistanceSearch(g)
	minDistance := make([]pool.Cost, g.NodeCount())
	for i := range minDistance {
		minDistance[i] = pool.CostMax
	}

	next := seed
	for len(l.landmarks) < count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := forward.distances(next)
		l.landmarks = append(l.landmarks, next)
		l.from = append(l.from, d)

		// farthest reachable node from all chosen landmarks
		best := pool.Cost(-1)
		for v, dv := range d {
			if dv < minDistance[v] {
				minDistance[v] = dv
			}
			if minDistance[v] < pool.CostMax && minDistance[v] > best {
				best = minDistance[v]
				next = pool.NodeID(v)
			}
		}
		if best <= 0 {
			// every reachable node is a landmark already
			break
		}
	}

	transposed := graph.Transpose(g)
	l.to = make([][]pool.Cost, len(l.landmarks))
	eg, ctx := errgroup.WithContext(ctx)
	for i, lm := range l.landmarks {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.to[i] = newDistanceSearch(transposed).distances(lm)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Landmark) Landmarks() []pool.NodeID { return l.landmarks }

func (l *Landmark) H(from, to pool.NodeID) pool.Cost {
	if to == pool.NoNode {
		return 0
	}
	h := pool.Cost(0)
	for i := range l.landmarks {
		if lt, lv := l.from[i][to], l.from[i][from]; lt < pool.CostMax && lv < pool.CostMax {
			h = math.Max(h, lt-lv)
		}
		if vl, tl := l.to[i][from], l.to[i][to]; vl < pool.CostMax && tl < pool.CostMax {
			h = math.Max(h, vl-tl)
		}
	}
	return h
}

// Bounds reports the ALT lower bound and the detour over the best landmark as upper bound.
// The upper bound is not feasible, no path is attached.
func (l *Landmark) Bounds(hv *search.HeuristicValue) {
	hv.LB = l.H(hv.From, hv.To)
	hv.UB = pool.CostMax
	hv.Feasible = false
	if hv.To == pool.NoNode {
		return
	}
	for i := range l.landmarks {
		if vl, lt := l.to[i][hv.From], l.from[i][hv.To]; vl < pool.CostMax && lt < pool.CostMax && vl+lt < hv.UB {
			hv.UB = vl + lt
		}
	}
}

func (l *Landmark) Mem() uintptr {
	mem := unsafe.Sizeof(*l) + uintptr(cap(l.landmarks))*unsafe.Sizeof(pool.NodeID(0))
	for i := range l.from {
		mem += uintptr(cap(l.from[i])+cap(l.to[i])) * unsafe.Sizeof(pool.Cost(0))
	}
	return mem
}

// distanceSearch is a one-to-all Dijkstra on the search engine
type distanceSearch struct {
	ctx      *search.Context
	expander *expansion.Graph
	engine   *search.Unidirectional[Zero, *expansion.Graph, search.NopListener]
	nodes    int
}

func newDistanceSearch(g graph.Graph) *distanceSearch {
	e := expansion.NewGraph(g)
	return &distanceSearch{
		ctx:      search.NewContext(),
		expander: e,
		engine:   search.NewUnidirectional(Zero{}, e, queue.NewOpenList(g.NodeCount())),
		nodes:    g.NodeCount(),
	}
}

func (ds *distanceSearch) distances(origin pool.NodeID) []pool.Cost {
	pi := ds.ctx.NewInstance(origin, pool.NoNode)
	ds.engine.GetPathCost(pi, search.NewSolution())
	d := make([]pool.Cost, ds.nodes)
	for v := range d {
		d[v] = pool.CostMax
		if n := ds.expander.Get(pool.NodeID(v)); n != nil && n.SearchID() == pi.InstanceID {
			d[v] = n.G()
		}
	}
	return d
}
