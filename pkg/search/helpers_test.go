package search_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/grid"
	"github.com/natevvv/bestfirst/pkg/heuristic"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/search"
)

var maze = []string{
	"..........",
	".@@@@@@@..",
	".@.....@..",
	".@.@@@.@..",
	"...@.@....",
	".@@@.@@@@.",
	".....@....",
	"@@@.@@.@@.",
	"..........",
	".@@@@@@@@.",
}

func parseMap(t *testing.T, rows ...string) *grid.Map {
	t.Helper()
	m, err := grid.ParseASCII(rows...)
	require.NoError(t, err)
	return m
}

func loadCuttable(t *testing.T) *graph.AdjacencyArrayGraph {
	t.Helper()
	g, err := graph.NewAdjacencyArrayFromFmiFile("../graph/testdata/cuttable.fmi")
	require.NoError(t, err)
	return g
}

func newGridAStar(m *grid.Map, opts ...search.Option) *search.Unidirectional[heuristic.Octile, *expansion.Grid, search.NopListener] {
	return search.NewUnidirectional(heuristic.NewOctile(m), expansion.NewGrid(m, grid.Conn8), queue.NewOpenList(64), opts...)
}

func newGridBidirectional[H search.Heuristic, T search.Traits](m *grid.Map, h H, traits T, opts ...search.Option) *search.Bidirectional[H, *expansion.Grid, T, search.NopListener] {
	return search.NewBidirectional(h, expansion.NewGrid(m, grid.Conn8), expansion.NewGrid(m, grid.Conn8), traits, opts...)
}

func newGraphBidirectional[T search.Traits](g graph.Graph, traits T, opts ...search.Option) *search.Bidirectional[heuristic.Zero, *expansion.Graph, T, search.NopListener] {
	return search.NewBidirectional(heuristic.Zero{}, expansion.NewGraph(g), expansion.NewGraph(graph.Transpose(g)), traits, opts...)
}

// referenceGridDistances is an independent Dijkstra over an 8-connected grid without corner cutting
func referenceGridDistances(m *grid.Map, sx, sy int) []float64 {
	dist := make([]float64, m.Size())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	start := int(m.ID(sx, sy))
	dist[start] = 0
	pq := queue.NewQueue(queue.Item{ItemId: start, Priority: 0})
	for pq.Len() > 0 {
		item := pq.PopItem()
		if item.Priority > dist[item.ItemId] {
			continue
		}
		x, y := m.XY(uint32(item.ItemId))
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if (dx == 0 && dy == 0) || !m.Traversable(x+dx, y+dy) {
					continue
				}
				cost := 1.0
				if dx != 0 && dy != 0 {
					if !m.Traversable(x+dx, y) || !m.Traversable(x, y+dy) {
						continue
					}
					cost = math.Sqrt2
				}
				next := int(m.ID(x+dx, y+dy))
				if d := item.Priority + cost; d < dist[next] {
					dist[next] = d
					pq.PushItem(next, d)
				}
			}
		}
	}
	return dist
}

// requireGridPath checks that path is a connected walk over free cells with the given cost
func requireGridPath(t *testing.T, m *grid.Map, path []pool.NodeID, start, target pool.NodeID, cost pool.Cost) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, target, path[len(path)-1])
	sum := 0.0
	for i := 0; i+1 < len(path); i++ {
		ax, ay := m.XY(path[i])
		bx, by := m.XY(path[i+1])
		dx, dy := bx-ax, by-ay
		require.True(t, dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1 && (dx != 0 || dy != 0), "cells %v and %v are not adjacent", path[i], path[i+1])
		require.True(t, m.Traversable(bx, by))
		if dx != 0 && dy != 0 {
			require.True(t, m.Traversable(ax+dx, ay) && m.Traversable(ax, ay+dy), "corner cut between %v and %v", path[i], path[i+1])
			sum += math.Sqrt2
		} else {
			sum++
		}
	}
	assert.InDelta(t, cost, sum, 1e-9)
}

// requireGraphPath checks that path follows arcs of g and sums up to cost
func requireGraphPath(t *testing.T, g graph.Graph, path []pool.NodeID, start, target pool.NodeID, cost pool.Cost) {
	t.Helper()
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, target, path[len(path)-1])
	sum := 0
	for i := 0; i+1 < len(path); i++ {
		found := false
		for _, arc := range g.GetArcsFrom(int(path[i])) {
			if arc.To == int(path[i+1]) {
				sum += arc.Distance
				found = true
				break
			}
		}
		require.True(t, found, "no arc %v -> %v", path[i], path[i+1])
	}
	assert.Equal(t, cost, pool.Cost(sum))
}

// table is an explicit heuristic towards a single fixed target
type table map[pool.NodeID]pool.Cost

func (h table) H(from, to pool.NodeID) pool.Cost { return h[from] }
func (h table) Mem() uintptr                     { return 0 }

// oracle knows the exact distances on a line graph 0 -> 1 -> ... -> n with unit costs
type oracle struct{}

func (oracle) H(from, to pool.NodeID) pool.Cost { return pool.Cost(to) - pool.Cost(from) }
func (oracle) Mem() uintptr                     { return 0 }
func (o oracle) Bounds(hv *search.HeuristicValue) {
	hv.LB = o.H(hv.From, hv.To)
	hv.UB = hv.LB
	hv.Feasible = true
	if hv.Path != nil {
		for id := hv.From + 1; id <= hv.To; id++ {
			*hv.Path = append(*hv.Path, id)
		}
	}
}

type generation struct {
	parent pool.NodeID // NoNode for start nodes
	id     pool.NodeID
	g, f   pool.Cost
}

// recorder keeps every generation event
type recorder struct {
	generated []generation
}

func (r *recorder) GenerateNode(parent, child *pool.NodeState, edgeCost pool.Cost) {
	e := generation{parent: pool.NoNode, id: child.ID(), g: child.G(), f: child.F()}
	if parent != nil {
		e.parent = parent.ID()
	}
	r.generated = append(r.generated, e)
}
func (r *recorder) ExpandNode(current *pool.NodeState) {}
func (r *recorder) RelaxNode(n *pool.NodeState)        {}

func (r *recorder) starts() []pool.NodeID {
	var ids []pool.NodeID
	for _, e := range r.generated {
		if e.parent == pool.NoNode {
			ids = append(ids, e.id)
		}
	}
	return ids
}
