package search_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/grid"
	"github.com/natevvv/bestfirst/pkg/heuristic"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/search"
)

type bidirectional interface {
	GetPath(pi *search.ProblemInstance, sol *search.Solution)
	GetPathCost(pi *search.ProblemInstance, sol *search.Solution)
	SetMaxExpansionsCutoff(count int)
	SetCostCutoff(cost pool.Cost)
}

func TestBidirectionalEquivalenceOnGrid(t *testing.T) {
	m := parseMap(t, maze...)
	engines := map[string]bidirectional{
		"dijkstra":            newGridBidirectional(m, heuristic.Zero{}, search.BDijkstra{}),
		"dijkstra-sum":        newGridBidirectional(m, heuristic.Zero{}, search.BDijkstraSum{}),
		"heuristic":           newGridBidirectional(m, heuristic.NewOctile(m), search.BHS{}),
		"smaller-frontier":    newGridBidirectional(m, heuristic.Zero{}, search.BDijkstraSum{}, search.WithBalancer(search.BalanceSmallerFrontier)),
		"heuristic-no-reopen": newGridBidirectional(m, heuristic.NewOctile(m), search.BHS{}, search.WithReopen(search.ReopenNever)),
	}
	unidirectional := newGridAStar(m)

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			ctx := search.NewContext()
			sol, reference := search.NewSolution(), search.NewSolution()
			for _, start := range [][2]int{{0, 0}, {6, 2}, {9, 9}} {
				for y := 0; y < m.Height(); y++ {
					for x := 0; x < m.Width(); x++ {
						if !m.Traversable(x, y) {
							continue
						}
						pi := ctx.NewInstance(m.ID(start[0], start[1]), m.ID(x, y))
						engine.GetPath(pi, sol)
						unidirectional.GetPath(ctx.NewInstance(pi.Start, pi.Target), reference)
						require.True(t, sol.Solved(), "%v", pi)
						assert.InDelta(t, reference.Cost, sol.Cost, 1e-9, "%v", pi)
						requireGridPath(t, m, sol.Path, pi.Start, pi.Target, sol.Cost)
					}
				}
			}
		})
	}
}

func TestBidirectionalScenarios(t *testing.T) {
	open := parseMap(t, ".....", ".....", ".....", ".....", ".....")
	gap := parseMap(t, ".....", ".....", "@@.@@", ".....", ".....")
	wall := parseMap(t, ".....", ".....", "@@@@@", ".....", ".....")
	ctx := search.NewContext()
	sol := search.NewSolution()

	s := newGridBidirectional(open, heuristic.NewOctile(open), search.BHS{})
	s.GetPath(ctx.NewInstance(open.ID(0, 0), open.ID(4, 4)), sol)
	assert.InDelta(t, 4*math.Sqrt2, sol.Cost, 1e-9)
	assert.Len(t, sol.Path, 5)
	assert.LessOrEqual(t, sol.Metrics.NodesExpanded, 25)

	s = newGridBidirectional(gap, heuristic.NewOctile(gap), search.BHS{})
	s.GetPath(ctx.NewInstance(gap.ID(0, 0), gap.ID(4, 4)), sol)
	assert.InDelta(t, 4+2*math.Sqrt2, sol.Cost, 1e-9)
	assert.Contains(t, sol.Path, gap.ID(2, 2))
	requireGridPath(t, gap, sol.Path, gap.ID(0, 0), gap.ID(4, 4), sol.Cost)

	s = newGridBidirectional(wall, heuristic.NewOctile(wall), search.BHS{})
	s.GetPath(ctx.NewInstance(wall.ID(0, 0), wall.ID(4, 4)), sol)
	assert.False(t, sol.Solved())
	assert.Empty(t, sol.Path)
	assert.Positive(t, sol.Metrics.NodesExpanded)
}

func TestBidirectionalOnDirectedGraph(t *testing.T) {
	g, _ := inconsistentGraph()
	s := newGraphBidirectional(g, search.BDijkstraSum{})
	ctx := search.NewContext()
	sol := search.NewSolution()

	for from := 0; from < g.NodeCount(); from++ {
		for to := 0; to < g.NodeCount(); to++ {
			length, _ := graph.ShortestPath(g, from, to)
			pi := ctx.NewInstance(pool.NodeID(from), pool.NodeID(to))
			s.GetPath(pi, sol)
			if length < 0 {
				assert.False(t, sol.Solved(), "%v", pi)
				assert.Empty(t, sol.Path)
				continue
			}
			require.True(t, sol.Solved(), "%v", pi)
			assert.Equal(t, pool.Cost(length), sol.Cost, "%v", pi)
			requireGraphPath(t, g, sol.Path, pi.Start, pi.Target, sol.Cost)
		}
	}
}

func TestBidirectionalOnCuttableGraph(t *testing.T) {
	g := loadCuttable(t)
	engines := map[string]bidirectional{
		"min":  newGraphBidirectional(g, search.BDijkstra{}),
		"sum":  newGraphBidirectional(g, search.BDijkstraSum{}),
		"ch":   newGraphBidirectional(g, search.BCH{}),
		"size": newGraphBidirectional(g, search.BDijkstra{}, search.WithBalancer(search.BalanceSmallerFrontier)),
	}
	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			ctx := search.NewContext()
			sol := search.NewSolution()
			for from := 0; from < g.NodeCount(); from++ {
				distances := graph.ShortestDistances(g, from, -1)
				for to := 0; to < g.NodeCount(); to++ {
					pi := ctx.NewInstance(pool.NodeID(from), pool.NodeID(to))
					engine.GetPath(pi, sol)
					assert.Equal(t, pool.Cost(distances.Distance(to)), sol.Cost, "%v", pi)
					requireGraphPath(t, g, sol.Path, pi.Start, pi.Target, sol.Cost)

					engine.GetPathCost(ctx.NewInstance(pi.Start, pi.Target), sol)
					assert.Equal(t, pool.Cost(distances.Distance(to)), sol.Cost, "%v", pi)
					assert.Empty(t, sol.Path)
				}
			}
		})
	}
}

func TestBidirectionalCutoffs(t *testing.T) {
	m := parseMap(t, maze...)
	s := newGridBidirectional(m, heuristic.Zero{}, search.BDijkstraSum{})
	ctx := search.NewContext()
	sol := search.NewSolution()
	start, target := m.ID(0, 0), m.ID(9, 8)

	s.GetPath(ctx.NewInstance(start, target), sol)
	require.True(t, sol.Solved())
	optimal := sol.Cost
	full := sol.Metrics.NodesExpanded

	for cutoff := 0; cutoff <= full; cutoff++ {
		s.SetMaxExpansionsCutoff(cutoff)
		s.GetPath(ctx.NewInstance(start, target), sol)
		assert.LessOrEqual(t, sol.Metrics.NodesExpanded, cutoff)
		if sol.Solved() {
			assert.GreaterOrEqual(t, sol.Cost, optimal-1e-9)
			requireGridPath(t, m, sol.Path, start, target, sol.Cost)
		}
	}
	s.ResetCutoffs()

	s.SetCostCutoff(optimal - 1)
	s.GetPath(ctx.NewInstance(start, target), sol)
	assert.False(t, sol.Solved())
	assert.Empty(t, sol.Path)
	s.ResetCutoffs()

	s.SetTimeCutoff(0)
	s.GetPath(ctx.NewInstance(start, target), sol)
	assert.InDelta(t, optimal, sol.Cost, 1e-9)
}

func TestBidirectionalStartIsTarget(t *testing.T) {
	g := loadCuttable(t)
	s := newGraphBidirectional(g, search.BDijkstra{})
	sol := search.NewSolution()
	s.GetPath(search.NewContext().NewInstance(4, 4), sol)
	assert.Equal(t, 0.0, sol.Cost)
	assert.Equal(t, []pool.NodeID{4}, sol.Path)

	s.GetPath(search.NewContext().NewInstance(4, 40), sol)
	assert.False(t, sol.Solved())
}

func TestResumedQueries(t *testing.T) {
	g := loadCuttable(t)
	var buf bytes.Buffer
	logger := logging.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s := newGraphBidirectional(g, search.BDijkstra{}, search.WithLogger(logger))
	forward, _ := s.Expanders()
	ctx := search.NewContext()
	sol := search.NewSolution()
	distances := graph.ShortestDistances(g, 0, -1)

	ctx.SetResumeMode(search.ResumeResumable)
	first := ctx.NewInstance(0, 12)
	s.GetPath(first, sol)
	assert.Equal(t, pool.Cost(distances.Distance(12)), sol.Cost)

	ctx.SetResumeMode(search.ResumeResumed)
	for _, target := range []pool.NodeID{9, 5, 0, 12, 10, 3} {
		pi := ctx.NewInstance(0, target)
		s.GetPath(pi, sol)
		assert.Equal(t, pool.Cost(distances.Distance(int(target))), sol.Cost, "%v", pi)
		requireGraphPath(t, g, sol.Path, 0, target, sol.Cost)
		// the forward search still runs under the id of the first query
		assert.Equal(t, first.InstanceID, forward.Get(0).SearchID())
	}
	assert.Empty(t, buf.String())

	// a different start cannot resume
	pi := ctx.NewInstance(3, 12)
	s.GetPath(pi, sol)
	assert.Equal(t, pool.Cost(graph.ShortestDistances(g, 3, 12).Distance(12)), sol.Cost)
	assert.Contains(t, buf.String(), "starting fresh")
	assert.Equal(t, pi.InstanceID, forward.Get(3).SearchID())

	// reclaim drops the forward exploration
	buf.Reset()
	s.Reclaim()
	s.GetPath(ctx.NewInstance(3, 0), sol)
	assert.Equal(t, pool.Cost(distances.Distance(3)), sol.Cost)
	assert.Contains(t, buf.String(), "starting fresh")
}

func TestFreshQueriesDoNotResume(t *testing.T) {
	g := loadCuttable(t)
	s := newGraphBidirectional(g, search.BDijkstra{})
	forward, _ := s.Expanders()
	ctx := search.NewContext()
	sol := search.NewSolution()

	s.GetPath(ctx.NewInstance(0, 12), sol)
	ctx.SetResumeMode(search.ResumeResumed)
	pi := ctx.NewInstance(0, 9)
	s.GetPath(pi, sol)
	assert.Equal(t, pi.InstanceID, forward.Get(0).SearchID(), "fresh queries leave nothing to resume")
}

func TestBidirectionalListenerAndMem(t *testing.T) {
	m := parseMap(t, maze...)
	space := search.NewSearchSpace()
	s := search.NewBidirectionalWithListener(heuristic.NewOctile(m), expansion.NewGrid(m, grid.Conn8), expansion.NewGrid(m, grid.Conn8), search.BHS{}, space)
	sol := search.NewSolution()
	before := s.Mem()

	s.GetPath(search.NewContext().NewInstance(m.ID(0, 0), m.ID(9, 8)), sol)
	require.True(t, sol.Solved())
	// both start nodes plus every generated successor
	assert.Equal(t, sol.Metrics.NodesGenerated+2, s.Listener().Generations())
	assert.Positive(t, s.Listener().Expanded.GetCardinality())
	assert.Greater(t, s.Mem(), before)
}

func TestBidirectionalStartNodeGeneration(t *testing.T) {
	m := parseMap(t, maze...)
	events := &recorder{}
	s := search.NewBidirectionalWithListener(heuristic.NewOctile(m), expansion.NewGrid(m, grid.Conn8), expansion.NewGrid(m, grid.Conn8), search.BHS{}, events)
	sol := search.NewSolution()
	start, target := m.ID(0, 0), m.ID(9, 8)

	s.GetPath(search.NewContext().NewInstance(start, target), sol)
	require.True(t, sol.Solved())
	assert.ElementsMatch(t, []pool.NodeID{start, target}, events.starts())
	assert.Len(t, events.generated, sol.Metrics.NodesGenerated+2)
}
