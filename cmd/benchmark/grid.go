package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/grid"
	"github.com/natevvv/bestfirst/pkg/heuristic"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/search"
)

type gridOptions struct {
	mapFile      string
	scenarioFile string
	algorithm    string
	conn4        bool
	weight       float64
	workers      int
	logger       *logging.Logger
}

type engine interface {
	GetPath(pi *search.ProblemInstance, sol *search.Solution)
}

func newGridEngine(algorithm string, m *grid.Map, conn grid.Connectivity, weight float64, logger *logging.Logger) (engine, error) {
	opts := []search.Option{search.WithLogger(logger)}
	if weight > 1 {
		opts = append(opts, search.WithWeight(weight))
	}
	if conn == grid.Conn4 {
		return gridEngine(algorithm, m, conn, heuristic.NewManhattan(m), opts)
	}
	return gridEngine(algorithm, m, conn, heuristic.NewOctile(m), opts)
}

// gridEngine instantiates the engines with the concrete heuristic type
func gridEngine[H search.Heuristic](algorithm string, m *grid.Map, conn grid.Connectivity, h H, opts []search.Option) (engine, error) {
	switch algorithm {
	case "dijkstra":
		return search.NewUnidirectional(heuristic.Zero{}, expansion.NewGrid(m, conn), queue.NewOpenList(1024), opts...), nil
	case "astar":
		return search.NewUnidirectional(h, expansion.NewGrid(m, conn), queue.NewOpenList(1024), opts...), nil
	case "bidirectional":
		return search.NewBidirectional(h, expansion.NewGrid(m, conn), expansion.NewGrid(m, conn), search.BHS{}, opts...), nil
	case "bidirectional-dijkstra":
		return search.NewBidirectional(heuristic.Zero{}, expansion.NewGrid(m, conn), expansion.NewGrid(m, conn), search.BDijkstra{}, opts...), nil
	}
	return nil, fmt.Errorf("unknown grid search %q", algorithm)
}

// benchmarkGrid runs all scenarios, every worker owns an engine over the shared read-only map
func benchmarkGrid(ctx context.Context, o gridOptions) ([]result, error) {
	m, err := grid.LoadMap(o.mapFile)
	if err != nil {
		return nil, err
	}
	scenarios, err := grid.LoadScenarios(o.scenarioFile)
	if err != nil {
		return nil, err
	}
	conn := grid.Conn8
	if o.conn4 {
		conn = grid.Conn4
	}
	o.logger.Info("grid loaded", "width", m.Width(), "height", m.Height(), "traversable", m.TraversableCount(), "scenarios", len(scenarios))

	results := make([]result, len(scenarios))
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < max(o.workers, 1); w++ {
		from, to := share(len(scenarios), max(o.workers, 1), w)
		eg.Go(func() error {
			e, err := newGridEngine(o.algorithm, m, conn, o.weight, o.logger)
			if err != nil {
				return err
			}
			sctx := search.NewContext()
			sol := search.NewSolution()
			for i := from; i < to; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				s := scenarios[i]
				if s.Width != m.Width() || s.Height != m.Height() {
					return fmt.Errorf("scenario %v is for a %vx%v map", i, s.Width, s.Height)
				}
				pi := sctx.NewInstance(pool.NodeID(m.ID(s.StartX, s.StartY)), pool.NodeID(m.ID(s.GoalX, s.GoalY)))
				started := time.Now()
				e.GetPath(pi, sol)
				r := result{
					id:       i,
					solved:   sol.Solved(),
					cost:     -1,
					expected: s.Optimal,
					hops:     len(sol.Path),
					expanded: sol.Metrics.NodesExpanded,
					heapOps:  sol.Metrics.HeapOps,
					elapsed:  time.Since(started),
				}
				if r.solved {
					r.cost = sol.Cost
				}
				if o.weight > 1 || conn == grid.Conn4 {
					// scenario costs are optimal 8-connected costs
					r.expected = r.cost
				}
				results[i] = r
			}
			return nil
		})
	}
	err = eg.Wait()
	return results, err
}
