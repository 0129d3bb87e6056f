package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/natevvv/bestfirst/pkg/contraction"
	"github.com/natevvv/bestfirst/pkg/fileio"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/routing"
	"github.com/natevvv/bestfirst/pkg/search"
)

type graphOptions struct {
	directory string
	algorithm string
	random    bool
	n         int
	store     bool
	workers   int
	logger    *logging.Logger
}

// target: origin, destination, length (-1 if unreachable), #hops (nodes from source to target)
type target [4]int

func benchmarkGraph(ctx context.Context, o graphOptions) ([]result, error) {
	var (
		g         graph.Graph
		hierarchy *contraction.Hierarchy
	)
	started := time.Now()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		g, err = graph.NewAdjacencyArrayFromFmiFile(filepath.Join(o.directory, "plain_graph.fmi"))
		return err
	})
	if o.algorithm == routing.ContractionHierarchies {
		eg.Go(func() (err error) {
			hierarchy, err = contraction.LoadHierarchy(egCtx,
				filepath.Join(o.directory, "contracted_graph.fmi"),
				filepath.Join(o.directory, "shortcuts.txt"),
				filepath.Join(o.directory, "node_ordering.txt"))
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	o.logger.Info("graph loaded", "nodes", g.NodeCount(), "arcs", g.ArcCount(), "elapsed", time.Since(started))

	targetFile := filepath.Join(o.directory, "targets.txt")
	var targets []target
	if o.random {
		targets = createTargets(o.n, g)
		if o.store {
			if err := writeTargets(targets, targetFile); err != nil {
				return nil, err
			}
		}
	} else {
		var err error
		if targets, err = readTargets(targetFile); err != nil {
			return nil, err
		}
		if o.n < len(targets) {
			targets = targets[:o.n]
		}
	}

	config := routing.DefaultConfig()
	config.Logger = o.logger
	results := make([]result, len(targets))
	eg, ctx = errgroup.WithContext(ctx)
	for w := 0; w < max(o.workers, 1); w++ {
		from, to := share(len(targets), max(o.workers, 1), w)
		eg.Go(func() error {
			navigator, err := routing.NewNavigator(ctx, o.algorithm, g, hierarchy, config)
			if err != nil {
				return err
			}
			sctx := search.NewContext()
			sol := search.NewSolution()
			for i := from; i < to; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				t := targets[i]
				started := time.Now()
				navigator.GetPath(sctx.NewInstance(pool.NodeID(t[0]), pool.NodeID(t[1])), sol)
				r := result{
					id:       i,
					solved:   sol.Solved(),
					cost:     -1,
					expected: float64(t[2]),
					hops:     len(sol.Path),
					expHops:  t[3],
					expanded: sol.Metrics.NodesExpanded,
					heapOps:  sol.Metrics.HeapOps,
					elapsed:  time.Since(started),
				}
				if r.solved {
					r.cost = sol.Cost
				}
				results[i] = r
			}
			return nil
		})
	}
	err := eg.Wait()
	return results, err
}

func readTargets(filename string) ([]target, error) {
	r, err := fileio.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	targets := make([]target, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 1 || line[0] == '#' {
			// skip empty lines and comments
			continue
		}
		var t target
		if _, err := fmt.Sscanf(line, "%d %d %d %d", &t[0], &t[1], &t[2], &t[3]); err != nil {
			return nil, fmt.Errorf("target %q: %w", line, err)
		}
		targets = append(targets, t)
	}
	return targets, scanner.Err()
}

// createTargets draws random pairs and solves them with the reference Dijkstra
func createTargets(n int, g graph.Graph) []target {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	targets := make([]target, n)
	for i := range targets {
		origin := rng.Intn(g.NodeCount())
		destination := rng.Intn(g.NodeCount())
		length, path := graph.ShortestPath(g, origin, destination)
		targets[i] = target{origin, destination, length, len(path)}
	}
	return targets
}

func writeTargets(targets []target, filename string) error {
	var sb strings.Builder
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("%v %v %v %v\n", t[0], t[1], t[2], t[3]))
	}
	w, err := fileio.Create(filename)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
