package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/natevvv/bestfirst/pkg/logging"
)

func main() {
	// grid benchmark
	mapFile := flag.String("map", "", "MovingAI grid map")
	scenarioFile := flag.String("scen", "", "MovingAI scenario file of the map")
	fourConnected := flag.Bool("conn4", false, "4-connected grid instead of 8-connected")
	weight := flag.Float64("weight", 1, "weight of bounded suboptimal search (grid only)")
	// graph benchmark
	graphDirectory := flag.String("graph", "", "directory with plain_graph.fmi and the contraction files")
	useRandomTargets := flag.Bool("random", false, "create (new) random targets")
	amountTargets := flag.Int("n", 100, "how many targets are used")
	storeTargets := flag.Bool("store", false, "store targets (when newly generated)")

	algorithm := flag.String("search", "astar", "search algorithm")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "concurrent workers, each with its own engine")
	cpuProfile := flag.String("cpu", "", "write cpu profile to file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := logging.NewTextLogger(logging.ParseLevel(*logLevel))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			logger.Error("create cpu profile", "error", err)
			os.Exit(1)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	var (
		results []result
		err     error
	)
	start := time.Now()
	switch {
	case *mapFile != "":
		results, err = benchmarkGrid(ctx, gridOptions{
			mapFile:      *mapFile,
			scenarioFile: *scenarioFile,
			algorithm:    *algorithm,
			conn4:        *fourConnected,
			weight:       *weight,
			workers:      *workers,
			logger:       logger,
		})
	case *graphDirectory != "":
		results, err = benchmarkGraph(ctx, graphOptions{
			directory: *graphDirectory,
			algorithm: *algorithm,
			random:    *useRandomTargets,
			n:         *amountTargets,
			store:     *storeTargets,
			workers:   *workers,
			logger:    logger,
		})
	default:
		fmt.Fprintln(os.Stderr, "either -map or -graph is required")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("benchmark failed", "error", err)
		// report what was computed before the interrupt
	}
	showResults(results, time.Since(start))
}

// result of a single query
type result struct {
	id       int
	solved   bool
	cost     float64
	expected float64
	hops     int
	expHops  int // 0 if unknown
	expanded int
	heapOps  int
	elapsed  time.Duration
}

func showResults(results []result, wall time.Duration) {
	completed := 0
	var total time.Duration
	expanded, heapOps := 0, 0
	invalidLengths := make([]result, 0)
	invalidHops := make([]result, 0)
	for _, r := range results {
		if r.elapsed == 0 && !r.solved && r.expanded == 0 {
			// not run
			continue
		}
		completed++
		total += r.elapsed
		expanded += r.expanded
		heapOps += r.heapOps
		if !costsMatch(r.cost, r.expected) {
			invalidLengths = append(invalidLengths, r)
		}
		if r.expHops > 0 && r.hops != r.expHops {
			invalidHops = append(invalidHops, r)
		}
	}
	if completed == 0 {
		fmt.Println("no query completed")
		return
	}

	fmt.Printf("Queries: %v, wall time: %v\n", completed, wall)
	fmt.Printf("Average runtime: %.3fms\n", float64(total.Nanoseconds())/float64(completed)/1e6)
	fmt.Printf("Average expanded nodes: %d\n", expanded/completed)
	fmt.Printf("Average heap operations: %d\n", heapOps/completed)

	fmt.Printf("%v/%v invalid path lengths.\n", len(invalidLengths), completed)
	for i, r := range invalidLengths {
		fmt.Printf("%v: Case %v has invalid length. Has: %v, Reference: %v, Difference: %v\n", i, r.id, r.cost, r.expected, r.cost-r.expected)
	}
	fmt.Printf("%v/%v invalid hops number.\n", len(invalidHops), completed)
	for i, r := range invalidHops {
		fmt.Printf("%v: Case %v has invalid #hops. Has: %v, reference: %v\n", i, r.id, r.hops, r.expHops)
	}
}

// scenario files round the optimal cost
func costsMatch(cost, expected float64) bool {
	if expected < 0 {
		return cost < 0
	}
	d := cost - expected
	return d > -1e-3 && d < 1e-3
}

// share splits n jobs over workers, worker w gets [from, to)
func share(n, workers, w int) (from, to int) {
	chunk := (n + workers - 1) / workers
	return min(w*chunk, n), min((w+1)*chunk, n)
}
