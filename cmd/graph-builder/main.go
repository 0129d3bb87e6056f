package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/natevvv/bestfirst/internal/pbf"
	"github.com/natevvv/bestfirst/pkg/contraction"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/logging"
)

func main() {
	osmFile := flag.String("osm", "", "import the road network of an .osm.pbf or .osm file")
	contractGraph := flag.String("contract", "", "contract the given fmi graph (defaults to the imported graph)")
	outDir := flag.String("out", "graphs", "output directory")
	geojsonFile := flag.String("geojson", "", "also export the imported roads as GeoJSON")

	// contraction options
	workers := flag.Int("contraction-workers", 6, "goroutines computing the initial node order")
	maxSettledNodes := flag.Int("max-settled-nodes", contraction.DefaultOptions().MaxSettledNodes, "expansion limit of the witness searches")
	random := flag.Bool("random", false, "contract in random order")
	seed := flag.Int64("seed", 0, "seed of the random order")
	noLazyUpdate := flag.Bool("no-lazy-update", false, "disable lazy updates")
	noEdgeDifference := flag.Bool("no-edge-difference", false, "disable the edge difference")
	noContractedNeighbors := flag.Bool("no-contracted-neighbors", false, "disable contracted neighbors")
	noUpdateNeighbors := flag.Bool("no-update-neighbors", false, "do not update the neighbors of contracted nodes")

	cpuProfile := flag.String("cpu", "", "write cpu profile to file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := logging.NewTextLogger(logging.ParseLevel(*logLevel))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fatal(logger, "create cpu profile", err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatal(logger, "create output directory", err)
	}
	plainGraphFile := filepath.Join(*outDir, "plain_graph.fmi")

	var g graph.Graph
	if *osmFile != "" {
		start := time.Now()
		importer := pbf.NewRoadImporter(*osmFile, logger)
		if err := importer.Import(ctx); err != nil {
			fatal(logger, "import", err)
		}
		alg, err := importer.Network().Graph()
		if err != nil {
			fatal(logger, "build graph", err)
		}
		logger.Info("graph built", "nodes", alg.NodeCount(), "arcs", alg.ArcCount(), "elapsed", time.Since(start))
		if err := graph.WriteFmi(alg, plainGraphFile); err != nil {
			fatal(logger, "write graph", err)
		}
		if *geojsonFile != "" {
			if err := pbf.ExportRoadGeoJSON(importer.Network(), *geojsonFile); err != nil {
				fatal(logger, "export geojson", err)
			}
		}
		g = alg
	}

	if *contractGraph != "" {
		aag, err := graph.NewAdjacencyArrayFromFmiFile(*contractGraph)
		if err != nil {
			fatal(logger, "read graph", err)
		}
		g = aag
	}
	if g == nil {
		logger.Info("nothing to contract, use -osm or -contract")
		return
	}

	oo := contraction.MakeOrderOptions().
		SetRandom(*random).
		SetLazyUpdate(!*noLazyUpdate).
		SetEdgeDifference(!*noEdgeDifference).
		SetContractedNeighbors(!*noContractedNeighbors).
		SetUpdateNeighbors(!*noUpdateNeighbors)
	options := contraction.Options{
		Order:           oo,
		MaxSettledNodes: *maxSettledNodes,
		Workers:         *workers,
		Seed:            *seed,
		Logger:          logger,
	}

	start := time.Now()
	h, err := contraction.NewContractor(g, options).Contract(ctx)
	if err != nil {
		fatal(logger, "contraction", err)
	}
	logger.Info("contracted", "shortcuts", len(h.Shortcuts()), "elapsed", time.Since(start))

	err = h.WriteFiles(
		filepath.Join(*outDir, "contracted_graph.fmi"),
		filepath.Join(*outDir, "shortcuts.txt"),
		filepath.Join(*outDir, "node_ordering.txt"),
	)
	if err != nil {
		fatal(logger, "write hierarchy", err)
	}
}

func fatal(logger *logging.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}
