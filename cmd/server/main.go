package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/natevvv/bestfirst/pkg/contraction"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/routing"
	"github.com/natevvv/bestfirst/pkg/server"
)

func main() {
	graphFile := flag.String("graph", "graphs/plain_graph.fmi", "graph file in fmi format")
	contractedGraphFile := flag.String("contracted", "", "contracted graph file, enables contraction hierarchies")
	shortcutFile := flag.String("shortcuts", "graphs/shortcuts.txt", "shortcut file of the contracted graph")
	orderFile := flag.String("ordering", "graphs/node_ordering.txt", "node ordering file of the contracted graph")
	navigator := flag.String("navigator", routing.Dijkstra, "initial navigator")
	landmarks := flag.Int("landmarks", 8, "number of landmarks of the alt navigator")
	addr := flag.String("addr", ":8081", "listen address")
	rateLimit := flag.Float64("rate", 50, "requests per second, 0 disables the limit")
	burst := flag.Int("burst", 100, "request burst")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	jsonLogs := flag.Bool("json-logs", false, "log json records")
	flag.Parse()

	level := logging.ParseLevel(*logLevel)
	logger := logging.NewTextLogger(level)
	if *jsonLogs {
		logger = logging.NewJSONLogger(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	var (
		g         graph.Graph
		hierarchy *contraction.Hierarchy
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		g, err = graph.NewAdjacencyArrayFromFmiFile(*graphFile)
		return err
	})
	if *contractedGraphFile != "" {
		eg.Go(func() (err error) {
			hierarchy, err = contraction.LoadHierarchy(egCtx, *contractedGraphFile, *shortcutFile, *orderFile)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		logger.Error("loading graphs failed", "error", err)
		os.Exit(1)
	}
	logger.Info("graphs loaded", "nodes", g.NodeCount(), "arcs", g.ArcCount(), "hierarchy", hierarchy != nil, "elapsed", time.Since(started))

	config := routing.DefaultConfig()
	config.Navigator = *navigator
	config.Landmarks = *landmarks
	config.Logger = logger
	router, err := routing.NewRouter(ctx, g, hierarchy, config)
	if err != nil {
		logger.Error("creating router failed", "error", err)
		os.Exit(1)
	}

	srv := server.New(router, server.Config{Addr: *addr, RateLimit: *rateLimit, Burst: *burst, Logger: logger})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
