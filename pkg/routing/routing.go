// Package routing answers point to point queries on a road graph with a selectable navigator.
package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/geojson"

	"github.com/natevvv/bestfirst/pkg/contraction"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/search"
)

var (
	ErrUnknownNavigator = errors.New("routing: unknown navigator")
	ErrNoHierarchy      = errors.New("routing: no contraction hierarchy loaded")
	ErrEmptyGraph       = errors.New("routing: graph has no nodes")
)

// Route is the result of a query between two locations
type Route struct {
	Origin      orb.Point
	Destination orb.Point
	Exists      bool
	Waypoints   orb.LineString
	Length      int // metres, sum of the arc costs
	Metrics     search.Metrics
}

// Feature returns the route as GeoJSON line string
func (r Route) Feature() *geojson.Feature {
	f := geojson.NewFeature(r.Waypoints)
	f.Properties["exists"] = r.Exists
	f.Properties["length"] = r.Length
	f.Properties["expanded"] = r.Metrics.NodesExpanded
	return f
}

type Config struct {
	Navigator string
	Landmarks int // used by the alt navigator
	Logger    *logging.Logger
}

func DefaultConfig() Config {
	return Config{
		Navigator: Dijkstra,
		Landmarks: 8,
		Logger:    logging.Noop(),
	}
}

// Router owns one navigator at a time and serializes the queries on it.
type Router struct {
	mu        sync.Mutex
	g         graph.Graph
	hierarchy *contraction.Hierarchy
	ctx       *search.Context
	sol       *search.Solution
	navigator Navigator
	name      string
	config    Config
	logger    *logging.Logger
}

// NewRouter creates a router for g. hierarchy may be nil, the contraction-hierarchies
// navigator is not available then.
func NewRouter(ctx context.Context, g graph.Graph, hierarchy *contraction.Hierarchy, config Config) (*Router, error) {
	if g.NodeCount() == 0 {
		return nil, ErrEmptyGraph
	}
	if config.Logger == nil {
		config.Logger = logging.Noop()
	}
	r := &Router{
		g:         g,
		hierarchy: hierarchy,
		ctx:       search.NewContext(),
		sol:       search.NewSolution(),
		config:    config,
		logger:    config.Logger.WithComponent("router"),
	}
	if err := r.SetNavigator(ctx, config.Navigator); err != nil {
		return nil, err
	}
	return r, nil
}

// SetNavigator switches the algorithm used for the following queries
func (r *Router) SetNavigator(ctx context.Context, name string) error {
	n, err := NewNavigator(ctx, name, r.g, r.hierarchy, r.config)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigator = n
	r.name = name
	r.logger.Info("navigator set", "navigator", name)
	return nil
}

func (r *Router) NavigatorName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// ComputeRoute routes between the graph nodes closest to origin and destination
func (r *Router) ComputeRoute(origin, destination orb.Point) Route {
	from := r.NearestNode(origin)
	to := r.NearestNode(destination)

	r.mu.Lock()
	defer r.mu.Unlock()
	pi := r.ctx.NewInstance(pool.NodeID(from), pool.NodeID(to))
	r.navigator.GetPath(pi, r.sol)

	route := Route{Origin: origin, Destination: destination, Metrics: r.sol.Metrics}
	if !r.sol.Solved() {
		r.logger.Debug("no route", "from", from, "to", to)
		return route
	}
	route.Exists = true
	route.Length = int(r.sol.Cost)
	route.Waypoints = make(orb.LineString, 0, len(r.sol.Path))
	for _, id := range r.sol.Path {
		route.Waypoints = append(route.Waypoints, r.g.GetNode(int(id)))
	}
	return route
}

func (r *Router) GetNodes() []orb.Point {
	return r.g.GetNodes()
}

// SearchSpace returns the locations of the nodes expanded by the last query
func (r *Router) SearchSpace() []orb.Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.navigator.SearchSpace().Nodes()
	points := make([]orb.Point, 0, len(ids))
	for _, id := range ids {
		points = append(points, r.g.GetNode(int(id)))
	}
	return points
}

// NearestNode returns the node closest to p (linear scan)
func (r *Router) NearestNode(p orb.Point) graph.NodeId {
	minDist := math.MaxFloat64
	nearest := 0
	for i, node := range r.g.GetNodes() {
		if d := geo.DistanceHaversine(p, node); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

func (r *Router) String() string {
	return fmt.Sprintf("router (%v nodes, %v arcs, navigator %v)", r.g.NodeCount(), r.g.ArcCount(), r.NavigatorName())
}
