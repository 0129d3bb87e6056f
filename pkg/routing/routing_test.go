package routing

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/bestfirst/pkg/contraction"
	"github.com/natevvv/bestfirst/pkg/graph"
)

// 4x4 lattice of roads 0.01 degrees apart, costs are rounded up metres.
// Row 1 is one-way eastbound, the link (1,2) - (2,2) is missing.
func lattice() *graph.AdjacencyListGraph {
	g := graph.NewAdjacencyListGraph()
	const n = 4
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			g.AddNode(orb.Point{8.0 + 0.01*float64(col), 48.0 + 0.01*float64(row)})
		}
	}
	id := func(row, col int) int { return row*n + col }
	connect := func(a, b int, oneway bool) {
		cost := int(math.Ceil(geo.DistanceHaversine(g.GetNode(a), g.GetNode(b))))
		g.AddArc(a, b, cost)
		if !oneway {
			g.AddArc(b, a, cost)
		}
	}
	for row := 0; row < n; row++ {
		for col := 0; col+1 < n; col++ {
			connect(id(row, col), id(row, col+1), row == 1)
		}
	}
	for row := 0; row+1 < n; row++ {
		for col := 0; col < n; col++ {
			if row == 1 && col == 2 {
				continue
			}
			connect(id(row, col), id(row+1, col), false)
		}
	}
	return g
}

func newTestRouter(t *testing.T, g graph.Graph) *Router {
	t.Helper()
	h, err := contraction.NewContractor(g, contraction.DefaultOptions()).Contract(t.Context())
	require.NoError(t, err)
	r, err := NewRouter(t.Context(), g, h, DefaultConfig())
	require.NoError(t, err)
	return r
}

func TestNavigatorsAgree(t *testing.T) {
	g := lattice()
	r := newTestRouter(t, g)
	nodes := g.GetNodes()

	for _, name := range Navigators() {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, r.SetNavigator(t.Context(), name))
			assert.Equal(t, name, r.NavigatorName())
			for from := range nodes {
				for to := range nodes {
					want, _ := graph.ShortestPath(g, from, to)
					route := r.ComputeRoute(nodes[from], nodes[to])
					require.True(t, route.Exists, "%v -> %v", from, to)
					assert.Equal(t, want, route.Length, "%v -> %v", from, to)
					assert.Equal(t, nodes[from], route.Waypoints[0])
					assert.Equal(t, nodes[to], route.Waypoints[len(route.Waypoints)-1])
				}
			}
		})
	}
}

func TestUnknownNavigator(t *testing.T) {
	r := newTestRouter(t, lattice())
	err := r.SetNavigator(t.Context(), "bellman-ford")
	assert.ErrorIs(t, err, ErrUnknownNavigator)
	assert.Equal(t, Dijkstra, r.NavigatorName())
	assert.False(t, IsNavigator("bellman-ford"))
	assert.True(t, IsNavigator(ContractionHierarchies))
}

func TestNoHierarchy(t *testing.T) {
	g := lattice()
	r, err := NewRouter(t.Context(), g, nil, DefaultConfig())
	require.NoError(t, err)
	assert.ErrorIs(t, r.SetNavigator(t.Context(), ContractionHierarchies), ErrNoHierarchy)

	config := DefaultConfig()
	config.Navigator = ContractionHierarchies
	_, err = NewRouter(t.Context(), g, nil, config)
	assert.ErrorIs(t, err, ErrNoHierarchy)
}

func TestEmptyGraph(t *testing.T) {
	_, err := NewRouter(t.Context(), graph.NewAdjacencyListGraph(), nil, DefaultConfig())
	assert.ErrorIs(t, err, ErrEmptyGraph)
}

func TestNearestNode(t *testing.T) {
	r := newTestRouter(t, lattice())
	assert.Equal(t, 0, r.NearestNode(orb.Point{7.9, 47.9}))
	assert.Equal(t, 5, r.NearestNode(orb.Point{8.011, 48.009}))
	assert.Equal(t, 15, r.NearestNode(orb.Point{9, 49}))
}

func TestRouteFeatureAndSearchSpace(t *testing.T) {
	g := lattice()
	r := newTestRouter(t, g)
	route := r.ComputeRoute(g.GetNode(0), g.GetNode(15))
	require.True(t, route.Exists)

	f := route.Feature()
	assert.Equal(t, "LineString", f.Geometry.GeoJSONType())
	assert.Equal(t, route.Length, f.Properties["length"])
	assert.Equal(t, true, f.Properties["exists"])
	assert.Positive(t, route.Metrics.NodesExpanded)

	space := r.SearchSpace()
	assert.Len(t, space, route.Metrics.NodesExpanded)
	assert.Len(t, r.GetNodes(), 16)
	assert.Contains(t, r.String(), "16 nodes")
}

func TestUnreachable(t *testing.T) {
	g := lattice()
	island := g.AddNode(orb.Point{10, 50})
	r, err := NewRouter(t.Context(), g, nil, DefaultConfig())
	require.NoError(t, err)

	route := r.ComputeRoute(g.GetNode(0), g.GetNode(island))
	assert.False(t, route.Exists)
	assert.Empty(t, route.Waypoints)
	assert.Equal(t, false, route.Feature().Properties["exists"])
}
