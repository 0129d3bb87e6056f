package road

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/natevvv/bestfirst/pkg/graph"
)

var ErrEmptyNetwork = errors.New("road: network has no segments")

// Network collects segments and node locations until the graph gets built
type Network struct {
	segments  []*Segment
	locations map[int64]orb.Point
	used      map[int64]struct{}
}

func NewNetwork() *Network {
	return &Network{
		locations: make(map[int64]orb.Point),
		used:      make(map[int64]struct{}),
	}
}

func (n *Network) AddSegment(s *Segment) {
	n.segments = append(n.segments, s)
	for _, id := range s.NodeIDs {
		n.used[id] = struct{}{}
	}
}

// Uses reports whether a segment references the node
func (n *Network) Uses(id int64) bool {
	_, ok := n.used[id]
	return ok
}

func (n *Network) SetLocation(id int64, p orb.Point) {
	n.locations[id] = p
}

func (n *Network) Segments() []*Segment { return n.segments }

// Location returns the position of an OSM node
func (n *Network) Location(id int64) (orb.Point, bool) {
	p, ok := n.locations[id]
	return p, ok
}

// Graph creates a node for every located OSM node of a segment and an arc for every
// consecutive pair, costs are the rounded up distance in metres.
// Segments are split at nodes without location.
func (n *Network) Graph() (*graph.AdjacencyListGraph, error) {
	if len(n.segments) == 0 {
		return nil, ErrEmptyNetwork
	}
	g := graph.NewAdjacencyListGraph()
	ids := make(map[int64]graph.NodeId)
	node := func(osmID int64) (graph.NodeId, bool) {
		if id, ok := ids[osmID]; ok {
			return id, true
		}
		p, ok := n.locations[osmID]
		if !ok {
			return 0, false
		}
		id := g.AddNode(p)
		ids[osmID] = id
		return id, true
	}

	for _, s := range n.segments {
		for i := 0; i+1 < len(s.NodeIDs); i++ {
			from, ok := node(s.NodeIDs[i])
			if !ok {
				continue
			}
			to, ok := node(s.NodeIDs[i+1])
			if !ok || from == to {
				continue
			}
			cost := Distance(g.GetNode(from), g.GetNode(to))
			if s.Direction != Backward {
				g.AddArc(from, to, cost)
			}
			if s.Direction != Forward {
				g.AddArc(to, from, cost)
			}
		}
	}
	if g.NodeCount() == 0 {
		return nil, fmt.Errorf("%w: no segment node has a location", ErrEmptyNetwork)
	}
	return g, nil
}

// Distance is the haversine distance in metres, rounded up
func Distance(a, b orb.Point) int {
	return int(math.Ceil(geo.DistanceHaversine(a, b)))
}
