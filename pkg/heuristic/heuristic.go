// Package heuristic provides lower bound estimates for grid maps and road graphs.
package heuristic

import (
	"math"
	"unsafe"

	"github.com/paulmach/orb/geo"

	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/grid"
	"github.com/natevvv/bestfirst/pkg/pool"
)

// Zero turns every search into Dijkstra
type Zero struct{}

func (Zero) H(from, to pool.NodeID) pool.Cost { return 0 }
func (Zero) Mem() uintptr                     { return 0 }

// Octile is the exact distance on an empty 8-connected grid
type Octile struct {
	width int
}

func NewOctile(m *grid.Map) Octile {
	return Octile{width: m.Width()}
}

func (o Octile) H(from, to pool.NodeID) pool.Cost {
	if to == pool.NoNode {
		return 0
	}
	dx, dy := delta(o.width, from, to)
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

func (o Octile) Mem() uintptr { return unsafe.Sizeof(o) }

// Manhattan is the exact distance on an empty 4-connected grid
type Manhattan struct {
	width int
}

func NewManhattan(m *grid.Map) Manhattan {
	return Manhattan{width: m.Width()}
}

func (h Manhattan) H(from, to pool.NodeID) pool.Cost {
	if to == pool.NoNode {
		return 0
	}
	dx, dy := delta(h.width, from, to)
	return dx + dy
}

func (h Manhattan) Mem() uintptr { return unsafe.Sizeof(h) }

func delta(width int, from, to pool.NodeID) (float64, float64) {
	fx, fy := int(from)%width, int(from)/width
	tx, ty := int(to)%width, int(to)/width
	return math.Abs(float64(fx - tx)), math.Abs(float64(fy - ty))
}

// GreatCircle is the haversine distance between graph nodes, divided by the metres per cost unit.
// Arc costs must not be smaller than the distance between their nodes.
type GreatCircle struct {
	g     graph.Graph
	scale float64
}

func NewGreatCircle(g graph.Graph, metresPerCost float64) GreatCircle {
	return GreatCircle{g: g, scale: 1 / metresPerCost}
}

func (gc GreatCircle) H(from, to pool.NodeID) pool.Cost {
	if to == pool.NoNode {
		return 0
	}
	return math.Floor(geo.DistanceHaversine(gc.g.GetNode(int(from)), gc.g.GetNode(int(to))) * gc.scale)
}

func (gc GreatCircle) Mem() uintptr { return unsafe.Sizeof(gc) }
