package expansion

import (
	"math"
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/grid"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/search"
)

var (
	straight = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	diagonal = [4][2]int{{1, -1}, {1, 1}, {-1, 1}, {-1, -1}}
)

// Grid expands the cells of a grid.Map. Straight moves cost 1, diagonal moves sqrt(2).
// A diagonal move needs both adjacent straight cells to be free.
// The map is only read and may be shared between Grid instances.
type Grid struct {
	Base
	m    *grid.Map
	conn grid.Connectivity
}

func NewGrid(m *grid.Map, conn grid.Connectivity) *Grid {
	return &Grid{Base: NewBase(m.Size()), m: m, conn: conn}
}

func (e *Grid) Map() *grid.Map { return e.m }

func (e *Grid) Expand(current *pool.NodeState, pi *search.ProblemInstance) {
	e.reset()
	x, y := e.m.XY(current.ID())
	for _, d := range straight {
		if e.m.Traversable(x+d[0], y+d[1]) {
			e.AddNeighbour(e.m.ID(x+d[0], y+d[1]), 1)
		}
	}
	if e.conn != grid.Conn8 {
		return
	}
	for _, d := range diagonal {
		if e.m.Traversable(x+d[0], y+d[1]) && e.m.Traversable(x+d[0], y) && e.m.Traversable(x, y+d[1]) {
			e.AddNeighbour(e.m.ID(x+d[0], y+d[1]), math.Sqrt2)
		}
	}
}

func (e *Grid) valid(id pool.NodeID) bool {
	if int(id) >= e.m.Size() {
		return false
	}
	x, y := e.m.XY(id)
	return e.m.Traversable(x, y)
}

func (e *Grid) GenerateStartNode(pi *search.ProblemInstance) *pool.NodeState {
	if !e.valid(pi.Start) {
		return nil
	}
	return e.Generate(pi.Start)
}

func (e *Grid) GenerateTargetNode(pi *search.ProblemInstance) *pool.NodeState {
	if !e.valid(pi.Target) {
		return nil
	}
	return e.Generate(pi.Target)
}

func (e *Grid) IsTarget(n *pool.NodeState, pi *search.ProblemInstance) bool {
	return n.ID() == pi.Target
}

func (e *Grid) XY(id pool.NodeID) (int32, int32) {
	x, y := e.m.XY(id)
	return int32(x), int32(y)
}

func (e *Grid) Mem() uintptr {
	return unsafe.Sizeof(*e) - unsafe.Sizeof(e.Base) + e.Base.Mem()
}
