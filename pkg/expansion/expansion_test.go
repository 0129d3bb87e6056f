package expansion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/grid"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/search"
)

type staged struct {
	id   pool.NodeID
	cost pool.Cost
}

func collect(e search.ExpansionPolicy) []staged {
	result := make([]staged, 0)
	for id, cost, ok := e.First(); ok; id, cost, ok = e.Next() {
		result = append(result, staged{id, cost})
	}
	return result
}

func TestGridNeighbours(t *testing.T) {
	m, err := grid.ParseASCII(
		"...",
		".@.",
		"...",
	)
	require.NoError(t, err)
	ctx := search.NewContext()
	pi := ctx.NewInstance(m.ID(0, 0), m.ID(2, 2))

	e := NewGrid(m, grid.Conn8)
	e.Expand(e.GenerateStartNode(pi), pi)
	// the diagonal to (1,1) is blocked, no other diagonal is in bounds
	assert.ElementsMatch(t, []staged{{m.ID(1, 0), 1}, {m.ID(0, 1), 1}}, collect(e))

	e.Expand(e.Generate(m.ID(1, 0)), pi)
	assert.ElementsMatch(t, []staged{{m.ID(2, 0), 1}, {m.ID(0, 0), 1}}, collect(e))

	open, err := grid.ParseASCII("...", "...", "...")
	require.NoError(t, err)
	e = NewGrid(open, grid.Conn8)
	e.Expand(e.Generate(open.ID(1, 1)), pi)
	neighbours := collect(e)
	assert.Len(t, neighbours, 8)
	diagonals := 0
	for _, n := range neighbours {
		if n.cost == math.Sqrt2 {
			diagonals++
		}
	}
	assert.Equal(t, 4, diagonals)

	e4 := NewGrid(open, grid.Conn4)
	e4.Expand(e4.Generate(open.ID(1, 1)), pi)
	assert.Len(t, collect(e4), 4)
}

func TestGridNoCornerCutting(t *testing.T) {
	m, err := grid.ParseASCII(
		".@",
		"..",
	)
	require.NoError(t, err)
	e := NewGrid(m, grid.Conn8)
	pi := search.NewContext().NewInstance(m.ID(0, 0), m.ID(1, 1))
	e.Expand(e.GenerateStartNode(pi), pi)
	assert.ElementsMatch(t, []staged{{m.ID(0, 1), 1}}, collect(e))
}

func TestGridInvalidLocations(t *testing.T) {
	m, err := grid.ParseASCII(".@")
	require.NoError(t, err)
	e := NewGrid(m, grid.Conn8)
	ctx := search.NewContext()

	assert.Nil(t, e.GenerateTargetNode(ctx.NewInstance(0, 1)))
	assert.Nil(t, e.GenerateStartNode(ctx.NewInstance(7, 0)))
	assert.Nil(t, e.GenerateTargetNode(ctx.NewInstance(0, pool.NoNode)))
	assert.NotNil(t, e.GenerateStartNode(ctx.NewInstance(0, 1)))

	x, y := e.XY(1)
	assert.Equal(t, int32(1), x)
	assert.Equal(t, int32(0), y)
}

func TestStageIsClearedBetweenExpansions(t *testing.T) {
	m, err := grid.ParseASCII("...")
	require.NoError(t, err)
	e := NewGrid(m, grid.Conn4)
	pi := search.NewContext().NewInstance(0, 2)
	e.Expand(e.Generate(1), pi)
	assert.Len(t, collect(e), 2)
	e.Expand(e.Generate(0), pi)
	assert.Len(t, collect(e), 1)
	e.Reclaim()
	assert.Empty(t, collect(e))
}

func TestGraphExpansion(t *testing.T) {
	g, err := graph.NewAdjacencyArrayFromFmiFile("../graph/testdata/cuttable.fmi")
	require.NoError(t, err)
	e := NewGraph(g)
	pi := search.NewContext().NewInstance(0, 12)

	e.Expand(e.GenerateStartNode(pi), pi)
	assert.Equal(t, []staged{{1, 3}, {2, 4}, {4, 7}}, collect(e))

	e.Ignore = func(id pool.NodeID) bool { return id == 2 }
	e.Expand(e.Generate(0), pi)
	assert.Equal(t, []staged{{1, 3}, {4, 7}}, collect(e))
	assert.Nil(t, e.GenerateTargetNode(search.NewContext().NewInstance(0, 2)))
	assert.Nil(t, e.GenerateTargetNode(search.NewContext().NewInstance(0, 13)))

	assert.True(t, e.IsTarget(e.Generate(12), pi))
	assert.Positive(t, e.Mem())
}
