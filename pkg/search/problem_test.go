package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/natevvv/bestfirst/pkg/pool"
)

func TestContextIssuesIncreasingIDs(t *testing.T) {
	ctx := NewContext()
	assert.Equal(t, uint32(0), ctx.LastInstanceID())

	a := ctx.NewInstance(1, 2)
	b := ctx.NewInstance(1, 2)
	assert.Equal(t, uint32(1), a.InstanceID, "0 is reserved for never searched nodes")
	assert.Equal(t, uint32(2), b.InstanceID)

	ctx.Renew(a)
	assert.Equal(t, uint32(3), a.InstanceID)
	assert.Equal(t, uint32(3), ctx.LastInstanceID())
}

func TestContextCopiesResumeMode(t *testing.T) {
	ctx := NewContext()
	ctx.SetResumeMode(ResumeResumable)
	pi := ctx.NewInstance(0, 1)
	ctx.SetResumeMode(ResumeResumed)
	assert.Equal(t, ResumeResumable, pi.Mode)
	assert.Equal(t, ResumeResumed, ctx.NewInstance(0, 2).Mode)
	assert.Equal(t, "resumed", ResumeResumed.String())
	assert.Equal(t, "ResumeMode(7)", ResumeMode(7).String())
}

func TestContextExhaustion(t *testing.T) {
	ctx := &Context{counter: math.MaxUint32 - 1}
	pi := ctx.NewInstance(0, 1)
	assert.Equal(t, uint32(math.MaxUint32), pi.InstanceID)
	assert.Panics(t, func() { ctx.NewInstance(0, 1) })
}

func TestSolutionReset(t *testing.T) {
	sol := NewSolution()
	assert.False(t, sol.Solved())
	assert.Equal(t, pool.CostMax, sol.Metrics.UB)

	sol.Path = append(sol.Path, 1, 2, 3)
	sol.Cost = 4
	sol.Metrics.NodesExpanded = 9
	assert.True(t, sol.Solved())
	assert.Contains(t, sol.String(), "cost 4")

	sol.Reset()
	assert.Empty(t, sol.Path)
	assert.Equal(t, pool.CostMax, sol.Cost)
	assert.Zero(t, sol.Metrics.NodesExpanded)
	assert.Contains(t, sol.String(), "no solution")
}

func TestConfigOptions(t *testing.T) {
	c := newConfig([]Option{WithWeight(0.5), WithReopen(ReopenNever), WithBalancer(nil), WithLogger(nil)})
	assert.Equal(t, AdmissibleWeighted, c.Admissibility)
	assert.Equal(t, 1.0, c.Weight, "weights below 1 are raised to 1")
	assert.Equal(t, ReopenNever, c.Reopen)
	assert.NotNil(t, c.Balance)
	assert.NotNil(t, c.Logger)

	c = newConfig([]Option{WithWeight(3), WithAdmissibility(AdmissibleOptimal)})
	assert.Equal(t, 1.0, c.Weight, "the weight only applies to weighted search")

	c = newConfig(nil)
	assert.Equal(t, DefaultConfig().Admissibility, c.Admissibility)
	assert.Equal(t, ReopenAlways, c.Reopen)
}

func TestTraitsBounds(t *testing.T) {
	a := &pool.NodeState{}
	a.Init(1, pool.NoNode, 3, 5, pool.CostMax)
	b := &pool.NodeState{}
	b.Init(1, pool.NoNode, 4, 9, pool.CostMax)

	assert.Equal(t, 3.0, BDijkstra{}.LowerBound(a, b))
	assert.Equal(t, 7.0, BDijkstraSum{}.LowerBound(a, b))
	assert.Equal(t, 9.0, BHS{}.LowerBound(a, b))
	assert.Equal(t, 4.0, BCH{}.LowerBound(nil, b))
	assert.Equal(t, pool.CostMax, BDijkstraSum{}.LowerBound(nil, b))

	assert.False(t, BDijkstra{}.Solvable(0, 3))
	assert.True(t, BCH{}.Solvable(0, 3))
	assert.False(t, BCH{}.Solvable(0, 0))
}
