package contraction

import (
	"math"

	"github.com/natevvv/bestfirst/pkg/logging"
)

// OrderOptions select how the node order is computed
type OrderOptions byte

const (
	random                      OrderOptions = 1 << iota // use a random order
	considerEdgeDifference                               // shortcuts added minus arcs removed
	considerContractedNeighbors                          // already contracted neighbours (spatial diversity)
	lazyUpdate                                           // recompute the priority of the next node before contracting it
	updateNeighbors                                      // recompute the priority of the neighbours of a contracted node
)

func MakeOrderOptions() OrderOptions {
	return OrderOptions(0)
}

// DefaultOrderOptions is the edge difference order with lazy and neighbour updates
func DefaultOrderOptions() OrderOptions {
	return MakeOrderOptions().
		SetEdgeDifference(true).
		SetContractedNeighbors(true).
		SetLazyUpdate(true).
		SetUpdateNeighbors(true)
}

func (oo OrderOptions) Set(o OrderOptions) OrderOptions   { return oo | o }
func (oo OrderOptions) Reset(o OrderOptions) OrderOptions { return oo &^ o }

func (oo OrderOptions) set(o OrderOptions, flag bool) OrderOptions {
	if flag {
		return oo.Set(o)
	}
	return oo.Reset(o)
}

func (oo OrderOptions) SetRandom(flag bool) OrderOptions { return oo.set(random, flag) }
func (oo OrderOptions) IsRandom() bool                   { return oo&random != 0 }

func (oo OrderOptions) SetEdgeDifference(flag bool) OrderOptions { return oo.set(considerEdgeDifference, flag) }
func (oo OrderOptions) ConsiderEdgeDifference() bool             { return oo&considerEdgeDifference != 0 }

func (oo OrderOptions) SetContractedNeighbors(flag bool) OrderOptions {
	return oo.set(considerContractedNeighbors, flag)
}
func (oo OrderOptions) ConsiderContractedNeighbors() bool { return oo&considerContractedNeighbors != 0 }

func (oo OrderOptions) SetLazyUpdate(flag bool) OrderOptions { return oo.set(lazyUpdate, flag) }
func (oo OrderOptions) IsLazyUpdate() bool                   { return oo&lazyUpdate != 0 }

func (oo OrderOptions) SetUpdateNeighbors(flag bool) OrderOptions { return oo.set(updateNeighbors, flag) }
func (oo OrderOptions) UpdateNeighbors() bool                     { return oo&updateNeighbors != 0 }

// IsValid reports whether a priority can be computed from the options
func (oo OrderOptions) IsValid() bool {
	weighted := oo.ConsiderEdgeDifference() || oo.ConsiderContractedNeighbors()
	if !oo.IsRandom() && !weighted {
		return false
	}
	if (oo.IsLazyUpdate() || oo.UpdateNeighbors()) && !weighted {
		return false
	}
	return true
}

// Options tune the precomputation
type Options struct {
	Order OrderOptions
	// witness searches give up after this many expansions and add the shortcut
	MaxSettledNodes int
	// number of goroutines simulating contractions for the initial order
	Workers int
	// seed of the random order
	Seed   int64
	Logger *logging.Logger
}

func DefaultOptions() Options {
	return Options{
		Order:           DefaultOrderOptions(),
		MaxSettledNodes: math.MaxInt,
		Workers:         1,
		Logger:          logging.Noop(),
	}
}
