package search

import (
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/queue"
)

// Admissibility decides when the incumbent solution may be returned
type Admissibility int

const (
	// stop once no open node can lead to a cheaper solution
	AdmissibleOptimal Admissibility = iota
	// stop at the first solution found
	AdmissibleAny
	// weighted A*: f = g + Weight*h, the solution costs at most Weight times the optimum
	AdmissibleWeighted
)

// Feasibility decides whether the search keeps expanding
type Feasibility int

const (
	// expand while the open list is not empty and no cutoff was reached
	UntilCutoff Feasibility = iota
	// expand while the open list is not empty, cutoffs are ignored
	UntilExhaustion
)

// Reopen decides what happens to a closed node whose cost improved
type Reopen int

const (
	ReopenAlways Reopen = iota
	// closed nodes stay closed. Only optimal with a consistent heuristic.
	ReopenNever
)

// Balancer tells a bidirectional search whether the forward side expands next
type Balancer func(forward, backward *queue.OpenList) bool

// BalanceLowestF expands the side with the smaller best f-value. An exhausted side counts as infinite.
func BalanceLowestF(forward, backward *queue.OpenList) bool {
	return topF(forward) <= topF(backward)
}

// BalanceSmallerFrontier expands the side with fewer open nodes (cardinality criterion).
func BalanceSmallerFrontier(forward, backward *queue.OpenList) bool {
	if forward.Len() == 0 {
		return false
	}
	if backward.Len() == 0 {
		return true
	}
	return forward.Len() <= backward.Len()
}

type Config struct {
	Admissibility Admissibility
	Weight        float64
	Feasibility   Feasibility
	Reopen        Reopen
	Balance       Balancer
	Logger        *logging.Logger
}

func DefaultConfig() Config {
	return Config{
		Admissibility: AdmissibleOptimal,
		Weight:        1,
		Feasibility:   UntilCutoff,
		Reopen:        ReopenAlways,
		Balance:       BalanceLowestF,
		Logger:        logging.Noop(),
	}
}

type Option func(*Config)

func WithAdmissibility(a Admissibility) Option {
	return func(c *Config) { c.Admissibility = a }
}

// WithWeight switches to bounded suboptimal search with the given factor (>= 1)
func WithWeight(w float64) Option {
	return func(c *Config) {
		c.Admissibility = AdmissibleWeighted
		c.Weight = w
	}
}

func WithFeasibility(f Feasibility) Option {
	return func(c *Config) { c.Feasibility = f }
}

func WithReopen(r Reopen) Option {
	return func(c *Config) { c.Reopen = r }
}

func WithBalancer(b Balancer) Option {
	return func(c *Config) { c.Balance = b }
}

// WithLogger sets the logger for verbose problem instances
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func newConfig(opts []Option) Config {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if c.Weight < 1 || c.Admissibility != AdmissibleWeighted {
		c.Weight = 1
	}
	if c.Balance == nil {
		c.Balance = BalanceLowestF
	}
	if c.Logger == nil {
		c.Logger = logging.Noop()
	}
	return c
}
