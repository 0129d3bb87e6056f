package search

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/slice"
)

// Unidirectional is a best-first search (A*, Dijkstra, weighted A*, ...) over the graph of an ExpansionPolicy.
// Node states are reused across queries: a state is valid only if it carries the id of the running problem instance.
// An Unidirectional must not be used concurrently.
type Unidirectional[H Heuristic, E ExpansionPolicy, L Listener] struct {
	heuristic H
	bounder   BoundingHeuristic // set if the heuristic reports upper bounds
	expander  E
	open      *queue.OpenList
	listener  L
	config    Config

	costCutoff       pool.Cost
	expansionsCutoff int
	timeCutoff       time.Duration

	// per query
	targetID  pool.NodeID
	incumbent *pool.NodeState
	bestCost  pool.Cost
	hv        HeuristicValue
}

func NewUnidirectional[H Heuristic, E ExpansionPolicy](heuristic H, expander E, open *queue.OpenList, opts ...Option) *Unidirectional[H, E, NopListener] {
	return NewUnidirectionalWithListener(heuristic, expander, open, NopListener{}, opts...)
}

func NewUnidirectionalWithListener[H Heuristic, E ExpansionPolicy, L Listener](heuristic H, expander E, open *queue.OpenList, listener L, opts ...Option) *Unidirectional[H, E, L] {
	s := &Unidirectional[H, E, L]{
		heuristic: heuristic,
		expander:  expander,
		open:      open,
		listener:  listener,
		config:    newConfig(opts),
	}
	if b, ok := any(heuristic).(BoundingHeuristic); ok {
		s.bounder = b
	}
	s.ResetCutoffs()
	return s
}

// Set the maximum cost of a solution. Nodes with a higher f-value are not expanded.
func (s *Unidirectional[H, E, L]) SetCostCutoff(cost pool.Cost) { s.costCutoff = cost }

// Set the maximum number of expansions per query
func (s *Unidirectional[H, E, L]) SetMaxExpansionsCutoff(count int) { s.expansionsCutoff = count }

// Set the maximum runtime per query. Zero disables the limit.
func (s *Unidirectional[H, E, L]) SetTimeCutoff(nanoseconds time.Duration) {
	s.timeCutoff = nanoseconds
}

func (s *Unidirectional[H, E, L]) ResetCutoffs() {
	s.costCutoff = pool.CostMax
	s.expansionsCutoff = int(^uint(0) >> 1)
	s.timeCutoff = 0
}

func (s *Unidirectional[H, E, L]) Listener() L { return s.listener }
func (s *Unidirectional[H, E, L]) Expander() E { return s.expander }

// GetPath solves pi and stores the path from start to target in sol
func (s *Unidirectional[H, E, L]) GetPath(pi *ProblemInstance, sol *Solution) {
	s.search(pi, sol)
	if s.incumbent != nil {
		s.extractPath(pi, sol)
	}
}

// GetPathCost solves pi without extracting the path
func (s *Unidirectional[H, E, L]) GetPathCost(pi *ProblemInstance, sol *Solution) {
	s.search(pi, sol)
}

// Mem reports the bytes held by the search, including pool, open list, expansion policy and heuristic
func (s *Unidirectional[H, E, L]) Mem() uintptr {
	return unsafe.Sizeof(*s) + s.open.Mem() + s.expander.Mem() + s.heuristic.Mem()
}

// Reclaim drops the open list content. Node states are kept.
func (s *Unidirectional[H, E, L]) Reclaim() {
	s.open.Clear()
	s.expander.Reclaim()
}

func (s *Unidirectional[H, E, L]) search(pi *ProblemInstance, sol *Solution) {
	sol.Reset()
	s.incumbent = nil
	s.bestCost = pool.CostMax
	s.targetID = pool.NoNode
	started := time.Now()
	heapOps := s.open.HeapOps()

	logger := s.config.Logger
	if pi.Verbose {
		logger = logger.WithQuery(pi.InstanceID, pi.Start, pi.Target)
		logger.Debug("start search", "mode", pi.Mode)
	}

	start := s.expander.GenerateStartNode(pi)
	if start == nil {
		return
	}
	if pi.Target != pool.NoNode {
		target := s.expander.GenerateTargetNode(pi)
		if target == nil {
			return
		}
		s.targetID = target.ID()
	}

	s.open.Clear()
	s.initialise(start, pool.NoNode, 0, pi, sol)
	s.listener.GenerateNode(nil, start, 0)
	s.open.Push(start)

	for s.feasible(sol, started) {
		if s.admissible(s.open.Peek().F()) {
			break
		}

		current := s.open.Pop()
		// mark before generating successors, a self loop must see a closed node
		current.SetExpanded(true)
		sol.Metrics.NodesExpanded++
		sol.Metrics.LB = current.F() / s.config.Weight
		s.listener.ExpandNode(current)
		if pi.Verbose {
			logger.Debug("expand", "node", current.ID(), "g", current.G(), "f", current.F())
		}

		if s.expander.IsTarget(current, pi) {
			if current.G() < s.bestCost {
				s.incumbent = current
				s.bestCost = current.G()
			}
			break
		}

		s.expander.Expand(current, pi)
		for id, cost, ok := s.expander.First(); ok; id, cost, ok = s.expander.Next() {
			sol.Metrics.NodesGenerated++
			n := s.expander.Generate(id)
			g := current.G() + cost

			if n.SearchID() != pi.InstanceID {
				s.initialise(n, current.ID(), g, pi, sol)
				s.listener.GenerateNode(current, n, cost)
				s.open.Push(n)
				if pi.Verbose {
					logger.Debug("generate", "node", n.ID(), "g", n.G(), "f", n.F())
				}
				continue
			}

			s.listener.GenerateNode(current, n, cost)
			if g >= n.G() {
				// dominated
				continue
			}

			n.Relax(g, current.ID())
			s.listener.RelaxNode(n)
			if n.ID() == s.targetID && g < s.bestCost {
				s.incumbent = n
				s.bestCost = g
			}
			if pi.Verbose {
				logger.Debug("relax", "node", n.ID(), "g", n.G(), "f", n.F(), "expanded", n.Expanded())
			}

			if !n.Expanded() {
				s.open.DecreaseKey(n)
			} else if s.config.Reopen == ReopenAlways {
				n.SetExpanded(false)
				s.open.Push(n)
				sol.Metrics.NodesReopened++
			}
		}
	}

	if s.incumbent != nil && s.bestCost <= s.costCutoff {
		sol.Cost = s.bestCost
	} else {
		s.incumbent = nil
	}

	sol.Metrics.NodesSurplus = s.open.Len()
	sol.Metrics.HeapOps = s.open.HeapOps() - heapOps
	sol.Metrics.Elapsed = time.Since(started)
	if pi.Verbose {
		logger.Debug("search finished", "cost", sol.Cost, "expanded", sol.Metrics.NodesExpanded)
	}
}

// initialise stamps n for the current instance and checks if it yields a better incumbent
func (s *Unidirectional[H, E, L]) initialise(n *pool.NodeState, parent pool.NodeID, g pool.Cost, pi *ProblemInstance, sol *Solution) {
	f := g
	ub := pool.CostMax
	if s.bounder != nil {
		s.hv = HeuristicValue{From: n.ID(), To: s.targetID, UB: pool.CostMax}
		s.bounder.Bounds(&s.hv)
		f += s.config.Weight * s.hv.LB
		if s.hv.UB < pool.CostMax {
			ub = g + s.hv.UB
		}
	} else {
		f += s.config.Weight * s.heuristic.H(n.ID(), s.targetID)
	}
	n.Init(pi.InstanceID, parent, g, f, ub)

	if ub < sol.Metrics.UB {
		sol.Metrics.UB = ub
	}
	if n.ID() == s.targetID {
		if g < s.bestCost {
			s.incumbent = n
			s.bestCost = g
		}
	} else if s.bounder != nil && s.hv.Feasible && ub < s.bestCost {
		s.incumbent = n
		s.bestCost = ub
	}
}

func (s *Unidirectional[H, E, L]) feasible(sol *Solution, started time.Time) bool {
	top := s.open.Peek()
	if top == nil {
		return false
	}
	if s.config.Feasibility == UntilExhaustion {
		return true
	}
	if top.F() > s.costCutoff || sol.Metrics.NodesExpanded >= s.expansionsCutoff {
		return false
	}
	return s.timeCutoff <= 0 || time.Since(started) <= s.timeCutoff
}

func (s *Unidirectional[H, E, L]) admissible(lb pool.Cost) bool {
	switch s.config.Admissibility {
	case AdmissibleAny:
		return s.incumbent != nil
	default:
		// f is weighted for AdmissibleWeighted, the incumbent is then within Weight of the optimum
		return lb >= s.bestCost
	}
}

func (s *Unidirectional[H, E, L]) extractPath(pi *ProblemInstance, sol *Solution) {
	for id := s.incumbent.ID(); id != pool.NoNode; {
		sol.Path = append(sol.Path, id)
		n := s.expander.Get(id)
		if debugChecks && (n == nil || n.SearchID() != pi.InstanceID) {
			panic(fmt.Sprintf("path extraction reached node %v which was not generated by %v", id, pi))
		}
		id = n.Parent()
	}
	slice.ReverseInPlace(sol.Path)

	if s.incumbent.ID() != s.targetID && s.bounder != nil {
		// the incumbent was proposed by the heuristic, append its path to the target
		s.hv = HeuristicValue{From: s.incumbent.ID(), To: s.targetID, UB: pool.CostMax, Path: &sol.Path}
		s.bounder.Bounds(&s.hv)
	}
}
