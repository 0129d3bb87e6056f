package search

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/pool"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/slice"
)

// Bidirectional runs a forward search from the start and a backward search from the target,
// alternating single expansions. The backward expansion policy must enumerate incoming arcs.
// Both policies need their own pool, node ids have to match between them.
type Bidirectional[H Heuristic, E ExpansionPolicy, T Traits, L Listener] struct {
	heuristic H
	forward   E
	backward  E
	traits    T
	listener  L
	fopen     *queue.OpenList
	bopen     *queue.OpenList
	config    Config

	costCutoff       pool.Cost
	expansionsCutoff int
	timeCutoff       time.Duration

	// per query
	bestCost pool.Cost
	v, w     *pool.NodeState // meeting point in the forward and backward search
	started  time.Time

	// forward exploration kept for resumed queries
	resumable   bool
	fwdSearchID uint32
	fwdStart    pool.NodeID
}

func NewBidirectional[H Heuristic, E ExpansionPolicy, T Traits](heuristic H, forward, backward E, traits T, opts ...Option) *Bidirectional[H, E, T, NopListener] {
	return NewBidirectionalWithListener(heuristic, forward, backward, traits, NopListener{}, opts...)
}

func NewBidirectionalWithListener[H Heuristic, E ExpansionPolicy, T Traits, L Listener](heuristic H, forward, backward E, traits T, listener L, opts ...Option) *Bidirectional[H, E, T, L] {
	s := &Bidirectional[H, E, T, L]{
		heuristic: heuristic,
		forward:   forward,
		backward:  backward,
		traits:    traits,
		listener:  listener,
		fopen:     queue.NewOpenList(1024),
		bopen:     queue.NewOpenList(1024),
		config:    newConfig(opts),
	}
	s.ResetCutoffs()
	return s
}

func (s *Bidirectional[H, E, T, L]) SetCostCutoff(cost pool.Cost)     { s.costCutoff = cost }
func (s *Bidirectional[H, E, T, L]) SetMaxExpansionsCutoff(count int) { s.expansionsCutoff = count }
func (s *Bidirectional[H, E, T, L]) SetTimeCutoff(ns time.Duration)   { s.timeCutoff = ns }
func (s *Bidirectional[H, E, T, L]) Listener() L                      { return s.listener }
func (s *Bidirectional[H, E, T, L]) Expanders() (forward, backward E) { return s.forward, s.backward }

func (s *Bidirectional[H, E, T, L]) ResetCutoffs() {
	s.costCutoff = pool.CostMax
	s.expansionsCutoff = int(^uint(0) >> 1)
	s.timeCutoff = 0
}

// GetPath solves pi and stores the path from start to target in sol
func (s *Bidirectional[H, E, T, L]) GetPath(pi *ProblemInstance, sol *Solution) {
	s.search(pi, sol)
	if s.bestCost < pool.CostMax {
		s.reconstructPath(sol)
	}
}

// GetPathCost solves pi without path reconstruction
func (s *Bidirectional[H, E, T, L]) GetPathCost(pi *ProblemInstance, sol *Solution) {
	s.search(pi, sol)
}

func (s *Bidirectional[H, E, T, L]) Mem() uintptr {
	return unsafe.Sizeof(*s) + s.fopen.Mem() + s.bopen.Mem() + s.forward.Mem() + s.backward.Mem() + s.heuristic.Mem()
}

// Reclaim drops both frontiers. A following resumed query starts fresh.
func (s *Bidirectional[H, E, T, L]) Reclaim() {
	s.fopen.Clear()
	s.bopen.Clear()
	s.forward.Reclaim()
	s.backward.Reclaim()
	s.resumable = false
}

func (s *Bidirectional[H, E, T, L]) search(pi *ProblemInstance, sol *Solution) {
	sol.Reset()
	s.bestCost = pool.CostMax
	s.v, s.w = nil, nil
	s.started = time.Now()
	heapOps := s.fopen.HeapOps() + s.bopen.HeapOps()

	logger := s.config.Logger
	if pi.Verbose {
		logger = logger.WithQuery(pi.InstanceID, pi.Start, pi.Target)
		logger.Debug("start bidirectional search", "mode", pi.Mode)
	}

	fstart := s.forward.GenerateStartNode(pi)
	ftarget := s.forward.GenerateTargetNode(pi)
	bstart := s.backward.GenerateStartNode(pi)
	btarget := s.backward.GenerateTargetNode(pi)
	if fstart == nil || ftarget == nil || bstart == nil || btarget == nil {
		s.resumable = false
		return
	}

	fwdID := pi.InstanceID
	bwdID := pi.InstanceID

	// the backward search always starts fresh from the target
	s.bopen.Clear()
	btarget.Init(bwdID, pool.NoNode, 0, s.heuristic.H(btarget.ID(), bstart.ID()), pool.CostMax)
	s.listener.GenerateNode(nil, btarget, 0)
	s.bopen.Push(btarget)

	if pi.Mode == ResumeResumed && s.resumable && s.fwdStart == fstart.ID() {
		fwdID = s.fwdSearchID
		if ftarget.SearchID() == fwdID {
			// reached by an earlier query of this sequence
			s.bestCost = ftarget.G()
			s.v = ftarget
			s.w = btarget
		}
	} else {
		if pi.Mode == ResumeResumed {
			logger.Warn("no resumable forward search for this start, starting fresh", "start", pi.Start)
		}
		s.fopen.Clear()
		fstart.Init(fwdID, pool.NoNode, 0, s.heuristic.H(fstart.ID(), ftarget.ID()), pool.CostMax)
		s.listener.GenerateNode(nil, fstart, 0)
		s.fopen.Push(fstart)
		s.resumable = pi.Mode != ResumeFresh
		s.fwdSearchID = fwdID
		s.fwdStart = fstart.ID()
		if fstart.ID() == ftarget.ID() {
			s.bestCost = 0
			s.v = fstart
			s.w = btarget
		}
	}

	for s.traits.Solvable(s.fopen.Len(), s.bopen.Len()) {
		bound := s.traits.LowerBound(s.fopen.Peek(), s.bopen.Peek())
		if bound >= s.bestCost || bound > s.costCutoff || sol.Metrics.NodesExpanded >= s.expansionsCutoff {
			break
		}
		if s.timeCutoff > 0 && time.Since(s.started) > s.timeCutoff {
			break
		}

		if s.config.Balance(s.fopen, s.bopen) {
			current := s.fopen.Pop()
			s.expand(FORWARD, current, s.fopen, s.forward, s.backward, ftarget.ID(), fwdID, bwdID, &s.v, &s.w, pi, sol, logger)
		} else {
			current := s.bopen.Pop()
			s.expand(BACKWARD, current, s.bopen, s.backward, s.forward, bstart.ID(), bwdID, fwdID, &s.w, &s.v, pi, sol, logger)
		}
	}

	if s.bestCost > s.costCutoff {
		s.bestCost = pool.CostMax
		s.v, s.w = nil, nil
	}
	sol.Cost = s.bestCost
	sol.Metrics.NodesSurplus = s.fopen.Len() + s.bopen.Len()
	sol.Metrics.HeapOps = s.fopen.HeapOps() + s.bopen.HeapOps() - heapOps
	sol.Metrics.Elapsed = time.Since(s.started)
	if pi.Verbose {
		logger.Debug("search finished", "cost", sol.Cost, "expanded", sol.Metrics.NodesExpanded)
	}
}

// expand current on one side and record meeting points with the other side.
// meet and otherMeet point to the meeting states of this side and the other side.
func (s *Bidirectional[H, E, T, L]) expand(direction Direction, current *pool.NodeState, open *queue.OpenList, expander, reverse E,
	goal pool.NodeID, searchID, otherID uint32, meet, otherMeet **pool.NodeState,
	pi *ProblemInstance, sol *Solution, logger *logging.Logger) {

	current.SetExpanded(true)
	sol.Metrics.NodesExpanded++
	sol.Metrics.LB = current.F()
	s.listener.ExpandNode(current)
	if pi.Verbose {
		logger.Debug("expand", "node", current.ID(), "g", current.G(), "f", current.F(), "direction", direction)
	}

	expander.Expand(current, pi)
	for id, cost, ok := expander.First(); ok; id, cost, ok = expander.Next() {
		sol.Metrics.NodesGenerated++
		n := expander.Generate(id)
		g := current.G() + cost

		if n.SearchID() != searchID {
			n.Init(searchID, current.ID(), g, g+s.heuristic.H(n.ID(), goal), pool.CostMax)
			s.listener.GenerateNode(current, n, cost)
			open.Push(n)
		} else {
			s.listener.GenerateNode(current, n, cost)
			if g >= n.G() {
				continue
			}
			n.Relax(g, current.ID())
			s.listener.RelaxNode(n)
			if !n.Expanded() {
				open.DecreaseKey(n)
			} else if s.config.Reopen == ReopenAlways {
				n.SetExpanded(false)
				open.Push(n)
				sol.Metrics.NodesReopened++
			}
		}

		if other := reverse.Get(n.ID()); other != nil && other.SearchID() == otherID {
			if candidate := n.G() + other.G(); candidate < s.bestCost {
				s.bestCost = candidate
				*meet = n
				*otherMeet = other
				if pi.Verbose {
					logger.Debug("new meeting point", "node", n.ID(), "cost", candidate, "direction", direction)
				}
			}
		}
	}
}

// forward chain start -> v, then the backward chain after w up to the target
func (s *Bidirectional[H, E, T, L]) reconstructPath(sol *Solution) {
	for n := s.v; n != nil; n = s.parent(s.forward, n) {
		sol.Path = append(sol.Path, n.ID())
	}
	slice.ReverseInPlace(sol.Path)
	if s.w == nil {
		return
	}
	for n := s.parent(s.backward, s.w); n != nil; n = s.parent(s.backward, n) {
		sol.Path = append(sol.Path, n.ID())
	}
}

func (s *Bidirectional[H, E, T, L]) parent(expander E, n *pool.NodeState) *pool.NodeState {
	if n.Parent() == pool.NoNode {
		return nil
	}
	p := expander.Get(n.Parent())
	if debugChecks && (p == nil || p.SearchID() != n.SearchID()) {
		panic(fmt.Sprintf("parent of node %v carries a foreign search id", n.ID()))
	}
	return p
}
