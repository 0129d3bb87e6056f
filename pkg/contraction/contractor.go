// Package contraction precomputes contraction hierarchies and answers queries on them.
package contraction

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/logging"
	"github.com/natevvv/bestfirst/pkg/queue"
)

var (
	ErrInvalidOrderOptions = errors.New("contraction: order options can not compute a priority")
	ErrInvalidOrder        = errors.New("contraction: invalid node order")
)

// Contractor adds shortcuts to a copy of a graph while contracting its nodes one by one.
type Contractor struct {
	g          graph.Graph
	out        *graph.AdjacencyListGraph // overlay graph: original arcs and shortcuts
	in         *graph.AdjacencyListGraph // overlay graph reversed
	contracted *bitset.BitSet
	order      []graph.NodeId
	shortcuts  []Shortcut
	witnesses  []*witnessSearch
	options    Options
	logger     *logging.Logger
}

func NewContractor(g graph.Graph, options Options) *Contractor {
	if options.Workers < 1 {
		options.Workers = 1
	}
	if options.MaxSettledNodes <= 0 {
		options.MaxSettledNodes = DefaultOptions().MaxSettledNodes
	}
	if options.Logger == nil {
		options.Logger = logging.Noop()
	}

	c := &Contractor{
		g:          g,
		out:        graph.NewAdjacencyListGraph(),
		in:         graph.NewAdjacencyListGraph(),
		contracted: bitset.New(uint(g.NodeCount())),
		options:    options,
		logger:     options.Logger.WithComponent("contraction"),
	}
	for _, p := range g.GetNodes() {
		c.out.AddNode(p)
		c.in.AddNode(p)
	}
	for from := 0; from < g.NodeCount(); from++ {
		for _, arc := range g.GetArcsFrom(from) {
			if arc.To == from {
				continue
			}
			c.out.AddArc(from, arc.To, arc.Distance)
			c.in.AddArc(arc.To, from, arc.Distance)
		}
	}
	for i := 0; i < options.Workers; i++ {
		c.witnesses = append(c.witnesses, newWitnessSearch(c.out, c.contracted, options.MaxSettledNodes))
	}
	return c
}

// Contract computes the node order according to the order options and contracts all nodes
func (c *Contractor) Contract(ctx context.Context) (*Hierarchy, error) {
	oo := c.options.Order
	if !oo.IsValid() {
		return nil, ErrInvalidOrderOptions
	}
	if oo.IsRandom() {
		rng := rand.New(rand.NewSource(c.options.Seed))
		return c.ContractInOrder(ctx, rng.Perm(c.g.NodeCount()))
	}

	items, err := c.initialOrder(ctx, oo)
	if err != nil {
		return nil, err
	}
	if err := c.contractNodes(ctx, queue.NewMinHeap(items), oo, false); err != nil {
		return nil, err
	}
	return c.hierarchy()
}

// ContractInOrder contracts the nodes in the given order, order[0] first
func (c *Contractor) ContractInOrder(ctx context.Context, order []graph.NodeId) (*Hierarchy, error) {
	if err := validOrder(order, c.g.NodeCount()); err != nil {
		return nil, err
	}
	items := make([]*OrderItem, c.g.NodeCount())
	for position, nodeId := range order {
		item := NewOrderItem(nodeId)
		// the position keeps the given order in the heap
		item.edgeDifference = position
		items[nodeId] = item
	}
	if err := c.contractNodes(ctx, queue.NewMinHeap(items), MakeOrderOptions(), true); err != nil {
		return nil, err
	}
	return c.hierarchy()
}

// Shortcuts returns the shortcuts added so far
func (c *Contractor) Shortcuts() []Shortcut { return c.shortcuts }

// initialOrder simulates the contraction of every node, spread over the workers
func (c *Contractor) initialOrder(ctx context.Context, oo OrderOptions) ([]*OrderItem, error) {
	n := c.g.NodeCount()
	items := make([]*OrderItem, n)
	chunk := (n + len(c.witnesses) - 1) / len(c.witnesses)

	eg, ctx := errgroup.WithContext(ctx)
	for i, w := range c.witnesses {
		from, to := i*chunk, min((i+1)*chunk, n)
		eg.Go(func() error {
			for v := from; v < to; v++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				item := NewOrderItem(v)
				item.apply(w.simulate(v, c.out, c.in), oo)
				items[v] = item
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Contractor) contractNodes(ctx context.Context, minHeap *queue.MinHeap[*OrderItem], oo OrderOptions, fixedOrder bool) error {
	started := time.Now()
	w := c.witnesses[0]
	total := minHeap.Len()
	nextReport := total / 10

	for minHeap.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		item := minHeap.Peek()
		r := w.simulate(item.nodeId, c.out, c.in)
		if !fixedOrder && oo.IsLazyUpdate() {
			item.apply(r, oo)
			minHeap.Update(item)
			if minHeap.Peek() != item {
				// another node became cheaper
				continue
			}
		}
		minHeap.Pop()

		for _, sc := range r.shortcuts {
			if c.out.AddArc(sc.Source, sc.Target, sc.Cost) {
				c.in.AddArc(sc.Target, sc.Source, sc.Cost)
				c.shortcuts = append(c.shortcuts, sc)
			}
		}
		c.contracted.Set(uint(item.nodeId))
		c.order = append(c.order, item.nodeId)

		if !fixedOrder && oo.UpdateNeighbors() {
			c.updateNeighbors(minHeap, item.nodeId, oo)
		}

		if len(c.order) >= nextReport && nextReport > 0 {
			c.logger.Info("contraction progress", "contracted", len(c.order), "nodes", total, "shortcuts", len(c.shortcuts), "elapsed", time.Since(started))
			nextReport += total / 10
		}
	}
	c.logger.Info("contraction finished", "nodes", total, "shortcuts", len(c.shortcuts), "elapsed", time.Since(started))
	return nil
}

func (c *Contractor) updateNeighbors(minHeap *queue.MinHeap[*OrderItem], v graph.NodeId, oo OrderOptions) {
	update := func(neighbour graph.NodeId) {
		if c.contracted.Test(uint(neighbour)) {
			return
		}
		item := minHeap.Storage[neighbour]
		if !minHeap.Contains(item) {
			return
		}
		item.apply(c.witnesses[0].simulate(neighbour, c.out, c.in), oo)
		minHeap.Update(item)
	}
	for _, arc := range c.out.GetArcsFrom(v) {
		update(arc.To)
	}
	for _, arc := range c.in.GetArcsFrom(v) {
		update(arc.To)
	}
}

func (c *Contractor) hierarchy() (*Hierarchy, error) {
	return NewHierarchy(c.out, c.order, c.shortcuts)
}

func validOrder(order []graph.NodeId, n int) error {
	if len(order) != n {
		return fmt.Errorf("%w: %v nodes ordered, graph has %v", ErrInvalidOrder, len(order), n)
	}
	seen := bitset.New(uint(n))
	for _, v := range order {
		if v < 0 || v >= n || seen.Test(uint(v)) {
			return fmt.Errorf("%w: node %v", ErrInvalidOrder, v)
		}
		seen.Set(uint(v))
	}
	return nil
}
