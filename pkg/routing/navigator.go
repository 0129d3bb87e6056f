package routing

import (
	"context"
	"fmt"

	"github.com/natevvv/bestfirst/pkg/contraction"
	"github.com/natevvv/bestfirst/pkg/expansion"
	"github.com/natevvv/bestfirst/pkg/graph"
	"github.com/natevvv/bestfirst/pkg/heuristic"
	"github.com/natevvv/bestfirst/pkg/queue"
	"github.com/natevvv/bestfirst/pkg/search"
	"github.com/natevvv/bestfirst/pkg/slice"
)

const (
	Dijkstra               = "dijkstra"
	AStar                  = "astar"
	ALT                    = "alt"
	BidirectionalDijkstra  = "bidirectional-dijkstra"
	BidirectionalAStar     = "bidirectional-astar"
	ContractionHierarchies = "contraction-hierarchies"
)

// Navigators lists the names accepted by SetNavigator
func Navigators() []string {
	return []string{Dijkstra, AStar, ALT, BidirectionalDijkstra, BidirectionalAStar, ContractionHierarchies}
}

func IsNavigator(name string) bool {
	return slice.Contains(Navigators(), name)
}

// Navigator solves queries and records what it expanded
type Navigator interface {
	GetPath(pi *search.ProblemInstance, sol *search.Solution)
	SearchSpace() *search.SearchSpace
}

type engine interface {
	GetPath(pi *search.ProblemInstance, sol *search.Solution)
}

type navigator struct {
	engine engine
	space  *search.SearchSpace
}

func (n navigator) GetPath(pi *search.ProblemInstance, sol *search.Solution) {
	n.space.Reset()
	n.engine.GetPath(pi, sol)
}

func (n navigator) SearchSpace() *search.SearchSpace { return n.space }

// arc costs are metres
const metresPerCost = 1

func NewNavigator(ctx context.Context, name string, g graph.Graph, h *contraction.Hierarchy, config Config) (Navigator, error) {
	opts := []search.Option{search.WithLogger(config.Logger)}
	space := search.NewSearchSpace()

	switch name {
	case Dijkstra:
		e := search.NewUnidirectionalWithListener(heuristic.Zero{}, expansion.NewGraph(g), queue.NewOpenList(1024), space, opts...)
		return navigator{engine: e, space: space}, nil
	case AStar:
		e := search.NewUnidirectionalWithListener(heuristic.NewGreatCircle(g, metresPerCost), expansion.NewGraph(g), queue.NewOpenList(1024), space, opts...)
		return navigator{engine: e, space: space}, nil
	case ALT:
		lm, err := heuristic.NewLandmark(ctx, g, config.Landmarks, 0)
		if err != nil {
			return nil, err
		}
		e := search.NewUnidirectionalWithListener(lm, expansion.NewGraph(g), queue.NewOpenList(1024), space, opts...)
		return navigator{engine: e, space: space}, nil
	case BidirectionalDijkstra:
		e := search.NewBidirectionalWithListener(heuristic.Zero{}, expansion.NewGraph(g), expansion.NewGraph(graph.Transpose(g)), search.BDijkstra{}, space, opts...)
		return navigator{engine: e, space: space}, nil
	case BidirectionalAStar:
		e := search.NewBidirectionalWithListener(heuristic.NewGreatCircle(g, metresPerCost), expansion.NewGraph(g), expansion.NewGraph(graph.Transpose(g)), search.BHS{}, space, opts...)
		return navigator{engine: e, space: space}, nil
	case ContractionHierarchies:
		if h == nil {
			return nil, ErrNoHierarchy
		}
		q := contraction.NewQuery(h, true, opts...)
		return navigator{engine: q, space: q.SearchSpace()}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownNavigator, name)
}
