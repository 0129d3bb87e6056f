package graph

import (
	"math"

	"github.com/natevvv/bestfirst/pkg/queue"
)

// ShortestPath is a plain textbook Dijkstra, kept independent from the search engine.
// It serves as reference for testing and benchmarking.
// It returns the length of the shortest path and the path itself, or -1 and nil if the destination is unreachable.
func ShortestPath(g Graph, origin, destination NodeId) (int, []NodeId) {
	distances := ShortestDistances(g, origin, destination)
	if distances.dist[destination] == math.MaxInt {
		return -1, nil
	}
	path := make([]NodeId, 0)
	for nodeId := destination; nodeId != -1; nodeId = distances.predecessor[nodeId] {
		path = append([]NodeId{nodeId}, path...)
	}
	return distances.dist[destination], path
}

type Distances struct {
	dist        []int
	predecessor []NodeId
}

// Distance to the node or -1 if it was not reached
func (d Distances) Distance(id NodeId) int {
	if d.dist[id] == math.MaxInt {
		return -1
	}
	return d.dist[id]
}

// ShortestDistances runs Dijkstra from origin until destination is settled.
// A negative destination computes distances to all nodes.
func ShortestDistances(g Graph, origin, destination NodeId) Distances {
	d := Distances{dist: make([]int, g.NodeCount()), predecessor: make([]NodeId, g.NodeCount())}
	settled := make([]bool, g.NodeCount())
	for i := range d.dist {
		d.dist[i] = math.MaxInt
		d.predecessor[i] = -1
	}
	d.dist[origin] = 0

	pq := queue.NewQueue(queue.Item{ItemId: origin, Priority: 0})
	for pq.Len() > 0 {
		item := pq.PopItem()
		current := item.ItemId
		if settled[current] {
			// outdated entry
			continue
		}
		settled[current] = true
		if current == destination {
			break
		}
		for _, arc := range g.GetArcsFrom(current) {
			if newDistance := d.dist[current] + arc.Cost(); newDistance < d.dist[arc.To] {
				d.dist[arc.To] = newDistance
				d.predecessor[arc.To] = current
				pq.PushItem(arc.To, float64(newDistance))
			}
		}
	}
	return d
}
