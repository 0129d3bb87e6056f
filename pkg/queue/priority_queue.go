package queue

import (
	"container/heap"
)

// Item of the lazy Queue. Outdated entries are kept and skipped by the consumer.
type Item struct {
	ItemId   int
	Priority float64
}

// A Queue implements heap.Interface without decrease-key support
type Queue []Item

func NewQueue(initialItems ...Item) *Queue {
	pq := make(Queue, 0, len(initialItems))
	pq = append(pq, initialItems...)
	heap.Init(&pq)
	return &pq
}

func (h Queue) Len() int {
	return len(h)
}

func (h Queue) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority < h[j].Priority
	}
	return h[i].ItemId < h[j].ItemId
}

func (h Queue) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *Queue) Push(item interface{}) {
	*h = append(*h, item.(Item))
}

func (h *Queue) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

func (h *Queue) PushItem(id int, priority float64) {
	heap.Push(h, Item{ItemId: id, Priority: priority})
}

func (h *Queue) PopItem() Item {
	return heap.Pop(h).(Item)
}
