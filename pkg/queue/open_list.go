package queue

import (
	"unsafe"

	"github.com/natevvv/bestfirst/pkg/pool"
)

// OpenList is a binary min-heap over node states, ordered by f.
// Every node stores its heap position, which makes DecreaseKey and Contains cheap.
// The list does not own the nodes, they live in a pool.NodePool.
type OpenList struct {
	elts    []*pool.NodeState
	heapOps int
}

func NewOpenList(capacity int) *OpenList {
	return &OpenList{elts: make([]*pool.NodeState, 0, capacity)}
}

// total order: smaller f first, then larger g (deeper nodes), then smaller id
func less(a, b *pool.NodeState) bool {
	if a.F() != b.F() {
		return a.F() < b.F()
	}
	if a.G() != b.G() {
		return a.G() > b.G()
	}
	return a.ID() < b.ID()
}

func (ol *OpenList) Len() int     { return len(ol.elts) }
func (ol *OpenList) HeapOps() int { return ol.heapOps }

func (ol *OpenList) Push(n *pool.NodeState) {
	n.SetHeapIndex(int32(len(ol.elts)))
	ol.elts = append(ol.elts, n)
	ol.heapOps++
	ol.up(len(ol.elts) - 1)
}

// Pop removes and returns the node with the smallest key, or nil if the list is empty
func (ol *OpenList) Pop() *pool.NodeState {
	if len(ol.elts) == 0 {
		return nil
	}
	top := ol.elts[0]
	last := len(ol.elts) - 1
	ol.swap(0, last)
	ol.elts[last] = nil
	ol.elts = ol.elts[:last]
	ol.heapOps++
	if last > 0 {
		ol.down(0)
	}
	top.SetHeapIndex(-1)
	return top
}

// Peek returns the node with the smallest key without removing it, or nil if the list is empty
func (ol *OpenList) Peek() *pool.NodeState {
	if len(ol.elts) == 0 {
		return nil
	}
	return ol.elts[0]
}

// DecreaseKey restores the heap order after the key of n was lowered
func (ol *OpenList) DecreaseKey(n *pool.NodeState) {
	if !ol.Contains(n) {
		panic("decrease key on a node which is not in the open list")
	}
	ol.heapOps++
	ol.up(int(n.HeapIndex()))
}

func (ol *OpenList) Contains(n *pool.NodeState) bool {
	i := int(n.HeapIndex())
	return i >= 0 && i < len(ol.elts) && ol.elts[i] == n
}

// Clear empties the list but keeps the backing array.
// The heap operation counter keeps running.
func (ol *OpenList) Clear() {
	for i, n := range ol.elts {
		n.SetHeapIndex(-1)
		ol.elts[i] = nil
	}
	ol.elts = ol.elts[:0]
}

func (ol *OpenList) Mem() uintptr {
	return unsafe.Sizeof(*ol) + uintptr(cap(ol.elts))*unsafe.Sizeof((*pool.NodeState)(nil))
}

func (ol *OpenList) swap(i, j int) {
	ol.elts[i], ol.elts[j] = ol.elts[j], ol.elts[i]
	ol.elts[i].SetHeapIndex(int32(i))
	ol.elts[j].SetHeapIndex(int32(j))
}

func (ol *OpenList) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !less(ol.elts[i], ol.elts[parent]) {
			break
		}
		ol.swap(i, parent)
		ol.heapOps++
		i = parent
	}
}

func (ol *OpenList) down(i int) {
	n := len(ol.elts)
	for {
		smallest := i
		left := 2*i + 1
		right := left + 1
		if left < n && less(ol.elts[left], ol.elts[smallest]) {
			smallest = left
		}
		if right < n && less(ol.elts[right], ol.elts[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}
		ol.swap(i, smallest)
		ol.heapOps++
		i = smallest
	}
}
