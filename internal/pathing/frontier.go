package pathing

import (
	"container/heap"

	"github.com/annel0/voxelnav/internal/vec"
)

// node описывает клетку в очереди на раскрытие
type node struct {
	pos      vec.Vec3
	priority int    // манхэттенское расстояние до цели
	seq      uint64 // порядок добавления, при равных priority раньше добавленный идёт первым
	index    int
}

type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	n.index = -1
	*h = old[:len(old)-1]
	return n
}

// frontier реализует приоритетную очередь с быстрой проверкой принадлежности
type frontier struct {
	heap  nodeHeap
	index map[vec.Vec3]*node
	seq   uint64
}

func newFrontier() *frontier {
	return &frontier{index: make(map[vec.Vec3]*node)}
}

func (f *frontier) Len() int { return f.heap.Len() }

func (f *frontier) contains(pos vec.Vec3) bool {
	_, ok := f.index[pos]
	return ok
}

func (f *frontier) push(pos vec.Vec3, priority int) {
	n := &node{pos: pos, priority: priority, seq: f.seq}
	f.seq++
	heap.Push(&f.heap, n)
	f.index[pos] = n
}

// peek возвращает лучший узел без извлечения. Очередь не должна быть пустой.
func (f *frontier) peek() *node {
	return f.heap[0]
}

func (f *frontier) pop() *node {
	n := heap.Pop(&f.heap).(*node)
	delete(f.index, n.pos)
	return n
}
