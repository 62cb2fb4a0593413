package topn

import (
	"cmp"
	"container/heap"
	"sort"
)

// Entry pairs an arbitrary payload with the ordered value it is ranked
// by.
type Entry[P any, V cmp.Ordered] struct {
	Payload P
	Value   V
}

type entryHeap[P any, V cmp.Ordered] struct {
	items   []Entry[P, V]
	largest bool // true => keep the N largest
}

func (h entryHeap[P, V]) Len() int      { return len(h.items) }
func (h entryHeap[P, V]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h entryHeap[P, V]) Less(i, j int) bool {
	if h.largest {
		return h.items[i].Value < h.items[j].Value // min-heap for top largest
	}
	return h.items[i].Value > h.items[j].Value // max-heap for top smallest
}
func (h *entryHeap[P, V]) Push(x interface{}) { h.items = append(h.items, x.(Entry[P, V])) }
func (h *entryHeap[P, V]) Pop() interface{} {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[:n-1]
	return x
}

// TopN keeps the N largest (or smallest) entries seen so far in a
// bounded heap.
type TopN[P any, V cmp.Ordered] struct {
	h        *entryHeap[P, V]
	capacity int
}

func New[P any, V cmp.Ordered](capacity int, largest bool) *TopN[P, V] {
	if capacity <= 0 {
		capacity = 1
	}
	h := &entryHeap[P, V]{items: make([]Entry[P, V], 0, capacity), largest: largest}
	heap.Init(h)
	return &TopN[P, V]{h: h, capacity: capacity}
}

func (t *TopN[P, V]) Insert(e Entry[P, V]) {
	if t.h.Len() < t.capacity {
		heap.Push(t.h, e)
		return
	}
	root := t.h.items[0]
	if t.h.largest {
		if e.Value > root.Value {
			t.h.items[0] = e
			heap.Fix(t.h, 0)
		}
	} else {
		if e.Value < root.Value {
			t.h.items[0] = e
			heap.Fix(t.h, 0)
		}
	}
}

// Values returns the retained entries ordered best-first.
func (t *TopN[P, V]) Values() []Entry[P, V] {
	out := make([]Entry[P, V], len(t.h.items))
	copy(out, t.h.items)
	if t.h.largest {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	}
	return out
}
