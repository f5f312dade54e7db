package beemap

import (
	"cmp"
	"slices"
)

// deque is a growable ring buffer. The staging buffer needs O(1)
// pushes at both ends: a strictly descending insert stream becomes a
// push-front per key, and a slice-based prepend would turn that into
// quadratic copying.
type deque[T any] struct {
	buf  []T
	head int
	n    int
}

func (d *deque[T]) len() int {
	return d.n
}

func (d *deque[T]) grow(need int) {
	if len(d.buf)-d.n >= need {
		return
	}
	newCap := max(2*len(d.buf), d.n+need, 8)
	buf := make([]T, newCap)
	d.copyTo(buf)
	d.buf = buf
	d.head = 0
}

func (d *deque[T]) copyTo(dst []T) {
	first := copy(dst, d.buf[d.head:min(d.head+d.n, len(d.buf))])
	if first < d.n {
		copy(dst[first:], d.buf[:d.n-first])
	}
}

func (d *deque[T]) pushBack(item T) {
	d.grow(1)
	d.buf[(d.head+d.n)%len(d.buf)] = item
	d.n++
}

func (d *deque[T]) pushFront(item T) {
	d.grow(1)
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = item
	d.n++
}

func (d *deque[T]) front() *T {
	return &d.buf[d.head]
}

func (d *deque[T]) back() *T {
	return &d.buf[(d.head+d.n-1)%len(d.buf)]
}

// drain empties the deque and returns its contents in order.
func (d *deque[T]) drain() []T {
	out := make([]T, d.n)
	d.copyTo(out)
	d.buf = nil
	d.head = 0
	d.n = 0
	return out
}

// buffer is a node's insertion-ordered staging area. sorted is
// monotonic per batch: once an out-of-order key is seen it stays
// false until the next drain.
type buffer[K cmp.Ordered, V any] struct {
	items  deque[pair[K, V]]
	sorted bool
}

func (b *buffer[K, V]) len() int {
	return b.items.len()
}

func (b *buffer[K, V]) empty() bool {
	return b.items.len() == 0
}

// insert stages one pair, keeping the sorted flag truthful. A key
// smaller than the current front is pushed to the front; an equal key
// must go to the back so that the flush's keep-last rule resolves
// duplicates to the most recent write.
func (b *buffer[K, V]) insert(key K, value V) {
	if b.sorted && b.items.len() > 0 {
		if b.items.front().key > key {
			b.items.pushFront(pair[K, V]{key: key, value: value})
			return
		}
		if b.items.back().key > key {
			b.sorted = false
		}
	}
	b.items.pushBack(pair[K, V]{key: key, value: value})
}

// append stages a batch. With sortedHint set, a batch that fits
// entirely before the current front is prepended in reverse and a
// batch that fits after the back keeps the flag; anything else
// clears it. As with insert, equality at the front boundary falls
// through to the back so newer writes stay behind older ones.
func (b *buffer[K, V]) append(items []pair[K, V], sortedHint bool) {
	if len(items) == 0 {
		return
	}
	if sortedHint && b.sorted && b.items.len() > 0 {
		if b.items.front().key > items[len(items)-1].key {
			for i := len(items) - 1; i >= 0; i-- {
				b.items.pushFront(items[i])
			}
			return
		}
		if b.items.back().key > items[0].key {
			b.sorted = false
		}
	} else {
		b.sorted = sortedHint && b.sorted
	}
	for _, item := range items {
		b.items.pushBack(item)
	}
}

// drainSorted empties the buffer and returns its contents ordered by
// key. The sort is stable: equal keys keep insertion order, which is
// what lets the merge keep the last write.
func (b *buffer[K, V]) drainSorted() []pair[K, V] {
	out := b.items.drain()
	if !b.sorted {
		slices.SortStableFunc(out, func(a, c pair[K, V]) int {
			return cmp.Compare(a.key, c.key)
		})
		b.sorted = true
	}
	return out
}
