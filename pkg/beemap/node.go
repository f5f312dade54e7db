package beemap

import (
	"cmp"
	"slices"
)

// B is the per-node array capacity. The split stride below keeps
// freshly split arrays at about half of it.
const B = 150

type pair[K cmp.Ordered, V any] struct {
	key   K
	value V
}

// Entry is a key-value pair accepted by BulkInsert.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// node is a tree vertex: a staging buffer plus either a leaf array of
// ordered pairs or an internal array of separator branches. first is
// nil exactly on leaves; internal nodes always own a first child
// responsible for all keys below the first separator.
type node[K cmp.Ordered, V any] struct {
	buf      buffer[K, V]
	leaf     []pair[K, V]
	first    *node[K, V]
	branches []branch[K, V]
}

// branch is a separator record in an internal array. It owns one
// value keyed by key, held inline in val until a caller asks for its
// address; from then on the value lives in cell, a heap slot that
// stays put while branch records are shifted and re-homed by splits.
type branch[K cmp.Ordered, V any] struct {
	key   K
	val   V
	cell  *pair[K, V]
	child *node[K, V]
}

// valueRef promotes the value to its indirected cell and returns the
// stable address.
func (b *branch[K, V]) valueRef() *V {
	if b.cell == nil {
		b.cell = &pair[K, V]{key: b.key, value: b.val}
		var zero V
		b.val = zero
	}
	return &b.cell.value
}

// setValue overwrites the branch's value in place, through the cell
// when one has been handed out.
func (b *branch[K, V]) setValue(value V) {
	if b.cell != nil {
		b.cell.value = value
		return
	}
	b.val = value
}

func newLeafNode[K cmp.Ordered, V any]() *node[K, V] {
	return &node[K, V]{
		buf:  buffer[K, V]{sorted: true},
		leaf: make([]pair[K, V], 0, B),
	}
}

func newInternalNode[K cmp.Ordered, V any](first *node[K, V]) *node[K, V] {
	return &node[K, V]{
		buf:      buffer[K, V]{sorted: true},
		first:    first,
		branches: make([]branch[K, V], 0, B),
	}
}

func (n *node[K, V]) isLeaf() bool {
	return n.first == nil
}

func binarySearchPairs[K cmp.Ordered, V any](pairs []pair[K, V], key K) (int, bool) {
	return slices.BinarySearchFunc(pairs, key, func(p pair[K, V], k K) int {
		return cmp.Compare(p.key, k)
	})
}

func binarySearchBranches[K cmp.Ordered, V any](branches []branch[K, V], key K) (int, bool) {
	return slices.BinarySearchFunc(branches, key, func(b branch[K, V], k K) int {
		return cmp.Compare(b.key, k)
	})
}

// childFor maps a binary-search position to the subtree covering the
// key: position 0 routes to the first child, position i to the child
// of the branch left of it.
func (n *node[K, V]) childFor(pos int) *node[K, V] {
	if pos == 0 {
		return n.first
	}
	return n.branches[pos-1].child
}

// processLeafBuffer merges drained, sorted buffer contents into the
// leaf array, splitting into sibling leaves when the merge overflows.
// Returns the promoted separator branches in key order.
func (n *node[K, V]) processLeafBuffer(incoming []pair[K, V]) []branch[K, V] {
	return mergeInto(&n.leaf, incoming,
		func(item pair[K, V]) (branch[K, V], *[]pair[K, V]) {
			child := newLeafNode[K, V]()
			return branch[K, V]{key: item.key, val: item.value, child: child}, &child.leaf
		},
		func(a, b *pair[K, V]) int {
			return cmp.Compare(a.key, b.key)
		})
}

// processBranches absorbs separator branches handed up by a child
// split. A promoted branch keeps its key and value but is re-homed
// over a fresh internal node that adopts its old child as first
// child; the branches that follow it land in that node's array.
func (n *node[K, V]) processBranches(incoming []branch[K, V]) []branch[K, V] {
	return mergeInto(&n.branches, incoming,
		func(item branch[K, V]) (branch[K, V], *[]branch[K, V]) {
			child := newInternalNode(item.child)
			item.child = child
			return item, &child.branches
		},
		func(a, b *branch[K, V]) int {
			return cmp.Compare(a.key, b.key)
		})
}

// mergeInto is the split-and-merge shared by both array kinds.
// elements is the node's own array (sorted, at most B long) and
// incoming is a sorted batch of any length. Small batches that fit
// are upserted in place. Otherwise the two runs are merged in key
// order; every (B/2+1)-th emitted item is promoted to a new sibling
// branch — built by build, which also supplies the array subsequent
// items land in — unless fewer than B/2 items remain, in which case
// promotion would strand an underfilled sibling and the item is
// appended instead.
//
// Duplicate policy, in both regimes: among equal keys the last
// incoming item wins, and an incoming item displaces an equal
// existing element.
func mergeInto[I any, K cmp.Ordered, V any](
	elements *[]I,
	incoming []I,
	build func(I) (branch[K, V], *[]I),
	compare func(a, b *I) int,
) []branch[K, V] {
	total := len(incoming) + len(*elements)

	if total <= B && len(incoming) <= 2 {
		for _, item := range incoming {
			i, found := slices.BinarySearchFunc(*elements, item, func(e, t I) int {
				return compare(&e, &t)
			})
			if found {
				(*elements)[i] = item
			} else {
				*elements = slices.Insert(*elements, i, item)
			}
		}
		return nil
	}

	old := *elements
	*elements = make([]I, 0, B)
	pushTo := elements

	var promoted []branch[K, V]
	counter := 0
	apply := func(item I) {
		if (counter+1)%(B/2+1) == 0 && total-counter > B/2 {
			newBranch, newPushTo := build(item)
			pushTo = newPushTo
			promoted = append(promoted, newBranch)
		} else {
			*pushTo = append(*pushTo, item)
			if len(*pushTo) > B {
				panic("beemap: array grew past capacity")
			}
		}
		counter++
	}

	ei, ii := 0, 0
	for ei < len(old) && ii < len(incoming) {
		switch c := compare(&old[ei], &incoming[ii]); {
		case c < 0:
			apply(old[ei])
			ei++
		case c > 0:
			item := incoming[ii]
			ii++
			for ii < len(incoming) && compare(&item, &incoming[ii]) == 0 {
				item = incoming[ii]
				ii++
			}
			apply(item)
		default:
			// Superseded by a buffered write; the incoming item is
			// emitted by the next iteration.
			ei++
		}
	}
	for ; ei < len(old); ei++ {
		apply(old[ei])
	}
	for ii < len(incoming) {
		item := incoming[ii]
		ii++
		for ii < len(incoming) && compare(&item, &incoming[ii]) == 0 {
			item = incoming[ii]
			ii++
		}
		apply(item)
	}

	return promoted
}

// pushDown distributes a drained, sorted buffer over the children of
// an internal node. Runs of keys falling strictly between two
// separators are appended (still sorted) to the staging buffer of the
// child covering that gap; a key equal to a separator overwrites the
// separator's value in place.
func (n *node[K, V]) pushDown(items []pair[K, V]) {
	s := newSlicer(items)
	pushTo := n.first

	if len(n.branches) > 0 && s.remaining() > 0 {
		idx := 0
		active := &n.branches[idx]
		for {
			next := s.peek()
			if next.key < active.key {
				s.advance(1)
				if s.remaining() == 0 {
					break
				}
			} else if next.key == active.key {
				if run := s.slice(); len(run) > 0 {
					pushTo.buf.append(run, true)
				}
				item := s.take()
				active.setValue(item.value)
				if s.remaining() == 0 {
					break
				}
			} else {
				if run := s.slice(); len(run) > 0 {
					pushTo.buf.append(run, true)
				}
				pushTo = active.child
				idx++
				if idx == len(n.branches) {
					break
				}
				active = &n.branches[idx]
			}
		}
	}

	if run := s.sliceToEnd(); len(run) > 0 {
		pushTo.buf.append(run, true)
	}
	s.finish()
}
