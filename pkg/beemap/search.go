package beemap

import "cmp"

type searchKind int

const (
	searchMissing searchKind = iota
	searchFound
	searchHeadOfBranch
)

// searchResult is the three-state outcome of a descent. found carries
// the matched key and the stable address of its value. headOfBranch
// marks a key that has just become a separator in the branch list
// handed back alongside the result; the caller owns resolving it and
// it must never escape the Map boundary.
type searchResult[K cmp.Ordered, V any] struct {
	kind searchKind
	key  K
	ptr  *V
}

func found[K cmp.Ordered, V any](key K, ptr *V) searchResult[K, V] {
	return searchResult[K, V]{kind: searchFound, key: key, ptr: ptr}
}

// search resolves key under n, flushing staged writes on the way
// down. Any sibling branches produced by splits under n are returned
// for the caller to absorb.
func (n *node[K, V]) search(key K) (searchResult[K, V], []branch[K, V]) {
	if n.isLeaf() {
		return n.searchLeaf(key)
	}
	return n.searchInternal(key)
}

func (n *node[K, V]) searchInternal(key K) (searchResult[K, V], []branch[K, V]) {
	if !n.buf.empty() {
		n.pushDown(n.buf.drainSorted())
	}

	pos, hit := binarySearchBranches(n.branches, key)
	if hit {
		br := &n.branches[pos]
		return found(br.key, br.valueRef()), nil
	}

	result, childBranches := n.childFor(pos).search(key)

	var newBranches []branch[K, V]
	if len(childBranches) > 0 {
		newBranches = n.processBranches(childBranches)
	}
	if result.kind == searchHeadOfBranch {
		result = n.resolveHead(key, newBranches)
	}
	return result, newBranches
}

func (n *node[K, V]) searchLeaf(key K) (searchResult[K, V], []branch[K, V]) {
	if n.buf.empty() {
		pos, hit := binarySearchPairs(n.leaf, key)
		if !hit {
			return searchResult[K, V]{kind: searchMissing}, nil
		}
		el := &n.leaf[pos]
		return found(el.key, &el.value), nil
	}

	newBranches := n.processLeafBuffer(n.buf.drainSorted())

	pos, hit := binarySearchBranches(newBranches, key)
	if hit {
		return searchResult[K, V]{kind: searchHeadOfBranch}, newBranches
	}
	host := n.leaf
	if pos > 0 {
		host = newBranches[pos-1].child.leaf
	}
	i, ok := binarySearchPairs(host, key)
	if !ok {
		return searchResult[K, V]{kind: searchMissing}, newBranches
	}
	el := &host[i]
	return found(el.key, &el.value), newBranches
}

// resolveHead re-resolves a child's head-of-branch sentinel after
// this node absorbed the child's split. The key either became a
// separator here too (propagate the sentinel), or it landed in this
// node's own array, or in the array of one of the just-promoted
// siblings. Either landing spot must contain it.
func (n *node[K, V]) resolveHead(key K, newBranches []branch[K, V]) searchResult[K, V] {
	pos, hit := binarySearchBranches(newBranches, key)
	if hit {
		return searchResult[K, V]{kind: searchHeadOfBranch}
	}
	host := n.branches
	if pos > 0 {
		host = newBranches[pos-1].child.branches
	}
	i, ok := binarySearchBranches(host, key)
	if !ok {
		panic("beemap: promoted separator vanished during absorb")
	}
	br := &host[i]
	return found(br.key, br.valueRef())
}
