package beemap

// Predecessor queries. These walk the tree carrying the branch
// immediately left of the descent; it answers when the leaf at the
// bottom holds nothing below the query key. Staged writes along the
// key's path are settled first so the walk itself is read-only.

// GetBefore returns the value bound to the greatest key strictly less
// than key.
func (m *Map[K, V]) GetBefore(key K) (*V, bool) {
	_, ptr, ok := m.getBefore(key, false)
	return ptr, ok
}

// GetBeforeInc returns the value at key if present, else the value at
// its predecessor.
func (m *Map[K, V]) GetBeforeInc(key K) (*V, bool) {
	_, ptr, ok := m.getBefore(key, true)
	return ptr, ok
}

// GetKeyValueBefore is GetBefore surfacing the matched key.
func (m *Map[K, V]) GetKeyValueBefore(key K) (K, *V, bool) {
	return m.getBefore(key, false)
}

// GetKeyValueBeforeInc is GetBeforeInc surfacing the matched key.
func (m *Map[K, V]) GetKeyValueBeforeInc(key K) (K, *V, bool) {
	return m.getBefore(key, true)
}

func (m *Map[K, V]) getBefore(key K, inclusive bool) (K, *V, bool) {
	m.settle(key)

	n := m.root
	var prev *branch[K, V]
	for !n.isLeaf() {
		pos, hit := binarySearchBranches(n.branches, key)
		if hit && inclusive {
			br := &n.branches[pos]
			return br.key, br.valueRef(), true
		}
		if pos > 0 {
			prev = &n.branches[pos-1]
		}
		n = n.childFor(pos)
	}

	pos, hit := binarySearchPairs(n.leaf, key)
	switch {
	case hit && inclusive:
		el := &n.leaf[pos]
		return el.key, &el.value, true
	case pos > 0:
		el := &n.leaf[pos-1]
		return el.key, &el.value, true
	case prev != nil:
		return prev.key, prev.valueRef(), true
	}
	var zero K
	return zero, nil, false
}

// settle flushes every node on key's descent path — push-down at
// internal nodes, buffer processing at leaves — and absorbs any
// splits the flushing produces, growing the root exactly as lookup
// does. Afterwards the path holds no staged writes and a predecessor
// walk over it cannot miss a buffered entry.
func (m *Map[K, V]) settle(key K) {
	newBranches := m.root.settle(key)
	for len(newBranches) > 0 {
		newRoot := newInternalNode(m.root)
		newBranches = newRoot.processBranches(newBranches)
		m.root = newRoot
	}
}

func (n *node[K, V]) settle(key K) []branch[K, V] {
	if n.isLeaf() {
		if n.buf.empty() {
			return nil
		}
		return n.processLeafBuffer(n.buf.drainSorted())
	}

	if !n.buf.empty() {
		n.pushDown(n.buf.drainSorted())
	}
	pos, _ := binarySearchBranches(n.branches, key)
	childBranches := n.childFor(pos).settle(key)
	if len(childBranches) == 0 {
		return nil
	}
	return n.processBranches(childBranches)
}
