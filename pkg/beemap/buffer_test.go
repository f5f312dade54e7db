package beemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainKeys(b *buffer[int, int]) []int {
	items := b.drainSorted()
	keys := make([]int, len(items))
	for i, it := range items {
		keys[i] = it.key
	}
	return keys
}

func TestBufferAscendingStaysSorted(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	for i := 0; i < 10; i++ {
		b.insert(i, i)
	}

	assert.True(t, b.sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, drainKeys(&b))
}

func TestBufferDescendingStaysSorted(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	for i := 9; i >= 0; i-- {
		b.insert(i, i)
	}

	// Each key went to the front; no sort needed on drain.
	assert.True(t, b.sorted)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, drainKeys(&b))
}

func TestBufferOutOfOrderClearsFlag(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.insert(1, 1)
	b.insert(9, 9)
	b.insert(5, 5)

	assert.False(t, b.sorted)
	assert.Equal(t, []int{1, 5, 9}, drainKeys(&b))
	assert.True(t, b.sorted)
}

// Equal keys must drain newest-last regardless of which insert path
// they took; the merge keeps the last of an equal run.
func TestBufferDuplicatesDrainNewestLast(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.insert(5, 1)
	b.insert(5, 2)
	b.insert(5, 3)

	assert.True(t, b.sorted)
	items := b.drainSorted()
	require.Len(t, items, 3)
	assert.Equal(t, 3, items[2].value)
}

func TestBufferDuplicatesAfterSort(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.insert(5, 1)
	b.insert(9, 0)
	b.insert(5, 2)
	b.insert(7, 0)
	b.insert(5, 3)

	assert.False(t, b.sorted)
	items := b.drainSorted()
	require.Len(t, items, 5)
	// Stable sort: the run of 5s keeps insertion order.
	assert.Equal(t, 5, items[0].key)
	assert.Equal(t, 5, items[1].key)
	assert.Equal(t, 5, items[2].key)
	assert.Equal(t, 3, items[2].value)
}

func TestBufferAppendPrepends(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.insert(10, 10)
	b.insert(11, 11)
	b.append([]pair[int, int]{{key: 1, value: 1}, {key: 2, value: 2}}, true)

	assert.True(t, b.sorted)
	assert.Equal(t, []int{1, 2, 10, 11}, drainKeys(&b))
}

func TestBufferAppendExtends(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.insert(1, 1)
	b.append([]pair[int, int]{{key: 2, value: 2}, {key: 3, value: 3}}, true)

	assert.True(t, b.sorted)
	assert.Equal(t, []int{1, 2, 3}, drainKeys(&b))
}

func TestBufferAppendStraddlingClearsFlag(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.insert(5, 5)
	b.append([]pair[int, int]{{key: 3, value: 3}, {key: 8, value: 8}}, true)

	assert.False(t, b.sorted)
	assert.Equal(t, []int{3, 5, 8}, drainKeys(&b))
}

func TestBufferAppendUnsortedHint(t *testing.T) {
	var b buffer[int, int]
	b.sorted = true

	b.append([]pair[int, int]{{key: 4, value: 4}, {key: 2, value: 2}}, false)

	assert.False(t, b.sorted)
	assert.Equal(t, []int{2, 4}, drainKeys(&b))
}

func TestDequeWrapAround(t *testing.T) {
	var d deque[int]

	for i := 0; i < 5; i++ {
		d.pushBack(i)
	}
	for i := -1; i >= -5; i-- {
		d.pushFront(i)
	}

	require.Equal(t, 10, d.len())
	assert.Equal(t, -5, *d.front())
	assert.Equal(t, 4, *d.back())

	out := d.drain()
	assert.Equal(t, []int{-5, -4, -3, -2, -1, 0, 1, 2, 3, 4}, out)
	assert.Equal(t, 0, d.len())
}
