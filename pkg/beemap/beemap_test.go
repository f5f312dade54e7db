package beemap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMap(t *testing.T) {
	m := New[int, int]()

	require.NotNil(t, m)
	assert.Equal(t, 0, m.Len())
	assert.True(t, m.IsEmpty())
}

func TestGetFromEmpty(t *testing.T) {
	m := New[int, int]()

	v, ok := m.Get(5)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestInsertOne(t *testing.T) {
	m := New[int, int]()
	m.Insert(2, 3)

	v, ok := m.Get(2)
	require.True(t, ok)
	assert.Equal(t, 3, *v)
	assert.Equal(t, 1, m.Len())
	assert.False(t, m.IsEmpty())
}

func TestInsertOrdered(t *testing.T) {
	m := New[int, int]()
	for i := 10; i < 15; i++ {
		m.Insert(i, i*2)
	}

	v, ok := m.Get(12)
	require.True(t, ok)
	assert.Equal(t, 24, *v)

	v, ok = m.Get(14)
	require.True(t, ok)
	assert.Equal(t, 28, *v)

	_, ok = m.Get(16)
	assert.False(t, ok)
	_, ok = m.Get(7)
	assert.False(t, ok)
}

func TestInsertOrderedOverflow(t *testing.T) {
	m := New[int, int]()
	for i := 10; i < 10+B*3; i++ {
		m.Insert(i, i*2)
	}

	for i := 10; i < 10+B*3; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*2, *v, "key %d", i)
	}

	_, ok := m.Get(7)
	assert.False(t, ok)
	_, ok = m.Get(15 + B*3)
	assert.False(t, ok)
}

func TestInsertOrderedOverflowGetRandom(t *testing.T) {
	m := New[int, int]()
	for i := 10; i < 10+B*3; i++ {
		m.Insert(i, i*2)
	}

	r := rand.New(rand.NewSource(1))
	index := make([]int, 0, B*3)
	for i := 10; i < 10+B*3; i++ {
		index = append(index, i)
	}
	r.Shuffle(len(index), func(i, j int) { index[i], index[j] = index[j], index[i] })

	for _, i := range index {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*2, *v, "key %d", i)
	}
}

// A key promoted to a separator during the first flush must still
// resolve, both at the head of a fresh branch and inside one.
func TestGetHeadOfBranch(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < B*3; i++ {
		m.Insert(i, i*2)
	}

	v, ok := m.Get(B / 2)
	require.True(t, ok)
	assert.Equal(t, B, *v)
}

func TestGetInNewBranch(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < B*3; i++ {
		m.Insert(i, i*2)
	}

	v, ok := m.Get(B / 2 * 3)
	require.True(t, ok)
	assert.Equal(t, B*3, *v)
}

func TestInsertOrderedRecursiveOverflow(t *testing.T) {
	m := New[int, int]()
	max := 10 + B*B*3
	for i := 10; i < max; i++ {
		m.Insert(i, i*2)
	}

	for i := 10; i < max; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*2, *v, "key %d", i)
	}

	_, ok := m.Get(7)
	assert.False(t, ok)
	_, ok = m.Get(15 + max)
	assert.False(t, ok)
}

func TestInsertOrderedRecursiveOverflowGetRandom(t *testing.T) {
	m := New[int, int]()
	max := 10 + B*B*3
	for i := 10; i < max; i++ {
		m.Insert(i, i*2)
	}

	r := rand.New(rand.NewSource(2))
	index := make([]int, 0, max-10)
	for i := 10; i < max; i++ {
		index = append(index, i)
	}
	r.Shuffle(len(index), func(i, j int) { index[i], index[j] = index[j], index[i] })

	for _, i := range index {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*2, *v, "key %d", i)
	}
}

func TestAlternatingInsertGet(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < B*B*3; i++ {
		m.Insert(i, i)
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i, *v, "key %d", i)
	}
}

func TestLastWriteWins(t *testing.T) {
	m := New[int, string]()
	m.Insert(1, "a")
	m.Insert(1, "b")
	m.Insert(1, "c")

	v, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, "c", *v)
}

func TestDuplicateCollapse(t *testing.T) {
	m := New[int, int]()
	last := B * B * 3
	for i := 0; i <= last; i++ {
		m.Insert(1, i)
	}

	assert.Equal(t, last+1, m.Len())

	v, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, last, *v)
}

// Duplicates interleaved with enough distinct keys to force splits
// while the overwrites are still in flight.
func TestDuplicatesAcrossFlushes(t *testing.T) {
	m := New[int, int]()
	for round := 0; round < 5; round++ {
		for i := 0; i < B*2; i++ {
			m.Insert(i, round*10000+i)
		}
		v, ok := m.Get(B)
		require.True(t, ok)
		require.Equal(t, round*10000+B, *v)
	}

	for i := 0; i < B*2; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, 40000+i, *v, "key %d", i)
	}
}

func TestGetMutWritesThrough(t *testing.T) {
	m := New[int, int]()
	m.Insert(1, 1)

	v, ok := m.GetMut(1)
	require.True(t, ok)
	*v = 5

	got, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, 5, *got)
}

// Writing through a pointer obtained before the tree reorganized must
// not be required to survive; but writing through one obtained after
// the most recent operation must.
func TestGetMutAfterGrowth(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < B*3; i++ {
		m.Insert(i, i)
	}

	v, ok := m.GetMut(B / 2)
	require.True(t, ok)
	*v = -1

	got, ok := m.Get(B / 2)
	require.True(t, ok)
	assert.Equal(t, -1, *got)
}

func TestGetKeyValue(t *testing.T) {
	m := New[int, string]()
	m.Insert(7, "seven")

	k, v, ok := m.GetKeyValue(7)
	require.True(t, ok)
	assert.Equal(t, 7, k)
	assert.Equal(t, "seven", *v)

	_, _, ok = m.GetKeyValue(8)
	assert.False(t, ok)
}

func TestGetKeyValueMut(t *testing.T) {
	m := New[int, int]()
	m.Insert(1, 2)

	k, v, ok := m.GetKeyValueMut(1)
	require.True(t, ok)
	assert.Equal(t, 1, k)
	assert.Equal(t, 2, *v)

	*v = 5
	got, ok := m.Get(1)
	require.True(t, ok)
	assert.Equal(t, 5, *got)
}

func TestGetKeyValueOnSeparator(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < B*3; i++ {
		m.Insert(i, i*2)
	}

	// B/2 ends up as a separator after the first flush.
	k, v, ok := m.GetKeyValue(B / 2)
	require.True(t, ok)
	assert.Equal(t, B/2, k)
	assert.Equal(t, B, *v)
}

func TestBulkInsertSorted(t *testing.T) {
	m := New[int, int]()
	entries := make([]Entry[int, int], 0, B*4)
	for i := 0; i < B*4; i++ {
		entries = append(entries, Entry[int, int]{Key: i, Value: i * 3})
	}
	m.BulkInsertSorted(entries)

	assert.Equal(t, B*4, m.Len())
	for i := 0; i < B*4; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i*3, *v, "key %d", i)
	}
}

func TestBulkInsertUnsorted(t *testing.T) {
	m := New[int, int]()
	r := rand.New(rand.NewSource(3))
	entries := make([]Entry[int, int], 0, B*4)
	for i := 0; i < B*4; i++ {
		entries = append(entries, Entry[int, int]{Key: i, Value: i})
	}
	r.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })

	m.BulkInsert(entries, false)

	for i := 0; i < B*4; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i, *v, "key %d", i)
	}
}

func TestBulkInsertAfterInserts(t *testing.T) {
	m := New[int, int]()
	for i := B; i < B*2; i++ {
		m.Insert(i, i)
	}

	// Fits entirely before the buffer's front: prepended, still sorted.
	low := make([]Entry[int, int], 0, B)
	for i := 0; i < B; i++ {
		low = append(low, Entry[int, int]{Key: i, Value: i})
	}
	m.BulkInsertSorted(low)

	// Fits entirely after the back.
	high := make([]Entry[int, int], 0, B)
	for i := B * 2; i < B*3; i++ {
		high = append(high, Entry[int, int]{Key: i, Value: i})
	}
	m.BulkInsertSorted(high)

	for i := 0; i < B*3; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i, *v, "key %d", i)
	}
}

func TestBulkInsertDuplicatesKeepLast(t *testing.T) {
	m := New[int, int]()
	m.Insert(5, 1)
	m.BulkInsertSorted([]Entry[int, int]{{Key: 5, Value: 2}, {Key: 5, Value: 3}})

	v, ok := m.Get(5)
	require.True(t, ok)
	assert.Equal(t, 3, *v)
	assert.Equal(t, 3, m.Len())
}

// Reads are idempotent: repeating a Get yields the same answer and
// does not disturb other keys.
func TestReadIdempotence(t *testing.T) {
	m := New[int, int]()
	r := rand.New(rand.NewSource(4))
	keys := make([]int, 0, B*B)
	for i := 0; i < B*B; i++ {
		keys = append(keys, i)
	}
	r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	for _, k := range keys {
		m.Insert(k, k+1)
	}

	for _, k := range []int{0, 1, B / 2, B, B * 7, B*B - 1} {
		v1, ok1 := m.Get(k)
		require.True(t, ok1)
		v2, ok2 := m.Get(k)
		require.True(t, ok2)
		assert.Equal(t, *v1, *v2)
		assert.Equal(t, k+1, *v2)
	}

	for i := 0; i < B*B; i++ {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Equal(t, i+1, *v, "key %d", i)
	}
}

// Shared pointer values survive buffering, flushing and splitting
// untouched: the map moves them, it never copies the pointee.
func TestSharedPointerValues(t *testing.T) {
	m := New[int, *int]()
	payloads := make([]*int, B*3)
	for i := range payloads {
		p := i
		payloads[i] = &p
		m.Insert(i, payloads[i])
	}

	for i := range payloads {
		v, ok := m.Get(i)
		require.True(t, ok, "key %d", i)
		require.Same(t, payloads[i], *v, "key %d", i)
	}
}

func TestRandomAgainstBuiltinMap(t *testing.T) {
	m := New[uint32, int]()
	oracle := make(map[uint32]int)

	r := rand.New(rand.NewSource(5))
	for i := 0; i < 200000; i++ {
		k := uint32(r.Intn(50000))
		m.Insert(k, i)
		oracle[k] = i

		if i%17 == 0 {
			probe := uint32(r.Intn(50000))
			want, wantOK := oracle[probe]
			got, ok := m.Get(probe)
			require.Equal(t, wantOK, ok, "probe %d at step %d", probe, i)
			if ok {
				require.Equal(t, want, *got, "probe %d at step %d", probe, i)
			}
		}
	}

	for k, want := range oracle {
		got, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, want, *got, "key %d", k)
	}
}
