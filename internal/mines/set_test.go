package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMunge(t *testing.T) {
	tests := []struct {
		name   string
		x1, y1 int
		mask1  Mask
		x2, y2 int
		mask2  Mask
		diff   bool
		want   Mask
	}{
		{
			name: "identical frames intersect",
			x1:   2, y1: 2, mask1: 0b101,
			x2: 2, y2: 2, mask2: 0b011,
			want: 0b001,
		},
		{
			name: "identical frames differ",
			x1:   2, y1: 2, mask1: 0b101,
			x2: 2, y2: 2, mask2: 0b011,
			diff: true,
			want: 0b100,
		},
		{
			name: "shifted one column right",
			x1:   0, y1: 0, mask1: 511,
			x2: 1, y2: 0, mask2: 511,
			want: 2 | 4 | 16 | 32 | 128 | 256,
		},
		{
			name: "shifted one column right difference",
			x1:   0, y1: 0, mask1: 511,
			x2: 1, y2: 0, mask2: 511,
			diff: true,
			want: 1 | 8 | 64,
		},
		{
			name: "shifted one row down",
			x1:   0, y1: 0, mask1: 511,
			x2: 0, y2: 1, mask2: 511,
			want: 8 | 16 | 32 | 64 | 128 | 256,
		},
		{
			name: "too far apart",
			x1:   0, y1: 0, mask1: 511,
			x2: 3, y2: 0, mask2: 511,
			want: 0,
		},
		{
			name: "too far apart difference keeps first set",
			x1:   0, y1: 0, mask1: 0b111,
			x2: 0, y2: 5, mask2: 511,
			diff: true,
			want: 0b111,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := setMunge(
				test.x1, test.y1, test.mask1,
				test.x2, test.y2, test.mask2,
				test.diff,
			)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestSetStoreNormalisesOnAdd(t *testing.T) {
	ss := newSetStore()

	/* A single cell at (1, 0), expressed as bit 1 of a set at (0, 0). */
	require.NoError(t, ss.add(0, 0, 2, 1))
	require.Equal(t, 1, ss.sets.Count())

	s := ss.sets.Index(0)
	assert.Equal(t, 1, s.x)
	assert.Equal(t, 0, s.y)
	assert.Equal(t, Mask(1), s.mask)
	assert.Equal(t, 1, s.mines)
}

func TestSetStoreRejectsBadMineCounts(t *testing.T) {
	ss := newSetStore()
	assert.Error(t, ss.add(0, 0, 0b111, 4))
	assert.Error(t, ss.add(0, 0, 0b111, -1))
	assert.Equal(t, 0, ss.sets.Count())
}

func TestSetStoreDeduplicates(t *testing.T) {
	ss := newSetStore()

	require.NoError(t, ss.add(0, 0, 0b111, 1))
	require.NoError(t, ss.add(0, 0, 0b111, 1))
	assert.Equal(t, 1, ss.sets.Count())

	/* The set must only have been queued once. */
	assert.NotNil(t, ss.popTodo())
	assert.Nil(t, ss.popTodo())
}

func TestSetStoreDetectsConflictingDuplicate(t *testing.T) {
	ss := newSetStore()
	require.NoError(t, ss.add(0, 0, 0b111, 1))
	assert.Error(t, ss.add(0, 0, 0b111, 2))
}

func TestSetStoreTodoOrder(t *testing.T) {
	ss := newSetStore()

	require.NoError(t, ss.add(0, 0, 0b111, 1))
	require.NoError(t, ss.add(0, 3, 0b111, 2))
	require.NoError(t, ss.add(0, 6, 0b111, 3))

	first := ss.popTodo()
	require.NotNil(t, first)
	assert.Equal(t, 0, first.y)

	/* Re-pushing a popped set goes to the back of the queue. */
	ss.pushTodo(first)

	second := ss.popTodo()
	require.NotNil(t, second)
	assert.Equal(t, 3, second.y)

	third := ss.popTodo()
	require.NotNil(t, third)
	assert.Equal(t, 6, third.y)

	assert.Same(t, first, ss.popTodo())
	assert.Nil(t, ss.popTodo())
}

func TestSetStoreRemoveInvalidatesTodoEntry(t *testing.T) {
	ss := newSetStore()

	require.NoError(t, ss.add(0, 0, 0b111, 1))
	s := ss.sets.Index(0)
	ss.remove(s)

	assert.Equal(t, 0, ss.sets.Count())
	assert.Nil(t, ss.popTodo())
	assert.Empty(t, ss.overlap(0, 0, 511))
}

func TestSetStoreOverlap(t *testing.T) {
	ss := newSetStore()

	require.NoError(t, ss.add(0, 0, 0b111, 1)) /* (0..2, 0) */
	require.NoError(t, ss.add(4, 0, 0b111, 1)) /* (4..6, 0) */

	hits := ss.overlap(2, 0, 1)
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0].x)

	hits = ss.overlap(3, 0, 1)
	assert.Empty(t, hits)

	/* A 3x3 query straddling both sets finds both. */
	hits = ss.overlap(2, 0, 0b111_111_111)
	assert.Len(t, hits, 2)
}
