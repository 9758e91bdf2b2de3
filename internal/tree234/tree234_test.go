package tree234_test

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/tree234"
)

func TestMain(m *testing.M) {
	tree234.Log.SetOutput(io.Discard)
	m.Run()
}

type Item struct {
	Value int
}

func cmp(a, b *Item) int {
	if a.Value < b.Value {
		return -1
	}
	if a.Value > b.Value {
		return 1
	}
	return 0
}

func TestAdd(t *testing.T) {
	tree := tree234.New(cmp)
	for i := 1; i < 10; i++ {
		tree.Add(&Item{i})
	}

	assert.Equal(t, 9, tree.Count())
}

func TestAddDuplicate(t *testing.T) {
	tree := tree234.New(cmp)
	first := &Item{42}

	assert.Same(t, first, tree.Add(first))
	assert.Same(t, first, tree.Add(&Item{42}))
	assert.Equal(t, 1, tree.Count())
}

func TestIndex(t *testing.T) {
	var (
		empty *Item
		items []*Item
		tree  = tree234.New(cmp)
	)
	for i := 1; i < 10; i++ {
		item := &Item{i}
		items = append(items, item)
		tree.Add(item)
	}

	for i := range 15 {
		if i < len(items) {
			assert.Equal(t, items[i], tree.Index(i))
		} else {
			assert.Equal(t, empty, tree.Index(i))
		}
	}
}

func TestFindRelPos(t *testing.T) {
	var (
		items []*Item
		tree  = tree234.New(cmp)
	)
	for i := 1; i < 10; i++ {
		item := &Item{i * 2}
		items = append(items, item)
		tree.Add(item)
	}

	el, index := tree.FindRelPos(items[1], tree234.Eq)
	assert.Same(t, items[1], el)
	assert.Equal(t, 1, index)

	el, index = tree.FindRelPos(items[7], tree234.Eq)
	assert.Same(t, items[7], el)
	assert.Equal(t, 7, index)

	/* 7 is absent: Eq misses, Ge finds 8, Le finds 6 */
	el, _ = tree.FindRelPos(&Item{7}, tree234.Eq)
	assert.Nil(t, el)

	el, index = tree.FindRelPos(&Item{7}, tree234.Ge)
	require.NotNil(t, el)
	assert.Equal(t, 8, el.Value)
	assert.Equal(t, 3, index)

	el, index = tree.FindRelPos(&Item{7}, tree234.Le)
	require.NotNil(t, el)
	assert.Equal(t, 6, el.Value)
	assert.Equal(t, 2, index)

	/* nil element means min/max */
	el, _ = tree.FindRelPos(nil, tree234.Gt)
	require.NotNil(t, el)
	assert.Equal(t, 2, el.Value)

	el, _ = tree.FindRelPos(nil, tree234.Lt)
	require.NotNil(t, el)
	assert.Equal(t, 18, el.Value)
}

func TestDelete(t *testing.T) {
	var (
		empty *Item
		items []*Item
		tree  = tree234.New(cmp)
	)
	for i := 1; i < 10; i++ {
		item := &Item{i}
		items = append(items, item)
		tree.Add(item)
	}

	assert.Equal(t, empty, tree.Delete(&Item{10}))
	assert.Equal(t, items[7], tree.Delete(&Item{8}))
	assert.Equal(t, 8, tree.Count())
	el, _ := tree.FindRelPos(&Item{8}, tree234.Eq)
	assert.Nil(t, el)
}

/*
Exercise the tree with a random insert/delete workload and check it
against a sorted slice after every operation.
*/
func TestRandomWorkload(t *testing.T) {
	var (
		r    = rand.New(rand.NewPCG(1, 2))
		tree = tree234.New(cmp)
		ref  []*Item
	)

	find := func(v int) int {
		for i, item := range ref {
			if item.Value == v {
				return i
			}
		}
		return -1
	}

	for op := range 2000 {
		v := r.IntN(500)
		if i := find(v); op%3 == 2 && i >= 0 {
			deleted := tree.Delete(&Item{v})
			require.Same(t, ref[i], deleted)
			ref = append(ref[:i], ref[i+1:]...)
		} else if i < 0 {
			item := &Item{v}
			require.Same(t, item, tree.Add(item))
			at := 0
			for at < len(ref) && ref[at].Value < v {
				at++
			}
			ref = append(ref, nil)
			copy(ref[at+1:], ref[at:])
			ref[at] = item
		}

		require.Equal(t, len(ref), tree.Count())
	}

	for i, item := range ref {
		require.Same(t, item, tree.Index(i), "index %d", i)
	}
}
