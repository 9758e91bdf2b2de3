package mines

import (
	"fmt"

	"github.com/vancomm/minesweeper-engine/internal/tree234"
)

/*
We use a tree234 to store a large number of small localised constraint
sets, each tying a 3x3 neighbourhood mask to a mine count. Sets whose
membership has changed also wait on a FIFO todo list for
re-examination.
*/
type cset struct {
	x, y  int
	mask  Mask
	mines int

	queued  bool /* on the todo list */
	dropped bool /* removed from the store; skip when popped */
}

// cset implements [fmt.Stringer]
func (s *cset) String() string {
	return fmt.Sprintf("%d.%d.%d", s.y, s.x, s.mask)
}

/*
Sets are ordered by (y, x, mask) only. The mine count deliberately
stays out of the key: two sets covering identical cells must agree on
their count, and disagreement is how setstore.add detects
contradictory knowledge.
*/
func csetCmp(a, b *cset) int {
	if a.y != b.y {
		if a.y < b.y {
			return -1
		}
		return 1
	}
	if a.x != b.x {
		if a.x < b.x {
			return -1
		}
		return 1
	}
	if a.mask != b.mask {
		if a.mask < b.mask {
			return -1
		}
		return 1
	}
	return 0
}

type setstore struct {
	sets *tree234.Tree[cset]
	todo []*cset /* FIFO; dropped sets are skipped on pop */
}

func newSetStore() *setstore {
	return &setstore{
		sets: tree234.New(csetCmp),
	}
}

/*
pushTodo enqueues s for re-examination unless it is already waiting.
*/
func (ss *setstore) pushTodo(s *cset) {
	if s.queued || s.dropped {
		return
	}
	s.queued = true
	ss.todo = append(ss.todo, s)
}

/*
popTodo removes and returns the set at the head of the todo list, or
nil if the list is empty.
*/
func (ss *setstore) popTodo() *cset {
	for len(ss.todo) > 0 {
		s := ss.todo[0]
		ss.todo[0] = nil
		ss.todo = ss.todo[1:]
		s.queued = false
		if s.dropped {
			continue /* removed from the store while waiting */
		}
		return s
	}
	return nil
}

/*
add normalises the set to canonical bounding-box form, validates its
mine count and inserts it into the store and the todo list. Inserting
a set identical to a stored one is a no-op; a duplicate that disagrees
on the mine count, or a count outside 0..popcount(mask), means the
knowledge being solved is self-contradictory.
*/
func (ss *setstore) add(x, y int, mask Mask, mines int) error {
	if mask == 0 {
		panic(AssertionError{"setstore.add: empty mask"})
	}

	/*
	 * Normalise so that x and y are genuinely the bounding
	 * rectangle.
	 */
	for mask&(1|8|64) == 0 {
		mask >>= 1
		x++
	}
	for mask&(1|2|4) == 0 {
		mask >>= 3
		y++
	}

	if mines < 0 || mines > mask.bitCount() {
		return inconsistentf(
			"set %d:%d mask %03o cannot hold %d mines",
			x, y, mask, mines,
		)
	}

	s := &cset{x: x, y: y, mask: mask, mines: mines}

	if prev := ss.sets.Add(s); prev != s {
		/*
		 * This set already existed. The newcomer is discarded, but
		 * if it disagrees with the stored count the two deductions
		 * that produced them cannot both be right.
		 */
		if prev.mines != mines {
			return inconsistentf(
				"set %d:%d mask %03o given two mine counts (%d and %d)",
				x, y, mask, prev.mines, mines,
			)
		}
		return nil
	}

	/*
	 * A new set always goes on the todo list.
	 */
	ss.pushTodo(s)
	return nil
}

/*
remove deletes s from the store. Any todo-list entry is invalidated
rather than unlinked; popTodo skips it.
*/
func (ss *setstore) remove(s *cset) {
	s.dropped = true
	ss.sets.Delete(s)
}

/*
overlap returns every stored set whose cells intersect the input
(x, y, mask) set. Candidate origins all lie within the surrounding 7x7
region, so the store is range-scanned per candidate row fragment
rather than walked in full.
*/
func (ss *setstore) overlap(x, y int, mask Mask) (ret []*cset) {
	for xx := x - 3; xx < x+3; xx++ {
		for yy := y - 3; yy < y+3; yy++ {
			/*
			 * Find the first set with these top left coordinates.
			 */
			probe := cset{x: xx, y: yy, mask: 0}
			if el, p := ss.sets.FindRelPos(&probe, tree234.Ge); el != nil {
				for s := ss.sets.Index(p); s != nil &&
					s.x == xx && s.y == yy; s = ss.sets.Index(p) {
					/*
					 * This set potentially overlaps the input one.
					 * Compute the intersection to make sure.
					 */
					if setMunge(x, y, mask, s.x, s.y, s.mask, false) != 0 {
						ret = append(ret, s)
					}
					p++
				}
			}
		}
	}
	return
}

/*
setMunge takes two (x, y, mask) sets and munges the first by taking
either its intersection with the second (diff false) or its difference
with the second (diff true). Returns the new mask part of the first
set.
*/
func setMunge(x1, y1 int, mask1 Mask, x2, y2 int, mask2 Mask, diff bool) Mask {
	/*
	 * Adjust the second set so that it has the same x,y
	 * coordinates as the first.
	 */
	if absDiff(x2, x1) >= 3 || absDiff(y2, y1) >= 3 {
		mask2 = 0
	} else {
		for x2 > x1 {
			mask2 &= ^Mask(4 | 32 | 256)
			mask2 <<= 1
			x2--
		}
		for x2 < x1 {
			mask2 &= ^Mask(1 | 8 | 64)
			mask2 >>= 1
			x2++
		}
		for y2 > y1 {
			mask2 &= ^Mask(64 | 128 | 256)
			mask2 <<= 3
			y2--
		}
		for y2 < y1 {
			mask2 &= ^Mask(1 | 2 | 4)
			mask2 >>= 3
			y2++
		}
	}

	/*
	 * Invert the second set if `diff' is set (we're after A &~ B
	 * rather than A & B).
	 */
	if diff {
		mask2 ^= 511
	}

	/*
	 * Now all that's left is a logical AND.
	 */
	return mask1 & mask2
}
