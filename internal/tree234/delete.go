package tree234

/*
Delete removes the element comparing equal to e from the tree and
returns it, or returns nil if no such element was there.
*/
func (t *Tree[T]) Delete(e *T) *T {
	el, index := t.FindRelPos(e, Eq)
	if el == nil {
		return nil /* it wasn't in there anyway */
	}
	return t.deletePos(index) /* it's there; delete it. */
}

/*
DeletePos removes and returns the element at a numeric position, or
nil if the position is out of range.
*/
func (t *Tree[T]) DeletePos(index int) *T {
	if index < 0 || index >= t.Count() {
		return nil
	}
	return t.deletePos(index)
}

func (t *Tree[T]) deletePos(index int) *T {
	var (
		n   = t.root /* by assumption this is non-nil */
		res *T
		ki  int
	)

	for {
		if index <= n.counts[0] {
			ki = 0
		} else if index -= n.counts[0] + 1; index <= n.counts[1] {
			ki = 1
		} else if index -= n.counts[1] + 1; index <= n.counts[2] {
			ki = 2
		} else if index -= n.counts[2] + 1; index <= n.counts[3] {
			ki = 3
		} else {
			Log.Fatal("tree234: delete index inconsistent with counts")
		}

		if n.kids[0] == nil {
			break /* n is a leaf node; we're here! */
		}

		/*
		 * If we've found the target element in an internal node,
		 * swap it with its successor (which lives in a leaf), then
		 * carry on down to the leaf and delete the copy there.
		 */
		if index == n.counts[ki] {
			if n.elems[ki] == nil { /* must be a kid _before_ an element */
				Log.Fatal("tree234: deleting past last element of node")
			}
			ki++
			index = 0
			m := n.kids[ki]
			for m.kids[0] != nil {
				m = m.kids[0]
			}
			res = n.elems[ki-1]
			n.elems[ki-1] = m.elems[0]
		}

		/*
		 * Recurse down to subtree ki. If it's minimal, transform
		 * the tree first so the deletion can't underflow it.
		 */
		sub := n.kids[ki]
		if sub.elems[1] == nil {
			if ki > 0 && n.kids[ki-1].elems[1] != nil {
				/* borrow from the left sibling */
				n.transSubtreeRight(ki-1, &ki, &index)
			} else if ki < 3 && n.kids[ki+1] != nil &&
				n.kids[ki+1].elems[1] != nil {
				/* borrow from the right sibling */
				n.transSubtreeLeft(ki+1, &ki, &index)
			} else {
				/*
				 * Both neighbours minimal too: merge with one.
				 */
				if ki > 0 {
					n.transSubtreeMerge(ki-1, &ki, &index)
				} else {
					n.transSubtreeMerge(ki, &ki, &index)
				}
				sub = n.kids[ki]

				if n.elems[0] == nil {
					/* the root is empty and needs to go */
					t.root = sub
					sub.parent = nil
					n = nil
				}
			}
		}

		if n != nil {
			n.counts[ki]--
		}
		n = sub
	}

	/*
	 * Now n is a leaf node and ki marks the element number to
	 * delete. The transformations above guarantee the leaf is
	 * bigger than minimal, so just take the element out.
	 */
	if n.kids[0] != nil {
		Log.Fatal("tree234: delete arrived at non-leaf")
	}

	if res == nil {
		res = n.elems[ki]
	}

	var i int
	for i = ki; i < 2 && n.elems[i+1] != nil; i++ {
		n.elems[i] = n.elems[i+1]
	}
	n.elems[i] = nil

	/*
	 * The leaf can only have shrunk to zero size if it was the
	 * root; in that case the tree is now empty.
	 */
	if n.elems[0] == nil {
		if n != t.root {
			Log.Fatal("tree234: non-root leaf emptied by delete")
		}
		t.root = nil
	}

	return res
}
