package tree234

/*
Add inserts e into the tree. Returns e on success; if an element
comparing equal is already present, the tree is left alone and the
existing element is returned instead.
*/
func (t *Tree[T]) Add(e *T) *T {
	if t.root == nil {
		t.root = &node[T]{elems: [3]*T{e, nil, nil}}
		return e
	}

	var (
		n  = t.root
		ki int
	)
	for {
		if c := t.cmp(e, n.elems[0]); c < 0 {
			ki = 0
		} else if c == 0 {
			return n.elems[0] /* already exists */
		} else if n.elems[1] == nil {
			ki = 1
		} else if c = t.cmp(e, n.elems[1]); c < 0 {
			ki = 1
		} else if c == 0 {
			return n.elems[1] /* already exists */
		} else if n.elems[2] == nil {
			ki = 2
		} else if c = t.cmp(e, n.elems[2]); c < 0 {
			ki = 2
		} else if c == 0 {
			return n.elems[2] /* already exists */
		} else {
			ki = 3
		}

		if n.kids[ki] == nil {
			break
		}
		n = n.kids[ki]
	}

	t.insertAt(nil, e, nil, n, ki)
	return e
}

/*
insertAt places the left/e/right triple at child point ki of leaf (or
half-leaf) n, then propagates any node overflow up the tree until it
stops, splitting 4-nodes as it goes.
*/
func (t *Tree[T]) insertAt(left *node[T], e *T, right *node[T], n *node[T], ki int) {
	var (
		lcount = left.count()
		rcount = right.count()
	)

	for n != nil {
		if n.elems[1] == nil {
			/*
			 * Insert in a 2-node; simple.
			 */
			if ki == 0 {
				/* on left */
				n.kids[2] = n.kids[1]
				n.counts[2] = n.counts[1]
				n.elems[1] = n.elems[0]
				n.kids[1] = right
				n.counts[1] = rcount
				n.elems[0] = e
				n.kids[0] = left
				n.counts[0] = lcount
			} else { /* ki == 1 */
				/* on right */
				n.kids[2] = right
				n.counts[2] = rcount
				n.elems[1] = e
				n.kids[1] = left
				n.counts[1] = lcount
			}
			for i := range 3 {
				if n.kids[i] != nil {
					n.kids[i].parent = n
				}
			}
			break
		} else if n.elems[2] == nil {
			/*
			 * Insert in a 3-node; simple.
			 */
			if ki == 0 {
				/* on left */
				n.kids[3] = n.kids[2]
				n.counts[3] = n.counts[2]
				n.elems[2] = n.elems[1]
				n.kids[2] = n.kids[1]
				n.counts[2] = n.counts[1]
				n.elems[1] = n.elems[0]
				n.kids[1] = right
				n.counts[1] = rcount
				n.elems[0] = e
				n.kids[0] = left
				n.counts[0] = lcount
			} else if ki == 1 {
				/* in middle */
				n.kids[3] = n.kids[2]
				n.counts[3] = n.counts[2]
				n.elems[2] = n.elems[1]
				n.kids[2] = right
				n.counts[2] = rcount
				n.elems[1] = e
				n.kids[1] = left
				n.counts[1] = lcount
			} else { /* ki == 2 */
				/* on right */
				n.kids[3] = right
				n.counts[3] = rcount
				n.elems[2] = e
				n.kids[2] = left
				n.counts[2] = lcount
			}
			for i := range 4 {
				if n.kids[i] != nil {
					n.kids[i].parent = n
				}
			}
			break
		} else {
			/*
			 * Insert in a 4-node; split into a 2-node and a 3-node
			 * and move focus up a level. The 3 goes first always.
			 */
			m := &node[T]{parent: n.parent}
			if ki == 0 {
				m.kids[0] = left
				m.counts[0] = lcount
				m.elems[0] = e
				m.kids[1] = right
				m.counts[1] = rcount
				m.elems[1] = n.elems[0]
				m.kids[2] = n.kids[1]
				m.counts[2] = n.counts[1]
				e = n.elems[1]
				n.kids[0] = n.kids[2]
				n.counts[0] = n.counts[2]
				n.elems[0] = n.elems[2]
				n.kids[1] = n.kids[3]
				n.counts[1] = n.counts[3]
			} else if ki == 1 {
				m.kids[0] = n.kids[0]
				m.counts[0] = n.counts[0]
				m.elems[0] = n.elems[0]
				m.kids[1] = left
				m.counts[1] = lcount
				m.elems[1] = e
				m.kids[2] = right
				m.counts[2] = rcount
				e = n.elems[1]
				n.kids[0] = n.kids[2]
				n.counts[0] = n.counts[2]
				n.elems[0] = n.elems[2]
				n.kids[1] = n.kids[3]
				n.counts[1] = n.counts[3]
			} else if ki == 2 {
				m.kids[0] = n.kids[0]
				m.counts[0] = n.counts[0]
				m.elems[0] = n.elems[0]
				m.kids[1] = n.kids[1]
				m.counts[1] = n.counts[1]
				m.elems[1] = n.elems[1]
				m.kids[2] = left
				m.counts[2] = lcount
				/* e unchanged */
				n.kids[0] = right
				n.counts[0] = rcount
				n.elems[0] = n.elems[2]
				n.kids[1] = n.kids[3]
				n.counts[1] = n.counts[3]
			} else { /* ki == 3 */
				m.kids[0] = n.kids[0]
				m.counts[0] = n.counts[0]
				m.elems[0] = n.elems[0]
				m.kids[1] = n.kids[1]
				m.counts[1] = n.counts[1]
				m.elems[1] = n.elems[1]
				m.kids[2] = n.kids[2]
				m.counts[2] = n.counts[2]
				n.kids[0] = left
				n.counts[0] = lcount
				n.elems[0] = e
				n.kids[1] = right
				n.counts[1] = rcount
				e = n.elems[2]
			}
			m.kids[3], n.kids[3], n.kids[2] = nil, nil, nil
			m.counts[3], n.counts[3], n.counts[2] = 0, 0, 0
			m.elems[2], n.elems[2], n.elems[1] = nil, nil, nil
			for i := range 3 {
				if m.kids[i] != nil {
					m.kids[i].parent = m
				}
			}
			for i := range 2 {
				if n.kids[i] != nil {
					n.kids[i].parent = n
				}
			}
			left = m
			lcount = left.count()
			right = n
			rcount = right.count()
		}
		if n.parent != nil {
			ki = n.childIndex()
		}
		n = n.parent
	}

	/*
	 * If we dropped out by `break', n is non-nil and we go back up
	 * the tree updating counts. If n is nil the old root split in
	 * two, so build a new root above the halves.
	 */
	if n != nil {
		for n.parent != nil {
			n.parent.counts[n.childIndex()] = n.count()
			n = n.parent
		}
		return
	}

	t.root = &node[T]{
		kids:   [4]*node[T]{left, right, nil, nil},
		counts: [4]int{lcount, rcount, 0, 0},
		elems:  [3]*T{e, nil, nil},
	}
	if left != nil {
		left.parent = t.root
	}
	if right != nil {
		right.parent = t.root
	}
}
