package tree234

type Relation uint8

const (
	Eq Relation = iota
	Lt
	Le
	Gt
	Ge
)

/*
FindRelPos looks for an element bearing the given relation to e, and
returns it along with its numeric position, or (nil, -1). e is always
passed as the first argument to the compare function, so an
asymmetric compare can be used for prefix searches. e may be nil for
Lt/Gt, meaning "the maximum"/"the minimum" respectively.
*/
func (t *Tree[T]) FindRelPos(e *T, relation Relation) (el *T, index int) {
	if t.root == nil {
		return nil, -1
	}

	var (
		n      = t.root
		cmpret = 0 /* fake compare result while e is nil */
	)
	if e == nil {
		switch relation {
		case Lt:
			cmpret = +1 /* e is a max: always greater */
		case Gt:
			cmpret = -1 /* e is a min: always smaller */
		default:
			Log.Fatal("tree234: nil search element needs Lt or Gt")
		}
	}

	var (
		idx    = 0
		ecount = -1
		kcount int
	)
	for {
		for kcount = 0; kcount < 4; kcount++ {
			if kcount >= 3 || n.elems[kcount] == nil {
				break
			}
			var c int
			if cmpret != 0 {
				c = cmpret
			} else {
				c = t.cmp(e, n.elems[kcount])
			}
			if c < 0 {
				break
			}
			if n.kids[kcount] != nil {
				idx += n.counts[kcount]
			}
			if c == 0 {
				ecount = kcount
				break
			}
			idx++
		}
		if ecount >= 0 {
			break
		}
		if n.kids[kcount] == nil {
			break
		}
		n = n.kids[kcount]
	}

	if ecount >= 0 {
		/*
		 * Found the element itself; for Eq, Le and Ge that's the
		 * answer. For Lt/Gt, step to the neighbouring index.
		 */
		if relation != Lt && relation != Gt {
			return n.elems[ecount], idx
		}
		if relation == Lt {
			idx--
		} else {
			idx++
		}
	} else {
		/*
		 * We've hit the bottom of the tree; idx is where the
		 * element would be inserted. An exact match is a miss,
		 * otherwise step to the nearest index on the wanted side.
		 */
		if relation == Eq {
			return nil, -1
		}
		if relation == Lt || relation == Le {
			idx--
		}
	}

	/* Index returns nil when idx is out of bounds, which is what
	 * we want here. */
	return t.Index(idx), idx
}
