package tree234

import (
	"fmt"
	"strings"
)

/*
A node holds up to three elements and four children. counts[i] caches
the total number of elements beneath kids[i], which is what makes
indexed lookup O(log n).
*/
type node[T any] struct {
	parent *node[T]
	kids   [4]*node[T]
	counts [4]int
	elems  [3]*T
}

func (n *node[T]) count() (c int) {
	if n == nil {
		return
	}
	for _, kc := range n.counts {
		c += kc
	}
	for _, e := range n.elems {
		if e != nil {
			c++
		}
	}
	return
}

// size is the number of elements held in this node itself.
func (n *node[T]) size() (s int) {
	if n == nil {
		return
	}
	for s < 3 && n.elems[s] != nil {
		s++
	}
	return
}

func (n *node[T]) childIndex() int {
	if n != nil && n.parent != nil {
		for i, kid := range n.parent.kids {
			if n == kid {
				return i
			}
		}
	}
	return -1
}

// node implements [fmt.Stringer]
func (n *node[T]) String() string {
	if n == nil {
		return "<nil>"
	}
	var parts []string
	for i := range 4 {
		if n.kids[i] != nil || n.counts[i] > 0 {
			parts = append(parts, fmt.Sprintf("%s(%d)", n.kids[i].String(), n.counts[i]))
		}
		if i < 3 && n.elems[i] != nil {
			if s, ok := any(n.elems[i]).(fmt.Stringer); ok {
				parts = append(parts, s.String())
			} else {
				parts = append(parts, fmt.Sprintf("%v", n.elems[i]))
			}
		}
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}

/*
Tree transformation used in delete: move a subtree right, from child
ki of a node to the next child along. k and index are updated so they
still point at the same place in the transformed tree. Assumes the
destination child is not full and the source child has a subtree to
spare; copes if the destination child is undersized.
*/
func (n *node[T]) transSubtreeRight(ki int, k, index *int) {
	var (
		src  = n.kids[ki]
		dest = n.kids[ki+1]
	)

	/*
	 * Move over the rest of the destination node to make space.
	 */
	dest.kids[3] = dest.kids[2]
	dest.kids[2] = dest.kids[1]
	dest.kids[1] = dest.kids[0]
	dest.counts[3] = dest.counts[2]
	dest.counts[2] = dest.counts[1]
	dest.counts[1] = dest.counts[0]
	dest.elems[2] = dest.elems[1]
	dest.elems[1] = dest.elems[0]

	/* which element to move over */
	i := src.size() - 1

	dest.elems[0] = n.elems[ki]
	n.elems[ki] = src.elems[i]
	src.elems[i] = nil

	dest.kids[0] = src.kids[i+1]
	dest.counts[0] = src.counts[i+1]
	src.kids[i+1] = nil
	src.counts[i+1] = 0

	if dest.kids[0] != nil {
		dest.kids[0].parent = dest
	}

	adjust := dest.counts[0] + 1
	n.counts[ki] -= adjust
	n.counts[ki+1] += adjust

	srclen := n.counts[ki]
	if k != nil {
		if *k == ki && *index > srclen {
			*index -= srclen + 1
			*k++
		} else if *k == ki+1 {
			*index += adjust
		}
	}
}

/*
Mirror image of transSubtreeRight: move a subtree left, from child ki
of a node to the previous child.
*/
func (n *node[T]) transSubtreeLeft(ki int, k, index *int) {
	var (
		src  = n.kids[ki]
		dest = n.kids[ki-1]
	)

	/* where in dest to put it */
	i := dest.size()

	dest.elems[i] = n.elems[ki-1]
	n.elems[ki-1] = src.elems[0]

	dest.kids[i+1] = src.kids[0]
	dest.counts[i+1] = src.counts[0]

	if dest.kids[i+1] != nil {
		dest.kids[i+1].parent = dest
	}

	/*
	 * Move over the rest of the source node.
	 */
	src.kids[0] = src.kids[1]
	src.kids[1] = src.kids[2]
	src.kids[2] = src.kids[3]
	src.kids[3] = nil
	src.counts[0] = src.counts[1]
	src.counts[1] = src.counts[2]
	src.counts[2] = src.counts[3]
	src.counts[3] = 0
	src.elems[0] = src.elems[1]
	src.elems[1] = src.elems[2]
	src.elems[2] = nil

	adjust := dest.counts[i+1] + 1
	n.counts[ki] -= adjust
	n.counts[ki-1] += adjust

	if k != nil {
		if *k == ki {
			*index -= adjust
			if *index < 0 {
				*index += n.counts[ki-1] + 1
				*k--
			}
		}
	}
}

/*
Tree transformation used in delete: merge child nodes ki and ki+1.
Assumes both children are minimal (one element each); copes if either
is undersized.
*/
func (n *node[T]) transSubtreeMerge(ki int, k, index *int) {
	var (
		left     = n.kids[ki]
		right    = n.kids[ki+1]
		leftlen  = n.counts[ki]
		rightlen = n.counts[ki+1]
		lsize    = left.size()
		rsize    = right.size()
	)

	if lsize == 2 || rsize == 2 {
		Log.Fatal("tree234: merge of non-minimal nodes")
	}

	left.elems[lsize] = n.elems[ki]

	for i := range rsize + 1 {
		left.kids[lsize+1+i] = right.kids[i]
		left.counts[lsize+1+i] = right.counts[i]
		if left.kids[lsize+1+i] != nil {
			left.kids[lsize+1+i].parent = left
		}
		if i < rsize {
			left.elems[lsize+1+i] = right.elems[i]
		}
	}

	n.counts[ki] += rightlen + 1

	/*
	 * Move the rest of n up by one.
	 */
	for i := ki + 1; i < 3; i++ {
		n.kids[i] = n.kids[i+1]
		n.counts[i] = n.counts[i+1]
	}
	for i := ki; i < 2; i++ {
		n.elems[i] = n.elems[i+1]
	}
	n.kids[3] = nil
	n.counts[3] = 0
	n.elems[2] = nil

	if k != nil {
		if *k == ki+1 {
			*k--
			*index += leftlen + 1
		} else if *k > ki+1 {
			*k--
		}
	}
}
