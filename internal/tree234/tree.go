/*
Package tree234 implements a counted 2-3-4 tree: a balanced ordered
container that supports, besides comparison-based lookup, lookup and
deletion by numeric index. The mines solver leans on both: the
constraint-set store needs ordered range scans keyed by origin
coordinates, and the global-deduction search needs cheap access to
"the i-th stored set".
*/
package tree234

import "github.com/sirupsen/logrus"

var Log = logrus.New()

type CompareFunc[T any] func(a, b *T) int

type Tree[T any] struct {
	root *node[T]
	cmp  CompareFunc[T]
}

func New[T any](cmp CompareFunc[T]) *Tree[T] {
	return &Tree[T]{cmp: cmp}
}

func (t *Tree[T]) Count() int {
	return t.root.count()
}

// Tree implements [fmt.Stringer]
func (t *Tree[T]) String() string {
	return t.root.String()
}

/*
Index returns the element at a given numeric position in sort order,
or nil if the position is out of range.
*/
func (t *Tree[T]) Index(index int) *T {
	if t.root == nil {
		return nil /* tree is empty */
	}
	if index < 0 || index >= t.root.count() {
		return nil /* out of range */
	}

	n := t.root
	for n != nil {
		if index < n.counts[0] {
			n = n.kids[0]
		} else if index -= n.counts[0] + 1; index < 0 {
			return n.elems[0]
		} else if index < n.counts[1] {
			n = n.kids[1]
		} else if index -= n.counts[1] + 1; index < 0 {
			return n.elems[1]
		} else if index < n.counts[2] {
			n = n.kids[2]
		} else if index -= n.counts[2] + 1; index < 0 {
			return n.elems[2]
		} else {
			n = n.kids[3]
		}
	}

	/* We shouldn't ever get here. I wonder how we did. */
	return nil
}
