package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	todoCell         CellState = -10 /* internal to GameState.OpenCell */
	Question         CellState = -3
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * Each item in a Grid is one of the following values:
	 *
	 *  - 0 to 8 mean the cell is open and has a surrounding mine
	 *    count.
	 *
	 *  - -1 means the cell is known (or deduced) to be a mine.
	 *
	 *  - -2 means the cell is unknown.
	 *
	 *  - -3 means the cell carries a player's question mark.
	 *
	 *  - 64 and up are post-game-over markers used when revealing
	 *    the field.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Question:
		return "?"
	case s == Unknown:
		return " "
	case s == Flagged:
		return "*"
	case 0 <= s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

/*
A Grid is per-cell knowledge about a field, laid out row-major. The
solver owns and mutates it; ground truth lives elsewhere (see Oracle)
and is only ever consulted through Open.
*/
type Grid []CellState

func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			i := y*width + x
			if i >= len(g) {
				break
			}
			fmt.Fprint(&b, g[i].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

/*
A FIFO of cells whose contents have just become known and which the
solver still has to process. next is an intrusive link table indexed
by cell, which also guarantees a cell cannot be queued twice.
*/
type celltodo struct {
	next       []int
	head, tail int
}

func newCelltodo(size int) *celltodo {
	return &celltodo{
		next: make([]int, size),
		head: -1,
		tail: -1,
	}
}

func (std *celltodo) add(i int) {
	if std.tail >= 0 {
		std.next[std.tail] = i
	} else {
		std.head = i
	}
	std.tail = i
	std.next[i] = -1
}

func (std *celltodo) pop() (int, bool) {
	if std.head < 0 {
		return 0, false
	}
	i := std.head
	std.head = std.next[i]
	if std.head == -1 {
		std.tail = -1
	}
	return i, true
}

/*
knownCells marks every cell selected by mask (anchored at x, y) as a
known mine or known safe. Safe cells are opened through the oracle to
learn their counts. Freshly known cells go on the cell todo list.
Returns an inconsistency error if a cell deduced safe turns out to be
mined, which means the knowledge this solve run started from was
self-contradictory.
*/
func (g Grid) knownCells(
	w int, std *celltodo, oracle Oracle,
	x, y int, mask Mask, mine bool,
) error {
	var bit Mask = 1
	for yy := range 3 {
		for xx := range 3 {
			if mask&bit != 0 {
				i := (y+yy)*w + (x + xx)

				/*
				 * The cell may be known already, in which case we
				 * must not queue it twice.
				 */
				if g[i] == Unknown {
					if mine {
						g[i] = Flagged /* and don't open it! */
					} else {
						g[i] = oracle.Open(x+xx, y+yy)
						if g[i] == Flagged {
							return inconsistentf(
								"cell %d:%d deduced safe but holds a mine",
								x+xx, y+yy,
							)
						}
					}
					std.add(i)
				}
			}
			bit <<= 1
		}
	}
	return nil
}
