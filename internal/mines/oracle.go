package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

/*
An Oracle is the solver's only window onto ground truth. Open reveals
a cell the solver has proved safe and returns its neighbour-mine
count (or Flagged if the proof was wrong, which Solve reports as
Impossible). Perturb may mutate the hidden layout to get the solver
out of a stall, returning the exact cell flips it performed, or nil to
decline; mask == 0 designates the whole currently-unknown region
rather than a 3x3 set.

Keeping both behind an interface keeps the solver pure: it can be run
against the real generator context or against synthetic oracles in
tests.
*/
type Oracle interface {
	Open(x, y int) CellState
	Perturb(grid Grid, x, y int, mask Mask, r *rand.Rand) []PerturbChange
}

/*
mineCtx is the generator's Oracle: it owns the candidate ground-truth
layout currently being tested for solvability.
*/
type mineCtx struct {
	grid          []bool
	width, height int
	sx, sy        int

	/*
	 * Whole-region perturbation makes any density solvable but
	 * tends to pack mines into far corners, so the generator only
	 * enables it after many failed attempts.
	 */
	allowBigPerturbs bool
}

func (ctx *mineCtx) mineAt(x, y int) bool {
	return ctx.grid[y*ctx.width+x]
}

func (ctx *mineCtx) Open(x, y int) CellState {
	if ctx.mineAt(x, y) {
		return Flagged /* *bang* */
	}
	n := 0
	for i := -1; i <= 1; i++ {
		if x+i < 0 || x+i >= ctx.width {
			continue
		}
		for j := -1; j <= 1; j++ {
			if y+j < 0 || y+j >= ctx.height {
				continue
			}
			if i == 0 && j == 0 {
				continue
			}
			if ctx.mineAt(x+i, y+j) {
				n++
			}
		}
	}
	return CellState(n)
}

// mineCtx implements [fmt.Stringer]
func (ctx *mineCtx) String() string {
	return fmt.Sprintf("%dx%d(%d:%d)", ctx.width, ctx.height, ctx.sx, ctx.sy)
}

func (ctx *mineCtx) printGrid() string {
	var b strings.Builder
	for y := range ctx.height {
		for x := range ctx.width {
			var ch string
			if x == ctx.sx && y == ctx.sy {
				ch = "S "
			} else if ctx.grid[y*ctx.width+x] {
				ch = "* "
			} else {
				ch = "- "
			}
			fmt.Fprint(&b, ch)
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}
