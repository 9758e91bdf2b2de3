package mines

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"
)

/*
Candidate priority classes for perturbation, in preference order.
*/
type curiosity int

const (
	verySuspicious    curiosity = iota + 1 /* unknown, bordering known territory */
	mildlyInteresting                      /* unknown, in the interior */
	boring                                 /* already known; last resort */
)

// curiosity implements [fmt.Stringer]
func (c curiosity) String() string {
	switch c {
	case verySuspicious:
		return "S"
	case mildlyInteresting:
		return "I"
	default:
		return "B"
	}
}

/* Structure used internally to Perturb. */
type candidate struct {
	x, y     int
	priority curiosity
	random   int32
}

// candidate implements [fmt.Stringer]
func (c *candidate) String() string {
	return fmt.Sprintf("%d:%d(%s)", c.x, c.y, c.priority)
}

/*
Candidates sort by priority class, then by a random secondary key, so
that each class comes out independently shuffled.
*/
func candidateCmp(a, b *candidate) int {
	if a.priority != b.priority {
		return int(a.priority) - int(b.priority)
	}
	if a.random != b.random {
		if a.random < b.random {
			return -1
		}
		return 1
	}
	if a.y != b.y {
		return a.y - b.y
	}
	return a.x - b.x
}

type PerturbDelta int8

const (
	PlaceMine PerturbDelta = +1
	ClearMine PerturbDelta = -1
)

// PerturbDelta implements [fmt.Stringer]
func (d PerturbDelta) String() string {
	if d == PlaceMine {
		return "place mine"
	}
	return "clear mine"
}

/*
A PerturbChange records one ground-truth cell flip: Delta is +1 if the
cell became a mine and -1 if it was cleared. The deltas across any
single Perturb call always sum to zero, since perturbation must
conserve the total mine count.

The solver is (of course) expected to honourably not use this
knowledge directly, but to adjust its internal data structures and
proceed based on only the information it legitimately has.
*/
type PerturbChange struct {
	X, Y  int
	Delta PerturbDelta
}

// PerturbChange implements [fmt.Stringer]
func (p PerturbChange) String() string {
	return fmt.Sprintf("%s @ X:%d Y:%d", p.Delta, p.X, p.Y)
}

/*
Perturb mutates the hidden layout to unstick a stalled solve, and is
normally passed an (x, y, mask) set description to fill or empty. On
occasion there is no localised set to work on and the set being
perturbed is the entirety of the unreachable area; that is signified
by mask == 0, in which case anything still Unknown in the grid is part
of the set.

Whole-region perturbation appears to make it possible to generate a
workable grid for any mine density, but such grids tend to be a bit
boring, with mines packed densely into far corners. To improve
overall grid quality the generator disables it for the first attempts
and falls back to it when no useful grid has come out.

Panics with AssertionError if a change would break the ground rules
(total mine count or an already-revealed cell's number changing).
*/
func (ctx *mineCtx) Perturb(
	grid Grid, setX, setY int, mask Mask, r *rand.Rand,
) []PerturbChange {
	if mask == 0 && !ctx.allowBigPerturbs {
		return nil
	}

	/*
	 * Make a list of all the cells in the grid which we can
	 * possibly use. This list should be in preference order:
	 *
	 *  - first, unknown cells on the boundary of known space
	 *  - next, unknown cells beyond that boundary
	 *  - as a very last resort, known cells, but not within one
	 *    cell of the starting position.
	 *
	 * Each section needs to be shuffled independently: we sort the
	 * whole list with a random secondary key.
	 */
	candidates := make([]*candidate, 0, ctx.width*ctx.height)
	for y := range ctx.height {
		for x := range ctx.width {
			/*
			 * If this cell is too near the starting position, don't
			 * put it on the list at all.
			 */
			if absDiff(y, ctx.sy) <= 1 && absDiff(x, ctx.sx) <= 1 {
				continue
			}

			/*
			 * If this cell is in the input set, also don't put it
			 * on the list!
			 */
			if (mask == 0 && grid[y*ctx.width+x] == Unknown) ||
				(x >= setX && x < setX+3 &&
					y >= setY && y < setY+3 &&
					mask&(1<<((y-setY)*3+(x-setX))) != 0) {
				continue
			}

			c := &candidate{x: x, y: y, random: r.Int32()}

			if grid[y*ctx.width+x] != Unknown {
				c.priority = boring /* known cell */
			} else {
				/*
				 * Unknown cell. If it borders any known cell it's
				 * class 1, otherwise class 2.
				 */
				c.priority = mildlyInteresting
				for dy := -1; dy <= +1; dy++ {
					for dx := -1; dx <= +1; dx++ {
						if x+dx >= 0 && x+dx < ctx.width &&
							y+dy >= 0 && y+dy < ctx.height &&
							grid[(y+dy)*ctx.width+(x+dx)] != Unknown {
							c.priority = verySuspicious
							break
						}
					}
				}
			}

			candidates = append(candidates, c)
		}
	}

	slices.SortFunc(candidates, candidateCmp)

	inSet := func(visit func(x, y int)) {
		if mask != 0 {
			for dy := range 3 {
				for dx := range 3 {
					if mask&(1<<(dy*3+dx)) != 0 {
						if setX+dx >= ctx.width || setY+dy >= ctx.height {
							Log.WithFields(logrus.Fields{
								"dx": dx, "dy": dy, "ctx": ctx,
							}).Error("perturb set outside grid")
							panic(AssertionError{"perturb set outside grid"})
						}
						visit(setX+dx, setY+dy)
					}
				}
			}
		} else {
			for y := range ctx.height {
				for x := range ctx.width {
					if grid[y*ctx.width+x] == Unknown {
						visit(x, y)
					}
				}
			}
		}
	}

	/*
	 * Count up the number of full and empty cells in the set we've
	 * been provided.
	 */
	nfull, nempty := 0, 0
	inSet(func(x, y int) {
		if ctx.mineAt(x, y) {
			nfull++
		} else {
			nempty++
		}
	})

	/*
	 * Now go through our sorted list until we find either nfull
	 * empty cells or nempty full cells: those will be swapped with
	 * the cells in the set to either fill or empty it, whichever
	 * needs fewer swaps, while keeping the same number of mines
	 * overall.
	 */
	var toFill, toEmpty []*candidate
	for _, c := range candidates {
		if ctx.mineAt(c.x, c.y) {
			toEmpty = append(toEmpty, c)
		} else {
			toFill = append(toFill, c)
		}
		if len(toFill) == nfull || len(toEmpty) == nempty {
			break
		}
	}

	/*
	 * If we haven't found enough empty cells outside the set to
	 * empty it into _or_ enough full cells outside it to fill it up
	 * with, we'll have to settle for a partial job. In this case we
	 * always choose to _fill_ the set (this tends to come up at
	 * very high mine densities, where the only route to a solvable
	 * grid is packing most of the mines solidly around the edges):
	 * list the empty cells in the set and pick a random selection
	 * of them to receive the mines we can withdraw elsewhere.
	 */
	var setlist []int
	if len(toFill) != nfull && len(toEmpty) != nempty {
		if len(toEmpty) == 0 {
			Log.WithFields(logrus.Fields{
				"toFill": toFill, "ctx": ctx,
			}).Error("nothing to empty in a partial perturbation")
			panic(AssertionError{"nothing to empty in a partial perturbation"})
		}

		setlist = make([]int, 0, ctx.width*ctx.height)
		inSet(func(x, y int) {
			if !ctx.mineAt(x, y) {
				setlist = append(setlist, y*ctx.width+x)
			}
		})

		if len(setlist) <= len(toEmpty) {
			Log.WithFields(logrus.Fields{
				"setlist": setlist, "toEmpty": toEmpty,
			}).Error("partial perturbation cannot conserve mine count")
			panic(AssertionError{"partial perturbation cannot conserve mine count"})
		}

		/*
		 * Pick len(toEmpty) items at random from the list.
		 */
		for k := range toEmpty {
			index := k + r.IntN(len(setlist)-k)
			setlist[k], setlist[index] = setlist[index], setlist[k]
		}
	}

	/*
	 * Now we're pretty much there. We need to either
	 *
	 *  (a) put a mine in each of the empty cells in the set, and
	 *      take one out of each cell in toEmpty, or
	 *  (b) take a mine out of each of the full cells in the set,
	 *      and put one in each cell in toFill,
	 *
	 * depending on which we've found enough cells to do.
	 */
	var (
		todos []*candidate
		dTodo PerturbDelta
		dSet  PerturbDelta
	)
	if len(toFill) == nfull {
		todos = toFill
		dTodo = PlaceMine
		dSet = ClearMine
	} else {
		/*
		 * (We also fall into this case if we've constructed a
		 * setlist.)
		 */
		todos = toEmpty
		dTodo = ClearMine
		dSet = PlaceMine
	}

	changes := make([]PerturbChange, 0, 2*len(todos))
	for _, t := range todos {
		changes = append(changes, PerturbChange{t.x, t.y, dTodo})
	}

	if setlist != nil {
		for j := range todos {
			changes = append(changes, PerturbChange{
				X:     setlist[j] % ctx.width,
				Y:     setlist[j] / ctx.width,
				Delta: dSet,
			})
		}
	} else {
		inSet(func(x, y int) {
			currval := ClearMine
			if ctx.mineAt(x, y) {
				currval = PlaceMine
			}
			if dSet == -currval {
				changes = append(changes, PerturbChange{x, y, dSet})
			}
		})
	}

	if len(changes) != 2*len(todos) {
		Log.WithFields(logrus.Fields{
			"todos": todos, "changes": changes,
		}).Error("perturbation changes do not pair up")
		panic(AssertionError{"perturbation changes do not pair up"})
	}

	/*
	 * Having set up the precise list of changes we're going to
	 * make, we now simply make them and return.
	 */
	for _, c := range changes {
		x, y, delta := c.X, c.Y, c.Delta

		/*
		 * Check we're not trying to add an existing mine or remove
		 * an absent one.
		 */
		if (delta == PlaceMine) == ctx.mineAt(x, y) {
			Log.WithFields(logrus.Fields{
				"change": c, "mine": ctx.mineAt(x, y),
			}).Error("perturbation change already applied")
			panic(AssertionError{"perturbation change already applied"})
		}

		/*
		 * Actually make the change.
		 */
		ctx.grid[y*ctx.width+x] = delta == PlaceMine

		/*
		 * Update any numbers already present in the grid.
		 */
		for dy := -1; dy <= +1; dy++ {
			for dx := -1; dx <= +1; dx++ {
				if x+dx < 0 || x+dx >= ctx.width ||
					y+dy < 0 || y+dy >= ctx.height ||
					grid[(y+dy)*ctx.width+(x+dx)] == Unknown {
					continue
				}
				if dx == 0 && dy == 0 {
					/*
					 * The cell itself is marked as known in the
					 * grid. Mark it as a mine if it's a mine, or
					 * else recompute its number.
					 */
					if delta == PlaceMine {
						grid[y*ctx.width+x] = Flagged
					} else {
						var minecount CellState
						for dy2 := -1; dy2 <= +1; dy2++ {
							for dx2 := -1; dx2 <= +1; dx2++ {
								if x+dx2 >= 0 && x+dx2 < ctx.width &&
									y+dy2 >= 0 && y+dy2 < ctx.height &&
									ctx.mineAt(x+dx2, y+dy2) {
									minecount++
								}
							}
						}
						grid[y*ctx.width+x] = minecount
					}
				} else {
					if grid[(y+dy)*ctx.width+(x+dx)] >= 0 {
						grid[(y+dy)*ctx.width+(x+dx)] += CellState(delta)
					}
				}
			}
		}
	}

	return changes
}
