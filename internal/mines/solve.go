package mines

import (
	"math/rand/v2"
	"strconv"
)

/* ----------------------------------------------------------------------
 * Minesweeper solver, used to ensure the generated grids are
 * solvable without having to take risks.
 */

type Result int

const (
	Impossible Result = iota - 3
	NA
	Stalled
	Solved
	/* values >0 mean the given number of perturbations was required */
)

// Result implements [fmt.Stringer]
func (r Result) String() string {
	switch r {
	case Impossible:
		return "impossible"
	case NA:
		return "NA"
	case Stalled:
		return "stalled"
	case Solved:
		return "solved"
	default:
		return strconv.Itoa(int(r)) + " perturbs"
	}
}

/*
Cap on the number of constraint sets the global-deduction search will
enumerate disjoint unions over. 2^n subsets gets painful quickly; past
this many sets the solver just skips global deduction for the
iteration. A pragmatic tradeoff between completeness and runtime
inherited from the original algorithm.
*/
const maxGlobalSets = 10

/*
Solve is the main solver entry point. You give it a grid of existing
knowledge (Flagged for a cell known to be a mine, 0-8 for open cells
with a neighbour count, Unknown for the rest) plus an oracle through
which it opens cells once it is sure of them. It fills in as much more
of the grid as it can without ever guessing.

n is the total mine count; pass n < 0 if unknown, which disables
global deduction.

Return value:

  - Impossible: the given knowledge is self-contradictory
  - Stalled: deduction stalled with unknown cells remaining
  - Solved: every cell was deduced, no perturbation needed
  - > 0: every cell was deduced after that many perturbations
*/
func Solve(
	w, h, n int,
	grid Grid,
	oracle Oracle,
	r *rand.Rand,
) Result {
	ss := newSetStore()
	nperturbs := 0

	/*
	 * Set up a list of cells with known contents, so that we can
	 * process them one by one.
	 */
	std := newCelltodo(w * h)

	/*
	 * Initialise that list with all known cells in the input grid.
	 */
	for y := range h {
		for x := range w {
			i := y*w + x
			if grid[i] != Unknown {
				std.add(i)
			}
		}
	}

	/*
	 * Main deductive loop.
	 */
	for {
		doneSomething := false

		/*
		 * If there are any known cells on the todo list, process
		 * them and construct a set for each.
		 */
		for {
			i, ok := std.pop()
			if !ok {
				break
			}
			x, y := i%w, i/w

			if mines := grid[i]; mines >= 0 {
				/*
				 * Empty cell. Construct the set of non-known cells
				 * around this one, and determine its mine count.
				 */
				var (
					bit Mask = 1
					val Mask = 0
				)
				for dy := -1; dy <= +1; dy++ {
					for dx := -1; dx <= +1; dx++ {
						if x+dx < 0 || x+dx >= w || y+dy < 0 || y+dy >= h {
							/* ignore this one */
						} else if grid[i+dy*w+dx] == Flagged {
							mines--
						} else if grid[i+dy*w+dx] == Unknown {
							val |= bit
						}
						bit <<= 1
					}
				}
				if val != 0 {
					if err := ss.add(x-1, y-1, val, int(mines)); err != nil {
						return Impossible
					}
				}
			}

			/*
			 * Now, whether the cell is empty or full, we must find
			 * any set which contains it and replace it with one
			 * which does not.
			 */
			for _, s := range ss.overlap(x, y, 1) {
				/*
				 * Compute the mask for this set minus the newly
				 * known cell, and the new mine count.
				 */
				newmask := setMunge(s.x, s.y, s.mask, x, y, 1, true)
				newmines := s.mines
				if grid[i] == Flagged {
					newmines--
				}

				/*
				 * Insert the new set into the collection, unless
				 * it's been whittled right down to nothing.
				 */
				if newmask != 0 {
					if err := ss.add(s.x, s.y, newmask, newmines); err != nil {
						return Impossible
					}
				}

				/*
				 * Destroy the old one; it is actually obsolete.
				 */
				ss.remove(s)
			}

			/*
			 * Marking a fresh cell as known certainly counts as
			 * doing something.
			 */
			doneSomething = true
		}

		/*
		 * Now pick a set off the to-do list and attempt deductions
		 * based on it.
		 */
		if s := ss.popTodo(); s != nil {
			/*
			 * Firstly, see if this set has a mine count of zero or
			 * of its own cardinality.
			 */
			if s.mines == 0 || s.mines == s.mask.bitCount() {
				/*
				 * If so, we can immediately mark all the cells in
				 * the set as known. Having done that, we need do
				 * nothing further with the set itself: eliminating
				 * its members will eventually eliminate it.
				 */
				err := grid.knownCells(w, std, oracle, s.x, s.y, s.mask, s.mines != 0)
				if err != nil {
					return Impossible
				}
				continue
			}

			/*
			 * Failing that, we now search through all the sets
			 * which overlap this one.
			 */
			for _, s2 := range ss.overlap(s.x, s.y, s.mask) {
				/*
				 * Find the non-overlapping parts s2-s and s-s2,
				 * and their cardinalities. I'm going to refer to
				 * these parts as `wings' surrounding the central
				 * part common to both sets. The `s wing' is s-s2;
				 * the `s2 wing' is s2-s.
				 */
				swing := setMunge(s.x, s.y, s.mask, s2.x, s2.y, s2.mask, true)
				s2wing := setMunge(s2.x, s2.y, s2.mask, s.x, s.y, s.mask, true)
				swc := swing.bitCount()
				s2wc := s2wing.bitCount()

				/*
				 * If one set has more mines than the other, and
				 * the number of extra mines is equal to the
				 * cardinality of that set's wing, then we can mark
				 * every cell in the wing as a known mine, and
				 * every cell in the other wing as known clear.
				 */
				if swc == s.mines-s2.mines || s2wc == s2.mines-s.mines {
					if err := grid.knownCells(w, std, oracle,
						s.x, s.y, swing,
						swc == s.mines-s2.mines); err != nil {
						return Impossible
					}
					if err := grid.knownCells(w, std, oracle,
						s2.x, s2.y, s2wing,
						s2wc == s2.mines-s.mines); err != nil {
						return Impossible
					}
					continue
				}

				/*
				 * Failing that, see if one set is a subset of the
				 * other. If so, we can divide up the mine count of
				 * the larger set between the smaller set and its
				 * complement, even if neither smaller set ends up
				 * being immediately clearable.
				 */
				if swc == 0 && s2wc != 0 {
					/* s is a subset of s2. */
					if err := ss.add(s2.x, s2.y, s2wing, s2.mines-s.mines); err != nil {
						return Impossible
					}
				} else if s2wc == 0 && swc != 0 {
					/* s2 is a subset of s. */
					if err := ss.add(s.x, s.y, swing, s.mines-s2.mines); err != nil {
						return Impossible
					}
				}
			}

			/*
			 * In this situation we have definitely done
			 * _something_, even if it's only reducing the size of
			 * our to-do list.
			 */
			doneSomething = true
		} else if n >= 0 {
			/*
			 * We have nothing left on our todo list, which means
			 * all localised deductions have failed. Our next step
			 * is to resort to global deduction based on the total
			 * mine count. This is computationally expensive
			 * compared to any of the above deductions, so we only
			 * do it when all else fails.
			 */
			switch done, res := globalDeduce(w, h, n, grid, std, oracle, ss); {
			case res != nil:
				return *res
			case done == solvedAll:
				return finish(w, h, grid, nperturbs)
			case done == deducedSomething:
				doneSomething = true
			}
		}

		if doneSomething {
			continue
		}

		/*
		 * When the total mine count is unknown the loop above never
		 * checks for completion, so check here before concluding we
		 * are stuck.
		 */
		if res := finish(w, h, grid, nperturbs); res != Stalled {
			return res
		}

		/*
		 * Now we really are at our wits' end as far as solving
		 * this grid goes. Our only remaining option is to call
		 * the perturb function and ask it to modify the grid to
		 * make it easier.
		 */
		nperturbs++
		var changes []PerturbChange

		/*
		 * Choose a set at random from the current selection, and
		 * ask the perturb function to either fill or empty it.
		 *
		 * If we have no sets at all, we pass the whole-region
		 * sentinel.
		 */
		if c := ss.sets.Count(); c == 0 {
			changes = oracle.Perturb(grid, 0, 0, 0, r)
		} else {
			s := ss.sets.Index(r.IntN(c))
			changes = oracle.Perturb(grid, s.x, s.y, s.mask, r)
		}

		if len(changes) == 0 {
			/*
			 * Even that didn't work (either we have no perturb
			 * function or it returned failure), so we give up
			 * entirely.
			 */
			break
		}

		/*
		 * A number of cells have been fiddled with, and the
		 * returned structure tells us which. Adjust the mine count
		 * in any set which overlaps a changed cell, and put those
		 * sets back on the to-do list. Also, if the cell itself is
		 * marked as a known non-mine, put it back on the
		 * cells-to-do list.
		 */
		for _, c := range changes {
			if c.Delta < 0 && grid[c.Y*w+c.X] != Unknown {
				std.add(c.Y*w + c.X)
			}

			for _, s := range ss.overlap(c.X, c.Y, 1) {
				s.mines += int(c.Delta)
				ss.pushTodo(s)
			}
		}

		/*
		 * And now we can go back round the deductive loop.
		 */
	}

	return finish(w, h, grid, nperturbs)
}

type deduceOutcome int8

const (
	deducedNothing deduceOutcome = iota
	deducedSomething
	solvedAll
)

/*
globalDeduce performs the total-mine-count deduction: it looks for a
disjoint union of existing constraint sets whose complement (the
unknown cells outside the union) must be uniformly mines or uniformly
safe. Returns solvedAll when no unknown cells remain at all, and a
non-nil Result to abort the whole solve (Impossible).
*/
func globalDeduce(
	w, h, n int,
	grid Grid,
	std *celltodo,
	oracle Oracle,
	ss *setstore,
) (deduceOutcome, *Result) {
	abort := func(r Result) (deduceOutcome, *Result) { return deducedNothing, &r }

	/*
	 * Start by scanning the current grid state to work out how many
	 * unknown cells we still have, and how many mines are to be
	 * placed in them.
	 */
	squaresleft := 0
	minesleft := n
	for _, c := range grid {
		if c == Flagged {
			minesleft--
		} else if c == Unknown {
			squaresleft++
		}
	}

	/*
	 * If there _are_ no unknown cells, we have actually finished.
	 */
	if squaresleft == 0 {
		if minesleft != 0 {
			return abort(Impossible) /* miscounted total can't be fixed */
		}
		return solvedAll, nil
	}

	if minesleft < 0 || minesleft > squaresleft {
		/*
		 * More deduced mines than the stated total, or too few
		 * cells left to hold the remainder. Only contradictory
		 * input gets here.
		 */
		return abort(Impossible)
	}

	/*
	 * First really simple case: if there are no more mines left, or
	 * if there are exactly as many mines left as cells to play them
	 * in, then it's all easy.
	 */
	if minesleft == 0 || minesleft == squaresleft {
		for i, c := range grid {
			if c == Unknown {
				err := grid.knownCells(w, std, oracle,
					i%w, i/w, 1, minesleft != 0)
				if err != nil {
					return abort(Impossible)
				}
			}
		}
		return deducedSomething, nil
	}

	/*
	 * Failing that, we have to do some _real_ work: try every
	 * combination of the currently available sets looking for a
	 * disjoint union (i.e. a set of cells with a known mine count
	 * between them) such that the remaining unknown cells _not_
	 * contained in that union either contain no mines or are all
	 * mines.
	 *
	 * Enumerating all 2^n possibilities gets slow for large n, so
	 * the recursion is capped at maxGlobalSets.
	 */
	nsets := ss.sets.Count()
	if nsets > maxGlobalSets {
		return deducedNothing, nil
	}

	sets := make([]*cset, nsets)
	for i := range sets {
		sets[i] = ss.sets.Index(i)
	}

	/*
	 * Real recursion would mean passing a pile of loop state down
	 * through every call, so this is a virtual recursion instead:
	 *
	 *  - setused[i] is true if set i is currently in the union
	 *    under consideration.
	 *
	 *  - cursor is how much of setused has been filled in so far;
	 *    conceptually the recursion depth.
	 *
	 * While the cursor can advance, it advances by one, setting the
	 * entry it passed to true if that set is disjoint from
	 * everything currently in the union, else to false. When the
	 * cursor hits the end we have a maximal disjoint union: check
	 * whether its mine count forces the complement either way. If
	 * not, backtrack: find the last true entry, reset it to false,
	 * and advance the cursor just past it. Backtracking past the
	 * start means every disjoint union has been tried and none
	 * helped.
	 */
	setused := make([]bool, nsets)
	cursor := 0
	for {
		if cursor < nsets {
			ok := true

			/* See if any existing set overlaps this one. */
			for i := range cursor {
				if setused[i] && setMunge(
					sets[cursor].x, sets[cursor].y, sets[cursor].mask,
					sets[i].x, sets[i].y, sets[i].mask,
					false,
				) != 0 {
					ok = false
					break
				}
			}

			if ok {
				/*
				 * We're adding this set to our union, so adjust
				 * minesleft and squaresleft appropriately.
				 */
				minesleft -= sets[cursor].mines
				squaresleft -= sets[cursor].mask.bitCount()
			}
			setused[cursor] = ok
			cursor++
			continue
		}

		/*
		 * We've reached the end. See if we've got anything
		 * interesting.
		 */
		if squaresleft > 0 &&
			(minesleft == 0 || minesleft == squaresleft) {
			/*
			 * We have! There is at least one cell not contained
			 * within the union we've just found, and all such
			 * cells are either mines or not (depending on whether
			 * minesleft is zero). Go through the grid, find them,
			 * and mark them.
			 */
			for i, c := range grid {
				if c != Unknown {
					continue
				}
				x, y := i%w, i/w
				outside := true
				for j := range nsets {
					if setused[j] && setMunge(
						sets[j].x, sets[j].y, sets[j].mask,
						x, y, 1, false,
					) != 0 {
						outside = false
						break
					}
				}
				if outside {
					err := grid.knownCells(w, std, oracle,
						x, y, 1, minesleft != 0)
					if err != nil {
						return abort(Impossible)
					}
				}
			}
			return deducedSomething, nil
		}

		/*
		 * This union hasn't done us any good, so move on to the
		 * next. Backtrack the cursor to the nearest true entry,
		 * flip it to false and continue.
		 */
		cursor--
		for cursor >= 0 && !setused[cursor] {
			cursor--
		}
		if cursor < 0 {
			/*
			 * Backtracked all the way to the start: the virtual
			 * recursion is complete and nothing helped.
			 */
			return deducedNothing, nil
		}

		/*
		 * We're removing this set from our union, so re-increment
		 * minesleft and squaresleft.
		 */
		minesleft += sets[cursor].mines
		squaresleft += sets[cursor].mask.bitCount()
		setused[cursor] = false
		cursor++
	}
}

/*
finish checks whether any unknown cells remain and converts the
perturbation count into the solver's result.
*/
func finish(w, h int, grid Grid, nperturbs int) Result {
	for i := range w * h {
		if grid[i] == Unknown {
			return Stalled /* failed to complete */
		}
	}
	return Result(nperturbs)
}
