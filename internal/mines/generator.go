package mines

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"
)

/* ----------------------------------------------------------------------
 * Grid generator which uses the solver above to guarantee the
 * published layout can be cleared by deduction alone.
 */

type GameParams struct {
	Width, Height, MineCount int
	Unique                   bool
}

func (p GameParams) Seed() string {
	u := 0
	if p.Unique {
		u = 1
	}
	return fmt.Sprintf("%d:%d:%d:%d", p.Width, p.Height, p.MineCount, u)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	u := 0
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(
		sseed, "%d %d %d %d", &p.Width, &p.Height, &p.MineCount, &u,
	)
	if n != 4 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	p.Unique = u == 1
	return p, nil
}

func (p GameParams) PointInBounds(x, y int) bool {
	return 0 <= x && x < p.Width && 0 <= y && y < p.Height
}

/*
After this many failed candidate layouts, generation falls back to
allowing whole-region perturbations (see mineCtx.allowBigPerturbs).
*/
const bigPerturbsAfter = 100

/*
stoppedConverging reports whether a candidate layout should be
scrapped after a solver pass. Each pass must strictly reduce the
number of perturbations needed; a pass that fails outright, or that
plateaus at the previous pass's count, means the candidate is not
getting any closer to uniquely solvable.
*/
func stoppedConverging(prev, ret Result) bool {
	return ret < 0 || (prev >= 0 && ret >= prev)
}

/*
Generate produces a ground-truth layout of p.MineCount mines, none of
which is at (startX, startY) or within one cell of it. If p.Unique is
set, the layout is additionally guaranteed to be clearable by pure
deduction from a first click at (startX, startY): each candidate is
run through the solver, perturbed while that helps, and thrown away
(restarting from a fresh candidate) when solving stops converging.

The supplied RNG fully determines the outcome: identical parameters
and an identically seeded generator reproduce the same layout.
*/
func (p GameParams) Generate(startX, startY int, r *rand.Rand) ([]bool, error) {
	var grid []bool

	attempt := 0
	success := false
	for !success {
		attempt++

		grid = make([]bool, p.Width*p.Height)

		/*
		 * Start by placing MineCount mines, none of which is at
		 * (startX, startY) or within one cell of it.
		 */
		candidates := make([]int, 0, p.Width*p.Height)
		for y := range p.Height {
			for x := range p.Width {
				if absDiff(startY, y) > 1 || absDiff(startX, x) > 1 {
					candidates = append(candidates, y*p.Width+x)
				}
			}
		}
		if p.MineCount > len(candidates) {
			return nil, fmt.Errorf(
				"%d mines cannot fit into a %dx%d field around %d:%d",
				p.MineCount, p.Width, p.Height, startX, startY,
			)
		}

		/*
		 * Now pick MineCount cells off the list at random.
		 */
		k := len(candidates)
		for range p.MineCount {
			i := r.IntN(k)
			grid[candidates[i]] = true
			k--
			candidates[i] = candidates[k]
		}

		if !p.Unique {
			success = true
			break
		}

		/*
		 * Set up a knowledge grid to run the solver in, and a
		 * context through which it can open cells. Then run the
		 * solver repeatedly; if the number of perturb steps ever
		 * fails to decrease, or the solver ever stalls outright,
		 * give up on this candidate completely.
		 */
		ctx := &mineCtx{
			grid:  grid,
			width: p.Width, height: p.Height,
			sx: startX, sy: startY,
			allowBigPerturbs: attempt > bigPerturbsAfter,
		}
		prevRet := NA

		for {
			solveGrid := make(Grid, p.Width*p.Height)
			for i := range solveGrid {
				solveGrid[i] = Unknown
			}

			solveGrid[startY*p.Width+startX] = ctx.Open(startX, startY)
			if solveGrid[startY*p.Width+startX] != 0 {
				Log.WithFields(logrus.Fields{
					"ctx": ctx, "grid": ctx.printGrid(),
				}).Error("mine placed next to the starting cell")
				panic(AssertionError{"mine placed next to the starting cell"})
			}

			ret := Solve(p.Width, p.Height, p.MineCount, solveGrid, ctx, r)
			if stoppedConverging(prevRet, ret) {
				success = false
				break
			} else if ret == Solved {
				success = true
				break
			}
			prevRet = ret
		}
	}

	return grid, nil
}
