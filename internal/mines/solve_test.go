package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
staticOracle opens cells from a fixed layout and refuses to perturb,
so solver tests exercise pure deduction.
*/
type staticOracle struct {
	ctx mineCtx
}

func newStaticOracle(width, height int, mines []bool) *staticOracle {
	return &staticOracle{mineCtx{
		grid:  mines,
		width: width, height: height,
		sx: -10, sy: -10,
	}}
}

func (o *staticOracle) Open(x, y int) CellState {
	return o.ctx.Open(x, y)
}

func (o *staticOracle) Perturb(Grid, int, int, Mask, *rand.Rand) []PerturbChange {
	return nil
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

const (
	T = true
	F = false
	U = Unknown
	M = Flagged
)

func TestSolveTrivialSets(t *testing.T) {
	/*
	 * A lone central mine. Every border cell is open and shows 1, so
	 * eight one-cell sets all pin the centre down.
	 */
	oracle := newStaticOracle(3, 3, []bool{
		F, F, F,
		F, T, F,
		F, F, F,
	})
	grid := Grid{
		1, 1, 1,
		1, U, 1,
		1, 1, 1,
	}

	ret := Solve(3, 3, 1, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
	assert.Equal(t, Grid{
		1, 1, 1,
		1, M, 1,
		1, 1, 1,
	}, grid)
}

func TestSolveOverlapDifference(t *testing.T) {
	/*
	 * The bottom row is covered and holds mines in its left two
	 * cells; the two open cells above constrain overlapping triples
	 * of it. Neither set is a subset of the other, and neither is
	 * immediately clearable, but the difference in their mine counts
	 * equals the size of the left set's private wing. That pins down
	 * both wings at once, and the rest follows. The total mine count
	 * is withheld to prove no global reasoning is needed.
	 */
	oracle := newStaticOracle(4, 2, []bool{
		T, F, F, T,
		T, T, F, F,
	})
	grid := Grid{
		M, 3, 2, M,
		U, U, U, U,
	}

	ret := Solve(4, 2, -1, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
	assert.Equal(t, Grid{
		M, 3, 2, M,
		M, M, 2, 1,
	}, grid)
}

func TestSolveSubsetDerivation(t *testing.T) {
	/*
	 * The classic 1-2 pattern: the open row's end counts each cover
	 * a strict subset of a middle count's set, so splitting the
	 * larger sets resolves the covered row cell by cell.
	 */
	oracle := newStaticOracle(4, 2, []bool{
		F, F, F, F,
		F, T, T, F,
	})
	grid := Grid{
		1, 2, 2, 1,
		U, U, U, U,
	}

	ret := Solve(4, 2, -1, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
	assert.Equal(t, Grid{
		1, 2, 2, 1,
		1, M, M, 1,
	}, grid)
}

func TestSolveGlobalNoMinesLeft(t *testing.T) {
	/*
	 * Nothing is known except the total: zero mines. The global
	 * fast path must open the whole board.
	 */
	oracle := newStaticOracle(2, 2, []bool{F, F, F, F})
	grid := Grid{U, U, U, U}

	ret := Solve(2, 2, 0, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
	assert.Equal(t, Grid{0, 0, 0, 0}, grid)
}

func TestSolveGlobalAllMinesLeft(t *testing.T) {
	oracle := newStaticOracle(2, 2, []bool{T, T, T, T})
	grid := Grid{U, U, U, U}

	ret := Solve(2, 2, 4, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
	assert.Equal(t, Grid{M, M, M, M}, grid)
}

func TestSolveGlobalDisjointUnion(t *testing.T) {
	/*
	 * A 5x1 strip with one open cell: its set {a, c} soaks up the
	 * whole mine budget, so every covered cell outside the set has
	 * to be clear. Local deduction alone cannot see this.
	 */
	oracle := newStaticOracle(5, 1, []bool{F, F, T, F, F})
	grid := Grid{U, 1, U, U, U}

	ret := Solve(5, 1, 1, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
	assert.Equal(t, Grid{0, 1, M, 1, 0}, grid)
}

func TestResultLargePerturbCounts(t *testing.T) {
	/*
	 * Heavy generation runs can need hundreds of perturbations; the
	 * count must survive without wrapping into the failure range.
	 */
	ret := Result(200)
	assert.Greater(t, ret, Solved)
	assert.Equal(t, "200 perturbs", ret.String())
}

func TestSolveStallsWithoutTotal(t *testing.T) {
	/*
	 * Same strip, but with the total withheld there is genuinely
	 * no deduction to make and the oracle declines to perturb.
	 */
	oracle := newStaticOracle(5, 1, []bool{F, F, T, F, F})
	grid := Grid{U, 1, U, U, U}

	ret := Solve(5, 1, -1, grid, oracle, testRand())

	assert.Equal(t, Stalled, ret)
}

func TestSolveAlreadyComplete(t *testing.T) {
	/*
	 * Solving a fully solved grid must succeed immediately and
	 * report that no perturbation took place.
	 */
	oracle := newStaticOracle(3, 3, []bool{
		F, F, F,
		F, T, F,
		F, F, F,
	})
	grid := Grid{
		1, 1, 1,
		1, M, 1,
		1, 1, 1,
	}

	ret := Solve(3, 3, 1, grid, oracle, testRand())

	assert.Equal(t, Solved, ret)
}

func TestSolveImpossibleConflictingCounts(t *testing.T) {
	/*
	 * Two open cells disagree about the lone covered cell between
	 * them. No layout satisfies both.
	 */
	oracle := newStaticOracle(3, 1, []bool{F, F, F})
	grid := Grid{0, U, 1}

	ret := Solve(3, 1, -1, grid, oracle, testRand())

	assert.Equal(t, Impossible, ret)
}

func TestSolveImpossibleDeducedSafeCellIsMined(t *testing.T) {
	/*
	 * The open cell claims no neighbouring mines, but its covered
	 * neighbour is mined. The hand-entered knowledge was a lie.
	 */
	oracle := newStaticOracle(2, 1, []bool{F, T})
	grid := Grid{0, U}

	ret := Solve(2, 1, -1, grid, oracle, testRand())

	assert.Equal(t, Impossible, ret)
}

func TestSolveImpossibleTotalTooSmall(t *testing.T) {
	/*
	 * Deduction flags one mine but the stated total is zero.
	 */
	oracle := newStaticOracle(2, 1, []bool{F, T})
	grid := Grid{1, U}

	ret := Solve(2, 1, 0, grid, oracle, testRand())

	assert.Equal(t, Impossible, ret)
}

func TestSolvePerturbsWhenStuck(t *testing.T) {
	/*
	 * A board deduction provably cannot finish: one mine in the
	 * bottom corner pair of a two-cell-wide strip, with nothing to
	 * tell the two apart. The real generator oracle is allowed to
	 * move mines around, and the solver must then finish, reporting
	 * how many nudges it needed.
	 */
	mines := []bool{
		F, F,
		F, F,
		F, F,
		F, F,
		T, F,
	}
	ctx := &mineCtx{grid: mines, width: 2, height: 5, sx: 0, sy: 0}
	grid := make(Grid, len(mines))
	for i := range grid {
		grid[i] = Unknown
	}
	grid[0] = ctx.Open(0, 0)
	require.Equal(t, CellState(0), grid[0])

	ret := Solve(2, 5, 1, grid, ctx, testRand())

	assert.Greater(t, ret, Solved)
	for i, c := range grid {
		if c == Flagged {
			assert.True(t, mines[i], "flag over an empty cell at %d", i)
		} else {
			require.GreaterOrEqual(t, c, CellState(0))
			assert.False(t, mines[i], "open cell over a mine at %d", i)
		}
	}
}
