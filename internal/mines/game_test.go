package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(width, height int, mines []bool) *GameState {
	playerGrid := make(Grid, len(mines))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}
	return &GameState{
		GameParams: GameParams{
			Width: width, Height: height,
			MineCount: countMines(mines),
		},
		Grid:       mines,
		PlayerGrid: playerGrid,
	}
}

func TestNewGame(t *testing.T) {
	params := &GameParams{Width: 9, Height: 9, MineCount: 10, Unique: true}
	state, err := NewGame(params, 4, 4, rand.New(rand.NewPCG(11, 12)))
	require.NoError(t, err)

	assert.Equal(t, 10, countMines(state.Grid))
	assert.False(t, state.Dead)
	assert.Equal(t, CellState(0), state.PlayerGrid[4*9+4])
}

func TestGameDescriptionRoundTrip(t *testing.T) {
	params := &GameParams{Width: 9, Height: 9, MineCount: 10, Unique: true}
	state, err := NewGame(params, 4, 4, rand.New(rand.NewPCG(21, 22)))
	require.NoError(t, err)

	shared, err := NewGameFromDescription(9, 9, state.Description())
	require.NoError(t, err)

	assert.Equal(t, state.Grid, shared.Grid)
	assert.Equal(t, 10, shared.MineCount)
	assert.Equal(t, 4, shared.StartX)
	assert.Equal(t, 4, shared.StartY)
	assert.Equal(t, CellState(0), shared.PlayerGrid[4*9+4])
}

func TestNewGameFromDescriptionRejectsMinedStart(t *testing.T) {
	grid := make([]bool, 16)
	grid[0] = true
	desc := DescribeLayout(grid, 0, 0, true)

	_, err := NewGameFromDescription(4, 4, desc)
	assert.Error(t, err)
}

func TestOpenCellFloodsZeroRegion(t *testing.T) {
	/*
	 * One mine in the far corner. Opening the opposite corner must
	 * flood the whole board, which leaves exactly as many covered
	 * cells as mines, so the game is immediately won.
	 */
	s := newTestState(4, 4, []bool{
		F, F, F, F,
		F, F, F, F,
		F, F, F, F,
		F, F, F, T,
	})

	require.Equal(t, 0, s.OpenCell(0, 0))

	assert.True(t, s.Won)
	assert.False(t, s.Dead)
	assert.Equal(t, Grid{
		0, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 1, 1,
		0, 0, 1, UnflaggedMine,
	}, s.PlayerGrid)
}

func TestOpenCellStopsAtNumbers(t *testing.T) {
	s := newTestState(4, 4, []bool{
		F, F, F, F,
		F, F, F, F,
		F, F, F, F,
		F, F, F, T,
	})

	/* Opening a numbered cell reveals just that cell. */
	require.Equal(t, 0, s.OpenCell(2, 3))

	assert.False(t, s.Won)
	assert.Equal(t, CellState(1), s.PlayerGrid[3*4+2])
	for i, c := range s.PlayerGrid {
		if i != 3*4+2 {
			assert.Equal(t, Unknown, c)
		}
	}
}

func TestOpenCellMineLosesGame(t *testing.T) {
	s := newTestState(2, 2, []bool{
		F, T,
		F, F,
	})

	require.Equal(t, -1, s.OpenCell(1, 0))

	assert.True(t, s.Dead)
	assert.False(t, s.Won)
	assert.Equal(t, ExplodedMine, s.PlayerGrid[1])
	/* Only the fatal mine is exposed. */
	assert.Equal(t, Unknown, s.PlayerGrid[0])
}

func TestFlagCellToggles(t *testing.T) {
	s := newTestState(2, 2, []bool{
		F, T,
		F, F,
	})

	s.FlagCell(1, 0)
	assert.Equal(t, Flagged, s.PlayerGrid[1])
	s.FlagCell(1, 0)
	assert.Equal(t, Unknown, s.PlayerGrid[1])

	/* Open cells cannot be flagged. */
	s.OpenCell(0, 0)
	s.FlagCell(0, 0)
	assert.Equal(t, CellState(1), s.PlayerGrid[0])
}

func TestChordCell(t *testing.T) {
	s := newTestState(2, 2, []bool{
		F, F,
		F, T,
	})
	require.Equal(t, 0, s.OpenCell(0, 0))
	require.Equal(t, CellState(1), s.PlayerGrid[0])

	/* Not enough flags yet: chording must be refused. */
	s.ChordCell(0, 0)
	assert.Equal(t, Unknown, s.PlayerGrid[1])

	s.FlagCell(1, 1)
	s.ChordCell(0, 0)

	assert.True(t, s.Won)
	assert.Equal(t, Grid{
		1, 1,
		1, Flagged,
	}, s.PlayerGrid)
}

func TestChordCellIntoMineDies(t *testing.T) {
	s := newTestState(2, 2, []bool{
		F, F,
		F, T,
	})
	require.Equal(t, 0, s.OpenCell(0, 0))

	/* A wrong flag makes chording open the real mine. */
	s.FlagCell(1, 0)
	s.ChordCell(0, 0)

	assert.True(t, s.Dead)
	assert.Equal(t, ExplodedMine, s.PlayerGrid[3])
}

func TestForfeitRevealsField(t *testing.T) {
	s := newTestState(3, 1, []bool{T, F, T})
	s.FlagCell(0, 0) /* right */
	s.FlagCell(1, 0) /* wrong */

	s.Forfeit()

	assert.True(t, s.Dead)
	assert.Equal(t, Grid{
		CorrectlyFlagged, FalselyFlagged, UnflaggedMine,
	}, s.PlayerGrid)
}

func TestRevealFillsNumbers(t *testing.T) {
	s := newTestState(3, 1, []bool{T, F, F})
	s.Reveal()

	assert.True(t, s.Dead)
	assert.Equal(t, Grid{UnflaggedMine, 1, 0}, s.PlayerGrid)
}
