package mines

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

/*
GameState is a single game in progress: the hidden layout plus the
player's knowledge of it. PlayerGrid starts all Unknown except the
opening click, which is guaranteed safe (and, for Unique games,
guaranteed to start a layout clearable without guessing).
*/
type GameState struct {
	GameParams
	StartX, StartY int
	Dead, Won      bool
	Grid           []bool /* ground truth mine layout */
	PlayerGrid     Grid   /* player knowledge */
}

func NewGame(params *GameParams, x, y int, r *rand.Rand) (state *GameState, err error) {
	defer func() {
		if r := recover(); r != nil {
			var ae AssertionError
			if e, ok := r.(error); ok && errors.As(e, &ae) {
				state, err = nil, ae
				return
			}
			panic(r)
		}
	}()

	grid, err := params.Generate(x, y, r)
	if err != nil {
		return nil, err
	}
	playerGrid := make(Grid, len(grid))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}
	state = &GameState{
		GameParams: *params,
		StartX:     x,
		StartY:     y,
		Grid:       grid,
		PlayerGrid: playerGrid,
	}
	if state.OpenCell(x, y) != 0 {
		return nil, AssertionError{"mine in starting cell"}
	}
	return state, nil
}

/*
NewGameFromDescription reconstructs a game from a shared layout
description (see DescribeLayout) and opens its starting cell. Unlike
NewGame there is no uniqueness promise: the layout is taken exactly
as described, as long as its starting cell is not mined.
*/
func NewGameFromDescription(width, height int, desc string) (*GameState, error) {
	grid, x, y, err := ParseLayout(desc, width, height)
	if err != nil {
		return nil, err
	}
	mineCount := 0
	for _, mine := range grid {
		if mine {
			mineCount++
		}
	}
	playerGrid := make(Grid, len(grid))
	for i := range playerGrid {
		playerGrid[i] = Unknown
	}
	state := &GameState{
		GameParams: GameParams{
			Width: width, Height: height,
			MineCount: mineCount,
		},
		StartX:     x,
		StartY:     y,
		Grid:       grid,
		PlayerGrid: playerGrid,
	}
	if state.OpenCell(x, y) != 0 {
		return nil, fmt.Errorf("layout %q starts on a mine", desc)
	}
	return state, nil
}

/*
Description is the inverse of NewGameFromDescription. The layout is
masked, so sharing the identifier does not give the mines away.
*/
func (s *GameState) Description() string {
	return DescribeLayout(s.Grid, s.StartX, s.StartY, true)
}

/*
OpenCell opens a cell for the player. Returns -1 if the cell was a
mine (the game is then lost), 0 otherwise. Opening a cell with no
neighbouring mines flood-opens its whole zero region, as the player
could do by hand with no risk.
*/
func (s *GameState) OpenCell(x, y int) int {
	i := y*s.Width + x
	if s.Grid[i] {
		/*
		 * The player has landed on a mine. Bad luck. Expose the
		 * mine that killed them, but not the rest (in case they
		 * want to Undo and carry on playing).
		 */
		s.Dead = true
		s.PlayerGrid[i] = ExplodedMine
		return -1
	}

	/*
	 * Otherwise, the player has opened a safe cell. Mark it
	 * to-do, then keep opening to-do cells, adding the unopened
	 * neighbours of any zero cell to the list as we go.
	 */
	s.PlayerGrid[i] = todoCell

	queue := []int{i}
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]
		if s.PlayerGrid[j] != todoCell {
			continue
		}

		xx, yy := j%s.Width, j/s.Width
		v := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := xx+dx, yy+dy
				if nx >= 0 && nx < s.Width &&
					ny >= 0 && ny < s.Height &&
					s.Grid[ny*s.Width+nx] {
					v++
				}
			}
		}
		s.PlayerGrid[j] = CellState(v)

		if v == 0 {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := xx+dx, yy+dy
					if nx >= 0 && nx < s.Width &&
						ny >= 0 && ny < s.Height &&
						s.PlayerGrid[ny*s.Width+nx] == Unknown {
						s.PlayerGrid[ny*s.Width+nx] = todoCell
						queue = append(queue, ny*s.Width+nx)
					}
				}
			}
		}
	}

	/* If the player has already lost, don't let them win as well. */
	if s.Dead {
		return 0
	}

	/*
	 * Finally, scan the grid and see if exactly as many cells are
	 * still covered as there are mines. If so, the game is won:
	 * fill in mine markers on all covered cells.
	 */
	var nmines, ncovered int
	for j := range s.PlayerGrid {
		if s.PlayerGrid[j] < 0 {
			ncovered++
		}
		if s.Grid[j] {
			nmines++
		}
	}

	if ncovered == nmines {
		for j := range s.PlayerGrid {
			if s.PlayerGrid[j] == Unknown {
				s.PlayerGrid[j] = UnflaggedMine
			}
		}
		s.Won = true
	}

	return 0
}

func (s *GameState) FlagCell(x, y int) {
	i := y*s.Width + x
	if s.PlayerGrid[i] == Unknown {
		s.PlayerGrid[i] = Flagged
	} else if s.PlayerGrid[i] == Flagged {
		s.PlayerGrid[i] = Unknown
	}
}

/*
ChordCell opens every unflagged neighbour of an open cell whose flag
count already matches its number.
*/
func (s *GameState) ChordCell(x, y int) {
	i := y*s.Width + x
	if !(0 <= s.PlayerGrid[i] && s.PlayerGrid[i] <= 8) {
		return
	}
	c := int(s.PlayerGrid[i])
	js := make([]int, 0, 8)
	m := 0
	for dy := -1; dy <= +1; dy++ {
		for dx := -1; dx <= +1; dx++ {
			if 0 <= x+dx && x+dx < s.Width &&
				0 <= y+dy && y+dy < s.Height &&
				(dx != 0 || dy != 0) {
				j := (y+dy)*s.Width + (x + dx)
				if s.PlayerGrid[j] == Flagged {
					m++
				} else if s.PlayerGrid[j] == Unknown {
					js = append(js, j)
				}
			}
		}
	}
	if c != m {
		return
	}
	for _, j := range js {
		s.OpenCell(j%s.Width, j/s.Width)
		if s.Dead || s.Won {
			return
		}
	}
}

/*
Forfeit ends the game as a loss and reveals the field.
*/
func (s *GameState) Forfeit() {
	if !(s.Dead || s.Won) {
		s.Dead = true
	}
	s.Reveal()
}

/*
Reveal fills the player grid in with the post-game-over markers:
correct and incorrect flags, and unflagged mines. Safe covered cells
get their numbers.
*/
func (s *GameState) Reveal() {
	if !(s.Dead || s.Won) {
		s.Dead = true
	}
	for i := range s.Grid {
		switch {
		case s.PlayerGrid[i] == Flagged:
			if s.Grid[i] {
				s.PlayerGrid[i] = CorrectlyFlagged
			} else {
				s.PlayerGrid[i] = FalselyFlagged
			}
		case s.PlayerGrid[i] == Unknown || s.PlayerGrid[i] == Question:
			if s.Grid[i] {
				s.PlayerGrid[i] = UnflaggedMine
			} else {
				c := CellState(0)
				x, y := i%s.Width, i/s.Width
				for dy := -1; dy <= +1; dy++ {
					for dx := -1; dx <= +1; dx++ {
						nx, ny := x+dx, y+dy
						if nx >= 0 && nx < s.Width &&
							ny >= 0 && ny < s.Height &&
							(dx != 0 || dy != 0) &&
							s.Grid[ny*s.Width+nx] {
							c++
						}
					}
				}
				s.PlayerGrid[i] = c
			}
		}
	}
}
