package main

import (
	"hash/maphash"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var (
	dec = schema.NewDecoder()

	/* rnd guards a single generator shared by all handlers. */
	rndMu sync.Mutex
	rnd   = rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(),
		new(maphash.Hash).Sum64(),
	))
)

func init() {
	dec.IgnoreUnknownKeys(true)
}

type NewGameParams struct {
	Width     int  `schema:"width,required"`
	Height    int  `schema:"height,required"`
	MineCount int  `schema:"mine_count,required"`
	Unique    bool `schema:"unique,required"`
}

type PosParams struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

type LayoutParams struct {
	Width  int    `schema:"width,required"`
	Height int    `schema:"height,required"`
	Layout string `schema:"layout,required"`
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("\"ok\""))
}

func handleNewGame(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var state *mines.GameState
	if query.Has("layout") {
		/*
		 * Recreating a shared puzzle: the layout encodes the mines
		 * and the starting click.
		 */
		var layoutParams LayoutParams
		if err := dec.Decode(&layoutParams, query); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var err error
		state, err = mines.NewGameFromDescription(
			layoutParams.Width, layoutParams.Height, layoutParams.Layout,
		)
		if err != nil {
			log.Debug("bad layout: ", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	} else {
		var (
			gameParams NewGameParams
			posParams  PosParams
		)
		if err := dec.Decode(&gameParams, query); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := dec.Decode(&posParams, query); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		params := mines.GameParams(gameParams)
		if params.MineCount < 1 ||
			!params.PointInBounds(posParams.X, posParams.Y) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		rndMu.Lock()
		game, err := mines.NewGame(&params, posParams.X, posParams.Y, rnd)
		rndMu.Unlock()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			log.Error(err)
			return
		}
		state = game
	}

	session := NewGameSession(state)
	sessions.Put(session)
	log.Debug("created session ", session.SessionId)
	if err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

func handleGetGame(w http.ResponseWriter, r *http.Request) {
	session, ok := sessions.Get(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

/*
handleMove serves the open/flag/chord endpoints, which differ only in
the move they apply.
*/
func handleMove(
	w http.ResponseWriter, r *http.Request,
	move func(state *mines.GameState, x, y int),
) {
	var posParams PosParams
	if err := dec.Decode(&posParams, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	session, ok := sessions.Get(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	/*
	 * Safe to read outside the session lock: Width and Height never
	 * change after the game is created.
	 */
	if !session.State.PointInBounds(posParams.X, posParams.Y) {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	session.update(func(state *mines.GameState) {
		if !state.Won && !state.Dead {
			move(state, posParams.X, posParams.Y)
		}
	})
	if err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

func handleOpen(w http.ResponseWriter, r *http.Request) {
	handleMove(w, r, func(state *mines.GameState, x, y int) {
		state.OpenCell(x, y)
	})
}

func handleFlag(w http.ResponseWriter, r *http.Request) {
	handleMove(w, r, func(state *mines.GameState, x, y int) {
		state.FlagCell(x, y)
	})
}

func handleChord(w http.ResponseWriter, r *http.Request) {
	handleMove(w, r, func(state *mines.GameState, x, y int) {
		state.ChordCell(x, y)
	})
}

func handleForfeit(w http.ResponseWriter, r *http.Request) {
	session, ok := sessions.Get(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	session.update(func(state *mines.GameState) {
		state.Forfeit()
	})
	if err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}

// Accepts newline-separated commands transferred via body of following syntax:
//
//	o x y // open a square at x:y
//	c x y // chord a square at x:y
//	f x y // flag a square at x:y
//
// Commands are interpreted in the order they are listed. If any command results
// in a game over, interpretation stops and game state is returned immediately.
// If any command is malformed, the response has a status of
// [http.StatusBadRequest] and a payload with the command's line number and an
// error message.
func handleBatch(w http.ResponseWriter, r *http.Request) {
	session, ok := sessions.Get(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		log.Error(err)
		return
	}
	lines := strings.TrimSpace(string(body))
	var (
		badLine int
		cmdErr  error
	)
	session.update(func(state *mines.GameState) {
		for i, c := range byPiece(lines, "\n") {
			if err := executeCommand(state, c); err != nil {
				badLine, cmdErr = i, err
				return
			}
			if state.Won || state.Dead {
				return
			}
		}
	})
	if cmdErr != nil {
		payload := struct {
			Loc     int    `json:"loc"`
			Message string `json:"message"`
		}{badLine, cmdErr.Error()}
		w.WriteHeader(http.StatusBadRequest)
		if err := sendJSON(w, payload); err != nil {
			log.Error(err)
		}
		return
	}
	if err := sendJSON(w, session); err != nil {
		log.Error(err)
	}
}
