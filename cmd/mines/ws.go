package main

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		log.Debug("\tws origin: ", r.Host)
		return true
	},
}

/*
handleConnectWs serves a move stream over a websocket: each text
message is a newline-separated command batch (see executeCommand),
answered with the session state.
*/
func handleConnectWs(w http.ResponseWriter, r *http.Request) {
	session, ok := sessions.Get(r.PathValue("id"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade: ", err)
		return
	}
	defer c.Close()
	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Warn("read: ", err)
			}
			break
		}
		if mt != websocket.TextMessage {
			break
		}
		text := strings.TrimSpace(string(message))
		log.Debug("\t> ", text)
		var cmdErr error
		session.update(func(state *mines.GameState) {
			for _, piece := range byPiece(text, "\n") {
				if cmdErr = executeCommand(state, piece); cmdErr != nil {
					return
				}
				if state.Won || state.Dead {
					return
				}
			}
		})
		if cmdErr != nil {
			log.Error("command: ", cmdErr)
			return
		}
		if err := c.WriteJSON(session); err != nil {
			log.Error("write: ", err)
			break
		}
		log.Debug("\t< <session data>")
	}
}
