package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type GameSession struct {
	SessionId string
	State     *mines.GameState
	StartedAt time.Time
	EndedAt   time.Time

	mu sync.Mutex
}

func NewGameSession(state *mines.GameState) *GameSession {
	u := [16]byte(uuid.New())
	sessionId := base64.RawURLEncoding.EncodeToString(u[:])
	return &GameSession{
		SessionId: sessionId,
		State:     state,
		StartedAt: time.Now().UTC(),
	}
}

/*
update applies fn to the game state under the session lock, stamping
the end time if the move finished the game. Returns the session so
calls can chain into a response.
*/
func (s *GameSession) update(fn func(state *mines.GameState)) *GameSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.State)
	if (s.State.Won || s.State.Dead) && s.EndedAt.IsZero() {
		s.State.Reveal()
		s.EndedAt = time.Now().UTC()
	}
	return s
}

type GameSessionJSON struct {
	SessionId string     `json:"session_id"`
	Grid      mines.Grid `json:"grid"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	MineCount int        `json:"mine_count"`
	Unique    bool       `json:"unique"`
	Dead      bool       `json:"dead"`
	Won       bool       `json:"won"`
	Layout    string     `json:"layout,omitempty"`
	StartedAt int64      `json:"started_at"`
	EndedAt   *int64     `json:"ended_at,omitempty"`
}

/*
MarshalJSON snapshots the session under its lock: a concurrent move on
the same session mutates the player grid inside update, so the fields
must not be read unsynchronized.
*/
func (s *GameSession) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		endedAt *int64
		layout  string
	)
	if !s.EndedAt.IsZero() {
		e := s.EndedAt.UnixMilli()
		endedAt = &e
		/* The game is over, so sharing the layout is harmless. */
		layout = s.State.Description()
	}
	return json.Marshal(GameSessionJSON{
		SessionId: s.SessionId,
		Grid:      s.State.PlayerGrid,
		Width:     s.State.Width,
		Height:    s.State.Height,
		MineCount: s.State.MineCount,
		Unique:    s.State.Unique,
		Dead:      s.State.Dead,
		Won:       s.State.Won,
		Layout:    layout,
		StartedAt: s.StartedAt.UnixMilli(),
		EndedAt:   endedAt,
	})
}

/*
sessionStore holds every live game in memory. Sessions that have seen
no activity within ttl are dropped by expireLoop.
*/
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
}

type sessionEntry struct {
	session  *GameSession
	lastSeen time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      ttl,
	}
}

func (st *sessionStore) Put(s *GameSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.SessionId] = &sessionEntry{s, time.Now()}
}

func (st *sessionStore) Get(id string) (*GameSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = time.Now()
	return e.session, true
}

func (st *sessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

func (st *sessionStore) expire(now time.Time) (dropped int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.sessions, id)
			dropped++
		}
	}
	return
}

func (st *sessionStore) expireLoop(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if dropped := st.expire(now); dropped > 0 {
				log.Debugf("expired %d stale sessions", dropped)
			}
		}
	}
}
