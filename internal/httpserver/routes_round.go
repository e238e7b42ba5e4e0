// internal/httpserver/routes_round.go
//
// HTTP routes for playing a round. Exposes four endpoints under /round:
//   - POST /round/start → start (or restart) the caller's round
//   - POST /round/hint  → buy the next hint
//   - POST /round/guess → submit a guess
//   - GET  /round       → current round view and session stats
//
// Game-level rejections (bad guess text, no hints left, round over) are not
// HTTP errors: they come back as 200 with the outcome's result and message.

package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/cartoon-guess/internal/catalog"
	"github.com/robalobadob/cartoon-guess/internal/game"
)

// mountRound registers all /round routes.
func (s *Server) mountRound(r chi.Router) {
	r.Route("/round", func(r chi.Router) {
		r.Get("/", s.handleRound)
		r.Post("/start", s.handleStart)
		r.Post("/hint", s.handleHint)
		r.Post("/guess", s.handleGuess)
	})
}

// flexText accepts a JSON string or number and keeps its text form, so a
// page can post either `"level":"2"` or `"level":2`.
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexText(s)
		return nil
	}
	*f = flexText(b)
	return nil
}

// roundView is the public shape of a round. The secret is only included
// once the round is over.
type roundView struct {
	Active            bool              `json:"active"`
	Player            string            `json:"player"`
	Level             catalog.Level     `json:"level"`
	Character         catalog.Character `json:"character"`
	Limit             int               `json:"limit"`
	AttemptsRemaining int               `json:"attemptsRemaining"`
	HintsRemaining    int               `json:"hintsRemaining"`
	Score             int               `json:"score"`
	Secret            int               `json:"secret,omitempty"`
	StartedAt         time.Time         `json:"startedAt"`
}

func viewOf(rd game.Round) *roundView {
	v := &roundView{
		Active:            rd.Active,
		Player:            rd.Player,
		Level:             rd.Level,
		Character:         rd.Character,
		Limit:             rd.Limit,
		AttemptsRemaining: rd.AttemptsRemaining,
		HintsRemaining:    rd.HintsRemaining(),
		Score:             rd.Score,
		StartedAt:         rd.StartedAt,
	}
	if !rd.Active {
		v.Secret = rd.Secret
	}
	return v
}

func snapshotView(p *player) *roundView {
	if rd, ok := p.sess.Snapshot(); ok {
		return viewOf(rd)
	}
	return nil
}

// -----------------------------------------------------------------------------
// GET /round

type roundRes struct {
	Round *roundView `json:"round"` // null before the first start
	Stats game.Stats `json:"stats"`
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = json.NewEncoder(w).Encode(roundRes{Round: snapshotView(p), Stats: p.sess.Stats()})
}

// -----------------------------------------------------------------------------
// POST /round/start

type startReq struct {
	Name      string   `json:"name"`
	Level     flexText `json:"level"`
	Character flexText `json:"character"`
}

type startRes struct {
	Round  *roundView `json:"round"`
	Events events     `json:"events"`
}

// handleStart starts a new round, discarding any live one.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	p := currentPlayer(r)
	p.mu.Lock()
	defer p.mu.Unlock()

	rd := p.sess.Start(r.Context(), req.Name, catalog.ParseID(string(req.Level)), catalog.ParseID(string(req.Character)))
	_ = json.NewEncoder(w).Encode(startRes{Round: viewOf(rd), Events: p.events.drain()})
}

// -----------------------------------------------------------------------------
// POST /round/hint

type hintRes struct {
	Outcome game.HintOutcome `json:"outcome"`
	Round   *roundView       `json:"round"`
	Events  events           `json:"events"`
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	p := currentPlayer(r)
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.sess.Hint(r.Context())
	_ = json.NewEncoder(w).Encode(hintRes{Outcome: out, Round: snapshotView(p), Events: p.events.drain()})
}

// -----------------------------------------------------------------------------
// POST /round/guess

type guessReq struct {
	Guess flexText `json:"guess"`
}

type guessRes struct {
	Outcome game.GuessOutcome `json:"outcome"`
	Round   *roundView        `json:"round"`
	Events  events            `json:"events"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	p := currentPlayer(r)
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.sess.Guess(r.Context(), string(req.Guess))
	_ = json.NewEncoder(w).Encode(guessRes{Outcome: out, Round: snapshotView(p), Events: p.events.drain()})
}
