// internal/httpserver/routes_leaderboard.go
//
// Leaderboard routes:
//   - GET  /leaderboard       → top 10 entries (empty=true when there are none)
//   - POST /leaderboard/clear → delete every entry
//
// Clearing is open by default. When CLEAR_PASSWORD_HASH holds a bcrypt hash
// the request must carry the matching password.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
)

// mountLeaderboard registers all /leaderboard routes.
func (s *Server) mountLeaderboard(r chi.Router) {
	r.Route("/leaderboard", func(r chi.Router) {
		r.Get("/", s.handleLeaderboard)
		r.Post("/clear", s.handleClear)
	})
}

type lbRes struct {
	Top   []leaderboard.Entry `json:"top"`
	Empty bool                `json:"empty"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	top, ok := s.board.Top(r.Context(), leaderboard.DisplayTop)
	_ = json.NewEncoder(w).Encode(lbRes{Top: top, Empty: !ok})
}

type clearReq struct {
	Password string `json:"password"`
}

type clearRes struct {
	OK     bool   `json:"ok"`
	Events events `json:"events"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var req clearReq
	_ = json.NewDecoder(r.Body).Decode(&req) // body is optional when no password is configured

	if s.cfg.ClearPasswordHash != "" && !checkPassword(s.cfg.ClearPasswordHash, req.Password) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("leaderboard clear rejected")
		http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		return
	}

	p := currentPlayer(r)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sess.ClearLeaderboard(r.Context())
	log.Info().Str("session", p.id).Msg("leaderboard cleared")
	_ = json.NewEncoder(w).Encode(clearRes{OK: true, Events: p.events.drain()})
}

// checkPassword is a bcrypt verifier.
func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
