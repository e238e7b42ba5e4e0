// internal/httpserver/session.go
//
// Per-browser game sessions.
//   - registry: in-memory map of session id → player, guarded by a mutex.
//     Idle players are evicted after the configured TTL (swept lazily when a
//     new player is created).
//   - Session cookie: an HS256 JWT carrying the session id ("sid").
//   - eventLog: the game.Bridge implementation that buffers what a single
//     request produced so the handler can return it as JSON.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/internal/game"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
)

// cookieLifetime bounds how long a browser keeps its session token. The
// server-side TTL evicts idle sessions much sooner.
const cookieLifetime = 30 * 24 * time.Hour

// player is one browser's game session. mu serialises actions on it.
type player struct {
	mu       sync.Mutex
	id       string
	sess     *game.Session
	events   *eventLog
	lastSeen time.Time
}

type registry struct {
	mu      sync.Mutex
	players map[string]*player
	ttl     time.Duration
	now     func() time.Time
	board   *leaderboard.Board
	opts    []game.Option
}

func newRegistry(board *leaderboard.Board, ttl time.Duration, opts ...game.Option) *registry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &registry{
		players: make(map[string]*player),
		ttl:     ttl,
		now:     time.Now,
		board:   board,
		opts:    opts,
	}
}

// get returns a live player and refreshes its idle timer.
func (g *registry) get(id string) (*player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.players[id]
	if !ok {
		return nil, false
	}
	if g.now().Sub(p.lastSeen) > g.ttl {
		delete(g.players, id)
		return nil, false
	}
	p.lastSeen = g.now()
	return p, true
}

// create registers a fresh player and sweeps expired ones.
func (g *registry) create() *player {
	ev := &eventLog{}
	opts := append([]game.Option{game.WithBridge(ev)}, g.opts...)
	p := &player{
		id:     genID(),
		sess:   game.NewSession(g.board, opts...),
		events: ev,
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	for id, other := range g.players {
		if now.Sub(other.lastSeen) > g.ttl {
			delete(g.players, id)
		}
	}
	p.lastSeen = now
	g.players[p.id] = p
	log.Debug().Str("session", p.id).Int("live", len(g.players)).Msg("session created")
	return p
}

func (g *registry) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.players)
}

// ------------------------------ cookie --------------------------------------

// ctxPlayerKey is the context key type for storing *player.
type ctxPlayerKey struct{}

// withSession resolves the caller's player from the session token, creating
// a new one (and setting the cookie) when the token is missing, invalid, or
// refers to an evicted session. It never rejects a request.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p *player
		if tok := s.bearerOrCookie(r); tok != "" {
			if sid, err := s.parseSessionToken(tok); err == nil {
				p, _ = s.sessions.get(sid)
			}
		}
		if p == nil {
			p = s.sessions.create()
			tok, exp, err := s.signSessionToken(p.id)
			if err != nil {
				log.Error().Err(err).Msg("sign session token")
				http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
				return
			}
			s.setSessionCookie(w, tok, exp)
			w.Header().Set("X-Session-Token", tok)
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentPlayer returns the player placed in the context by withSession.
func currentPlayer(r *http.Request) *player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*player)
	return p
}

// signSessionToken creates an HS256 JWT with the session id.
func (s *Server) signSessionToken(sid string) (string, time.Time, error) {
	exp := time.Now().Add(cookieLifetime)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.SessionSecret))
	return ss, exp, err
}

// parseSessionToken validates tok and returns its session id.
func (s *Server) parseSessionToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	sid, _ := claims["sid"].(string)
	if !t.Valid || sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode // required for cross-site pages when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cookieName()); err == nil {
		return c.Value
	}
	return ""
}

func (s *Server) cookieName() string {
	if s.cfg.CookieName != "" {
		return s.cfg.CookieName
	}
	return "cartoon_guess_session"
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ----------------------------- event log ------------------------------------

type startedEvent struct {
	Glyph string `json:"glyph"`
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type metaEvent struct {
	HintsRemaining    int `json:"hintsRemaining"`
	AttemptsRemaining int `json:"attemptsRemaining"`
	Score             int `json:"score"`
}

type boardEvent struct {
	Top   []leaderboard.Entry `json:"top"`
	Empty bool                `json:"empty"`
}

// events is the JSON view of what a request produced. Only the latest meta
// and leaderboard snapshots are kept.
type events struct {
	Started     *startedEvent `json:"started,omitempty"`
	Meta        *metaEvent    `json:"meta,omitempty"`
	Messages    []string      `json:"messages"`
	Leaderboard *boardEvent   `json:"leaderboard,omitempty"`
	Sounds      []game.Cue    `json:"sounds"`
}

// eventLog buffers bridge events for the current request.
type eventLog struct{ buf events }

func (e *eventLog) RoundStarted(glyph, name string, limit int) {
	e.buf.Started = &startedEvent{Glyph: glyph, Name: name, Limit: limit}
}

func (e *eventLog) Meta(hints, attempts, score int) {
	e.buf.Meta = &metaEvent{HintsRemaining: hints, AttemptsRemaining: attempts, Score: score}
}

func (e *eventLog) Message(text string) { e.buf.Messages = append(e.buf.Messages, text) }

func (e *eventLog) LeaderboardChanged(top []leaderboard.Entry, empty bool) {
	e.buf.Leaderboard = &boardEvent{Top: top, Empty: empty}
}

func (e *eventLog) Sound(cue game.Cue) { e.buf.Sounds = append(e.buf.Sounds, cue) }

// drain returns the buffered events and resets the log.
func (e *eventLog) drain() events {
	out := e.buf
	if out.Messages == nil {
		out.Messages = []string{}
	}
	if out.Sounds == nil {
		out.Sounds = []game.Cue{}
	}
	e.buf = events{}
	return out
}
