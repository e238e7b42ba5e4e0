// internal/httpserver/server.go
//
// HTTP server wiring for the cartoon-guess backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/catalog".
//   - Round endpoints (session cookie): POST /round/start|hint|guess, GET /round.
//   - Leaderboard endpoints: GET /leaderboard, POST /leaderboard/clear.
//   - Optional static sound cues under /sounds/ when SOUNDS_DIR is set.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - Every browser gets its own game.Session; the leaderboard is shared.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/cartoon-guess/internal/catalog"
	"github.com/robalobadob/cartoon-guess/internal/config"
	"github.com/robalobadob/cartoon-guess/internal/game"
	"github.com/robalobadob/cartoon-guess/internal/leaderboard"
)

// Server bundles the router, the session registry and the shared leaderboard.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	board    *leaderboard.Board
	sessions *registry
}

// New constructs a Server, installs middleware, and registers routes.
// sessionOpts are applied to every game.Session the server creates.
func New(cfg config.Config, board *leaderboard.Board, sessionOpts ...game.Option) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		board:    board,
		sessions: newRegistry(board, cfg.SessionTTL, sessionOpts...),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- static cues (before the JSON content type is forced) ---
	if cfg.SoundsDir != "" {
		fs := http.StripPrefix("/sounds/", http.FileServer(http.Dir(cfg.SoundsDir)))
		s.r.Get("/sounds/*", fs.ServeHTTP)
	}

	s.r.Group(func(r chi.Router) {
		r.Use(jsonContentType)

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"cartoon-guess","endpoints":["/health","/catalog","POST /round/start","POST /round/hint","POST /round/guess","/leaderboard"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/catalog", s.handleCatalog)

		s.mountRound(r.With(s.withSession))
		s.mountLeaderboard(r.With(s.withSession))

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			body, _ := json.Marshal(map[string]string{"error": "not_found", "path": r.URL.Path})
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write(body)
		})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes a debug-level zerolog line for every request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("http")
	})
}

// ------------------------------ catalog ------------------------------------

type catalogRes struct {
	Characters []catalog.Character `json:"characters"`
	Levels     []catalog.Level     `json:"levels"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(catalogRes{
		Characters: catalog.Characters(),
		Levels:     catalog.Levels(),
	})
}
