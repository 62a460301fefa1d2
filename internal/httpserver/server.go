// internal/httpserver/server.go
//
// HTTP server wiring for the Rummy Rooms backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/catalog".
//   - Room endpoints: mounted under /rooms (see routes_rooms.go).
//   - Mapping engine errors to HTTP status codes.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the room cookie works
//     from the browser client.
//   - Handlers stay thin: decode, call one rooms.Service method, encode.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rummy-rooms/internal/game"
	"github.com/robalobadob/rummy-rooms/internal/rooms"
)

// Options configures cross-cutting HTTP behaviour.
type Options struct {
	ClientOrigin   string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	Secure         bool // production cookies (Secure, SameSite=None)
}

// Server bundles router and room service.
type Server struct {
	r       *chi.Mux
	rooms   *rooms.Service
	session *sessions
	origin  string
}

// New constructs a Server, installs middleware, and registers routes.
func New(svc *rooms.Service, opts Options) *Server {
	if opts.ClientOrigin == "" {
		opts.ClientOrigin = "http://localhost:5173"
	}
	s := &Server{
		r:       chi.NewRouter(),
		rooms:   svc,
		session: newSessions(opts),
		origin:  opts.ClientOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(s.cors)                          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service": "rummy-rooms",
			"endpoints": []string{
				"/health", "/catalog", "POST /rooms", "POST /rooms/join", "GET /rooms/current",
				"GET /rooms/{code}", "POST /rooms/{code}/players", "POST /rooms/{code}/rounds",
				"POST /rooms/{code}/undo",
			},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/catalog", s.handleCatalog)

	s.mountRooms(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
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
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", s.origin)
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

// accessLog writes one structured line per request.
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
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg("http request")
	})
}

// ------------------------------ responses ----------------------------------

// errorRes is the body of every non-2xx response.
type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Retry   bool   `json:"retry,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine failures to status codes:
//
//	ErrNotFound     → 404
//	ErrInvalidInput → 400
//	ErrInvalidState → 409
//	ErrConflict     → 409 (retry: true)
//	anything else   → 500, logged
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorRes{Error: "room_not_found", Message: err.Error()})
	case errors.Is(err, game.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "invalid_input", Message: err.Error()})
	case errors.Is(err, game.ErrInvalidState):
		writeJSON(w, http.StatusConflict, errorRes{Error: "invalid_state", Message: err.Error()})
	case errors.Is(err, game.ErrConflict):
		writeJSON(w, http.StatusConflict, errorRes{Error: "conflict", Message: "room changed too often, please resubmit", Retry: true})
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Str("request_id", chimw.GetReqID(r.Context())).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorRes{Error: "server_error"})
	}
}

// catalogRes is returned by GET /catalog.
type catalogRes struct {
	Requirements []string         `json:"requirements"`
	CardValues   []game.CardValue `json:"cardValues"`
	Rounding     string           `json:"rounding"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalogRes{
		Requirements: game.Requirements(),
		CardValues:   game.CardValues(),
		Rounding:     s.rooms.Rounding().String(),
	})
}
