// internal/httpserver/routes_rooms.go
//
// HTTP routes for rooms. One route per player action:
//   - POST /rooms                  → create a room (sets the room cookie)
//   - POST /rooms/join             → join by code (sets the room cookie)
//   - GET  /rooms/current          → board for the room in the cookie
//   - GET  /rooms/{code}           → board
//   - POST /rooms/{code}/players   → set the roster (once)
//   - POST /rooms/{code}/rounds    → record one round of scores
//   - POST /rooms/{code}/undo      → drop the last round
//
// Bodies may be JSON or a URL-encoded form post (p_0.. for names, s_0.. for
// scores), so a plain HTML form can drive the API.

package httpserver

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rummy-rooms/internal/game"
	"github.com/robalobadob/rummy-rooms/internal/rooms"
)

// mountRooms registers all /rooms routes.
func (s *Server) mountRooms(r chi.Router) {
	r.Route("/rooms", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Post("/join", s.handleJoin)
		r.Get("/current", s.handleCurrent)
		r.Get("/{code}", s.handleBoard)
		r.Post("/{code}/players", s.handleSetPlayers)
		r.Post("/{code}/rounds", s.handleAddRound)
		r.Post("/{code}/undo", s.handleUndo)
	})
}

// -----------------------------------------------------------------------------
// create / join

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	room, err := s.rooms.CreateRoom(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.rememberRoom(w, room.Code)
	writeJSON(w, http.StatusCreated, rooms.NewBoard(room, s.rooms.Rounding()))
}

// joinReq is the payload for POST /rooms/join.
type joinReq struct {
	Code string `json:"code"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinReq
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_form"})
			return
		}
		req.Code = r.PostForm.Get("roomCode")
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}

	room, err := s.rooms.Join(r.Context(), req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.rememberRoom(w, room.Code)
	writeJSON(w, http.StatusOK, rooms.NewBoard(room, s.rooms.Rounding()))
}

// handleCurrent serves the board of the room named in the room cookie.
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	code, ok := s.session.current(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "no_current_room"})
		return
	}
	s.writeBoard(w, r, code)
}

func (s *Server) rememberRoom(w http.ResponseWriter, code string) {
	if err := s.session.remember(w, code); err != nil {
		log.Warn().Err(err).Str("room", code).Msg("set room cookie")
	}
}

// -----------------------------------------------------------------------------
// board

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	s.writeBoard(w, r, chi.URLParam(r, "code"))
}

func (s *Server) writeBoard(w http.ResponseWriter, r *http.Request, code string) {
	b, err := s.rooms.Board(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// -----------------------------------------------------------------------------
// mutations

// playersReq is the JSON payload for POST /rooms/{code}/players.
type playersReq struct {
	Players []string `json:"players"`
}

func (s *Server) handleSetPlayers(w http.ResponseWriter, r *http.Request) {
	var names []string
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_form"})
			return
		}
		names = indexedFormValues(r, "p_")
	} else {
		var req playersReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
			return
		}
		names = req.Players
	}

	room, err := s.rooms.SetPlayers(r.Context(), chi.URLParam(r, "code"), names)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms.NewBoard(room, s.rooms.Rounding()))
}

// roundReq is the JSON payload for POST /rooms/{code}/rounds.
// Scores may be JSON numbers or numeric strings ("10").
type roundReq struct {
	Scores []json.Number `json:"scores"`
}

func (s *Server) handleAddRound(w http.ResponseWriter, r *http.Request) {
	var raw []string
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_form"})
			return
		}
		raw = indexedFormValues(r, "s_")
	} else {
		var req roundReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json", Message: "scores must be whole numbers"})
			return
		}
		raw = make([]string, len(req.Scores))
		for i, n := range req.Scores {
			raw[i] = n.String()
		}
	}

	scores, err := game.ParseScores(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	room, err := s.rooms.AddRound(r.Context(), chi.URLParam(r, "code"), scores)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms.NewBoard(room, s.rooms.Rounding()))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	room, err := s.rooms.UndoLastRound(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms.NewBoard(room, s.rooms.Rounding()))
}

// -----------------------------------------------------------------------------
// form helpers

// isForm reports whether the request body is a URL-encoded form.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded"
}

// indexedFormValues collects prefix0, prefix1, ... in index order, stopping
// at the first missing index.
func indexedFormValues(r *http.Request, prefix string) []string {
	out := []string{}
	for i := 0; ; i++ {
		key := prefix + strconv.Itoa(i)
		if _, ok := r.PostForm[key]; !ok {
			return out
		}
		out = append(out, r.PostForm.Get(key))
	}
}
