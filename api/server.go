// Package api serves games over HTTP, with the endpoint shapes the
// tilegrid web client uses.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type Server struct {
	r       *chi.Mux
	backend Backend
}

// New builds the router. timeout bounds each request; zero means ten
// seconds. Browsers served from origin may call the API; an empty origin
// sends no CORS headers.
func New(backend Backend, timeout time.Duration, origin string) *Server {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	s := &Server{r: chi.NewRouter(), backend: backend}

	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(timeout))
	s.r.Use(jsonContentType)
	if origin != "" {
		s.r.Use(cors(origin))
	}

	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Post("/games", s.handleCreateGame)
	s.r.Get("/games/{game}", s.handleGetGame)
	s.r.Get("/games/{game}/transcript", s.handleTranscript)
	s.r.Post("/players", s.handleJoinGame)
	s.r.Get("/moves/{move}", s.handleGetMove)
	s.r.Post("/moves/{move}", s.handleSubmitMove)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "not_found", Message: r.URL.Path})
	})
	return s
}

func (s *Server) Router() chi.Router { return s.r }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("write-response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	_, status := ErrorCode(err)
	l := log.With().Str("req-id", chimw.GetReqID(r.Context())).Str("path", r.URL.Path).Logger()
	if status == http.StatusInternalServerError {
		l.Error().Err(err).Msg("request-failed")
	} else {
		l.Debug().Err(err).Int("status", status).Msg("request-rejected")
	}
	writeJSON(w, status, NewErrorResponse(err))
}

func queryParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: missing %v", ErrBadRequest, name)
	}
	return v, nil
}

func seqParam(r *http.Request) (int, error) {
	seq, err := strconv.Atoi(chi.URLParam(r, "move"))
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: move must be a sequence number", ErrBadRequest)
	}
	return seq, nil
}

// decodeBody decodes a JSON body into v. An empty body leaves v as is.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.backend.CreateGame(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetGame serves the game state with an ETag, so pollers can ask
// whether anything changed.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	resp, err := s.backend.GetGame(r.Context(), chi.URLParam(r, "game"), r.URL.Query().Get("player"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := json.Marshal(resp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	etag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(body, '\n'))
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	t, err := s.backend.Transcript(r.Context(), chi.URLParam(r, "game"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := t.Write(&buf); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := queryParam(r, "game")
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.backend.JoinGame(r.Context(), gameID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMove(w http.ResponseWriter, r *http.Request) {
	gameID, err := queryParam(r, "game")
	if err != nil {
		writeError(w, r, err)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.backend.GetMove(r.Context(), gameID, seq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitMove(w http.ResponseWriter, r *http.Request) {
	gameID, err := queryParam(r, "game")
	if err != nil {
		writeError(w, r, err)
		return
	}
	playerID, err := queryParam(r, "player")
	if err != nil {
		writeError(w, r, err)
		return
	}
	seq, err := seqParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req SubmitMoveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	resp, err := s.backend.SubmitMove(r.Context(), gameID, playerID, seq, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
