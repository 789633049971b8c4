// Package http exposes an agency over a small JSON API: turn submission,
// session inspection and an SSE stream of per-turn updates.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/convoy"
	"github.com/aretw0/convoy/internal/logging"
	"github.com/aretw0/convoy/pkg/domain"
	"github.com/aretw0/convoy/pkg/ports"
	"github.com/aretw0/convoy/pkg/session"
)

// maxInputSize bounds a single turn input.
const maxInputSize = 64 << 10

// Config wires the handler's collaborators.
type Config struct {
	Engine   ports.TurnEngine
	Sessions *session.Manager
	Agency   *convoy.Agency
	Logger   *slog.Logger

	// Metrics, when set, is mounted at GET /metrics.
	Metrics http.Handler
}

// Server implements the HTTP surface.
type Server struct {
	engine   ports.TurnEngine
	sessions *session.Manager
	agency   *convoy.Agency
	streams  *StreamManager
	logger   *slog.Logger
}

// NewHandler builds the routed handler.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		engine:   cfg.Engine,
		sessions: cfg.Sessions,
		agency:   cfg.Agency,
		streams:  NewStreamManager(logger),
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/roster", s.getRoster)
	r.Get("/events", s.subscribeEvents)
	r.Get("/sessions", s.listSessions)
	r.Get("/sessions/{sessionID}", s.getSession)
	r.Delete("/sessions/{sessionID}", s.deleteSession)
	r.Post("/sessions/{sessionID}/turns", s.postTurn)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "convoy-http",
		"version": strings.TrimSpace(convoy.Version),
		"agency":  s.agency.Name(),
	})
}

type teamView struct {
	Name     string       `json:"name"`
	MaxSteps int          `json:"max_steps,omitempty"`
	Workers  []workerView `json:"workers"`
}

type workerView struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Capability  string    `json:"capability,omitempty"`
	Team        *teamView `json:"team,omitempty"`
}

func (s *Server) getRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewTeam(s.agency.Definition()))
}

func viewTeam(def convoy.TeamDef) teamView {
	tv := teamView{
		Name:     def.Name,
		MaxSteps: def.MaxSteps,
		Workers:  make([]workerView, 0, len(def.Workers)),
	}
	for _, wd := range def.Workers {
		wv := workerView{
			Name:        wd.Name,
			Description: wd.Description,
			Capability:  wd.CapabilityName,
		}
		if wd.Team != nil {
			sub := viewTeam(*wd.Team)
			wv.Team = &sub
		}
		tv.Workers = append(tv.Workers, wv)
	}
	return tv
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	log, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		s.fail(w, http.StatusInternalServerError, "load session", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "log": log})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, http.StatusInternalServerError, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type turnRequest struct {
	Input string `json:"input"`
}

type turnResponse struct {
	*domain.TurnReport
	Error string `json:"error,omitempty"`
}

func (s *Server) postTurn(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var body turnRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputSize)).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.Input) == "" {
		http.Error(w, "input is required", http.StatusBadRequest)
		return
	}

	report, err := s.engine.Turn(r.Context(), id, body.Input)
	if report == nil {
		status := http.StatusInternalServerError
		s.fail(w, status, "turn", err)
		return
	}

	for _, msg := range report.NewMessages {
		if raw, mErr := json.Marshal(msg); mErr == nil {
			s.streams.Broadcast(id, string(raw))
		}
	}

	resp := turnResponse{TurnReport: report}
	if err != nil {
		resp.Error = err.Error()
		s.logger.Warn("turn aborted", "session_id", id, "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) subscribeEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, op string, err error) {
	s.logger.Error(op+" failed", "error", err)
	http.Error(w, fmt.Sprintf("%s: %v", op, err), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("response encode failed", "error", err)
	}
}
