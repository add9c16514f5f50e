// Package api exposes the assistant over HTTP: a client opens a session and
// posts utterances to it, one reply per request.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/dialogue"
	"github.com/careerkitsune/careerkitsune-ai/internal/logger"
	"github.com/careerkitsune/careerkitsune-ai/internal/sessions"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultRate     = 2
	defaultBurst    = 5
	defaultMaxBody  = 64 << 10
	maxUtteranceLen = 8 << 10
)

// Assistant answers one utterance against a session.
type Assistant interface {
	Handle(ctx context.Context, s *dialogue.Session, utterance, userID string) string
}

// Options configure request limits. Zero values take defaults.
type Options struct {
	// RatePerSecond and Burst bound utterances per session.
	RatePerSecond float64
	Burst         int
	MaxBodyBytes  int64
}

// Server serves sessions over HTTP with at most one turn in flight per session.
type Server struct {
	assistant Assistant
	store     sessions.Store
	logger    *zap.Logger
	mux       *http.ServeMux
	opts      Options

	mu    sync.Mutex
	gates map[string]*gate
	now   func() time.Time
	newID func() string
}

// gate serializes turns of one session and rate limits them. refs counts
// requests holding or waiting on mu and is guarded by Server.mu.
type gate struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	lastSeen time.Time
	refs     int
}

// New builds a Server backed by store.
func New(assistant Assistant, store sessions.Store, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = defaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBody
	}

	s := &Server{
		assistant: assistant,
		store:     store,
		logger:    log,
		mux:       http.NewServeMux(),
		opts:      opts,
		gates:     make(map[string]*gate),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /sessions", s.handleCreateSession)
	s.mux.HandleFunc("POST /sessions/{id}/utterances", s.handleUtterance)
	s.mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Prune forgets limiter state for sessions idle longer than idle. Gates in
// use by a request are kept. A non-positive idle prunes nothing.
func (s *Server) Prune(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, g := range s.gates {
		if g.refs == 0 && g.lastSeen.Before(cutoff) {
			delete(s.gates, id)
			removed++
		}
	}
	return removed
}

// acquire returns the gate of id and pins it until release.
func (s *Server) acquire(id string) *gate {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gates[id]
	if !ok {
		g = &gate{limiter: rate.NewLimiter(rate.Limit(s.opts.RatePerSecond), s.opts.Burst)}
		s.gates[id] = g
	}
	g.refs++
	g.lastSeen = s.now()
	return g
}

// release unpins g. With forget set the gate is dropped once nobody else
// holds it.
func (s *Server) release(id string, g *gate, forget bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.refs--
	if forget && g.refs == 0 && s.gates[id] == g {
		delete(s.gates, id)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := s.newID()
	if err := s.store.Save(r.Context(), id, dialogue.NewSession(id)); err != nil {
		s.logger.Error("creating session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	s.logger.Info("session created", logger.SessionFields(id, "")...)
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id})
}

type utteranceRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

type utteranceResponse struct {
	Reply string         `json:"reply"`
	Mode  dialogue.Mode  `json:"mode"`
	Stage dialogue.Stage `json:"stage,omitempty"`
}

func (s *Server) handleUtterance(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	log := logger.WithSession(s.logger, id, "")

	var req utteranceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(req.Text) > maxUtteranceLen {
		writeError(w, http.StatusRequestEntityTooLarge, "utterance too long")
		return
	}

	g := s.acquire(id)
	forget := false
	defer func() { s.release(id, g, forget) }()

	if !g.limiter.Allow() {
		log.Warn("utterance rate limited")
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "slow down")
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	session, err := s.store.Load(r.Context(), id)
	if errors.Is(err, sessions.ErrNotFound) {
		forget = true
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		log.Error("loading session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load session")
		return
	}

	reply := s.assistant.Handle(r.Context(), session, req.Text, req.UserID)

	if err := s.store.Save(r.Context(), id, session); err != nil {
		log.Error("saving session failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save session")
		return
	}
	writeJSON(w, http.StatusOK, utteranceResponse{Reply: reply, Mode: session.Mode, Stage: session.Stage()})
}

// handleDeleteSession waits for an in-flight turn so its save cannot bring
// the session back.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	g := s.acquire(id)
	g.mu.Lock()
	err := s.store.Delete(r.Context(), id)
	g.mu.Unlock()
	s.release(id, g, true)

	if err != nil && !errors.Is(err, sessions.ErrNotFound) {
		s.logger.Error("deleting session failed", append(logger.SessionFields(id, ""), zap.Error(err))...)
		writeError(w, http.StatusInternalServerError, "could not delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
