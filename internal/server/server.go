// Package server exposes search sessions over HTTP so a separate front end
// can configure, step, scrub and watch a search.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"pathfinder"
	"pathfinder/internal/boardfile"
	"pathfinder/internal/config"
)

// Server owns the live sessions. Each session is one Engine.
type Server struct {
	cfg          config.Config
	defaultBoard boardfile.Document
	router       *mux.Router
	upgrader     websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*pathfinder.Engine
}

// New creates a server. defaultBoard is used by sessions created without a
// board of their own.
func New(cfg config.Config, defaultBoard boardfile.Document) *Server {
	s := &Server{
		cfg:          cfg,
		defaultBoard: defaultBoard,
		router:       mux.NewRouter(),
		sessions:     make(map[string]*pathfinder.Engine),
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions", s.createSessionHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions", s.listSessionsHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.getSessionHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", s.deleteSessionHandler).Methods(http.MethodDelete)
	r.HandleFunc("/sessions/{id}/step", s.stepHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/back", s.stepBackHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/seek/{index:[0-9]+}", s.seekHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/run", s.runHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/reset", s.resetHandler).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/heuristic", s.heuristicHandler).Methods(http.MethodPut)
	r.HandleFunc("/sessions/{id}/history", s.historyHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/history/{index:[0-9]+}", s.snapshotHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/graph", s.graphHandler).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/watch", s.watchHandler).Methods(http.MethodGet)
}

// Handler returns the routes wrapped in the CORS middleware
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.cfg.CORSOrigin, s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("HTTP server starting on %s\n", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v\n", err)
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Println("HTTP server stopped")
	return nil
}

// SessionCount is the number of live sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) session(id string) (*pathfinder.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

var errTooManySessions = errors.New("session limit reached")

func (s *Server) addSession(e *pathfinder.Engine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.cfg.MaxSessions {
		return errTooManySessions
	}
	s.sessions[e.ID()] = e
	return nil
}

func (s *Server) removeSession(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// corsMiddleware adds CORS headers to allow front-end requests
func corsMiddleware(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if s.cfg.CORSOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || origin == s.cfg.CORSOrigin
}
