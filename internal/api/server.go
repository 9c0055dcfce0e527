package api

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/sirupsen/logrus"
)

// Server exposes the world over JSON-over-HTTP routes plus a websocket event
// feed.
type Server struct {
	rooms   *game.RoomService
	players *game.PlayerService
	engine  *game.InteractionEngine
	events  EventSource
	logger  logrus.FieldLogger

	mux *http.ServeMux

	closing   chan struct{}
	closeOnce sync.Once
}

// NewServer wires the routes. events may be nil, which disables /events.
func NewServer(rooms *game.RoomService, players *game.PlayerService, engine *game.InteractionEngine, events EventSource, logger logrus.FieldLogger) *Server {
	s := &Server{
		rooms:   rooms,
		players: players,
		engine:  engine,
		events:  events,
		logger:  logger,
		mux:     http.NewServeMux(),
		closing: make(chan struct{}),
	}

	s.mux.HandleFunc("/room", postOnly(s.handleRoom))
	s.mux.HandleFunc("/player", postOnly(s.handlePlayer))
	s.mux.HandleFunc("/player/position", postOnly(s.handlePosition))
	s.mux.HandleFunc("/action", postOnly(s.handleAction))
	s.mux.HandleFunc("/events", s.handleEvents)
	s.mux.HandleFunc("/health", s.handleHealth)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Browser clients call from other origins.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	logger := s.logger.WithFields(logrus.Fields{
		"request_id": uuid.New().String(),
		"method":     r.Method,
		"path":       r.URL.Path,
	})
	ctx := logging.WithLogger(r.Context(), logger)

	s.mux.ServeHTTP(w, r.WithContext(ctx))
}

// CloseFeeds sends a going-away close to every open event feed and refuses
// new ones. It is safe to call more than once.
func (s *Server) CloseFeeds() {
	s.closeOnce.Do(func() { close(s.closing) })
}

func postOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
