package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-gridworld/internal/game"
	"github.com/pixil98/go-gridworld/internal/logging"
	"github.com/pixil98/go-gridworld/internal/messaging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// EventSource delivers a player's events for as long as the subscription is
// held.
type EventSource interface {
	SubscribePlayer(userId string, handler func(messaging.Envelope)) (func(), error)
}

// handleEvents streams the caller's events over a websocket. The feed is
// one-way; anything the client sends is discarded.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method Not Allowed"})
		return
	}

	userId := r.URL.Query().Get("userId")
	if !game.ValidUserId(userId) {
		writeError(w, r, newBadRequest("No userId"))
		return
	}
	if s.events == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "event feed is disabled"})
		return
	}
	select {
	case <-s.closing:
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "server shutting down"})
		return
	default:
	}

	logger := logging.GetLogger(r.Context()).WithField("user_id", userId)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithError(err).Warn("upgrading event feed")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.WithError(err).Debug("closing event feed")
		}
	}()

	send := make(chan messaging.Envelope, sendBuffer)
	unsubscribe, err := s.events.SubscribePlayer(userId, func(env messaging.Envelope) {
		select {
		case send <- env:
		default:
			logger.WithField("event", env.Id).Warn("event feed full, dropping event")
		}
	})
	if err != nil {
		logger.WithError(err).Error("subscribing to player events")
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "event feed unavailable")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return
	}
	defer unsubscribe()

	logger.Info("event feed connected")

	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case env := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(env); err != nil {
				logger.WithError(err).Debug("writing event")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			logger.Info("event feed disconnected")
			return
		case <-s.closing:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			return
		}
	}
}

// readPump drains client frames so pongs and close frames are processed and
// closes done when the connection goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
