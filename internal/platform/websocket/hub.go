// Package websocket serves request/response sessions over WebSockets. Every
// inbound text message is handed to a Responder and its reply written back
// before the next message is read, so a connection is answered in order.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Responder computes the reply to one inbound message.
type Responder func(ctx context.Context, payload []byte) ([]byte, error)

// ErrorReply is written back when the Responder fails.
type ErrorReply struct {
	Error string `json:"error"`
}

// Conn abstracts a WebSocket connection for testability.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session is one connected client.
type Session struct {
	ID      string
	conn    Conn
	respond Responder
	logger  zerolog.Logger
}

func NewSession(conn Conn, respond Responder, logger zerolog.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		ID:      id,
		conn:    conn,
		respond: respond,
		logger:  logger.With().Str("session_id", id).Logger(),
	}
}

// Serve reads messages until the connection fails or ctx is cancelled. Each
// message is answered before the next one is read.
func (s *Session) Serve(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		msgType, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Debug().Err(err).Msg("websocket read ended")
			return
		}
		if msgType != gorillawebsocket.TextMessage {
			continue
		}

		reply, err := s.respond(ctx, payload)
		if err != nil {
			s.logger.Warn().Err(err).Msg("websocket request failed")
			reply, _ = json.Marshal(ErrorReply{Error: err.Error()})
		}

		if err := s.conn.WriteMessage(gorillawebsocket.TextMessage, reply); err != nil {
			s.logger.Debug().Err(err).Msg("websocket write failed")
			return
		}
	}
}

// Hub tracks the open sessions so they can be counted and closed on shutdown.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Session)}
}

func (h *Hub) Register(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID] = s
}

func (h *Hub) Unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s.ID)
}

// SessionCount returns the number of connected sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// CloseAll closes every session's connection, which ends their Serve loops.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		s.conn.Close()
	}
}

var upgrader = gorillawebsocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 64 * 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades HTTP requests and serves a Session on each connection.
type Handler struct {
	hub     *Hub
	respond Responder
	logger  zerolog.Logger
}

func NewHandler(hub *Hub, respond Responder, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, respond: respond, logger: logger}
}

// HandleConnect upgrades the connection and serves it until the client leaves.
func (h *Handler) HandleConnect(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	session := NewSession(&gorillaConnAdapter{ws}, h.respond, h.logger)
	h.hub.Register(session)
	defer h.hub.Unregister(session)

	session.logger.Info().Str("remote_ip", c.RealIP()).Msg("websocket session opened")
	session.Serve(c.Request().Context())
	session.logger.Info().Msg("websocket session closed")
	return nil
}

// gorillaConnAdapter wraps a gorilla/websocket.Conn to satisfy the Conn interface.
type gorillaConnAdapter struct {
	conn *gorillawebsocket.Conn
}

func (a *gorillaConnAdapter) ReadMessage() (int, []byte, error) {
	return a.conn.ReadMessage()
}

func (a *gorillaConnAdapter) WriteMessage(messageType int, data []byte) error {
	return a.conn.WriteMessage(messageType, data)
}

func (a *gorillaConnAdapter) Close() error {
	return a.conn.Close()
}
