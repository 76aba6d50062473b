// Package ws serves the shared chat room to browser clients. Each
// text frame from a client is one chat line; each room line is sent back as
// one text frame.
package ws

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/chat"
)

// Submitter queues a chat line for the game engine.
type Submitter interface {
	Submit(ctx context.Context, name, text string) error
}

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 512
)

// Handler upgrades HTTP requests carrying a ?name= query parameter into chat
// sessions.
type Handler struct {
	engine   Submitter
	room     chat.Broadcaster
	names    *chat.Names
	logger   *zap.Logger
	upgrader websocket.Upgrader

	// ctx ends every session when the server shuts down.
	ctx context.Context
}

// NewHandler creates a Handler whose sessions end when ctx is cancelled.
//
// Precondition: every argument must be non-nil.
func NewHandler(ctx context.Context, engine Submitter, room chat.Broadcaster, names *chat.Names, logger *zap.Logger) *Handler {
	if ctx == nil || engine == nil || room == nil || names == nil || logger == nil {
		panic("ws.NewHandler: arguments must not be nil")
	}
	return &Handler{
		ctx:    ctx,
		engine: engine,
		room:   room,
		names:  names,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP validates the name, upgrades the connection and runs the session.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if !chat.ValidName(name) {
		http.Error(w, "name must be 1-24 letters, digits, '-' or '_'", http.StatusBadRequest)
		return
	}
	if !h.names.Claim(name) {
		http.Error(w, "name already in use", http.StatusConflict)
		return
	}
	defer h.names.Release(name)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("name", name), zap.Error(err))
		return
	}
	s := &session{name: name, conn: conn, logger: h.logger.With(zap.String("name", name))}
	defer conn.Close()
	h.run(s)
}

// session serializes writes; gorilla connections allow one writer at a time.
type session struct {
	name   string
	conn   *websocket.Conn
	logger *zap.Logger
	mu     sync.Mutex
}

func (s *session) write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

func (s *session) close(code int, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (h *Handler) run(s *session) {
	start := time.Now()
	unsubscribe, err := h.room.Subscribe(func(line string) {
		if err := s.write(line); err != nil {
			s.logger.Debug("writing room line", zap.Error(err))
		}
	})
	if err != nil {
		h.logger.Error("subscribing to room", zap.Error(err))
		s.close(websocket.CloseInternalServerErr, "room unavailable")
		return
	}
	defer unsubscribe()
	s.logger.Info("participant entered the room")

	// Unblock ReadMessage on shutdown.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-h.ctx.Done():
			s.close(websocket.CloseGoingAway, "server shutting down")
			s.conn.Close()
		case <-done:
		}
	}()

	s.conn.SetReadLimit(maxMessageSize)
	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Info("participant left the room",
				zap.Duration("duration", time.Since(start)),
				zap.Bool("clean", websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)),
			)
			return
		}
		text := strings.TrimSpace(string(payload))
		if text == "" {
			continue
		}
		h.room.Send(chat.RelayLine(s.name, text))
		if err := h.engine.Submit(h.ctx, s.name, text); err != nil {
			s.logger.Warn("submitting line", zap.Error(err))
			s.close(websocket.CloseGoingAway, "game stopped")
			return
		}
	}
}
