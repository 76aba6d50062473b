package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/chat"
	"github.com/cory-johannsen/adventuremech/internal/config"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// Server serves a Handler on the configured path.
type Server struct {
	cfg    config.WebSocketConfig
	srv    *http.Server
	cancel context.CancelFunc
	logger *zap.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a Server whose sessions are submitted to engine.
//
// Precondition: cfg.Path must start with '/'; every other argument must be non-nil.
func NewServer(cfg config.WebSocketConfig, engine Submitter, room chat.Broadcaster, names *chat.Names, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, NewHandler(ctx, engine, room, names, logger))
	return &Server{
		cfg:    cfg,
		srv:    &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second},
		cancel: cancel,
		logger: logger,
	}
}

// Start implements server.Service. It blocks until Stop is called.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.logger.Info("websocket server listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("path", s.cfg.Path),
	)
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websocket: %w", err)
	}
	return nil
}

// Stop ends every session and shuts the HTTP server down.
func (s *Server) Stop() {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("websocket shutdown", zap.Error(err))
	}
	s.logger.Info("websocket server stopped")
}

// Addr returns the listening address, or "" before Start has bound it.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
