package telnet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/config"
)

// FullMessage is written to a client turned away because the room is at
// telnet.max_sessions.
const FullMessage = "The cockpit is full. Try again later."

var errRoomFull = errors.New("room full")

// SessionHandler runs one participant from connect to disconnect.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor admits Telnet participants into the chat room. Each admitted
// connection gets its own goroutine running the SessionHandler; connections
// beyond the configured cap are told so and closed.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	mu       sync.Mutex
	listener net.Listener
	sessions map[*Conn]context.CancelFunc
	closed   bool
	wg       sync.WaitGroup
}

// NewAcceptor creates an Acceptor. Call Start to listen.
//
// Precondition: handler and logger must be non-nil.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	if handler == nil || logger == nil {
		panic("telnet.NewAcceptor: handler and logger must not be nil")
	}
	return &Acceptor{
		cfg:      cfg,
		handler:  handler,
		logger:   logger,
		sessions: make(map[*Conn]context.CancelFunc),
	}
}

// Start listens on the configured address and admits clients until Stop.
//
// Postcondition: Returns nil after Stop, or the listen error.
func (a *Acceptor) Start() error {
	ln, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		ln.Close()
		return nil
	}
	a.listener = ln
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("max_sessions", a.cfg.MaxSessions),
	)
	for {
		raw, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			a.logger.Warn("accepting connection", zap.Error(err))
			continue
		}
		go a.serve(NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout))
	}
}

// admit registers conn as a live session.
//
// Postcondition: On success the caller owns one wg slot and must call
// release. Returns an error naming why conn was refused otherwise.
func (a *Acceptor) admit(conn *Conn) (context.Context, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, errors.New("acceptor stopped")
	}
	if a.cfg.MaxSessions > 0 && len(a.sessions) >= a.cfg.MaxSessions {
		return nil, errRoomFull
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.sessions[conn] = cancel
	a.wg.Add(1)
	return ctx, nil
}

func (a *Acceptor) release(conn *Conn) {
	a.mu.Lock()
	if cancel, ok := a.sessions[conn]; ok {
		cancel()
		delete(a.sessions, conn)
	}
	a.mu.Unlock()
	a.wg.Done()
}

func (a *Acceptor) serve(conn *Conn) {
	addr := conn.RemoteAddr().String()
	ctx, err := a.admit(conn)
	if err != nil {
		a.logger.Info("connection refused", zap.String("remote_addr", addr), zap.Error(err))
		if errors.Is(err, errRoomFull) {
			_ = conn.WriteLine(FullMessage)
		}
		conn.Close()
		return
	}
	defer a.release(conn)
	defer conn.Close()

	start := time.Now()
	if err := conn.Negotiate(); err != nil {
		a.logger.Warn("telnet negotiation failed", zap.String("remote_addr", addr), zap.Error(err))
		return
	}
	err = a.handler.HandleSession(ctx, conn)
	a.logger.Info("session ended",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
		zap.NamedError("reason", err),
	)
}

// Sessions returns the number of admitted participants still connected.
func (a *Acceptor) Sessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sessions)
}

// Stop closes the listener, cancels and closes every open session, and
// waits for the session goroutines to return. It is safe to call before
// Start and more than once.
func (a *Acceptor) Stop() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	if a.listener != nil {
		a.listener.Close()
	}
	open := len(a.sessions)
	// A blocked ReadLine only returns once its connection closes.
	for conn, cancel := range a.sessions {
		cancel()
		conn.Close()
	}
	a.mu.Unlock()

	a.wg.Wait()
	a.logger.Info("telnet acceptor stopped", zap.Int("closed_sessions", open))
}

// Addr returns the listening address, or "" before Start has bound it.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}
