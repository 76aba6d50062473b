package telnet

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/adventuremech/internal/chat"
	"github.com/cory-johannsen/adventuremech/internal/config"
)

type room struct {
	hub    *chat.Hub
	engine *fakeEngine
	names  *chat.Names
}

func newRoom() *room {
	hub := chat.NewHub(0, zap.NewNop())
	return &room{hub: hub, engine: &fakeEngine{room: hub}, names: chat.NewNames()}
}

// startAcceptor serves r over Telnet on a random local port.
func startAcceptor(t *testing.T, r *room, maxSessions int) (*Acceptor, <-chan error) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := config.TelnetConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		MaxSessions:  maxSessions,
	}
	acc := NewAcceptor(cfg, NewChatHandler(r.engine, r.hub, r.names, 0, logger), logger)
	errCh := make(chan error, 1)
	go func() { errCh <- acc.Start() }()
	t.Cleanup(acc.Stop)
	require.Eventually(t, func() bool { return acc.Addr() != "" }, 2*time.Second, 5*time.Millisecond)
	return acc, errCh
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &client{conn: conn}
}

// enter dials the acceptor and picks name.
func enter(t *testing.T, addr, name string) *client {
	t.Helper()
	c := dial(t, addr)
	c.readUntil(t, "What is your name?")
	c.send(t, name)
	return c
}

func assertClosed(t *testing.T, c *client) {
	t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	for {
		if _, err := c.conn.Read(buf); err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				t.Fatal("connection left open")
			}
			return
		}
	}
}

func TestAcceptor_AdmitsChatParticipants(t *testing.T) {
	r := newRoom()
	acc, errCh := startAcceptor(t, r, 0)

	alice := enter(t, acc.Addr(), "alice")
	bob := enter(t, acc.Addr(), "bob")
	require.Eventually(t, func() bool { return r.hub.Subscribers() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, acc.Sessions())

	alice.send(t, "join")
	bob.readUntil(t, "alice:"+Reset+" join")
	require.Eventually(t, func() bool { return len(r.engine.submissions()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []submitted{{"alice", "join"}}, r.engine.submissions())

	alice.send(t, "quit")
	alice.readUntil(t, "Goodbye.")
	assertClosed(t, alice)
	require.Eventually(t, func() bool { return acc.Sessions() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, r.names.Claim("alice"), "name released when the session ends")

	acc.Stop()
	assert.NoError(t, <-errCh)
	assert.Zero(t, acc.Sessions())
}

func TestAcceptor_TurnsAwayBeyondMaxSessions(t *testing.T) {
	r := newRoom()
	acc, _ := startAcceptor(t, r, 1)

	alice := dial(t, acc.Addr())
	alice.readUntil(t, "What is your name?")

	turnedAway := dial(t, acc.Addr())
	turnedAway.readUntil(t, FullMessage)
	assertClosed(t, turnedAway)
	assert.Equal(t, 1, acc.Sessions())

	alice.send(t, "alice")
	alice.send(t, "quit")
	alice.readUntil(t, "Goodbye.")
	require.Eventually(t, func() bool { return acc.Sessions() == 0 }, 2*time.Second, 5*time.Millisecond)

	later := dial(t, acc.Addr())
	later.readUntil(t, "What is your name?")
}

func TestAcceptor_StopClosesOpenSessions(t *testing.T) {
	r := newRoom()
	acc, errCh := startAcceptor(t, r, 0)

	waiting := dial(t, acc.Addr())
	waiting.readUntil(t, "What is your name?")
	playing := enter(t, acc.Addr(), "alice")
	require.Eventually(t, func() bool { return r.hub.Subscribers() == 1 }, 2*time.Second, 5*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		acc.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop waited on an idle session")
	}
	assert.NoError(t, <-errCh)
	assertClosed(t, waiting)
	assertClosed(t, playing)
	assert.Zero(t, acc.Sessions())
	require.Eventually(t, func() bool { return r.hub.Subscribers() == 0 }, 2*time.Second, 5*time.Millisecond)
	acc.Stop()
}

func TestAcceptor_StopBeforeStart(t *testing.T) {
	r := newRoom()
	logger := zaptest.NewLogger(t)
	acc := NewAcceptor(config.TelnetConfig{Host: "127.0.0.1"}, NewChatHandler(r.engine, r.hub, r.names, 0, logger), logger)
	acc.Stop()
	assert.NoError(t, acc.Start())
	assert.Empty(t, acc.Addr())
}

func TestNewAcceptor_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewAcceptor(config.TelnetConfig{}, nil, zaptest.NewLogger(t)) })
	r := newRoom()
	assert.Panics(t, func() {
		NewAcceptor(config.TelnetConfig{}, NewChatHandler(r.engine, r.hub, r.names, 0, zap.NewNop()), nil)
	})
}
