package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is the NATS subject of the shared chat room.
const DefaultSubject = "mech.room"

// NatsBroadcaster is a Broadcaster backed by an embedded NATS server, so
// transports in other processes can join the room by subscribing to the
// subject.
type NatsBroadcaster struct {
	ns   *server.Server
	conn *nats.Conn

	startupTimeout time.Duration
	host           string
	port           int
	subject        string
	logger         *zap.Logger

	mu sync.Mutex
}

// NatsOpt configures a NatsBroadcaster.
type NatsOpt func(*NatsBroadcaster)

// WithStartTimeout sets how long Open waits for the server to accept clients.
func WithStartTimeout(d time.Duration) NatsOpt {
	return func(n *NatsBroadcaster) { n.startupTimeout = d }
}

// WithHost sets the listen host of the embedded server.
func WithHost(host string) NatsOpt {
	return func(n *NatsBroadcaster) { n.host = host }
}

// WithPort sets the listen port of the embedded server; -1 picks a free port.
func WithPort(port int) NatsOpt {
	return func(n *NatsBroadcaster) { n.port = port }
}

// WithSubject sets the subject lines are published on.
func WithSubject(subject string) NatsOpt {
	return func(n *NatsBroadcaster) { n.subject = subject }
}

// NewNatsBroadcaster configures an embedded NATS server. Call Open before use.
//
// Precondition: logger must be non-nil.
func NewNatsBroadcaster(logger *zap.Logger, opts ...NatsOpt) (*NatsBroadcaster, error) {
	if logger == nil {
		panic("chat.NewNatsBroadcaster: logger must not be nil")
	}
	n := &NatsBroadcaster{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           server.RANDOM_PORT,
		subject:        DefaultSubject,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	ns, err := server.NewServer(&server.Options{
		Host:   n.host,
		Port:   n.port,
		NoSigs: true,
		NoLog:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	n.ns = ns
	return n, nil
}

// Open starts the embedded server and connects the publishing client.
//
// Postcondition: Returns nil once Send and Subscribe are usable.
func (n *NatsBroadcaster) Open() error {
	n.ns.Start()
	if !n.ns.ReadyForConnections(n.startupTimeout) {
		n.ns.Shutdown()
		return fmt.Errorf("nats server not ready for connections")
	}
	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	n.logger.Info("nats broadcaster listening",
		zap.String("url", n.ns.ClientURL()),
		zap.String("subject", n.subject),
	)
	return nil
}

// ClientURL returns the URL other processes connect to.
func (n *NatsBroadcaster) ClientURL() string { return n.ns.ClientURL() }

// Subject returns the subject lines are published on.
func (n *NatsBroadcaster) Subject() string { return n.subject }

func (n *NatsBroadcaster) client() *nats.Conn {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.conn
}

// Send publishes line on the room subject. Publish errors are logged.
func (n *NatsBroadcaster) Send(line string) {
	conn := n.client()
	if conn == nil {
		n.logger.Warn("nats broadcaster not open, line dropped", zap.String("line", line))
		return
	}
	if err := conn.Publish(n.subject, []byte(line)); err != nil {
		n.logger.Warn("publishing line", zap.Error(err))
	}
}

// Subscribe delivers every line published on the room subject to fn.
func (n *NatsBroadcaster) Subscribe(fn func(line string)) (func(), error) {
	conn := n.client()
	if conn == nil {
		return nil, fmt.Errorf("nats broadcaster not open")
	}
	sub, err := conn.Subscribe(n.subject, func(msg *nats.Msg) {
		fn(string(msg.Data))
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", n.subject, err)
	}
	if err := conn.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return nil, fmt.Errorf("flushing subscription: %w", err)
	}
	var once sync.Once
	return func() {
		once.Do(func() { _ = sub.Unsubscribe() })
	}, nil
}

// Close drains the client and shuts the server down.
func (n *NatsBroadcaster) Close() {
	n.mu.Lock()
	conn := n.conn
	n.conn = nil
	n.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	n.ns.Shutdown()
	n.ns.WaitForShutdown()
}
