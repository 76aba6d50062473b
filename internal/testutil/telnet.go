// Package testutil provides test helpers for driving the chat transports.
package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/cory-johannsen/adventuremech/internal/frontend/telnet"
)

// TelnetClient is a Telnet chat participant for integration tests. Output is
// matched with ANSI colors stripped.
type TelnetClient struct {
	conn net.Conn
	t    *testing.T
	seen strings.Builder
}

// NewTelnetClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected TelnetClient or fails the test.
func NewTelnetClient(t *testing.T, addr string) *TelnetClient {
	t.Helper()
	start := time.Now()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v [%s]", addr, err, time.Since(start))
	}
	t.Cleanup(func() { conn.Close() })

	t.Logf("telnet client connected to %s [%s]", addr, time.Since(start))
	return &TelnetClient{conn: conn, t: t}
}

// ReadUntil reads until the plain text received since the previous match
// contains substr, and returns that text. Output after the match is kept for
// the next call.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output through substr, or fails on timeout.
func (c *TelnetClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	tmp := make([]byte, 1024)
	for {
		text := c.seen.String()
		if i := strings.Index(text, substr); i >= 0 {
			end := i + len(substr)
			c.seen.Reset()
			c.seen.WriteString(text[end:])
			return text[:end]
		}
		n, err := c.conn.Read(tmp)
		if n > 0 {
			c.seen.WriteString(telnet.StripANSI(string(filterCommands(tmp[:n]))))
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, c.seen.String(), err)
		}
	}
}

// filterCommands drops the three-byte IAC negotiations the server sends.
func filterCommands(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == telnet.IAC && i+2 < len(b) {
			i += 2
			continue
		}
		out = append(out, b[i])
	}
	return out
}

// Send writes a line of text to the server, appending \r\n.
//
// Precondition: text should not contain trailing newline characters.
func (c *TelnetClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if _, err := fmt.Fprintf(c.conn, "%s\r\n", text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the underlying connection.
func (c *TelnetClient) Close() {
	c.conn.Close()
}
