package chat_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/chat"
)

// collector is a thread-safe subscriber callback.
type collector struct {
	mu    sync.Mutex
	lines []string
}

func (c *collector) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *collector) waitFor(t *testing.T, n int) []string {
	t.Helper()
	require.Eventually(t, func() bool { return len(c.get()) >= n }, 2*time.Second, 5*time.Millisecond)
	return c.get()
}

func TestHub_FanOutInOrder(t *testing.T) {
	hub := chat.NewHub(0, zap.NewNop())
	a, b := &collector{}, &collector{}
	unsubA, err := hub.Subscribe(a.add)
	require.NoError(t, err)
	defer unsubA()
	unsubB, err := hub.Subscribe(b.add)
	require.NoError(t, err)
	defer unsubB()
	assert.Equal(t, 2, hub.Subscribers())

	for _, line := range []string{"one", "two", "three"} {
		hub.Send(line)
	}
	assert.Equal(t, []string{"one", "two", "three"}, a.waitFor(t, 3))
	assert.Equal(t, []string{"one", "two", "three"}, b.waitFor(t, 3))
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := chat.NewHub(0, zap.NewNop())
	c := &collector{}
	unsub, err := hub.Subscribe(c.add)
	require.NoError(t, err)
	hub.Send("before")
	c.waitFor(t, 1)

	unsub()
	unsub()
	assert.Zero(t, hub.Subscribers())
	hub.Send("after")
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []string{"before"}, c.get())
}

func TestHub_SlowSubscriberDropsWithoutBlocking(t *testing.T) {
	hub := chat.NewHub(2, zap.NewNop())
	release := make(chan struct{})
	unsub, err := hub.Subscribe(func(string) { <-release })
	require.NoError(t, err)
	defer func() {
		close(release)
		unsub()
	}()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			hub.Send("line")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked on a slow subscriber")
	}
	assert.Greater(t, hub.Dropped(), uint64(0))
}

func TestHub_NoSubscribers(t *testing.T) {
	hub := chat.NewHub(0, zap.NewNop())
	assert.NotPanics(t, func() { hub.Send("nobody listens") })
}

func TestNewHub_NilLoggerPanics(t *testing.T) {
	assert.Panics(t, func() { chat.NewHub(0, nil) })
}

func TestNatsBroadcaster_RoundTrip(t *testing.T) {
	nb, err := chat.NewNatsBroadcaster(zap.NewNop(), chat.WithPort(-1), chat.WithSubject("test.room"))
	require.NoError(t, err)
	require.NoError(t, nb.Open())
	defer nb.Close()
	assert.Equal(t, "test.room", nb.Subject())
	assert.NotEmpty(t, nb.ClientURL())

	c := &collector{}
	unsub, err := nb.Subscribe(c.add)
	require.NoError(t, err)
	defer unsub()

	for _, line := range []string{"You go north.", "You see a dark corridor", "There is a rat in the room."} {
		nb.Send(line)
	}
	assert.Equal(t, []string{"You go north.", "You see a dark corridor", "There is a rat in the room."}, c.waitFor(t, 3))
}

func TestNatsBroadcaster_NotOpen(t *testing.T) {
	nb, err := chat.NewNatsBroadcaster(zap.NewNop())
	require.NoError(t, err)
	_, err = nb.Subscribe(func(string) {})
	assert.Error(t, err)
	assert.NotPanics(t, func() { nb.Send("dropped") })
}

func TestBroadcasterImplementations(t *testing.T) {
	var _ chat.Broadcaster = chat.NewHub(0, zap.NewNop())
	var _ chat.Broadcaster = (*chat.NatsBroadcaster)(nil)
}

func TestNames(t *testing.T) {
	names := chat.NewNames()
	assert.True(t, names.Claim("alice"))
	assert.False(t, names.Claim("alice"))
	assert.True(t, names.Claim("bob"))
	names.Release("alice")
	assert.True(t, names.Claim("alice"))
}

func TestValidName(t *testing.T) {
	for _, ok := range []string{"alice", "Bob_2", "x-y"} {
		assert.True(t, chat.ValidName(ok), ok)
	}
	for _, bad := range []string{"", "two words", "tab\tname", "aaaaaaaaaaaaaaaaaaaaaaaaa", "émile"} {
		assert.False(t, chat.ValidName(bad), bad)
	}
}

func TestSplitRelay(t *testing.T) {
	name, text, ok := chat.SplitRelay(chat.RelayLine("alice", "the robot commands respect: really"))
	require.True(t, ok)
	assert.Equal(t, "alice", name)
	assert.Equal(t, "the robot commands respect: really", text)

	for _, game := range []string{
		"grunt alice commands Smashing Robot to stomp on the rat.",
		"http://img.example/rat.jpg",
		"Smashing Robot has 100/100 health. Pilots: legs (nobody), arms (nobody), head (nobody).",
		"You can use these commands: look, help.",
	} {
		_, _, ok := chat.SplitRelay(game)
		assert.False(t, ok, game)
	}
}
