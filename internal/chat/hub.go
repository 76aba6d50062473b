// Package chat carries the lines of the shared chat room between the game
// engine and the connected participants.
package chat

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Broadcaster fans one outbound line out to every subscriber.
type Broadcaster interface {
	// Send publishes line to every current subscriber. It never blocks on a
	// slow subscriber.
	Send(line string)
	// Subscribe registers fn to receive every line sent after it returns.
	// Lines reach a subscriber in the order they were sent.
	//
	// Postcondition: Returns an unsubscribe function that is safe to call
	// more than once.
	Subscribe(fn func(line string)) (unsubscribe func(), err error)
}

// DefaultBufferSize is the number of lines a slow subscriber may lag behind
// before lines are dropped for it.
const DefaultBufferSize = 256

type subscriber struct {
	ch   chan string
	done chan struct{}
}

// Hub is the in-process Broadcaster. Each subscriber has a buffered queue
// drained by its own goroutine; a full queue drops the line for that
// subscriber only.
type Hub struct {
	mu      sync.Mutex
	subs    map[*subscriber]struct{}
	bufSize int
	dropped atomic.Uint64
	logger  *zap.Logger
}

// NewHub creates an empty Hub.
//
// Precondition: logger must be non-nil; bufSize <= 0 uses DefaultBufferSize.
func NewHub(bufSize int, logger *zap.Logger) *Hub {
	if logger == nil {
		panic("chat.NewHub: logger must not be nil")
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Hub{subs: make(map[*subscriber]struct{}), bufSize: bufSize, logger: logger}
}

// Send queues line for every subscriber without blocking.
func (h *Hub) Send(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- line:
		default:
			h.dropped.Add(1)
			h.logger.Debug("subscriber queue full, line dropped", zap.String("line", line))
		}
	}
}

// Subscribe starts delivering lines to fn on a dedicated goroutine.
func (h *Hub) Subscribe(fn func(line string)) (func(), error) {
	s := &subscriber{ch: make(chan string, h.bufSize), done: make(chan struct{})}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	go func() {
		for {
			select {
			case line := <-s.ch:
				fn(line)
			case <-s.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, s)
			h.mu.Unlock()
			close(s.done)
		})
	}, nil
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Dropped returns the number of lines dropped for slow subscribers.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }
