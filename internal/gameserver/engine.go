package gameserver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrEngineStopped is returned by Submit and Inspect once Run has returned.
var ErrEngineStopped = errors.New("gameserver: engine stopped")

// DefaultInboxSize bounds the number of chat lines waiting for the engine.
const DefaultInboxSize = 64

type request struct {
	name string
	text string
	// fn, when set, runs on the engine goroutine instead of a chat line.
	fn   func(*World)
	done chan struct{}
}

// Engine owns a World and is its only serialization boundary: ticks and chat
// commands run on a single goroutine and never interleave.
type Engine struct {
	world    *World
	interval time.Duration
	inbox    chan request
	stopped  chan struct{}
	logger   *zap.Logger
}

// NewEngine wraps w with a tick loop firing every interval.
//
// Precondition: w and logger must be non-nil; interval must be > 0.
func NewEngine(w *World, interval time.Duration, logger *zap.Logger) *Engine {
	if w == nil || logger == nil {
		panic("gameserver.NewEngine: world and logger must not be nil")
	}
	if interval <= 0 {
		panic("gameserver.NewEngine: interval must be > 0")
	}
	return &Engine{
		world:    w,
		interval: interval,
		inbox:    make(chan request, DefaultInboxSize),
		stopped:  make(chan struct{}),
		logger:   logger,
	}
}

// Run processes ticks and queued commands until ctx is cancelled.
// Run must be called at most once.
//
// Postcondition: Returns ctx.Err(); Submit and Inspect fail with
// ErrEngineStopped afterwards.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.stopped)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.logger.Info("engine started", zap.Duration("interval", e.interval))
	for {
		select {
		case <-ctx.Done():
			e.logger.Info("engine stopped", zap.Uint64("ticks", e.world.Ticks()))
			return ctx.Err()
		case <-ticker.C:
			e.world.Tick()
		case req := <-e.inbox:
			e.handle(req)
		}
	}
}

func (e *Engine) handle(req request) {
	if req.fn != nil {
		req.fn(e.world)
		close(req.done)
		return
	}
	e.world.HandleMessage(req.name, req.text)
}

// Submit queues a chat line from name.
//
// Postcondition: Returns nil once queued, ctx.Err() if ctx ends first, or
// ErrEngineStopped when the engine is no longer running.
func (e *Engine) Submit(ctx context.Context, name, text string) error {
	return e.enqueue(ctx, request{name: name, text: text})
}

// Inspect runs fn on the engine goroutine with exclusive access to the World
// and waits for it to finish.
func (e *Engine) Inspect(ctx context.Context, fn func(*World)) error {
	done := make(chan struct{})
	if err := e.enqueue(ctx, request{fn: fn, done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return ErrEngineStopped
	}
}

func (e *Engine) enqueue(ctx context.Context, req request) error {
	select {
	case <-e.stopped:
		return ErrEngineStopped
	default:
	}
	select {
	case e.inbox <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return ErrEngineStopped
	}
}
