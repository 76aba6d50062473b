package telnet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/chat"
)

// Submitter queues a chat line for the game engine.
type Submitter interface {
	Submit(ctx context.Context, name, text string) error
}

// maxNameAttempts bounds how often a client may be asked for a name.
const maxNameAttempts = 3

// ChatHandler joins each Telnet client to the shared chat room. After the
// client picks a display name, every room line is written to it and every
// line it types is relayed to the room and submitted to the engine.
type ChatHandler struct {
	engine    Submitter
	room      chat.Broadcaster
	names     *chat.Names
	wrapWidth int
	logger    *zap.Logger
}

// NewChatHandler creates a ChatHandler.
//
// Precondition: engine, room, names and logger must be non-nil; wrapWidth <= 0
// disables wrapping.
func NewChatHandler(engine Submitter, room chat.Broadcaster, names *chat.Names, wrapWidth int, logger *zap.Logger) *ChatHandler {
	if engine == nil || room == nil || names == nil || logger == nil {
		panic("telnet.NewChatHandler: engine, room, names and logger must not be nil")
	}
	return &ChatHandler{
		engine:    engine,
		room:      room,
		names:     names,
		wrapWidth: wrapWidth,
		logger:    logger,
	}
}

// HandleSession runs one client from the name prompt until it disconnects
// or ctx is cancelled.
func (h *ChatHandler) HandleSession(ctx context.Context, conn *Conn) error {
	if err := conn.WriteLine(Colorize(Bold, "Welcome aboard. Type 'join' to pilot the robot, 'help' for commands.")); err != nil {
		return err
	}
	name, err := h.claimName(conn)
	if err != nil {
		return err
	}
	defer h.names.Release(name)
	logger := h.logger.With(zap.String("name", name), zap.String("remote_addr", conn.RemoteAddr().String()))

	unsubscribe, err := h.room.Subscribe(func(line string) {
		if err := conn.WriteLine(h.render(line)); err != nil {
			logger.Debug("writing room line", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to room: %w", err)
	}
	defer unsubscribe()
	logger.Info("participant entered the room")

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return nil
		}
		text := strings.TrimSpace(StripANSI(line))
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "quit") {
			_ = conn.WriteLine("Goodbye.")
			return nil
		}
		h.room.Send(chat.RelayLine(name, text))
		if err := h.engine.Submit(ctx, name, text); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("submitting line: %w", err)
		}
	}
}

// claimName prompts until the client picks a valid name no other session
// holds.
func (h *ChatHandler) claimName(conn *Conn) (string, error) {
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		if err := conn.WritePrompt("What is your name? "); err != nil {
			return "", err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return "", err
		}
		name := strings.TrimSpace(line)
		if !chat.ValidName(name) {
			_ = conn.WriteLine("Names are 1-24 letters, digits, '-' or '_'.")
			continue
		}
		if !h.names.Claim(name) {
			_ = conn.WriteLine(fmt.Sprintf("Someone called %s is already here.", name))
			continue
		}
		return name, nil
	}
	_ = conn.WriteLine("Goodbye.")
	return "", fmt.Errorf("no valid name after %d attempts", maxNameAttempts)
}

// render colors a room line for the terminal. Relayed chat only gets a bold
// speaker, so participants cannot dress their text up as game events.
func (h *ChatHandler) render(line string) string {
	if name, text, ok := chat.SplitRelay(line); ok {
		line = Colorize(Bold, name+":") + " " + text
	} else {
		line = Style(line)
	}
	if h.wrapWidth > 0 {
		line = wordwrap.String(line, h.wrapWidth)
	}
	return line
}
