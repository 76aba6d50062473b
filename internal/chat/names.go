package chat

import (
	"regexp"
	"strings"
	"sync"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,24}$`)

// ValidName reports whether name is usable as a display name: 1-24 letters,
// digits, '-' or '_'.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// RelayLine formats text typed by a participant for the shared room.
func RelayLine(name, text string) string {
	return name + ": " + text
}

// SplitRelay reports whether line was typed by a participant and, if so,
// splits it into the speaker and the text. Game lines never start with a
// display name followed by ": ".
func SplitRelay(line string) (name, text string, ok bool) {
	name, text, ok = strings.Cut(line, ": ")
	if !ok || !ValidName(name) {
		return "", "", false
	}
	return name, text, true
}

// Names tracks the display names in use across every transport, so two
// connections never speak as the same participant.
type Names struct {
	mu    sync.Mutex
	inUse map[string]struct{}
}

// NewNames creates an empty registry.
func NewNames() *Names {
	return &Names{inUse: make(map[string]struct{})}
}

// Claim reserves name.
//
// Postcondition: Returns false if name is already held.
func (n *Names) Claim(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.inUse[name]; ok {
		return false
	}
	n.inUse[name] = struct{}{}
	return true
}

// Release frees name for reuse.
func (n *Names) Release(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.inUse, name)
}
