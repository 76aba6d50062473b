package command

import (
	"regexp"
	"strings"

	"github.com/cory-johannsen/adventuremech/internal/game/world"
)

// Invocation is a parsed chat line.
type Invocation struct {
	// Handler is one of the Handler* identifiers.
	Handler string
	// Direction is set for HandlerMove.
	Direction world.Direction
	// Target is the optional lowercased argument of look and attack.
	Target string
}

var (
	movePattern = regexp.MustCompile(
		`^(?:go\s+)?(` + strings.Join(world.DirectionTokens(), "|") + `)$`)
	lookPattern   = regexp.MustCompile(`^look(?:\s+(?:at\s+)?(\S+))?$`)
	attackPattern = regexp.MustCompile(`^attack(?:\s+(\S+))?$`)
)

// Normalize trims and lowercases a chat line.
func Normalize(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

// Parse matches a chat line against the command grammar. Every pattern must
// match the whole line, so "status" is never read as a move south.
//
// Postcondition: Returns (inv, true) for a recognized command; (zero, false)
// otherwise.
func (r *Registry) Parse(line string) (Invocation, bool) {
	text := Normalize(line)
	if text == "" {
		return Invocation{}, false
	}
	if m := movePattern.FindStringSubmatch(text); m != nil {
		return Invocation{Handler: HandlerMove, Direction: world.ParseDirection(m[1])}, true
	}
	if m := lookPattern.FindStringSubmatch(text); m != nil {
		return Invocation{Handler: HandlerLook, Target: m[1]}, true
	}
	if m := attackPattern.FindStringSubmatch(text); m != nil {
		return Invocation{Handler: HandlerAttack, Target: m[1]}, true
	}
	cmd, ok := r.Resolve(text)
	if !ok || cmd.Usage != "" || cmd.Category == CategoryMovement {
		return Invocation{}, false
	}
	return Invocation{Handler: cmd.Handler}, true
}
