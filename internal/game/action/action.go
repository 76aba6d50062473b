// Package action provides the tick-counted actions a player can arm: a
// repeating attack and a one-shot mech repair.
package action

import "github.com/cory-johannsen/adventuremech/internal/game/entity"

// Kind identifies what an action does when it fires.
// The zero value (KindUnknown) is intentionally invalid.
type Kind int

const (
	KindUnknown Kind = iota
	KindAttack
	KindRepair
)

// String returns the human-readable name of the Kind.
// Postcondition: returns "attack", "repair", or "unknown".
func (k Kind) String() string {
	switch k {
	case KindAttack:
		return "attack"
	case KindRepair:
		return "repair"
	default:
		return "unknown"
	}
}

// Owner is the player an action belongs to.
type Owner interface {
	// FormalIdentifier is the rank title followed by the player name.
	FormalIdentifier() string
	// Level is the player's current level.
	Level() int
}

// Resolver applies the effect of a fired action to the world.
type Resolver interface {
	// AttackTarget strikes target on behalf of owner.
	//
	// Postcondition: Returns true when the attack should stop, because the
	// target died or is no longer active.
	AttackTarget(owner Owner, target entity.Entity) bool
	// RepairMech completes a repair started by owner.
	RepairMech(owner Owner)
}

// Timed is the Idle/Active state machine shared by every action kind.
// Durations are counted in world ticks, never wall-clock time.
//
// Invariant: an active action fires at most once per Duration ticks.
type Timed struct {
	kind     Kind
	duration uint64
	repeat   bool
	active   bool
	last     uint64
}

// NewTimed creates an idle action that has never fired.
//
// Precondition: duration > 0.
func NewTimed(kind Kind, duration uint64, repeat bool) Timed {
	if duration == 0 {
		panic("action.NewTimed: duration must be > 0")
	}
	return Timed{kind: kind, duration: duration, repeat: repeat}
}

func (t *Timed) Kind() Kind             { return t.kind }
func (t *Timed) Duration() uint64       { return t.duration }
func (t *Timed) Repeat() bool           { return t.repeat }
func (t *Timed) Active() bool           { return t.active }
func (t *Timed) LastActivation() uint64 { return t.last }

// Activate arms the action keeping its clock, so an action whose duration has
// already elapsed since it last fired will fire on the next tick.
func (t *Timed) Activate() { t.active = true }

// Start arms the action and restarts its clock at tick, so it fires
// Duration ticks from now.
func (t *Timed) Start(tick uint64) {
	t.active = true
	t.last = tick
}

// Cancel returns the action to Idle.
func (t *Timed) Cancel() { t.active = false }

// ready reports whether the action fires at tick.
func (t *Timed) ready(tick uint64) bool {
	return t.active && tick >= t.last && tick-t.last >= t.duration
}

// fire records the activation; a non-repeating action goes Idle.
func (t *Timed) fire(tick uint64) {
	t.last = tick
	if !t.repeat {
		t.active = false
	}
}
