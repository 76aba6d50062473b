// Package mech provides the shared robot the party pilots together.
package mech

import (
	"fmt"

	"github.com/cory-johannsen/adventuremech/internal/game/player"
)

// Part identifies one of the mech's body parts.
type Part int

const (
	Legs Part = iota
	Arms
	Head
	PartCount
)

var partNames = [PartCount]string{"legs", "arms", "head"}

// AllParts lists the body parts in assignment tie-break order.
var AllParts = [PartCount]Part{Legs, Arms, Head}

// Valid reports whether p names a body part.
func (p Part) Valid() bool { return p >= Legs && p < PartCount }

// String returns the part name.
//
// Precondition: p must be valid; panics otherwise.
func (p Part) String() string {
	if !p.Valid() {
		panic(fmt.Sprintf("mech.Part: invalid part %d", int(p)))
	}
	return partNames[p]
}

// DefaultHealth is the starting and maximum health of the mech and of each part.
const DefaultHealth = 100

// BodyPart is a piloted section of the mech.
type BodyPart struct {
	health int
	pilots []*player.Player
}

// Health returns the part's own health. Parts are never damaged individually.
func (b *BodyPart) Health() int { return b.health }

// Mech is the robot shared by every player.
//
// Invariant: 0 <= Health() <= MaxHealth().
type Mech struct {
	name      string
	parts     [PartCount]*BodyPart
	health    int
	maxHealth int
}

// New creates a mech at full health with no pilots.
//
// Precondition: name must be non-empty.
func New(name string) *Mech {
	if name == "" {
		panic("mech.New: name must not be empty")
	}
	m := &Mech{name: name, health: DefaultHealth, maxHealth: DefaultHealth}
	for i := range m.parts {
		m.parts[i] = &BodyPart{health: DefaultHealth}
	}
	return m
}

func (m *Mech) Name() string       { return m.name }
func (m *Mech) Health() int        { return m.health }
func (m *Mech) MaxHealth() int     { return m.maxHealth }
func (m *Mech) IsFullHealth() bool { return m.health >= m.maxHealth }

// Part returns the body part p.
//
// Precondition: p must be valid; panics otherwise.
func (m *Mech) Part(p Part) *BodyPart {
	if !p.Valid() {
		panic(fmt.Sprintf("mech.Part: invalid part %d", int(p)))
	}
	return m.parts[p]
}

// AddPilot assigns pl to part p. Adding the same player to the same part
// twice has no effect. A player is not removed from any other part.
func (m *Mech) AddPilot(p Part, pl *player.Player) {
	bp := m.Part(p)
	for _, existing := range bp.pilots {
		if existing == pl {
			return
		}
	}
	bp.pilots = append(bp.pilots, pl)
}

// Pilots returns the players piloting part p in assignment order.
func (m *Mech) Pilots(p Part) []*player.Player {
	bp := m.Part(p)
	out := make([]*player.Player, len(bp.pilots))
	copy(out, bp.pilots)
	return out
}

// PartOf returns the first part pl pilots.
func (m *Mech) PartOf(pl *player.Player) (Part, bool) {
	for _, p := range AllParts {
		for _, existing := range m.parts[p].pilots {
			if existing == pl {
				return p, true
			}
		}
	}
	return Legs, false
}

// LeastPopulousPart returns the part with the fewest pilots, preferring
// legs, then arms, then head on ties.
func (m *Mech) LeastPopulousPart() Part {
	best := Legs
	for _, p := range AllParts[1:] {
		if len(m.parts[p].pilots) < len(m.parts[best].pilots) {
			best = p
		}
	}
	return best
}

// Damage lowers the mech's health by power.
//
// Postcondition: health is floored at zero; destroyed is true when health is zero.
func (m *Mech) Damage(power int) (remaining int, destroyed bool) {
	m.health -= power
	if m.health < 0 {
		m.health = 0
	}
	return m.health, m.health == 0
}

// Repair raises the mech's health by up to amount and returns the amount applied.
//
// Postcondition: health never exceeds MaxHealth.
func (m *Mech) Repair(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := m.health
	m.health += amount
	if m.health > m.maxHealth {
		m.health = m.maxHealth
	}
	return m.health - before
}
