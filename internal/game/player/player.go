// Package player provides mech pilots: ranks, experience, leveling, and the
// roster of joined players.
package player

import (
	"github.com/cory-johannsen/adventuremech/internal/game/action"
)

// ranks maps a level to its title. Index 0 is unused by joined players,
// who start at level 1.
var ranks = [...]string{"noob", "grunt", "veteran", "commander", "master chief"}

// TopRank is the title of any level beyond the rank table.
const TopRank = "big boss"

// Title returns the rank title for level.
//
// Postcondition: Returns TopRank for levels outside the rank table.
func Title(level int) string {
	if level < 0 || level >= len(ranks) {
		return TopRank
	}
	return ranks[level]
}

// XPRequiredForLevel returns the experience a player must exceed to leave level.
func XPRequiredForLevel(level int) int {
	return 100
}

// Player is a chat participant piloting part of the mech.
type Player struct {
	name   string
	level  int
	xp     int
	attack *action.Attack
	repair *action.Repair
}

// Durations are the tick lengths of a player's actions.
type Durations struct {
	Attack uint64
	Repair uint64
}

// New creates a level 1 player with idle actions.
//
// Precondition: name must be non-empty; both durations > 0.
func New(name string, d Durations) *Player {
	if name == "" {
		panic("player.New: name must not be empty")
	}
	p := &Player{name: name, level: 1}
	p.attack = action.NewAttack(p, d.Attack)
	p.repair = action.NewRepair(p, d.Repair)
	return p
}

func (p *Player) Name() string                 { return p.name }
func (p *Player) Level() int                   { return p.level }
func (p *Player) XP() int                      { return p.xp }
func (p *Player) AttackAction() *action.Attack { return p.attack }
func (p *Player) RepairAction() *action.Repair { return p.repair }
func (p *Player) Title() string                { return Title(p.level) }
func (p *Player) FormalIdentifier() string     { return p.Title() + " " + p.name }

// GainXP adds n experience and reports whether the player leveled up.
//
// Postcondition: on level-up level increases by one and xp resets to zero;
// surplus experience is discarded.
func (p *Player) GainXP(n int) bool {
	p.xp += n
	if p.xp > XPRequiredForLevel(p.level) {
		p.level++
		p.xp = 0
		return true
	}
	return false
}

// CancelActions idles every action the player owns.
func (p *Player) CancelActions() {
	p.attack.Cancel()
	p.repair.Cancel()
}

// Roster holds joined players in join order.
//
// Roster is not safe for concurrent use.
type Roster struct {
	order  []*Player
	byName map[string]*Player
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{byName: make(map[string]*Player)}
}

// Add registers p.
//
// Postcondition: Returns false, leaving the roster unchanged, when a player
// with the same name already joined.
func (r *Roster) Add(p *Player) bool {
	if _, ok := r.byName[p.name]; ok {
		return false
	}
	r.byName[p.name] = p
	r.order = append(r.order, p)
	return true
}

// Get returns the player registered under name.
func (r *Roster) Get(name string) (*Player, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// All returns the players in join order.
func (r *Roster) All() []*Player {
	out := make([]*Player, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of joined players.
func (r *Roster) Len() int { return len(r.order) }
