package gameserver

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/adventuremech/internal/game/action"
	"github.com/cory-johannsen/adventuremech/internal/game/command"
	"github.com/cory-johannsen/adventuremech/internal/game/entity"
	"github.com/cory-johannsen/adventuremech/internal/game/mech"
	"github.com/cory-johannsen/adventuremech/internal/game/player"
	"github.com/cory-johannsen/adventuremech/internal/game/world"
)

// PlayerAttackPower is the damage the mech deals per stomp.
const PlayerAttackPower = 20

// PlayerAttackSeconds is the cooldown between stomps.
const PlayerAttackSeconds = 3

// Sender delivers one outbound line to the shared chat room.
type Sender interface {
	Send(line string)
}

// Options tunes the rules of a World.
type Options struct {
	// RobotName overrides the robot name from the content file when set.
	RobotName string
	// TicksPerSecond converts second-based durations to ticks.
	TicksPerSecond int
	// RepairPerLevel is the health restored per level of the repairing player.
	RepairPerLevel int
	// RepairSeconds is how long a repair takes.
	RepairSeconds int
	// ReplyUnknown answers unrecognized commands instead of ignoring them.
	ReplyUnknown bool
}

// World is the root aggregate of the adventure: the room graph, the active
// entities, the players and the mech they share.
//
// World is not safe for concurrent use. Engine serializes every call.
type World struct {
	graph        *world.Graph
	descriptions map[int]string
	entities     *entity.Set
	players      *player.Roster
	mech         *mech.Mech
	registry     *command.Registry
	out          Sender
	logger       *zap.Logger
	opts         Options
	durations    player.Durations
	ticks        uint64
}

// NewWorld assembles a World from loaded content and spawned entities.
//
// Precondition: content, out and logger must be non-nil; opts.TicksPerSecond >= 1.
// Postcondition: Returns a World at tick 0 positioned at the content start room.
func NewWorld(content *world.Content, entities []entity.Entity, out Sender, logger *zap.Logger, opts Options) *World {
	if content == nil || out == nil || logger == nil {
		panic("gameserver.NewWorld: content, out and logger must not be nil")
	}
	if opts.TicksPerSecond < 1 {
		panic("gameserver.NewWorld: TicksPerSecond must be >= 1")
	}
	name := opts.RobotName
	if name == "" {
		name = content.RobotName
	}
	set := entity.NewSet()
	for _, e := range entities {
		if !set.Add(e) {
			logger.Warn("duplicate entity id", zap.String("id", e.ID()), zap.String("name", e.Name()))
		}
	}
	repairSeconds := opts.RepairSeconds
	if repairSeconds < 1 {
		repairSeconds = 1
	}
	return &World{
		graph:        content.Graph,
		descriptions: content.Descriptions,
		entities:     set,
		players:      player.NewRoster(),
		mech:         mech.New(name),
		registry:     command.DefaultRegistry(),
		out:          out,
		logger:       logger,
		opts:         opts,
		durations: player.Durations{
			Attack: uint64(PlayerAttackSeconds * opts.TicksPerSecond),
			Repair: uint64(repairSeconds * opts.TicksPerSecond),
		},
	}
}

// Ticks returns the number of ticks processed so far.
func (w *World) Ticks() uint64 { return w.ticks }

// Position returns the room the party occupies.
func (w *World) Position() int { return w.graph.Position() }

// Mech returns the shared robot.
func (w *World) Mech() *mech.Mech { return w.mech }

// Entities returns the active entity set.
func (w *World) Entities() *entity.Set { return w.entities }

// GetPlayer returns the joined player with the given chat name.
func (w *World) GetPlayer(name string) (*player.Player, bool) {
	return w.players.Get(name)
}

// Players returns every joined player in join order.
func (w *World) Players() []*player.Player { return w.players.All() }

// Tick advances the simulation by one tick: every active entity in insertion
// order, then each player's attack and repair actions.
//
// Postcondition: Ticks() has increased by exactly one. An entity removed
// earlier in the same tick is not updated.
func (w *World) Tick() {
	w.ticks++
	for _, e := range w.entities.All() {
		if !w.entities.Contains(e.ID()) {
			continue
		}
		e.Update(w, w.ticks)
	}
	for _, p := range w.players.All() {
		p.AttackAction().Update(w.ticks, w)
		p.RepairAction().Update(w.ticks, w)
	}
}

// Send broadcasts one line to the chat room.
func (w *World) Send(line string) {
	w.out.Send(line)
}

// PartyRoom returns the room the party occupies.
func (w *World) PartyRoom() int { return w.graph.Position() }

// DamageMech applies an enemy attack to the mech and reports the result.
func (w *World) DamageMech(text string, power int) {
	remaining, destroyed := w.mech.Damage(power)
	if destroyed {
		w.Send(fmt.Sprintf("%s You lose %d health. You have zero health.", text, power))
		w.Send(w.mech.Name() + " explodes. Bits of robot are all over the place.")
		w.logger.Info("mech destroyed", zap.Uint64("tick", w.ticks))
		return
	}
	w.Send(fmt.Sprintf("%s You lose %d health (%d health remaining).", text, power, remaining))
}

// AttackTarget stomps on target on behalf of owner.
//
// Postcondition: Returns true when the owner's attack should stop. A target
// already removed from the world ends the attack silently.
func (w *World) AttackTarget(owner action.Owner, target entity.Entity) bool {
	if !w.entities.Contains(target.ID()) {
		return true
	}
	w.Send(fmt.Sprintf("%s commands %s to stomp on the %s.",
		owner.FormalIdentifier(), w.mech.Name(), target.Name()))
	out := target.OnAttacked(w, PlayerAttackPower)
	if !out.Dead {
		return false
	}
	w.entities.Remove(target.ID())
	w.logger.Info("entity killed",
		zap.String("entity", target.Name()),
		zap.Int("xp", out.XP),
		zap.Uint64("tick", w.ticks),
	)
	w.GainXP(out.XP)
	return true
}

// RepairMech completes a repair by owner: the mech regains health scaled by
// the owner's level, never beyond its maximum. The owner's level is left
// unchanged; only kills raise levels.
func (w *World) RepairMech(owner action.Owner) {
	applied := w.mech.Repair(w.repairAmount(owner))
	w.Send(fmt.Sprintf("%s finishes repairing %s, restoring %d health (%d health remaining).",
		owner.FormalIdentifier(), w.mech.Name(), applied, w.mech.Health()))
}

func (w *World) repairAmount(owner action.Owner) int {
	return w.opts.RepairPerLevel * owner.Level()
}

// GainXP awards n experience to every player and announces level-ups.
func (w *World) GainXP(n int) {
	for _, p := range w.players.All() {
		if p.GainXP(n) {
			w.Send(fmt.Sprintf("%s is now level %d.", p.FormalIdentifier(), p.Level()))
		}
	}
}
