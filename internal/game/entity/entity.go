// Package entity provides the enemies and NPCs that populate rooms, their
// scripted combat behavior, and the ordered set of active entities.
package entity

import "fmt"

// Context is the slice of the world an entity may observe or change.
// The world passes itself as the Context on every hook call.
type Context interface {
	// Send broadcasts one line to everyone in the shared chat room.
	Send(line string)
	// PartyRoom returns the room the party currently occupies.
	PartyRoom() int
	// DamageMech applies an enemy attack to the mech.
	DamageMech(text string, power int)
}

// Outcome reports the result of an attack on an entity.
type Outcome struct {
	// Dead is true when the attack reduced the entity's health to zero or below;
	// the caller must remove it from the active set.
	Dead bool
	// XP is the experience awarded to the party for the kill.
	XP int
}

// Entity is the capability set shared by every entity kind.
// Callers dispatch through this interface only, so new kinds (for example
// enemies that pursue the party) need no caller changes.
type Entity interface {
	// ID uniquely identifies this runtime instance.
	ID() string
	// Name is the display name, also used to target the entity.
	Name() string
	// RoomID is the room the entity occupies.
	RoomID() int
	// Health is the remaining health, never below zero.
	Health() int
	// DetailedLook is the text shown by "look <name>".
	DetailedLook() string

	// Update advances the entity by one tick.
	Update(ctx Context, tick uint64)
	// OnAttacked applies power damage to the entity.
	OnAttacked(ctx Context, power int) Outcome
	// OnPlayerEnteredRoom is called when the party arrives in the entity's room.
	OnPlayerEnteredRoom(ctx Context)
	// OnPlayerLeftRoom is called when the party leaves the entity's room.
	OnPlayerLeftRoom(ctx Context)
}

// Base carries the attributes every entity kind has and no-op hooks that
// kinds override as needed.
type Base struct {
	id     string
	name   string
	roomID int
	health int
	look   string
}

// NewBase creates the shared entity state.
//
// Precondition: id and name must be non-empty; health must be > 0.
func NewBase(id, name string, roomID, health int, look string) Base {
	return Base{id: id, name: name, roomID: roomID, health: health, look: look}
}

func (b *Base) ID() string           { return b.id }
func (b *Base) Name() string         { return b.name }
func (b *Base) RoomID() int          { return b.roomID }
func (b *Base) DetailedLook() string { return b.look }

// Health returns the remaining health, floored at zero.
func (b *Base) Health() int {
	if b.health < 0 {
		return 0
	}
	return b.health
}

// takeDamage subtracts power and reports whether the entity is now dead.
func (b *Base) takeDamage(power int) bool {
	b.health -= power
	return b.health <= 0
}

func (b *Base) Update(Context, uint64)      {}
func (b *Base) OnPlayerEnteredRoom(Context) {}
func (b *Base) OnPlayerLeftRoom(Context)    {}

// NPC is a generic, passive entity. It can be hurt and killed but never
// fights back and awards no experience.
type NPC struct {
	Base
}

// NewNPC creates a passive NPC.
//
// Precondition: id and name must be non-empty; health must be > 0.
func NewNPC(id, name string, roomID, health int, look string) *NPC {
	return &NPC{Base: NewBase(id, name, roomID, health, look)}
}

// OnAttacked applies damage and announces the NPC's state.
func (n *NPC) OnAttacked(ctx Context, power int) Outcome {
	if n.takeDamage(power) {
		ctx.Send("The " + n.name + " is dead.")
		return Outcome{Dead: true}
	}
	ctx.Send(fmt.Sprintf("The %s loses %d health (%d remaining).", n.name, power, n.Health()))
	return Outcome{}
}
