package entity

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/adventuremech/internal/game/dice"
)

// Lines holds the flavor text sets an enemy picks from.
type Lines struct {
	Attack []string
	Death  []string
	Enter  []string
	Damage []string
}

// SimpleEnemy is passive until attacked; once aggro it attacks the mech on a
// fixed cooldown for as long as the party stays in its room. It never follows
// the party elsewhere.
type SimpleEnemy struct {
	Base

	lines         Lines
	attackPower   int
	cooldownTicks uint64
	counter       uint64
	aggro         bool
	xp            int
	imageURL      string
	src           dice.Source
}

// EnemyStats are the fixed combat numbers of an enemy.
type EnemyStats struct {
	Health                int
	AttackPower           int
	AttackCooldownSeconds int
	XP                    int
}

// NewSimpleEnemy creates an enemy from its stats and flavor lines.
//
// Precondition: ticksPerSecond >= 1; src must be non-nil.
// Postcondition: The enemy starts passive with a zero attack counter.
func NewSimpleEnemy(id, name string, roomID int, look string, stats EnemyStats, lines Lines, ticksPerSecond int, imageBaseURL string, src dice.Source) *SimpleEnemy {
	if src == nil {
		panic("entity.NewSimpleEnemy: src must not be nil")
	}
	e := &SimpleEnemy{
		Base:          NewBase(id, name, roomID, stats.Health, look),
		lines:         lines,
		attackPower:   stats.AttackPower,
		cooldownTicks: uint64(stats.AttackCooldownSeconds) * uint64(ticksPerSecond),
		xp:            stats.XP,
		src:           src,
	}
	if imageBaseURL != "" {
		urlName := strings.ToLower(strings.ReplaceAll(name, "-", ""))
		e.imageURL = strings.TrimRight(imageBaseURL, "/") + "/" + urlName + ".jpg"
	}
	return e
}

// Aggro reports whether the enemy has been provoked.
func (e *SimpleEnemy) Aggro() bool { return e.aggro }

// AttackPower returns the damage the enemy deals per attack.
func (e *SimpleEnemy) AttackPower() int { return e.attackPower }

// XP returns the experience awarded for killing the enemy.
func (e *SimpleEnemy) XP() int { return e.xp }

// OnAttacked applies damage. A surviving enemy becomes aggro.
//
// Postcondition: Outcome.Dead is true iff health is now <= 0, in which case
// Outcome.XP is the enemy's reward.
func (e *SimpleEnemy) OnAttacked(ctx Context, power int) Outcome {
	if e.takeDamage(power) {
		ctx.Send(dice.Pick(e.src, e.lines.Death))
		ctx.Send(fmt.Sprintf("The %s is dead. You gain %dxp.", e.name, e.xp))
		return Outcome{Dead: true, XP: e.xp}
	}
	ctx.Send(fmt.Sprintf("%s and loses %d health (%d remaining).",
		dice.Pick(e.src, e.lines.Damage), power, e.Health()))
	e.aggro = true
	return Outcome{}
}

// Update counts ticks while aggro and the party shares the enemy's room, and
// attacks the mech each time the cooldown elapses.
//
// Postcondition: Returns with no effect unless aggro and co-located.
func (e *SimpleEnemy) Update(ctx Context, _ uint64) {
	e.attack(ctx)
}

// attack advances the cooldown and reports whether the enemy struck.
func (e *SimpleEnemy) attack(ctx Context) bool {
	if !e.aggro || ctx.PartyRoom() != e.roomID {
		return false
	}
	e.counter++
	if e.counter < e.cooldownTicks {
		return false
	}
	e.counter = 0
	ctx.DamageMech(dice.Pick(e.src, e.lines.Attack), e.attackPower)
	return true
}

// OnPlayerEnteredRoom shows the enemy's picture, when configured, and an arrival line.
func (e *SimpleEnemy) OnPlayerEnteredRoom(ctx Context) {
	if e.imageURL != "" {
		ctx.Send(e.imageURL)
	}
	ctx.Send(dice.Pick(e.src, e.lines.Enter))
}
