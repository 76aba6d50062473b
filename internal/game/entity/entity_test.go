package entity_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/adventuremech/internal/game/dice"
	"github.com/cory-johannsen/adventuremech/internal/game/entity"
)

type mechHit struct {
	text  string
	power int
}

// recordingContext captures everything an entity does to the world.
type recordingContext struct {
	room  int
	lines []string
	hits  []mechHit
}

func (r *recordingContext) Send(line string) { r.lines = append(r.lines, line) }
func (r *recordingContext) PartyRoom() int   { return r.room }
func (r *recordingContext) DamageMech(text string, power int) {
	r.hits = append(r.hits, mechHit{text: text, power: power})
}

func newRat(t *testing.T, imageBase string) *entity.SimpleEnemy {
	t.Helper()
	return entity.NewSimpleEnemy("rat-1", "rat", 1, "A ferocious rat.",
		entity.EnemyStats{Health: 100, AttackPower: 10, AttackCooldownSeconds: 5, XP: 1000},
		entity.Lines{
			Attack: []string{"The rat bites your leg"},
			Death:  []string{"The rat squeaks its last"},
			Enter:  []string{"A rat stares at you"},
			Damage: []string{"The rat squeals"},
		},
		10, imageBase, dice.NewFixedSource(0))
}

func TestSimpleEnemy_FiveAttacksKill(t *testing.T) {
	rat := newRat(t, "")
	ctx := &recordingContext{room: 1}

	for i, remaining := range []int{80, 60, 40, 20} {
		out := rat.OnAttacked(ctx, 20)
		assert.False(t, out.Dead, "attack %d", i+1)
		assert.Equal(t, fmt.Sprintf("The rat squeals and loses 20 health (%d remaining).", remaining), ctx.lines[len(ctx.lines)-1])
		assert.Equal(t, remaining, rat.Health())
	}

	out := rat.OnAttacked(ctx, 20)
	assert.True(t, out.Dead)
	assert.Equal(t, 1000, out.XP)
	assert.Equal(t, 0, rat.Health())
	assert.Equal(t, []string{
		"The rat squeaks its last",
		"The rat is dead. You gain 1000xp.",
	}, ctx.lines[len(ctx.lines)-2:])
}

func TestSimpleEnemy_PassiveUntilAttacked(t *testing.T) {
	rat := newRat(t, "")
	ctx := &recordingContext{room: 1}
	for tick := uint64(1); tick <= 200; tick++ {
		rat.Update(ctx, tick)
	}
	assert.False(t, rat.Aggro())
	assert.Empty(t, ctx.hits)
}

func TestSimpleEnemy_AttacksOnCooldown(t *testing.T) {
	rat := newRat(t, "")
	ctx := &recordingContext{room: 1}
	rat.OnAttacked(ctx, 20)
	require.True(t, rat.Aggro())

	for tick := uint64(1); tick < 50; tick++ {
		rat.Update(ctx, tick)
	}
	assert.Empty(t, ctx.hits, "cooldown of 5s at 10 ticks/s has not elapsed")

	rat.Update(ctx, 50)
	require.Len(t, ctx.hits, 1)
	assert.Equal(t, mechHit{text: "The rat bites your leg", power: 10}, ctx.hits[0])

	for tick := uint64(51); tick <= 100; tick++ {
		rat.Update(ctx, tick)
	}
	assert.Len(t, ctx.hits, 2)
}

func TestSimpleEnemy_DoesNotAttackAcrossRooms(t *testing.T) {
	rat := newRat(t, "")
	ctx := &recordingContext{room: 1}
	rat.OnAttacked(ctx, 20)

	ctx.room = 0
	for tick := uint64(1); tick <= 200; tick++ {
		rat.Update(ctx, tick)
	}
	assert.Empty(t, ctx.hits)
}

func TestSimpleEnemy_EnterWithImage(t *testing.T) {
	atat := entity.NewSimpleEnemy("atat-1", "AT-AT", 3, "A walker.",
		entity.EnemyStats{Health: 1000, AttackPower: 10, AttackCooldownSeconds: 5, XP: 1000},
		entity.Lines{Enter: []string{"The AT-AT turns its head"}},
		10, "http://img.example/", dice.NewFixedSource(0))
	ctx := &recordingContext{room: 3}
	atat.OnPlayerEnteredRoom(ctx)
	assert.Equal(t, []string{"http://img.example/atat.jpg", "The AT-AT turns its head"}, ctx.lines)
}

func TestSimpleEnemy_EnterWithoutImage(t *testing.T) {
	rat := newRat(t, "")
	ctx := &recordingContext{room: 1}
	rat.OnPlayerEnteredRoom(ctx)
	assert.Equal(t, []string{"A rat stares at you"}, ctx.lines)
}

func TestNewSimpleEnemy_NilSourcePanics(t *testing.T) {
	assert.Panics(t, func() {
		entity.NewSimpleEnemy("x", "x", 0, "x", entity.EnemyStats{Health: 1}, entity.Lines{}, 10, "", nil)
	})
}

func TestNPC_DiesWithoutReward(t *testing.T) {
	n := entity.NewNPC("n-1", "merchant", 2, 30, "A nervous merchant.")
	ctx := &recordingContext{room: 2}

	assert.False(t, n.OnAttacked(ctx, 20).Dead)
	assert.Equal(t, []string{"The merchant loses 20 health (10 remaining)."}, ctx.lines)
	assert.Equal(t, 10, n.Health())

	ctx.lines = nil
	out := n.OnAttacked(ctx, 20)
	assert.True(t, out.Dead)
	assert.Zero(t, out.XP)
	assert.Equal(t, []string{"The merchant is dead."}, ctx.lines)
	assert.Equal(t, 0, n.Health())
}

type hookCall struct {
	script string
	hook   string
	args   []interface{}
}

type fakeHooks struct {
	calls   []hookCall
	replies map[string]string
}

func (f *fakeHooks) CallStringHook(script, hook string, args ...interface{}) (string, bool) {
	f.calls = append(f.calls, hookCall{script: script, hook: hook, args: args})
	text, ok := f.replies[hook]
	return text, ok
}

func TestScriptedEnemy_Hooks(t *testing.T) {
	hooks := &fakeHooks{replies: map[string]string{
		entity.HookOnAttacked: "The rat hisses.",
		entity.HookOnDeath:    "A swarm mourns.",
		entity.HookOnAttack:   "The rat grins.",
	}}
	rat := entity.NewScriptedEnemy(newRat(t, ""), "rat", hooks)
	ctx := &recordingContext{room: 1}

	rat.OnPlayerEnteredRoom(ctx)
	assert.Equal(t, []string{"A rat stares at you"}, ctx.lines, "on_enter without a reply adds nothing")

	rat.OnAttacked(ctx, 20)
	assert.Equal(t, "The rat hisses.", ctx.lines[len(ctx.lines)-1])

	for tick := uint64(1); tick <= 50; tick++ {
		rat.Update(ctx, tick)
	}
	require.Len(t, ctx.hits, 1)
	assert.Equal(t, "The rat grins.", ctx.lines[len(ctx.lines)-1])

	for i := 0; i < 4; i++ {
		rat.OnAttacked(ctx, 20)
	}
	assert.Equal(t, "A swarm mourns.", ctx.lines[len(ctx.lines)-1])

	var names []string
	for _, c := range hooks.calls {
		assert.Equal(t, "rat", c.script)
		names = append(names, c.hook)
	}
	assert.Equal(t, []string{
		entity.HookOnEnter,
		entity.HookOnAttacked,
		entity.HookOnAttack,
		entity.HookOnAttacked,
		entity.HookOnAttacked,
		entity.HookOnAttacked,
		entity.HookOnDeath,
	}, names)
	assert.Equal(t, []interface{}{"rat", 20, 80}, hooks.calls[1].args)
}
