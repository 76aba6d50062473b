package player_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/adventuremech/internal/game/entity"
	"github.com/cory-johannsen/adventuremech/internal/game/player"
)

var durations = player.Durations{Attack: 30, Repair: 50}

func TestTitle(t *testing.T) {
	assert.Equal(t, "grunt", player.Title(1))
	assert.Equal(t, "veteran", player.Title(2))
	assert.Equal(t, "master chief", player.Title(4))
	assert.Equal(t, player.TopRank, player.Title(5))
	assert.Equal(t, player.TopRank, player.Title(-1))
}

func TestNew(t *testing.T) {
	p := player.New("alice", durations)
	assert.Equal(t, 1, p.Level())
	assert.Zero(t, p.XP())
	assert.Equal(t, "grunt alice", p.FormalIdentifier())
	assert.False(t, p.AttackAction().Active())
	assert.False(t, p.RepairAction().Active())
	assert.Equal(t, uint64(30), p.AttackAction().Duration())
	assert.Panics(t, func() { player.New("", durations) })
}

func TestGainXP_LevelsAfterThreshold(t *testing.T) {
	p := player.New("alice", durations)
	assert.False(t, p.GainXP(60))
	assert.Equal(t, 60, p.XP())
	assert.True(t, p.GainXP(60))
	assert.Equal(t, 2, p.Level())
	assert.Zero(t, p.XP())
}

func TestGainXP_ExactThresholdDoesNotLevel(t *testing.T) {
	p := player.New("alice", durations)
	assert.False(t, p.GainXP(100))
	assert.Equal(t, 1, p.Level())
}

func TestGainXP_SurplusDiscarded(t *testing.T) {
	p := player.New("alice", durations)
	assert.True(t, p.GainXP(1000))
	assert.Equal(t, 2, p.Level())
	assert.Zero(t, p.XP())
}

func TestCancelActions(t *testing.T) {
	p := player.New("alice", durations)
	p.AttackAction().SetTarget(entity.NewNPC("r", "rat", 1, 10, "rat"))
	p.AttackAction().Activate()
	p.RepairAction().Start(3)
	p.CancelActions()
	assert.False(t, p.AttackAction().Active())
	assert.Nil(t, p.AttackAction().Target())
	assert.False(t, p.RepairAction().Active())
}

func TestRoster(t *testing.T) {
	r := player.NewRoster()
	assert.True(t, r.Add(player.New("alice", durations)))
	assert.True(t, r.Add(player.New("bob", durations)))
	assert.False(t, r.Add(player.New("alice", durations)))
	assert.Equal(t, 2, r.Len())

	p, ok := r.Get("bob")
	require.True(t, ok)
	assert.Equal(t, "bob", p.Name())
	_, ok = r.Get("carol")
	assert.False(t, ok)

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "alice", all[0].Name())
}

func TestPropertyLevelNeverDecreases(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := player.New("alice", durations)
		gains := rapid.SliceOf(rapid.IntRange(0, 250)).Draw(rt, "gains")
		prev := p.Level()
		for _, g := range gains {
			leveled := p.GainXP(g)
			if p.Level() < prev {
				rt.Fatalf("level decreased from %d to %d", prev, p.Level())
			}
			if leveled != (p.Level() == prev+1) {
				rt.Fatalf("GainXP reported %v but level went %d -> %d", leveled, prev, p.Level())
			}
			if p.XP() > player.XPRequiredForLevel(p.Level()) {
				rt.Fatalf("xp %d above threshold", p.XP())
			}
			prev = p.Level()
		}
	})
}
