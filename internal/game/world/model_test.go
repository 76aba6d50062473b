package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestDirection_StringAndAbbreviation(t *testing.T) {
	assert.Equal(t, "north", North.String())
	assert.Equal(t, "northwest", Northwest.String())
	assert.Equal(t, "se", Southeast.Abbreviation())
	assert.Equal(t, "w", West.Abbreviation())
}

func TestDirection_Opposite(t *testing.T) {
	pairs := [][2]Direction{
		{North, South},
		{East, West},
		{Northeast, Southwest},
		{Northwest, Southeast},
	}
	for _, pair := range pairs {
		assert.Equal(t, pair[1], pair[0].Opposite())
		assert.Equal(t, pair[0], pair[1].Opposite())
	}
}

func TestDirection_OutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() { _ = NoDirection.String() })
	assert.Panics(t, func() { _ = Direction(8).Opposite() })
	assert.False(t, NoDirection.Valid())
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"north":        North,
		"N":            North,
		"  SouthWest ": Southwest,
		"sw":           Southwest,
		"nw":           Northwest,
		"e":            East,
		"up":           NoDirection,
		"":             NoDirection,
		"nort":         NoDirection,
	}
	for text, want := range cases {
		assert.Equal(t, want, ParseDirection(text), "ParseDirection(%q)", text)
	}
}

func TestDirectionTokens_LongestFirst(t *testing.T) {
	tokens := DirectionTokens()
	assert.Len(t, tokens, 16)
	for i := 1; i < len(tokens); i++ {
		assert.GreaterOrEqual(t, len(tokens[i-1]), len(tokens[i]))
	}
	assert.Contains(t, tokens, "northeast")
	assert.Contains(t, tokens, "ne")
}

func TestPropertyOppositeIsInvolution(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Direction(rapid.IntRange(0, DirectionCount-1).Draw(t, "dir"))
		assert.Equal(t, d, d.Opposite().Opposite(), "opposite should be an involution for %s", d)
		assert.NotEqual(t, d, d.Opposite())
	})
}

func TestPropertyParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := Direction(rapid.IntRange(0, DirectionCount-1).Draw(t, "dir"))
		assert.Equal(t, d, ParseDirection(d.String()))
		assert.Equal(t, d, ParseDirection(d.Abbreviation()))
	})
}

func TestRoom_ExitsInCompassOrder(t *testing.T) {
	room := newRoom(1)
	room.Connections[West] = 4
	room.Connections[North] = 2
	room.Connections[Southeast] = 3

	assert.Equal(t, []Direction{North, Southeast, West}, room.Exits())
}
