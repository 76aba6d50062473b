// Package world provides the room graph the mech travels through: directions,
// rooms, reciprocal connections, and the shared party position.
package world

import (
	"fmt"
	"strings"
)

// Direction is one of the eight compass directions.
//
// Invariant: valid directions are in [North, Northwest]; NoDirection marks a failed parse.
type Direction int

// Compass directions in clockwise order. The order matters: Opposite relies on
// each direction sitting exactly four steps from its reverse.
const (
	NoDirection Direction = iota - 1
	North
	Northeast
	East
	Southeast
	South
	Southwest
	West
	Northwest
)

// DirectionCount is the number of valid compass directions.
const DirectionCount = 8

var longNames = [DirectionCount]string{
	"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest",
}

var abbreviations = [DirectionCount]string{
	"n", "ne", "e", "se", "s", "sw", "w", "nw",
}

// AllDirections lists every valid direction in compass order.
var AllDirections = []Direction{
	North, Northeast, East, Southeast, South, Southwest, West, Northwest,
}

// Valid reports whether d is one of the eight compass directions.
func (d Direction) Valid() bool {
	return d >= North && d <= Northwest
}

// String returns the long form of the direction, e.g. "southeast".
//
// Precondition: d must be valid; an out-of-range direction is a programming error and panics.
func (d Direction) String() string {
	mustValid(d)
	return longNames[d]
}

// Abbreviation returns the short form of the direction, e.g. "se".
//
// Precondition: d must be valid.
func (d Direction) Abbreviation() string {
	mustValid(d)
	return abbreviations[d]
}

// Opposite returns the direction four steps around the compass.
//
// Precondition: d must be valid.
// Postcondition: d.Opposite().Opposite() == d.
func (d Direction) Opposite() Direction {
	mustValid(d)
	return (d + 4) % DirectionCount
}

func mustValid(d Direction) {
	if !d.Valid() {
		panic(fmt.Sprintf("world: direction %d out of range", int(d)))
	}
}

// ParseDirection accepts a long form or an abbreviation, ignoring case and
// surrounding whitespace.
//
// Postcondition: Returns NoDirection when text names no direction.
func ParseDirection(text string) Direction {
	text = strings.ToLower(strings.TrimSpace(text))
	for i := range longNames {
		if text == longNames[i] || text == abbreviations[i] {
			return Direction(i)
		}
	}
	return NoDirection
}

// DirectionTokens returns every long form and abbreviation, longest first, so
// that a regex alternation built from them never matches a prefix of a longer token.
func DirectionTokens() []string {
	tokens := make([]string, 0, 2*DirectionCount)
	tokens = append(tokens, longNames[:]...)
	tokens = append(tokens, abbreviations[:]...)
	// Insertion sort by descending length, then reverse alphabetical.
	for i := 1; i < len(tokens); i++ {
		for j := i; j > 0 && tokenLess(tokens[j], tokens[j-1]); j-- {
			tokens[j], tokens[j-1] = tokens[j-1], tokens[j]
		}
	}
	return tokens
}

func tokenLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}

// Room is a node of the graph.
type Room struct {
	// ID identifies the room.
	ID int
	// Connections maps each outgoing direction to the destination room ID.
	Connections map[Direction]int
}

func newRoom(id int) *Room {
	return &Room{ID: id, Connections: make(map[Direction]int)}
}

// Exits returns the outgoing directions of the room in compass order.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (r *Room) Exits() []Direction {
	exits := make([]Direction, 0, len(r.Connections))
	for _, d := range AllDirections {
		if _, ok := r.Connections[d]; ok {
			exits = append(exits, d)
		}
	}
	return exits
}
