package world

// Graph holds every room and the shared position of the party.
// All players move together, so there is exactly one position.
//
// Graph is not safe for concurrent use; the game engine serializes access.
type Graph struct {
	rooms    map[int]*Room
	position int
}

// NewGraph creates an empty graph positioned at start.
//
// Postcondition: Room start exists.
func NewGraph(start int) *Graph {
	g := &Graph{rooms: make(map[int]*Room), position: start}
	g.room(start)
	return g
}

// room returns the room with the given ID, creating it on first reference.
func (g *Graph) room(id int) *Room {
	if r, ok := g.rooms[id]; ok {
		return r
	}
	r := newRoom(id)
	g.rooms[id] = r
	return r
}

// Connect links a to b in direction d and b back to a in the opposite direction.
// Missing rooms are created. A later Connect on the same room and direction
// overwrites the earlier one.
//
// Precondition: d must be valid.
// Postcondition: a.Connections[d] == b and b.Connections[d.Opposite()] == a.
// Returns true when an existing connection was overwritten.
func (g *Graph) Connect(a, b int, d Direction) (overwrote bool) {
	opposite := d.Opposite()

	roomA := g.room(a)
	if _, ok := roomA.Connections[d]; ok {
		overwrote = true
	}
	roomA.Connections[d] = b

	roomB := g.room(b)
	if _, ok := roomB.Connections[opposite]; ok {
		overwrote = true
	}
	roomB.Connections[opposite] = a
	return overwrote
}

// Move follows the connection in direction d from the current room.
//
// Postcondition: Returns true and updates the position when an exit exists;
// returns false with no state change otherwise.
func (g *Graph) Move(d Direction) bool {
	if !d.Valid() {
		return false
	}
	target, ok := g.room(g.position).Connections[d]
	if !ok {
		return false
	}
	g.position = target
	return true
}

// Position returns the ID of the room the party is in.
func (g *Graph) Position() int {
	return g.position
}

// SetPosition places the party in room id, creating it if needed.
func (g *Graph) SetPosition(id int) {
	g.room(id)
	g.position = id
}

// Room returns the room with the given ID without creating it.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (g *Graph) Room(id int) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

// Exits returns the outgoing directions of room id in compass order.
//
// Postcondition: Returns an empty slice for unknown rooms.
func (g *Graph) Exits(id int) []Direction {
	r, ok := g.rooms[id]
	if !ok {
		return []Direction{}
	}
	return r.Exits()
}

// RoomCount returns the number of rooms created so far.
func (g *Graph) RoomCount() int {
	return len(g.rooms)
}
