package entity

import (
	"golang.org/x/text/cases"
)

// Set is the active entity set. It preserves insertion order so that ticks
// and room listings are deterministic.
//
// Set is not safe for concurrent use; the world owns it on the engine goroutine.
type Set struct {
	order []Entity
	index map[string]int
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// Add appends e.
//
// Precondition: e must be non-nil.
// Postcondition: Returns false, leaving the set unchanged, when an entity
// with the same ID is already present.
func (s *Set) Add(e Entity) bool {
	if _, ok := s.index[e.ID()]; ok {
		return false
	}
	s.index[e.ID()] = len(s.order)
	s.order = append(s.order, e)
	return true
}

// Remove deletes the entity with the given ID.
//
// Postcondition: Returns true if an entity was removed. Order of the
// remaining entities is preserved.
func (s *Set) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.order = append(s.order[:i], s.order[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j].ID()] = j
	}
	return true
}

// Contains reports whether an entity with id is active.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Len returns the number of active entities.
func (s *Set) Len() int { return len(s.order) }

// All returns a snapshot of the active entities in insertion order.
// Mutating the set does not affect the returned slice.
func (s *Set) All() []Entity {
	out := make([]Entity, len(s.order))
	copy(out, s.order)
	return out
}

// InRoom returns the entities located in room, in insertion order.
func (s *Set) InRoom(room int) []Entity {
	var out []Entity
	for _, e := range s.order {
		if e.RoomID() == room {
			out = append(out, e)
		}
	}
	return out
}

// FindInRoom returns the first entity in room whose name matches name,
// ignoring case.
//
// Postcondition: Returns (e, true) on a match, or (nil, false).
func (s *Set) FindInRoom(room int, name string) (Entity, bool) {
	fold := cases.Fold()
	want := fold.String(name)
	for _, e := range s.order {
		if e.RoomID() == room && fold.String(e.Name()) == want {
			return e, true
		}
	}
	return nil, false
}
