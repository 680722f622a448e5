package kin

import (
	"fmt"
	"slices"
)

// Snapshot is one immutable view of the dataset: people, houses, and decoded
// relationship edges, indexed by id. The engine reads a snapshot, derives
// what it needs, and discards it; nothing here outlives a computation and
// nothing in the engine writes back.
type Snapshot struct {
	people map[string]Person
	houses map[string]House
	edges  Edges

	personOrder []string // insertion order, for deterministic iteration
}

// NewSnapshot builds a snapshot from raw store rows. Relationship records
// are decoded into tagged edges here; a malformed record fails the whole
// snapshot rather than surfacing as nil-field surprises later.
//
// Duplicate person or house ids are rejected. Edges referencing unknown
// people are kept - the validator reports them as orphans, and the adjacency
// builder skips them.
func NewSnapshot(people []Person, houses []House, records []Record) (*Snapshot, error) {
	s := &Snapshot{
		people: make(map[string]Person, len(people)),
		houses: make(map[string]House, len(houses)),
	}
	for _, p := range people {
		if p.ID == "" {
			return nil, fmt.Errorf("person with empty id")
		}
		if _, dup := s.people[p.ID]; dup {
			return nil, fmt.Errorf("duplicate person id %q", p.ID)
		}
		s.people[p.ID] = p
		s.personOrder = append(s.personOrder, p.ID)
	}
	for _, h := range houses {
		if h.ID == "" {
			return nil, fmt.Errorf("house with empty id")
		}
		if _, dup := s.houses[h.ID]; dup {
			return nil, fmt.Errorf("duplicate house id %q", h.ID)
		}
		s.houses[h.ID] = h
	}
	edges, err := DecodeRecords(records)
	if err != nil {
		return nil, err
	}
	s.edges = edges
	return s, nil
}

// Person returns the person with the given id.
func (s *Snapshot) Person(id string) (Person, bool) {
	p, ok := s.people[id]
	return p, ok
}

// House returns the house with the given id.
func (s *Snapshot) House(id string) (House, bool) {
	h, ok := s.houses[id]
	return h, ok
}

// HasPerson reports whether the id resolves to a person in this snapshot.
func (s *Snapshot) HasPerson(id string) bool {
	_, ok := s.people[id]
	return ok
}

// PersonIDs returns all person ids in insertion order.
func (s *Snapshot) PersonIDs() []string { return slices.Clone(s.personOrder) }

// People returns all people in insertion order.
func (s *Snapshot) People() []Person {
	out := make([]Person, 0, len(s.personOrder))
	for _, id := range s.personOrder {
		out = append(out, s.people[id])
	}
	return out
}

// Houses returns all houses. Order is not guaranteed.
func (s *Snapshot) Houses() []House {
	out := make([]House, 0, len(s.houses))
	for _, h := range s.houses {
		out = append(out, h)
	}
	return out
}

// Edges returns the decoded relationship edges.
func (s *Snapshot) Edges() Edges { return s.edges }

// PersonCount returns the number of people in the snapshot.
func (s *Snapshot) PersonCount() int { return len(s.people) }
