package kin

import "slices"

// ScopeOptions selects the subset of people one computation runs over:
// either a house (optionally with its cadet branches) or an explicit id set.
// An empty options value selects the whole snapshot.
type ScopeOptions struct {
	HouseID       string   `json:"house_id,omitempty"`
	IncludeCadets bool     `json:"include_cadets,omitempty"`
	PersonIDs     []string `json:"person_ids,omitempty"`
}

// Scope is a resolved set of person ids with deterministic iteration order
// (snapshot insertion order).
type Scope struct {
	ids     []string
	members map[string]bool
}

// Contains reports whether the person is in scope.
func (sc *Scope) Contains(id string) bool { return sc.members[id] }

// IDs returns the scoped person ids in deterministic order.
func (sc *Scope) IDs() []string { return slices.Clone(sc.ids) }

// Len returns the number of people in scope.
func (sc *Scope) Len() int { return len(sc.ids) }

// ResolveScope expands ScopeOptions against a snapshot.
//
// A house scope contains the house's members, the members of cadet houses
// when requested (followed transitively), every recorded spouse of a member,
// and the out-of-house lineal parents of member bastards - the people a
// chart of that house must show even though they belong elsewhere.
//
// An explicit id set is filtered to ids present in the snapshot; unknown
// ids are silently dropped (the validator owns dangling-reference
// reporting). Unset options scope to the full snapshot.
func ResolveScope(s *Snapshot, adj *Adjacency, opts ScopeOptions) *Scope {
	sc := &Scope{members: make(map[string]bool)}

	add := func(id string) {
		if id != "" && s.HasPerson(id) && !sc.members[id] {
			sc.members[id] = true
		}
	}

	switch {
	case len(opts.PersonIDs) > 0:
		for _, id := range opts.PersonIDs {
			add(id)
		}
	case opts.HouseID != "":
		houses := map[string]bool{opts.HouseID: true}
		if opts.IncludeCadets {
			// Follow cadet links transitively; bounded by the house count.
			for changed := true; changed; {
				changed = false
				for _, h := range s.Houses() {
					if houses[h.ParentHouseID] && !houses[h.ID] {
						houses[h.ID] = true
						changed = true
					}
				}
			}
		}
		var base []string
		for _, p := range s.People() {
			if houses[p.HouseID] {
				add(p.ID)
				base = append(base, p.ID)
			}
		}
		for _, id := range base {
			for _, sp := range adj.SpousesOf(id) {
				add(sp)
			}
			if p, _ := s.Person(id); p.Legitimacy == Bastard {
				for _, parent := range adj.ParentsOf(id) {
					add(parent)
				}
			}
		}
	default:
		for _, id := range s.PersonIDs() {
			add(id)
		}
	}

	// Deterministic order: snapshot insertion order.
	for _, id := range s.PersonIDs() {
		if sc.members[id] {
			sc.ids = append(sc.ids, id)
		}
	}
	return sc
}
