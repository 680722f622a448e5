package kin

import (
	"slices"
)

// Adjacency is the derived navigation structure the algorithms run on:
// child→parents, parent→children, and two spouse views (the current spouse
// for layout, every spouse ever for classification). It is rebuilt per
// computation from a snapshot and never persisted.
//
// Only lineal parent edges (biological, adoptive) enter the parent/child
// maps; foster links are kept aside. Edges whose endpoints are missing from
// the snapshot are skipped here - the validator reports them.
type Adjacency struct {
	parents       map[string][]string              // childID -> parentIDs (lineal)
	children      map[string][]string              // parentID -> childIDs (lineal)
	fosterParents map[string][]string              // childID -> foster parentIDs
	spouse        map[string]string                // personID -> current spouse
	allSpouses    map[string][]string              // personID -> every recorded spouse
	parentEdges   map[string]map[string]ParentEdge // parentID -> childID -> edge
	twins         map[string][]string
	mentors       map[string][]string // studentID -> mentorIDs
	students      map[string][]string // mentorID -> studentIDs
}

// statusRank orders marriage statuses for current-spouse resolution:
// a standing marriage beats a betrothal; dissolved unions never qualify.
func statusRank(s MarriageStatus) int {
	switch s {
	case Married:
		return 2
	case Betrothed:
		return 1
	default:
		return 0
	}
}

// BuildAdjacency derives the adjacency structure for a snapshot.
//
// Current-spouse resolution: when a person carries several spouse edges,
// the standing marriage wins over a betrothal, then the latest marriage
// date, then record order. Dissolved unions (divorced, widowed) never claim
// the current slot but always appear in the historical spouse view. The
// current-spouse map stays symmetric: claiming a partner releases that
// partner's previous assignment.
func BuildAdjacency(s *Snapshot) *Adjacency {
	a := &Adjacency{
		parents:       make(map[string][]string),
		children:      make(map[string][]string),
		fosterParents: make(map[string][]string),
		spouse:        make(map[string]string),
		allSpouses:    make(map[string][]string),
		parentEdges:   make(map[string]map[string]ParentEdge),
		twins:         make(map[string][]string),
		mentors:       make(map[string][]string),
		students:      make(map[string][]string),
	}

	edges := s.Edges()
	for _, e := range edges.Parents {
		if !s.HasPerson(e.ParentID) || !s.HasPerson(e.ChildID) {
			continue
		}
		if !e.Lineal() {
			if !slices.Contains(a.fosterParents[e.ChildID], e.ParentID) {
				a.fosterParents[e.ChildID] = append(a.fosterParents[e.ChildID], e.ParentID)
			}
			continue
		}
		if slices.Contains(a.parents[e.ChildID], e.ParentID) {
			continue // duplicate edge, first one wins
		}
		a.parents[e.ChildID] = append(a.parents[e.ChildID], e.ParentID)
		a.children[e.ParentID] = append(a.children[e.ParentID], e.ChildID)
		if a.parentEdges[e.ParentID] == nil {
			a.parentEdges[e.ParentID] = make(map[string]ParentEdge)
		}
		a.parentEdges[e.ParentID][e.ChildID] = e
	}

	// Historical spouse view first; the current slot is resolved below.
	for _, e := range edges.Spouses {
		if !s.HasPerson(e.AID) || !s.HasPerson(e.BID) {
			continue
		}
		if !slices.Contains(a.allSpouses[e.AID], e.BID) {
			a.allSpouses[e.AID] = append(a.allSpouses[e.AID], e.BID)
		}
		if !slices.Contains(a.allSpouses[e.BID], e.AID) {
			a.allSpouses[e.BID] = append(a.allSpouses[e.BID], e.AID)
		}
	}

	// Process active unions from weakest claim to strongest so the last
	// assignment is the winning one.
	active := make([]SpouseEdge, 0, len(edges.Spouses))
	for _, e := range edges.Spouses {
		if e.Active() && s.HasPerson(e.AID) && s.HasPerson(e.BID) {
			active = append(active, e)
		}
	}
	slices.SortStableFunc(active, func(x, y SpouseEdge) int {
		if r := statusRank(x.Status) - statusRank(y.Status); r != 0 {
			return r
		}
		return compareClaim(x.MarriageDate, y.MarriageDate)
	})
	for _, e := range active {
		a.claimSpouses(e.AID, e.BID)
	}

	for _, e := range edges.Twins {
		if !s.HasPerson(e.AID) || !s.HasPerson(e.BID) {
			continue
		}
		if !slices.Contains(a.twins[e.AID], e.BID) {
			a.twins[e.AID] = append(a.twins[e.AID], e.BID)
		}
		if !slices.Contains(a.twins[e.BID], e.AID) {
			a.twins[e.BID] = append(a.twins[e.BID], e.AID)
		}
	}
	for _, e := range edges.Mentors {
		if !s.HasPerson(e.MentorID) || !s.HasPerson(e.StudentID) {
			continue
		}
		a.mentors[e.StudentID] = append(a.mentors[e.StudentID], e.MentorID)
		a.students[e.MentorID] = append(a.students[e.MentorID], e.StudentID)
	}

	return a
}

// compareClaim orders marriage dates for spouse resolution: undated unions
// are the weakest claim, then ascending date order, so the latest marriage
// sorts last and wins.
func compareClaim(x, y PartialDate) int {
	switch {
	case x.IsZero() && y.IsZero():
		return 0
	case x.IsZero():
		return -1
	case y.IsZero():
		return 1
	default:
		return x.Compare(y)
	}
}

// claimSpouses assigns a and b as each other's current spouse, releasing any
// previous assignments so the map stays symmetric.
func (a *Adjacency) claimSpouses(x, y string) {
	if prev, ok := a.spouse[x]; ok {
		delete(a.spouse, prev)
	}
	if prev, ok := a.spouse[y]; ok {
		delete(a.spouse, prev)
	}
	a.spouse[x] = y
	a.spouse[y] = x
}

// ParentsOf returns the lineal parents of id. The slice is shared; treat it
// as read-only.
func (a *Adjacency) ParentsOf(id string) []string { return a.parents[id] }

// ChildrenOf returns the lineal children of id.
func (a *Adjacency) ChildrenOf(id string) []string { return a.children[id] }

// FosterParentsOf returns the foster parents of id.
func (a *Adjacency) FosterParentsOf(id string) []string { return a.fosterParents[id] }

// SpouseOf returns the current spouse of id, or "" if none.
func (a *Adjacency) SpouseOf(id string) string { return a.spouse[id] }

// SpousesOf returns every spouse ever recorded for id, including dissolved
// unions. Kinship classification needs the historical view: an ex-spouse's
// sibling is still a sibling-in-law in these records.
func (a *Adjacency) SpousesOf(id string) []string { return a.allSpouses[id] }

// TwinsOf returns the recorded twins of id.
func (a *Adjacency) TwinsOf(id string) []string { return a.twins[id] }

// MentorsOf returns the recorded mentors of id.
func (a *Adjacency) MentorsOf(id string) []string { return a.mentors[id] }

// StudentsOf returns the people mentored by id.
func (a *Adjacency) StudentsOf(id string) []string { return a.students[id] }

// ParentEdgeBetween returns the lineal parent edge from parent to child.
func (a *Adjacency) ParentEdgeBetween(parentID, childID string) (ParentEdge, bool) {
	e, ok := a.parentEdges[parentID][childID]
	return e, ok
}

// IsParentOf reports whether parentID is a lineal parent of childID.
func (a *Adjacency) IsParentOf(parentID, childID string) bool {
	return slices.Contains(a.parents[childID], parentID)
}

// SharedParents returns the parents both ids have in common.
func (a *Adjacency) SharedParents(x, y string) []string {
	var shared []string
	for _, p := range a.parents[x] {
		if slices.Contains(a.parents[y], p) {
			shared = append(shared, p)
		}
	}
	return shared
}
