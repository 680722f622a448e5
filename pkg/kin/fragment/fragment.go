// Package fragment partitions a scope into connected components so that
// unlinked lines (remarriages bridging unrelated houses, imported stubs)
// each get their own generation walk and layout block.
package fragment

import (
	"sort"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// Fragment is one maximal connected component within a scope, linked through
// parent, child and spouse edges. Members follow scope order.
type Fragment struct {
	RootID  string   `json:"rootId"`
	Members []string `json:"members"`
}

// Len returns the member count.
func (f Fragment) Len() int { return len(f.Members) }

// Contains reports whether id belongs to the fragment.
func (f Fragment) Contains(id string) bool {
	for _, m := range f.Members {
		if m == id {
			return true
		}
	}
	return false
}

// GapEdge is a relationship edge the scope severed: one endpoint sits inside
// a fragment, the other outside the scope, and the outside line reconnects
// to a different fragment through people the scope excludes. The layout
// draws these as dashed connectors instead of dropping the link.
type GapEdge struct {
	EdgeID    string       `json:"edgeId"`
	Kind      kin.EdgeType `json:"kind"`
	InsideID  string       `json:"insideId"`
	OutsideID string       `json:"outsideId"`
	Fragment  int          `json:"fragment"`
}

// Result is the fragment partition of one scope.
type Result struct {
	Fragments []Fragment `json:"fragments"`
	Gaps      []GapEdge  `json:"gaps,omitempty"`
}

// Detect flood-fills the scope into fragments. Fragments are ordered by
// root birth date, unknown dates last, ties by root id. The partition is
// exact: every scoped person appears in exactly one fragment.
func Detect(s *kin.Snapshot, adj *kin.Adjacency, scope *kin.Scope) Result {
	visited := make(map[string]bool, scope.Len())
	var fragments []Fragment
	for _, id := range scope.IDs() {
		if visited[id] {
			continue
		}
		members := floodFill(adj, scope, id, visited)
		fragments = append(fragments, Fragment{
			RootID:  chooseRoot(s, adj, scope, members),
			Members: members,
		})
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		bi, _ := s.Person(fragments[i].RootID)
		bj, _ := s.Person(fragments[j].RootID)
		if c := bi.Birth.Compare(bj.Birth); c != 0 {
			return c < 0
		}
		return fragments[i].RootID < fragments[j].RootID
	})

	res := Result{Fragments: fragments}
	if len(fragments) > 1 {
		res.Gaps = findGaps(s, adj, scope, fragments)
	}
	return res
}

// floodFill walks parent, child and spouse neighbours restricted to the
// scope. Historical spouses count as links so a widowed remarriage keeps
// both lines in one fragment.
func floodFill(adj *kin.Adjacency, scope *kin.Scope, start string, visited map[string]bool) []string {
	visited[start] = true
	queue := []string{start}
	reached := map[string]bool{start: true}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range neighbours(adj, curr) {
			if reached[next] || !scope.Contains(next) {
				continue
			}
			reached[next] = true
			visited[next] = true
			queue = append(queue, next)
		}
	}

	members := make([]string, 0, len(reached))
	for _, id := range scope.IDs() {
		if reached[id] {
			members = append(members, id)
		}
	}
	return members
}

func neighbours(adj *kin.Adjacency, id string) []string {
	var out []string
	out = append(out, adj.ParentsOf(id)...)
	out = append(out, adj.ChildrenOf(id)...)
	out = append(out, adj.FosterParentsOf(id)...)
	out = append(out, adj.SpousesOf(id)...)
	return out
}

// chooseRoot picks the fragment root: the earliest-born member with no
// in-scope parent, ties by member order. A fragment where everyone has a
// parent (malformed, cyclic) falls back to its earliest-born member.
func chooseRoot(s *kin.Snapshot, adj *kin.Adjacency, scope *kin.Scope, members []string) string {
	pick := func(candidates []string) string {
		root := ""
		var rootBirth kin.PartialDate
		for _, id := range candidates {
			p, _ := s.Person(id)
			if root == "" || p.Birth.Before(rootBirth) {
				root = id
				rootBirth = p.Birth
			}
		}
		return root
	}

	var parentless []string
	for _, id := range members {
		inScope := 0
		for _, parent := range adj.ParentsOf(id) {
			if scope.Contains(parent) {
				inScope++
			}
		}
		if inScope == 0 {
			parentless = append(parentless, id)
		}
	}
	if len(parentless) > 0 {
		return pick(parentless)
	}
	return pick(members)
}

// findGaps surfaces edges the scope cut. An edge qualifies when its outside
// endpoint reaches a second fragment through out-of-scope people, meaning
// the two fragments are one line in the full graph.
func findGaps(s *kin.Snapshot, adj *kin.Adjacency, scope *kin.Scope, fragments []Fragment) []GapEdge {
	fragOf := map[string]int{}
	for i, f := range fragments {
		for _, id := range f.Members {
			fragOf[id] = i
		}
	}

	// Label connected components of the full snapshot, scope ignored.
	component := map[string]int{}
	next := 0
	for _, id := range s.PersonIDs() {
		if _, seen := component[id]; seen {
			continue
		}
		queue := []string{id}
		component[id] = next
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			for _, n := range neighbours(adj, curr) {
				if _, seen := component[n]; !seen {
					component[n] = next
					queue = append(queue, n)
				}
			}
		}
		next++
	}

	// A component bridges fragments when members of two different fragments
	// share it.
	touched := map[int]map[int]bool{}
	for id, frag := range fragOf {
		comp := component[id]
		if touched[comp] == nil {
			touched[comp] = map[int]bool{}
		}
		touched[comp][frag] = true
	}

	bridging := func(outsideID string) bool {
		return len(touched[component[outsideID]]) > 1
	}

	var gaps []GapEdge
	add := func(edgeID string, kind kin.EdgeType, a, b string) {
		inside, outside := a, b
		if !scope.Contains(inside) {
			inside, outside = outside, inside
		}
		if !scope.Contains(inside) || scope.Contains(outside) {
			return
		}
		if !s.HasPerson(outside) || !bridging(outside) {
			return
		}
		gaps = append(gaps, GapEdge{
			EdgeID:    edgeID,
			Kind:      kind,
			InsideID:  inside,
			OutsideID: outside,
			Fragment:  fragOf[inside],
		})
	}

	edges := s.Edges()
	for _, e := range edges.Parents {
		kind := kin.EdgeParent
		switch e.Kind {
		case kin.ParentAdoptive:
			kind = kin.EdgeAdoptedParent
		case kin.ParentFoster:
			kind = kin.EdgeFosterParent
		}
		add(e.ID, kind, e.ParentID, e.ChildID)
	}
	for _, e := range edges.Spouses {
		add(e.ID, kin.EdgeSpouse, e.AID, e.BID)
	}
	return gaps
}
