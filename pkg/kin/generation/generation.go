// Package generation computes integer generation indices for every person
// in a scope, harmonizing spouse generations so that married couples share
// a row even when one partner married into the line.
package generation

import (
	"slices"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// Result is a generation assignment for one scope. Generations holds person
// ids bucketed by generation index (0 = root generation); Index is the
// inverse lookup. Both views cover exactly the scoped people.
type Result struct {
	Generations [][]string     `json:"generations"`
	Index       map[string]int `json:"index"`
	RootID      string         `json:"rootId"`
}

// Empty reports whether no assignment was produced (empty scope, or no
// parentless person to root the walk at).
func (r Result) Empty() bool { return len(r.Generations) == 0 }

// Assign computes generation indices for a scope.
//
// The root is rootOverride when given and in scope, otherwise the oldest
// parentless person in scope (unknown birth dates sort last). A scope with
// no parentless member is malformed for this walk and yields an empty
// result - the fragment detector splits such scopes first.
//
// Descent is walked breadth-first through the children of each assigned
// person and of their current spouse, with longest-path relaxation so a
// child always lands strictly below every in-scope parent. Married-in
// spouses take their partner's generation during harmonization; stray
// parentless people default to generation 0.
func Assign(s *kin.Snapshot, adj *kin.Adjacency, scope *kin.Scope, rootOverride string) Result {
	if scope.Len() == 0 {
		return Result{}
	}

	root := chooseRoot(s, adj, scope, rootOverride)
	if root == "" {
		return Result{}
	}

	index := map[string]int{root: 0}
	processedSpouse := map[string]bool{}
	if spouse := adj.SpouseOf(root); spouse != "" && scope.Contains(spouse) {
		// The spouse shares the root's row; harmonization settles it.
		processedSpouse[spouse] = true
	}

	// Longest-path relaxation bounded by V^2 pushes, which also terminates
	// on malformed cyclic input instead of spinning.
	queue := []string{root}
	pushes := 0
	maxPushes := scope.Len() * scope.Len()
	for len(queue) > 0 && pushes <= maxPushes {
		curr := queue[0]
		queue = queue[1:]

		next := index[curr] + 1
		for _, child := range scopedChildren(adj, scope, curr) {
			if have, ok := index[child]; !ok || next > have {
				index[child] = next
				queue = append(queue, child)
				pushes++
				if spouse := adj.SpouseOf(child); spouse != "" && scope.Contains(spouse) {
					processedSpouse[spouse] = true
				}
			}
		}
	}

	// Stray placement: married-in spouses wait for harmonization, everyone
	// else without an in-scope parent lands in generation 0.
	for _, id := range scope.IDs() {
		if _, assigned := index[id]; assigned {
			continue
		}
		if processedSpouse[id] {
			if partner := adj.SpouseOf(id); partner != "" {
				if gen, ok := index[partner]; ok {
					index[id] = gen
					continue
				}
			}
		}
		if len(scopedParents(adj, scope, id)) == 0 {
			index[id] = 0
		} else if gen, ok := deepestAssignedParent(adj, scope, index, id); ok {
			index[id] = gen + 1
		} else {
			index[id] = 0
		}
	}

	harmonizeSpouses(adj, scope, index)

	return Result{Generations: bucket(scope, index), Index: index, RootID: root}
}

// chooseRoot picks the walk root: the override when usable, otherwise the
// oldest parentless person in scope. Ties fall to scope order.
func chooseRoot(s *kin.Snapshot, adj *kin.Adjacency, scope *kin.Scope, override string) string {
	if override != "" && scope.Contains(override) {
		return override
	}
	var root string
	var rootBirth kin.PartialDate
	for _, id := range scope.IDs() {
		if len(scopedParents(adj, scope, id)) > 0 {
			continue
		}
		p, _ := s.Person(id)
		if root == "" || p.Birth.Before(rootBirth) {
			root = id
			rootBirth = p.Birth
		}
	}
	return root
}

// scopedChildren enumerates the in-scope children of a person and of their
// current spouse, deduplicated, preserving adjacency order.
func scopedChildren(adj *kin.Adjacency, scope *kin.Scope, id string) []string {
	var out []string
	add := func(child string) {
		if scope.Contains(child) && !slices.Contains(out, child) {
			out = append(out, child)
		}
	}
	for _, child := range adj.ChildrenOf(id) {
		add(child)
	}
	if spouse := adj.SpouseOf(id); spouse != "" {
		for _, child := range adj.ChildrenOf(spouse) {
			add(child)
		}
	}
	return out
}

func scopedParents(adj *kin.Adjacency, scope *kin.Scope, id string) []string {
	var out []string
	for _, parent := range adj.ParentsOf(id) {
		if scope.Contains(parent) {
			out = append(out, parent)
		}
	}
	return out
}

func deepestAssignedParent(adj *kin.Adjacency, scope *kin.Scope, index map[string]int, id string) (int, bool) {
	best, found := 0, false
	for _, parent := range scopedParents(adj, scope, id) {
		if gen, ok := index[parent]; ok && (!found || gen > best) {
			best, found = gen, true
		}
	}
	return best, found
}

// harmonizeSpouses reconciles couples assigned to different generations.
// Priority: the side with recorded children anchors the pair; failing that
// the blood side (in-scope parents) anchors; failing both, the pair moves
// to the deeper of the two rows.
func harmonizeSpouses(adj *kin.Adjacency, scope *kin.Scope, index map[string]int) {
	for _, id := range scope.IDs() {
		spouse := adj.SpouseOf(id)
		if spouse == "" || id > spouse || !scope.Contains(spouse) {
			continue // visit each couple once
		}
		genA, okA := index[id]
		genB, okB := index[spouse]
		if !okA || !okB || genA == genB {
			continue
		}

		hasChildrenA := len(adj.ChildrenOf(id)) > 0
		hasChildrenB := len(adj.ChildrenOf(spouse)) > 0
		switch {
		case hasChildrenA != hasChildrenB:
			if hasChildrenA {
				index[spouse] = genA
			} else {
				index[id] = genB
			}
		default:
			bloodA := len(scopedParents(adj, scope, id)) > 0
			bloodB := len(scopedParents(adj, scope, spouse)) > 0
			switch {
			case bloodA != bloodB:
				if bloodA {
					index[spouse] = genA
				} else {
					index[id] = genB
				}
			default:
				deeper := max(genA, genB)
				index[id] = deeper
				index[spouse] = deeper
			}
		}
	}
}

// bucket groups the index into per-generation slices ordered by scope
// order. Rows vacated by harmonization are compacted away and the index is
// renumbered to match the compacted positions.
func bucket(scope *kin.Scope, index map[string]int) [][]string {
	maxGen := 0
	for _, gen := range index {
		if gen > maxGen {
			maxGen = gen
		}
	}
	buckets := make([][]string, maxGen+1)
	for _, id := range scope.IDs() {
		buckets[index[id]] = append(buckets[index[id]], id)
	}

	var out [][]string
	for _, b := range buckets {
		if len(b) == 0 {
			continue
		}
		for _, id := range b {
			index[id] = len(out)
		}
		out = append(out, b)
	}
	return out
}
