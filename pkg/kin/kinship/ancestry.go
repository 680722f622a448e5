package kinship

import "slices"

// ancestorsWithDepth walks breadth-first up the lineal parent maps and
// returns every proper ancestor of id with its minimum hop distance.
// The walk is capped at maxDepth and carries an explicit visited set, so it
// terminates on malformed (cyclic) input instead of relying on cache hits.
//
// Results are memoized per classifier, which scopes the cache to one
// snapshot: person ids mean nothing outside the snapshot that produced them.
func (c *Classifier) ancestorsWithDepth(id string) map[string]int {
	if cached, ok := c.ancestorCache[id]; ok {
		return cached
	}

	depths := make(map[string]int)
	frontier := []string{id}
	for depth := 1; depth <= c.maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, person := range frontier {
			for _, parent := range c.adj.ParentsOf(person) {
				if _, seen := depths[parent]; seen || parent == id {
					continue
				}
				depths[parent] = depth
				next = append(next, parent)
			}
		}
		frontier = next
	}

	c.ancestorCache[id] = depths
	return depths
}

// ancestorDepth returns the hop distance from id up to ancestor, or 0 when
// ancestor is not within the capped ancestor set.
func (c *Classifier) ancestorDepth(id, ancestor string) int {
	return c.ancestorsWithDepth(id)[ancestor]
}

// siblingsOf returns every person sharing at least one lineal parent with
// id, in deterministic parent-then-child order.
func (c *Classifier) siblingsOf(id string) []string {
	var siblings []string
	for _, parent := range c.adj.ParentsOf(id) {
		for _, child := range c.adj.ChildrenOf(parent) {
			if child != id && !slices.Contains(siblings, child) {
				siblings = append(siblings, child)
			}
		}
	}
	return siblings
}

// isSibling reports whether x and y share at least one lineal parent.
func (c *Classifier) isSibling(x, y string) bool {
	return x != y && len(c.adj.SharedParents(x, y)) > 0
}

// commonAncestor finds the shared ancestor minimizing min(depthFrom,
// depthTo), breaking ties toward the smallest removal and then by id for
// determinism. The boolean is false when the capped ancestor sets do not
// intersect.
func (c *Classifier) commonAncestor(from, to string) (id string, depthFrom, depthTo int, ok bool) {
	fromAnc := c.ancestorsWithDepth(from)
	toAnc := c.ancestorsWithDepth(to)

	for anc, df := range fromAnc {
		dt, shared := toAnc[anc]
		if !shared {
			continue
		}
		if !ok || better(df, dt, depthFrom, depthTo) || (min(df, dt) == min(depthFrom, depthTo) && abs(df-dt) == abs(depthFrom-depthTo) && anc < id) {
			id, depthFrom, depthTo, ok = anc, df, dt, true
		}
	}
	return id, depthFrom, depthTo, ok
}

// better reports whether the candidate depths (df, dt) beat the incumbent
// (bf, bt): closer nearest-side ancestor first, then smaller removal.
func better(df, dt, bf, bt int) bool {
	if min(df, dt) != min(bf, bt) {
		return min(df, dt) < min(bf, bt)
	}
	return abs(df-dt) < abs(bf-bt)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
