// Package kinship turns graph adjacency into natural-language kinship
// labels ("Half-Sister", "2nd Cousin Once Removed", "Stepfather").
//
// Classification is an ordered rule cascade: the first matching rule wins,
// and each rule picks a gendered label variant from the target person's
// gender. A Classifier is bound to one snapshot; its memoized ancestor
// walks must not be reused across snapshots.
package kinship

import (
	"slices"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// DefaultMaxDepth caps ancestor walks at four generations, the deepest
// distance the label vocabulary is exercised for in practice. Deep
// multi-century trees can raise it via WithMaxDepth.
const DefaultMaxDepth = 4

// Option configures a Classifier.
type Option func(*Classifier)

// WithMaxDepth overrides the ancestor-walk depth cap.
// Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Classifier) {
		if depth >= 1 {
			c.maxDepth = depth
		}
	}
}

// Classifier labels the relationship between pairs of people in one
// snapshot. It holds per-invocation memoization only; create a new
// Classifier for each snapshot.
type Classifier struct {
	snap     *kin.Snapshot
	adj      *kin.Adjacency
	maxDepth int

	ancestorCache map[string]map[string]int
}

// New creates a classifier over a snapshot and its derived adjacency.
func New(s *kin.Snapshot, adj *kin.Adjacency, opts ...Option) *Classifier {
	c := &Classifier{
		snap:          s,
		adj:           adj,
		maxDepth:      DefaultMaxDepth,
		ancestorCache: make(map[string]map[string]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the kinship label describing what the person toID is to
// the person fromID, or "" when the two are unrelated within the modeled
// degree. Unknown ids classify as unrelated.
func (c *Classifier) Classify(fromID, toID string) string {
	to, ok := c.snap.Person(toID)
	if !ok || !c.snap.HasPerson(fromID) {
		return ""
	}
	if fromID == toID {
		return "Self"
	}

	if label := c.classifyDirect(fromID, toID, to); label != "" {
		return label
	}
	if label := c.classifySibling(fromID, toID, to); label != "" {
		return label
	}
	if label := c.classifyLineal(fromID, toID, to); label != "" {
		return label
	}
	if label := c.classifyCollateral(fromID, toID, to); label != "" {
		return label
	}
	if label := c.classifyCousin(fromID, toID); label != "" {
		return label
	}
	if label := c.classifyInLaw(fromID, toID, to); label != "" {
		return label
	}
	if label := c.classifyStep(fromID, toID, to); label != "" {
		return label
	}
	if slices.Contains(c.adj.MentorsOf(fromID), toID) {
		return "Mentor"
	}
	if slices.Contains(c.adj.StudentsOf(fromID), toID) {
		return "Protégé"
	}
	return ""
}

// ClassifyAll labels every other person in the snapshot relative to refID.
// Unrelated people are omitted from the result.
func (c *Classifier) ClassifyAll(refID string) map[string]string {
	labels := make(map[string]string)
	for _, id := range c.snap.PersonIDs() {
		if id == refID {
			continue
		}
		if label := c.Classify(refID, id); label != "" {
			labels[id] = label
		}
	}
	return labels
}

// classifyDirect covers spouse, parent, child, foster links, and twins.
func (c *Classifier) classifyDirect(fromID, toID string, to kin.Person) string {
	if slices.Contains(c.adj.SpousesOf(fromID), toID) {
		label := gendered(to, "Husband", "Wife", "Spouse")
		if c.adj.SpouseOf(fromID) != toID {
			label = "Former " + label
		}
		return label
	}
	if slices.Contains(c.adj.ParentsOf(fromID), toID) {
		return gendered(to, "Father", "Mother", "Parent")
	}
	if slices.Contains(c.adj.ChildrenOf(fromID), toID) {
		return gendered(to, "Son", "Daughter", "Child")
	}
	if slices.Contains(c.adj.FosterParentsOf(fromID), toID) {
		return "Foster " + gendered(to, "Father", "Mother", "Parent")
	}
	if slices.Contains(c.adj.FosterParentsOf(toID), fromID) {
		return "Foster " + gendered(to, "Son", "Daughter", "Child")
	}
	if slices.Contains(c.adj.TwinsOf(fromID), toID) {
		return "Twin " + gendered(to, "Brother", "Sister", "Sibling")
	}
	return ""
}

// classifySibling distinguishes full from half siblings. Full means the two
// share both recorded parents, or each side has exactly one recorded parent
// and it is the same one; sharing one of two or more parents is half.
func (c *Classifier) classifySibling(fromID, toID string, to kin.Person) string {
	shared := c.adj.SharedParents(fromID, toID)
	if len(shared) == 0 {
		return ""
	}
	fromParents := c.adj.ParentsOf(fromID)
	toParents := c.adj.ParentsOf(toID)

	full := len(shared) >= 2 ||
		(len(fromParents) == 1 && len(toParents) == 1)
	if full {
		return gendered(to, "Brother", "Sister", "Sibling")
	}
	return "Half-" + gendered(to, "Brother", "Sister", "Sibling")
}

// classifyLineal covers ancestors and descendants two or more hops away,
// up to the configured cap.
func (c *Classifier) classifyLineal(fromID, toID string, to kin.Person) string {
	if depth := c.ancestorDepth(fromID, toID); depth >= 2 {
		return ancestorLabel(to, depth)
	}
	if depth := c.ancestorDepth(toID, fromID); depth >= 2 {
		return descendantLabel(to, depth)
	}
	return ""
}

// classifyCollateral covers aunts/uncles (siblings of an ancestor) and
// nieces/nephews (descendants of a sibling), with great/grand variants.
func (c *Classifier) classifyCollateral(fromID, toID string, to kin.Person) string {
	// Sibling of a parent at depth d: Uncle (d=1), Great-Uncle (d=2), ...
	bestDepth := 0
	for anc, depth := range c.ancestorsWithDepth(fromID) {
		if c.isSibling(anc, toID) && (bestDepth == 0 || depth < bestDepth) {
			bestDepth = depth
		}
	}
	if bestDepth > 0 {
		return greatPrefix(bestDepth+1) + gendered(to, "Uncle", "Aunt", "Aunt/Uncle")
	}

	// Descendant of a sibling at depth d: Nephew (d=1), Grand-Nephew (d=2),
	// Great-Grand-Nephew (d=3), ...
	for anc, depth := range c.ancestorsWithDepth(toID) {
		if c.isSibling(fromID, anc) && (bestDepth == 0 || depth < bestDepth) {
			bestDepth = depth
		}
	}
	if bestDepth > 0 {
		if bestDepth == 1 {
			return gendered(to, "Nephew", "Niece", "Niece/Nephew")
		}
		return greatPrefix(bestDepth) + "Grand-" + gendered(to, "Nephew", "Niece", "Niece/Nephew")
	}
	return ""
}

// classifyCousin applies the cousin law: for a nearest common ancestor at
// depths d1 and d2, degree = min(d1,d2)-1 and removal = |d1-d2|. Direct
// lines and siblings never reach here (min depth below 2 is excluded).
func (c *Classifier) classifyCousin(fromID, toID string) string {
	_, df, dt, ok := c.commonAncestor(fromID, toID)
	if !ok || min(df, dt) < 2 {
		return ""
	}
	return cousinLabel(min(df, dt)-1, abs(df-dt))
}

// classifyInLaw maps relations through a marriage: spouse's parent, spouse's
// grandparent, spouse's sibling, sibling's spouse, child's spouse.
// The historical spouse view is used throughout - a widow keeps her in-laws.
func (c *Classifier) classifyInLaw(fromID, toID string, to kin.Person) string {
	for _, spouse := range c.adj.SpousesOf(fromID) {
		if slices.Contains(c.adj.ParentsOf(spouse), toID) {
			return gendered(to, "Father", "Mother", "Parent") + "-in-Law"
		}
		if c.ancestorDepth(spouse, toID) == 2 {
			return gendered(to, "Grandfather", "Grandmother", "Grandparent") + "-in-Law"
		}
		if c.isSibling(spouse, toID) {
			return gendered(to, "Brother", "Sister", "Sibling") + "-in-Law"
		}
	}
	for _, sibling := range c.siblingsOf(fromID) {
		if slices.Contains(c.adj.SpousesOf(sibling), toID) {
			return gendered(to, "Brother", "Sister", "Sibling") + "-in-Law"
		}
	}
	for _, child := range c.adj.ChildrenOf(fromID) {
		if slices.Contains(c.adj.SpousesOf(child), toID) {
			return gendered(to, "Son", "Daughter", "Child") + "-in-Law"
		}
	}
	return ""
}

// classifyStep maps relations through a parent's or spouse's other family:
// a parent's spouse who is not a parent, a spouse's child who is not one's
// own, and a parent's spouse's children who are not true siblings.
func (c *Classifier) classifyStep(fromID, toID string, to kin.Person) string {
	for _, parent := range c.adj.ParentsOf(fromID) {
		if slices.Contains(c.adj.SpousesOf(parent), toID) &&
			!slices.Contains(c.adj.ParentsOf(fromID), toID) {
			return gendered(to, "Stepfather", "Stepmother", "Stepparent")
		}
	}
	for _, spouse := range c.adj.SpousesOf(fromID) {
		if slices.Contains(c.adj.ChildrenOf(spouse), toID) &&
			!slices.Contains(c.adj.ChildrenOf(fromID), toID) {
			return gendered(to, "Stepson", "Stepdaughter", "Stepchild")
		}
	}
	for _, parent := range c.adj.ParentsOf(fromID) {
		for _, spouse := range c.adj.SpousesOf(parent) {
			if slices.Contains(c.adj.ChildrenOf(spouse), toID) && !c.isSibling(fromID, toID) {
				return gendered(to, "Stepbrother", "Stepsister", "Stepsibling")
			}
		}
	}
	return ""
}
