// Package validate implements the ancestry-integrity checks that gate
// mutations and back the offline data audit.
//
// Every function returns a result object and never an error: structural
// problems (self-parent, circular ancestry, duplicate edges) are verdicts
// the caller turns into a rejected write, while data-quality findings
// (orphaned references, conflicting marriage records) are warnings that
// never block computation.
package validate

import (
	"slices"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// CycleResult is the outcome of a circular-ancestry probe.
type CycleResult struct {
	Circular bool `json:"circular"`
	// Path is the ancestor chain from the proposed parent up to the child
	// that would close the loop, inclusive at both ends. Empty when the
	// probe found no cycle.
	Path []string `json:"path,omitempty"`
}

// DetectCycle reports whether making proposedParent a parent of child would
// close an ancestry loop. The self-parent case is circular by definition.
//
// The probe walks upward through existing lineal parent edges from
// proposedParent; reaching child proves the new edge would let child be its
// own ancestor. A visited set bounds the walk to O(V+E) even on data that
// already violates the DAG invariant.
func DetectCycle(childID, proposedParentID string, adj *kin.Adjacency) CycleResult {
	if childID == proposedParentID {
		return CycleResult{Circular: true, Path: []string{childID}}
	}

	visited := map[string]bool{}
	var walk func(id string, path []string) []string
	walk = func(id string, path []string) []string {
		if visited[id] {
			return nil
		}
		visited[id] = true
		path = append(path, id)
		if id == childID {
			return slices.Clone(path)
		}
		for _, parent := range adj.ParentsOf(id) {
			if found := walk(parent, path); found != nil {
				return found
			}
		}
		return nil
	}

	if path := walk(proposedParentID, nil); path != nil {
		return CycleResult{Circular: true, Path: path}
	}
	return CycleResult{}
}

// Reasons a parent-edge proposal is rejected or flagged.
const (
	ReasonSelfParent      = "person cannot be their own parent"
	ReasonUnknownParent   = "parent is not in the snapshot"
	ReasonUnknownChild    = "child is not in the snapshot"
	ReasonDuplicateEdge   = "parent edge already exists"
	ReasonCircular        = "edge would create circular ancestry"
	WarnMoreThanTwoParent = "child would have more than two recorded parents"
)

// EdgeVerdict is the outcome of vetting a proposed parent edge.
// Reject blocks the write; Warnings accompany an accepted edge.
type EdgeVerdict struct {
	OK       bool        `json:"ok"`
	Reason   string      `json:"reason,omitempty"`
	Cycle    CycleResult `json:"cycle,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// CheckParentEdge vets a proposed lineal parent edge against a snapshot.
// Rejections are structural (spec class 1); a third recorded parent is
// tolerated with a warning since the data model allows 2+ entries.
func CheckParentEdge(parentID, childID string, s *kin.Snapshot, adj *kin.Adjacency) EdgeVerdict {
	if parentID == childID {
		return EdgeVerdict{Reason: ReasonSelfParent}
	}
	if !s.HasPerson(parentID) {
		return EdgeVerdict{Reason: ReasonUnknownParent}
	}
	if !s.HasPerson(childID) {
		return EdgeVerdict{Reason: ReasonUnknownChild}
	}
	if adj.IsParentOf(parentID, childID) {
		return EdgeVerdict{Reason: ReasonDuplicateEdge}
	}
	if res := DetectCycle(childID, parentID, adj); res.Circular {
		return EdgeVerdict{Reason: ReasonCircular, Cycle: res}
	}

	verdict := EdgeVerdict{OK: true}
	if len(adj.ParentsOf(childID)) >= 2 {
		verdict.Warnings = append(verdict.Warnings, WarnMoreThanTwoParent)
	}
	return verdict
}
