package validate

import (
	"fmt"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// OrphanedEdge is a relationship record referencing a person id that does
// not exist in the snapshot.
type OrphanedEdge struct {
	EdgeID    string `json:"edge_id"`
	MissingID string `json:"missing_id"`
	Role      string `json:"role"` // which endpoint is dangling
}

// Orphans itemizes every dangling reference found by the audit.
type Orphans struct {
	Edges              []OrphanedEdge `json:"edges,omitempty"`
	PeopleMissingHouse []string       `json:"people_missing_house,omitempty"`
	HousesMissingLink  []string       `json:"houses_missing_link,omitempty"`
}

// Empty reports whether the audit found no dangling references.
func (o Orphans) Empty() bool {
	return len(o.Edges) == 0 && len(o.PeopleMissingHouse) == 0 && len(o.HousesMissingLink) == 0
}

// FindOrphans scans every edge, person, and house reference and reports ids
// not present in their target collection. Pure read-only audit; nothing is
// repaired here.
func FindOrphans(s *kin.Snapshot) Orphans {
	var out Orphans

	check := func(edgeID, role, personID string) {
		if personID != "" && !s.HasPerson(personID) {
			out.Edges = append(out.Edges, OrphanedEdge{EdgeID: edgeID, MissingID: personID, Role: role})
		}
	}

	edges := s.Edges()
	for _, e := range edges.Parents {
		check(e.ID, "parent", e.ParentID)
		check(e.ID, "child", e.ChildID)
	}
	for _, e := range edges.Spouses {
		check(e.ID, "spouse", e.AID)
		check(e.ID, "spouse", e.BID)
	}
	for _, e := range edges.Twins {
		check(e.ID, "twin", e.AID)
		check(e.ID, "twin", e.BID)
	}
	for _, e := range edges.Mentors {
		check(e.ID, "mentor", e.MentorID)
		check(e.ID, "student", e.StudentID)
	}

	for _, p := range s.People() {
		if p.HouseID != "" {
			if _, ok := s.House(p.HouseID); !ok {
				out.PeopleMissingHouse = append(out.PeopleMissingHouse, p.ID)
			}
		}
	}
	for _, h := range s.Houses() {
		if h.ParentHouseID != "" {
			if _, ok := s.House(h.ParentHouseID); !ok {
				out.HousesMissingLink = append(out.HousesMissingLink, h.ID)
			}
		}
		if h.FounderID != "" && !s.HasPerson(h.FounderID) {
			out.HousesMissingLink = append(out.HousesMissingLink, h.ID)
		}
	}

	return out
}

// SpouseConflict flags two marriage records between the same pair that
// disagree on secondary attributes, or duplicate the pair outright.
type SpouseConflict struct {
	EdgeIDs [2]string `json:"edge_ids"`
	PairA   string    `json:"pair_a"`
	PairB   string    `json:"pair_b"`
	Detail  string    `json:"detail"`
}

// CheckSpouseSymmetry looks for pairs of spouse records that cover the same
// couple (in either direction) with mismatched dates or status. Spouse edges
// are logically symmetric; a pair stored twice must agree on the marriage it
// describes.
func CheckSpouseSymmetry(s *kin.Snapshot) []SpouseConflict {
	type pairKey struct{ lo, hi string }
	seen := make(map[pairKey]kin.SpouseEdge)
	var conflicts []SpouseConflict

	for _, e := range s.Edges().Spouses {
		key := pairKey{lo: e.AID, hi: e.BID}
		if key.lo > key.hi {
			key.lo, key.hi = key.hi, key.lo
		}
		prev, dup := seen[key]
		if !dup {
			seen[key] = e
			continue
		}
		conflict := SpouseConflict{EdgeIDs: [2]string{prev.ID, e.ID}, PairA: key.lo, PairB: key.hi}
		switch {
		case prev.MarriageDate.Compare(e.MarriageDate) != 0:
			conflict.Detail = fmt.Sprintf("marriage dates differ: %q vs %q", prev.MarriageDate, e.MarriageDate)
		case prev.Status != e.Status:
			conflict.Detail = fmt.Sprintf("statuses differ: %q vs %q", prev.Status, e.Status)
		default:
			conflict.Detail = "duplicate marriage record"
		}
		conflicts = append(conflicts, conflict)
	}
	return conflicts
}

// CircularAncestry is a self-reaching ancestor chain found in stored data.
type CircularAncestry struct {
	PersonID string   `json:"person_id"`
	Path     []string `json:"path"`
}

// findCircularAncestries probes every person for membership in an ancestry
// loop. Stored data should never contain one (CheckParentEdge gates writes),
// but imports bypass the gate, so the audit re-proves the invariant.
func findCircularAncestries(s *kin.Snapshot, adj *kin.Adjacency) []CircularAncestry {
	var cycles []CircularAncestry
	flagged := make(map[string]bool)
	for _, id := range s.PersonIDs() {
		if flagged[id] {
			continue
		}
		for _, parent := range adj.ParentsOf(id) {
			if res := DetectCycle(id, parent, adj); res.Circular {
				cycles = append(cycles, CircularAncestry{PersonID: id, Path: res.Path})
				for _, member := range res.Path {
					flagged[member] = true
				}
				break
			}
		}
	}
	return cycles
}

// Report aggregates every audit into the shape the "repair my data"
// workflow consumes. Healthy means no findings at all; callers distinguish
// blocking findings (Cycles) from warnings (everything else) themselves.
type Report struct {
	Healthy         bool               `json:"healthy"`
	Cycles          []CircularAncestry `json:"cycles,omitempty"`
	Orphans         Orphans            `json:"orphans"`
	SpouseConflicts []SpouseConflict   `json:"spouse_conflicts,omitempty"`
}

// RunIntegrityCheck runs the full audit over a snapshot.
func RunIntegrityCheck(s *kin.Snapshot) Report {
	adj := kin.BuildAdjacency(s)
	report := Report{
		Cycles:          findCircularAncestries(s, adj),
		Orphans:         FindOrphans(s),
		SpouseConflicts: CheckSpouseSymmetry(s),
	}
	report.Healthy = len(report.Cycles) == 0 && report.Orphans.Empty() && len(report.SpouseConflicts) == 0
	return report
}
