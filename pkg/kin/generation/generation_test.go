package generation

import (
	"slices"
	"testing"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

func build(t *testing.T, people []kin.Person, records []kin.Record) (*kin.Snapshot, *kin.Adjacency, *kin.Scope) {
	t.Helper()
	s, err := kin.NewSnapshot(people, nil, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	adj := kin.BuildAdjacency(s)
	return s, adj, kin.ResolveScope(s, adj, kin.ScopeOptions{})
}

func parentEdge(id, parent, child string) kin.Record {
	return kin.Record{ID: id, Type: kin.EdgeParent, Person1ID: parent, Person2ID: child}
}

func marriage(id, a, b string) kin.Record {
	return kin.Record{ID: id, Type: kin.EdgeSpouse, Person1ID: a, Person2ID: b, Status: kin.Married}
}

func TestAssignSimpleDescent(t *testing.T) {
	people := []kin.Person{
		{ID: "a", Birth: kin.MustDate("1000")},
		{ID: "b", Birth: kin.MustDate("1002")},
		{ID: "c", Birth: kin.MustDate("1020")},
		{ID: "d", Birth: kin.MustDate("1022")},
	}
	records := []kin.Record{
		marriage("m1", "a", "b"),
		parentEdge("e1", "a", "c"),
		parentEdge("e2", "b", "c"),
		parentEdge("e3", "a", "d"),
	}
	s, adj, scope := build(t, people, records)

	res := Assign(s, adj, scope, "")
	if res.Empty() {
		t.Fatal("unexpected empty result")
	}
	if res.RootID != "a" {
		t.Errorf("RootID = %q, want a", res.RootID)
	}
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !slicesEqual2(res.Generations, want) {
		t.Errorf("Generations = %v, want %v", res.Generations, want)
	}
}

func slicesEqual2(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !slices.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestAssignRootOverride(t *testing.T) {
	people := []kin.Person{
		{ID: "a", Birth: kin.MustDate("1000")},
		{ID: "b", Birth: kin.MustDate("990")},
		{ID: "c"},
	}
	records := []kin.Record{parentEdge("e1", "a", "c")}
	s, adj, scope := build(t, people, records)

	res := Assign(s, adj, scope, "a")
	if res.RootID != "a" {
		t.Errorf("RootID = %q, want override a", res.RootID)
	}

	// Without an override the oldest parentless person roots the walk.
	res = Assign(s, adj, scope, "")
	if res.RootID != "b" {
		t.Errorf("RootID = %q, want b", res.RootID)
	}
}

func TestAssignNoParentlessPerson(t *testing.T) {
	people := []kin.Person{{ID: "a"}, {ID: "b"}}
	records := []kin.Record{parentEdge("e1", "a", "b"), parentEdge("e2", "b", "a")}
	s, adj, scope := build(t, people, records)

	if res := Assign(s, adj, scope, ""); !res.Empty() {
		t.Errorf("expected empty result for rootless scope, got %v", res.Generations)
	}
}

func TestAssignMonotonicAcrossSharedDescent(t *testing.T) {
	// Diamond with a shortcut: root → x → y and root → y directly.
	// Longest-path relaxation must still put y strictly below x.
	people := []kin.Person{{ID: "root"}, {ID: "x"}, {ID: "y"}}
	records := []kin.Record{
		parentEdge("e1", "root", "x"),
		parentEdge("e2", "root", "y"),
		parentEdge("e3", "x", "y"),
	}
	s, adj, scope := build(t, people, records)

	res := Assign(s, adj, scope, "")
	for _, rec := range records {
		parent, child := rec.Person1ID, rec.Person2ID
		if res.Index[child] <= res.Index[parent] {
			t.Errorf("generation(%s)=%d not below generation(%s)=%d",
				child, res.Index[child], parent, res.Index[parent])
		}
	}
}

func TestSpouseHarmonization(t *testing.T) {
	t.Run("married-in spouse adopts blood generation", func(t *testing.T) {
		people := []kin.Person{
			{ID: "root", Birth: kin.MustDate("1000")},
			{ID: "heir"},
			{ID: "consort"}, // no parents in scope, no children
		}
		records := []kin.Record{
			parentEdge("e1", "root", "heir"),
			marriage("m1", "heir", "consort"),
		}
		s, adj, scope := build(t, people, records)

		res := Assign(s, adj, scope, "")
		if res.Index["consort"] != res.Index["heir"] {
			t.Errorf("consort generation %d, want heir's %d", res.Index["consort"], res.Index["heir"])
		}
	})

	t.Run("side with children anchors the pair", func(t *testing.T) {
		// "stray" starts at generation 0 (parentless, not the root), but is
		// married to "heir" who has children; the childless side adopts.
		people := []kin.Person{
			{ID: "root", Birth: kin.MustDate("1000")},
			{ID: "heir"},
			{ID: "stray"},
			{ID: "grandchild"},
		}
		records := []kin.Record{
			parentEdge("e1", "root", "heir"),
			parentEdge("e2", "heir", "grandchild"),
			marriage("m1", "heir", "stray"),
		}
		s, adj, scope := build(t, people, records)

		res := Assign(s, adj, scope, "")
		if res.Index["stray"] != res.Index["heir"] {
			t.Errorf("stray generation %d, want heir's %d", res.Index["stray"], res.Index["heir"])
		}
		if res.Index["grandchild"] != res.Index["heir"]+1 {
			t.Errorf("grandchild generation %d, want %d", res.Index["grandchild"], res.Index["heir"]+1)
		}
	})
}

func TestStrayParentlessDefaultsToGenerationZero(t *testing.T) {
	people := []kin.Person{
		{ID: "root", Birth: kin.MustDate("1000")},
		{ID: "child"},
		{ID: "loner", Birth: kin.MustDate("1050")},
	}
	records := []kin.Record{parentEdge("e1", "root", "child")}
	s, adj, scope := build(t, people, records)

	res := Assign(s, adj, scope, "")
	if res.Index["loner"] != 0 {
		t.Errorf("loner generation = %d, want 0", res.Index["loner"])
	}
}

func TestAssignEmptyScope(t *testing.T) {
	s, err := kin.NewSnapshot(nil, nil, nil)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	adj := kin.BuildAdjacency(s)
	scope := kin.ResolveScope(s, adj, kin.ScopeOptions{})
	if res := Assign(s, adj, scope, ""); !res.Empty() {
		t.Error("expected empty result for empty scope")
	}
}
