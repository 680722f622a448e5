package kin

import (
	"slices"
	"testing"
)

// makeSnapshot builds a snapshot from fixture rows, failing the test on error.
func makeSnapshot(t *testing.T, people []Person, records []Record) *Snapshot {
	t.Helper()
	s, err := NewSnapshot(people, nil, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return s
}

func TestBuildAdjacencyParents(t *testing.T) {
	s := makeSnapshot(t,
		[]Person{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Record{
			{ID: "e1", Type: EdgeParent, Person1ID: "a", Person2ID: "c"},
			{ID: "e2", Type: EdgeAdoptedParent, Person1ID: "b", Person2ID: "c"},
			{ID: "e3", Type: EdgeFosterParent, Person1ID: "b", Person2ID: "a"},
			{ID: "e4", Type: EdgeParent, Person1ID: "ghost", Person2ID: "c"}, // dangling, skipped
		})
	adj := BuildAdjacency(s)

	if got := adj.ParentsOf("c"); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("ParentsOf(c) = %v, want [a b]", got)
	}
	if got := adj.ChildrenOf("a"); !slices.Equal(got, []string{"c"}) {
		t.Errorf("ChildrenOf(a) = %v, want [c]", got)
	}
	if got := adj.FosterParentsOf("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("FosterParentsOf(a) = %v, want [b]", got)
	}
	if adj.ParentsOf("a") != nil {
		t.Errorf("foster edge must not enter lineal parents, got %v", adj.ParentsOf("a"))
	}
}

func TestBuildAdjacencyDuplicateParentEdge(t *testing.T) {
	s := makeSnapshot(t,
		[]Person{{ID: "a"}, {ID: "c"}},
		[]Record{
			{ID: "e1", Type: EdgeParent, Person1ID: "a", Person2ID: "c"},
			{ID: "e2", Type: EdgeParent, Person1ID: "a", Person2ID: "c"},
		})
	adj := BuildAdjacency(s)
	if got := adj.ParentsOf("c"); len(got) != 1 {
		t.Errorf("duplicate edge should collapse, got parents %v", got)
	}
}

func TestCurrentSpouseResolution(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		person  string
		want    string
	}{
		{
			name: "single marriage",
			records: []Record{
				{ID: "m1", Type: EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: Married},
			},
			person: "a", want: "b",
		},
		{
			name: "married beats betrothed",
			records: []Record{
				{ID: "m1", Type: EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: Married},
				{ID: "m2", Type: EdgeSpouse, Person1ID: "a", Person2ID: "c", Status: Betrothed},
			},
			person: "a", want: "b",
		},
		{
			name: "latest marriage date wins",
			records: []Record{
				{ID: "m1", Type: EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: Married, MarriageDate: MustDate("1020")},
				{ID: "m2", Type: EdgeSpouse, Person1ID: "a", Person2ID: "c", Status: Married, MarriageDate: MustDate("1030")},
			},
			person: "a", want: "c",
		},
		{
			name: "dissolved union never current",
			records: []Record{
				{ID: "m1", Type: EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: Widowed},
			},
			person: "a", want: "",
		},
		{
			name: "remarriage after widowhood",
			records: []Record{
				{ID: "m1", Type: EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: Widowed, MarriageDate: MustDate("1010")},
				{ID: "m2", Type: EdgeSpouse, Person1ID: "a", Person2ID: "c", Status: Married, MarriageDate: MustDate("1025")},
			},
			person: "a", want: "c",
		},
	}

	people := []Person{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := BuildAdjacency(makeSnapshot(t, people, tt.records))
			if got := adj.SpouseOf(tt.person); got != tt.want {
				t.Errorf("SpouseOf(%s) = %q, want %q", tt.person, got, tt.want)
			}
		})
	}
}

func TestCurrentSpouseMapStaysSymmetric(t *testing.T) {
	// a-b married early, then b-c married later: b's current spouse moves to
	// c and a's assignment is released so the map never points one-way.
	s := makeSnapshot(t,
		[]Person{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		[]Record{
			{ID: "m1", Type: EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: Married, MarriageDate: MustDate("1010")},
			{ID: "m2", Type: EdgeSpouse, Person1ID: "b", Person2ID: "c", Status: Married, MarriageDate: MustDate("1020")},
		})
	adj := BuildAdjacency(s)

	if got := adj.SpouseOf("b"); got != "c" {
		t.Errorf("SpouseOf(b) = %q, want c", got)
	}
	if got := adj.SpouseOf("c"); got != "b" {
		t.Errorf("SpouseOf(c) = %q, want b", got)
	}
	if got := adj.SpouseOf("a"); got != "" {
		t.Errorf("SpouseOf(a) = %q, want released", got)
	}
	// Historical view still carries both unions.
	if got := adj.SpousesOf("b"); !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("SpousesOf(b) = %v, want [a c]", got)
	}
}

func TestSharedParents(t *testing.T) {
	s := makeSnapshot(t,
		[]Person{{ID: "p1"}, {ID: "p2"}, {ID: "x"}, {ID: "y"}},
		[]Record{
			{ID: "e1", Type: EdgeParent, Person1ID: "p1", Person2ID: "x"},
			{ID: "e2", Type: EdgeParent, Person1ID: "p2", Person2ID: "x"},
			{ID: "e3", Type: EdgeParent, Person1ID: "p1", Person2ID: "y"},
		})
	adj := BuildAdjacency(s)
	if got := adj.SharedParents("x", "y"); !slices.Equal(got, []string{"p1"}) {
		t.Errorf("SharedParents(x, y) = %v, want [p1]", got)
	}
}

func TestDecodeRecordRejectsUnknownType(t *testing.T) {
	_, err := DecodeRecord(Record{ID: "r1", Type: "sibling", Person1ID: "a", Person2ID: "b"})
	if err == nil {
		t.Fatal("expected error for unknown relationship type")
	}
}

func TestResolveScopeHouseWithCadets(t *testing.T) {
	people := []Person{
		{ID: "lord", HouseID: "main"},
		{ID: "lady", HouseID: "other"},
		{ID: "heir", HouseID: "main"},
		{ID: "snow", HouseID: "cadet", Legitimacy: Bastard},
		{ID: "stranger", HouseID: "far"},
	}
	houses := []House{
		{ID: "main"},
		{ID: "cadet", ParentHouseID: "main", FounderID: "snow"},
		{ID: "other"},
		{ID: "far"},
	}
	records := []Record{
		{ID: "m1", Type: EdgeSpouse, Person1ID: "lord", Person2ID: "lady", Status: Married},
		{ID: "e1", Type: EdgeParent, Person1ID: "lord", Person2ID: "heir"},
		{ID: "e2", Type: EdgeParent, Person1ID: "stranger", Person2ID: "snow"},
	}
	s, err := NewSnapshot(people, houses, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	adj := BuildAdjacency(s)

	sc := ResolveScope(s, adj, ScopeOptions{HouseID: "main", IncludeCadets: true})
	want := []string{"lord", "lady", "heir", "snow", "stranger"}
	if got := sc.IDs(); !slices.Equal(got, want) {
		t.Errorf("scope = %v, want %v", got, want)
	}

	// Without cadets the bastard line and its external parent drop out.
	sc = ResolveScope(s, adj, ScopeOptions{HouseID: "main"})
	want = []string{"lord", "lady", "heir"}
	if got := sc.IDs(); !slices.Equal(got, want) {
		t.Errorf("scope without cadets = %v, want %v", got, want)
	}
}
