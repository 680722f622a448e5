package pipeline

import (
	"context"
	"testing"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/chart"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// familySnapshot is a married couple with a legitimate daughter and a
// bastard son recorded under the father alone.
func familySnapshot(t *testing.T) *kin.Snapshot {
	t.Helper()
	people := []kin.Person{
		{ID: "a", Name: "Aldous", Gender: kin.GenderMale, Birth: kin.MustDate("1000")},
		{ID: "b", Name: "Berta", Gender: kin.GenderFemale, Birth: kin.MustDate("1002")},
		{ID: "c", Name: "Cerys", Gender: kin.GenderFemale, Birth: kin.MustDate("1020")},
		{ID: "d", Name: "Doran", Gender: kin.GenderMale, Birth: kin.MustDate("1022"), Legitimacy: kin.Bastard},
	}
	records := []kin.Record{
		{ID: "m1", Type: kin.EdgeSpouse, Person1ID: "a", Person2ID: "b", Status: kin.Married},
		{ID: "e1", Type: kin.EdgeParent, Person1ID: "a", Person2ID: "c"},
		{ID: "e2", Type: kin.EdgeParent, Person1ID: "b", Person2ID: "c"},
		{ID: "e3", Type: kin.EdgeParent, Person1ID: "a", Person2ID: "d"},
	}
	s, err := kin.NewSnapshot(people, nil, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return s
}

func TestExecuteEndToEnd(t *testing.T) {
	s := familySnapshot(t)
	runner := NewRunner(nil, nil)

	res, err := runner.Execute(context.Background(), s, Options{ReferenceID: "c"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !res.Audit.Healthy {
		t.Errorf("audit unhealthy: %+v", res.Audit)
	}
	if res.Stats.PersonCount != 4 || res.Stats.FragmentCount != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}

	// Generations: the couple shares row 0, both children sit in row 1.
	gens := res.Generations[0]
	if gens.Index["a"] != 0 || gens.Index["b"] != 0 {
		t.Errorf("couple rows: a=%d b=%d, want 0/0", gens.Index["a"], gens.Index["b"])
	}
	if gens.Index["c"] != 1 || gens.Index["d"] != 1 {
		t.Errorf("children rows: c=%d d=%d, want 1/1", gens.Index["c"], gens.Index["d"])
	}

	// The bastard son is a half-brother relative to the legitimate daughter.
	if got := res.Labels["d"]; got != "Half-Brother" {
		t.Errorf("label for d = %q, want Half-Brother", got)
	}

	if len(res.Chart.Cards) != 4 {
		t.Fatalf("got %d cards, want 4", len(res.Chart.Cards))
	}
	cards := map[string]chart.Card{}
	for _, c := range res.Chart.Cards {
		cards[c.PersonID] = c
	}

	// C hangs under the marriage midpoint, D under A alone, on an offset
	// connector system.
	var cConn, dConn *chart.Connector
	for i := range res.Chart.Connectors {
		switch res.Chart.Connectors[i].ChildID {
		case "c":
			cConn = &res.Chart.Connectors[i]
		case "d":
			dConn = &res.Chart.Connectors[i]
		}
	}
	if cConn == nil || dConn == nil {
		t.Fatalf("missing connectors: %+v", res.Chart.Connectors)
	}
	if cConn.System != chart.SystemLegitimate || len(cConn.ParentIDs) != 2 {
		t.Errorf("c connector = %+v", cConn)
	}
	if dConn.System != chart.SystemBastardSingle {
		t.Errorf("d connector system = %q, want bastard-single", dConn.System)
	}
	if len(dConn.ParentIDs) != 1 || dConn.ParentIDs[0] != "a" {
		t.Errorf("d connector parents = %v, want [a]", dConn.ParentIDs)
	}
	if dConn.Offset == cConn.Offset {
		t.Error("bastard connector shares the legitimate offset")
	}

	// Children land one row below their parents on the page.
	if cards["c"].Y <= cards["a"].Y {
		t.Errorf("c.Y = %g not below a.Y = %g", cards["c"].Y, cards["a"].Y)
	}
}

func TestExecuteStrictRejectsCycles(t *testing.T) {
	people := []kin.Person{{ID: "x"}, {ID: "y"}}
	records := []kin.Record{
		{ID: "e1", Type: kin.EdgeParent, Person1ID: "x", Person2ID: "y"},
		{ID: "e2", Type: kin.EdgeParent, Person1ID: "y", Person2ID: "x"},
	}
	s, err := kin.NewSnapshot(people, nil, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	runner := NewRunner(nil, nil)
	_, err = runner.Execute(context.Background(), s, Options{Strict: true})
	if !errors.Is(err, errors.ErrCodeCircularAncestry) {
		t.Errorf("err = %v, want ANCESTRY_CIRCULAR", err)
	}

	// Non-strict runs report the cycle but do not fail.
	res, err := runner.Execute(context.Background(), s, Options{})
	if err != nil {
		t.Fatalf("non-strict Execute: %v", err)
	}
	if res.Audit.Healthy || len(res.Audit.Cycles) == 0 {
		t.Errorf("audit = %+v, want recorded cycles", res.Audit)
	}
}

func TestExecuteMultipleFragmentsStackVertically(t *testing.T) {
	people := []kin.Person{
		{ID: "a", Birth: kin.MustDate("1000")},
		{ID: "akid"},
		{ID: "z", Birth: kin.MustDate("1100")},
		{ID: "zkid"},
	}
	records := []kin.Record{
		{ID: "e1", Type: kin.EdgeParent, Person1ID: "a", Person2ID: "akid"},
		{ID: "e2", Type: kin.EdgeParent, Person1ID: "z", Person2ID: "zkid"},
	}
	s, err := kin.NewSnapshot(people, nil, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	runner := NewRunner(nil, nil)
	res, err := runner.Execute(context.Background(), s, Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.FragmentCount != 2 {
		t.Fatalf("fragments = %d, want 2", res.Stats.FragmentCount)
	}
	if len(res.Chart.Separators) != 1 {
		t.Fatalf("separators = %d, want 1", len(res.Chart.Separators))
	}

	cards := map[string]chart.Card{}
	for _, c := range res.Chart.Cards {
		cards[c.PersonID] = c
	}
	// The younger line sits entirely below the older one.
	for _, older := range []string{"a", "akid"} {
		for _, younger := range []string{"z", "zkid"} {
			if cards[younger].Y <= cards[older].Y {
				t.Errorf("%s (y=%g) should be below %s (y=%g)",
					younger, cards[younger].Y, older, cards[older].Y)
			}
		}
	}
	sep := res.Chart.Separators[0]
	if sep.AboveFragment != 0 || sep.BelowFragment != 1 {
		t.Errorf("separator = %+v", sep)
	}
}

func TestExecuteOptionValidation(t *testing.T) {
	s := familySnapshot(t)
	runner := NewRunner(nil, nil)

	if _, err := runner.Execute(context.Background(), s, Options{HouseID: "h", PersonIDs: []string{"a"}}); err == nil {
		t.Error("expected error for house_id + person_ids")
	}
	if _, err := runner.Execute(context.Background(), s, Options{RootID: "ghost"}); !errors.Is(err, errors.ErrCodePersonNotFound) {
		t.Errorf("err = %v, want PERSON_NOT_FOUND", err)
	}
	if _, err := runner.Execute(context.Background(), s, Options{ReferenceID: "ghost"}); !errors.Is(err, errors.ErrCodePersonNotFound) {
		t.Errorf("err = %v, want PERSON_NOT_FOUND", err)
	}
}
