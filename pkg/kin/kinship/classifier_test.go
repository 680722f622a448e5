package kinship

import (
	"testing"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

func person(id string, g kin.Gender) kin.Person {
	return kin.Person{ID: id, Name: id, Gender: g}
}

func parentOf(parent, child string) kin.Record {
	return kin.Record{ID: "p-" + parent + "-" + child, Type: kin.EdgeParent, Person1ID: parent, Person2ID: child, Biological: true}
}

func marriage(a, b string, status kin.MarriageStatus) kin.Record {
	return kin.Record{ID: "m-" + a + "-" + b, Type: kin.EdgeSpouse, Person1ID: a, Person2ID: b, Status: status}
}

func newClassifier(t *testing.T, people []kin.Person, records []kin.Record, opts ...Option) *Classifier {
	t.Helper()
	snap, err := kin.NewSnapshot(people, nil, records)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return New(snap, kin.BuildAdjacency(snap), opts...)
}

// extendedFamily builds four generations around "me": grandparents and a
// great-grandfather, an uncle with a cousin line, a half-brother, a wife
// with in-laws, a stepmother with a stepbrother, and collateral descendants.
func extendedFamily(t *testing.T) *Classifier {
	t.Helper()
	people := []kin.Person{
		person("ggf", kin.GenderMale),
		person("gf", kin.GenderMale), person("gm", kin.GenderFemale),
		person("greatuncle", kin.GenderMale),
		person("dad", kin.GenderMale), person("mom", kin.GenderFemale),
		person("uncle", kin.GenderMale),
		person("otherdad", kin.GenderMale),
		person("stepmom", kin.GenderFemale), person("stepbro", kin.GenderMale),
		person("me", kin.GenderMale), person("sis", kin.GenderFemale),
		person("halfbro", kin.GenderMale),
		person("wife", kin.GenderFemale),
		person("fil", kin.GenderMale), person("wifebro", kin.GenderMale),
		person("cousin", kin.GenderMale), person("cousinkid", kin.GenderFemale),
		person("nephew", kin.GenderMale), person("gnephew", kin.GenderMale),
		person("kid", kin.GenderMale), person("kidwife", kin.GenderFemale),
	}
	records := []kin.Record{
		parentOf("ggf", "gf"), parentOf("ggf", "greatuncle"),
		marriage("gf", "gm", kin.Married),
		parentOf("gf", "dad"), parentOf("gm", "dad"),
		parentOf("gf", "uncle"), parentOf("gm", "uncle"),
		marriage("dad", "mom", kin.Married),
		marriage("dad", "stepmom", kin.Divorced),
		parentOf("stepmom", "stepbro"),
		parentOf("dad", "me"), parentOf("mom", "me"),
		parentOf("dad", "sis"), parentOf("mom", "sis"),
		parentOf("mom", "halfbro"), parentOf("otherdad", "halfbro"),
		parentOf("uncle", "cousin"),
		parentOf("cousin", "cousinkid"),
		parentOf("sis", "nephew"),
		parentOf("nephew", "gnephew"),
		marriage("me", "wife", kin.Married),
		parentOf("fil", "wife"), parentOf("fil", "wifebro"),
		parentOf("me", "kid"), parentOf("wife", "kid"),
		marriage("kid", "kidwife", kin.Married),
	}
	return newClassifier(t, people, records)
}

func TestClassifyExtendedFamily(t *testing.T) {
	c := extendedFamily(t)

	tests := []struct {
		from, to, want string
	}{
		// Direct
		{"me", "wife", "Wife"},
		{"wife", "me", "Husband"},
		{"me", "dad", "Father"},
		{"me", "mom", "Mother"},
		{"dad", "me", "Son"},
		{"dad", "sis", "Daughter"},
		// Siblings
		{"me", "sis", "Sister"},
		{"me", "halfbro", "Half-Brother"},
		{"halfbro", "me", "Half-Brother"},
		// Lineal
		{"me", "gf", "Grandfather"},
		{"me", "ggf", "Great-Grandfather"},
		{"gf", "me", "Grandson"},
		{"ggf", "me", "Great-Grandson"},
		// Collateral
		{"me", "uncle", "Uncle"},
		{"me", "greatuncle", "Great-Uncle"},
		{"me", "nephew", "Nephew"},
		{"me", "gnephew", "Grand-Nephew"},
		// Cousins
		{"me", "cousin", "1st Cousin"},
		{"me", "cousinkid", "1st Cousin Once Removed"},
		{"cousinkid", "me", "1st Cousin Once Removed"},
		// In-laws
		{"me", "fil", "Father-in-Law"},
		{"me", "wifebro", "Brother-in-Law"},
		{"wifebro", "me", "Brother-in-Law"},
		{"me", "kidwife", "Daughter-in-Law"},
		// Step relations
		{"me", "stepmom", "Stepmother"},
		{"me", "stepbro", "Stepbrother"},
		// Former spouse
		{"dad", "stepmom", "Former Wife"},
		// Identity and unknowns
		{"me", "me", "Self"},
		{"me", "ghost", ""},
		{"ghost", "me", ""},
		// Unrelated within the modeled degree
		{"otherdad", "kidwife", ""},
	}

	for _, tt := range tests {
		t.Run(tt.from+"/"+tt.to, func(t *testing.T) {
			if got := c.Classify(tt.from, tt.to); got != tt.want {
				t.Errorf("Classify(%s, %s) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestClassifySingleParentFullSiblings(t *testing.T) {
	// Each side has exactly one recorded parent and it is the same one:
	// full siblings, not half.
	c := newClassifier(t,
		[]kin.Person{person("p", kin.GenderFemale), person("x", kin.GenderMale), person("y", kin.GenderMale)},
		[]kin.Record{parentOf("p", "x"), parentOf("p", "y")},
	)
	if got := c.Classify("x", "y"); got != "Brother" {
		t.Errorf("Classify(x, y) = %q, want Brother", got)
	}
}

func TestClassifyTwinBeatsSibling(t *testing.T) {
	c := newClassifier(t,
		[]kin.Person{person("p", kin.GenderMale), person("a", kin.GenderMale), person("b", kin.GenderFemale)},
		[]kin.Record{
			parentOf("p", "a"), parentOf("p", "b"),
			{ID: "t1", Type: kin.EdgeTwin, Person1ID: "a", Person2ID: "b"},
		},
	)
	if got := c.Classify("a", "b"); got != "Twin Sister" {
		t.Errorf("Classify(a, b) = %q, want Twin Sister", got)
	}
}

func TestClassifyFosterAndMentor(t *testing.T) {
	c := newClassifier(t,
		[]kin.Person{person("ward", kin.GenderMale), person("guardian", kin.GenderFemale), person("sage", kin.GenderMale)},
		[]kin.Record{
			{ID: "f1", Type: kin.EdgeFosterParent, Person1ID: "guardian", Person2ID: "ward"},
			{ID: "mt1", Type: kin.EdgeMentor, Person1ID: "sage", Person2ID: "ward"},
		},
	)
	tests := []struct {
		from, to, want string
	}{
		{"ward", "guardian", "Foster Mother"},
		{"guardian", "ward", "Foster Son"},
		{"ward", "sage", "Mentor"},
		{"sage", "ward", "Protégé"},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.from, tt.to); got != tt.want {
			t.Errorf("Classify(%s, %s) = %q, want %q", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestWidowKeepsInLaws(t *testing.T) {
	c := newClassifier(t,
		[]kin.Person{person("w", kin.GenderFemale), person("h", kin.GenderMale), person("hf", kin.GenderMale)},
		[]kin.Record{
			marriage("w", "h", kin.Widowed),
			parentOf("hf", "h"),
		},
	)
	if got := c.Classify("w", "hf"); got != "Father-in-Law" {
		t.Errorf("Classify(w, hf) = %q, want Father-in-Law", got)
	}
}

func TestMaxDepthCapsLinealWalks(t *testing.T) {
	// a → b → c → d → e → f: a is f's ancestor at depth 5, past the
	// default cap of 4.
	people := []kin.Person{
		person("a", kin.GenderMale), person("b", kin.GenderMale), person("c", kin.GenderMale),
		person("d", kin.GenderMale), person("e", kin.GenderMale), person("f", kin.GenderMale),
	}
	records := []kin.Record{
		parentOf("a", "b"), parentOf("b", "c"), parentOf("c", "d"),
		parentOf("d", "e"), parentOf("e", "f"),
	}

	capped := newClassifier(t, people, records)
	if got := capped.Classify("f", "a"); got != "" {
		t.Errorf("capped Classify(f, a) = %q, want unrelated", got)
	}

	deep := newClassifier(t, people, records, WithMaxDepth(6))
	if got := deep.Classify("f", "a"); got != "3x Great-Grandfather" {
		t.Errorf("deep Classify(f, a) = %q, want 3x Great-Grandfather", got)
	}
}

func TestClassifyAllOmitsUnrelated(t *testing.T) {
	c := newClassifier(t,
		[]kin.Person{person("p", kin.GenderMale), person("kid", kin.GenderFemale), person("stranger", kin.GenderMale)},
		[]kin.Record{parentOf("p", "kid")},
	)
	labels := c.ClassifyAll("p")
	if labels["kid"] != "Daughter" {
		t.Errorf("labels[kid] = %q, want Daughter", labels["kid"])
	}
	if _, ok := labels["stranger"]; ok {
		t.Error("unrelated person should be omitted")
	}
	if _, ok := labels["p"]; ok {
		t.Error("reference person should be omitted")
	}
}

func TestCousinAndOrdinalLabels(t *testing.T) {
	tests := []struct {
		degree, removal int
		want            string
	}{
		{1, 0, "1st Cousin"},
		{2, 0, "2nd Cousin"},
		{3, 0, "3rd Cousin"},
		{4, 0, "4th Cousin"},
		{1, 1, "1st Cousin Once Removed"},
		{1, 2, "1st Cousin Twice Removed"},
		{2, 3, "2nd Cousin 3x Removed"},
	}
	for _, tt := range tests {
		if got := cousinLabel(tt.degree, tt.removal); got != tt.want {
			t.Errorf("cousinLabel(%d, %d) = %q, want %q", tt.degree, tt.removal, got, tt.want)
		}
	}
}
