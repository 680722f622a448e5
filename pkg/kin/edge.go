package kin

import "fmt"

// EdgeType discriminates relationship records.
type EdgeType string

// Recognized relationship types.
const (
	EdgeParent        EdgeType = "parent"
	EdgeAdoptedParent EdgeType = "adopted-parent"
	EdgeFosterParent  EdgeType = "foster-parent"
	EdgeSpouse        EdgeType = "spouse"
	EdgeTwin          EdgeType = "twin"
	EdgeMentor        EdgeType = "mentor"
)

// MarriageStatus is the lifecycle state of a spouse edge.
type MarriageStatus string

// Recognized marriage statuses.
const (
	Married   MarriageStatus = "married"
	Divorced  MarriageStatus = "divorced"
	Widowed   MarriageStatus = "widowed"
	Betrothed MarriageStatus = "betrothed"
)

// Record is the persisted wire shape of a relationship: one row type with
// optional fields whose meaning depends on Type. Records are decoded into
// the tagged edge forms below at ingestion, so the engine never branches on
// nil fields.
type Record struct {
	ID        string   `json:"id" yaml:"id"`
	Type      EdgeType `json:"type" yaml:"type"`
	Person1ID string   `json:"person1_id" yaml:"person1_id"`
	Person2ID string   `json:"person2_id" yaml:"person2_id"`

	// Parent-type records only. Person1 is the parent, Person2 the child.
	Biological bool `json:"biological,omitempty" yaml:"biological,omitempty"`

	// Spouse records only.
	Status       MarriageStatus `json:"status,omitempty" yaml:"status,omitempty"`
	MarriageDate PartialDate    `json:"marriage_date,omitempty" yaml:"marriage_date,omitempty"`
	DivorceDate  PartialDate    `json:"divorce_date,omitempty" yaml:"divorce_date,omitempty"`
}

// ParentKind distinguishes the three parent edge flavors.
type ParentKind string

// Parent edge flavors. Only Biological and Adoptive participate in the
// ancestry DAG invariant; foster links are social, not lineal.
const (
	ParentBiological ParentKind = "biological"
	ParentAdoptive   ParentKind = "adoptive"
	ParentFoster     ParentKind = "foster"
)

// ParentEdge links a parent to a child.
type ParentEdge struct {
	ID       string
	ParentID string
	ChildID  string
	Kind     ParentKind
	// Biological carries the record's explicit flag. A bastard may have one
	// biological parent recorded inside a couple and one outside it; layout
	// uses this to pick the single- vs dual-parent bastard line system.
	Biological bool
}

// Lineal reports whether the edge counts for ancestry (cycle detection,
// generations, classification). Foster parents do not.
func (e ParentEdge) Lineal() bool { return e.Kind != ParentFoster }

// SpouseEdge links two people by marriage or betrothal. The pair is
// symmetric; A/B order only reflects the stored record.
type SpouseEdge struct {
	ID           string
	AID, BID     string
	Status       MarriageStatus
	MarriageDate PartialDate
	DivorceDate  PartialDate
}

// Active reports whether the marriage still stands for layout purposes.
// Divorced and widowed unions remain in the historical record but no longer
// co-locate the pair on the page.
func (e SpouseEdge) Active() bool {
	return e.Status == Married || e.Status == Betrothed
}

// Other returns the partner of id, or "" if id is not part of the edge.
func (e SpouseEdge) Other(id string) string {
	switch id {
	case e.AID:
		return e.BID
	case e.BID:
		return e.AID
	}
	return ""
}

// TwinEdge marks two people as twins.
type TwinEdge struct {
	ID       string
	AID, BID string
}

// MentorEdge links a mentor (A) to a protégé (B).
type MentorEdge struct {
	ID        string
	MentorID  string
	StudentID string
}

// Edges holds decoded relationship edges grouped by kind.
type Edges struct {
	Parents []ParentEdge
	Spouses []SpouseEdge
	Twins   []TwinEdge
	Mentors []MentorEdge
}

// DecodeRecord converts a persisted Record into its tagged edge form.
// Records with an unknown type or missing endpoints are rejected here so
// downstream code can assume well-formed edges.
func DecodeRecord(r Record) (any, error) {
	if r.Person1ID == "" || r.Person2ID == "" {
		return nil, fmt.Errorf("record %s: both endpoints are required", r.ID)
	}
	switch r.Type {
	case EdgeParent:
		return ParentEdge{ID: r.ID, ParentID: r.Person1ID, ChildID: r.Person2ID, Kind: ParentBiological, Biological: r.Biological}, nil
	case EdgeAdoptedParent:
		return ParentEdge{ID: r.ID, ParentID: r.Person1ID, ChildID: r.Person2ID, Kind: ParentAdoptive}, nil
	case EdgeFosterParent:
		return ParentEdge{ID: r.ID, ParentID: r.Person1ID, ChildID: r.Person2ID, Kind: ParentFoster}, nil
	case EdgeSpouse:
		status := r.Status
		if status == "" {
			status = Married
		}
		return SpouseEdge{ID: r.ID, AID: r.Person1ID, BID: r.Person2ID, Status: status, MarriageDate: r.MarriageDate, DivorceDate: r.DivorceDate}, nil
	case EdgeTwin:
		return TwinEdge{ID: r.ID, AID: r.Person1ID, BID: r.Person2ID}, nil
	case EdgeMentor:
		return MentorEdge{ID: r.ID, MentorID: r.Person1ID, StudentID: r.Person2ID}, nil
	default:
		return nil, fmt.Errorf("record %s: unknown relationship type %q", r.ID, r.Type)
	}
}

// DecodeRecords converts a batch of records, collecting the decoded edges by
// kind. The first malformed record aborts the decode.
func DecodeRecords(records []Record) (Edges, error) {
	var edges Edges
	for _, r := range records {
		decoded, err := DecodeRecord(r)
		if err != nil {
			return Edges{}, err
		}
		switch e := decoded.(type) {
		case ParentEdge:
			edges.Parents = append(edges.Parents, e)
		case SpouseEdge:
			edges.Spouses = append(edges.Spouses, e)
		case TwinEdge:
			edges.Twins = append(edges.Twins, e)
		case MentorEdge:
			edges.Mentors = append(edges.Mentors, e)
		}
	}
	return edges, nil
}

// EncodeEdges converts tagged edges back to persisted records, in a stable
// kind-major order (parents, spouses, twins, mentors).
func EncodeEdges(edges Edges) []Record {
	records := make([]Record, 0, len(edges.Parents)+len(edges.Spouses)+len(edges.Twins)+len(edges.Mentors))
	for _, e := range edges.Parents {
		r := Record{ID: e.ID, Person1ID: e.ParentID, Person2ID: e.ChildID}
		switch e.Kind {
		case ParentAdoptive:
			r.Type = EdgeAdoptedParent
		case ParentFoster:
			r.Type = EdgeFosterParent
		default:
			r.Type = EdgeParent
			r.Biological = e.Biological
		}
		records = append(records, r)
	}
	for _, e := range edges.Spouses {
		records = append(records, Record{
			ID: e.ID, Type: EdgeSpouse, Person1ID: e.AID, Person2ID: e.BID,
			Status: e.Status, MarriageDate: e.MarriageDate, DivorceDate: e.DivorceDate,
		})
	}
	for _, e := range edges.Twins {
		records = append(records, Record{ID: e.ID, Type: EdgeTwin, Person1ID: e.AID, Person2ID: e.BID})
	}
	for _, e := range edges.Mentors {
		records = append(records, Record{ID: e.ID, Type: EdgeMentor, Person1ID: e.MentorID, Person2ID: e.StudentID})
	}
	return records
}
