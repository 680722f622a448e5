package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []kin.Person{
		{ID: "a", Name: "Aldous", Birth: kin.MustDate("1000")},
		{ID: "b", Name: "Berta", Birth: kin.MustDate("1002")},
		{ID: "c", Name: "Cerys", Birth: kin.MustDate("1020")},
	} {
		if _, err := s.PutPerson(ctx, p); err != nil {
			t.Fatalf("PutPerson(%s): %v", p.ID, err)
		}
	}
	if _, err := s.PutRecord(ctx, kin.Record{ID: "e1", Type: kin.EdgeParent, Person1ID: "a", Person2ID: "c"}); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
}

// backends under test that need no external service.
func testStores(t *testing.T) map[string]*Store {
	t.Helper()
	fileBackend, err := NewFileBackend(filepath.Join(t.TempDir(), "lineage.yaml"))
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	return map[string]*Store{
		"memory": New(NewMemoryBackend()),
		"file":   New(fileBackend),
	}
}

func TestStoreCRUD(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			seed(t, s)

			ds, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(ds.People) != 3 || len(ds.Records) != 1 {
				t.Fatalf("dataset = %d people / %d records", len(ds.People), len(ds.Records))
			}

			// Update keeps position and count.
			if _, err := s.PutPerson(ctx, kin.Person{ID: "a", Name: "Aldous the Old"}); err != nil {
				t.Fatalf("update person: %v", err)
			}
			ds, _ = s.Load(ctx)
			if len(ds.People) != 3 || ds.People[0].Name != "Aldous the Old" {
				t.Errorf("after update: %+v", ds.People)
			}

			// Deleting a person removes their edges too.
			if err := s.DeletePerson(ctx, "c"); err != nil {
				t.Fatalf("DeletePerson: %v", err)
			}
			ds, _ = s.Load(ctx)
			if len(ds.People) != 2 || len(ds.Records) != 0 {
				t.Errorf("after delete: %d people / %d records", len(ds.People), len(ds.Records))
			}

			if err := s.DeletePerson(ctx, "ghost"); !errors.Is(err, errors.ErrCodePersonNotFound) {
				t.Errorf("delete ghost: %v", err)
			}
		})
	}
}

func TestStoreMintsIDs(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()

	p, err := s.PutPerson(ctx, kin.Person{Name: "Nameless"})
	if err != nil {
		t.Fatalf("PutPerson: %v", err)
	}
	if p.ID == "" {
		t.Error("expected a minted person id")
	}

	h, err := s.PutHouse(ctx, kin.House{Name: "Stark"})
	if err != nil {
		t.Fatalf("PutHouse: %v", err)
	}
	if h.ID == "" {
		t.Error("expected a minted house id")
	}
}

func TestStoreRejectsInvalidEdges(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()
	seed(t, s)

	tests := []struct {
		name string
		rec  kin.Record
		code errors.Code
	}{
		{
			name: "circular ancestry",
			rec:  kin.Record{Type: kin.EdgeParent, Person1ID: "c", Person2ID: "a"},
			code: errors.ErrCodeCircularAncestry,
		},
		{
			name: "self parent",
			rec:  kin.Record{Type: kin.EdgeParent, Person1ID: "a", Person2ID: "a"},
			code: errors.ErrCodeSelfParent,
		},
		{
			name: "duplicate edge",
			rec:  kin.Record{Type: kin.EdgeParent, Person1ID: "a", Person2ID: "c"},
			code: errors.ErrCodeDuplicateEdge,
		},
		{
			name: "unknown spouse endpoint",
			rec:  kin.Record{Type: kin.EdgeSpouse, Person1ID: "a", Person2ID: "ghost", Status: kin.Married},
			code: errors.ErrCodePersonNotFound,
		},
		{
			name: "unknown type",
			rec:  kin.Record{Type: "rival", Person1ID: "a", Person2ID: "b"},
			code: errors.ErrCodeInvalidEdge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.PutRecord(context.Background(), tt.rec)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}

	// The rejected edges never reached storage.
	ds, _ := s.Load(ctx)
	if len(ds.Records) != 1 {
		t.Errorf("records = %d, want 1", len(ds.Records))
	}
}

func TestStoreRecordUpdateRevalidates(t *testing.T) {
	s := New(NewMemoryBackend())
	ctx := context.Background()
	seed(t, s)

	// Re-pointing an existing edge is validated against the graph without
	// its old version, so updating e1 in place succeeds.
	if _, err := s.PutRecord(ctx, kin.Record{ID: "e1", Type: kin.EdgeParent, Person1ID: "b", Person2ID: "c"}); err != nil {
		t.Fatalf("update record: %v", err)
	}
	ds, _ := s.Load(ctx)
	if len(ds.Records) != 1 || ds.Records[0].Person1ID != "b" {
		t.Errorf("records = %+v", ds.Records)
	}

	if err := s.DeleteRecord(ctx, "e1"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if err := s.DeleteRecord(ctx, "e1"); !errors.Is(err, errors.ErrCodeEdgeNotFound) {
		t.Errorf("second delete: %v", err)
	}
}

func TestFileBackendSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineage.json")
	ctx := context.Background()

	b, err := NewFileBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	s := New(b)
	seed(t, s)

	reopened, err := NewFileBackend(path)
	if err != nil {
		t.Fatal(err)
	}
	ds, err := New(reopened).Load(ctx)
	if err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	if len(ds.People) != 3 || len(ds.Records) != 1 {
		t.Errorf("dataset = %d people / %d records", len(ds.People), len(ds.Records))
	}
}

func TestEmptyStoreLoadsEmptyDataset(t *testing.T) {
	s := New(NewMemoryBackend())
	ds, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.People) != 0 {
		t.Errorf("expected empty dataset, got %+v", ds)
	}
}
