// Package store provides dataset persistence for Lineageweaver.
//
// This package defines a Backend interface for raw dataset storage, with
// implementations for different deployments:
//   - memory: In-memory storage for development/testing
//   - file: JSON or YAML dataset files for CLI use
//   - sqlite: Embedded database for single-host deployments
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage
//
// # Architecture
//
// Backends only load and save whole datasets. The Store wraps a backend
// with the mutation surface: create/update/delete of people, houses and
// relationship records, gated by the ancestry validator so a cyclic or
// duplicate parent edge never reaches storage.
//
// # Usage
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rec, err := st.PutRecord(ctx, kin.Record{
//	    Type:      kin.EdgeParent,
//	    Person1ID: "a",
//	    Person2ID: "c",
//	})
package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/validate"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/observability"
)

// ErrNotFound is returned when no dataset has been stored yet.
var ErrNotFound = stderrors.New("dataset not found")

// Backend persists whole datasets. Implementations must be safe for
// concurrent use.
type Backend interface {
	// Load retrieves the stored dataset. Returns ErrNotFound when nothing
	// has been saved yet.
	Load(ctx context.Context) (*kin.Dataset, error)

	// Save stores the dataset, replacing any previous contents.
	Save(ctx context.Context, ds *kin.Dataset) error

	// Close releases backend resources.
	Close() error

	// Name identifies the backend in logs and hooks.
	Name() string
}

// Store wraps a backend with the validated mutation surface.
type Store struct {
	b Backend
}

// New wraps a backend.
func New(b Backend) *Store { return &Store{b: b} }

// Open constructs the backend selected by cfg and wraps it.
func Open(ctx context.Context, cfg config.StoreConfig) (*Store, error) {
	switch cfg.Backend {
	case "memory":
		return New(NewMemoryBackend()), nil
	case "file":
		b, err := NewFileBackend(cfg.Path)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case "sqlite":
		b, err := NewSQLiteBackend(cfg.Path)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case "redis":
		b, err := NewRedisBackend(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	case "mongo":
		b, err := NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return New(b), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
}

// Close releases the underlying backend.
func (s *Store) Close() error { return s.b.Close() }

// Backend returns the backend name for logs.
func (s *Store) Backend() string { return s.b.Name() }

// Load retrieves the dataset. A missing dataset comes back empty rather
// than as an error, so a fresh store is usable immediately.
func (s *Store) Load(ctx context.Context) (*kin.Dataset, error) {
	ds, err := s.b.Load(ctx)
	if stderrors.Is(err, ErrNotFound) {
		ds = &kin.Dataset{}
		err = nil
	}
	if err != nil {
		observability.Store().OnLoad(ctx, s.b.Name(), 0, err)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load dataset")
	}
	observability.Store().OnLoad(ctx, s.b.Name(), len(ds.People), nil)
	return ds, nil
}

// Save stores a complete dataset after checking its integrity.
func (s *Store) Save(ctx context.Context, ds *kin.Dataset) error {
	if _, err := ds.Snapshot(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset does not build")
	}
	if err := s.b.Save(ctx, ds); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save dataset")
	}
	return nil
}

// PutPerson creates or updates a person. An empty id mints a new one.
func (s *Store) PutPerson(ctx context.Context, p kin.Person) (kin.Person, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if err := errors.ValidatePersonID(p.ID); err != nil {
		return kin.Person{}, err
	}
	ds, err := s.Load(ctx)
	if err != nil {
		return kin.Person{}, err
	}
	replaced := false
	for i := range ds.People {
		if ds.People[i].ID == p.ID {
			ds.People[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		ds.People = append(ds.People, p)
	}
	if err := s.Save(ctx, ds); err != nil {
		return kin.Person{}, err
	}
	observability.Store().OnMutation(ctx, s.b.Name(), "person", p.ID)
	return p, nil
}

// DeletePerson removes a person and every edge touching them.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}
	found := false
	people := ds.People[:0]
	for _, p := range ds.People {
		if p.ID == id {
			found = true
			continue
		}
		people = append(people, p)
	}
	if !found {
		return errors.New(errors.ErrCodePersonNotFound, "person %q not found", id)
	}
	ds.People = people
	records := ds.Records[:0]
	for _, r := range ds.Records {
		if r.Person1ID == id || r.Person2ID == id {
			continue
		}
		records = append(records, r)
	}
	ds.Records = records
	if err := s.Save(ctx, ds); err != nil {
		return err
	}
	observability.Store().OnMutation(ctx, s.b.Name(), "person", id)
	return nil
}

// PutHouse creates or updates a house. An empty id mints a new one.
func (s *Store) PutHouse(ctx context.Context, h kin.House) (kin.House, error) {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if err := errors.ValidatePersonID(h.ID); err != nil {
		return kin.House{}, err
	}
	ds, err := s.Load(ctx)
	if err != nil {
		return kin.House{}, err
	}
	replaced := false
	for i := range ds.Houses {
		if ds.Houses[i].ID == h.ID {
			ds.Houses[i] = h
			replaced = true
			break
		}
	}
	if !replaced {
		ds.Houses = append(ds.Houses, h)
	}
	if err := s.Save(ctx, ds); err != nil {
		return kin.House{}, err
	}
	observability.Store().OnMutation(ctx, s.b.Name(), "house", h.ID)
	return h, nil
}

// DeleteHouse removes a house. People keep their house reference; the
// integrity audit surfaces the dangle.
func (s *Store) DeleteHouse(ctx context.Context, id string) error {
	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}
	houses := ds.Houses[:0]
	found := false
	for _, h := range ds.Houses {
		if h.ID == id {
			found = true
			continue
		}
		houses = append(houses, h)
	}
	if !found {
		return errors.New(errors.ErrCodeHouseNotFound, "house %q not found", id)
	}
	ds.Houses = houses
	if err := s.Save(ctx, ds); err != nil {
		return err
	}
	observability.Store().OnMutation(ctx, s.b.Name(), "house", id)
	return nil
}

// PutRecord creates or updates a relationship record. Parent-type records
// pass through the ancestry validator first: unknown endpoints, duplicate
// edges and cycles are rejected before anything is written.
func (s *Store) PutRecord(ctx context.Context, r kin.Record) (kin.Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	ds, err := s.Load(ctx)
	if err != nil {
		return kin.Record{}, err
	}

	// Build the snapshot without any previous version of this record, so an
	// update is validated against the graph it would actually join.
	trimmed := *ds
	trimmed.Records = make([]kin.Record, 0, len(ds.Records))
	for _, existing := range ds.Records {
		if existing.ID != r.ID {
			trimmed.Records = append(trimmed.Records, existing)
		}
	}
	snap, err := trimmed.Snapshot()
	if err != nil {
		return kin.Record{}, errors.Wrap(errors.ErrCodeInvalidDataset, err, "dataset does not build")
	}
	if err := s.gate(snap, r); err != nil {
		observability.Store().OnRejected(ctx, s.b.Name(), "record", r.ID, err)
		return kin.Record{}, err
	}

	trimmed.Records = append(trimmed.Records, r)
	if err := s.Save(ctx, &trimmed); err != nil {
		return kin.Record{}, err
	}
	observability.Store().OnMutation(ctx, s.b.Name(), "record", r.ID)
	return r, nil
}

// DeleteRecord removes a relationship record.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	ds, err := s.Load(ctx)
	if err != nil {
		return err
	}
	records := ds.Records[:0]
	found := false
	for _, r := range ds.Records {
		if r.ID == id {
			found = true
			continue
		}
		records = append(records, r)
	}
	if !found {
		return errors.New(errors.ErrCodeEdgeNotFound, "record %q not found", id)
	}
	ds.Records = records
	if err := s.Save(ctx, ds); err != nil {
		return err
	}
	observability.Store().OnMutation(ctx, s.b.Name(), "record", id)
	return nil
}

// gate rejects records the kinship graph cannot accept.
func (s *Store) gate(snap *kin.Snapshot, r kin.Record) error {
	if _, err := kin.DecodeRecord(r); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEdge, err, "record %s", r.ID)
	}
	switch r.Type {
	case kin.EdgeParent, kin.EdgeAdoptedParent, kin.EdgeFosterParent:
		adj := kin.BuildAdjacency(snap)
		verdict := validate.CheckParentEdge(r.Person1ID, r.Person2ID, snap, adj)
		if !verdict.OK {
			if verdict.Reason == validate.ReasonCircular {
				return errors.New(errors.ErrCodeCircularAncestry,
					"edge %s -> %s closes an ancestry cycle: %v", r.Person1ID, r.Person2ID, verdict.Cycle.Path)
			}
			if verdict.Reason == validate.ReasonSelfParent {
				return errors.New(errors.ErrCodeSelfParent, "person %q cannot parent themselves", r.Person1ID)
			}
			if verdict.Reason == validate.ReasonDuplicateEdge {
				return errors.New(errors.ErrCodeDuplicateEdge,
					"edge %s -> %s already recorded", r.Person1ID, r.Person2ID)
			}
			return errors.New(errors.ErrCodeInvalidEdge, "edge rejected: %s", verdict.Reason)
		}
	case kin.EdgeSpouse, kin.EdgeTwin, kin.EdgeMentor:
		for _, id := range []string{r.Person1ID, r.Person2ID} {
			if !snap.HasPerson(id) {
				return errors.New(errors.ErrCodePersonNotFound, "person %q not in dataset", id)
			}
		}
		if r.Person1ID == r.Person2ID {
			return errors.New(errors.ErrCodeInvalidEdge, "edge %s links %q to itself", r.ID, r.Person1ID)
		}
	default:
		return errors.New(errors.ErrCodeInvalidEdge, "unknown record type %q", r.Type)
	}
	return nil
}

func backendErr(name string, err error) error {
	return fmt.Errorf("%s backend: %w", name, err)
}
