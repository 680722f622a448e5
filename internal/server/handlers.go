package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/kinship"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/validate"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/pipeline"
)

// snapshot loads the stored dataset and indexes it.
func (s *Server) snapshot(r *http.Request) (*kin.Snapshot, error) {
	ds, err := s.store.Load(r.Context())
	if err != nil {
		return nil, err
	}
	snap, err := ds.Snapshot()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "stored dataset does not index")
	}
	return snap, nil
}

// ============================================================================
// Pipeline endpoints
// ============================================================================

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	opts := pipeline.Options{
		HouseID:       q.Get("house"),
		IncludeCadets: q.Get("cadets") == "true",
		RootID:        q.Get("root"),
		ReferenceID:   q.Get("ref"),
		Strict:        q.Get("strict") == "true",
	}
	if people := q.Get("people"); people != "" {
		opts.PersonIDs = strings.Split(people, ",")
	}

	res, err := s.runner.Execute(r.Context(), snap, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// kinshipResponse carries a single pairwise classification.
type kinshipResponse struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

func (s *Server) handleKinship(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	from, to, ref := q.Get("from"), q.Get("to"), q.Get("ref")

	adj := kin.BuildAdjacency(snap)
	c := kinship.New(snap, adj, kinship.WithMaxDepth(s.cfg.Kinship.MaxDepth))

	switch {
	case ref != "":
		if !snap.HasPerson(ref) {
			writeError(w, errors.New(errors.ErrCodePersonNotFound, "person %q not found", ref))
			return
		}
		writeJSON(w, http.StatusOK, c.ClassifyAll(ref))
	case from != "" && to != "":
		if !snap.HasPerson(from) {
			writeError(w, errors.New(errors.ErrCodePersonNotFound, "person %q not found", from))
			return
		}
		if !snap.HasPerson(to) {
			writeError(w, errors.New(errors.ErrCodePersonNotFound, "person %q not found", to))
			return
		}
		writeJSON(w, http.StatusOK, kinshipResponse{From: from, To: to, Label: c.Classify(from, to)})
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "need either from and to, or ref"))
	}
}

func (s *Server) handleIntegrity(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, validate.RunIntegrityCheck(snap))
}

// ============================================================================
// People
// ============================================================================

func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.People)
}

func (s *Server) handlePutPerson(w http.ResponseWriter, r *http.Request) {
	var p kin.Person
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed person body"))
		return
	}
	saved, err := s.store.PutPerson(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, p := range ds.People {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, errors.New(errors.ErrCodePersonNotFound, "person %q not found", id))
}

func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePerson(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Houses
// ============================================================================

func (s *Server) handleListHouses(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Houses)
}

func (s *Server) handlePutHouse(w http.ResponseWriter, r *http.Request) {
	var h kin.House
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed house body"))
		return
	}
	saved, err := s.store.PutHouse(r.Context(), h)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetHouse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, h := range ds.Houses {
		if h.ID == id {
			writeJSON(w, http.StatusOK, h)
			return
		}
	}
	writeError(w, errors.New(errors.ErrCodeHouseNotFound, "house %q not found", id))
}

func (s *Server) handleDeleteHouse(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteHouse(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================================
// Records
// ============================================================================

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.Records)
}

func (s *Server) handlePutRecord(w http.ResponseWriter, r *http.Request) {
	var rec kin.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed record body"))
		return
	}
	saved, err := s.store.PutRecord(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := s.store.Load(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	for _, rec := range ds.Records {
		if rec.ID == id {
			writeJSON(w, http.StatusOK, rec)
			return
		}
	}
	writeError(w, errors.New(errors.ErrCodeEdgeNotFound, "record %q not found", id))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
