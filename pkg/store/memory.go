package store

import (
	"context"
	"sync"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// MemoryBackend keeps the dataset in process memory. Intended for tests and
// throwaway sessions; nothing survives a restart.
type MemoryBackend struct {
	mu sync.RWMutex
	ds *kin.Dataset
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(ctx context.Context) (*kin.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ds == nil {
		return nil, ErrNotFound
	}
	return copyDataset(m.ds), nil
}

func (m *MemoryBackend) Save(ctx context.Context, ds *kin.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ds = copyDataset(ds)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

func (m *MemoryBackend) Name() string { return "memory" }

// copyDataset clones slices so callers cannot mutate stored state.
func copyDataset(ds *kin.Dataset) *kin.Dataset {
	out := &kin.Dataset{
		People:  make([]kin.Person, len(ds.People)),
		Houses:  make([]kin.House, len(ds.Houses)),
		Records: make([]kin.Record, len(ds.Records)),
	}
	copy(out.People, ds.People)
	copy(out.Houses, ds.Houses)
	copy(out.Records, ds.Records)
	return out
}
