package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/errors"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// FileBackend persists the dataset as a single YAML or JSON file, picked by
// extension. Writes go through a temp file and rename so a crash never
// leaves a half-written dataset.
type FileBackend struct {
	mu   sync.RWMutex
	path string
}

// NewFileBackend creates a file backend at path. Parent directories are
// created as needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := errors.ValidateDatasetPath(path); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, backendErr("file", err)
		}
	}
	return &FileBackend{path: path}, nil
}

func (f *FileBackend) Load(ctx context.Context) (*kin.Dataset, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	ds, err := kin.ReadDatasetFile(f.path)
	if err != nil {
		return nil, backendErr("file", err)
	}
	return &ds, nil
}

func (f *FileBackend) Save(ctx context.Context, ds *kin.Dataset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Keep the real extension on the temp file so the encoder picks the
	// same format.
	ext := filepath.Ext(f.path)
	tmp := f.path[:len(f.path)-len(ext)] + ".tmp" + ext
	if err := kin.WriteDatasetFile(*ds, tmp); err != nil {
		return backendErr("file", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return backendErr("file", err)
	}
	return nil
}

func (f *FileBackend) Close() error { return nil }

func (f *FileBackend) Name() string { return "file" }
