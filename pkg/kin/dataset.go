package kin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dataset is the on-disk form of a snapshot: the flat people/houses/records
// lists a store persists and a snapshot is built from. Supported encodings
// are YAML (the dataset authoring format) and JSON (the API format), picked
// by file extension.
type Dataset struct {
	People  []Person `json:"people" yaml:"people"`
	Houses  []House  `json:"houses,omitempty" yaml:"houses,omitempty"`
	Records []Record `json:"records,omitempty" yaml:"records,omitempty"`
}

// Snapshot decodes the dataset into an indexed snapshot.
func (d Dataset) Snapshot() (*Snapshot, error) {
	return NewSnapshot(d.People, d.Houses, d.Records)
}

// MarshalDataset encodes a dataset as YAML.
func MarshalDataset(d Dataset) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode dataset: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalDataset decodes a YAML dataset.
func UnmarshalDataset(data []byte) (Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Dataset{}, fmt.Errorf("decode dataset: %w", err)
	}
	return d, nil
}

// ReadDatasetFile loads a dataset from a .yaml/.yml or .json file.
func ReadDatasetFile(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		var d Dataset
		if err := json.Unmarshal(data, &d); err != nil {
			return Dataset{}, fmt.Errorf("decode %s: %w", path, err)
		}
		return d, nil
	default:
		return UnmarshalDataset(data)
	}
}

// WriteDatasetFile writes a dataset to a file, encoding by extension.
// The file is created with 0644 permissions.
func WriteDatasetFile(d Dataset, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(d, "", "  ")
	default:
		data, err = MarshalDataset(d)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
