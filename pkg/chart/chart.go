// Package chart is the canonical serialization format for computed layouts:
// person cards with coordinates, connector specs keyed by line system,
// fragment separators and kinship labels. It is the boundary handed to the
// out-of-process renderer.
package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Connector line systems, mirrored from the layout engine so renderers only
// depend on this package.
const (
	SystemLegitimate    = "legitimate"
	SystemBastardSingle = "bastard-single"
	SystemBastardDual   = "bastard-dual"
	SystemAdopted       = "adopted"
)

// Chart is a fully laid-out family tree ready to paint.
type Chart struct {
	Cards      []Card      `json:"cards" bson:"cards"`
	Connectors []Connector `json:"connectors,omitempty" bson:"connectors,omitempty"`
	Separators []Separator `json:"separators,omitempty" bson:"separators,omitempty"`
	Labels     []Label     `json:"labels,omitempty" bson:"labels,omitempty"`
	Bounds     Rect        `json:"bounds" bson:"bounds"`
}

// Card is one person's box on the page.
type Card struct {
	PersonID string  `json:"person_id" bson:"person_id"`
	Name     string  `json:"name,omitempty" bson:"name,omitempty"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Row      int     `json:"row" bson:"row"`
	Fragment int     `json:"fragment" bson:"fragment"`
}

// Connector describes the line linking a child card to its parent card(s).
// Offset shifts parallel line systems apart so they never overdraw; Dashed
// marks a lineage-gap link whose intermediate people fall outside the scope.
type Connector struct {
	ChildID   string   `json:"child_id" bson:"child_id"`
	ParentIDs []string `json:"parent_ids" bson:"parent_ids"`
	System    string   `json:"system" bson:"system"`
	Offset    float64  `json:"offset,omitempty" bson:"offset,omitempty"`
	Dashed    bool     `json:"dashed,omitempty" bson:"dashed,omitempty"`
}

// Separator is a horizontal rule drawn between two vertically stacked
// fragments.
type Separator struct {
	Y             float64 `json:"y" bson:"y"`
	AboveFragment int     `json:"above_fragment" bson:"above_fragment"`
	BelowFragment int     `json:"below_fragment" bson:"below_fragment"`
}

// Label is a kinship label for one person relative to the reference person
// the chart was generated for.
type Label struct {
	PersonID string `json:"person_id" bson:"person_id"`
	Text     string `json:"text" bson:"text"`
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	MinX float64 `json:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" bson:"max_y"`
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// SystemOffset returns the deterministic connector offset for a line system,
// as a multiple of the configured base offset.
func SystemOffset(system string, base float64) float64 {
	switch system {
	case SystemBastardSingle:
		return base
	case SystemBastardDual:
		return 2 * base
	case SystemAdopted:
		return 3 * base
	}
	return 0
}

// MarshalChart converts a chart to indented JSON bytes.
func MarshalChart(c *Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteChart(c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteChart writes a chart as JSON to an io.Writer.
func WriteChart(c *Chart, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// WriteChartFile writes a chart to a JSON file with 0644 permissions.
func WriteChartFile(c *Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteChart(c, f)
}

// ReadChart decodes a JSON chart from an io.Reader.
func ReadChart(r io.Reader) (*Chart, error) {
	var c Chart
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return &c, nil
}

// ReadChartFile reads and decodes a chart JSON file.
func ReadChartFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadChart(f)
}
