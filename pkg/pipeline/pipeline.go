// Package pipeline provides the core chart pipeline for Lineageweaver.
//
// This package implements the complete scope → audit → generations →
// fragments → layout → chart pipeline that is shared by the CLI and API
// components. By centralizing this logic, we ensure consistent behavior
// across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Audit: run the integrity check over the snapshot
//  2. Partition: resolve the scope and split it into fragments
//  3. Assign: compute a generation index per fragment
//  4. Layout: place every person and assemble the chart
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cfg, logger)
//	opts := pipeline.Options{HouseID: "stark", IncludeCadets: true}
//	result, err := runner.Execute(ctx, snapshot, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	chart.WriteChartFile(result.Chart, "stark.json")
package pipeline

import (
	"fmt"
	"time"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/chart"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/fragment"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/generation"
	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin/validate"
)

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scope selection. PersonIDs wins over HouseID; with neither set the
	// whole snapshot is in scope.
	HouseID       string   `json:"house_id,omitempty"`
	IncludeCadets bool     `json:"include_cadets,omitempty"`
	PersonIDs     []string `json:"person_ids,omitempty"`

	// RootID overrides the generation walk root.
	RootID string `json:"root_id,omitempty"`

	// ReferenceID requests kinship labels for everyone relative to this
	// person.
	ReferenceID string `json:"reference_id,omitempty"`

	// Strict aborts the run when the integrity audit finds cycles instead
	// of laying out what it can.
	Strict bool `json:"strict,omitempty"`
}

// Validate checks option combinations the pipeline cannot serve.
func (o Options) Validate() error {
	if o.HouseID != "" && len(o.PersonIDs) > 0 {
		return fmt.Errorf("house_id and person_ids are mutually exclusive")
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chart is the assembled, render-ready output.
	Chart *chart.Chart `json:"chart"`

	// Fragments is the partition the layout was computed over.
	Fragments fragment.Result `json:"fragments"`

	// Generations holds the per-fragment generation assignments, in
	// fragment order.
	Generations []generation.Result `json:"generations"`

	// Audit is the integrity report for the snapshot.
	Audit validate.Report `json:"audit"`

	// Labels maps person ids to kinship labels relative to ReferenceID.
	// Empty when no reference person was requested.
	Labels map[string]string `json:"labels,omitempty"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PersonCount   int           `json:"personCount"`
	FragmentCount int           `json:"fragmentCount"`
	AuditTime     time.Duration `json:"auditTime"`
	AssignTime    time.Duration `json:"assignTime"`
	LayoutTime    time.Duration `json:"layoutTime"`
}
