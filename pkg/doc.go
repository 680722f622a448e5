// Package pkg provides the core libraries for Lineageweaver kinship charting.
//
// # Overview
//
// Lineageweaver turns genealogical datasets into render-ready chart geometry:
// people become cards, parentage becomes connectors, and disconnected family
// lines become vertically stacked fragments. The pkg directory is organized
// into four main areas:
//
//  1. [kin] - Domain logic (snapshot, validation, kinship, generations, fragments, layout)
//  2. [store] - Dataset persistence (memory, file, sqlite, redis, mongo)
//  3. [pipeline] - Orchestration (audit → partition → assign → layout)
//  4. [chart] - Serialization types for the final chart
//
// # Architecture
//
// The typical data flow through Lineageweaver:
//
//	Dataset (YAML/JSON file or store backend)
//	         ↓
//	    [kin] package (indexed snapshot + decoded edges)
//	         ↓
//	    [kin/validate] package (cycles, orphans, spouse conflicts)
//	         ↓
//	    [kin/fragment] + [kin/generation] + [kin/layout] (per-fragment geometry)
//	         ↓
//	    [chart] output (cards, connectors, separators)
//
// # Quick Start
//
// Load a dataset and compute a chart:
//
//	import (
//	    "context"
//	    "github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/config"
//	    "github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
//	    "github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/pipeline"
//	)
//
//	// 1. Load and index the dataset
//	ds, _ := kin.ReadDatasetFile("family.yaml")
//	snap, _ := ds.Snapshot()
//
//	// 2. Run the pipeline
//	runner := pipeline.NewRunner(config.Default(), nil)
//	res, _ := runner.Execute(context.Background(), snap, pipeline.Options{})
//
//	// 3. Use the chart
//	for _, card := range res.Chart.Cards {
//	    fmt.Println(card.Name, card.X, card.Y)
//	}
//
// Cross-cutting packages support every stage: [config] carries the tunable
// geometry and server settings, [errors] defines the coded error taxonomy,
// and [observability] exposes optional instrumentation hooks.
package pkg
