// Package pkg provides the core libraries for the flowgrid layout engine.
//
// # Overview
//
// Flowgrid renders a declarative description of a distributed architecture
// (nested systems, links, animated flows) into a fully laid-out, addressable
// 2D tile grid. The pkg directory is organized into:
//
//  1. [spec] - Raw specification documents (YAML/JSON parsing, schema checks)
//  2. [model] - Runtime graph hydration and semantic validation
//  3. [grid] - Weighted grid with turn-penalised A* search
//  4. [sim] - World layout, rasterisation, and link routing
//  5. [player] - Read-only flow playback over computed routes
//  6. [pipeline] - Orchestration (parse → load → simulate) with caching
//  7. [cache] - Cache backends and key generation
//  8. [errors] - Structured error codes shared by CLI and API
//
// # Architecture
//
// The typical data flow through flowgrid:
//
//	YAML/JSON specification
//	         ↓
//	    [spec] package (parse + structural schema validation)
//	         ↓
//	    [model] package (hydrated tree + semantic errors)
//	         ↓
//	    [sim] package (tile grid, boundaries, routes)
//	         ↓
//	    JSON layout / terminal preview / flow playback
//
// # Quick Start
//
//	root, verrs, err := model.LoadYAML(data)
//	if err != nil {
//	    return err // structural failure
//	}
//	s := sim.New(root)
//	if err := s.Compute(); err != nil {
//	    return err
//	}
//	layout := s.Layout()
//
// Semantic validation errors (verrs) never abort loading; they describe
// unresolvable or contradictory links in the document.
package pkg
