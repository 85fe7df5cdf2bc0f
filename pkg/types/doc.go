// Package types provides shared type definitions for the pflow workflow engine.
//
// # Overview
//
// This package contains the core data structures used across the compiler,
// lifecycle runtime, flow engine, and executor: the workflow IR, registered
// node metadata, the resolved-parameter shape, and per-execution trace
// records. It exists to avoid circular dependencies between those packages
// while keeping one consistent type system.
//
// # Design Principles
//
//   - Minimal dependencies: this package imports nothing from sibling pflow
//     packages.
//   - Type safety: the IR is parsed into typed Go structs; only the param and
//     output leaves stay dynamic (map[string]any), since they are genuinely
//     free-form until resolved against a running store.
package types
