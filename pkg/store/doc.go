// Package store implements the namespaced shared store (C3): the per-run
// mapping nodes read from and write to.
//
// A node thinks it reads and writes flat keys. Under the hood, each node's
// writes land in that node's own namespace so two nodes writing the same
// key never collide; templates elsewhere in the workflow address a
// specific node's value as "${node_id.key}". Reserved keys (prefixed
// "__") and declared workflow inputs live at the root and are never
// namespaced.
//
// Backed by mutex-guarded maps, one per concern (namespaced writes,
// reserved keys, inputs), with Scope(prefix) handing out a narrowed view
// rather than exposing the backing maps directly. Reserved keys are the one
// place two nodes can step on each other (they're never namespaced), so
// Write tracks which node first claimed each reserved key and records a
// CollisionRecord the moment a different node writes it.
package store
