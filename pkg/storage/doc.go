// Package storage implements persisted workflow state under PFLOW_HOME:
// named workflow definitions (FileStore, one JSON file per workflow under
// workflows/<name>.json), registry metadata overrides (registry.json), and
// the registry.nodes allow/deny glob filter (settings.json).
package storage
