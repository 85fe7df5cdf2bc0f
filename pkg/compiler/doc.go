// Package compiler implements the Compiler (C6): it turns a parsed
// Workflow IR into an executable flow.Graph: schema
// check, registry lookup (including mcp-<server>-<tool> virtual types),
// metadata attachment, a Template Validator pass, and edge-table
// materialization.
//
// The schema check is a plain gojsonschema.Validate call; edge-table
// materialization is handed off to pkg/flow once the IR parses and its
// node types resolve against the registry.
package compiler
