package types

import "errors"

// Sentinel errors shared across packages.
// Packages wrap these with %w so errors.Is still matches at any layer.
var (
	// IR structure errors (compile-time, infrastructure)
	ErrUnknownNodeType  = errors.New("unknown node type")
	ErrDuplicateNodeID  = errors.New("duplicate node id")
	ErrDuplicateEdge    = errors.New("duplicate (from, action) edge pair")
	ErrDanglingEdge     = errors.New("edge refers to a node that does not exist")
	ErrMultipleStdin    = errors.New("at most one input may declare stdin=true")
	ErrMissingInput     = errors.New("missing required input")

	// Template errors (compile-time and run-time)
	ErrTemplateSyntax    = errors.New("template syntax error")
	ErrUnresolvedVar     = errors.New("unresolved variable")
	ErrUnknownOutput     = errors.New("unknown output")
	ErrInvalidTraversal  = errors.New("invalid path traversal")

	// Runtime errors
	ErrIterationLimitExceeded = errors.New("iteration limit exceeded")
	ErrExecutionFailed        = errors.New("execution failed")
	ErrExecutionInterrupted   = errors.New("execution interrupted")
	ErrExecutionTimeout       = errors.New("node execution timed out")
)
