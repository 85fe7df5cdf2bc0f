package template

import "errors"

// Sentinel errors for template resolution and validation.
var (
	ErrSyntax           = errors.New("template syntax error")
	ErrUnresolvedVar    = errors.New("unresolved variable")
	ErrUnknownNode      = errors.New("template references an unknown node or input")
	ErrUnknownOutput    = errors.New("unknown output")
	ErrInvalidTraversal = errors.New("invalid path traversal")
)
