package registry

import "errors"

// Sentinel errors for registry operations.
var (
	ErrAlreadyRegistered = errors.New("executor already registered for type")
	ErrNotRegistered     = errors.New("no executor registered for type")
	ErrNoFallback        = errors.New("node declares no fallback")
)
