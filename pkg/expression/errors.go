package expression

import "errors"

// Sentinel errors for expression evaluation.
var (
	ErrCompileFailed = errors.New("expression compilation failed")
	ErrEvalFailed    = errors.New("expression evaluation failed")
	ErrNotBool       = errors.New("expression did not evaluate to a boolean")
)
