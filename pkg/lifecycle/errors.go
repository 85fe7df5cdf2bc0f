package lifecycle

import "errors"

// Sentinel errors for the node lifecycle runtime.
var (
	// ErrNodeTimeout is the error kind recorded when an exec attempt is
	// abandoned after exceeding its timeout.
	ErrNodeTimeout = errors.New("node exec timed out")

	// ErrNodeCancelled is recorded when the run context is cancelled
	// (SIGINT) mid-exec.
	ErrNodeCancelled = errors.New("node exec cancelled")
)
