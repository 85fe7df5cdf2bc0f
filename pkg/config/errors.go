package config

import "errors"

// Sentinel errors for configuration validation.
var (
	ErrInvalidExecutionTime     = errors.New("invalid max execution time: must be non-negative")
	ErrInvalidNodeExecutionTime = errors.New("invalid max node execution time: must be non-negative")
	ErrInvalidMaxIterations     = errors.New("invalid max iterations: must be non-negative")

	ErrInvalidHTTPTimeout     = errors.New("invalid HTTP timeout: must be non-negative")
	ErrInvalidMaxRedirects    = errors.New("invalid max redirects: must be non-negative")
	ErrInvalidMaxResponseSize = errors.New("invalid max response size: must be non-negative")

	ErrInvalidPayloadSize  = errors.New("invalid max payload size: must be non-negative")
	ErrInvalidMaxNodes     = errors.New("invalid max nodes: must be non-negative")
	ErrInvalidMaxEdges     = errors.New("invalid max edges: must be non-negative")
	ErrInvalidStringLength = errors.New("invalid max string length: must be non-negative")
	ErrInvalidArrayLength  = errors.New("invalid max array length: must be non-negative")

	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be non-negative")
	ErrInvalidBackoff     = errors.New("invalid backoff duration: must be non-negative")
)
