package storage

import "errors"

var (
	// ErrWorkflowNotFound is returned by Load/Delete when name has no
	// stored workflow.
	ErrWorkflowNotFound = errors.New("storage: workflow not found")

	// ErrInvalidWorkflow is returned by Save when name is empty, data is
	// empty, or data is not valid JSON.
	ErrInvalidWorkflow = errors.New("storage: invalid workflow")
)
