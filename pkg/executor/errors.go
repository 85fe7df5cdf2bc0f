package executor

import "errors"

// ErrNestedWorkflowsUnsupported is returned when a node's type resolves to a
// workflow reference but the executor was not given a Loader to resolve it.
var ErrNestedWorkflowsUnsupported = errors.New("nested workflow nodes require a Loader")
