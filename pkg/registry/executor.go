package registry

import (
	"context"

	"github.com/pflow-dev/pflow/pkg/store"
	"github.com/pflow-dev/pflow/pkg/types"
)

// NodeContext is what a node's prep/exec/post phases receive: its resolved
// params, the store view scoped to this node's namespace, and the ambient
// run context.
type NodeContext struct {
	Ctx    context.Context
	Node   types.Node
	Params map[string]any
	Store  store.Scoped
}

// NodeExecutor is the interface every registered node type implements: the
// prep -> exec -> fallback -> post protocol.
type NodeExecutor interface {
	// Prep reads from the store and resolved params, validates input, and
	// returns data for Exec.
	Prep(nc NodeContext) (prepData any, err error)

	// Exec performs the node's work. It may be retried (with backoff) up to
	// the node's declared max_retries.
	Exec(nc NodeContext, prepData any) (execResult any, err error)

	// Fallback is invoked exactly once if retries are exhausted. Returning
	// ErrNoFallback causes the original exec error to propagate unchanged.
	Fallback(nc NodeContext, prepData any, execErr error) (execResult any, err error)

	// Post writes outputs to the store and returns the action used by the
	// Edge Follower to pick the next node.
	Post(nc NodeContext, prepData, execResult any) (action string, err error)

	// Meta returns this node type's declared interface metadata.
	Meta() types.NodeMeta
}

// NoFallback is embeddable by node executors that never fall back; its
// Fallback always returns ErrNoFallback so the original error propagates.
type NoFallback struct{}

func (NoFallback) Fallback(NodeContext, any, error) (any, error) {
	return nil, ErrNoFallback
}
