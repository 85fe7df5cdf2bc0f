package types

import "context"

type contextKey string

// Context keys used to thread execution identity through context.Context,
// independent of the shared store (which is workflow-scoped, not
// goroutine-scoped).
const (
	ContextKeyExecutionID contextKey = "pflow_execution_id"
	ContextKeyWorkflowID  contextKey = "pflow_workflow_id"
)

// WithExecutionID returns a context carrying the given execution id.
func WithExecutionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyExecutionID, id)
}

// GetExecutionID extracts the execution id from context, if present.
func GetExecutionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyExecutionID).(string)
	return v, ok
}

// WithWorkflowID returns a context carrying the given workflow id.
func WithWorkflowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeyWorkflowID, id)
}

// GetWorkflowID extracts the workflow id from context, if present.
func GetWorkflowID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextKeyWorkflowID).(string)
	return v, ok
}
