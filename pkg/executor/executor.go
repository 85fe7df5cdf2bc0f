package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pflow-dev/pflow/pkg/flow"
	"github.com/pflow-dev/pflow/pkg/lifecycle"
	"github.com/pflow-dev/pflow/pkg/observer"
	"github.com/pflow-dev/pflow/pkg/store"
	"github.com/pflow-dev/pflow/pkg/template"
	"github.com/pflow-dev/pflow/pkg/types"
)

// executionIDKey mirrors lifecycle's unexported constant of the same name;
// Run is the only writer, lifecycle.Runtime.Run the only reader.
const executionIDKey = "__execution_id__"

// WorkflowExecutor is the top-level orchestrator (C8): it seeds the shared
// store from resolved inputs, drives the Edge Follower and Node Lifecycle
// Runtime node by node until __end__, and renders the workflow's declared
// outputs against the final store.
type WorkflowExecutor struct {
	Lifecycle *lifecycle.Runtime
	Resolver  *template.Resolver

	// MaxIterations caps the Edge Follower's step count; 0 means no cap.
	MaxIterations int

	// Observer, if set, is notified of EventWorkflowStart/End around every
	// Run call, including nested-workflow recursions. Nil means no
	// observability, not a panic.
	Observer *observer.Manager
}

// New constructs a WorkflowExecutor bound to rt, using resolver to render
// declared outputs once a run reaches __end__.
func New(rt *lifecycle.Runtime, resolver *template.Resolver, maxIterations int) *WorkflowExecutor {
	return &WorkflowExecutor{Lifecycle: rt, Resolver: resolver, MaxIterations: maxIterations}
}

// Run executes wf's graph to completion: seed the store, install reserved
// keys, drive the follower node by node, then render outputs. depth is the
// nested-workflow recursion depth (0 for a top-level run); progress is the
// optional reserved progress callback, inherited unchanged by nested runs.
func (e *WorkflowExecutor) Run(ctx context.Context, wf *types.Workflow, graph *flow.Graph, inputs map[string]any, depth int, progress lifecycle.ProgressFunc) (result *types.Result, err error) {
	st := store.New()
	execID := uuid.NewString()
	if serr := st.SetReserved(executionIDKey, execID); serr != nil {
		return nil, fmt.Errorf("installing %s: %w", executionIDKey, serr)
	}

	startTS := time.Now()
	nodesExecuted := 0
	e.notifyWorkflow(ctx, observer.EventWorkflowStart, observer.StatusStarted, execID, wf.Name, depth, startTS, 0, nil, nil)
	defer func() {
		status := observer.StatusSuccess
		if err != nil {
			status = observer.StatusFailure
		}
		meta := map[string]interface{}{"nodes_executed": nodesExecuted}
		e.notifyWorkflow(ctx, observer.EventWorkflowEnd, status, execID, wf.Name, depth, startTS, time.Since(startTS), err, meta)
	}()

	resolvedInputs, ierr := resolveInputs(wf, inputs)
	if ierr != nil {
		result, err = &types.Result{Succeeded: false, Err: ierr, ErrMsg: ierr.Error()}, ierr
		return result, err
	}
	st.SeedInputs(resolvedInputs)

	if serr := st.SetReserved("__pflow_depth__", depth); serr != nil {
		return nil, fmt.Errorf("installing __pflow_depth__: %w", serr)
	}
	if progress != nil {
		if serr := st.SetReserved("__progress_callback__", progress); serr != nil {
			return nil, fmt.Errorf("installing __progress_callback__: %w", serr)
		}
	}

	follower := flow.NewFollower(graph, e.MaxIterations)
	current := follower.Start()

	for current != types.EndNode {
		select {
		case <-ctx.Done():
			return e.interruptedResult(st, ctx.Err())
		default:
		}

		node, ok := graph.Nodes[current]
		if !ok {
			nerr := fmt.Errorf("%w: %s", types.ErrInvalidTraversal, current)
			return e.failedResult(st, nerr)
		}

		outcome, runErr := e.Lifecycle.Run(ctx, node, st, depth)
		nodesExecuted++
		if runErr != nil {
			if ctx.Err() != nil {
				return e.interruptedResult(st, ctx.Err())
			}
			// A node's "error" action only continues the run if the
			// workflow explicitly wired a transition for it; otherwise
			// letting the follower fall through to the default edge (or
			// to __end__) would silently report success on a failed node.
			if !graph.HasEdge(current, types.ErrorAction) {
				return e.failedResult(st, fmt.Errorf("%w: node %q: %w", types.ErrExecutionFailed, current, runErr))
			}
		}

		next, nerr := follower.Next(current, outcome.Action)
		if nerr != nil {
			return e.failedResult(st, nerr)
		}
		current = next
	}

	return e.renderResult(st, wf)
}

// notifyWorkflow fans a workflow-level event out through e.Observer, if any.
func (e *WorkflowExecutor) notifyWorkflow(ctx context.Context, evType observer.EventType, status observer.ExecutionStatus, execID, workflowID string, depth int, startTS time.Time, elapsed time.Duration, runErr error, metadata map[string]interface{}) {
	if e.Observer == nil || !e.Observer.HasObservers() {
		return
	}
	e.Observer.Notify(ctx, observer.Event{
		Type:        evType,
		Status:      status,
		Timestamp:   time.Now(),
		ExecutionID: execID,
		WorkflowID:  workflowID,
		Depth:       depth,
		StartTime:   startTS,
		ElapsedTime: elapsed,
		Error:       runErr,
		Metadata:    metadata,
	})
}

// resolveInputs applies wf.Inputs' required/default rules against the
// caller-supplied inputs, returning types.ErrMissingInput for any required
// input left unresolved.
func resolveInputs(wf *types.Workflow, inputs map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(wf.Inputs))
	for name, spec := range wf.Inputs {
		if v, ok := inputs[name]; ok {
			resolved[name] = v
			continue
		}
		if spec.Default != nil {
			resolved[name] = spec.Default
			continue
		}
		if spec.Required {
			return nil, fmt.Errorf("%w: %s", types.ErrMissingInput, name)
		}
	}
	// Pass through any extra caller-supplied values not declared in
	// wf.Inputs (e.g. CLI key=value pairs beyond the declared schema).
	for name, v := range inputs {
		if _, declared := resolved[name]; !declared {
			resolved[name] = v
		}
	}
	return resolved, nil
}

// renderResult resolves wf.Outputs against the final store view and returns
// a successful Result.
func (e *WorkflowExecutor) renderResult(st *store.Store, wf *types.Workflow) (*types.Result, error) {
	view := st.View()
	outputs := make(map[string]any, len(wf.Outputs))
	for name, spec := range wf.Outputs {
		val, err := e.Resolver.ResolveTemplate(spec.Source, view)
		if err != nil {
			return e.failedResult(st, fmt.Errorf("rendering output %q: %w", name, err))
		}
		outputs[name] = val
	}
	return &types.Result{
		Outputs:    outputs,
		Trace:      traceOf(st),
		Collisions: st.Collisions(),
		Succeeded:  true,
	}, nil
}

// failedResult returns a terminal, unsuccessful Result carrying the trace
// accumulated so far.
func (e *WorkflowExecutor) failedResult(st *store.Store, err error) (*types.Result, error) {
	return &types.Result{
		Trace:      traceOf(st),
		Collisions: st.Collisions(),
		Succeeded:  false,
		Err:        err,
		ErrMsg:     err.Error(),
	}, err
}

// interruptedResult reports ExecutionInterrupted with whatever partial
// trace had already been written; the in-flight node is abandoned, not
// joined.
func (e *WorkflowExecutor) interruptedResult(st *store.Store, cause error) (*types.Result, error) {
	err := fmt.Errorf("%w: %v", types.ErrExecutionInterrupted, cause)
	return &types.Result{
		Trace:      traceOf(st),
		Collisions: st.Collisions(),
		Succeeded:  false,
		Err:        err,
		ErrMsg:     err.Error(),
	}, err
}

func traceOf(st *store.Store) []types.TraceRecord {
	raw, _ := st.GetReserved("__execution__")
	entries, _ := raw.([]any)
	trace := make([]types.TraceRecord, 0, len(entries))
	for _, e := range entries {
		if rec, ok := e.(types.TraceRecord); ok {
			trace = append(trace, rec)
		}
	}
	return trace
}
