package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pflow-dev/pflow/pkg/config"
	"github.com/pflow-dev/pflow/pkg/observer"
	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/store"
	"github.com/pflow-dev/pflow/pkg/template"
	"github.com/pflow-dev/pflow/pkg/types"
)

// executionIDKey is the reserved key the Workflow Executor installs before
// the Edge Follower starts; Run reads it back to stamp node events with the
// execution they belong to.
const executionIDKey = "__execution_id__"

// ProgressFunc is the shape of the optional reserved "__progress_callback__"
// value. The Workflow Executor installs one in the store before running;
// the CLI's Output Controller (C7) is its usual consumer.
type ProgressFunc func(nodeID, phase string, durationMs float64, depth int)

// Outcome is what Run reports about one node's lifecycle pass: the action
// the Edge Follower should use next, and instrumentation detail mirrored
// into the trace record.
type Outcome struct {
	Action    string
	Retries   int
	ErrorKind string
	Err       error
}

// Runtime drives a single node through prep -> exec (retry/backoff) ->
// fallback -> post, wrapped by namespacing, template resolution,
// instrumentation, and the progress callback, applied outside-in:
// instrumentation outermost, then namespacing, then template resolution,
// then the progress callback closest to the call.
type Runtime struct {
	Registry *registry.Registry
	Resolver *template.Resolver
	Cfg      *config.Config

	// Observer, if set, is notified of EventNodeStart/Success/Failure around
	// every Run call. Nil means no observability, not a panic.
	Observer *observer.Manager
}

// New constructs a Runtime.
func New(reg *registry.Registry, resolver *template.Resolver, cfg *config.Config) *Runtime {
	return &Runtime{Registry: reg, Resolver: resolver, Cfg: cfg}
}

// Run executes one node to completion (success or terminal failure) and
// appends its trace record to st. depth is the nested-workflow recursion
// depth, passed through unchanged to the progress callback.
func (rt *Runtime) Run(ctx context.Context, node types.Node, st *store.Store, depth int) (Outcome, error) {
	exec, ok := rt.Registry.Get(node.Type)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", types.ErrUnknownNodeType, node.Type)
	}

	resolved, err := rt.Resolver.ResolveNested(node.Params, st.View())
	if err != nil {
		return Outcome{}, fmt.Errorf("resolving params for node %q: %w", node.ID, err)
	}
	params, _ := resolved.(map[string]any)
	if params == nil {
		params = map[string]any{}
	}

	maxRetries := rt.Cfg.DefaultMaxAttempts
	if maxRetries < 1 {
		maxRetries = 1
	}
	wait := rt.Cfg.DefaultBackoff
	timeout := rt.Cfg.MaxNodeExecutionTime
	if n, ok := toInt(params["max_retries"]); ok && n > 0 {
		maxRetries = n
	}
	if n, ok := toInt(params["wait_ms"]); ok && n >= 0 {
		wait = time.Duration(n) * time.Millisecond
	}
	if n, ok := toInt(params["timeout_ms"]); ok && n > 0 {
		timeout = time.Duration(n) * time.Millisecond
	}

	scoped := st.Scope(node.ID)
	nc := registry.NodeContext{Ctx: ctx, Node: node, Params: params, Store: scoped}

	execID := executionIDOf(st)
	notify := rt.progressNotifier(st, node.ID, depth)
	startTS := time.Now()
	notify("start", 0)
	rt.notifyNode(ctx, observer.EventNodeStart, observer.StatusStarted, execID, node, depth, startTS, 0, nil)

	finish := func(action, errorKind string, retries int, runErr error) (Outcome, error) {
		endTS := time.Now()
		st.AppendTrace(types.TraceRecord{
			NodeID:    node.ID,
			Action:    action,
			StartTS:   startTS,
			EndTS:     endTS,
			Retries:   retries,
			ErrorKind: errorKind,
		})
		notify("complete", float64(endTS.Sub(startTS).Milliseconds()))

		evType, status := observer.EventNodeSuccess, observer.StatusSuccess
		if runErr != nil {
			evType, status = observer.EventNodeFailure, observer.StatusFailure
		}
		rt.notifyNode(ctx, evType, status, execID, node, depth, startTS, endTS.Sub(startTS), runErr)

		return Outcome{Action: action, Retries: retries, ErrorKind: errorKind, Err: runErr}, runErr
	}

	prepData, err := exec.Prep(nc)
	if err != nil {
		return finish(types.ErrorAction, "prep_error", 0, fmt.Errorf("node %q prep: %w", node.ID, err))
	}

	failedAttempts := 0
	var execResult any
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		execResult, lastErr = rt.runWithTimeout(ctx, timeout, func() (any, error) {
			return exec.Exec(nc, prepData)
		})
		if lastErr == nil {
			break
		}
		failedAttempts++
		if attempt < maxRetries-1 {
			if !sleepOrCancel(ctx, wait) {
				break
			}
		}
	}

	if lastErr != nil {
		fbResult, fbErr := exec.Fallback(nc, prepData, lastErr)
		switch {
		case fbErr == nil:
			execResult = fbResult
			lastErr = nil
		case errors.Is(fbErr, registry.ErrNoFallback):
			// original error propagates unchanged
		default:
			lastErr = fbErr
		}
	}

	if lastErr != nil {
		return finish(types.ErrorAction, errorKind(lastErr), failedAttempts,
			fmt.Errorf("node %q exec: %w", node.ID, lastErr))
	}

	action, err := exec.Post(nc, prepData, execResult)
	if err != nil {
		return finish(types.ErrorAction, "post_error", failedAttempts,
			fmt.Errorf("node %q post: %w", node.ID, err))
	}

	return finish(action, "", failedAttempts, nil)
}

// notifyNode fans a node lifecycle event out through rt.Observer, if any.
// It is a no-op with no registered observers, so Run pays nothing for
// observability it doesn't use.
func (rt *Runtime) notifyNode(ctx context.Context, evType observer.EventType, status observer.ExecutionStatus, execID string, node types.Node, depth int, startTS time.Time, elapsed time.Duration, runErr error) {
	if rt.Observer == nil || !rt.Observer.HasObservers() {
		return
	}
	rt.Observer.Notify(ctx, observer.Event{
		Type:        evType,
		Status:      status,
		Timestamp:   time.Now(),
		ExecutionID: execID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		Depth:       depth,
		StartTime:   startTS,
		ElapsedTime: elapsed,
		Error:       runErr,
	})
}

// executionIDOf reads back the execution id the Workflow Executor installed
// before driving the Edge Follower. Empty when Run is exercised directly
// (as the lifecycle package's own tests do), which is fine: notifyNode still
// tags events, just with no execution id to correlate them by.
func executionIDOf(st *store.Store) string {
	v, _ := st.GetReserved(executionIDKey)
	id, _ := v.(string)
	return id
}

// progressNotifier looks up the reserved progress callback once per Run
// call and returns a closure that swallows any panic the callback raises:
// wrapper code must never break execution.
func (rt *Runtime) progressNotifier(st *store.Store, nodeID string, depth int) func(phase string, durationMs float64) {
	var cb ProgressFunc
	if v, ok := st.GetReserved("__progress_callback__"); ok {
		cb, _ = v.(ProgressFunc)
	}
	return func(phase string, durationMs float64) {
		if cb == nil {
			return
		}
		defer func() { _ = recover() }()
		cb(nodeID, phase, durationMs, depth)
	}
}

// runWithTimeout runs fn in a goroutine and waits for it, the run context's
// cancellation, or the timeout, whichever comes first. It never blocks on
// an abandoned goroutine: the result channel is buffered so a late-finishing
// fn can still write to it and exit even after runWithTimeout has returned.
func (rt *Runtime) runWithTimeout(ctx context.Context, timeout time.Duration, fn func() (any, error)) (any, error) {
	type result struct {
		val any
		err error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{nil, fmt.Errorf("node exec panicked: %v", r)}
			}
		}()
		val, err := fn()
		ch <- result{val, err}
	}()

	if timeout <= 0 {
		select {
		case res := <-ch:
			return res.val, res.err
		case <-ctx.Done():
			return nil, ErrNodeCancelled
		}
	}

	select {
	case res := <-ch:
		return res.val, res.err
	case <-time.After(timeout):
		return nil, ErrNodeTimeout
	case <-ctx.Done():
		return nil, ErrNodeCancelled
	}
}

// sleepOrCancel waits for d, reporting false if ctx is cancelled first.
func sleepOrCancel(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// errorKind classifies a terminal exec error for the trace record.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNodeTimeout):
		return "timeout"
	case errors.Is(err, ErrNodeCancelled):
		return "cancelled"
	default:
		return "exec_error"
	}
}

// toInt coerces a resolved param value (float64 from JSON, or int) to an
// int, reporting false if v is neither.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
