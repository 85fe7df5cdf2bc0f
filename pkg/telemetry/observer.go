package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pflow-dev/pflow/pkg/observer"
)

// TelemetryObserver implements observer.Observer, bridging lifecycle and
// executor events into the OTel instruments a Provider exposes. The
// Manager it is registered with calls OnEvent from a fresh goroutine per
// event, so the span/start-time maps below need their own lock even though
// a given run only ever executes one node at a time.
type TelemetryObserver struct {
	provider *Provider

	mu           sync.Mutex
	workflowSpan trace.Span
	nodeSpans    map[string]trace.Span

	workflowStartTime time.Time
	nodeStartTimes    map[string]time.Time
}

// NewTelemetryObserver creates a new telemetry observer
func NewTelemetryObserver(provider *Provider) *TelemetryObserver {
	return &TelemetryObserver{
		provider:       provider,
		nodeSpans:      make(map[string]trace.Span),
		nodeStartTimes: make(map[string]time.Time),
	}
}

// OnEvent handles execution events and records telemetry data
func (o *TelemetryObserver) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventWorkflowStart:
		o.handleWorkflowStart(ctx, event)
	case observer.EventWorkflowEnd:
		o.handleWorkflowEnd(ctx, event)
	case observer.EventNodeStart:
		o.handleNodeStart(ctx, event)
	case observer.EventNodeSuccess:
		o.handleNodeSuccess(ctx, event)
	case observer.EventNodeFailure:
		o.handleNodeFailure(ctx, event)
	}
}

func (o *TelemetryObserver) handleWorkflowStart(ctx context.Context, event observer.Event) {
	_, span := o.provider.Tracer().Start(ctx, "workflow.execute",
		trace.WithAttributes(
			attribute.String("workflow.id", event.WorkflowID),
			attribute.String("execution.id", event.ExecutionID),
			attribute.Int("workflow.depth", event.Depth),
		),
	)

	o.mu.Lock()
	o.workflowSpan = span
	o.workflowStartTime = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleWorkflowEnd(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	duration := time.Since(o.workflowStartTime)
	span := o.workflowSpan
	o.workflowSpan = nil
	o.mu.Unlock()

	nodesExecuted := 0
	if val, ok := event.Metadata["nodes_executed"]; ok {
		if count, ok := val.(int); ok {
			nodesExecuted = count
		}
	}

	success := event.Status == observer.StatusSuccess
	o.provider.RecordWorkflowExecution(ctx, event.WorkflowID, duration, success, nodesExecuted)

	if span != nil {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "workflow completed successfully")
		}
		span.End()
	}
}

func (o *TelemetryObserver) handleNodeStart(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	workflowSpan := o.workflowSpan
	o.mu.Unlock()

	spanCtx := ctx
	if workflowSpan != nil {
		spanCtx = trace.ContextWithSpan(ctx, workflowSpan)
	}

	_, span := o.provider.Tracer().Start(spanCtx, "node.execute",
		trace.WithAttributes(
			attribute.String("node.id", event.NodeID),
			attribute.String("node.type", event.NodeType),
			attribute.String("execution.id", event.ExecutionID),
			attribute.Int("workflow.depth", event.Depth),
		),
	)

	o.mu.Lock()
	o.nodeSpans[event.NodeID] = span
	o.nodeStartTimes[event.NodeID] = event.Timestamp
	o.mu.Unlock()
}

func (o *TelemetryObserver) handleNodeSuccess(ctx context.Context, event observer.Event) {
	o.handleNodeEnd(ctx, event, true)
}

func (o *TelemetryObserver) handleNodeFailure(ctx context.Context, event observer.Event) {
	o.handleNodeEnd(ctx, event, false)
}

func (o *TelemetryObserver) handleNodeEnd(ctx context.Context, event observer.Event, success bool) {
	o.mu.Lock()
	startTime, hadStart := o.nodeStartTimes[event.NodeID]
	delete(o.nodeStartTimes, event.NodeID)
	span, hadSpan := o.nodeSpans[event.NodeID]
	delete(o.nodeSpans, event.NodeID)
	o.mu.Unlock()

	var duration time.Duration
	if hadStart {
		duration = time.Since(startTime)
	}

	o.provider.RecordNodeExecution(ctx, event.NodeID, event.NodeType, duration, success)

	if hadSpan {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "node completed successfully")
		}
		span.End()
	}
}
