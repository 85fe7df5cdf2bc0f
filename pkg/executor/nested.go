package executor

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/compiler"
	"github.com/pflow-dev/pflow/pkg/lifecycle"
	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/types"
)

// WorkflowLoader resolves a workflow reference (a name or path, as declared
// in params.ref) to its compiled form.
type WorkflowLoader func(ref string) (*compiler.Compiled, error)

type nestedWorkflowPrep struct {
	compiled *compiler.Compiled
	inputs   map[string]any
	depth    int
	progress lifecycle.ProgressFunc
}

// NestedWorkflow is the "workflow" registry entry: a node whose type is
// itself a workflow reference. It invokes the owning WorkflowExecutor
// recursively with a fresh shared store, inheriting __pflow_depth__+1 and
// the progress callback. Its resolved outputs become this node's outputs.
type NestedWorkflow struct {
	registry.NoFallback

	Runner *WorkflowExecutor
	Loader WorkflowLoader
}

func (n *NestedWorkflow) Prep(nc registry.NodeContext) (any, error) {
	if n.Loader == nil {
		return nil, fmt.Errorf("node %q: %w", nc.Node.ID, ErrNestedWorkflowsUnsupported)
	}

	ref, ok := nc.Params["ref"].(string)
	if !ok || ref == "" {
		return nil, fmt.Errorf("workflow node %q missing params.ref", nc.Node.ID)
	}
	compiled, err := n.Loader(ref)
	if err != nil {
		return nil, fmt.Errorf("workflow node %q: loading %q: %w", nc.Node.ID, ref, err)
	}

	inputs := make(map[string]any, len(nc.Params))
	for k, v := range nc.Params {
		if k == "ref" {
			continue
		}
		inputs[k] = v
	}

	depth := 0
	if v, ok := nc.Store.Get("__pflow_depth__"); ok {
		if d, ok := v.(int); ok {
			depth = d
		}
	}
	var progress lifecycle.ProgressFunc
	if v, ok := nc.Store.Get("__progress_callback__"); ok {
		progress, _ = v.(lifecycle.ProgressFunc)
	}

	return nestedWorkflowPrep{compiled: compiled, inputs: inputs, depth: depth + 1, progress: progress}, nil
}

func (n *NestedWorkflow) Exec(nc registry.NodeContext, prepData any) (any, error) {
	p := prepData.(nestedWorkflowPrep)
	result, err := n.Runner.Run(nc.Ctx, p.compiled.Workflow, p.compiled.Graph, p.inputs, p.depth, p.progress)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (n *NestedWorkflow) Post(nc registry.NodeContext, prepData, execResult any) (string, error) {
	result := execResult.(*types.Result)
	for k, v := range result.Outputs {
		nc.Store.Set(k, v)
	}
	return types.DefaultAction, nil
}

func (n *NestedWorkflow) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type:   "workflow",
		Params: []types.ParamSpec{{Key: "ref", Required: true}},
		Outputs: []types.FieldSpec{
			{Key: "*", Type: types.ValueAny, Description: "mirrors the referenced workflow's declared outputs"},
		},
	}
}
