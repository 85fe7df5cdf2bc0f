package nodes

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/expression"
	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/types"
)

// Cond evaluates params.expr as an expr-lang boolean expression over the
// resolved params and routes via action "true" or "false".
type Cond struct {
	registry.NoFallback
	Engine *expression.Engine
}

// NewCond constructs a Cond node backed by engine. A single Engine should be
// shared across all Cond instances in a registry so compiled programs are
// cached across node invocations.
func NewCond(engine *expression.Engine) *Cond {
	return &Cond{Engine: engine}
}

func (c *Cond) Prep(nc registry.NodeContext) (any, error) {
	exprStr, ok := nc.Params["expr"].(string)
	if !ok || exprStr == "" {
		return nil, fmt.Errorf("cond node %q missing params.expr", nc.Node.ID)
	}
	return exprStr, nil
}

func (c *Cond) Exec(nc registry.NodeContext, prepData any) (any, error) {
	exprStr := prepData.(string)
	return c.Engine.EvaluateBool(exprStr, nc.Params)
}

func (c *Cond) Post(nc registry.NodeContext, prepData, execResult any) (string, error) {
	result := execResult.(bool)
	nc.Store.Set("result", result)
	if result {
		return "true", nil
	}
	return "false", nil
}

func (c *Cond) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type:    "cond",
		Params:  []types.ParamSpec{{Key: "expr", Required: true}},
		Outputs: []types.FieldSpec{{Key: "result", Type: types.ValueBool}},
		Actions: []string{"true", "false"},
	}
}
