package nodes

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/types"
)

// Echo copies its resolved text param verbatim to output "text".
type Echo struct{ registry.NoFallback }

func (Echo) Prep(nc registry.NodeContext) (any, error) {
	text, ok := nc.Params["text"]
	if !ok {
		return nil, fmt.Errorf("echo node %q missing params.text", nc.Node.ID)
	}
	s, ok := text.(string)
	if !ok {
		return nil, fmt.Errorf("echo node %q params.text must be a string, got %T", nc.Node.ID, text)
	}
	return s, nil
}

func (Echo) Exec(nc registry.NodeContext, prepData any) (any, error) {
	return prepData, nil
}

func (Echo) Post(nc registry.NodeContext, prepData, execResult any) (string, error) {
	nc.Store.Set("text", execResult)
	return types.DefaultAction, nil
}

func (Echo) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type:    "echo",
		Params:  []types.ParamSpec{{Key: "text", Required: true}},
		Outputs: []types.FieldSpec{{Key: "text", Type: types.ValueString}},
	}
}
