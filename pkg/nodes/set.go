package nodes

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/types"
)

// Set writes a literal or templated value (already resolved by the
// lifecycle runtime) to its declared output "value".
type Set struct{ registry.NoFallback }

func (Set) Prep(nc registry.NodeContext) (any, error) {
	value, ok := nc.Params["value"]
	if !ok {
		return nil, fmt.Errorf("set node %q missing params.value", nc.Node.ID)
	}
	return value, nil
}

func (Set) Exec(nc registry.NodeContext, prepData any) (any, error) {
	return prepData, nil
}

func (Set) Post(nc registry.NodeContext, prepData, execResult any) (string, error) {
	nc.Store.Set("value", execResult)
	return types.DefaultAction, nil
}

func (Set) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type:    "set",
		Params:  []types.ParamSpec{{Key: "value", Required: true}},
		Outputs: []types.FieldSpec{{Key: "value", Type: types.ValueAny}},
	}
}
