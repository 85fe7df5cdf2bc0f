package compiler

import (
	"errors"
	"testing"

	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/types"
)

type stubExec struct{ registry.NoFallback }

func (stubExec) Prep(registry.NodeContext) (any, error) { return nil, nil }
func (stubExec) Exec(registry.NodeContext, any) (any, error) {
	return nil, nil
}
func (stubExec) Post(registry.NodeContext, any, any) (string, error) {
	return types.DefaultAction, nil
}
func (stubExec) Meta() types.NodeMeta {
	return types.NodeMeta{
		Type:    "echo",
		Outputs: []types.FieldSpec{{Key: "value", Type: types.ValueString}},
	}
}

func newTestRegistry() *registry.Registry {
	r := registry.New()
	r.MustRegister("echo", stubExec{})
	r.MustRegister("mcp", stubExec{})
	return r
}

const validIR = `{
  "nodes": [
    {"id": "a", "type": "echo", "params": {"text": "hi"}},
    {"id": "b", "type": "echo", "params": {"text": "${a.value}"}}
  ],
  "edges": [
    {"from": "__start__", "to": "a"},
    {"from": "a", "to": "b"},
    {"from": "b", "to": "__end__"}
  ]
}`

func TestCompileValidWorkflow(t *testing.T) {
	c := New(newTestRegistry(), nil)
	compiled, err := c.Compile([]byte(validIR))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if compiled.Graph.Start != "a" {
		t.Errorf("expected start a, got %s", compiled.Graph.Start)
	}
	if len(compiled.Meta) != 2 {
		t.Errorf("expected 2 node metas, got %d", len(compiled.Meta))
	}
}

func TestCompileRejectsUnknownNodeType(t *testing.T) {
	c := New(newTestRegistry(), nil)
	ir := `{"nodes": [{"id": "a", "type": "ghost"}], "edges": []}`
	_, err := c.Compile([]byte(ir))
	if !errors.Is(err, types.ErrUnknownNodeType) {
		t.Errorf("expected ErrUnknownNodeType, got %v", err)
	}
}

func TestCompileRejectsMalformedSchema(t *testing.T) {
	c := New(newTestRegistry(), nil)
	_, err := c.Compile([]byte(`{"nodes": "not-an-array", "edges": []}`))
	if !errors.Is(err, ErrSchemaInvalid) {
		t.Errorf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestCompileRejectsMultipleStdinInputs(t *testing.T) {
	c := New(newTestRegistry(), nil)
	ir := `{
		"inputs": {"a": {"type": "string", "stdin": true}, "b": {"type": "string", "stdin": true}},
		"nodes": [{"id": "n", "type": "echo"}],
		"edges": []
	}`
	_, err := c.Compile([]byte(ir))
	if !errors.Is(err, types.ErrMultipleStdin) {
		t.Errorf("expected ErrMultipleStdin, got %v", err)
	}
}

func TestCompileResolvesMCPVirtualType(t *testing.T) {
	c := New(newTestRegistry(), map[string]bool{"github": true})
	ir := `{
		"nodes": [{"id": "n", "type": "mcp-github-search_issues", "params": {}}],
		"edges": []
	}`
	compiled, err := c.Compile([]byte(ir))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	node := compiled.Graph.Nodes["n"]
	if node.Type != "mcp" {
		t.Errorf("expected rewritten type mcp, got %s", node.Type)
	}
	if node.Params["__mcp_server__"] != "github" || node.Params["__mcp_tool__"] != "search_issues" {
		t.Errorf("expected mcp server/tool injected, got %v", node.Params)
	}
}

func TestCompileRejectsUnregisteredMCPServer(t *testing.T) {
	c := New(newTestRegistry(), nil)
	ir := `{
		"nodes": [{"id": "n", "type": "mcp-github-search_issues"}],
		"edges": []
	}`
	_, err := c.Compile([]byte(ir))
	if !errors.Is(err, ErrUnknownMCPServer) {
		t.Errorf("expected ErrUnknownMCPServer, got %v", err)
	}
}
