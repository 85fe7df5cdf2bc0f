package nodes

import (
	"context"
	"testing"

	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/store"
	"github.com/pflow-dev/pflow/pkg/types"
)

func newNodeContext(id string, params map[string]any, st *store.Store) registry.NodeContext {
	return registry.NodeContext{
		Ctx:    context.Background(),
		Node:   types.Node{ID: id, Type: "test"},
		Params: params,
		Store:  st.Scope(id),
	}
}

func TestSet_PrepExecPost(t *testing.T) {
	tests := []struct {
		name    string
		params  map[string]any
		wantVal any
		wantErr bool
	}{
		{name: "string value", params: map[string]any{"value": "hello"}, wantVal: "hello"},
		{name: "numeric value", params: map[string]any{"value": 42}, wantVal: 42},
		{name: "missing value", params: map[string]any{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.New()
			nc := newNodeContext("n1", tt.params, st)

			n := Set{}
			prepData, err := n.Prep(nc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Prep() error = %v", err)
			}

			execResult, err := n.Exec(nc, prepData)
			if err != nil {
				t.Fatalf("Exec() error = %v", err)
			}

			action, err := n.Post(nc, prepData, execResult)
			if err != nil {
				t.Fatalf("Post() error = %v", err)
			}
			if action != types.DefaultAction {
				t.Errorf("action = %q, want %q", action, types.DefaultAction)
			}

			got, ok := st.Scope("n1").Get("value")
			if !ok {
				t.Fatal("expected value written to store")
			}
			if got != tt.wantVal {
				t.Errorf("store value = %v, want %v", got, tt.wantVal)
			}
		})
	}
}

func TestSet_Meta(t *testing.T) {
	m := Set{}.Meta()
	if m.Type != "set" {
		t.Errorf("Type = %q, want set", m.Type)
	}
	if _, ok := m.Output("value"); !ok {
		t.Error("expected declared output \"value\"")
	}
}

func TestSet_NoFallback(t *testing.T) {
	st := store.New()
	nc := newNodeContext("n1", nil, st)
	_, err := (Set{}).Fallback(nc, nil, nil)
	if err != registry.ErrNoFallback {
		t.Errorf("Fallback() error = %v, want ErrNoFallback", err)
	}
}
