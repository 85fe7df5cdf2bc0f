package types

import "testing"

func TestEdgeActionOrDefault(t *testing.T) {
	cases := []struct {
		name string
		edge Edge
		want string
	}{
		{"explicit action", Edge{From: "a", To: "b", Action: "true"}, "true"},
		{"empty action defaults", Edge{From: "a", To: "b"}, DefaultAction},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.edge.ActionOrDefault(); got != c.want {
				t.Errorf("ActionOrDefault() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestNodeMetaHasAction(t *testing.T) {
	m := NodeMeta{Actions: []string{"error"}}
	if !m.HasAction(DefaultAction) {
		t.Error("default action should always be allowed")
	}
	if !m.HasAction("error") {
		t.Error("declared action should be allowed")
	}
	if m.HasAction("bogus") {
		t.Error("undeclared action should not be allowed")
	}
}

func TestNodeMetaOutput(t *testing.T) {
	m := NodeMeta{Outputs: []FieldSpec{{Key: "stdout", Type: ValueString}}}
	if _, ok := m.Output("stdout"); !ok {
		t.Error("expected stdout output to exist")
	}
	if _, ok := m.Output("missing"); ok {
		t.Error("expected missing output to be absent")
	}
}

func TestValueDepth(t *testing.T) {
	v := map[string]any{"a": []any{map[string]any{"b": 1}}}
	if d := ValueDepth(v); d != 4 {
		t.Errorf("ValueDepth() = %d, want 4", d)
	}
	if d := ValueDepth("scalar"); d != 1 {
		t.Errorf("ValueDepth(scalar) = %d, want 1", d)
	}
	if d := ValueDepth(nil); d != 0 {
		t.Errorf("ValueDepth(nil) = %d, want 0", d)
	}
}

func TestGenerateExecutionID(t *testing.T) {
	a := GenerateExecutionID()
	b := GenerateExecutionID()
	if a == b {
		t.Error("expected distinct execution ids")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
}
