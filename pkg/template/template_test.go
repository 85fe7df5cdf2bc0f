package template

import (
	"reflect"
	"testing"

	"github.com/pflow-dev/pflow/pkg/types"
)

func TestResolveTemplateSimplePreservesType(t *testing.T) {
	// P1: type preservation for a simple template over a dict value.
	r := NewResolver()
	ctx := map[string]any{"data": map[string]any{"a": float64(1)}}

	got, err := r.ResolveTemplate("${data}", ctx)
	if err != nil {
		t.Fatal(err)
	}
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", got)
	}
	if m["a"] != float64(1) {
		t.Errorf("expected a == 1, got %v", m["a"])
	}
}

func TestResolveNestedTypePreservation(t *testing.T) {
	r := NewResolver()
	ctx := map[string]any{"data": map[string]any{"a": float64(1)}}
	tree := map[string]any{"config": "${data}"}

	got, err := r.ResolveNested(tree, ctx)
	if err != nil {
		t.Fatal(err)
	}
	out := got.(map[string]any)
	cfg, ok := out["config"].(map[string]any)
	if !ok {
		t.Fatalf("config must stay a dict, got %T: %v", out["config"], out["config"])
	}
	if !reflect.DeepEqual(cfg, map[string]any{"a": float64(1)}) {
		t.Errorf("config = %v, want {a:1}", cfg)
	}
}

func TestResolveTemplateEscape(t *testing.T) {
	// P3
	r := NewResolver()
	got, err := r.ResolveTemplate("$${x}", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "${x}" {
		t.Errorf("got %q, want literal ${x}", got)
	}
}

func TestResolveNestedIdempotence(t *testing.T) {
	// P4
	r := NewResolver()
	got, err := r.ResolveNested("plain string, no templates", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if got != "plain string, no templates" {
		t.Errorf("got %q", got)
	}
}

func TestVariableExistsAgreesWithResolve(t *testing.T) {
	// P2
	r := NewResolver()
	ctx := map[string]any{"a": map[string]any{"b": nil}}

	if !r.VariableExists("a.b", ctx) {
		t.Error("present-but-null path should exist (Open Question #1 decision)")
	}
	got, _ := r.ResolveTemplate("${a.b}", ctx)
	if got != nil {
		t.Errorf("expected resolved nil, got %v", got)
	}

	if r.VariableExists("a.missing", ctx) {
		t.Error("missing path should not exist")
	}
	got, _ = r.ResolveTemplate("${a.missing}", ctx)
	if got != "${a.missing}" {
		t.Errorf("unresolved path should render as literal template text, got %q", got)
	}
}

func TestAutoParseJSONDuringTraversal(t *testing.T) {
	r := NewResolver()
	ctx := map[string]any{
		"A": map[string]any{"stdout": `{"iso":"2026-01-01","month":"January"}`},
	}
	got, err := r.ResolveTemplate("${A.stdout.iso}", ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2026-01-01" {
		t.Errorf("got %v", got)
	}
}

func TestAutoParseRejectsNonJSONLooking(t *testing.T) {
	r := NewResolver()
	ctx := map[string]any{"A": map[string]any{"stdout": "not json at all"}}
	if r.VariableExists("A.stdout.iso", ctx) {
		t.Error("non-JSON string should not support further traversal")
	}
}

func TestComplexInterpolationRendersContainerAsJSON(t *testing.T) {
	r := NewResolver()
	ctx := map[string]any{"data": map[string]any{"value": "Hello"}}
	got, err := r.ResolveTemplate(`payload=${data}`, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != `payload={"value":"Hello"}` {
		t.Errorf("got %q", got)
	}
}

func TestComplexInterpolationNumbersAndBools(t *testing.T) {
	r := NewResolver()
	ctx := map[string]any{"n": float64(3), "b": true, "x": nil}
	got, _ := r.ResolveTemplate("n=${n} b=${b} x=${x}", ctx)
	if got != "n=3 b=true x=null" {
		t.Errorf("got %q", got)
	}
}

func TestValidatorRejectsUnknownOutput(t *testing.T) {
	wf := &types.Workflow{
		Nodes: []types.Node{{ID: "a", Type: "set"}, {ID: "b", Type: "echo", Params: map[string]any{"text": "${a.missing}"}}},
	}
	meta := map[string]types.NodeMeta{
		"a": {Outputs: []types.FieldSpec{{Key: "value", Type: types.ValueString}}},
	}
	_, err := NewValidator().Validate(wf, meta)
	if err == nil {
		t.Fatal("expected UnknownOutput error")
	}
}

func TestValidatorWarnsOnStringDescent(t *testing.T) {
	wf := &types.Workflow{
		Nodes: []types.Node{
			{ID: "a", Type: "shell"},
			{ID: "b", Type: "echo", Params: map[string]any{"text": "${a.stdout.iso}"}},
		},
	}
	meta := map[string]types.NodeMeta{
		"a": {Outputs: []types.FieldSpec{{Key: "stdout", Type: types.ValueString}}},
	}
	warnings, err := NewValidator().Validate(wf, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
}

func TestValidatorPassesThroughDict(t *testing.T) {
	wf := &types.Workflow{
		Nodes: []types.Node{
			{ID: "a", Type: "http_get"},
			{ID: "b", Type: "echo", Params: map[string]any{"text": "${a.body.user.name}"}},
		},
	}
	meta := map[string]types.NodeMeta{
		"a": {Outputs: []types.FieldSpec{{
			Key: "body", Type: types.ValueDict,
			Structure: map[string]types.FieldSpec{
				"user": {Key: "user", Type: types.ValueDict, Structure: map[string]types.FieldSpec{
					"name": {Key: "name", Type: types.ValueString},
				}},
			},
		}}},
	}
	warnings, err := NewValidator().Validate(wf, meta)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}
