package expression

import "testing"

func TestEvaluateBool(t *testing.T) {
	e := NewEngine()
	ok, err := e.EvaluateBool("status >= 200 && status < 300", map[string]any{"status": 204})
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("expected true")
	}
}

func TestEvaluateBoolCachesProgram(t *testing.T) {
	e := NewEngine()
	expr := "x > 0"
	if _, err := e.EvaluateBool(expr, map[string]any{"x": 1}); err != nil {
		t.Fatal(err)
	}
	if len(e.cache) != 1 {
		t.Fatalf("expected 1 cached program, got %d", len(e.cache))
	}
	if _, err := e.EvaluateBool(expr, map[string]any{"x": -1}); err != nil {
		t.Fatal(err)
	}
	if len(e.cache) != 1 {
		t.Errorf("expected cache reuse, got %d entries", len(e.cache))
	}
}

func TestEvaluateBoolRejectsNonBool(t *testing.T) {
	e := NewEngine()
	_, err := e.EvaluateBool("1 + 1", map[string]any{})
	if err == nil {
		t.Fatal("expected error for non-bool result")
	}
}

func TestEvaluateBoolCompileError(t *testing.T) {
	e := NewEngine()
	_, err := e.EvaluateBool("this is not valid (((", map[string]any{})
	if err == nil {
		t.Fatal("expected compile error")
	}
}
