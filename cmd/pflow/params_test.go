package main

import (
	"reflect"
	"testing"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		wantKey string
		wantVal any
		wantOk  bool
	}{
		{"bool true", "flag=true", "flag", true, true},
		{"bool false", "flag=false", "flag", false, true},
		{"int", "count=42", "count", int64(42), true},
		{"negative int", "delta=-7", "delta", int64(-7), true},
		{"float", "ratio=3.14", "ratio", 3.14, true},
		{"json array", "items=[1,2,3]", "items", []any{1.0, 2.0, 3.0}, true},
		{"json object", `obj={"a":1}`, "obj", map[string]any{"a": 1.0}, true},
		{"plain string", "name=world", "name", "world", true},
		{"string containing equals", "expr=a=b", "expr", "a=b", true},
		{"no equals sign", "noequals", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, val, ok := parseKeyValue(tt.arg)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if key != tt.wantKey {
				t.Errorf("key = %q, want %q", key, tt.wantKey)
			}
			if !reflect.DeepEqual(val, tt.wantVal) {
				t.Errorf("val = %#v (%T), want %#v (%T)", val, val, tt.wantVal, tt.wantVal)
			}
		})
	}
}

func TestLooksLikePath(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"my-workflow", false},
		{"workflow.json", true},
		{"./workflow.json", true},
		{"/abs/path/wf", true},
	}
	for _, tt := range tests {
		if got := looksLikePath(tt.ref); got != tt.want {
			t.Errorf("looksLikePath(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
