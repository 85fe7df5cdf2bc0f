package template

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxJSONParseBytes bounds the auto-parse-during-traversal behavior.
const MaxJSONParseBytes = 10_485_760

// Resolver substitutes "${path}" expressions against a context map. It
// holds no state of its own; a zero value Resolver is ready to use.
type Resolver struct{}

// NewResolver constructs a Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveTemplate resolves a single string. If s is a simple template (the
// entire string is one "${path}"), the native value is returned with its
// type preserved. Otherwise every "${path}" occurrence is replaced by its
// string rendering and the literal surroundings are preserved. An
// unresolved variable is left as the literal "${path}" text.
func (r *Resolver) ResolveTemplate(s string, ctx map[string]any) (any, error) {
	if !isTemplateString(s) {
		return s, nil
	}
	toks := tokenize(s)

	if len(toks) == 1 && toks[0].kind == tokenVar {
		parts, err := parsePath(toks[0].path)
		if err != nil {
			return nil, err
		}
		val, found := traverse(ctx, parts)
		if !found {
			return "${" + toks[0].path + "}", nil
		}
		return val, nil
	}

	var out strings.Builder
	for _, t := range toks {
		switch t.kind {
		case tokenLiteral:
			out.WriteString(t.literal)
		case tokenVar:
			parts, err := parsePath(t.path)
			if err != nil {
				return nil, err
			}
			val, found := traverse(ctx, parts)
			if !found {
				out.WriteString("${" + t.path + "}")
				continue
			}
			out.WriteString(renderValue(val))
		}
	}
	return out.String(), nil
}

// ResolveNested walks tree (a param or output-source tree built from
// map[string]any, []any, and scalar leaves) and resolves every string leaf
// via ResolveTemplate. The result is a structural copy; non-string leaves
// pass through unchanged and container identity (map vs slice) is
// preserved.
func (r *Resolver) ResolveNested(tree any, ctx map[string]any) (any, error) {
	switch v := tree.(type) {
	case string:
		return r.ResolveTemplate(v, ctx)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			resolved, err := r.ResolveNested(val, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			resolved, err := r.ResolveNested(val, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

// VariableExists reports whether the given path resolves to a defined
// value in ctx. It returns true exactly when ResolveTemplate("${path}", ctx)
// would return a defined value rather than the literal template text;
// this symmetry is an invariant. A path that resolves to
// a present-but-nil value counts as existing.
func (r *Resolver) VariableExists(path string, ctx map[string]any) bool {
	parts, err := parsePath(path)
	if err != nil {
		return false
	}
	_, found := traverse(ctx, parts)
	return found
}

// traverse walks ctx following parts, auto-parsing JSON strings when a part
// needs to descend further into one. It returns (value, true) even when
// value is nil, so long as the key was actually present.
func traverse(ctx map[string]any, parts []part) (any, bool) {
	var current any = ctx
	for _, p := range parts {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		val, ok := m[p.ident]
		if !ok {
			return nil, false
		}
		current = val
		for _, idx := range p.indices {
			list, ok := asList(current)
			if !ok {
				return nil, false
			}
			if idx < 0 || idx >= len(list) {
				return nil, false
			}
			current = list[idx]
		}
	}
	return current, true
}

// asMap returns v as a map[string]any, auto-parsing a JSON-looking string
// first if necessary.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	if s, ok := v.(string); ok {
		if parsed, ok := autoParseJSON(s); ok {
			if m, ok := parsed.(map[string]any); ok {
				return m, true
			}
		}
	}
	return nil, false
}

// asList returns v as a []any, auto-parsing a JSON-looking string first if
// necessary.
func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	if s, ok := v.(string); ok {
		if parsed, ok := autoParseJSON(s); ok {
			if l, ok := parsed.([]any); ok {
				return l, true
			}
		}
	}
	return nil, false
}

// autoParseJSON attempts to parse s as JSON, applying the auto-parse rule:
// size-bounded, and only attempted when the first
// non-whitespace byte looks like the start of a JSON value. A parse
// failure is not an error; it just means traversal fails for the next
// part, which autoParseJSON reports via its bool return.
func autoParseJSON(s string) (any, bool) {
	if len(s) > MaxJSONParseBytes {
		return nil, false
	}
	trimmed := strings.TrimLeft(s, " \t\r\n")
	if trimmed == "" {
		return nil, false
	}
	switch c := trimmed[0]; {
	case c == '{' || c == '[' || c == '"' || c == 't' || c == 'f' || c == 'n' || c == '-' || (c >= '0' && c <= '9'):
	default:
		return nil, false
	}
	var out any
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return nil, false
	}
	return out, true
}

// renderValue renders a resolved value for complex-interpolation
// substitution: nil -> "null", bool -> "true"/"false", numbers -> decimal
// string, strings verbatim, containers -> canonical JSON with stable key
// order.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case string:
		return val
	case float64:
		return formatNumber(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]any, []any:
		return canonicalJSON(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// formatNumber renders a float64 as an integer literal when it has no
// fractional part, and as a compact decimal otherwise.
func formatNumber(f float64) string {
	if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// canonicalJSON renders v as JSON with map keys in stable order.
// encoding/json already marshals map[string]any keys sorted, so this is a
// plain Marshal.
func canonicalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
