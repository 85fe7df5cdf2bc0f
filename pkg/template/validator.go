package template

import (
	"fmt"
	"strings"

	"github.com/pflow-dev/pflow/pkg/types"
)

// Warning is a non-fatal validator finding (e.g. a path that relies on
// runtime JSON auto-parsing of a string output). Warnings pass through to
// the CLI output channel; they never abort compilation.
type Warning struct {
	Path    string
	Message string
}

// Validator statically verifies every template in a workflow IR against
// declared node-output metadata, before any node runs (C2).
type Validator struct{}

// NewValidator constructs a Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate walks every template in wf's node params and output sources,
// checking each path against nodeMeta (the already-resolved metadata for
// each node id in the workflow, keyed by node id). Validator errors abort
// compilation; returned warnings do not.
func (v *Validator) Validate(wf *types.Workflow, nodeMeta map[string]types.NodeMeta) ([]Warning, error) {
	var warnings []Warning

	checkPath := func(path string) error {
		parts, err := parsePath(path)
		if err != nil {
			return err
		}
		first := parts[0]

		if _, ok := wf.Inputs[first.ident]; ok {
			// Declared inputs carry no structure declaration, so nothing
			// deeper to check statically; runtime auto-parse covers it.
			return nil
		}

		meta, ok := nodeMeta[first.ident]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownNode, first.ident)
		}
		if len(parts) < 2 {
			return fmt.Errorf("%w: path %q must reference an output of node %q", ErrUnknownOutput, path, first.ident)
		}

		field, ok := meta.Output(parts[1].ident)
		if !ok {
			return fmt.Errorf("%w: node %q has no output %q (available: %v)", ErrUnknownOutput, first.ident, parts[1].ident, meta.OutputKeys())
		}
		if len(parts[1].indices) > 0 && field.Type != types.ValueList {
			return fmt.Errorf("%w: array index used on non-list output %q.%q", ErrInvalidTraversal, first.ident, parts[1].ident)
		}

		current := field
		for i := 2; i < len(parts); i++ {
			seg := parts[i]
			switch {
			case isAnyType(current.Type):
				return nil // any (or a union containing any): stop descending, passes.
			case hasStringMember(current.Type):
				warnings = append(warnings, Warning{
					Path:    path,
					Message: fmt.Sprintf("%q descends into a string output (%s); relies on runtime JSON auto-parse", path, joinPath(parts[:i])),
				})
				return nil
			case current.Type == types.ValueDict:
				next, ok := current.Structure[seg.ident]
				if !ok {
					return fmt.Errorf("%w: %q has no field %q", ErrUnknownOutput, joinPath(parts[:i]), seg.ident)
				}
				current = next
			default:
				return fmt.Errorf("%w: cannot descend into %q at %q (type %s)", ErrInvalidTraversal, seg.ident, joinPath(parts[:i]), current.Type)
			}
			if len(seg.indices) > 0 && current.Type != types.ValueList {
				return fmt.Errorf("%w: array index used on non-list field %q", ErrInvalidTraversal, joinPath(parts[:i+1]))
			}
		}
		return nil
	}

	for _, n := range wf.Nodes {
		for _, path := range collectPaths(n.Params) {
			if err := checkPath(path); err != nil {
				return warnings, fmt.Errorf("node %q: %w", n.ID, err)
			}
		}
	}
	for name, o := range wf.Outputs {
		for _, path := range collectPathsFromString(o.Source) {
			if err := checkPath(path); err != nil {
				return warnings, fmt.Errorf("output %q: %w", name, err)
			}
		}
	}
	return warnings, nil
}

// isAnyType reports whether t is "any" or a declared union ("str|dict")
// that includes "any" as a member.
func isAnyType(t types.ValueType) bool {
	return unionHasMember(t, types.ValueAny)
}

// hasStringMember reports whether t is "str" itself or a declared union
// that includes "str" as a member.
func hasStringMember(t types.ValueType) bool {
	return unionHasMember(t, types.ValueString)
}

func unionHasMember(t types.ValueType, member types.ValueType) bool {
	for _, part := range strings.Split(string(t), "|") {
		if types.ValueType(part) == member {
			return true
		}
	}
	return false
}

func joinPath(parts []part) string {
	s := ""
	for i, p := range parts {
		if i > 0 {
			s += "."
		}
		s += p.ident
	}
	return s
}

// collectPaths finds every "${path}" occurrence anywhere in a params tree.
func collectPaths(tree any) []string {
	var out []string
	var walk func(any)
	walk = func(v any) {
		switch val := v.(type) {
		case string:
			out = append(out, collectPathsFromString(val)...)
		case map[string]any:
			for _, sub := range val {
				walk(sub)
			}
		case []any:
			for _, sub := range val {
				walk(sub)
			}
		}
	}
	walk(tree)
	return out
}

// collectPathsFromString extracts every live template path in s.
func collectPathsFromString(s string) []string {
	var out []string
	for _, t := range tokenize(s) {
		if t.kind == tokenVar {
			out = append(out, t.path)
		}
	}
	return out
}
