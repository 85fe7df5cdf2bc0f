package types

// ValueType enumerates the declared shapes a node input, output, or nested
// structure field may take. A field may declare a union as "str|dict".
type ValueType string

const (
	ValueString ValueType = "str"
	ValueInt    ValueType = "int"
	ValueFloat  ValueType = "float"
	ValueBool   ValueType = "bool"
	ValueList   ValueType = "list"
	ValueDict   ValueType = "dict"
	ValueAny    ValueType = "any"
)

// FieldSpec describes one input or output key a node reads from or writes
// to the shared store.
type FieldSpec struct {
	Key         string    `json:"key"`
	Type        ValueType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Description string    `json:"description,omitempty"`

	// Structure declares the nested shape of a dict/list output, enabling
	// the Template Validator to walk multi-segment paths statically.
	// Only meaningful on outputs.
	Structure map[string]FieldSpec `json:"structure,omitempty"`
}

// ParamSpec describes one key a node consumes as an explicit parameter,
// independent of the shared store.
type ParamSpec struct {
	Key         string `json:"key"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// NodeMeta is the immutable-after-scan interface metadata for one
// registered node type.
type NodeMeta struct {
	Type    string      `json:"type"`
	Inputs  []FieldSpec `json:"inputs,omitempty"`
	Outputs []FieldSpec `json:"outputs,omitempty"`
	Actions []string    `json:"actions,omitempty"`
	Params  []ParamSpec `json:"params,omitempty"`
}

// Output looks up a declared output by key, reporting whether it exists.
func (m NodeMeta) Output(key string) (FieldSpec, bool) {
	for _, o := range m.Outputs {
		if o.Key == key {
			return o, true
		}
	}
	return FieldSpec{}, false
}

// HasAction reports whether the node may return the given action. Every
// node implicitly supports "default"; fallible nodes are expected to also
// declare "error".
func (m NodeMeta) HasAction(action string) bool {
	if action == DefaultAction {
		return true
	}
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// OutputKeys returns the declared output keys, for error messages like
// "Available outputs: ...".
func (m NodeMeta) OutputKeys() []string {
	keys := make([]string, len(m.Outputs))
	for i, o := range m.Outputs {
		keys[i] = o.Key
	}
	return keys
}
