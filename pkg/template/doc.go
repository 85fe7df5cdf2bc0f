// Package template implements the Template Resolver (C1) and Template
// Validator (C2): substitution of "${path}" expressions against a context,
// and the static check that every template in a workflow IR resolves
// against declared node-output metadata before the workflow ever runs.
//
// Tokens are extracted by a single left-to-right byte scan, and path grammar
// is checked with regular expressions; nested
// substitution walks maps and slices recursively, preserving container
// identity rather than flattening to strings.
package template
