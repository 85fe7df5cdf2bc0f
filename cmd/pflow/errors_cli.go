package main

import (
	"errors"

	"github.com/pflow-dev/pflow/pkg/compiler"
	"github.com/pflow-dev/pflow/pkg/types"
)

// classifyUserError maps a compilation failure to a title, one-paragraph
// explanation, and concrete remediation suggestions, following the user
// error taxonomy: never expose internal stack details unless --verbose.
func classifyUserError(err error) (title, explanation string, remedies []string) {
	switch {
	case errors.Is(err, compiler.ErrSchemaInvalid):
		return "workflow does not match the IR schema",
			"The workflow document is not valid JSON, or is missing required top-level fields (nodes, edges).",
			[]string{
				"Check the document parses as JSON.",
				`Every node needs an "id" and a "type"; every edge needs "from" and "to".`,
			}
	case errors.Is(err, types.ErrUnknownNodeType):
		return "unknown node type",
			"A node references a type that is not registered in this runtime's registry.",
			[]string{
				"Run `pflow registry list` to see available node types.",
				"Check for a typo in the node's \"type\" field.",
				"If this type should come from an MCP server, confirm the server is registered.",
			}
	case errors.Is(err, types.ErrDuplicateNodeID):
		return "duplicate node id",
			"Two or more nodes in the workflow share the same id.",
			[]string{"Give every node a unique id."}
	case errors.Is(err, types.ErrDanglingEdge):
		return "edge refers to a missing node",
			"An edge's \"from\" or \"to\" does not match any node id in the workflow.",
			[]string{"Check edge endpoints against the node list.", "Remember __start__ and __end__ are implicit."}
	case errors.Is(err, types.ErrMultipleStdin):
		return "more than one input declares stdin",
			"At most one input may set \"stdin\": true, since stdin is a single stream.",
			[]string{"Pick a single input to receive piped data; pass the rest as key=value arguments."}
	case errors.Is(err, types.ErrUnresolvedVar), errors.Is(err, types.ErrTemplateSyntax):
		return "template error",
			"A ${...} template references a variable that cannot be resolved, or uses invalid syntax.",
			[]string{
				"Check the referenced node id and output key exist and run before this one.",
				"Workflow inputs are referenced directly by name, not via a node id.",
			}
	case errors.Is(err, types.ErrMissingInput):
		return "missing required input",
			"The workflow declares a required input that was not supplied on the command line, via stdin, or via a default.",
			[]string{"Pass it as key=value.", "Or add a \"default\" to the input's declaration."}
	default:
		return "validation failed",
			"The workflow could not be compiled.",
			[]string{"Run with --verbose for the underlying error detail."}
	}
}
