package compiler

import "errors"

// Sentinel errors for compilation failures not already covered by
// pkg/types' shared taxonomy.
var (
	ErrSchemaInvalid   = errors.New("workflow does not conform to the IR schema")
	ErrUnknownMCPServer = errors.New("mcp virtual type references an unregistered server")
)
