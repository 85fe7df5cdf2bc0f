package compiler

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/pflow-dev/pflow/pkg/flow"
	"github.com/pflow-dev/pflow/pkg/registry"
	"github.com/pflow-dev/pflow/pkg/template"
	"github.com/pflow-dev/pflow/pkg/types"
)

// mcpTypePattern recognizes the virtual node type naming convention
// "mcp-<server>-<tool>".
var mcpTypePattern = regexp.MustCompile(`^mcp-([A-Za-z0-9_]+)-([A-Za-z0-9_.]+)$`)

// Compiled is the output of a successful Compile: the parsed workflow, its
// executable graph, per-node metadata, and any non-fatal validator
// warnings.
type Compiled struct {
	Workflow *types.Workflow
	Graph    *flow.Graph
	Meta     map[string]types.NodeMeta
	Warnings []template.Warning
}

// Compiler turns IR text into a Compiled workflow.
type Compiler struct {
	Registry *registry.Registry

	// MCPServers names the MCP servers this runtime instance has
	// registered. A "mcp-<server>-<tool>" node type resolves only when
	// server is a key here; the full MCP client is out of scope (see
	// DESIGN.md), so a resolved mcp node still requires an "mcp" entry in
	// Registry to actually execute.
	MCPServers map[string]bool

	validator *template.Validator
}

// New constructs a Compiler bound to reg. mcpServers may be nil.
func New(reg *registry.Registry, mcpServers map[string]bool) *Compiler {
	return &Compiler{Registry: reg, MCPServers: mcpServers, validator: template.NewValidator()}
}

// Compile runs schema check, parse, stdin-input check, node-type resolution,
// template validation, and graph construction against raw IR bytes.
func (c *Compiler) Compile(data []byte) (*Compiled, error) {
	if err := checkSchema(data); err != nil {
		return nil, err
	}

	var wf types.Workflow
	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}

	if err := c.checkStdinInputs(&wf); err != nil {
		return nil, err
	}

	meta, err := c.resolveNodeTypes(&wf)
	if err != nil {
		return nil, err
	}

	warnings, err := c.validator.Validate(&wf, meta)
	if err != nil {
		return nil, err
	}

	graph, err := flow.NewGraph(wf.Nodes, wf.Edges)
	if err != nil {
		return nil, err
	}

	return &Compiled{Workflow: &wf, Graph: graph, Meta: meta, Warnings: warnings}, nil
}

// checkStdinInputs enforces "at most one input may declare stdin=true".
func (c *Compiler) checkStdinInputs(wf *types.Workflow) error {
	seen := false
	for name, in := range wf.Inputs {
		if !in.Stdin {
			continue
		}
		if seen {
			return fmt.Errorf("%w: %q", types.ErrMultipleStdin, name)
		}
		seen = true
	}
	return nil
}

// resolveNodeTypes performs the registry-lookup and interface-load phases:
// every node.Type either names a registered executor directly, or matches
// the mcp-<server>-<tool> virtual-type pattern against a registered MCP
// server. Recognized mcp nodes have their server/tool injected into Params
// under reserved keys and their Type rewritten to the canonical "mcp"
// registry entry.
func (c *Compiler) resolveNodeTypes(wf *types.Workflow) (map[string]types.NodeMeta, error) {
	meta := make(map[string]types.NodeMeta, len(wf.Nodes))
	seenIDs := make(map[string]bool, len(wf.Nodes))

	for i := range wf.Nodes {
		n := &wf.Nodes[i]
		if seenIDs[n.ID] {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateNodeID, n.ID)
		}
		seenIDs[n.ID] = true

		if m := mcpTypePattern.FindStringSubmatch(n.Type); m != nil {
			server, tool := m[1], m[2]
			if !c.MCPServers[server] {
				return nil, fmt.Errorf("%w: %s (node %q)", ErrUnknownMCPServer, server, n.ID)
			}
			exec, ok := c.Registry.Get("mcp")
			if !ok {
				return nil, fmt.Errorf("%w: mcp (node %q)", types.ErrUnknownNodeType, n.ID)
			}
			if n.Params == nil {
				n.Params = make(map[string]any)
			}
			n.Params["__mcp_server__"] = server
			n.Params["__mcp_tool__"] = tool
			n.Type = "mcp"
			meta[n.ID] = exec.Meta()
			continue
		}

		exec, ok := c.Registry.Get(n.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %s (node %q)", types.ErrUnknownNodeType, n.Type, n.ID)
		}
		meta[n.ID] = exec.Meta()
	}

	return meta, nil
}
