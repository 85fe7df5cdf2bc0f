package flow

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/types"
)

// edgeKey is the (from, action) pair the edge table is indexed by.
type edgeKey struct {
	from, action string
}

// Graph is the executable graph the Compiler (C6) produces and the Edge
// Follower (C5) walks: every node keyed by id, plus an edge table keyed by
// (from, action) for single-step routing.
type Graph struct {
	Nodes map[string]types.Node
	Order []string // IR node order, used to pick a default start when no edge names __start__
	Start string
	table map[edgeKey]string
}

// NewGraph builds the executable graph from IR nodes and edges. It returns
// types.ErrDuplicateNodeID, types.ErrDanglingEdge, or types.ErrDuplicateEdge
// for a malformed edge table, caught at compile time before any node runs.
func NewGraph(nodes []types.Node, edges []types.Edge) (*Graph, error) {
	g := &Graph{
		Nodes: make(map[string]types.Node, len(nodes)),
		Order: make([]string, 0, len(nodes)),
		table: make(map[edgeKey]string, len(edges)),
	}

	for _, n := range nodes {
		if _, exists := g.Nodes[n.ID]; exists {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateNodeID, n.ID)
		}
		g.Nodes[n.ID] = n
		g.Order = append(g.Order, n.ID)
	}

	for _, e := range edges {
		if e.To != types.EndNode {
			if _, ok := g.Nodes[e.To]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", types.ErrDanglingEdge, e.From, e.To)
			}
		}
		if e.From != types.StartNode {
			if _, ok := g.Nodes[e.From]; !ok {
				return nil, fmt.Errorf("%w: %s -> %s", types.ErrDanglingEdge, e.From, e.To)
			}
		}
		key := edgeKey{e.From, e.ActionOrDefault()}
		if _, exists := g.table[key]; exists {
			return nil, fmt.Errorf("%w: (%s, %s)", types.ErrDuplicateEdge, e.From, e.ActionOrDefault())
		}
		g.table[key] = e.To
		if e.From == types.StartNode && g.Start == "" {
			g.Start = e.To
		}
	}

	if g.Start == "" && len(g.Order) > 0 {
		g.Start = g.Order[0]
	}

	return g, nil
}

// lookup returns the edge target for (from, action), if one was declared.
func (g *Graph) lookup(from, action string) (string, bool) {
	to, ok := g.table[edgeKey{from, action}]
	return to, ok
}

// HasEdge reports whether an edge exists for (from, action), without
// resolving the "default" fallback Next applies. Used by the Workflow
// Executor to distinguish "the error action is explicitly wired" from
// "no edge matched, fall through to __end__" before deciding whether a
// node's error action should terminate the run.
func (g *Graph) HasEdge(from, action string) bool {
	_, ok := g.table[edgeKey{from, action}]
	return ok
}
