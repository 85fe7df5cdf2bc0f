package flow

import (
	"fmt"

	"github.com/pflow-dev/pflow/pkg/types"
)

// Follower is the Edge Follower state machine: it advances one step at a
// time from (nodeID, action) to the next node id, falling back to the
// default edge when no (nodeID, action) match exists, and enforces the
// global iteration cap (cycles are permitted but bounded).
type Follower struct {
	graph        *Graph
	maxIteration int
	steps        int
	lastNodes    [2]string // the two most recently visited node ids, for cap-exceeded diagnostics
}

// NewFollower constructs a Follower bound to graph, capping the number of
// Next calls it will honor at maxIterations before reporting
// types.ErrIterationLimitExceeded.
func NewFollower(graph *Graph, maxIterations int) *Follower {
	return &Follower{graph: graph, maxIteration: maxIterations}
}

// Start returns the first node id to execute.
func (f *Follower) Start() string {
	return f.graph.Start
}

// Next picks the target of (from, action): first an exact match, then the
// node's "default" edge, then the __end__ sentinel. Returns
// types.ErrIterationLimitExceeded once more than maxIterations steps have
// been taken across the life of this Follower.
func (f *Follower) Next(from, action string) (string, error) {
	f.steps++
	f.lastNodes[0], f.lastNodes[1] = f.lastNodes[1], from
	if f.maxIteration > 0 && f.steps > f.maxIteration {
		return "", fmt.Errorf("%w: exceeded %d steps (cycling between %q and %q)",
			types.ErrIterationLimitExceeded, f.maxIteration, f.lastNodes[0], f.lastNodes[1])
	}

	if to, ok := f.graph.lookup(from, action); ok {
		return to, nil
	}
	if action != types.DefaultAction {
		if to, ok := f.graph.lookup(from, types.DefaultAction); ok {
			return to, nil
		}
	}
	return types.EndNode, nil
}

// Steps returns how many transitions this Follower has taken so far.
func (f *Follower) Steps() int {
	return f.steps
}
