package flow

import (
	"errors"
	"testing"

	"github.com/pflow-dev/pflow/pkg/types"
)

func TestNewGraphResolvesExplicitStart(t *testing.T) {
	nodes := []types.Node{{ID: "a", Type: "set"}, {ID: "b", Type: "echo"}}
	edges := []types.Edge{
		{From: types.StartNode, To: "b"},
		{From: "b", To: types.EndNode},
	}
	g, err := NewGraph(nodes, edges)
	if err != nil {
		t.Fatal(err)
	}
	if g.Start != "b" {
		t.Errorf("expected start b, got %s", g.Start)
	}
}

func TestNewGraphDefaultsStartToFirstNode(t *testing.T) {
	nodes := []types.Node{{ID: "a", Type: "set"}, {ID: "b", Type: "echo"}}
	g, err := NewGraph(nodes, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Start != "a" {
		t.Errorf("expected start a, got %s", g.Start)
	}
}

func TestNewGraphRejectsDanglingEdge(t *testing.T) {
	nodes := []types.Node{{ID: "a", Type: "set"}}
	edges := []types.Edge{{From: "a", To: "ghost"}}
	_, err := NewGraph(nodes, edges)
	if !errors.Is(err, types.ErrDanglingEdge) {
		t.Errorf("expected ErrDanglingEdge, got %v", err)
	}
}

func TestNewGraphRejectsDuplicateEdge(t *testing.T) {
	nodes := []types.Node{{ID: "a", Type: "set"}, {ID: "b", Type: "echo"}, {ID: "c", Type: "echo"}}
	edges := []types.Edge{
		{From: "a", To: "b", Action: "ok"},
		{From: "a", To: "c", Action: "ok"},
	}
	_, err := NewGraph(nodes, edges)
	if !errors.Is(err, types.ErrDuplicateEdge) {
		t.Errorf("expected ErrDuplicateEdge, got %v", err)
	}
}

func TestFollowerExactActionMatch(t *testing.T) {
	nodes := []types.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	edges := []types.Edge{
		{From: "a", To: "b", Action: "yes"},
		{From: "a", To: "c", Action: "default"},
	}
	g, _ := NewGraph(nodes, edges)
	f := NewFollower(g, 100)

	to, err := f.Next("a", "yes")
	if err != nil || to != "b" {
		t.Errorf("got (%s, %v), want b", to, err)
	}
}

// TestFollowerFallsBackToDefault covers P5: if (N, a) has no edge but
// (N, "default") does, the next state is the default target.
func TestFollowerFallsBackToDefault(t *testing.T) {
	nodes := []types.Node{{ID: "a"}, {ID: "b"}}
	edges := []types.Edge{{From: "a", To: "b", Action: "default"}}
	g, _ := NewGraph(nodes, edges)
	f := NewFollower(g, 100)

	to, err := f.Next("a", "unmatched-action")
	if err != nil || to != "b" {
		t.Errorf("got (%s, %v), want b via default fallback", to, err)
	}
}

func TestFollowerFallsBackToEndWhenNoEdgeMatches(t *testing.T) {
	nodes := []types.Node{{ID: "a"}}
	g, _ := NewGraph(nodes, nil)
	f := NewFollower(g, 100)

	to, err := f.Next("a", "whatever")
	if err != nil || to != types.EndNode {
		t.Errorf("got (%s, %v), want __end__", to, err)
	}
}

// TestFollowerIterationCapExceeded covers the iteration cap enforced when a
// cycle in the graph is not otherwise bounded.
func TestFollowerIterationCapExceeded(t *testing.T) {
	nodes := []types.Node{{ID: "a"}}
	edges := []types.Edge{{From: "a", To: "a", Action: "default"}}
	g, _ := NewGraph(nodes, edges)
	f := NewFollower(g, 5)

	var err error
	cur := "a"
	for i := 0; i < 10; i++ {
		cur, err = f.Next(cur, "default")
		if err != nil {
			break
		}
	}
	if !errors.Is(err, types.ErrIterationLimitExceeded) {
		t.Errorf("expected ErrIterationLimitExceeded, got %v", err)
	}
}
