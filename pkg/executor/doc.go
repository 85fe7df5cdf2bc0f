// Package executor implements the Workflow Executor (C8): the top-level
// orchestrator that seeds the shared store from resolved inputs, drives the
// Edge Follower and Node Lifecycle Runtime node by node, and renders
// declared outputs once the run reaches __end__.
package executor
