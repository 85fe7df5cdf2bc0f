// Package flow implements the Edge Follower (C5): the action-driven state
// machine that, after a node returns an action, picks the next node from
// the compiled edge table, falling back to the node's "default" edge and
// finally to the __end__ sentinel.
//
// Node/edge storage follows a plain GetNode-style lookup table rather than a
// topological-sort traversal, since pflow's graphs are executed by following
// actions rather than walked in dependency order.
package flow
