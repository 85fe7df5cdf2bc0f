// Package registry is the node-type strategy registry: the NodeExecutor
// interface each node type implements, and a thread-safe Registry that maps
// a workflow IR's node.type string to the registered implementation.
//
// The registry itself is a plain mutex-guarded map; the interesting part is
// the strategy interface it stores, generalized to the four-phase
// prep/exec/fallback/post lifecycle rather than a single Execute method.
package registry
