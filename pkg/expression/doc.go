// Package expression is a thin wrapper over expr-lang/expr used by the
// cond reference node. It compiles and caches programs so a condition
// evaluated on every pass through a loop node only pays the parse cost once.
//
// Evaluate returns whatever value the expression produces; EvaluateBool
// additionally requires a boolean result and is what the cond node uses.
package expression
