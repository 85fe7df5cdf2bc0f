package expression

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine evaluates expr-lang expressions against a variable environment,
// caching compiled programs by expression text.
type Engine struct {
	mu    sync.Mutex
	cache map[string]*vm.Program
}

// NewEngine constructs an Engine with an empty program cache.
func NewEngine() *Engine {
	return &Engine{cache: make(map[string]*vm.Program)}
}

// EvaluateBool compiles (or reuses a cached compile of) expr and runs it
// against vars, requiring a boolean result. Used by the cond reference
// node to turn params.expr into the "true"/"false" action.
func (e *Engine) EvaluateBool(expr string, vars map[string]any) (bool, error) {
	out, err := e.evaluate(expr, vars, true)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%w: got %T", ErrNotBool, out)
	}
	return b, nil
}

// Evaluate compiles and runs expr against vars without constraining the
// result type.
func (e *Engine) Evaluate(exprStr string, vars map[string]any) (any, error) {
	return e.evaluate(exprStr, vars, false)
}

func (e *Engine) evaluate(exprStr string, vars map[string]any, asBool bool) (any, error) {
	e.mu.Lock()
	program, ok := e.cache[exprStr]
	e.mu.Unlock()

	if !ok {
		opts := []expr.Option{expr.Env(vars)}
		if asBool {
			opts = append(opts, expr.AsBool())
		}
		compiled, err := expr.Compile(exprStr, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCompileFailed, err)
		}
		e.mu.Lock()
		e.cache[exprStr] = compiled
		e.mu.Unlock()
		program = compiled
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvalFailed, err)
	}
	return out, nil
}
