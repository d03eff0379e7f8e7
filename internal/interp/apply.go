package interp

import (
	"github.com/lontivero/Schemy/internal/env"
	"github.com/lontivero/Schemy/internal/value"
)

// Apply calls a closure or native callable with already-evaluated
// arguments, fully running the closure to completion rather than
// trampolining. It exists for builtins like `apply` and `map` that
// need to call back into a Scheme function without access to the
// trampoline's own (expr, env) loop.
func (ip *Interpreter) Apply(fn value.Value, args []value.Value) value.Value {
	switch f := fn.(type) {
	case *value.Closure:
		frame, aerr := env.FromParamsAndArgs(f.Params, &value.List{Items: args}, f.Env.(*env.Frame))
		if aerr != nil {
			throw(newErrExpr(SyntaxError, fn, "%s", aerr))
		}
		v, err := ip.Eval(f.Body, frame)
		if err != nil {
			panic(err)
		}
		return v
	case *value.Native:
		return f.Fn(args)
	default:
		throw(newErrExpr(TypeError, fn, "not callable"))
		return nil
	}
}
