package interp

import (
	"github.com/lontivero/Schemy/internal/env"
	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

// Eval evaluates a canonicalized expression in en and returns its
// value. It trampolines over a mutable (expr, env) pair instead of
// recursing on tail calls: only non-tail subexpressions (if's
// condition, an application's head and arguments, define/set!'s value, begin's
// non-final forms) recurse into Eval. A self-tail-recursive closure
// therefore runs in bounded host-stack space regardless of how many
// times it calls itself.
func (ip *Interpreter) Eval(expr value.Value, en *env.Frame) (result value.Value, err error) {
	defer guard(&err)
	for {
		list, isList := expr.(*value.List)
		if !isList {
			if sym, isSym := expr.(*symtab.Symbol); isSym {
				v, ok := en.Get(sym)
				if !ok {
					throw(newErrExpr(UnboundSymbol, sym, "symbol not defined"))
				}
				return v, nil
			}
			return expr, nil // non-list, non-symbol atom
		}
		if len(list.Items) == 0 {
			throw(newErrExpr(TypeError, list, "cannot evaluate the empty list as an application"))
		}

		head := list.Items[0]
		if sym, ok := head.(*symtab.Symbol); ok {
			switch {
			case sym == ip.Res.Quote:
				return list.Items[1], nil

			case sym == ip.Res.If:
				cond, err := ip.Eval(list.Items[1], en)
				if err != nil {
					return nil, err
				}
				if value.IsTruthy(cond) {
					expr = list.Items[2]
				} else {
					expr = list.Items[3]
				}
				continue

			case sym == ip.Res.Define:
				v, err := ip.Eval(list.Items[2], en)
				if err != nil {
					return nil, err
				}
				en.Put(list.Items[1].(*symtab.Symbol), v)
				return value.None, nil

			case sym == ip.Res.SetBang:
				target := list.Items[1].(*symtab.Symbol)
				v, err := ip.Eval(list.Items[2], en)
				if err != nil {
					return nil, err
				}
				if !en.Set(target, v) {
					throw(newErrExpr(UnboundSymbol, target, "set! on an unbound symbol"))
				}
				return value.None, nil

			case sym == ip.Res.Lambda:
				return &value.Closure{
					Params: parseParamForm(list.Items[1]),
					Body:   list.Items[2],
					Env:    en,
				}, nil

			case sym == ip.Res.Begin:
				for i := 1; i < len(list.Items)-1; i++ {
					if _, err := ip.Eval(list.Items[i], en); err != nil {
						return nil, err
					}
				}
				expr = list.Items[len(list.Items)-1]
				continue
			}
		}

		// Application: evaluate the head and every argument, then
		// either loop (closure, tail call) or call out (native).
		fn, err := ip.Eval(head, en)
		if err != nil {
			return nil, err
		}
		args := make([]value.Value, len(list.Items)-1)
		for i, a := range list.Items[1:] {
			v, err := ip.Eval(a, en)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}

		switch f := fn.(type) {
		case *value.Closure:
			argList := &value.List{Items: args}
			frame, aerr := env.FromParamsAndArgs(f.Params, argList, f.Env.(*env.Frame))
			if aerr != nil {
				throw(newErrExpr(SyntaxError, head, "%s", aerr))
			}
			expr = f.Body
			en = frame
			continue
		case *value.Native:
			return f.Fn(args), nil
		default:
			throw(newErrExpr(TypeError, head, "not callable"))
		}
	}
}

// parseParamForm converts a lambda's raw parameter form (a bare
// Symbol for rest-binding, or a List of Symbols for fixed arity) into
// a value.ParamForm.
func parseParamForm(raw value.Value) value.ParamForm {
	if sym, ok := raw.(*symtab.Symbol); ok {
		return value.ParamForm{Rest: sym}
	}
	list := raw.(*value.List)
	fixed := make([]*symtab.Symbol, len(list.Items))
	for i, it := range list.Items {
		sym, ok := it.(*symtab.Symbol)
		if !ok {
			throw(newErrExpr(SyntaxError, list, "lambda parameters must be symbols"))
		}
		fixed[i] = sym
	}
	return value.ParamForm{Fixed: fixed}
}
