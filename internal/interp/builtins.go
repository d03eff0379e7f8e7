package interp

import (
	"strconv"

	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

// Extension takes the interpreter under construction and returns a
// mapping to layer onto the environment. NewInterpreter applies
// extensions in order, each shadowing anything an earlier one (or the
// baseline builtins) bound, so the last extension passed is the
// innermost.
type Extension func(ip *Interpreter) map[*symtab.Symbol]value.Value

func native(name string, fn func([]value.Value) value.Value) *value.Native {
	return &value.Native{Name: name, Fn: fn}
}

func wantArity(name string, args []value.Value, n int) {
	if len(args) != n {
		throw(newErr(TypeError, "%s expects %d argument(s), got %d", name, n, len(args)))
	}
}

func wantList(name string, v value.Value) *value.List {
	l, ok := v.(*value.List)
	if !ok {
		throw(newErr(TypeError, "%s expects a list, got %s", name, value.Print(v)))
	}
	return l
}

// catchArith runs fn and turns any *value.ArithError panic (a
// non-number operand, division or modulus by zero) into a classified
// TypeError. Any other panic passes through unchanged.
func catchArith[T any](name string, fn func() T) (result T) {
	defer func() {
		if r := recover(); r != nil {
			if ae, ok := r.(*value.ArithError); ok {
				throw(newErr(TypeError, "%s: %s", name, ae.Error()))
			}
			panic(r)
		}
	}()
	return fn()
}

// baseBuiltins returns the minimum builtin set the evaluator and
// init.ss need to load. It is the bottom layer: every Extension in
// NewInterpreter is applied on top of it and overrides any name it
// also binds.
func (ip *Interpreter) baseBuiltins() map[*symtab.Symbol]value.Value {
	b := make(map[*symtab.Symbol]value.Value, 64)
	put := func(name string, fn func([]value.Value) value.Value) {
		b[ip.Syms.Intern(name)] = native(name, fn)
	}

	// Arithmetic: variadic left-folds over a two-argument kernel.
	fold := func(name string, kernel func(a, b value.Value) value.Value) func([]value.Value) value.Value {
		return func(args []value.Value) value.Value {
			if len(args) == 0 {
				throw(newErr(TypeError, "%s expects at least one argument", name))
			}
			acc := args[0]
			for _, a := range args[1:] {
				acc = catchArith(name, func() value.Value { return kernel(acc, a) })
			}
			return acc
		}
	}
	put("+", fold("+", value.Add))
	put("-", fold("-", value.Sub))
	put("*", fold("*", value.Mul))
	put("/", fold("/", value.Div))
	put("%", fold("%", value.Mod))

	cmp := func(name string, ok func(c int) bool) func([]value.Value) value.Value {
		return func(args []value.Value) value.Value {
			wantArity(name, args, 2)
			return catchArith(name, func() bool { return ok(value.Compare(args[0], args[1])) })
		}
	}
	put("<", cmp("<", func(c int) bool { return c < 0 }))
	put("<=", cmp("<=", func(c int) bool { return c <= 0 }))
	put(">", cmp(">", func(c int) bool { return c > 0 }))
	put(">=", cmp(">=", func(c int) bool { return c >= 0 }))
	put("=", func(args []value.Value) value.Value {
		wantArity("=", args, 2)
		return catchArith("=", func() bool { return value.NumEqual(args[0], args[1]) })
	})

	// Predicates.
	put("eq?", func(args []value.Value) value.Value {
		wantArity("eq?", args, 2)
		return value.Eq(args[0], args[1])
	})
	put("equal?", func(args []value.Value) value.Value {
		wantArity("equal?", args, 2)
		return value.Equal(args[0], args[1])
	})
	put("not", func(args []value.Value) value.Value {
		wantArity("not", args, 1)
		return !value.IsTruthy(args[0])
	})
	put("boolean?", typePred(func(v value.Value) bool { _, ok := v.(bool); return ok }))
	put("num?", typePred(func(v value.Value) bool {
		switch v.(type) {
		case value.Int, value.Float:
			return true
		}
		return false
	}))
	put("string?", typePred(func(v value.Value) bool { _, ok := v.(value.Str); return ok }))
	put("symbol?", typePred(func(v value.Value) bool { _, ok := v.(*symtab.Symbol); return ok }))
	put("list?", typePred(func(v value.Value) bool { _, ok := v.(*value.List); return ok }))
	put("null?", typePred(func(v value.Value) bool {
		l, ok := v.(*value.List)
		return ok && len(l.Items) == 0
	}))

	// List operations.
	put("list", func(args []value.Value) value.Value { return value.NewList(args...) })
	put("length", func(args []value.Value) value.Value {
		wantArity("length", args, 1)
		return value.NewInt(int64(len(wantList("length", args[0]).Items)))
	})
	put("car", func(args []value.Value) value.Value {
		wantArity("car", args, 1)
		l := wantList("car", args[0])
		if len(l.Items) == 0 {
			throw(newErr(TypeError, "car of the empty list"))
		}
		return l.Items[0]
	})
	put("cdr", func(args []value.Value) value.Value {
		wantArity("cdr", args, 1)
		l := wantList("cdr", args[0])
		if len(l.Items) == 0 {
			throw(newErr(TypeError, "cdr of the empty list"))
		}
		return value.NewList(l.Items[1:]...)
	})
	put("cons", func(args []value.Value) value.Value {
		wantArity("cons", args, 2)
		rest := wantList("cons", args[1])
		items := make([]value.Value, 0, len(rest.Items)+1)
		items = append(items, args[0])
		items = append(items, rest.Items...)
		return value.NewList(items...)
	})
	put("append", func(args []value.Value) value.Value {
		wantArity("append", args, 2)
		a, b := wantList("append", args[0]), wantList("append", args[1])
		items := make([]value.Value, 0, len(a.Items)+len(b.Items))
		items = append(items, a.Items...)
		items = append(items, b.Items...)
		return value.NewList(items...)
	})
	put("reverse", func(args []value.Value) value.Value {
		wantArity("reverse", args, 1)
		l := wantList("reverse", args[0])
		items := make([]value.Value, len(l.Items))
		for i, it := range l.Items {
			items[len(items)-1-i] = it
		}
		return value.NewList(items...)
	})
	put("list-ref", func(args []value.Value) value.Value {
		wantArity("list-ref", args, 2)
		l := wantList("list-ref", args[0])
		i, ok := args[1].(value.Int)
		if !ok {
			throw(newErr(TypeError, "list-ref's index must be an integer"))
		}
		idx := int(mustInt64(i))
		if idx < 0 || idx >= len(l.Items) {
			throw(newErr(TypeError, "list-ref index out of range"))
		}
		return l.Items[idx]
	})
	put("map", func(args []value.Value) value.Value {
		wantArity("map", args, 2)
		fn := args[0]
		l := wantList("map", args[1])
		out := make([]value.Value, len(l.Items))
		for i, it := range l.Items {
			out[i] = ip.Apply(fn, []value.Value{it})
		}
		return value.NewList(out...)
	})
	put("apply", func(args []value.Value) value.Value {
		wantArity("apply", args, 2)
		l := wantList("apply", args[1])
		return ip.Apply(args[0], l.Items)
	})
	put("range", builtinRange)

	// Misc.
	put("symbol->string", func(args []value.Value) value.Value {
		wantArity("symbol->string", args, 1)
		sym, ok := args[0].(*symtab.Symbol)
		if !ok {
			throw(newErr(TypeError, "symbol->string expects a symbol"))
		}
		return value.Str(sym.String())
	})
	put("assert", func(args []value.Value) value.Value {
		if len(args) != 1 && len(args) != 2 {
			throw(newErr(TypeError, "assert expects 1 or 2 arguments"))
		}
		if !value.IsTruthy(args[0]) {
			msg := "assertion failed"
			if len(args) == 2 {
				if s, ok := args[1].(value.Str); ok {
					msg = string(s)
				}
			}
			throw(newErr(AssertionFailure, msg))
		}
		return value.None
	})
	put("null", func(args []value.Value) value.Value {
		wantArity("null", args, 0)
		return value.None
	})
	put("display", func(args []value.Value) value.Value {
		wantArity("display", args, 1)
		if s, ok := args[0].(value.Str); ok {
			ip.stdoutWrite(string(s))
		} else {
			ip.stdoutWrite(value.Print(args[0]))
		}
		return value.None
	})
	put("newline", func(args []value.Value) value.Value {
		wantArity("newline", args, 0)
		ip.stdoutWrite("\n")
		return value.None
	})

	return b
}

func typePred(pred func(value.Value) bool) func([]value.Value) value.Value {
	return func(args []value.Value) value.Value {
		wantArity("predicate", args, 1)
		return pred(args[0])
	}
}

func mustInt64(i value.Int) int64 {
	n, err := strconv.ParseInt(i.N.String(), 10, 64)
	if err != nil {
		throw(newErr(TypeError, "integer %s does not fit in a native word", i.N.String()))
	}
	return n
}

// builtinRange implements `range` with 1-3 integer arguments:
// range(stop), range(start, stop), or range(start, stop, step) with
// the step's sign validated against the direction of start..stop.
func builtinRange(args []value.Value) value.Value {
	if len(args) < 1 || len(args) > 3 {
		throw(newErr(TypeError, "range expects 1 to 3 arguments"))
	}
	ints := make([]int64, len(args))
	for i, a := range args {
		n, ok := a.(value.Int)
		if !ok {
			throw(newErr(TypeError, "range's arguments must be integers"))
		}
		ints[i] = mustInt64(n)
	}
	var start, stop, step int64
	switch len(ints) {
	case 1:
		start, stop, step = 0, ints[0], 1
	case 2:
		start, stop, step = ints[0], ints[1], 1
	case 3:
		start, stop, step = ints[0], ints[1], ints[2]
	}
	if step == 0 {
		throw(newErr(TypeError, "range's step must not be zero"))
	}
	if (step > 0 && start > stop) || (step < 0 && start < stop) {
		return value.Nil
	}
	items := make([]value.Value, 0)
	if step > 0 {
		for i := start; i < stop; i += step {
			items = append(items, value.NewInt(i))
		}
	} else {
		for i := start; i > stop; i += step {
			items = append(items, value.NewInt(i))
		}
	}
	return value.NewList(items...)
}
