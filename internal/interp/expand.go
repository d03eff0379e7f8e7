package interp

import (
	"github.com/lontivero/Schemy/internal/env"
	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

// Expand rewrites a raw S-expression into canonical form, applying
// the fixed special-form rules and the user macro table to fixpoint.
// topLevel gates define-macro and the begin splice rule.
func (ip *Interpreter) Expand(expr value.Value, en *env.Frame, topLevel bool) value.Value {
	list, ok := expr.(*value.List)
	if !ok {
		return expr // non-list atom: unchanged
	}
	if len(list.Items) == 0 {
		return list
	}
	if sym, ok := list.Items[0].(*symtab.Symbol); ok {
		switch {
		case sym == ip.Res.Quote:
			return ip.expandQuote(list)
		case sym == ip.Res.If:
			return ip.expandIf(list, en)
		case sym == ip.Res.SetBang:
			return ip.expandSet(list, en)
		case sym == ip.Res.Define:
			return ip.expandDefine(list, en, topLevel)
		case sym == ip.Res.DefineMacro:
			return ip.expandDefineMacro(list, en, topLevel)
		case sym == ip.Res.Begin:
			return ip.expandBegin(list, en, topLevel)
		case sym == ip.Res.Lambda:
			return ip.expandLambda(list, en)
		case sym == ip.Res.Quasiquote:
			if len(list.Items) != 2 {
				throw(newErrExpr(SyntaxError, list, "quasiquote takes exactly one argument"))
			}
			return ip.expandQuasiquote(list.Items[1], en)
		}
		if macro, ok := ip.Macros[sym]; ok {
			expanded := ip.applyMacro(macro, list.Items[1:])
			return ip.Expand(expanded, en, topLevel)
		}
	}
	// other list: recursively expand every element, non-top-level.
	items := make([]value.Value, len(list.Items))
	for i, it := range list.Items {
		items[i] = ip.Expand(it, en, false)
	}
	return value.NewList(items...)
}

func (ip *Interpreter) expandQuote(list *value.List) value.Value {
	if len(list.Items) != 2 {
		throw(newErrExpr(SyntaxError, list, "quote takes exactly one argument"))
	}
	return list
}

func (ip *Interpreter) expandIf(list *value.List, en *env.Frame) value.Value {
	switch len(list.Items) {
	case 3:
		return value.NewList(
			ip.Res.If,
			ip.Expand(list.Items[1], en, false),
			ip.Expand(list.Items[2], en, false),
			value.None,
		)
	case 4:
		return value.NewList(
			ip.Res.If,
			ip.Expand(list.Items[1], en, false),
			ip.Expand(list.Items[2], en, false),
			ip.Expand(list.Items[3], en, false),
		)
	default:
		throw(newErrExpr(SyntaxError, list, "if takes 2 or 3 operands"))
		return nil
	}
}

func (ip *Interpreter) expandSet(list *value.List, en *env.Frame) value.Value {
	if len(list.Items) != 3 {
		throw(newErrExpr(SyntaxError, list, "set! takes exactly two operands"))
	}
	sym, ok := list.Items[1].(*symtab.Symbol)
	if !ok {
		throw(newErrExpr(SyntaxError, list, "set!'s first operand must be a symbol"))
	}
	return value.NewList(ip.Res.SetBang, sym, ip.Expand(list.Items[2], en, false))
}

// headForm recognizes the `(define (f arg...) body...)` shorthand:
// the thing after define/define-macro is itself a list whose head is
// the function name and whose tail is its parameter list.
func headForm(list *value.List) (name *symtab.Symbol, params *value.List, body []value.Value, ok bool) {
	if len(list.Items) < 3 {
		return nil, nil, nil, false
	}
	header, isList := list.Items[1].(*value.List)
	if !isList || len(header.Items) == 0 {
		return nil, nil, nil, false
	}
	name, isSym := header.Items[0].(*symtab.Symbol)
	if !isSym {
		return nil, nil, nil, false
	}
	return name, value.NewList(header.Items[1:]...), list.Items[2:], true
}

func (ip *Interpreter) expandDefine(list *value.List, en *env.Frame, topLevel bool) value.Value {
	if name, params, body, ok := headForm(list); ok {
		lambda := append([]value.Value{ip.Res.Lambda, params}, body...)
		rewritten := value.NewList(ip.Res.Define, name, value.NewList(lambda...))
		return ip.Expand(rewritten, en, topLevel)
	}
	if len(list.Items) != 3 {
		throw(newErrExpr(SyntaxError, list, "define takes exactly two operands"))
	}
	sym, ok := list.Items[1].(*symtab.Symbol)
	if !ok {
		throw(newErrExpr(SyntaxError, list, "define's first operand must be a symbol"))
	}
	return value.NewList(ip.Res.Define, sym, ip.Expand(list.Items[2], en, false))
}

func (ip *Interpreter) expandDefineMacro(list *value.List, en *env.Frame, topLevel bool) value.Value {
	if !topLevel {
		throw(newErrExpr(SyntaxError, list, "define-macro is only allowed at the top level"))
	}
	if name, params, body, ok := headForm(list); ok {
		lambda := append([]value.Value{ip.Res.Lambda, params}, body...)
		rewritten := value.NewList(ip.Res.DefineMacro, name, value.NewList(lambda...))
		return ip.Expand(rewritten, en, topLevel)
	}
	if len(list.Items) != 3 {
		throw(newErrExpr(SyntaxError, list, "define-macro takes exactly two operands"))
	}
	sym, ok := list.Items[1].(*symtab.Symbol)
	if !ok {
		throw(newErrExpr(SyntaxError, list, "define-macro's first operand must be a symbol"))
	}
	expanded := ip.Expand(list.Items[2], en, false)
	v, err := ip.Eval(expanded, en)
	if err != nil {
		panic(err)
	}
	closure, ok := v.(*value.Closure)
	if !ok {
		throw(newErrExpr(SyntaxError, list, "define-macro's value must evaluate to a closure"))
	}
	ip.Macros[sym] = closure
	return value.None
}

func (ip *Interpreter) expandBegin(list *value.List, en *env.Frame, topLevel bool) value.Value {
	if len(list.Items) == 1 {
		return value.None
	}
	items := make([]value.Value, len(list.Items))
	items[0] = ip.Res.Begin
	for i := 1; i < len(list.Items); i++ {
		items[i] = ip.Expand(list.Items[i], en, topLevel)
	}
	return value.NewList(items...)
}

func (ip *Interpreter) expandLambda(list *value.List, en *env.Frame) value.Value {
	if len(list.Items) < 3 {
		throw(newErrExpr(SyntaxError, list, "lambda needs a parameter list and at least one body form"))
	}
	params := list.Items[1]
	switch params.(type) {
	case *symtab.Symbol:
	case *value.List:
	default:
		throw(newErrExpr(SyntaxError, list, "lambda's parameter form must be a symbol or a list of symbols"))
	}
	body := list.Items[2:]
	var bodyExpr value.Value
	if len(body) == 1 {
		bodyExpr = body[0]
	} else {
		beginForm := append([]value.Value{ip.Res.Begin}, body...)
		bodyExpr = value.NewList(beginForm...)
	}
	return value.NewList(ip.Res.Lambda, params, ip.Expand(bodyExpr, en, false))
}

// applyMacro invokes a macro closure with its unexpanded argument
// list. The macro runs to completion once, outside the trampoline,
// and its result is spliced back in for re-expansion.
func (ip *Interpreter) applyMacro(macro *value.Closure, rawArgs []value.Value) value.Value {
	frame, aerr := env.FromParamsAndArgs(macro.Params, value.NewList(rawArgs...), macro.Env.(*env.Frame))
	if aerr != nil {
		throw(newErrExpr(SyntaxError, macro, "%s", aerr))
	}
	v, err := ip.Eval(macro.Body, frame)
	if err != nil {
		panic(err)
	}
	return v
}

// expandQuasiquote desugars backquote/unquote/splicing into
// cons/append/quote.
func (ip *Interpreter) expandQuasiquote(x value.Value, en *env.Frame) value.Value {
	list, ok := x.(*value.List)
	if !ok || len(list.Items) == 0 {
		return value.NewList(ip.Res.Quote, x)
	}
	head := list.Items[0]
	tail := value.NewList(list.Items[1:]...)

	if sym, ok := head.(*symtab.Symbol); ok {
		if sym == ip.Res.UnquoteSplicing {
			throw(newErrExpr(SyntaxError, x, "cannot splice here"))
		}
		if sym == ip.Res.Unquote {
			if len(list.Items) != 2 {
				throw(newErrExpr(SyntaxError, x, "unquote takes exactly one operand"))
			}
			return list.Items[1]
		}
	}
	if innerList, ok := head.(*value.List); ok && len(innerList.Items) == 2 {
		if sym, ok := innerList.Items[0].(*symtab.Symbol); ok && sym == ip.Res.UnquoteSplicing {
			return value.NewList(ip.Res.Append, innerList.Items[1], ip.expandQuasiquote(tail, en))
		}
	}
	return value.NewList(ip.Res.Cons, ip.expandQuasiquote(head, en), ip.expandQuasiquote(tail, en))
}
