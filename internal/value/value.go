// Package value implements Schemy's runtime value types: booleans,
// integers, floats, strings, interned symbols, ordered lists,
// closures, native callables and the None sentinel.
package value

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/nukata/goarith"

	"github.com/lontivero/Schemy/internal/symtab"
)

// Value is any Schemy runtime value. The concrete dynamic type is the
// tag: bool, Int, Float, Str, *symtab.Symbol, *List, *Closure, *Native,
// or noneType.
type Value = interface{}

// Int is an arbitrary-precision integer, backed by goarith so it
// never overflows a machine word.
type Int struct {
	N goarith.Number
}

// NewInt wraps a native int64 as a Schemy Int.
func NewInt(n int64) Int {
	return Int{N: goarith.AsNumber(n)}
}

// Float is a plain IEEE-754 double.
type Float float64

// Str holds unescaped UTF-8 text, without surrounding quotes.
type Str string

// List is an ordered sequence of Values. A zero-length List is the
// empty list, which is truthy.
type List struct {
	Items []Value
}

// Nil is the canonical empty list value.
var Nil = &List{}

// NewList builds a List from the given items.
func NewList(items ...Value) *List {
	return &List{Items: items}
}

// ParamForm is a lambda's parameter list: either a single rest-binding
// symbol, or a fixed, ordered list of symbols requiring exact arity.
type ParamForm struct {
	Rest  *symtab.Symbol   // non-nil: bind all args to this one symbol
	Fixed []*symtab.Symbol // used when Rest == nil
}

// Closure is a lambda expression bundled with the environment it
// closed over at creation time. Env holds an *env.Frame, kept as a
// bare Value here to avoid importing package env.
type Closure struct {
	Params ParamForm
	Body   Value
	Env    Value
}

// Native is a host-provided callable exposed to Schemy code.
type Native struct {
	Fn   func([]Value) Value
	Name string
}

type noneType struct{}

// None is the sentinel returned by define, set! and an empty begin.
var None Value = noneType{}

// IsTruthy reports whether v counts as true. Only the boolean #f is
// false; 0, "", None and the empty list are all true.
func IsTruthy(v Value) bool {
	b, ok := v.(bool)
	return !ok || b
}

// ---------------------------------------------------------------------
// Equality

// Eq implements eq?: identity for reference-like values (lists,
// closures, natives, symbols), structural equality for atoms. Ints
// compare by numeric value and Floats with ==; booleans and strings
// use Go's interface equality, which compares them by value.
func Eq(a, b Value) bool {
	switch x := a.(type) {
	case Int:
		y, ok := b.(Int)
		return ok && x.N.Cmp(y.N) == 0
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	default:
		return a == b
	}
}

// Equal implements equal?: deep structural equality. Atoms compare by
// value, lists compare by length and elementwise Equal.
func Equal(a, b Value) bool {
	al, aok := a.(*List)
	bl, bok := b.(*List)
	if aok || bok {
		if !aok || !bok {
			return false
		}
		if len(al.Items) != len(bl.Items) {
			return false
		}
		for i := range al.Items {
			if !Equal(al.Items[i], bl.Items[i]) {
				return false
			}
		}
		return true
	}
	return Eq(a, b)
}

// numTolerance is the absolute tolerance used by numeric `=`.
const numTolerance = 1e-13

// NumEqual implements the numeric `=` builtin: both operands are
// compared as Floats with an absolute tolerance.
func NumEqual(a, b Value) bool {
	return math.Abs(toFloat(a)-toFloat(b)) <= numTolerance
}

// ---------------------------------------------------------------------
// Arithmetic

// ArithError reports arithmetic on the wrong kind of operand, or
// division/modulus by zero. Package interp classifies it as a
// TypeError; value itself has no notion of error kinds.
type ArithError struct {
	Msg string
}

func (e *ArithError) Error() string { return e.Msg }

func arithError(format string, args ...interface{}) *ArithError {
	return &ArithError{Msg: fmt.Sprintf(format, args...)}
}

// toFloat coerces an Int or Float Value to a float64.
func toFloat(v Value) float64 {
	switch x := v.(type) {
	case Int:
		f, _ := strconv.ParseFloat(x.N.String(), 64)
		return f
	case Float:
		return float64(x)
	default:
		panic(arithError("expected number, got %s", Print(v)))
	}
}

// Add, Sub, Mul: Int op Int stays Int; any Float operand coerces both
// sides to Float.
func Add(a, b Value) Value { return arith(a, b, func(x, y goarith.Number) goarith.Number { return x.Add(y) }, func(x, y float64) float64 { return x + y }) }
func Sub(a, b Value) Value { return arith(a, b, func(x, y goarith.Number) goarith.Number { return x.Sub(y) }, func(x, y float64) float64 { return x - y }) }
func Mul(a, b Value) Value { return arith(a, b, func(x, y goarith.Number) goarith.Number { return x.Mul(y) }, func(x, y float64) float64 { return x * y }) }

func arith(a, b Value, iop func(x, y goarith.Number) goarith.Number, fop func(x, y float64) float64) Value {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	if aok && bok {
		return Int{N: iop(ai.N, bi.N)}
	}
	return Float(fop(toFloat(a), toFloat(b)))
}

// Div implements `/`: Int/Int stays Int with truncating division,
// otherwise both sides coerce to Float.
func Div(a, b Value) Value {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	if aok && bok {
		x, y := bigOf(ai), bigOf(bi)
		if y.Sign() == 0 {
			panic(arithError("division by zero"))
		}
		q := new(big.Int).Quo(x, y)
		return Int{N: goarith.AsNumber(q)}
	}
	return Float(toFloat(a) / toFloat(b))
}

// Mod implements `%`, defined only for Int/Int.
func Mod(a, b Value) Value {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	if !aok || !bok {
		panic(arithError("modulus is undefined for floats, got %s", Print(a)))
	}
	x, y := bigOf(ai), bigOf(bi)
	if y.Sign() == 0 {
		panic(arithError("division by zero"))
	}
	r := new(big.Int).Rem(x, y)
	return Int{N: goarith.AsNumber(r)}
}

// bigOf recovers a big.Int from an Int's decimal printed form.
func bigOf(i Int) *big.Int {
	z := new(big.Int)
	z.SetString(i.N.String(), 10)
	return z
}

// Compare returns -1, 0 or 1 comparing two numeric Values, coercing to
// Float when either side is a Float.
func Compare(a, b Value) int {
	ai, aok := a.(Int)
	bi, bok := b.(Int)
	if aok && bok {
		return ai.N.Cmp(bi.N)
	}
	x, y := toFloat(a), toFloat(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// ---------------------------------------------------------------------
// Printer

// Print renders v the way the REPL and error messages do: strings are
// double-quoted, symbols bare, lists parenthesized, numbers decimal.
func Print(v Value) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "#t"
		}
		return "#f"
	case Int:
		return x.N.String()
	case Float:
		return formatFloat(float64(x))
	case Str:
		return `"` + string(x) + `"`
	case *symtab.Symbol:
		return x.String()
	case *List:
		parts := make([]string, len(x.Items))
		for i, it := range x.Items {
			parts[i] = Print(it)
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *Closure:
		return "(lambda " + printParamForm(x.Params) + " " + Print(x.Body) + ")"
	case *Native:
		name := x.Name
		if name == "" {
			name = "anonymous"
		}
		return "#<NativeProcedure:" + name + ">"
	case noneType:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}

func printParamForm(p ParamForm) string {
	if p.Rest != nil {
		return p.Rest.String()
	}
	parts := make([]string, len(p.Fixed))
	for i, s := range p.Fixed {
		parts[i] = s.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += "."
	}
	return s
}
