// Package env implements chained environment frames: a mapping from
// symbol to value plus an optional outer frame.
package env

import (
	"fmt"

	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

// Value is any Schemy runtime value; it is the same type as
// value.Value.
type Value = interface{}

// Frame is one link in the environment chain: a map of bindings plus
// an optional outer frame.
type Frame struct {
	vars  map[*symtab.Symbol]Value
	outer *Frame
}

// CreateEmpty returns a frame with no outer and no bindings.
func CreateEmpty() *Frame {
	return &Frame{vars: make(map[*symtab.Symbol]Value)}
}

// Extend builds a new frame from the given bindings, chained to outer.
func Extend(bindings map[*symtab.Symbol]Value, outer *Frame) *Frame {
	if bindings == nil {
		bindings = make(map[*symtab.Symbol]Value)
	}
	return &Frame{vars: bindings, outer: outer}
}

// FindContaining walks outward from f and returns the nearest frame
// that binds sym, or nil if none does.
func (f *Frame) FindContaining(sym *symtab.Symbol) *Frame {
	for frame := f; frame != nil; frame = frame.outer {
		if _, ok := frame.vars[sym]; ok {
			return frame
		}
	}
	return nil
}

// Get looks sym up, failing if no frame in the chain binds it.
func (f *Frame) Get(sym *symtab.Symbol) (Value, bool) {
	frame := f.FindContaining(sym)
	if frame == nil {
		return nil, false
	}
	return frame.vars[sym], true
}

// Put writes sym into the current frame unconditionally. It shadows,
// never mutates, an outer binding.
func (f *Frame) Put(sym *symtab.Symbol, v Value) {
	f.vars[sym] = v
}

// Set mutates the binding in the containing frame (set! semantics):
// it fails (returns false) if no frame in the chain already binds sym.
func (f *Frame) Set(sym *symtab.Symbol, v Value) bool {
	frame := f.FindContaining(sym)
	if frame == nil {
		return false
	}
	frame.vars[sym] = v
	return true
}

// ArityError reports a fixed parameter list called with the wrong
// number of arguments. Package interp turns this into a classified
// SchemeError; env itself has no notion of error kinds.
type ArityError struct {
	Want, Got int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("arity mismatch: expected %d argument(s), got %d", e.Want, e.Got)
}

// FromParamsAndArgs builds a frame for one closure invocation: a
// single rest-binding symbol collects every argument into one list, a
// fixed parameter list requires exact arity, reported as *ArityError.
func FromParamsAndArgs(params value.ParamForm, args *value.List, outer *Frame) (*Frame, error) {
	bindings := make(map[*symtab.Symbol]Value)
	if params.Rest != nil {
		bindings[params.Rest] = args
		return Extend(bindings, outer), nil
	}
	if len(params.Fixed) != len(args.Items) {
		return nil, &ArityError{Want: len(params.Fixed), Got: len(args.Items)}
	}
	for i, sym := range params.Fixed {
		bindings[sym] = args.Items[i]
	}
	return Extend(bindings, outer), nil
}

// String renders a diagnostic identity for f.
func (f *Frame) String() string {
	return fmt.Sprintf("#<environment %p>", f)
}
