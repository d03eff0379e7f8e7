// Package interp implements Schemy's macro table, expander and
// trampoline evaluator behind an embedding surface: NewInterpreter,
// Evaluate, REPL.
//
// The expander and the evaluator live in one package because
// define-macro must run the evaluator on a macro's value before the
// macro table exists to expand anything else.
package interp

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/lontivero/Schemy/internal/env"
	"github.com/lontivero/Schemy/internal/reader"
	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

//go:embed init.ss
var bundledPrelude string

// Interpreter is one Schemy instance: its own symbol table, reserved
// symbols, macro table and top-level environment.
type Interpreter struct {
	Syms   *symtab.Table
	Res    *symtab.Reserved
	Global *env.Frame
	Macros map[*symtab.Symbol]*value.Closure

	stdout io.Writer
}

// NewInterpreter builds a fresh interpreter, layers the baseline
// builtins and then each extension's bindings onto the global frame
// (later extensions shadow earlier ones), and evaluates the bundled
// init.ss prelude.
func NewInterpreter(extensions ...Extension) (*Interpreter, error) {
	syms := symtab.NewTable()
	ip := &Interpreter{
		Syms:   syms,
		Res:    symtab.NewReserved(syms),
		Global: env.CreateEmpty(),
		Macros: make(map[*symtab.Symbol]*value.Closure),
		stdout: io.Discard,
	}
	for sym, v := range ip.baseBuiltins() {
		ip.Global.Put(sym, v)
	}
	for _, ext := range extensions {
		for sym, v := range ext(ip) {
			ip.Global.Put(sym, v)
		}
	}
	if res := ip.Evaluate(strings.NewReader(bundledPrelude)); res.Err != nil {
		return nil, fmt.Errorf("loading bundled prelude: %w", res.Err)
	}
	return ip, nil
}

// SetOutput directs display/newline output to w instead of discarding
// it. Called by cmd/schemy before running the REPL or a file.
func (ip *Interpreter) SetOutput(w io.Writer) {
	ip.stdout = w
}

func (ip *Interpreter) stdoutWrite(s string) {
	fmt.Fprint(ip.stdout, s)
}

// Result is the envelope Evaluate reports in: the first error, if
// any, and the value of the last form that evaluated successfully.
type Result struct {
	Err       error
	LastValue value.Value
}

// Evaluate reads, expands and evaluates every top-level form from r in
// turn, stopping and reporting the first error.
func (ip *Interpreter) Evaluate(r io.Reader) Result {
	rd := reader.New(r, ip.Syms, ip.Res)
	var last value.Value = value.None
	for {
		raw, err := rd.Read()
		if err != nil {
			return Result{Err: err, LastValue: last}
		}
		if raw == ip.Res.EOFObject {
			return Result{LastValue: last}
		}
		v, err := ip.evalTopLevel(raw)
		if err != nil {
			return Result{Err: err, LastValue: last}
		}
		last = v
	}
}

// evalTopLevel expands one raw top-level form and evaluates it,
// converting any panic raised during expansion into a returned error.
func (ip *Interpreter) evalTopLevel(raw value.Value) (v value.Value, err error) {
	defer guard(&err)
	expanded := ip.Expand(raw, ip.Global, true)
	return ip.Eval(expanded, ip.Global)
}

// REPL repeats read-expand-eval-print until EOF, printing prompts to w
// and catching (rather than propagating) per-expression errors so the
// session keeps going.
func (ip *Interpreter) REPL(r io.Reader, w io.Writer, prompt, banner string) {
	if banner != "" {
		fmt.Fprintln(w, banner)
	}
	rd := reader.New(r, ip.Syms, ip.Res)
	for {
		fmt.Fprint(w, prompt)
		raw, err := rd.Read()
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if raw == ip.Res.EOFObject {
			return
		}
		v, err := ip.evalTopLevel(raw)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		if v != value.None {
			fmt.Fprintln(w, value.Print(v))
		}
	}
}
