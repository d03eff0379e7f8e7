package interp

import (
	"strings"
	"testing"

	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

// evalString builds a fresh interpreter and evaluates src, returning
// the last top-level value and any error.
func evalString(t *testing.T, src string) (value.Value, error) {
	t.Helper()
	ip, err := NewInterpreter()
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	res := ip.Evaluate(strings.NewReader(src))
	return res.LastValue, res.Err
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(+ 1 2 3 4)", "10"},
		{"(- 10 3 2)", "5"},
		{"(* 2 3 4)", "24"},
		{"(/ 7 2)", "3"},
		{"(/ 7.0 2)", "3.5"},
		{"(% 7 2)", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := evalString(t, tt.src)
			if err != nil {
				t.Fatalf("eval %q: %v", tt.src, err)
			}
			if s := value.Print(got); s != tt.want {
				t.Errorf("eval %q = %s, want %s", tt.src, s, tt.want)
			}
		})
	}
}

func TestFactorial(t *testing.T) {
	src := `
(define (fact n)
  (if (= n 0) 1 (* n (fact (- n 1)))))
(fact 10)
`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if s := value.Print(got); s != "3628800" {
		t.Errorf("(fact 10) = %s, want 3628800", s)
	}
}

// TestTailCallDoesNotOverflow drives a self-tail-recursive loop far
// past any bound that would blow the host stack if Eval recursed on
// tail calls.
func TestTailCallDoesNotOverflow(t *testing.T) {
	src := `
(define (loop n acc)
  (if (= n 0) acc (loop (- n 1) (+ acc 1))))
(loop 500000 0)
`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if s := value.Print(got); s != "500000" {
		t.Errorf("loop result = %s, want 500000", s)
	}
}

func TestDefineMacro(t *testing.T) {
	src := `
(define-macro my-if
  (lambda (c t e) (list 'if c t e)))
(my-if #t 1 2)
`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if s := value.Print(got); s != "1" {
		t.Errorf("(my-if #t 1 2) = %s, want 1", s)
	}
}

func TestQuasiquoteSplicing(t *testing.T) {
	src := "(define xs (list 2 3)) `(1 ,@xs 4)"
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if s := value.Print(got); s != "(1 2 3 4)" {
		t.Errorf("quasiquote result = %s, want (1 2 3 4)", s)
	}
}

// TestTopLevelFrameIsShared ensures every top-level form in one
// Evaluate call sees definitions made by earlier forms.
func TestTopLevelFrameIsShared(t *testing.T) {
	src := `
(define x 10)
(define (bump) (set! x (+ x 1)))
(bump)
(bump)
x
`
	got, err := evalString(t, src)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if s := value.Print(got); s != "12" {
		t.Errorf("x = %s, want 12", s)
	}
}

func TestPreludeLetCondAndOr(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(let ((x 1) (y 2)) (+ x y))", "3"},
		{"(let* ((x 1) (y (+ x 1))) (+ x y))", "3"},
		{"(cond (#f 1) (#t 2) (else 3))", "2"},
		{"(cond (#f 1) (else 3))", "3"},
		{"(and 1 2 3)", "3"},
		{"(and 1 #f 3)", "#f"},
		{"(or #f #f 5)", "5"},
		{"(or #f #f)", "#f"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := evalString(t, tt.src)
			if err != nil {
				t.Fatalf("eval %q: %v", tt.src, err)
			}
			if s := value.Print(got); s != tt.want {
				t.Errorf("eval %q = %s, want %s", tt.src, s, tt.want)
			}
		})
	}
}

func TestUnboundSymbolError(t *testing.T) {
	_, err := evalString(t, "(this-is-not-defined)")
	if err == nil {
		t.Fatal("expected an unbound symbol error, got nil")
	}
	se, ok := err.(*SchemeError)
	if !ok {
		t.Fatalf("error is %T, want *SchemeError", err)
	}
	if se.Kind != UnboundSymbol {
		t.Errorf("error kind = %v, want UnboundSymbol", se.Kind)
	}
}

func TestCallingNonCallableIsATypeError(t *testing.T) {
	_, err := evalString(t, "(define x 5) (x 1 2)")
	if err == nil {
		t.Fatal("expected a type error")
	}
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != TypeError {
		t.Fatalf("error = %#v, want TypeError", err)
	}
}

func TestClosureArityMismatchIsASyntaxError(t *testing.T) {
	_, err := evalString(t, "((lambda (a b) a) 1)")
	if err == nil {
		t.Fatal("expected an arity mismatch error")
	}
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != SyntaxError {
		t.Fatalf("error = %#v, want SyntaxError", err)
	}
}

func TestSetBangOnUnboundIsAnError(t *testing.T) {
	_, err := evalString(t, "(set! nope 1)")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func TestExtensionShadowsBuiltin(t *testing.T) {
	ext := func(ip *Interpreter) map[*symtab.Symbol]value.Value {
		return map[*symtab.Symbol]value.Value{
			ip.Syms.Intern("+"): native("+", func(args []value.Value) value.Value {
				return value.Str("shadowed")
			}),
		}
	}
	ip, err := NewInterpreter(ext)
	if err != nil {
		t.Fatalf("NewInterpreter: %v", err)
	}
	res := ip.Evaluate(strings.NewReader("(+ 1 2)"))
	if res.Err != nil {
		t.Fatalf("eval: %v", res.Err)
	}
	if s := value.Print(res.LastValue); s != `"shadowed"` {
		t.Errorf("(+ 1 2) = %s, want shadowed builtin result", s)
	}
}
