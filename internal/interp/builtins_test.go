package interp

import (
	"testing"

	"github.com/lontivero/Schemy/internal/value"
)

func evalStringResult(t *testing.T, src string) (string, error) {
	t.Helper()
	v, err := evalString(t, src)
	if err != nil {
		return "", err
	}
	return value.Print(v), nil
}

func TestListBuiltins(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(list 1 2 3)", "(1 2 3)"},
		{"(car (list 1 2 3))", "1"},
		{"(cdr (list 1 2 3))", "(2 3)"},
		{"(cons 1 (list 2 3))", "(1 2 3)"},
		{"(append (list 1 2) (list 3 4))", "(1 2 3 4)"},
		{"(reverse (list 1 2 3))", "(3 2 1)"},
		{"(length (list 1 2 3))", "3"},
		{"(list-ref (list 1 2 3) 1)", "2"},
		{"(null? (list))", "#t"},
		{"(null? (list 1))", "#f"},
		{"(map (lambda (x) (* x x)) (list 1 2 3))", "(1 4 9)"},
		{"(apply + (list 1 2 3))", "6"},
		{"(range 5)", "(0 1 2 3 4)"},
		{"(range 2 5)", "(2 3 4)"},
		{"(range 5 0 -2)", "(5 3 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := evalStringResult(t, tt.src)
			if err != nil {
				t.Fatalf("eval %q: %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("eval %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestCarOfEmptyListIsAnError(t *testing.T) {
	_, err := evalStringResult(t, "(car (list))")
	if err == nil {
		t.Fatal("expected a type error")
	}
}

func TestRangeRejectsZeroStep(t *testing.T) {
	_, err := evalStringResult(t, "(range 0 5 0)")
	if err == nil {
		t.Fatal("expected an error for a zero step")
	}
}

func TestModOnFloatIsATypeError(t *testing.T) {
	_, err := evalStringResult(t, "(% 1 2.0)")
	if err == nil {
		t.Fatal("expected a type error")
	}
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != TypeError {
		t.Fatalf("error = %#v, want TypeError", err)
	}
}

func TestDivisionByZeroIsATypeError(t *testing.T) {
	_, err := evalStringResult(t, "(/ 1 0)")
	if err == nil {
		t.Fatal("expected a type error")
	}
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != TypeError {
		t.Fatalf("error = %#v, want TypeError", err)
	}
}

func TestAssertFailure(t *testing.T) {
	_, err := evalStringResult(t, `(assert #f "boom")`)
	if err == nil {
		t.Fatal("expected an assertion failure")
	}
	se, ok := err.(*SchemeError)
	if !ok || se.Kind != AssertionFailure {
		t.Fatalf("error = %#v, want AssertionFailure", err)
	}
}

func TestEqualityBuiltins(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"(eq? 'a 'a)", "#t"},
		{"(equal? (list 1 2) (list 1 2))", "#t"},
		{"(eq? (list 1 2) (list 1 2))", "#f"},
		{"(= 1 1.0)", "#t"},
		{"(< 1 2)", "#t"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := evalStringResult(t, tt.src)
			if err != nil {
				t.Fatalf("eval %q: %v", tt.src, err)
			}
			if got != tt.want {
				t.Errorf("eval %q = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}
