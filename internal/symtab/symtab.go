// Package symtab interns Scheme symbols and preinterns the reserved
// names the expander and evaluator dispatch on by identity.
package symtab

import "sync"

// Symbol is an interned name. Equality is identity, never string
// comparison: two Symbols are equal iff they point at the same Symbol.
type Symbol struct {
	name string
}

// String returns the symbol's printable name. value.Print also
// renders symbols as this bare name, with no leading quote.
func (s *Symbol) String() string {
	return s.name
}

// Table is a process-wide-capable interner. The zero value is usable;
// NewTable is provided for symmetry with the rest of the package set.
type Table struct {
	mu   sync.Mutex
	syms map[string]*Symbol
}

// NewTable creates an empty interner. The reserved forms are interned
// separately, by NewReserved.
func NewTable() *Table {
	return &Table{syms: make(map[string]*Symbol, 64)}
}

// Intern returns the unique Symbol for name, creating it on first use.
// Safe for concurrent use: a macro running during evaluation may
// intern new symbols while the host runs other interpreters in
// parallel.
func (t *Table) Intern(name string) *Symbol {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.syms == nil {
		t.syms = make(map[string]*Symbol)
	}
	if sym, ok := t.syms[name]; ok {
		return sym
	}
	sym := &Symbol{name: name}
	t.syms[name] = sym
	return sym
}

// Reserved holds the thirteen preinterned special-form and sentinel
// symbols. The expander and evaluator compare against these pointers,
// never against spelled-out strings, so that a user program may shadow
// e.g. `if` as a local variable without confusing the expander.
type Reserved struct {
	If              *Symbol
	Quote           *Symbol
	Define          *Symbol
	DefineMacro     *Symbol
	Lambda          *Symbol
	SetBang         *Symbol
	Begin           *Symbol
	Cons            *Symbol
	Append          *Symbol
	Quasiquote      *Symbol
	Unquote         *Symbol
	UnquoteSplicing *Symbol
	EOFObject       *Symbol
}

// NewReserved interns the reserved names in t and returns them as a
// struct of stable identities.
func NewReserved(t *Table) *Reserved {
	return &Reserved{
		If:              t.Intern("if"),
		Quote:           t.Intern("quote"),
		Define:          t.Intern("define"),
		DefineMacro:     t.Intern("define-macro"),
		Lambda:          t.Intern("lambda"),
		SetBang:         t.Intern("set!"),
		Begin:           t.Intern("begin"),
		Cons:            t.Intern("cons"),
		Append:          t.Intern("append"),
		Quasiquote:      t.Intern("quasiquote"),
		Unquote:         t.Intern("unquote"),
		UnquoteSplicing: t.Intern("unquote-splicing"),
		EOFObject:       t.Intern("#<eof-object>"),
	}
}
