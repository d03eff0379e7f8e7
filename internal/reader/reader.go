// Package reader turns characters into tokens and tokens into raw
// S-expressions.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/nukata/goarith"

	"github.com/lontivero/Schemy/internal/symtab"
	"github.com/lontivero/Schemy/internal/value"
)

// token kinds.
const (
	kindOpen    = "("
	kindClose   = ")"
	kindQuote   = "'"
	kindQuasi   = "`"
	kindUnquote = ","
	kindSplice  = ",@"
	kindAtom    = "atom"
	kindString  = "string"
	kindEOF     = "eof"
)

type token struct {
	kind string
	text string
}

// Reader streams tokens from an underlying io.Reader line by line and
// assembles them into S-expressions.
type Reader struct {
	lines   *bufio.Scanner
	syms    *symtab.Table
	res     *symtab.Reserved
	pending []token
	eof     bool
}

// New wraps src as a Reader that interns atoms/symbols into syms.
func New(src io.Reader, syms *symtab.Table, res *symtab.Reserved) *Reader {
	return &Reader{lines: bufio.NewScanner(src), syms: syms, res: res}
}

// SyntaxError reports a malformed token stream or S-expression shape.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string { return "syntax error: " + e.Msg }

func syntaxErrorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// Read consumes tokens and assembles one S-expression. At end of
// input it returns the reserved #<eof-object> symbol, not an error.
func (r *Reader) Read() (value.Value, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	return r.readFrom(tok)
}

func (r *Reader) readFrom(tok token) (value.Value, error) {
	switch tok.kind {
	case kindEOF:
		return r.res.EOFObject, nil
	case kindOpen:
		return r.readList()
	case kindClose:
		return nil, syntaxErrorf("unexpected )")
	case kindQuote:
		return r.readQuoted(r.res.Quote)
	case kindQuasi:
		return r.readQuoted(r.res.Quasiquote)
	case kindUnquote:
		return r.readQuoted(r.res.Unquote)
	case kindSplice:
		return r.readQuoted(r.res.UnquoteSplicing)
	case kindString:
		return value.Str(unescapeString(tok.text)), nil
	default: // atom
		return r.parseAtom(tok.text), nil
	}
}

func (r *Reader) readQuoted(tag *symtab.Symbol) (value.Value, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == kindEOF {
		return nil, syntaxErrorf("unexpected EOF after quote")
	}
	expr, err := r.readFrom(tok)
	if err != nil {
		return nil, err
	}
	return value.NewList(tag, expr), nil
}

func (r *Reader) readList() (value.Value, error) {
	items := make([]value.Value, 0, 8)
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok.kind == kindEOF {
			return nil, syntaxErrorf("unexpected EOF inside list")
		}
		if tok.kind == kindClose {
			return value.NewList(items...), nil
		}
		expr, err := r.readFrom(tok)
		if err != nil {
			return nil, err
		}
		items = append(items, expr)
	}
}

func (r *Reader) parseAtom(text string) value.Value {
	switch text {
	case "#t":
		return true
	case "#f":
		return false
	}
	z := new(big.Int)
	if _, ok := z.SetString(text, 0); ok {
		return value.Int{N: goarith.AsNumber(z)}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Float(f)
	}
	return r.syms.Intern(text)
}

func unescapeString(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// next returns the next token, pulling and tokenizing further lines
// from the underlying reader as the pending buffer empties.
func (r *Reader) next() (token, error) {
	for len(r.pending) == 0 {
		if r.eof {
			return token{kind: kindEOF}, nil
		}
		if !r.lines.Scan() {
			if err := r.lines.Err(); err != nil {
				return token{}, err
			}
			r.eof = true
			continue
		}
		toks, err := tokenizeLine(r.lines.Text())
		if err != nil {
			return token{}, err
		}
		r.pending = toks
	}
	tok := r.pending[0]
	r.pending = r.pending[1:]
	return tok, nil
}

// tokenizeLine splits one line into tokens:
//
//	TOKEN := ',@' | '(' | ')' | '\'' | '`' | ',' | STRING | COMMENT | ATOM
//	STRING := '"' ( '\' ANY | [^\"] )* '"'
//	COMMENT := ';' .*    ; discarded
//	ATOM := any maximal run of chars not in whitespace or ( ) ' " ` , ;
func tokenizeLine(line string) ([]token, error) {
	toks := make([]token, 0, 8)
	i, n := 0, len(line)
	for i < n {
		c := line[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == ';':
			i = n // COMMENT: discard the rest of the line.
		case c == '(':
			toks = append(toks, token{kind: kindOpen})
			i++
		case c == ')':
			toks = append(toks, token{kind: kindClose})
			i++
		case c == '\'':
			toks = append(toks, token{kind: kindQuote})
			i++
		case c == '`':
			toks = append(toks, token{kind: kindQuasi})
			i++
		case c == ',':
			if i+1 < n && line[i+1] == '@' {
				toks = append(toks, token{kind: kindSplice})
				i += 2
			} else {
				toks = append(toks, token{kind: kindUnquote})
				i++
			}
		case c == '"':
			text, next, ok := readStringLiteral(line, i)
			if !ok {
				return nil, syntaxErrorf("unterminated string: %s", line[i:])
			}
			toks = append(toks, token{kind: kindString, text: text})
			i = next
		default:
			start := i
			for i < n && !isDelimiter(line[i]) {
				i++
			}
			toks = append(toks, token{kind: kindAtom, text: line[start:i]})
		}
	}
	return toks, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '(', ')', '\'', '"', '`', ',', ';':
		return true
	}
	return false
}

// readStringLiteral reads a STRING token starting at line[start] == '"'.
// It returns the unquoted contents, the index just past the closing
// quote, and whether a closing quote was found on this line.
func readStringLiteral(line string, start int) (text string, next int, ok bool) {
	i := start + 1
	n := len(line)
	for i < n {
		if line[i] == '\\' && i+1 < n {
			i += 2
			continue
		}
		if line[i] == '"' {
			return line[start+1 : i], i + 1, true
		}
		i++
	}
	return "", n, false
}
