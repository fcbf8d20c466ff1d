// Package snapshot reads and writes a small textual notation for core
// trees, used by cmd/xlr's eval/trace/bench subcommands as a stand-in
// for the scanner/parser (out of scope for the evaluation engine
// itself). A snapshot is an s-expression: a bare token is a NATURAL,
// REAL, TEXT or NAME leaf depending on its shape, and a parenthesized
// list is `(tag ...)` where tag selects INFIX (a known operator),
// PREFIX, POSTFIX or BLOCK.
//
// Grounded on internal/diag/render.go's Short renderer for the output
// direction; the read direction is a new, minimal recursive-descent
// reader scoped to round-tripping the eight tree kinds, not to any
// subset of XL's real grammar.
package snapshot

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/xlr-lang/xlr/core"
)

var infixOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "mod": true,
	"<": true, ">": true, "<=": true, ">=": true, "=": true, "<>": true,
	"&": true, "is": true, ":=": true, "when": true, ";": true,
}

type reader struct {
	tokens []string
	pos    int
}

// Parse reads one tree from src. Extra trailing tokens are an error.
func Parse(src string) (*core.Tree, error) {
	r := &reader{tokens: tokenize(src)}
	if len(r.tokens) == 0 {
		return nil, fmt.Errorf("snapshot: empty input")
	}
	t, err := r.readExpr()
	if err != nil {
		return nil, err
	}
	if r.pos != len(r.tokens) {
		core.Release(t)
		return nil, fmt.Errorf("snapshot: unexpected trailing token %q", r.tokens[r.pos])
	}
	return t, nil
}

func tokenize(src string) []string {
	var tokens []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, buf.String())
			buf.Reset()
		}
	}
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '"':
			flush()
			start := i
			i++
			for i < len(runes) && runes[i] != '"' {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				i++
			}
			tokens = append(tokens, string(runes[start:i+1]))
		case c == '(' || c == ')':
			flush()
			tokens = append(tokens, string(c))
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			buf.WriteRune(c)
		}
	}
	flush()
	return tokens
}

func (r *reader) peek() (string, bool) {
	if r.pos >= len(r.tokens) {
		return "", false
	}
	return r.tokens[r.pos], true
}

func (r *reader) next() (string, bool) {
	tok, ok := r.peek()
	if ok {
		r.pos++
	}
	return tok, ok
}

func (r *reader) readExpr() (*core.Tree, error) {
	tok, ok := r.next()
	if !ok {
		return nil, fmt.Errorf("snapshot: unexpected end of input")
	}
	if tok == "(" {
		return r.readList()
	}
	if tok == ")" {
		return nil, fmt.Errorf("snapshot: unexpected )")
	}
	return leafFromToken(tok)
}

func (r *reader) readList() (*core.Tree, error) {
	tag, ok := r.next()
	if !ok {
		return nil, fmt.Errorf("snapshot: unexpected end of input in list")
	}

	switch {
	case tag == "block":
		opening, err := r.readRawString()
		if err != nil {
			return nil, err
		}
		closing, err := r.readRawString()
		if err != nil {
			return nil, err
		}
		child, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		defer core.Release(child)
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return core.NewBlock(opening, closing, child), nil

	case tag == "prefix" || tag == "postfix":
		left, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		defer core.Release(left)
		right, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		defer core.Release(right)
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		if tag == "prefix" {
			return core.NewPrefix(left, right), nil
		}
		return core.NewPostfix(left, right), nil

	case infixOperators[tag]:
		left, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		defer core.Release(left)
		right, err := r.readExpr()
		if err != nil {
			return nil, err
		}
		defer core.Release(right)
		if err := r.expectClose(); err != nil {
			return nil, err
		}
		return core.NewInfix(tag, left, right), nil

	default:
		return nil, fmt.Errorf("snapshot: unknown list tag %q", tag)
	}
}

func (r *reader) readRawString() (string, error) {
	tok, ok := r.next()
	if !ok {
		return "", fmt.Errorf("snapshot: unexpected end of input")
	}
	return unquote(tok)
}

func (r *reader) expectClose() error {
	tok, ok := r.next()
	if !ok || tok != ")" {
		return fmt.Errorf("snapshot: expected )")
	}
	return nil
}

func unquote(tok string) (string, error) {
	if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return "", fmt.Errorf("snapshot: expected quoted string, got %q", tok)
	}
	unescaped, err := strconv.Unquote(tok)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	return unescaped, nil
}

func leafFromToken(tok string) (*core.Tree, error) {
	if strings.HasPrefix(tok, "\"") {
		value, err := unquote(tok)
		if err != nil {
			return nil, err
		}
		return core.NewText(value, "\"", "\""), nil
	}
	if n, ok := new(big.Int).SetString(tok, 10); ok {
		return core.NewNatural(n, 10), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return core.NewReal(f), nil
	}
	return core.NewName(tok), nil
}

// Render writes t back out in the same notation Parse reads, for
// round-tripping a tree through a file or a trace log.
func Render(t *core.Tree) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case core.NATURAL:
		return t.Natural.String()
	case core.REAL:
		return strconv.FormatFloat(t.Real, 'g', -1, 64)
	case core.TEXT:
		return strconv.Quote(t.Text)
	case core.NAME:
		return t.Name
	case core.BLOCK:
		return fmt.Sprintf("(block %s %s %s)", strconv.Quote(t.Opening), strconv.Quote(t.Closing), Render(t.Child))
	case core.PREFIX:
		return fmt.Sprintf("(prefix %s %s)", Render(t.Left), Render(t.Right))
	case core.POSTFIX:
		return fmt.Sprintf("(postfix %s %s)", Render(t.Left), Render(t.Right))
	case core.INFIX:
		return fmt.Sprintf("(%s %s %s)", t.Operator, Render(t.Left), Render(t.Right))
	default:
		return "()"
	}
}
