// Package syntax names the infix operators given fixed meaning at the tree
// level, shared by the scope store, matcher and interpreter so all three
// agree on which operators are "structural" (never themselves a pattern's
// defining-name) versus ordinary dispatch operators like "+" or "mod".
package syntax

const (
	// Is declares a rewrite: `P is B`.
	Is = "is"
	// Assign declares/mutates a binding: `N := V`.
	Assign = ":="
	// As ascribes a type, either to an expression or, in a pattern
	// position, to a parameter: `E as T`.
	As = "as"
	// When guards a pattern: `P when G`.
	When = "when"
	// Comma separates a parameter list or tuple: `A, B`.
	Comma = ","
	// Semicolon sequences statements on one line: `A; B`.
	Semicolon = ";"
	// Newline sequences statements on separate lines: `A \n B`.
	Newline = "\n"

	// RewriteSeparator joins the hash-ordered binary tree of rewrites
	// inside a scope's local frame. It is never produced by a parser and
	// never appears in a user-visible pattern, so it uses a token no
	// surface syntax can spell.
	RewriteSeparator = "\x00rewrite-separator\x00"
)

// structural is the set of infix operators that are never, themselves, a
// pattern's defining-name: they are pattern/statement scaffolding, and the
// defining-name walk passes through to their left operand instead: the
// defining-name of a pattern is the leftmost name that is not itself a
// parameter marker.
var structural = map[string]bool{
	As:        true,
	When:      true,
	Comma:     true,
	Semicolon: true,
	Newline:   true,
}

// IsStructural reports whether operator is one of the scaffolding infixes
// that never serves as a pattern's defining-name.
func IsStructural(operator string) bool { return structural[operator] }

// IsDeclaration reports whether operator is one of the two shapes that
// introduce a binding: `is` or `:=`.
func IsDeclaration(operator string) bool { return operator == Is || operator == Assign }
