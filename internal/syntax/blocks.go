package syntax

import "github.com/xlr-lang/xlr/core"

// Block delimiter pairs the interpreter needs to tell apart: a paren
// block is pure grouping with no deferred-evaluation meaning of its own;
// a brace or indent block is a statement block, always deferred when
// passed as an unevaluated argument.
const (
	ParenOpen, ParenClose = "(", ")"
	BraceOpen, BraceClose = "{", "}"
	// IndentOpen/IndentClose are the synthetic delimiter pair an
	// indentation-sensitive parser (out of scope here) would stamp on a
	// block introduced by increased indentation rather than braces.
	IndentOpen, IndentClose = "\x00indent\x00", "\x00dedent\x00"
)

// IsStatementBlock reports whether t is a brace or indent block — the two
// delimiter shapes that carry "this is a sequence of statements, not a
// grouped sub-expression" meaning, as opposed to a paren block.
func IsStatementBlock(t *core.Tree) bool {
	if t == nil || t.Kind != core.BLOCK {
		return false
	}
	return t.Opening == BraceOpen || t.Opening == IndentOpen
}

// IsDeferredShape reports whether t is always passed as an unevaluated
// argument regardless of the formal parameter's declared type: a
// statement block, an explicit sequence (`;` or newline), or a
// declaration (`is` / `:=`).
func IsDeferredShape(t *core.Tree) bool {
	if t == nil {
		return false
	}
	if IsStatementBlock(t) {
		return true
	}
	if t.Kind == core.INFIX {
		switch t.Operator {
		case Semicolon, Newline:
			return true
		}
		if IsDeclaration(t.Operator) {
			return true
		}
	}
	return false
}
