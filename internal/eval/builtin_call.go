package eval

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/diag"
	"github.com/xlr-lang/xlr/internal/scope"
)

// isBuiltinCall reports whether expr is a `builtin EXPR` prefix form: the
// escape hatch a typed operator overload uses to reach its own native
// implementation directly. Without it, a declaration like
// `X as natural + Y as natural is builtin (X + Y)` would recurse forever —
// the body `X + Y` has the exact shape the declaration's own pattern
// matches, so ordinary candidate lookup would find the declaration again
// on every call.
func isBuiltinCall(expr *core.Tree) bool {
	return expr.Kind == core.PREFIX && expr.Left != nil && expr.Left.Kind == core.NAME && expr.Left.Name == "builtin"
}

// evaluateBuiltin evaluates a `builtin (L op R)` form by forcing the
// wrapped infix straight through the registered native operator table,
// skipping candidate lookup entirely. A wrapped form that isn't an infix,
// or whose operator has no native registered, reports the same
// no-match diagnostic an unmatched user call would.
func evaluateBuiltin(ctx *Context, s *scope.Scope, expr *core.Tree) *core.Tree {
	inner := expr.Right
	if inner != nil && inner.Kind == core.INFIX {
		if result, ok := tryNativeInfix(ctx, s, inner); ok {
			return result
		}
	}
	ctx.Errors.Report(diag.CodeNoMatch, "$1 has no native implementation", expr.Pos, expr)
	return core.Acquire(expr)
}
