package eval

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/scope"
)

// NativeInfix computes an infix call whose operands are both already
// concrete leaves (the canonical "+", "-", comparison, and text-splice
// operators), returning ok=false when the operand kinds don't match what
// it knows how to combine — at which point the caller falls back to
// ordinary self-evaluation, same as a declared rewrite whose candidate
// list came up empty.
type NativeInfix func(left, right *core.Tree) (result *core.Tree, ok bool)

// nativeInfixes holds the process-wide native-operator table, populated
// once at startup by builtins.Install. It is consulted only after every
// user-declared candidate for the same call site has been tried and
// failed (or none exists), so a user rewrite on, say, `+` for a custom
// type always takes precedence.
var nativeInfixes = map[string]NativeInfix{}

// RegisterInfixNative installs fn as the native fallback for operator.
// Not safe to call concurrently with evaluation; intended for one-time
// registration while building a root scope, before any Evaluate call.
func RegisterInfixNative(operator string, fn NativeInfix) {
	nativeInfixes[operator] = fn
}

// tryNativeInfix evaluates expr's operands in s and applies the
// registered native for expr's operator, if any. Returns ok=false
// (leaving expr's self-evaluation untouched) when no native is
// registered for the operator, or the evaluated operands' kinds don't
// match what that native accepts.
func tryNativeInfix(ctx *Context, s *scope.Scope, expr *core.Tree) (*core.Tree, bool) {
	fn, ok := nativeInfixes[expr.Operator]
	if !ok {
		return nil, false
	}
	left := Evaluate(ctx, s, expr.Left)
	right := Evaluate(ctx, s, expr.Right)
	result, ok := fn(left, right)
	core.Release(left)
	core.Release(right)
	return result, ok
}
