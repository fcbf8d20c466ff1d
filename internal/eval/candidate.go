package eval

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/diag"
	"github.com/xlr-lang/xlr/internal/matcher"
	"github.com/xlr-lang/xlr/internal/rewrite"
	"github.com/xlr-lang/xlr/internal/scope"
	"github.com/xlr-lang/xlr/internal/types"
)

// evaluateCall builds or fetches the call-site cache, tries each
// candidate in lexical/declaration order, falls back to a native
// operator if one is registered, and otherwise self-evaluates —
// reporting a no-match diagnostic only when at least one candidate was
// actually tried and failed.
func evaluateCall(ctx *Context, s *scope.Scope, expr *core.Tree) *core.Tree {
	calls := rewrite.BuildOrGet(expr, s, ctx.matcherContext())

	for _, cand := range calls.Candidates {
		if result, ok := tryCandidate(ctx, s, cand); ok {
			return result
		}
	}

	if expr.Kind == core.INFIX {
		if result, ok := tryNativeInfix(ctx, s, expr); ok {
			return result
		}
	}

	if len(calls.Candidates) == 0 {
		return core.Acquire(expr) // pure data: no rewrite bound to this name at all
	}

	ctx.Errors.Report(diag.CodeNoMatch, "no pattern matched $1", expr.Pos, expr)
	return core.Acquire(expr)
}

// tryCandidate runs BIND, CHECK and BODY for one candidate. On any check
// failure it discards the candidate's speculative diagnostics (silent
// skip) except a type mismatch, which is reported and keeps the
// diagnostic while still skipping to the next candidate. The candidate's
// child scope is always closed before returning, on every exit path.
func tryCandidate(ctx *Context, callerScope *scope.Scope, cand *rewrite.Candidate) (*core.Tree, bool) {
	child := scope.EnterScope(cand.DeclaredIn)
	defer scope.Close(child)

	ctx.Errors.Push()

	if !bindAll(ctx, callerScope, child, cand.Match) {
		ctx.Errors.Discard()
		return nil, false
	}
	if !checkKinds(ctx, child, cand.Match) {
		ctx.Errors.Discard()
		return nil, false
	}
	if !checkConditions(ctx, child, cand.Match) {
		ctx.Errors.Discard()
		return nil, false
	}
	if mismatch, ok := firstTypeMismatch(ctx, child, cand.Match); ok {
		ctx.Errors.ReportDiagnostic(diag.Diagnostic{
			Code:    diag.CodeTypeMismatch,
			Message: mismatch.Error(),
			Pos:     cand.Rewrite.Pattern().Pos,
		})
		ctx.Errors.Merge()
		return nil, false
	}

	body := Evaluate(ctx, child, cand.Rewrite.Body())
	ctx.Errors.Merge()
	return body, true
}

// bindAll evaluates (or defers) every binding's value expression in
// callerScope, left to right, declaring each into child.
func bindAll(ctx *Context, callerScope, child *scope.Scope, m *matcher.Result) bool {
	for _, b := range m.Bindings {
		var value *core.Tree
		if shouldDefer(b, ctx.resolveAliasFunc) {
			value = deferExpr(b.Value, callerScope)
		} else {
			value = Evaluate(ctx, callerScope, b.Value)
		}

		nameTree := core.NewName(b.Name)
		_, err := scope.DeclareMutable(child, nameTree, value)
		core.Release(nameTree)
		core.Release(value)
		if err != nil {
			return false
		}
	}
	return true
}

func checkKinds(ctx *Context, child *scope.Scope, m *matcher.Result) bool {
	for _, kc := range m.KindChecks {
		v := Evaluate(ctx, child, kc.Expr)
		k := v.Kind
		core.Release(v)
		if k != kc.Kind {
			return false
		}
	}
	return true
}

func checkConditions(ctx *Context, child *scope.Scope, m *matcher.Result) bool {
	for _, cond := range m.Conditions {
		left := Evaluate(ctx, child, cond.Expr)
		right := Evaluate(ctx, child, cond.Expected)
		equal := core.Equal(left, right)
		core.Release(left)
		core.Release(right)
		if !equal {
			return false
		}
	}
	return true
}

// firstTypeMismatch evaluates every typed check's expression and unifies
// its runtime kind against the declared type, returning the first
// mismatch found.
func firstTypeMismatch(ctx *Context, child *scope.Scope, m *matcher.Result) (*types.Mismatch, bool) {
	for _, tc := range m.TypedChecks {
		// A parameter passed unevaluated is checked by its own shape.
		var v *core.Tree
		if shouldDefer(matcher.Binding{Value: tc.Expr, DeclaredType: tc.Declared}, ctx.resolveAliasFunc) {
			v = core.Acquire(tc.Expr)
		} else {
			v = Evaluate(ctx, child, tc.Expr)
		}
		ctx.AssignType(tc.Expr, v)
		runtime := types.New(types.KindOf(v))
		_, err := types.Unify(runtime, tc.Declared, ctx.resolveAliasFunc, ctx.bindVarFunc)
		core.Release(runtime)
		core.Release(v)
		if err != nil {
			return err.(*types.Mismatch), true
		}
	}
	return nil, false
}
