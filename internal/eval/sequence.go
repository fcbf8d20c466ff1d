package eval

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/diag"
	"github.com/xlr-lang/xlr/internal/scope"
	"github.com/xlr-lang/xlr/internal/syntax"
)

func isSequence(t *core.Tree) bool {
	return t != nil && t.Kind == core.INFIX && (t.Operator == syntax.Newline || t.Operator == syntax.Semicolon)
}

// flattenSequence collects t's statements in source order, recursing
// through nested Newline/Semicolon infixes (the two can mix freely, e.g.
// `a; b \n c`). A non-sequence leaf is a one-statement "sequence" of
// itself.
func flattenSequence(t *core.Tree) []*core.Tree {
	if !isSequence(t) {
		return []*core.Tree{t}
	}
	out := flattenSequence(t.Left)
	return append(out, flattenSequence(t.Right)...)
}

// evaluateSequence runs a two-pass walk of a statement sequence. Pass
// one declares every `P is B` statement into s
// so forward references between declarations resolve regardless of
// textual order; pass two evaluates every statement left to right,
// mutating `:=` bindings in place and threading the most recently
// evaluated non-declaration statement's value through as the sequence's
// residual value.
func evaluateSequence(ctx *Context, s *scope.Scope, expr *core.Tree) *core.Tree {
	statements := flattenSequence(expr)

	for _, stmt := range statements {
		if stmt != nil && stmt.Kind == core.INFIX && stmt.Operator == syntax.Is {
			declareStatement(ctx, s, stmt)
		}
	}

	var last *core.Tree
	for _, stmt := range statements {
		if stmt != nil && stmt.Kind == core.INFIX && stmt.Operator == syntax.Is {
			continue // already handled in pass one, contributes no value
		}
		core.Release(last)
		if stmt != nil && stmt.Kind == core.INFIX && stmt.Operator == syntax.Assign {
			last = evaluateAssign(ctx, s, stmt)
		} else {
			last = Evaluate(ctx, s, stmt)
		}
	}

	if last == nil {
		// Every statement was a declaration: nothing left to produce a
		// residual value, so the sequence falls back to self-evaluation.
		return core.Acquire(expr)
	}
	return last
}

func declareStatement(ctx *Context, s *scope.Scope, stmt *core.Tree) {
	_, err := scope.Declare(s, stmt.Left, stmt.Right)
	if dup, ok := err.(*scope.DuplicateError); ok {
		note := diag.DuplicateNote(dup.Existing.Body(), stmt.Right)
		ctx.Errors.ReportDiagnostic(diag.Diagnostic{
			Code:    diag.CodeDuplicateDecl,
			Message: "$1 already declared",
			Pos:     stmt.Pos,
			Args:    []*core.Tree{stmt.Left},
			Notes:   []string{note},
		})
	}
}

// evaluateAssign implements `N := V`: mutate the nearest visible binding
// found via the scope chain, or create one in the current frame if none
// is visible yet.
func evaluateAssign(ctx *Context, s *scope.Scope, stmt *core.Tree) *core.Tree {
	value := Evaluate(ctx, s, stmt.Right)

	name := stmt.Left
	if _, owner, ok := scope.Bound(s, nameOf(name)); ok {
		_, _ = scope.Redefine(owner, name, value)
	} else {
		_, _ = scope.DeclareMutable(s, name, value)
	}
	return value
}

func nameOf(t *core.Tree) string {
	if t != nil && t.Kind == core.NAME {
		return t.Name
	}
	return ""
}
