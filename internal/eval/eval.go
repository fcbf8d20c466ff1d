// Package eval implements the interpreter: Evaluate(scope, expr) walks the
// START → LOOKUP → MATCH → BIND → CHECK → BODY → DONE state machine over
// the rewrite-calls cache, with a SKIP edge back to LOOKUP for a failed
// candidate and a SELF edge to DONE when no candidate applies.
//
// Grounded on internal/evaluator/universal.go's UniversalEvaluator
// (dependency-injected, single Evaluate entry point with no
// domain-specific logic baked into its plumbing) and
// internal/core/pipeline.go's numbered-step Apply pipeline, generalized
// here from "parse → resolve op → anchors → edits" to
// "lookup → match → bind → check → body".
package eval

import (
	"github.com/emirpasic/gods/stacks/arraystack"

	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/diag"
	"github.com/xlr-lang/xlr/internal/matcher"
	"github.com/xlr-lang/xlr/internal/scope"
	"github.com/xlr-lang/xlr/internal/types"
)

// DefaultMaxDepth bounds recursion when a caller doesn't configure one
// explicitly.
const DefaultMaxDepth = 4096

// Context carries everything one evaluation run needs beyond the scope
// chain itself: the diagnostic channel, the recursion-depth guard, and
// the inference bookkeeping the pattern matcher's Context collaborator
// wants. The inferred-type and type-variable tables live with the
// interpreter rather than the matcher, since they persist across a whole
// evaluation run, not just one match attempt.
type Context struct {
	Errors    *diag.Errors
	MaxDepth  int
	PeakDepth int // highest value ctx.depth.Size() reached during this run

	depth *arraystack.Stack // holds *core.Tree; the in-flight call chain, borrowed

	inferred map[*core.Tree]*core.Tree
	aliases  map[string]*core.Tree
	vars     map[string]*types.Variable
}

// NewContext returns a Context ready for one top-level evaluation, with
// maxDepth recursion levels permitted (DefaultMaxDepth if maxDepth <= 0).
func NewContext(maxDepth int) *Context {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Context{
		Errors:   diag.New(),
		MaxDepth: maxDepth,
		depth:    arraystack.New(),
		inferred: make(map[*core.Tree]*core.Tree),
		aliases:  make(map[string]*core.Tree),
		vars:     make(map[string]*types.Variable),
	}
}

// AssignType records expr's statically inferred type for later TypeOf
// lookups by the matcher; ownership of t is not taken (callers keep
// managing its lifetime independently, same convention as matcher.Binding
// values).
func (c *Context) AssignType(expr, t *core.Tree) {
	c.inferred[expr] = t
}

// DeclareAlias records a `alias is target` type declaration for BaseType
// resolution.
func (c *Context) DeclareAlias(name string, target *core.Tree) {
	c.aliases[name] = target
}

func (c *Context) matcherContext() *matcher.Context {
	return &matcher.Context{
		TypeOf:       c.typeOfFunc,
		ResolveAlias: c.resolveAliasFunc,
		BindVar:      c.bindVarFunc,
	}
}

func (c *Context) typeOfFunc(expr *core.Tree) (*core.Tree, bool) {
	t, ok := c.inferred[expr]
	return t, ok
}

// resolveAliasFunc looks up a user-declared `alias is target` binding;
// shared by the matcher's Context and by the interpreter's own
// BaseType/Unify calls at CHECK time (internal/eval/candidate.go,
// internal/eval/closure.go) so both sides of the pipeline see the same
// alias table.
func (c *Context) resolveAliasFunc(name string) (*core.Tree, bool) {
	t, ok := c.aliases[name]
	return t, ok
}

func (c *Context) bindVarFunc(name string) (*types.Variable, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Evaluate computes expr's value in s by walking the
// lookup/match/bind/check/body state machine. The returned tree is a
// fresh reference the caller owns.
func Evaluate(ctx *Context, s *scope.Scope, expr *core.Tree) *core.Tree {
	if expr == nil {
		return nil
	}

	// A deferred (closure) value forces to its captured expression in its
	// captured scope the moment anything actually evaluates it — not at
	// bind time, which is the entire point of deferring it.
	if c, ok := core.GetInfo[*Closure](expr); ok {
		return Evaluate(ctx, c.Scope, expr.Child)
	}

	if ctx.depth.Size() >= ctx.MaxDepth {
		ctx.Errors.Fatal(diag.CodeStackOverflow, "evaluation depth exceeded evaluating $1", expr.Pos, expr)
		return core.Acquire(expr)
	}
	ctx.depth.Push(expr)
	if ctx.depth.Size() > ctx.PeakDepth {
		ctx.PeakDepth = ctx.depth.Size()
	}
	defer ctx.depth.Pop()

	switch {
	case expr.Kind == core.BLOCK:
		child := scope.EnterScope(s)
		defer scope.Close(child)
		return Evaluate(ctx, child, expr.Child)

	case isSequence(expr):
		return evaluateSequence(ctx, s, expr)

	case isBuiltinCall(expr):
		return evaluateBuiltin(ctx, s, expr)

	default:
		return evaluateCall(ctx, s, expr)
	}
}
