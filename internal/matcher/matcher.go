// Package matcher implements structural pattern matching of a value tree
// against a rewrite's left-hand pattern: producing bindings, runtime
// conditions, kind checks and an inferred result type, with a three-valued
// strength used to rank and prune candidates before evaluation ever runs.
//
// Grounded on internal/matcher/matcher.go's `Matcher` abstraction (the
// teacher generalizes "any engine that finds spans in a source" behind one
// interface); here the "source" is a core.Tree and the "spans" are
// bindings, so Match plays the role of that interface's Find method but
// returns a single aggregated Result instead of a slice.
package matcher

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/syntax"
	"github.com/xlr-lang/xlr/internal/types"
)

// Strength is the three-valued match confidence: higher values need less
// runtime work. Aggregating a compound pattern takes the minimum of its
// parts' strengths.
type Strength int

const (
	Failed Strength = iota
	Possible
	Perfect
)

// Min returns the weaker of two strengths.
func (s Strength) Min(other Strength) Strength {
	if other < s {
		return other
	}
	return s
}

// Binding is a (name, value expression) pair recorded in left-to-right
// pattern order. Value is the caller-scope expression that must be
// evaluated and bound to name at BIND time; Match itself never evaluates
// it. DeclaredType is non-nil when the parameter carried an explicit `as
// T` ascription (`matchTyped`), letting the interpreter decide whether
// the argument should be deferred instead of evaluated eagerly.
type Binding struct {
	Name         string
	Value        *core.Tree
	DeclaredType *core.Tree
}

// Condition is a runtime equality check: at CHECK time, Expr must evaluate
// (or already be known) to equal Expected by core.Equal. Used both for
// constants whose base type is known but value unconfirmed, non-linear
// repeated pattern names, and `when`-guards (Expected is a literal `true`
// NAME tree in that case).
type Condition struct {
	Expr, Expected *core.Tree
}

// KindCheck requires that Expr's runtime kind equal Kind before the
// candidate may proceed — the cheap check used for polymorphic and
// structurally-decomposed positions.
type KindCheck struct {
	Expr *core.Tree
	Kind core.Kind
}

// TypedCheck requires that Expr's inferred type unify with Declared — the
// `E as T` / `E : T` typed-parameter contract, resolved at eval time via
// internal/types.Unify.
type TypedCheck struct {
	Expr     *core.Tree
	Declared *core.Tree
}

// Result is everything Match learned about matching one pattern against
// one value.
type Result struct {
	Strength    Strength
	Bindings    []Binding
	Conditions  []Condition
	KindChecks  []KindCheck
	TypedChecks []TypedCheck
	ResultType  *core.Tree

	// owned holds synthetic trees Match constructed (the `true` guard
	// literal, operator-name comparisons, left(value)/right(value)
	// accessors) that may be referenced from Bindings or Conditions above
	// and so must outlive the call that created them. Release frees them
	// all, along with ResultType.
	owned []*core.Tree
}

func newResult() *Result {
	return &Result{Strength: Perfect, ResultType: types.New(types.TreeType)}
}

// own registers t (already holding one reference) as owned by r and
// returns it unchanged, for use inline at the construction site.
func (r *Result) own(t *core.Tree) *core.Tree {
	r.owned = append(r.owned, t)
	return t
}

// Release drops r's reference to ResultType and every synthetic tree it
// constructed. Call once the caller is done with the Result (bindings have
// been evaluated, conditions checked).
func (r *Result) Release() {
	core.Release(r.ResultType)
	for _, t := range r.owned {
		core.Release(t)
	}
}

func (r *Result) narrow(s Strength) { r.Strength = r.Strength.Min(s) }

func (r *Result) bind(name string, value *core.Tree) {
	r.Bindings = append(r.Bindings, Binding{Name: name, Value: value})
}

func (r *Result) condition(expr, expected *core.Tree) {
	r.Conditions = append(r.Conditions, Condition{expr, expected})
}

func (r *Result) kindCheck(expr *core.Tree, k core.Kind) {
	r.KindChecks = append(r.KindChecks, KindCheck{expr, k})
}

func (r *Result) typedCheck(expr, declared *core.Tree) {
	r.TypedChecks = append(r.TypedChecks, TypedCheck{expr, declared})
}

// refineType narrows r's running ResultType to agree with t, via the
// unification rules; a unification failure only narrows the type to the
// dynamic tree type rather than failing the whole match (result-type
// inference is advisory, not load-bearing for the match itself). t is
// borrowed: refineType never releases it, only acquires a reference if it
// ends up adopted.
func (r *Result) refineType(c *Context, t *core.Tree) {
	if t == nil {
		return
	}
	old := r.ResultType
	unified, err := types.Unify(old, t, c.resolveAlias(), c.bindVar())
	if err != nil {
		r.ResultType = types.New(types.TreeType)
	} else {
		r.ResultType = core.Acquire(unified)
	}
	core.Release(old)
}

// Context supplies the optional collaborators Match needs to reason about
// expressions whose shape alone doesn't reveal a runtime type: an
// inference table (TypeOf), and the two callbacks internal/types.Unify
// itself takes for alias resolution and type-variable binding.
type Context struct {
	// TypeOf returns the statically inferred type tree of expr, if any
	// has been recorded (internal/types "assign_type" bookkeeping lives
	// with the interpreter, not here). A nil TypeOf treats every
	// non-literal expression's type as unknown.
	TypeOf func(expr *core.Tree) (*core.Tree, bool)
	// ResolveAlias and BindVar are forwarded verbatim to
	// internal/types.Unify for typed-parameter checks.
	ResolveAlias func(name string) (*core.Tree, bool)
	BindVar      func(name string) (*types.Variable, bool)
}

func (c *Context) typeOf(t *core.Tree) (*core.Tree, bool) {
	if c == nil || c.TypeOf == nil {
		return nil, false
	}
	return c.TypeOf(t)
}

func (c *Context) resolveAlias() func(string) (*core.Tree, bool) {
	if c == nil {
		return nil
	}
	return c.ResolveAlias
}

func (c *Context) bindVar() func(string) (*types.Variable, bool) {
	if c == nil {
		return nil
	}
	return c.BindVar
}

// Match decides whether value matches pattern, per the per-kind contract
// of the structural matcher, and returns the aggregated Result. definingName
// is the defining-name of the outermost pattern (computed once by the
// caller via internal/syntax.DefiningName) so every recursive call can
// recognise the call head and absorb it instead of binding it as a
// parameter — the defensive rule that the defining form binds before any
// parameter.
func Match(pattern, value *core.Tree, ctx *Context) *Result {
	definingName, _ := syntax.DefiningName(pattern)
	r := newResult()
	match(pattern, value, definingName, ctx, r)
	return r
}
