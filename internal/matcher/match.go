package matcher

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/syntax"
	"github.com/xlr-lang/xlr/internal/types"
)

// match recurses structurally over pattern, updating r in place. value is
// the (unevaluated) call-site expression occupying pattern's position.
func match(pattern, value *core.Tree, definingName string, ctx *Context, r *Result) {
	if pattern == nil {
		r.narrow(Failed)
		return
	}

	switch pattern.Kind {
	case core.NATURAL, core.REAL, core.TEXT:
		matchConstant(pattern, value, ctx, r)
	case core.NAME:
		matchName(pattern, value, definingName, r)
	case core.BLOCK:
		// Transparent: match the child, and if value is itself a block
		// of the same delimiters peel it too, else match the child
		// pattern straight against value (a block pattern is syntactic
		// grouping, not a runtime shape requirement).
		inner := value
		if value != nil && value.Kind == core.BLOCK {
			inner = value.Child
		}
		match(pattern.Child, inner, definingName, ctx, r)
	case core.PREFIX:
		matchPrefixPostfix(pattern, value, definingName, ctx, r, true)
	case core.POSTFIX:
		matchPrefixPostfix(pattern, value, definingName, ctx, r, false)
	case core.INFIX:
		matchInfix(pattern, value, definingName, ctx, r)
	default:
		r.narrow(Failed)
	}
}

func matchConstant(pattern, value *core.Tree, ctx *Context, r *Result) {
	kindType := types.New(types.KindOf(pattern))
	defer core.Release(kindType)

	if core.Equal(pattern, value) {
		r.refineType(ctx, kindType)
		return
	}

	knownKind, ok := knownBaseKind(value, ctx)
	if ok && knownKind == pattern.Kind {
		r.narrow(Possible)
		r.condition(value, pattern)
		r.refineType(ctx, kindType)
		return
	}
	r.narrow(Failed)
}

// knownBaseKind reports the runtime Kind a non-literal expression is
// statically known to produce, if any: either its own Kind (a tree whose
// shape is already a constant of some kind trivially has that kind), or —
// for anything else — whatever Context.TypeOf records, translated back to
// a Kind via the canonical type names.
func knownBaseKind(value *core.Tree, ctx *Context) (core.Kind, bool) {
	if value == nil {
		return 0, false
	}
	switch value.Kind {
	case core.NATURAL, core.REAL, core.TEXT, core.NAME, core.BLOCK, core.PREFIX, core.POSTFIX, core.INFIX:
		if t, ok := ctx.typeOf(value); ok {
			if k, ok := kindOfTypeName(t); ok {
				return k, true
			}
			return 0, false
		}
	}
	// A literal of one of the constant kinds is trivially "known" to be
	// that kind even without a type-context entry.
	switch value.Kind {
	case core.NATURAL, core.REAL, core.TEXT:
		return value.Kind, true
	}
	return 0, false
}

func kindOfTypeName(t *core.Tree) (core.Kind, bool) {
	if t == nil || t.Kind != core.NAME {
		return 0, false
	}
	switch t.Name {
	case types.Natural:
		return core.NATURAL, true
	case types.Real:
		return core.REAL, true
	case types.Text:
		return core.TEXT, true
	case types.Name:
		return core.NAME, true
	case types.Block:
		return core.BLOCK, true
	case types.Prefix:
		return core.PREFIX, true
	case types.Postfix:
		return core.POSTFIX, true
	case types.Infix:
		return core.INFIX, true
	default:
		return 0, false
	}
}

func matchName(pattern, value *core.Tree, definingName string, r *Result) {
	if pattern.Name == definingName {
		// Absorbed: the defining form, not an argument. Lookup normally
		// only ever presents candidates whose defining-name already
		// matches the call head, but Match verifies it directly too so
		// it stays correct when invoked outside that path.
		if value != nil && value.Kind == core.NAME {
			if value.Name != pattern.Name {
				r.narrow(Failed)
			}
			return
		}
		r.narrow(Possible)
		r.kindCheck(value, core.NAME)
		r.condition(value, pattern)
		return
	}

	if prior, ok := priorBinding(r, pattern.Name); ok {
		// Non-linear pattern: `X + X` requires both occurrences equal.
		r.narrow(Possible)
		r.condition(value, prior)
		return
	}

	r.bind(pattern.Name, value)
}

func priorBinding(r *Result, name string) (*core.Tree, bool) {
	for _, b := range r.Bindings {
		if b.Name == name {
			return b.Value, true
		}
	}
	return nil, false
}

func matchPrefixPostfix(pattern, value *core.Tree, definingName string, ctx *Context, r *Result, isPrefix bool) {
	wantKind := core.PREFIX
	if !isPrefix {
		wantKind = core.POSTFIX
	}

	if value != nil && value.Kind == wantKind {
		if isPrefix {
			match(pattern.Left, value.Left, definingName, ctx, r)
			match(pattern.Right, value.Right, definingName, ctx, r)
		} else {
			match(pattern.Right, value.Right, definingName, ctx, r)
			match(pattern.Left, value.Left, definingName, ctx, r)
		}
		return
	}

	r.narrow(Failed)
}

func matchInfix(pattern, value *core.Tree, definingName string, ctx *Context, r *Result) {
	switch pattern.Operator {
	case syntax.As:
		matchTyped(pattern, value, definingName, ctx, r)
		return
	case syntax.When:
		match(pattern.Left, value, definingName, ctx, r)
		r.narrow(Possible)
		r.condition(pattern.Right, r.own(trueLiteral()))
		return
	}

	if value != nil && value.Kind == core.INFIX && value.Operator == pattern.Operator {
		match(pattern.Left, value.Left, definingName, ctx, r)
		match(pattern.Right, value.Right, definingName, ctx, r)
		return
	}

	// Value isn't syntactically the same infix: require at runtime that
	// it has infix kind with a matching operator name, and recurse into
	// synthetic left(value)/right(value) accessors.
	r.narrow(Possible)
	r.kindCheck(value, core.INFIX)
	r.condition(r.own(operatorNameOf(value)), r.own(core.NewName(pattern.Operator)))

	left := r.own(newAccessor("left", value))
	right := r.own(newAccessor("right", value))

	match(pattern.Left, left, definingName, ctx, r)
	match(pattern.Right, right, definingName, ctx, r)
}

// newAccessor builds the synthetic prefix tree `name value` standing for
// the left/right operand of an infix value whose shape isn't known until
// runtime. The evaluator has no built-in rule for `left` or `right`: such
// a tree evaluates like any other prefix call, to itself unless a rewrite
// for it is declared.
func newAccessor(name string, value *core.Tree) *core.Tree {
	op := core.NewName(name)
	out := core.NewPrefix(op, value)
	core.Release(op)
	return out
}

func matchTyped(pattern, value *core.Tree, definingName string, ctx *Context, r *Result) {
	// Bind the left side as a name (the common `N as T` shape) or match
	// it structurally (`(A, B) as T` style destructuring patterns).
	before := len(r.Bindings)
	match(pattern.Left, value, definingName, ctx, r)

	declared := pattern.Right
	for i := before; i < len(r.Bindings); i++ {
		r.Bindings[i].DeclaredType = declared
	}
	r.refineType(ctx, declared)

	if valueType, ok := ctx.typeOf(value); ok {
		if _, err := types.Unify(valueType, declared, ctx.resolveAlias(), ctx.bindVar()); err != nil {
			r.narrow(Failed)
			return
		}
		r.narrow(Perfect)
		return
	}

	r.narrow(Possible)
	r.typedCheck(value, declared)
}

// operatorNameOf returns a NAME tree carrying value's infix operator, or
// an empty name if value isn't (syntactically) an infix — used to phrase
// the "value has infix kind with matching operator" runtime condition
// generically, as a Condition like any other.
func operatorNameOf(value *core.Tree) *core.Tree {
	if value != nil && value.Kind == core.INFIX {
		return core.NewName(value.Operator)
	}
	return core.NewName("")
}

func trueLiteral() *core.Tree { return core.NewName("true") }
