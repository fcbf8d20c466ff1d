package eval

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/matcher"
	"github.com/xlr-lang/xlr/internal/scope"
	"github.com/xlr-lang/xlr/internal/syntax"
	"github.com/xlr-lang/xlr/internal/types"
)

// closureOpen/closureClose are the synthetic delimiter pair marking a
// deferred-argument wrapper tree, mirroring internal/syntax's
// RewriteSeparator trick of using a token no surface syntax can spell.
const (
	closureOpen  = "\x00closure\x00"
	closureClose = "\x00/closure\x00"
)

// Closure attaches the scope a deferred argument's free names must
// resolve against to the synthetic wrapper tree that holds it, per spec
// §4.G's "implementation is free to choose... an explicit scope-carrying
// variant" — grounded on core/info.go's Info attachment mechanism, reused
// here for a second concern beyond the rewrite-calls cache.
type Closure struct {
	core.BaseInfo
	Scope *scope.Scope
}

// deferExpr wraps expr in a synthetic block carrying a Closure pointing at
// callerScope, without evaluating expr. The result has refcount 1.
func deferExpr(expr *core.Tree, callerScope *scope.Scope) *core.Tree {
	wrapper := core.NewBlock(closureOpen, closureClose, expr)
	core.Attach(wrapper, &Closure{Scope: callerScope})
	return wrapper
}

// shouldDefer reports whether the argument bound by b must be passed
// unevaluated: either its declared parameter type resolves to the dynamic
// tree type or a block type, or the argument expression's own shape is
// always deferred regardless of declared type.
func shouldDefer(b matcher.Binding, aliasOf func(string) (*core.Tree, bool)) bool {
	if syntax.IsDeferredShape(b.Value) {
		return true
	}
	if b.DeclaredType == nil {
		return false
	}
	base := types.BaseType(b.DeclaredType, aliasOf)
	if base == nil || base.Kind != core.NAME {
		return false
	}
	return base.Name == types.TreeType || base.Name == types.Block
}
