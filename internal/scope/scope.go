// Package scope implements the compile-time symbol table: a prefix chain
// of hash-ordered binary trees of rewrite declarations.
//
// Grounded on internal/registry/registry.go's thread-safe
// register/lookup-by-key pattern, generalized from a flat map to a
// hash-chained binary tree of Tree nodes, with Bind/Define/Lookup as the
// core vocabulary for declaring and resolving names.
package scope

import (
	"fmt"
	"sync"

	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/syntax"
)

// Scope is a lexical frame: a chain to Parent plus a LocalFrame holding
// this frame's own declarations. A scope is conceptually the tree
// `ParentScope ; LocalFrame`; AsTree materializes that shape on demand for
// introspection, but the hot Declare/Define/Bound/Lookup path operates on
// the Go-level struct directly rather than re-parsing a literal infix
// tree on every call.
type Scope struct {
	Parent *Scope

	mu    sync.RWMutex
	frame *core.Tree // nil, a bare Rewrite, or a RewriteSeparator chain
}

// NewRoot creates the empty root scope (no parent). The global builtin
// registry is installed into a root scope by its own package, not here.
func NewRoot() *Scope {
	return &Scope{}
}

// EnterScope creates a new, empty frame wrapping parent.
func EnterScope(parent *Scope) *Scope {
	return &Scope{Parent: parent}
}

// Close releases s's local frame. Every Declare/Define call on s acquired
// a reference to the rewrite it stored; once s itself is no longer
// reachable (typically right after one candidate's bind/check/body
// sequence finishes), those references must be released explicitly since
// the tree arena's lifetime is reference-counted, not garbage collected.
// Close is a no-op if called more than once.
func Close(s *Scope) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	core.Release(s.frame)
	s.frame = nil
}

// AsTree materializes the scope's conceptual `ParentScope ; LocalFrame`
// shape as an actual core.Tree, for diagnostics or serialization. The
// result is a fresh tree (caller owns the returned reference).
func (s *Scope) AsTree() *core.Tree {
	var parentTree *core.Tree
	if s.Parent == nil {
		parentTree = core.NewName("")
	} else {
		parentTree = s.Parent.AsTree()
	}
	defer core.Release(parentTree)

	s.mu.RLock()
	localFrame := s.frame
	if localFrame == nil {
		localFrame = core.NewName("")
		defer core.Release(localFrame)
	}
	block := core.NewBlock("{", "}", localFrame)
	s.mu.RUnlock()
	defer core.Release(block)

	return core.NewInfix(syntax.Semicolon, parentTree, block)
}

// Rewrite is a stored declaration: pattern is a tree, body is a tree.
// Wraps the underlying `pattern is body` / `pattern := body` core.Tree so
// callers get typed access without re-destructuring the infix each time.
type Rewrite struct {
	tree *core.Tree // INFIX(is|:=, pattern, body)
}

// NewRewrite builds a Rewrite value from pattern and body declared with
// the given operator ("is" or ":="). Acquires references to both.
func NewRewrite(operator string, pattern, body *core.Tree) *Rewrite {
	return &Rewrite{tree: core.NewInfix(operator, pattern, body)}
}

// Tree returns the underlying `pattern is body` infix tree.
func (r *Rewrite) Tree() *core.Tree { return r.tree }

// Operator returns "is" or ":=".
func (r *Rewrite) Operator() string { return r.tree.Operator }

// Pattern returns the rewrite's left-hand pattern.
func (r *Rewrite) Pattern() *core.Tree { return r.tree.Left }

// Body returns the rewrite's right-hand body.
func (r *Rewrite) Body() *core.Tree { return r.tree.Right }

func rewriteFromLeaf(t *core.Tree) *Rewrite {
	if t == nil || t.Kind != core.INFIX || !syntax.IsDeclaration(t.Operator) {
		return nil
	}
	return &Rewrite{tree: t}
}

// DuplicateError reports that pattern was already declared in a scope
// without an overwrite request.
type DuplicateError struct {
	Pattern  *core.Tree
	Existing *Rewrite
}

func (e *DuplicateError) Error() string {
	name, _ := syntax.DefiningName(e.Pattern)
	return fmt.Sprintf("duplicate declaration of %q", name)
}
