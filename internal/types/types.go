// Package types implements the type engine: types are trees, canonical
// kinds are registered names, and unification produces a type compatible
// with two given types or reports failure.
//
// Grounded on internal/types/core.go's canonical-kind registry pattern.
package types

import "github.com/xlr-lang/xlr/core"

// Canonical type names: the eight tree kinds, plus boolean and the
// generic tree type.
const (
	Natural = "natural"
	Real    = "real"
	Text    = "text"
	Name    = "name"
	Block   = "block"
	Prefix  = "prefix"
	Postfix = "postfix"
	Infix   = "infix"
	Boolean = "boolean"
	// TreeType is the generic, dynamically-typed "could be anything"
	// type.
	TreeType = "tree"
)

var canonicalNames = map[string]bool{
	Natural: true, Real: true, Text: true, Name: true,
	Block: true, Prefix: true, Postfix: true, Infix: true,
	Boolean: true, TreeType: true,
}

// IsCanonical reports whether name is one of the built-in type names.
func IsCanonical(name string) bool { return canonicalNames[name] }

// New builds the type tree for a registered canonical name, or for an
// arbitrary user type name (any other NAME tree is itself a valid type).
func New(name string) *core.Tree {
	return core.NewName(name)
}

// KindOf returns the canonical type name describing a value's runtime
// Kind — the "base type" every concrete Tree carries regardless of any
// declared annotation.
func KindOf(v *core.Tree) string {
	if v == nil {
		return TreeType
	}
	switch v.Kind {
	case core.NATURAL:
		return Natural
	case core.REAL:
		return Real
	case core.TEXT:
		return Text
	case core.NAME:
		return Name
	case core.BLOCK:
		return Block
	case core.PREFIX:
		return Prefix
	case core.POSTFIX:
		return Postfix
	case core.INFIX:
		return Infix
	default:
		return TreeType
	}
}

// nameOf returns (name, true) if t is a NAME tree (the only shape a
// canonical or simple user type takes), else ("", false).
func nameOf(t *core.Tree) (string, bool) {
	if t != nil && t.Kind == core.NAME {
		return t.Name, true
	}
	return "", false
}

// BaseType strips intermediate alias names, following any chain of
// `alias is target` type declarations recorded in resolveAlias, down to a
// canonical name or an unresolved user name. aliasOf may be nil, in which
// case t is returned unchanged (no aliasing context available).
func BaseType(t *core.Tree, aliasOf func(name string) (*core.Tree, bool)) *core.Tree {
	if t == nil || aliasOf == nil {
		return t
	}
	seen := map[string]bool{}
	cur := t
	for {
		name, ok := nameOf(cur)
		if !ok || IsCanonical(name) || seen[name] {
			return cur
		}
		seen[name] = true
		target, ok := aliasOf(name)
		if !ok {
			return cur
		}
		cur = target
	}
}
