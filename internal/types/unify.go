package types

import (
	"fmt"

	"github.com/xlr-lang/xlr/core"
)

// Mismatch is the typed error unify returns on failure, carrying both
// operand positions.
type Mismatch struct {
	A, B *core.Tree
	PosA core.Position
	PosB core.Position
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("type mismatch: %s vs %s", describe(m.A), describe(m.B))
}

func describe(t *core.Tree) string {
	if t == nil {
		return "<nil>"
	}
	if name, ok := nameOf(t); ok {
		return name
	}
	return t.Kind.String()
}

// Variable is an unresolved type variable introduced by inference. A
// Variable unifies with anything and resolves to that type's tree via its
// Resolved field; its identity is the pointer itself, not its Label (two
// variables may share a label).
type Variable struct {
	Label    string
	Resolved *core.Tree
}

// Unify returns a type compatible with both a and b, following the five
// unification rules in order (identity, dynamic tree, structural
// recursion, variable substitution, else mismatch), or a *Mismatch error.
//
// resolveAlias looks up a user-declared `alias is target` binding, used by
// BaseType; pass nil when no alias context is available. bindVar looks up
// the Variable a NAME tree stands for (false if it is an ordinary name,
// not a variable); pass nil when the caller never introduces variables.
func Unify(a, b *core.Tree, resolveAlias func(name string) (*core.Tree, bool), bindVar func(name string) (*Variable, bool)) (*core.Tree, error) {
	return unify(a, b, resolveAlias, bindVar)
}

func unify(a, b *core.Tree, resolveAlias func(string) (*core.Tree, bool), bindVar func(string) (*Variable, bool)) (*core.Tree, error) {
	// Rule 1: a == b.
	if core.Equal(a, b) {
		return a, nil
	}

	baseA := BaseType(a, resolveAlias)
	baseB := BaseType(b, resolveAlias)

	nameA, okA := nameOf(baseA)
	nameB, okB := nameOf(baseB)

	// Rule 2: tree is unknown-but-dynamic.
	if okA && nameA == TreeType {
		return b, nil
	}
	if okB && nameB == TreeType {
		return a, nil
	}

	// Rule 4: unresolved type variables substitute.
	if okA && bindVar != nil {
		if v, isVar := bindVar(nameA); isVar {
			if v.Resolved != nil {
				return unify(v.Resolved, b, resolveAlias, bindVar)
			}
			v.Resolved = b
			return b, nil
		}
	}
	if okB && bindVar != nil {
		if v, isVar := bindVar(nameB); isVar {
			if v.Resolved != nil {
				return unify(a, v.Resolved, resolveAlias, bindVar)
			}
			v.Resolved = a
			return a, nil
		}
	}

	// Rule 5: structural recursion for compound shapes (prefix/infix/block
	// used as type constructors, e.g. `pointer to T`).
	if baseA != nil && baseB != nil && baseA.Kind == baseB.Kind && !baseA.IsLeaf() {
		switch baseA.Kind {
		case core.BLOCK:
			if _, err := unify(baseA.Child, baseB.Child, resolveAlias, bindVar); err == nil {
				return baseA, nil
			}
		case core.PREFIX, core.POSTFIX:
			if _, err := unify(baseA.Left, baseB.Left, resolveAlias, bindVar); err == nil {
				if _, err := unify(baseA.Right, baseB.Right, resolveAlias, bindVar); err == nil {
					return baseA, nil
				}
			}
		case core.INFIX:
			if baseA.Operator == baseB.Operator {
				if _, err := unify(baseA.Left, baseB.Left, resolveAlias, bindVar); err == nil {
					if _, err := unify(baseA.Right, baseB.Right, resolveAlias, bindVar); err == nil {
						return baseA, nil
					}
				}
			}
		}
	}

	// Rule 3: both named canonicals, not the same => failure (and the
	// general fallback for anything else that didn't unify above).
	return nil, &Mismatch{A: a, B: b, PosA: posOf(a), PosB: posOf(b)}
}

func posOf(t *core.Tree) core.Position {
	if t == nil {
		return core.NoPos
	}
	return t.Pos
}
