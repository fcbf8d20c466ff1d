package core

import "math/big"

// Position is an opaque source-position token. The scanner/parser (out of
// scope for this module) owns the table that makes a Position meaningful;
// the tree arena only stores and copies it.
type Position int32

// NoPos marks a tree with no known source position (e.g. one synthesized
// by a rewrite at evaluation time).
const NoPos Position = -1

// Tree is a reference-counted node of one of the eight kinds. Only the
// fields relevant to a Tree's Kind are meaningful; the rest are zero.
//
// Trees are conceptually immutable once published: rewrites clone
// sub-trees rather than mutate them, except for the narrow, explicitly
// atomic slot-assignment path in Assign.
type Tree struct {
	Kind Kind
	Pos  Position

	// NATURAL
	Natural     *big.Int
	NaturalBase int // 2, 8, 10 or 16

	// REAL
	Real float64

	// TEXT
	Text    string
	Opening string
	Closing string

	// NAME
	Name string

	// BLOCK: Opening/Closing reused from TEXT fields' shape; Child holds
	// the single wrapped sub-tree.
	Child *Tree

	// PREFIX / POSTFIX / INFIX
	Left     *Tree
	Right    *Tree
	Operator string // INFIX operator name only

	refcount int32
	info     *info
}

// NewNatural builds a NATURAL leaf from an arbitrary-precision integer in
// the given base (2, 8, 10 or 16). The returned tree has refcount 1.
func NewNatural(value *big.Int, base int) *Tree {
	if base != 2 && base != 8 && base != 10 && base != 16 {
		base = 10
	}
	t := &Tree{Kind: NATURAL, Pos: NoPos, Natural: new(big.Int).Set(value), NaturalBase: base}
	return trackNew(t)
}

// NewNaturalInt64 is a convenience constructor for small natural values.
func NewNaturalInt64(value int64, base int) *Tree {
	return NewNatural(big.NewInt(value), base)
}

// NewReal builds a REAL leaf. The returned tree has refcount 1.
func NewReal(value float64) *Tree {
	return trackNew(&Tree{Kind: REAL, Pos: NoPos, Real: value})
}

// NewText builds a TEXT leaf with the given opening/closing delimiters
// (e.g. `"` and `"`, or "<<" and ">>"). The returned tree has refcount 1.
func NewText(value, opening, closing string) *Tree {
	return trackNew(&Tree{Kind: TEXT, Pos: NoPos, Text: value, Opening: opening, Closing: closing})
}

// NewName builds a NAME leaf. The returned tree has refcount 1.
func NewName(name string) *Tree {
	return trackNew(&Tree{Kind: NAME, Pos: NoPos, Name: name})
}

// NewBlock wraps child between the given delimiters, acquiring a reference
// to child. The returned tree has refcount 1.
func NewBlock(opening, closing string, child *Tree) *Tree {
	t := &Tree{Kind: BLOCK, Pos: NoPos, Opening: opening, Closing: closing, Child: Acquire(child)}
	return trackNew(t)
}

// NewPrefix builds a PREFIX node, acquiring references to left and right.
// The returned tree has refcount 1.
func NewPrefix(left, right *Tree) *Tree {
	t := &Tree{Kind: PREFIX, Pos: NoPos, Left: Acquire(left), Right: Acquire(right)}
	return trackNew(t)
}

// NewPostfix builds a POSTFIX node, acquiring references to left and right.
// The returned tree has refcount 1.
func NewPostfix(left, right *Tree) *Tree {
	t := &Tree{Kind: POSTFIX, Pos: NoPos, Left: Acquire(left), Right: Acquire(right)}
	return trackNew(t)
}

// NewInfix builds an INFIX node with the given operator name, acquiring
// references to left and right. The returned tree has refcount 1.
func NewInfix(operator string, left, right *Tree) *Tree {
	t := &Tree{Kind: INFIX, Pos: NoPos, Operator: operator, Left: Acquire(left), Right: Acquire(right)}
	return trackNew(t)
}

// WithPos returns t with its position set to pos. t is returned unchanged
// (trees are mutated only through this kind of narrow, single-owner fixup
// performed right after construction, never once shared).
func (t *Tree) WithPos(pos Position) *Tree {
	if t == nil {
		return t
	}
	t.Pos = pos
	return t
}

// IsLeaf reports whether t is one of the four childless kinds.
func (t *Tree) IsLeaf() bool {
	switch t.Kind {
	case NATURAL, REAL, TEXT, NAME:
		return true
	default:
		return false
	}
}
