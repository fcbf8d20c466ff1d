package core

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ignorePosition is a cmp.Comparer for *Tree that defers to Equal instead
// of letting cmp recurse field by field — Tree's refcount and info fields
// are unexported (cmp would otherwise panic on them), and Equal already
// encodes the right notion of equality: same structure, position ignored.
var ignorePosition = cmp.Comparer(func(a, b *Tree) bool { return Equal(a, b) })

func TestNewLeaves(t *testing.T) {
	n := NewNaturalInt64(42, 10)
	require.NotNil(t, n)
	assert.Equal(t, NATURAL, n.Kind)
	assert.Equal(t, "42", n.Natural.String())
	Release(n)

	r := NewReal(3.5)
	assert.Equal(t, REAL, r.Kind)
	Release(r)

	text := NewText("hello", `"`, `"`)
	assert.Equal(t, "hello", text.Text)
	Release(text)

	name := NewName("foo")
	assert.Equal(t, "foo", name.Name)
	Release(name)
}

func TestRefcountBalance(t *testing.T) {
	before := ArenaStats()

	left := NewName("X")
	right := NewNaturalInt64(1, 10)
	infix := NewInfix("+", left, right)
	Release(left)
	Release(right)

	Release(infix)

	after := ArenaStats()
	assert.Equal(t, before.Live, after.Live, "live node count must return to baseline once every reference is released")
}

func TestAcquireReleaseNil(t *testing.T) {
	assert.Nil(t, Acquire(nil))
	assert.NotPanics(t, func() { Release(nil) })
}

func TestAssignPreservesOldUntilSwap(t *testing.T) {
	var slot *Tree
	first := NewNaturalInt64(1, 10)
	Assign(&slot, first)
	Release(first) // caller's own reference; slot holds its own now

	require.NotNil(t, LoadSlot(&slot))
	one := NewNaturalInt64(1, 10)
	assert.True(t, Equal(LoadSlot(&slot), one))
	Release(one)

	second := NewNaturalInt64(2, 10)
	Assign(&slot, second)
	Release(second)

	assert.Equal(t, int64(2), LoadSlot(&slot).Natural.Int64())

	Release(slot)
}

func TestEqualIgnoresPositionAndInfo(t *testing.T) {
	a := NewName("foo").WithPos(1)
	b := NewName("foo").WithPos(99)
	Attach(a, &testInfo{label: "only on a"})
	assert.True(t, Equal(a, b))
	Release(a)
	Release(b)
}

func TestEqualDistinguishesKindsAndPayloads(t *testing.T) {
	a := NewNaturalInt64(1, 10)
	b := NewReal(1)
	assert.False(t, Equal(a, b))
	Release(a)
	Release(b)

	x := NewInfix("+", NewName("A"), NewName("B"))
	y := NewInfix("-", NewName("A"), NewName("B"))
	assert.False(t, Equal(x, y))
	Release(x)
	Release(y)
}

func TestCloneIsIndependent(t *testing.T) {
	original := NewInfix("+", NewName("A"), NewNaturalInt64(1, 10))
	clone := Clone(original)

	assert.True(t, Equal(original, clone))
	assert.NotSame(t, original, clone)
	assert.NotSame(t, original.Left, clone.Left)

	Release(original)
	Release(clone)
}

func TestWalkOrder(t *testing.T) {
	a, b := NewName("A"), NewName("B")
	infix := NewInfix("+", a, b)

	var visited []string
	Walk(infix, func(tr *Tree) {
		switch tr.Kind {
		case NAME:
			visited = append(visited, tr.Name)
		case INFIX:
			visited = append(visited, tr.Operator)
		}
	})

	assert.Equal(t, []string{"A", "B", "+"}, visited)
	Release(infix)
}

func TestInfoAttachGetDrop(t *testing.T) {
	n := NewName("foo")
	defer Release(n)

	_, ok := GetInfo[*testInfo](n)
	assert.False(t, ok)

	Attach(n, &testInfo{label: "one"})
	Attach(n, &testInfo{label: "two"})

	got, ok := GetInfo[*testInfo](n)
	require.True(t, ok)
	assert.Equal(t, "two", got.label, "most recently attached Info is returned first")

	assert.True(t, DropInfo[*testInfo](n))
	got, ok = GetInfo[*testInfo](n)
	require.True(t, ok)
	assert.Equal(t, "one", got.label)

	assert.True(t, DropInfo[*testInfo](n))
	_, ok = GetInfo[*testInfo](n)
	assert.False(t, ok)
	assert.False(t, DropInfo[*testInfo](n))
}

type testInfo struct{ label string }

func (*testInfo) infoMarker() {}

func newAddXOne() *Tree {
	return NewInfix("+", NewName("X"), NewNaturalInt64(1, 10))
}

func TestCmpComparerTreatsDifferingPositionsAsEqual(t *testing.T) {
	a := newAddXOne().WithPos(1)
	b := newAddXOne().WithPos(2)
	defer Release(a)
	defer Release(b)

	if diff := cmp.Diff(a, b, ignorePosition); diff != "" {
		t.Errorf("trees differing only by position should compare equal: %s", diff)
	}

	c := NewInfix("-", NewName("X"), NewNaturalInt64(1, 10))
	defer Release(c)
	if diff := cmp.Diff(a, c, ignorePosition); diff == "" {
		t.Errorf("structurally different trees must not compare equal")
	}
}

func TestBigNaturalBases(t *testing.T) {
	big16, _ := new(big.Int).SetString("ff", 16)
	n := NewNatural(big16, 16)
	defer Release(n)
	assert.Equal(t, 255, int(n.Natural.Int64()))
	assert.Equal(t, 16, n.NaturalBase)
}
