package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlr-lang/xlr/core"
)

func mustNat(n int64) *core.Tree { return core.NewNaturalInt64(n, 10) }

func TestDeclareAndBoundSimpleName(t *testing.T) {
	s := NewRoot()
	name := core.NewName("x")
	val := mustNat(10)
	defer core.Release(name)
	defer core.Release(val)

	_, err := Declare(s, name, val)
	require.NoError(t, err)

	got, owner, ok := Bound(s, "x")
	require.True(t, ok)
	assert.Same(t, s, owner)
	assert.True(t, core.Equal(got, val))
}

func TestDeclareDuplicateIsReportedAndRetained(t *testing.T) {
	s := NewRoot()
	name := core.NewName("x")
	v1, v2 := mustNat(1), mustNat(2)
	defer core.Release(name)
	defer core.Release(v1)
	defer core.Release(v2)

	_, err := Declare(s, name, v1)
	require.NoError(t, err)

	_, err = Declare(s, name, v2)
	require.Error(t, err)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)

	got, _, ok := Bound(s, "x")
	require.True(t, ok)
	assert.True(t, core.Equal(got, v1), "old binding must be retained on duplicate declaration")
}

func TestDeclareIsIdempotentUnderRepeatedAttempt(t *testing.T) {
	s := NewRoot()
	name := core.NewName("x")
	v := mustNat(7)
	defer core.Release(name)
	defer core.Release(v)

	_, err1 := Declare(s, name, v)
	require.NoError(t, err1)
	_, err2 := Declare(s, name, v)
	require.Error(t, err2)

	got, _, ok := Bound(s, "x")
	require.True(t, ok)
	assert.True(t, core.Equal(got, v))
}

func TestDefineOverwriteReplacesBody(t *testing.T) {
	s := NewRoot()
	name := core.NewName("x")
	v1, v2 := mustNat(1), mustNat(2)
	defer core.Release(name)
	defer core.Release(v1)
	defer core.Release(v2)

	_, err := Declare(s, name, v1)
	require.NoError(t, err)

	_, err = Define(s, name, v2, true)
	require.NoError(t, err)

	got, _, ok := Bound(s, "x")
	require.True(t, ok)
	assert.True(t, core.Equal(got, v2))
}

func TestBoundWalksUpToParent(t *testing.T) {
	root := NewRoot()
	name := core.NewName("x")
	val := mustNat(5)
	defer core.Release(name)
	defer core.Release(val)

	_, err := Declare(root, name, val)
	require.NoError(t, err)

	child := EnterScope(root)
	got, owner, ok := Bound(child, "x")
	require.True(t, ok)
	assert.Same(t, root, owner)
	assert.True(t, core.Equal(got, val))
}

func TestBoundInnermostShadowsOuter(t *testing.T) {
	root := NewRoot()
	nameOuter := core.NewName("x")
	outer := mustNat(1)
	defer core.Release(nameOuter)
	defer core.Release(outer)
	_, err := Declare(root, nameOuter, outer)
	require.NoError(t, err)

	child := EnterScope(root)
	nameInner := core.NewName("x")
	inner := mustNat(2)
	defer core.Release(nameInner)
	defer core.Release(inner)
	_, err = Declare(child, nameInner, inner)
	require.NoError(t, err)

	got, owner, ok := Bound(child, "x")
	require.True(t, ok)
	assert.Same(t, child, owner)
	assert.True(t, core.Equal(got, inner))
}

func TestBoundMissingNameFails(t *testing.T) {
	s := NewRoot()
	_, _, ok := Bound(s, "nope")
	assert.False(t, ok)
}

// manyNames forces the hash chain to split across several bits: with 64
// independent names inserted, collisions routing purely on the top bits
// are exceedingly unlikely, but the chain must still resolve every one
// correctly regardless of how deep any particular split goes.
func TestHashChainManyDistinctNames(t *testing.T) {
	s := NewRoot()
	const n = 200
	names := make([]string, n)
	for i := 0; i < n; i++ {
		names[i] = randomishName(i)
	}

	for i, nm := range names {
		pat := core.NewName(nm)
		val := mustNat(int64(i))
		_, err := Declare(s, pat, val)
		require.NoError(t, err)
		core.Release(pat)
		core.Release(val)
	}

	for i, nm := range names {
		got, _, ok := Bound(s, nm)
		require.True(t, ok, "missing %q", nm)
		want := mustNat(int64(i))
		assert.True(t, core.Equal(got, want), "name %q", nm)
		core.Release(want)
	}
}

func randomishName(i int) string {
	letters := "abcdefghijklmnopqrstuvwxyz"
	b := []byte{letters[i%26], letters[(i/26)%26], letters[(i/676)%26]}
	return string(b)
}

func TestSameNameOverloadsBothReachableViaLookup(t *testing.T) {
	s := NewRoot()

	zero := core.NewNaturalInt64(0, 10)
	zeroPattern := core.NewPrefix(core.NewName("factorial"), zero)
	zeroBody := mustNat(1)
	defer core.Release(zero)
	defer core.Release(zeroPattern)
	defer core.Release(zeroBody)

	nParam := core.NewName("N")
	nPattern := core.NewPrefix(core.NewName("factorial"), nParam)
	nBody := core.NewName("N") // stand-in body, irrelevant to this test
	defer core.Release(nParam)
	defer core.Release(nPattern)
	defer core.Release(nBody)

	_, err := Declare(s, zeroPattern, zeroBody)
	require.NoError(t, err)
	_, err = Declare(s, nPattern, nBody)
	require.NoError(t, err)

	callZero := core.NewPrefix(core.NewName("factorial"), core.NewNaturalInt64(0, 10))
	defer core.Release(callZero)

	var seen []*core.Tree
	Lookup(s, callZero, func(candidate *Rewrite, declaredIn *Scope) bool {
		seen = append(seen, candidate.Pattern())
		return false
	})

	require.Len(t, seen, 2)
	assert.True(t, core.Equal(seen[0], zeroPattern), "lexical (insertion) order: 0 before N")
	assert.True(t, core.Equal(seen[1], nPattern))
}

func TestLookupStopsWhenVisitorReturnsTrue(t *testing.T) {
	s := NewRoot()

	zero := core.NewNaturalInt64(0, 10)
	zeroPattern := core.NewPrefix(core.NewName("factorial"), zero)
	zeroBody := mustNat(1)
	defer core.Release(zero)
	defer core.Release(zeroPattern)
	defer core.Release(zeroBody)

	nParam := core.NewName("N")
	nPattern := core.NewPrefix(core.NewName("factorial"), nParam)
	nBody := core.NewName("N")
	defer core.Release(nParam)
	defer core.Release(nPattern)
	defer core.Release(nBody)

	_, err := Declare(s, zeroPattern, zeroBody)
	require.NoError(t, err)
	_, err = Declare(s, nPattern, nBody)
	require.NoError(t, err)

	call := core.NewPrefix(core.NewName("factorial"), core.NewNaturalInt64(0, 10))
	defer core.Release(call)

	count := 0
	Lookup(s, call, func(candidate *Rewrite, declaredIn *Scope) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)
}

func TestAsTreeRoundTripsShape(t *testing.T) {
	root := NewRoot()
	name := core.NewName("x")
	val := mustNat(1)
	defer core.Release(name)
	defer core.Release(val)
	_, err := Declare(root, name, val)
	require.NoError(t, err)

	tree := root.AsTree()
	defer core.Release(tree)
	require.Equal(t, core.INFIX, tree.Kind)
	require.Equal(t, core.BLOCK, tree.Right.Kind)
}

func TestDeclareMutableUsesAssignOperator(t *testing.T) {
	s := NewRoot()
	name := core.NewName("counter")
	val := mustNat(0)
	defer core.Release(name)
	defer core.Release(val)

	rw, err := DeclareMutable(s, name, val)
	require.NoError(t, err)
	assert.Equal(t, ":=", rw.Operator())

	got, _, ok := Bound(s, "counter")
	require.True(t, ok)
	assert.True(t, core.Equal(got, val))
}

func TestRedefineMutatesOwningScopeNotShadow(t *testing.T) {
	root := NewRoot()
	name := core.NewName("counter")
	v0 := mustNat(0)
	defer core.Release(name)
	defer core.Release(v0)
	_, err := DeclareMutable(root, name, v0)
	require.NoError(t, err)

	child := EnterScope(root)
	_, owner, ok := Bound(child, "counter")
	require.True(t, ok)

	v1 := mustNat(1)
	defer core.Release(v1)
	nameAgain := core.NewName("counter")
	defer core.Release(nameAgain)
	_, err = Redefine(owner, nameAgain, v1)
	require.NoError(t, err)

	got, gotOwner, ok := Bound(child, "counter")
	require.True(t, ok)
	assert.Same(t, root, gotOwner)
	assert.True(t, core.Equal(got, v1))
}
