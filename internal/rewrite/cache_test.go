package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/scope"
)

func nat(n int64) *core.Tree { return core.NewNaturalInt64(n, 10) }

func declarePrefix(t *testing.T, s *scope.Scope, head string, param *core.Tree, body *core.Tree) *core.Tree {
	t.Helper()
	headName := core.NewName(head)
	pattern := core.NewPrefix(headName, param)
	defer core.Release(headName)
	defer core.Release(pattern)
	_, err := scope.Declare(s, pattern, body)
	require.NoError(t, err)
	return pattern
}

func TestBuildOrGetCollectsNonFailedCandidate(t *testing.T) {
	s := scope.NewRoot()
	paramN := core.NewName("N")
	body := core.NewName("N")
	defer core.Release(paramN)
	defer core.Release(body)
	declarePrefix(t, s, "double", paramN, body)

	headCall := core.NewName("double")
	arg := nat(21)
	call := core.NewPrefix(headCall, arg)
	defer core.Release(headCall)
	defer core.Release(arg)
	defer core.Release(call)

	calls := BuildOrGet(call, s, nil)
	require.Len(t, calls.Candidates, 1)
	assert.NotEqual(t, 0, int(calls.Candidates[0].Match.Strength))
}

func TestBuildOrGetDiscardsFailedCandidate(t *testing.T) {
	s := scope.NewRoot()
	zero := nat(0)
	body := nat(1)
	defer core.Release(zero)
	defer core.Release(body)
	declarePrefix(t, s, "factorial", zero, body)

	headCall := core.NewName("factorial")
	arg := core.NewText("five", `"`, `"`) // a text literal can never equal the natural literal 0
	call := core.NewPrefix(headCall, arg)
	defer core.Release(headCall)
	defer core.Release(arg)
	defer core.Release(call)

	calls := BuildOrGet(call, s, nil)
	assert.Empty(t, calls.Candidates)
}

func TestBuildOrGetIsMonotonicAcrossCalls(t *testing.T) {
	s := scope.NewRoot()
	paramN := core.NewName("N")
	body := core.NewName("N")
	defer core.Release(paramN)
	defer core.Release(body)
	declarePrefix(t, s, "id", paramN, body)

	headCall := core.NewName("id")
	arg := nat(1)
	call := core.NewPrefix(headCall, arg)
	defer core.Release(headCall)
	defer core.Release(arg)
	defer core.Release(call)

	first := BuildOrGet(call, s, nil)

	// Declaring a second overload after the first build must not be
	// reflected: the cache is monotonic.
	paramM := core.NewName("M")
	body2 := core.NewName("M")
	defer core.Release(paramM)
	defer core.Release(body2)
	declarePrefix(t, s, "id", paramM, body2)

	second := BuildOrGet(call, s, nil)
	assert.Same(t, first, second)
	assert.Len(t, second.Candidates, 1)
}

func TestGetReportsMissBeforeBuild(t *testing.T) {
	call := core.NewName("never-built")
	defer core.Release(call)

	_, ok := Get(call)
	assert.False(t, ok)
}

func TestCacheClosesOnHostTreeRelease(t *testing.T) {
	s := scope.NewRoot()
	// `abs N when N > 0` produces a match with an owned synthetic `true`
	// literal in its Conditions, exercising Close's cleanup path.
	absCall := core.NewPrefix(core.NewName("abs"), core.NewName("N"))
	guard := core.NewInfix(">", core.NewName("N"), nat(0))
	pattern := core.NewInfix("when", absCall, guard)
	defer core.Release(absCall.Left)
	defer core.Release(absCall.Right)
	defer core.Release(absCall)
	defer core.Release(guard.Left)
	defer core.Release(guard.Right)
	defer core.Release(guard)
	body := core.NewName("N")
	defer core.Release(body)
	_, err := scope.Declare(s, pattern, body)
	require.NoError(t, err)
	core.Release(pattern)

	headCall := core.NewName("abs")
	arg := nat(5)
	call := core.NewPrefix(headCall, arg)
	defer core.Release(headCall)
	defer core.Release(arg)

	calls := BuildOrGet(call, s, nil)
	require.Len(t, calls.Candidates, 1)

	core.Release(call) // drops call to refcount 0, runs dropAllInfo -> Calls.Close()
}
