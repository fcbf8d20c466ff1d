package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlr-lang/xlr/core"
)

func TestReportAccumulatesInTopFrame(t *testing.T) {
	e := New()
	assert.False(t, e.HadErrors())

	e.Report(CodeNoMatch, "no candidate matched", core.NoPos)
	assert.True(t, e.HadErrors())
	assert.False(t, e.IsFatal())
	require.Len(t, e.All(), 1)
}

func TestFatalSetsMarkerAndStillRecords(t *testing.T) {
	e := New()
	e.Fatal(CodeStackOverflow, "too deep", core.NoPos)
	e.Report(CodeNoMatch, "trailing, non-fatal", core.NoPos)

	assert.True(t, e.IsFatal())
	require.Len(t, e.All(), 2)
}

func TestFirstFatalWins(t *testing.T) {
	e := New()
	first := e.Fatal(CodeStackOverflow, "first", core.NoPos)
	second := e.Fatal(CodeAllocFailure, "second", core.NoPos)

	assert.True(t, first.Fatal)
	assert.True(t, second.Fatal) // both diagnostics keep their own Fatal flag
	assert.True(t, e.IsFatal())
	require.Len(t, e.All(), 2) // but nothing was dropped; "first wins" is about abort timing
}

func TestDiscardDropsFrameDiagnostics(t *testing.T) {
	e := New()
	e.Push()
	e.Report(CodeTypeMismatch, "speculative failure", core.NoPos)
	e.Discard()

	assert.False(t, e.HadErrors())
}

func TestMergeKeepsFrameDiagnostics(t *testing.T) {
	e := New()
	e.Push()
	e.Report(CodeGuardFailed, "guard was false", core.NoPos)
	e.Merge()

	require.True(t, e.HadErrors())
	require.Len(t, e.All(), 1)
	assert.Equal(t, CodeGuardFailed, e.All()[0].Code)
}

func TestMergePropagatesFatalMarker(t *testing.T) {
	e := New()
	e.Push()
	e.Fatal(CodeStackOverflow, "deep", core.NoPos)
	e.Merge()

	assert.True(t, e.IsFatal())
}

func TestDiagnosticUnwrapMatchesSentinel(t *testing.T) {
	d := Diagnostic{Code: CodeNoMatch, Message: "m", Pos: core.NoPos}
	assert.True(t, errors.Is(d, ErrNoMatch))
	assert.False(t, errors.Is(d, ErrTypeMismatch))
}

func TestRenderSubstitutesArgsInOrder(t *testing.T) {
	a := core.NewName("foo")
	b := core.NewNaturalInt64(3, 10)
	defer core.Release(a)
	defer core.Release(b)

	d := Diagnostic{Code: CodeTypeMismatch, Message: "$1 does not accept $2", Pos: 7, Args: []*core.Tree{a, b}}
	out := Render(d)
	assert.Contains(t, out, "foo does not accept 3")
	assert.Contains(t, out, "7:")
}

func TestRenderAppendsIndentedNotes(t *testing.T) {
	d := Diagnostic{Code: CodeDuplicateDecl, Message: "already declared", Pos: core.NoPos, Notes: []string{"line one\nline two"}}
	out := Render(d)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "  "))
	assert.True(t, strings.HasPrefix(lines[2], "  "))
}

func TestShortTruncatesToWidth(t *testing.T) {
	n := core.NewName("a-very-long-identifier-name-that-exceeds-the-budget")
	defer core.Release(n)

	out := Short(n, 10)
	assert.Len(t, []rune(out), 10)
	assert.True(t, strings.HasSuffix(out, "…"))
}

func TestShortRendersInfixWithOperator(t *testing.T) {
	left := core.NewName("A")
	right := core.NewName("B")
	infix := core.NewInfix("+", left, right)
	defer core.Release(left)
	defer core.Release(right)
	defer core.Release(infix)

	assert.Equal(t, "A + B", Short(infix, 60))
}

func TestDuplicateNoteProducesUnifiedDiff(t *testing.T) {
	oldBody := core.NewNaturalInt64(1, 10)
	newBody := core.NewNaturalInt64(2, 10)
	defer core.Release(oldBody)
	defer core.Release(newBody)

	note := DuplicateNote(oldBody, newBody)
	assert.Contains(t, note, "-1")
	assert.Contains(t, note, "+2")
}

func TestDisplayWritesOnePerLine(t *testing.T) {
	e := New()
	e.Report(CodeNoMatch, "first", core.NoPos)
	e.Report(CodeGuardFailed, "second", core.NoPos)

	var b strings.Builder
	Display(&b, e)
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 2)
}

func TestLoggerFiltersBelowThreshold(t *testing.T) {
	l := NewLogger(LevelWarn)
	// No assertion on output content (Logger writes to stderr); this just
	// exercises the filtering path without panicking.
	l.Debug("should be filtered")
	l.Warn("should pass")
}
