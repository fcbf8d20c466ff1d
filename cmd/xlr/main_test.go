package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandHasExpectedSubcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["eval"])
	assert.True(t, names["trace"])
	assert.True(t, names["bench"])
}

func TestEvalCommandPrintsReducedResult(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"eval", "(+ 2 3)"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "5\n", out.String())
}

func TestEvalCommandHonorsMaxDepthFlag(t *testing.T) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)

	// declare `loop N is loop N`, an unconditional infinite recursion,
	// then call it — the configured max-depth must cut it off with a
	// diagnostic rather than hang.
	program := "(; (is (prefix loop N) (prefix loop N)) (prefix loop 1))"
	root.SetArgs([]string{"eval", "--max-depth=2", program})

	require.NoError(t, root.Execute())
	assert.NotEmpty(t, errOut.String())
}

func TestBenchCommandReportsIterationCount(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"bench", "-n", "5", "(+ 1 1)"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "5 evaluations")
}
