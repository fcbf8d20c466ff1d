package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/xlr-lang/xlr/core"
)

// TreeRenderer turns a tree into bounded-width text for embedding in a
// diagnostic message. The real pretty-printer is left to an external
// collaborator; Short is this package's fallback so a Diagnostic can always
// be rendered standalone in tests and simple CLI paths.
type TreeRenderer func(t *core.Tree, width int) string

// ActiveRenderer is consulted by Render; callers that have a richer
// renderer (e.g. the CLI's pretty-printer) may replace it at startup.
var ActiveRenderer TreeRenderer = Short

const defaultWidth = 60

// Short renders t as compact surface-ish text, truncated to width columns
// with an ellipsis. It does not attempt to reproduce original formatting —
// only enough structure to make a diagnostic's substituted arguments
// legible.
func Short(t *core.Tree, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	s := shortAny(t)
	if len(s) > width {
		if width <= 1 {
			return s[:width]
		}
		s = s[:width-1] + "…"
	}
	return s
}

func shortAny(t *core.Tree) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case core.NATURAL:
		return t.Natural.String()
	case core.REAL:
		return strconv.FormatFloat(t.Real, 'g', -1, 64)
	case core.TEXT:
		return t.Opening + t.Text + t.Closing
	case core.NAME:
		return t.Name
	case core.BLOCK:
		return t.Opening + shortAny(t.Child) + t.Closing
	case core.PREFIX:
		return shortAny(t.Left) + " " + shortAny(t.Right)
	case core.POSTFIX:
		return shortAny(t.Left) + shortAny(t.Right)
	case core.INFIX:
		return shortAny(t.Left) + " " + t.Operator + " " + shortAny(t.Right)
	default:
		return "?"
	}
}

// Render substitutes $1, $2, … in d.Message with d.Args rendered through
// ActiveRenderer, then appends d.Notes indented by two spaces.
func Render(d Diagnostic) string {
	msg := d.Message
	for i := len(d.Args); i >= 1; i-- {
		placeholder := "$" + strconv.Itoa(i)
		msg = strings.ReplaceAll(msg, placeholder, ActiveRenderer(d.Args[i-1], defaultWidth))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d: %s", d.Pos, msg)
	for _, note := range d.Notes {
		for _, line := range strings.Split(note, "\n") {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}
	return b.String()
}

// Display writes every diagnostic in e, outermost frame first, one per
// line in the "pos: message" form Render produces.
func Display(w io.Writer, e *Errors) {
	for _, d := range e.All() {
		fmt.Fprintln(w, Render(d))
	}
}

// DuplicateNote renders a unified diff between an existing declaration's
// body and the one that collided with it, for attaching to a
// CodeDuplicateDecl Diagnostic's Notes.
func DuplicateNote(oldBody, newBody *core.Tree) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Short(oldBody, 1<<20)),
		B:        difflib.SplitLines(Short(newBody, 1<<20)),
		FromFile: "existing",
		ToFile:   "new",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("existing: %s; new: %s", Short(oldBody, defaultWidth), Short(newBody, defaultWidth))
	}
	return strings.TrimRight(text, "\n")
}
