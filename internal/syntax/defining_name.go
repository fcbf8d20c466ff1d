package syntax

import (
	"fmt"

	"github.com/xlr-lang/xlr/core"
)

// DefiningName returns the leftmost name of pattern that is not itself a
// parameter marker (the "defining-name" of a pattern):
//
//   - a bare NAME absorbs as its own defining-name ("true" declares "true")
//   - a PREFIX's defining-name is its left child's (the operator position
//     in `foo X`)
//   - a POSTFIX's defining-name is its right child's (the operator
//     position in `X!`)
//   - an INFIX whose operator is structural scaffolding (",", ";", "\n",
//     "as", "when") passes through to its left operand; any other INFIX
//     operator ("+", "mod", a user operator) is itself the defining-name
//   - a BLOCK's defining-name is its child's
//   - a constant (NATURAL/REAL/TEXT) has no name; callers that need to key
//     such a pattern fall back to ConstantKey
func DefiningName(pattern *core.Tree) (string, bool) {
	if pattern == nil {
		return "", false
	}
	switch pattern.Kind {
	case core.NAME:
		return pattern.Name, true
	case core.PREFIX:
		return DefiningName(pattern.Left)
	case core.POSTFIX:
		return DefiningName(pattern.Right)
	case core.INFIX:
		if IsStructural(pattern.Operator) {
			return DefiningName(pattern.Left)
		}
		return pattern.Operator, true
	case core.BLOCK:
		return DefiningName(pattern.Child)
	default:
		return "", false
	}
}

// ConstantKey returns a stable textual key for a constant pattern with no
// defining-name (e.g. the `0` in `factorial 0 is 1`), used as a fallback
// hash key so such patterns can still be declared and looked up.
func ConstantKey(t *core.Tree) string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case core.NATURAL:
		return fmt.Sprintf("#natural:%s", t.Natural.String())
	case core.REAL:
		return fmt.Sprintf("#real:%g", t.Real)
	case core.TEXT:
		return fmt.Sprintf("#text:%s", t.Text)
	default:
		return ""
	}
}

// Key returns the hash key for pattern: its defining-name if it has one,
// else its ConstantKey.
func Key(pattern *core.Tree) string {
	if name, ok := DefiningName(pattern); ok {
		return name
	}
	return ConstantKey(pattern)
}
