// Package builtins assembles the process-wide table of built-in names
// and native operators that every evaluation scope descends from: the
// canonical true/false names, and the native arithmetic, comparison and
// text rewrites that the tree-walking interpreter alone cannot express
// as ordinary declared rewrites (there is no way to pattern-match "any
// two naturals" without already having addition to fall back on).
//
// Native-function registration happens once at process startup, one
// closure per operator, registered through
// internal/eval.RegisterInfixNative rather than a single opcode-keyed
// dispatch table.
package builtins

import (
	"math/big"

	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/eval"
	"github.com/xlr-lang/xlr/internal/scope"
)

var trueName = core.NewName("true")
var falseName = core.NewName("false")

func boolTree(b bool) *core.Tree {
	if b {
		return core.Acquire(trueName)
	}
	return core.Acquire(falseName)
}

// NewRootScope returns a fresh root scope with true/false declared and
// every native arithmetic/comparison/text operator registered, ready to
// be the ancestor of a program's evaluation scopes.
func NewRootScope() *scope.Scope {
	root := scope.NewRoot()
	Install(root)
	return root
}

// Run evaluates expr against a fresh root scope built by NewRootScope,
// a single-call convenience wrapper around Evaluate/Context for
// straight-line callers (a CLI one-shot `eval` invocation, a test, a
// REPL line) that don't need to hold the root scope open across
// multiple evaluations.
func Run(expr *core.Tree, maxDepth int) (*core.Tree, *eval.Context) {
	root := NewRootScope()
	ctx := eval.NewContext(maxDepth)
	return eval.Evaluate(ctx, root, expr), ctx
}

// Install declares true/false into root and registers the native
// operator table. This is a process-wide side effect: internal/eval's
// native table is shared across every scope. Calling it more than once
// is harmless — Declare on an already-declared name is a no-op from the
// caller's perspective (the existing binding wins) and
// RegisterInfixNative simply overwrites the same closure with an
// equivalent one.
func Install(root *scope.Scope) {
	declareSelf(root, trueName)
	declareSelf(root, falseName)
	registerArithmetic()
	registerComparisons()
	registerText()
}

func declareSelf(root *scope.Scope, name *core.Tree) {
	_, _ = scope.Declare(root, name, name)
}

func registerArithmetic() {
	eval.RegisterInfixNative("+", numeric(
		func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) },
		func(a, b float64) float64 { return a + b },
	))
	eval.RegisterInfixNative("-", numeric(
		func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) },
		func(a, b float64) float64 { return a - b },
	))
	eval.RegisterInfixNative("*", numeric(
		func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) },
		func(a, b float64) float64 { return a * b },
	))
	eval.RegisterInfixNative("/", divide)
	eval.RegisterInfixNative("mod", modulo)
}

// numeric builds a native that applies natOp to two Natural operands or
// realOp to any other pair of numeric operands (a Natural mixed with a
// Real is converted to Real); a non-numeric operand reports ok=false and
// lets the expression self-evaluate.
func numeric(natOp func(a, b *big.Int) *big.Int, realOp func(a, b float64) float64) eval.NativeInfix {
	return func(left, right *core.Tree) (*core.Tree, bool) {
		switch {
		case left.Kind == core.NATURAL && right.Kind == core.NATURAL:
			base := left.NaturalBase
			return core.NewNatural(natOp(left.Natural, right.Natural), base), true
		case isNumeric(left) && isNumeric(right):
			return core.NewReal(realOp(asFloat(left), asFloat(right))), true
		default:
			return nil, false
		}
	}
}

func divide(left, right *core.Tree) (*core.Tree, bool) {
	if left.Kind == core.NATURAL && right.Kind == core.NATURAL {
		if right.Natural.Sign() == 0 {
			return nil, false
		}
		q := new(big.Int).Div(left.Natural, right.Natural)
		return core.NewNatural(q, left.NaturalBase), true
	}
	if isNumeric(left) && isNumeric(right) {
		r := asFloat(right)
		if r == 0 {
			return nil, false
		}
		return core.NewReal(asFloat(left) / r), true
	}
	return nil, false
}

func modulo(left, right *core.Tree) (*core.Tree, bool) {
	if left.Kind != core.NATURAL || right.Kind != core.NATURAL || right.Natural.Sign() == 0 {
		return nil, false
	}
	m := new(big.Int).Mod(left.Natural, right.Natural)
	return core.NewNatural(m, left.NaturalBase), true
}

func isNumeric(t *core.Tree) bool {
	return t != nil && (t.Kind == core.NATURAL || t.Kind == core.REAL)
}

func asFloat(t *core.Tree) float64 {
	if t.Kind == core.NATURAL {
		f := new(big.Float).SetInt(t.Natural)
		v, _ := f.Float64()
		return v
	}
	return t.Real
}

func registerComparisons() {
	eval.RegisterInfixNative("<", compareNumeric(func(c int) bool { return c < 0 }))
	eval.RegisterInfixNative(">", compareNumeric(func(c int) bool { return c > 0 }))
	eval.RegisterInfixNative("<=", compareNumeric(func(c int) bool { return c <= 0 }))
	eval.RegisterInfixNative(">=", compareNumeric(func(c int) bool { return c >= 0 }))
	eval.RegisterInfixNative("=", equality(true))
	eval.RegisterInfixNative("<>", equality(false))
}

func compareNumeric(accept func(cmp int) bool) eval.NativeInfix {
	return func(left, right *core.Tree) (*core.Tree, bool) {
		if left.Kind == core.NATURAL && right.Kind == core.NATURAL {
			return boolTree(accept(left.Natural.Cmp(right.Natural))), true
		}
		if isNumeric(left) && isNumeric(right) {
			a, b := asFloat(left), asFloat(right)
			switch {
			case a < b:
				return boolTree(accept(-1)), true
			case a > b:
				return boolTree(accept(1)), true
			default:
				return boolTree(accept(0)), true
			}
		}
		return nil, false
	}
}

func equality(wantEqual bool) eval.NativeInfix {
	return func(left, right *core.Tree) (*core.Tree, bool) {
		return boolTree(core.Equal(left, right) == wantEqual), true
	}
}

func registerText() {
	eval.RegisterInfixNative("&", concatText)
}

func concatText(left, right *core.Tree) (*core.Tree, bool) {
	if left.Kind != core.TEXT || right.Kind != core.TEXT {
		return nil, false
	}
	return core.NewText(left.Text+right.Text, left.Opening, left.Closing), true
}
