package scope

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/syntax"
)

func isSeparator(t *core.Tree) bool {
	return t != nil && t.Kind == core.INFIX && t.Operator == syntax.RewriteSeparator
}

// findExact walks the same hash path a declaration of key would take and
// reports the existing Rewrite whose pattern is structurally identical to
// pattern, if any. Beyond hashBits the frame degenerates into a flat chain
// (same defining-name overloads, or a true hash collision); findExact
// scans it linearly.
func findExact(node *core.Tree, h uint64, bitIndex int, pattern *core.Tree) *Rewrite {
	if node == nil {
		return nil
	}
	if isSeparator(node) {
		if bitIndex >= hashBits {
			if r := findExact(node.Left, h, bitIndex, pattern); r != nil {
				return r
			}
			return findExact(node.Right, h, bitIndex, pattern)
		}
		if bitAt(h, bitIndex) == 0 {
			return findExact(node.Left, h, bitIndex+1, pattern)
		}
		return findExact(node.Right, h, bitIndex+1, pattern)
	}

	rw := rewriteFromLeaf(node)
	if rw == nil {
		return nil
	}
	if core.Equal(rw.Pattern(), pattern) {
		return rw
	}
	return nil
}

// splitAndInsert builds the subtree holding both existing and newLeaf once
// their hashes are known to share every bit consumed so far, by
// interposing a separator. It recurses one bit at a time until the hashes
// diverge, or the hash width is exhausted — at which point both entries
// chain under one more separator (same-name overloads, preserving
// insertion order within the hash-chained tree).
func splitAndInsert(existing *core.Tree, existingHash uint64, bitIndex int, newLeaf *core.Tree, newHash uint64) *core.Tree {
	if bitIndex >= hashBits {
		return core.NewInfix(syntax.RewriteSeparator, existing, newLeaf)
	}

	eBit, nBit := bitAt(existingHash, bitIndex), bitAt(newHash, bitIndex)
	if eBit != nBit {
		if nBit == 0 {
			return core.NewInfix(syntax.RewriteSeparator, newLeaf, existing)
		}
		return core.NewInfix(syntax.RewriteSeparator, existing, newLeaf)
	}

	child := splitAndInsert(existing, existingHash, bitIndex+1, newLeaf, newHash)
	defer core.Release(child)
	if eBit == 0 {
		return core.NewInfix(syntax.RewriteSeparator, child, nil)
	}
	return core.NewInfix(syntax.RewriteSeparator, nil, child)
}

// insertAt returns the frame node that results from inserting newLeaf
// (already known, via findExact, to not be an exact-pattern duplicate)
// into node, which is keyed at bitIndex of h. The caller owns the
// returned tree; node's own reference is consumed (released) by this
// call if it is replaced.
func insertAt(node *core.Tree, h uint64, bitIndex int, newLeaf *core.Tree) *core.Tree {
	if node == nil {
		return core.Acquire(newLeaf)
	}

	if isSeparator(node) {
		if bitIndex >= hashBits {
			// Flat chain: append at the tail so declaration order is
			// preserved.
			newRight := insertAt(node.Right, h, bitIndex, newLeaf)
			out := core.NewInfix(syntax.RewriteSeparator, node.Left, newRight)
			core.Release(newRight)
			return out
		}
		if bitAt(h, bitIndex) == 0 {
			newLeft := insertAt(node.Left, h, bitIndex+1, newLeaf)
			out := core.NewInfix(syntax.RewriteSeparator, newLeft, node.Right)
			core.Release(newLeft)
			return out
		}
		newRight := insertAt(node.Right, h, bitIndex+1, newLeaf)
		out := core.NewInfix(syntax.RewriteSeparator, node.Left, newRight)
		core.Release(newRight)
		return out
	}

	// node is a bare Rewrite leaf with a different pattern (findExact
	// already ruled out an exact match): split by its own hash.
	existingRw := rewriteFromLeaf(node)
	existingHash := hashKey(syntax.Key(existingRw.Pattern()))
	return splitAndInsert(node, existingHash, bitIndex, newLeaf, h)
}

// replaceAt rebuilds node with the leaf whose pattern is structurally
// equal to pattern replaced by newLeaf (the overwrite path of Define).
func replaceAt(node *core.Tree, h uint64, bitIndex int, pattern, newLeaf *core.Tree) *core.Tree {
	if node == nil {
		return nil
	}
	if isSeparator(node) {
		if bitIndex >= hashBits {
			newLeft := replaceAt(node.Left, h, bitIndex, pattern, newLeaf)
			newRight := replaceAt(node.Right, h, bitIndex, pattern, newLeaf)
			out := core.NewInfix(syntax.RewriteSeparator, newLeft, newRight)
			core.Release(newLeft)
			core.Release(newRight)
			return out
		}
		if bitAt(h, bitIndex) == 0 {
			newLeft := replaceAt(node.Left, h, bitIndex+1, pattern, newLeaf)
			out := core.NewInfix(syntax.RewriteSeparator, newLeft, node.Right)
			core.Release(newLeft)
			return out
		}
		newRight := replaceAt(node.Right, h, bitIndex+1, pattern, newLeaf)
		out := core.NewInfix(syntax.RewriteSeparator, node.Left, newRight)
		core.Release(newRight)
		return out
	}

	rw := rewriteFromLeaf(node)
	if rw != nil && core.Equal(rw.Pattern(), pattern) {
		return core.Acquire(newLeaf)
	}
	return core.Acquire(node)
}

// walkAll invokes visit(rewrite) for every Rewrite reachable along the
// hash path of h, in lexical (in-order, declaration) order, stopping early
// if visit returns false. Used by Bound (single-name lookup) and Lookup
// (pattern candidates) alike.
func walkAll(node *core.Tree, h uint64, bitIndex int, visit func(*Rewrite) bool) bool {
	if node == nil {
		return true
	}
	if isSeparator(node) {
		if bitIndex >= hashBits {
			if !walkAll(node.Left, h, bitIndex, visit) {
				return false
			}
			return walkAll(node.Right, h, bitIndex, visit)
		}
		if bitAt(h, bitIndex) == 0 {
			return walkAll(node.Left, h, bitIndex+1, visit)
		}
		return walkAll(node.Right, h, bitIndex+1, visit)
	}

	rw := rewriteFromLeaf(node)
	if rw == nil {
		return true
	}
	return visit(rw)
}
