package scope

import (
	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/syntax"
)

// Declare inserts pattern/body as a new Rewrite into scope's local frame
// at the position dictated by the hash chain. If an identical pattern is
// already declared, the stored rewrite is left untouched and a
// *DuplicateError is returned alongside it; the old binding is retained.
func Declare(s *Scope, pattern, body *core.Tree) (*Rewrite, error) {
	return declareWith(s, syntax.Is, pattern, body)
}

// DeclareMutable is Declare's `:=` counterpart, used for mutable bindings
// (`N := V`). Kept distinct from Declare so the interpreter's handling of
// `:=` (mutate the nearest visible binding, else create one in the
// current frame) never has to branch on the stored operator to tell a
// rewrite from a mutable binding.
func DeclareMutable(s *Scope, name, value *core.Tree) (*Rewrite, error) {
	return declareWith(s, syntax.Assign, name, value)
}

func declareWith(s *Scope, operator string, pattern, body *core.Tree) (*Rewrite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := hashKey(syntax.Key(pattern))
	if existing := findExact(s.frame, h, 0, pattern); existing != nil {
		return existing, &DuplicateError{Pattern: pattern, Existing: existing}
	}

	rw := NewRewrite(operator, pattern, body)
	newFrame := insertAt(s.frame, h, 0, rw.tree)
	core.Release(s.frame)
	s.frame = newFrame
	return rw, nil
}

// Define is Declare's overwrite-aware counterpart. When overwrite is
// false it behaves exactly like Declare. When overwrite is true and
// pattern is already declared, the existing rewrite's body is replaced in
// place (structurally: a new leaf tree with the same pattern and the new
// body takes over that position in the frame).
func Define(s *Scope, pattern, body *core.Tree, overwrite bool) (*Rewrite, error) {
	if !overwrite {
		return Declare(s, pattern, body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := hashKey(syntax.Key(pattern))
	existing := findExact(s.frame, h, 0, pattern)
	rw := NewRewrite(syntax.Is, pattern, body)

	if existing == nil {
		newFrame := insertAt(s.frame, h, 0, rw.tree)
		core.Release(s.frame)
		s.frame = newFrame
		return rw, nil
	}

	newFrame := replaceAt(s.frame, h, 0, pattern, rw.tree)
	core.Release(s.frame)
	s.frame = newFrame
	return rw, nil
}

// Redefine always overwrites, used by `:=` mutation of an existing
// binding found anywhere up the scope chain: it rewrites the binding in
// place in whichever scope owns it, rather than shadowing.
func Redefine(owner *Scope, name, value *core.Tree) (*Rewrite, error) {
	return Define(owner, name, value, true)
}

// Bound walks scope then its parents, returning the first declared body
// for a plain NAME pattern matching name, or (nil, nil, false).
func Bound(s *Scope, name string) (*core.Tree, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		h := hashKey(name)
		var found *Rewrite
		cur.mu.RLock()
		walkAll(cur.frame, h, 0, func(rw *Rewrite) bool {
			if n, ok := syntax.DefiningName(rw.Pattern()); ok && n == name && rw.Pattern().Kind == core.NAME {
				found = rw
				return false
			}
			return true
		})
		cur.mu.RUnlock()
		if found != nil {
			return found.Body(), cur, true
		}
	}
	return nil, nil, false
}

// Lookup invokes visit(candidate, declaringScope) for every rewrite whose
// pattern's defining-name hashes to a location compatible with pattern's
// defining-name, walking scope then its parents. It stops as soon as
// visit returns true — callers that need every candidate regardless
// should always return false.
func Lookup(s *Scope, pattern *core.Tree, visit func(candidate *Rewrite, declaredIn *Scope) bool) {
	h := hashKey(syntax.Key(pattern))
	for cur := s; cur != nil; cur = cur.Parent {
		stop := false
		cur.mu.RLock()
		walkAll(cur.frame, h, 0, func(rw *Rewrite) bool {
			if visit(rw, cur) {
				stop = true
				return false
			}
			return true
		})
		cur.mu.RUnlock()
		if stop {
			return
		}
	}
}
