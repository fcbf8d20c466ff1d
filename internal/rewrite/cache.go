// Package rewrite implements the per-call-site rewrite candidate cache:
// for an observed call-site tree, the ordered, lexically-scoped list of
// declared rewrites whose pattern doesn't definitely fail to match, built
// once and never invalidated.
//
// Grounded on providers/base/cache.go and providers/golang/cache.go's
// ASTCache (hit/miss counters over a lock-free map, keyed by content
// hash); generalized here from "cache a parse by source hash" to "cache a
// candidate list by call-site tree identity, attached directly to the
// tree via core.Info" — this cache needs no TTL or external map at all,
// since its key and its storage location are the same object, and its
// contents never change once built.
package rewrite

import (
	"sync/atomic"

	"github.com/xlr-lang/xlr/core"
	"github.com/xlr-lang/xlr/internal/matcher"
	"github.com/xlr-lang/xlr/internal/scope"
	"github.com/xlr-lang/xlr/internal/syntax"
)

// Candidate is one rewrite whose pattern did not definitely fail to match
// a call site, paired with the match that produced its bindings,
// conditions and checks.
//
// owned records whether the cache holds a strong reference to Rewrite's
// underlying tree. A candidate declared in an ancestor scope of the call
// site's own host (the common case: a globally-declared rewrite called
// from deep inside its own or another body) is kept non-owning, because a
// recursive rewrite's own body contains call sites whose cache would
// otherwise strong-reference the very rewrite that declared them —
// scope's frame owns the rewrite tree, the rewrite's body owns the call
// site, the call site's cache would own the rewrite again, a cycle
// refcounting can never break on its own. A candidate declared in the
// call site's own host scope — a local declaration the cache's host tree
// sits directly inside — cannot form that cycle (the host scope isn't
// reachable from an ancestor's frame through this rewrite), so the cache
// is free to hold it strongly, guarding against the rewrite being
// overwritten out from under an already-built cache entry.
type Candidate struct {
	Rewrite    *scope.Rewrite
	DeclaredIn *scope.Scope
	Match      *matcher.Result
	owned      bool
}

// Calls is the cached, ordered candidate list for one call-site tree. It
// implements core.Info via the embedded core.BaseInfo so it can be
// attached directly to the tree it was built for.
type Calls struct {
	core.BaseInfo
	Candidates []*Candidate
}

var (
	builds atomic.Int64
	hits   atomic.Int64
)

// Stats reports process-wide cache-build counters, grounded on
// ASTCache.Stats()'s hit/miss reporting shape.
type Stats struct {
	Builds int64
	Hits   int64
}

// LoadStats returns a snapshot of the process-wide counters.
func LoadStats() Stats {
	return Stats{Builds: builds.Load(), Hits: hits.Load()}
}

// Get returns the cached Calls for callSite if one has already been
// built, regardless of how long ago or from which scope.
func Get(callSite *core.Tree) (*Calls, bool) {
	c, ok := core.GetInfo[*Calls](callSite)
	if ok {
		hits.Add(1)
	}
	return c, ok
}

// BuildOrGet returns the cached Calls for callSite, building and
// attaching one on first use by walking from from (innermost scope first,
// then parents) looking for every rewrite whose defining-name is
// compatible with callSite and whose match against callSite is not
// Failed. Once built, the result is monotonic: later calls ignore from
// entirely and return the same cached list — a second, genuinely
// distinct call-site tree (even with identical shape) gets its own cache
// entry because the cache lives on that tree's own Info list.
func BuildOrGet(callSite *core.Tree, from *scope.Scope, ctx *matcher.Context) *Calls {
	if c, ok := Get(callSite); ok {
		return c
	}

	var candidates []*Candidate
	key := syntax.Key(callSite)
	scope.Lookup(from, callSite, func(rw *scope.Rewrite, declaredIn *scope.Scope) bool {
		if syntax.Key(rw.Pattern()) != key {
			return false // shares the hash path, not the defining-name
		}
		m := matcher.Match(rw.Pattern(), callSite, ctx)
		if m.Strength == matcher.Failed {
			m.Release()
			return false
		}
		// Lookup only ever walks upward from `from`, so declaredIn is
		// either `from` itself (the call site's own host scope: safe to
		// own strongly) or a strict ancestor of it (the cycle-risk case:
		// left non-owning).
		owned := declaredIn == from
		if owned {
			core.Acquire(rw.Tree())
		}
		candidates = append(candidates, &Candidate{Rewrite: rw, DeclaredIn: declaredIn, Match: m, owned: owned})
		return false // never stop early: collect every non-failed candidate
	})

	c := &Calls{Candidates: candidates}
	core.Attach(callSite, c)
	builds.Add(1)
	return c
}

// Close releases every candidate's Match result, plus the strong
// reference held by any candidate declared in the call site's own host
// scope (see Candidate.owned). The cache is monotonic and lives as long
// as its host call-site tree does, so nothing calls Close directly: it is
// invoked automatically when that tree's refcount reaches zero
// (core.Tree's dropAllInfo closes every core.Closer in its Info list), at
// which point the synthetic trees each Match may own are no longer
// reachable from anywhere else either.
func (c *Calls) Close() {
	for _, cand := range c.Candidates {
		cand.Match.Release()
		if cand.owned {
			core.Release(cand.Rewrite.Tree())
		}
	}
}
