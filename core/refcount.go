package core

import (
	"sync/atomic"
	"unsafe"
)

// Package-level arena counters, grounded on providers/golang/cache.go and
// providers/base/cache.go's lock-free hit/miss/eviction counters in the
// teacher: the same sync/atomic.Int64 shape, applied to node lifetime
// instead of cache lifetime.
var (
	liveNodes  atomic.Int64
	freedNodes atomic.Int64
)

// trackNew records the allocation of a freshly constructed node (refcount
// starts at 1).
func trackNew(t *Tree) *Tree {
	t.refcount = 1
	liveNodes.Add(1)
	return t
}

// Acquire increments t's reference count and returns t. Acquiring the nil
// tree is a zero-cost no-op.
func Acquire(t *Tree) *Tree {
	if t == nil {
		return nil
	}
	atomic.AddInt32(&t.refcount, 1)
	return t
}

// Release decrements t's reference count, freeing t (and recursively
// releasing its children and dropping its Info list) when the count
// reaches zero. Releasing nil is a no-op.
func Release(t *Tree) {
	if t == nil {
		return
	}
	if atomic.AddInt32(&t.refcount, -1) > 0 {
		return
	}

	freeOne(t)
}

func freeOne(t *Tree) {
	t.dropAllInfo()

	switch t.Kind {
	case BLOCK:
		Release(t.Child)
	case PREFIX, POSTFIX, INFIX:
		Release(t.Left)
		Release(t.Right)
	}

	liveNodes.Add(-1)
	freedNodes.Add(1)
}

// LoadSlot atomically reads the tree currently held by slot, a tree-valued
// field shared between a writer (via Assign) and concurrent readers.
func LoadSlot(slot **Tree) *Tree {
	return (*Tree)(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(slot))))
}

// Assign atomically replaces the tree held by slot with newTree: newTree is
// acquired before publication and the old tree is released only after the
// swap, so a concurrent reader always observes either the fully-formed old
// tree or the fully-formed new one, never a half-released node.
func Assign(slot **Tree, newTree *Tree) {
	acquired := Acquire(newTree)
	old := (*Tree)(atomic.SwapPointer(
		(*unsafe.Pointer)(unsafe.Pointer(slot)),
		unsafe.Pointer(acquired),
	))
	Release(old)
}

// Stats reports the arena's current live and cumulative-freed node
// counts, used by the reference-count-balance property test.
type Stats struct {
	Live  int64
	Freed int64
}

// ArenaStats returns a snapshot of the process-wide node counters.
func ArenaStats() Stats {
	return Stats{Live: liveNodes.Load(), Freed: freedNodes.Load()}
}
