// Package replacer implements the LRU victim-selection policy the buffer
// pool manager uses to pick an unpinned frame to evict. It is a thin,
// generic wrapper around pkg/list: Insert pushes (or moves) an id to the
// most-recently-used end, Victim pops the least-recently-used id, and Erase
// drops an id outright when its frame gets pinned again.
package replacer

import (
	"sync"

	list "github.com/basaltdb/engine/pkg/list"
)

// LRUReplacer tracks victim ordering for a fixed universe of comparable ids
// (frame ids in the buffer pool, but the type is generic so it is testable
// on its own). One mutex guards the whole structure.
type LRUReplacer[T comparable] struct {
	mu    sync.Mutex
	order *list.List
	links map[T]*list.Link
}

// NewLRUReplacer constructs an empty replacer.
func NewLRUReplacer[T comparable]() *LRUReplacer[T] {
	return &LRUReplacer[T]{
		order: list.NewList(),
		links: make(map[T]*list.Link),
	}
}

// Insert marks id as the most recently used. If id is already tracked it is
// moved to the back rather than duplicated.
func (r *LRUReplacer[T]) Insert(id T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link, ok := r.links[id]; ok {
		link.PopSelf()
	}
	r.links[id] = r.order.PushTail(id)
}

// Victim evicts and returns the least recently used id. The second return
// value is false when the replacer is empty, in which case the first value
// must not be used — there is no sentinel id that can stand in for "none".
func (r *LRUReplacer[T]) Victim() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	head := r.order.PeekHead()
	var zero T
	if head == nil {
		return zero, false
	}
	id := head.GetKey().(T)
	head.PopSelf()
	delete(r.links, id)
	return id, true
}

// Erase removes id from the replacer if present, reporting whether it was
// found. This must work correctly even when id is the only tracked entry.
func (r *LRUReplacer[T]) Erase(id T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[id]
	if !ok {
		return false
	}
	link.PopSelf()
	delete(r.links, id)
	return true
}

// Size returns the number of ids currently tracked.
func (r *LRUReplacer[T]) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.links)
}
