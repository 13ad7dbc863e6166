package btree

import (
	"errors"

	rid "github.com/basaltdb/engine/pkg/rid"
)

// ErrIteratorDone is returned by Next once an iterator has passed its last
// entry.
var ErrIteratorDone = errors.New("btree: iterator past end")

// IndexIterator walks a leaf chain in ascending key order, pinning only
// the leaf page it currently sits on, grounded on
// original_source/src/index/index_iterator.cpp and the teacher's
// BTreeCursor (TableStart/TableFind/StepForward/IsEnd/GetEntry).
type IndexIterator[K any] struct {
	bpm  *BPlusTree[K]
	leaf leafNode[K]
	idx  int
	done bool
}

// Begin returns an iterator positioned at the first entry of the tree.
func (t *BPlusTree[K]) Begin() (*IndexIterator[K], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rootPageID == rid.InvalidPageID {
		return &IndexIterator[K]{done: true}, nil
	}
	var zero K
	leafPtr, err := t.findLeafPage(zero, true)
	if err != nil {
		return nil, err
	}
	return &IndexIterator[K]{bpm: t, leaf: *leafPtr, idx: 0, done: leafPtr.NumKeys() == 0}, nil
}

// BeginAt returns an iterator positioned at the first entry with a key
// strictly greater than key, matching the leaf KeyIndex seek primitive
// (original_source's b_plus_tree_leaf_page.cpp KeyIndex / b_plus_tree.cpp
// Begin(key), despite their own comments suggesting an inclusive seek).
func (t *BPlusTree[K]) BeginAt(key K) (*IndexIterator[K], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rootPageID == rid.InvalidPageID {
		return &IndexIterator[K]{done: true}, nil
	}
	leafPtr, err := t.findLeafPage(key, false)
	if err != nil {
		return nil, err
	}
	idx := t.keyIndex(*leafPtr, key)
	it := &IndexIterator[K]{bpm: t, leaf: *leafPtr, idx: idx}
	if err := it.rollForward(); err != nil {
		return nil, err
	}
	return it, nil
}

// rollForward crosses into the next leaf via the next-page pointer while
// the iterator's current position sits past the end of its leaf — the
// case where a seek key equals the last key of a leaf, so KeyIndex lands
// one entry beyond it.
func (it *IndexIterator[K]) rollForward() error {
	for !it.done && it.idx >= it.leaf.NumKeys() {
		next := it.leaf.NextPageID()
		it.bpm.bpm.UnpinPage(it.leaf.page.ID(), false)
		it.leaf.page = nil
		if next == rid.InvalidPageID {
			it.done = true
			return nil
		}
		nextPage, err := it.bpm.bpm.FetchPage(next)
		if err != nil {
			it.done = true
			return ErrIndexExhausted
		}
		it.leaf = asLeaf(nextPage, it.bpm.codec)
		it.idx = 0
	}
	return nil
}

// IsEnd reports whether the iterator has no current entry.
func (it *IndexIterator[K]) IsEnd() bool { return it.done }

// Key returns the key at the iterator's current position.
func (it *IndexIterator[K]) Key() K { return it.leaf.KeyAt(it.idx) }

// Value returns the RID at the iterator's current position.
func (it *IndexIterator[K]) Value() rid.RID { return it.leaf.ValueAt(it.idx) }

// Next advances the iterator by one entry, crossing into the next leaf via
// its next-page pointer when the current leaf is exhausted.
func (it *IndexIterator[K]) Next() error {
	if it.done {
		return ErrIteratorDone
	}
	it.idx++
	return it.rollForward()
}

// Close releases the pin on the iterator's current leaf page; callers that
// drain an iterator to completion (IsEnd() == true) need not call it.
func (it *IndexIterator[K]) Close() {
	if it.done || it.leaf.page == nil {
		return
	}
	it.bpm.bpm.UnpinPage(it.leaf.page.ID(), false)
	it.leaf.page = nil
	it.done = true
}
