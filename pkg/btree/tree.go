package btree

import (
	"errors"
	"sync"

	buffer "github.com/basaltdb/engine/pkg/buffer"
	config "github.com/basaltdb/engine/pkg/config"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// ErrIndexExhausted is the fallible stand-in for the reference
// implementation's fatal "index exception": every frame is pinned and
// there is no room to fetch or allocate the page an operation needs.
var ErrIndexExhausted = errors.New("btree: buffer pool exhausted mid-operation")

// BPlusTree is a disk-oriented B+Tree index keyed by K with RID values.
// Every page touch goes through the buffer pool manager; the tree itself
// holds one coarse mutex rather than latching pages individually, per the
// spec's accepted non-goal of fine-grained crabbing.
type BPlusTree[K any] struct {
	mu           sync.Mutex
	name         string
	bpm          *buffer.BufferPoolManager
	cmp          Comparator[K]
	codec        KeyCodec[K]
	rootPageID   rid.PageID
	headerPageID rid.PageID
	pageSize     int
}

// New creates a brand new, empty named index backed by bpm, allocating a
// header page to record (name, root page id).
func New[K any](name string, bpm *buffer.BufferPoolManager, cmp Comparator[K], codec KeyCodec[K]) (*BPlusTree[K], error) {
	header, err := bpm.NewPage()
	if err != nil {
		return nil, ErrIndexExhausted
	}
	writeHeader(header, name, rid.InvalidPageID)
	headerID := header.ID()
	bpm.UnpinPage(headerID, true)
	return &BPlusTree[K]{
		name:         name,
		bpm:          bpm,
		cmp:          cmp,
		codec:        codec,
		rootPageID:   rid.InvalidPageID,
		headerPageID: headerID,
		pageSize:     int(config.PageSize),
	}, nil
}

// Open reattaches to an existing index via its header page.
func Open[K any](bpm *buffer.BufferPoolManager, headerPageID rid.PageID, cmp Comparator[K], codec KeyCodec[K]) (*BPlusTree[K], error) {
	header, err := bpm.FetchPage(headerPageID)
	if err != nil {
		return nil, err
	}
	name := readHeaderName(header.Data())
	root := readHeaderRoot(header.Data())
	bpm.UnpinPage(headerPageID, false)
	return &BPlusTree[K]{
		name:         name,
		bpm:          bpm,
		cmp:          cmp,
		codec:        codec,
		rootPageID:   root,
		headerPageID: headerPageID,
		pageSize:     int(config.PageSize),
	}, nil
}

// IsEmpty reports whether the tree currently has no root page.
func (t *BPlusTree[K]) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rootPageID == rid.InvalidPageID
}

func (t *BPlusTree[K]) updateRootPageID() {
	header, err := t.bpm.FetchPage(t.headerPageID)
	if err != nil {
		return
	}
	writeHeader(header, t.name, t.rootPageID)
	t.bpm.UnpinPage(t.headerPageID, true)
}

// GetValue performs a point query, returning the associated value if key is
// present.
func (t *BPlusTree[K]) GetValue(key K) (rid.RID, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	leaf, err := t.findLeafPage(key, false)
	if err != nil {
		return rid.RID{}, false, err
	}
	if leaf == nil {
		return rid.RID{}, false, nil
	}
	idx, found := t.leafLookup(*leaf, key)
	var value rid.RID
	if found {
		value = leaf.ValueAt(idx)
	}
	t.bpm.UnpinPage(leaf.page.ID(), false)
	return value, found, nil
}

// leafLookup binary-searches a leaf for key, returning (index, true) if
// present or (insertion index, false) otherwise.
func (t *BPlusTree[K]) leafLookup(n leafNode[K], key K) (int, bool) {
	lo, hi := 0, n.NumKeys()
	for lo < hi {
		mid := (lo + hi) / 2
		c := t.cmp(n.KeyAt(mid), key)
		if c == 0 {
			return mid, true
		}
		if c < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, false
}

// keyIndex binary-searches a leaf for the smallest index i with
// n.KeyAt(i) > key, the iterator seek primitive: it lands one entry past an
// exact match rather than on it, per the spec's KeyIndex contract.
func (t *BPlusTree[K]) keyIndex(n leafNode[K], key K) int {
	lo, hi := 0, n.NumKeys()
	for lo < hi {
		mid := (lo + hi) / 2
		if t.cmp(n.KeyAt(mid), key) > 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// findLeafPage descends from the root to the leaf that would contain key
// (or the leftmost leaf if leftMost is set), pinning only the returned
// leaf — every intermediate internal page is unpinned before descending
// further.
func (t *BPlusTree[K]) findLeafPage(key K, leftMost bool) (*leafNode[K], error) {
	if t.rootPageID == rid.InvalidPageID {
		return nil, nil
	}
	page, err := t.bpm.FetchPage(t.rootPageID)
	if err != nil {
		return nil, ErrIndexExhausted
	}
	for !isLeafPage(page.Data()) {
		internal := asInternal(page, t.codec)
		var next rid.PageID
		if leftMost {
			next = internal.ChildAt(0)
		} else {
			next = internal.lookupChild(key, t.cmp)
		}
		nextPage, err := t.bpm.FetchPage(next)
		if err != nil {
			t.bpm.UnpinPage(page.ID(), false)
			return nil, ErrIndexExhausted
		}
		t.bpm.UnpinPage(page.ID(), false)
		page = nextPage
	}
	leaf := asLeaf(page, t.codec)
	return &leaf, nil
}

// Insert inserts key/value, returning false without modifying the tree if
// key is already present (unique-key semantics).
func (t *BPlusTree[K]) Insert(key K, value rid.RID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rootPageID == rid.InvalidPageID {
		return t.startNewTree(key, value)
	}
	return t.insertIntoLeaf(key, value)
}

func (t *BPlusTree[K]) startNewTree(key K, value rid.RID) (bool, error) {
	page, err := t.bpm.NewPage()
	if err != nil {
		return false, ErrIndexExhausted
	}
	leaf := initLeaf(page, t.codec, rid.InvalidPageID)
	leaf.insertAt(0, key, value)
	t.rootPageID = page.ID()
	t.updateRootPageID()
	t.bpm.UnpinPage(page.ID(), true)
	return true, nil
}

func (t *BPlusTree[K]) insertIntoLeaf(key K, value rid.RID) (bool, error) {
	leafPtr, err := t.findLeafPage(key, false)
	if err != nil {
		return false, err
	}
	leaf := *leafPtr
	idx, found := t.leafLookup(leaf, key)
	if found {
		t.bpm.UnpinPage(leaf.page.ID(), false)
		return false, nil
	}
	maxEntries := leaf.maxEntries(t.pageSize)
	if leaf.NumKeys() < maxEntries {
		leaf.insertAt(idx, key, value)
		t.bpm.UnpinPage(leaf.page.ID(), true)
		return true, nil
	}

	sibling, err := t.splitLeaf(leaf)
	if err != nil {
		t.bpm.UnpinPage(leaf.page.ID(), false)
		return false, err
	}
	if t.cmp(key, sibling.KeyAt(0)) < 0 {
		i, _ := t.leafLookup(leaf, key)
		leaf.insertAt(i, key, value)
	} else {
		i, _ := t.leafLookup(sibling, key)
		sibling.insertAt(i, key, value)
	}

	if err := t.insertIntoParent(leaf.page.ID(), sibling.KeyAt(0), sibling.page.ID()); err != nil {
		t.bpm.UnpinPage(leaf.page.ID(), true)
		t.bpm.UnpinPage(sibling.page.ID(), true)
		return false, err
	}
	t.bpm.UnpinPage(leaf.page.ID(), true)
	t.bpm.UnpinPage(sibling.page.ID(), true)
	return true, nil
}

// splitLeaf moves the upper half of leaf's entries into a freshly allocated
// sibling and splices it into the leaf chain.
func (t *BPlusTree[K]) splitLeaf(leaf leafNode[K]) (leafNode[K], error) {
	page, err := t.bpm.NewPage()
	if err != nil {
		return leafNode[K]{}, ErrIndexExhausted
	}
	sibling := initLeaf(page, t.codec, leaf.ParentPageID())
	count := leaf.NumKeys()
	half := (count + 1) / 2
	for i := half; i < count; i++ {
		sibling.insertAt(i-half, leaf.KeyAt(i), leaf.ValueAt(i))
	}
	leaf.setNumKeys(half)
	sibling.SetNextPageId_set(leaf.NextPageID())
	leaf.SetNextPageId_set(sibling.page.ID())
	return sibling, nil
}

// SetNextPageId_set exists only so splitLeaf reads clearly; it is the same
// as SetNextPageID.
func (n leafNode[K]) SetNextPageId_set(id rid.PageID) { n.SetNextPageID(id) }

// insertIntoParent wires a freshly split child pair into their parent,
// recursively splitting the parent if it's full, exactly mirroring leaf
// split/parent-insert.
func (t *BPlusTree[K]) insertIntoParent(oldChild rid.PageID, key K, newChild rid.PageID) error {
	oldPage, err := t.bpm.FetchPage(oldChild)
	if err != nil {
		return ErrIndexExhausted
	}
	parentID := getParent(oldPage.Data())
	t.bpm.UnpinPage(oldChild, false)

	if parentID == rid.InvalidPageID {
		page, err := t.bpm.NewPage()
		if err != nil {
			return ErrIndexExhausted
		}
		root := initInternal(page, t.codec, rid.InvalidPageID)
		root.PopulateNewRoot(oldChild, key, newChild)
		t.rootPageID = page.ID()
		t.updateRootPageID()

		t.setParentOf(oldChild, page.ID())
		t.setParentOf(newChild, page.ID())
		t.bpm.UnpinPage(page.ID(), true)
		return nil
	}

	parentPage, err := t.bpm.FetchPage(parentID)
	if err != nil {
		return ErrIndexExhausted
	}
	parent := asInternal(parentPage, t.codec)
	maxEntries := parent.maxEntries(t.pageSize)

	if parent.NumKeys() < maxEntries {
		parent.insertAfter(oldChild, key, newChild)
		t.setParentOf(newChild, parentID)
		t.bpm.UnpinPage(parentID, true)
		return nil
	}

	// Parent is full: build a scratch overflowing copy with the new entry
	// inserted in place, split it, and recurse up. The scratch page must
	// hold one entry beyond a normal page's capacity, so it is plain
	// in-memory scratch space rather than a pooled frame.
	entrySize := t.codec.Width() + 8
	scratchSize := internalOff + 8 + (maxEntries+1)*entrySize
	scratch := initInternal(buffer.NewScratchPage(scratchSize), t.codec, rid.InvalidPageID)
	scratch.setChildAt(0, parent.ChildAt(0))
	dst := 1
	for src := 1; src <= parent.NumKeys(); src++ {
		if parent.ChildAt(src-1) == oldChild {
			scratch.setKeyAt(dst, key)
			scratch.setChildAt(dst, newChild)
			dst++
		}
		scratch.setKeyAt(dst, parent.KeyAt(src))
		scratch.setChildAt(dst, parent.ChildAt(src))
		dst++
	}
	if parent.ChildAt(parent.NumKeys()) == oldChild {
		scratch.setKeyAt(dst, key)
		scratch.setChildAt(dst, newChild)
		dst++
	}
	scratch.setNumKeys(dst - 1)

	siblingPage, err := t.bpm.NewPage()
	if err != nil {
		t.bpm.UnpinPage(parentID, false)
		return ErrIndexExhausted
	}
	parent2 := initInternal(siblingPage, t.codec, rid.InvalidPageID)
	upKey := t.splitInternalInto(scratch, parent2)

	// Overwrite parent in place with the lower half of scratch.
	parent.setNumKeys(0)
	parent.setChildAt(0, scratch.ChildAt(0))
	for i := 1; i <= scratch.NumKeys(); i++ {
		parent.setKeyAt(i, scratch.KeyAt(i))
		parent.setChildAt(i, scratch.ChildAt(i))
	}
	parent.setNumKeys(scratch.NumKeys())

	for i := 0; i <= parent.NumKeys(); i++ {
		t.setParentOf(parent.ChildAt(i), parentID)
	}
	for i := 0; i <= parent2.NumKeys(); i++ {
		t.setParentOf(parent2.ChildAt(i), siblingPage.ID())
	}

	t.bpm.UnpinPage(siblingPage.ID(), true)

	parentPageID := parentID
	t.bpm.UnpinPage(parentID, true)
	return t.insertIntoParent(parentPageID, upKey, siblingPage.ID())
}

func (t *BPlusTree[K]) setParentOf(child rid.PageID, parent rid.PageID) {
	page, err := t.bpm.FetchPage(child)
	if err != nil {
		return
	}
	setParent(page.Data(), parent)
	t.bpm.UnpinPage(child, true)
}

// splitInternalInto moves the upper half of full's (key, child) pairs into
// sibling and returns the separator key promoted up to the grandparent: the
// key at the split boundary, which belongs to neither half as a stored
// entry (it describes sibling's child 0, which internal nodes never give a
// key of its own).
func (t *BPlusTree[K]) splitInternalInto(full internalNode[K], sibling internalNode[K]) K {
	count := full.NumKeys()
	half := (count + 1) / 2 // index of the key promoted to the grandparent
	upKey := full.KeyAt(half)
	sibling.setChildAt(0, full.ChildAt(half))
	for i := half + 1; i <= count; i++ {
		sibling.setKeyAt(i-half, full.KeyAt(i))
		sibling.setChildAt(i-half, full.ChildAt(i))
	}
	sibling.setNumKeys(count - half)
	full.setNumKeys(half - 1)
	return upKey
}

// Remove deletes key if present; it is a no-op otherwise. Underfull nodes
// are redistributed with a sibling or coalesced into one, recursing up to
// the root exactly as original_source/src/index/b_plus_tree.cpp does,
// corrected where that reference was ambiguous about which side of a merge
// survives (see DESIGN.md).
func (t *BPlusTree[K]) Remove(key K) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rootPageID == rid.InvalidPageID {
		return nil
	}
	leafPtr, err := t.findLeafPage(key, false)
	if err != nil {
		return err
	}
	if leafPtr == nil {
		return nil
	}
	leaf := *leafPtr
	idx, found := t.leafLookup(leaf, key)
	if !found {
		t.bpm.UnpinPage(leaf.page.ID(), false)
		return nil
	}
	leaf.removeAt(idx)
	if t.coalesceOrRedistributeLeaf(leaf) {
		t.bpm.UnpinPage(leaf.page.ID(), false)
		t.bpm.DeletePage(leaf.page.ID())
	} else {
		t.bpm.UnpinPage(leaf.page.ID(), true)
	}
	return nil
}

// coalesceOrRedistributeLeaf restores the min-size invariant for an
// underfull leaf, returning whether the caller should delete leaf's page
// once it unpins it.
func (t *BPlusTree[K]) coalesceOrRedistributeLeaf(leaf leafNode[K]) bool {
	if leaf.page.ID() == t.rootPageID {
		return t.adjustRoot(leaf.page)
	}
	maxEntries := leaf.maxEntries(t.pageSize)
	minSize := (maxEntries + 1) / 2
	if leaf.NumKeys() >= minSize {
		return false
	}

	parentID := leaf.ParentPageID()
	parentPage, err := t.bpm.FetchPage(parentID)
	if err != nil {
		return false
	}
	parent := asInternal(parentPage, t.codec)
	valueIndex := parent.ValueIndex(leaf.page.ID())
	var siblingID rid.PageID
	if valueIndex == 0 {
		siblingID = parent.ChildAt(1)
	} else {
		siblingID = parent.ChildAt(valueIndex - 1)
	}
	siblingPage, err := t.bpm.FetchPage(siblingID)
	if err != nil {
		t.bpm.UnpinPage(parentID, false)
		return false
	}
	sibling := asLeaf(siblingPage, t.codec)

	if leaf.NumKeys()+sibling.NumKeys() > maxEntries {
		t.redistributeLeaf(leaf, sibling, parent, valueIndex)
		t.bpm.UnpinPage(siblingID, true)
		t.bpm.UnpinPage(parentID, true)
		return false
	}

	deleteNode, deleteSibling := t.coalesceLeaf(leaf, sibling, parent, valueIndex)
	if t.coalesceOrRedistributeInternal(parent) {
		t.bpm.UnpinPage(parentID, false)
		t.bpm.DeletePage(parentID)
	} else {
		t.bpm.UnpinPage(parentID, true)
	}
	if deleteSibling {
		t.bpm.UnpinPage(siblingID, false)
		t.bpm.DeletePage(siblingID)
	} else {
		t.bpm.UnpinPage(siblingID, true)
	}
	return deleteNode
}

// coalesceLeaf merges node and sibling into whichever of the two sits to
// the left (so the merged page's next-leaf chain stays intact without a
// second splice), removes the separator key from parent, and reports which
// of (node, sibling) the caller must now delete.
func (t *BPlusTree[K]) coalesceLeaf(node, sibling leafNode[K], parent internalNode[K], valueIndex int) (deleteNode, deleteSibling bool) {
	if valueIndex == 0 {
		base := node.NumKeys()
		for i := 0; i < sibling.NumKeys(); i++ {
			node.insertAt(base+i, sibling.KeyAt(i), sibling.ValueAt(i))
		}
		node.SetNextPageID(sibling.NextPageID())
		parent.removeAt(1)
		return false, true
	}
	base := sibling.NumKeys()
	for i := 0; i < node.NumKeys(); i++ {
		sibling.insertAt(base+i, node.KeyAt(i), node.ValueAt(i))
	}
	sibling.SetNextPageID(node.NextPageID())
	parent.removeAt(valueIndex)
	return true, false
}

// redistributeLeaf borrows one entry from sibling to restore node's min
// size, rotating the parent separator through the borrowed key.
func (t *BPlusTree[K]) redistributeLeaf(node, sibling leafNode[K], parent internalNode[K], valueIndex int) {
	if valueIndex == 0 {
		k, v := sibling.KeyAt(0), sibling.ValueAt(0)
		node.insertAt(node.NumKeys(), k, v)
		sibling.removeAt(0)
		parent.setKeyAt(1, sibling.KeyAt(0))
		return
	}
	last := sibling.NumKeys() - 1
	k, v := sibling.KeyAt(last), sibling.ValueAt(last)
	node.insertAt(0, k, v)
	sibling.removeAt(last)
	parent.setKeyAt(valueIndex, k)
}

// coalesceOrRedistributeInternal is coalesceOrRedistributeLeaf's mirror for
// internal nodes; children count (NumKeys()+1) plays the role of size.
func (t *BPlusTree[K]) coalesceOrRedistributeInternal(node internalNode[K]) bool {
	if node.page.ID() == t.rootPageID {
		return t.adjustRoot(node.page)
	}
	maxEntries := node.maxEntries(t.pageSize)
	minChildren := (maxEntries + 2) / 2
	if node.NumKeys()+1 >= minChildren {
		return false
	}

	parentID := node.ParentPageID()
	parentPage, err := t.bpm.FetchPage(parentID)
	if err != nil {
		return false
	}
	parent := asInternal(parentPage, t.codec)
	valueIndex := parent.ValueIndex(node.page.ID())
	var siblingID rid.PageID
	if valueIndex == 0 {
		siblingID = parent.ChildAt(1)
	} else {
		siblingID = parent.ChildAt(valueIndex - 1)
	}
	siblingPage, err := t.bpm.FetchPage(siblingID)
	if err != nil {
		t.bpm.UnpinPage(parentID, false)
		return false
	}
	sibling := asInternal(siblingPage, t.codec)

	if node.NumKeys()+1+sibling.NumKeys()+1 > maxEntries+1 {
		t.redistributeInternal(node, sibling, parent, valueIndex)
		t.bpm.UnpinPage(siblingID, true)
		t.bpm.UnpinPage(parentID, true)
		return false
	}

	deleteNode, deleteSibling := t.coalesceInternal(node, sibling, parent, valueIndex)
	if t.coalesceOrRedistributeInternal(parent) {
		t.bpm.UnpinPage(parentID, false)
		t.bpm.DeletePage(parentID)
	} else {
		t.bpm.UnpinPage(parentID, true)
	}
	if deleteSibling {
		t.bpm.UnpinPage(siblingID, false)
		t.bpm.DeletePage(siblingID)
	} else {
		t.bpm.UnpinPage(siblingID, true)
	}
	return deleteNode
}

// coalesceInternal merges node and sibling, pulling the parent's separator
// key down to cover the gap left by the absorbed child 0 (internal nodes
// never store a key for their own child 0).
func (t *BPlusTree[K]) coalesceInternal(node, sibling internalNode[K], parent internalNode[K], valueIndex int) (deleteNode, deleteSibling bool) {
	if valueIndex == 0 {
		downKey := parent.KeyAt(1)
		base := node.NumKeys()
		node.setKeyAt(base+1, downKey)
		node.setChildAt(base+1, sibling.ChildAt(0))
		t.setParentOf(sibling.ChildAt(0), node.page.ID())
		for i := 1; i <= sibling.NumKeys(); i++ {
			node.setKeyAt(base+1+i, sibling.KeyAt(i))
			node.setChildAt(base+1+i, sibling.ChildAt(i))
			t.setParentOf(sibling.ChildAt(i), node.page.ID())
		}
		node.setNumKeys(base + 1 + sibling.NumKeys())
		parent.removeAt(1)
		return false, true
	}
	downKey := parent.KeyAt(valueIndex)
	base := sibling.NumKeys()
	sibling.setKeyAt(base+1, downKey)
	sibling.setChildAt(base+1, node.ChildAt(0))
	t.setParentOf(node.ChildAt(0), sibling.page.ID())
	for i := 1; i <= node.NumKeys(); i++ {
		sibling.setKeyAt(base+1+i, node.KeyAt(i))
		sibling.setChildAt(base+1+i, node.ChildAt(i))
		t.setParentOf(node.ChildAt(i), sibling.page.ID())
	}
	sibling.setNumKeys(base + 1 + node.NumKeys())
	parent.removeAt(valueIndex)
	return true, false
}

// redistributeInternal borrows one child from sibling, rotating the
// separator key through parent the same way redistributeLeaf does.
func (t *BPlusTree[K]) redistributeInternal(node, sibling internalNode[K], parent internalNode[K], valueIndex int) {
	if valueIndex == 0 {
		downKey := parent.KeyAt(1)
		movedChild := sibling.ChildAt(0)
		base := node.NumKeys()
		node.setKeyAt(base+1, downKey)
		node.setChildAt(base+1, movedChild)
		node.setNumKeys(base + 1)
		t.setParentOf(movedChild, node.page.ID())

		newSeparator := sibling.KeyAt(1)
		oldSiblingKeys := sibling.NumKeys()
		for i := 0; i < oldSiblingKeys; i++ {
			sibling.setChildAt(i, sibling.ChildAt(i+1))
		}
		for i := 1; i < oldSiblingKeys; i++ {
			sibling.setKeyAt(i, sibling.KeyAt(i+1))
		}
		sibling.setNumKeys(oldSiblingKeys - 1)
		parent.setKeyAt(1, newSeparator)
		return
	}

	downKey := parent.KeyAt(valueIndex)
	last := sibling.NumKeys()
	movedChild := sibling.ChildAt(last)
	newSeparator := sibling.KeyAt(last)

	oldNodeKeys := node.NumKeys()
	for i := oldNodeKeys; i >= 1; i-- {
		node.setKeyAt(i+1, node.KeyAt(i))
	}
	for i := oldNodeKeys; i >= 0; i-- {
		node.setChildAt(i+1, node.ChildAt(i))
	}
	node.setKeyAt(1, downKey)
	node.setChildAt(0, movedChild)
	node.setNumKeys(oldNodeKeys + 1)
	t.setParentOf(movedChild, node.page.ID())

	sibling.setNumKeys(last - 1)
	parent.setKeyAt(valueIndex, newSeparator)
}

// adjustRoot handles the two cases where the root itself falls below its
// min size: an emptied leaf root (the whole tree is now empty) and an
// internal root left with a single child (that child is promoted to root).
// Reports whether the caller should delete the old root's page.
func (t *BPlusTree[K]) adjustRoot(page *buffer.Page) bool {
	if isLeafPage(page.Data()) {
		leaf := asLeaf(page, t.codec)
		if leaf.NumKeys() == 0 {
			t.rootPageID = rid.InvalidPageID
			t.updateRootPageID()
			return true
		}
		return false
	}
	internal := asInternal(page, t.codec)
	if internal.NumKeys() == 0 {
		newRoot := internal.ChildAt(0)
		t.rootPageID = newRoot
		t.updateRootPageID()
		t.setParentOf(newRoot, rid.InvalidPageID)
		return true
	}
	return false
}
