package btree

import (
	"encoding/binary"

	buffer "github.com/basaltdb/engine/pkg/buffer"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// Page header layout shared by both node kinds:
//   byte 0        node type (0 = internal, 1 = leaf)
//   bytes 1-8     parent page id (int64)
//   bytes 9-12    number of keys (int32)
//   leaf only, bytes 13-20: next-leaf page id (int64)
const (
	offNodeType  = 0
	offParent    = 1
	offNumKeys   = 9
	offNextLeaf  = 13
	leafDataOff  = 21
	internalOff  = 13
	nodeTypeLeaf = byte(1)
	nodeTypeIntl = byte(0)
)

func isLeafPage(data []byte) bool {
	return data[offNodeType] == nodeTypeLeaf
}

func getParent(data []byte) rid.PageID {
	return rid.PageID(int64(binary.LittleEndian.Uint64(data[offParent:])))
}

func setParent(data []byte, id rid.PageID) {
	binary.LittleEndian.PutUint64(data[offParent:], uint64(int64(id)))
}

func getNumKeys(data []byte) int {
	return int(int32(binary.LittleEndian.Uint32(data[offNumKeys:])))
}

func setNumKeys(data []byte, n int) {
	binary.LittleEndian.PutUint32(data[offNumKeys:], uint32(int32(n)))
}

// leafNode is a typed view over a page holding sorted (key, RID) entries:
// layout from leafDataOff is numKeys * (width + 12) bytes, each entry
// key(width) || pageID(int64) || slot(uint32).
type leafNode[K any] struct {
	page  *buffer.Page
	codec KeyCodec[K]
}

func (n leafNode[K]) entrySize() int { return n.codec.Width() + 12 }

func (n leafNode[K]) maxEntries(pageSize int) int {
	return (pageSize - leafDataOff) / n.entrySize()
}

func initLeaf[K any](page *buffer.Page, codec KeyCodec[K], parent rid.PageID) leafNode[K] {
	data := page.Data()
	data[offNodeType] = nodeTypeLeaf
	setParent(data, parent)
	setNumKeys(data, 0)
	binary.LittleEndian.PutUint64(data[offNextLeaf:], uint64(int64(rid.InvalidPageID)))
	return leafNode[K]{page: page, codec: codec}
}

func asLeaf[K any](page *buffer.Page, codec KeyCodec[K]) leafNode[K] {
	return leafNode[K]{page: page, codec: codec}
}

func (n leafNode[K]) NumKeys() int           { return getNumKeys(n.page.Data()) }
func (n leafNode[K]) setNumKeys(v int)       { setNumKeys(n.page.Data(), v) }
func (n leafNode[K]) ParentPageID() rid.PageID { return getParent(n.page.Data()) }
func (n leafNode[K]) SetParentPageID(id rid.PageID) { setParent(n.page.Data(), id) }

func (n leafNode[K]) NextPageID() rid.PageID {
	return rid.PageID(int64(binary.LittleEndian.Uint64(n.page.Data()[offNextLeaf:])))
}

func (n leafNode[K]) SetNextPageID(id rid.PageID) {
	binary.LittleEndian.PutUint64(n.page.Data()[offNextLeaf:], uint64(int64(id)))
}

func (n leafNode[K]) entryOffset(i int) int {
	return leafDataOff + i*n.entrySize()
}

func (n leafNode[K]) KeyAt(i int) K {
	off := n.entryOffset(i)
	return n.codec.Decode(n.page.Data()[off : off+n.codec.Width()])
}

func (n leafNode[K]) ValueAt(i int) rid.RID {
	off := n.entryOffset(i) + n.codec.Width()
	data := n.page.Data()
	page := rid.PageID(int64(binary.LittleEndian.Uint64(data[off:])))
	slot := binary.LittleEndian.Uint32(data[off+8:])
	return rid.RID{Page: page, Slot: slot}
}

func (n leafNode[K]) setEntry(i int, k K, v rid.RID) {
	off := n.entryOffset(i)
	data := n.page.Data()
	n.codec.Encode(k, data[off:off+n.codec.Width()])
	valOff := off + n.codec.Width()
	binary.LittleEndian.PutUint64(data[valOff:], uint64(int64(v.Page)))
	binary.LittleEndian.PutUint32(data[valOff+8:], v.Slot)
}

// insertAt shifts entries [i, numKeys) right by one slot and writes k/v at i.
func (n leafNode[K]) insertAt(i int, k K, v rid.RID) {
	count := n.NumKeys()
	for j := count; j > i; j-- {
		n.setEntry(j, n.KeyAt(j-1), n.ValueAt(j-1))
	}
	n.setEntry(i, k, v)
	n.setNumKeys(count + 1)
}

// removeAt shifts entries (i, numKeys) left by one slot, dropping index i.
func (n leafNode[K]) removeAt(i int) {
	count := n.NumKeys()
	for j := i; j < count-1; j++ {
		n.setEntry(j, n.KeyAt(j+1), n.ValueAt(j+1))
	}
	n.setNumKeys(count - 1)
}

// internalNode is a typed view over a page with numKeys+1 children: child 0
// lives at internalOff, then numKeys (key, child) pairs follow, so key i
// (1-indexed in the separator sense) separates child i-1 from child i.
type internalNode[K any] struct {
	page  *buffer.Page
	codec KeyCodec[K]
}

func (n internalNode[K]) entrySize() int { return n.codec.Width() + 8 }

func (n internalNode[K]) maxEntries(pageSize int) int {
	return (pageSize - internalOff - 8) / n.entrySize()
}

func initInternal[K any](page *buffer.Page, codec KeyCodec[K], parent rid.PageID) internalNode[K] {
	data := page.Data()
	data[offNodeType] = nodeTypeIntl
	setParent(data, parent)
	setNumKeys(data, 0)
	return internalNode[K]{page: page, codec: codec}
}

func asInternal[K any](page *buffer.Page, codec KeyCodec[K]) internalNode[K] {
	return internalNode[K]{page: page, codec: codec}
}

func (n internalNode[K]) NumKeys() int             { return getNumKeys(n.page.Data()) }
func (n internalNode[K]) setNumKeys(v int)         { setNumKeys(n.page.Data(), v) }
func (n internalNode[K]) ParentPageID() rid.PageID { return getParent(n.page.Data()) }
func (n internalNode[K]) SetParentPageID(id rid.PageID) { setParent(n.page.Data(), id) }

// childOffset returns the byte offset of child i (0 <= i <= NumKeys()).
func (n internalNode[K]) childOffset(i int) int {
	if i == 0 {
		return internalOff
	}
	return internalOff + 8 + (i-1)*n.entrySize() + n.codec.Width()
}

// keyOffset returns the offset of key i (1 <= i <= NumKeys()).
func (n internalNode[K]) keyOffset(i int) int {
	return internalOff + 8 + (i-1)*n.entrySize()
}

func (n internalNode[K]) ChildAt(i int) rid.PageID {
	off := n.childOffset(i)
	return rid.PageID(int64(binary.LittleEndian.Uint64(n.page.Data()[off:])))
}

func (n internalNode[K]) setChildAt(i int, id rid.PageID) {
	off := n.childOffset(i)
	binary.LittleEndian.PutUint64(n.page.Data()[off:], uint64(int64(id)))
}

func (n internalNode[K]) KeyAt(i int) K {
	off := n.keyOffset(i)
	return n.codec.Decode(n.page.Data()[off : off+n.codec.Width()])
}

func (n internalNode[K]) setKeyAt(i int, k K) {
	off := n.keyOffset(i)
	n.codec.Encode(k, n.page.Data()[off:off+n.codec.Width()])
}

// PopulateNewRoot initializes a freshly created root with exactly two
// children and one separator key.
func (n internalNode[K]) PopulateNewRoot(left rid.PageID, key K, right rid.PageID) {
	n.setChildAt(0, left)
	n.setKeyAt(1, key)
	n.setChildAt(1, right)
	n.setNumKeys(1)
}

// ValueIndex returns the index i such that ChildAt(i) == child, or -1.
func (n internalNode[K]) ValueIndex(child rid.PageID) int {
	for i := 0; i <= n.NumKeys(); i++ {
		if n.ChildAt(i) == child {
			return i
		}
	}
	return -1
}

// insertAfter inserts (key, newChild) immediately after the child matching
// oldChild: if oldChild is child i, the new entry becomes key/child i+1 and
// everything after shifts right by one slot.
func (n internalNode[K]) insertAfter(oldChild rid.PageID, key K, newChild rid.PageID) {
	idx := n.ValueIndex(oldChild)
	count := n.NumKeys()
	for j := count; j > idx; j-- {
		n.setKeyAt(j+1, n.KeyAt(j))
		n.setChildAt(j+1, n.ChildAt(j))
	}
	n.setKeyAt(idx+1, key)
	n.setChildAt(idx+1, newChild)
	n.setNumKeys(count + 1)
}

// removeAt deletes key/child pair at separator index i (1 <= i <= NumKeys())
// along with child i, shifting everything after it left by one slot.
func (n internalNode[K]) removeAt(i int) {
	count := n.NumKeys()
	for j := i; j < count; j++ {
		n.setKeyAt(j, n.KeyAt(j+1))
		n.setChildAt(j, n.ChildAt(j+1))
	}
	n.setNumKeys(count - 1)
}

// lookupChild returns the child to descend into for key, using the
// convention that key i (for i in [1, numKeys]) is the smallest key in
// child i's subtree: find the largest i with KeyAt(i) <= key, else child 0.
func (n internalNode[K]) lookupChild(key K, cmp Comparator[K]) rid.PageID {
	count := n.NumKeys()
	lo, hi := 0, count // search keys[1..count]
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if cmp(n.KeyAt(mid), key) <= 0 {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return n.ChildAt(lo)
}
