// Package rid defines the record identifier shared by the lock manager and
// the B+Tree index: a page id plus a slot number within that page.
package rid

import "fmt"

// PageID identifies a page, whether on disk or pinned in the buffer pool.
type PageID int64

// InvalidPageID marks "no page", mirroring the sentinel used throughout the
// buffer pool and B+Tree for an absent child/root/sibling pointer.
const InvalidPageID PageID = -1

// RID (record id) locates a tuple as (page, slot). It is comparable, so it
// can key a Go map directly — used as the lock manager's lock-table key and
// as the B+Tree's leaf value type.
type RID struct {
	Page PageID
	Slot uint32
}

// New constructs a RID.
func New(page PageID, slot uint32) RID {
	return RID{Page: page, Slot: slot}
}

// String renders a RID as "page:slot" for diagnostics.
func (r RID) String() string {
	return fmt.Sprintf("%d:%d", r.Page, r.Slot)
}
