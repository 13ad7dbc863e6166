// Package buffer implements the buffer pool manager: the layer between the
// on-disk page file and everything above it (the hash table and B+Tree)
// that pins, evicts, and flushes fixed-size pages. Its frame directory is
// itself an extendible hash table (PageID -> frame index), and its
// eviction policy is the LRU replacer — both are specified subsystems in
// their own right and get exercised here as well as standalone.
package buffer

import (
	"errors"
	"sync"

	bitset "github.com/bits-and-blooms/bitset"

	diag "github.com/basaltdb/engine/pkg/diag"
	disk "github.com/basaltdb/engine/pkg/disk"
	hash "github.com/basaltdb/engine/pkg/hash"
	replacer "github.com/basaltdb/engine/pkg/replacer"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// ErrBufferPoolExhausted is returned by FetchPage/NewPage when every frame
// is pinned and there is nothing left for the replacer to victimize. This
// is the explicit, fallible stand-in for what the reference implementation
// raises as an exception.
var ErrBufferPoolExhausted = errors.New("buffer: no free frame and no evictable page")

// BufferPoolManager owns a fixed set of frames and mediates every access to
// disk-backed pages through them.
type BufferPoolManager struct {
	mu        sync.Mutex
	disk      *disk.Manager
	frames    []*Page
	free      *bitset.BitSet
	pageTable *hash.ExtendibleHashTable[rid.PageID, int]
	replacer  *replacer.LRUReplacer[int]
	log       *diag.EventLog
}

// SetEventLog attaches an event log that FetchPage/NewPage/DeletePage
// evictions get recorded to. A nil log (the default) disables recording.
func (pool *BufferPoolManager) SetEventLog(log *diag.EventLog) {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	pool.log = log
}

// New constructs a pool of numFrames frames backed by d.
func New(d *disk.Manager, numFrames int) *BufferPoolManager {
	frames := allocFrames(numFrames)
	pool := &BufferPoolManager{
		disk:      d,
		frames:    make([]*Page, numFrames),
		free:      bitset.New(uint(numFrames)),
		pageTable: hash.NewExtendibleHashTable[rid.PageID, int](hash.DefaultBucketSize, func(id rid.PageID) uint64 { return hash.Int64Hash(int64(id)) }),
		replacer:  replacer.NewLRUReplacer[int](),
	}
	for i := 0; i < numFrames; i++ {
		pool.frames[i] = newPage(frames[i])
		pool.free.Set(uint(i))
	}
	return pool
}

// grabFrame returns a frame index to use for a fresh page, either from the
// free bitset or, failing that, by evicting the replacer's victim. The
// caller holds pool.mu.
func (pool *BufferPoolManager) grabFrame() (int, error) {
	if idx, ok := pool.free.NextSet(0); ok {
		pool.free.Clear(idx)
		return int(idx), nil
	}
	victim, ok := pool.replacer.Victim()
	if !ok {
		return 0, ErrBufferPoolExhausted
	}
	old := pool.frames[victim]
	if old.IsDirty() {
		if err := pool.disk.WritePage(old.ID(), old.Data()); err != nil {
			return 0, err
		}
	}
	pool.pageTable.Remove(old.ID())
	pool.log.Record("bpm", "evicted page %d from frame %d (dirty=%v)", old.ID(), victim, old.IsDirty())
	return victim, nil
}

// FetchPage pins and returns the page identified by id, reading it from
// disk if it is not already resident.
func (pool *BufferPoolManager) FetchPage(id rid.PageID) (*Page, error) {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	if idx, ok := pool.pageTable.Find(id); ok {
		frame := pool.frames[idx]
		frame.pin()
		pool.replacer.Erase(idx)
		return frame, nil
	}
	idx, err := pool.grabFrame()
	if err != nil {
		return nil, err
	}
	frame := pool.frames[idx]
	frame.reset(id)
	if err := pool.disk.ReadPage(id, frame.Data()); err != nil {
		pool.free.Set(uint(idx))
		return nil, err
	}
	pool.pageTable.Insert(id, idx)
	return frame, nil
}

// NewPage allocates a fresh page on disk, pins it in a frame, and returns it
// zeroed.
func (pool *BufferPoolManager) NewPage() (*Page, error) {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	idx, err := pool.grabFrame()
	if err != nil {
		return nil, err
	}
	id := pool.disk.AllocatePage()
	frame := pool.frames[idx]
	frame.reset(id)
	pool.pageTable.Insert(id, idx)
	return frame, nil
}

// UnpinPage decrements the pin count on id's frame; once it reaches zero the
// frame becomes eligible for eviction. isDirty is OR'd into the frame's
// dirty bit.
func (pool *BufferPoolManager) UnpinPage(id rid.PageID, isDirty bool) error {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	idx, ok := pool.pageTable.Find(id)
	if !ok {
		return errors.New("buffer: unpin of page not in pool")
	}
	frame := pool.frames[idx]
	if frame.unpin(isDirty) == 0 {
		pool.replacer.Insert(idx)
	}
	return nil
}

// FlushPage writes id's frame back to disk if resident, regardless of its
// dirty bit.
func (pool *BufferPoolManager) FlushPage(id rid.PageID) error {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	idx, ok := pool.pageTable.Find(id)
	if !ok {
		return errors.New("buffer: flush of page not in pool")
	}
	frame := pool.frames[idx]
	if err := pool.disk.WritePage(id, frame.Data()); err != nil {
		return err
	}
	frame.SetDirty(false)
	return nil
}

// FlushAllPages writes back every resident page, dirty or not.
func (pool *BufferPoolManager) FlushAllPages() error {
	pool.mu.Lock()
	ids := make([]rid.PageID, 0, len(pool.frames))
	for id := range pool.pageTable.Entries() {
		ids = append(ids, id)
	}
	pool.mu.Unlock()
	for _, id := range ids {
		if err := pool.FlushPage(id); err != nil {
			return err
		}
	}
	return nil
}

// DeletePage removes id from the pool, failing if it is still pinned.
func (pool *BufferPoolManager) DeletePage(id rid.PageID) error {
	pool.mu.Lock()
	defer pool.mu.Unlock()
	idx, ok := pool.pageTable.Find(id)
	if !ok {
		return nil
	}
	frame := pool.frames[idx]
	if frame.PinCount() > 0 {
		return errors.New("buffer: cannot delete a pinned page")
	}
	pool.pageTable.Remove(id)
	pool.replacer.Erase(idx)
	frame.reset(rid.InvalidPageID)
	frame.pinCount = 0
	pool.free.Set(uint(idx))
	pool.log.Record("bpm", "deleted page %d, freed frame %d", id, idx)
	return nil
}
