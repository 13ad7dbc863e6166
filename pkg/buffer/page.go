package buffer

import (
	"sync"

	directio "github.com/ncw/directio"

	config "github.com/basaltdb/engine/pkg/config"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// Page is one frame's worth of buffer pool memory: a fixed config.PageSize
// byte slab plus the bookkeeping the pool needs to decide when the slab can
// be reused (pin count) and whether it needs to be written back (dirty).
type Page struct {
	mu       sync.RWMutex
	id       rid.PageID
	data     []byte
	pinCount int
	dirty    bool
}

func newPage(data []byte) *Page {
	return &Page{id: rid.InvalidPageID, data: data}
}

// NewScratchPage allocates a page-shaped buffer of the given size that is
// never tracked by any BufferPoolManager: callers that need working memory
// shaped exactly like a page (e.g. an overflowing node one entry past a
// normal page's capacity, built and torn down entirely in memory during a
// B+Tree internal split) use this instead of NewPage/DeletePage churn.
func NewScratchPage(size int) *Page {
	return &Page{id: rid.InvalidPageID, data: make([]byte, size)}
}

// ID returns the page id this frame currently holds.
func (p *Page) ID() rid.PageID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.id
}

// Data returns the frame's raw backing bytes. Callers holding the page
// through FetchPage/NewPage are expected to coordinate their own access;
// the B+Tree above this layer takes one coarse tree-wide latch rather than
// latching individual pages.
func (p *Page) Data() []byte {
	return p.data
}

// PinCount returns the number of outstanding pins on this frame.
func (p *Page) PinCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pinCount
}

// IsDirty reports whether the frame has unflushed writes.
func (p *Page) IsDirty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dirty
}

// SetDirty marks the frame as having unflushed writes. Callers that mutate
// Data() must call this before unpinning.
func (p *Page) SetDirty(dirty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dirty = dirty
}

func (p *Page) reset(id rid.PageID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.id = id
	p.pinCount = 1
	p.dirty = false
	for i := range p.data {
		p.data[i] = 0
	}
}

func (p *Page) pin() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pinCount++
}

// unpin decrements the pin count and returns the remaining count.
func (p *Page) unpin(markDirty bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if markDirty {
		p.dirty = true
	}
	if p.pinCount > 0 {
		p.pinCount--
	}
	return p.pinCount
}

// allocFrames carves numFrames directio-aligned, PageSize-sized slabs out of
// one contiguous aligned block, the same trick the teacher's pager uses so
// that ReadPage/WritePage can hand these slices straight to an O_DIRECT file.
func allocFrames(numFrames int) [][]byte {
	block := directio.AlignedBlock(int(config.PageSize) * numFrames)
	frames := make([][]byte, numFrames)
	for i := 0; i < numFrames; i++ {
		frames[i] = block[i*int(config.PageSize) : (i+1)*int(config.PageSize)]
	}
	return frames
}
