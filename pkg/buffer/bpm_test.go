package buffer

import (
	"os"
	"testing"

	disk "github.com/basaltdb/engine/pkg/disk"
)

func newTestPool(t *testing.T, numFrames int) (*BufferPoolManager, func()) {
	t.Helper()
	f, err := os.CreateTemp("", "bpm-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	d, err := disk.Open(name)
	if err != nil {
		t.Fatal(err)
	}
	return New(d, numFrames), func() {
		d.Close()
		os.Remove(name)
	}
}

func TestBufferPoolNewAndFetch(t *testing.T) {
	pool, cleanup := newTestPool(t, 2)
	defer cleanup()

	page, err := pool.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	id := page.ID()
	copy(page.Data(), []byte("hello"))
	page.SetDirty(true)
	if err := pool.UnpinPage(id, true); err != nil {
		t.Fatal(err)
	}
	if err := pool.FlushPage(id); err != nil {
		t.Fatal(err)
	}

	fetched, err := pool.FetchPage(id)
	if err != nil {
		t.Fatal(err)
	}
	if string(fetched.Data()[:5]) != "hello" {
		t.Fatalf("expected hello, got %q", fetched.Data()[:5])
	}
	pool.UnpinPage(id, false)
}

func TestBufferPoolExhaustion(t *testing.T) {
	pool, cleanup := newTestPool(t, 1)
	defer cleanup()

	if _, err := pool.NewPage(); err != nil {
		t.Fatal(err)
	}
	if _, err := pool.NewPage(); err != ErrBufferPoolExhausted {
		t.Fatalf("expected ErrBufferPoolExhausted, got %v", err)
	}
}

func TestBufferPoolEvictsUnpinnedLRU(t *testing.T) {
	pool, cleanup := newTestPool(t, 1)
	defer cleanup()

	p1, err := pool.NewPage()
	if err != nil {
		t.Fatal(err)
	}
	id1 := p1.ID()
	pool.UnpinPage(id1, false)

	p2, err := pool.NewPage()
	if err != nil {
		t.Fatalf("expected eviction of unpinned frame to free capacity: %v", err)
	}
	if p2.ID() == id1 {
		t.Fatal("expected a fresh page id")
	}
}
