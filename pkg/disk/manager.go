// Package disk owns the one file descriptor a database lives in. It knows
// nothing about pinning, replacement, or page contents beyond their raw
// bytes — that is the buffer pool's job. It exists purely so the buffer
// pool manager has something to call ReadPage/WritePage/AllocatePage on.
package disk

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	directio "github.com/ncw/directio"

	config "github.com/basaltdb/engine/pkg/config"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// Manager reads and writes fixed-size, directio-aligned pages to a single
// backing file.
type Manager struct {
	mu      sync.Mutex
	file    *os.File
	nPages  int64
	scratch []byte // one aligned PageSize buffer, reused across calls
}

// Open creates (or reuses) the database file at filename, creating any
// missing parent directories the way the teacher's pager does.
func Open(filename string) (*Manager, error) {
	if idx := strings.LastIndex(filename, "/"); idx != -1 {
		if err := os.MkdirAll(filename[:idx], 0775); err != nil {
			return nil, err
		}
	}
	file, err := directio.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.Size()%config.PageSize != 0 {
		file.Close()
		return nil, errors.New("disk: database file size is not a multiple of the page size")
	}
	return &Manager{
		file:    file,
		nPages:  info.Size() / config.PageSize,
		scratch: directio.AlignedBlock(int(config.PageSize)),
	}, nil
}

// Close flushes nothing (callers must flush through the buffer pool first)
// and releases the file descriptor.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file.Close()
}

// NumPages returns the number of pages currently allocated on disk.
func (m *Manager) NumPages() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.nPages
}

// AllocatePage reserves and returns the next page id, without writing
// anything to disk yet — the caller is expected to WritePage it in soon
// after, mirroring the teacher's GetFreePN/NewPage split.
func (m *Manager) AllocatePage() rid.PageID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := rid.PageID(m.nPages)
	m.nPages++
	return id
}

// ReadPage fills dst (which must be config.PageSize bytes) with the
// contents of page id. Reading an allocated page that lies beyond the
// current end of file zeroes dst instead of erroring, since AllocatePage
// doesn't itself touch disk; a page id that was never allocated is an error.
func (m *Manager) ReadPage(id rid.PageID, dst []byte) error {
	if int64(len(dst)) != config.PageSize {
		return fmt.Errorf("disk: read buffer must be %d bytes, got %d", config.PageSize, len(dst))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if int64(id) >= m.nPages {
		return fmt.Errorf("disk: page %d does not exist", id)
	}
	n, err := m.file.ReadAt(dst, int64(id)*config.PageSize)
	if err != nil && n == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return nil
	}
	return err
}

// WritePage persists src (config.PageSize bytes) as page id.
func (m *Manager) WritePage(id rid.PageID, src []byte) error {
	if int64(len(src)) != config.PageSize {
		return fmt.Errorf("disk: write buffer must be %d bytes, got %d", config.PageSize, len(src))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.file.WriteAt(src, int64(id)*config.PageSize)
	if err != nil {
		return err
	}
	if int64(id) >= m.nPages {
		m.nPages = int64(id) + 1
	}
	return nil
}
