package btree

import (
	"encoding/binary"

	buffer "github.com/basaltdb/engine/pkg/buffer"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// headerPage persists the single fact every index needs to be rediscovered
// after a restart: its name and its current root page id. Layout:
//   bytes 0-3   name length n
//   bytes 4..4+n-1   name
//   next 8 bytes   root page id (int64), immediately after the name
func readHeaderName(data []byte) string {
	n := binary.LittleEndian.Uint32(data[0:4])
	return string(data[4 : 4+n])
}

func readHeaderRoot(data []byte) rid.PageID {
	n := binary.LittleEndian.Uint32(data[0:4])
	return rid.PageID(int64(binary.LittleEndian.Uint64(data[4+n:])))
}

func writeHeader(page *buffer.Page, name string, root rid.PageID) {
	data := page.Data()
	binary.LittleEndian.PutUint32(data[0:4], uint32(len(name)))
	copy(data[4:], name)
	binary.LittleEndian.PutUint64(data[4+len(name):], uint64(int64(root)))
}
