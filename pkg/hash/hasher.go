package hash

import (
	"encoding/binary"

	xxhash "github.com/cespare/xxhash"
	murmur3 "github.com/spaolacci/murmur3"
)

// Int64Hash mixes xxhash and murmur3 over the 8-byte encoding of an int64
// key. Two independent hash families are folded together so a pathological
// key that happens to collide under one of them still spreads under the
// other; this is the hash used to key the buffer pool's page table
// (ExtendibleHashTable[PageID, FrameID]).
func Int64Hash(key int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(key))
	return BytesHash(buf[:])
}

// BytesHash folds xxhash and murmur3 digests of b into a single uint64.
func BytesHash(b []byte) uint64 {
	x := xxhash.Sum64(b)
	m := murmur3.Sum64(b)
	return x ^ (m + 0x9e3779b97f4a7c15 + (x << 6) + (x >> 2))
}

// StringHash hashes a string key the same way BytesHash hashes a byte slice.
func StringHash(key string) uint64 {
	return BytesHash([]byte(key))
}
