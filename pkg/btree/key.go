// Package btree implements a disk-oriented B+Tree index: leaf and internal
// nodes are views over buffer-pool pages, not in-memory trees, so every
// traversal goes through FetchPage/NewPage/UnpinPage/DeletePage. The tree
// is generic over key type; the five required fixed-width key widths
// (4/8/16/32/64 bytes) are concrete array types rather than a type
// parameterized over an integer length, since Go generics cannot abstract
// over array size the way C++ templates abstract over GenericKey<N>.
package btree

// Comparator orders two keys: negative if a < b, zero if equal, positive if
// a > b. The B+Tree never compares keys any other way, so callers are free
// to plug in byte-lexicographic, numeric, or any other total order.
type Comparator[K any] func(a, b K) int

// KeyCodec encodes/decodes a fixed-width key to/from the raw bytes stored in
// a page. Width must be constant across the codec's lifetime: it determines
// how many entries fit in a node.
type KeyCodec[K any] interface {
	Width() int
	Encode(k K, dst []byte)
	Decode(src []byte) K
}

// Key4, Key8, Key16, Key32, Key64 are the fixed-width key instantiations
// the spec requires, each paired with Value = rid.RID. Any fixed-size
// comparable payload (an integer, a short string, a composite of columns)
// can be packed into one of these.
type Key4 [4]byte
type Key8 [8]byte
type Key16 [16]byte
type Key32 [32]byte
type Key64 [64]byte

type codec4 struct{}
type codec8 struct{}
type codec16 struct{}
type codec32 struct{}
type codec64 struct{}

func (codec4) Width() int  { return 4 }
func (codec8) Width() int  { return 8 }
func (codec16) Width() int { return 16 }
func (codec32) Width() int { return 32 }
func (codec64) Width() int { return 64 }

func (codec4) Encode(k Key4, dst []byte)   { copy(dst, k[:]) }
func (codec8) Encode(k Key8, dst []byte)   { copy(dst, k[:]) }
func (codec16) Encode(k Key16, dst []byte) { copy(dst, k[:]) }
func (codec32) Encode(k Key32, dst []byte) { copy(dst, k[:]) }
func (codec64) Encode(k Key64, dst []byte) { copy(dst, k[:]) }

func (codec4) Decode(src []byte) (k Key4)   { copy(k[:], src); return }
func (codec8) Decode(src []byte) (k Key8)   { copy(k[:], src); return }
func (codec16) Decode(src []byte) (k Key16) { copy(k[:], src); return }
func (codec32) Decode(src []byte) (k Key32) { copy(k[:], src); return }
func (codec64) Decode(src []byte) (k Key64) { copy(k[:], src); return }

// Codec4, Codec8, Codec16, Codec32, Codec64 are the ready-made KeyCodec
// implementations for the five required fixed-width key types.
var (
	Codec4  KeyCodec[Key4]  = codec4{}
	Codec8  KeyCodec[Key8]  = codec8{}
	Codec16 KeyCodec[Key16] = codec16{}
	Codec32 KeyCodec[Key32] = codec32{}
	Codec64 KeyCodec[Key64] = codec64{}
)

// compareBytes is the natural lexicographic comparator for any of the fixed
// key types, used via a small wrapper per width (see Compare4, Compare8, ...).
func compareBytes(a, b []byte) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func Compare4(a, b Key4) int   { return compareBytes(a[:], b[:]) }
func Compare8(a, b Key8) int   { return compareBytes(a[:], b[:]) }
func Compare16(a, b Key16) int { return compareBytes(a[:], b[:]) }
func Compare32(a, b Key32) int { return compareBytes(a[:], b[:]) }
func Compare64(a, b Key64) int { return compareBytes(a[:], b[:]) }

// KeyFromInt64 packs an int64 into a Key8 big-endian, with the sign bit
// flipped, so that Compare8's byte-lexicographic order matches numeric
// order (Compare8 compares starting at byte 0, so a little-endian packing
// would sort by low byte first and break ordering across values that
// differ in a high byte, e.g. 1 vs 256). This is the common case of
// indexing an integer column.
func KeyFromInt64(v int64) Key8 {
	u := uint64(v) ^ (1 << 63)
	var k Key8
	for i := 0; i < 8; i++ {
		k[7-i] = byte(u >> (8 * i))
	}
	return k
}

// Int64FromKey unpacks a Key8 produced by KeyFromInt64.
func Int64FromKey(k Key8) int64 {
	var u uint64
	for i := 0; i < 8; i++ {
		u |= uint64(k[7-i]) << (8 * i)
	}
	return int64(u ^ (1 << 63))
}
