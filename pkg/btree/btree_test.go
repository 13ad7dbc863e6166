package btree

import (
	"math/rand"
	"os"
	"testing"

	buffer "github.com/basaltdb/engine/pkg/buffer"
	disk "github.com/basaltdb/engine/pkg/disk"
	rid "github.com/basaltdb/engine/pkg/rid"
)

func newTestTree(t *testing.T, numFrames int) (*BPlusTree[Key8], func()) {
	t.Helper()
	f, err := os.CreateTemp("", "btree-test-*.db")
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
	bpm := buffer.New(d, numFrames)
	tree, err := New[Key8]("test-index", bpm, Compare8, Codec8)
	if err != nil {
		t.Fatal(err)
	}
	return tree, func() {
		d.Close()
		os.Remove(name)
	}
}

func TestBPlusTreeInsertAndGet(t *testing.T) {
	tree, cleanup := newTestTree(t, 64)
	defer cleanup()

	for i := int64(0); i < 50; i++ {
		ok, err := tree.Insert(KeyFromInt64(i), rid.New(rid.PageID(i), 0))
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("insert %d: expected success", i)
		}
	}

	for i := int64(0); i < 50; i++ {
		v, found, err := tree.GetValue(KeyFromInt64(i))
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if !found {
			t.Fatalf("get %d: expected to find key", i)
		}
		if v.Page != rid.PageID(i) {
			t.Fatalf("get %d: expected page %d, got %d", i, i, v.Page)
		}
	}
}

func TestBPlusTreeDuplicateInsertFails(t *testing.T) {
	tree, cleanup := newTestTree(t, 64)
	defer cleanup()

	if ok, err := tree.Insert(KeyFromInt64(1), rid.New(1, 0)); err != nil || !ok {
		t.Fatalf("expected first insert to succeed, ok=%v err=%v", ok, err)
	}
	if ok, err := tree.Insert(KeyFromInt64(1), rid.New(2, 0)); err != nil || ok {
		t.Fatalf("expected duplicate insert to fail, ok=%v err=%v", ok, err)
	}
}

func TestBPlusTreeForcesSplits(t *testing.T) {
	tree, cleanup := newTestTree(t, 128)
	defer cleanup()

	const n = 500
	for i := int64(0); i < n; i++ {
		if _, err := tree.Insert(KeyFromInt64(i), rid.New(rid.PageID(i), 0)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	for i := int64(0); i < n; i++ {
		_, found, err := tree.GetValue(KeyFromInt64(i))
		if err != nil || !found {
			t.Fatalf("get %d: found=%v err=%v", i, found, err)
		}
	}
}

func TestBPlusTreeRemove(t *testing.T) {
	tree, cleanup := newTestTree(t, 128)
	defer cleanup()

	const n = 300
	for i := int64(0); i < n; i++ {
		if _, err := tree.Insert(KeyFromInt64(i), rid.New(rid.PageID(i), 0)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	for i := int64(0); i < n; i += 2 {
		if err := tree.Remove(KeyFromInt64(i)); err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}

	for i := int64(0); i < n; i++ {
		_, found, err := tree.GetValue(KeyFromInt64(i))
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		wantFound := i%2 != 0
		if found != wantFound {
			t.Fatalf("get %d: found=%v, want %v", i, found, wantFound)
		}
	}
}

func TestBPlusTreeRemoveAllEmptiesTree(t *testing.T) {
	tree, cleanup := newTestTree(t, 64)
	defer cleanup()

	const n = 40
	for i := int64(0); i < n; i++ {
		if _, err := tree.Insert(KeyFromInt64(i), rid.New(rid.PageID(i), 0)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	for i := int64(0); i < n; i++ {
		if err := tree.Remove(KeyFromInt64(i)); err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}
	if !tree.IsEmpty() {
		t.Fatal("expected tree to be empty after removing every key")
	}
	if _, found, _ := tree.GetValue(KeyFromInt64(0)); found {
		t.Fatal("expected no keys to remain")
	}
}

func TestBPlusTreeIteratorOrder(t *testing.T) {
	tree, cleanup := newTestTree(t, 128)
	defer cleanup()

	const n = 200
	order := rand.New(rand.NewSource(7)).Perm(n)
	for _, i := range order {
		if _, err := tree.Insert(KeyFromInt64(int64(i)), rid.New(rid.PageID(i), 0)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	it, err := tree.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	count := 0
	var prev int64 = -1
	for !it.IsEnd() {
		k := Int64FromKey(it.Key())
		if k <= prev {
			t.Fatalf("iterator out of order: prev=%d, got=%d", prev, k)
		}
		prev = k
		count++
		if err := it.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if count != n {
		t.Fatalf("expected %d entries, iterated %d", n, count)
	}
}

func TestBPlusTreeBeginAt(t *testing.T) {
	tree, cleanup := newTestTree(t, 64)
	defer cleanup()

	for i := int64(0); i < 20; i += 2 {
		if _, err := tree.Insert(KeyFromInt64(i), rid.New(rid.PageID(i), 0)); err != nil {
			t.Fatal(err)
		}
	}

	it, err := tree.BeginAt(KeyFromInt64(5))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	if it.IsEnd() {
		t.Fatal("expected an entry after key 5")
	}
	if got := Int64FromKey(it.Key()); got != 6 {
		t.Fatalf("expected first key after 5 to be 6, got %d", got)
	}
}

// TestBPlusTreeBeginAtExactMatchIsExclusive covers the boundary BeginAt's
// sibling test above never exercises: seeking at a key that is actually
// present must land on the entry after it, not on it, matching the leaf
// KeyIndex seek primitive (strictly greater than, not greater-or-equal).
func TestBPlusTreeBeginAtExactMatchIsExclusive(t *testing.T) {
	tree, cleanup := newTestTree(t, 64)
	defer cleanup()

	for i := int64(0); i < 20; i++ {
		if _, err := tree.Insert(KeyFromInt64(i), rid.New(rid.PageID(i), 0)); err != nil {
			t.Fatal(err)
		}
	}

	it, err := tree.BeginAt(KeyFromInt64(5))
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	if it.IsEnd() {
		t.Fatal("expected an entry after key 5")
	}
	if got := Int64FromKey(it.Key()); got != 6 {
		t.Fatalf("expected seeking at present key 5 to land on 6, got %d", got)
	}

	last, err := tree.BeginAt(KeyFromInt64(19))
	if err != nil {
		t.Fatal(err)
	}
	defer last.Close()
	if !last.IsEnd() {
		t.Fatalf("expected seeking at the last key to land past the end, got %d", Int64FromKey(last.Key()))
	}
}

// TestBPlusTreeOrdersAcrossByteBoundary guards against a big-endian/
// little-endian mismatch between KeyFromInt64's packing and Compare8's
// byte-lexicographic order: without it, values differing in a high byte
// (e.g. 1 vs 256) would sort incorrectly.
func TestBPlusTreeOrdersAcrossByteBoundary(t *testing.T) {
	tree, cleanup := newTestTree(t, 64)
	defer cleanup()

	values := []int64{1, 256, 65536, 2, 255, 65535, 16777216}
	for _, v := range values {
		if _, err := tree.Insert(KeyFromInt64(v), rid.New(rid.PageID(v), 0)); err != nil {
			t.Fatal(err)
		}
	}

	it, err := tree.Begin()
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	var prev int64 = -1
	count := 0
	for !it.IsEnd() {
		k := Int64FromKey(it.Key())
		if k <= prev {
			t.Fatalf("iterator out of numeric order: prev=%d, got=%d", prev, k)
		}
		prev = k
		count++
		if err := it.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if count != len(values) {
		t.Fatalf("expected %d entries, iterated %d", len(values), count)
	}
}
