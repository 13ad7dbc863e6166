package hash

import "testing"

func TestExtendibleHashInsertFindRemove(t *testing.T) {
	tbl := NewExtendibleHashTable[int64, string](2, Int64Hash)
	for i := int64(0); i < 64; i++ {
		tbl.Insert(i, "v")
	}
	for i := int64(0); i < 64; i++ {
		if _, ok := tbl.Find(i); !ok {
			t.Fatalf("expected key %d to be present", i)
		}
	}
	if !tbl.Remove(10) {
		t.Fatal("expected remove of present key to succeed")
	}
	if _, ok := tbl.Find(10); ok {
		t.Fatal("expected key 10 to be gone after remove")
	}
	if tbl.Remove(10) {
		t.Fatal("expected second remove of same key to report absent")
	}
}

func TestExtendibleHashSplitsGrowDirectory(t *testing.T) {
	tbl := NewExtendibleHashTable[int64, int](2, Int64Hash)
	startDepth := tbl.GetGlobalDepth()
	for i := int64(0); i < 200; i++ {
		tbl.Insert(i, int(i))
	}
	if tbl.GetGlobalDepth() <= startDepth {
		t.Fatalf("expected global depth to grow past %d, got %d", startDepth, tbl.GetGlobalDepth())
	}
	if tbl.GetNumBuckets() <= 1 {
		t.Fatalf("expected more than one bucket after splits, got %d", tbl.GetNumBuckets())
	}
	if !IsConsistent[int64, int](tbl) {
		t.Fatal("expected directory/bucket invariant to hold after splits")
	}
}

func TestExtendibleHashLocalDepthOutOfRange(t *testing.T) {
	tbl := NewExtendibleHashTable[int64, int](4, Int64Hash)
	if d := tbl.GetLocalDepth(9999); d != -1 {
		t.Fatalf("expected -1 for an out-of-range slot, got %d", d)
	}
}

func TestExtendibleHashUpsertOverwritesValue(t *testing.T) {
	tbl := NewExtendibleHashTable[int64, string](4, Int64Hash)
	tbl.Insert(1, "first")
	tbl.Insert(1, "second")
	v, ok := tbl.Find(1)
	if !ok || v != "second" {
		t.Fatalf("expected upsert to overwrite value, got %q, ok=%v", v, ok)
	}
}

func TestExtendibleHashEntriesSnapshot(t *testing.T) {
	tbl := NewExtendibleHashTable[int64, int](2, Int64Hash)
	want := map[int64]int{}
	for i := int64(0); i < 30; i++ {
		tbl.Insert(i, int(i*2))
		want[i] = int(i * 2)
	}
	got := tbl.Entries()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("entry %d: expected %d, got %d", k, v, got[k])
		}
	}
}
