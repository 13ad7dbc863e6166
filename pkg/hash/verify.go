package hash

// IsConsistent checks, for every bucket in the directory, that each of its
// entries actually hashes to a slot covered by that bucket at its local
// depth, that every slot pointing at it shares those low bits, and that
// exactly 2^(globalDepth-localDepth) slots point at it. A table that fails
// this check has a bug in split or extend.
func IsConsistent[K comparable, V any](t *ExtendibleHashTable[K, V]) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	mask := func(depth int) uint64 { return uint64(1<<uint(depth)) - 1 }
	seen := make(map[*bucket[K, V]]int)
	slots := make(map[*bucket[K, V]]int)
	for slot, b := range t.directory {
		if b == nil {
			continue
		}
		slots[b]++
		if _, ok := seen[b]; !ok {
			seen[b] = slot & int(mask(b.depth))
		}
		want := seen[b]
		if slot&int(mask(b.depth)) != want {
			return false
		}
		for k := range b.entries {
			if int(t.hashFn(k)&mask(b.depth)) != want {
				return false
			}
		}
	}
	for b, n := range slots {
		if n != 1<<uint(t.globalDepth-b.depth) {
			return false
		}
	}
	return true
}
