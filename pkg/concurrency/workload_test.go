package concurrency

import (
	"context"
	"testing"

	bench "github.com/basaltdb/engine/pkg/bench"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// TestLockManagerUnderConcurrentWorkload hammers a single RID's exclusive
// lock from many goroutines at once via pkg/bench, where each cycle either
// grants-then-unlocks or aborts under wait-die, and checks that the run
// reports no error and leaves no request behind in the lock table.
func TestLockManagerUnderConcurrentWorkload(t *testing.T) {
	lm := NewLockManager()
	mgr := NewManager()
	target := rid.New(7, 0)

	w := bench.New()
	for i := 0; i < 8; i++ {
		w.Add(bench.LockUnlockCycle(lm, mgr, target, 50))
	}
	if err := w.Run(context.Background()); err != nil {
		t.Fatalf("workload failed: %v", err)
	}

	if _, ok := lm.table[target]; ok {
		t.Fatal("expected lock table entry to be cleared once every cycle released its lock")
	}
}
