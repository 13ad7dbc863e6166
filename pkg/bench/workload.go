// Package bench drives concurrent workloads against the storage core for
// its concurrency tests, grounded in the teacher's pkg/query.Join use of
// errgroup.WithContext to fan independent bucket probes out across
// goroutines and cancel the rest on the first failure.
package bench

import (
	"context"

	errgroup "golang.org/x/sync/errgroup"

	concurrency "github.com/basaltdb/engine/pkg/concurrency"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// Op is one unit of work a Workload goroutine performs.
type Op func(ctx context.Context) error

// Workload fans a set of operations out across goroutines, cancelling the
// rest at the first error.
type Workload struct {
	ops []Op
}

// New constructs an empty workload.
func New() *Workload { return &Workload{} }

// Add appends one operation to the workload.
func (w *Workload) Add(op Op) { w.ops = append(w.ops, op) }

// Run executes every added operation on its own goroutine and waits for
// all of them, returning the first error encountered, if any.
func (w *Workload) Run(ctx context.Context) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, op := range w.ops {
		op := op
		group.Go(func() error { return op(gctx) })
	}
	return group.Wait()
}

// LockUnlockCycle returns an Op that repeatedly begins a transaction,
// acquires and releases an exclusive lock on target, and commits or
// aborts depending on whether wait-die granted the lock — useful for
// hammering LockManager's contention path from many goroutines at once.
func LockUnlockCycle(lm *concurrency.LockManager, tm *concurrency.Manager, target rid.RID, count int) Op {
	return func(ctx context.Context) error {
		for i := 0; i < count; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			txn := tm.Begin()
			if lm.LockExclusive(txn, target) {
				lm.Unlock(txn, target)
				tm.Commit(txn)
			} else {
				tm.Abort(txn)
			}
		}
		return nil
	}
}
