package concurrency

import (
	"sync"

	diag "github.com/basaltdb/engine/pkg/diag"
	list "github.com/basaltdb/engine/pkg/list"
	rid "github.com/basaltdb/engine/pkg/rid"
)

type lockMode int

const (
	shared lockMode = iota
	exclusive
)

// request is one transaction's position in a RID's wait queue. Queues are
// built from pkg/list: Unlock finds a transaction's request by scanning its
// queue and then pops it out in O(1).
type request struct {
	txnID   ID
	mode    lockMode
	granted bool
}

type lockTableEntry struct {
	queue          *list.List
	oldest         ID
	exclusiveCount int
}

// LockManager grants and releases row-level shared/exclusive locks keyed by
// RID, enforcing wait-die: an older transaction blocks, a younger one facing
// an older holder aborts rather than wait and risk a deadlock cycle.
type LockManager struct {
	mu    sync.Mutex
	cond  *sync.Cond
	table map[rid.RID]*lockTableEntry
	log   *diag.EventLog
}

// NewLockManager constructs an empty lock manager.
func NewLockManager() *LockManager {
	lm := &LockManager{table: make(map[rid.RID]*lockTableEntry)}
	lm.cond = sync.NewCond(&lm.mu)
	return lm
}

// SetEventLog attaches an event log that lock grants and wait-die aborts
// get recorded to. A nil log (the default) disables recording.
func (lm *LockManager) SetEventLog(log *diag.EventLog) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.log = log
}

func (lm *LockManager) entryLinks(entry *lockTableEntry) []*list.Link {
	links := make([]*list.Link, 0)
	for l := entry.queue.PeekHead(); l != nil; l = l.GetNext() {
		links = append(links, l)
		if l == entry.queue.PeekTail() {
			break
		}
	}
	return links
}

func (lm *LockManager) findByTxn(entry *lockTableEntry, txnID ID) *list.Link {
	return entry.queue.Find(func(l *list.Link) bool {
		return l.GetKey().(*request).txnID == txnID
	})
}

// LockShared acquires a shared lock on rid for txn, blocking until every
// request ahead of it in the queue is itself SHARED and granted.
func (lm *LockManager) LockShared(txn *Transaction, target rid.RID) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if txn.State() == Aborted {
		return false
	}
	entry, ok := lm.table[target]
	if !ok {
		entry = &lockTableEntry{queue: list.NewList(), oldest: txn.id}
		lm.table[target] = entry
	} else {
		if entry.exclusiveCount != 0 && txn.id > entry.oldest {
			txn.SetState(Aborted)
			lm.log.Record("lock", "txn %d aborted (wait-die) acquiring shared lock on %v", txn.id, target)
			return false
		}
		if txn.id < entry.oldest {
			entry.oldest = txn.id
		}
	}
	req := &request{txnID: txn.id, mode: shared}
	link := entry.queue.PushTail(req)

	for {
		allPrecedingShared := true
		for _, l := range lm.entryLinks(entry) {
			if l == link {
				break
			}
			r := l.GetKey().(*request)
			if r.mode != shared || !r.granted {
				allPrecedingShared = false
				break
			}
		}
		if allPrecedingShared {
			break
		}
		lm.cond.Wait()
	}

	req.granted = true
	txn.addShared(target)
	lm.log.Record("lock", "txn %d granted shared lock on %v", txn.id, target)
	lm.cond.Broadcast()
	return true
}

// LockExclusive acquires an exclusive lock on rid for txn, blocking until
// its request reaches the front of the queue.
func (lm *LockManager) LockExclusive(txn *Transaction, target rid.RID) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if txn.State() == Aborted {
		return false
	}
	entry, ok := lm.table[target]
	if !ok {
		entry = &lockTableEntry{queue: list.NewList(), oldest: txn.id}
		lm.table[target] = entry
	} else {
		if entry.queue.PeekHead() != nil && txn.id > entry.oldest {
			txn.SetState(Aborted)
			lm.log.Record("lock", "txn %d aborted (wait-die) acquiring exclusive lock on %v", txn.id, target)
			return false
		}
		entry.oldest = txn.id
	}
	req := &request{txnID: txn.id, mode: exclusive}
	link := entry.queue.PushTail(req)
	entry.exclusiveCount++

	for entry.queue.PeekHead() != link {
		lm.cond.Wait()
	}

	req.granted = true
	txn.addExclusive(target)
	lm.log.Record("lock", "txn %d granted exclusive lock on %v", txn.id, target)
	lm.cond.Broadcast()
	return true
}

// LockUpgrade promotes txn's existing shared lock on rid to exclusive.
// Every request strictly between the shared request and the first
// exclusive request after it is checked against wait-die: an older
// contender there means txn must die rather than upgrade past it.
func (lm *LockManager) LockUpgrade(txn *Transaction, target rid.RID) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	if txn.State() == Aborted {
		return false
	}
	entry, ok := lm.table[target]
	if !ok {
		return false
	}
	links := lm.entryLinks(entry)
	var srcIdx int = -1
	tgtIdx := len(links)
	for i, l := range links {
		r := l.GetKey().(*request)
		if r.txnID == txn.id && r.mode == shared {
			srcIdx = i
			continue
		}
		if srcIdx != -1 && r.mode == exclusive {
			tgtIdx = i
			break
		}
	}
	if srcIdx == -1 {
		return false
	}
	for i := srcIdx + 1; i < tgtIdx; i++ {
		r := links[i].GetKey().(*request)
		if r.txnID < txn.id {
			txn.SetState(Aborted)
			lm.log.Record("lock", "txn %d aborted (wait-die) upgrading lock on %v", txn.id, target)
			return false
		}
	}

	txn.dropShared(target)

	// Rebuild the queue with the shared request replaced by a new,
	// ungranted exclusive request inserted immediately before tgt:
	// everything before src keeps its place, everything from src's old
	// slot up to (but not including) tgt shifts down by one, and tgt
	// onward is untouched. pkg/list has no insert-before primitive, so the
	// whole queue is rebuilt in the new order.
	newReq := &request{txnID: txn.id, mode: exclusive}
	newOrder := make([]*request, 0, len(links))
	for i, l := range links {
		if i == srcIdx {
			continue
		}
		if i == tgtIdx {
			newOrder = append(newOrder, newReq)
		}
		newOrder = append(newOrder, l.GetKey().(*request))
	}
	if tgtIdx >= len(links) {
		newOrder = append(newOrder, newReq)
	}
	for _, l := range links {
		l.PopSelf()
	}
	entry.queue = list.NewList()
	var newLink *list.Link
	for _, r := range newOrder {
		l := entry.queue.PushTail(r)
		if r == newReq {
			newLink = l
		}
	}
	entry.exclusiveCount++

	for entry.queue.PeekHead() != newLink {
		lm.cond.Wait()
	}

	newReq.granted = true
	txn.addExclusive(target)
	lm.log.Record("lock", "txn %d upgraded to exclusive lock on %v", txn.id, target)
	lm.cond.Broadcast()
	return true
}

// Unlock releases txn's request on rid, its natural inverse of whichever
// Lock* call granted it. The first unlock a transaction performs also
// transitions it from GROWING to SHRINKING, per (non-strict) two-phase
// locking.
func (lm *LockManager) Unlock(txn *Transaction, target rid.RID) bool {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	entry, ok := lm.table[target]
	if !ok {
		return false
	}
	link := lm.findByTxn(entry, txn.id)
	if link == nil {
		return false
	}
	req := link.GetKey().(*request)
	link.PopSelf()
	if req.mode == exclusive {
		entry.exclusiveCount--
		txn.dropExclusive(target)
	} else {
		txn.dropShared(target)
	}
	if entry.queue.PeekHead() == nil {
		delete(lm.table, target)
	} else {
		oldest := ID(0)
		first := true
		for _, l := range lm.entryLinks(entry) {
			id := l.GetKey().(*request).txnID
			if first || id < oldest {
				oldest = id
				first = false
			}
		}
		entry.oldest = oldest
	}
	if txn.State() == Growing {
		txn.SetState(Shrinking)
	}
	lm.cond.Broadcast()
	return true
}
