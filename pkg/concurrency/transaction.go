// Package concurrency implements row-level two-phase locking over RIDs,
// using wait-die deadlock prevention: an older transaction waits for a
// younger one, but a younger transaction facing an older holder aborts
// immediately rather than risk a cycle.
package concurrency

import (
	"sync"
	"sync/atomic"

	rid "github.com/basaltdb/engine/pkg/rid"
)

// State is a transaction's position in the two-phase locking protocol.
type State int

const (
	Growing State = iota
	Shrinking
	Committed
	Aborted
)

func (s State) String() string {
	switch s {
	case Growing:
		return "GROWING"
	case Shrinking:
		return "SHRINKING"
	case Committed:
		return "COMMITTED"
	case Aborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// ID is a monotonically increasing transaction identifier. Lower ids are
// older, which is exactly the ordering wait-die needs.
type ID int64

// Transaction tracks one client's lock ownership and 2PL phase.
type Transaction struct {
	mu        sync.Mutex
	id        ID
	state     State
	sharedSet map[rid.RID]bool
	exclSet   map[rid.RID]bool
}

func newTransaction(id ID) *Transaction {
	return &Transaction{
		id:        id,
		state:     Growing,
		sharedSet: make(map[rid.RID]bool),
		exclSet:   make(map[rid.RID]bool),
	}
}

// ID returns the transaction's id.
func (t *Transaction) ID() ID {
	return t.id
}

// State returns the transaction's current 2PL state.
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetState transitions the transaction's state.
func (t *Transaction) SetState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
}

func (t *Transaction) addShared(r rid.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sharedSet[r] = true
}

func (t *Transaction) addExclusive(r rid.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exclSet[r] = true
}

func (t *Transaction) dropShared(r rid.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sharedSet, r)
}

func (t *Transaction) dropExclusive(r rid.RID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.exclSet, r)
}

// SharedLocks returns a snapshot of the RIDs this transaction holds shared.
func (t *Transaction) SharedLocks() []rid.RID {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rid.RID, 0, len(t.sharedSet))
	for r := range t.sharedSet {
		out = append(out, r)
	}
	return out
}

// ExclusiveLocks returns a snapshot of the RIDs this transaction holds
// exclusively.
func (t *Transaction) ExclusiveLocks() []rid.RID {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]rid.RID, 0, len(t.exclSet))
	for r := range t.exclSet {
		out = append(out, r)
	}
	return out
}

// Manager issues transaction ids and tracks live transactions.
type Manager struct {
	nextID atomic.Int64
	mu     sync.Mutex
	txns   map[ID]*Transaction
}

// NewManager constructs an empty transaction manager.
func NewManager() *Manager {
	return &Manager{txns: make(map[ID]*Transaction)}
}

// Begin starts a new transaction in the GROWING state.
func (m *Manager) Begin() *Transaction {
	id := ID(m.nextID.Add(1))
	txn := newTransaction(id)
	m.mu.Lock()
	m.txns[id] = txn
	m.mu.Unlock()
	return txn
}

// Commit marks txn COMMITTED. Lock release is the caller's (LockManager's)
// responsibility; this only updates the transaction's own bookkeeping.
func (m *Manager) Commit(txn *Transaction) {
	txn.SetState(Committed)
}

// Abort marks txn ABORTED.
func (m *Manager) Abort(txn *Transaction) {
	txn.SetState(Aborted)
}

// Get looks up a live transaction by id.
func (m *Manager) Get(id ID) (*Transaction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.txns[id]
	return txn, ok
}
