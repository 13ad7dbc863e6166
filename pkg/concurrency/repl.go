package concurrency

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	repl "github.com/basaltdb/engine/pkg/repl"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// Repl wires a REPL around a LockManager and Manager, driving transactions
// and row locks from the command line the way hash/lru/btree do over their
// own structures. Lock targets are written as "<page>:<slot>".
func Repl(lm *LockManager, tm *Manager) *repl.REPL {
	r := repl.NewRepl()

	parseTarget := func(s string) (rid.RID, error) {
		parts := strings.SplitN(s, ":", 2)
		page, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return rid.RID{}, fmt.Errorf("bad page in target %q: %w", s, err)
		}
		var slot int64
		if len(parts) == 2 {
			slot, err = strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return rid.RID{}, fmt.Errorf("bad slot in target %q: %w", s, err)
			}
		}
		return rid.New(rid.PageID(page), uint32(slot)), nil
	}

	parseTxn := func(s string) (*Transaction, error) {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad txn id: %w", err)
		}
		txn, ok := tm.Get(ID(id))
		if !ok {
			return nil, fmt.Errorf("no such transaction %d", id)
		}
		return txn, nil
	}

	r.AddCommand("lock_begin", func(_ string, replConfig *repl.REPLConfig) error {
		txn := tm.Begin()
		io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%d\n", txn.ID()))
		return nil
	}, "Begin a new transaction and print its id. usage: lock_begin")
	r.AddCommand("lock_shared", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: lock_shared <txn> <page:slot>")
		}
		txn, err := parseTxn(fields[1])
		if err != nil {
			return err
		}
		target, err := parseTarget(fields[2])
		if err != nil {
			return err
		}
		if lm.LockShared(txn, target) {
			io.WriteString(replConfig.GetWriter(), "granted\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "aborted\n")
		}
		return nil
	}, "Acquire a shared lock. usage: lock_shared <txn> <page:slot>")
	r.AddCommand("lock_exclusive", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: lock_exclusive <txn> <page:slot>")
		}
		txn, err := parseTxn(fields[1])
		if err != nil {
			return err
		}
		target, err := parseTarget(fields[2])
		if err != nil {
			return err
		}
		if lm.LockExclusive(txn, target) {
			io.WriteString(replConfig.GetWriter(), "granted\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "aborted\n")
		}
		return nil
	}, "Acquire an exclusive lock. usage: lock_exclusive <txn> <page:slot>")
	r.AddCommand("lock_upgrade", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: lock_upgrade <txn> <page:slot>")
		}
		txn, err := parseTxn(fields[1])
		if err != nil {
			return err
		}
		target, err := parseTarget(fields[2])
		if err != nil {
			return err
		}
		if lm.LockUpgrade(txn, target) {
			io.WriteString(replConfig.GetWriter(), "granted\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "aborted\n")
		}
		return nil
	}, "Upgrade a shared lock to exclusive. usage: lock_upgrade <txn> <page:slot>")
	r.AddCommand("lock_release", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: lock_release <txn> <page:slot>")
		}
		txn, err := parseTxn(fields[1])
		if err != nil {
			return err
		}
		target, err := parseTarget(fields[2])
		if err != nil {
			return err
		}
		if lm.Unlock(txn, target) {
			io.WriteString(replConfig.GetWriter(), "released\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "not held\n")
		}
		return nil
	}, "Release a lock. usage: lock_release <txn> <page:slot>")
	r.AddCommand("lock_commit", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: lock_commit <txn>")
		}
		txn, err := parseTxn(fields[1])
		if err != nil {
			return err
		}
		tm.Commit(txn)
		return nil
	}, "Mark a transaction committed. usage: lock_commit <txn>")
	r.AddCommand("lock_status", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: lock_status <txn>")
		}
		txn, err := parseTxn(fields[1])
		if err != nil {
			return err
		}
		io.WriteString(replConfig.GetWriter(), fmt.Sprintf("state=%v shared=%v exclusive=%v\n", txn.State(), txn.SharedLocks(), txn.ExclusiveLocks()))
		return nil
	}, "Print a transaction's state and held locks. usage: lock_status <txn>")
	return r
}
