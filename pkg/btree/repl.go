package btree

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	repl "github.com/basaltdb/engine/pkg/repl"
	rid "github.com/basaltdb/engine/pkg/rid"
)

// Repl wires a REPL around an int64-keyed index, mirroring hash.Repl and
// replacer.Repl. Values are RIDs written as "<page>:<slot>".
func Repl(t *BPlusTree[Key8]) *repl.REPL {
	r := repl.NewRepl()

	parseValue := func(s string) (rid.RID, error) {
		parts := strings.SplitN(s, ":", 2)
		page, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return rid.RID{}, fmt.Errorf("bad page in value %q: %w", s, err)
		}
		var slot int64
		if len(parts) == 2 {
			slot, err = strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return rid.RID{}, fmt.Errorf("bad slot in value %q: %w", s, err)
			}
		}
		return rid.New(rid.PageID(page), uint32(slot)), nil
	}

	r.AddCommand("btree_insert", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: btree_insert <key> <page:slot>")
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad key: %w", err)
		}
		value, err := parseValue(fields[2])
		if err != nil {
			return err
		}
		ok, err := t.Insert(KeyFromInt64(key), value)
		if err != nil {
			return err
		}
		if !ok {
			io.WriteString(replConfig.GetWriter(), "duplicate key\n")
		}
		return nil
	}, "Insert a key/RID pair. usage: btree_insert <key> <page:slot>")
	r.AddCommand("btree_find", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: btree_find <key>")
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad key: %w", err)
		}
		value, ok, err := t.GetValue(KeyFromInt64(key))
		if err != nil {
			return err
		}
		if ok {
			io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%s\n", value))
		} else {
			io.WriteString(replConfig.GetWriter(), "not found\n")
		}
		return nil
	}, "Find a key. usage: btree_find <key>")
	r.AddCommand("btree_remove", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: btree_remove <key>")
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad key: %w", err)
		}
		if err := t.Remove(KeyFromInt64(key)); err != nil {
			return err
		}
		io.WriteString(replConfig.GetWriter(), "removed\n")
		return nil
	}, "Remove a key. usage: btree_remove <key>")
	r.AddCommand("btree_range", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: btree_range <low> <high>")
		}
		low, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad low key: %w", err)
		}
		high, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("bad high key: %w", err)
		}
		// BeginAt skips an exact match, so seek from just below low to
		// include low itself.
		var it *IndexIterator[Key8]
		if low == math.MinInt64 {
			it, err = t.Begin()
		} else {
			it, err = t.BeginAt(KeyFromInt64(low - 1))
		}
		if err != nil {
			return err
		}
		defer it.Close()
		for !it.IsEnd() && Int64FromKey(it.Key()) <= high {
			io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%d -> %s\n", Int64FromKey(it.Key()), it.Value()))
			if err := it.Next(); err != nil {
				return err
			}
		}
		return nil
	}, "Print every key in [low, high]. usage: btree_range <low> <high>")
	r.AddCommand("btree_print", func(_ string, replConfig *repl.REPLConfig) error {
		it, err := t.Begin()
		if err != nil {
			return err
		}
		defer it.Close()
		for !it.IsEnd() {
			io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%d -> %s\n", Int64FromKey(it.Key()), it.Value()))
			if err := it.Next(); err != nil {
				return err
			}
		}
		return nil
	}, "Print every key in the index, in order. usage: btree_print")
	return r
}
