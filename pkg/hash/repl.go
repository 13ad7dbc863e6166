package hash

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	repl "github.com/basaltdb/engine/pkg/repl"
)

// Repl wires a REPL around an int64-keyed, string-valued table for
// interactive exploration, mirroring the way pkg/list.ListRepl exposes its
// structure through a command table rather than a custom shell.
func Repl(t *ExtendibleHashTable[int64, string]) *repl.REPL {
	r := repl.NewRepl()
	r.AddCommand("hash_insert", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 3 {
			return errors.New("usage: hash_insert <key> <value>")
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad key: %w", err)
		}
		t.Insert(key, fields[2])
		return nil
	}, "Insert a key/value pair. usage: hash_insert <key> <value>")
	r.AddCommand("hash_find", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: hash_find <key>")
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad key: %w", err)
		}
		if v, ok := t.Find(key); ok {
			io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%s\n", v))
		} else {
			io.WriteString(replConfig.GetWriter(), "not found\n")
		}
		return nil
	}, "Find a key. usage: hash_find <key>")
	r.AddCommand("hash_remove", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: hash_remove <key>")
		}
		key, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad key: %w", err)
		}
		if t.Remove(key) {
			io.WriteString(replConfig.GetWriter(), "removed\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "not found\n")
		}
		return nil
	}, "Remove a key. usage: hash_remove <key>")
	r.AddCommand("hash_depth", func(_ string, replConfig *repl.REPLConfig) error {
		io.WriteString(replConfig.GetWriter(), fmt.Sprintf("global depth: %d, buckets: %d\n", t.GetGlobalDepth(), t.GetNumBuckets()))
		return nil
	}, "Print the table's global depth and bucket count. usage: hash_depth")
	r.AddCommand("hash_print", func(_ string, replConfig *repl.REPLConfig) error {
		t.Print(replConfig.GetWriter())
		return nil
	}, "Print the directory and every bucket's contents. usage: hash_print")
	return r
}
