package replacer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	repl "github.com/basaltdb/engine/pkg/repl"
)

// Repl wires a REPL around an int-keyed replacer so its victim ordering can
// be driven and inspected from the command line.
func Repl(r *LRUReplacer[int]) *repl.REPL {
	out := repl.NewRepl()
	out.AddCommand("lru_insert", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: lru_insert <id>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad id: %w", err)
		}
		r.Insert(id)
		return nil
	}, "Mark id as most recently used. usage: lru_insert <id>")
	out.AddCommand("lru_erase", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: lru_erase <id>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("bad id: %w", err)
		}
		if r.Erase(id) {
			io.WriteString(replConfig.GetWriter(), "erased\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "not found\n")
		}
		return nil
	}, "Stop tracking id. usage: lru_erase <id>")
	out.AddCommand("lru_victim", func(_ string, replConfig *repl.REPLConfig) error {
		if id, ok := r.Victim(); ok {
			io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%d\n", id))
		} else {
			io.WriteString(replConfig.GetWriter(), "empty\n")
		}
		return nil
	}, "Evict and print the least recently used id. usage: lru_victim")
	out.AddCommand("lru_size", func(_ string, replConfig *repl.REPLConfig) error {
		io.WriteString(replConfig.GetWriter(), fmt.Sprintf("%d\n", r.Size()))
		return nil
	}, "Print the number of tracked ids. usage: lru_size")
	return out
}
