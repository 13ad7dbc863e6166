// Main executable for storectl, the storage-core REPL: hash table, LRU
// replacer, lock manager, and B+Tree index, each addressable from its own
// command prefix, plus a history command backed by the event log the
// buffer pool manager and lock manager write to.
package main

import (
	"flag"
	"fmt"
	"io"

	uuid "github.com/google/uuid"

	btree "github.com/basaltdb/engine/pkg/btree"
	buffer "github.com/basaltdb/engine/pkg/buffer"
	concurrency "github.com/basaltdb/engine/pkg/concurrency"
	config "github.com/basaltdb/engine/pkg/config"
	diag "github.com/basaltdb/engine/pkg/diag"
	disk "github.com/basaltdb/engine/pkg/disk"
	hash "github.com/basaltdb/engine/pkg/hash"
	replacer "github.com/basaltdb/engine/pkg/replacer"
	repl "github.com/basaltdb/engine/pkg/repl"
)

func historyRepl(log *diag.EventLog) *repl.REPL {
	r := repl.NewRepl()
	r.AddCommand("history", func(payload string, replConfig *repl.REPLConfig) error {
		n := 10
		lines, err := log.Tail(n)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			io.WriteString(replConfig.GetWriter(), "no events recorded\n")
			return nil
		}
		for _, line := range lines {
			io.WriteString(replConfig.GetWriter(), line+"\n")
		}
		return nil
	}, "Print the most recent buffer-pool and lock events, newest first. usage: history")
	return r
}

func main() {
	dbFlag := flag.String("db", "storectl.db", "path to the backing page file")
	logFlag := flag.String("log", "storectl.log", "path to the event log")
	numFrames := flag.Int("frames", config.NumFrames, "number of buffer pool frames")
	quiet := flag.Bool("c", false, "whether to print the prompt")
	flag.Parse()

	d, err := disk.Open(*dbFlag)
	if err != nil {
		fmt.Println(err)
		return
	}
	bpm := buffer.New(d, *numFrames)

	log, err := diag.OpenEventLog(*logFlag)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer log.Close()
	bpm.SetEventLog(log)

	hashTable := hash.NewExtendibleHashTable[int64, string](config.HashBucketSize, hash.Int64Hash)
	lru := replacer.NewLRUReplacer[int]()
	lockManager := concurrency.NewLockManager()
	lockManager.SetEventLog(log)
	txnManager := concurrency.NewManager()

	index, err := btree.New[btree.Key8]("storectl-index", bpm, btree.Compare8, btree.Codec8)
	if err != nil {
		fmt.Println(err)
		return
	}

	combined, err := repl.CombineRepls([]*repl.REPL{
		hash.Repl(hashTable),
		replacer.Repl(lru),
		concurrency.Repl(lockManager, txnManager),
		btree.Repl(index),
		historyRepl(log),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	combined.Run(nil, uuid.New(), config.Prompt(*quiet))
}
