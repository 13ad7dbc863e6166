package diag

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestEventLog(t *testing.T) *EventLog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.log")
	log, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("OpenEventLog: %v", err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestEventLogRecordAndTail(t *testing.T) {
	log := newTestEventLog(t)
	for i := 0; i < 5; i++ {
		log.Record("bpm", "event %d", i)
	}
	lines, err := log.Tail(3)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	want := []string{"bpm: event 4", "bpm: event 3", "bpm: event 2"}
	for i, w := range want {
		if lines[i] != w {
			t.Fatalf("line %d: expected %q, got %q", i, w, lines[i])
		}
	}
}

func TestEventLogTailMoreThanWritten(t *testing.T) {
	log := newTestEventLog(t)
	log.Record("lock", "only event")
	lines, err := log.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 1 || lines[0] != "lock: only event" {
		t.Fatalf("unexpected tail result: %v", lines)
	}
}

func TestEventLogTailEmpty(t *testing.T) {
	log := newTestEventLog(t)
	lines, err := log.Tail(5)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected no lines from an empty log, got %v", lines)
	}
}

func TestNilEventLogIsNoOp(t *testing.T) {
	var log *EventLog
	log.Record("bpm", "should not panic")
	if err := log.Close(); err != nil {
		t.Fatalf("Close on nil log: %v", err)
	}
	lines, err := log.Tail(5)
	if err != nil || lines != nil {
		t.Fatalf("Tail on nil log: lines=%v err=%v", lines, err)
	}
}

func TestEventLogPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	log, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("OpenEventLog: %v", err)
	}
	log.Record("bpm", "first")
	log.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}

	log2, err := OpenEventLog(path)
	if err != nil {
		t.Fatalf("reopen OpenEventLog: %v", err)
	}
	defer log2.Close()
	log2.Record("bpm", "second")
	lines, err := log2.Tail(2)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(lines) != 2 || lines[0] != "bpm: second" || lines[1] != "bpm: first" {
		t.Fatalf("unexpected tail after reopen: %v", lines)
	}
}
