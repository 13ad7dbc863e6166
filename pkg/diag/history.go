// Package diag provides operational diagnostics for the storage core: an
// append-only event log that the buffer pool manager and lock manager
// write to, and a reverse tailer so `cmd/storectl`'s `history` command can
// show the most recent events without reading the whole file.
package diag

import (
	"fmt"
	"io"
	"os"
	"sync"

	backscanner "github.com/icza/backscanner"
)

// EventLog is a newline-delimited append-only log. A nil *EventLog is a
// valid no-op sink, so callers that don't care about history can pass nil
// without an extra branch at every call site.
type EventLog struct {
	mu   sync.Mutex
	file *os.File
}

// OpenEventLog opens (creating if necessary) the event log at path for
// appending and reverse-tailing.
func OpenEventLog(path string) (*EventLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return &EventLog{file: f}, nil
}

// Close closes the underlying file.
func (l *EventLog) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// Record appends one "component: message" line.
func (l *EventLog) Record(component, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "%s: %s\n", component, fmt.Sprintf(format, args...))
}

// Tail returns up to n of the most recent log lines, most recent first,
// scanning backward from the end of the file via backscanner so it never
// reads a line it doesn't need.
func (l *EventLog) Tail(n int) ([]string, error) {
	if l == nil {
		return nil, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	info, err := l.file.Stat()
	if err != nil {
		return nil, err
	}
	scanner := backscanner.New(l.file, int(info.Size()))
	lines := make([]string, 0, n)
	first := true
	for len(lines) < n {
		line, _, err := scanner.Line()
		if err != nil {
			if err == io.EOF {
				break
			}
			return lines, err
		}
		if first {
			first = false
			if line == "" {
				// The empty segment after the log's final newline.
				continue
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}
