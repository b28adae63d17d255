package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultBufferCapacity is used when [NewCircularBuffer] is given a
// non-positive capacity.
const DefaultBufferCapacity = 100

// CircularBuffer retains the most recent log records written to it. Each
// call to Write is one record; once full, the oldest record is dropped.
// It is safe for concurrent use.
//
// The TUI logs into a CircularBuffer while it owns the terminal, shows the
// tail in its log overlay, and flushes the buffer to stderr on exit.
type CircularBuffer struct {
	entries [][]byte
	next    int
	size    int
	dropped int
	mu      sync.RWMutex
}

// NewCircularBuffer creates a buffer holding up to capacity records.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}

	return &CircularBuffer{entries: make([][]byte, capacity)}
}

// Write implements [io.Writer]. The data is copied.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := append([]byte(nil), p...)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.size == len(cb.entries) {
		cb.dropped++
	} else {
		cb.size++
	}

	cb.entries[cb.next] = entry
	cb.next = (cb.next + 1) % len(cb.entries)

	return len(p), nil
}

// Entries returns copies of the retained records, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.lastLocked(cb.size)
}

// Tail returns up to n of the newest records as trimmed strings, oldest first.
func (cb *CircularBuffer) Tail(n int) []string {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	entries := cb.lastLocked(min(max(n, 0), cb.size))

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, strings.TrimRight(string(e), "\n"))
	}

	return lines
}

func (cb *CircularBuffer) lastLocked(n int) [][]byte {
	if n == 0 {
		return nil
	}

	capacity := len(cb.entries)
	start := (cb.next - n + capacity) % capacity

	out := make([][]byte, 0, n)
	for i := range n {
		e := cb.entries[(start+i)%capacity]
		out = append(out, append([]byte(nil), e...))
	}

	return out
}

// Size returns the number of retained records.
func (cb *CircularBuffer) Size() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size
}

// Capacity returns the maximum number of retained records.
func (cb *CircularBuffer) Capacity() int {
	return len(cb.entries)
}

// Dropped returns how many records were overwritten.
func (cb *CircularBuffer) Dropped() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.dropped
}

// IsFull reports whether the next write will drop a record.
func (cb *CircularBuffer) IsFull() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	return cb.size == len(cb.entries)
}

// Clear drops every retained record.
func (cb *CircularBuffer) Clear() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	clear(cb.entries)
	cb.next, cb.size, cb.dropped = 0, 0, 0
}

// WriteTo implements [io.WriterTo], writing the retained records in order.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		n, err := w.Write(entry)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}
