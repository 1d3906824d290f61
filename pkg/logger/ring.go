package logger

import (
	"encoding/json"
	"sync"
)

// Entry is one captured log event, decoded from the zerolog JSON line.
type Entry struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Ring is a bounded in-memory capture of log events. It implements
// io.Writer so it can be tee'd into the zerolog output, and keeps only
// the most recent entries. Safe for concurrent use: the HTTP server reads
// it while a run is logging.
type Ring struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewRing creates a ring holding up to size entries.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1000
	}
	return &Ring{
		entries: make([]Entry, size),
	}
}

// Write captures one zerolog event line. Lines that do not decode as a
// log event are dropped; capture must never fail the writer chain.
func (r *Ring) Write(p []byte) (int, error) {
	var e Entry
	if err := json.Unmarshal(p, &e); err != nil || e.Message == "" && e.Level == "" {
		return len(p), nil
	}

	r.mu.Lock()
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()

	return len(p), nil
}

// Recent returns up to n entries, oldest first.
func (r *Ring) Recent(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ordered []Entry
	if r.full {
		ordered = append(ordered, r.entries[r.next:]...)
		ordered = append(ordered, r.entries[:r.next]...)
	} else {
		ordered = append(ordered, r.entries[:r.next]...)
	}

	if n > 0 && len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

// Len returns the number of captured entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}
