package main

import (
	"strings"
	"time"
)

// dedupeWindow remembers sentences seen recently so that a sentence heard
// by two receivers, or relayed over two feeds, is only processed once.
type dedupeWindow struct {
	window time.Duration
	seen   map[string]time.Time
}

func newDedupeWindow(window time.Duration) *dedupeWindow {
	return &dedupeWindow{window: window, seen: make(map[string]time.Time)}
}

// dedupeKey drops the receiver tags after the checksum, which differ
// per receiver.
func dedupeKey(line string) string {
	line = strings.TrimSpace(line)
	if star := strings.IndexByte(line, '*'); star >= 0 && star+3 <= len(line) {
		line = line[:star+3]
	}
	return line
}

// isDuplicate reports whether line was seen within the window, and records
// it otherwise.
func (w *dedupeWindow) isDuplicate(line string, now time.Time) bool {
	if w == nil || w.window <= 0 {
		return false
	}
	key := dedupeKey(line)
	if ts, ok := w.seen[key]; ok && now.Sub(ts) < w.window {
		return true
	}
	w.seen[key] = now
	return false
}

// filter forgets entries older than the window.
func (w *dedupeWindow) filter(now time.Time) {
	if w == nil {
		return
	}
	cutoff := now.Add(-w.window)
	for k, ts := range w.seen {
		if !ts.After(cutoff) {
			delete(w.seen, k)
		}
	}
}
