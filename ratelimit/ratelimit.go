// Package ratelimit caps the number of contact submission attempts a
// single client identifier may make within a fixed window.
package ratelimit

import (
	"sync"
	"time"
)

// Default limits for contact submissions.
const (
	DefaultWindow      = 15 * time.Minute
	DefaultMaxRequests = 5
)

// Result reports the outcome of a single rate-limit check.
type Result struct {
	Limited    bool
	RetryAfter time.Duration // How long the caller should wait before retrying.
}

// Store interface wraps a rate-limit backend. Implementations record the
// attempt and decide synchronously; they never perform external I/O.
type Store interface {
	CheckAndRecord(key string) Result
}

type record struct {
	count         int
	windowResetAt time.Time
}

// MemoryStore is a fixed-window limiter backed by a process-local map.
// State lives for the lifetime of the process and is not shared across
// instances, so it only bounds traffic per deployment.
type MemoryStore struct {
	window      time.Duration
	maxRequests int
	now         func() time.Time

	mu      sync.Mutex
	records map[string]record
}

// NewMemoryStore creates a MemoryStore with the given window duration and
// per-window request cap. Non-positive arguments fall back to the defaults.
func NewMemoryStore(window time.Duration, maxRequests int) *MemoryStore {
	if window <= 0 {
		window = DefaultWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	return &MemoryStore{
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
		records:     make(map[string]record),
	}
}

// SetClock overrides the time source. For testing window expiry.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.now = now
}

// CheckAndRecord counts an attempt against key and reports whether the
// caller is over the limit. A fresh or expired window restarts the count
// at 1. Attempts past the cap are reported limited without incrementing
// further.
func (s *MemoryStore) CheckAndRecord(key string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, ok := s.records[key]
	if !ok || now.After(rec.windowResetAt) {
		s.records[key] = record{count: 1, windowResetAt: now.Add(s.window)}
		return Result{Limited: false, RetryAfter: s.window}
	}
	if rec.count >= s.maxRequests {
		return Result{Limited: true, RetryAfter: s.window}
	}
	rec.count++
	s.records[key] = rec
	return Result{Limited: false, RetryAfter: s.window}
}
